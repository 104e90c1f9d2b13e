// Package parse parses POSIX shell source into a syntax tree.
//
// Parsing runs in two strategies. The grammar parser handles well-formed
// scripts and reports precise errors; when it fails and strict mode is off,
// a line-oriented heuristic parser takes over, which always produces a tree
// even for input the grammar cannot make sense of.
package parse

import (
	"fmt"

	"github.com/nuposix/nuposix/pkg/logutil"
	"github.com/nuposix/nuposix/pkg/syntax"
)

var logger = logutil.GetLogger("[parse] ")

// Source describes a piece of source code.
type Source struct {
	// Name describes the source, usually a file path.
	Name string
	// Code is the source code.
	Code string
}

// Config keeps configuration for parsing.
type Config struct {
	// Strict disables the heuristic fallback, so that errors from the
	// grammar parser are returned instead of recovered from.
	Strict bool
	// SkipGrammar bypasses the grammar parser and goes straight to the
	// heuristic parser. It takes precedence over Strict.
	SkipGrammar bool
}

// Parse parses the given source and returns its syntax tree. Unless
// cfg.Strict is set, Parse always succeeds: input rejected by the grammar
// parser is reparsed heuristically.
func Parse(src Source, cfg Config) (*syntax.Script, error) {
	if cfg.SkipGrammar {
		return parseHeuristic(src), nil
	}
	script, err := parseRecover(src)
	if err == nil {
		return script, nil
	}
	if cfg.Strict {
		return nil, err
	}
	logger.Printf("grammar parse of %s failed (%v); falling back", src.Name, err)
	return parseHeuristic(src), nil
}

func parseRecover(src Source) (script *syntax.Script, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("grammar parser panicked: %v", r)
		}
	}()
	return parsePrimary(src)
}
