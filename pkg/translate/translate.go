// Package translate provides the converter subprogram: it reads POSIX shell
// source, parses it, and writes the Nushell conversion.
package translate

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"

	"github.com/nuposix/nuposix/pkg/cache"
	"github.com/nuposix/nuposix/pkg/convert"
	"github.com/nuposix/nuposix/pkg/logutil"
	"github.com/nuposix/nuposix/pkg/parse"
	"github.com/nuposix/nuposix/pkg/prog"
)

var logger = logutil.GetLogger("[translate] ")

// Program is the converter subprogram. It always runs, so it must be the
// last program passed to [prog.Run].
type Program struct {
	codeInArg bool
	pretty    bool
	compact   bool
	strict    bool
	dumpAST   bool
	toPosix   bool

	out        string
	cachePath  string
	configPath string
}

func (p *Program) RegisterFlags(fs *prog.FlagSet) {
	fs.BoolVar(&p.codeInArg, "c", false,
		"Take the first argument as code to convert")
	fs.BoolVar(&p.pretty, "pretty", false,
		"Output indented blocks (default when stdout is a terminal)")
	fs.BoolVar(&p.compact, "compact", false,
		"Output single-line blocks (default when stdout is not a terminal)")
	fs.BoolVar(&p.strict, "strict", false,
		"Fail on grammar parse errors instead of falling back")
	fs.BoolVar(&p.dumpAST, "parse", false,
		"Output the syntax tree as JSON instead of converting")
	fs.BoolVar(&p.toPosix, "to-posix", false,
		"Convert Nushell back to POSIX shell (experimental)")
	fs.StringVar(&p.out, "o", "",
		"Write output to the named file instead of stdout")
	fs.StringVar(&p.cachePath, "cache", "",
		"Cache conversion results in the named database file")
	fs.StringVar(&p.configPath, "config", "",
		"Read defaults from the named YAML file")
}

// options are the YAML-configurable defaults. Explicit flags win over them.
type options struct {
	PreferPrimaryParser *bool `yaml:"prefer_primary_parser"`
	StrictMode          bool  `yaml:"strict_mode"`
	PrettyPrint         *bool `yaml:"pretty_print"`
}

func loadOptions(path string) (options, error) {
	var opts options
	if path == "" {
		return opts, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return opts, err
	}
	if err := yaml.Unmarshal(b, &opts); err != nil {
		return opts, fmt.Errorf("parse config %v: %v", path, err)
	}
	return opts, nil
}

func (p *Program) Run(fds [3]*os.File, args []string) error {
	opts, err := loadOptions(p.configPath)
	if err != nil {
		return err
	}

	srcs, err := p.gatherSources(fds[0], args)
	if err != nil {
		return err
	}

	out := io.Writer(fds[1])
	if p.out != "" {
		f, err := os.Create(p.out)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	compact := !p.prettyOn(opts, fds[1])
	parseCfg := parse.Config{
		Strict:      p.strict || opts.StrictMode,
		SkipGrammar: opts.PreferPrimaryParser != nil && !*opts.PreferPrimaryParser,
	}

	var store *cache.Store
	if p.cachePath != "" && !p.dumpAST && !p.toPosix {
		store, err = cache.Open(p.cachePath)
		if err != nil {
			return err
		}
		defer store.Close()
	}

	for _, src := range srcs {
		switch {
		case p.dumpAST:
			err = dumpAST(out, src, parseCfg)
		case p.toPosix:
			err = reverse(out, src.Code)
		default:
			err = convertOne(out, src, parseCfg, compact, store)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (p *Program) gatherSources(stdin *os.File, args []string) ([]parse.Source, error) {
	if p.codeInArg {
		if len(args) == 0 {
			return nil, prog.BadUsage("-c requires an argument")
		}
		return []parse.Source{{Name: "[code]", Code: args[0]}}, nil
	}
	if len(args) == 0 {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return nil, err
		}
		return []parse.Source{{Name: "[stdin]", Code: string(b)}}, nil
	}
	srcs := make([]parse.Source, len(args))
	for i, name := range args {
		b, err := os.ReadFile(name)
		if err != nil {
			return nil, err
		}
		srcs[i] = parse.Source{Name: name, Code: string(b)}
	}
	return srcs, nil
}

func (p *Program) prettyOn(opts options, stdout *os.File) bool {
	switch {
	case p.compact:
		return false
	case p.pretty:
		return true
	case opts.PrettyPrint != nil:
		return *opts.PrettyPrint
	default:
		return isatty.IsTerminal(stdout.Fd())
	}
}

func convertOne(out io.Writer, src parse.Source, cfg parse.Config, compact bool, store *cache.Store) error {
	if store != nil {
		result, err := store.Get(src.Code, compact)
		if err == nil {
			logger.Println("cache hit for", src.Name)
			_, err = io.WriteString(out, withEOL(result))
			return err
		}
		if err != cache.ErrNoCachedResult {
			return err
		}
	}

	script, err := parse.Parse(src, cfg)
	if err != nil {
		return fmt.Errorf("cannot parse %v: %v", src.Name, err)
	}
	result := convert.Script(script, convert.Config{Compact: compact})

	if store != nil {
		if err := store.Put(src.Code, compact, result); err != nil {
			logger.Println("cache put failed:", err)
		}
	}
	_, err = io.WriteString(out, withEOL(result))
	return err
}

func dumpAST(out io.Writer, src parse.Source, cfg parse.Config) error {
	script, err := parse.Parse(src, cfg)
	if err != nil {
		return fmt.Errorf("cannot parse %v: %v", src.Name, err)
	}
	b, err := json.MarshalIndent(script.ToMap(), "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	_, err = out.Write(b)
	return err
}

func withEOL(s string) string {
	if s == "" || s[len(s)-1] == '\n' {
		return s
	}
	return s + "\n"
}
