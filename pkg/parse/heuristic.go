package parse

import (
	"strings"

	"github.com/nuposix/nuposix/pkg/syntax"
)

// parseHeuristic is the fallback parser. It never fails: it groups lines into
// balanced blocks, parses each block with the grammar parser, and degrades to
// verbatim simple commands for blocks the grammar cannot handle. Panics in
// the grammar parser are recovered and treated like a parse failure.
func parseHeuristic(src Source) *syntax.Script {
	script := &syntax.Script{}
	for _, block := range groupLines(src.Code) {
		script.Commands = append(script.Commands,
			parseBlock(src.Name, block)...)
	}
	return script
}

func parseBlock(name, block string) (cmds []syntax.Command) {
	defer func() {
		if recover() != nil {
			cmds = rawCommands(block)
		}
	}()
	if parsed, err := parsePrimary(Source{Name: name, Code: block}); err == nil {
		return parsed.Commands
	}
	return rawCommands(block)
}

// rawCommands splits each line into words and emits them as simple commands,
// preserving the text of anything that defied parsing.
func rawCommands(block string) []syntax.Command {
	var cmds []syntax.Command
	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words := splitWords(line)
		if len(words) == 0 {
			continue
		}
		cmds = append(cmds, &syntax.Simple{Name: words[0], Args: words[1:]})
	}
	return cmds
}

// splitWords splits a line on unquoted whitespace. Quotes are stripped;
// unbalanced quotes swallow the rest of the line instead of failing.
func splitWords(line string) []string {
	var words []string
	var sb strings.Builder
	got := false
	var quote byte
	for i := 0; i < len(line); i++ {
		b := line[i]
		switch {
		case quote == '\'':
			if b == '\'' {
				quote = 0
			} else {
				sb.WriteByte(b)
			}
		case quote == '"':
			if b == '"' {
				quote = 0
			} else if b == '\\' && i+1 < len(line) {
				i++
				sb.WriteByte(line[i])
			} else {
				sb.WriteByte(b)
			}
		case b == '\'' || b == '"':
			quote = b
			got = true
		case b == '\\' && i+1 < len(line):
			i++
			sb.WriteByte(line[i])
			got = true
		case b == ' ' || b == '\t':
			if got {
				words = append(words, sb.String())
				sb.Reset()
				got = false
			}
		default:
			sb.WriteByte(b)
			got = true
		}
	}
	if got {
		words = append(words, sb.String())
	}
	return words
}

// Keyword balance deltas used when grouping lines into blocks. An opener
// keeps the following lines in the same block until its closer appears.
var blockDelta = map[string]int{
	"if": 1, "fi": -1,
	"for": 1, "while": 1, "until": 1, "done": -1,
	"{": 1, "}": -1,
}

// groupLines splits a script into blocks of lines. Lines belonging to one
// multi-line construct stay in the same block, as do lines joined by trailing
// continuations (backslash, pipe, && or ||).
func groupLines(code string) []string {
	var blocks []string
	var cur []string
	depth, caseDepth := 0, 0
	cont := false
	heredoc := ""
	flush := func() {
		if len(cur) > 0 {
			blocks = append(blocks, strings.Join(cur, "\n"))
			cur = nil
		}
	}
	for _, line := range strings.Split(code, "\n") {
		trimmed := strings.TrimSpace(line)
		if heredoc != "" {
			// Inside a here-document body nothing counts towards the
			// balance, only the terminating delimiter line.
			cur = append(cur, line)
			if strings.TrimLeft(line, "\t") == heredoc {
				heredoc = ""
				if depth == 0 && !cont {
					flush()
				}
			}
			continue
		}
		if trimmed == "" && depth == 0 && !cont {
			flush()
			continue
		}
		cur = append(cur, line)
		for _, tok := range lineTokens(trimmed) {
			if strings.HasPrefix(tok, "<<") && !strings.HasPrefix(tok, "<<<") {
				heredoc = strings.Trim(strings.TrimLeft(tok, "<-"), `"'`)
				continue
			}
			switch tok {
			case "case":
				depth++
				caseDepth++
			case "esac":
				depth--
				caseDepth--
			case "(", ")":
				// Parens inside a case are almost always pattern delimiters,
				// not subshells, so they don't count towards the balance
				// there.
				if caseDepth == 0 {
					if tok == "(" {
						depth++
					} else {
						depth--
					}
				}
			default:
				depth += blockDelta[tok]
			}
		}
		if depth < 0 {
			depth = 0
		}
		if caseDepth < 0 {
			caseDepth = 0
		}
		cont = lineContinues(trimmed)
		if depth == 0 && !cont && heredoc == "" {
			flush()
		}
	}
	flush()
	return blocks
}

// lineContinues reports whether a line is continued on the next one.
func lineContinues(line string) bool {
	toks := lineTokens(line)
	if len(toks) == 0 {
		return false
	}
	switch toks[len(toks)-1] {
	case "|", "&&", "||", "\\":
		return true
	}
	return strings.HasSuffix(line, "\\")
}

// lineTokens tokenizes a line coarsely: barewords, parens and the join
// operators, skipping quoted text and comments. It is only used for line
// grouping, not for parsing proper.
func lineTokens(line string) []string {
	var toks []string
	var sb strings.Builder
	var quote byte
	emit := func() {
		if sb.Len() > 0 {
			toks = append(toks, sb.String())
			sb.Reset()
		}
	}
	for i := 0; i < len(line); i++ {
		b := line[i]
		if quote != 0 {
			if b == quote {
				quote = 0
			} else if b == '\\' && quote == '"' {
				i++
			}
			continue
		}
		switch b {
		case '\'', '"':
			quote = b
			// The quoted part still belongs to some word.
			sb.WriteByte('q')
		case '\\':
			if i+1 < len(line) {
				i++
				sb.WriteByte('q')
			} else {
				emit()
				toks = append(toks, "\\")
			}
		case '#':
			if sb.Len() == 0 {
				emit()
				return toks
			}
			sb.WriteByte(b)
		case ' ', '\t', ';':
			emit()
		case '(', ')':
			emit()
			toks = append(toks, string(b))
		case '|':
			emit()
			if i+1 < len(line) && line[i+1] == '|' {
				i++
				toks = append(toks, "||")
			} else {
				toks = append(toks, "|")
			}
		case '&':
			emit()
			if i+1 < len(line) && line[i+1] == '&' {
				i++
				toks = append(toks, "&&")
			}
		default:
			sb.WriteByte(b)
		}
	}
	emit()
	return toks
}
