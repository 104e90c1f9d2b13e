package parse

import "strings"

const metaRunes = " \t\r\n;&|<>()"

// parseWord parses a single shell word at the current position, removing the
// quoting but keeping expansions ($name, ${...}, $(...), $((...)) and
// backquotes) verbatim so that later passes can recognize them. The second
// return value reports whether a word was present at all; note that "" is a
// valid word (for example '').
func (ps *parser) parseWord() (string, bool) {
	var sb strings.Builder
	got := false
	for {
		r := ps.peek()
		if r == eof || strings.ContainsRune(metaRunes, r) {
			break
		}
		got = true
		switch r {
		case '\\':
			ps.next()
			switch r2 := ps.next(); r2 {
			case eof:
				sb.WriteByte('\\')
			case '\n':
				// Line continuation.
			default:
				sb.WriteRune(r2)
			}
		case '\'':
			ps.next()
			for {
				r2 := ps.next()
				if r2 == eof {
					ps.error(IncompleteCommand, errStringUnterminated)
					return sb.String(), true
				}
				if r2 == '\'' {
					break
				}
				sb.WriteRune(r2)
			}
		case '"':
			ps.parseDoubleQuoted(&sb)
		case '$':
			ps.parseDollar(&sb)
		case '`':
			ps.next()
			sb.WriteByte('`')
			for {
				r2 := ps.next()
				if r2 == eof {
					ps.error(IncompleteCommand, errStringUnterminated)
					return sb.String(), true
				}
				sb.WriteRune(r2)
				if r2 == '`' {
					break
				}
			}
		default:
			ps.next()
			sb.WriteRune(r)
		}
	}
	return sb.String(), got
}

func (ps *parser) parseDoubleQuoted(sb *strings.Builder) {
	ps.next() // opening "
	for {
		r := ps.next()
		switch r {
		case eof:
			ps.error(IncompleteCommand, errStringUnterminated)
			return
		case '"':
			return
		case '\\':
			switch r2 := ps.next(); r2 {
			case '"', '\\', '$', '`':
				sb.WriteRune(r2)
			case eof:
				sb.WriteByte('\\')
			default:
				sb.WriteByte('\\')
				sb.WriteRune(r2)
			}
		case '$':
			ps.backup()
			ps.parseDollar(sb)
		default:
			sb.WriteRune(r)
		}
	}
}

// parseDollar copies a $-expansion verbatim, treating its interior as opaque.
func (ps *parser) parseDollar(sb *strings.Builder) {
	ps.next() // $
	sb.WriteByte('$')
	switch {
	case ps.peek() == '(':
		ps.copyBalanced(sb, '(', ')')
	case ps.peek() == '{':
		ps.copyBalanced(sb, '{', '}')
	default:
		r := ps.peek()
		switch {
		case r == eof:
			return
		case r < 128 && (isLetter(byte(r)) || r == '_'):
			for {
				r := ps.peek()
				if r == eof || r >= 128 ||
					!(isLetter(byte(r)) || isDigit(byte(r)) || r == '_') {
					return
				}
				ps.next()
				sb.WriteRune(r)
			}
		case strings.ContainsRune("@*#?$!-0123456789", r):
			ps.next()
			sb.WriteRune(r)
		}
	}
}

// copyBalanced copies a balanced bracket pair and everything inside it,
// ignoring brackets inside single or double quotes.
func (ps *parser) copyBalanced(sb *strings.Builder, opener, closer rune) {
	depth := 0
	var quote rune
	for {
		r := ps.next()
		if r == eof {
			ps.error(IncompleteCommand, errExpansionUnclosed)
			return
		}
		sb.WriteRune(r)
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			} else if r == '\\' && quote == '"' {
				if r2 := ps.next(); r2 != eof {
					sb.WriteRune(r2)
				}
			}
		case r == '\'' || r == '"':
			quote = r
		case r == '\\':
			if r2 := ps.next(); r2 != eof {
				sb.WriteRune(r2)
			}
		case r == opener:
			depth++
		case r == closer:
			depth--
			if depth == 0 {
				return
			}
		}
	}
}
