package translate

import (
	"io"
	"strings"
)

// Reverse conversion from Nushell back to POSIX shell. This is experimental
// and line-based: only translations with an unambiguous inverse are undone,
// and every other line is emitted as an annotated comment so the output
// stays runnable.

func reverse(out io.Writer, code string) error {
	var sb strings.Builder
	for _, line := range strings.Split(strings.TrimRight(code, "\n"), "\n") {
		sb.WriteString(reverseLine(line))
		sb.WriteByte('\n')
	}
	_, err := io.WriteString(out, sb.String())
	return err
}

func reverseLine(line string) string {
	indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
	trimmed := strings.TrimSpace(line)
	switch {
	case trimmed == "" || strings.HasPrefix(trimmed, "#"):
		return line
	case trimmed == "print":
		return indent + "echo"
	case strings.HasPrefix(trimmed, "print "):
		return indent + "echo " + trimmed[len("print "):]
	case strings.HasPrefix(trimmed, "^"):
		// Delegated external commands run the same way in both dialects.
		return indent + trimmed[1:]
	}
	if name, value, ok := reverseAssignment(trimmed); ok {
		return indent + name + "=" + value
	}
	if sameInBothDialects(trimmed) {
		return line
	}
	return indent + "# nuposix: no reverse translation: " + trimmed
}

// reverseAssignment undoes `$name = value`.
func reverseAssignment(line string) (name, value string, ok bool) {
	if !strings.HasPrefix(line, "$") {
		return "", "", false
	}
	rest := line[1:]
	i := strings.Index(rest, " = ")
	if i <= 0 {
		return "", "", false
	}
	name = rest[:i]
	for j := 0; j < len(name); j++ {
		b := name[j]
		if !(b == '_' || 'a' <= b && b <= 'z' || 'A' <= b && b <= 'Z' ||
			j > 0 && '0' <= b && b <= '9') {
			return "", "", false
		}
	}
	value = rest[i+len(" = "):]
	if v, ok := unquote(value); ok {
		value = v
	}
	return name, value, true
}

// unquote strips a double-quoted string when the content needs no quoting in
// shell syntax.
func unquote(s string) (string, bool) {
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return "", false
	}
	inner := s[1 : len(s)-1]
	if strings.ContainsAny(inner, "\\\"'$` \t|&;<>()*?#~") {
		return "", false
	}
	return inner, true
}

// Commands spelled identically in both dialects.
var sharedCommands = []string{
	"cd", "exit", "true", "false", "pwd", "ls", "mkdir", "rm", "mv", "cp",
	"sort", "uniq", "which", "ps", "seq", "kill",
}

func sameInBothDialects(line string) bool {
	name, _, _ := strings.Cut(line, " ")
	for _, cmd := range sharedCommands {
		if name == cmd {
			// Long flags and structured arguments do not round-trip.
			return !strings.Contains(line, "--") && !strings.Contains(line, "|")
		}
	}
	return false
}
