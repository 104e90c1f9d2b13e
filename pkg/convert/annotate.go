package convert

import "strings"

// Notes explain output that degraded during conversion. They cannot be
// rendered as "# ..." comments at the point a converter produces them,
// since later composition may append pipeline stages or statement
// separators after the comment and lose them to it. Converters instead
// embed notes between marker bytes that no shell text contains, and the
// front end rewrites them into trailing comments once a statement is fully
// assembled.
const (
	noteStart = "\x00"
	noteEnd   = "\x01"
)

// annotate attaches note to expr. The note surfaces as a comment at the end
// of the line that ends up carrying expr.
func annotate(expr, note string) string {
	return expr + noteStart + note + noteEnd
}

// resolveNotes moves every embedded note to the end of its line, or drops
// notes altogether in compact mode, where all statements share one line and
// a comment would consume the rest of it.
func resolveNotes(s string, compact bool) string {
	if !strings.Contains(s, noteStart) {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		var notes []string
		for {
			start := strings.Index(line, noteStart)
			if start < 0 {
				break
			}
			end := strings.Index(line[start:], noteEnd)
			if end < 0 {
				// Unterminated marker; drop the rest of the line's markers.
				line = line[:start]
				break
			}
			notes = append(notes, line[start+len(noteStart):start+end])
			line = line[:start] + line[start+end+len(noteEnd):]
		}
		line = strings.TrimRight(line, " ")
		if !compact && len(notes) > 0 {
			if line == "" {
				line = "# " + strings.Join(notes, "; ")
			} else {
				line += " # " + strings.Join(notes, "; ")
			}
		}
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}
