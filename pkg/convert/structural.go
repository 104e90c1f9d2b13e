package convert

import (
	"fmt"
	"strings"

	"github.com/nuposix/nuposix/pkg/syntax"
)

// Structural translation of compound commands and redirections.

func (c *converter) compoundKind(kind syntax.CompoundKind) string {
	switch kind := kind.(type) {
	case *syntax.BraceGroup:
		return c.block(kind.Body)
	case *syntax.Subshell:
		return "(" + c.condList(kind.Body) + ")"
	case *syntax.For:
		return c.forLoop(kind)
	case *syntax.While:
		return fmt.Sprintf("while %s %s", c.condList(kind.Condition), c.block(kind.Body))
	case *syntax.Until:
		return fmt.Sprintf("while not (%s) %s", c.condList(kind.Condition), c.block(kind.Body))
	case *syntax.If:
		return c.ifChain(kind)
	case *syntax.Case:
		return c.caseMatch(kind)
	case *syntax.Arithmetic:
		return "math eval " + QuoteForce(arithExpr(kind.Expression))
	}
	return ""
}

func (c *converter) forLoop(f *syntax.For) string {
	items := "$in"
	if len(f.Words) > 0 {
		items = "[" + quoteAllSep(f.Words, ", ") + "]"
	}
	if c.compact {
		return fmt.Sprintf("%s | each { |%s| %s }",
			items, f.Var, c.condList(f.Body))
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s | each { |%s|\n", items, f.Var)
	for _, cmd := range f.Body {
		sb.WriteString(indentLines(c.command(cmd), "  "))
		sb.WriteByte('\n')
	}
	sb.WriteByte('}')
	return sb.String()
}

func (c *converter) ifChain(n *syntax.If) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "if %s %s", c.condList(n.Condition), c.block(n.Then))
	for _, elif := range n.Elifs {
		fmt.Fprintf(&sb, " else if %s %s", c.condList(elif.Condition), c.block(elif.Body))
	}
	if n.Else != nil {
		sb.WriteString(" else " + c.block(n.Else))
	}
	return sb.String()
}

func (c *converter) caseMatch(n *syntax.Case) string {
	arms := make([]string, len(n.Items))
	for i, item := range n.Items {
		patterns := make([]string, len(item.Patterns))
		for j, p := range item.Patterns {
			if p == "*" {
				// The shell wildcard arm becomes the default arm.
				patterns[j] = "_"
			} else {
				patterns[j] = QuoteForce(p)
			}
		}
		arms[i] = strings.Join(patterns, " | ") + " => " + c.block(item.Body)
	}
	head := "match " + Quote(n.Word) + " "
	if c.compact {
		return head + "{ " + strings.Join(arms, ", ") + " }"
	}
	var sb strings.Builder
	sb.WriteString(head + "{\n")
	for _, arm := range arms {
		sb.WriteString(indentLines(arm, "  "))
		sb.WriteByte('\n')
	}
	sb.WriteByte('}')
	return sb.String()
}

// arithExpr maps the arithmetic operators of the source dialect onto the
// target's math language. The basic operators coincide, so the substitution
// only has to normalize whitespace and the power operator.
func arithExpr(expr string) string {
	expr = strings.ReplaceAll(expr, "**", "^")
	return strings.Join(strings.Fields(expr), " ")
}

// applyRedirs attaches the redirections of a command to its translated body.
// Here-documents and here-strings become a string piped into the command;
// everything else is appended as a stream redirection. Redirections on
// non-default file descriptors have no structural counterpart and degrade to
// an annotation.
func (c *converter) applyRedirs(body string, redirs []syntax.Redir) string {
	var pre string
	var post, notes []string
	for _, r := range redirs {
		switch {
		case r.Mode == syntax.HereDoc || r.Mode == syntax.HereString:
			pre += QuoteForce(r.Target) + " | "
		case r.FD >= 0 || strings.HasPrefix(r.Target, "&"):
			notes = append(notes,
				fmt.Sprintf("fd redirection %s not representable", describeRedir(r)))
		default:
			post = append(post, redirString(r))
		}
	}
	out := pre + body
	if len(post) > 0 {
		if out != "" {
			out += " "
		}
		out += strings.Join(post, " ")
	}
	for _, note := range notes {
		out = annotate(out, note)
	}
	return out
}

func redirString(r syntax.Redir) string {
	switch r.Mode {
	case syntax.Read:
		return "< " + Quote(r.Target)
	case syntax.Write:
		return "out> " + Quote(r.Target)
	case syntax.Append:
		return "out>> " + Quote(r.Target)
	case syntax.ErrWrite:
		return "err> " + Quote(r.Target)
	case syntax.ErrAppend:
		return "err>> " + Quote(r.Target)
	case syntax.ReadWrite:
		return "<> " + Quote(r.Target)
	}
	return annotate("", "unsupported redirection to "+Quote(r.Target))
}

func describeRedir(r syntax.Redir) string {
	fd := ""
	if r.FD >= 0 {
		fd = fmt.Sprint(r.FD)
	}
	op := ">"
	switch r.Mode {
	case syntax.Read, syntax.ReadWrite:
		op = "<"
	case syntax.Append, syntax.ErrAppend:
		op = ">>"
	}
	return fd + op + r.Target
}
