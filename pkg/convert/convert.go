// Package convert translates parsed POSIX shell scripts into Nushell source.
//
// The front end walks the syntax tree and dispatches every simple command
// through a tiered registry of per-command converters; control flow and
// redirections are translated structurally. Conversion never fails: commands
// without a faithful translation degrade to delegated external invocations
// or annotated best-effort output.
package convert

import (
	"fmt"
	"strings"

	"github.com/nuposix/nuposix/pkg/parse"
	"github.com/nuposix/nuposix/pkg/syntax"
)

// Config keeps configuration for conversion.
type Config struct {
	// Registry to dispatch command conversions through. Nil means [Default].
	Registry *Registry
	// Compact renders block bodies on a single line instead of indenting
	// them.
	Compact bool
	// Strict propagates grammar parse errors from [Text] instead of letting
	// the parser fall back heuristically.
	Strict bool
}

// Text parses code and converts it. The returned error can only be a parse
// error, and only when cfg.Strict is set.
func Text(code string, cfg Config) (string, error) {
	script, err := parse.Parse(
		parse.Source{Name: "[input]", Code: code},
		parse.Config{Strict: cfg.Strict})
	if err != nil {
		return "", err
	}
	return Script(script, cfg), nil
}

// Script converts an already parsed script. It always succeeds.
func Script(script *syntax.Script, cfg Config) string {
	c := &converter{registry: cfg.Registry, compact: cfg.Compact}
	if c.registry == nil {
		c.registry = Default
	}
	parts := make([]string, 0, len(script.Commands))
	for _, cmd := range script.Commands {
		parts = append(parts, resolveNotes(c.command(cmd), c.compact))
	}
	if c.compact {
		return strings.Join(parts, "; ")
	}
	return strings.Join(parts, "\n")
}

type converter struct {
	registry *Registry
	compact  bool
}

func (c *converter) command(cmd syntax.Command) string {
	switch cmd := cmd.(type) {
	case *syntax.Simple:
		return c.simple(cmd)
	case *syntax.Pipeline:
		return c.pipeline(cmd)
	case *syntax.AndOr:
		return c.andOr(cmd)
	case *syntax.Compound:
		return c.applyRedirs(c.compoundKind(cmd.Kind), cmd.Redirs)
	case *syntax.FuncDef:
		return fmt.Sprintf("def %s [] %s", cmd.Name, c.block(cmd.Body))
	}
	return ""
}

func (c *converter) simple(cmd *syntax.Simple) string {
	var sb strings.Builder
	for _, a := range cmd.Assignments {
		fmt.Fprintf(&sb, "$%s = %s; ", a.Name, QuoteForce(a.Value))
	}
	body := ""
	if cmd.Name != "" {
		body = c.registry.convert(cmd.Name, cmd.Args)
	}
	body = c.applyRedirs(body, cmd.Redirs)
	if body == "" {
		// Pure assignment statement.
		return strings.TrimSuffix(sb.String(), "; ")
	}
	return sb.String() + body
}

func (c *converter) pipeline(p *syntax.Pipeline) string {
	parts := make([]string, len(p.Stages))
	for i, stage := range p.Stages {
		parts[i] = c.command(stage)
	}
	out := strings.Join(parts, " | ")
	if p.Background {
		out = annotate(out, "background job (&)")
	}
	return out
}

func (c *converter) andOr(a *syntax.AndOr) string {
	left, right := c.command(a.Left), c.command(a.Right)
	if a.Or {
		// Exit-code short-circuiting approximated with try/catch; an error
		// thrown by the left side stands in for its non-zero exit status.
		return fmt.Sprintf("try { %s } catch { %s }", left, right)
	}
	return fmt.Sprintf("(%s) and (%s)", left, right)
}

// block renders a command sequence as a braced block.
func (c *converter) block(cmds []syntax.Command) string {
	parts := make([]string, 0, len(cmds))
	for _, cmd := range cmds {
		parts = append(parts, c.command(cmd))
	}
	if c.compact {
		if len(parts) == 0 {
			return "{ }"
		}
		return "{ " + strings.Join(parts, "; ") + " }"
	}
	var sb strings.Builder
	sb.WriteString("{\n")
	for _, p := range parts {
		sb.WriteString(indentLines(p, "  "))
		sb.WriteByte('\n')
	}
	sb.WriteByte('}')
	return sb.String()
}

// condList renders the condition of a loop or branch.
func (c *converter) condList(cmds []syntax.Command) string {
	parts := make([]string, 0, len(cmds))
	for _, cmd := range cmds {
		parts = append(parts, c.command(cmd))
	}
	return strings.Join(parts, "; ")
}

func indentLines(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}
