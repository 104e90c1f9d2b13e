package syntax

// ToMap converts the script to a tree of maps and slices, keyed by node kind.
// The result contains only strings, bools, ints, []any and map[string]any,
// so it can be fed directly to encoding/json or similar serializers. This is
// an introspection surface, not a stability contract.
func (s *Script) ToMap() map[string]any {
	cmds := make([]any, len(s.Commands))
	for i, c := range s.Commands {
		cmds[i] = commandToMap(c)
	}
	return map[string]any{"commands": cmds}
}

func commandToMap(c Command) map[string]any {
	switch c := c.(type) {
	case *Simple:
		return map[string]any{
			"type":        "simple",
			"name":        c.Name,
			"args":        stringsToAny(c.Args),
			"assignments": assignmentsToAny(c.Assignments),
			"redirs":      redirsToAny(c.Redirs),
		}
	case *Pipeline:
		return map[string]any{
			"type":       "pipeline",
			"stages":     commandsToAny(c.Stages),
			"background": c.Background,
		}
	case *AndOr:
		op := "and"
		if c.Or {
			op = "or"
		}
		return map[string]any{
			"type":     "and-or",
			"operator": op,
			"left":     commandToMap(c.Left),
			"right":    commandToMap(c.Right),
		}
	case *Compound:
		m := compoundKindToMap(c.Kind)
		m["redirs"] = redirsToAny(c.Redirs)
		return m
	case *FuncDef:
		return map[string]any{
			"type": "func-def",
			"name": c.Name,
			"body": commandsToAny(c.Body),
		}
	default:
		return map[string]any{"type": "unknown"}
	}
}

func compoundKindToMap(k CompoundKind) map[string]any {
	switch k := k.(type) {
	case *BraceGroup:
		return map[string]any{"type": "brace-group", "body": commandsToAny(k.Body)}
	case *Subshell:
		return map[string]any{"type": "subshell", "body": commandsToAny(k.Body)}
	case *For:
		return map[string]any{
			"type": "for", "var": k.Var,
			"words": stringsToAny(k.Words), "body": commandsToAny(k.Body),
		}
	case *While:
		return map[string]any{
			"type":      "while",
			"condition": commandsToAny(k.Condition), "body": commandsToAny(k.Body),
		}
	case *Until:
		return map[string]any{
			"type":      "until",
			"condition": commandsToAny(k.Condition), "body": commandsToAny(k.Body),
		}
	case *If:
		m := map[string]any{
			"type":      "if",
			"condition": commandsToAny(k.Condition),
			"then":      commandsToAny(k.Then),
		}
		elifs := make([]any, len(k.Elifs))
		for i, e := range k.Elifs {
			elifs[i] = map[string]any{
				"condition": commandsToAny(e.Condition),
				"body":      commandsToAny(e.Body),
			}
		}
		m["elifs"] = elifs
		if k.Else != nil {
			m["else"] = commandsToAny(k.Else)
		}
		return m
	case *Case:
		items := make([]any, len(k.Items))
		for i, item := range k.Items {
			items[i] = map[string]any{
				"patterns": stringsToAny(item.Patterns),
				"body":     commandsToAny(item.Body),
			}
		}
		return map[string]any{"type": "case", "word": k.Word, "items": items}
	case *Arithmetic:
		return map[string]any{"type": "arithmetic", "expression": k.Expression}
	default:
		return map[string]any{"type": "unknown"}
	}
}

func commandsToAny(cs []Command) []any {
	vs := make([]any, len(cs))
	for i, c := range cs {
		vs[i] = commandToMap(c)
	}
	return vs
}

func stringsToAny(ss []string) []any {
	vs := make([]any, len(ss))
	for i, s := range ss {
		vs[i] = s
	}
	return vs
}

func assignmentsToAny(as []Assignment) []any {
	vs := make([]any, len(as))
	for i, a := range as {
		vs[i] = map[string]any{"name": a.Name, "value": a.Value}
	}
	return vs
}

func redirsToAny(rs []Redir) []any {
	vs := make([]any, len(rs))
	for i, r := range rs {
		m := map[string]any{"mode": r.Mode.String(), "target": r.Target}
		if r.FD >= 0 {
			m["fd"] = r.FD
		}
		vs[i] = m
	}
	return vs
}
