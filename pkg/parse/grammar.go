package parse

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nuposix/nuposix/pkg/syntax"
)

// Errors used by the primary grammar parser.
var (
	errStringUnterminated = newError("string not terminated")
	errExpansionUnclosed  = newError("expansion not closed")
	errBadRedirSign       = newError("bad redir sign", "'<'", "'>'", "'>>'", "'<>'")
	errShouldBeFilename   = newError("", "a filename")
	errShouldBeDelim      = newError("", "a here-document delimiter")
	errShouldBeVarName    = newError("", "a variable name")
	errShouldBeWord       = newError("", "a word")
	errShouldBeIn         = newError("", "'in'")
	errShouldBeDo         = newError("", "'do'")
	errShouldBeRParen     = newError("", "')'")
	errShouldBePattern    = newError("", "a case pattern")
	errShouldBeFuncBody   = newError("", "'{'")
)

func parsePrimary(src Source) (*syntax.Script, error) {
	ps := &parser{srcName: src.Name, src: src.Code}
	script := ps.parseScript()
	// Input that ends right after a here-document redirection never reaches
	// the newline that normally collects the body; the missing terminator
	// must still be reported.
	if len(ps.pendingHeredocs) > 0 {
		ps.readHeredocBodies()
	}
	if err := ps.assembleError(); err != nil {
		return nil, err
	}
	return script, nil
}

// Script = { Separator } { CompleteCommand { Separator } }
func (ps *parser) parseScript() *syntax.Script {
	script := &syntax.Script{}
	for {
		ps.skipListSeparators()
		if ps.peek() == eof || ps.failed() {
			break
		}
		start := ps.pos
		if c := ps.parseCompleteCommand(); c != nil {
			script.Commands = append(script.Commands, c)
		}
		if ps.pos == start {
			// No progress can be made; report the offending rune and stop so
			// that parsing always terminates.
			ps.error(UnexpectedToken, fmt.Errorf("unexpected rune %q", ps.peek()))
			break
		}
	}
	return script
}

// CompleteCommand = AndOr [ '&' ]
func (ps *parser) parseCompleteCommand() syntax.Command {
	c := ps.parseAndOr()
	ps.skipBlanks()
	if ps.peek() == '&' && !ps.hasPrefix("&&") {
		ps.next()
		if p, ok := c.(*syntax.Pipeline); ok {
			p.Background = true
		} else if c != nil {
			c = &syntax.Pipeline{Stages: []syntax.Command{c}, Background: true}
		}
	}
	return c
}

// AndOr = Pipeline { ( '&&' | '||' ) Pipeline }
func (ps *parser) parseAndOr() syntax.Command {
	left := ps.parsePipeline()
	for {
		ps.skipBlanks()
		var or bool
		switch {
		case ps.hasPrefix("&&"):
			or = false
		case ps.hasPrefix("||"):
			or = true
		default:
			return left
		}
		if left == nil {
			ps.error(UnexpectedToken, errShouldBeWord)
			return left
		}
		ps.pos += 2
		ps.skipBlanksAndNewlines()
		right := ps.parsePipeline()
		if right == nil {
			ps.error(InvalidSyntax, errShouldBeWord)
			return left
		}
		left = &syntax.AndOr{Left: left, Or: or, Right: right}
	}
}

// Pipeline = Command { '|' Command }
func (ps *parser) parsePipeline() syntax.Command {
	first := ps.parseCommand()
	if first == nil {
		return nil
	}
	stages := []syntax.Command{first}
	for {
		ps.skipBlanks()
		if ps.peek() != '|' || ps.hasPrefix("||") {
			break
		}
		ps.next()
		ps.skipBlanksAndNewlines()
		stage := ps.parseCommand()
		if stage == nil {
			ps.error(InvalidSyntax, errShouldBeWord)
			break
		}
		stages = append(stages, stage)
	}
	if len(stages) == 1 {
		return first
	}
	return &syntax.Pipeline{Stages: stages}
}

// Command = Subshell | Arithmetic | BraceGroup | If | For | While | Until |
// Case | FuncDef | Simple
func (ps *parser) parseCommand() syntax.Command {
	ps.skipBlanks()
	switch {
	case ps.hasPrefix("$(("):
		return ps.parseArithmeticCommand()
	case ps.peek() == '(':
		return ps.parseSubshell()
	}
	switch kw := ps.peekKeyword(); kw {
	case "{":
		return ps.parseBraceGroup()
	case "if":
		return ps.parseIf()
	case "for":
		return ps.parseFor()
	case "while":
		return ps.parseWhileOrUntil(false)
	case "until":
		return ps.parseWhileOrUntil(true)
	case "case":
		return ps.parseCase()
	case "then", "elif", "else", "fi", "do", "done", "esac", "in", "}":
		ps.error(UnexpectedToken, fmt.Errorf("unexpected keyword %q", kw))
		ps.pos += len(kw)
		return nil
	}
	return ps.parseSimple()
}

// Simple = { Assignment | Redir } { Word | Redir }
//
// A name followed immediately by "()" is instead parsed as a function
// definition whose body must be a brace group.
func (ps *parser) parseSimple() syntax.Command {
	cmd := &syntax.Simple{}
	gotName := false
	for {
		ps.skipBlanks()
		if ps.startsRedir() {
			ps.parseRedir(&cmd.Redirs)
			if ps.failed() {
				break
			}
			continue
		}
		if !gotName && len(cmd.Args) == 0 {
			if name, ok := ps.scanAssignmentName(); ok {
				value, _ := ps.parseWord()
				cmd.Assignments = append(cmd.Assignments,
					syntax.Assignment{Name: name, Value: value})
				continue
			}
		}
		word, ok := ps.parseWord()
		if !ok {
			break
		}
		if !gotName {
			if ps.hasPrefix("()") {
				ps.pos += 2
				return ps.parseFuncDef(word)
			}
			cmd.Name = word
			gotName = true
		} else {
			cmd.Args = append(cmd.Args, word)
		}
	}
	if !gotName && len(cmd.Assignments) == 0 && len(cmd.Redirs) == 0 {
		return nil
	}
	return cmd
}

func (ps *parser) parseFuncDef(name string) syntax.Command {
	ps.skipBlanksAndNewlines()
	if ps.peekKeyword() != "{" {
		ps.error(InvalidSyntax, errShouldBeFuncBody)
		return &syntax.FuncDef{Name: name}
	}
	ps.pos++
	body, _ := ps.parseCommandList("}")
	return &syntax.FuncDef{Name: name, Body: body}
}

func (ps *parser) parseBraceGroup() syntax.Command {
	ps.pos++ // {
	body, _ := ps.parseCommandList("}")
	c := &syntax.Compound{Kind: &syntax.BraceGroup{Body: body}}
	ps.parseTrailingRedirs(c)
	return c
}

func (ps *parser) parseSubshell() syntax.Command {
	ps.next() // (
	var body []syntax.Command
	for {
		ps.skipListSeparators()
		if ps.peek() == ')' {
			ps.next()
			break
		}
		if ps.peek() == eof || ps.failed() {
			ps.error(IncompleteCommand, errShouldBeRParen)
			break
		}
		start := ps.pos
		if c := ps.parseCompleteCommand(); c != nil {
			body = append(body, c)
		}
		if ps.pos == start {
			ps.error(UnexpectedToken, fmt.Errorf("unexpected rune %q", ps.peek()))
			break
		}
	}
	c := &syntax.Compound{Kind: &syntax.Subshell{Body: body}}
	ps.parseTrailingRedirs(c)
	return c
}

func (ps *parser) parseArithmeticCommand() syntax.Command {
	ps.pos += 3 // $((
	depth := 2
	begin := ps.pos
	for depth > 0 {
		r := ps.next()
		if r == eof {
			ps.error(IncompleteCommand, errExpansionUnclosed)
			break
		}
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		}
	}
	end := ps.pos
	if depth == 0 {
		end -= 2 // exclude the closing ))
	}
	expr := strings.TrimSpace(ps.src[begin:end])
	c := &syntax.Compound{Kind: &syntax.Arithmetic{Expression: expr}}
	ps.parseTrailingRedirs(c)
	return c
}

// If = 'if' List 'then' List { 'elif' List 'then' List } [ 'else' List ] 'fi'
func (ps *parser) parseIf() syntax.Command {
	ps.pos += len("if")
	cond, _ := ps.parseCommandList("then")
	then, stop := ps.parseCommandList("elif", "else", "fi")
	ifn := &syntax.If{Condition: cond, Then: then}
	for stop == "elif" {
		elifCond, _ := ps.parseCommandList("then")
		elifBody, s := ps.parseCommandList("elif", "else", "fi")
		ifn.Elifs = append(ifn.Elifs,
			syntax.Elif{Condition: elifCond, Body: elifBody})
		stop = s
	}
	if stop == "else" {
		elseBody, _ := ps.parseCommandList("fi")
		if elseBody == nil {
			elseBody = []syntax.Command{}
		}
		ifn.Else = elseBody
	}
	c := &syntax.Compound{Kind: ifn}
	ps.parseTrailingRedirs(c)
	return c
}

// For = 'for' Name [ 'in' { Word } ] Separator 'do' List 'done'
func (ps *parser) parseFor() syntax.Command {
	ps.pos += len("for")
	ps.skipBlanks()
	name, ok := ps.parseWord()
	if !ok {
		ps.error(InvalidSyntax, errShouldBeVarName)
		return nil
	}
	fn := &syntax.For{Var: name}
	ps.skipBlanks()
	if ps.peekKeyword() == "in" {
		ps.pos += len("in")
		for {
			ps.skipBlanks()
			word, ok := ps.parseWord()
			if !ok {
				break
			}
			fn.Words = append(fn.Words, word)
		}
	}
	ps.skipListSeparators()
	if ps.peekKeyword() != "do" {
		ps.error(InvalidSyntax, errShouldBeDo)
		return &syntax.Compound{Kind: fn}
	}
	ps.pos += len("do")
	fn.Body, _ = ps.parseCommandList("done")
	c := &syntax.Compound{Kind: fn}
	ps.parseTrailingRedirs(c)
	return c
}

// While = 'while' List 'do' List 'done'
// Until = 'until' List 'do' List 'done'
func (ps *parser) parseWhileOrUntil(until bool) syntax.Command {
	if until {
		ps.pos += len("until")
	} else {
		ps.pos += len("while")
	}
	cond, _ := ps.parseCommandList("do")
	body, _ := ps.parseCommandList("done")
	var kind syntax.CompoundKind
	if until {
		kind = &syntax.Until{Condition: cond, Body: body}
	} else {
		kind = &syntax.While{Condition: cond, Body: body}
	}
	c := &syntax.Compound{Kind: kind}
	ps.parseTrailingRedirs(c)
	return c
}

// Case = 'case' Word 'in' { CaseItem } 'esac'
func (ps *parser) parseCase() syntax.Command {
	ps.pos += len("case")
	ps.skipBlanks()
	word, ok := ps.parseWord()
	if !ok {
		ps.error(InvalidSyntax, errShouldBeWord)
		return nil
	}
	cn := &syntax.Case{Word: word}
	ps.skipBlanksAndNewlines()
	if ps.peekKeyword() != "in" {
		ps.error(InvalidSyntax, errShouldBeIn)
		return &syntax.Compound{Kind: cn}
	}
	ps.pos += len("in")
items:
	for {
		ps.skipListSeparators()
		if ps.peekKeyword() == "esac" {
			ps.pos += len("esac")
			break
		}
		if ps.peek() == eof || ps.failed() {
			ps.error(IncompleteCommand, newError("", "'esac'"))
			break
		}
		if ps.peek() == '(' {
			ps.next()
			ps.skipBlanks()
		}
		item := syntax.CaseItem{}
		for {
			ps.skipBlanks()
			pattern, ok := ps.parseWord()
			if !ok {
				ps.error(InvalidSyntax, errShouldBePattern)
				break items
			}
			item.Patterns = append(item.Patterns, pattern)
			ps.skipBlanks()
			if ps.peek() != '|' || ps.hasPrefix("||") {
				break
			}
			ps.next()
		}
		if ps.peek() != ')' {
			ps.error(InvalidSyntax, errShouldBeRParen)
			break
		}
		ps.next()
		for {
			ps.skipCaseSeparators()
			if ps.hasPrefix(";;") {
				ps.pos += 2
				break
			}
			if ps.peekKeyword() == "esac" {
				break
			}
			if ps.peek() == eof || ps.failed() {
				ps.error(IncompleteCommand, newError("", "';;'", "'esac'"))
				cn.Items = append(cn.Items, item)
				break items
			}
			start := ps.pos
			if c := ps.parseCompleteCommand(); c != nil {
				item.Body = append(item.Body, c)
			}
			if ps.pos == start {
				ps.error(UnexpectedToken, fmt.Errorf("unexpected rune %q", ps.peek()))
				cn.Items = append(cn.Items, item)
				break items
			}
		}
		cn.Items = append(cn.Items, item)
	}
	c := &syntax.Compound{Kind: cn}
	ps.parseTrailingRedirs(c)
	return c
}

// parseCommandList parses commands separated by newlines and semicolons,
// until one of the given stop keywords appears in command position. The stop
// keyword is consumed and returned. Reaching the end of the input first is an
// incomplete command.
func (ps *parser) parseCommandList(stops ...string) ([]syntax.Command, string) {
	var cmds []syntax.Command
	for {
		ps.skipListSeparators()
		if kw := ps.peekKeyword(); kw != "" {
			for _, stop := range stops {
				if kw == stop {
					ps.pos += len(kw)
					return cmds, stop
				}
			}
		}
		if ps.peek() == eof || ps.failed() {
			quoted := make([]string, len(stops))
			for i, stop := range stops {
				quoted[i] = "'" + stop + "'"
			}
			ps.error(IncompleteCommand, newError("", quoted...))
			return cmds, ""
		}
		start := ps.pos
		if c := ps.parseCompleteCommand(); c != nil {
			cmds = append(cmds, c)
		}
		if ps.pos == start {
			ps.error(UnexpectedToken, fmt.Errorf("unexpected rune %q", ps.peek()))
			return cmds, ""
		}
	}
}

func (ps *parser) parseTrailingRedirs(c *syntax.Compound) {
	for {
		ps.skipBlanks()
		if !ps.startsRedir() {
			return
		}
		ps.parseRedir(&c.Redirs)
		if ps.failed() {
			return
		}
	}
}

// Redirections

type pendingHeredoc struct {
	redirs *[]syntax.Redir
	index  int
	delim  string
	strip  bool
}

func (ps *parser) startsRedir() bool {
	rest := ps.src[ps.pos:]
	i := 0
	for i < len(rest) && rest[i] >= '0' && rest[i] <= '9' {
		i++
	}
	return i < len(rest) && (rest[i] == '<' || rest[i] == '>')
}

func (ps *parser) parseRedir(redirs *[]syntax.Redir) {
	fd := -1
	begin := ps.pos
	for ps.peek() >= '0' && ps.peek() <= '9' {
		ps.next()
	}
	if ps.pos > begin {
		fd, _ = strconv.Atoi(ps.src[begin:ps.pos])
	}

	var mode syntax.RedirMode
	var dup, strip bool
	switch {
	case ps.hasPrefix("<<<"):
		ps.pos += 3
		mode = syntax.HereString
	case ps.hasPrefix("<<-"):
		ps.pos += 3
		mode = syntax.HereDoc
		strip = true
	case ps.hasPrefix("<<"):
		ps.pos += 2
		mode = syntax.HereDoc
	case ps.hasPrefix("<>"):
		ps.pos += 2
		mode = syntax.ReadWrite
	case ps.hasPrefix("<&"):
		ps.pos += 2
		mode = syntax.Read
		dup = true
	case ps.hasPrefix("<"):
		ps.pos++
		mode = syntax.Read
	case ps.hasPrefix(">>"):
		ps.pos += 2
		mode = syntax.Append
	case ps.hasPrefix(">&"):
		ps.pos += 2
		mode = syntax.Write
		dup = true
	case ps.hasPrefix(">|"):
		ps.pos += 2
		mode = syntax.Write
	case ps.hasPrefix(">"):
		ps.pos++
		mode = syntax.Write
	default:
		ps.error(InvalidSyntax, errBadRedirSign)
		return
	}

	ps.skipBlanks()
	switch mode {
	case syntax.HereDoc:
		delim, ok := ps.parseWord()
		if !ok {
			ps.error(InvalidSyntax, errShouldBeDelim)
			return
		}
		*redirs = append(*redirs, syntax.Redir{Mode: mode, FD: fd})
		ps.pendingHeredocs = append(ps.pendingHeredocs, &pendingHeredoc{
			redirs: redirs, index: len(*redirs) - 1, delim: delim, strip: strip,
		})
		return
	default:
		target, ok := ps.parseWord()
		if !ok {
			ps.error(InvalidSyntax, errShouldBeFilename)
			return
		}
		if dup {
			target = "&" + target
		}
		// Redirections on the default descriptor for their mode drop the
		// explicit fd; stderr redirections get their own modes.
		switch {
		case fd == 2 && mode == syntax.Write && !dup:
			mode, fd = syntax.ErrWrite, -1
		case fd == 2 && mode == syntax.Append:
			mode, fd = syntax.ErrAppend, -1
		case fd == 1 && (mode == syntax.Write || mode == syntax.Append) && !dup:
			fd = -1
		case fd == 0 && mode == syntax.Read && !dup:
			fd = -1
		}
		*redirs = append(*redirs, syntax.Redir{Mode: mode, Target: target, FD: fd})
	}
}

func (ps *parser) readHeredocBodies() {
	pending := ps.pendingHeredocs
	ps.pendingHeredocs = nil
	for _, h := range pending {
		var lines []string
		terminated := false
		for ps.pos < len(ps.src) {
			line := ps.readLine()
			cmp := line
			if h.strip {
				cmp = strings.TrimLeft(line, "\t")
			}
			if cmp == h.delim {
				terminated = true
				break
			}
			if h.strip {
				line = strings.TrimLeft(line, "\t")
			}
			lines = append(lines, line)
		}
		if !terminated {
			ps.error(IncompleteCommand,
				fmt.Errorf("here-document not terminated: %q", h.delim))
		}
		(*h.redirs)[h.index].Target = strings.Join(lines, "\n")
	}
}

// readLine reads up to and including the next newline, returning the line
// without the newline.
func (ps *parser) readLine() string {
	begin := ps.pos
	i := strings.IndexByte(ps.src[ps.pos:], '\n')
	if i == -1 {
		ps.pos = len(ps.src)
		return ps.src[begin:]
	}
	ps.pos += i + 1
	return ps.src[begin : begin+i]
}

// Separators and keywords

func (ps *parser) skipBlanks() {
	for {
		switch r := ps.peek(); {
		case r == ' ' || r == '\t':
			ps.next()
		case r == '\\' && strings.HasPrefix(ps.src[ps.pos:], "\\\n"):
			ps.pos += 2
		case r == '#':
			for {
				r := ps.peek()
				if r == eof || r == '\r' || r == '\n' {
					break
				}
				ps.next()
			}
		default:
			return
		}
	}
}

func (ps *parser) skipBlanksAndNewlines() {
	for {
		ps.skipBlanks()
		if r := ps.peek(); r == '\n' || r == '\r' {
			ps.consumeNewline()
			continue
		}
		return
	}
}

func (ps *parser) skipListSeparators() {
	for {
		ps.skipBlanks()
		switch r := ps.peek(); {
		case r == '\n' || r == '\r':
			ps.consumeNewline()
		case r == ';' && !ps.hasPrefix(";;"):
			ps.next()
		default:
			return
		}
	}
}

func (ps *parser) skipCaseSeparators() {
	for {
		ps.skipBlanks()
		switch r := ps.peek(); {
		case r == '\n' || r == '\r':
			ps.consumeNewline()
		case r == ';' && !ps.hasPrefix(";;"):
			ps.next()
		default:
			return
		}
	}
}

func (ps *parser) consumeNewline() {
	if ps.peek() == '\r' {
		ps.next()
	}
	if ps.peek() == '\n' {
		ps.next()
	}
	if len(ps.pendingHeredocs) > 0 {
		ps.readHeredocBodies()
	}
}

// Reserved words of the shell grammar, plus the brace tokens which behave
// like reserved words in command position.
var keywords = map[string]bool{
	"if": true, "then": true, "elif": true, "else": true, "fi": true,
	"for": true, "while": true, "until": true, "do": true, "done": true,
	"case": true, "esac": true, "in": true, "{": true, "}": true,
}

// peekKeyword returns the reserved word starting at the current position, or
// "" if the next token is not one. The token is not consumed.
func (ps *parser) peekKeyword() string {
	rest := ps.src[ps.pos:]
	i := 0
	for i < len(rest) && !isWordDelim(rest[i]) {
		i++
	}
	if w := rest[:i]; keywords[w] {
		return w
	}
	return ""
}

func isWordDelim(b byte) bool {
	switch b {
	case ' ', '\t', '\r', '\n', ';', '&', '|', '<', '>', '(', ')',
		'\'', '"', '`', '$', '\\':
		return true
	}
	return false
}

// scanAssignmentName consumes "name=" if the current position starts an
// assignment: a name beginning with a letter or underscore, directly followed
// by an unquoted equals sign.
func (ps *parser) scanAssignmentName() (string, bool) {
	rest := ps.src[ps.pos:]
	if rest == "" || !(isLetter(rest[0]) || rest[0] == '_') {
		return "", false
	}
	i := 1
	for i < len(rest) && (isLetter(rest[i]) || isDigit(rest[i]) || rest[i] == '_') {
		i++
	}
	if i < len(rest) && rest[i] == '=' {
		name := rest[:i]
		ps.pos += i + 1
		return name, true
	}
	return "", false
}

func isLetter(b byte) bool {
	return ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z')
}

func isDigit(b byte) bool { return '0' <= b && b <= '9' }
