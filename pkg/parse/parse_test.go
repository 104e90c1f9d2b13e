package parse

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/nuposix/nuposix/pkg/errutil"
	"github.com/nuposix/nuposix/pkg/syntax"
)

func mustParse(t *testing.T, code string) *syntax.Script {
	t.Helper()
	script, err := Parse(Source{Name: "[test]", Code: code}, Config{Strict: true})
	if err != nil {
		t.Fatalf("Parse(%q) -> error %v", code, err)
	}
	return script
}

func checkParse(t *testing.T, code string, want *syntax.Script) {
	t.Helper()
	got := mustParse(t, code)
	if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("Parse(%q) returned unexpected tree (-want +got):\n%s",
			code, diff)
	}
}

func simple(name string, args ...string) *syntax.Simple {
	return &syntax.Simple{Name: name, Args: args}
}

func script(cmds ...syntax.Command) *syntax.Script {
	return &syntax.Script{Commands: cmds}
}

func TestParse_SimpleCommands(t *testing.T) {
	checkParse(t, "echo hello world", script(simple("echo", "hello", "world")))
	checkParse(t, "ls -l /tmp", script(simple("ls", "-l", "/tmp")))
	checkParse(t, "echo one; echo two",
		script(simple("echo", "one"), simple("echo", "two")))
	checkParse(t, "echo one\necho two\n",
		script(simple("echo", "one"), simple("echo", "two")))
	checkParse(t, "# only a comment\n", script())
	checkParse(t, "echo hi # trailing comment", script(simple("echo", "hi")))
}

func TestParse_Quoting(t *testing.T) {
	checkParse(t, `echo 'single $x' "double $x"`,
		script(simple("echo", "single $x", "double $x")))
	checkParse(t, `echo a\ b`, script(simple("echo", "a b")))
	checkParse(t, `echo ""`, script(simple("echo", "")))
	checkParse(t, `echo "a \"quoted\" word"`,
		script(simple("echo", `a "quoted" word`)))
	// Expansions survive verbatim, even inside double quotes.
	checkParse(t, `echo $(date +%s) ${HOME} $((1+2))`,
		script(simple("echo", "$(date +%s)", "${HOME}", "$((1+2))")))
	checkParse(t, `echo "today: $(date)"`,
		script(simple("echo", "today: $(date)")))
	checkParse(t, "echo `hostname`", script(simple("echo", "`hostname`")))
}

func TestParse_Assignments(t *testing.T) {
	checkParse(t, "FOO=bar", script(&syntax.Simple{
		Assignments: []syntax.Assignment{{Name: "FOO", Value: "bar"}},
	}))
	checkParse(t, `GREETING="hello world"`, script(&syntax.Simple{
		Assignments: []syntax.Assignment{{Name: "GREETING", Value: "hello world"}},
	}))
	checkParse(t, "A=1 B=2 env", script(&syntax.Simple{
		Name: "env",
		Assignments: []syntax.Assignment{
			{Name: "A", Value: "1"}, {Name: "B", Value: "2"},
		},
	}))
	// An equals sign after the command name is just part of a word.
	checkParse(t, "make CC=gcc", script(simple("make", "CC=gcc")))
}

func TestParse_PipelinesAndLists(t *testing.T) {
	checkParse(t, "cat f | grep x | wc -l", script(&syntax.Pipeline{
		Stages: []syntax.Command{
			simple("cat", "f"), simple("grep", "x"), simple("wc", "-l"),
		},
	}))
	checkParse(t, "a && b", script(&syntax.AndOr{
		Left: simple("a"), Right: simple("b"),
	}))
	checkParse(t, "a || b", script(&syntax.AndOr{
		Left: simple("a"), Or: true, Right: simple("b"),
	}))
	// Left associative.
	checkParse(t, "a && b || c", script(&syntax.AndOr{
		Left:  &syntax.AndOr{Left: simple("a"), Right: simple("b")},
		Or:    true,
		Right: simple("c"),
	}))
	checkParse(t, "sleep 5 &", script(&syntax.Pipeline{
		Stages: []syntax.Command{simple("sleep", "5")}, Background: true,
	}))
}

func TestParse_If(t *testing.T) {
	checkParse(t, "if true; then echo y; fi", script(&syntax.Compound{
		Kind: &syntax.If{
			Condition: []syntax.Command{simple("true")},
			Then:      []syntax.Command{simple("echo", "y")},
		},
	}))
	checkParse(t, "if a; then b; elif c; then d; else e; fi",
		script(&syntax.Compound{Kind: &syntax.If{
			Condition: []syntax.Command{simple("a")},
			Then:      []syntax.Command{simple("b")},
			Elifs: []syntax.Elif{{
				Condition: []syntax.Command{simple("c")},
				Body:      []syntax.Command{simple("d")},
			}},
			Else: []syntax.Command{simple("e")},
		}}))
}

func TestParse_Loops(t *testing.T) {
	checkParse(t, "for i in 1 2 3; do echo $i; done",
		script(&syntax.Compound{Kind: &syntax.For{
			Var:   "i",
			Words: []string{"1", "2", "3"},
			Body:  []syntax.Command{simple("echo", "$i")},
		}}))
	checkParse(t, "for arg; do use $arg; done",
		script(&syntax.Compound{Kind: &syntax.For{
			Var:  "arg",
			Body: []syntax.Command{simple("use", "$arg")},
		}}))
	checkParse(t, "while read line; do echo $line; done",
		script(&syntax.Compound{Kind: &syntax.While{
			Condition: []syntax.Command{simple("read", "line")},
			Body:      []syntax.Command{simple("echo", "$line")},
		}}))
	checkParse(t, "until test -f done.flag; do sleep 1; done",
		script(&syntax.Compound{Kind: &syntax.Until{
			Condition: []syntax.Command{simple("test", "-f", "done.flag")},
			Body:      []syntax.Command{simple("sleep", "1")},
		}}))
}

func TestParse_Case(t *testing.T) {
	checkParse(t, "case $x in a|b) echo ab ;; *) echo other ;; esac",
		script(&syntax.Compound{Kind: &syntax.Case{
			Word: "$x",
			Items: []syntax.CaseItem{
				{
					Patterns: []string{"a", "b"},
					Body:     []syntax.Command{simple("echo", "ab")},
				},
				{
					Patterns: []string{"*"},
					Body:     []syntax.Command{simple("echo", "other")},
				},
			},
		}}))
	// Optional leading paren and missing final ;; are both allowed.
	checkParse(t, "case $1 in (start) run ;; (stop) halt\nesac",
		script(&syntax.Compound{Kind: &syntax.Case{
			Word: "$1",
			Items: []syntax.CaseItem{
				{Patterns: []string{"start"}, Body: []syntax.Command{simple("run")}},
				{Patterns: []string{"stop"}, Body: []syntax.Command{simple("halt")}},
			},
		}}))
}

func TestParse_Groups(t *testing.T) {
	checkParse(t, "( cd /tmp; ls )", script(&syntax.Compound{
		Kind: &syntax.Subshell{Body: []syntax.Command{
			simple("cd", "/tmp"), simple("ls"),
		}},
	}))
	checkParse(t, "{ a; b; }", script(&syntax.Compound{
		Kind: &syntax.BraceGroup{Body: []syntax.Command{
			simple("a"), simple("b"),
		}},
	}))
	checkParse(t, "$(( 1 + 2 ))", script(&syntax.Compound{
		Kind: &syntax.Arithmetic{Expression: "1 + 2"},
	}))
}

func TestParse_FuncDef(t *testing.T) {
	checkParse(t, "greet() { echo hi; }", script(&syntax.FuncDef{
		Name: "greet",
		Body: []syntax.Command{simple("echo", "hi")},
	}))
	checkParse(t, "f() {\n  a\n  b\n}", script(&syntax.FuncDef{
		Name: "f",
		Body: []syntax.Command{simple("a"), simple("b")},
	}))
}

func TestParse_Redirs(t *testing.T) {
	checkParse(t, "cmd < in > out", script(&syntax.Simple{
		Name: "cmd",
		Redirs: []syntax.Redir{
			{Mode: syntax.Read, Target: "in", FD: -1},
			{Mode: syntax.Write, Target: "out", FD: -1},
		},
	}))
	checkParse(t, "cmd >> log 2> err 2>> err2", script(&syntax.Simple{
		Name: "cmd",
		Redirs: []syntax.Redir{
			{Mode: syntax.Append, Target: "log", FD: -1},
			{Mode: syntax.ErrWrite, Target: "err", FD: -1},
			{Mode: syntax.ErrAppend, Target: "err2", FD: -1},
		},
	}))
	checkParse(t, "cmd 2>&1", script(&syntax.Simple{
		Name: "cmd",
		Redirs: []syntax.Redir{
			{Mode: syntax.Write, Target: "&1", FD: 2},
		},
	}))
	checkParse(t, "cmd <<< word", script(&syntax.Simple{
		Name: "cmd",
		Redirs: []syntax.Redir{
			{Mode: syntax.HereString, Target: "word", FD: -1},
		},
	}))
	// Redirections may trail a compound command.
	checkParse(t, "{ a; } > out", script(&syntax.Compound{
		Kind:   &syntax.BraceGroup{Body: []syntax.Command{simple("a")}},
		Redirs: []syntax.Redir{{Mode: syntax.Write, Target: "out", FD: -1}},
	}))
}

func TestParse_Heredoc(t *testing.T) {
	checkParse(t, "cat <<EOF\nhello\nworld\nEOF\n", script(&syntax.Simple{
		Name: "cat",
		Redirs: []syntax.Redir{
			{Mode: syntax.HereDoc, Target: "hello\nworld", FD: -1},
		},
	}))
	// <<- strips leading tabs from body and delimiter lines.
	checkParse(t, "cat <<-EOF\n\thello\n\tEOF\n", script(&syntax.Simple{
		Name: "cat",
		Redirs: []syntax.Redir{
			{Mode: syntax.HereDoc, Target: "hello", FD: -1},
		},
	}))
}

var badInputs = []struct {
	code string
	kind ErrorKind
}{
	{`echo "unterminated`, IncompleteCommand},
	{`echo 'unterminated`, IncompleteCommand},
	{"if true; then echo", IncompleteCommand},
	{"while x; do y", IncompleteCommand},
	{"case $x in a) b", IncompleteCommand},
	{"( echo", IncompleteCommand},
	{"cat <<EOF\nno terminator", IncompleteCommand},
	{"cat <<EOF", IncompleteCommand},
	{"cmd > ; echo", InvalidSyntax},
	{"| cmd", UnexpectedToken},
}

func TestParse_StrictErrors(t *testing.T) {
	for _, test := range badInputs {
		_, err := Parse(Source{Name: "[test]", Code: test.code},
			Config{Strict: true})
		if err == nil {
			t.Errorf("Parse(%q) strict -> no error, want %v", test.code, test.kind)
			continue
		}
		errs := UnpackErrors(err)
		if len(errs) == 0 {
			t.Errorf("Parse(%q) strict -> error %v, not unpackable", test.code, err)
			continue
		}
		if errs[0].Kind != test.kind {
			t.Errorf("Parse(%q) strict -> kind %v, want %v",
				test.code, errs[0].Kind, test.kind)
		}
	}
}

func TestUnpackErrors(t *testing.T) {
	one := &Error{Kind: InvalidSyntax, Message: "one"}
	two := &Error{Kind: UnexpectedToken, Message: "two"}

	if got := UnpackErrors(nil); got != nil {
		t.Errorf("UnpackErrors(nil) = %v, want nil", got)
	}
	if got := UnpackErrors(errors.New("not a parse error")); got != nil {
		t.Errorf("UnpackErrors(plain error) = %v, want nil", got)
	}
	if got := UnpackErrors(one); len(got) != 1 || got[0] != one {
		t.Errorf("UnpackErrors(one) = %v, want [one]", got)
	}
	got := UnpackErrors(errutil.Multi(one, two))
	if len(got) != 2 || got[0] != one || got[1] != two {
		t.Errorf("UnpackErrors(multi) = %v, want [one two]", got)
	}
}

func TestParse_FallbackRecovers(t *testing.T) {
	// All inputs the grammar rejects must still produce a tree when strict
	// mode is off.
	for _, test := range badInputs {
		script, err := Parse(Source{Name: "[test]", Code: test.code}, Config{})
		if err != nil {
			t.Errorf("Parse(%q) -> error %v, want fallback", test.code, err)
		}
		if script == nil {
			t.Errorf("Parse(%q) -> nil script", test.code)
		}
	}
}

func TestParse_FallbackVerbatim(t *testing.T) {
	// A block the grammar cannot handle degrades to whitespace-split
	// commands rather than being dropped.
	script, err := Parse(Source{Name: "[test]", Code: "((( garbage here"}, Config{})
	if err != nil {
		t.Fatalf("Parse -> error %v", err)
	}
	if len(script.Commands) == 0 {
		t.Fatal("Parse -> empty script, want degraded commands")
	}
	if _, ok := script.Commands[0].(*syntax.Simple); !ok {
		t.Errorf("degraded command is %T, want *syntax.Simple", script.Commands[0])
	}
}

func TestParse_SkipGrammar(t *testing.T) {
	// The heuristic parser handles well-formed simple commands on its own.
	script, err := Parse(
		Source{Name: "[test]", Code: "echo one\necho two"}, Config{SkipGrammar: true})
	if err != nil {
		t.Fatalf("Parse -> error %v", err)
	}
	want := []syntax.Command{simple("echo", "one"), simple("echo", "two")}
	if diff := cmp.Diff(want, script.Commands, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("unexpected tree (-want +got):\n%s", diff)
	}
}

func TestGroupLines(t *testing.T) {
	tests := []struct {
		code string
		want []string
	}{
		{"a\nb\n", []string{"a", "b"}},
		{"if x; then\n  y\nfi\nz\n", []string{"if x; then\n  y\nfi", "z"}},
		{"a |\n  b\n", []string{"a |\n  b"}},
		{"a &&\nb\n", []string{"a &&\nb"}},
		{"case $x in\n a) b ;;\nesac\n", []string{"case $x in\n a) b ;;\nesac"}},
		{"cat <<EOF\nif not shell\nEOF\nnext\n",
			[]string{"cat <<EOF\nif not shell\nEOF", "next"}},
	}
	for _, test := range tests {
		got := groupLines(test.code)
		if diff := cmp.Diff(test.want, got); diff != "" {
			t.Errorf("groupLines(%q) (-want +got):\n%s", test.code, diff)
		}
	}
}

func TestSplitWords(t *testing.T) {
	tests := []struct {
		line string
		want []string
	}{
		{"a b  c", []string{"a", "b", "c"}},
		{`a 'b c' d`, []string{"a", "b c", "d"}},
		{`a "b c"`, []string{"a", "b c"}},
		{`a\ b`, []string{"a b"}},
		{`a "unbalanced`, []string{"a", "unbalanced"}},
		{"", nil},
	}
	for _, test := range tests {
		got := splitWords(test.line)
		if diff := cmp.Diff(test.want, got); diff != "" {
			t.Errorf("splitWords(%q) (-want +got):\n%s", test.line, diff)
		}
	}
}

func TestParse_NeverPanics(t *testing.T) {
	inputs := []string{
		"", "\n\n\n", ";;;", "&&&", ">>>", "$", "$(", "${", "`", "\\",
		"if if if", "fi", "esac", "done", ")",
		"a | | b", "cmd 2>", "for do done", `"$(`,
		"case in esac", "x=y=z", "\x00\x01",
	}
	for _, code := range inputs {
		script, err := Parse(Source{Name: "[test]", Code: code}, Config{})
		if err != nil {
			t.Errorf("Parse(%q) -> error %v", code, err)
		}
		if script == nil {
			t.Errorf("Parse(%q) -> nil script", code)
		}
	}
}
