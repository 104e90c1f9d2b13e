// Package syntax defines the abstract syntax tree of POSIX shell scripts.
//
// The types here are pure data. They are built by pkg/parse and consumed by
// pkg/convert; neither mutates a tree after it has been built, so a tree may
// be shared freely between concurrent conversions.
package syntax

// Script is a parsed shell script: an ordered sequence of top-level commands.
// The order is execution order. An empty script is valid.
type Script struct {
	Commands []Command
}

// Command is implemented by all command node types: [*Simple], [*Pipeline],
// [*AndOr], [*Compound] and [*FuncDef].
type Command interface {
	command()
}

func (*Simple) command()   {}
func (*Pipeline) command() {}
func (*AndOr) command()    {}
func (*Compound) command() {}
func (*FuncDef) command()  {}

// Simple is a simple command: an optional run of assignments, a command name
// with arguments, and redirections. Name may be empty only if the node
// represents a pure assignment statement.
type Simple struct {
	Name        string
	Args        []string
	Assignments []Assignment
	Redirs      []Redir
}

// Pipeline is a sequence of commands connected by pipes, in left-to-right
// data-flow order. A pipeline always has at least one stage.
type Pipeline struct {
	Stages     []Command
	Background bool
}

// AndOr is a conditional composition of two commands: "left && right" or
// "left || right".
type AndOr struct {
	Left  Command
	Or    bool
	Right Command
}

// Compound is a compound command with optional redirections applying to the
// whole construct.
type Compound struct {
	Kind   CompoundKind
	Redirs []Redir
}

// CompoundKind is implemented by all compound command variants.
type CompoundKind interface {
	compoundKind()
}

func (*BraceGroup) compoundKind() {}
func (*Subshell) compoundKind()   {}
func (*For) compoundKind()        {}
func (*While) compoundKind()      {}
func (*Until) compoundKind()      {}
func (*If) compoundKind()         {}
func (*Case) compoundKind()       {}
func (*Arithmetic) compoundKind() {}

// BraceGroup is "{ body; }".
type BraceGroup struct {
	Body []Command
}

// Subshell is "( body )".
type Subshell struct {
	Body []Command
}

// For is "for Var in Words; do Body; done". Words is empty when the "in"
// clause is omitted, in which case the loop iterates over the positional
// parameters.
type For struct {
	Var   string
	Words []string
	Body  []Command
}

// While is "while Condition; do Body; done". The condition is re-evaluated
// before each iteration.
type While struct {
	Condition []Command
	Body      []Command
}

// Until is "until Condition; do Body; done".
type Until struct {
	Condition []Command
	Body      []Command
}

// If is "if Condition; then Then; [elif...;] [else Else;] fi". Else is nil
// when there is no else branch.
type If struct {
	Condition []Command
	Then      []Command
	Elifs     []Elif
	Else      []Command
}

// Elif is one "elif Condition; then Body" part of an if command.
type Elif struct {
	Condition []Command
	Body      []Command
}

// Case is "case Word in items... esac".
type Case struct {
	Word  string
	Items []CaseItem
}

// CaseItem is one "pattern[|pattern...]) body ;;" arm of a case command.
type CaseItem struct {
	Patterns []string
	Body     []Command
}

// Arithmetic is a standalone arithmetic command "$(( expression ))". The
// expression is carried as opaque text.
type Arithmetic struct {
	Expression string
}

// FuncDef is a function definition "name() { body }".
type FuncDef struct {
	Name string
	Body []Command
}

// Assignment is one "name=value" prefix of a simple command. Assignments on
// the same command keep their source order; later assignments override
// earlier ones with the same name, but the tree never deduplicates them.
type Assignment struct {
	Name  string
	Value string
}

// RedirMode records the mode of an IO redirection.
type RedirMode int

// Possible values for RedirMode.
const (
	BadRedirMode RedirMode = iota
	Read
	Write
	Append
	ErrWrite
	ErrAppend
	ReadWrite
	HereDoc
	HereString
)

// String returns the name of the redirection mode, as used in the
// serializable form of the tree.
func (m RedirMode) String() string {
	switch m {
	case Read:
		return "read"
	case Write:
		return "write"
	case Append:
		return "append"
	case ErrWrite:
		return "err-write"
	case ErrAppend:
		return "err-append"
	case ReadWrite:
		return "read-write"
	case HereDoc:
		return "here-doc"
	case HereString:
		return "here-string"
	default:
		return "bad"
	}
}

// Redir is one IO redirection. FD is the explicit source file descriptor, or
// -1 when the redirection uses the default descriptor for its mode.
type Redir struct {
	Mode   RedirMode
	Target string
	FD     int
}
