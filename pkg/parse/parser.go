package parse

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/nuposix/nuposix/pkg/diag"
	"github.com/nuposix/nuposix/pkg/errutil"
)

// ErrorKind classifies primary parser errors.
type ErrorKind int

// Possible values for ErrorKind.
const (
	// InvalidSyntax covers malformed constructs that are recognized but not
	// well formed, like a redirection without a target.
	InvalidSyntax ErrorKind = iota
	// UnexpectedToken is reported when a token cannot start or continue the
	// construct being parsed.
	UnexpectedToken
	// IncompleteCommand is reported when the input ends in the middle of a
	// construct, like an unterminated quote or a missing "fi".
	IncompleteCommand
)

// String returns the name of the error kind.
func (k ErrorKind) String() string {
	switch k {
	case UnexpectedToken:
		return "unexpected token"
	case IncompleteCommand:
		return "incomplete command"
	default:
		return "invalid syntax"
	}
}

// Error is a primary parser error.
type Error struct {
	Kind    ErrorKind
	Message string
	Context diag.Context
}

// Error returns a plain text representation of the error.
func (e *Error) Error() string {
	return fmt.Sprintf("parse error: %d-%d in %s: %s",
		e.Context.From, e.Context.To, e.Context.Name, e.Message)
}

// Range returns the range of the error.
func (e *Error) Range() diag.Ranging {
	return e.Context.Range()
}

// Show shows the error with its source context.
func (e *Error) Show(indent string) string {
	d := diag.Error{Type: "parse error", Message: e.Message, Context: e.Context}
	return d.Show(indent)
}

// UnpackErrors returns the constituent parse errors if the given error
// contains one or more parse errors. Otherwise it returns nil.
func UnpackErrors(e error) []*Error {
	if one, ok := e.(*Error); ok {
		return []*Error{one}
	}
	var unpacked []*Error
	for _, err := range errutil.Errors(e) {
		one, ok := err.(*Error)
		if !ok {
			return nil
		}
		unpacked = append(unpacked, one)
	}
	return unpacked
}

// parser maintains some mutable states of parsing.
//
// NOTE: The src member is assumed to be valid UTF-8.
type parser struct {
	srcName string
	src     string
	pos     int
	overEOF int
	errors  []*Error
	// Here-document redirections whose bodies have not been read yet. They
	// are resolved when the parser consumes the newline that terminates the
	// command carrying them.
	pendingHeredocs []*pendingHeredoc
}

const eof rune = -1

func (ps *parser) peek() rune {
	if ps.pos == len(ps.src) {
		return eof
	}
	r, _ := utf8.DecodeRuneInString(ps.src[ps.pos:])
	return r
}

func (ps *parser) hasPrefix(prefix string) bool {
	return strings.HasPrefix(ps.src[ps.pos:], prefix)
}

func (ps *parser) next() rune {
	if ps.pos == len(ps.src) {
		ps.overEOF++
		return eof
	}
	r, s := utf8.DecodeRuneInString(ps.src[ps.pos:])
	ps.pos += s
	return r
}

func (ps *parser) backup() {
	if ps.overEOF > 0 {
		ps.overEOF--
		return
	}
	_, s := utf8.DecodeLastRuneInString(ps.src[:ps.pos])
	ps.pos -= s
}

func (ps *parser) errorp(r diag.Ranger, kind ErrorKind, e error) {
	err := &Error{
		Kind:    kind,
		Message: e.Error(),
		Context: *diag.NewContext(ps.srcName, ps.src, r),
	}
	ps.errors = append(ps.errors, err)
}

func (ps *parser) error(kind ErrorKind, e error) {
	end := ps.pos
	if end < len(ps.src) {
		end++
	}
	if ps.pos == len(ps.src) {
		// Errors at the end of the input always mean the command is
		// incomplete, whatever construct was being parsed.
		kind = IncompleteCommand
	}
	ps.errorp(diag.Ranging{From: ps.pos, To: end}, kind, e)
}

func (ps *parser) failed() bool {
	return len(ps.errors) > 0
}

func (ps *parser) assembleError() error {
	errs := make([]error, len(ps.errors))
	for i, e := range ps.errors {
		errs[i] = e
	}
	return errutil.Multi(errs...)
}

func newError(text string, shouldbe ...string) error {
	if len(shouldbe) == 0 {
		return errors.New(text)
	}
	var buf bytes.Buffer
	if len(text) > 0 {
		buf.WriteString(text + ", ")
	}
	buf.WriteString("should be " + shouldbe[0])
	for i, opt := range shouldbe[1:] {
		if i == len(shouldbe)-2 {
			buf.WriteString(" or ")
		} else {
			buf.WriteString(", ")
		}
		buf.WriteString(opt)
	}
	return errors.New(buf.String())
}
