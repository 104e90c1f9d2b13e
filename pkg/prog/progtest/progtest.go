// Package progtest provides a framework for testing subprograms.
//
// Tests are written as a series of cases built with [ThatNuposix], each
// describing the command line to run and the expected effect on the three
// standard files and the exit status.
package progtest

import (
	"fmt"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/nuposix/nuposix/pkg/must"
	"github.com/nuposix/nuposix/pkg/prog"
)

// Case is a test case for a subprogram.
type Case struct {
	args  []string
	stdin string
	want  result
}

type result struct {
	exit   int
	stdout output
	stderr output
}

type output struct {
	content string
	partial bool
}

func (o output) String() string {
	if o.partial {
		return fmt.Sprintf("text containing %q", o.content)
	}
	return fmt.Sprintf("%q", o.content)
}

// ThatNuposix returns a Case with the given command-line arguments.
func ThatNuposix(args ...string) Case {
	return Case{args: append([]string{"nuposix"}, args...)}
}

// WithStdin returns an altered Case that feeds the given string to stdin.
func (c Case) WithStdin(s string) Case {
	c.stdin = s
	return c
}

// DoesNothing returns c itself. It is useful to mark that a Case is only run
// for its side effects.
func (c Case) DoesNothing() Case { return c }

// ExitsWith returns an altered Case that requires the program to exit with
// the given status.
func (c Case) ExitsWith(code int) Case {
	c.want.exit = code
	return c
}

// WritesStdout returns an altered Case that requires the program to write
// exactly the given text to stdout.
func (c Case) WritesStdout(s string) Case {
	c.want.stdout = output{content: s}
	return c
}

// WritesStdoutContaining returns an altered Case that requires the program's
// stdout to contain the given text.
func (c Case) WritesStdoutContaining(s string) Case {
	c.want.stdout = output{content: s, partial: true}
	return c
}

// WritesStderr returns an altered Case that requires the program to write
// exactly the given text to stderr.
func (c Case) WritesStderr(s string) Case {
	c.want.stderr = output{content: s}
	return c
}

// WritesStderrContaining returns an altered Case that requires the program's
// stderr to contain the given text.
func (c Case) WritesStderrContaining(s string) Case {
	c.want.stderr = output{content: s, partial: true}
	return c
}

// Test runs the given Cases against the program.
func Test(t *testing.T, p prog.Program, cases ...Case) {
	t.Helper()
	for _, c := range cases {
		t.Run(strings.Join(c.args[1:], " "), func(t *testing.T) {
			t.Helper()
			r := run(p, c.args, c.stdin)
			if r.exit != c.want.exit {
				t.Errorf("got exit %v, want %v", r.exit, c.want.exit)
			}
			checkOutput(t, "stdout", r.stdout.content, c.want.stdout)
			checkOutput(t, "stderr", r.stderr.content, c.want.stderr)
		})
	}
}

func checkOutput(t *testing.T, name, got string, want output) {
	t.Helper()
	if want.partial {
		if !strings.Contains(got, want.content) {
			t.Errorf("got %v %q, want %v", name, got, want)
		}
	} else if got != want.content {
		t.Errorf("got %v %q, want %v", name, got, want)
	}
}

func run(p prog.Program, args []string, stdin string) result {
	r0, w0 := must.OK2(os.Pipe())
	r1, w1 := must.OK2(os.Pipe())
	r2, w2 := must.OK2(os.Pipe())
	defer r1.Close()
	defer r2.Close()

	go func() {
		w0.WriteString(stdin)
		w0.Close()
	}()

	stdoutDone := capture(r1)
	stderrDone := capture(r2)

	exit := prog.Run([3]*os.File{r0, w1, w2}, args, p)
	r0.Close()
	w1.Close()
	w2.Close()
	return result{exit, output{content: <-stdoutDone}, output{content: <-stderrDone}}
}

// capture reads the pipe in the background, so that a program writing more
// than the pipe buffer does not deadlock the test.
func capture(r *os.File) <-chan string {
	done := make(chan string, 1)
	go func() {
		b, _ := io.ReadAll(r)
		done <- string(b)
	}()
	return done
}
