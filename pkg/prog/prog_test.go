package prog_test

import (
	"errors"
	"os"
	"testing"

	. "github.com/nuposix/nuposix/pkg/prog"
	"github.com/nuposix/nuposix/pkg/prog/progtest"
)

var (
	Test        = progtest.Test
	ThatNuposix = progtest.ThatNuposix
)

type testProgram struct {
	next      bool
	writeOut  string
	returnErr error
}

func (p testProgram) RegisterFlags(*FlagSet) {}

func (p testProgram) Run(fds [3]*os.File, args []string) error {
	if p.next {
		return ErrNextProgram
	}
	fds[1].WriteString(p.writeOut)
	return p.returnErr
}

func TestCommonFlagHandling(t *testing.T) {
	Test(t, testProgram{},
		ThatNuposix("-bad-flag").
			ExitsWith(2).
			WritesStderrContaining("flag provided but not defined: -bad-flag\nUsage:"),
		// -h is treated as a bad flag
		ThatNuposix("-h").
			ExitsWith(2).
			WritesStderrContaining("flag provided but not defined: -h\nUsage:"),

		ThatNuposix("-help").
			WritesStdoutContaining("Usage: nuposix [flags] [script...]"),
	)
}

func TestNextProgram(t *testing.T) {
	Test(t, testProgram{next: true},
		ThatNuposix().
			ExitsWith(2).
			WritesStderr("internal error: no suitable subprogram\n"),
	)
}

func TestProgramOrder(t *testing.T) {
	runTwo := func(first, second testProgram) (string, int) {
		r, w := mustPipe(t)
		exit := Run([3]*os.File{os.Stdin, w, w}, []string{"nuposix"}, first, second)
		w.Close()
		buf := make([]byte, 64)
		n, _ := r.Read(buf)
		r.Close()
		return string(buf[:n]), exit
	}

	// The first program that does not pass wins.
	if got, exit := runTwo(
		testProgram{writeOut: "program 1"},
		testProgram{writeOut: "program 2"}); got != "program 1" || exit != 0 {
		t.Errorf("got output %q exit %v, want %q exit 0", got, exit, "program 1")
	}
	// ErrNextProgram falls through to the next program.
	if got, exit := runTwo(
		testProgram{next: true},
		testProgram{writeOut: "second"}); got != "second" || exit != 0 {
		t.Errorf("got output %q exit %v, want %q exit 0", got, exit, "second")
	}
}

func TestBadUsageError(t *testing.T) {
	Test(t, testProgram{returnErr: BadUsage("lorem ipsum")},
		ThatNuposix().
			ExitsWith(2).
			WritesStderrContaining("lorem ipsum\nUsage:"),
	)
}

func TestExitError(t *testing.T) {
	Test(t, testProgram{returnErr: Exit(3)},
		ThatNuposix().ExitsWith(3),
	)
}

func TestExitErrorZero(t *testing.T) {
	Test(t, testProgram{returnErr: Exit(0)},
		ThatNuposix().ExitsWith(0),
	)
}

func TestPlainError(t *testing.T) {
	Test(t, testProgram{returnErr: errors.New("some error")},
		ThatNuposix().
			ExitsWith(2).
			WritesStderr("some error\n"),
	)
}

func mustPipe(t *testing.T) (*os.File, *os.File) {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	return r, w
}
