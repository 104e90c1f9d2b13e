// Package prog provides the entry point to nuposix. Its subpackages
// correspond to subprograms of nuposix.
package prog

// This package parses the common command-line flags and calls the first
// applicable "subprogram", one of the converter, the language server, or the
// build info printer.

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/nuposix/nuposix/pkg/logutil"
)

// FlagSet wraps a [flag.FlagSet], and provides methods to register flags
// shared by some subprograms only when they are requested.
type FlagSet struct {
	*flag.FlagSet
	json *bool
}

// JSON returns a pointer to the value of the shared -json flag, registering
// it on first use.
func (fs *FlagSet) JSON() *bool {
	if fs.json == nil {
		var json bool
		fs.BoolVar(&json, "json", false,
			"Show the output from -buildinfo or -version in JSON")
		fs.json = &json
	}
	return fs.json
}

// Program represents a subprogram.
type Program interface {
	// RegisterFlags registers the flags the subprogram cares about.
	RegisterFlags(fs *FlagSet)
	// Run runs the subprogram.
	Run(fds [3]*os.File, args []string) error
}

func usage(out io.Writer, fs *flag.FlagSet) {
	fmt.Fprintln(out, "Usage: nuposix [flags] [script...]")
	fmt.Fprintln(out, "Supported flags:")
	fs.SetOutput(out)
	fs.PrintDefaults()
}

// Run parses command-line flags and runs the first applicable subprogram. It
// returns the exit status of the process.
func Run(fds [3]*os.File, args []string, programs ...Program) int {
	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	// Error and usage will be printed explicitly.
	fs.SetOutput(io.Discard)

	var log string
	var help bool
	fs.StringVar(&log, "log", "", "a file to write debug log to")
	fs.BoolVar(&help, "help", false, "show usage help and quit")

	wrapped := &FlagSet{FlagSet: fs}
	for _, program := range programs {
		program.RegisterFlags(wrapped)
	}

	err := fs.Parse(args[1:])
	if err != nil {
		if err == flag.ErrHelp {
			// (*flag.FlagSet).Parse returns ErrHelp when -h or -help was
			// requested but *not* defined. We define -help but not -h, so
			// this means that -h has been requested. Handle this by printing
			// the same message as an undefined flag.
			fmt.Fprintln(fds[2], "flag provided but not defined: -h")
		} else {
			fmt.Fprintln(fds[2], err)
		}
		usage(fds[2], fs)
		return 2
	}

	if log != "" {
		err = logutil.SetOutputFile(log)
		if err != nil {
			fmt.Fprintln(fds[2], err)
		}
	}

	if help {
		usage(fds[1], fs)
		return 0
	}

	for _, program := range programs {
		err := program.Run(fds, fs.Args())
		if err == ErrNextProgram {
			continue
		}
		if err == nil {
			return 0
		}
		if msg := err.Error(); msg != "" {
			fmt.Fprintln(fds[2], msg)
		}
		switch err := err.(type) {
		case badUsageError:
			usage(fds[2], fs)
		case exitError:
			return err.exit
		}
		return 2
	}
	// The last program is expected to always run.
	fmt.Fprintln(fds[2], "internal error: no suitable subprogram")
	return 2
}

// ErrNextProgram is a special error that may be returned by [Program.Run], to
// signify that the next program should be tried instead.
var ErrNextProgram = errors.New("next program")

// BadUsage returns a special error that may be returned by [Program.Run]. It
// causes the main function to print out a message, the usage information and
// exit with 2.
func BadUsage(msg string) error { return badUsageError{msg} }

type badUsageError struct{ msg string }

func (e badUsageError) Error() string { return e.msg }

// Exit returns a special error that may be returned by [Program.Run]. It
// causes the main function to exit with the given code without printing any
// error messages. Exit(0) returns nil.
func Exit(exit int) error {
	if exit == 0 {
		return nil
	}
	return exitError{exit}
}

type exitError struct{ exit int }

func (e exitError) Error() string { return "" }
