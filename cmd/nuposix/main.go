// Nuposix converts POSIX shell scripts into Nushell source. It reads a
// script from a file, an argument or stdin, and writes the converted script,
// falling back to heuristic parsing and annotated best-effort output so that
// conversion always produces something runnable.
package main

import (
	"os"

	"github.com/nuposix/nuposix/pkg/buildinfo"
	"github.com/nuposix/nuposix/pkg/lsp"
	"github.com/nuposix/nuposix/pkg/prog"
	"github.com/nuposix/nuposix/pkg/translate"
)

func main() {
	os.Exit(prog.Run(
		[3]*os.File{os.Stdin, os.Stdout, os.Stderr}, os.Args,
		&buildinfo.Program{}, &lsp.Program{}, &translate.Program{}))
}
