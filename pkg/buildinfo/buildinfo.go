// Package buildinfo contains build information.
//
// Build information should be set during compilation by passing
// -ldflags "-X github.com/nuposix/nuposix/pkg/buildinfo.VersionSuffix=value"
// to "go build".
package buildinfo

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"

	"github.com/nuposix/nuposix/pkg/prog"
)

// Version identifies the version of nuposix. On development commits, it
// identifies the next release.
const Version = "0.3.0"

// VersionSuffix is appended to Version to build the full version string. It
// is defined as a variable so that it can be overridden when building.
var VersionSuffix = "-dev.unknown"

// Value contains the full build information.
var Value = BuildInfo{
	Version:   Version + VersionSuffix,
	GoVersion: runtime.Version(),
}

// BuildInfo contains build information.
type BuildInfo struct {
	Version   string `json:"version"`
	GoVersion string `json:"goversion"`
}

// Program is the buildinfo subprogram.
type Program struct {
	version, buildinfo bool
	json               *bool
}

func (p *Program) RegisterFlags(fs *prog.FlagSet) {
	fs.BoolVar(&p.version, "version", false, "Output the version and quit")
	fs.BoolVar(&p.buildinfo, "buildinfo", false, "Output information about the build and quit")
	p.json = fs.JSON()
}

func (p *Program) Run(fds [3]*os.File, _ []string) error {
	switch {
	case p.buildinfo:
		if *p.json {
			fmt.Fprintln(fds[1], mustToJSON(Value))
		} else {
			fmt.Fprintln(fds[1], "Version:", Value.Version)
			fmt.Fprintln(fds[1], "Go version:", Value.GoVersion)
		}
	case p.version:
		if *p.json {
			fmt.Fprintln(fds[1], mustToJSON(Value.Version))
		} else {
			fmt.Fprintln(fds[1], Value.Version)
		}
	default:
		return prog.ErrNextProgram
	}
	return nil
}

func mustToJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(b)
}
