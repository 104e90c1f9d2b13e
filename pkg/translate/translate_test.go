package translate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nuposix/nuposix/pkg/must"
	. "github.com/nuposix/nuposix/pkg/prog/progtest"
)

// In tests stdout is a pipe, so output defaults to the compact style.

func TestProgram(t *testing.T) {
	Test(t, &Program{},
		ThatNuposix("-c", "echo hello world").
			WritesStdout("print hello world\n"),
		ThatNuposix("-c", "ls -la | grep test").
			WritesStdout("ls --long --all | lines | where $it =~ \"test\"\n"),
		ThatNuposix("-c", "foobar -x 1").
			WritesStdout("^foobar -x 1\n"),
		ThatNuposix("-c").
			ExitsWith(2).
			WritesStderrContaining("-c requires an argument"),

		ThatNuposix().WithStdin("echo hi\n").WritesStdout("print hi\n"),
	)
}

func TestProgram_Styles(t *testing.T) {
	Test(t, &Program{},
		ThatNuposix("-pretty", "-c", "if true; then echo a; fi").
			WritesStdout("if true {\n  print a\n}\n"),
		ThatNuposix("-compact", "-c", "if true; then echo a; fi").
			WritesStdout("if true { print a }\n"),
	)
}

func TestProgram_DumpAST(t *testing.T) {
	Test(t, &Program{},
		ThatNuposix("-parse", "-c", "echo hi").
			WritesStdoutContaining(`"type": "simple"`),
		ThatNuposix("-parse", "-c", "echo hi").
			WritesStdoutContaining(`"name": "echo"`),
	)
}

func TestProgram_Strict(t *testing.T) {
	Test(t, &Program{},
		ThatNuposix("-strict", "-c", "cmd > ; echo").
			ExitsWith(2).
			WritesStderrContaining("cannot parse"),
		// Without -strict the fallback produces output.
		ThatNuposix("-c", "cmd > ; echo").
			ExitsWith(0).
			WritesStdoutContaining("^cmd"),
	)
}

func TestProgram_InputFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.sh")
	out := filepath.Join(dir, "out.nu")
	must.WriteFile(in, "echo hi\n")

	Test(t, &Program{},
		ThatNuposix(in).WritesStdout("print hi\n"),
		ThatNuposix("-o", out, in).DoesNothing(),
		ThatNuposix(filepath.Join(dir, "missing.sh")).
			ExitsWith(2).
			WritesStderrContaining("no such file"),
	)

	if got := must.ReadFileString(out); got != "print hi\n" {
		t.Errorf("output file content %q, want %q", got, "print hi\n")
	}
}

func TestProgram_Cache(t *testing.T) {
	db := filepath.Join(t.TempDir(), "cache.db")
	Test(t, &Program{},
		ThatNuposix("-cache", db, "-c", "echo hi").WritesStdout("print hi\n"),
		// Same result when served from the cache.
		ThatNuposix("-cache", db, "-c", "echo hi").WritesStdout("print hi\n"),
	)
	if _, err := os.Stat(db); err != nil {
		t.Errorf("cache file missing: %v", err)
	}
}

func TestProgram_ConfigFile(t *testing.T) {
	conf := filepath.Join(t.TempDir(), "conf.yaml")

	must.WriteFile(conf, "pretty_print: true\n")
	Test(t, &Program{},
		ThatNuposix("-config", conf, "-c", "if true; then echo a; fi").
			WritesStdout("if true {\n  print a\n}\n"),
		// Flags win over the config file.
		ThatNuposix("-config", conf, "-compact", "-c", "if true; then echo a; fi").
			WritesStdout("if true { print a }\n"),
	)

	must.WriteFile(conf, "strict_mode: true\n")
	Test(t, &Program{},
		ThatNuposix("-config", conf, "-c", "cmd > ; echo").
			ExitsWith(2).
			WritesStderrContaining("cannot parse"),
	)

	must.WriteFile(conf, "prefer_primary_parser: false\n")
	Test(t, &Program{},
		ThatNuposix("-config", conf, "-c", "echo hi").WritesStdout("print hi\n"),
	)

	Test(t, &Program{},
		ThatNuposix("-config", filepath.Join(t.TempDir(), "missing.yaml")).
			ExitsWith(2).
			WritesStderrContaining("no such file"),
	)
}

func TestProgram_ToPosix(t *testing.T) {
	Test(t, &Program{},
		ThatNuposix("-to-posix", "-c", "print hi").WritesStdout("echo hi\n"),
	)
}

func TestReverseLine(t *testing.T) {
	tests := []struct{ line, want string }{
		{"", ""},
		{"# comment", "# comment"},
		{"print hello world", "echo hello world"},
		{"print", "echo"},
		{"^foobar -x 1", "foobar -x 1"},
		{`$NAME = "value"`, "NAME=value"},
		{`$NAME = "two words"`, `NAME="two words"`},
		{"$HOME_DIR = $env.HOME", "HOME_DIR=$env.HOME"},
		{"cd /tmp", "cd /tmp"},
		{"exit 1", "exit 1"},
		{"  print indented", "  echo indented"},
		{"ls --long", "# nuposix: no reverse translation: ls --long"},
		{`lines | where $it =~ "x"`,
			`# nuposix: no reverse translation: lines | where $it =~ "x"`},
	}
	for _, test := range tests {
		if got := reverseLine(test.line); got != test.want {
			t.Errorf("reverseLine(%q) = %q, want %q", test.line, got, test.want)
		}
	}
}
