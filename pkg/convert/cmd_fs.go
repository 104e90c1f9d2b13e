package convert

import (
	"fmt"
	"strings"
)

// Converters for filesystem utilities.

func convertLs(args []string) string {
	if len(args) == 0 {
		return "ls"
	}
	var flags, paths, unknown []string
	addFlag := func(f ...string) {
		for _, v := range f {
			for _, have := range flags {
				if have == v {
					return
				}
			}
			flags = append(flags, v)
		}
	}
	for _, arg := range args {
		if strings.HasPrefix(arg, "--") {
			if !strings.HasPrefix(arg, "--color") {
				unknown = append(unknown, arg)
			}
			continue
		}
		if strings.HasPrefix(arg, "-") && len(arg) > 1 {
			// Combined single-letter flags map individually.
			for _, b := range arg[1:] {
				switch b {
				case 'l':
					addFlag("--long")
				case 'a':
					addFlag("--all")
				case 'd':
					addFlag("--directory")
				case 'R':
					addFlag("--recursive")
				case 'r':
					addFlag("--reverse")
				case 't':
					addFlag("--sort-by", "modified")
				case 'S':
					addFlag("--sort-by", "size")
				case '1', 'F', 'G', 'h':
					// Single-column, classify and color flags are cosmetic
					// for a structured table.
				}
			}
			continue
		}
		paths = append(paths, Quote(arg))
	}
	out := "ls"
	if len(flags) > 0 {
		out += " " + strings.Join(flags, " ")
	}
	if len(paths) > 0 {
		out += " " + strings.Join(paths, " ")
	}
	for _, arg := range unknown {
		out = annotate(out, "unknown flag: "+arg)
	}
	return out
}

func convertCat(args []string) string {
	var files []string
	number, squeeze := false, false
	for _, arg := range args {
		switch arg {
		case "-n", "--number":
			number = true
		case "-s", "--squeeze-blank":
			squeeze = true
		case "-u", "-E", "-T", "-v", "-A", "-b":
		default:
			if !strings.HasPrefix(arg, "-") || arg == "-" {
				files = append(files, arg)
			}
		}
	}
	var out string
	switch {
	case len(files) == 0 || len(files) == 1 && files[0] == "-":
		out = "input"
	case len(files) == 1:
		out = "open --raw " + Quote(files[0])
	default:
		opens := make([]string, len(files))
		for i, f := range files {
			if f == "-" {
				opens[i] = "input"
			} else {
				opens[i] = "(open --raw " + Quote(f) + ")"
			}
		}
		out = "[" + strings.Join(opens, ", ") + "] | str join"
	}
	if squeeze {
		out += " | lines | where ($it | str trim | is-not-empty) | str join (char nl)"
	}
	if number {
		out += ` | lines | enumerate | each { |x| $"($x.index + 1)  ($x.item)" } | str join (char nl)`
	}
	return out
}

func convertMkdir(args []string) string {
	var dirs []string
	verbose, parents := false, false
	for i := 0; i < len(args); i++ {
		switch arg := args[i]; arg {
		case "-p", "--parents":
			parents = true
		case "-v", "--verbose":
			verbose = true
		case "-m", "--mode":
			if i+1 < len(args) {
				i++
			}
		default:
			if !strings.HasPrefix(arg, "-") {
				dirs = append(dirs, arg)
			}
		}
	}
	if len(dirs) == 0 {
		return "mkdir"
	}
	out := "mkdir"
	if verbose {
		out += " --verbose"
	}
	for _, d := range dirs {
		out += " " + Quote(d)
	}
	if parents {
		out = annotate(out, "creates parent directories automatically")
	}
	return out
}

func convertRm(args []string) string {
	var files []string
	var flags []string
	for _, arg := range args {
		switch arg {
		case "-r", "-R", "--recursive":
			flags = append(flags, "-r")
		case "-f", "--force":
			flags = append(flags, "--force")
		case "-i", "--interactive":
			flags = append(flags, "--interactive")
		case "-v", "--verbose":
			flags = append(flags, "--verbose")
		case "-rf", "-fr":
			flags = append(flags, "-r", "--force")
		default:
			if !strings.HasPrefix(arg, "-") {
				files = append(files, arg)
			}
		}
	}
	if len(files) == 0 {
		return "rm"
	}
	out := "rm"
	for _, f := range flags {
		out += " " + f
	}
	for _, f := range files {
		out += " " + Quote(f)
	}
	return out
}

func convertRmdir(args []string) string {
	var dirs []string
	verbose := false
	for _, arg := range args {
		switch arg {
		case "-v", "--verbose":
			verbose = true
		case "-p", "--parents", "--ignore-fail-on-non-empty":
		default:
			if !strings.HasPrefix(arg, "-") {
				dirs = append(dirs, arg)
			}
		}
	}
	if len(dirs) == 0 {
		return "rm"
	}
	out := "rm"
	if verbose {
		out += " --verbose"
	}
	for _, d := range dirs {
		out += " " + Quote(d)
	}
	return annotate(out, "rmdir only removes empty directories")
}

// copyMove implements cp and mv, which share their argument shape.
func copyMove(name string, args []string) string {
	var paths []string
	var flags []string
	for _, arg := range args {
		switch arg {
		case "-r", "-R", "--recursive":
			if name == "cp" {
				flags = append(flags, "-r")
			}
		case "-f", "--force":
			flags = append(flags, "--force")
		case "-n", "--no-clobber":
			flags = append(flags, "--no-clobber")
		case "-u", "--update":
			flags = append(flags, "--update")
		case "-v", "--verbose":
			flags = append(flags, "--verbose")
		case "-p", "--preserve", "-i", "--interactive":
		default:
			if !strings.HasPrefix(arg, "-") {
				paths = append(paths, arg)
			}
		}
	}
	if len(paths) < 2 {
		return name + " " + quoteAll(args)
	}
	out := name
	for _, f := range flags {
		out += " " + f
	}
	for _, p := range paths {
		out += " " + Quote(p)
	}
	return out
}

func convertCp(args []string) string { return copyMove("cp", args) }

func convertMv(args []string) string { return copyMove("mv", args) }

func convertFind(args []string) string {
	path := ""
	name := ""
	typ := ""
	for i := 0; i < len(args); i++ {
		switch arg := args[i]; arg {
		case "-name", "-iname":
			if i+1 < len(args) {
				i++
				name = args[i]
			}
		case "-type":
			if i+1 < len(args) {
				i++
				typ = args[i]
			}
		case "-print":
		case "-maxdepth", "-mindepth", "-size", "-newer", "-mtime", "-perm":
			// Predicates without a structured counterpart; delegating keeps
			// the semantics.
			return Fallback("find", args)
		case "-exec", "-delete", "-print0":
			return Fallback("find", args)
		default:
			if !strings.HasPrefix(arg, "-") && path == "" {
				path = arg
			}
		}
	}
	if path == "" {
		path = "."
	}
	glob := strings.TrimSuffix(path, "/") + "/**/*"
	out := "ls " + Quote(glob)
	if name != "" {
		out += fmt.Sprintf(" | where name =~ %s", QuoteForce(globToRegex(name)))
	}
	if t := findType(typ); t != "" {
		out += fmt.Sprintf(` | where type == "%s"`, t)
	}
	return out
}

func findType(t string) string {
	switch t {
	case "f":
		return "file"
	case "d":
		return "dir"
	case "l":
		return "symlink"
	case "b":
		return "block"
	case "c":
		return "char"
	case "p":
		return "fifo"
	case "s":
		return "socket"
	}
	return ""
}

// globToRegex converts a find -name glob into an anchored regex.
func globToRegex(glob string) string {
	var sb strings.Builder
	for i := 0; i < len(glob); i++ {
		switch b := glob[i]; b {
		case '*':
			sb.WriteString(".*")
		case '?':
			sb.WriteByte('.')
		case '.', '+', '(', ')', '[', ']', '^', '$', '{', '}', '|', '\\':
			sb.WriteByte('\\')
			sb.WriteByte(b)
		default:
			sb.WriteByte(b)
		}
	}
	return sb.String() + "$"
}

// pathEach renders a per-path transformation for basename-style commands:
// one path inlines directly, several map over a list.
func pathEach(paths []string, expr string) string {
	if len(paths) == 1 {
		return fmt.Sprintf("%s | %s", QuoteForce(paths[0]), expr)
	}
	return fmt.Sprintf("[%s] | each { |p| $p | %s } | str join (char nl)",
		quoteAllSep(paths, ", "), expr)
}

func quoteAllSep(words []string, sep string) string {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = Quote(w)
	}
	return strings.Join(quoted, sep)
}

func convertBasename(args []string) string {
	suffix := ""
	var paths []string
	for i := 0; i < len(args); i++ {
		switch arg := args[i]; arg {
		case "-s", "--suffix":
			if i+1 < len(args) {
				i++
				suffix = args[i]
			}
		case "-a", "--multiple", "-z", "--zero":
		default:
			if !strings.HasPrefix(arg, "-") {
				paths = append(paths, arg)
			}
		}
	}
	// basename NAME SUFFIX form.
	if suffix == "" && len(paths) == 2 {
		suffix = paths[1]
		paths = paths[:1]
	}
	if len(paths) == 0 {
		return "basename"
	}
	expr := "path basename"
	if suffix != "" {
		expr += fmt.Sprintf(" | str replace --regex %s \"\"", QuoteForce(regexQuoteSuffix(suffix)))
	}
	return pathEach(paths, expr)
}

func regexQuoteSuffix(suffix string) string {
	var sb strings.Builder
	for i := 0; i < len(suffix); i++ {
		switch b := suffix[i]; b {
		case '.', '*', '?', '+', '(', ')', '[', ']', '^', '$', '{', '}', '|', '\\':
			sb.WriteByte('\\')
			sb.WriteByte(b)
		default:
			sb.WriteByte(b)
		}
	}
	sb.WriteByte('$')
	return sb.String()
}

func convertDirname(args []string) string {
	var paths []string
	for _, arg := range args {
		if !strings.HasPrefix(arg, "-") {
			paths = append(paths, arg)
		}
	}
	if len(paths) == 0 {
		return "dirname"
	}
	return pathEach(paths, "path dirname")
}

func convertRealpath(args []string) string {
	var paths []string
	for _, arg := range args {
		if !strings.HasPrefix(arg, "-") {
			paths = append(paths, arg)
		}
	}
	if len(paths) == 0 {
		return "realpath"
	}
	return pathEach(paths, "path expand")
}

func convertStat(args []string) string {
	var paths []string
	format := ""
	for i := 0; i < len(args); i++ {
		switch arg := args[i]; arg {
		case "-c", "--format":
			if i+1 < len(args) {
				i++
				format = args[i]
			}
		case "-L", "-t", "-z", "-f":
		default:
			if !strings.HasPrefix(arg, "-") {
				paths = append(paths, arg)
			}
		}
	}
	if len(paths) == 0 {
		return "stat"
	}
	out := "ls --all --directory " + quoteAllSep(paths, " ")
	switch format {
	case "":
		return out + " | select name size mode modified"
	case "%n":
		return out + " | get name"
	case "%s":
		return out + " | get size"
	case "%F":
		return out + " | get type"
	case "%a", "%A", "%f":
		return out + " | get mode"
	default:
		return annotate(out+" | select name size mode modified",
			"format "+QuoteForce(format)+" not supported")
	}
}

func convertTee(args []string) string {
	append_ := false
	var files []string
	for _, arg := range args {
		switch arg {
		case "-a", "--append":
			append_ = true
		case "-i", "--ignore-interrupts":
		default:
			if !strings.HasPrefix(arg, "-") {
				files = append(files, arg)
			}
		}
	}
	if len(files) == 0 {
		return "tee"
	}
	var parts []string
	for _, f := range files {
		save := "save --force"
		if append_ {
			save = "save --append"
		}
		parts = append(parts, fmt.Sprintf("tee { %s %s }", save, Quote(f)))
	}
	return strings.Join(parts, " | ")
}

// chmodChown renders chmod and chown, which both delegate to the external
// binary since permission and ownership bits are outside the structured
// model.
func chmodChown(name string, args []string) string {
	var mode string
	var files []string
	recursive := false
	for _, arg := range args {
		switch arg {
		case "-R", "--recursive":
			recursive = true
		case "-v", "--verbose", "-f", "--silent", "--quiet", "-c", "--changes":
		default:
			if strings.HasPrefix(arg, "-") && mode == "" && name == "chmod" {
				// Symbolic modes like -w are modes, not flags.
				mode = arg
			} else if mode == "" {
				mode = arg
			} else {
				files = append(files, arg)
			}
		}
	}
	if mode == "" || len(files) == 0 {
		return "^" + name + " " + quoteAll(args)
	}
	if recursive {
		return fmt.Sprintf("ls %s | each { |file| ^%s %s $file.name }",
			Quote(strings.TrimSuffix(files[0], "/")+"/**/*"), name, Quote(mode))
	}
	return fmt.Sprintf("^%s %s %s", name, Quote(mode), quoteAllSep(files, " "))
}

func convertChmod(args []string) string { return chmodChown("chmod", args) }

func convertChown(args []string) string { return chmodChown("chown", args) }
