package convert

import (
	"fmt"
	"strconv"
	"strings"
)

// Converters for line and text processing utilities. Each maps one source
// command to a short pipeline of structured operations; input comes either
// from the surrounding pipeline or from an explicit "open" of a named file.

func convertEcho(args []string) string {
	var words []string
	for _, arg := range args {
		switch arg {
		case "-n", "-e", "-E":
			// Escape handling and the trailing newline have no counterpart
			// in print.
		default:
			words = append(words, arg)
		}
	}
	if len(words) == 0 {
		return "print"
	}
	return "print " + quoteAll(words)
}

func convertGrep(args []string) string {
	if len(args) == 0 {
		return "grep"
	}
	var pattern string
	var files []string
	var quiet, invert, ignoreCase, count, lineNumber, word, only bool
	for _, arg := range args {
		switch arg {
		case "-q", "--quiet", "--silent":
			quiet = true
		case "-v", "--invert-match":
			invert = true
		case "-i", "--ignore-case":
			ignoreCase = true
		case "-c", "--count":
			count = true
		case "-n", "--line-number":
			lineNumber = true
		case "-w", "--word-regexp":
			word = true
		case "-o", "--only-matching":
			only = true
		case "-E", "--extended-regexp", "-F", "--fixed-strings":
			// Both dialects' filters are regex-based already.
		default:
			if strings.HasPrefix(arg, "-") {
				continue
			}
			if pattern == "" {
				pattern = arg
			} else {
				files = append(files, arg)
			}
		}
	}
	if pattern == "" {
		return "grep"
	}
	if len(files) > 1 {
		// Multiple files lose the per-file prefix when opened one by one;
		// delegate instead.
		return Fallback("grep", args)
	}

	if word {
		pattern = `\b` + pattern + `\b`
	}
	op := "=~"
	if invert {
		op = "!~"
	}
	where := fmt.Sprintf("where $it %s %s", op, QuoteForce(pattern))
	if ignoreCase {
		where = annotate(where, "case-insensitive")
	}

	prefix := "lines | "
	if len(files) == 1 && files[0] != "-" {
		prefix = fmt.Sprintf("open %s | lines | ", Quote(files[0]))
	}
	switch {
	case quiet:
		return prefix + where + " | length | $in > 0"
	case count:
		return prefix + where + " | length"
	case lineNumber:
		return prefix + fmt.Sprintf(
			`enumerate | where ($it.item %s %s) | each { |x| $"($x.index + 1): ($x.item)" }`,
			op, QuoteForce(pattern))
	case only:
		return prefix + where +
			fmt.Sprintf(" | each { |line| $line | parse --regex %s }", QuoteForce(pattern))
	default:
		return prefix + where
	}
}

func convertHead(args []string) string { return headTail(args, "first") }

func convertTail(args []string) string {
	for _, arg := range args {
		if strings.HasPrefix(arg, "+") {
			if n, err := strconv.Atoi(arg[1:]); err == nil && n > 0 {
				return fmt.Sprintf("skip %d", n-1)
			}
		}
	}
	return headTail(args, "last")
}

// headTail implements head and tail, which differ only in the verb.
func headTail(args []string, verb string) string {
	n := 10
	var files []string
	follow := false
	for i := 0; i < len(args); i++ {
		switch arg := args[i]; {
		case arg == "-n" || arg == "--lines":
			if i+1 < len(args) {
				i++
				if v, err := strconv.Atoi(args[i]); err == nil {
					n = v
				}
			}
		case arg == "-c" || arg == "--bytes":
			if i+1 < len(args) {
				i++
				if v, err := strconv.Atoi(args[i]); err == nil {
					return fmt.Sprintf("%s %d bytes", verb, v)
				}
			}
		case arg == "-f" || arg == "--follow":
			follow = true
		case arg == "-q" || arg == "-v" || strings.HasPrefix(arg, "+"):
		case strings.HasPrefix(arg, "-") && len(arg) > 1 && allDigits(arg[1:]):
			n, _ = strconv.Atoi(arg[1:])
		case strings.HasPrefix(arg, "-") && len(arg) > 1:
		default:
			files = append(files, arg)
		}
	}
	out := fmt.Sprintf("%s %d", verb, n)
	if len(files) == 1 && files[0] != "-" {
		out = fmt.Sprintf("open %s | lines | %s", Quote(files[0]), out)
	} else if len(files) > 1 {
		var parts []string
		for _, f := range files {
			parts = append(parts, fmt.Sprintf(
				"print \"==> %s <==\"; open %s | lines | %s %d", f, Quote(f), verb, n))
		}
		out = strings.Join(parts, "; ")
	}
	if follow {
		out = annotate(out, "follow mode not supported")
	}
	return out
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}

func convertSort(args []string) string {
	var reverse, numeric, unique, ignoreCase bool
	var files []string
	output := ""
	for i := 0; i < len(args); i++ {
		switch arg := args[i]; arg {
		case "-r", "--reverse":
			reverse = true
		case "-n", "--numeric-sort":
			numeric = true
		case "-u", "--unique":
			unique = true
		case "-f", "--ignore-case":
			ignoreCase = true
		case "-o", "--output":
			if i+1 < len(args) {
				i++
				output = args[i]
			}
		case "-k", "--key", "-t", "--field-separator":
			// Field-based sorting needs a schema the plain line stream does
			// not have; skip the flag and its value.
			if i+1 < len(args) {
				i++
			}
		default:
			if !strings.HasPrefix(arg, "-") {
				files = append(files, arg)
			}
		}
	}
	var sb strings.Builder
	if len(files) > 0 {
		fmt.Fprintf(&sb, "open %s | ", Quote(files[0]))
	}
	if numeric {
		sb.WriteString("lines | each { |line| $line | into int } | sort")
	} else {
		sb.WriteString("lines | sort")
	}
	if reverse {
		sb.WriteString(" --reverse")
	}
	if ignoreCase {
		sb.WriteString(" --ignore-case")
	}
	if unique {
		sb.WriteString(" | uniq")
	}
	if output != "" {
		sb.WriteString(" | save " + Quote(output))
	}
	return sb.String()
}

func convertUniq(args []string) string {
	var count, repeated, uniqueOnly, ignoreCase bool
	var files []string
	for _, arg := range args {
		switch arg {
		case "-c", "--count":
			count = true
		case "-d", "--repeated":
			repeated = true
		case "-u", "--unique":
			uniqueOnly = true
		case "-i", "--ignore-case":
			ignoreCase = true
		default:
			if !strings.HasPrefix(arg, "-") {
				files = append(files, arg)
			}
		}
	}
	var sb strings.Builder
	if len(files) > 0 && files[0] != "-" {
		fmt.Fprintf(&sb, "open %s | ", Quote(files[0]))
	}
	switch {
	case count:
		sb.WriteString("lines | group-by | transpose key count | select key count")
	case repeated:
		sb.WriteString("lines | group-by | where ($it | length) > 1 | transpose | get column0")
	case uniqueOnly:
		sb.WriteString("lines | group-by | where ($it | length) == 1 | transpose | get column0")
	default:
		sb.WriteString("lines | uniq")
	}
	// The second positional argument of uniq is an output file.
	if len(files) > 1 {
		sb.WriteString(" | save " + Quote(files[1]))
	}
	if ignoreCase {
		return annotate(sb.String(), "ignore-case not supported")
	}
	return sb.String()
}

func convertWc(args []string) string {
	var lines, words, chars bool
	var files []string
	for _, arg := range args {
		switch arg {
		case "-l", "--lines":
			lines = true
		case "-w", "--words":
			words = true
		case "-c", "--bytes", "-m", "--chars":
			chars = true
		default:
			if !strings.HasPrefix(arg, "-") {
				files = append(files, arg)
			}
		}
	}
	var op string
	switch {
	case lines && !words && !chars:
		op = "lines | length"
	case words && !lines && !chars:
		op = "split words | length"
	case chars && !lines && !words:
		op = "str length"
	case !lines && !words && !chars:
		op = `{lines: ($in | lines | length), words: ($in | split words | length), chars: ($in | str length)}`
	default:
		return Fallback("wc", args)
	}
	if len(files) == 0 || files[0] == "-" {
		return op
	}
	var parts []string
	for _, f := range files {
		parts = append(parts, fmt.Sprintf("open --raw %s | %s", Quote(f), op))
	}
	return strings.Join(parts, "; ")
}

func convertCut(args []string) string {
	delim := "\t"
	var fields, chars string
	var files []string
	for i := 0; i < len(args); i++ {
		switch arg := args[i]; arg {
		case "-d", "--delimiter":
			if i+1 < len(args) {
				i++
				delim = args[i]
			}
		case "-f", "--fields":
			if i+1 < len(args) {
				i++
				fields = args[i]
			}
		case "-c", "--characters":
			if i+1 < len(args) {
				i++
				chars = args[i]
			}
		case "-s", "--only-delimited":
		default:
			switch {
			case strings.HasPrefix(arg, "-d"):
				delim = arg[2:]
			case strings.HasPrefix(arg, "-f"):
				fields = arg[2:]
			case strings.HasPrefix(arg, "-c"):
				chars = arg[2:]
			case !strings.HasPrefix(arg, "-"):
				files = append(files, arg)
			}
		}
	}

	prefix := "lines"
	if len(files) > 0 && files[0] != "-" {
		prefix = fmt.Sprintf("open %s | lines", Quote(files[0]))
	}
	switch {
	case fields != "":
		idx, ok := fieldIndices(fields)
		if !ok {
			return Fallback("cut", args)
		}
		return fmt.Sprintf("%s | each { |line| $line | split row %s | select %s | str join %s }",
			prefix, QuoteForce(delim), idx, QuoteForce(delim))
	case chars != "":
		from, to, ok := charRange(chars)
		if !ok {
			return Fallback("cut", args)
		}
		return fmt.Sprintf("%s | each { |line| $line | str substring %d..%d }",
			prefix, from, to)
	default:
		return Fallback("cut", args)
	}
}

// fieldIndices converts a 1-based cut field list like "1,3-4" to 0-based
// space-separated indices.
func fieldIndices(list string) (string, bool) {
	var out []string
	for _, part := range strings.Split(list, ",") {
		if from, to, ok := splitRange(part); ok {
			for i := from; i <= to; i++ {
				out = append(out, strconv.Itoa(i-1))
			}
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < 1 {
			return "", false
		}
		out = append(out, strconv.Itoa(n-1))
	}
	return strings.Join(out, " "), len(out) > 0
}

// charRange converts a 1-based character range like "2-5" to a 0-based
// inclusive substring range.
func charRange(list string) (int, int, bool) {
	if from, to, ok := splitRange(list); ok {
		return from - 1, to - 1, true
	}
	if n, err := strconv.Atoi(list); err == nil && n >= 1 {
		return n - 1, n - 1, true
	}
	return 0, 0, false
}

func splitRange(s string) (int, int, bool) {
	from, to, ok := strings.Cut(s, "-")
	if !ok {
		return 0, 0, false
	}
	a, err1 := strconv.Atoi(from)
	b, err2 := strconv.Atoi(to)
	if err1 != nil || err2 != nil || a < 1 || b < a {
		return 0, 0, false
	}
	return a, b, true
}

func convertSed(args []string) string {
	var script string
	var files []string
	inPlace := false
	for i := 0; i < len(args); i++ {
		switch arg := args[i]; {
		case arg == "-e" || arg == "--expression":
			if i+1 < len(args) {
				i++
				script = args[i]
			}
		case arg == "-i" || strings.HasPrefix(arg, "-i"):
			inPlace = true
		case arg == "-n" || arg == "-r" || arg == "-E" || arg == "-s":
		case strings.HasPrefix(arg, "-"):
		default:
			if script == "" {
				script = arg
			} else {
				files = append(files, arg)
			}
		}
	}
	replace, ok := sedSubstitution(script)
	if !ok {
		return Fallback("sed", args)
	}
	prefix := "lines"
	if len(files) > 0 && files[0] != "-" {
		prefix = fmt.Sprintf("open %s | lines", Quote(files[0]))
	}
	out := fmt.Sprintf("%s | each { |line| $line | %s } | str join (char nl)", prefix, replace)
	if inPlace && len(files) > 0 {
		out += " | save --force " + Quote(files[0])
	}
	return out
}

// sedSubstitution translates a "s/pattern/replacement/[g]" script into a
// str replace invocation. Anything else is not attempted.
func sedSubstitution(script string) (string, bool) {
	if len(script) < 4 || script[0] != 's' {
		return "", false
	}
	sep := script[1]
	parts := strings.Split(script[2:], string(sep))
	if len(parts) < 2 {
		return "", false
	}
	pattern, repl := parts[0], parts[1]
	all := len(parts) > 2 && strings.Contains(parts[2], "g")
	if all {
		return fmt.Sprintf("str replace --all --regex %s %s",
			QuoteForce(pattern), QuoteForce(repl)), true
	}
	return fmt.Sprintf("str replace --regex %s %s",
		QuoteForce(pattern), QuoteForce(repl)), true
}

func convertSeq(args []string) string {
	var nums []string
	for _, arg := range args {
		if _, err := strconv.Atoi(arg); err == nil {
			nums = append(nums, arg)
		} else if strings.HasPrefix(arg, "-") {
			// Separator and format flags keep seq external.
			return "seq " + quoteAll(args)
		} else {
			return "seq " + quoteAll(args)
		}
	}
	switch len(nums) {
	case 1:
		return fmt.Sprintf("1..%s", nums[0])
	case 2:
		return fmt.Sprintf("%s..%s", nums[0], nums[1])
	case 3:
		// seq FIRST INCREMENT LAST maps to a stepped range.
		return fmt.Sprintf("%s..%s..%s", nums[0], addInt(nums[0], nums[1]), nums[2])
	default:
		return "seq " + quoteAll(args)
	}
}

func addInt(a, b string) string {
	x, _ := strconv.Atoi(a)
	y, _ := strconv.Atoi(b)
	return strconv.Itoa(x + y)
}

func convertDate(args []string) string {
	if len(args) == 0 {
		return "date now"
	}
	utc := false
	format := ""
	for _, arg := range args {
		switch {
		case arg == "-u" || arg == "--utc" || arg == "--universal":
			utc = true
		case strings.HasPrefix(arg, "+"):
			format = arg[1:]
		case arg == "-I" || arg == "--iso-8601":
			format = "%Y-%m-%d"
		case arg == "-R" || arg == "--rfc-2822":
			format = "%a, %d %b %Y %H:%M:%S %z"
		default:
			return Fallback("date", args)
		}
	}
	out := "date now"
	if utc {
		out += ` | date to-timezone "UTC"`
	}
	if format != "" {
		out += " | format date " + QuoteForce(format)
	}
	return out
}
