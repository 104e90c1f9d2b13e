package convert

import (
	"fmt"
	"strconv"
	"strings"
)

// Converters for shell builtins.

func convertCd(args []string) string {
	var path string
	for _, arg := range args {
		switch {
		case arg == "-":
			return "cd -"
		case arg == "-L" || arg == "-P":
			// Logical vs physical resolution has no counterpart.
		case strings.HasPrefix(arg, "-"):
		default:
			if path == "" {
				path = arg
			}
		}
	}
	if path == "" {
		return "cd"
	}
	return "cd " + Quote(path)
}

func convertPwd(args []string) string {
	for _, arg := range args {
		if arg == "-P" || arg == "--physical" {
			return "pwd | path expand"
		}
	}
	return "pwd"
}

func convertExit(args []string) string {
	if len(args) == 0 {
		return "exit"
	}
	if code, err := strconv.Atoi(args[0]); err == nil {
		return fmt.Sprintf("exit %d", code)
	}
	return "exit 1"
}

func convertTrue(args []string) string { return "true" }

func convertFalse(args []string) string { return "false" }

func convertRead(args []string) string {
	var silent bool
	var prompt string
	var vars []string
	for i := 0; i < len(args); i++ {
		switch arg := args[i]; arg {
		case "-s":
			silent = true
		case "-p":
			if i+1 < len(args) {
				i++
				prompt = args[i]
			}
		case "-r":
			// Input is raw by default in the target dialect.
		case "-t", "-d", "-n", "-u":
			// Takes a value; neither is representable.
			if i+1 < len(args) {
				i++
			}
		default:
			if !strings.HasPrefix(arg, "-") {
				vars = append(vars, arg)
			}
		}
	}
	var sb strings.Builder
	if prompt != "" {
		sb.WriteString("print " + QuoteForce(prompt) + "; ")
	}
	if silent {
		sb.WriteString("input -s")
	} else {
		sb.WriteString("input")
	}
	if len(vars) == 1 {
		sb.WriteString(" | $env." + vars[0] + " = $in")
	} else if len(vars) > 1 {
		sb.WriteString(" | split words | ")
		for i, v := range vars {
			if i > 0 {
				sb.WriteString("; ")
			}
			fmt.Fprintf(&sb, "$env.%s = ($in | get %d | default \"\")", v, i)
		}
	}
	return sb.String()
}

// convertBracket handles "[": the same as test, minus the closing bracket.
func convertBracket(args []string) string {
	if n := len(args); n > 0 && args[n-1] == "]" {
		args = args[:n-1]
	}
	return convertTest(args)
}

func convertTest(args []string) string {
	switch len(args) {
	case 0:
		return "false"
	case 1:
		return testUnary(args[0])
	case 2:
		return testFileOrString(args[0], args[1])
	case 3:
		return testBinary(args[0], args[1], args[2])
	default:
		return testComplex(args)
	}
}

func testUnary(arg string) string {
	if arg == "]" {
		return "true"
	}
	return fmt.Sprintf("(%s | is-not-empty)", QuoteForce(arg))
}

// testFileOrString handles two-argument tests: unary file attribute and
// string operators.
func testFileOrString(op, arg string) string {
	q := QuoteForce(arg)
	switch op {
	case "-e":
		return fmt.Sprintf("(%s | path exists)", q)
	case "-f":
		return fmt.Sprintf("(%s | path exists) and ((%s | path type) == \"file\")", q, q)
	case "-d":
		return fmt.Sprintf("(%s | path type) == \"dir\"", q)
	case "-L", "-h":
		return fmt.Sprintf("(%s | path type) == \"symlink\"", q)
	case "-r", "-w", "-x":
		// Permission bits have no structured counterpart; approximate with
		// existence.
		return fmt.Sprintf("(%s | path exists)", q)
	case "-s":
		return fmt.Sprintf("(%s | path exists) and ((open %s | length) > 0)", q, q)
	case "-p":
		return fmt.Sprintf("(%s | path type) == \"fifo\"", q)
	case "-S":
		return fmt.Sprintf("(%s | path type) == \"socket\"", q)
	case "-b":
		return fmt.Sprintf("(%s | path type) == \"block\"", q)
	case "-c":
		return fmt.Sprintf("(%s | path type) == \"char\"", q)
	case "-z":
		return fmt.Sprintf("(%s | is-empty)", q)
	case "-n":
		return fmt.Sprintf("(%s | is-not-empty)", q)
	case "-t":
		return fmt.Sprintf("(%s | into int) in [0, 1, 2]", q)
	case "!":
		return fmt.Sprintf("not (%s)", testUnary(arg))
	}
	return annotate("false", fmt.Sprintf("unconvertible test: test %s %s", op, Quote(arg)))
}

// testBinary handles three-argument tests: binary string, numeric and file
// comparisons. Numeric operators coerce both sides to integers.
func testBinary(left, op, right string) string {
	ql, qr := QuoteForce(left), QuoteForce(right)
	switch op {
	case "=", "==":
		return fmt.Sprintf("%s == %s", ql, qr)
	case "!=":
		return fmt.Sprintf("%s != %s", ql, qr)
	case "=~":
		return fmt.Sprintf("%s =~ %s", ql, qr)
	case "!~":
		return fmt.Sprintf("%s !~ %s", ql, qr)
	case "-eq", "-ne", "-lt", "-le", "-gt", "-ge":
		nuOp := map[string]string{
			"-eq": "==", "-ne": "!=", "-lt": "<",
			"-le": "<=", "-gt": ">", "-ge": ">=",
		}[op]
		return fmt.Sprintf("%s %s %s", testInt(left), nuOp, testInt(right))
	case "-nt", "-ot":
		cmp := ">"
		if op == "-ot" {
			cmp = "<"
		}
		return fmt.Sprintf(
			"(%s | path exists) and (%s | path exists) and ((%s | get modified) %s (%s | get modified))",
			ql, qr, ql, cmp, qr)
	case "-ef":
		return fmt.Sprintf(
			"(%s | path exists) and (%s | path exists) and ((%s | get inode) == (%s | get inode))",
			ql, qr, ql, qr)
	}
	return annotate("false", fmt.Sprintf("unconvertible test: test %s %s %s", ql, Quote(op), qr))
}

// testInt renders one operand of a numeric comparison. Literal integers stay
// as written; everything else is coerced.
func testInt(arg string) string {
	if _, err := strconv.Atoi(arg); err == nil {
		return arg
	}
	return fmt.Sprintf("(%s | into int)", QuoteForce(arg))
}

// testComplex splits a longer expression on -a/-o connectives and converts
// each piece, falling back to an annotated expression for shapes it cannot
// decompose.
func testComplex(args []string) string {
	// Strip a [ ... ] wrapper if present.
	if len(args) >= 2 && args[0] == "[" && args[len(args)-1] == "]" {
		args = args[1 : len(args)-1]
	}
	if len(args) == 0 {
		return "false"
	}

	type clause struct {
		terms []string
		join  string // connective to the next clause
	}
	var clauses []clause
	var cur []string
	for _, arg := range args {
		switch arg {
		case "-a", "&&":
			clauses = append(clauses, clause{terms: cur, join: "and"})
			cur = nil
		case "-o", "||":
			clauses = append(clauses, clause{terms: cur, join: "or"})
			cur = nil
		default:
			cur = append(cur, arg)
		}
	}
	clauses = append(clauses, clause{terms: cur})

	var sb strings.Builder
	for i, cl := range clauses {
		if i > 0 {
			sb.WriteString(" " + clauses[i-1].join + " ")
		}
		var converted string
		switch len(cl.terms) {
		case 0:
			converted = "false"
		case 1, 2, 3:
			converted = convertTest(cl.terms)
		default:
			converted = annotate("false", "unconvertible test: test "+quoteAll(cl.terms))
		}
		sb.WriteString("(" + converted + ")")
	}
	return sb.String()
}

func convertKill(args []string) string {
	signal := "TERM"
	var pids []string
	for i := 0; i < len(args); i++ {
		switch arg := args[i]; {
		case arg == "-l" || arg == "--list":
			return annotate("^kill -l",
				"HUP INT QUIT ILL TRAP ABRT BUS FPE KILL USR1 SEGV USR2 PIPE ALRM TERM")
		case arg == "-s":
			if i+1 < len(args) {
				i++
				signal = args[i]
			}
		case strings.HasPrefix(arg, "-") && len(arg) > 1:
			signal = strings.TrimPrefix(arg, "-")
		default:
			pids = append(pids, arg)
		}
	}
	if len(pids) == 0 {
		return annotate("kill", "usage: kill [-signal] pid...")
	}
	suffix := ""
	switch signal {
	case "TERM", "15":
	case "KILL", "9":
		suffix = " --force"
	default:
		suffix = " --signal " + signal
	}
	if len(pids) == 1 {
		return "kill" + suffix + " " + pids[0]
	}
	return fmt.Sprintf("[%s] | each { |pid| kill%s $pid }",
		strings.Join(pids, " "), suffix)
}

func convertJobs(args []string) string {
	out := "jobs"
	for _, arg := range args {
		switch arg {
		case "-p":
			return out + " | get pid"
		case "-l":
			return out + " | select job_id pid command status"
		case "-r":
			return out + ` | where status == "running"`
		case "-s":
			return out + ` | where status == "stopped"`
		}
	}
	return out
}
