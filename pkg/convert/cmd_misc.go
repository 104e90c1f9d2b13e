package convert

import "strings"

// Converters for the external tier: commands that are deliberately delegated
// to an external process. Translating an embedded language like awk is out
// of scope; running the real binary with carefully quoted arguments keeps
// behavior identical.

func convertAwk(args []string) string {
	return Fallback("awk", args)
}

func convertWhich(args []string) string {
	all := false
	var names []string
	for _, arg := range args {
		switch arg {
		case "-a", "--all":
			all = true
		case "-s", "--silent":
		default:
			if !strings.HasPrefix(arg, "-") {
				names = append(names, arg)
			}
		}
	}
	if len(names) == 0 {
		return "which"
	}
	out := "which"
	if all {
		out += " --all"
	}
	return out + " " + quoteAll(names)
}

func convertWhoami(args []string) string {
	return "$env.USER? | default (^whoami)"
}

func convertPs(args []string) string {
	for _, arg := range args {
		switch arg {
		case "-e", "-A", "-a", "-x", "aux", "-ef":
			// The structured ps always lists every process.
		default:
			if strings.HasPrefix(arg, "-") {
				return Fallback("ps", args)
			}
		}
	}
	return "ps"
}
