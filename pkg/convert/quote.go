package convert

import "strings"

// Characters that force a word to be quoted in the output dialect: quotes,
// expansion sigils, glob wildcards, operators and comment markers.
const quoteTriggers = "'\"\\$`*?[]{}()|;&<>#~!="

// Quote returns word in a form safe to embed in generated source: bare when
// the word contains nothing the target dialect would reinterpret, otherwise
// double-quoted with embedded quotes and backslashes escaped. Quote is
// idempotent: applying it to its own output changes nothing.
func Quote(word string) string {
	if word == "" {
		return `""`
	}
	if isQuoted(word) || isVarRef(word) {
		return word
	}
	if !strings.ContainsAny(word, quoteTriggers+" \t\r\n") {
		return word
	}
	var sb strings.Builder
	sb.WriteByte('"')
	for i := 0; i < len(word); i++ {
		switch b := word[i]; b {
		case '"', '\\':
			sb.WriteByte('\\')
			sb.WriteByte(b)
		default:
			sb.WriteByte(b)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

// QuoteForce is like Quote but wraps any word that is not a variable
// reference in double quotes, bareword or not. It is used where the output
// grammar expects an expression, such as comparison operands and assignment
// values. QuoteForce is also idempotent.
func QuoteForce(word string) string {
	if isQuoted(word) || isVarRef(word) {
		return word
	}
	q := Quote(word)
	if isQuoted(q) {
		return q
	}
	return `"` + q + `"`
}

// isQuoted reports whether word is already a well-formed double-quoted
// string, with no unescaped interior quotes.
func isQuoted(word string) bool {
	if len(word) < 2 || word[0] != '"' || word[len(word)-1] != '"' {
		return false
	}
	for i := 1; i < len(word)-1; i++ {
		switch word[i] {
		case '\\':
			i++
			if i == len(word)-1 {
				// The escape covers the final quote; not terminated.
				return false
			}
		case '"':
			return false
		}
	}
	return true
}

// isVarRef reports whether word is a plain variable reference like $x or
// $env.PATH, which reads the same in both dialects and must stay unquoted to
// keep its meaning.
func isVarRef(word string) bool {
	if len(word) < 2 || word[0] != '$' {
		return false
	}
	for i := 1; i < len(word); i++ {
		b := word[i]
		if !(b == '_' || b == '.' ||
			'a' <= b && b <= 'z' || 'A' <= b && b <= 'Z' ||
			'0' <= b && b <= '9') {
			return false
		}
	}
	return true
}

// quoteAll quotes each word and joins them with spaces.
func quoteAll(words []string) string {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = Quote(w)
	}
	return strings.Join(quoted, " ")
}
