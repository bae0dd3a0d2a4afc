package naming

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// KebabToCamel converts a hyphen delimited identifier (vpc-app) into its
// capitalized concatenation (VpcApp).
func KebabToCamel(s string) string {
	return joinTitled(s, "-")
}

// SnakeToCamel converts an underscore delimited identifier (vpc_app) into its
// capitalized concatenation (VpcApp).
func SnakeToCamel(s string) string {
	return joinTitled(s, "_")
}

// joinTitled upper-cases the first rune of every part and leaves the rest of
// the part untouched. Empty parts (from repeated delimiters) contribute nothing.
func joinTitled(s, sep string) string {
	if s == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, part := range strings.Split(s, sep) {
		b.WriteString(capitalize(part))
	}
	return b.String()
}

func capitalize(part string) string {
	r, size := utf8.DecodeRuneInString(part)
	if size == 0 {
		return ""
	}
	return string(unicode.ToUpper(r)) + part[size:]
}
