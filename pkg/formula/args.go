package formula

import "strings"

// SplitArgs splits a function argument list on top-level commas.
//
// Commas inside a quoted span are part of the argument. Single and double
// quotes are tracked independently: only the character that opened a span
// closes it, and a quote preceded by a backslash never toggles the state.
// Parentheses are copied verbatim. Quotes are kept; every argument is trimmed.
//
// An empty list yields one empty argument, so a call written with no
// arguments behaves like a call with a single empty one.
func SplitArgs(s string) []string {
	var (
		args    []string
		current strings.Builder
		quote   byte
	)

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case (c == '"' || c == '\'') && (i == 0 || s[i-1] != '\\'):
			if quote == 0 {
				quote = c
			} else if c == quote {
				quote = 0
			}
			current.WriteByte(c)
		case c == ',' && quote == 0:
			args = append(args, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteByte(c)
		}
	}

	return append(args, strings.TrimSpace(current.String()))
}

// unquote removes one matching pair of enclosing quotes from a literal.
// Text that is not a single quoted literal is returned unchanged.
func unquote(s string) string {
	if len(s) < 2 {
		return s
	}
	q := s[0]
	if (q != '"' && q != '\'') || s[len(s)-1] != q {
		return s
	}
	inner := s[1 : len(s)-1]
	if strings.IndexByte(inner, q) >= 0 {
		return s
	}
	return inner
}

// stripQuotes drops a leading and a trailing quote character independently.
// LOOKUP category names and FORMAT_DATE patterns are written this way.
func stripQuotes(s string) string {
	if s != "" && (s[0] == '"' || s[0] == '\'') {
		s = s[1:]
	}
	if s != "" && (s[len(s)-1] == '"' || s[len(s)-1] == '\'') {
		s = s[:len(s)-1]
	}
	return s
}
