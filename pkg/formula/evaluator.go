package formula

import (
	"log/slog"
	"strings"
)

// Evaluate rewrites every innermost function call in text until nothing
// changes or MaxFunctionPasses is reached.
//
// A call is a registered name at a word boundary, immediately followed by
// "(" and an argument list with no parentheses of its own. Each pass replaces
// every such call with its result, so nesting resolves inside-out one level
// per pass. Text that looks like a call but is not one is left untouched.
//
// When the cap is reached the partially rewritten text is returned and a
// warning is logged. Evaluate never fails.
func Evaluate(text string, env *Env) string {
	current := text
	for pass := 0; pass < MaxFunctionPasses; pass++ {
		next := rewrite(current, env)
		if next == current && env.flattenParens() {
			next = flatten(current)
		}
		if next == current {
			return current
		}
		current = next
	}

	if rewrite(current, env) != current {
		env.logger().Warn("function evaluation did not converge",
			slog.Int("passes", MaxFunctionPasses),
			slog.String("text", current))
	}
	return current
}

// rewrite performs one left-to-right pass over s.
func rewrite(s string, env *Env) string {
	var out strings.Builder
	out.Grow(len(s))

	for i := 0; i < len(s); {
		if !isWordByte(s[i]) {
			out.WriteByte(s[i])
			i++
			continue
		}

		j := i
		for j < len(s) && isWordByte(s[j]) {
			j++
		}
		word := s[i:j]

		if f, ok := functions[word]; ok && j < len(s) && s[j] == '(' {
			if k := closingParen(s, j+1); k >= 0 {
				c := &call{args: SplitArgs(s[j+1 : k]), env: env}
				out.WriteString(f.fn(c))
				i = k + 1
				continue
			}
		}

		out.WriteString(word)
		i = j
	}
	return out.String()
}

// flatten removes one level of parentheses around text that has none inside.
func flatten(s string) string {
	var out strings.Builder
	out.Grow(len(s))

	for i := 0; i < len(s); {
		if s[i] == '(' {
			if k := closingParen(s, i+1); k >= 0 {
				out.WriteString(s[i+1 : k])
				i = k + 1
				continue
			}
		}
		out.WriteByte(s[i])
		i++
	}
	return out.String()
}

// closingParen returns the index of the first ")" at or after from, or -1 if
// a "(" or the end of s comes first.
func closingParen(s string, from int) int {
	for k := from; k < len(s); k++ {
		switch s[k] {
		case ')':
			return k
		case '(':
			return -1
		}
	}
	return -1
}

func isWordByte(c byte) bool {
	return c == '_' ||
		('0' <= c && c <= '9') ||
		('a' <= c && c <= 'z') ||
		('A' <= c && c <= 'Z')
}
