package formula

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/leapstack-labs/ratefusion/pkg/core"
)

var (
	variablePattern   = regexp.MustCompile(`\$([a-zA-Z0-9_]+)`)
	columnPattern     = regexp.MustCompile(`\{([^}]+)\}`)
	projectEffPattern = regexp.MustCompile(`\bPROJECT_EFF\b`)
	projectExpPattern = regexp.MustCompile(`\bPROJECT_EXP\b`)
	sysdatePattern    = regexp.MustCompile(`\bSYSDATE\b`)
	seqPattern        = regexp.MustCompile(`\bSEQ\b`)
)

// Resolve turns a formula into its final string value for one row.
//
// Stages run in a fixed order: $variables, {column} references, system
// constants, then functions. Bad data never fails resolution; it resolves to
// empty strings, fallbacks or literal text.
func Resolve(formula string, row core.Row, env *Env) string {
	result := expandVariables(formula, env)
	result = substituteColumns(result, row)
	result = substituteConstants(result, row, env)
	result = Evaluate(result, env)
	return unquote(result)
}

// ResolveAny is Resolve for a row that has not been converted yet, such as a
// value decoded from JSON. Only a value that is not a key/value mapping of
// scalars is rejected.
func ResolveAny(formula string, row any, env *Env) (string, error) {
	r, err := core.RowFromAny(row)
	if err != nil {
		return "", err
	}
	return Resolve(formula, r, env), nil
}

// expandVariables substitutes $NAME tokens. Values may reference other
// variables; expansion repeats up to MaxVariablePasses times. Unknown names
// stay literal.
func expandVariables(s string, env *Env) string {
	if env == nil || len(env.Variables) == 0 {
		return s
	}

	replace := func(in string) string {
		return variablePattern.ReplaceAllStringFunc(in, func(m string) string {
			if v, ok := env.Variables[m[1:]]; ok {
				return v
			}
			return m
		})
	}

	current := s
	for pass := 0; pass < MaxVariablePasses; pass++ {
		next := replace(current)
		if next == current {
			return current
		}
		current = next
	}

	if replace(current) != current {
		env.logger().Warn("variable expansion did not converge",
			slog.Int("passes", MaxVariablePasses),
			slog.String("text", current))
	}
	return current
}

// substituteColumns replaces {COL} and {COL || fallback} references.
func substituteColumns(s string, row core.Row) string {
	return columnPattern.ReplaceAllStringFunc(s, func(m string) string {
		parts := strings.Split(m[1:len(m)-1], "||")
		name := strings.TrimSpace(parts[0])
		if v, ok := row.Get(name); ok {
			return v
		}
		if len(parts) > 1 {
			return strings.TrimSpace(parts[1])
		}
		return ""
	})
}

// substituteConstants replaces PROJECT_EFF and PROJECT_EXP (only with a
// project), SYSDATE, and SEQ (only for an indexed row).
func substituteConstants(s string, row core.Row, env *Env) string {
	dates := env.dates()

	if env != nil && env.Project != nil {
		eff := dates.Normalize(env.Project.EffectiveDate, false)
		if eff == "" {
			eff = FallbackEffectiveDate
		}
		exp := dates.Normalize(env.Project.ExpiryDate, false)
		if exp == "" {
			exp = FallbackExpiryDate
		}
		s = projectEffPattern.ReplaceAllLiteralString(s, eff)
		s = projectExpPattern.ReplaceAllLiteralString(s, exp)
	}

	s = sysdatePattern.ReplaceAllLiteralString(s, dates.Format(env.now(), false))

	if i, ok := row.Index(); ok {
		s = seqPattern.ReplaceAllLiteralString(s, strconv.Itoa(i+1))
	}
	return s
}
