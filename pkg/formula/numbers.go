package formula

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	floatPrefix = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?`)
	intPrefix   = regexp.MustCompile(`^[+-]?\d+`)
	nonNumeric  = regexp.MustCompile(`[^0-9.\-]+`)
)

// parseNumber reads the longest leading decimal number in s.
// ok is false when s does not start with one.
func parseNumber(s string) (float64, bool) {
	m := floatPrefix.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// number is parseNumber with unusable input read as zero.
func number(s string) float64 {
	f, _ := parseNumber(s)
	return f
}

// integer reads the leading integer in s, or zero.
func integer(s string) int {
	m := intPrefix.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0
	}
	return n
}

// formatNumber prints f in shortest round-trip form. Exponent notation is
// used only for magnitudes of at least 1e21 or below 1e-6.
func formatNumber(f float64) string {
	if f == 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return "0"
	}
	abs := math.Abs(f)
	if abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		// Go pads exponents to two digits ("1e-07"); drop the padding.
		if e := strings.IndexByte(s, 'e'); e >= 0 && e+2 <= len(s) {
			exp := strings.TrimLeft(s[e+2:], "0")
			if exp == "" {
				exp = "0"
			}
			s = s[:e+2] + exp
		}
		return s
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
