// Package otmdate converts mixed date representations to the fixed-width
// timestamps OTM expects (YYYYMMDDHHmmss, or YYYYMMDD in short form) and back.
//
// Nothing in this package returns an error: unusable input normalizes to the
// empty string, and parsing reports failure through a boolean.
package otmdate

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// Canonical layouts.
const (
	FullLayout  = "20060102150405"
	ShortLayout = "20060102"
)

var (
	// canonicalPattern matches input that is already in OTM form.
	canonicalPattern = regexp.MustCompile(`^(\d{14}|\d{8})$`)
	// positionalPattern matches anything ParseCanonical decomposes by position.
	positionalPattern = regexp.MustCompile(`^\d{8,14}$`)
)

// layouts are tried in order for free-form date strings. Layouts without a
// zone are interpreted in the normalizer's location.
var layouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02 15:04:05",
	"2006/01/02",
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
	"1/2/2006",
	"Jan 2, 2006 15:04:05",
	"Jan 2, 2006",
	"Jan 2 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"02 Jan 2006 15:04:05",
	"Mon Jan 02 2006 15:04:05 GMT-0700",
	"Mon Jan 02 2006",
	time.RFC1123Z,
	time.RFC1123,
	time.RFC850,
	time.ANSIC,
	time.UnixDate,
}

// Normalizer formats and parses dates in a fixed location.
// The zero value uses time.Local.
type Normalizer struct {
	Location *time.Location
}

// Default is the normalizer used by the package-level functions.
var Default = Normalizer{}

func (n Normalizer) loc() *time.Location {
	if n.Location == nil {
		return time.Local
	}
	return n.Location
}

// Normalize returns v as a 14-character OTM timestamp, or the 8-character date
// when short is set. Empty or unparsable input yields "".
//
// Input already in 8 or 14 digit form is passed through: truncated to 8 when
// short, otherwise right-padded with '0' to 14. Numbers are epoch milliseconds.
func (n Normalizer) Normalize(v any, short bool) string {
	if isEmpty(v) {
		return ""
	}

	if t, ok := v.(time.Time); ok {
		return n.Format(t, short)
	}

	s := strings.TrimSpace(cast.ToString(v))
	if canonicalPattern.MatchString(s) {
		if short {
			return s[:8]
		}
		return s + strings.Repeat("0", 14-len(s))
	}

	t, ok := n.parse(v)
	if !ok {
		return ""
	}
	return n.Format(t, short)
}

// Format renders t in the normalizer's location.
func (n Normalizer) Format(t time.Time, short bool) string {
	if short {
		return t.In(n.loc()).Format(ShortLayout)
	}
	return t.In(n.loc()).Format(FullLayout)
}

// ParseCanonical turns v into a calendar date. An 8 to 14 digit string is
// decomposed positionally into year, month (1-based) and day at midnight;
// anything else goes through free-form parsing.
func (n Normalizer) ParseCanonical(v any) (time.Time, bool) {
	if isEmpty(v) {
		return time.Time{}, false
	}

	s := strings.TrimSpace(cast.ToString(v))
	if positionalPattern.MatchString(s) {
		y, _ := strconv.Atoi(s[0:4])
		m, _ := strconv.Atoi(s[4:6])
		d, _ := strconv.Atoi(s[6:8])
		return time.Date(y, time.Month(m), d, 0, 0, 0, 0, n.loc()), true
	}

	if _, isString := v.(string); isString {
		return n.parse(s)
	}
	return n.parse(v)
}

// parse attempts free-form conversion of v to a time.
func (n Normalizer) parse(v any) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		return x.In(n.loc()), true
	case *time.Time:
		if x == nil {
			return time.Time{}, false
		}
		return x.In(n.loc()), true
	case int, int32, int64, uint, uint32, uint64, float32, float64:
		ms := cast.ToInt64(x)
		return time.UnixMilli(ms).In(n.loc()), true
	case string:
		return n.parseString(strings.TrimSpace(x))
	default:
		return n.parseString(strings.TrimSpace(cast.ToString(x)))
	}
}

func (n Normalizer) parseString(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, s, n.loc()); err == nil {
			return t.In(n.loc()), true
		}
	}
	return time.Time{}, false
}

func isEmpty(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	case *time.Time:
		return x == nil
	}
	return false
}

// Normalize formats v with the Default normalizer.
func Normalize(v any, short bool) string {
	return Default.Normalize(v, short)
}

// ParseCanonical parses v with the Default normalizer.
func ParseCanonical(v any) (time.Time, bool) {
	return Default.ParseCanonical(v)
}
