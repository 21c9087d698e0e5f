package formula

import (
	"sort"
	"strings"
)

// call is one matched function invocation.
type call struct {
	args []string
	env  *Env
}

// arg returns the i-th raw (trimmed, still quoted) argument, or "".
func (c *call) arg(i int) string {
	if i < len(c.args) {
		return c.args[i]
	}
	return ""
}

// value returns the i-th argument with literal quotes removed.
func (c *call) value(i int) string {
	return unquote(c.arg(i))
}

// values returns every argument with literal quotes removed.
func (c *call) values() []string {
	out := make([]string, len(c.args))
	for i := range c.args {
		out[i] = c.value(i)
	}
	return out
}

type handler func(c *call) string

// FunctionInfo describes one built-in function.
type FunctionInfo struct {
	Name        string `json:"name"`
	Args        string `json:"args"`
	Description string `json:"description"`
}

type function struct {
	FunctionInfo
	fn handler
}

// functions is the closed set of callable names. Anything else that looks
// like a call is left as text.
var functions = map[string]function{
	"UPPER":       {FunctionInfo{"UPPER", "value", "Uppercase the value"}, fnUpper},
	"LOWER":       {FunctionInfo{"LOWER", "value", "Lowercase the value"}, fnLower},
	"CONCAT":      {FunctionInfo{"CONCAT", "value, ...", "Join all values with no separator"}, fnConcat},
	"SUBSTR":      {FunctionInfo{"SUBSTR", "value, start[, length]", "Substring from a 0-based start"}, fnSubstr},
	"DATE":        {FunctionInfo{"DATE", "value", "OTM timestamp (14 chars)"}, fnDate},
	"DATE_SHORT":  {FunctionInfo{"DATE_SHORT", "value", "OTM short date (8 chars)"}, fnDateShort},
	"ADD_DAYS":    {FunctionInfo{"ADD_DAYS", "date, days", "Add whole days to a date"}, fnAddDays},
	"FORMAT_DATE": {FunctionInfo{"FORMAT_DATE", "date, pattern", "Render a date with YYYY MM DD HH MI SS tokens"}, fnFormatDate},
	"SUM":         {FunctionInfo{"SUM", "value, ...", "Numeric sum; non-numbers count as 0"}, fnSum},
	"SUB":         {FunctionInfo{"SUB", "value, ...", "Subtract the remaining values from the first"}, fnSub},
	"MUL":         {FunctionInfo{"MUL", "value, ...", "Numeric product"}, fnMul},
	"DIV":         {FunctionInfo{"DIV", "dividend, divisor", "Division; 0 when the divisor is 0"}, fnDiv},
	"XID":         {FunctionInfo{"XID", "gid", "Drop the domain prefix before the first dot"}, fnXID},
	"IF":          {FunctionInfo{"IF", "condition, then, else", "Compare with == or != or test truthiness"}, fnIf},
	"LOOKUP":      {FunctionInfo{"LOOKUP", "key, category", "Map key through a KEY_VALUE master data category"}, fnLookup},
	"TO_STRING":   {FunctionInfo{"TO_STRING", "value", "Cast to string"}, fnToString},
	"TO_NUMBER":   {FunctionInfo{"TO_NUMBER", "value", "Strip non-numeric characters and parse"}, fnToNumber},
	"TO_DATE":     {FunctionInfo{"TO_DATE", "value", "Same as DATE"}, fnDate},
}

// Functions lists the built-in functions sorted by name.
func Functions() []FunctionInfo {
	out := make([]FunctionInfo, 0, len(functions))
	for _, f := range functions {
		out = append(out, f.FunctionInfo)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// IsFunction reports whether name is a built-in function.
func IsFunction(name string) bool {
	_, ok := functions[name]
	return ok
}

func fnUpper(c *call) string { return strings.ToUpper(c.value(0)) }

func fnLower(c *call) string { return strings.ToLower(c.value(0)) }

func fnConcat(c *call) string { return strings.Join(c.values(), "") }

func fnToString(c *call) string { return c.value(0) }

func fnSubstr(c *call) string {
	s := []rune(c.value(0))
	start := integer(c.value(1))
	end := len(s)
	if c.arg(2) != "" {
		end = start + integer(c.value(2))
	}

	clamp := func(n int) int {
		if n < 0 {
			return 0
		}
		if n > len(s) {
			return len(s)
		}
		return n
	}
	start, end = clamp(start), clamp(end)
	if start > end {
		start, end = end, start
	}
	return string(s[start:end])
}

func fnDate(c *call) string {
	return c.env.dates().Normalize(c.value(0), false)
}

func fnDateShort(c *call) string {
	return c.env.dates().Normalize(c.value(0), true)
}

func fnAddDays(c *call) string {
	dates := c.env.dates()
	t, ok := dates.ParseCanonical(c.value(0))
	if !ok {
		return ""
	}
	return dates.Format(t.AddDate(0, 0, integer(c.value(1))), false)
}

func fnFormatDate(c *call) string {
	t, ok := c.env.dates().ParseCanonical(c.value(0))
	if !ok {
		return ""
	}
	pattern := c.arg(1)
	if pattern == "" {
		pattern = "YYYY-MM-DD"
	}
	pattern = stripQuotes(pattern)

	// Each token is substituted once, in this order.
	out := pattern
	for _, tok := range []struct{ token, layout string }{
		{"YYYY", "2006"},
		{"MM", "01"},
		{"DD", "02"},
		{"HH", "15"},
		{"MI", "04"},
		{"SS", "05"},
	} {
		out = strings.Replace(out, tok.token, t.Format(tok.layout), 1)
	}
	return out
}

func fnSum(c *call) string {
	var acc float64
	for _, v := range c.values() {
		acc += number(v)
	}
	return formatNumber(acc)
}

func fnSub(c *call) string {
	vals := c.values()
	acc := number(vals[0])
	for _, v := range vals[1:] {
		acc -= number(v)
	}
	return formatNumber(acc)
}

func fnMul(c *call) string {
	acc := 1.0
	for _, v := range c.values() {
		acc *= number(v)
	}
	return formatNumber(acc)
}

func fnDiv(c *call) string {
	divisor := number(c.value(1))
	if divisor == 0 {
		return "0"
	}
	return formatNumber(number(c.value(0)) / divisor)
}

func fnXID(c *call) string {
	s := c.value(0)
	if i := strings.IndexByte(s, '.'); i >= 0 {
		return s[i+1:]
	}
	return s
}

func fnIf(c *call) string {
	if condition(c.arg(0)) {
		return c.value(1)
	}
	return c.value(2)
}

// condition evaluates an IF test. "==" and "!=" compare trimmed, unquoted
// sides as strings; anything else is a truthiness check where "", "0" and
// "false" are false.
func condition(cond string) bool {
	if l, r, ok := splitComparison(cond, "=="); ok {
		return l == r
	}
	if l, r, ok := splitComparison(cond, "!="); ok {
		return l != r
	}
	v := unquote(strings.TrimSpace(cond))
	return v != "" && v != "0" && v != "false"
}

func splitComparison(cond, op string) (string, string, bool) {
	parts := strings.Split(cond, op)
	if len(parts) < 2 {
		return "", "", false
	}
	return unquote(strings.TrimSpace(parts[0])), unquote(strings.TrimSpace(parts[1])), true
}

func fnLookup(c *call) string {
	key := c.value(0)
	category, ok := c.env.masterData().Find(stripQuotes(c.arg(1)))
	if !ok {
		return key
	}
	if v, ok := category.Lookup(key); ok {
		return v
	}
	return key
}

func fnToNumber(c *call) string {
	return formatNumber(number(nonNumeric.ReplaceAllString(c.value(0), "")))
}
