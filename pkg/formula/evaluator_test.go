package formula

import (
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/leapstack-labs/ratefusion/internal/testutil"
	"github.com/leapstack-labs/ratefusion/pkg/core"
	"github.com/leapstack-labs/ratefusion/pkg/otmdate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEnv(t *testing.T) *Env {
	t.Helper()
	return &Env{
		Dates:  otmdate.Normalizer{Location: time.UTC},
		Logger: testutil.NewTestLogger(t),
		MasterData: core.MasterData{
			{
				ID:      "md-1",
				Name:    "CarrierMap",
				Type:    core.CategoryKeyValue,
				DataMap: map[string]string{"KHNN": "KUEHNE", "EMPTY": ""},
			},
			{
				ID:      "md-2",
				Name:    "Ports",
				Type:    core.CategoryList,
				Records: []string{"MYPGU"},
			},
		},
	}
}

func TestEvaluate_Functions(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		// strings
		{"upper", "UPPER(abc)", "ABC"},
		{"lower", "LOWER(ABC)", "abc"},
		{"upper quoted", `UPPER("abc")`, "ABC"},
		{"concat", "CONCAT(a, b, c)", "abc"},
		{"concat quoted", `CONCAT("a,", "b")`, "a,b"},
		{"substr start and length", "SUBSTR(ABCDEFGHIJKL, 0, 10)", "ABCDEFGHIJ"},
		{"substr start only", "SUBSTR(ABCDEF, 2)", "CDEF"},
		{"substr past end", "SUBSTR(ABC, 5, 2)", ""},
		{"substr negative length swaps", "SUBSTR(ABCDEF, 4, -2)", "CD"},
		{"substr runes", "SUBSTR(ÅÄÖX, 1, 2)", "ÄÖ"},
		{"xid", "XID(WEGO.A.B)", "A.B"},
		{"xid without dot", "XID(PLAIN)", "PLAIN"},
		{"to string", "TO_STRING(42)", "42"},

		// numbers
		{"sum", "SUM(1, 2.5)", "3.5"},
		{"sum non numeric", "SUM(1, x, 2)", "3"},
		{"sub", "SUB(10, 3, 2)", "5"},
		{"mul", "MUL(2, 3)", "6"},
		{"mul non numeric", "MUL(2, x)", "0"},
		{"div", "DIV(10, 4)", "2.5"},
		{"div by zero", "DIV(10, 0)", "0"},
		{"div by garbage", "DIV(10, abc)", "0"},
		{"to number", `TO_NUMBER("$1,234.50")`, "1234.5"},
		{"to number garbage", "TO_NUMBER(abc)", "0"},

		// conditions
		{"if equal", "IF(YES==YES, _DG, \"\")", "_DG"},
		{"if not equal branch", "IF(NO==YES, _DG, \"\")", ""},
		{"if inequality", `IF("A"!="B", diff, same)`, "diff"},
		{"if truthy", "IF(x, a, b)", "a"},
		{"if zero falsy", "IF(0, a, b)", "b"},
		{"if false falsy", "IF(false, a, b)", "b"},
		{"if empty falsy", "IF(, a, b)", "b"},
		{"if quoted comma", `IF(x=="x,y", "yes,sir", "no")`, "no"},

		// lookups
		{"lookup hit", `LOOKUP(KHNN, "CarrierMap")`, "KUEHNE"},
		{"lookup by id", "LOOKUP(KHNN, md-1)", "KUEHNE"},
		{"lookup miss passthrough", `LOOKUP("ZZZ","CarrierMap")`, "ZZZ"},
		{"lookup empty mapping passthrough", `LOOKUP(EMPTY, "CarrierMap")`, "EMPTY"},
		{"lookup missing category", `LOOKUP("ZZZ","Nope")`, "ZZZ"},
		{"lookup list category", `LOOKUP(MYPGU, "Ports")`, "MYPGU"},

		// dates
		{"date iso", "DATE(2025-01-15)", "20250115000000"},
		{"date canonical short pads", "DATE(20250115)", "20250115000000"},
		{"date garbage", "DATE(garbage)", ""},
		{"to date", "TO_DATE(2025-01-15T10:30:00)", "20250115103000"},
		{"date short", "DATE_SHORT(20250115103000)", "20250115"},
		{"add days across month", "ADD_DAYS(20250130, 3)", "20250202000000"},
		{"add days negative", "ADD_DAYS(20250301120000, -1)", "20250228000000"},
		{"add days garbage", "ADD_DAYS(garbage, 1)", ""},
		{"format date", `FORMAT_DATE(20250115103000, "DD/MM/YYYY")`, "15/01/2025"},
		{"format date default pattern", "FORMAT_DATE(20250115)", "2025-01-15"},
		{
			name: "format date with time",
			in:   `FORMAT_DATE("2025-01-15T10:30:00", "YYYY-MM-DD HH:MI:SS")`,
			want: "2025-01-15 10:30:00",
		},
		{"format date garbage", `FORMAT_DATE(nope, "YYYY")`, ""},

		// structure
		{"nested", `UPPER(CONCAT("a","b"))`, "AB"},
		{"deeply nested", "SUM(MUL(2, 3), DIV(10, 2), SUB(1, 1))", "11"},
		{"text around calls", "WEGO.UPPER(khnn)_X", "WEGO.KHNN_X"},
		{"unknown function untouched", "FOO(bar)", "FOO(bar)"},
		{"lowercase name untouched", "upper(bar)", "upper(bar)"},
		{"name must be a whole word", "XUPPER(bar)", "XUPPER(bar)"},
		{"space before paren untouched", "UPPER (bar)", "UPPER (bar)"},
		{"unbalanced untouched", "UPPER(bar", "UPPER(bar"},
		{"plain text", "no calls here", "no calls here"},
	}

	env := testEnv(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Evaluate(tt.in, env))
		})
	}
}

func TestEvaluate_NilEnv(t *testing.T) {
	assert.Equal(t, "ZZZ", Evaluate(`LOOKUP("ZZZ","CarrierMap")`, nil))
	assert.Equal(t, "AB", Evaluate(`UPPER(CONCAT("a","b"))`, nil))
}

func TestEvaluate_FlattenParens(t *testing.T) {
	env := testEnv(t)
	assert.Equal(t, "(A)", Evaluate("(UPPER(a))", env))
	assert.Equal(t, "note (x)", Evaluate("note (x)", env))

	env.FlattenParens = true
	assert.Equal(t, "A", Evaluate("(UPPER(a))", env))
	assert.Equal(t, "note x", Evaluate("note (x)", env))
	assert.Equal(t, "AB", Evaluate("UPPER((CONCAT(a, b)))", env))
}

func nestedUpper(depth int) string {
	return strings.Repeat("UPPER(", depth) + "x" + strings.Repeat(")", depth)
}

func TestEvaluate_PassCap(t *testing.T) {
	t.Run("converges at the cap", func(t *testing.T) {
		logger, captured := testutil.NewCaptureLogger()
		env := &Env{Logger: logger}

		assert.Equal(t, "X", Evaluate(nestedUpper(MaxFunctionPasses), env))
		assert.Empty(t, captured.Messages(slog.LevelWarn))
	})

	t.Run("stops past the cap and warns", func(t *testing.T) {
		logger, captured := testutil.NewCaptureLogger()
		env := &Env{Logger: logger}

		assert.Equal(t, "UPPER(X)", Evaluate(nestedUpper(MaxFunctionPasses+1), env))
		msgs := captured.Messages(slog.LevelWarn)
		require.Len(t, msgs, 1)
		assert.Contains(t, msgs[0], "did not converge")
	})
}

func TestFunctions(t *testing.T) {
	fns := Functions()
	require.Len(t, fns, 18)

	names := make([]string, len(fns))
	for i, f := range fns {
		names[i] = f.Name
		assert.NotEmpty(t, f.Description, f.Name)
	}
	assert.IsIncreasing(t, names)
	assert.Contains(t, names, "TO_DATE")

	assert.True(t, IsFunction("LOOKUP"))
	assert.False(t, IsFunction("SEQ"))
	assert.False(t, IsFunction("lookup"))
}
