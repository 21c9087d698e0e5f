package formula

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/leapstack-labs/ratefusion/internal/testutil"
	"github.com/leapstack-labs/ratefusion/pkg/core"
	"github.com/leapstack-labs/ratefusion/pkg/otmdate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func laneRow() core.Row {
	return core.NewRow(
		[]string{"SCAC", "POLUNLOCODE", "PODUNLOCODE", "TYPE"},
		[]any{"KHNN", "MYPGU", "MXVER", "AWS"},
	)
}

func TestResolve_Scenarios(t *testing.T) {
	env := testEnv(t)

	assert.Equal(t, "WEGO.KHNN_AWS", Resolve("WEGO.{SCAC}_{TYPE || OCEAN}", laneRow(), env))

	noType := core.NewRow(
		[]string{"SCAC", "POLUNLOCODE", "PODUNLOCODE"},
		[]any{"KHNN", "MYPGU", "MXVER"},
	)
	assert.Equal(t, "WEGO.OCEAN_MYPGU_MXVER",
		Resolve("WEGO.{TYPE || OCEAN}_{POLUNLOCODE}_{PODUNLOCODE}", noType, env))
}

func TestResolve_Columns(t *testing.T) {
	tests := []struct {
		name    string
		formula string
		row     core.Row
		want    string
	}{
		{"fallback", "{MISSING || DEFAULT}", core.Row{}, "DEFAULT"},
		{"missing no fallback", "{MISSING}", core.Row{}, ""},
		{"zero is a value", "{QTY || 9}", core.NewRow([]string{"QTY"}, []any{0}), "0"},
		{"zero without fallback", "{QTY}", core.NewRow([]string{"QTY"}, []any{0}), "0"},
		{"false is a value", "{FLAG}", core.NewRow([]string{"FLAG"}, []any{false}), "false"},
		{"empty string is absent", "{QTY || 9}", core.NewRow([]string{"QTY"}, []any{""}), "9"},
		{"nil is absent", "{QTY || 9}", core.NewRow([]string{"QTY"}, []any{nil}), "9"},
		{"case insensitive", "{Scac}", core.NewRow([]string{"SCAC"}, []any{"ABC"}), "ABC"},
		{"exact wins", "{scac}", core.NewRow([]string{"SCAC", "scac"}, []any{"UP", "low"}), "low"},
		{"float", "{RATE}", core.NewRow([]string{"RATE"}, []any{12.5}), "12.5"},
		{"spaces around name", "{ SCAC }", core.NewRow([]string{"SCAC"}, []any{"X"}), "X"},
		{"inside function", "XID({GID})", core.NewRow([]string{"GID"}, []any{"WEGO.LANE1"}), "LANE1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.formula, tt.row, nil))
		})
	}
}

func TestResolve_Variables(t *testing.T) {
	env := testEnv(t)
	env.Variables = map[string]string{
		"LANE":   "{POLUNLOCODE}_$SUFFIX",
		"SUFFIX": "{PODUNLOCODE}",
		"DOMAIN": "WEGO",
		"CALL":   "UPPER({SCAC})",
	}

	assert.Equal(t, "MYPGU_MXVER", Resolve("$LANE", laneRow(), env))
	assert.Equal(t, "WEGO.KHNN", Resolve("$DOMAIN.$CALL", laneRow(), env))
	assert.Equal(t, "$UNKNOWN", Resolve("$UNKNOWN", laneRow(), env))
}

func TestResolve_VariableCap(t *testing.T) {
	logger, captured := testutil.NewCaptureLogger()
	env := &Env{
		Logger:    logger,
		Variables: map[string]string{"A": "$B", "B": "$A"},
	}

	assert.Equal(t, "$B", Resolve("$A", core.Row{}, env))
	msgs := captured.Messages(slog.LevelWarn)
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "variable expansion")
}

func TestResolve_Constants(t *testing.T) {
	now := time.Date(2025, 6, 1, 8, 9, 10, 0, time.UTC)
	base := func() *Env {
		e := testEnv(t)
		e.Now = func() time.Time { return now }
		return e
	}

	t.Run("project dates", func(t *testing.T) {
		env := base()
		env.Project = &core.Project{EffectiveDate: "2025-03-01", ExpiryDate: "20251130"}
		assert.Equal(t, "20250301000000-20251130000000", Resolve("PROJECT_EFF-PROJECT_EXP", core.Row{}, env))
	})

	t.Run("project date fallbacks", func(t *testing.T) {
		env := base()
		env.Project = &core.Project{ExpiryDate: "not a date"}
		assert.Equal(t, FallbackEffectiveDate+" "+FallbackExpiryDate,
			Resolve("PROJECT_EFF PROJECT_EXP", core.Row{}, env))
	})

	t.Run("no project keeps tokens", func(t *testing.T) {
		assert.Equal(t, "PROJECT_EFF", Resolve("PROJECT_EFF", core.Row{}, base()))
	})

	t.Run("sysdate", func(t *testing.T) {
		assert.Equal(t, "20250601080910", Resolve("SYSDATE", core.Row{}, base()))
		assert.Equal(t, "20250601", Resolve("DATE_SHORT(SYSDATE)", core.Row{}, base()))
	})

	t.Run("seq needs an index", func(t *testing.T) {
		row := laneRow()
		assert.Equal(t, "SEQ", Resolve("SEQ", row, base()))
		assert.Equal(t, "5", Resolve("SEQ", row.WithIndex(4), base()))
		assert.Equal(t, "L5", Resolve(`CONCAT(L, SEQ)`, row.WithIndex(4), base()))
		assert.Equal(t, "SEQUENCE", Resolve("SEQUENCE", row.WithIndex(4), base()))
	})

	t.Run("index column", func(t *testing.T) {
		assert.Equal(t, "2", Resolve("{_index}", laneRow().WithIndex(2), base()))
		assert.Equal(t, "", Resolve("{_index}", laneRow(), base()))
	})

	t.Run("column values feed later stages", func(t *testing.T) {
		row := core.NewRow([]string{"NOTE"}, []any{"SEQ"})
		assert.Equal(t, "3", Resolve("{NOTE}", row.WithIndex(2), base()))
	})
}

func TestResolve_QuotedLiteral(t *testing.T) {
	assert.Equal(t, "hello, world", Resolve(`"hello, world"`, core.Row{}, nil))
	assert.Equal(t, `"a" and "b"`, Resolve(`"a" and "b"`, core.Row{}, nil))
	assert.Equal(t, "", Resolve(`IF({DG}==YES, _DG, "")`, core.NewRow([]string{"DG"}, []any{"NO"}), nil))
	assert.Equal(t, "_DG", Resolve(`IF({DG}==YES, _DG, "")`, core.NewRow([]string{"DG"}, []any{"YES"}), nil))
}

func TestResolve_Deterministic(t *testing.T) {
	env := testEnv(t)
	env.Project = &core.Project{EffectiveDate: "2025-01-01", ExpiryDate: "2025-12-31"}
	env.Variables = map[string]string{"X": "LOOKUP({SCAC}, CarrierMap)"}
	env.Now = func() time.Time { return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC) }

	formula := "$X|PROJECT_EFF|SYSDATE|SEQ|{TYPE || OCEAN}|DIV(1, 3)"
	row := laneRow().WithIndex(0)

	first := Resolve(formula, row, env)
	for range 20 {
		assert.Equal(t, first, Resolve(formula, row, env))
	}
	assert.Equal(t, "KUEHNE|20250101000000|20250101000000|1|AWS|0.3333333333333333", first)
}

func TestResolveAny(t *testing.T) {
	got, err := ResolveAny("{SCAC}-{QTY}", map[string]any{"SCAC": "KHNN", "QTY": 0}, nil)
	require.NoError(t, err)
	assert.Equal(t, "KHNN-0", got)

	got, err = ResolveAny("{A}", map[string]string{"a": "x"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "x", got)

	invalid := []any{
		nil,
		"not a row",
		[]any{"a", "b"},
		map[string]any{"nested": map[string]any{"a": 1}},
	}
	for _, v := range invalid {
		_, err := ResolveAny("{A}", v, nil)
		assert.True(t, errors.Is(err, core.ErrInvalidInput), "%T should be rejected", v)
	}
}

func TestResolve_UsesNormalizerLocation(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*3600)
	env := &Env{
		Dates: otmdate.Normalizer{Location: tokyo},
		Now:   func() time.Time { return time.Date(2025, 1, 1, 20, 0, 0, 0, time.UTC) },
	}
	assert.Equal(t, "20250102050000", Resolve("SYSDATE", core.Row{}, env))
}
