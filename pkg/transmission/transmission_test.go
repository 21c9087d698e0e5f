package transmission

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/leapstack-labs/ratefusion/internal/testutil"
	"github.com/leapstack-labs/ratefusion/pkg/core"
	"github.com/leapstack-labs/ratefusion/pkg/formula"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const header = `<otm:Transmission xmlns:otm="http://xmlns.oracle.com/apps/otm/transmission/v6.4" xmlns:gtm="http://xmlns.oracle.com/apps/gtm/transmission/v6.4">` +
	`<otm:TransmissionHeader><otm:UserName>{USERNAME}</otm:UserName><otm:Password>{PASSWORD}</otm:Password>` +
	`<otm:IsProcessInSequence>Y</otm:IsProcessInSequence></otm:TransmissionHeader>` +
	`<otm:TransmissionBody><otm:GLogXMLElement><otm:CSVDataLoad><otm:CsvCommand>IU</otm:CsvCommand>`

const footer = `</otm:CSVDataLoad></otm:GLogXMLElement></otm:TransmissionBody></otm:Transmission>`

const preamble = `<otm:CsvRow>EXEC SQL ALTER SESSION SET NLS_DATE_FORMAT = 'YYYYMMDDHH24MISS'</otm:CsvRow>`

func testProfile() *core.Profile {
	p := &core.Profile{ID: "p1", Name: "Test"}
	p.SetTable("X_LANE", core.TableDef{
		TableName: "X_LANE",
		Fields: []core.Field{
			{Name: "X_LANE_GID", Formula: "CONCAT(WEGO., {SCAC}, _, SEQ)"},
			{Name: "DESCRIPTION", Formula: "{DESC}"},
		},
	})
	p.SetTable("RATE_GEO", core.TableDef{
		TableName: "RATE_GEO",
		Fields: []core.Field{
			{Name: "RATE_GEO_GID", Formula: "WEGO.{SCAC}"},
		},
	})
	return p
}

func testRows() []core.Row {
	return []core.Row{
		core.NewRow([]string{"SCAC", "DESC"}, []any{"KHNN", "a,b"}),
		core.NewRow([]string{"SCAC", "DESC"}, []any{"MAEU", `say "hi"`}),
	}
}

func TestGenerateTable(t *testing.T) {
	env := &formula.Env{Logger: testutil.NewTestLogger(t)}
	got := GenerateTable("X_LANE", testRows(), testProfile(), env)

	want := header +
		`<otm:CsvTableName>X_LANE</otm:CsvTableName>` +
		`<otm:CsvColumnList>X_LANE_GID,DESCRIPTION</otm:CsvColumnList>` +
		preamble +
		`<otm:CsvRow>WEGO.KHNN_1,"a,b"</otm:CsvRow>` +
		`<otm:CsvRow>WEGO.MAEU_2,say ""hi""</otm:CsvRow>` +
		footer
	assert.Equal(t, want, got)
}

func TestGenerateTable_Structure(t *testing.T) {
	got := GenerateTable("X_LANE", testRows(), testProfile(), nil)

	assert.NotContains(t, got, "\n")
	assert.False(t, regexp.MustCompile(`>\s+<`).MatchString(got), "inter-tag whitespace left")

	assert.Equal(t, 1, strings.Count(got, "<otm:CsvColumnList>"))
	assert.Equal(t, 1, strings.Count(got, "NLS_DATE_FORMAT"))
	assert.Equal(t, 3, strings.Count(got, "<otm:CsvRow>"))

	cols := strings.Index(got, "<otm:CsvColumnList>")
	pre := strings.Index(got, "NLS_DATE_FORMAT")
	first := strings.Index(got, "WEGO.KHNN")
	second := strings.Index(got, "WEGO.MAEU")
	assert.True(t, cols < pre && pre < first && first < second)
}

func TestGenerateTable_Edges(t *testing.T) {
	assert.Equal(t, "", GenerateTable("NOPE", testRows(), testProfile(), nil))
	assert.Equal(t, "", GenerateTable("X_LANE", testRows(), nil, nil))

	empty := GenerateTable("RATE_GEO", nil, testProfile(), nil)
	assert.Equal(t, header+
		`<otm:CsvTableName>RATE_GEO</otm:CsvTableName><otm:CsvColumnList>RATE_GEO_GID</otm:CsvColumnList>`+
		preamble+footer, empty)
}

func TestEscape(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"a,b", `"a,b"`},
		{`say "hi"`, `say ""hi""`},
		{`"x",y`, `"""x"",y"`},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, escape(tt.in), "escape(%q)", tt.in)
	}
}

func TestGenerateAll(t *testing.T) {
	ctx := context.Background()

	t.Run("authored order", func(t *testing.T) {
		docs, err := GenerateAll(ctx, testRows(), testProfile(), nil)
		require.NoError(t, err)
		require.Len(t, docs, 2)
		assert.Equal(t, "X_LANE", docs[0].Key)
		assert.Equal(t, "RATE_GEO", docs[1].Key)
		assert.Equal(t, "RATE_GEO", docs[1].TableName)
		assert.Equal(t, GenerateTable("RATE_GEO", testRows(), testProfile(), nil), docs[1].Content)
	})

	t.Run("transmission sequence", func(t *testing.T) {
		p := testProfile()
		p.TransmissionSequence = []string{"RATE_GEO", "X_LANE"}
		docs, err := GenerateAll(ctx, testRows(), p, nil)
		require.NoError(t, err)
		require.Len(t, docs, 2)
		assert.Equal(t, "RATE_GEO", docs[0].Key)
		assert.Equal(t, "X_LANE", docs[1].Key)
		assert.Contains(t, docs[1].Content, "WEGO.KHNN_1")
	})

	t.Run("unknown sequence entry", func(t *testing.T) {
		p := testProfile()
		p.TransmissionSequence = []string{"RATE_GEO", "MISSING"}
		_, err := GenerateAll(ctx, testRows(), p, nil)
		assert.True(t, errors.Is(err, core.ErrInvalidInput))
	})

	t.Run("nil profile", func(t *testing.T) {
		_, err := GenerateAll(ctx, testRows(), nil, nil)
		assert.True(t, errors.Is(err, core.ErrInvalidInput))
	})

	t.Run("canceled context", func(t *testing.T) {
		canceled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := GenerateAll(canceled, testRows(), testProfile(), nil)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestWithCredentials(t *testing.T) {
	doc := GenerateTable("RATE_GEO", nil, testProfile(), nil)
	got := WithCredentials(doc, "ADMIN.WEGO", "s3cret")

	assert.Contains(t, got, "<otm:UserName>ADMIN.WEGO</otm:UserName>")
	assert.Contains(t, got, "<otm:Password>s3cret</otm:Password>")
	assert.NotContains(t, got, UsernamePlaceholder)
}

func TestGenerateTable_QuotedLiteralField(t *testing.T) {
	p := &core.Profile{Name: "flags"}
	p.SetTable("RATE_GEO", core.TableDef{
		TableName: "RATE_GEO",
		Fields: []core.Field{
			{Name: "IS_ACTIVE", Formula: `"Y"`},
			{Name: "DOMAIN_NAME", Formula: `"WEGO"`},
		},
	})

	got := GenerateTable("RATE_GEO", testRows()[:1], p, nil)
	assert.Contains(t, got, "<otm:CsvRow>Y,WEGO</otm:CsvRow>")
	assert.NotContains(t, got, `"""Y"""`)
}
