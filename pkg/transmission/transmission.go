// Package transmission assembles resolved rows into OTM CSVDataLoad
// transmission documents, one document per output table.
package transmission

import (
	"context"
	"regexp"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/ratefusion/pkg/core"
	"github.com/leapstack-labs/ratefusion/pkg/formula"
)

// Credential placeholders left in the transmission header.
const (
	UsernamePlaceholder = "{USERNAME}"
	PasswordPlaceholder = "{PASSWORD}"
)

// SessionPreamble is the first CsvRow of every table; it fixes the date
// format OTM uses to parse the canonical timestamps.
const SessionPreamble = "EXEC SQL ALTER SESSION SET NLS_DATE_FORMAT = 'YYYYMMDDHH24MISS'"

const (
	otmNamespace = "http://xmlns.oracle.com/apps/otm/transmission/v6.4"
	gtmNamespace = "http://xmlns.oracle.com/apps/gtm/transmission/v6.4"
)

var interTagSpace = regexp.MustCompile(`>\s+<`)

// Document is the generated transmission for one table.
type Document struct {
	Key       string `json:"key"`
	TableName string `json:"tableName"`
	Content   string `json:"content"`
}

// Documents is an ordered set of generated documents.
type Documents []Document

// GenerateTable builds the document for one table key. Rows are numbered by
// position so SEQ and {_index} resolve. An unknown key yields "".
func GenerateTable(key string, rows []core.Row, profile *core.Profile, env *formula.Env) string {
	def, ok := profile.Table(key)
	if !ok {
		return ""
	}

	var body strings.Builder
	for i, row := range rows {
		body.WriteString(csvRow(resolveRow(def, row.WithIndex(i), env)))
	}
	return minify(envelope(def.TableName, strings.Join(def.ColumnNames(), ","), body.String()))
}

// GenerateAll builds one document per entry of the profile's transmission
// sequence, in sequence order. Tables are generated concurrently.
//
// A sequence entry with no table definition is a caller error and is
// reported as core.ErrInvalidInput.
func GenerateAll(ctx context.Context, rows []core.Row, profile *core.Profile, env *formula.Env) (Documents, error) {
	if profile == nil {
		return nil, core.InvalidInputf("profile is nil")
	}

	seq := profile.Sequence()
	for _, key := range seq {
		if _, ok := profile.Table(key); !ok {
			return nil, core.InvalidInputf("transmission sequence names unknown table %q", key)
		}
	}

	docs := make(Documents, len(seq))
	g, ctx := errgroup.WithContext(ctx)
	for i, key := range seq {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			def, _ := profile.Table(key)
			docs[i] = Document{
				Key:       key,
				TableName: def.TableName,
				Content:   GenerateTable(key, rows, profile, env),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return docs, nil
}

// WithCredentials fills the header placeholders of a generated document.
func WithCredentials(doc, username, password string) string {
	r := strings.NewReplacer(UsernamePlaceholder, username, PasswordPlaceholder, password)
	return r.Replace(doc)
}

func resolveRow(def *core.TableDef, row core.Row, env *formula.Env) []string {
	values := make([]string, len(def.Fields))
	for i, f := range def.Fields {
		values[i] = escape(formula.Resolve(f.Formula, row, env))
	}
	return values
}

// escape doubles embedded quotes, then quotes values containing a comma.
func escape(v string) string {
	if strings.Contains(v, `"`) {
		v = strings.ReplaceAll(v, `"`, `""`)
	}
	if strings.Contains(v, ",") {
		v = `"` + v + `"`
	}
	return v
}

func csvRow(values []string) string {
	return "<otm:CsvRow>" + strings.Join(values, ",") + "</otm:CsvRow>"
}

func envelope(tableName, columnList, rows string) string {
	var b strings.Builder
	b.WriteString(`<otm:Transmission xmlns:otm="` + otmNamespace + `" xmlns:gtm="` + gtmNamespace + `">` + "\n")
	b.WriteString("<otm:TransmissionHeader>\n")
	b.WriteString("<otm:UserName>" + UsernamePlaceholder + "</otm:UserName>\n")
	b.WriteString("<otm:Password>" + PasswordPlaceholder + "</otm:Password>\n")
	b.WriteString("<otm:IsProcessInSequence>Y</otm:IsProcessInSequence>\n")
	b.WriteString("</otm:TransmissionHeader>\n")
	b.WriteString("<otm:TransmissionBody>\n")
	b.WriteString("<otm:GLogXMLElement>\n")
	b.WriteString("<otm:CSVDataLoad>\n")
	b.WriteString("<otm:CsvCommand>IU</otm:CsvCommand>\n")
	b.WriteString("<otm:CsvTableName>" + tableName + "</otm:CsvTableName>\n")
	b.WriteString("<otm:CsvColumnList>" + columnList + "</otm:CsvColumnList>\n")
	b.WriteString(csvRow([]string{SessionPreamble}) + "\n")
	b.WriteString(rows + "\n")
	b.WriteString("</otm:CSVDataLoad>\n")
	b.WriteString("</otm:GLogXMLElement>\n")
	b.WriteString("</otm:TransmissionBody>\n")
	b.WriteString("</otm:Transmission>")
	return b.String()
}

func minify(doc string) string {
	return strings.TrimSpace(interTagSpace.ReplaceAllString(doc, "><"))
}
