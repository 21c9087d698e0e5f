// Package rows reads tabular input (CSV, JSON, YAML, XLSX) into core rows and
// writes resolved previews back out as XLSX.
package rows

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/ratefusion/pkg/core"
)

// Format identifies an input file type.
type Format string

// Supported formats.
const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatXLSX Format = "xlsx"
)

// Options tune reading.
type Options struct {
	// Sheet selects the XLSX worksheet; empty means the first one.
	Sheet string
}

// DetectFormat infers the format from a file extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		return FormatCSV, nil
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("unsupported input format %q", filepath.Ext(path))
	}
}

// Load reads all rows from path.
func Load(path string, opts Options) ([]core.Row, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}
	defer f.Close()

	rows, err := Read(f, format, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, nil
}

// Read decodes rows from r in the given format.
func Read(r io.Reader, format Format, opts Options) ([]core.Row, error) {
	switch format {
	case FormatCSV:
		return ReadCSV(r)
	case FormatJSON:
		return ReadJSON(r)
	case FormatYAML:
		return ReadYAML(r)
	case FormatXLSX:
		return ReadXLSX(r, opts.Sheet)
	default:
		return nil, fmt.Errorf("unsupported input format %q", format)
	}
}

// fromTable turns a header row and data records into rows. Records shorter
// than the header leave the remaining columns empty; blank records are
// skipped. Header cells are trimmed and blank headers are dropped.
func fromTable(header []string, records [][]string) []core.Row {
	cols := make([]string, len(header))
	for i, h := range header {
		cols[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	out := make([]core.Row, 0, len(records))
	for _, rec := range records {
		if blank(rec) {
			continue
		}
		var row core.Row
		for i, c := range cols {
			if c == "" {
				continue
			}
			var v any = ""
			if i < len(rec) {
				v = rec[i]
			}
			row.Set(c, v)
		}
		out = append(out, row)
	}
	return out
}

func blank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
