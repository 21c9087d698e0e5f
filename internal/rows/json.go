package rows

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/leapstack-labs/ratefusion/pkg/core"
)

// ReadJSON reads an array of flat objects. Column order follows key order in
// each object and numbers keep their literal form.
func ReadJSON(r io.Reader) ([]core.Row, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	if err := expectDelim(dec, '['); err != nil {
		return nil, err
	}

	var out []core.Row
	for i := 0; dec.More(); i++ {
		row, err := readObject(dec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out = append(out, row)
	}
	if err := expectDelim(dec, ']'); err != nil {
		return nil, err
	}
	return out, nil
}

func readObject(dec *json.Decoder) (core.Row, error) {
	var row core.Row
	tok, err := dec.Token()
	if err != nil {
		return row, fmt.Errorf("failed to read json: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return row, core.InvalidInputf("row must be an object, got %v", tok)
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return row, fmt.Errorf("failed to read json: %w", err)
		}
		key, _ := keyTok.(string)

		var v any
		if err := dec.Decode(&v); err != nil {
			return row, fmt.Errorf("failed to read json: %w", err)
		}
		switch v.(type) {
		case map[string]any, []any:
			return row, core.InvalidInputf("column %q holds a nested value", key)
		}
		row.Set(key, v)
	}

	if _, err := dec.Token(); err != nil {
		return row, fmt.Errorf("failed to read json: %w", err)
	}
	return row, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("failed to read json: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return core.InvalidInputf("expected %q, got %v", want, tok)
	}
	return nil
}
