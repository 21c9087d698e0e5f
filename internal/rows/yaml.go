package rows

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/ratefusion/pkg/core"
)

// ReadYAML reads a sequence of flat mappings. Columns are ordered by name.
func ReadYAML(r io.Reader) ([]core.Row, error) {
	var doc any
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}
	return core.RowsFromAny(doc)
}
