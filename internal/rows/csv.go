package rows

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/leapstack-labs/ratefusion/pkg/core"
)

// ReadCSV reads a header line followed by data records. All values are
// strings.
func ReadCSV(r io.Reader) ([]core.Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	return fromTable(header, records), nil
}
