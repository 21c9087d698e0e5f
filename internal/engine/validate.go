package engine

import (
	"github.com/leapstack-labs/ratefusion/internal/validate"
	"github.com/leapstack-labs/ratefusion/pkg/core"
)

// Invalid describes the failures of one validated column.
type Invalid struct {
	Column      string              `json:"column"`
	Category    string              `json:"category"`
	Rows        []int               `json:"rows"`
	Suggestions map[string][]string `json:"suggestions,omitempty"`
}

// Validate checks rows against LIST categories and attaches up to
// suggestLimit suggestions for each distinct invalid value.
func (e *Engine) Validate(rows []core.Row, mapping validate.Mapping, suggestLimit int) []Invalid {
	md := e.MasterData()
	result := validate.Run(rows, mapping, md)

	out := make([]Invalid, 0, len(result))
	for _, col := range result.Columns() {
		category, _ := md.ByID(mapping[col])
		inv := Invalid{Column: col, Category: category.Name, Rows: result[col]}

		if suggestLimit > 0 {
			inv.Suggestions = make(map[string][]string)
			for _, i := range inv.Rows {
				v, _ := rows[i].Get(col)
				if _, seen := inv.Suggestions[v]; seen {
					continue
				}
				inv.Suggestions[v] = validate.Suggest(v, category, suggestLimit)
			}
		}
		out = append(out, inv)
	}
	e.logger.Debug("validation finished", "columns", len(mapping), "invalid_columns", len(out))
	return out
}
