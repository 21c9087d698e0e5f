package commands

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/leapstack-labs/ratefusion/internal/cli/output"
	"github.com/leapstack-labs/ratefusion/internal/engine"
	"github.com/leapstack-labs/ratefusion/internal/validate"
	"github.com/leapstack-labs/ratefusion/pkg/core"
	"github.com/spf13/cobra"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	var (
		sheet   string
		mapping map[string]string
		suggest int
	)

	cmd := &cobra.Command{
		Use:   "validate <rows-file>",
		Short: "Check row values against master data lists",
		Long: `Check that the values of mapped columns appear in their LIST master data
category. Comparison ignores case and surrounding whitespace.

Mappings come from the validation section of ratefusion.yaml and --map flags.
A category may be referenced by id or by name. Columns mapped to a missing
or KEY_VALUE category are skipped.

The command exits non-zero when any column has invalid values.`,
		Example: `  # Validate with the mappings from ratefusion.yaml
  ratefusion validate rates.csv

  # Map columns on the command line
  ratefusion validate rates.xlsx --map POL=Ports --map POD=Ports

  # Show up to 3 suggestions per invalid value
  ratefusion validate rates.csv --suggest 3`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, args[0], sheet, mapping, suggest)
		},
	}

	cmd.Flags().StringVar(&sheet, "sheet", "", "XLSX sheet to read (default: first sheet)")
	cmd.Flags().StringToStringVar(&mapping, "map", nil, "Column to category mapping (COLUMN=CATEGORY)")
	cmd.Flags().IntVar(&suggest, "suggest", 5, "Suggestions per invalid value (0 to disable)")

	return cmd
}

func runValidate(cmd *cobra.Command, input, sheet string, flagMapping map[string]string, suggest int) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	eng := cmdCtx.Engine
	r := cmdCtx.Renderer

	mapping := resolveMapping(eng.MasterData(), cmdCtx.Cfg.Validation, flagMapping)
	if len(mapping) == 0 {
		return fmt.Errorf("no column mappings: add a validation section to ratefusion.yaml or use --map")
	}

	data, err := loadRows(input, sheet)
	if err != nil {
		return err
	}

	invalid := eng.Validate(data, mapping, suggest)

	switch r.EffectiveMode() {
	case output.ModeJSON:
		if err := r.JSON(struct {
			Rows    int              `json:"rows"`
			Valid   bool             `json:"valid"`
			Invalid []engine.Invalid `json:"invalid"`
		}{len(data), len(invalid) == 0, invalid}); err != nil {
			return err
		}
	default:
		validateReport(r, len(data), mapping, invalid)
	}

	if len(invalid) > 0 {
		return fmt.Errorf("%d column(s) failed validation", len(invalid))
	}
	return nil
}

// resolveMapping merges configured and flag mappings, translating category
// names to ids.
func resolveMapping(md core.MasterData, configured, flags map[string]string) validate.Mapping {
	out := validate.Mapping{}
	for _, src := range []map[string]string{configured, flags} {
		for col, ref := range src {
			if c, ok := md.ByID(ref); ok {
				out[col] = c.ID
			} else if c, ok := md.Find(ref); ok {
				out[col] = c.ID
			} else {
				out[col] = ref
			}
		}
	}
	return out
}

func validateReport(r *output.Renderer, rowCount int, mapping validate.Mapping, invalid []engine.Invalid) {
	r.Header(1, fmt.Sprintf("Validated %d row(s), %d column(s)", rowCount, len(mapping)))

	if len(invalid) == 0 {
		r.Success("All mapped values are valid")
		return
	}

	for _, inv := range invalid {
		r.Header(2, fmt.Sprintf("%s (%s): %d invalid", inv.Column, inv.Category, len(inv.Rows)))

		rowNums := make([]string, len(inv.Rows))
		for i, n := range inv.Rows {
			rowNums[i] = strconv.Itoa(n + 1)
		}
		r.KeyValue("Rows", strings.Join(rowNums, ", "))

		if len(inv.Suggestions) > 0 {
			values := make([]string, 0, len(inv.Suggestions))
			for v := range inv.Suggestions {
				values = append(values, v)
			}
			sort.Strings(values)

			records := make([][]string, len(values))
			for i, v := range values {
				records[i] = []string{v, strings.Join(inv.Suggestions[v], ", ")}
			}
			r.Table([]string{"Value", "Suggestions"}, records)
		}
		r.Println()
	}
}
