package commands

import (
	"fmt"
	"os"
	"strconv"

	"github.com/leapstack-labs/ratefusion/internal/cli/output"
	"github.com/leapstack-labs/ratefusion/internal/rows"
	"github.com/spf13/cobra"
)

type resolveOptions struct {
	sheet   string
	table   string
	formula string
	limit   int
	xlsx    string
}

// resolvedTable is the JSON shape of a preview.
type resolvedTable struct {
	Table   string     `json:"table"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// NewResolveCommand creates the resolve command.
func NewResolveCommand() *cobra.Command {
	opts := resolveOptions{}

	cmd := &cobra.Command{
		Use:   "resolve <rows-file>",
		Short: "Preview resolved values for a table or a single formula",
		Long: `Resolve the fields of one profile table, or an ad-hoc formula, against
each input row without generating documents.

The preview can be exported to an XLSX workbook for review.`,
		Example: `  # Preview the first table of the transmission sequence
  ratefusion resolve rates.csv

  # Preview one table and export it
  ratefusion resolve rates.xlsx --table RATE_GEO --xlsx preview.xlsx

  # Try a formula against the first 5 rows
  ratefusion resolve rates.csv --formula 'CONCAT($DOMAIN., UPPER({POL}), _, SEQ)' --limit 5`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.sheet, "sheet", "", "XLSX sheet to read (default: first sheet)")
	cmd.Flags().StringVar(&opts.table, "table", "", "Table key to preview (default: first in sequence)")
	cmd.Flags().StringVarP(&opts.formula, "formula", "f", "", "Resolve this formula instead of a table")
	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 0, "Only resolve the first N rows")
	cmd.Flags().StringVar(&opts.xlsx, "xlsx", "", "Write the preview to an XLSX file")

	_ = cmd.RegisterFlagCompletionFunc("table", completeTableKeys)

	return cmd
}

func runResolve(cmd *cobra.Command, input string, opts resolveOptions) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	eng := cmdCtx.Engine
	r := cmdCtx.Renderer

	data, err := loadRows(input, opts.sheet)
	if err != nil {
		return err
	}
	if opts.limit > 0 && opts.limit < len(data) {
		data = data[:opts.limit]
	}

	var preview resolvedTable
	if opts.formula != "" {
		preview = resolvedTable{Table: "formula", Columns: []string{"#", "Value"}}
		for i, row := range data {
			v := eng.Resolve(opts.formula, row.WithIndex(i))
			preview.Rows = append(preview.Rows, []string{strconv.Itoa(i + 1), v})
		}
	} else {
		key := opts.table
		if key == "" {
			seq := eng.Profile().Sequence()
			if len(seq) == 0 {
				return fmt.Errorf("profile %q has no tables", eng.Profile().Name)
			}
			key = seq[0]
		}
		cols, records, err := eng.Preview(key, data)
		if err != nil {
			return err
		}
		preview = resolvedTable{Table: key, Columns: cols, Rows: records}
	}

	if opts.xlsx != "" {
		if err := writePreviewXLSX(opts.xlsx, preview); err != nil {
			return err
		}
		cmdCtx.Logger.Info("preview exported", "path", opts.xlsx)
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(preview)
	default:
		r.Header(1, fmt.Sprintf("%s (%d rows)", preview.Table, len(preview.Rows)))
		r.Table(preview.Columns, preview.Rows)
		if opts.xlsx != "" {
			r.Success("Wrote " + opts.xlsx)
		}
	}
	return nil
}

func writePreviewXLSX(path string, preview resolvedTable) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := rows.WriteXLSX(f, preview.Table, preview.Columns, preview.Rows); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// completeTableKeys offers the table keys of the configured profile.
func completeTableKeys(cmd *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	cfg := *getConfig()
	cfg.StatePath = ":memory:"
	eng, err := createEngine(&cfg, nil)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	defer func() { _ = eng.Close() }()
	return eng.Profile().TableKeys(), cobra.ShellCompDirectiveNoFileComp
}
