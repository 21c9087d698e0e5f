package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"

	"github.com/leapstack-labs/ratefusion/internal/cli/config"
	"github.com/leapstack-labs/ratefusion/internal/cli/output"
	"github.com/leapstack-labs/ratefusion/internal/engine"
	"github.com/spf13/cobra"
)

// NewGenerateCommand creates the generate command.
func NewGenerateCommand() *cobra.Command {
	var (
		sheet   string
		watch   bool
		show    bool
		noWrite bool
	)

	cmd := &cobra.Command{
		Use:   "generate <rows-file>",
		Short: "Generate OTM transmission documents from rate rows",
		Long: `Resolve every table of the logic profile against the rows of a CSV, JSON,
YAML or XLSX file and write one CSVDataLoad transmission per table.

Documents follow the profile's transmission sequence and are written to the
output directory as NN_<table>.xml. Every generation is recorded in the
history database.

Output adapts to environment:
  - Terminal: Styled, colored output
  - Piped/Scripted: Markdown format (agent-friendly)

Use --output to override: auto, text, markdown, json`,
		Example: `  # Generate with the profile from ratefusion.yaml
  ratefusion generate rates.xlsx

  # Pick a sheet and a profile
  ratefusion generate rates.xlsx --sheet Ocean --profile logic.yaml

  # Regenerate whenever the profile, master data or rows change
  ratefusion generate rates.csv --watch

  # Print documents instead of writing files
  ratefusion generate rates.json --no-write --print`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, args[0], sheet, watch, show, noWrite)
		},
	}

	cmd.Flags().StringVar(&sheet, "sheet", "", "XLSX sheet to read (default: first sheet)")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Regenerate when inputs change")
	cmd.Flags().BoolVar(&show, "print", false, "Include document contents in the output")
	cmd.Flags().BoolVar(&noWrite, "no-write", false, "Do not write documents to the output directory")

	return cmd
}

func runGenerate(cmd *cobra.Command, input, sheet string, watch, show, noWrite bool) error {
	cfg := *getConfig()
	if noWrite {
		cfg.OutputDir = ""
	}

	logger := config.GetLogger(cmd.Context())
	eng, err := createEngine(&cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = eng.Close() }()

	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat))

	generate := func(ctx context.Context) error {
		data, err := loadRows(input, sheet)
		if err != nil {
			return err
		}
		res, err := eng.Generate(ctx, data)
		if err != nil {
			return err
		}
		return renderGenerate(r, res, show)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if err := generate(ctx); err != nil {
		if !watch {
			return err
		}
		r.Error(err.Error())
	}

	if !watch {
		return nil
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	r.Muted("Watching for changes (Ctrl+C to stop)")
	return eng.Watch(ctx, []string{input}, func(reloadErr error) {
		if reloadErr != nil {
			r.Error(reloadErr.Error())
			return
		}
		if err := generate(ctx); err != nil {
			r.Error(err.Error())
		}
	})
}

func renderGenerate(r *output.Renderer, res *engine.Result, show bool) error {
	switch r.EffectiveMode() {
	case output.ModeJSON:
		if !show {
			trimmed := *res
			trimmed.Documents = nil
			return r.JSON(generateSummary{Result: &trimmed, Tables: documentKeys(res)})
		}
		return r.JSON(res)
	case output.ModeMarkdown:
		generateMarkdown(r, res, show)
	default:
		generateText(r, res, show)
	}
	return nil
}

type generateSummary struct {
	*engine.Result
	Tables []string `json:"tables"`
}

func documentKeys(res *engine.Result) []string {
	keys := make([]string, len(res.Documents))
	for i, d := range res.Documents {
		keys[i] = d.Key
	}
	return keys
}

func documentRows(res *engine.Result) [][]string {
	rows := make([][]string, len(res.Documents))
	for i, d := range res.Documents {
		file := ""
		if i < len(res.Files) {
			file = res.Files[i]
		}
		rows[i] = []string{strconv.Itoa(i + 1), d.Key, d.TableName, strconv.Itoa(len(d.Content)), file}
	}
	return rows
}

func generateText(r *output.Renderer, res *engine.Result, show bool) {
	r.Header(1, fmt.Sprintf("Generated %d document(s)", len(res.Documents)))
	r.KeyValue("Run", res.Run.ID)
	r.KeyValue("Profile", res.Run.Profile)
	r.KeyValue("Rows", strconv.Itoa(res.Run.RowCount))
	r.Println()
	r.Table([]string{"#", "Key", "Table", "Bytes", "File"}, documentRows(res))

	if show {
		for _, d := range res.Documents {
			r.Println()
			r.Header(2, d.Key)
			r.Println(d.Content)
		}
	}
	r.Success("Generation completed")
}

func generateMarkdown(r *output.Renderer, res *engine.Result, show bool) {
	r.Header(1, fmt.Sprintf("Generated %d document(s)", len(res.Documents)))
	r.Println(output.FormatKeyValue("Run", res.Run.ID))
	r.Println(output.FormatKeyValue("Profile", res.Run.Profile))
	r.Println(output.FormatKeyValue("Rows", strconv.Itoa(res.Run.RowCount)))
	r.Println()
	r.Table([]string{"#", "Key", "Table", "Bytes", "File"}, documentRows(res))

	if show {
		for _, d := range res.Documents {
			r.Println(output.FormatHeader(2, d.Key))
			r.Println()
			r.Println(output.FormatCodeBlock("xml", d.Content))
			r.Println()
		}
	}
}
