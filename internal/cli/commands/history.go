package commands

import (
	"fmt"
	"strconv"
	"time"

	"github.com/leapstack-labs/ratefusion/internal/cli/output"
	"github.com/leapstack-labs/ratefusion/pkg/core"
	"github.com/spf13/cobra"
)

// NewHistoryCommand creates the history command.
func NewHistoryCommand() *cobra.Command {
	var (
		limit int
		show  bool
	)

	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "Show past generations",
		Long: `List recent generation runs, or the documents of one run.

Documents are stored with their run, so past transmissions can be printed
again without the original inputs.`,
		Example: `  # Recent runs
  ratefusion history

  # Documents of a run, with their contents
  ratefusion history 7f1c... --show`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			if len(args) == 1 {
				docs, err := cmdCtx.Engine.RunDocuments(args[0])
				if err != nil {
					return err
				}
				return renderRunDocuments(cmdCtx.Renderer, args[0], docs, show)
			}

			runs, err := cmdCtx.Engine.History(limit)
			if err != nil {
				return err
			}
			return renderRuns(cmdCtx.Renderer, runs)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of runs to list")
	cmd.Flags().BoolVar(&show, "show", false, "Print document contents")

	return cmd
}

func renderRuns(r *output.Renderer, runs []*core.Run) error {
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(runs)
	}

	r.Header(1, fmt.Sprintf("Runs (%d)", len(runs)))
	if len(runs) == 0 {
		r.Muted("No generations recorded yet")
		return nil
	}

	records := make([][]string, len(runs))
	for i, run := range runs {
		duration := ""
		if run.CompletedAt != nil {
			duration = run.CompletedAt.Sub(run.StartedAt).Round(time.Millisecond).String()
		}
		records[i] = []string{
			run.ID,
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			run.Profile,
			run.Project,
			strconv.Itoa(run.RowCount),
			string(run.Status),
			duration,
			run.Error,
		}
	}
	r.Table([]string{"ID", "Started", "Profile", "Project", "Rows", "Status", "Duration", "Error"}, records)
	return nil
}

func renderRunDocuments(r *output.Renderer, runID string, docs []*core.Document, show bool) error {
	if r.EffectiveMode() == output.ModeJSON {
		if !show {
			for _, d := range docs {
				d.Content = ""
			}
		}
		return r.JSON(docs)
	}

	r.Header(1, "Run "+runID)
	records := make([][]string, len(docs))
	for i, d := range docs {
		records[i] = []string{strconv.Itoa(d.Position + 1), d.TableKey, d.TableName, strconv.Itoa(len(d.Content))}
	}
	r.Table([]string{"#", "Key", "Table", "Bytes"}, records)

	if !show {
		return nil
	}
	for _, d := range docs {
		r.Header(2, d.TableKey)
		if r.EffectiveMode() == output.ModeMarkdown {
			r.Println(output.FormatCodeBlock("xml", d.Content))
		} else {
			r.Println(d.Content)
		}
		r.Println()
	}
	return nil
}
