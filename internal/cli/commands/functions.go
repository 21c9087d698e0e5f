package commands

import (
	"github.com/leapstack-labs/ratefusion/internal/cli/output"
	"github.com/leapstack-labs/ratefusion/pkg/core"
	"github.com/leapstack-labs/ratefusion/pkg/formula"
	"github.com/spf13/cobra"
)

// NewFunctionsCommand creates the functions command.
func NewFunctionsCommand() *cobra.Command {
	var templates string

	cmd := &cobra.Command{
		Use:   "functions",
		Short: "List formula functions and templates",
		Long: `List the built-in formula functions with their arguments.

With --templates, list the formula templates offered for a field data type
(STRING, NUMBER or DATE).`,
		Example: `  # List all functions
  ratefusion functions

  # Templates for DATE fields as JSON
  ratefusion functions --templates date -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r := NewCommandContextWithoutEngine(cmd).Renderer
			if cmd.Flags().Changed("templates") {
				return renderTemplates(r, core.ParseDataType(templates))
			}
			return renderFunctions(r)
		},
	}

	cmd.Flags().StringVar(&templates, "templates", "", "List templates for a data type")
	_ = cmd.RegisterFlagCompletionFunc("templates", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"STRING", "NUMBER", "DATE"}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func renderFunctions(r *output.Renderer) error {
	fns := formula.Functions()
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(fns)
	}

	records := make([][]string, len(fns))
	for i, f := range fns {
		records[i] = []string{f.Name, f.Args, f.Description}
	}
	r.Header(1, "Functions")
	r.Table([]string{"Name", "Arguments", "Description"}, records)
	return nil
}

func renderTemplates(r *output.Renderer, dt core.DataType) error {
	tpls := formula.Templates(dt)
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(tpls)
	}

	records := make([][]string, len(tpls))
	for i, t := range tpls {
		records[i] = []string{t.Label, t.Snippet(), t.Description}
	}
	r.Header(1, "Templates for "+string(dt))
	r.Table([]string{"Label", "Snippet", "Description"}, records)
	return nil
}
