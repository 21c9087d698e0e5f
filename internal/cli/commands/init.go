package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/leapstack-labs/ratefusion/internal/cli/output"
	"github.com/leapstack-labs/ratefusion/internal/profile"
	"github.com/spf13/cobra"
)

const initConfig = `# ratefusion configuration
profile: profiles.yaml
master_data: masterdata.yaml
output_dir: out

project:
  name: My Project
  effective_date: "2025-01-01"
  expiry_date: "2025-12-31"

# Fills the transmission header; ${VAR} reads the environment.
# otm:
#   username: ${OTM_USERNAME}
#   password: ${OTM_PASSWORD}

# Column to LIST category id, checked by 'ratefusion validate'
validation:
  POL: ports
  POD: ports
`

const initMasterData = `- id: ports
  name: Ports
  type: LIST
  records: [MYPGU, MXVER, CNSHA, USLAX]
- id: carriers
  name: CarrierMap
  type: KEY_VALUE
  dataMap:
    KHNN: KUEHNE
    MAEU: MAERSK
`

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new ratefusion project",
		Long: `Initialize a new ratefusion project.

This creates:
  - ratefusion.yaml configuration file
  - profiles.yaml holding the default logic profile
  - masterdata.yaml with example LIST and KEY_VALUE categories`,
		Example: `  # Initialize in current directory
  ratefusion init

  # Initialize in a new directory
  ratefusion init ocean-rates

  # Force overwrite existing files
  ratefusion init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			// Create renderer
			cfg := getConfig()
			mode := output.Mode(cfg.OutputFormat)
			r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

			return runInit(r, dir, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing files")

	return cmd
}

func runInit(r *output.Renderer, dir string, force bool) error {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	profileYAML, err := profile.Marshal(profile.Default())
	if err != nil {
		return err
	}

	files := []struct {
		name    string
		content []byte
	}{
		{"ratefusion.yaml", []byte(initConfig)},
		{"profiles.yaml", profileYAML},
		{"masterdata.yaml", []byte(initMasterData)},
	}

	if !force {
		for _, f := range files {
			if _, err := os.Stat(filepath.Join(dir, f.name)); err == nil {
				return fmt.Errorf("%s already exists. Use --force to overwrite", f.name)
			}
		}
	}

	for _, f := range files {
		if err := os.WriteFile(filepath.Join(dir, f.name), f.content, 0600); err != nil {
			return fmt.Errorf("failed to write %s: %w", f.name, err)
		}
		r.StatusLine(f.name, "ok", "")
	}

	r.Println("")
	r.Success("ratefusion project initialized!")
	r.Println("")
	r.Println("Next steps:")
	r.Println("  1. Edit the logic profile in profiles.yaml")
	r.Println("  2. Run 'ratefusion validate rates.csv' to check your rows")
	r.Println("  3. Run 'ratefusion generate rates.csv' to build transmissions")
	return nil
}
