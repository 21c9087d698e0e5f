// Package config provides configuration management for the ratefusion CLI.
//
// Values are layered from built-in defaults, ratefusion.yaml, RATEFUSION_
// environment variables and explicitly set flags, in that order.
package config

import "github.com/leapstack-labs/ratefusion/pkg/core"

// Config holds all CLI configuration options.
type Config struct {
	ProfilePath    string            `koanf:"profile"`
	ProfileName    string            `koanf:"profile_name"`
	MasterDataPath string            `koanf:"master_data"`
	StatePath      string            `koanf:"state_path"`
	OutputDir      string            `koanf:"output_dir"`
	OutputFormat   string            `koanf:"output"`
	Verbose        bool              `koanf:"verbose"`
	FlattenParens  bool              `koanf:"flatten_parens"`
	Timezone       string            `koanf:"timezone"`
	Sequence       []string          `koanf:"sequence"`
	Project        core.Project      `koanf:"project"`
	OTM            OTMConfig         `koanf:"otm"`
	Validation     map[string]string `koanf:"validation"` // column -> LIST category id

	// ProjectRoot is the directory relative paths are resolved against.
	ProjectRoot string `koanf:"-"`
}

// OTMConfig holds the credentials written into transmission headers.
// Both values support ${VAR} expansion.
type OTMConfig struct {
	Username string `koanf:"username"`
	Password string `koanf:"password"`
}

// Default configuration values.
const (
	DefaultStateFile = ".ratefusion/history.db"
	DefaultOutputDir = "out"
	DefaultOutput    = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	EnvPrefix        = "RATEFUSION_"
)

// ConfigFileNames are searched, in order, in the project root.
var ConfigFileNames = []string{"ratefusion.yaml", "ratefusion.yml"}
