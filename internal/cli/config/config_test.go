package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("profile", "", "")
	fs.String("master-data", "", "")
	fs.String("state", "", "")
	fs.String("output-dir", "", "")
	fs.StringP("output", "o", "", "")
	fs.Bool("flatten-parens", false, "")
	fs.StringSlice("sequence", nil, "")
	fs.String("effective-date", "", "")
	fs.String("project-name", "", "")
	return fs
}

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "ratefusion.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	ResetConfig()
	dir := t.TempDir()
	t.Chdir(dir)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	root, _ := os.Getwd()
	assert.Equal(t, root, cfg.ProjectRoot)
	assert.Equal(t, filepath.Join(root, DefaultStateFile), cfg.StatePath)
	assert.Equal(t, filepath.Join(root, DefaultOutputDir), cfg.OutputDir)
	assert.Equal(t, DefaultOutput, cfg.OutputFormat)
	assert.Empty(t, cfg.ProfilePath)
	assert.Nil(t, cfg.ProjectInfo())
	assert.Empty(t, GetConfigFileUsed())
	assert.Same(t, cfg, GetCurrentConfig())
}

func TestLoadConfig_File(t *testing.T) {
	ResetConfig()
	dir := t.TempDir()
	path := writeConfig(t, dir, `
profile: logic/profiles.yaml
profile_name: Ocean Rates
master_data: /srv/masterdata.yaml
flatten_parens: true
timezone: UTC
sequence: [X_LANE, RATE_GEO]
project:
  name: Q1 Ocean
  effective_date: "2025-03-01"
otm:
  username: WEGO.ADMIN
  password: ${RATEFUSION_TEST_OTM_PASSWORD}
validation:
  POL: md-ports
`)
	t.Setenv("RATEFUSION_TEST_OTM_PASSWORD", "s3cret")

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)

	assert.Equal(t, path, GetConfigFileUsed())
	assert.Equal(t, filepath.Join(dir, "logic", "profiles.yaml"), cfg.ProfilePath)
	assert.Equal(t, "Ocean Rates", cfg.ProfileName)
	assert.Equal(t, "/srv/masterdata.yaml", cfg.MasterDataPath)
	assert.True(t, cfg.FlattenParens)
	assert.Equal(t, []string{"X_LANE", "RATE_GEO"}, cfg.Sequence)
	assert.Equal(t, "WEGO.ADMIN", cfg.OTM.Username)
	assert.Equal(t, "s3cret", cfg.OTM.Password)
	assert.Equal(t, map[string]string{"POL": "md-ports"}, cfg.Validation)

	require.NotNil(t, cfg.ProjectInfo())
	assert.Equal(t, "Q1 Ocean", cfg.ProjectInfo().Name)
	assert.Equal(t, "2025-03-01", cfg.ProjectInfo().EffectiveDate)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "UTC", loc.String())
}

func TestLoadConfig_UpwardSearch(t *testing.T) {
	ResetConfig()
	root := t.TempDir()
	writeConfig(t, root, "output_dir: generated\n")
	sub := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	t.Chdir(sub)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	resolved, _ := filepath.EvalSymlinks(root)
	got, _ := filepath.EvalSymlinks(cfg.ProjectRoot)
	assert.Equal(t, resolved, got)
	assert.Equal(t, "generated", filepath.Base(cfg.OutputDir))
}

func TestLoadConfig_Precedence(t *testing.T) {
	ResetConfig()
	dir := t.TempDir()
	path := writeConfig(t, dir, "output: text\nsequence: [RATE_GEO]\nstate_path: file.db\n")

	t.Setenv("RATEFUSION_OUTPUT", "markdown")
	t.Setenv("RATEFUSION_SEQUENCE", "X_LANE, RATE_GEO,")
	t.Setenv("RATEFUSION_PROJECT__CARRIER", "KHNN")

	flags := newFlags()
	require.NoError(t, flags.Parse([]string{"-o", "json", "--state", ":memory:", "--effective-date", "20250301"}))

	cfg, err := LoadConfig(path, flags)
	require.NoError(t, err)

	assert.Equal(t, "json", cfg.OutputFormat, "flag beats env")
	assert.Equal(t, []string{"X_LANE", "RATE_GEO"}, cfg.Sequence, "env beats file")
	assert.Equal(t, ":memory:", cfg.StatePath)
	assert.Equal(t, "KHNN", cfg.Project.Carrier)
	assert.Equal(t, "20250301", cfg.Project.EffectiveDate)
}

func TestLoadConfig_FlagPathsRelativeToCWD(t *testing.T) {
	ResetConfig()
	project := t.TempDir()
	path := writeConfig(t, project, "")
	cwd := t.TempDir()
	t.Chdir(cwd)

	flags := newFlags()
	require.NoError(t, flags.Parse([]string{"--profile", "p.yaml", "--sequence", "A,B"}))

	cfg, err := LoadConfig(path, flags)
	require.NoError(t, err)

	wd, _ := os.Getwd()
	assert.Equal(t, filepath.Join(wd, "p.yaml"), cfg.ProfilePath)
	assert.Equal(t, []string{"A", "B"}, cfg.Sequence)
	assert.Equal(t, filepath.Join(project, DefaultStateFile), cfg.StatePath)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad output", "output: yaml\n"},
		{"bad timezone", "timezone: Mars/Olympus\n"},
		{"bad yaml", "output: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ResetConfig()
			path := writeConfig(t, t.TempDir(), tt.content)
			_, err := LoadConfig(path, nil)
			assert.Error(t, err)
		})
	}
}

func TestLocation_Default(t *testing.T) {
	loc, err := (&Config{}).Location()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("RATEFUSION_TEST_USER", "admin")

	assert.Equal(t, "admin", expandEnvVars("${RATEFUSION_TEST_USER}"))
	assert.Equal(t, "x-admin-y", expandEnvVars("x-${RATEFUSION_TEST_USER}-y"))
	assert.Equal(t, "${RATEFUSION_TEST_UNSET}", expandEnvVars("${RATEFUSION_TEST_UNSET}"))
}

func TestGetLogger_Fallback(t *testing.T) {
	assert.NotNil(t, GetLogger(context.Background()))
}
