// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/leapstack-labs/ratefusion/internal/cli/output"
)

// TestProfile is the logic profile written by SetupTestProject.
const TestProfile = `id: ocean
name: Ocean Rates
variables:
  DOMAIN: WEGO
config:
  X_LANE:
    fields:
      - name: X_LANE_GID
        formula: $DOMAIN.{POL}_{POD}
      - name: CARRIER
        formula: LOOKUP({SCAC}, CarrierMap)
  RATE_GEO:
    fields:
      - name: RATE_GEO_GID
        formula: CONCAT($DOMAIN., {SCAC}, _, SEQ)
      - name: EFFECTIVE_DATE
        formula: PROJECT_EFF
`

// TestMasterData is the master data written by SetupTestProject.
const TestMasterData = `- id: ports
  name: Ports
  type: LIST
  records: [MYPGU, MXVER, CNSHA]
- id: carriers
  name: CarrierMap
  type: KEY_VALUE
  dataMap:
    KHNN: KUEHNE
`

// TestRows is the rows.csv written by SetupTestProject. The second row has a
// POD that is not in the Ports list.
const TestRows = `POL,POD,SCAC
MYPGU,MXVER,KHNN
CNSHA,USLAX,MAEU
`

const testConfig = `profile: profiles.yaml
master_data: masterdata.yaml
state_path: state/history.db
output_dir: out
timezone: UTC
project:
  name: Q1 Ocean
  effective_date: "2025-03-01"
validation:
  POL: ports
`

// SetupTestProject creates a temporary ratefusion project with a config,
// a profile, master data and rows.csv. It returns the project directory.
func SetupTestProject(t *testing.T) string {
	t.Helper()

	tmpDir := t.TempDir()
	files := map[string]string{
		"ratefusion.yaml": testConfig,
		"profiles.yaml":   TestProfile,
		"masterdata.yaml": TestMasterData,
		"rows.csv":        TestRows,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(tmpDir, name), []byte(content), 0o600); err != nil {
			t.Fatalf("failed to create %s: %v", name, err)
		}
	}
	return tmpDir
}

// TestRenderer wraps a Renderer for testing with captured output buffers.
type TestRenderer struct {
	*output.Renderer
	Out    *bytes.Buffer
	ErrOut *bytes.Buffer
}

// NewTestRenderer creates a new test renderer with the specified mode and TTY state.
// Output is captured in buffers for inspection.
func NewTestRenderer(mode output.OutputMode, isTTY bool) *TestRenderer {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return &TestRenderer{
		Renderer: output.NewRendererWithTTY(out, errOut, isTTY, mode),
		Out:      out,
		ErrOut:   errOut,
	}
}

// NewTestRendererMarkdown creates a new test renderer in markdown mode.
func NewTestRendererMarkdown() *TestRenderer {
	return NewTestRenderer(output.ModeMarkdown, false)
}

// NewTestRendererJSON creates a new test renderer in JSON mode.
func NewTestRendererJSON() *TestRenderer {
	return NewTestRenderer(output.ModeJSON, false)
}

// Output returns the combined stdout output as a string.
func (tr *TestRenderer) Output() string {
	return tr.Out.String()
}

// ErrorOutput returns the stderr output as a string.
func (tr *TestRenderer) ErrorOutput() string {
	return tr.ErrOut.String()
}

// ansiPattern matches ANSI escape codes.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// AssertNoANSI checks that a string contains no ANSI escape codes.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	if ansiPattern.MatchString(s) {
		t.Errorf("string contains ANSI escape codes: %q", s)
	}
}

// AssertValidMarkdown performs basic markdown validation.
// It checks for unclosed code fences and basic structure.
func AssertValidMarkdown(t *testing.T, md string) {
	t.Helper()

	// Check for balanced code fences
	fenceCount := strings.Count(md, "```")
	if fenceCount%2 != 0 {
		t.Errorf("unbalanced code fences in markdown: found %d occurrences", fenceCount)
	}

	// Check that headers have content
	lines := strings.Split(md, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") && strings.TrimLeft(trimmed, "# ") == "" {
			t.Errorf("empty header at line %d: %q", i+1, line)
		}
	}
}
