package commands

import (
	"testing"

	"github.com/leapstack-labs/ratefusion/internal/validate"
	"github.com/leapstack-labs/ratefusion/pkg/core"
	"github.com/stretchr/testify/assert"
)

func TestNewGenerateCommand(t *testing.T) {
	cmd := NewGenerateCommand()

	assert.Equal(t, "generate <rows-file>", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotEmpty(t, cmd.Example, "Example should not be empty")

	for _, flag := range []string{"sheet", "watch", "print", "no-write"} {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
	}
	assert.Error(t, cmd.Args(cmd, nil), "rows file is required")
}

func TestNewResolveCommand(t *testing.T) {
	cmd := NewResolveCommand()

	assert.Equal(t, "resolve <rows-file>", cmd.Use)
	assert.NotEmpty(t, cmd.Example, "Example should not be empty")

	for _, flag := range []string{"sheet", "table", "formula", "limit", "xlsx"} {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestNewValidateCommand(t *testing.T) {
	cmd := NewValidateCommand()

	assert.Equal(t, "validate <rows-file>", cmd.Use)
	assert.NotEmpty(t, cmd.Example, "Example should not be empty")
	assert.Equal(t, "5", cmd.Flags().Lookup("suggest").DefValue)
	assert.NotNil(t, cmd.Flags().Lookup("map"))
}

func TestNewFunctionsCommand(t *testing.T) {
	cmd := NewFunctionsCommand()

	assert.Equal(t, "functions", cmd.Use)
	assert.NotNil(t, cmd.Flags().Lookup("templates"))
}

func TestNewHistoryCommand(t *testing.T) {
	cmd := NewHistoryCommand()

	assert.Equal(t, "history [run-id]", cmd.Use)
	assert.Equal(t, "20", cmd.Flags().Lookup("limit").DefValue)
	assert.NotNil(t, cmd.Flags().Lookup("show"))
}

func TestNewInitCommand(t *testing.T) {
	cmd := NewInitCommand()

	assert.Equal(t, "init [directory]", cmd.Use)
	assert.NotNil(t, cmd.Flags().Lookup("force"))
}

func TestResolveMapping(t *testing.T) {
	md := core.MasterData{
		{ID: "md-1", Name: "Ports", Type: core.CategoryList},
		{ID: "md-2", Name: "Modes", Type: core.CategoryList},
	}

	got := resolveMapping(md,
		map[string]string{"POL": "md-1", "MODE": "Modes"},
		map[string]string{"POD": "Ports", "POL": "unknown"},
	)

	assert.Equal(t, validate.Mapping{
		"POL":  "unknown",
		"POD":  "md-1",
		"MODE": "md-2",
	}, got, "flags override configured mappings and names become ids")
}
