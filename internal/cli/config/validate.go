package config

import (
	"fmt"
	"time"

	"github.com/leapstack-labs/ratefusion/internal/cli/output"
	"github.com/leapstack-labs/ratefusion/pkg/core"
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, err := output.ParseMode(c.OutputFormat); err != nil {
		return err
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location returns the configured timezone, or time.Local when unset.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// ProjectInfo returns the configured project, or nil when no project field
// is set so that PROJECT_EFF and PROJECT_EXP stay literal.
func (c *Config) ProjectInfo() *core.Project {
	if c.Project == (core.Project{}) {
		return nil
	}
	p := c.Project
	return &p
}
