// Package engine drives transmission generation for the CLI.
// It loads the logic profile and master data, resolves rows and records
// every generation in the state store.
package engine

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/leapstack-labs/ratefusion/internal/profile"
	"github.com/leapstack-labs/ratefusion/internal/state"
	"github.com/leapstack-labs/ratefusion/pkg/core"
	"github.com/leapstack-labs/ratefusion/pkg/formula"
	"github.com/leapstack-labs/ratefusion/pkg/otmdate"
)

// Engine orchestrates profile loading, generation and history.
type Engine struct {
	// Structured logger
	logger *slog.Logger

	store state.Store
	cfg   Config

	mu         sync.RWMutex
	profile    *core.Profile
	masterData core.MasterData
}

// Config holds engine configuration.
type Config struct {
	// ProfilePath is the logic profile file. Empty uses the built-in default.
	ProfilePath string
	// ProfileName selects a profile by name or id when the file holds several.
	ProfileName string
	// MasterDataPath is the master data file (optional).
	MasterDataPath string
	// StatePath is the path to the SQLite history database.
	StatePath string
	// OutputDir receives generated documents.
	OutputDir string
	// Sequence overrides the profile's transmission sequence.
	Sequence []string
	// Project supplies PROJECT_EFF and PROJECT_EXP (optional).
	Project *core.Project
	// Username and Password fill the transmission header when set.
	Username string
	Password string
	// FlattenParens enables the bare-parenthesis fallback of the evaluator.
	FlattenParens bool
	// Location is used for date formatting. Defaults to time.Local.
	Location *time.Location
	// Now overrides the SYSDATE clock.
	Now func() time.Time
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// New creates an engine, opening the state store and loading the profile
// and master data.
func New(cfg Config) (*Engine, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	logger.Debug("initializing engine", "profile", cfg.ProfilePath, "state", cfg.StatePath)

	store := state.NewSQLiteStore(logger)
	if err := store.Open(cfg.StatePath); err != nil {
		return nil, fmt.Errorf("failed to open state store: %w", err)
	}

	if err := store.InitSchema(); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to initialize state schema: %w", err)
	}

	e := &Engine{
		logger: logger,
		store:  store,
		cfg:    cfg,
	}
	if err := e.Reload(); err != nil {
		_ = store.Close()
		return nil, err
	}
	return e, nil
}

// Reload re-reads the profile and master data files. On failure the
// previously loaded values stay in effect.
func (e *Engine) Reload() error {
	p, err := e.loadProfile()
	if err != nil {
		return err
	}
	md, err := profile.LoadMasterData(e.cfg.MasterDataPath)
	if err != nil {
		return err
	}

	e.mu.Lock()
	e.profile = p
	e.masterData = md
	e.mu.Unlock()

	e.logger.Debug("profile loaded", "profile", p.Name, "tables", len(p.Tables), "categories", len(md))
	return nil
}

func (e *Engine) loadProfile() (*core.Profile, error) {
	var p *core.Profile
	if e.cfg.ProfilePath == "" {
		p = profile.Default()
	} else {
		profiles, err := profile.LoadFile(e.cfg.ProfilePath)
		if err != nil {
			return nil, err
		}
		if p, err = profile.Select(profiles, e.cfg.ProfileName); err != nil {
			return nil, err
		}
	}

	if len(e.cfg.Sequence) > 0 {
		c := *p
		c.TransmissionSequence = append([]string(nil), e.cfg.Sequence...)
		if err := profile.Validate(&c); err != nil {
			return nil, err
		}
		p = &c
	}
	return p, nil
}

// Env builds the formula environment for one request.
func (e *Engine) Env() *formula.Env {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return &formula.Env{
		Project:       e.cfg.Project,
		MasterData:    e.masterData,
		Variables:     e.profile.Variables,
		Dates:         otmdate.Normalizer{Location: e.cfg.Location},
		Now:           e.cfg.Now,
		Logger:        e.logger,
		FlattenParens: e.cfg.FlattenParens,
	}
}

// Close releases all resources.
func (e *Engine) Close() error {
	e.logger.Debug("closing engine")

	if e.store != nil {
		if err := e.store.Close(); err != nil {
			return fmt.Errorf("errors closing engine: %w", err)
		}
	}
	return nil
}

// --- Getters (public accessors) ---

// Profile returns the active logic profile.
func (e *Engine) Profile() *core.Profile {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.profile
}

// MasterData returns the loaded master data.
func (e *Engine) MasterData() core.MasterData {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.masterData
}

// GetStateStore returns the state store.
func (e *Engine) GetStateStore() state.Store {
	return e.store
}

// OutputDir returns the configured output directory.
func (e *Engine) OutputDir() string {
	return e.cfg.OutputDir
}
