package formula

import (
	"log/slog"
	"time"

	"github.com/leapstack-labs/ratefusion/pkg/core"
	"github.com/leapstack-labs/ratefusion/pkg/otmdate"
)

// Iteration caps for the fixed-point loops.
const (
	MaxVariablePasses = 5
	MaxFunctionPasses = 15
)

// Fallback timestamps substituted when project dates cannot be normalized.
const (
	FallbackEffectiveDate = "20250101000000"
	FallbackExpiryDate    = "20251231000000"
)

// Env carries the read-only inputs shared by every formula in one request.
// All fields are optional; a nil *Env is valid.
type Env struct {
	// Project supplies PROJECT_EFF and PROJECT_EXP. When nil those tokens
	// are left as literal text.
	Project *core.Project

	// MasterData is consulted by LOOKUP.
	MasterData core.MasterData

	// Variables maps $NAME tokens to formula-valued strings.
	Variables map[string]string

	// Dates controls the location used for date formatting.
	Dates otmdate.Normalizer

	// Now returns the instant used for SYSDATE. Defaults to time.Now.
	Now func() time.Time

	// Logger receives warnings when an iteration cap is hit.
	Logger *slog.Logger

	// FlattenParens strips one level of bare parentheses once no function
	// call remains, so "(x)" grouping around a call still resolves.
	FlattenParens bool
}

func (e *Env) logger() *slog.Logger {
	if e == nil || e.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return e.Logger
}

func (e *Env) now() time.Time {
	if e == nil || e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

func (e *Env) dates() otmdate.Normalizer {
	if e == nil {
		return otmdate.Default
	}
	return e.Dates
}

func (e *Env) masterData() core.MasterData {
	if e == nil {
		return nil
	}
	return e.MasterData
}

func (e *Env) flattenParens() bool {
	return e != nil && e.FlattenParens
}
