// Package state persists generation history in SQLite.
// It records each generation run and the documents it produced.
package state

import (
	"github.com/leapstack-labs/ratefusion/pkg/core"
)

// Type aliases so callers can stay within this package.
type (
	// Store is an alias for core.Store.
	Store = core.Store

	// RunStatus is an alias for core.RunStatus.
	RunStatus = core.RunStatus

	// Run is an alias for core.Run.
	Run = core.Run

	// Document is an alias for core.Document.
	Document = core.Document
)

// Run status constants.
const (
	RunStatusRunning   = core.RunStatusRunning
	RunStatusCompleted = core.RunStatusCompleted
	RunStatusFailed    = core.RunStatusFailed
)

var _ Store = (*SQLiteStore)(nil)
