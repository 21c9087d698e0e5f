// Package core defines the shared language of the ratefusion system.
//
// This package contains:
//   - Input entities (Row, Profile, TableDef, Field, MasterDataCategory, Project)
//   - Persistence entities and the Store interface (Run, Document)
//   - The ErrInvalidInput sentinel for caller contract violations
//
// The Golden Rule: pkg/core imports no other ratefusion package.
// The formula engine, the assembler and the CLI depend on core, not the reverse.
package core
