package engine

// generate.go - generation orchestration and history recording

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/ratefusion/internal/state"
	"github.com/leapstack-labs/ratefusion/pkg/core"
	"github.com/leapstack-labs/ratefusion/pkg/formula"
	"github.com/leapstack-labs/ratefusion/pkg/transmission"
)

// Result is the outcome of one generation.
type Result struct {
	Run       *core.Run              `json:"run"`
	Documents transmission.Documents `json:"documents,omitempty"`
	Files     []string               `json:"files,omitempty"`
}

// Generate builds every document of the active profile for rows, records the
// run and its documents, and writes them to the output directory when one is
// configured.
func (e *Engine) Generate(ctx context.Context, rows []core.Row) (*Result, error) {
	p := e.Profile()
	e.logger.Info("starting generation", "profile", p.Name, "rows", len(rows))

	run, err := e.store.CreateRun(p.Name, e.projectName(), len(rows))
	if err != nil {
		return nil, fmt.Errorf("failed to create run: %w", err)
	}

	e.logger.Debug("created run", "run_id", run.ID)

	docs, err := transmission.GenerateAll(ctx, rows, p, e.Env())
	if err != nil {
		return e.fail(run, err)
	}

	// History keeps the placeholders; only the outgoing copy carries credentials.
	for i, d := range docs {
		if err := e.store.SaveDocument(&state.Document{
			RunID:     run.ID,
			Position:  i,
			TableKey:  d.Key,
			TableName: d.TableName,
			Content:   d.Content,
		}); err != nil {
			return e.fail(run, fmt.Errorf("failed to save document %s: %w", d.Key, err))
		}
	}

	docs = e.withCredentials(docs)

	var files []string
	if e.cfg.OutputDir != "" {
		if files, err = WriteDocuments(e.cfg.OutputDir, docs); err != nil {
			return e.fail(run, err)
		}
	}

	if err := e.store.CompleteRun(run.ID, core.RunStatusCompleted, ""); err != nil {
		return nil, fmt.Errorf("failed to complete run: %w", err)
	}
	e.logger.Info("generation completed", "run_id", run.ID, "documents", len(docs))

	run, err = e.store.GetRun(run.ID)
	if err != nil {
		return nil, err
	}
	return &Result{Run: run, Documents: docs, Files: files}, nil
}

func (e *Engine) fail(run *core.Run, err error) (*Result, error) {
	e.logger.Info("generation failed", "run_id", run.ID, "error", err.Error())
	_ = e.store.CompleteRun(run.ID, core.RunStatusFailed, err.Error())
	return nil, err
}

// withCredentials returns a copy of docs with the configured OTM credentials
// filled in. Without credentials docs is returned unchanged.
func (e *Engine) withCredentials(docs transmission.Documents) transmission.Documents {
	if e.cfg.Username == "" && e.cfg.Password == "" {
		return docs
	}
	out := make(transmission.Documents, len(docs))
	for i, d := range docs {
		d.Content = transmission.WithCredentials(d.Content, e.cfg.Username, e.cfg.Password)
		out[i] = d
	}
	return out
}

func (e *Engine) projectName() string {
	if e.cfg.Project == nil {
		return ""
	}
	return e.cfg.Project.Name
}

// WriteDocuments writes each document to dir as NN_<key>.xml, numbered by
// transmission position.
func WriteDocuments(dir string, docs transmission.Documents) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	files := make([]string, 0, len(docs))
	for i, d := range docs {
		name := fmt.Sprintf("%02d_%s.xml", i+1, strings.ToLower(d.Key))
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(d.Content), 0o600); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", name, err)
		}
		files = append(files, path)
	}
	return files, nil
}

// Preview resolves every field of one table for each row without building a
// document. It returns the column names and one record per row.
func (e *Engine) Preview(key string, rows []core.Row) ([]string, [][]string, error) {
	p := e.Profile()
	def, ok := p.Table(key)
	if !ok {
		return nil, nil, core.InvalidInputf("profile %q has no table %q", p.Name, key)
	}

	env := e.Env()
	records := make([][]string, len(rows))
	for i, row := range rows {
		row = row.WithIndex(i)
		rec := make([]string, len(def.Fields))
		for j, f := range def.Fields {
			rec[j] = formula.Resolve(f.Formula, row, env)
		}
		records[i] = rec
	}
	return def.ColumnNames(), records, nil
}

// Resolve evaluates a single formula against one row.
func (e *Engine) Resolve(text string, row core.Row) string {
	return formula.Resolve(text, row, e.Env())
}

// History returns the most recent runs.
func (e *Engine) History(limit int) ([]*core.Run, error) {
	return e.store.ListRuns(limit)
}

// RunDocuments returns the stored documents of one run.
func (e *Engine) RunDocuments(runID string) ([]*core.Document, error) {
	if _, err := e.store.GetRun(runID); err != nil {
		return nil, err
	}
	return e.store.GetDocuments(runID)
}
