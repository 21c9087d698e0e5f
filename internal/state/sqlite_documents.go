package state

import (
	"fmt"
	"log/slog"
	"time"
)

// SaveDocument stores a generated document. ID and CreatedAt are filled in
// when empty.
func (s *SQLiteStore) SaveDocument(doc *Document) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}
	if doc.ID == "" {
		doc.ID = generateID()
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}

	s.logger.Debug("saving document",
		slog.String("run_id", doc.RunID),
		slog.String("table", doc.TableKey),
		slog.Int("bytes", len(doc.Content)))

	_, err := s.db.Exec(
		`INSERT INTO documents (id, run_id, position, table_key, table_name, content, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		doc.ID, doc.RunID, doc.Position, doc.TableKey, doc.TableName, doc.Content, doc.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save document: %w", err)
	}
	return nil
}

// GetDocuments returns the documents of a run in generation order.
func (s *SQLiteStore) GetDocuments(runID string) ([]*Document, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	rows, err := s.db.Query(
		`SELECT id, run_id, position, table_key, table_name, content, created_at
		 FROM documents WHERE run_id = ? ORDER BY position`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get documents: %w", err)
	}
	defer rows.Close()

	var docs []*Document
	for rows.Next() {
		d := &Document{}
		if err := rows.Scan(&d.ID, &d.RunID, &d.Position, &d.TableKey, &d.TableName, &d.Content, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}
