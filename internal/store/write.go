package store

import (
	"context"
	"database/sql"
	"fmt"
	"iter"
	"strings"

	"github.com/roach88/condsel/internal/catalog"
)

// Import is one catalog load.
type Import struct {
	ID          string
	Seq         int64
	Source      string
	RecordCount int
	// Digest is the content hash of the imported lines (see DomainImport).
	Digest string
}

// Import loads records as a new import batch and makes it the latest one.
//
// The batch is written in a single transaction: any record error (including
// a malformed catalog line) rolls the whole import back. Earlier imports are
// kept; readers see the latest batch unless they ask for another.
func (s *Store) Import(ctx context.Context, source string, records iter.Seq2[catalog.Record, error]) (Import, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Import{}, fmt.Errorf("import: begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	imp := Import{ID: s.ids.Generate(), Source: source}

	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM imports`).Scan(&imp.Seq); err != nil {
		return Import{}, fmt.Errorf("import: next seq: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO imports (id, seq, source, record_count, digest)
		VALUES (?, ?, ?, 0, '')
	`, imp.ID, imp.Seq, imp.Source); err != nil {
		return Import{}, fmt.Errorf("import: write batch: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO combinations
		(import_id, line_no, combination_id, bioproject, condition_text, covariate, dimensions, signature, line)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return Import{}, fmt.Errorf("import: prepare: %w", err)
	}
	defer stmt.Close()

	d := newDigester(DomainImport)
	for rec, err := range records {
		if err != nil {
			return Import{}, fmt.Errorf("import: %w", err)
		}
		if err := writeCombination(ctx, stmt, imp.ID, rec); err != nil {
			return Import{}, err
		}
		d.add(rec.Line)
		imp.RecordCount++
	}
	imp.Digest = d.sum()

	if _, err := tx.ExecContext(ctx, `UPDATE imports SET record_count = ?, digest = ? WHERE id = ?`, imp.RecordCount, imp.Digest, imp.ID); err != nil {
		return Import{}, fmt.Errorf("import: update count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Import{}, fmt.Errorf("import: commit: %w", err)
	}
	return imp, nil
}

func writeCombination(ctx context.Context, stmt *sql.Stmt, importID string, rec catalog.Record) error {
	_, err := stmt.ExecContext(ctx,
		importID,
		rec.LineNo,
		rec.CombinationID,
		rec.Bioproject,
		rec.Condition,
		rec.Covariate,
		strings.Join(rec.Dimensions, "|"),
		rec.Signature(),
		rec.Line,
	)
	if err != nil {
		return fmt.Errorf("import: write combination %s (line %d): %w", rec.CombinationID, rec.LineNo, err)
	}
	return nil
}
