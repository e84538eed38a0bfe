package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/condsel/internal/catalog"
	"github.com/roach88/condsel/internal/queryir"
)

// ErrNoImports is returned when reading from a store nothing was imported
// into.
var ErrNoImports = errors.New("store has no catalog imports")

// RecordQuery selects combinations from one import batch.
// Empty fields do not filter.
type RecordQuery struct {
	ImportID   string // empty means the latest import
	Bioproject string
	Signature  string // see catalog.Record.Signature
}

// Records returns the combinations matching q in catalog line order.
//
// Returns an empty slice (not nil) when nothing matches, and ErrNoImports
// when q names no import and the store is empty.
func (s *Store) Records(ctx context.Context, q RecordQuery) ([]catalog.Record, error) {
	importID := q.ImportID
	if importID == "" {
		latest, err := s.LatestImport(ctx)
		if err != nil {
			return nil, err
		}
		importID = latest.ID
	}

	filter := queryir.And{Predicates: []queryir.Predicate{
		queryir.Equals{Field: "import_id", Value: queryir.Text(importID)},
	}}
	if q.Bioproject != "" {
		filter.Predicates = append(filter.Predicates, queryir.Equals{Field: "bioproject", Value: queryir.Text(q.Bioproject)})
	}
	if q.Signature != "" {
		filter.Predicates = append(filter.Predicates, queryir.Equals{Field: "signature", Value: queryir.Text(q.Signature)})
	}

	query, params, err := s.compiler.Compile(queryir.Select{
		From:    "combinations",
		Columns: []string{"line_no", "line"},
		Filter:  filter,
		OrderBy: []string{"line_no"},
	})
	if err != nil {
		return nil, fmt.Errorf("compile records query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("query combinations: %w", err)
	}
	defer rows.Close()

	records := []catalog.Record{}
	for rows.Next() {
		var (
			lineNo int
			line   string
		)
		if err := rows.Scan(&lineNo, &line); err != nil {
			return nil, fmt.Errorf("scan combination: %w", err)
		}
		rec, err := catalog.ParseRecord(line, lineNo)
		if err != nil {
			return nil, fmt.Errorf("stored combination: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate combinations: %w", err)
	}

	return records, nil
}

// Imports returns all import batches ordered by seq.
func (s *Store) Imports(ctx context.Context) ([]Import, error) {
	query, params, err := s.compiler.Compile(queryir.Select{
		From:    "imports",
		Columns: []string{"id", "seq", "source", "record_count", "digest"},
		OrderBy: []string{"seq"},
	})
	if err != nil {
		return nil, fmt.Errorf("compile imports query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("query imports: %w", err)
	}
	defer rows.Close()

	imports := []Import{}
	for rows.Next() {
		var imp Import
		if err := rows.Scan(&imp.ID, &imp.Seq, &imp.Source, &imp.RecordCount, &imp.Digest); err != nil {
			return nil, fmt.Errorf("scan import: %w", err)
		}
		imports = append(imports, imp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate imports: %w", err)
	}

	return imports, nil
}

// LatestImport returns the import with the highest seq.
// Returns ErrNoImports if the store is empty.
func (s *Store) LatestImport(ctx context.Context) (Import, error) {
	var imp Import
	err := s.db.QueryRowContext(ctx, `
		SELECT id, seq, source, record_count, digest
		FROM imports
		ORDER BY seq DESC
		LIMIT 1
	`).Scan(&imp.ID, &imp.Seq, &imp.Source, &imp.RecordCount, &imp.Digest)
	if errors.Is(err, sql.ErrNoRows) {
		return Import{}, ErrNoImports
	}
	if err != nil {
		return Import{}, fmt.Errorf("query latest import: %w", err)
	}
	return imp, nil
}
