package cli

import (
	"context"
	"fmt"
	"iter"

	"github.com/spf13/cobra"

	"github.com/roach88/condsel/internal/catalog"
	"github.com/roach88/condsel/internal/store"
)

// SourceOptions selects where a command reads the catalog from.
type SourceOptions struct {
	Catalog  string // TSV catalog file
	Database string // SQLite store filled by "condsel import"
}

func (s *SourceOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&s.Catalog, "catalog", "", "catalog file (tab-separated)")
	cmd.Flags().StringVar(&s.Database, "db", "", "catalog store database")
	cmd.MarkFlagsMutuallyExclusive("catalog", "db")
}

// resolve fills unset flags from the configuration file.
func (s SourceOptions) resolve(o *RootOptions) (SourceOptions, error) {
	if s.Catalog != "" || s.Database != "" {
		return s, nil
	}
	cfg, err := o.loadConfig()
	if err != nil {
		return s, err
	}
	s.Catalog, s.Database = cfg.Catalog, cfg.Database
	if s.Catalog != "" && s.Database != "" {
		// Configuration names both; the file is the explicit source.
		s.Database = ""
	}
	return s, nil
}

// records opens the catalog. With a store the bioproject filter runs in SQL
// and the latest import is read; with a file the selector filters instead.
func (s SourceOptions) records(ctx context.Context, bioproject string) (iter.Seq2[catalog.Record, error], error) {
	switch {
	case s.Database != "":
		st, err := store.Open(s.Database)
		if err != nil {
			return nil, err
		}
		defer st.Close()

		recs, err := st.Records(ctx, store.RecordQuery{Bioproject: bioproject})
		if err != nil {
			return nil, err
		}
		return catalog.FromRecords(recs), nil
	case s.Catalog != "":
		return catalog.Open(s.Catalog), nil
	default:
		return nil, fmt.Errorf("no catalog: pass --catalog or --db, or set catalog in the configuration")
	}
}

// openRecords resolves the source and opens it, reporting failures through
// f with ExitCommandError.
func openRecords(ctx context.Context, o *RootOptions, f *OutputFormatter, src SourceOptions, bioproject string) (iter.Seq2[catalog.Record, error], error) {
	src, err := src.resolve(o)
	if err != nil {
		return nil, f.Fail(ExitCommandError, ErrCodeConfig, err)
	}
	records, err := src.records(ctx, bioproject)
	if err != nil {
		return nil, f.Fail(ExitCommandError, ErrCodeStore, err)
	}
	return records, nil
}
