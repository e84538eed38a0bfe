package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"

	"github.com/roach88/condsel/internal/catalog"
	"github.com/roach88/condsel/internal/store"
)

// OptionsOptions holds flags for the options command.
type OptionsOptions struct {
	*RootOptions
	Source  SourceOptions
	Exclude []string
}

// NewOptionsCommand creates the options command.
func NewOptionsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &OptionsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "options",
		Short: "List the values each dimension takes",
		Long: `List every dimension of the catalog with the values its clauses assign.

Keys and values are sorted. Dimensions passed with --exclude are left out.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := opts.formatter(cmd)

			records, err := openRecords(cmd.Context(), opts.RootOptions, f, opts.Source, "")
			if err != nil {
				return err
			}
			dims, err := catalog.DimensionOptions(records, opts.Exclude...)
			if err != nil {
				return failCatalog(f, err)
			}

			if f.JSON() {
				if dims == nil {
					dims = []catalog.DimensionOption{}
				}
				return f.Success(map[string]any{"dimensions": dims})
			}
			for _, d := range dims {
				fmt.Fprintf(f.Writer, "%s: %s\n", d.Key, strings.Join(d.Values, ", "))
			}
			return nil
		},
	}

	opts.Source.register(cmd)
	cmd.Flags().StringArrayVar(&opts.Exclude, "exclude", nil, "dimension to leave out (repeatable)")

	return cmd
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a catalog file for malformed records",
		Long: `Check every record of a catalog file and report all problems at once:
malformed lines, conditions that do not parse, covariates missing from the
dimension list and duplicate combination ids.

Exit codes:
  0 - Catalog is valid
  1 - One or more records are invalid
  2 - Command error (unreadable file, etc.)`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, rootOpts, path)
		},
	}

	cmd.Flags().StringVar(&path, "catalog", "", "catalog file (tab-separated)")

	return cmd
}

func runValidate(cmd *cobra.Command, opts *RootOptions, path string) error {
	f := opts.formatter(cmd)

	src, err := SourceOptions{Catalog: path}.resolve(opts)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeConfig, err)
	}
	if src.Catalog == "" {
		return f.Fail(ExitCommandError, ErrCodeGeneric, errors.New("validate needs a catalog file: pass --catalog"))
	}

	err = catalog.Validate(catalog.Open(src.Catalog))
	if err == nil {
		if f.JSON() {
			return f.Success(ValidationResult{Valid: true})
		}
		fmt.Fprintln(f.Writer, "✓ catalog is valid")
		return nil
	}

	var problems []error
	var merr *multierror.Error
	if errors.As(err, &merr) {
		problems = merr.Errors
	} else {
		problems = []error{err}
	}

	exitCode := ExitFailure
	result := ValidationResult{Errors: make([]string, len(problems))}
	for i, p := range problems {
		result.Errors[i] = p.Error()
		var condErr *catalog.ConditionError
		if !errors.Is(p, catalog.ErrMalformedRecord) && !errors.As(p, &condErr) {
			exitCode = ExitCommandError
		}
	}

	if f.JSON() {
		if err := f.Success(result); err != nil {
			return err
		}
	} else {
		w := f.GetErrWriter()
		for _, msg := range result.Errors {
			fmt.Fprintf(w, "✗ %s\n", msg)
		}
		fmt.Fprintf(w, "%d problem(s) found\n", len(result.Errors))
	}
	return WrapExitError(exitCode, "catalog is invalid", err)
}

// ImportOptions holds flags for the import command.
type ImportOptions struct {
	*RootOptions
	Source SourceOptions
}

// ImportResult is the JSON payload of the import command.
type ImportResult struct {
	ImportID    string `json:"import_id"`
	Seq         int64  `json:"seq"`
	Source      string `json:"source"`
	RecordCount int    `json:"record_count"`
	Digest      string `json:"digest"`
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ImportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Load a catalog file into a store",
		Long: `Load a catalog file into a SQLite store as a new import.

The import is all or nothing: a malformed line rolls it back. Earlier
imports are kept; select, suggest and options read the latest one.

Examples:
  condsel import --catalog combos.tsv --db catalog.db`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Source.Catalog, "catalog", "", "catalog file (tab-separated)")
	cmd.Flags().StringVar(&opts.Source.Database, "db", "", "catalog store database")

	return cmd
}

func runImport(cmd *cobra.Command, opts *ImportOptions) error {
	f := opts.formatter(cmd)

	cfg, err := opts.loadConfig()
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeConfig, err)
	}
	src := opts.Source
	if src.Catalog == "" {
		src.Catalog = cfg.Catalog
	}
	if src.Database == "" {
		src.Database = cfg.Database
	}
	if src.Catalog == "" || src.Database == "" {
		return f.Fail(ExitCommandError, ErrCodeGeneric, errors.New("import needs both --catalog and --db"))
	}

	source, err := filepath.Abs(src.Catalog)
	if err != nil {
		source = src.Catalog
	}

	st, err := store.Open(src.Database)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeStore, err)
	}
	defer st.Close()

	imp, err := st.Import(cmd.Context(), source, catalog.Open(src.Catalog))
	if err != nil {
		return failCatalog(f, err)
	}
	f.VerboseLog("import %s written to %s", imp.ID, src.Database)

	if f.JSON() {
		return f.Success(ImportResult{
			ImportID:    imp.ID,
			Seq:         imp.Seq,
			Source:      imp.Source,
			RecordCount: imp.RecordCount,
			Digest:      imp.Digest,
		})
	}
	fmt.Fprintf(f.Writer, "imported %d record(s) as %s (seq %d)\n", imp.RecordCount, imp.ID, imp.Seq)
	return nil
}
