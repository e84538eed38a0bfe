package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/condsel/internal/catalog"
	"github.com/roach88/condsel/internal/condition"
)

// SelectOptions holds flags for the select command.
type SelectOptions struct {
	*RootOptions
	Source     SourceOptions
	Bioproject string
}

// RecordResult is the JSON form of a selected combination.
type RecordResult struct {
	CombinationID string   `json:"combination_id"`
	Bioproject    string   `json:"bioproject"`
	Condition     string   `json:"condition"`
	Covariate     string   `json:"covariate"`
	Dimensions    []string `json:"dimensions"`
	LineNo        int      `json:"line_no"`
	Line          string   `json:"line"`
}

func newRecordResult(rec catalog.Record) RecordResult {
	return RecordResult{
		CombinationID: rec.CombinationID,
		Bioproject:    rec.Bioproject,
		Condition:     rec.Condition,
		Covariate:     rec.Covariate,
		Dimensions:    rec.Dimensions,
		LineNo:        rec.LineNo,
		Line:          rec.Line,
	}
}

// NewSelectCommand creates the select command.
func NewSelectCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SelectOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "select <query>",
		Short: "Select combinations comparable with a query",
		Long: `Select the catalog combinations comparable with a query.

A combination is selected when it varies exactly the dimensions the query
constrains (its covariate aside), assigns the control level to its
covariate, and its condition stays compatible with the query.

Selected catalog lines are printed unchanged, in catalog order.

Exit codes:
  0 - At least one combination selected
  1 - Nothing selected, or the catalog is malformed
  2 - Command error (malformed query, unreadable catalog, etc.)

Examples:
  condsel select --catalog combos.tsv 'Region=="hipp" & Stress.protocol=="30_min_RS"'
  condsel select --db catalog.db --bioproject PRJNA1 'Region=="hipp"'`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSelect(cmd, opts, args[0])
		},
	}

	opts.Source.register(cmd)
	cmd.Flags().StringVar(&opts.Bioproject, "bioproject", "", "restrict to one bioproject")

	return cmd
}

func runSelect(cmd *cobra.Command, opts *SelectOptions, queryText string) error {
	ctx := cmd.Context()
	f := opts.formatter(cmd)

	query, err := catalog.ParseQuery(queryText)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeMalformedQuery, err)
	}

	selOpts, err := opts.selectorOptions(cmd, opts.Bioproject)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeConfig, err)
	}
	records, err := openRecords(ctx, opts.RootOptions, f, opts.Source, selOpts.Bioproject)
	if err != nil {
		return err
	}

	selected, err := catalog.NewSelector(selOpts).Select(ctx, records, query)
	if err != nil {
		return failCatalog(f, err)
	}
	f.VerboseLog("%d combination(s) selected", len(selected))

	if len(selected) == 0 {
		return f.Fail(ExitFailure, ErrCodeNoMatch, errors.New("no comparable combinations"))
	}

	if f.JSON() {
		results := make([]RecordResult, len(selected))
		for i, rec := range selected {
			results[i] = newRecordResult(rec)
		}
		return f.Success(map[string]any{"count": len(results), "records": results})
	}
	for _, rec := range selected {
		fmt.Fprintln(f.Writer, rec.Line)
	}
	return nil
}

// failCatalog reports an error raised while evaluating catalog records.
// Malformed records and conditions fail the run (exit 1); anything else is
// a command error.
func failCatalog(f *OutputFormatter, err error) error {
	var condErr *catalog.ConditionError
	switch {
	case errors.Is(err, catalog.ErrMalformedRecord), errors.As(err, &condErr):
		return f.Fail(ExitFailure, ErrCodeMalformedCatalog, err)
	case errors.Is(err, condition.ErrMalformedClause), errors.Is(err, condition.ErrMalformedFormula):
		// A query clause the matcher cannot use (bad pattern, non-numeric bound).
		return f.Fail(ExitCommandError, ErrCodeMalformedQuery, err)
	default:
		return f.Fail(ExitCommandError, ErrCodeGeneric, err)
	}
}

// SuggestOptions holds flags for the suggest command.
type SuggestOptions struct {
	*RootOptions
	Source     SourceOptions
	Bioproject string
	Criteria   []string
}

// SuggestResult is the JSON payload of the suggest command.
type SuggestResult struct {
	Query     string               `json:"query,omitempty"`
	Survivors []string             `json:"survivors"`
	Options   []catalog.Suggestion `json:"options"`
}

// NewSuggestCommand creates the suggest command.
func NewSuggestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SuggestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Suggest the next query criterion",
		Long: `Suggest clauses that would narrow the comparable combinations.

Criteria chosen so far are passed with --criterion and combined with &.
Combinations are kept when they vary at least the constrained dimensions,
include the control level, and stay compatible with the criteria. Every ==
clause of the survivors that constrains a new key, is not the control level
and would not keep every survivor is offered, with the number of survivors
that contain it.

Examples:
  condsel suggest --catalog combos.tsv --bioproject PRJNA1
  condsel suggest --catalog combos.tsv --criterion 'Region=="hipp"'`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSuggest(cmd, opts)
		},
	}

	opts.Source.register(cmd)
	cmd.Flags().StringVar(&opts.Bioproject, "bioproject", "", "restrict to one bioproject")
	cmd.Flags().StringArrayVar(&opts.Criteria, "criterion", nil, "criterion chosen so far (repeatable)")

	return cmd
}

func runSuggest(cmd *cobra.Command, opts *SuggestOptions) error {
	ctx := cmd.Context()
	f := opts.formatter(cmd)

	queryText := condition.Conjunction(opts.Criteria...)
	query, err := catalog.ParseQuery(queryText)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeMalformedQuery, err)
	}

	selOpts, err := opts.selectorOptions(cmd, opts.Bioproject)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeConfig, err)
	}
	records, err := openRecords(ctx, opts.RootOptions, f, opts.Source, selOpts.Bioproject)
	if err != nil {
		return err
	}

	suggestions, err := catalog.NewSelector(selOpts).Suggest(ctx, records, query)
	if err != nil {
		return failCatalog(f, err)
	}

	if f.JSON() {
		result := SuggestResult{
			Query:     queryText,
			Survivors: make([]string, len(suggestions.Survivors)),
			Options:   suggestions.Options,
		}
		for i, rec := range suggestions.Survivors {
			result.Survivors[i] = rec.CombinationID
		}
		if result.Options == nil {
			result.Options = []catalog.Suggestion{}
		}
		return f.Success(result)
	}

	w := f.Writer
	fmt.Fprintf(w, "%d comparable combination(s)\n", len(suggestions.Survivors))
	for _, opt := range suggestions.Options {
		fmt.Fprintf(w, "%s\t%d\n", opt.Clause, opt.Count)
	}
	return nil
}
