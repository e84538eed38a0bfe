package harness

import (
	"context"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/roach88/condsel/internal/catalog"
	"github.com/roach88/condsel/internal/condition"
	"github.com/roach88/condsel/internal/match"
	"github.com/roach88/condsel/internal/store"
	"github.com/roach88/condsel/internal/testutil"
)

// Harness executes the cases of one scenario.
type Harness struct {
	scenario *Scenario
	opts     catalog.Options
	store    *store.Store // nil unless Settings.Store
	logger   *slog.Logger
}

// Run executes a scenario and returns the result.
//
// A scenario that cannot run at all (invalid settings, a catalog the store
// rejects) returns an error. Case failures are reported in the Result.
//
// With Settings.Store the catalog is imported into a fresh in-memory
// database with sequential import IDs, and every case reads its records
// back from it.
func Run(scenario *Scenario) (*Result, error) {
	return RunContext(context.Background(), scenario)
}

// RunContext is Run with a caller supplied context.
func RunContext(ctx context.Context, scenario *Scenario) (*Result, error) {
	mode, err := match.ParseMode(scenario.Settings.Match)
	if err != nil {
		return nil, fmt.Errorf("settings: %w", err)
	}

	h := &Harness{
		scenario: scenario,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)), // Suppress logs in tests
	}
	h.opts = catalog.Options{
		Control: catalog.ControlLevel{
			Value:  scenario.Settings.Control,
			Prefix: scenario.Settings.ControlPrefix,
		},
		Matcher: match.NewMatcher(mode),
		Logger:  h.logger,
	}

	if scenario.Settings.Store {
		st, err := store.Open(":memory:", store.WithIDGenerator(testutil.NewSequenceGenerator("import")))
		if err != nil {
			return nil, fmt.Errorf("failed to create in-memory store: %w", err)
		}
		defer st.Close()

		if _, err := st.Import(ctx, scenario.Name, h.catalogRecords()); err != nil {
			return nil, fmt.Errorf("failed to import catalog: %w", err)
		}
		h.store = st
	}

	result := NewResult()
	for _, c := range scenario.Cases {
		outcome := h.runCase(ctx, c)
		for _, msg := range checkExpect(c.Expect, outcome) {
			result.AddErrorf("case %q: %s", c.Name, msg)
		}
		result.Outcomes = append(result.Outcomes, outcome)

		h.logger.Info("case completed", "scenario", scenario.Name, "case", c.Name, "mode", c.Mode)
	}
	return result, nil
}

// catalogRecords renders the scenario catalog and reads it back through the
// catalog reader.
func (h *Harness) catalogRecords() iter.Seq2[catalog.Record, error] {
	lines := make([]string, len(h.scenario.Catalog))
	for i, e := range h.scenario.Catalog {
		lines[i] = e.Line()
	}
	return catalog.Read(strings.NewReader(strings.Join(lines, "\n")))
}

// records returns the catalog for one case. Store-backed scenarios push the
// bioproject filter into the query.
func (h *Harness) records(ctx context.Context, bioproject string) iter.Seq2[catalog.Record, error] {
	if h.store == nil {
		return h.catalogRecords()
	}
	return func(yield func(catalog.Record, error) bool) {
		recs, err := h.store.Records(ctx, store.RecordQuery{Bioproject: bioproject})
		if err != nil {
			yield(catalog.Record{}, err)
			return
		}
		for _, rec := range recs {
			if !yield(rec, nil) {
				return
			}
		}
	}
}

func (h *Harness) runCase(ctx context.Context, c Case) Outcome {
	outcome := Outcome{Name: c.Name, Mode: c.Mode}
	var err error

	switch c.Mode {
	case ModeParse:
		err = runParse(c, &outcome)
	case ModeSelect:
		err = h.runSelect(ctx, c, &outcome)
	case ModeSuggest:
		err = h.runSuggest(ctx, c, &outcome)
	case ModeOptions:
		outcome.Dimensions, err = catalog.DimensionOptions(h.records(ctx, ""), c.Exclude...)
	default:
		err = fmt.Errorf("unknown mode %q", c.Mode)
	}

	if err != nil {
		outcome.Error = err.Error()
	}
	return outcome
}

func runParse(c Case, outcome *Outcome) error {
	f, err := condition.Parse(c.Query)
	if err != nil {
		return err
	}
	outcome.Canonical = f.String()
	outcome.Length = condition.Length(f)
	outcome.Tree = condition.Tree(f)
	return nil
}

func (h *Harness) runSelect(ctx context.Context, c Case, outcome *Outcome) error {
	query, err := catalog.ParseQuery(c.Query)
	if err != nil {
		return err
	}
	recs, err := h.selectorFor(c).Select(ctx, h.records(ctx, c.Bioproject), query)
	if err != nil {
		return err
	}
	outcome.Selected = combinationIDs(recs)
	return nil
}

func (h *Harness) runSuggest(ctx context.Context, c Case, outcome *Outcome) error {
	query, err := catalog.ParseQuery(c.Query)
	if err != nil {
		return err
	}
	s, err := h.selectorFor(c).Suggest(ctx, h.records(ctx, c.Bioproject), query)
	if err != nil {
		return err
	}
	outcome.Selected = combinationIDs(s.Survivors)
	outcome.Options = s.Options
	return nil
}

func (h *Harness) selectorFor(c Case) *catalog.Selector {
	opts := h.opts
	opts.Bioproject = c.Bioproject
	return catalog.NewSelector(opts)
}

func combinationIDs(recs []catalog.Record) []string {
	ids := make([]string, len(recs))
	for i, r := range recs {
		ids[i] = r.CombinationID
	}
	return ids
}

// checkExpect compares an outcome with the expectations its case names and
// returns one message per mismatch.
func checkExpect(exp Expect, got Outcome) []string {
	var errs []string

	if exp.Error != "" {
		if !strings.Contains(got.Error, exp.Error) {
			errs = append(errs, fmt.Sprintf("expected error containing %q, got %q", exp.Error, got.Error))
		}
	} else if got.Error != "" {
		errs = append(errs, fmt.Sprintf("unexpected error: %s", got.Error))
	}

	if exp.Selected != nil && !slices.Equal(exp.Selected, got.Selected) {
		errs = append(errs, fmt.Sprintf("selected: expected %v, got %v", exp.Selected, got.Selected))
	}

	if exp.Options != nil {
		clauses := make([]string, len(got.Options))
		for i, o := range got.Options {
			clauses[i] = o.Clause
		}
		if !slices.Equal(exp.Options, clauses) {
			errs = append(errs, fmt.Sprintf("options: expected %v, got %v", exp.Options, clauses))
		}
	}

	if exp.Survivors != nil && *exp.Survivors != len(got.Selected) {
		errs = append(errs, fmt.Sprintf("survivors: expected %d, got %d", *exp.Survivors, len(got.Selected)))
	}

	if exp.Canonical != "" && exp.Canonical != got.Canonical {
		errs = append(errs, fmt.Sprintf("canonical: expected %q, got %q", exp.Canonical, got.Canonical))
	}
	if exp.Length != 0 && exp.Length != got.Length {
		errs = append(errs, fmt.Sprintf("length: expected %d, got %d", exp.Length, got.Length))
	}
	if exp.Tree != "" && strings.TrimRight(exp.Tree, "\n") != got.Tree {
		errs = append(errs, fmt.Sprintf("tree: expected %q, got %q", exp.Tree, got.Tree))
	}

	if exp.Dimensions != nil {
		gotDims := make(map[string][]string, len(got.Dimensions))
		for _, d := range got.Dimensions {
			gotDims[d.Key] = d.Values
		}
		if !maps.EqualFunc(exp.Dimensions, gotDims, func(a, b []string) bool { return slices.Equal(a, b) }) {
			errs = append(errs, fmt.Sprintf("dimensions: expected %v, got %v", exp.Dimensions, gotDims))
		}
	}

	return errs
}
