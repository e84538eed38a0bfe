package catalog

import (
	"context"
	"fmt"
)

// Mode selects what SelectCombinations produces.
type Mode string

const (
	// ModeSelect returns the compatible records.
	ModeSelect Mode = "select"

	// ModeSuggest returns the options for the next query criterion.
	ModeSuggest Mode = "suggest"
)

// Result is the outcome of SelectCombinations. Options is only set in
// ModeSuggest.
type Result struct {
	Mode    Mode
	Records []Record
	Options []Suggestion
}

// SelectCombinations filters the catalog file at path against queryText.
// Blank queryText means no query.
func SelectCombinations(ctx context.Context, path, queryText string, mode Mode, opts Options) (Result, error) {
	query, err := ParseQuery(queryText)
	if err != nil {
		return Result{}, err
	}

	s := NewSelector(opts)
	records := Open(path)

	switch mode {
	case ModeSelect, "":
		selected, err := s.Select(ctx, records, query)
		if err != nil {
			return Result{}, err
		}
		return Result{Mode: ModeSelect, Records: selected}, nil
	case ModeSuggest:
		suggestions, err := s.Suggest(ctx, records, query)
		if err != nil {
			return Result{}, err
		}
		return Result{Mode: ModeSuggest, Records: suggestions.Survivors, Options: suggestions.Options}, nil
	default:
		return Result{}, fmt.Errorf("unknown selection mode %q", mode)
	}
}
