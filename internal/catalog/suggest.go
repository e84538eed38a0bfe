package catalog

import (
	"context"
	"iter"
	"slices"
	"strings"

	"github.com/roach88/condsel/internal/condition"
)

// minSurvivorsForOptions is the smallest survivor set worth refining. With a
// single survivor every clause is ubiquitous.
const minSurvivorsForOptions = 2

// Suggestion is one candidate next criterion.
type Suggestion struct {
	Clause string `json:"clause"`
	Key    string `json:"key"`
	Count  int    `json:"count"` // survivors whose condition contains the clause
}

// Suggestions is the result of suggestion mode.
type Suggestions struct {
	Survivors []Record
	Options   []Suggestion
}

// Suggest collects the clauses of every record compatible with query and
// offers the ones that would narrow the survivor set.
//
// A clause is offered unless its key is already constrained by query, its
// value is a control level (prefix match unless ExactSuggestControl), or it
// appears in every survivor. Each survivor counts a clause once. Options are
// sorted by clause text. Fewer than two survivors yield no options.
func (s *Selector) Suggest(ctx context.Context, records iter.Seq2[Record, error], query condition.Formula) (Suggestions, error) {
	survivors, err := s.filter(ctx, records, s.Pipeline(query, false))
	if err != nil {
		return Suggestions{}, err
	}

	result := Suggestions{Survivors: make([]Record, len(survivors))}
	for i, c := range survivors {
		result.Survivors[i] = c.Record
	}
	if len(survivors) < minSurvivorsForOptions {
		return result, nil
	}

	constrained := map[string]struct{}{}
	if query != nil {
		constrained = condition.LeafKeys(query)
	}

	tally := map[string]*Suggestion{}
	for _, c := range survivors {
		leaves, err := c.Leaves()
		if err != nil {
			return Suggestions{}, err
		}

		seen := map[string]struct{}{}
		for _, leaf := range leaves {
			if leaf.Operator() != condition.OpEq || s.suggestControl.Matches(leaf.Value()) {
				continue
			}
			if _, ok := constrained[leaf.Key()]; ok {
				continue
			}
			text := leaf.Text()
			if _, ok := seen[text]; ok {
				continue
			}
			seen[text] = struct{}{}

			if tally[text] == nil {
				tally[text] = &Suggestion{Clause: text, Key: leaf.Key()}
			}
			tally[text].Count++
		}
	}

	for _, sugg := range tally {
		if sugg.Count == len(survivors) {
			continue
		}
		result.Options = append(result.Options, *sugg)
	}
	slices.SortFunc(result.Options, func(a, b Suggestion) int {
		return strings.Compare(a.Clause, b.Clause)
	})
	return result, nil
}
