package catalog

import (
	"iter"
	"maps"
	"slices"
)

// DimensionOption lists the values a dimension takes across the catalog.
type DimensionOption struct {
	Key    string   `json:"key"`
	Values []string `json:"values"`
}

// DimensionOptions lists every dimension key in the catalog, except those in
// exclude, with the sorted set of unquoted values its clauses assign.
// Dimensions no clause assigns a value to are omitted. Keys are sorted.
func DimensionOptions(records iter.Seq2[Record, error], exclude ...string) ([]DimensionOption, error) {
	values := map[string]map[string]struct{}{}

	for rec, err := range records {
		if err != nil {
			return nil, err
		}
		for _, dim := range rec.Dimensions {
			if slices.Contains(exclude, dim) {
				continue
			}
			if values[dim] == nil {
				values[dim] = map[string]struct{}{}
			}
		}

		leaves, err := NewCandidate(rec).Leaves()
		if err != nil {
			return nil, err
		}
		for _, leaf := range leaves {
			if set, ok := values[leaf.Key()]; ok {
				set[leaf.Value()] = struct{}{}
			}
		}
	}

	var options []DimensionOption
	for _, key := range slices.Sorted(maps.Keys(values)) {
		if len(values[key]) == 0 {
			continue
		}
		options = append(options, DimensionOption{
			Key:    key,
			Values: slices.Sorted(maps.Keys(values[key])),
		})
	}
	return options, nil
}
