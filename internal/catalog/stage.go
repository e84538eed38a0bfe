package catalog

import (
	"slices"
	"strings"

	"github.com/roach88/condsel/internal/condition"
	"github.com/roach88/condsel/internal/match"
)

// Stage names, as reported when a record is skipped.
const (
	StageBioproject = "bioproject"
	StageDimensions = "dimensions"
	StageControl    = "control"
	StageEntailment = "entailment"
)

// Stage is one filter of the selection pipeline.
type Stage struct {
	Name string
	Keep func(c *Candidate) (bool, error)
}

// Pipeline is an ordered list of stages evaluated with short-circuit.
type Pipeline []Stage

// Evaluate runs c through the stages in order. When a stage rejects c, its
// name is returned as rejectedBy. An error aborts evaluation.
func (p Pipeline) Evaluate(c *Candidate) (kept bool, rejectedBy string, err error) {
	for _, stage := range p {
		ok, err := stage.Keep(c)
		if err != nil {
			return false, stage.Name, err
		}
		if !ok {
			return false, stage.Name, nil
		}
	}
	return true, "", nil
}

// BioprojectStage keeps records of the given bioproject.
func BioprojectStage(bioproject string) Stage {
	return Stage{
		Name: StageBioproject,
		Keep: func(c *Candidate) (bool, error) {
			return c.Bioproject == bioproject, nil
		},
	}
}

// DimensionStage compares the keys constrained by query with the dimensions
// a record varies. The covariate is removed from both sides, so a query may
// or may not mention it.
//
// With exact set, the two key sets must be equal (selection). Otherwise the
// query keys only need to be a subset of the record's (suggestion, where the
// query is still being built).
func DimensionStage(query condition.Formula, exact bool) Stage {
	queryKeys := condition.LeafKeys(query)

	return Stage{
		Name: StageDimensions,
		Keep: func(c *Candidate) (bool, error) {
			varied := c.Varied()

			wanted := 0
			for key := range queryKeys {
				if key == c.Covariate {
					continue
				}
				if _, found := slices.BinarySearch(varied, key); !found {
					return false, nil
				}
				wanted++
			}
			if exact {
				return wanted == len(varied), nil
			}
			return true, nil
		},
	}
}

// ControlLevel identifies the baseline value of a covariate.
type ControlLevel struct {
	Value  string
	Prefix bool // match any value starting with Value
}

// DefaultControlLevel is the literal "control" level.
var DefaultControlLevel = ControlLevel{Value: "control"}

// Matches reports whether an unquoted clause value is the control level.
func (l ControlLevel) Matches(value string) bool {
	if l.Prefix {
		return strings.HasPrefix(value, l.Value)
	}
	return value == l.Value
}

// ControlStage keeps records whose condition assigns the control level to
// the covariate in at least one clause.
func ControlStage(level ControlLevel) Stage {
	return Stage{
		Name: StageControl,
		Keep: func(c *Candidate) (bool, error) {
			leaves, err := c.Leaves()
			if err != nil {
				return false, err
			}
			for _, leaf := range leaves {
				if leaf.Key() == c.Covariate && leaf.Operator() == condition.OpEq && level.Matches(leaf.Value()) {
					return true, nil
				}
			}
			return false, nil
		},
	}
}

// EntailmentStage keeps records whose condition is compatible with query.
func EntailmentStage(m *match.Matcher, query condition.Formula) Stage {
	return Stage{
		Name: StageEntailment,
		Keep: func(c *Candidate) (bool, error) {
			f, err := c.Formula()
			if err != nil {
				return false, err
			}
			return m.Entails(f, query)
		},
	}
}
