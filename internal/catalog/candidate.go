package catalog

import (
	"sync"

	"github.com/roach88/condsel/internal/condition"
)

// Candidate is a record under evaluation. Its condition is parsed on first
// use and at most once.
type Candidate struct {
	Record

	formula func() (condition.Formula, error)
}

// NewCandidate wraps rec for evaluation.
func NewCandidate(rec Record) *Candidate {
	c := &Candidate{Record: rec}
	c.formula = sync.OnceValues(func() (condition.Formula, error) {
		f, err := condition.Parse(rec.Condition)
		if err != nil {
			return nil, &ConditionError{CombinationID: rec.CombinationID, LineNo: rec.LineNo, Err: err}
		}
		return f, nil
	})
	return c
}

// Formula returns the parsed condition.
func (c *Candidate) Formula() (condition.Formula, error) {
	return c.formula()
}

// Leaves returns the condition's clauses left to right.
func (c *Candidate) Leaves() ([]condition.Clause, error) {
	f, err := c.Formula()
	if err != nil {
		return nil, err
	}
	return condition.Leaves(f), nil
}
