package harness

import (
	"fmt"

	"github.com/roach88/condsel/internal/catalog"
)

// Outcome records what one case produced. Only the fields the case's mode
// fills are set.
type Outcome struct {
	Name string `json:"name"`
	Mode string `json:"mode"`

	// Selected holds combination ids from select mode and survivor ids from
	// suggest mode, in catalog order.
	Selected []string `json:"selected,omitempty"`

	Options    []catalog.Suggestion      `json:"options,omitempty"`
	Dimensions []catalog.DimensionOption `json:"dimensions,omitempty"`

	Canonical string `json:"canonical,omitempty"`
	Length    int    `json:"length,omitempty"`
	Tree      string `json:"tree,omitempty"`

	Error string `json:"error,omitempty"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every case met its expectations.
	Pass bool `json:"pass"`

	// Outcomes holds one entry per case, in case order.
	Outcomes []Outcome `json:"outcomes"`

	// Errors contains expectation failures. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:     true,
		Outcomes: []Outcome{},
		Errors:   []string{},
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddErrorf is AddError with formatting.
func (r *Result) AddErrorf(format string, args ...any) {
	r.AddError(fmt.Sprintf(format, args...))
}
