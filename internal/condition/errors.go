package condition

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedClause matches any *MalformedClauseError via errors.Is.
	ErrMalformedClause = errors.New("malformed clause")

	// ErrMalformedFormula matches any *MalformedFormulaError via errors.Is.
	ErrMalformedFormula = errors.New("malformed formula")
)

// MalformedClauseError is returned when a leaf token carries no recognized
// operator, or when a clause value cannot be used with its operator.
type MalformedClauseError struct {
	Text    string
	Message string
}

func (e *MalformedClauseError) Error() string {
	return fmt.Sprintf("malformed clause %q: %s", e.Text, e.Message)
}

// Is reports whether target is ErrMalformedClause.
func (e *MalformedClauseError) Is(target error) bool {
	return target == ErrMalformedClause
}

// MalformedFormulaError is returned when the token stream does not form a
// complete expression (unmatched parenthesis, dangling operator, ...).
type MalformedFormulaError struct {
	// Index is the token position where parsing failed.
	// Equal to the token count when input ended early.
	Index   int
	Token   string
	Message string
}

func (e *MalformedFormulaError) Error() string {
	if e.Token != "" {
		return fmt.Sprintf("malformed formula at token %d (%q): %s", e.Index, e.Token, e.Message)
	}
	return fmt.Sprintf("malformed formula at token %d: %s", e.Index, e.Message)
}

// Is reports whether target is ErrMalformedFormula.
func (e *MalformedFormulaError) Is(target error) bool {
	return target == ErrMalformedFormula
}
