package queryir

import (
	"fmt"
	"regexp"
)

// identifierPattern matches plain SQL identifiers. Table and column names are
// interpolated into SQL text, so anything else is rejected.
var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidationError reports a query that cannot be compiled.
type ValidationError struct {
	Path    string // location in the query, e.g. "filter.and[1].field"
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid query at %s: %s", e.Path, e.Message)
}

// Validate checks that a query only uses supported nodes, names plain
// identifiers and lists its columns explicitly.
//
// Validate is a pure function with no side effects.
func Validate(query Query) error {
	switch q := query.(type) {
	case Select:
		return validateSelect(q)
	case *Select:
		if q == nil {
			return &ValidationError{Path: "query", Message: "nil select"}
		}
		return validateSelect(*q)
	case nil:
		return &ValidationError{Path: "query", Message: "nil query"}
	default:
		return &ValidationError{Path: "query", Message: fmt.Sprintf("unknown query type %T", query)}
	}
}

func validateSelect(sel Select) error {
	if err := validateIdentifier("from", sel.From); err != nil {
		return err
	}

	// Explicit columns - no SELECT *
	if len(sel.Columns) == 0 {
		return &ValidationError{Path: "columns", Message: "at least one column is required"}
	}
	for i, col := range sel.Columns {
		if err := validateIdentifier(fmt.Sprintf("columns[%d]", i), col); err != nil {
			return err
		}
	}

	for i, col := range sel.OrderBy {
		if err := validateIdentifier(fmt.Sprintf("order_by[%d]", i), col); err != nil {
			return err
		}
	}

	if sel.Filter != nil {
		return validatePredicate("filter", sel.Filter)
	}
	return nil
}

func validatePredicate(path string, p Predicate) error {
	switch pred := p.(type) {
	case Equals:
		return validateEquals(path, pred)
	case *Equals:
		return validateEquals(path, *pred)
	case And:
		return validateAnd(path, pred)
	case *And:
		return validateAnd(path, *pred)
	default:
		return &ValidationError{Path: path, Message: fmt.Sprintf("unknown predicate type %T", p)}
	}
}

func validateEquals(path string, eq Equals) error {
	if err := validateIdentifier(path+".field", eq.Field); err != nil {
		return err
	}
	switch eq.Value.(type) {
	case Text, Int:
		return nil
	case nil:
		return &ValidationError{Path: path + ".value", Message: "NULL comparisons are not supported"}
	default:
		return &ValidationError{Path: path + ".value", Message: fmt.Sprintf("unknown value type %T", eq.Value)}
	}
}

func validateAnd(path string, and And) error {
	for i, sub := range and.Predicates {
		if err := validatePredicate(fmt.Sprintf("%s.and[%d]", path, i), sub); err != nil {
			return err
		}
	}
	return nil
}

func validateIdentifier(path, name string) error {
	if !identifierPattern.MatchString(name) {
		return &ValidationError{Path: path, Message: fmt.Sprintf("%q is not a valid identifier", name)}
	}
	return nil
}
