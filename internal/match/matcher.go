package match

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/condsel/internal/condition"
)

// Mode selects how == and != compare values.
type Mode string

const (
	// ModeLiteral compares unquoted values for exact equality. A test value
	// written as /pattern/ is matched as a start-anchored regular expression.
	ModeLiteral Mode = "literal"

	// ModeRegex always treats the test value as a start-anchored regular
	// expression. Matches how existing catalog data was filtered historically.
	ModeRegex Mode = "regex"
)

// ParseMode converts a configuration string to a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeLiteral, ModeRegex:
		return Mode(s), nil
	case "":
		return ModeLiteral, nil
	default:
		return "", fmt.Errorf("invalid match mode %q: must be %q or %q", s, ModeLiteral, ModeRegex)
	}
}

// Matcher evaluates clause and formula compatibility.
// A Matcher is safe for concurrent use.
type Matcher struct {
	mode     Mode
	patterns *patternCache
}

// NewMatcher creates a Matcher. An empty mode means ModeLiteral.
func NewMatcher(mode Mode) *Matcher {
	if mode == "" {
		mode = ModeLiteral
	}
	return &Matcher{
		mode:     mode,
		patterns: newPatternCache(),
	}
}

// Mode returns the equality mode of the matcher.
func (m *Matcher) Mode() Mode {
	return m.mode
}

var defaultMatcher = NewMatcher(ModeLiteral)

// Satisfies is Matcher.Satisfies on a literal-mode matcher.
func Satisfies(subject, test condition.Clause) (bool, error) {
	return defaultMatcher.Satisfies(subject, test)
}

// Entails is Matcher.Entails on a literal-mode matcher.
func Entails(candidate, query condition.Formula) (bool, error) {
	return defaultMatcher.Entails(candidate, query)
}

// Satisfies reports whether the subject clause (from a catalog condition) is
// compatible with the test clause (from a query).
//
// Clauses about different keys are vacuously compatible. Otherwise:
//   - == is true when the subject value matches the test value
//   - != is true when it does not
//   - < <= > >= compare both values as numbers; a non-numeric subject value
//     is simply not satisfied
//
// Returns *condition.MalformedClauseError when the test value cannot be used
// with its operator (non-numeric bound, invalid pattern).
func (m *Matcher) Satisfies(subject, test condition.Clause) (bool, error) {
	if subject.Key() != test.Key() {
		return true, nil
	}

	// Catalog clauses assign values with ==. Anything else is only
	// compatible with an identical constraint.
	if subject.Operator() != condition.OpEq {
		return subject.Operator() == test.Operator() && subject.Value() == test.Value(), nil
	}

	value := subject.Value()
	switch op := test.Operator(); op {
	case condition.OpEq:
		return m.equal(value, test)
	case condition.OpNe:
		eq, err := m.equal(value, test)
		return !eq, err
	case condition.OpLt, condition.OpLe, condition.OpGt, condition.OpGe:
		return compareNumbers(value, op, test)
	default:
		return false, &condition.MalformedClauseError{Text: test.Text(), Message: fmt.Sprintf("unsupported operator %q", op)}
	}
}

// equal applies the matcher's == semantics to a subject value.
func (m *Matcher) equal(value string, test condition.Clause) (bool, error) {
	expected := test.Value()

	pattern, isPattern := "", false
	switch {
	case m.mode == ModeRegex:
		pattern, isPattern = expected, true
	case len(expected) >= 2 && strings.HasPrefix(expected, "/") && strings.HasSuffix(expected, "/"):
		pattern, isPattern = expected[1:len(expected)-1], true
	}

	if !isPattern {
		return value == expected, nil
	}

	re, err := m.patterns.compile(pattern)
	if err != nil {
		return false, &condition.MalformedClauseError{Text: test.Text(), Message: fmt.Sprintf("invalid pattern: %v", err)}
	}
	return re.MatchString(value), nil
}

func compareNumbers(value string, op condition.Operator, test condition.Clause) (bool, error) {
	bound, err := strconv.ParseFloat(strings.TrimSpace(test.Value()), 64)
	if err != nil {
		return false, &condition.MalformedClauseError{Text: test.Text(), Message: "ordering comparison needs a numeric value"}
	}

	actual, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		// Non-numeric subject (e.g. "control") never satisfies an ordering.
		return false, nil
	}

	switch op {
	case condition.OpLt:
		return actual < bound, nil
	case condition.OpLe:
		return actual <= bound, nil
	case condition.OpGt:
		return actual > bound, nil
	default:
		return actual >= bound, nil
	}
}

// Entails reports whether candidate (a catalog condition) remains compatible
// with query.
//
// For a binary candidate: compatible when both operands are independently
// compatible with the whole query; failing that, when the query has the same
// top operator, when the operands match the query's operands pairwise in
// either order.
//
// For a clause candidate: an AND query needs both operands satisfied, an OR
// query at least one; a clause query is decided by Satisfies.
//
// The relation is asymmetric: Entails(a, b) says nothing about Entails(b, a).
func (m *Matcher) Entails(candidate, query condition.Formula) (bool, error) {
	switch c := candidate.(type) {
	case condition.Binary:
		return m.entailsBinary(c, query)
	case condition.Clause:
		return m.entailsClause(c, query)
	default:
		return false, &TypeMismatchError{Role: "candidate", Node: candidate}
	}
}

func (m *Matcher) entailsBinary(c condition.Binary, query condition.Formula) (bool, error) {
	ok, err := m.both(c.Left, query, c.Right, query)
	if err != nil || ok {
		return ok, err
	}

	q, isBinary := query.(condition.Binary)
	if !isBinary || q.Op != c.Op {
		return false, nil
	}

	// Operands commute: try left↔left/right↔right, then left↔right/right↔left.
	ok, err = m.both(c.Left, q.Left, c.Right, q.Right)
	if err != nil || ok {
		return ok, err
	}
	return m.both(c.Right, q.Left, c.Left, q.Right)
}

func (m *Matcher) entailsClause(c condition.Clause, query condition.Formula) (bool, error) {
	switch q := query.(type) {
	case condition.Clause:
		return m.Satisfies(c, q)
	case condition.Binary:
		left, err := m.entailsClause(c, q.Left)
		if err != nil {
			return false, err
		}
		if q.Op == condition.OpOr && left {
			return true, nil
		}
		if q.Op == condition.OpAnd && !left {
			return false, nil
		}
		return m.entailsClause(c, q.Right)
	default:
		return false, &TypeMismatchError{Role: "query", Node: query}
	}
}

// both reports Entails(c1, q1) && Entails(c2, q2), short-circuiting.
func (m *Matcher) both(c1, q1, c2, q2 condition.Formula) (bool, error) {
	ok, err := m.Entails(c1, q1)
	if err != nil || !ok {
		return false, err
	}
	return m.Entails(c2, q2)
}
