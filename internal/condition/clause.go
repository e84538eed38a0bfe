package condition

import "strings"

// Operator is a clause comparison operator.
type Operator string

const (
	OpEq Operator = "=="
	OpNe Operator = "!="
	OpLe Operator = "<="
	OpLt Operator = "<"
	OpGe Operator = ">="
	OpGt Operator = ">"
)

// operators is the detection order used by GetOperator.
// Two-character operators come before their one-character prefixes so that
// x<=5 is read as <= and never as <.
var operators = []Operator{OpEq, OpNe, OpLe, OpLt, OpGe, OpGt}

// IsOrdering reports whether op compares numerically.
func (op Operator) IsOrdering() bool {
	switch op {
	case OpLe, OpLt, OpGe, OpGt:
		return true
	}
	return false
}

// GetOperator returns the first operator, in detection order, that occurs
// anywhere in text. The second result is false when none occurs.
func GetOperator(text string) (Operator, bool) {
	for _, op := range operators {
		if strings.Contains(text, string(op)) {
			return op, true
		}
	}
	return "", false
}

// Clause is a leaf predicate "key OP value".
//
// A Clause keeps its source text; key, operator and value are derived from it
// once at construction and never change.
type Clause struct {
	text     string
	key      string
	operator Operator
	rawValue string
}

// NewClause builds a Clause from its source text.
//
// The text is split at the first occurrence of its operator. Key and value
// are trimmed of surrounding whitespace. Returns *MalformedClauseError when
// no operator is present or the key is empty.
func NewClause(text string) (Clause, error) {
	text = strings.TrimSpace(text)

	op, ok := GetOperator(text)
	if !ok {
		return Clause{}, &MalformedClauseError{Text: text, Message: "no operator found"}
	}

	key, value, _ := strings.Cut(text, string(op))
	key = strings.TrimSpace(key)
	if key == "" {
		return Clause{}, &MalformedClauseError{Text: text, Message: "empty key"}
	}

	return Clause{
		text:     text,
		key:      key,
		operator: op,
		rawValue: strings.TrimSpace(value),
	}, nil
}

// MustClause is NewClause for literals known to be valid. It panics otherwise.
func MustClause(text string) Clause {
	c, err := NewClause(text)
	if err != nil {
		panic(err)
	}
	return c
}

func (Clause) formulaNode() {}

// Text returns the clause source text.
func (c Clause) Text() string { return c.text }

// Key returns the dimension the clause constrains.
func (c Clause) Key() string { return c.key }

// Operator returns the comparison operator.
func (c Clause) Operator() Operator { return c.operator }

// RawValue returns the value as written, quotes included.
func (c Clause) RawValue() string { return c.rawValue }

// Value returns the value with every double quote removed.
func (c Clause) Value() string { return Unquote(c.rawValue) }

// String returns the clause source text.
func (c Clause) String() string { return c.text }

// Unquote removes every double quote character from s.
func Unquote(s string) string {
	return strings.ReplaceAll(s, `"`, "")
}
