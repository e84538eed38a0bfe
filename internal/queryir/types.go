package queryir

// Query represents an abstract read in the QueryIR.
//
// This is a sealed interface - only types in this package implement it.
//
// Query types:
//   - Select: table access with filtering and explicit columns
type Query interface {
	queryNode() // Marker method - seals interface to this package
}

// Predicate represents a filter condition in the QueryIR.
//
// This is a sealed interface - only types in this package implement it.
//
// Predicate types:
//   - Equals: field = literal value
//   - And: all predicates must be true
type Predicate interface {
	predicateNode() // Marker method - seals interface to this package
}

// Value is a literal compared against a column.
//
// This is a sealed interface - only Text and Int implement it.
type Value interface {
	valueNode() // Marker method - seals interface to this package
}

// Text is a string literal.
type Text string

func (Text) valueNode() {}

// Int is an integer literal.
type Int int64

func (Int) valueNode() {}

// Select represents a table access query with filtering.
//
// Semantics:
//
//	SELECT <columns> FROM <from> WHERE <filter> ORDER BY <order>
//
// Example:
//
//	Select{
//	  From:    "combinations",
//	  Columns: []string{"line_no", "line"},
//	  Filter: And{Predicates: []Predicate{
//	    Equals{Field: "bioproject", Value: Text("PRJ1")},
//	    Equals{Field: "signature", Value: Text("Region")},
//	  }},
//	  OrderBy: []string{"line_no"},
//	}
//
// Translates to SQL:
//
//	SELECT line_no, line FROM combinations
//	WHERE bioproject = ? AND signature = ?
//	ORDER BY line_no ASC COLLATE BINARY
//
// An empty OrderBy means the table's id column. Results are always ordered.
type Select struct {
	From    string    // Table name
	Columns []string  // Selected columns, in result order
	Filter  Predicate // WHERE conditions (nil = no filter)
	OrderBy []string  // Ascending sort columns (empty = id)
}

func (Select) queryNode() {}

// Equals represents a field-equals-literal predicate.
//
// Semantics:
//
//	<field> = <value>
//
// Example:
//
//	Equals{Field: "bioproject", Value: Text("PRJ1")}
//
// Translates to SQL:
//
//	bioproject = ?
type Equals struct {
	Field string // Column name in the queried table
	Value Value  // Literal value, always passed as a parameter
}

func (Equals) predicateNode() {}

// And represents a conjunction of predicates (all must be true).
//
// Semantics:
//
//	<predicate1> AND <predicate2> AND ... AND <predicateN>
//
// An empty Predicates slice is vacuously true.
type And struct {
	Predicates []Predicate // All must be true (empty = always true)
}

func (And) predicateNode() {}
