// Package condition implements the condition-formula language used by the
// combination catalog.
//
// A condition is a boolean expression over categorical clauses:
//
//	(Region=="hipp") & (Stress.protocol=="control" | Stress.protocol=="30_min_RS")
//
// The package provides four layers, leaf first:
//   - Tokenize: splits raw text into clause bodies and the structural tokens ( ) & |
//   - Clause: a leaf predicate key OP value, derived from its source text
//   - Formula: a sealed binary tree of Clause and Binary (And / Or) nodes
//   - Parse: recursive descent from tokens to a Formula
//
// Binary operators have no precedence table. At each nesting level they fold
// strictly left to right, so A & B | C parses as (A & B) | C. Parentheses are
// the only way to force a different grouping.
//
// # Extension point
//
// The language has no negation. A future Not node would implement Formula and
// must be added to every exhaustive type switch over Formula: String, Length,
// Leaves, Tree, the parser, and match.Matcher.Entails.
//
// All values are immutable once built; the package holds no state.
package condition
