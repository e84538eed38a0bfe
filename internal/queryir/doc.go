// Package queryir provides the query intermediate representation used to
// read the catalog store.
//
// The IR sits between the store's read API and the SQL backend:
//
//	[store.RecordQuery] → [Query IR] → [querysql] → SQLite
//
// It covers only what catalog reads need:
//   - Select(from, columns, filter, order) - table access with filtering
//   - Predicates: Equals, And
//   - Explicit column lists (no SELECT *)
//
// Excluded on purpose: joins, NULL comparisons, OR predicates, aggregations.
// A read that needs them belongs in a new IR node, not in raw SQL.
//
// SEALED INTERFACES:
//
// Query, Predicate and Value are sealed with marker methods. Only types in
// this package implement them, so backends can switch exhaustively:
//
//	switch q := query.(type) {
//	case Select, *Select:
//	    // Handle select
//	default:
//	    // Impossible - all Query types are known
//	}
//
// Values are Text or Int only. Catalog data is categorical text plus line
// numbers, and parameters must encode deterministically.
package queryir
