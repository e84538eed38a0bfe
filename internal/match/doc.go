// Package match decides whether a catalog condition is compatible with a
// user query.
//
// Satisfies compares one leaf clause with another. Entails lifts that to
// whole formulas: it is a one-directional "remains compatible with" relation,
// not logical equivalence. Clauses about different keys are always
// compatible, so a catalog condition is only ever rejected on the axes the
// query actually constrains.
package match
