// Package catalog reads the combination catalog and filters it against a
// user query.
//
// A catalog is a tab-separated file, one combination per line:
//
//	combination_id	bioproject	condition	covariate	dimensions
//
// where dimensions is a |-joined list of dimension keys and condition is a
// formula in the language of package condition.
//
// Records flow through an ordered pipeline of stages, cheapest first:
// bioproject, dimension set, control inclusion, entailment. The first stage
// that rejects a record ends its evaluation. Conditions are parsed lazily, so
// records rejected on dimensions never pay for a parse.
//
// Two modes consume the survivors. Selection returns the matching records,
// whose Line reproduces the catalog text unchanged. Suggestion tallies the
// survivors' clauses into the options offered as the next query criterion.
package catalog
