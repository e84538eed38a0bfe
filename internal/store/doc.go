// Package store provides SQLite-backed storage for the combination catalog.
//
// A catalog is loaded in import batches:
//   - Imports: one row per load, identified by a UUIDv7 and ordered by seq
//   - Combinations: one row per catalog line, keeping the original text
//
// Every combination row also stores its dimension signature (the sorted
// dimensions other than the covariate, joined by "|"), so selection can push
// the exact dimension filter into SQL.
//
// # Critical Patterns
//
// Deterministic Query Results
//   - All reads go through queryir/querysql, which always emits ORDER BY
//   - Records come back in catalog line order
//
// Logical Ordering
//   - Imports are ordered by seq INTEGER, never timestamps
//   - The latest import is the one with the highest seq
//
// Byte-for-byte Lines
//   - Records are rebuilt from the stored line, so a record read from the
//     store is identical to the one read from the file
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
