// Package store provides SQLite-backed storage for genes, alleles,
// phenotypes, allele expressions, strains and tasks.
//
// # Reads
//
// Every entity is exposed as a Repo whose Query and Count take a typed
// filter.Expr. Statements are compiled by package querysql; no caller
// string ever reaches the SQL text.
//
// # Writes
//
// Single rows go through Insert, Update and Delete. Delete requires a
// non-empty filter. Bulk imports load CSV/TSV with package bulk and insert
// every chunk inside one transaction, so a failing chunk leaves the table
// as it was.
//
// # Storage representation
//
// Booleans are INTEGER 0/1 and optional values are NULL. The conversions
// live in adapt.go and nowhere else.
//
// # Database configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout: wait for locks (5 seconds by default)
//   - foreign_keys=ON: enforce referential integrity
//
// Pragmas are passed in the DSN so every pooled connection gets them.
package store
