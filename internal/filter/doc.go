// Package filter provides the predicate algebra used to query every record
// table (genes, alleles, phenotypes, allele expressions, strains, tasks).
//
// A filter expression is an AND of OR-groups:
//
//	(p1 OR p2 OR ...) AND (p3 OR ...) AND ...
//
// plus an ordered list of sort keys and optional paging.
//
// FIELDS:
//
// The algebra is generic over a Field type. Each entity declares its own
// closed enumeration (an int type with an iota const block) whose Column
// method maps every variant to its physical column with an exhaustive switch.
// Column names therefore never come from callers; the only fallible step is
// parsing an external name into a Field, which happens at the wire boundary
// (see Resolve).
//
// SEALED PREDICATES:
//
// Predicate is a sealed interface using the marker method pattern. Only the
// kinds declared in this package implement it, so backends can switch on
// the concrete type exhaustively:
//
//	switch p := pred.(type) {
//	case Range:
//	case LessThan, GreaterThan:
//	case Equal, NotEqual, Like:
//	case IsNull, NotNull, IsTrue, IsFalse:
//	}
//
// All comparison operands are carried as text. Backends bind them as
// parameters and never interpolate them. No type inspection happens here;
// callers must format numbers and booleans to match the column affinity.
//
// WIRE SHAPE:
//
// Document is the external (YAML or JSON) form of an expression. It is
// decoded by ParseDocument, checked against an embedded JSON Schema, and
// turned into a typed Expr by Resolve.
package filter
