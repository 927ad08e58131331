package filter

// Field identifies a filterable, sortable column of one entity.
//
// Implementations are closed enumerations. Column must be total over the
// declared variants and must never return an empty string. Aliases (two
// variants mapping to one column) are allowed.
type Field interface {
	comparable
	Column() string
}

// Predicate is one atomic comparison applied to a single field.
//
// This is a sealed interface - only types in this package implement it.
//
// Predicate kinds and the number of values they bind:
//   - Range: 2
//   - LessThan, GreaterThan, Equal, NotEqual, Like: 1
//   - IsNull, NotNull, IsTrue, IsFalse: 0
type Predicate interface {
	predicateNode() // Marker method - seals interface to this package
}

// Range matches values between Lo and Hi.
//
// Semantics:
//
//	col >= lo AND col <= hi   (inclusive bounds)
//	col >  lo AND col <  hi   (exclusive bounds)
type Range struct {
	Lo          string
	LoInclusive bool
	Hi          string
	HiInclusive bool
}

func (Range) predicateNode() {}

// LessThan matches col < Value (col <= Value when Inclusive).
type LessThan struct {
	Value     string
	Inclusive bool
}

func (LessThan) predicateNode() {}

// GreaterThan matches col > Value (col >= Value when Inclusive).
type GreaterThan struct {
	Value     string
	Inclusive bool
}

func (GreaterThan) predicateNode() {}

// Equal matches col = Value.
type Equal struct {
	Value string
}

func (Equal) predicateNode() {}

// NotEqual matches col != Value. Like any SQL comparison it never matches
// NULL columns.
type NotEqual struct {
	Value string
}

func (NotEqual) predicateNode() {}

// Like is a contains match: Substr may appear anywhere in the value.
//
// It is not a glob: % and _ in Substr match themselves. Backends escape
// them and wrap the operand in %...% before binding, and case sensitivity
// follows the store's LIKE behaviour (ASCII case-insensitive in SQLite).
type Like struct {
	Substr string
}

func (Like) predicateNode() {}

// IsNull matches NULL columns.
type IsNull struct{}

func (IsNull) predicateNode() {}

// NotNull matches non-NULL columns.
type NotNull struct{}

func (NotNull) predicateNode() {}

// IsTrue matches boolean columns stored as 1.
type IsTrue struct{}

func (IsTrue) predicateNode() {}

// IsFalse matches boolean columns stored as 0.
type IsFalse struct{}

func (IsFalse) predicateNode() {}

// Clause pairs a field with the predicate applied to it.
type Clause[F Field] struct {
	Field F
	Pred  Predicate
}

// Where builds a Clause.
func Where[F Field](field F, pred Predicate) Clause[F] {
	return Clause[F]{Field: field, Pred: pred}
}

// Group is an OR-group: it matches rows satisfying any of its clauses.
// Groups are expected to be non-empty; an empty group matches nothing.
type Group[F Field] []Clause[F]

// Direction is a sort direction.
type Direction int

const (
	Asc Direction = iota
	Desc
)

// String returns the SQL keyword for the direction.
func (d Direction) String() string {
	if d == Desc {
		return "DESC"
	}
	return "ASC"
}

// Collation names the collating sequence applied to a sort key.
//
// The zero value is NoCase: string values sort ignoring ASCII case unless a
// caller asks otherwise.
type Collation int

const (
	NoCase Collation = iota
	Binary
	RTrim
)

// String returns the SQLite collation name.
func (c Collation) String() string {
	switch c {
	case Binary:
		return "BINARY"
	case RTrim:
		return "RTRIM"
	default:
		return "NOCASE"
	}
}

// Sort is one ORDER BY key. Ties on a key are broken by the next one.
type Sort[F Field] struct {
	Field     F
	Dir       Direction
	Collation Collation
}

// Expr is a complete filter expression.
//
// Semantics:
//
//	SELECT ... [WHERE g1 AND g2 ...] [ORDER BY s1, s2 ...] [LIMIT n] [OFFSET n]
//
// No groups means "match all rows". No sort keys leaves the order to the
// store. A nil Limit or Offset means unbounded.
type Expr[F Field] struct {
	Groups []Group[F]
	Order  []Sort[F]
	Limit  *uint64
	Offset *uint64
}
