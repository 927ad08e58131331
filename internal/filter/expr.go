package filter

// New returns an empty expression that matches every row.
func New[F Field]() Expr[F] {
	return Expr[F]{}
}

// Or returns a copy of e with one more OR-group AND-ed onto it.
func (e Expr[F]) Or(clauses ...Clause[F]) Expr[F] {
	out := e.clone()
	out.Groups = append(out.Groups, append(Group[F](nil), clauses...))
	return out
}

// OrderBy returns a copy of e with a case-insensitive sort key appended.
func (e Expr[F]) OrderBy(field F, dir Direction) Expr[F] {
	return e.OrderByCollate(field, dir, NoCase)
}

// OrderByCollate returns a copy of e with a sort key using the given
// collation appended.
func (e Expr[F]) OrderByCollate(field F, dir Direction, coll Collation) Expr[F] {
	out := e.clone()
	out.Order = append(out.Order, Sort[F]{Field: field, Dir: dir, Collation: coll})
	return out
}

// WithLimit returns a copy of e limited to n rows.
func (e Expr[F]) WithLimit(n uint64) Expr[F] {
	out := e.clone()
	out.Limit = &n
	return out
}

// WithOffset returns a copy of e skipping the first n rows.
func (e Expr[F]) WithOffset(n uint64) Expr[F] {
	out := e.clone()
	out.Offset = &n
	return out
}

// Unpaged returns a copy of e without sort keys, limit or offset. Counting
// uses it so the count covers every matching row.
func (e Expr[F]) Unpaged() Expr[F] {
	out := e.clone()
	out.Order = nil
	out.Limit = nil
	out.Offset = nil
	return out
}

// MatchAll reports whether e has no WHERE groups.
func (e Expr[F]) MatchAll() bool {
	return len(e.Groups) == 0
}

// clone copies the slices and pointers of e so helpers never alias the
// caller's expression.
func (e Expr[F]) clone() Expr[F] {
	out := Expr[F]{}
	if len(e.Groups) > 0 {
		out.Groups = make([]Group[F], len(e.Groups))
		for i, g := range e.Groups {
			out.Groups[i] = append(Group[F](nil), g...)
		}
	}
	if len(e.Order) > 0 {
		out.Order = append([]Sort[F](nil), e.Order...)
	}
	if e.Limit != nil {
		n := *e.Limit
		out.Limit = &n
	}
	if e.Offset != nil {
		n := *e.Offset
		out.Offset = &n
	}
	return out
}
