package store

import "database/sql"

// Conversions between domain values and their storage representation.

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func intToBool(i int64) bool {
	return i != 0
}

// nullable returns *p, or nil for a NULL column.
func nullable[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

func nullableBool(p *bool) any {
	if p == nil {
		return nil
	}
	return boolToInt(*p)
}

// fromNull returns nil for a NULL column.
func fromNull[T any](n sql.Null[T]) *T {
	if !n.Valid {
		return nil
	}
	v := n.V
	return &v
}

func fromNullBool(n sql.Null[int64]) *bool {
	if !n.Valid {
		return nil
	}
	b := intToBool(n.V)
	return &b
}
