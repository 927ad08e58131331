package store

import (
	"github.com/worm-world/worm-world-sub000/internal/bulk"
	"github.com/worm-world/worm-world-sub000/internal/filter"
)

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// table describes how rows of T are stored.
type table[T any, F filter.Field] struct {
	entity string
	name   string
	// columns are selected in this order; scan reads them in the same order.
	columns []string
	// writable are the columns set by Insert and bulk imports.
	writable []string
	// key identifies a row for Update.
	key    []string
	scan   func(scanner) (T, error)
	record func(T) map[string]any
}

func (t table[T, F]) values(row T) []any {
	rec := t.record(row)
	out := make([]any, len(t.writable))
	for i, c := range t.writable {
		out[i] = rec[c]
	}
	return out
}

func (t table[T, F]) target() bulk.Target[T] {
	return bulk.Target[T]{
		Table:   t.name,
		Columns: t.writable,
		Values:  t.values,
	}
}

// Repo reads and writes one entity.
type Repo[T any, F filter.Field] struct {
	s *Store
	t table[T, F]
}

// Entity returns the entity name used in errors, logs and metrics.
func (r *Repo[T, F]) Entity() string {
	return r.t.entity
}

// Table returns the physical table name.
func (r *Repo[T, F]) Table() string {
	return r.t.name
}

// Columns returns the selected columns in scan order.
func (r *Repo[T, F]) Columns() []string {
	return append([]string(nil), r.t.columns...)
}
