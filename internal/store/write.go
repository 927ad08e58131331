package store

import (
	"context"
	"fmt"
	"io"

	sq "github.com/Masterminds/squirrel"
	"go.uber.org/zap"

	"github.com/worm-world/worm-world-sub000/internal/bulk"
	"github.com/worm-world/worm-world-sub000/internal/filter"
	"github.com/worm-world/worm-world-sub000/internal/querysql"
)

// Insert adds one row and returns its rowid. Unlike bulk imports, a key
// collision is an error.
func (r *Repo[T, F]) Insert(ctx context.Context, row T) (int64, error) {
	query, args, err := sq.Insert(r.t.name).
		Columns(r.t.writable...).
		Values(r.t.values(row)...).
		ToSql()
	if err != nil {
		return 0, r.writeFailed("insert", err)
	}

	res, err := r.s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, r.writeFailed("insert", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, r.writeFailed("insert", err)
	}
	return id, nil
}

// Update overwrites every writable column of the row with row's key.
// Returns ErrNotFound (wrapped) when no such row exists.
func (r *Repo[T, F]) Update(ctx context.Context, row T) error {
	rec := r.t.record(row)

	key := sq.Eq{}
	for _, c := range r.t.key {
		key[c] = rec[c]
	}
	set := make(map[string]any, len(r.t.writable))
	for _, c := range r.t.writable {
		if _, isKey := key[c]; !isKey {
			set[c] = rec[c]
		}
	}

	query, args, err := sq.Update(r.t.name).SetMap(set).Where(key).ToSql()
	if err != nil {
		return r.writeFailed("update", err)
	}

	res, err := r.s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return r.writeFailed("update", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return r.writeFailed("update", err)
	}
	if n == 0 {
		return &WriteError{Op: "update", Entity: r.t.entity, Err: ErrNotFound}
	}
	return nil
}

// Delete removes the rows matching e and returns how many were removed.
// A match-all expression is refused with ErrUnfilteredDelete.
func (r *Repo[T, F]) Delete(ctx context.Context, e filter.Expr[F]) (int64, error) {
	if e.MatchAll() {
		return 0, &WriteError{Op: "delete", Entity: r.t.entity, Err: ErrUnfilteredDelete}
	}

	query, args, err := querysql.Delete(r.t.name, e).ToSql()
	if err != nil {
		return 0, r.writeFailed("delete", err)
	}

	res, err := r.s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, r.writeFailed("delete", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, r.writeFailed("delete", err)
	}

	r.s.logger.Info("deleted",
		zap.String("entity", r.t.entity),
		zap.Int64("rows", n),
	)
	return n, nil
}

// Import loads delimited text from src and imports it with ImportRows.
func (r *Repo[T, F]) Import(ctx context.Context, src io.Reader, opts bulk.Options) (bulk.Report, error) {
	c, err := bulk.Load[T](src, opts)
	if err != nil {
		return bulk.Report{}, fmt.Errorf("load %s rows: %w", r.t.entity, err)
	}
	return r.ImportRows(ctx, c)
}

// ImportRows inserts every row of c with chunked INSERT OR IGNORE
// statements inside a single transaction.
//
// A container with row errors is rejected with *bulk.ValidationError
// before the transaction starts. If any chunk fails, the whole import is
// rolled back and the *bulk.InsertError is returned.
func (r *Repo[T, F]) ImportRows(ctx context.Context, c *bulk.Container[T]) (bulk.Report, error) {
	if err := c.Err(); err != nil {
		r.s.logger.Warn("import rejected",
			zap.String("entity", r.t.entity),
			zap.Int("row_errors", len(c.Errors)),
		)
		return bulk.Report{}, err
	}

	tx, err := r.s.db.BeginTx(ctx, nil)
	if err != nil {
		return bulk.Report{}, r.writeFailed("import", err)
	}

	report, err := bulk.Insert(ctx, tx, r.t.target(), c, r.s.bindLimit)
	if err != nil {
		_ = tx.Rollback()
		r.s.metrics.ObserveError(r.t.entity, "import")
		r.s.logger.Warn("import rolled back",
			zap.String("entity", r.t.entity),
			zap.String("batch", report.Batch),
			zap.Int("chunks_done", report.Chunks),
			zap.Error(err),
		)
		return report, err
	}
	if err := tx.Commit(); err != nil {
		return report, r.writeFailed("import", err)
	}

	r.s.metrics.ObserveImport(r.t.entity, report.Chunks, report.Rows, report.Inserted)
	r.s.logger.Info("import committed",
		zap.String("entity", r.t.entity),
		zap.String("batch", report.Batch),
		zap.Int("rows", report.Rows),
		zap.Int("chunks", report.Chunks),
		zap.Int64("inserted", report.Inserted),
		zap.Int64("ignored", int64(report.Rows)-report.Inserted),
	)
	return report, nil
}

func (r *Repo[T, F]) writeFailed(op string, err error) error {
	r.s.metrics.ObserveError(r.t.entity, op)
	r.s.logger.Warn(op+" failed", zap.String("entity", r.t.entity), zap.Error(err))
	return &WriteError{Op: op, Entity: r.t.entity, Err: err}
}
