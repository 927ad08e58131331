package store

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/worm-world/worm-world-sub000/internal/filter"
	"github.com/worm-world/worm-world-sub000/internal/querysql"
)

// Query returns the rows matching e, in the order e specifies.
//
// Returns an empty slice (not nil) when nothing matches.
func (r *Repo[T, F]) Query(ctx context.Context, e filter.Expr[F]) ([]T, error) {
	start := time.Now()

	query, args, err := querysql.Select(r.t.name, r.t.columns, e).ToSql()
	if err != nil {
		return nil, r.readFailed("query", start, fmt.Errorf("build select: %w", err))
	}

	rows, err := r.s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, r.readFailed("query", start, err)
	}
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		row, err := r.t.scan(rows)
		if err != nil {
			return nil, r.readFailed("query", start, fmt.Errorf("scan: %w", err))
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, r.readFailed("query", start, fmt.Errorf("iterate: %w", err))
	}

	r.s.metrics.ObserveQuery(r.t.entity, "query", time.Since(start), nil)
	r.s.logger.Debug("query",
		zap.String("entity", r.t.entity),
		zap.String("sql", query),
		zap.Int("args", len(args)),
		zap.Int("rows", len(out)),
	)
	return out, nil
}

// Count returns how many rows match e. Order and paging are ignored.
func (r *Repo[T, F]) Count(ctx context.Context, e filter.Expr[F]) (int64, error) {
	start := time.Now()

	query, args, err := querysql.Count(r.t.name, e).ToSql()
	if err != nil {
		return 0, r.readFailed("count", start, fmt.Errorf("build count: %w", err))
	}

	var n int64
	if err := r.s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, r.readFailed("count", start, err)
	}

	r.s.metrics.ObserveQuery(r.t.entity, "count", time.Since(start), nil)
	r.s.logger.Debug("count",
		zap.String("entity", r.t.entity),
		zap.String("sql", query),
		zap.Int64("count", n),
	)
	return n, nil
}

func (r *Repo[T, F]) readFailed(op string, start time.Time, err error) error {
	r.s.metrics.ObserveQuery(r.t.entity, op, time.Since(start), err)
	r.s.logger.Warn(op+" failed", zap.String("entity", r.t.entity), zap.Error(err))
	return &QueryError{Entity: r.t.entity, Err: err}
}
