package bulk

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

// DefaultMaxParams is SQLite's SQLITE_MAX_VARIABLE_NUMBER since 3.32.
const DefaultMaxParams = 32766

// ErrBindLimit is returned when not even one row fits under the
// bound-parameter ceiling.
var ErrBindLimit = errors.New("bulk: bound-parameter ceiling too low for one row")

// ValidationError reports that a container had row errors. No statement
// was issued.
type ValidationError struct {
	Count  int
	Errors []RowError
}

func (e *ValidationError) Error() string {
	if e.Count == 1 {
		return fmt.Sprintf("bulk: 1 row failed to parse (row %d: %s)", e.Errors[0].Index, e.Errors[0].Message)
	}
	return fmt.Sprintf("bulk: %d rows failed to parse", e.Count)
}

// InsertError reports the chunk that failed. Chunk is zero-based and Offset
// is the index of its first row.
type InsertError struct {
	Chunk  int
	Offset int
	Err    error
}

func (e *InsertError) Error() string {
	return fmt.Sprintf("bulk: chunk %d (rows from %d): %v", e.Chunk, e.Offset, e.Err)
}

func (e *InsertError) Unwrap() error {
	return e.Err
}

// Execer is satisfied by *sql.DB, *sql.Conn and *sql.Tx.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Target describes the table rows of T are inserted into. Values must
// return one value per column, in Columns order.
type Target[T any] struct {
	Table   string
	Columns []string
	Values  func(T) []any
}

// Report summarizes a successful Insert, or the chunks completed before a
// failure.
type Report struct {
	Batch    string `json:"batch"`
	Rows     int    `json:"rows"`
	Chunks   int    `json:"chunks"`
	Inserted int64  `json:"inserted"`
}

// ChunkSize returns how many rows of columns values fit in one statement,
// keeping one row of headroom below maxParams.
func ChunkSize(maxParams, columns int) (int, error) {
	if columns < 1 {
		return 0, fmt.Errorf("bulk: no columns to insert")
	}
	size := maxParams/columns - 1
	if size < 1 {
		return 0, fmt.Errorf("%w: %d parameters, %d columns", ErrBindLimit, maxParams, columns)
	}
	return size, nil
}

// Insert writes the rows of c into target, one INSERT OR IGNORE per chunk.
func Insert[T any](ctx context.Context, db Execer, target Target[T], c *Container[T], maxParams int) (Report, error) {
	if err := c.Err(); err != nil {
		return Report{}, err
	}
	size, err := ChunkSize(maxParams, len(target.Columns))
	if err != nil {
		return Report{}, err
	}

	report := Report{
		Batch: uuid.Must(uuid.NewV7()).String(),
		Rows:  len(c.Rows),
	}
	for start := 0; start < len(c.Rows); start += size {
		end := min(start+size, len(c.Rows))

		query, args, err := chunkStatement(target, c.Rows[start:end], start)
		if err != nil {
			return report, &InsertError{Chunk: report.Chunks, Offset: start, Err: err}
		}
		res, err := db.ExecContext(ctx, query, args...)
		if err != nil {
			return report, &InsertError{Chunk: report.Chunks, Offset: start, Err: err}
		}
		report.Chunks++
		if n, err := res.RowsAffected(); err == nil {
			report.Inserted += n
		}
	}
	return report, nil
}

func chunkStatement[T any](target Target[T], rows []T, offset int) (string, []any, error) {
	b := sq.Insert(target.Table).
		Options("OR IGNORE").
		Columns(target.Columns...).
		PlaceholderFormat(sq.Question)
	for i, row := range rows {
		values := target.Values(row)
		if len(values) != len(target.Columns) {
			return "", nil, fmt.Errorf("row %d has %d values for %d columns", offset+i, len(values), len(target.Columns))
		}
		b = b.Values(values...)
	}
	return b.ToSql()
}
