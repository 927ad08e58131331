package bulk

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/worm-world/worm-world-sub000/internal/records"
)

type sample struct {
	Key string
	A   string
	B   int
	C   bool
}

var sampleTarget = Target[sample]{
	Table:   "samples",
	Columns: []string{"key", "a", "b", "c"},
	Values: func(s sample) []any {
		return []any{s.Key, s.A, s.B, s.C}
	},
}

// recordingExecer records every statement before passing it on. When failAt
// is positive, that call (1-based) fails instead.
type recordingExecer struct {
	db         *sql.DB
	statements []string
	args       [][]any
	failAt     int
}

func (r *recordingExecer) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	r.statements = append(r.statements, query)
	r.args = append(r.args, args)
	if r.failAt > 0 && len(r.statements) == r.failAt {
		return nil, errors.New("disk I/O error")
	}
	return r.db.ExecContext(ctx, query, args...)
}

func openSampleDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "bulk.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`CREATE TABLE samples (
		key TEXT PRIMARY KEY,
		a   TEXT NOT NULL,
		b   INTEGER NOT NULL,
		c   INTEGER NOT NULL
	)`)
	require.NoError(t, err)
	return db
}

func samples(n int) []sample {
	rows := make([]sample, n)
	for i := range rows {
		rows[i] = sample{Key: fmt.Sprintf("k%02d", i), A: "x", B: i, C: i%2 == 0}
	}
	return rows
}

func countSamples(t *testing.T, db *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM samples").Scan(&n))
	return n
}

func TestChunkSize(t *testing.T) {
	testCases := []struct {
		max, cols int
		want      int
		wantErr   bool
	}{
		{40, 4, 9, false},
		{32766, 5, 6552, false},
		{8, 4, 1, false},
		{7, 4, 0, true},
		{4, 4, 0, true},
		{10, 0, 0, true},
	}

	for _, tc := range testCases {
		t.Run(fmt.Sprintf("%d/%d", tc.max, tc.cols), func(t *testing.T) {
			got, err := ChunkSize(tc.max, tc.cols)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
			assert.Less(t, got*tc.cols, tc.max)
		})
	}

	_, err := ChunkSize(7, 4)
	assert.ErrorIs(t, err, ErrBindLimit)
}

func TestInsert_ChunksInOrderAndSkipsDuplicates(t *testing.T) {
	db := openSampleDB(t)
	_, err := db.Exec(`INSERT INTO samples VALUES ('k17', 'existing', 0, 0)`)
	require.NoError(t, err)

	rows := samples(50)
	exec := &recordingExecer{db: db}

	report, err := Insert(context.Background(), exec, sampleTarget, &Container[sample]{Rows: rows}, 40)
	require.NoError(t, err)

	require.Len(t, exec.statements, 6)
	for i, stmt := range exec.statements {
		assert.True(t, strings.HasPrefix(stmt, "INSERT OR IGNORE INTO samples (key,a,b,c) VALUES "), stmt)
		assert.LessOrEqual(t, len(exec.args[i]), 40)
	}
	// ceil(50/9) chunks: five full, one of 5 rows.
	assert.Len(t, exec.args[0], 36)
	assert.Len(t, exec.args[5], 20)

	// The first argument of each chunk is the key of the row it starts at.
	for i, args := range exec.args {
		assert.Equal(t, rows[i*9].Key, args[0])
	}

	assert.Equal(t, 6, report.Chunks)
	assert.Equal(t, 50, report.Rows)
	assert.Equal(t, int64(49), report.Inserted)
	assert.NotEmpty(t, report.Batch)

	assert.Equal(t, 50, countSamples(t, db))
	var a string
	require.NoError(t, db.QueryRow(`SELECT a FROM samples WHERE key = 'k17'`).Scan(&a))
	assert.Equal(t, "existing", a)

	got, err := db.Query(`SELECT key FROM samples WHERE a = 'x' ORDER BY rowid`)
	require.NoError(t, err)
	defer got.Close()
	var keys []string
	for got.Next() {
		var k string
		require.NoError(t, got.Scan(&k))
		keys = append(keys, k)
	}
	require.NoError(t, got.Err())
	want := make([]string, 0, 49)
	for _, r := range rows {
		if r.Key != "k17" {
			want = append(want, r.Key)
		}
	}
	assert.Equal(t, want, keys)
}

func TestInsert_ExactChunkBoundary(t *testing.T) {
	db := openSampleDB(t)
	exec := &recordingExecer{db: db}

	report, err := Insert(context.Background(), exec, sampleTarget, &Container[sample]{Rows: samples(10)}, 40)
	require.NoError(t, err)
	assert.Len(t, exec.statements, 2)
	assert.Equal(t, 2, report.Chunks)
	assert.Equal(t, 10, countSamples(t, db))

	exec = &recordingExecer{db: openSampleDB(t)}
	_, err = Insert(context.Background(), exec, sampleTarget, &Container[sample]{Rows: samples(9)}, 40)
	require.NoError(t, err)
	assert.Len(t, exec.statements, 1)
}

func TestInsert_ValidationGate(t *testing.T) {
	db := openSampleDB(t)
	exec := &recordingExecer{db: db}

	c := &Container[sample]{
		Rows:   samples(2),
		Errors: []RowError{{Index: 1, Message: "expected 4 fields, got 3"}},
	}
	before := countSamples(t, db)

	_, err := Insert(context.Background(), exec, sampleTarget, c, 40)
	require.Error(t, err)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, 1, verr.Count)
	assert.Equal(t, c.Errors, verr.Errors)
	assert.Contains(t, err.Error(), "row 1")

	assert.Empty(t, exec.statements)
	assert.Equal(t, before, countSamples(t, db))
}

func TestInsert_BindLimitIssuesNothing(t *testing.T) {
	exec := &recordingExecer{db: openSampleDB(t)}

	_, err := Insert(context.Background(), exec, sampleTarget, &Container[sample]{Rows: samples(3)}, 7)
	assert.ErrorIs(t, err, ErrBindLimit)
	assert.Empty(t, exec.statements)
}

func TestInsert_FailingChunkKeepsEarlierChunks(t *testing.T) {
	db := openSampleDB(t)
	exec := &recordingExecer{db: db, failAt: 2}

	report, err := Insert(context.Background(), exec, sampleTarget, &Container[sample]{Rows: samples(25)}, 40)
	require.Error(t, err)

	var ierr *InsertError
	require.True(t, errors.As(err, &ierr))
	assert.Equal(t, 1, ierr.Chunk)
	assert.Equal(t, 9, ierr.Offset)
	assert.EqualError(t, ierr.Err, "disk I/O error")

	assert.Len(t, exec.statements, 2, "later chunks must not run")
	assert.Equal(t, 1, report.Chunks)
	assert.Equal(t, 9, countSamples(t, db))
}

func TestInsert_TransactionRollsBackEveryChunk(t *testing.T) {
	db := openSampleDB(t)
	tx, err := db.Begin()
	require.NoError(t, err)

	exec := &recordingExecer{failAt: 3}
	txExec := txRecorder{tx: tx, rec: exec}

	_, err = Insert(context.Background(), txExec, sampleTarget, &Container[sample]{Rows: samples(25)}, 40)
	require.Error(t, err)
	require.NoError(t, tx.Rollback())

	assert.Equal(t, 0, countSamples(t, db))
}

type txRecorder struct {
	tx  *sql.Tx
	rec *recordingExecer
}

func (r txRecorder) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	r.rec.statements = append(r.rec.statements, query)
	if len(r.rec.statements) == r.rec.failAt {
		return nil, errors.New("constraint failed")
	}
	return r.tx.ExecContext(ctx, query, args...)
}

func TestInsert_MismatchedValues(t *testing.T) {
	exec := &recordingExecer{db: openSampleDB(t)}
	bad := sampleTarget
	bad.Values = func(s sample) []any { return []any{s.Key} }

	_, err := Insert(context.Background(), exec, bad, &Container[sample]{Rows: samples(2)}, 40)
	var ierr *InsertError
	require.True(t, errors.As(err, &ierr))
	assert.Contains(t, err.Error(), "row 0 has 1 values for 4 columns")
	assert.Empty(t, exec.statements)
}

func TestLoadThenInsert_Tasks(t *testing.T) {
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "tasks.db"))
	require.NoError(t, err)
	defer db.Close()
	_, err = db.Exec(`CREATE TABLE tasks (id INTEGER PRIMARY KEY, action TEXT NOT NULL, strain1 TEXT NOT NULL)`)
	require.NoError(t, err)

	c, err := Load[records.Task](strings.NewReader("action,strain1\nCross,N2\nFreeze,CB4856\n"), Options{})
	require.NoError(t, err)

	target := Target[records.Task]{
		Table:   "tasks",
		Columns: []string{"action", "strain1"},
		Values:  func(task records.Task) []any { return []any{task.Action, task.Strain1} },
	}
	report, err := Insert(context.Background(), db, target, c, DefaultMaxParams)
	require.NoError(t, err)
	assert.Equal(t, int64(2), report.Inserted)
	assert.Equal(t, 1, report.Chunks)
}
