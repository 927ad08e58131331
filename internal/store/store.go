package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"net/url"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/worm-world/worm-world-sub000/internal/bulk"
	"github.com/worm-world/worm-world-sub000/internal/metrics"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 0 - Initial schema (pre-migration)
// 1 - Indexes on alleles.sys_gene_name and tasks.due_date
const currentSchemaVersion = 1

// Driver names registered by the two SQLite drivers.
const (
	DriverCGo  = "sqlite3" // github.com/mattn/go-sqlite3
	DriverPure = "sqlite"  // modernc.org/sqlite
)

// Store owns the database handle shared by every Repo.
type Store struct {
	db        *sql.DB
	driver    string
	bindLimit int
	logger    *zap.Logger
	metrics   *metrics.Collectors
}

type options struct {
	driver       string
	maxOpenConns int
	busyTimeout  time.Duration
	bindLimit    int
	logger       *zap.Logger
	metrics      *metrics.Collectors
}

// Option configures Open.
type Option func(*options)

// WithDriver selects DriverCGo (default) or DriverPure.
func WithDriver(name string) Option {
	return func(o *options) { o.driver = name }
}

// WithMaxOpenConns caps the connection pool. SQLite has a single writer;
// the default is 1.
func WithMaxOpenConns(n int) Option {
	return func(o *options) { o.maxOpenConns = n }
}

// WithBusyTimeout sets how long a connection waits on a locked database.
func WithBusyTimeout(d time.Duration) Option {
	return func(o *options) { o.busyTimeout = d }
}

// WithBindLimit sets the bound-parameter ceiling used to size bulk chunks.
func WithBindLimit(n int) Option {
	return func(o *options) { o.bindLimit = n }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithMetrics records statement metrics on c.
func WithMetrics(c *metrics.Collectors) Option {
	return func(o *options) { o.metrics = c }
}

// Open creates or opens a SQLite database at the given path.
// Applies required pragmas and migrations automatically.
//
// This function is idempotent - safe to call multiple times.
func Open(path string, opts ...Option) (*Store, error) {
	o := options{
		driver:       DriverCGo,
		maxOpenConns: 1,
		busyTimeout:  5 * time.Second,
		bindLimit:    bulk.DefaultMaxParams,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	dsn, err := dataSourceName(o.driver, path, o.busyTimeout)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(o.driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Verify connection works
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(o.maxOpenConns)
	db.SetMaxIdleConns(o.maxOpenConns)

	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	o.logger.Debug("store opened",
		zap.String("path", path),
		zap.String("driver", o.driver),
		zap.Int("max_open_conns", o.maxOpenConns),
		zap.Int("bind_limit", o.bindLimit),
	)

	return &Store{
		db:        db,
		driver:    o.driver,
		bindLimit: o.bindLimit,
		logger:    o.logger,
		metrics:   o.metrics,
	}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// DB returns the underlying sql.DB for direct queries.
// Use with caution - prefer using Repo methods when available.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Driver returns the database/sql driver name in use.
func (s *Store) Driver() string {
	return s.driver
}

// BindLimit returns the bound-parameter ceiling used for bulk imports.
func (s *Store) BindLimit() int {
	return s.bindLimit
}

// dataSourceName builds a DSN carrying the required pragmas in the syntax of
// each driver.
func dataSourceName(driver, path string, busy time.Duration) (string, error) {
	q := url.Values{}
	ms := fmt.Sprint(busy.Milliseconds())

	switch driver {
	case DriverCGo:
		q.Set("_foreign_keys", "on")
		q.Set("_busy_timeout", ms)
		q.Set("_journal_mode", "WAL")
		q.Set("_synchronous", "NORMAL")
	case DriverPure:
		q.Add("_pragma", "foreign_keys(1)")
		q.Add("_pragma", "busy_timeout("+ms+")")
		q.Add("_pragma", "journal_mode(WAL)")
		q.Add("_pragma", "synchronous(NORMAL)")
	default:
		return "", fmt.Errorf("unsupported sqlite driver %q", driver)
	}
	// ? and # in the path would otherwise start the query or fragment.
	name := (&url.URL{Path: path}).EscapedPath()
	return "file:" + name + "?" + q.Encode(), nil
}

// applySchema creates tables if they don't exist and runs migrations.
// This function is idempotent.
func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	if err := runMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// runMigrations applies incremental schema migrations based on user_version.
func runMigrations(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}

	if version < 1 {
		if err := migrateToV1(db); err != nil {
			return err
		}
	}

	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}

	return nil
}

// migrateToV1 adds the lookup indexes used by the gene and due-date
// filters.
func migrateToV1(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_alleles_sys_gene_name ON alleles(sys_gene_name);
		CREATE INDEX IF NOT EXISTS idx_tasks_due_date ON tasks(due_date);
	`)
	if err != nil {
		return fmt.Errorf("migrate to v1: %w", err)
	}
	return nil
}

// verifyPragma checks that a pragma is set to the expected value.
// Used for testing.
func (s *Store) verifyPragma(ctx context.Context, name, expected string) error {
	var value string
	if err := s.db.QueryRowContext(ctx, "PRAGMA "+name).Scan(&value); err != nil {
		return fmt.Errorf("failed to query %s: %w", name, err)
	}
	if value != expected {
		return fmt.Errorf("%s = %q, expected %q", name, value, expected)
	}
	return nil
}
