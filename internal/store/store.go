package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/careerpilot/internal/store/migrate"

	// PostgreSQL driver.
	_ "github.com/lib/pq"
	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Supported database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Options selects the database backend.
type Options struct {
	// Driver is "sqlite" (default) or "postgres".
	Driver string
	// DSN is a SQLite file path / URI or a PostgreSQL connection string.
	DSN string
	// MaxOpenConns caps the pool. SQLite is always capped at 1.
	MaxOpenConns int
}

// conn is satisfied by both *sql.DB and *sql.Tx.
type conn interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store owns the database handle and hands out repositories. A Store
// returned to a WithTx callback routes every repository call through the
// surrounding transaction.
type Store struct {
	db      *sql.DB
	conn    conn
	dialect string
	inTx    bool
}

// Open connects to the configured database, applies driver-specific
// settings, and runs auto-migration.
func Open(ctx context.Context, opts Options) (*Store, error) {
	driver := opts.Driver
	if driver == "" {
		driver = DriverSQLite
	}

	var (
		db      *sql.DB
		err     error
		entDial string
	)
	switch driver {
	case DriverSQLite:
		entDial = dialect.SQLite
		db, err = sql.Open("sqlite", sqliteDSN(opts.DSN))
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		// A single connection keeps SQLite writers serialized and lets
		// shared-cache in-memory databases survive between calls.
		db.SetMaxOpenConns(1)
		if err := applyPragmas(ctx, db); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply pragmas: %w", err)
		}
	case DriverPostgres:
		entDial = dialect.Postgres
		db, err = sql.Open("postgres", opts.DSN)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		if opts.MaxOpenConns > 0 {
			db.SetMaxOpenConns(opts.MaxOpenConns)
		}
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("ping database: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown database driver: %q", driver)
	}

	drv := entsql.OpenDB(entDial, db)
	if err := migrate.Create(ctx, drv); err != nil {
		db.Close()
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}

	return &Store{db: db, conn: db, dialect: entDial}, nil
}

// OpenSQLite opens a SQLite store at dsn.
func OpenSQLite(dsn string) (*Store, error) {
	return Open(context.Background(), Options{Driver: DriverSQLite, DSN: dsn})
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Dialect returns the ent dialect name of the backing database.
func (s *Store) Dialect() string {
	return s.dialect
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// WithTx runs fn inside a single transaction. The transaction is rolled
// back when fn returns an error or panics. Nested calls reuse the outer
// transaction.
func (s *Store) WithTx(ctx context.Context, fn func(tx *Store) error) (err error) {
	if s.inTx {
		return fn(s)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if v := recover(); v != nil {
			_ = tx.Rollback()
			panic(v)
		}
	}()

	child := &Store{db: s.db, conn: tx, dialect: s.dialect, inTx: true}
	if err := fn(child); err != nil {
		if rerr := tx.Rollback(); rerr != nil {
			return fmt.Errorf("%w (rollback: %v)", err, rerr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// builder returns a dialect-aware SQL builder.
func (s *Store) builder() *entsql.DialectBuilder {
	return entsql.Dialect(s.dialect)
}

// UserRepo returns a UserRepo backed by this store.
func (s *Store) UserRepo() UserRepo {
	return &userRepo{s: s}
}

// InterviewRepo returns an InterviewRepo backed by this store.
func (s *Store) InterviewRepo() InterviewRepo {
	return &interviewRepo{s: s}
}

// RoadmapRepo returns a RoadmapRepo backed by this store.
func (s *Store) RoadmapRepo() RoadmapRepo {
	return &roadmapRepo{s: s}
}

// ProgressRepo returns a ProgressRepo backed by this store.
func (s *Store) ProgressRepo() ProgressRepo {
	return &progressRepo{s: s}
}

// ResumeRepo returns a ResumeRepo backed by this store.
func (s *Store) ResumeRepo() ResumeRepo {
	return &resumeRepo{s: s}
}

// EventRepo returns an EventRepo backed by this store.
func (s *Store) EventRepo() EventRepo {
	return &eventRepo{s: s}
}

// sqliteDSN appends the per-connection pragmas modernc.org/sqlite applies
// on every new connection.
func sqliteDSN(dsn string) string {
	if dsn == "" {
		dsn = "file::memory:?cache=shared"
	}
	var params []string
	if !strings.Contains(dsn, "foreign_keys") {
		params = append(params, "_pragma=foreign_keys(1)")
	}
	if !strings.Contains(dsn, "busy_timeout") {
		params = append(params, "_pragma=busy_timeout(5000)")
	}
	if len(params) == 0 {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + strings.Join(params, "&")
}

// applyPragmas configures SQLite for a single-process server.
func applyPragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. CAREERPILOT_DB environment variable
// 2. $XDG_DATA_HOME/careerpilot/careerpilot.db
// 3. ~/.local/share/careerpilot/careerpilot.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("CAREERPILOT_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "careerpilot", "careerpilot.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}
