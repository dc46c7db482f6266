package statstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	"github.com/huangsam/fpstats/internal/contract"
	"github.com/huangsam/fpstats/schema"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver
)

// Table names owned by the stats store.
const (
	statsTable       = "stats"
	lookupsTable     = "stats_lookups"
	accountTable     = "account"
	fingerprintTable = "fingerprint"
	migrationsTable  = "schema_migrations"
)

// Sentinel errors returned by the store.
var (
	ErrNotFound      = errors.New("not found")
	ErrNegativeValue = errors.New("value cannot be negative")
)

// StoreImpl handles durable storage of stats using various database backends.
type StoreImpl struct {
	db         *sql.DB
	backend    schema.DatabaseBackend
	driverName string
	connStr    string
}

var _ contract.StatsStore = &StoreImpl{} // Compile-time check

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// NewStatsStore opens the store for backend and migrates it to the latest schema.
func NewStatsStore(backend schema.DatabaseBackend, connStr string) (*StoreImpl, error) {
	if backend == schema.NoneBackend {
		// No-op store for disabled persistence
		return &StoreImpl{backend: backend, connStr: connStr}, nil
	}

	driverName, dsn, err := driverFor(backend, connStr)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		switch backend {
		case schema.SQLiteBackend:
			return nil, fmt.Errorf("failed to initialize SQLite store at %q: %w. Ensure the directory is writable", dsn, err)
		case schema.MySQLBackend:
			return nil, fmt.Errorf("failed to connect to MySQL store: %w. Check connection format: user:password@tcp(host:port)/dbname", err)
		default:
			return nil, fmt.Errorf("failed to connect to PostgreSQL store: %w. Check connection format: host=localhost port=5432 user=postgres dbname=mydb", err)
		}
	}
	if backend == schema.SQLiteBackend {
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database. Check that the server is running and connection parameters are valid: %w", backend, err)
	}

	if _, err := Migrate(context.Background(), backend, connStr, -1); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate %s store: %w", backend, err)
	}

	return &StoreImpl{
		db:         db,
		backend:    backend,
		driverName: driverName,
		connStr:    connStr,
	}, nil
}

// driverFor maps a backend to its database/sql driver name and data source.
func driverFor(backend schema.DatabaseBackend, connStr string) (string, string, error) {
	switch backend {
	case schema.SQLiteBackend:
		dbPath := connStr
		if dbPath == "" {
			dbPath = contract.GetDBFilePath()
		}
		return "sqlite", dbPath, nil
	case schema.MySQLBackend:
		// user:password@tcp(host:port)/dbname
		return "mysql", connStr, nil
	case schema.PostgreSQLBackend:
		// host=localhost port=5432 user=postgres password=mysecretpassword dbname=postgres
		return "pgx", connStr, nil
	default:
		return "", "", fmt.Errorf("unsupported store backend: %s. Must be sqlite, mysql, postgresql, or none", backend)
	}
}

// Backend reports the backend the store was opened with.
func (s *StoreImpl) Backend() schema.DatabaseBackend {
	return s.backend
}

// disabled reports whether the store is a no-op.
func (s *StoreImpl) disabled() bool {
	return s.backend == schema.NoneBackend || s.db == nil
}

// table returns the quoted name of one of the store tables.
func (s *StoreImpl) table(name string) string {
	return quoteTableName(name, s.backend)
}

// rebind rewrites '?' placeholders into the backend's parameter syntax.
func (s *StoreImpl) rebind(query string) string {
	if s.backend != schema.PostgreSQLBackend {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$")
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// sum wraps SUM(col) so every backend scans it as an integer.
func (s *StoreImpl) sum(col string) string {
	switch s.backend {
	case schema.PostgreSQLBackend:
		return fmt.Sprintf("CAST(COALESCE(SUM(%s), 0) AS BIGINT)", col)
	case schema.MySQLBackend:
		return fmt.Sprintf("CAST(COALESCE(SUM(%s), 0) AS SIGNED)", col)
	default:
		return fmt.Sprintf("COALESCE(SUM(%s), 0)", col)
	}
}

// placeholders returns n comma-separated '?' markers.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// Close closes the underlying DB connection.
func (s *StoreImpl) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

var tableNamePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// validateTableName validates that the table name is a safe SQL identifier.
func validateTableName(name string) error {
	if name == "" {
		return fmt.Errorf("table name cannot be empty")
	}
	if !tableNamePattern.MatchString(name) {
		return fmt.Errorf("invalid table name: %s (must match pattern ^[a-zA-Z_][a-zA-Z0-9_]*$)", name)
	}
	return nil
}

// quoteTableName returns the properly quoted table name for the given backend.
func quoteTableName(name string, backend schema.DatabaseBackend) string {
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf("`%s`", name)
	default: // SQLite and PostgreSQL
		return fmt.Sprintf("\"%s\"", name)
	}
}
