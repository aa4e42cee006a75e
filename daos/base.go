package daos

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// Store resolves logical database names to files under one data directory
// and opens handles to them. It holds no open connections itself.
type Store struct {
	dir string
	log *slog.Logger
}

// Database is one open handle to a database file. A handle lives for a
// single logical operation: open, run statements, close.
type Database struct {
	conn *sql.DB
	name string
	log  *slog.Logger
}

// Row maps column names to scalar values (nil, int64, float64, string,
// []byte, or bool). Rows are transient transfer values, never cached.
type Row map[string]any

// NewStore returns a store over dir. The directory is not touched until
// Init is called.
func NewStore(dir string, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{dir: dir, log: log}
}

// Init creates the data directory if needed. Idempotent; the process entry
// point calls it once before serving.
func (s *Store) Init() error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	return nil
}

// Dir returns the data directory the store manages.
func (s *Store) Dir() string {
	return s.dir
}

// Open returns a handle to the named database file. The file must already
// exist: browsing never creates databases (Create and Save do). Opening
// configures WAL journaling, a busy timeout, and foreign-key enforcement.
func (s *Store) Open(name string) (*Database, error) {
	path, err := s.resolve(name)
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, DatabaseNotFoundErr(name)
		}
		return nil, fmt.Errorf("stat %s: %w", name, err)
	}

	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on", path)
	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, classifyEngineError(err)
	}

	return &Database{conn: conn, name: name, log: s.log}, nil
}

// resolve validates a database name and joins it to the data directory.
func (s *Store) resolve(name string) (string, error) {
	if err := ValidateDatabaseName(name); err != nil {
		return "", err
	}
	return filepath.Join(s.dir, name), nil
}

// Name returns the logical name the handle was opened under.
func (db *Database) Name() string {
	return db.name
}

// Close releases the handle. It is safe in cleanup paths after success and
// failure alike; a close failure is logged and never replaces the error
// from the operation that triggered the cleanup.
func (db *Database) Close() {
	if db == nil || db.conn == nil {
		return
	}
	if err := db.conn.Close(); err != nil {
		db.log.Warn("closing database handle", "database", db.name, "error", err)
	}
}

// queryRows runs a select and scans every row into a Row. Values are read
// as the driver reports them and coerced afterward, because the engine's
// flexible typing lets a cell hold any storage class regardless of the
// column's declaration; a typed scan target would fail on such cells and
// uploaded databases written by other programs carry them routinely.
func (db *Database) queryRows(ctx context.Context, query string, args ...any) ([]Row, error) {
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classifyEngineError(err)
	}
	defer rows.Close()

	columnTypes, err := rows.ColumnTypes()
	if err != nil {
		return nil, classifyEngineError(err)
	}

	count := len(columnTypes)
	out := []Row{}

	for rows.Next() {
		scanArgs := make([]any, count)
		for i := range scanArgs {
			scanArgs[i] = new(any)
		}

		if err := rows.Scan(scanArgs...); err != nil {
			return nil, classifyEngineError(err)
		}

		row := Row{}
		for i, ct := range columnTypes {
			row[ct.Name()] = coerceValue(ct.DatabaseTypeName(), *scanArgs[i].(*any))
		}
		out = append(out, row)
	}

	if err := rows.Err(); err != nil {
		return nil, classifyEngineError(err)
	}
	return out, nil
}

// coerceValue normalizes a raw driver value into the tagged scalar set.
// The stored value decides the Go type; the declared column type only
// distinguishes blobs from text and surfaces BOOLEAN-declared integers as
// bools. NULL stays nil.
func coerceValue(declaredType string, v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case int64:
		switch strings.ToUpper(declaredType) {
		case "BOOLEAN", "BOOL":
			return val != 0
		}
		return val
	case []byte:
		// the driver may reuse this buffer on the next row
		if strings.ToUpper(declaredType) == "BLOB" {
			return append([]byte(nil), val...)
		}
		return string(val)
	default:
		// float64, string, bool, and driver-parsed time values pass through
		return val
	}
}

// execute runs a mutating statement, translating engine failures through
// the classifier.
func (db *Database) execute(ctx context.Context, query string, args ...any) (sql.Result, error) {
	res, err := db.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, classifyEngineError(err)
	}
	return res, nil
}
