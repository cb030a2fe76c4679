package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/jjenkins/covidash/internal/store/migrations"
)

// NewDB opens the database named by dsn and reports its migration dialect.
// postgres:// and postgresql:// URLs use lib/pq; sqlite:<path> and
// file:<path> use the pure-Go SQLite driver.
func NewDB(ctx context.Context, dsn string) (*sql.DB, goose.Dialect, error) {
	driver, source, dialect, err := parseDSN(dsn)
	if err != nil {
		return nil, "", err
	}

	db, err := sql.Open(driver, source)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, "", fmt.Errorf("failed to connect to database: %w", err)
	}

	if driver == "sqlite" {
		// SQLite allows one writer; a single connection avoids SQLITE_BUSY.
		db.SetMaxOpenConns(1)
	}

	return db, dialect, nil
}

func parseDSN(dsn string) (driver, source string, dialect goose.Dialect, err error) {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return "postgres", dsn, goose.DialectPostgres, nil
	case strings.HasPrefix(dsn, "sqlite:"):
		path := strings.TrimPrefix(dsn, "sqlite:")
		return "sqlite", "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", goose.DialectSQLite3, nil
	case strings.HasPrefix(dsn, "file:"):
		return "sqlite", dsn, goose.DialectSQLite3, nil
	default:
		return "", "", "", fmt.Errorf("unsupported database URL %q: expected postgres://, sqlite: or file:", dsn)
	}
}

// Migrate applies all pending migrations and returns how many ran
func Migrate(ctx context.Context, db *sql.DB, dialect goose.Dialect) (int, error) {
	provider, err := goose.NewProvider(dialect, db, migrations.FS)
	if err != nil {
		return 0, fmt.Errorf("failed to create migration provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to apply migrations: %w", err)
	}
	return len(results), nil
}
