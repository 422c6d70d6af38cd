package storage

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"
)

const (
	// DriverCGO is the mattn/go-sqlite3 driver.
	DriverCGO = "sqlite3"
	// DriverPure is the modernc.org/sqlite driver, usable without cgo.
	DriverPure = "sqlite"

	MemoryPath = ":memory:"
)

func ValidDriver(name string) bool {
	return name == DriverCGO || name == DriverPure
}

// DSN builds a driver-specific connection string that turns on foreign keys
// and a busy timeout for every connection the pool opens.
func DSN(driver, path string) (string, error) {
	q := url.Values{}
	switch driver {
	case DriverCGO:
		q.Set("_foreign_keys", "on")
		q.Set("_busy_timeout", "5000")
	case DriverPure:
		q.Add("_pragma", "foreign_keys(1)")
		q.Add("_pragma", "busy_timeout(5000)")
	default:
		return "", fmt.Errorf("storage: unknown driver %q", driver)
	}
	return "file:" + path + "?" + q.Encode(), nil
}

// OpenDB opens the database at path and limits the pool to one connection,
// which keeps an in-memory database alive and serialises every statement.
func OpenDB(driver, path string) (*sql.DB, error) {
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}
	dsn, err := DSN(driver, path)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	return db, nil
}

// OpenSQLite opens the database, applies pending migrations and returns a
// ready repository.
func OpenSQLite(ctx context.Context, driver, path string, opts ...Option) (*SQLiteRepository, error) {
	db, err := OpenDB(driver, path)
	if err != nil {
		return nil, err
	}
	repo, err := NewSQLiteRepository(db, opts...)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := repo.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}
