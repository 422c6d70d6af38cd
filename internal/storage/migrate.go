package storage

import (
	"crypto/sha256"
	"database/sql"
	"embed"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"sort"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

const (
	schemaMetaTable = "schema_meta"
	checksumKey     = "migrations_checksum"
)

// MigrateUp applies every up migration in order and records the checksum of
// the migration set. When the stored checksum already matches, nothing runs.
func MigrateUp(db *sql.DB) error {
	sum, err := SchemaChecksum()
	if err != nil {
		return err
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS ` + schemaMetaTable + ` (key TEXT PRIMARY KEY, value TEXT NOT NULL)`); err != nil {
		return fmt.Errorf("create %s: %w", schemaMetaTable, err)
	}
	stored, err := storedChecksum(db)
	if err != nil {
		return err
	}
	if stored == sum {
		return nil
	}
	if err := applyMigrations(db, ".up.sql", false); err != nil {
		return err
	}
	if _, err := db.Exec(`
		INSERT INTO `+schemaMetaTable+` (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, checksumKey, sum); err != nil {
		return fmt.Errorf("store migration checksum: %w", err)
	}
	return nil
}

// MigrateDown reverts every migration, newest first, and forgets the
// stored checksum.
func MigrateDown(db *sql.DB) error {
	if err := applyMigrations(db, ".down.sql", true); err != nil {
		return err
	}
	if _, err := db.Exec(`DROP TABLE IF EXISTS ` + schemaMetaTable); err != nil {
		return fmt.Errorf("drop %s: %w", schemaMetaTable, err)
	}
	return nil
}

// SchemaCurrent reports whether db carries the checksum of the embedded
// migration set.
func SchemaCurrent(db *sql.DB) (bool, error) {
	sum, err := SchemaChecksum()
	if err != nil {
		return false, err
	}
	var n int
	if err := db.QueryRow(`SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, schemaMetaTable).Scan(&n); err != nil {
		return false, fmt.Errorf("inspect schema: %w", err)
	}
	if n == 0 {
		return false, nil
	}
	stored, err := storedChecksum(db)
	if err != nil {
		return false, err
	}
	return stored == sum, nil
}

// SchemaChecksum hashes the up migrations in application order.
func SchemaChecksum() (string, error) {
	entries, err := migrationNames(".up.sql", false)
	if err != nil {
		return "", err
	}
	h := sha256.New()
	for _, name := range entries {
		b, readErr := migrationFiles.ReadFile(name)
		if readErr != nil {
			return "", fmt.Errorf("read migration %s: %w", name, readErr)
		}
		h.Write([]byte(name))
		h.Write([]byte{0})
		h.Write(b)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func storedChecksum(db *sql.DB) (string, error) {
	var v string
	err := db.QueryRow(`SELECT value FROM `+schemaMetaTable+` WHERE key = ?`, checksumKey).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read migration checksum: %w", err)
	}
	return v, nil
}

func migrationNames(suffix string, reverse bool) ([]string, error) {
	entries, err := fs.Glob(migrationFiles, "migrations/*"+suffix)
	if err != nil {
		return nil, fmt.Errorf("glob migrations: %w", err)
	}
	if reverse {
		sort.Sort(sort.Reverse(sort.StringSlice(entries)))
	} else {
		sort.Strings(entries)
	}
	return entries, nil
}

func applyMigrations(db *sql.DB, suffix string, reverse bool) error {
	entries, err := migrationNames(suffix, reverse)
	if err != nil {
		return err
	}
	for _, name := range entries {
		sqlBytes, readErr := migrationFiles.ReadFile(name)
		if readErr != nil {
			return fmt.Errorf("read migration %s: %w", name, readErr)
		}
		if _, execErr := db.Exec(string(sqlBytes)); execErr != nil {
			return fmt.Errorf("apply migration %s: %w", name, execErr)
		}
	}
	return nil
}
