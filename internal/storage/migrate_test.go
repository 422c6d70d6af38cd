package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/sandeepkv93/hikari/internal/model"
)

func TestMigrateRoundTripCompatibility(t *testing.T) {
	forEachDriver(t, func(t *testing.T, driver string) {
		db, err := OpenDB(driver, filepath.Join(t.TempDir(), "migrate-roundtrip.db"))
		if err != nil {
			t.Fatalf("open db: %v", err)
		}
		defer db.Close()

		if err := MigrateUp(db); err != nil {
			t.Fatalf("first migrate up failed: %v", err)
		}
		if err := MigrateDown(db); err != nil {
			t.Fatalf("migrate down failed: %v", err)
		}
		if current, err := SchemaCurrent(db); err != nil || current {
			t.Fatalf("expected schema to be gone after down: %v %v", current, err)
		}
		if err := MigrateUp(db); err != nil {
			t.Fatalf("second migrate up failed: %v", err)
		}

		repo, err := NewSQLiteRepository(db)
		if err != nil {
			t.Fatalf("new repo: %v", err)
		}
		ctx := context.Background()
		p, err := repo.CreateProject(ctx, model.NewProject{Title: "Roundtrip"})
		if err != nil {
			t.Fatalf("insert after roundtrip failed: %v", err)
		}
		task, err := repo.CreateTask(ctx, model.NewTask{Title: "Roundtrip task", ProjectID: p.ID})
		if err != nil {
			t.Fatalf("insert task after roundtrip failed: %v", err)
		}
		got, err := repo.GetTask(ctx, task.ID)
		if err != nil {
			t.Fatalf("get after roundtrip failed: %v", err)
		}
		if got.Title != "Roundtrip task" {
			t.Fatalf("unexpected title after roundtrip: %q", got.Title)
		}
	})
}

func TestMigrateUpSkipsWhenChecksumMatches(t *testing.T) {
	forEachDriver(t, func(t *testing.T, driver string) {
		db, err := OpenDB(driver, filepath.Join(t.TempDir(), "checksum.db"))
		if err != nil {
			t.Fatalf("open db: %v", err)
		}
		defer db.Close()

		if err := MigrateUp(db); err != nil {
			t.Fatalf("migrate up: %v", err)
		}
		if _, err := db.Exec(`INSERT INTO projects (id, title) VALUES ('keep', 'Keep me')`); err != nil {
			t.Fatalf("seed: %v", err)
		}
		if err := MigrateUp(db); err != nil {
			t.Fatalf("second migrate up: %v", err)
		}

		var n int
		if err := db.QueryRow(`SELECT count(*) FROM projects`).Scan(&n); err != nil {
			t.Fatalf("count: %v", err)
		}
		if n != 1 {
			t.Fatalf("expected data to survive repeated migrate, got %d rows", n)
		}

		sum, err := SchemaChecksum()
		if err != nil {
			t.Fatalf("checksum: %v", err)
		}
		stored, err := storedChecksum(db)
		if err != nil {
			t.Fatalf("stored checksum: %v", err)
		}
		if stored != sum {
			t.Fatalf("expected stored checksum %q, got %q", sum, stored)
		}
	})
}

func TestMigrateUpReappliesOnChecksumMismatch(t *testing.T) {
	db, err := OpenDB(DriverCGO, filepath.Join(t.TempDir(), "mismatch.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if err := MigrateUp(db); err != nil {
		t.Fatalf("migrate up: %v", err)
	}
	if _, err := db.Exec(`UPDATE schema_meta SET value = 'stale' WHERE key = ?`, checksumKey); err != nil {
		t.Fatalf("corrupt checksum: %v", err)
	}
	if current, _ := SchemaCurrent(db); current {
		t.Fatal("expected stale checksum to be detected")
	}
	if err := MigrateUp(db); err != nil {
		t.Fatalf("re-migrate: %v", err)
	}
	if current, err := SchemaCurrent(db); err != nil || !current {
		t.Fatalf("expected current schema after re-migrate: %v %v", current, err)
	}
}

func TestDSN(t *testing.T) {
	got, err := DSN(DriverCGO, "/tmp/x.db")
	if err != nil {
		t.Fatalf("dsn: %v", err)
	}
	if got != "file:/tmp/x.db?_busy_timeout=5000&_foreign_keys=on" {
		t.Fatalf("unexpected cgo dsn: %q", got)
	}
	got, err = DSN(DriverPure, MemoryPath)
	if err != nil {
		t.Fatalf("dsn: %v", err)
	}
	if got != "file::memory:?_pragma=foreign_keys%281%29&_pragma=busy_timeout%285000%29" {
		t.Fatalf("unexpected pure dsn: %q", got)
	}
	if _, err := DSN("postgres", "x"); err == nil {
		t.Fatal("expected unknown driver error")
	}
}
