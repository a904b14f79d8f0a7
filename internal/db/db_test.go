package db

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/VoxDroid/cmdpal/internal/config"
)

func TestInitDBCreatesFileAndSchema(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv(config.EnvHome, filepath.Join(tmp, "data"))
	t.Setenv(config.EnvDB, "")

	db, err := InitDB()
	if err != nil {
		t.Fatalf("InitDB() error: %v", err)
	}
	defer func() { _ = db.Close() }()

	if _, err := os.Stat(filepath.Join(tmp, "data", "cmdpal.db")); err != nil {
		t.Fatalf("db file not created: %v", err)
	}
	for _, table := range []string{"favorites", "runs"} {
		var count int
		r := db.QueryRow("SELECT count(*) FROM sqlite_master WHERE type='table' AND name=?", table)
		if err := r.Scan(&count); err != nil {
			t.Fatalf("query schema: %v", err)
		}
		if count != 1 {
			t.Fatalf("expected table %q to exist", table)
		}
	}
}

func openTemp(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestMigrationsAreIdempotent(t *testing.T) {
	db := openTemp(t)
	if err := ApplyMigrations(db); err != nil {
		t.Fatalf("second ApplyMigrations: %v", err)
	}
	var n int
	if err := db.QueryRow("SELECT count(*) FROM pragma_table_info('runs') WHERE name IN ('cwd','exit_code')").Scan(&n); err != nil {
		t.Fatalf("table_info: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected added columns, got %d", n)
	}
}

func TestTriggersRejectInvalidRows(t *testing.T) {
	db := openTemp(t)

	if _, err := db.Exec("INSERT INTO favorites (workspace, fav_key, created_at) VALUES (?, ?, datetime('now'))", "/ws", "nocolon"); err == nil {
		t.Fatalf("expected favorite key without separator to be rejected")
	}
	if _, err := db.Exec("INSERT INTO favorites (workspace, fav_key, created_at) VALUES (?, ?, datetime('now'))", "/ws", []byte{0xff, ':'}); err == nil {
		t.Fatalf("expected blob favorite key to be rejected")
	}
	if _, err := db.Exec("INSERT INTO favorites (workspace, fav_key, created_at) VALUES (?, ?, datetime('now'))", "/ws", "Docker:Up"); err != nil {
		t.Fatalf("unexpected insert error: %v", err)
	}

	if _, err := db.Exec("INSERT INTO runs (workspace, grp, name, command, started_at) VALUES (?, ?, ?, ?, datetime('now'))", "/ws", "G", "   ", "ls"); err == nil {
		t.Fatalf("expected blank run name to be rejected")
	}
	if _, err := db.Exec("INSERT INTO runs (workspace, grp, name, command, started_at) VALUES (?, ?, ?, ?, datetime('now'))", "/ws", "G", "list", "ls"); err != nil {
		t.Fatalf("unexpected insert error: %v", err)
	}
}
