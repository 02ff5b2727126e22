package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hpungsan/quorum/internal/config"
	_ "modernc.org/sqlite"
)

// CurrentSchemaVersion is the latest schema version.
// Bump this when adding migrations.
const CurrentSchemaVersion = 1

// Init initializes the SQLite database at baseDir/quorum.db.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.quorum.
func Init(baseDir string) (*sql.DB, error) {
	// Create base directory with restricted permissions
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}
	// Explicit chmod (best-effort, may not work on all platforms)
	_ = os.Chmod(baseDir, 0700)

	// Open database with pragmas in connection string (applies to all connections)
	dbPath := filepath.Join(baseDir, "quorum.db")
	dsn := dbPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Verify WAL mode is active
	if err := verifyWALMode(db); err != nil {
		db.Close()
		return nil, err
	}

	// Run migrations (this creates the file if it doesn't exist)
	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	// Set file permissions after file exists (best-effort)
	_ = os.Chmod(dbPath, 0600)

	return db, nil
}

// ConfigurePool applies connection pool settings from config.
// Only sets limits if explicitly configured (non-zero values).
// Call after Init if you need to tune pool behavior for contention.
func ConfigurePool(db *sql.DB, cfg *config.Config) {
	if cfg == nil {
		return
	}
	if cfg.DBMaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	}
	if cfg.DBMaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.DBMaxIdleConns)
	}
}

// migrate applies schema migrations based on user_version.
func migrate(db *sql.DB) error {
	version, err := GetUserVersion(db)
	if err != nil {
		return err
	}

	// Migration 0 -> 1: Initial schema (v1)
	if version < 1 {
		schema := `
		CREATE TABLE IF NOT EXISTS prompt_packs (
		  id          INTEGER PRIMARY KEY,
		  slug        TEXT NOT NULL,
		  locale      TEXT NOT NULL,
		  version     INTEGER NOT NULL,
		  active      INTEGER NOT NULL DEFAULT 0,
		  schema_json TEXT,
		  created_at  INTEGER NOT NULL,
		  UNIQUE(slug, locale, version)
		);

		CREATE TABLE IF NOT EXISTS prompt_entries (
		  id                INTEGER PRIMARY KEY,
		  pack_id           INTEGER NOT NULL REFERENCES prompt_packs(id),
		  role              TEXT NOT NULL,
		  system_prompt     TEXT NOT NULL,
		  user_template     TEXT NOT NULL DEFAULT '',
		  params_json       TEXT,
		  placeholders_json TEXT,
		  position          INTEGER NOT NULL DEFAULT 0,
		  UNIQUE(pack_id, role)
		);

		CREATE TABLE IF NOT EXISTS lineup_presets (
		  id     INTEGER PRIMARY KEY,
		  name   TEXT NOT NULL,
		  locale TEXT NOT NULL,
		  UNIQUE(name, locale)
		);

		CREATE TABLE IF NOT EXISTS preset_roles (
		  preset_id INTEGER NOT NULL REFERENCES lineup_presets(id),
		  role_key  TEXT NOT NULL,
		  weight    REAL NOT NULL,
		  position  INTEGER NOT NULL,
		  UNIQUE(preset_id, role_key)
		);

		CREATE TABLE IF NOT EXISTS heuristic_rules (
		  id       INTEGER PRIMARY KEY,
		  keyword  TEXT NOT NULL,
		  role_key TEXT NOT NULL,
		  delta    REAL NOT NULL,
		  locale   TEXT NOT NULL,
		  active   INTEGER NOT NULL DEFAULT 1
		);

		CREATE TABLE IF NOT EXISTS minutes (
		  id                   TEXT PRIMARY KEY,
		  question             TEXT NOT NULL,
		  context              TEXT,
		  role_outputs_json    TEXT NOT NULL,
		  consensus_json       TEXT NOT NULL,
		  advisor_bullets_json TEXT NOT NULL,
		  lineup_json          TEXT NOT NULL,
		  pack_slug            TEXT NOT NULL,
		  pack_locale          TEXT NOT NULL,
		  pack_version         INTEGER NOT NULL,
		  pack_hash            TEXT NOT NULL,
		  model                TEXT NOT NULL,
		  consensus_validated  INTEGER NOT NULL,
		  created_at           INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_minutes_created
		ON minutes(created_at DESC);

		CREATE TABLE IF NOT EXISTS audit_log (
		  id           INTEGER PRIMARY KEY AUTOINCREMENT,
		  event        TEXT NOT NULL,
		  details_json TEXT,
		  created_at   INTEGER NOT NULL
		);
		`
		if _, err := db.Exec(schema); err != nil {
			return fmt.Errorf("migration 1 failed: %w", err)
		}
		if err := seedDefaults(db); err != nil {
			return fmt.Errorf("migration 1 seed failed: %w", err)
		}
		if err := SetUserVersion(db, 1); err != nil {
			return err
		}
	}

	// Future migrations go here:
	// if version < 2 { ... }

	return nil
}

// verifyWALMode checks that WAL mode is active (set via connection string).
func verifyWALMode(db *sql.DB) error {
	var journalMode string
	if err := db.QueryRow("PRAGMA journal_mode;").Scan(&journalMode); err != nil {
		return fmt.Errorf("failed to verify journal mode: %w", err)
	}
	if journalMode != "wal" {
		return fmt.Errorf("expected WAL mode, got %s", journalMode)
	}
	return nil
}

// GetUserVersion returns the current schema version (user_version pragma).
func GetUserVersion(db *sql.DB) (int, error) {
	var version int
	if err := db.QueryRow("PRAGMA user_version;").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to get user_version: %w", err)
	}
	return version, nil
}

// SetUserVersion sets the schema version (user_version pragma).
func SetUserVersion(db *sql.DB, version int) error {
	_, err := db.Exec(fmt.Sprintf("PRAGMA user_version=%d", version))
	if err != nil {
		return fmt.Errorf("failed to set user_version: %w", err)
	}
	return nil
}
