package db

import (
	"database/sql"
	"fmt"
	"log/slog"
)

// Migration represents a database migration
type Migration struct {
	Version int
	Name    string
	Up      func(*sql.Tx) error
}

// migrations is the list of all migrations in order
var migrations = []Migration{
	{
		Version: 1,
		Name:    "create_journal_tables",
		Up:      migrationV1,
	},
	{
		Version: 2,
		Name:    "add_journal_log",
		Up:      migrationV2,
	},
}

const schemaVersionSQL = `
	CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)
`

// RunMigrations executes all pending migrations, each in its own transaction.
func RunMigrations(db *sql.DB) error {
	if _, err := db.Exec(schemaVersionSQL); err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}

	var currentVersion int
	err := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get current schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		slog.Info("running migration", "version", migration.Version, "name", migration.Name)

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin transaction for migration %d: %w", migration.Version, err)
		}

		if err := migration.Up(tx); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, err)
		}

		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", migration.Version); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}
	}

	return nil
}

// migrationV1 creates the act, chapter and master note tables.
func migrationV1(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS acts (
			id TEXT PRIMARY KEY,
			campaign_id TEXT NOT NULL,
			title TEXT NOT NULL CHECK(length(title) BETWEEN 1 AND 200),
			position INTEGER NOT NULL,
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL,
			UNIQUE(campaign_id, position)
		);
		CREATE INDEX IF NOT EXISTS idx_acts_campaign ON acts(campaign_id);

		CREATE TABLE IF NOT EXISTS chapters (
			id TEXT PRIMARY KEY,
			act_id TEXT NOT NULL,
			title TEXT NOT NULL CHECK(length(title) >= 1),
			content TEXT NOT NULL DEFAULT '',
			position INTEGER NOT NULL,
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL,
			UNIQUE(act_id, position),
			FOREIGN KEY (act_id) REFERENCES acts(id)
		);
		CREATE INDEX IF NOT EXISTS idx_chapters_act ON chapters(act_id);

		CREATE TABLE IF NOT EXISTS master_notes (
			id TEXT PRIMARY KEY,
			campaign_id TEXT NOT NULL,
			content TEXT NOT NULL CHECK(length(content) >= 1),
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_master_notes_campaign ON master_notes(campaign_id, created_at);
	`)
	if err != nil {
		return fmt.Errorf("failed to create journal tables: %w", err)
	}
	return nil
}

// migrationV2 adds the journal_log audit table.
func migrationV2(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS journal_log (
			id TEXT PRIMARY KEY,
			campaign_id TEXT NOT NULL,
			timestamp INTEGER NOT NULL,
			actor_id TEXT,
			entity_type TEXT NOT NULL,
			entity_id TEXT NOT NULL,
			action TEXT NOT NULL CHECK(action IN ('create', 'update', 'delete', 'reorder')),
			field_name TEXT,
			old_value TEXT,
			new_value TEXT
		);
		CREATE INDEX IF NOT EXISTS idx_journal_log_campaign ON journal_log(campaign_id, timestamp);
		CREATE INDEX IF NOT EXISTS idx_journal_log_entity ON journal_log(entity_type, entity_id);
	`)
	if err != nil {
		return fmt.Errorf("failed to create journal_log table: %w", err)
	}
	return nil
}
