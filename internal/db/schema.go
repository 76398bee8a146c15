package db

import (
	"database/sql"
)

// SchemaSQL is the complete schema for fresh installs.
// This schema reflects the current state after all migrations.
//
// This is the SINGLE SOURCE OF TRUTH for the database schema. All tests use
// this schema via GetSchemaSQL(), so a repository referencing a column that
// does not exist fails immediately with "no such column".
//
// When adding new columns or tables:
//  1. Add a migration in migrations.go
//  2. Update SchemaSQL here
//
// Positions are only unique, not CHECKed non-negative: BulkUpdateOrder parks
// rows at negative positions while it permutes a scope.
// Chapters reference acts without ON DELETE CASCADE, so an act cannot be
// removed while any of its chapters remain.
const SchemaSQL = `
-- Acts (ordered within a campaign)
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

-- Chapters (ordered within an act)
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

-- Master notes (no stored position, listed newest first)
CREATE TABLE IF NOT EXISTS master_notes (
	id TEXT PRIMARY KEY,
	campaign_id TEXT NOT NULL,
	content TEXT NOT NULL CHECK(length(content) >= 1),
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_master_notes_campaign ON master_notes(campaign_id, created_at);

-- Journal log (audit trail)
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
`

// InitSchema creates the schema on a fresh database or migrates an existing one.
func InitSchema(db *sql.DB) error {
	// Check if schema_version table exists to determine if this is a fresh install
	var tableCount int
	err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'").Scan(&tableCount)
	if err != nil {
		return err
	}
	if tableCount > 0 {
		return RunMigrations(db)
	}

	// Completely fresh install - create the current schema directly and mark
	// every migration as applied.
	if _, err := db.Exec(SchemaSQL); err != nil {
		return err
	}
	if _, err := db.Exec(schemaVersionSQL); err != nil {
		return err
	}
	for _, m := range migrations {
		if _, err := db.Exec("INSERT INTO schema_version (version) VALUES (?)", m.Version); err != nil {
			return err
		}
	}
	return nil
}

// GetSchemaSQL returns the authoritative schema SQL for use by tests.
// Tests should use this instead of hardcoding their own schema to prevent drift.
func GetSchemaSQL() string {
	return SchemaSQL
}
