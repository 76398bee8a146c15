// Package sqlite_test contains integration tests for SQLite repositories.
//
// # Schema Protection
//
// This file is the SINGLE POINT where the database schema is loaded for tests.
// All test setup functions use db.GetSchemaSQL() so tests run against the
// authoritative schema. Do not hardcode CREATE TABLE statements in test
// files; use setupTestDB() and the seed* helpers.
package sqlite_test

import (
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/lorebook/internal/db"
)

// setupTestDB creates an in-memory database with the authoritative schema.
// A single connection keeps every statement on the same in-memory database.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:?_foreign_keys=ON")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	testDB.SetMaxOpenConns(1)

	if _, err := testDB.Exec(db.GetSchemaSQL()); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

var seedTime = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

// seedAct inserts an act at the given position.
func seedAct(t *testing.T, database *sql.DB, id, campaignID string, position int) {
	t.Helper()
	_, err := database.Exec(
		"INSERT INTO acts (id, campaign_id, title, position, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
		id, campaignID, "Act "+id, position, seedTime.UnixNano(), seedTime.UnixNano(),
	)
	if err != nil {
		t.Fatalf("failed to seed act: %v", err)
	}
}

// seedChapter inserts a chapter at the given position.
func seedChapter(t *testing.T, database *sql.DB, id, actID string, position int) {
	t.Helper()
	_, err := database.Exec(
		"INSERT INTO chapters (id, act_id, title, content, position, created_at, updated_at) VALUES (?, ?, ?, '', ?, ?, ?)",
		id, actID, "Chapter "+id, position, seedTime.UnixNano(), seedTime.UnixNano(),
	)
	if err != nil {
		t.Fatalf("failed to seed chapter: %v", err)
	}
}

// seedNote inserts a master note created offset seconds after seedTime.
func seedNote(t *testing.T, database *sql.DB, id, campaignID string, offset int) {
	t.Helper()
	at := seedTime.Add(time.Duration(offset) * time.Second).UnixNano()
	_, err := database.Exec(
		"INSERT INTO master_notes (id, campaign_id, content, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
		id, campaignID, "Note "+id, at, at,
	)
	if err != nil {
		t.Fatalf("failed to seed note: %v", err)
	}
}

// positions returns id -> position for every row of table in scope.
func positions(t *testing.T, database *sql.DB, table, scopeColumn, scopeID string) map[string]int {
	t.Helper()
	rows, err := database.Query("SELECT id, position FROM "+table+" WHERE "+scopeColumn+" = ?", scopeID)
	if err != nil {
		t.Fatalf("failed to query positions: %v", err)
	}
	defer rows.Close()

	out := map[string]int{}
	for rows.Next() {
		var id string
		var pos int
		if err := rows.Scan(&id, &pos); err != nil {
			t.Fatalf("failed to scan position: %v", err)
		}
		out[id] = pos
	}
	return out
}

func countRows(t *testing.T, database *sql.DB, table string) int {
	t.Helper()
	var n int
	if err := database.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		t.Fatalf("failed to count %s: %v", table, err)
	}
	return n
}
