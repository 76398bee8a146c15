package db

import (
	"database/sql"
	"fmt"
	"time"
)

// DemoCampaignID is the campaign SeedFixtures populates.
const DemoCampaignID = "camp-demo"

// SeedFixtures populates the database with a small sample journal.
// Uses fixed IDs so fixtures can be referenced from docs and scripts.
func SeedFixtures(database *sql.DB) error {
	now := time.Now().UTC()
	stamp := func(offset int) int64 { return now.Add(time.Duration(offset) * time.Second).UnixNano() }

	tx, err := database.Begin()
	if err != nil {
		return fmt.Errorf("seed: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// Acts
	acts := []struct {
		id, title string
	}{
		{"act-demo-1", "The Summons"},
		{"act-demo-2", "Into the Marsh"},
		{"act-demo-3", "The Drowned Keep"},
	}
	for i, a := range acts {
		if _, err := tx.Exec(
			"INSERT INTO acts (id, campaign_id, title, position, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
			a.id, DemoCampaignID, a.title, i, stamp(i), stamp(i),
		); err != nil {
			return fmt.Errorf("seed acts: %w", err)
		}
	}

	// Chapters
	chapters := []struct {
		id, actID, title, content string
	}{
		{"chap-demo-1", "act-demo-1", "A Letter Sealed in Black", "The party receives the duke's summons."},
		{"chap-demo-2", "act-demo-1", "Road to Greywater", ""},
		{"chap-demo-3", "act-demo-2", "Fog on the Causeway", "Random encounter table: bog wights."},
		{"chap-demo-4", "act-demo-2", "The Ferryman's Price", ""},
		{"chap-demo-5", "act-demo-2", "Lanterns Below", ""},
	}
	positions := map[string]int{}
	for i, c := range chapters {
		pos := positions[c.actID]
		positions[c.actID]++
		if _, err := tx.Exec(
			"INSERT INTO chapters (id, act_id, title, content, position, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
			c.id, c.actID, c.title, c.content, pos, stamp(10+i), stamp(10+i),
		); err != nil {
			return fmt.Errorf("seed chapters: %w", err)
		}
	}

	// Master notes
	notes := []struct{ id, content string }{
		{"note-demo-1", "The duke is secretly in debt to the ferryman."},
		{"note-demo-2", "Keep the keep's lower level flooded until session 6."},
	}
	for i, n := range notes {
		if _, err := tx.Exec(
			"INSERT INTO master_notes (id, campaign_id, content, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
			n.id, DemoCampaignID, n.content, stamp(20+i), stamp(20+i),
		); err != nil {
			return fmt.Errorf("seed master notes: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed: commit: %w", err)
	}
	return nil
}
