package db

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/vinodlearning/contractnlp/pkg/models"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestNew(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()

	// Verify database file exists
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Errorf("Database file was not created: %s", dbPath)
	}

	// Test connection is valid
	if err := db.conn.Ping(); err != nil {
		t.Errorf("Database connection is not valid: %v", err)
	}
}

func TestMigrate(t *testing.T) {
	db := newTestDB(t)

	// Verify tables exist after migration
	tables := []string{"lexicon_packs", "parse_logs", "known_entities", "settings"}
	for _, table := range tables {
		var count int
		err := db.conn.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&count)
		if err != nil {
			t.Errorf("Failed to query table %s: %v", table, err)
		}
		if count == 0 {
			t.Errorf("Table %s does not exist after migration", table)
		}
	}
}

func TestSettings(t *testing.T) {
	db := newTestDB(t)

	key := "test_key"
	value := "test_value"
	if err := db.SetSetting(key, value, "a test setting"); err != nil {
		t.Fatalf("Failed to set setting: %v", err)
	}

	retrieved, err := db.GetSetting(key)
	if err != nil {
		t.Fatalf("Failed to get setting: %v", err)
	}
	if retrieved != value {
		t.Errorf("Expected %s, got %s", value, retrieved)
	}

	// Upsert path
	newValue := "new_value"
	if err := db.SetSetting(key, newValue, ""); err != nil {
		t.Fatalf("Failed to update setting: %v", err)
	}
	retrieved, err = db.GetSetting(key)
	if err != nil {
		t.Fatalf("Failed to get updated setting: %v", err)
	}
	if retrieved != newValue {
		t.Errorf("Expected %s, got %s", newValue, retrieved)
	}

	// Non-existent key yields empty string, not an error
	retrieved, err = db.GetSetting("nonexistent")
	if err != nil {
		t.Fatalf("Unexpected error for non-existent key: %v", err)
	}
	if retrieved != "" {
		t.Errorf("Expected empty string for non-existent key, got %s", retrieved)
	}

	all, err := db.ListSettings()
	if err != nil {
		t.Fatalf("Failed to list settings: %v", err)
	}
	if all[key] != newValue {
		t.Errorf("ListSettings[%s] = %s, want %s", key, all[key], newValue)
	}

	if err := db.DeleteSetting(key); err != nil {
		t.Fatalf("Failed to delete setting: %v", err)
	}
	retrieved, _ = db.GetSetting(key)
	if retrieved != "" {
		t.Errorf("Expected empty value after delete, got %s", retrieved)
	}
}

func TestLexiconPacks(t *testing.T) {
	db := newTestDB(t)

	pack := []byte("name: aerospace\nversion: \"1.0\"\nvalid_words:\n  - fuselage\n")
	if err := db.ImportPack("aerospace", "1.0", pack); err != nil {
		t.Fatalf("Failed to import pack: %v", err)
	}

	data, err := db.GetPack("aerospace")
	if err != nil {
		t.Fatalf("Failed to get pack: %v", err)
	}
	if string(data) != string(pack) {
		t.Errorf("Pack data mismatch: got %q", data)
	}

	// Re-import replaces the stored data
	updated := []byte("name: aerospace\nversion: \"1.1\"\n")
	if err := db.ImportPack("aerospace", "1.1", updated); err != nil {
		t.Fatalf("Failed to re-import pack: %v", err)
	}
	data, err = db.GetPack("aerospace")
	if err != nil {
		t.Fatalf("Failed to get updated pack: %v", err)
	}
	if string(data) != string(updated) {
		t.Errorf("Expected updated pack data, got %q", data)
	}

	names, err := db.ListPacks()
	if err != nil {
		t.Fatalf("Failed to list packs: %v", err)
	}
	if len(names) != 1 || names[0] != "aerospace" {
		t.Errorf("ListPacks = %v, want [aerospace]", names)
	}

	if _, err := db.GetPack("missing"); err == nil {
		t.Error("Expected error for missing pack")
	}
}

func TestParseLogs(t *testing.T) {
	db := newTestDB(t)

	result := &models.ParsedQuery{
		Intent:     models.IntentPartFailure,
		Action:     models.ActionFailedParts,
		Confidence: 0.84,
	}
	if err := db.LogParse("show failed parts for contract 987654", result, 12); err != nil {
		t.Fatalf("Failed to log parse: %v", err)
	}
	if err := db.LogParse("help", &models.ParsedQuery{Intent: models.IntentHelp, Action: models.ActionHelp, Confidence: 0.8}, 3); err != nil {
		t.Fatalf("Failed to log parse: %v", err)
	}

	entries, err := db.RecentParses(10)
	if err != nil {
		t.Fatalf("Failed to read parse logs: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Expected 2 log entries, got %d", len(entries))
	}
	// Newest first
	if entries[0].Query != "help" {
		t.Errorf("Expected newest entry first, got %q", entries[0].Query)
	}
	if entries[1].Intent != models.IntentPartFailure {
		t.Errorf("Intent = %v, want %v", entries[1].Intent, models.IntentPartFailure)
	}
	if entries[1].DurationMs != 12 {
		t.Errorf("DurationMs = %d, want 12", entries[1].DurationMs)
	}
	if entries[0].CreatedAt == "" {
		t.Error("CreatedAt must be populated")
	}

	// A nil result logs as UNKNOWN rather than failing
	if err := db.LogParse("???", nil, 1); err != nil {
		t.Fatalf("Failed to log nil result: %v", err)
	}
	entries, err = db.RecentParses(1)
	if err != nil {
		t.Fatalf("Failed to read parse logs: %v", err)
	}
	if entries[0].Intent != models.IntentUnknown {
		t.Errorf("Intent = %v, want %v", entries[0].Intent, models.IntentUnknown)
	}
}

func TestKnownEntities(t *testing.T) {
	db := newTestDB(t)

	entities, err := db.KnownEntities()
	if err != nil {
		t.Fatalf("Failed to list known entities: %v", err)
	}
	if len(entities) != 0 {
		t.Errorf("Expected empty map, got %v", entities)
	}

	if err := db.UpsertKnownEntity("boeing", "COMPANY_NAME", "Boeing"); err != nil {
		t.Fatalf("Failed to upsert entity: %v", err)
	}
	if err := db.UpsertKnownEntity("overhauled", "STATUS", ""); err != nil {
		t.Fatalf("Failed to upsert entity: %v", err)
	}

	// Re-upserting the same value changes its type in place
	if err := db.UpsertKnownEntity("boeing", "CUSTOMER_ID", "Boeing"); err != nil {
		t.Fatalf("Failed to re-upsert entity: %v", err)
	}

	entities, err = db.KnownEntities()
	if err != nil {
		t.Fatalf("Failed to list known entities: %v", err)
	}
	if len(entities) != 2 {
		t.Fatalf("Expected 2 entities, got %d", len(entities))
	}
	if entities["boeing"] != "CUSTOMER_ID" {
		t.Errorf("entities[boeing] = %s, want CUSTOMER_ID", entities["boeing"])
	}
	if entities["overhauled"] != "STATUS" {
		t.Errorf("entities[overhauled] = %s, want STATUS", entities["overhauled"])
	}
}

func TestConcurrentAccess(t *testing.T) {
	db := newTestDB(t)

	done := make(chan bool)
	for i := 0; i < 10; i++ {
		go func(id int) {
			if err := db.SetSetting("concurrent_key", "value", ""); err != nil {
				t.Errorf("Concurrent write %d failed: %v", id, err)
			}
			done <- true
		}(i)
	}
	for i := 0; i < 10; i++ {
		<-done
	}
}
