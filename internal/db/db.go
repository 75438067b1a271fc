package db

import (
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/vinodlearning/contractnlp/internal/interfaces"
	"github.com/vinodlearning/contractnlp/pkg/models"
)

//go:embed migration.sql
var migrationSQL string

// DB wraps the SQLite database connection
type DB struct {
	conn *sql.DB
	path string
}

// New creates a new database connection
func New(dbPath string) (*DB, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create db directory: %w", err)
	}

	// The pure-Go driver needs no system SQLite installation
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite works best with a single writer connection
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)

	db := &DB{
		conn: conn,
		path: dbPath,
	}

	// Run migrations
	if err := db.Migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return db, nil
}

// Migrate runs database migrations
func (db *DB) Migrate() error {
	_, err := db.conn.Exec(migrationSQL)
	if err != nil {
		return fmt.Errorf("failed to execute migration: %w", err)
	}
	return nil
}

// Close closes the database connection
func (db *DB) Close() error {
	if db.conn != nil {
		return db.conn.Close()
	}
	return nil
}

// Conn returns the underlying database connection for advanced operations
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// ImportPack stores a lexicon pack's raw YAML, replacing any previous
// version of the same pack.
func (db *DB) ImportPack(name, version string, data []byte) error {
	_, err := db.conn.Exec(`
		INSERT INTO lexicon_packs (name, version, data) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET version = ?, data = ?, imported_at = strftime('%s', 'now')
	`, name, version, data, version, data)
	if err != nil {
		return fmt.Errorf("failed to import pack %s: %w", name, err)
	}
	return nil
}

// GetPack retrieves a pack's raw YAML by name
func (db *DB) GetPack(name string) ([]byte, error) {
	var data []byte
	err := db.conn.QueryRow("SELECT data FROM lexicon_packs WHERE name = ?", name).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("lexicon pack %s not found", name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pack %s: %w", name, err)
	}
	return data, nil
}

// ListPacks returns the names of all installed packs in import order
func (db *DB) ListPacks() ([]string, error) {
	rows, err := db.conn.Query("SELECT name FROM lexicon_packs ORDER BY imported_at, name")
	if err != nil {
		return nil, fmt.Errorf("failed to list packs: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan pack name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// LogParse records a single parse with its outcome
func (db *DB) LogParse(query string, result *models.ParsedQuery, durationMs int64) error {
	intent := models.IntentUnknown
	action := models.ActionGeneralSearch
	confidence := 0.0
	if result != nil {
		intent = result.Intent
		action = result.Action
		confidence = result.Confidence
	}
	_, err := db.conn.Exec(`
		INSERT INTO parse_logs (query, intent, action, confidence, duration_ms)
		VALUES (?, ?, ?, ?, ?)
	`, query, string(intent), string(action), confidence, durationMs)
	if err != nil {
		return fmt.Errorf("failed to log parse: %w", err)
	}
	return nil
}

// RecentParses retrieves the most recent parse logs, newest first
func (db *DB) RecentParses(limit int) ([]models.ParseLogEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.conn.Query(`
		SELECT id, query, intent, action, confidence, duration_ms, created_at
		FROM parse_logs ORDER BY id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query parse logs: %w", err)
	}
	defer rows.Close()

	var entries []models.ParseLogEntry
	for rows.Next() {
		var e models.ParseLogEntry
		var intent, action string
		if err := rows.Scan(&e.ID, &e.Query, &intent, &action, &e.Confidence, &e.DurationMs, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan parse log: %w", err)
		}
		e.Intent = models.Intent(intent)
		e.Action = models.Action(action)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// UpsertKnownEntity stores a curated entity value synced from the registry
func (db *DB) UpsertKnownEntity(value, entityType, canonical string) error {
	_, err := db.conn.Exec(`
		INSERT INTO known_entities (value, entity_type, canonical) VALUES (?, ?, ?)
		ON CONFLICT(value) DO UPDATE SET entity_type = ?, canonical = ?, synced_at = strftime('%s', 'now')
	`, value, entityType, canonical, entityType, canonical)
	if err != nil {
		return fmt.Errorf("failed to upsert known entity %s: %w", value, err)
	}
	return nil
}

// KnownEntities returns all curated entity values as value -> type
func (db *DB) KnownEntities() (map[string]string, error) {
	rows, err := db.conn.Query("SELECT value, entity_type FROM known_entities")
	if err != nil {
		return nil, fmt.Errorf("failed to list known entities: %w", err)
	}
	defer rows.Close()

	entities := map[string]string{}
	for rows.Next() {
		var value, entityType string
		if err := rows.Scan(&value, &entityType); err != nil {
			return nil, fmt.Errorf("failed to scan known entity: %w", err)
		}
		entities[value] = entityType
	}
	return entities, rows.Err()
}

// GetSetting retrieves a setting value
func (db *DB) GetSetting(key string) (string, error) {
	var value string
	err := db.conn.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get setting %s: %w", key, err)
	}
	return value, nil
}

// SetSetting updates or inserts a setting
func (db *DB) SetSetting(key, value, description string) error {
	_, err := db.conn.Exec(`
		INSERT INTO settings (key, value, description) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = ?, description = ?, updated_at = strftime('%s', 'now')
	`, key, value, description, value, description)
	if err != nil {
		return fmt.Errorf("failed to set setting %s: %w", key, err)
	}
	return nil
}

// DeleteSetting removes a setting
func (db *DB) DeleteSetting(key string) error {
	_, err := db.conn.Exec("DELETE FROM settings WHERE key = ?", key)
	if err != nil {
		return fmt.Errorf("failed to delete setting %s: %w", key, err)
	}
	return nil
}

// ListSettings returns all settings as a key/value map
func (db *DB) ListSettings() (map[string]string, error) {
	rows, err := db.conn.Query("SELECT key, value FROM settings")
	if err != nil {
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}
	defer rows.Close()

	settings := map[string]string{}
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("failed to scan setting: %w", err)
		}
		settings[k] = v
	}
	return settings, rows.Err()
}

// Begin starts a transaction
func (db *DB) Begin() (*sql.Tx, error) {
	return db.conn.Begin()
}

// Interface conformance checks.
var (
	_ interfaces.LexiconStore       = (*DB)(nil)
	_ interfaces.ParseLogger        = (*DB)(nil)
	_ interfaces.SettingsManager    = (*DB)(nil)
	_ interfaces.DatabaseConnection = (*DB)(nil)
)
