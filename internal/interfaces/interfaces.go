package interfaces

import (
	"database/sql"

	"github.com/vinodlearning/contractnlp/pkg/models"
)

// Tokenizer splits query text into an ordered sequence of surface tokens.
type Tokenizer interface {
	// Tokenize returns the tokens of text in input order
	Tokenize(text string) ([]string, error)
}

// Tagger assigns one part-of-speech tag per token.
type Tagger interface {
	// Tag returns exactly one tag per input token, same order
	Tag(tokens []string) ([]string, error)
}

// QueryParser runs the full pipeline over a single query.
type QueryParser interface {
	// Parse analyzes a free-text query and returns the structured result
	Parse(query string) (*models.ParsedQuery, error)
	// ParseWithContext additionally considers the previous parse for
	// low-confidence follow-up queries
	ParseWithContext(query string, previous *models.ParsedQuery) (*models.ParsedQuery, error)
}

// LexiconStore persists lexicon packs and their terms.
type LexiconStore interface {
	// ImportPack saves a lexicon pack to the database
	ImportPack(name, version string, data []byte) error
	// GetPack retrieves a pack's raw YAML by name
	GetPack(name string) ([]byte, error)
	// ListPacks returns the names of all installed packs
	ListPacks() ([]string, error)
}

// ParseLogger records parse outcomes for later inspection.
type ParseLogger interface {
	// LogParse records a single parse with its outcome
	LogParse(query string, result *models.ParsedQuery, durationMs int64) error
	// RecentParses retrieves the most recent parse logs
	RecentParses(limit int) ([]models.ParseLogEntry, error)
}

// SettingsManager handles configuration and settings persistence.
type SettingsManager interface {
	// GetSetting retrieves a configuration value
	GetSetting(key string) (string, error)
	// SetSetting stores a configuration value
	SetSetting(key, value, description string) error
	// DeleteSetting removes a configuration value
	DeleteSetting(key string) error
	// ListSettings returns all configuration values
	ListSettings() (map[string]string, error)
}

// DatabaseConnection provides low-level database access.
type DatabaseConnection interface {
	// Conn returns the underlying sql.DB connection
	Conn() *sql.DB
	// Close closes the database connection
	Close() error
	// Migrate runs database migrations
	Migrate() error
}
