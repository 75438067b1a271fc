// Package bootstrap seeds the registry database on first start.
package bootstrap

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	yaml "gopkg.in/yaml.v3"

	"github.com/vinodlearning/contractnlp/internal/lexicon"
)

// SeedBuiltinPacks scans a directory of lexicon pack YAML files and
// registers them in the database under the system user.
func SeedBuiltinPacks(db *sql.DB, packsDir string) error {
	log.Println("Seeding builtin lexicon packs from", packsDir)

	entries, err := os.ReadDir(packsDir)
	if err != nil {
		return fmt.Errorf("failed to read packs directory: %w", err)
	}

	count := 0
	for _, entry := range entries {
		if entry.IsDir() || (!strings.HasSuffix(entry.Name(), ".yaml") && !strings.HasSuffix(entry.Name(), ".yml")) {
			continue
		}

		path := filepath.Join(packsDir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			log.Printf("Warning: failed to read %s: %v", path, err)
			continue
		}

		var pack lexicon.Pack
		if err := yaml.Unmarshal(data, &pack); err != nil {
			log.Printf("Warning: failed to parse %s: %v", path, err)
			continue
		}
		if pack.Name == "" || pack.Version == "" {
			log.Printf("Warning: %s has no name/version, skipping", path)
			continue
		}

		// Upsert, forcing file path to the builtin location
		_, err = db.Exec(`
			INSERT INTO packs (name, version, description, file_path, original_filename, uploaded_by, uploaded_at)
			VALUES (?, ?, ?, ?, ?, 'system', CURRENT_TIMESTAMP)
			ON CONFLICT(name, version) DO UPDATE SET
				file_path = excluded.file_path,
				uploaded_by = 'system',
				description = excluded.description
		`, pack.Name, pack.Version, describePack(&pack), path, entry.Name())

		if err != nil {
			log.Printf("Warning: failed to seed %s: %v", pack.Name, err)
		} else {
			count++
		}
	}

	log.Printf("Seeded %d builtin packs", count)
	return nil
}

// SeedKnownEntities installs a starter set of curated entity values when
// the table is empty. Clients receive these on their first sync.
func SeedKnownEntities(db *sql.DB) error {
	var existing int
	if err := db.QueryRow("SELECT COUNT(*) FROM known_entities").Scan(&existing); err != nil {
		return fmt.Errorf("failed to count known entities: %w", err)
	}
	if existing > 0 {
		log.Printf("Known entities already seeded (%d rows)", existing)
		return nil
	}

	starter := map[string]struct{ entityType, canonical string }{
		"boeing":     {"COMPANY_NAME", "Boeing"},
		"airbus":     {"COMPANY_NAME", "Airbus"},
		"honeywell":  {"COMPANY_NAME", "Honeywell"},
		"siemens":    {"COMPANY_NAME", "Siemens"},
		"lockheed":   {"COMPANY_NAME", "Lockheed"},
		"active":     {"STATUS", "active"},
		"expired":    {"STATUS", "expired"},
		"failed":     {"STATUS", "failed"},
		"pending":    {"STATUS", "pending"},
		"usd":        {"CURRENCY", "USD"},
		"eur":        {"CURRENCY", "EUR"},
		"gbp":        {"CURRENCY", "GBP"},
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	stmt, err := tx.Prepare(`
		INSERT INTO known_entities (value, entity_type, canonical, curated_by)
		VALUES (?, ?, ?, 'system')
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	seeded := 0
	for value, e := range starter {
		if _, err := stmt.Exec(value, e.entityType, e.canonical); err == nil {
			seeded++
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}

	log.Printf("Seeded %d known entities", seeded)
	return nil
}

func describePack(pack *lexicon.Pack) string {
	total := len(pack.ValidWords) + len(pack.DomainTerms) + len(pack.Typos) +
		len(pack.Abbreviations) + len(pack.Synonyms) + len(pack.KnownEntities) +
		len(pack.ProperNouns)
	return fmt.Sprintf("%d vocabulary entries", total)
}
