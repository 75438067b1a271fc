package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	_ "modernc.org/sqlite"
)

// Admin tool for curating the lexicon registry database.
// Usage: curate --db=data/registry.db --list
//        curate --db=data/registry.db --promote=boeing --type=COMPANY_NAME --canonical=Boeing
//        curate --db=data/registry.db --close=42 --notes="added to aerospace pack"

var (
	dbPath    = flag.String("db", "data/registry.db", "Path to registry database")
	list      = flag.Bool("list", false, "List open unresolved queries and pending entity submissions")
	promote   = flag.String("promote", "", "Entity value to promote into the curated set")
	entType   = flag.String("type", "", "Entity type for --promote (e.g. COMPANY_NAME, STATUS)")
	canonical = flag.String("canonical", "", "Canonical casing for --promote")
	closeID   = flag.Int64("close", 0, "Unresolved query ID to close")
	notes     = flag.String("notes", "", "Notes to attach when closing a report")
	dryRun    = flag.Bool("dry-run", false, "Show what would be done without saving")
)

func main() {
	flag.Parse()

	db, err := sql.Open("sqlite", *dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	switch {
	case *list:
		listPending(db)
	case *promote != "":
		promoteEntity(db, *promote, *entType, *canonical)
	case *closeID != 0:
		closeReport(db, *closeID, *notes)
	default:
		fmt.Println("Usage:")
		fmt.Println("  --list                              # Show open reports and submissions")
		fmt.Println("  --promote=VALUE --type=TYPE         # Curate an entity value")
		fmt.Println("  --close=ID [--notes=...]            # Close an unresolved query report")
		fmt.Println("  --dry-run                           # Test without saving")
		os.Exit(1)
	}
}

func listPending(db *sql.DB) {
	fmt.Println("Open unresolved queries:")
	rows, err := db.Query(`
		SELECT id, query, confidence, created_at
		FROM unresolved_queries
		WHERE status = 'open'
		ORDER BY created_at DESC
		LIMIT 50
	`)
	if err != nil {
		log.Fatalf("Failed to query reports: %v", err)
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var id int64
		var query, createdAt string
		var confidence float64
		if err := rows.Scan(&id, &query, &confidence, &createdAt); err != nil {
			continue
		}
		fmt.Printf("  #%d  %q (%.2f)  %s\n", id, query, confidence, createdAt)
		count++
	}
	if count == 0 {
		fmt.Println("  (none)")
	}

	fmt.Println("\nPending entity submissions:")
	subRows, err := db.Query(`
		SELECT value, SUM(seen_count) AS total
		FROM entity_submissions
		GROUP BY value
		ORDER BY total DESC
		LIMIT 50
	`)
	if err != nil {
		log.Fatalf("Failed to query submissions: %v", err)
	}
	defer subRows.Close()

	count = 0
	for subRows.Next() {
		var value string
		var total int
		if err := subRows.Scan(&value, &total); err != nil {
			continue
		}
		fmt.Printf("  %-30s seen %d times\n", value, total)
		count++
	}
	if count == 0 {
		fmt.Println("  (none)")
	}
}

func promoteEntity(db *sql.DB, value, entityType, canonical string) {
	value = strings.ToLower(strings.TrimSpace(value))
	entityType = strings.ToUpper(strings.TrimSpace(entityType))
	if entityType == "" {
		log.Fatal("Error: --type is required with --promote")
	}

	if *dryRun {
		fmt.Printf("Would promote %q as %s (canonical %q)\n", value, entityType, canonical)
		return
	}

	_, err := db.Exec(`
		INSERT INTO known_entities (value, entity_type, canonical, curated_by)
		VALUES (?, ?, ?, 'curate-cli')
		ON CONFLICT(value) DO UPDATE SET entity_type = excluded.entity_type,
			canonical = excluded.canonical
	`, value, entityType, canonical)
	if err != nil {
		log.Fatalf("Failed to promote entity: %v", err)
	}

	if _, err := db.Exec("DELETE FROM entity_submissions WHERE value = ?", value); err != nil {
		log.Printf("Warning: failed to clear submissions: %v", err)
	}

	fmt.Printf("Promoted %q as %s\n", value, entityType)
	fmt.Println("Reload the server lexicon to serve it: POST /api/reload")
}

func closeReport(db *sql.DB, id int64, notes string) {
	if *dryRun {
		fmt.Printf("Would close report #%d (notes %q)\n", id, notes)
		return
	}

	res, err := db.Exec(`
		UPDATE unresolved_queries SET status = 'closed', notes = ? WHERE id = ?
	`, notes, id)
	if err != nil {
		log.Fatalf("Failed to close report: %v", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		log.Fatalf("No report with id %d", id)
	}
	fmt.Printf("Closed report #%d\n", id)
}
