// Package ui implements the interactive prompt. Free text goes through the
// parse pipeline; a handful of reserved commands inspect packs, settings and
// the parse log.
package ui

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/vinodlearning/contractnlp/internal/db"
	"github.com/vinodlearning/contractnlp/internal/interfaces"
	"github.com/vinodlearning/contractnlp/internal/lexicon"
	"github.com/vinodlearning/contractnlp/internal/registry"
	"github.com/vinodlearning/contractnlp/pkg/models"
)

// REPL represents the interactive query interface
type REPL struct {
	parser   interfaces.QueryParser
	database *db.DB
	history  []string

	// previous feeds context carry-over for follow-up queries
	previous *models.ParsedQuery

	// unresolved and candidates accumulate until the next 'sync'
	unresolved []*models.ParsedQuery
	candidates map[string]bool
}

// NewREPL creates a new REPL over the given parser and database.
func NewREPL(parser interfaces.QueryParser, database *db.DB) *REPL {
	return &REPL{
		parser:     parser,
		database:   database,
		history:    []string{},
		candidates: map[string]bool{},
	}
}

// Start begins the interactive loop
func (repl *REPL) Start() error {
	fmt.Println("contractnlp v1.0.0 - Contract Query Parser")
	fmt.Println("Type a query in plain English, 'help' for commands, 'exit' to quit")
	fmt.Println()

	reader := bufio.NewReader(os.Stdin)

	for {
		fmt.Print("> ")
		input, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		repl.history = append(repl.history, input)

		if err := repl.handleCommand(input); err != nil {
			if err.Error() == "exit" {
				fmt.Println("Goodbye!")
				return nil
			}
			fmt.Printf("Error: %v\n\n", err)
		}
	}
}

// handleCommand processes a single line of input
func (repl *REPL) handleCommand(input string) error {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return nil
	}

	switch parts[0] {
	case "help":
		return repl.showHelp()
	case "exit", "quit":
		return fmt.Errorf("exit")
	case "packs":
		return repl.handlePacksCommand(parts[1:])
	case "settings":
		return repl.showSettings()
	case "logs":
		return repl.showLogs()
	case "sync":
		return repl.syncRegistry()
	case "clear":
		repl.previous = nil
		fmt.Println("Context cleared.")
		return nil
	default:
		// Everything else is a natural language query
		return repl.handleQuery(input)
	}
}

// showHelp displays help information
func (repl *REPL) showHelp() error {
	fmt.Print(`
Available Commands:
  help                 - Show this help message
  packs list           - List installed lexicon packs
  packs import <file>  - Import a lexicon pack YAML file
  settings             - Show current settings
  logs                 - View recent parse history
  sync                 - Sync packs and entities with the registry
  clear                - Forget the previous query's context
  exit, quit           - Exit contractnlp

Natural Language:
  Anything else is parsed as a contract/parts query. Follow-up
  queries reuse the previous query's context when yours is vague.

Examples:
  > show failed parts for contract 987654
  > what's the status of contract 123456
  > contracts for boeing created after 2024-01-01
  > and the payments?
`)
	return nil
}

// handleQuery parses natural language input and explains the result
func (repl *REPL) handleQuery(input string) error {
	start := time.Now()
	result, err := repl.parser.ParseWithContext(input, repl.previous)
	if err != nil {
		return fmt.Errorf("query processing failed: %w", err)
	}
	durationMs := time.Since(start).Milliseconds()

	repl.printResult(result)

	// Strong parses become context for the next query
	repl.previous = result

	// Queue failures and unfamiliar names for the next registry sync
	if result.Intent == models.IntentUnknown && result.Message == "" {
		repl.unresolved = append(repl.unresolved, result)
	}
	if result.CustomerName != "" {
		repl.candidates[strings.ToLower(result.CustomerName)] = true
	}

	if repl.database != nil {
		if err := repl.database.LogParse(input, result, durationMs); err != nil {
			fmt.Printf("Warning: failed to log parse: %v\n", err)
		}
	}
	return nil
}

// printResult renders a ParsedQuery for the terminal
func (repl *REPL) printResult(result *models.ParsedQuery) {
	fmt.Println()
	if result.Message != "" && result.Intent == models.IntentUnknown {
		fmt.Printf("  %s\n\n", result.Message)
		return
	}

	if result.Corrected != result.Original {
		fmt.Printf("  Corrected:  %s\n", result.Corrected)
		for _, c := range result.Corrections {
			fmt.Printf("    %s -> %s (%s)\n", c.Original, c.Corrected, c.Strategy)
		}
	}
	fmt.Printf("  Intent:     %s (%.2f)\n", result.Intent, result.Confidence)
	fmt.Printf("  Action:     %s\n", result.Action)

	if result.ContractNumber != "" {
		fmt.Printf("  Contract:   %s\n", result.ContractNumber)
	}
	if result.PartNumber != "" {
		fmt.Printf("  Part:       %s\n", result.PartNumber)
	}
	if result.CustomerName != "" {
		fmt.Printf("  Customer:   %s\n", result.CustomerName)
	}
	if result.Status != "" {
		fmt.Printf("  Status:     %s\n", result.Status)
	}

	if len(result.Entities) > 0 {
		fmt.Println("  Entities:")
		for _, e := range result.Entities {
			fmt.Printf("    %-16s %s (%.2f)\n", e.Type, e.Value, e.Confidence)
		}
	}
	fmt.Println()
}

// handlePacksCommand handles lexicon pack management
func (repl *REPL) handlePacksCommand(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: packs <list|import>")
	}

	switch args[0] {
	case "list":
		return repl.listPacks()
	case "import":
		if len(args) < 2 {
			return fmt.Errorf("usage: packs import <file>")
		}
		return repl.importPack(args[1])
	default:
		return fmt.Errorf("unknown subcommand: %s", args[0])
	}
}

// listPacks lists all installed lexicon packs
func (repl *REPL) listPacks() error {
	names, err := repl.database.ListPacks()
	if err != nil {
		return fmt.Errorf("failed to list packs: %w", err)
	}

	if len(names) == 0 {
		fmt.Println("No lexicon packs installed.")
		fmt.Println("Use 'packs import <file>' to add vocabulary.")
		return nil
	}

	fmt.Printf("\nInstalled Packs (%d):\n\n", len(names))
	for _, name := range names {
		fmt.Printf("  %s\n", name)
	}
	fmt.Println()
	fmt.Println("Restart contractnlp to apply newly imported packs.")
	return nil
}

// importPack validates a pack YAML file and stores it in the database
func (repl *REPL) importPack(path string) error {
	pack, err := lexicon.LoadPack(path)
	if err != nil {
		return err
	}
	if pack.Name == "" {
		return fmt.Errorf("pack %s has no name", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read pack file: %w", err)
	}
	if err := repl.database.ImportPack(pack.Name, pack.Version, data); err != nil {
		return err
	}

	fmt.Printf("Pack %s (v%s) imported. Restart to apply.\n", pack.Name, pack.Version)
	return nil
}

// showSettings displays current settings
func (repl *REPL) showSettings() error {
	settings, err := repl.database.ListSettings()
	if err != nil {
		return fmt.Errorf("failed to query settings: %w", err)
	}

	if len(settings) == 0 {
		fmt.Println("No settings stored.")
		return nil
	}

	fmt.Println("\nCurrent Settings:")
	fmt.Println()
	for key, value := range settings {
		fmt.Printf("  %s = %s\n", key, value)
	}
	fmt.Println()
	return nil
}

// showLogs displays recent parse history
func (repl *REPL) showLogs() error {
	entries, err := repl.database.RecentParses(20)
	if err != nil {
		return fmt.Errorf("failed to query logs: %w", err)
	}

	if len(entries) == 0 {
		fmt.Println("No parses logged yet.")
		return nil
	}

	fmt.Println("\nRecent Parses:")
	fmt.Println()
	for _, e := range entries {
		fmt.Printf("  %s | %s (%.2f) | %dms\n", e.Query, e.Intent, e.Confidence, e.DurationMs)
	}
	fmt.Println()
	return nil
}

// syncRegistry pulls new packs, exchanges entity values and reports the
// queries this session could not classify.
func (repl *REPL) syncRegistry() error {
	if repl.database == nil {
		return fmt.Errorf("sync requires a database")
	}
	client := registry.NewClient(repl.database, registry.RegistryURL(repl.database))

	imported, err := client.SyncPacks()
	if err != nil {
		return fmt.Errorf("pack sync failed: %w", err)
	}
	fmt.Printf("Packs: %d imported\n", imported)

	if len(repl.candidates) > 0 {
		values := make([]string, 0, len(repl.candidates))
		for v := range repl.candidates {
			values = append(values, v)
		}
		curated, err := client.SyncEntities(values)
		if err != nil {
			return fmt.Errorf("entity sync failed: %w", err)
		}
		fmt.Printf("Entities: %d of %d confirmed as curated\n", curated, len(values))
		repl.candidates = map[string]bool{}
	}

	reported := 0
	for _, q := range repl.unresolved {
		if err := client.ReportUnresolved(q.Original, q.Confidence); err != nil {
			fmt.Printf("Warning: failed to report %q: %v\n", q.Original, err)
			continue
		}
		reported++
	}
	if reported > 0 {
		fmt.Printf("Reported %d unresolved quer%s\n", reported, plural(reported, "y", "ies"))
	}
	repl.unresolved = nil

	if imported > 0 {
		fmt.Println("Restart contractnlp to apply newly synced packs.")
	}
	return nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// ExecuteNonInteractive parses a single query and prints the result
func (repl *REPL) ExecuteNonInteractive(input string) error {
	return repl.handleQuery(input)
}
