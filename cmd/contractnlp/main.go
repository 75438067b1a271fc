package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vinodlearning/contractnlp/internal/config"
	"github.com/vinodlearning/contractnlp/internal/db"
	"github.com/vinodlearning/contractnlp/internal/interfaces"
	"github.com/vinodlearning/contractnlp/internal/lexicon"
	"github.com/vinodlearning/contractnlp/internal/ml"
	"github.com/vinodlearning/contractnlp/internal/pipeline"
	"github.com/vinodlearning/contractnlp/internal/registry"
	"github.com/vinodlearning/contractnlp/internal/ui"
	"github.com/vinodlearning/contractnlp/pkg/models"
)

var (
	version     = "1.0.0"
	configPath  string
	dbPath      string
	initDB      bool
	resetDB     bool
	loadDir     string
	useTagger   bool
	showVersion bool
)

func init() {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	defaultDBPath := filepath.Join(homeDir, ".contractnlp", "contractnlp.db")
	defaultConfigPath := filepath.Join(homeDir, ".contractnlp", "config.yaml")

	flag.StringVar(&configPath, "config", defaultConfigPath, "Path to configuration file")
	flag.StringVar(&dbPath, "db", defaultDBPath, "Path to SQLite database")
	flag.BoolVar(&initDB, "init", false, "Initialize database and load lexicon packs")
	flag.BoolVar(&resetDB, "reset", false, "Reset database (delete and reinitialize)")
	flag.StringVar(&loadDir, "load", "", "Load lexicon packs from directory")
	flag.BoolVar(&useTagger, "tagger", false, "Use the model-backed part-of-speech tagger")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
}

func main() {
	flag.Parse()

	if showVersion {
		fmt.Printf("contractnlp v%s\n", version)
		fmt.Println("Natural language front end for contract queries")
		return
	}

	// Load configuration (creates with defaults if doesn't exist)
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if dbPath == filepath.Join(os.Getenv("HOME"), ".contractnlp", "contractnlp.db") && cfg.DBPath != "" {
		dbPath = cfg.DBPath
	}
	if useTagger {
		cfg.UseTagger = true
	}

	if resetDB {
		if err := resetDatabase(dbPath, loadDir); err != nil {
			log.Fatalf("Reset failed: %v", err)
		}
		return
	}

	database, err := db.New(dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer database.Close()

	if initDB {
		if err := initializeDB(database, loadDir); err != nil {
			log.Fatalf("Initialization failed: %v", err)
		}
		return
	}

	if loadDir != "" {
		if err := loadPacksFromDir(database, loadDir); err != nil {
			log.Fatalf("Failed to load packs: %v", err)
		}
		return
	}

	// Opt-in pack sync before the lexicon is built so fresh vocabulary
	// applies to this session
	client := registry.NewClient(database, registry.RegistryURL(database))
	if client.ShouldAutoSync() {
		if n, err := client.SyncPacks(); err != nil {
			fmt.Printf("Warning: pack sync failed: %v\n", err)
		} else if n > 0 {
			fmt.Printf("Synced %d new pack(s) from registry\n", n)
		}
	}

	lex, err := buildLexicon(cfg, database)
	if err != nil {
		log.Fatalf("Failed to build lexicon: %v", err)
	}

	tokenizer, tagger, cleanup, err := buildTagger(cfg)
	if err != nil {
		log.Fatalf("Failed to load tagger: %v", err)
	}
	defer cleanup()

	parser := pipeline.New(cfg, lex, tokenizer, tagger)
	repl := ui.NewREPL(parser, database)

	// Non-interactive mode: join the args into one query
	args := flag.Args()
	if len(args) > 0 {
		query := strings.Join(args, " ")
		if err := repl.ExecuteNonInteractive(query); err != nil {
			log.Fatalf("Query failed: %v", err)
		}
		return
	}

	if err := repl.Start(); err != nil {
		log.Fatalf("REPL error: %v", err)
	}
}

// buildLexicon merges the built-in defaults with stored and configured packs.
func buildLexicon(cfg *config.Config, database *db.DB) (*lexicon.Lexicon, error) {
	b := lexicon.NewBuilder()

	names, err := database.ListPacks()
	if err != nil {
		return nil, fmt.Errorf("failed to list packs: %w", err)
	}
	for _, name := range names {
		data, err := database.GetPack(name)
		if err != nil {
			return nil, err
		}
		var pack lexicon.Pack
		if err := yaml.Unmarshal(data, &pack); err != nil {
			return nil, fmt.Errorf("stored pack %s is invalid: %w", name, err)
		}
		b.MergePack(&pack)
	}

	for _, path := range cfg.PackPaths {
		pack, err := lexicon.LoadPack(path)
		if err != nil {
			return nil, err
		}
		b.MergePack(pack)
	}

	// Curated entities synced from the registry resolve ahead of heuristics
	entities, err := database.KnownEntities()
	if err != nil {
		return nil, fmt.Errorf("failed to load known entities: %w", err)
	}
	for value, entityType := range entities {
		b.AddKnownEntity(value, models.EntityType(entityType))
	}

	return b.Build(), nil
}

// buildTagger returns the configured tokenizer/tagger pair. With the model
// tagger disabled both are nil and the pipeline falls back to shape-based
// defaults.
func buildTagger(cfg *config.Config) (interfaces.Tokenizer, interfaces.Tagger, func(), error) {
	if !cfg.UseTagger {
		return nil, nil, func() {}, nil
	}

	engine := ml.NewTaggerEngine(cfg.ModelDir)
	if err := engine.Load(); err != nil {
		return nil, nil, nil, err
	}
	cleanup := func() {
		if err := engine.Close(); err != nil {
			log.Printf("Warning: tagger close failed: %v", err)
		}
	}
	return engine, engine, cleanup, nil
}

// initializeDB initializes the database and optionally loads packs
func initializeDB(database *db.DB, packsDir string) error {
	fmt.Println("Initializing contractnlp...")

	// Database is already migrated in db.New()
	fmt.Println("Database initialized")

	if packsDir != "" {
		if err := loadPacksFromDir(database, packsDir); err != nil {
			return fmt.Errorf("failed to load packs: %w", err)
		}
	} else {
		// Try the default location
		defaultDir := "packs"
		if _, err := os.Stat(defaultDir); err == nil {
			if err := loadPacksFromDir(database, defaultDir); err != nil {
				fmt.Printf("Warning: failed to load default packs: %v\n", err)
			}
		}
	}

	fmt.Println("\ncontractnlp initialized successfully!")
	fmt.Println("Run 'contractnlp' to start the interactive parser.")
	return nil
}

// resetDatabase deletes and reinitializes the database
func resetDatabase(dbPath string, packsDir string) error {
	fmt.Println("Resetting contractnlp database...")
	fmt.Printf("Database: %s\n", dbPath)

	if _, err := os.Stat(dbPath); err == nil {
		fmt.Print("\nThis will delete all imported packs, settings and parse logs. Continue? [y/N]: ")
		var response string
		_, _ = fmt.Scanln(&response)
		response = strings.ToLower(response)
		if response != "y" && response != "yes" {
			fmt.Println("Reset cancelled.")
			return nil
		}

		if err := os.Remove(dbPath); err != nil {
			return fmt.Errorf("failed to delete database: %w", err)
		}
		fmt.Println("Database deleted")
	} else {
		fmt.Println("Database doesn't exist, creating new one...")
	}

	database, err := db.New(dbPath)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer database.Close()

	fmt.Println("Database recreated")

	if packsDir != "" {
		if err := loadPacksFromDir(database, packsDir); err != nil {
			return fmt.Errorf("failed to load packs: %w", err)
		}
	}

	fmt.Println("\nDatabase reset successfully!")
	return nil
}

// loadPacksFromDir imports all YAML lexicon packs from a directory
func loadPacksFromDir(database *db.DB, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read directory: %w", err)
	}

	loadedCount := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		if filepath.Ext(name) != ".yaml" && filepath.Ext(name) != ".yml" {
			continue
		}

		path := filepath.Join(dir, name)
		fmt.Printf("Loading %s... ", name)

		pack, err := lexicon.LoadPack(path)
		if err != nil {
			fmt.Printf("error: %v\n", err)
			continue
		}
		if pack.Name == "" {
			fmt.Println("skipped: pack has no name")
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Printf("error: %v\n", err)
			continue
		}
		if err := database.ImportPack(pack.Name, pack.Version, data); err != nil {
			fmt.Printf("import failed: %v\n", err)
			continue
		}

		fmt.Printf("ok: %s (v%s)\n", pack.Name, pack.Version)
		loadedCount++
	}

	if loadedCount == 0 {
		fmt.Println("No packs loaded.")
	} else {
		fmt.Printf("\nLoaded %d pack(s)\n", loadedCount)
	}

	return nil
}
