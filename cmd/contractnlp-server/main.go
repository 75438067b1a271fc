package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vinodlearning/contractnlp/server/bootstrap"
	"github.com/vinodlearning/contractnlp/server/handlers"
	"github.com/vinodlearning/contractnlp/server/middleware"
)

var (
	version = "1.0.0"
)

func main() {
	// Load .env file if it exists
	loadEnvFile(".env")

	// Configuration with environment variable support
	port := getEnv("PORT", "8080")
	dataDir := getEnv("DATA_DIR", "./data")
	packsDir := getEnv("PACKS_DIR", "")
	adminUser := getEnv("ADMIN_USER", "admin")
	adminPass := getEnv("ADMIN_PASSWORD", "")
	githubClientID := getEnv("GITHUB_CLIENT_ID", "")
	githubClientSecret := getEnv("GITHUB_CLIENT_SECRET", "")
	baseURL := getEnv("BASE_URL", "")

	// Command-line flags override environment variables
	flag.StringVar(&port, "port", port, "Server port")
	flag.StringVar(&dataDir, "data", dataDir, "Data directory")
	flag.StringVar(&packsDir, "packs", packsDir, "Builtin lexicon packs directory to seed")
	flag.StringVar(&adminUser, "admin", adminUser, "Admin username")
	flag.StringVar(&adminPass, "password", adminPass, "Admin password (required)")
	flag.Parse()

	if adminPass == "" {
		log.Fatal("Error: Admin password is required. Set ADMIN_PASSWORD env var or use --password flag")
	}

	uploadsDir := filepath.Join(dataDir, "uploads")
	dbPath := filepath.Join(dataDir, "registry.db")

	if err := os.MkdirAll(uploadsDir, 0755); err != nil {
		log.Fatalf("Failed to create uploads directory: %v", err)
	}

	fmt.Printf("contractnlp registry v%s\n", version)
	fmt.Printf("Starting server on port %s\n", port)
	fmt.Printf("Data directory: %s\n", dataDir)
	fmt.Println()

	h := handlers.New(handlers.Config{
		UploadsDir:         uploadsDir,
		DBPath:             dbPath,
		AdminUser:          adminUser,
		AdminPass:          adminPass,
		GitHubClientID:     githubClientID,
		GitHubClientSecret: githubClientSecret,
		BaseURL:            baseURL,
	})

	// Seed builtin data, then pick up any seeded packs
	if packsDir != "" {
		if err := bootstrap.SeedBuiltinPacks(h.DB(), packsDir); err != nil {
			log.Printf("Warning: pack seeding failed: %v", err)
		}
	}
	if err := bootstrap.SeedKnownEntities(h.DB()); err != nil {
		log.Printf("Warning: entity seeding failed: %v", err)
	}
	if err := h.ReloadLexicon(); err != nil {
		log.Fatalf("Failed to build lexicon: %v", err)
	}

	mux := http.NewServeMux()

	// Public routes
	mux.HandleFunc("/health", h.HealthCheck)
	mux.HandleFunc("/api/parse", h.APIParse)
	mux.HandleFunc("/api/packs", h.APIListPacks)
	mux.HandleFunc("/packs/", h.GetPack)
	mux.HandleFunc("/api/entities/sync", h.APIEntitySync)

	// Unresolved-query reports: anyone may report, curators may list
	mux.HandleFunc("/api/unresolved", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			h.APIReportUnresolved(w, r)
			return
		}
		h.RequireAuth(h.APIListUnresolved)(w, r)
	})
	mux.HandleFunc("/api/unresolved/", h.RequireAuth(h.APIUpdateUnresolved))

	// Auth routes
	mux.HandleFunc("/login", h.Login)
	mux.HandleFunc("/logout", h.Logout)
	mux.HandleFunc("/auth/github", h.GitHubLogin)
	mux.HandleFunc("/auth/github/callback", h.GitHubCallback)

	// Curator routes
	mux.HandleFunc("/api/upload", h.RequireAuth(h.APIUpload))
	mux.HandleFunc("/api/reload", h.RequireAuth(h.APIReload))
	mux.HandleFunc("/api/entities", h.RequireAuth(h.APICurateEntity))

	// 60 requests per minute per client
	rateLimiter := middleware.NewRateLimiter(60, 1*time.Minute)

	addr := ":" + port
	if baseURL == "" {
		baseURL = "http://localhost" + addr
	}
	fmt.Printf("Server ready at %s\n", baseURL)
	fmt.Println("  - Health: /health")
	fmt.Println("  - Parse:  POST /api/parse")
	fmt.Println("  - Packs:  /api/packs")
	fmt.Println("  - Upload: POST /api/upload (requires login)")
	fmt.Println()

	if err := http.ListenAndServe(addr, rateLimiter.Limit(mux)); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// loadEnvFile loads environment variables from a .env file
func loadEnvFile(filename string) {
	file, err := os.Open(filename)
	if err != nil {
		// .env file is optional
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.Trim(strings.TrimSpace(parts[1]), "\"'")

		if os.Getenv(key) == "" {
			os.Setenv(key, value)
		}
	}
}
