// Package handlers implements the lexicon-registry HTTP API: hosted query
// parsing, lexicon pack distribution, and curator endpoints for extending
// the shared vocabulary.
package handlers

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite"

	"gopkg.in/yaml.v3"

	"github.com/vinodlearning/contractnlp/internal/config"
	"github.com/vinodlearning/contractnlp/internal/lexicon"
	"github.com/vinodlearning/contractnlp/internal/pipeline"
	"github.com/vinodlearning/contractnlp/pkg/models"
	"github.com/vinodlearning/contractnlp/server/auth"
	"github.com/vinodlearning/contractnlp/server/migrations"
)

type Config struct {
	UploadsDir         string
	DBPath             string
	AdminUser          string
	AdminPass          string
	GitHubClientID     string
	GitHubClientSecret string
	BaseURL            string
}

type Handlers struct {
	config Config
	db     *sql.DB
	auth   *auth.Manager
	github *auth.GitHubProvider

	// parser is swapped atomically on reload; requests always see a
	// complete lexicon snapshot.
	parser atomic.Pointer[pipeline.Pipeline]
}

// PackRecord is one registry row for a lexicon pack.
type PackRecord struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Version     string    `json:"version"`
	Description string    `json:"description"`
	UploadedAt  time.Time `json:"uploaded_at"`
	UploadedBy  string    `json:"uploaded_by"`
	FilePath    string    `json:"-"`
	Downloads   int       `json:"downloads"`
}

func New(cfg Config) *Handlers {
	db, err := sql.Open("sqlite", cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	db.SetMaxOpenConns(1)

	schema, err := migrations.GetInitialSchema()
	if err != nil {
		log.Fatalf("Failed to load schema: %v", err)
	}
	if _, err := db.Exec(schema); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	h := &Handlers{
		config: cfg,
		db:     db,
		auth:   auth.NewManager(cfg.AdminUser, cfg.AdminPass),
	}

	h.github = auth.NewGitHubProvider(
		cfg.GitHubClientID,
		cfg.GitHubClientSecret,
		strings.TrimRight(cfg.BaseURL, "/")+"/auth/github/callback",
	)

	if err := h.ReloadLexicon(); err != nil {
		log.Fatalf("Failed to build lexicon: %v", err)
	}

	return h
}

// DB exposes the registry database for bootstrap seeding.
func (h *Handlers) DB() *sql.DB {
	return h.db
}

// ReloadLexicon rebuilds the lexicon snapshot from the built-in defaults
// plus every stored pack and curated entity, then swaps the parser.
func (h *Handlers) ReloadLexicon() error {
	b := lexicon.NewBuilder()

	rows, err := h.db.Query("SELECT file_path FROM packs ORDER BY uploaded_at, id")
	if err != nil {
		return fmt.Errorf("failed to list packs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return fmt.Errorf("failed to scan pack row: %w", err)
		}
		pack, err := lexicon.LoadPack(path)
		if err != nil {
			log.Printf("Warning: skipping pack %s: %v", path, err)
			continue
		}
		b.MergePack(pack)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	entityRows, err := h.db.Query("SELECT value, entity_type FROM known_entities")
	if err != nil {
		return fmt.Errorf("failed to list known entities: %w", err)
	}
	defer entityRows.Close()
	for entityRows.Next() {
		var value, entityType string
		if err := entityRows.Scan(&value, &entityType); err != nil {
			return fmt.Errorf("failed to scan entity row: %w", err)
		}
		b.AddKnownEntity(value, models.EntityType(entityType))
	}
	if err := entityRows.Err(); err != nil {
		return err
	}

	h.parser.Store(pipeline.New(config.Default(), b.Build(), nil, nil))
	return nil
}

// HealthCheck reports server liveness.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// APIListPacks returns all registered lexicon packs as JSON.
func (h *Handlers) APIListPacks(w http.ResponseWriter, r *http.Request) {
	rows, err := h.db.Query(`
		SELECT id, name, version, description, uploaded_at, uploaded_by, downloads
		FROM packs
		ORDER BY uploaded_at DESC
	`)
	if err != nil {
		log.Printf("Database error: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	packs := []PackRecord{}
	for rows.Next() {
		var p PackRecord
		if err := rows.Scan(&p.ID, &p.Name, &p.Version, &p.Description, &p.UploadedAt, &p.UploadedBy, &p.Downloads); err != nil {
			log.Printf("Scan error: %v", err)
			continue
		}
		packs = append(packs, p)
	}

	writeJSON(w, http.StatusOK, packs)
}

// GetPack serves a pack's YAML for download, e.g. GET /packs/123.
func (h *Handlers) GetPack(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) != 2 {
		http.NotFound(w, r)
		return
	}

	packID := parts[1]
	var p PackRecord
	err := h.db.QueryRow(`
		SELECT id, name, version, file_path, downloads
		FROM packs
		WHERE id = ?
	`, packID).Scan(&p.ID, &p.Name, &p.Version, &p.FilePath, &p.Downloads)

	if err == sql.ErrNoRows {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		log.Printf("Database error: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	_, _ = h.db.Exec("UPDATE packs SET downloads = downloads + 1 WHERE id = ?", p.ID)

	w.Header().Set("Content-Type", "application/x-yaml")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s-%s.yaml", p.Name, p.Version))
	http.ServeFile(w, r, p.FilePath)
}

// APIUpload accepts a lexicon pack YAML upload from a curator.
func (h *Handlers) APIUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// 10MB is generous for a vocabulary file
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "File too large", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("pack")
	if err != nil {
		http.Error(w, "Missing pack file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "Failed to read file", http.StatusInternalServerError)
		return
	}

	var pack lexicon.Pack
	if err := yaml.Unmarshal(data, &pack); err != nil {
		http.Error(w, fmt.Sprintf("Invalid YAML: %v", err), http.StatusBadRequest)
		return
	}
	if pack.Name == "" || pack.Version == "" {
		http.Error(w, "Pack must have name and version", http.StatusBadRequest)
		return
	}

	var exists int
	err = h.db.QueryRow("SELECT COUNT(*) FROM packs WHERE name = ? AND version = ?",
		pack.Name, pack.Version).Scan(&exists)
	if err == nil && exists > 0 {
		http.Error(w, "Pack with this name and version already exists", http.StatusConflict)
		return
	}

	filename := fmt.Sprintf("%s-%s-%d.yaml", pack.Name, pack.Version, time.Now().Unix())
	path := filepath.Join(h.config.UploadsDir, filename)

	if err := os.WriteFile(path, data, 0644); err != nil {
		http.Error(w, "Failed to save file", http.StatusInternalServerError)
		return
	}

	username := h.auth.GetUsername(r)
	_, err = h.db.Exec(`
		INSERT INTO packs (name, version, description, uploaded_by, file_path, original_filename)
		VALUES (?, ?, ?, ?, ?, ?)
	`, pack.Name, pack.Version, packDescription(&pack), username, path, header.Filename)
	if err != nil {
		log.Printf("Database insert error: %v", err)
		http.Error(w, "Failed to save pack", http.StatusInternalServerError)
		return
	}

	// New vocabulary takes effect immediately
	if err := h.ReloadLexicon(); err != nil {
		log.Printf("Warning: lexicon reload after upload failed: %v", err)
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": fmt.Sprintf("Pack %s v%s uploaded", pack.Name, pack.Version),
	})
}

// APIReload rebuilds the lexicon snapshot on demand.
func (h *Handlers) APIReload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := h.ReloadLexicon(); err != nil {
		log.Printf("Reload error: %v", err)
		http.Error(w, "Reload failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// Login handles admin authentication via form credentials.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	username := r.FormValue("username")
	password := r.FormValue("password")

	if !h.auth.Authenticate(username, password) {
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	h.auth.SetSession(w, username)
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "username": username})
}

// Logout clears session
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	h.auth.ClearSession(w)
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// RequireAuth middleware
func (h *Handlers) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !h.auth.IsAuthenticated(r) {
			http.Error(w, "Authentication required", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

// packDescription summarizes a pack's contents for the registry listing.
func packDescription(pack *lexicon.Pack) string {
	total := len(pack.ValidWords) + len(pack.DomainTerms) + len(pack.Typos) +
		len(pack.Abbreviations) + len(pack.Synonyms) + len(pack.KnownEntities) +
		len(pack.ProperNouns)
	return fmt.Sprintf("%d vocabulary entries", total)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("JSON encode error: %v", err)
	}
}

func parseID(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}
