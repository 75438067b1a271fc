package registry

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/vinodlearning/contractnlp/internal/db"
)

func newTestStore(t *testing.T) *db.DB {
	t.Helper()
	store, err := db.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func newTestRegistry(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/packs", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]PackMetadata{
			{ID: 1, Name: "aerospace", Version: "1.0"},
		})
	})
	mux.HandleFunc("/packs/1", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "name: aerospace\nversion: \"1.0\"\nvalid_words:\n  - fuselage\n")
	})
	mux.HandleFunc("/api/entities/sync", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"curated": []CuratedEntity{
				{Value: "boeing", Type: "COMPANY_NAME", Canonical: "Boeing"},
			},
			"queued": 1,
		})
	})
	mux.HandleFunc("/api/unresolved", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{"success": true})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestSyncPacks(t *testing.T) {
	store := newTestStore(t)
	srv := newTestRegistry(t)
	client := NewClient(store, srv.URL)

	imported, err := client.SyncPacks()
	if err != nil {
		t.Fatalf("SyncPacks: %v", err)
	}
	if imported != 1 {
		t.Errorf("imported = %d, want 1", imported)
	}

	names, err := store.ListPacks()
	if err != nil {
		t.Fatalf("ListPacks: %v", err)
	}
	if len(names) != 1 || names[0] != "aerospace" {
		t.Errorf("stored packs = %v, want [aerospace]", names)
	}

	// Second sync finds nothing new
	imported, err = client.SyncPacks()
	if err != nil {
		t.Fatalf("second SyncPacks: %v", err)
	}
	if imported != 0 {
		t.Errorf("second sync imported = %d, want 0", imported)
	}
}

func TestSyncEntities(t *testing.T) {
	store := newTestStore(t)
	srv := newTestRegistry(t)
	client := NewClient(store, srv.URL)

	curated, err := client.SyncEntities([]string{"boeing", "zzcorp"})
	if err != nil {
		t.Fatalf("SyncEntities: %v", err)
	}
	if curated != 1 {
		t.Errorf("curated = %d, want 1", curated)
	}

	entities, err := store.KnownEntities()
	if err != nil {
		t.Fatalf("KnownEntities: %v", err)
	}
	if entities["boeing"] != "COMPANY_NAME" {
		t.Errorf("entities = %v, want boeing -> COMPANY_NAME", entities)
	}
}

func TestReportUnresolved(t *testing.T) {
	store := newTestStore(t)
	srv := newTestRegistry(t)
	client := NewClient(store, srv.URL)

	if err := client.ReportUnresolved("frobnicate the widgets", 0.1); err != nil {
		t.Fatalf("ReportUnresolved: %v", err)
	}
}

func TestShouldAutoSync(t *testing.T) {
	store := newTestStore(t)
	client := NewClient(store, "http://localhost:8080")

	// Disabled by default
	if client.ShouldAutoSync() {
		t.Error("auto-sync must be off without the setting")
	}

	if err := store.SetSetting("auto_sync", "true", ""); err != nil {
		t.Fatalf("SetSetting: %v", err)
	}
	if !client.ShouldAutoSync() {
		t.Error("auto-sync enabled and never synced must be due")
	}

	// A fresh sync timestamp suppresses it
	srv := newTestRegistry(t)
	synced := NewClient(store, srv.URL)
	if _, err := synced.SyncPacks(); err != nil {
		t.Fatalf("SyncPacks: %v", err)
	}
	if synced.ShouldAutoSync() {
		t.Error("auto-sync must not be due right after a sync")
	}
}

func TestSyncPacksServerError(t *testing.T) {
	store := newTestStore(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(store, srv.URL)
	if _, err := client.SyncPacks(); err == nil {
		t.Error("expected error for failing registry")
	}
}
