// Package registry implements the client side of the lexicon registry:
// pack sync, curated entity sync, and unresolved-query reporting.
package registry

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vinodlearning/contractnlp/internal/db"
	"github.com/vinodlearning/contractnlp/internal/lexicon"
)

// Client handles communication with the lexicon registry
type Client struct {
	store       *db.DB
	registryURL string
	httpClient  *http.Client
}

// PackMetadata represents one registry pack listing entry
type PackMetadata struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description"`
	Downloads   int    `json:"downloads"`
}

// CuratedEntity is one curated entity record from the registry
type CuratedEntity struct {
	Value     string `json:"value"`
	Type      string `json:"type"`
	Canonical string `json:"canonical,omitempty"`
}

// NewClient creates a new registry client
func NewClient(store *db.DB, registryURL string) *Client {
	return &Client{
		store:       store,
		registryURL: strings.TrimSuffix(registryURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// RegistryURL retrieves the configured registry URL from settings
func RegistryURL(store *db.DB) string {
	url, err := store.GetSetting("registry_url")
	if err != nil || url == "" {
		return "http://localhost:8080"
	}
	return url
}

// SyncPacks fetches the pack list from the registry and imports every pack
// not yet stored locally. Returns the number of packs imported.
func (c *Client) SyncPacks() (int, error) {
	resp, err := c.httpClient.Get(c.registryURL + "/api/packs")
	if err != nil {
		return 0, fmt.Errorf("failed to fetch pack list: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("registry returned status %d", resp.StatusCode)
	}

	var packs []PackMetadata
	if err := json.NewDecoder(resp.Body).Decode(&packs); err != nil {
		return 0, fmt.Errorf("failed to parse pack list: %w", err)
	}

	installed, err := c.store.ListPacks()
	if err != nil {
		return 0, err
	}
	have := make(map[string]bool, len(installed))
	for _, name := range installed {
		have[name] = true
	}

	imported := 0
	for _, meta := range packs {
		if have[meta.Name] {
			continue
		}
		if err := c.downloadPack(meta); err != nil {
			return imported, fmt.Errorf("failed to sync pack %s: %w", meta.Name, err)
		}
		imported++
	}

	if err := c.store.SetSetting("last_pack_sync", fmt.Sprintf("%d", time.Now().Unix()), "unix time of the last registry sync"); err != nil {
		return imported, err
	}
	return imported, nil
}

// downloadPack fetches one pack's YAML, validates it, and stores it.
func (c *Client) downloadPack(meta PackMetadata) error {
	resp, err := c.httpClient.Get(fmt.Sprintf("%s/packs/%d", c.registryURL, meta.ID))
	if err != nil {
		return fmt.Errorf("download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("registry returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read pack: %w", err)
	}

	var pack lexicon.Pack
	if err := yaml.Unmarshal(data, &pack); err != nil {
		return fmt.Errorf("pack is not valid YAML: %w", err)
	}
	if pack.Name == "" {
		return fmt.Errorf("pack has no name")
	}

	return c.store.ImportPack(pack.Name, pack.Version, data)
}

// SyncEntities submits observed entity values and stores the curated
// matches the registry returns. Returns the number of curated entities.
func (c *Client) SyncEntities(values []string) (int, error) {
	if len(values) == 0 {
		return 0, nil
	}

	body, err := json.Marshal(map[string]any{"values": values})
	if err != nil {
		return 0, err
	}

	resp, err := c.httpClient.Post(c.registryURL+"/api/entities/sync", "application/json", bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("entity sync failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("registry returned status %d", resp.StatusCode)
	}

	var result struct {
		Curated []CuratedEntity `json:"curated"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, fmt.Errorf("failed to parse sync response: %w", err)
	}

	for _, e := range result.Curated {
		if err := c.store.UpsertKnownEntity(e.Value, e.Type, e.Canonical); err != nil {
			return 0, err
		}
	}
	return len(result.Curated), nil
}

// ReportUnresolved tells the registry about a query that classified as
// unknown so curators can extend the shared vocabulary.
func (c *Client) ReportUnresolved(query string, confidence float64) error {
	body, err := json.Marshal(map[string]any{
		"query":      query,
		"confidence": confidence,
	})
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Post(c.registryURL+"/api/unresolved", "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("report failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("registry returned status %d", resp.StatusCode)
	}
	return nil
}

// ShouldAutoSync reports whether auto-sync is enabled and due.
func (c *Client) ShouldAutoSync() bool {
	autoSync, err := c.store.GetSetting("auto_sync")
	if err != nil || autoSync != "true" {
		return false
	}

	interval := int64(86400) // 24h
	if v, err := c.store.GetSetting("sync_interval"); err == nil && v != "" {
		var parsed int64
		if _, err := fmt.Sscanf(v, "%d", &parsed); err == nil && parsed > 0 {
			interval = parsed
		}
	}

	last, err := c.store.GetSetting("last_pack_sync")
	if err != nil || last == "" {
		return true
	}
	var lastSync int64
	if _, err := fmt.Sscanf(last, "%d", &lastSync); err != nil {
		return true
	}

	return time.Now().Unix()-lastSync > interval
}
