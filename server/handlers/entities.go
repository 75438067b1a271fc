package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strings"
	"time"
)

// EntitySyncRequest carries entity values a client observed but could not
// type confidently.
type EntitySyncRequest struct {
	Values []string `json:"values"`
}

// CuratedEntity is a server-side curated entity record.
type CuratedEntity struct {
	Value     string `json:"value"`
	Type      string `json:"type"`
	Canonical string `json:"canonical,omitempty"`
}

// EntitySyncResponse returns curated matches plus a count of values queued
// for curation.
type EntitySyncResponse struct {
	Curated []CuratedEntity `json:"curated"`
	Queued  int             `json:"queued"`
	Message string          `json:"message"`
}

// APIEntitySync handles POST /api/entities/sync. Known values come back
// with their curated type; unknown values are recorded for curators.
func (h *Handlers) APIEntitySync(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req EntitySyncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if len(req.Values) == 0 {
		http.Error(w, "No values submitted", http.StatusBadRequest)
		return
	}
	if len(req.Values) > 200 {
		http.Error(w, "Too many values in one sync", http.StatusBadRequest)
		return
	}

	clientIP := getClientIP(r)
	resp := EntitySyncResponse{Curated: []CuratedEntity{}}

	for _, raw := range req.Values {
		value := strings.ToLower(strings.TrimSpace(raw))
		if value == "" || len(value) > 100 {
			continue
		}

		var curated CuratedEntity
		err := h.db.QueryRow(`
			SELECT value, entity_type, canonical FROM known_entities WHERE value = ?
		`, value).Scan(&curated.Value, &curated.Type, &curated.Canonical)
		switch err {
		case nil:
			resp.Curated = append(resp.Curated, curated)
		case sql.ErrNoRows:
			if _, err := h.db.Exec(`
				INSERT INTO entity_submissions (value, submitted_by, first_seen)
				VALUES (?, ?, ?)
				ON CONFLICT(value, submitted_by) DO UPDATE SET seen_count = seen_count + 1
			`, value, clientIP, time.Now().UTC()); err == nil {
				resp.Queued++
			}
		}
	}

	resp.Message = "sync complete"
	writeJSON(w, http.StatusOK, resp)
}

// APICurateEntity handles POST /api/entities. Curators promote a submitted
// value into the known-entity set; the next reload serves it to clients.
func (h *Handlers) APICurateEntity(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Value     string `json:"value"`
		Type      string `json:"type"`
		Canonical string `json:"canonical,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	value := strings.ToLower(strings.TrimSpace(req.Value))
	entityType := strings.ToUpper(strings.TrimSpace(req.Type))
	if value == "" || entityType == "" {
		http.Error(w, "Value and type are required", http.StatusBadRequest)
		return
	}

	_, err := h.db.Exec(`
		INSERT INTO known_entities (value, entity_type, canonical, curated_by)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(value) DO UPDATE SET entity_type = excluded.entity_type,
			canonical = excluded.canonical, curated_by = excluded.curated_by
	`, value, entityType, req.Canonical, h.auth.GetUsername(r))
	if err != nil {
		http.Error(w, "Failed to save entity", http.StatusInternalServerError)
		return
	}

	// Drop matching submissions now that the value is curated
	_, _ = h.db.Exec("DELETE FROM entity_submissions WHERE value = ?", value)

	writeJSON(w, http.StatusCreated, map[string]any{"success": true})
}
