package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"
)

// ParseRequest is the body of POST /api/parse.
type ParseRequest struct {
	Query string `json:"query"`
}

// APIParse runs the hosted pipeline over one query and returns the
// structured result.
func (h *Handlers) APIParse(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req ParseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}
	if len(req.Query) > 1000 {
		http.Error(w, "Query too long", http.StatusBadRequest)
		return
	}

	start := time.Now()
	result, err := h.parser.Load().Parse(req.Query)
	if err != nil {
		log.Printf("Parse error: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	durationMs := time.Since(start).Milliseconds()

	// Logging failures never fail the request
	if _, err := h.db.Exec(`
		INSERT INTO parse_logs (query, intent, action, confidence, duration_ms)
		VALUES (?, ?, ?, ?, ?)
	`, req.Query, string(result.Intent), string(result.Action), result.Confidence, durationMs); err != nil {
		log.Printf("Warning: failed to log parse: %v", err)
	}

	writeJSON(w, http.StatusOK, result)
}
