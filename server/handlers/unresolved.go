package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"
)

// UnresolvedQuery is a client-reported query that classified as UNKNOWN.
// Curators mine these for vocabulary missing from the packs.
type UnresolvedQuery struct {
	ID         int64     `json:"id"`
	Query      string    `json:"query"`
	Confidence float64   `json:"confidence"`
	IPAddress  string    `json:"ip_address,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	Status     string    `json:"status"`
	Notes      string    `json:"notes,omitempty"`
}

// APIReportUnresolved handles POST /api/unresolved. Clients call it when a
// query parses with unknown intent so the shared lexicon can grow.
func (h *Handlers) APIReportUnresolved(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Query      string  `json:"query"`
		Confidence float64 `json:"confidence"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	query := strings.TrimSpace(req.Query)
	if query == "" {
		http.Error(w, "Query is required", http.StatusBadRequest)
		return
	}

	result, err := h.db.Exec(`
		INSERT INTO unresolved_queries (query, confidence, ip_address)
		VALUES (?, ?, ?)
	`, query, req.Confidence, getClientIP(r))
	if err != nil {
		log.Printf("Failed to insert unresolved query: %v", err)
		http.Error(w, "Failed to save report", http.StatusInternalServerError)
		return
	}

	reportID, _ := result.LastInsertId()
	writeJSON(w, http.StatusCreated, map[string]any{
		"success":   true,
		"report_id": reportID,
		"status":    "open",
	})
}

// APIListUnresolved returns reported queries for curators, filtered by
// status (default "open").
func (h *Handlers) APIListUnresolved(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status == "" {
		status = "open"
	}

	var (
		query = `
			SELECT id, query, confidence, ip_address, created_at, status, notes
			FROM unresolved_queries
			ORDER BY created_at DESC
			LIMIT 500
		`
		args []any
	)
	if status != "all" {
		query = `
			SELECT id, query, confidence, ip_address, created_at, status, notes
			FROM unresolved_queries
			WHERE status = ?
			ORDER BY created_at DESC
			LIMIT 500
		`
		args = append(args, status)
	}

	rows, err := h.db.Query(query, args...)
	if err != nil {
		http.Error(w, "Failed to fetch reports", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	reports := []UnresolvedQuery{}
	for rows.Next() {
		var u UnresolvedQuery
		if err := rows.Scan(&u.ID, &u.Query, &u.Confidence, &u.IPAddress, &u.CreatedAt, &u.Status, &u.Notes); err != nil {
			log.Printf("Error scanning row: %v", err)
			continue
		}
		reports = append(reports, u)
	}

	writeJSON(w, http.StatusOK, reports)
}

// APIUpdateUnresolved handles PUT/PATCH /api/unresolved/{id} so curators can
// close reports or attach notes.
func (h *Handlers) APIUpdateUnresolved(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut && r.Method != http.MethodPatch {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	idPart := strings.TrimPrefix(r.URL.Path, "/api/unresolved/")
	reportID, err := parseID(idPart)
	if err != nil {
		http.Error(w, "Invalid report ID", http.StatusBadRequest)
		return
	}

	var update struct {
		Status *string `json:"status,omitempty"`
		Notes  *string `json:"notes,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	var sets []string
	var args []any
	if update.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, *update.Status)
	}
	if update.Notes != nil {
		sets = append(sets, "notes = ?")
		args = append(args, *update.Notes)
	}
	if len(sets) == 0 {
		http.Error(w, "No fields to update", http.StatusBadRequest)
		return
	}

	args = append(args, reportID)
	stmt := fmt.Sprintf("UPDATE unresolved_queries SET %s WHERE id = ?", strings.Join(sets, ", "))
	if _, err := h.db.Exec(stmt, args...); err != nil {
		log.Printf("Failed to update report: %v", err)
		http.Error(w, "Failed to update report", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// getClientIP extracts the client IP address from the request
func getClientIP(r *http.Request) string {
	// X-Forwarded-For holds the original client first when set by a proxy
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		ips := strings.Split(xff, ",")
		return strings.TrimSpace(ips[0])
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	ip := r.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}
