package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vinodlearning/contractnlp/pkg/models"
)

const testPackYAML = `name: aerospace
version: "1.0"
valid_words:
  - fuselage
known_entities:
  rocketdyne: COMPANY_NAME
`

func newTestHandlers(t *testing.T) *Handlers {
	t.Helper()
	return New(Config{
		UploadsDir: t.TempDir(),
		DBPath:     filepath.Join(t.TempDir(), "registry.db"),
		AdminUser:  "admin",
		AdminPass:  "secret",
	})
}

func TestHealthCheck(t *testing.T) {
	h := newTestHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	h.HealthCheck(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status = %q, want ok", body["status"])
	}
}

func TestAPIParse(t *testing.T) {
	h := newTestHandlers(t)

	body, _ := json.Marshal(ParseRequest{Query: "show failed parts for contract 987654"})
	req := httptest.NewRequest(http.MethodPost, "/api/parse", bytes.NewReader(body))
	w := httptest.NewRecorder()
	h.APIParse(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body)
	}

	var result models.ParsedQuery
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if result.Intent != models.IntentPartFailure {
		t.Errorf("Intent = %v, want %v", result.Intent, models.IntentPartFailure)
	}
	if result.ContractNumber != "987654" {
		t.Errorf("ContractNumber = %q, want 987654", result.ContractNumber)
	}

	// The parse must be logged server-side
	var logged int
	if err := h.db.QueryRow("SELECT COUNT(*) FROM parse_logs").Scan(&logged); err != nil {
		t.Fatalf("count parse_logs: %v", err)
	}
	if logged != 1 {
		t.Errorf("parse_logs rows = %d, want 1", logged)
	}
}

func TestAPIParseRejectsGet(t *testing.T) {
	h := newTestHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/api/parse", nil)
	w := httptest.NewRecorder()
	h.APIParse(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", w.Code)
	}
}

func uploadPack(t *testing.T, h *Handlers, yaml string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("pack", "pack.yaml")
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	if _, err := fw.Write([]byte(yaml)); err != nil {
		t.Fatalf("write form: %v", err)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	h.APIUpload(w, req)
	return w
}

func TestUploadListDownload(t *testing.T) {
	h := newTestHandlers(t)

	if w := uploadPack(t, h, testPackYAML); w.Code != http.StatusCreated {
		t.Fatalf("upload status = %d, want 201: %s", w.Code, w.Body)
	}

	// Same name and version conflicts
	if w := uploadPack(t, h, testPackYAML); w.Code != http.StatusConflict {
		t.Errorf("duplicate upload status = %d, want 409", w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/packs", nil)
	w := httptest.NewRecorder()
	h.APIListPacks(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d, want 200", w.Code)
	}
	var packs []PackRecord
	if err := json.NewDecoder(w.Body).Decode(&packs); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(packs) != 1 || packs[0].Name != "aerospace" {
		t.Fatalf("packs = %+v, want one named aerospace", packs)
	}

	req = httptest.NewRequest(http.MethodGet, "/packs/1", nil)
	w = httptest.NewRecorder()
	h.GetPack(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("download status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "fuselage") {
		t.Errorf("download body missing pack content: %s", w.Body)
	}

	// The uploaded vocabulary is live without a restart
	body, _ := json.Marshal(ParseRequest{Query: "contracts for rocketdyne"})
	req = httptest.NewRequest(http.MethodPost, "/api/parse", bytes.NewReader(body))
	w = httptest.NewRecorder()
	h.APIParse(w, req)
	var result models.ParsedQuery
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if !result.HasEntity(models.EntityCompanyName) {
		t.Errorf("expected COMPANY_NAME entity from uploaded pack, got %+v", result.Entities)
	}
}

func TestUploadRejectsInvalidPack(t *testing.T) {
	h := newTestHandlers(t)

	if w := uploadPack(t, h, "version: \"1.0\"\n"); w.Code != http.StatusBadRequest {
		t.Errorf("nameless pack status = %d, want 400", w.Code)
	}
	if w := uploadPack(t, h, "not: [valid"); w.Code != http.StatusBadRequest {
		t.Errorf("invalid YAML status = %d, want 400", w.Code)
	}
}

func TestEntitySyncAndCuration(t *testing.T) {
	h := newTestHandlers(t)

	sync := func() EntitySyncResponse {
		body, _ := json.Marshal(EntitySyncRequest{Values: []string{"rocketdyne", "boeing"}})
		req := httptest.NewRequest(http.MethodPost, "/api/entities/sync", bytes.NewReader(body))
		req.RemoteAddr = "10.0.0.5:4242"
		w := httptest.NewRecorder()
		h.APIEntitySync(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("sync status = %d, want 200: %s", w.Code, w.Body)
		}
		var resp EntitySyncResponse
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		return resp
	}

	// Nothing curated yet, both values queue
	resp := sync()
	if len(resp.Curated) != 0 || resp.Queued != 2 {
		t.Fatalf("first sync = %+v, want 0 curated / 2 queued", resp)
	}

	// Curate one value
	body, _ := json.Marshal(map[string]string{
		"value": "boeing", "type": "company_name", "canonical": "Boeing",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/entities", bytes.NewReader(body))
	w := httptest.NewRecorder()
	h.APICurateEntity(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("curate status = %d, want 201: %s", w.Code, w.Body)
	}

	resp = sync()
	if len(resp.Curated) != 1 {
		t.Fatalf("second sync curated = %+v, want 1 entry", resp.Curated)
	}
	if resp.Curated[0].Value != "boeing" || resp.Curated[0].Type != "COMPANY_NAME" {
		t.Errorf("curated entry = %+v", resp.Curated[0])
	}

	// Curation cleared the matching submission
	var pending int
	if err := h.db.QueryRow("SELECT COUNT(*) FROM entity_submissions WHERE value = 'boeing'").Scan(&pending); err != nil {
		t.Fatalf("count submissions: %v", err)
	}
	if pending != 0 {
		t.Errorf("boeing submissions = %d, want 0", pending)
	}
}

func TestUnresolvedReportLifecycle(t *testing.T) {
	h := newTestHandlers(t)

	body, _ := json.Marshal(map[string]any{"query": "frobnicate the widgets", "confidence": 0.1})
	req := httptest.NewRequest(http.MethodPost, "/api/unresolved", bytes.NewReader(body))
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	w := httptest.NewRecorder()
	h.APIReportUnresolved(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("report status = %d, want 201: %s", w.Code, w.Body)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/unresolved", nil)
	w = httptest.NewRecorder()
	h.APIListUnresolved(w, req)
	var reports []UnresolvedQuery
	if err := json.NewDecoder(w.Body).Decode(&reports); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(reports) != 1 {
		t.Fatalf("open reports = %d, want 1", len(reports))
	}
	if reports[0].Query != "frobnicate the widgets" {
		t.Errorf("query = %q", reports[0].Query)
	}
	if reports[0].IPAddress != "203.0.113.9" {
		t.Errorf("ip = %q, want the first forwarded address", reports[0].IPAddress)
	}

	// Close the report
	update, _ := json.Marshal(map[string]string{"status": "closed", "notes": "added to pack"})
	req = httptest.NewRequest(http.MethodPatch, "/api/unresolved/1", bytes.NewReader(update))
	w = httptest.NewRecorder()
	h.APIUpdateUnresolved(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("update status = %d, want 200: %s", w.Code, w.Body)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/unresolved?status=open", nil)
	w = httptest.NewRecorder()
	h.APIListUnresolved(w, req)
	reports = nil
	if err := json.NewDecoder(w.Body).Decode(&reports); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(reports) != 0 {
		t.Errorf("open reports after close = %d, want 0", len(reports))
	}
}

func TestLoginAndRequireAuth(t *testing.T) {
	h := newTestHandlers(t)

	form := url.Values{"username": {"admin"}, "password": {"wrong"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	h.Login(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("bad credentials status = %d, want 401", w.Code)
	}

	form.Set("password", "secret")
	req = httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w = httptest.NewRecorder()
	h.Login(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("login status = %d, want 200: %s", w.Code, w.Body)
	}
	cookies := w.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("login set no session cookie")
	}

	protected := h.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	req = httptest.NewRequest(http.MethodGet, "/api/entities", nil)
	w = httptest.NewRecorder()
	protected(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("unauthenticated status = %d, want 401", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/entities", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w = httptest.NewRecorder()
	protected(w, req)
	if w.Code != http.StatusNoContent {
		t.Errorf("authenticated status = %d, want 204", w.Code)
	}
}

func TestGitHubLoginFlow(t *testing.T) {
	unconfigured := newTestHandlers(t)
	w := httptest.NewRecorder()
	unconfigured.GitHubLogin(w, httptest.NewRequest(http.MethodGet, "/auth/github", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("unconfigured status = %d, want 503", w.Code)
	}

	h := New(Config{
		UploadsDir:         t.TempDir(),
		DBPath:             filepath.Join(t.TempDir(), "registry.db"),
		AdminUser:          "admin",
		AdminPass:          "secret",
		GitHubClientID:     "client-id",
		GitHubClientSecret: "client-secret",
		BaseURL:            "http://localhost:8080",
	})

	w = httptest.NewRecorder()
	h.GitHubLogin(w, httptest.NewRequest(http.MethodGet, "/auth/github", nil))
	if w.Code != http.StatusTemporaryRedirect {
		t.Fatalf("login status = %d, want 307", w.Code)
	}
	loc := w.Header().Get("Location")
	if !strings.Contains(loc, "github.com") || !strings.Contains(loc, "state=") {
		t.Errorf("redirect location = %q", loc)
	}
	var state string
	for _, c := range w.Result().Cookies() {
		if c.Name == stateCookieName {
			state = c.Value
		}
	}
	if state == "" {
		t.Fatal("state cookie not set")
	}

	// A callback whose state does not match the cookie must be rejected
	// before any token exchange happens.
	req := httptest.NewRequest(http.MethodGet, "/auth/github/callback?state=forged&code=x", nil)
	req.AddCookie(&http.Cookie{Name: stateCookieName, Value: state})
	w = httptest.NewRecorder()
	h.GitHubCallback(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("forged state status = %d, want 400", w.Code)
	}
}
