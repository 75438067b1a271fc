package handlers

import (
	"crypto/rand"
	"encoding/base64"
	"log"
	"net/http"
)

const stateCookieName = "oauth_state"

// GitHubLogin starts the OAuth flow: it plants the CSRF state cookie and
// sends the curator to GitHub.
func (h *Handlers) GitHubLogin(w http.ResponseWriter, r *http.Request) {
	if h.github == nil {
		http.Error(w, "GitHub login not configured", http.StatusServiceUnavailable)
		return
	}

	state := randomState()
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/",
		HttpOnly: true,
		MaxAge:   600,
	})

	http.Redirect(w, r, h.github.LoginURL(state), http.StatusTemporaryRedirect)
}

// GitHubCallback finishes the OAuth flow: it checks the state echo, trades
// the code for the curator's profile and opens a session for it.
func (h *Handlers) GitHubCallback(w http.ResponseWriter, r *http.Request) {
	if h.github == nil {
		http.Error(w, "GitHub login not configured", http.StatusServiceUnavailable)
		return
	}

	cookie, err := r.Cookie(stateCookieName)
	if err != nil || cookie.Value == "" || r.URL.Query().Get("state") != cookie.Value {
		http.Error(w, "State mismatch", http.StatusBadRequest)
		return
	}
	http.SetCookie(w, &http.Cookie{Name: stateCookieName, Value: "", Path: "/", MaxAge: -1})

	code := r.URL.Query().Get("code")
	if code == "" {
		http.Error(w, "Missing code", http.StatusBadRequest)
		return
	}

	user, err := h.github.Exchange(r.Context(), code)
	if err != nil {
		log.Printf("GitHub login failed: %v", err)
		http.Error(w, "GitHub login failed", http.StatusInternalServerError)
		return
	}

	h.auth.SetGitHubSession(w, user)
	log.Printf("Curator %s logged in via GitHub", user.Login)

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// randomState produces the one-shot CSRF token tying the callback to the
// browser that started the flow.
func randomState() string {
	b := make([]byte, 32)
	rand.Read(b)
	return base64.URLEncoding.EncodeToString(b)
}
