package auth

import (
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"sync"
	"time"
)

// Manager tracks curator sessions. Sessions come from either the admin
// credential pair or a completed GitHub OAuth flow.
type Manager struct {
	adminUser string
	adminPass string
	sessions  map[string]*Session
	mu        sync.RWMutex
}

// Session is one logged-in curator.
type Session struct {
	Username  string
	GitHub    bool
	CreatedAt time.Time
	ExpiresAt time.Time
}

const (
	sessionCookie = "contractnlp_session"
	sessionTTL    = 24 * time.Hour
)

// NewManager creates a session manager with the given admin credentials.
func NewManager(adminUser, adminPass string) *Manager {
	m := &Manager{
		adminUser: adminUser,
		adminPass: adminPass,
		sessions:  make(map[string]*Session),
	}

	go m.cleanupExpiredSessions()

	return m
}

// Authenticate checks the admin credential pair.
func (m *Manager) Authenticate(username, password string) bool {
	return username == m.adminUser && password == m.adminPass
}

// SetSession creates a new session for an admin login.
func (m *Manager) SetSession(w http.ResponseWriter, username string) {
	m.createSession(w, &Session{
		Username:  username,
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(sessionTTL),
	})
}

// SetGitHubSession creates a session for a completed GitHub OAuth login.
func (m *Manager) SetGitHubSession(w http.ResponseWriter, user *GitHubUser) {
	m.createSession(w, &Session{
		Username:  user.Login,
		GitHub:    true,
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(sessionTTL),
	})
}

func (m *Manager) createSession(w http.ResponseWriter, session *Session) {
	token := m.generateToken()

	m.mu.Lock()
	m.sessions[token] = session
	m.mu.Unlock()

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   false, // Set to true in production with HTTPS
		MaxAge:   int(sessionTTL.Seconds()),
	})
}

// ClearSession removes a session
func (m *Manager) ClearSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

// IsAuthenticated checks if request has valid session
func (m *Manager) IsAuthenticated(r *http.Request) bool {
	return m.lookup(r) != nil
}

// GetUsername returns username from session
func (m *Manager) GetUsername(r *http.Request) string {
	if s := m.lookup(r); s != nil {
		return s.Username
	}
	return ""
}

func (m *Manager) lookup(r *http.Request) *Session {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil {
		return nil
	}

	m.mu.RLock()
	session, exists := m.sessions[cookie.Value]
	m.mu.RUnlock()

	if !exists {
		return nil
	}
	if time.Now().After(session.ExpiresAt) {
		m.mu.Lock()
		delete(m.sessions, cookie.Value)
		m.mu.Unlock()
		return nil
	}
	return session
}

// generateToken creates a random session token
func (m *Manager) generateToken() string {
	b := make([]byte, 32)
	rand.Read(b)
	return base64.URLEncoding.EncodeToString(b)
}

// cleanupExpiredSessions removes old sessions periodically
func (m *Manager) cleanupExpiredSessions() {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		m.mu.Lock()
		for token, session := range m.sessions {
			if now.After(session.ExpiresAt) {
				delete(m.sessions, token)
			}
		}
		m.mu.Unlock()
	}
}
