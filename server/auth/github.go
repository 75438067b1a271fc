package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

const githubProfileURL = "https://api.github.com/user"

// GitHubUser is the slice of the GitHub profile the session layer keys on.
type GitHubUser struct {
	Login string `json:"login"`
	Name  string `json:"name"`
}

// GitHubProvider drives the curator login flow against GitHub. A nil
// provider means OAuth login is not configured and only the admin
// credential pair works.
type GitHubProvider struct {
	conf *oauth2.Config
}

// NewGitHubProvider builds a provider from the app credentials. Returns nil
// when either credential is missing.
func NewGitHubProvider(clientID, clientSecret, redirectURL string) *GitHubProvider {
	if clientID == "" || clientSecret == "" {
		return nil
	}
	return &GitHubProvider{
		conf: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"read:user"},
			Endpoint:     github.Endpoint,
		},
	}
}

// LoginURL returns the GitHub authorization URL carrying the CSRF state.
func (p *GitHubProvider) LoginURL(state string) string {
	return p.conf.AuthCodeURL(state)
}

// Exchange trades the callback code for the logged-in curator's profile.
func (p *GitHubProvider) Exchange(ctx context.Context, code string) (*GitHubUser, error) {
	token, err := p.conf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange code: %w", err)
	}

	resp, err := p.conf.Client(ctx, token).Get(githubProfileURL)
	if err != nil {
		return nil, fmt.Errorf("fetch profile: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("github profile request returned %d", resp.StatusCode)
	}

	var user GitHubUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	if user.Login == "" {
		return nil, fmt.Errorf("github profile has no login")
	}
	return &user, nil
}
