// Package oauth drives the Google authorization-code flow: building the
// consent URL with the round-trip state blob, exchanging the code and
// fetching the userinfo profile.
package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/rohitmp45/ai-interview/internal/domain"
)

const userInfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"

// Google performs the OAuth2 authorization-code flow against Google.
type Google struct {
	clientID     string
	clientSecret string
	redirectURI  string
	endpoint     oauth2.Endpoint
	userInfoURL  string
}

// NewGoogle creates a Google authenticator. redirectURI may be empty, in
// which case it is derived per request from forwarded headers.
func NewGoogle(clientID, clientSecret, redirectURI string) *Google {
	return &Google{
		clientID:     clientID,
		clientSecret: clientSecret,
		redirectURI:  redirectURI,
		endpoint:     google.Endpoint,
		userInfoURL:  userInfoURL,
	}
}

// Configured reports whether a client ID is present.
func (g *Google) Configured() bool {
	return g != nil && g.clientID != ""
}

// config builds the per-request oauth2 config; the redirect URI falls back to
// the callback path on the request's own base URL when not set explicitly.
func (g *Google) config(baseURL string) *oauth2.Config {
	redirect := g.redirectURI
	if redirect == "" {
		redirect = baseURL + "/api/auth/google/callback"
	}
	return &oauth2.Config{
		ClientID:     g.clientID,
		ClientSecret: g.clientSecret,
		RedirectURL:  redirect,
		Scopes:       []string{"openid", "email", "profile"},
		Endpoint:     g.endpoint,
	}
}

// AuthCodeURL returns the consent page URL embedding the encoded state.
func (g *Google) AuthCodeURL(baseURL string, state State) string {
	return g.config(baseURL).AuthCodeURL(state.Encode(),
		oauth2.AccessTypeOffline, oauth2.SetAuthURLParam("prompt", "consent"))
}

// Exchange swaps the authorization code for tokens and fetches the user's
// profile. Provider error bodies are preserved on the returned error.
func (g *Google) Exchange(ctx context.Context, baseURL, code string) (*domain.GoogleProfile, error) {
	token, err := g.config(baseURL).Exchange(ctx, code)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			return nil, &domain.UpstreamError{
				Kind:    domain.ErrTokenExchange,
				Status:  retrieveErr.Response.StatusCode,
				Details: string(retrieveErr.Body),
			}
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}

	profile, err := g.fetchUserInfo(ctx, token.AccessToken)
	if err != nil {
		return nil, err
	}

	profile.Email = strings.ToLower(strings.TrimSpace(profile.Email))
	if profile.Email == "" {
		return nil, domain.ErrMissingEmail
	}
	return profile, nil
}

type userInfoResponse struct {
	Sub        string `json:"sub"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	Picture    string `json:"picture"`
}

func (g *Google) fetchUserInfo(ctx context.Context, accessToken string) (*domain.GoogleProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.userInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create userinfo request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &domain.UpstreamError{
			Kind:    domain.ErrUserInfoFetch,
			Status:  resp.StatusCode,
			Details: string(body),
		}
	}

	var info userInfoResponse
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("decode userinfo: %w", err)
	}

	name := info.Name
	if name == "" {
		name = strings.TrimSpace(info.GivenName + " " + info.FamilyName)
	}

	return &domain.GoogleProfile{
		Sub:       info.Sub,
		Email:     info.Email,
		Name:      name,
		AvatarURL: info.Picture,
	}, nil
}

// WithEndpoints overrides the provider endpoints; used by tests to point the
// flow at a local server.
func (g *Google) WithEndpoints(authURL, tokenURL, userInfo string) *Google {
	g.endpoint = oauth2.Endpoint{AuthURL: authURL, TokenURL: tokenURL}
	g.userInfoURL = userInfo
	return g
}
