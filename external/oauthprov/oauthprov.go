// Package oauthprov wraps the OAuth identity providers used for social
// sign-in: code exchange and profile fetch per provider.
package oauthprov

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"
)

// Profile is the normalized identity-provider profile.
type Profile struct {
	ID    string
	Name  string
	Email string
}

type Provider struct {
	Name   string
	Config *oauth2.Config

	userInfoURL string
}

// NewGoogle builds the Google provider.
func NewGoogle(clientID, clientSecret, redirectURL string) *Provider {
	return &Provider{
		Name: "google",
		Config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"openid", "profile", "email"},
			Endpoint:     google.Endpoint,
		},
		userInfoURL: "https://www.googleapis.com/oauth2/v3/userinfo",
	}
}

// NewGithub builds the GitHub provider.
func NewGithub(clientID, clientSecret, redirectURL string) *Provider {
	return &Provider{
		Name: "github",
		Config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"read:user", "user:email"},
			Endpoint:     github.Endpoint,
		},
		userInfoURL: "https://api.github.com/user",
	}
}

// AuthURL returns the provider's consent page URL for the given state.
func (p *Provider) AuthURL(state string) string {
	return p.Config.AuthCodeURL(state)
}

// Exchange trades the callback code for a token and fetches the profile.
func (p *Provider) Exchange(ctx context.Context, code string) (*Profile, error) {
	token, err := p.Config.Exchange(ctx, code)
	if err != nil {
		return nil, err
	}
	return p.fetchProfile(ctx, token)
}

func (p *Provider) fetchProfile(ctx context.Context, token *oauth2.Token) (*Profile, error) {
	client := p.Config.Client(ctx, token)
	resp, err := client.Get(p.userInfoURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return nil, errors.New("userinfo request failed: " + string(body))
	}

	switch p.Name {
	case "github":
		var raw struct {
			ID    int64  `json:"id"`
			Name  string `json:"name"`
			Login string `json:"login"`
			Email string `json:"email"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
			return nil, err
		}
		name := raw.Name
		if name == "" {
			name = raw.Login
		}
		email := raw.Email
		if email == "" {
			// Not all GitHub accounts expose a public email.
			email = fmt.Sprintf("%d@users.noreply.github.com", raw.ID)
		}
		return &Profile{ID: fmt.Sprintf("%d", raw.ID), Name: name, Email: email}, nil
	default:
		var raw struct {
			Sub   string `json:"sub"`
			Name  string `json:"name"`
			Email string `json:"email"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
			return nil, err
		}
		return &Profile{ID: raw.Sub, Name: raw.Name, Email: raw.Email}, nil
	}
}
