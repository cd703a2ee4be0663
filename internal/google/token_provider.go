package google

import (
	"context"

	"golang.org/x/oauth2"

	"github.com/teemow/audioinsight/internal/settings"
)

// TokenProvider supplies the bearer token for Google API calls.
type TokenProvider interface {
	// Token returns the current token or ErrNoToken.
	Token(ctx context.Context) (*oauth2.Token, error)

	// HasToken reports whether a token is available.
	HasToken() bool

	// ClearToken forgets the token, e.g. after the API rejected it.
	ClearToken() error
}

// StoreTokenProvider reads the Drive access token from a settings store.
// Tokens from the implicit-style flow carry no refresh token, so an expired
// token is cleared and the user logs in again.
type StoreTokenProvider struct {
	store settings.Store
}

// NewStoreTokenProvider creates a TokenProvider backed by store.
func NewStoreTokenProvider(store settings.Store) *StoreTokenProvider {
	return &StoreTokenProvider{store: store}
}

// Token returns the stored access token.
func (p *StoreTokenProvider) Token(_ context.Context) (*oauth2.Token, error) {
	v, ok := p.store.Get(settings.KeyDriveAccessToken)
	if !ok || v == "" {
		return nil, ErrNoToken
	}
	return &oauth2.Token{AccessToken: v, TokenType: "Bearer"}, nil
}

// HasToken reports whether an access token is stored.
func (p *StoreTokenProvider) HasToken() bool {
	v, ok := p.store.Get(settings.KeyDriveAccessToken)
	return ok && v != ""
}

// ClearToken removes the stored access token.
func (p *StoreTokenProvider) ClearToken() error {
	return settings.Logout(p.store)
}

// SaveToken stores the access token of tok.
func (p *StoreTokenProvider) SaveToken(tok *oauth2.Token) error {
	return p.store.Set(settings.KeyDriveAccessToken, tok.AccessToken)
}
