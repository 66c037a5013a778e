package gdocs

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/docs/v1"
)

// DefaultScopes grants read access to documents and calendar events.
var DefaultScopes = []string{docs.DocumentsReadonlyScope, calendar.CalendarReadonlyScope}

// NewHTTPClient returns an authorized client for opts. It does not start an
// interactive flow; a missing OAuth token yields ErrTokenMissing.
func NewHTTPClient(ctx context.Context, opts Options) (*http.Client, error) {
	data, err := os.ReadFile(opts.CredentialsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}
	return NewHTTPClientFromJSON(ctx, data, opts)
}

// NewHTTPClientFromJSON is NewHTTPClient with credentials already in memory.
func NewHTTPClientFromJSON(ctx context.Context, credentialsJSON []byte, opts Options) (*http.Client, error) {
	scopes := opts.Scopes
	if len(scopes) == 0 {
		scopes = DefaultScopes
	}

	if opts.AuthMethod != AuthMethodOAuth {
		jwtCfg, err := google.JWTConfigFromJSON(credentialsJSON, scopes...)
		if err == nil {
			return jwtCfg.Client(ctx), nil
		}
		if opts.AuthMethod == AuthMethodServiceAccount {
			return nil, fmt.Errorf("%w: %v", ErrUnsupportedCreds, err)
		}
	}

	oauthCfg, err := google.ConfigFromJSON(credentialsJSON, scopes...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedCreds, err)
	}

	tok, err := LoadToken(opts.TokenPath)
	if err != nil {
		return nil, err
	}

	ts := &savingTokenSource{
		base: oauthCfg.TokenSource(ctx, tok),
		path: opts.TokenPath,
		last: tok.AccessToken,
	}
	return oauth2.NewClient(ctx, ts), nil
}

// savingTokenSource writes refreshed tokens back to disk.
type savingTokenSource struct {
	base oauth2.TokenSource
	path string

	mu   sync.Mutex
	last string
}

func (s *savingTokenSource) Token() (*oauth2.Token, error) {
	tok, err := s.base.Token()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if tok.AccessToken != s.last {
		s.last = tok.AccessToken
		// a failed write only costs another refresh next run
		_ = SaveToken(s.path, tok)
	}
	return tok, nil
}

// LoadToken reads a token written by SaveToken.
func LoadToken(path string) (*oauth2.Token, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w (%s)", ErrTokenMissing, path)
		}
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}

	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("failed to parse token file: %w", err)
	}
	return &tok, nil
}

// SaveToken writes tok to path with owner-only permissions.
func SaveToken(path string, tok *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("failed to create token file: %w", err)
	}
	defer f.Close()

	if err := json.NewEncoder(f).Encode(tok); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

// Authenticator runs the copy-paste OAuth flow for installed apps.
type Authenticator struct {
	config    *oauth2.Config
	tokenPath string
}

// NewAuthenticator reads an OAuth desktop client file.
func NewAuthenticator(credentialsPath, tokenPath string, scopes ...string) (*Authenticator, error) {
	data, err := os.ReadFile(credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file %q: %w", credentialsPath, err)
	}
	if len(scopes) == 0 {
		scopes = DefaultScopes
	}
	cfg, err := google.ConfigFromJSON(data, scopes...)
	if err != nil {
		return nil, fmt.Errorf("%w: %q is not an OAuth desktop app credentials file: %v", ErrUnsupportedCreds, credentialsPath, err)
	}
	return &Authenticator{config: cfg, tokenPath: tokenPath}, nil
}

// AuthCodeURL is the page the user opens to grant access.
func (a *Authenticator) AuthCodeURL(state string) string {
	return a.config.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

// Exchange trades the pasted code for a token and stores it.
func (a *Authenticator) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, ErrEmptyAuthorization
	}
	tok, err := a.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}
	if err := SaveToken(a.tokenPath, tok); err != nil {
		return nil, err
	}
	return tok, nil
}

// TokenPath is where Exchange stores the token.
func (a *Authenticator) TokenPath() string { return a.tokenPath }
