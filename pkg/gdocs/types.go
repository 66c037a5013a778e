package gdocs

import "errors"

const (
	AuthMethodOAuth          = "oauth"
	AuthMethodServiceAccount = "service_account"
)

var (
	ErrTokenMissing       = errors.New("no OAuth token found, run `chronix auth` first")
	ErrUnsupportedCreds   = errors.New("unsupported credentials format")
	ErrDocumentNotFound   = errors.New("document not found")
	ErrPermissionDenied   = errors.New("permission denied for document")
	ErrEmptyDocumentID    = errors.New("document id is empty")
	ErrEmptyAuthorization = errors.New("authorization code is empty")
)

// Options selects credentials for Google APIs.
type Options struct {
	// AuthMethod is "oauth" or "service_account". Empty tries service account first.
	AuthMethod      string
	CredentialsPath string
	// TokenPath stores the OAuth token; refreshed tokens are written back.
	TokenPath string
	// Scopes defaults to DefaultScopes.
	Scopes []string
}
