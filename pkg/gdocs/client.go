package gdocs

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/api/docs/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// Client wraps the Google Docs API service.
type Client struct {
	service *docs.Service
}

// NewClientFromCredentialsFile creates a Docs client from credentials on disk.
func NewClientFromCredentialsFile(ctx context.Context, opts Options) (*Client, error) {
	httpClient, err := NewHTTPClient(ctx, opts)
	if err != nil {
		return nil, err
	}
	return NewClientFromHTTP(ctx, httpClient)
}

// NewClientFromHTTP creates a Docs client from a pre-configured HTTP client.
func NewClientFromHTTP(ctx context.Context, httpClient *http.Client) (*Client, error) {
	svc, err := docs.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create docs service: %w", err)
	}
	return &Client{service: svc}, nil
}

// GetDocument fetches a document including the content of every tab.
func (c *Client) GetDocument(ctx context.Context, documentID string) (*docs.Document, error) {
	if documentID == "" {
		return nil, ErrEmptyDocumentID
	}

	doc, err := c.service.Documents.Get(documentID).IncludeTabsContent(true).Context(ctx).Do()
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) {
			switch apiErr.Code {
			case http.StatusNotFound:
				return nil, fmt.Errorf("%w: %s", ErrDocumentNotFound, documentID)
			case http.StatusForbidden:
				return nil, fmt.Errorf("%w: %s", ErrPermissionDenied, documentID)
			}
		}
		return nil, fmt.Errorf("failed to get document %s: %w", documentID, err)
	}
	return doc, nil
}
