package revalidate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/foliodocs/folio-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.CacheRevalidator = (*Client)(nil)

// Client asks the frontend cache to re-render a document page after a
// side effect changes its content.
type Client struct {
	url        string
	httpClient *http.Client
}

// ClientOptions configures the revalidation client.
type ClientOptions struct {
	URL        string
	HTTPClient *http.Client
}

// NewClient creates a revalidation client for the given endpoint.
func NewClient(opts ClientOptions) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		url:        opts.URL,
		httpClient: httpClient,
	}
}

// RevalidateDocument requests revalidation for a document.
func (c *Client) RevalidateDocument(ctx context.Context, documentID string) error {
	body, err := json.Marshal(map[string]string{"document_id": documentID})
	if err != nil {
		return fmt.Errorf("failed to marshal revalidation request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create revalidation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to request revalidation: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("revalidation endpoint returned status %d", resp.StatusCode)
	}
	return nil
}
