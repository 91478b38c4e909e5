package converter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/foliodocs/folio-core/internal/core/domain"
	"github.com/foliodocs/folio-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.Converter = (*HTTPClient)(nil)

// HTTPClient drives an external conversion service over HTTP. The
// service does the actual rendering; one request covers one task and
// stays open until the conversion finishes.
type HTTPClient struct {
	url        string
	httpClient *http.Client
}

// ClientOptions configures the converter client.
type ClientOptions struct {
	URL        string
	HTTPClient *http.Client
}

// NewHTTPClient creates a converter client for the given endpoint.
// Conversions can run for minutes, so the default client has no
// timeout; cancellation comes from the request context.
func NewHTTPClient(opts ClientOptions) *HTTPClient {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &HTTPClient{
		url:        opts.URL,
		httpClient: httpClient,
	}
}

type convertRequest struct {
	TaskID            string            `json:"task_id"`
	Kind              string            `json:"kind"`
	TeamID            string            `json:"team_id"`
	DocumentID        string            `json:"document_id"`
	DocumentVersionID string            `json:"document_version_id"`
	Payload           map[string]string `json:"payload,omitempty"`
}

// progressEvent is one line of the newline-delimited JSON stream the
// conversion service writes while it works.
type progressEvent struct {
	Percentage int    `json:"percentage"`
	Error      string `json:"error,omitempty"`
}

// Convert submits the task and relays streamed progress events through
// report until the service finishes or fails.
func (c *HTTPClient) Convert(ctx context.Context, task *domain.ConversionTask, report func(percentage int)) error {
	body, err := json.Marshal(convertRequest{
		TaskID:            task.ID,
		Kind:              string(task.Kind),
		TeamID:            task.TeamID,
		DocumentID:        task.DocumentID,
		DocumentVersionID: task.DocumentVersionID,
		Payload:           task.Payload,
	})
	if err != nil {
		return fmt.Errorf("marshal conversion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url+"/convert", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create conversion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("conversion request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("conversion service returned status %d", resp.StatusCode)
	}

	dec := json.NewDecoder(resp.Body)
	for {
		var event progressEvent
		if err := dec.Decode(&event); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("read conversion progress: %w", err)
		}
		if event.Error != "" {
			return fmt.Errorf("conversion failed: %s", event.Error)
		}
		if report != nil && event.Percentage > 0 {
			report(event.Percentage)
		}
	}
}
