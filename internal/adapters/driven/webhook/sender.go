package webhook

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
var _ driven.WebhookSender = (*Sender)(nil)

// Event names on the wire
const (
	eventDocumentCreated = "document.created"
	eventLinkCreated     = "link.created"
)

// Sender posts lifecycle events to the webhook delivery endpoint.
// Delivery from there to team-configured receivers is external.
type Sender struct {
	url        string
	httpClient *http.Client
}

// SenderOptions configures the sender.
type SenderOptions struct {
	URL        string
	HTTPClient *http.Client
}

// NewSender creates a webhook sender for the given endpoint.
func NewSender(opts SenderOptions) *Sender {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Sender{
		url:        opts.URL,
		httpClient: httpClient,
	}
}

type eventEnvelope struct {
	Event  string            `json:"event"`
	TeamID string            `json:"team_id"`
	Data   map[string]string `json:"data"`
}

// SendDocumentCreated notifies that a document was created.
func (s *Sender) SendDocumentCreated(ctx context.Context, teamID, documentID string) error {
	return s.send(ctx, eventEnvelope{
		Event:  eventDocumentCreated,
		TeamID: teamID,
		Data:   map[string]string{"document_id": documentID},
	})
}

// SendLinkCreated notifies that a share link was created.
func (s *Sender) SendLinkCreated(ctx context.Context, teamID, documentID, linkID string) error {
	return s.send(ctx, eventEnvelope{
		Event:  eventLinkCreated,
		TeamID: teamID,
		Data:   map[string]string{"document_id": documentID, "link_id": linkID},
	})
}

func (s *Sender) send(ctx context.Context, event eventEnvelope) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal webhook event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to deliver webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook endpoint returned status %d", resp.StatusCode)
	}
	return nil
}
