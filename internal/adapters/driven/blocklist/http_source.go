package blocklist

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/foliodocs/folio-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.BlocklistSource = (*HTTPSource)(nil)

// HTTPSource fetches the keyword blocklist from a remotely-configured
// JSON endpoint. The payload is a mapping of keyword to metadata; only
// the keys matter here.
type HTTPSource struct {
	url        string
	httpClient *http.Client
}

// SourceOptions configures the blocklist source.
type SourceOptions struct {
	URL        string
	HTTPClient *http.Client
}

// NewHTTPSource creates a blocklist source for the given endpoint.
func NewHTTPSource(opts SourceOptions) *HTTPSource {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPSource{
		url:        opts.URL,
		httpClient: httpClient,
	}
}

// FetchKeywords returns the current blocklist keywords. Callers treat
// any error as "no match".
func (s *HTTPSource) FetchKeywords(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create blocklist request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch blocklist: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("blocklist endpoint returned status %d", resp.StatusCode)
	}

	var mapping map[string]json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&mapping); err != nil {
		return nil, fmt.Errorf("failed to decode blocklist: %w", err)
	}

	keywords := make([]string, 0, len(mapping))
	for keyword := range mapping {
		keywords = append(keywords, keyword)
	}
	sort.Strings(keywords)
	return keywords, nil
}
