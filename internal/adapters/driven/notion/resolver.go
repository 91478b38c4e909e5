package notion

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/foliodocs/folio-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.NotionResolver = (*Resolver)(nil)

// maxLookupBody bounds how much of a looked-up page we scan for an id.
const maxLookupBody = 512 * 1024

// pageIDPattern matches a raw 32-hex Notion page id, with or without
// uuid dashes, anywhere in a key or fetched page body.
var pageIDPattern = regexp.MustCompile(`([0-9a-fA-F]{8})-?([0-9a-fA-F]{4})-?([0-9a-fA-F]{4})-?([0-9a-fA-F]{4})-?([0-9a-fA-F]{12})`)

// ResolverOptions configures the resolver.
type ResolverOptions struct {
	HTTPClient *http.Client
	UserAgent  string
}

// Resolver resolves raw Notion keys (URLs, page ids, custom-domain
// slugs) to canonical page ids. Direct extraction is attempted first;
// only custom-domain slugs need a network lookup.
type Resolver struct {
	httpClient *http.Client
	userAgent  string
}

// NewResolver creates a resolver with sensible HTTP defaults.
func NewResolver(opts ResolverOptions) *Resolver {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 20 * time.Second}
	}
	return &Resolver{
		httpClient: httpClient,
		userAgent:  strings.TrimSpace(opts.UserAgent),
	}
}

// ResolvePageID returns the canonical page id and true when one can be
// discovered. Lookup failures collapse into ("", false); the caller
// decides whether that is fatal.
func (r *Resolver) ResolvePageID(ctx context.Context, key string) (string, bool) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", false
	}

	if id, ok := extractPageID(key); ok {
		return id, true
	}

	return r.lookupSlug(ctx, key)
}

// extractPageID pulls a page id straight out of the key. Notion URLs
// carry the id as the last 32 hex characters of the path or as an
// explicit p= query parameter; bare ids and dashed uuids also match.
func extractPageID(key string) (string, bool) {
	m := pageIDPattern.FindStringSubmatch(key)
	if m == nil {
		return "", false
	}
	return canonicalPageID(m), true
}

// lookupSlug fetches a custom-domain page and scans the body for the
// underlying page id. Every failure path returns ("", false).
func (r *Resolver) lookupSlug(ctx context.Context, key string) (string, bool) {
	target := key
	if !strings.HasPrefix(target, "http://") && !strings.HasPrefix(target, "https://") {
		target = "https://" + target
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", false
	}
	if r.userAgent != "" {
		req.Header.Set("User-Agent", r.userAgent)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return "", false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", false
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxLookupBody))
	if err != nil {
		return "", false
	}

	m := pageIDPattern.FindSubmatch(body)
	if m == nil {
		return "", false
	}
	parts := make([]string, len(m))
	for i, b := range m {
		parts[i] = string(b)
	}
	return canonicalPageID(parts), true
}

// canonicalPageID joins the five match groups into dashed uuid form.
func canonicalPageID(groups []string) string {
	return strings.ToLower(fmt.Sprintf("%s-%s-%s-%s-%s",
		groups[1], groups[2], groups[3], groups[4], groups[5]))
}
