package driven

import "context"

// NotionResolver resolves a raw Notion key (URL, page id or
// custom-domain slug) to a canonical page id.
type NotionResolver interface {
	// ResolvePageID returns the page id and true when one could be
	// discovered by direct extraction or slug lookup. Lookup failures
	// are swallowed into ("", false); they are never fatal here.
	ResolvePageID(ctx context.Context, key string) (string, bool)
}
