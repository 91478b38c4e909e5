package driven

import "context"

// BlocklistSource supplies the remotely-configured keyword blocklist
// consulted by the link gate. Unavailability is non-fatal: callers
// degrade to "no match".
type BlocklistSource interface {
	// FetchKeywords returns the current blocklist keywords.
	FetchKeywords(ctx context.Context) ([]string, error)
}
