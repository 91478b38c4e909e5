package driven

import "context"

// BlobStore copies stored objects between buckets. The transfer
// protocol and the upload path itself are external; this core only
// needs the advanced-sheet copy.
type BlobStore interface {
	// CopyToProcessing copies the object at key into the secondary
	// processing location and returns the destination key.
	CopyToProcessing(ctx context.Context, key string) (string, error)
}
