package dashboard

import (
	"context"
	"io"
)

// Vault stores report blobs by slash-separated key, e.g.
// "reports/demo-parent/2026-10-17.json.age".
type Vault interface {
	// Put stores the blob read from r under key, replacing any previous blob.
	// size is the number of bytes that will be read from r.
	Put(ctx context.Context, key string, r io.Reader, size int64) error

	// Get writes the blob stored under key to w. It returns an error wrapping
	// ErrNotFound if no blob exists.
	Get(ctx context.Context, key string, w io.Writer) error

	// List returns the keys that start with prefix, sorted ascending.
	List(ctx context.Context, prefix string) ([]string, error)

	// ValidateSetup verifies that the vault is accessible and properly configured.
	ValidateSetup(ctx context.Context) error
}
