package port

import "context"

// DocumentStore is the external collaborator holding uploaded requirement
// files and payment receipts. The workflow only stores and forwards the
// opaque reference it returns.
type DocumentStore interface {
	// Store persists content and returns an opaque reference for it
	Store(ctx context.Context, name string, content []byte) (string, error)

	// Resolve maps a reference back to a retrievable path
	Resolve(reference string) (string, error)

	// Exists reports whether the reference resolves to stored content
	Exists(ctx context.Context, reference string) bool
}
