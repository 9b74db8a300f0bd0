// Package store abstracts the versioned blob store holding the serialized
// joke collection. A read returns the raw document plus an opaque version
// token; a write is conditional on that token and fails with ErrConflict when
// a concurrent writer got there first. The repository layer above translates
// these sentinels into the domain error taxonomy.
package store

import (
	"context"
	"errors"
)

var (
	// ErrNotFound: the document does not exist yet at the given path.
	ErrNotFound = errors.New("document not found")
	// ErrConflict: the supplied version token is stale.
	ErrConflict = errors.New("version token mismatch")
	// ErrUnavailable wraps transport and timeout failures.
	ErrUnavailable = errors.New("store unavailable")
)

// Document is a raw versioned blob.
type Document struct {
	Content []byte
	Version string
}

// Store is the minimal contract the repository needs. Implementations must
// make Write atomic at conditional-replace granularity: either the whole new
// content is committed under a new version token, or nothing changes.
type Store interface {
	Read(ctx context.Context) (*Document, error)
	// Write commits content conditioned on expectedVersion and returns the
	// new version token. An empty expectedVersion means "create".
	Write(ctx context.Context, content []byte, expectedVersion string) (string, error)
}
