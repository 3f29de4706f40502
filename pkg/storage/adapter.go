// Package storage defines the content-addressed resource storage contract
// (§4.7) and the adapters that implement it: in-memory (tests), local
// filesystem, Postgres (github.com/lib/pq), and Firestore
// (cloud.google.com/go/firestore).
package storage

import (
	"context"
	"errors"
)

// Errors returned uniformly across adapters.
var (
	ErrNotFound      = errors.New("resource not found")
	ErrPathTraversal = errors.New("rejected: key resolves outside storage root")
)

// Adapter is a content-addressed put/get/delete resource store. Keys are
// sha256 hex digests of the content they address; adapters MUST verify the
// digest on Put and reject any key that does not match.
type Adapter interface {
	Put(ctx context.Context, key string, content []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}
