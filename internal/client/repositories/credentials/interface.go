// Package credentials is the persisted credential store: a namespaced
// key/value table in the local SQLite database holding the session token and
// the serialized user between runs.
package credentials

import "context"

// Repository is the raw key/value access to the credentials table.
// Get returns (nil, nil) for a missing key.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
	List(ctx context.Context) (map[string][]byte, error)
}
