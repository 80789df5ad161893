package records

import "context"

// Repository is a flat key/value record store.
//
// Get returns (nil, nil) when the key is absent. DeleteMany removes all the
// given keys atomically.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	DeleteMany(ctx context.Context, keys ...string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
