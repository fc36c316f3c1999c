package ports

import "context"

// KeyValueStore abstracts the platform's durable key-value persistence
// capability. Implementations must make MultiSet and MultiRemove atomic as a
// set: after either returns, a reader sees all of the keys or none of them.
type KeyValueStore interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	MultiSet(ctx context.Context, pairs map[string]string) error
	MultiRemove(ctx context.Context, keys ...string) error
}
