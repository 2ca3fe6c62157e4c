package metadata

import "context"

// Repository is a small durable key/value store used for bookkeeping that
// must survive restarts, such as the last-known sync status.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
