package storage

import "context"

// Bucket is an asynchronous string key-value store.
type Bucket interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	Close() error
}
