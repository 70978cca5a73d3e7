package store

import "context"

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// Storage is the key/value collaborator the sync queue and the migration tool
// persist through. Keys and values are opaque strings; Set is atomic.
//
// Implementations must return [ErrKeyNotFound] from Get and may return
// [ErrQuotaExceeded] from Set when the backing medium is out of capacity —
// callers surface that condition instead of retrying it.
type Storage interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	Clear(ctx context.Context) error
	GetAllKeys(ctx context.Context) ([]string, error)
}
