// Package store is the persistent key-value layer behind every profile's
// state. Values are JSON blobs addressed by short keys inside a profile scope.
package store

import "context"

// Keys persisted per profile.
const (
	KeyUser     = "user"
	KeyProducts = "products"
	KeyCart     = "cart"
	KeyWishlist = "wishlist"
)

// Store is a raw byte key-value store. Get returns an error wrapping
// apperrors.ErrNotFound when the key is absent.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}
