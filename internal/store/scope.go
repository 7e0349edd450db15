package store

import "context"

// KeyPrefix namespaces every storefront key in a shared backend.
const KeyPrefix = "storefront"

type scoped struct {
	base   Store
	prefix string
}

// Scope returns a view of base in which every key is prefixed with
// "storefront:<profileID>:". Two profiles never see each other's keys.
func Scope(base Store, profileID string) Store {
	return &scoped{base: base, prefix: KeyPrefix + ":" + profileID + ":"}
}

func (s *scoped) Get(ctx context.Context, key string) ([]byte, error) {
	return s.base.Get(ctx, s.prefix+key)
}

func (s *scoped) Set(ctx context.Context, key string, value []byte) error {
	return s.base.Set(ctx, s.prefix+key, value)
}

func (s *scoped) Delete(ctx context.Context, key string) error {
	return s.base.Delete(ctx, s.prefix+key)
}

func (s *scoped) Ping(ctx context.Context) error {
	return s.base.Ping(ctx)
}
