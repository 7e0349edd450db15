// Package service holds the per-profile state containers: session, catalog
// cache, category list, cart and wishlist. Each container keeps its state in
// memory behind a mutex and persists every mutation to the profile's store.
package service

import (
	"context"
	"log/slog"

	"github.com/erohshop/storefront/internal/event"
	"github.com/erohshop/storefront/internal/store"
)

// containerDeps is what every container needs to persist its state and report
// its activity.
type containerDeps struct {
	store     store.Store
	events    *event.Producer
	profileID string
	logger    *slog.Logger
}

// persist writes v under key. A failed write is logged and the in-memory
// state is kept as the source of truth.
func (d containerDeps) persist(ctx context.Context, key string, v any) {
	if err := store.Write(ctx, d.store, key, v); err != nil {
		d.logger.ErrorContext(ctx, "failed to persist state",
			slog.String("profile_id", d.profileID),
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}
}

// forget removes key. Failures are logged like persist.
func (d containerDeps) forget(ctx context.Context, key string) {
	if err := store.Remove(ctx, d.store, key); err != nil {
		d.logger.ErrorContext(ctx, "failed to remove state",
			slog.String("profile_id", d.profileID),
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}
}

// published logs a failed event publish. Publishing never fails an operation.
func (d containerDeps) published(ctx context.Context, err error) {
	if err != nil {
		d.logger.ErrorContext(ctx, "failed to publish event",
			slog.String("profile_id", d.profileID),
			slog.String("error", err.Error()),
		)
	}
}
