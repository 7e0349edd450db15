package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/erohshop/storefront/internal/domain"
	"github.com/erohshop/storefront/internal/event"
	"github.com/erohshop/storefront/internal/store"
	apperrors "github.com/erohshop/storefront/pkg/errors"
)

// WishlistState is one profile's wishlist: products in insertion order, at
// most one per product id.
type WishlistState struct {
	containerDeps

	mu      sync.Mutex
	entries []domain.Product
}

// NewWishlistState creates the wishlist container, restoring persisted
// entries and dropping duplicates.
func NewWishlistState(ctx context.Context, st store.Store, events *event.Producer, profileID string, logger *slog.Logger) *WishlistState {
	w := &WishlistState{
		containerDeps: containerDeps{store: st, events: events, profileID: profileID, logger: logger},
		entries:       []domain.Product{},
	}
	if entries, ok := store.Read[[]domain.Product](ctx, st, store.KeyWishlist); ok {
		for _, p := range entries {
			if domain.FindProductIndex(w.entries, p.ID) < 0 {
				w.entries = append(w.entries, p)
			}
		}
	}
	return w
}

// Add puts product on the wishlist. Adding a product already present is a
// no-op and reports added=false.
func (w *WishlistState) Add(ctx context.Context, product domain.Product) (added bool) {
	w.mu.Lock()
	if domain.FindProductIndex(w.entries, product.ID) >= 0 {
		w.mu.Unlock()
		return false
	}
	w.entries = append(w.entries, product)
	entries := w.commitLocked(ctx)
	w.mu.Unlock()

	w.logger.InfoContext(ctx, "product added to wishlist",
		slog.String("profile_id", w.profileID),
		slog.Int("product_id", product.ID),
	)
	w.published(ctx, w.events.PublishWishlistUpdated(ctx, w.profileID, entries))
	return true
}

// Remove deletes productID from the wishlist if present.
func (w *WishlistState) Remove(ctx context.Context, productID int) (removed bool) {
	w.mu.Lock()
	i := domain.FindProductIndex(w.entries, productID)
	if i < 0 {
		w.mu.Unlock()
		return false
	}
	w.entries = append(w.entries[:i:i], w.entries[i+1:]...)
	entries := w.commitLocked(ctx)
	w.mu.Unlock()

	w.logger.InfoContext(ctx, "product removed from wishlist",
		slog.String("profile_id", w.profileID),
		slog.Int("product_id", productID),
	)
	w.published(ctx, w.events.PublishWishlistUpdated(ctx, w.profileID, entries))
	return true
}

// Clear empties the wishlist.
func (w *WishlistState) Clear(ctx context.Context) {
	w.mu.Lock()
	w.entries = []domain.Product{}
	entries := w.commitLocked(ctx)
	w.mu.Unlock()

	w.logger.InfoContext(ctx, "wishlist cleared", slog.String("profile_id", w.profileID))
	w.published(ctx, w.events.PublishWishlistUpdated(ctx, w.profileID, entries))
}

// Contains reports whether productID is on the wishlist.
func (w *WishlistState) Contains(productID int) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return domain.FindProductIndex(w.entries, productID) >= 0
}

// Entries returns a copy of the wishlist in insertion order.
func (w *WishlistState) Entries() []domain.Product {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.copyLocked()
}

// MoveToCart adds the wishlisted product to cart and then removes it from
// the wishlist. The two steps are not atomic: if the cart add fails the
// wishlist is left as it was.
func (w *WishlistState) MoveToCart(ctx context.Context, productID int, cart *CartState) (domain.CartSummary, error) {
	w.mu.Lock()
	i := domain.FindProductIndex(w.entries, productID)
	if i < 0 {
		w.mu.Unlock()
		return domain.CartSummary{}, apperrors.NotFound("wishlist item", strconv.Itoa(productID))
	}
	product := w.entries[i]
	w.mu.Unlock()

	summary, err := cart.Add(ctx, product, 1)
	if err != nil {
		return domain.CartSummary{}, fmt.Errorf("move to cart: %w", err)
	}
	w.Remove(ctx, productID)

	w.published(ctx, w.events.PublishMovedToCart(ctx, w.profileID, product))
	return summary, nil
}

func (w *WishlistState) copyLocked() []domain.Product {
	out := make([]domain.Product, len(w.entries))
	copy(out, w.entries)
	return out
}

// commitLocked persists the entries and returns a copy. w.mu must be held.
func (w *WishlistState) commitLocked(ctx context.Context) []domain.Product {
	w.persist(ctx, store.KeyWishlist, w.entries)
	return w.copyLocked()
}
