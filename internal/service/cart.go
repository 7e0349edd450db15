package service

import (
	"context"
	"log/slog"
	"strconv"
	"sync"

	"github.com/erohshop/storefront/internal/domain"
	"github.com/erohshop/storefront/internal/event"
	"github.com/erohshop/storefront/internal/store"
	apperrors "github.com/erohshop/storefront/pkg/errors"
)

// CartState is one profile's cart: an insertion-ordered list of lines with at
// most one line per product id.
type CartState struct {
	containerDeps

	mu    sync.Mutex
	lines []domain.CartLine
}

// NewCartState creates the cart container, restoring persisted lines.
// Persisted lines with a quantity below 1 or a duplicate product id are
// dropped.
func NewCartState(ctx context.Context, st store.Store, events *event.Producer, profileID string, logger *slog.Logger) *CartState {
	c := &CartState{
		containerDeps: containerDeps{store: st, events: events, profileID: profileID, logger: logger},
		lines:         []domain.CartLine{},
	}
	if lines, ok := store.Read[[]domain.CartLine](ctx, st, store.KeyCart); ok {
		for _, l := range lines {
			if l.Quantity < 1 || domain.FindLineIndex(c.lines, l.Product.ID) >= 0 {
				continue
			}
			c.lines = append(c.lines, l)
		}
	}
	return c
}

// Add puts quantity units of product in the cart. An existing line for the
// product has its quantity incremented; otherwise a new line is appended.
func (c *CartState) Add(ctx context.Context, product domain.Product, quantity int) (domain.CartSummary, error) {
	if quantity < 1 {
		return domain.CartSummary{}, apperrors.InvalidInput("quantity must be at least 1")
	}

	c.mu.Lock()
	if i := domain.FindLineIndex(c.lines, product.ID); i >= 0 {
		c.lines[i].Quantity += quantity
		c.lines[i].Product = product
	} else {
		c.lines = append(c.lines, domain.CartLine{Product: product, Quantity: quantity})
	}
	summary := c.commitLocked(ctx)
	c.mu.Unlock()

	c.logger.InfoContext(ctx, "item added to cart",
		slog.String("profile_id", c.profileID),
		slog.Int("product_id", product.ID),
		slog.Int("quantity", quantity),
	)
	c.published(ctx, c.events.PublishCartUpdated(ctx, c.profileID, summary))
	return summary, nil
}

// Remove deletes the line for productID. Removing an absent product is a
// no-op and does not touch the store.
func (c *CartState) Remove(ctx context.Context, productID int) domain.CartSummary {
	c.mu.Lock()
	i := domain.FindLineIndex(c.lines, productID)
	if i < 0 {
		summary := c.summaryLocked()
		c.mu.Unlock()
		return summary
	}
	c.lines = append(c.lines[:i:i], c.lines[i+1:]...)
	summary := c.commitLocked(ctx)
	c.mu.Unlock()

	c.logger.InfoContext(ctx, "item removed from cart",
		slog.String("profile_id", c.profileID),
		slog.Int("product_id", productID),
	)
	c.published(ctx, c.events.PublishCartUpdated(ctx, c.profileID, summary))
	return summary
}

// SetQuantity replaces the quantity of an existing line. A quantity below 1
// is rejected and the line is left unchanged.
func (c *CartState) SetQuantity(ctx context.Context, productID, quantity int) (domain.CartSummary, error) {
	if quantity < 1 {
		return domain.CartSummary{}, apperrors.InvalidInput("quantity must be at least 1")
	}

	c.mu.Lock()
	i := domain.FindLineIndex(c.lines, productID)
	if i < 0 {
		c.mu.Unlock()
		return domain.CartSummary{}, apperrors.NotFound("cart item", strconv.Itoa(productID))
	}
	c.lines[i].Quantity = quantity
	summary := c.commitLocked(ctx)
	c.mu.Unlock()

	c.logger.InfoContext(ctx, "cart quantity updated",
		slog.String("profile_id", c.profileID),
		slog.Int("product_id", productID),
		slog.Int("quantity", quantity),
	)
	c.published(ctx, c.events.PublishCartUpdated(ctx, c.profileID, summary))
	return summary, nil
}

// Clear empties the cart.
func (c *CartState) Clear(ctx context.Context) {
	c.mu.Lock()
	c.lines = []domain.CartLine{}
	c.commitLocked(ctx)
	c.mu.Unlock()

	c.logger.InfoContext(ctx, "cart cleared", slog.String("profile_id", c.profileID))
	c.published(ctx, c.events.PublishCartCleared(ctx, c.profileID))
}

// Lines returns a copy of the cart lines in insertion order.
func (c *CartState) Lines() []domain.CartLine {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.copyLocked()
}

// Contains reports whether the cart has a line for productID.
func (c *CartState) Contains(productID int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return domain.FindLineIndex(c.lines, productID) >= 0
}

// Subtotal is the sum of price times quantity over all lines.
func (c *CartState) Subtotal() domain.Money {
	c.mu.Lock()
	defer c.mu.Unlock()
	return domain.Subtotal(c.lines)
}

// Tax is 10% of the subtotal.
func (c *CartState) Tax() domain.Money {
	return domain.Tax(c.Subtotal())
}

// Shipping is free when the subtotal exceeds 50.00 and 10.00 otherwise.
func (c *CartState) Shipping() domain.Money {
	return domain.Shipping(c.Subtotal())
}

// Total is subtotal plus tax plus shipping.
func (c *CartState) Total() domain.Money {
	return c.Summary().Total
}

// Summary returns the lines with every derived amount computed from one
// consistent view of the cart.
func (c *CartState) Summary() domain.CartSummary {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.summaryLocked()
}

func (c *CartState) copyLocked() []domain.CartLine {
	out := make([]domain.CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *CartState) summaryLocked() domain.CartSummary {
	return domain.Summarize(c.copyLocked())
}

// commitLocked persists the lines and returns the new summary. c.mu must be held.
func (c *CartState) commitLocked(ctx context.Context) domain.CartSummary {
	c.persist(ctx, store.KeyCart, c.lines)
	return c.summaryLocked()
}
