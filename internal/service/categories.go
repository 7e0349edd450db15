package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/erohshop/storefront/internal/domain"
	"github.com/erohshop/storefront/internal/event"
	"github.com/erohshop/storefront/internal/remote"
)

// CategoryList is the remote category list as last applied. Each Refresh
// takes a sequence number; a response is applied only if no later Refresh
// was issued while it was in flight.
type CategoryList struct {
	source    remote.Source
	events    *event.Producer
	profileID string
	logger    *slog.Logger

	mu         sync.Mutex
	seq        uint64
	categories []domain.Category
	applied    bool
}

// NewCategoryList creates an empty category list.
func NewCategoryList(source remote.Source, events *event.Producer, profileID string, logger *slog.Logger) *CategoryList {
	return &CategoryList{
		source:     source,
		events:     events,
		profileID:  profileID,
		logger:     logger,
		categories: []domain.Category{},
	}
}

// Refresh fetches the category list. applied is false when the response was
// discarded because a newer Refresh started after this one.
func (l *CategoryList) Refresh(ctx context.Context) (applied bool, err error) {
	l.mu.Lock()
	l.seq++
	mine := l.seq
	l.mu.Unlock()

	categories, err := l.source.FetchCategories(ctx)
	if err != nil {
		return false, fmt.Errorf("refresh categories: %w", err)
	}

	l.mu.Lock()
	if mine != l.seq {
		l.mu.Unlock()
		l.logger.DebugContext(ctx, "discarding superseded category response",
			slog.String("profile_id", l.profileID),
			slog.Uint64("seq", mine),
		)
		return false, nil
	}
	l.categories = categories
	l.applied = true
	l.mu.Unlock()

	if err := l.events.PublishCategoriesLoaded(ctx, l.profileID, len(categories)); err != nil {
		l.logger.ErrorContext(ctx, "failed to publish event",
			slog.String("profile_id", l.profileID),
			slog.String("error", err.Error()),
		)
	}
	return true, nil
}

// List returns a copy of the last applied categories.
func (l *CategoryList) List() []domain.Category {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]domain.Category, len(l.categories))
	copy(out, l.categories)
	return out
}

// Loaded reports whether any response has been applied.
func (l *CategoryList) Loaded() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.applied
}
