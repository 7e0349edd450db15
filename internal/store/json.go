package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	apperrors "github.com/erohshop/storefront/pkg/errors"
	"github.com/erohshop/storefront/pkg/logger"
)

// Read decodes the JSON value under key into a T. It never fails: an absent
// key, a backend error or an undecodable value all report ok=false, and the
// last two are logged so that corrupt data is visible without breaking the
// caller.
func Read[T any](ctx context.Context, s Store, key string) (T, bool) {
	var zero T

	data, err := s.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.FromContext(ctx).WarnContext(ctx, "store read failed, treating as absent",
				slog.String("key", key),
				slog.String("error", err.Error()),
			)
		}
		return zero, false
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		logger.FromContext(ctx).WarnContext(ctx, "store value undecodable, treating as absent",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return zero, false
	}
	return v, true
}

// Write encodes v as JSON and stores it under key.
func Write(ctx context.Context, s Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.Set(ctx, key, data); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// Remove deletes key.
func Remove(ctx context.Context, s Store, key string) error {
	if err := s.Delete(ctx, key); err != nil {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}
