package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/erohshop/storefront/internal/domain"
	"github.com/erohshop/storefront/internal/event"
	"github.com/erohshop/storefront/internal/remote"
	"github.com/erohshop/storefront/internal/store"
	apperrors "github.com/erohshop/storefront/pkg/errors"
)

// SessionState holds the logged-in user of one profile.
type SessionState struct {
	containerDeps
	auth remote.Authenticator

	mu   sync.Mutex
	user *domain.User
}

// NewSessionState creates the session container and hydrates it from the
// persisted user record, if any. No remote call is made.
func NewSessionState(ctx context.Context, st store.Store, auth remote.Authenticator, events *event.Producer, profileID string, logger *slog.Logger) *SessionState {
	s := &SessionState{
		containerDeps: containerDeps{store: st, events: events, profileID: profileID, logger: logger},
		auth:          auth,
	}
	if user, ok := store.Read[domain.User](ctx, st, store.KeyUser); ok {
		s.user = &user
	}
	return s
}

// Login authenticates against the remote API and, on success, stores and
// persists the returned user. On failure the session is left unchanged.
func (s *SessionState) Login(ctx context.Context, username, password string) (*domain.User, error) {
	if strings.TrimSpace(username) == "" {
		return nil, apperrors.InvalidInput("username is required")
	}
	if password == "" {
		return nil, apperrors.InvalidInput("password is required")
	}

	user, err := s.auth.Login(ctx, username, password)
	if err != nil {
		s.logger.WarnContext(ctx, "login failed",
			slog.String("profile_id", s.profileID),
			slog.String("username", username),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("login: %w", err)
	}

	s.mu.Lock()
	s.user = user
	s.persist(ctx, store.KeyUser, user)
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "user logged in",
		slog.String("profile_id", s.profileID),
		slog.Int("user_id", user.ID),
	)
	s.published(ctx, s.events.PublishLogin(ctx, s.profileID, *user))

	copied := *user
	return &copied, nil
}

// Logout clears the session and removes the persisted record. Logging out
// without a session is a no-op.
func (s *SessionState) Logout(ctx context.Context) {
	s.mu.Lock()
	user := s.user
	s.user = nil
	if user != nil {
		s.forget(ctx, store.KeyUser)
	}
	s.mu.Unlock()

	if user == nil {
		return
	}
	s.logger.InfoContext(ctx, "user logged out",
		slog.String("profile_id", s.profileID),
		slog.Int("user_id", user.ID),
	)
	s.published(ctx, s.events.PublishLogout(ctx, s.profileID, *user))
}

// CurrentUser returns a copy of the session user.
func (s *SessionState) CurrentUser() (*domain.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil, false
	}
	copied := *s.user
	return &copied, true
}

// LoggedIn reports whether a session exists.
func (s *SessionState) LoggedIn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user != nil
}
