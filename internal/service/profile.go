package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/erohshop/storefront/internal/event"
	"github.com/erohshop/storefront/internal/remote"
	"github.com/erohshop/storefront/internal/store"
)

// Profile bundles the state containers of one shopper profile.
type Profile struct {
	ID         string
	Session    *SessionState
	Catalog    *CatalogCache
	Categories *CategoryList
	Cart       *CartState
	Wishlist   *WishlistState

	lastUsed time.Time
}

// RemoteAPI is the subset of the remote client the containers use.
type RemoteAPI interface {
	remote.Source
	remote.Authenticator
}

// Profiles lazily builds and caches a Profile per id. Bundles idle longer than
// the TTL are evicted from memory; their state stays in the store and is
// restored on next use.
type Profiles struct {
	base    store.Store
	remote  RemoteAPI
	events  *event.Producer
	logger  *slog.Logger
	idleTTL time.Duration
	now     func() time.Time

	mu       sync.Mutex
	profiles map[string]*Profile
}

// NewProfiles creates an empty registry. A zero idleTTL disables eviction.
func NewProfiles(base store.Store, api RemoteAPI, events *event.Producer, idleTTL time.Duration, logger *slog.Logger) *Profiles {
	return &Profiles{
		base:     base,
		remote:   api,
		events:   events,
		logger:   logger,
		idleTTL:  idleTTL,
		now:      time.Now,
		profiles: make(map[string]*Profile),
	}
}

// Get returns the profile bundle for id, constructing and hydrating it from
// the store on first use.
func (p *Profiles) Get(ctx context.Context, id string) *Profile {
	p.mu.Lock()
	defer p.mu.Unlock()

	if prof, ok := p.profiles[id]; ok {
		prof.lastUsed = p.now()
		return prof
	}

	st := store.Scope(p.base, id)
	prof := &Profile{
		ID:         id,
		Session:    NewSessionState(ctx, st, p.remote, p.events, id, p.logger),
		Catalog:    NewCatalogCache(st, p.remote, p.events, id, p.logger),
		Categories: NewCategoryList(p.remote, p.events, id, p.logger),
		Cart:       NewCartState(ctx, st, p.events, id, p.logger),
		Wishlist:   NewWishlistState(ctx, st, p.events, id, p.logger),
		lastUsed:   p.now(),
	}
	p.profiles[id] = prof

	p.logger.DebugContext(ctx, "profile loaded", slog.String("profile_id", id))
	return prof
}

// Len returns the number of profiles held in memory.
func (p *Profiles) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.profiles)
}

// Sweep evicts bundles idle longer than the TTL and returns how many were
// evicted.
func (p *Profiles) Sweep() int {
	if p.idleTTL <= 0 {
		return 0
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	cutoff := p.now().Add(-p.idleTTL)
	evicted := 0
	for id, prof := range p.profiles {
		if prof.lastUsed.Before(cutoff) {
			delete(p.profiles, id)
			evicted++
		}
	}
	return evicted
}

// Run sweeps idle profiles every interval until ctx is cancelled.
func (p *Profiles) Run(ctx context.Context, interval time.Duration) {
	if p.idleTTL <= 0 || interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := p.Sweep(); n > 0 {
				p.logger.Debug("evicted idle profiles", slog.Int("count", n))
			}
		}
	}
}
