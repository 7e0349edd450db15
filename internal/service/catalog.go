package service

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/erohshop/storefront/internal/domain"
	"github.com/erohshop/storefront/internal/event"
	"github.com/erohshop/storefront/internal/remote"
	"github.com/erohshop/storefront/internal/store"
	apperrors "github.com/erohshop/storefront/pkg/errors"
)

// CatalogCache is one profile's product snapshot. It is populated from the
// store or, when the store holds no snapshot, from the remote API, and
// persisted after every dashboard mutation.
type CatalogCache struct {
	containerDeps
	source remote.Source
	group  singleflight.Group
	now    func() time.Time

	mu       sync.Mutex
	products []domain.Product
	loaded   bool
	// generation is bumped by Reset so that a load started before the reset
	// does not repopulate the cleared catalog.
	generation uint64
}

// NewCatalogCache creates an empty catalog cache. Nothing is loaded until
// EnsureLoaded is called.
func NewCatalogCache(st store.Store, source remote.Source, events *event.Producer, profileID string, logger *slog.Logger) *CatalogCache {
	return &CatalogCache{
		containerDeps: containerDeps{store: st, events: events, profileID: profileID, logger: logger},
		source:        source,
		now:           time.Now,
		products:      []domain.Product{},
	}
}

// maxLoadAttempts bounds how often EnsureLoaded restarts a load that a Reset
// superseded.
const maxLoadAttempts = 3

var errLoadSuperseded = errors.New("catalog load superseded by reset")

// EnsureLoaded populates the catalog on first use. A persisted snapshot is used
// as-is; otherwise the full product list is fetched once and persisted.
// Concurrent callers share the same in-flight load. After a successful load
// later calls return immediately. A failed fetch leaves the catalog empty and
// returns CATALOG_UNAVAILABLE; the next call tries again. A load overtaken by
// Reset is run again in the new generation.
func (c *CatalogCache) EnsureLoaded(ctx context.Context) error {
	for attempt := 0; attempt < maxLoadAttempts; attempt++ {
		c.mu.Lock()
		if c.loaded {
			c.mu.Unlock()
			return nil
		}
		gen := c.generation
		c.mu.Unlock()

		_, err, _ := c.group.Do("load:"+strconv.FormatUint(gen, 10), func() (any, error) {
			return nil, c.load(context.WithoutCancel(ctx), gen)
		})
		if !errors.Is(err, errLoadSuperseded) {
			return err
		}
		c.logger.DebugContext(ctx, "catalog load superseded, retrying",
			slog.String("profile_id", c.profileID),
			slog.Uint64("generation", gen),
		)
	}
	return apperrors.Unavailable("CATALOG_UNAVAILABLE", "product catalog kept being reset during load", errLoadSuperseded)
}

func (c *CatalogCache) load(ctx context.Context, gen uint64) error {
	c.mu.Lock()
	done := c.loaded
	c.mu.Unlock()
	if done {
		return nil
	}

	if snapshot, ok := store.Read[[]domain.Product](ctx, c.store, store.KeyProducts); ok {
		if snapshot == nil {
			snapshot = []domain.Product{}
		}
		if !c.apply(ctx, gen, snapshot, false) {
			return errLoadSuperseded
		}
		c.logger.DebugContext(ctx, "catalog loaded from store",
			slog.String("profile_id", c.profileID),
			slog.Int("count", len(snapshot)),
		)
		return nil
	}

	products, err := c.source.FetchProducts(ctx)
	if err != nil {
		c.logger.ErrorContext(ctx, "catalog fetch failed",
			slog.String("profile_id", c.profileID),
			slog.String("error", err.Error()),
		)
		return apperrors.Unavailable("CATALOG_UNAVAILABLE", "product catalog is unavailable", err)
	}

	if !c.apply(ctx, gen, products, true) {
		return errLoadSuperseded
	}
	c.logger.InfoContext(ctx, "catalog loaded from remote",
		slog.String("profile_id", c.profileID),
		slog.Int("count", len(products)),
	)
	return nil
}

// apply installs a loaded product list and reports false, leaving the
// catalog untouched, when a Reset happened since the load began.
func (c *CatalogCache) apply(ctx context.Context, gen uint64, products []domain.Product, persist bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		return false
	}
	c.products = products
	c.loaded = true
	if persist {
		c.persist(ctx, store.KeyProducts, c.products)
	}
	return true
}

// Loaded reports whether the catalog has been populated.
func (c *CatalogCache) Loaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loaded
}

// List returns a copy of the in-memory products, empty before the first
// successful load.
func (c *CatalogCache) List() []domain.Product {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.Product, len(c.products))
	copy(out, c.products)
	return out
}

// Get returns the product with the given id.
func (c *CatalogCache) Get(id int) (domain.Product, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := domain.FindProductIndex(c.products, id); i >= 0 {
		return c.products[i], true
	}
	return domain.Product{}, false
}

// Create adds a product at the front of the catalog. Its id is the current
// time in milliseconds, or one past the largest existing id if that is
// larger.
func (c *CatalogCache) Create(ctx context.Context, input domain.CreateProductInput) (domain.Product, error) {
	if strings.TrimSpace(input.Title) == "" {
		return domain.Product{}, apperrors.InvalidInput("title is required")
	}
	if input.Price == nil {
		return domain.Product{}, apperrors.InvalidInput("price is required")
	}
	if *input.Price < 0 {
		return domain.Product{}, apperrors.InvalidInput("price must not be negative")
	}
	if err := c.EnsureLoaded(ctx); err != nil {
		return domain.Product{}, err
	}

	c.mu.Lock()
	id := int(c.now().UnixMilli())
	for _, p := range c.products {
		if p.ID >= id {
			id = p.ID + 1
		}
	}
	product := input.NewProduct(id)
	c.products = append([]domain.Product{product}, c.products...)
	c.persist(ctx, store.KeyProducts, c.products)
	c.mu.Unlock()

	c.logger.InfoContext(ctx, "product created",
		slog.String("profile_id", c.profileID),
		slog.Int("product_id", product.ID),
	)
	c.published(ctx, c.events.PublishProductCreated(ctx, c.profileID, product))
	return product, nil
}

// Update patches the provided fields of an existing product.
func (c *CatalogCache) Update(ctx context.Context, id int, input domain.UpdateProductInput) (domain.Product, error) {
	if input.Title != nil && strings.TrimSpace(*input.Title) == "" {
		return domain.Product{}, apperrors.InvalidInput("title must not be empty")
	}
	if input.Price != nil && *input.Price < 0 {
		return domain.Product{}, apperrors.InvalidInput("price must not be negative")
	}
	if err := c.EnsureLoaded(ctx); err != nil {
		return domain.Product{}, err
	}

	c.mu.Lock()
	i := domain.FindProductIndex(c.products, id)
	if i < 0 {
		c.mu.Unlock()
		return domain.Product{}, apperrors.NotFound("product", strconv.Itoa(id))
	}
	input.Apply(&c.products[i])
	product := c.products[i]
	c.persist(ctx, store.KeyProducts, c.products)
	c.mu.Unlock()

	c.logger.InfoContext(ctx, "product updated",
		slog.String("profile_id", c.profileID),
		slog.Int("product_id", id),
	)
	c.published(ctx, c.events.PublishProductUpdated(ctx, c.profileID, product))
	return product, nil
}

// Delete removes a product from the catalog.
func (c *CatalogCache) Delete(ctx context.Context, id int) error {
	if err := c.EnsureLoaded(ctx); err != nil {
		return err
	}

	c.mu.Lock()
	i := domain.FindProductIndex(c.products, id)
	if i < 0 {
		c.mu.Unlock()
		return apperrors.NotFound("product", strconv.Itoa(id))
	}
	c.products = append(c.products[:i:i], c.products[i+1:]...)
	c.persist(ctx, store.KeyProducts, c.products)
	c.mu.Unlock()

	c.logger.InfoContext(ctx, "product deleted",
		slog.String("profile_id", c.profileID),
		slog.Int("product_id", id),
	)
	c.published(ctx, c.events.PublishProductDeleted(ctx, c.profileID, id))
	return nil
}

// Reset drops the snapshot and the in-memory list. The next EnsureLoaded
// fetches from the remote API again.
func (c *CatalogCache) Reset(ctx context.Context) {
	c.mu.Lock()
	c.products = []domain.Product{}
	c.loaded = false
	c.generation++
	c.forget(ctx, store.KeyProducts)
	c.mu.Unlock()

	c.logger.InfoContext(ctx, "catalog reset", slog.String("profile_id", c.profileID))
	c.published(ctx, c.events.PublishCatalogReset(ctx, c.profileID))
}

// Stats summarises the current catalog for the dashboard.
func (c *CatalogCache) Stats() domain.CatalogStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return domain.ComputeStats(c.products)
}
