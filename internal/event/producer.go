package event

import (
	"context"
	"fmt"
	"log/slog"

	pkgkafka "github.com/erohshop/storefront/pkg/kafka"
	"github.com/erohshop/storefront/pkg/logger"
	"github.com/erohshop/storefront/internal/domain"
)

// Kafka topics for storefront activity.
var (
	TopicSessionLogin     = pkgkafka.Topic("session", "login")
	TopicSessionLogout    = pkgkafka.Topic("session", "logout")
	TopicCartUpdated      = pkgkafka.Topic("cart", "updated")
	TopicCartCleared      = pkgkafka.Topic("cart", "cleared")
	TopicWishlistUpdated  = pkgkafka.Topic("wishlist", "updated")
	TopicWishlistMoved    = pkgkafka.Topic("wishlist", "moved-to-cart")
	TopicProductCreated   = pkgkafka.Topic("catalog", "product-created")
	TopicProductUpdated   = pkgkafka.Topic("catalog", "product-updated")
	TopicProductDeleted   = pkgkafka.Topic("catalog", "product-deleted")
	TopicCatalogReset     = pkgkafka.Topic("catalog", "reset")
	TopicCategoriesLoaded = pkgkafka.Topic("catalog", "categories-loaded")
)

// SourceStorefront identifies events emitted by this service.
const SourceStorefront = "storefront"

// Sink delivers an event envelope to a topic. *pkgkafka.Producer satisfies it.
type Sink interface {
	Publish(ctx context.Context, topic string, event *pkgkafka.Event) error
}

// NopSink drops every event. Used when no brokers are configured.
type NopSink struct{}

func (NopSink) Publish(context.Context, string, *pkgkafka.Event) error { return nil }

// SessionData is the payload for session events.
type SessionData struct {
	UserID   int    `json:"user_id"`
	Username string `json:"username"`
}

// CartData is the payload for cart.updated.
type CartData struct {
	ProductIDs []int        `json:"product_ids"`
	ItemCount  int          `json:"item_count"`
	Subtotal   domain.Money `json:"subtotal"`
	Total      domain.Money `json:"total"`
}

// WishlistData is the payload for wishlist.updated.
type WishlistData struct {
	ProductIDs []int `json:"product_ids"`
}

// ProductData is the payload for catalog product events.
type ProductData struct {
	ProductID int          `json:"product_id"`
	Title     string       `json:"title,omitempty"`
	Price     domain.Money `json:"price"`
}

// CategoriesData is the payload for catalog.categories-loaded.
type CategoriesData struct {
	Count int `json:"count"`
}

// Producer publishes storefront activity events.
type Producer struct {
	sink   Sink
	logger *slog.Logger
}

// NewProducer creates a new event producer over the given sink.
func NewProducer(sink Sink, logger *slog.Logger) *Producer {
	if sink == nil {
		sink = NopSink{}
	}
	return &Producer{
		sink:   sink,
		logger: logger,
	}
}

func (p *Producer) publish(ctx context.Context, topic, profileID string, data any) error {
	event, err := pkgkafka.NewEvent(topic, profileID, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}
	if id := logger.CorrelationIDFromContext(ctx); id != "" {
		event.WithCorrelationID(id)
	}

	if err := p.sink.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "published event",
		slog.String("topic", topic),
		slog.String("profile_id", profileID),
	)
	return nil
}

// PublishLogin publishes a session.login event.
func (p *Producer) PublishLogin(ctx context.Context, profileID string, user domain.User) error {
	return p.publish(ctx, TopicSessionLogin, profileID, SessionData{UserID: user.ID, Username: user.Username})
}

// PublishLogout publishes a session.logout event.
func (p *Producer) PublishLogout(ctx context.Context, profileID string, user domain.User) error {
	return p.publish(ctx, TopicSessionLogout, profileID, SessionData{UserID: user.ID, Username: user.Username})
}

// PublishCartUpdated publishes a cart.updated event.
func (p *Producer) PublishCartUpdated(ctx context.Context, profileID string, summary domain.CartSummary) error {
	ids := make([]int, len(summary.Lines))
	for i, l := range summary.Lines {
		ids[i] = l.Product.ID
	}
	return p.publish(ctx, TopicCartUpdated, profileID, CartData{
		ProductIDs: ids,
		ItemCount:  summary.ItemCount,
		Subtotal:   summary.Subtotal,
		Total:      summary.Total,
	})
}

// PublishCartCleared publishes a cart.cleared event.
func (p *Producer) PublishCartCleared(ctx context.Context, profileID string) error {
	return p.publish(ctx, TopicCartCleared, profileID, struct{}{})
}

// PublishWishlistUpdated publishes a wishlist.updated event.
func (p *Producer) PublishWishlistUpdated(ctx context.Context, profileID string, entries []domain.Product) error {
	ids := make([]int, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	return p.publish(ctx, TopicWishlistUpdated, profileID, WishlistData{ProductIDs: ids})
}

// PublishMovedToCart publishes a wishlist.moved-to-cart event.
func (p *Producer) PublishMovedToCart(ctx context.Context, profileID string, product domain.Product) error {
	return p.publish(ctx, TopicWishlistMoved, profileID, productData(product))
}

// PublishProductCreated publishes a catalog.product-created event.
func (p *Producer) PublishProductCreated(ctx context.Context, profileID string, product domain.Product) error {
	return p.publish(ctx, TopicProductCreated, profileID, productData(product))
}

// PublishProductUpdated publishes a catalog.product-updated event.
func (p *Producer) PublishProductUpdated(ctx context.Context, profileID string, product domain.Product) error {
	return p.publish(ctx, TopicProductUpdated, profileID, productData(product))
}

// PublishProductDeleted publishes a catalog.product-deleted event.
func (p *Producer) PublishProductDeleted(ctx context.Context, profileID string, productID int) error {
	return p.publish(ctx, TopicProductDeleted, profileID, ProductData{ProductID: productID})
}

// PublishCatalogReset publishes a catalog.reset event.
func (p *Producer) PublishCatalogReset(ctx context.Context, profileID string) error {
	return p.publish(ctx, TopicCatalogReset, profileID, struct{}{})
}

// PublishCategoriesLoaded publishes a catalog.categories-loaded event.
func (p *Producer) PublishCategoriesLoaded(ctx context.Context, profileID string, count int) error {
	return p.publish(ctx, TopicCategoriesLoaded, profileID, CategoriesData{Count: count})
}

func productData(p domain.Product) ProductData {
	return ProductData{ProductID: p.ID, Title: p.Title, Price: p.PriceCents()}
}
