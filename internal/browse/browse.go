// Package browse filters and sorts a product list for the catalog view.
package browse

import (
	"net/url"
	"sort"
	"strings"

	"github.com/erohshop/storefront/internal/domain"
	apperrors "github.com/erohshop/storefront/pkg/errors"
)

// PriceBucket selects a price range.
type PriceBucket string

// Price buckets. Bounds are in whole currency units.
const (
	PriceAll      PriceBucket = "all"
	PriceUnder50  PriceBucket = "under50"
	Price50To100  PriceBucket = "50to100"
	Price100To500 PriceBucket = "100to500"
	PriceOver500  PriceBucket = "over500"
)

// SortKey selects the ordering of the result.
type SortKey string

// Sort keys. SortDefault keeps the catalog order.
const (
	SortDefault    SortKey = "default"
	SortNameAsc    SortKey = "name-asc"
	SortNameDesc   SortKey = "name-desc"
	SortPriceAsc   SortKey = "price-asc"
	SortPriceDesc  SortKey = "price-desc"
	SortRatingDesc SortKey = "rating-desc"
)

// Query is a catalog filter. Zero values match everything.
type Query struct {
	Category string
	Search   string
	Price    PriceBucket
	Sort     SortKey
}

// Contains reports whether a price in cents falls in the bucket.
func (b PriceBucket) Contains(price domain.Money) bool {
	switch b {
	case PriceUnder50:
		return price < 5000
	case Price50To100:
		return price >= 5000 && price <= 10000
	case Price100To500:
		return price > 10000 && price <= 50000
	case PriceOver500:
		return price > 50000
	default:
		return true
	}
}

func (b PriceBucket) valid() bool {
	switch b {
	case "", PriceAll, PriceUnder50, Price50To100, Price100To500, PriceOver500:
		return true
	}
	return false
}

func (k SortKey) valid() bool {
	switch k {
	case "", SortDefault, SortNameAsc, SortNameDesc, SortPriceAsc, SortPriceDesc, SortRatingDesc:
		return true
	}
	return false
}

// ParseQuery reads category, q, price and sort from the query string.
// Unknown price buckets or sort keys are rejected.
func ParseQuery(values url.Values) (Query, error) {
	q := Query{
		Category: strings.TrimSpace(values.Get("category")),
		Search:   strings.TrimSpace(values.Get("q")),
		Price:    PriceBucket(strings.ToLower(strings.TrimSpace(values.Get("price")))),
		Sort:     SortKey(strings.ToLower(strings.TrimSpace(values.Get("sort")))),
	}
	if strings.EqualFold(q.Category, "all") {
		q.Category = ""
	}
	if !q.Price.valid() {
		return Query{}, apperrors.InvalidInput("unknown price range: " + string(q.Price))
	}
	if !q.Sort.valid() {
		return Query{}, apperrors.InvalidInput("unknown sort: " + string(q.Sort))
	}
	return q, nil
}

// Apply returns the products matching q in the requested order. The input
// slice is not modified. Filters run in order: category (exact, case
// insensitive), title substring (case insensitive), price bucket. Sorting is
// stable, so ties keep catalog order.
func Apply(products []domain.Product, q Query) []domain.Product {
	search := strings.ToLower(q.Search)

	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if q.Category != "" && !strings.EqualFold(p.Category, q.Category) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Title), search) {
			continue
		}
		if !q.Price.Contains(p.PriceCents()) {
			continue
		}
		out = append(out, p)
	}

	if less := lessFor(q.Sort); less != nil {
		sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	}
	return out
}

func lessFor(k SortKey) func(a, b domain.Product) bool {
	switch k {
	case SortNameAsc:
		return func(a, b domain.Product) bool { return strings.ToLower(a.Title) < strings.ToLower(b.Title) }
	case SortNameDesc:
		return func(a, b domain.Product) bool { return strings.ToLower(a.Title) > strings.ToLower(b.Title) }
	case SortPriceAsc:
		return func(a, b domain.Product) bool { return a.PriceCents() < b.PriceCents() }
	case SortPriceDesc:
		return func(a, b domain.Product) bool { return a.PriceCents() > b.PriceCents() }
	case SortRatingDesc:
		return func(a, b domain.Product) bool { return a.Rating > b.Rating }
	default:
		return nil
	}
}
