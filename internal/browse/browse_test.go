package browse

import (
	"errors"
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erohshop/storefront/internal/domain"
	apperrors "github.com/erohshop/storefront/pkg/errors"
)

func catalog() []domain.Product {
	return []domain.Product{
		{ID: 1, Title: "Essence Mascara", Category: "beauty", Price: 9.99, Rating: 4.9},
		{ID: 2, Title: "Calvin Klein CK One", Category: "fragrances", Price: 49.99, Rating: 4.8},
		{ID: 3, Title: "Red Lipstick", Category: "beauty", Price: 12.99, Rating: 4.1},
		{ID: 4, Title: "Annibale Colombo Bed", Category: "furniture", Price: 1899.99, Rating: 4.1},
		{ID: 5, Title: "Eyeshadow Palette", Category: "Beauty", Price: 50.00, Rating: 3.2},
		{ID: 6, Title: "Knoll Saarinen Table", Category: "furniture", Price: 100.00, Rating: 4.5},
		{ID: 7, Title: "Gucci Bloom", Category: "fragrances", Price: 100.01, Rating: 2.9},
	}
}

func ids(products []domain.Product) []int {
	out := make([]int, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}

func TestApply(t *testing.T) {
	tests := []struct {
		name string
		q    Query
		want []int
	}{
		{"no filter keeps order", Query{}, []int{1, 2, 3, 4, 5, 6, 7}},
		{"category is case insensitive", Query{Category: "BEAUTY"}, []int{1, 3, 5}},
		{"beauty under 50", Query{Category: "beauty", Price: PriceUnder50}, []int{1, 3}},
		{"title substring", Query{Search: "pal"}, []int{5}},
		{"search misses category", Query{Search: "beauty"}, []int{}},
		{"50 to 100 is inclusive", Query{Price: Price50To100}, []int{5, 6}},
		{"100 to 500 excludes 100", Query{Price: Price100To500}, []int{7}},
		{"over 500", Query{Price: PriceOver500}, []int{4}},
		{"price ascending", Query{Category: "fragrances", Sort: SortPriceAsc}, []int{2, 7}},
		{"price descending", Query{Sort: SortPriceDesc}, []int{4, 7, 6, 5, 2, 3, 1}},
		{"name ascending", Query{Category: "furniture", Sort: SortNameAsc}, []int{4, 6}},
		{"name descending", Query{Category: "furniture", Sort: SortNameDesc}, []int{6, 4}},
		{"rating ties keep catalog order", Query{Sort: SortRatingDesc}, []int{1, 2, 6, 3, 4, 5, 7}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(Apply(catalog(), tt.q))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Apply() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestApply_DoesNotModifyInput(t *testing.T) {
	in := catalog()
	_ = Apply(in, Query{Sort: SortPriceDesc})
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7}, ids(in))
}

func TestParseQuery(t *testing.T) {
	q, err := ParseQuery(url.Values{
		"category": {"beauty"},
		"q":        {" mascara "},
		"price":    {"Under50"},
		"sort":     {"price-asc"},
	})
	require.NoError(t, err)
	assert.Equal(t, Query{Category: "beauty", Search: "mascara", Price: PriceUnder50, Sort: SortPriceAsc}, q)
}

func TestParseQuery_AllCategoryMeansAny(t *testing.T) {
	q, err := ParseQuery(url.Values{"category": {"all"}, "price": {"all"}})
	require.NoError(t, err)
	assert.Empty(t, q.Category)
	assert.Len(t, Apply(catalog(), q), 7)
}

func TestParseQuery_RejectsUnknownValues(t *testing.T) {
	for _, v := range []url.Values{
		{"price": {"cheap"}},
		{"sort": {"random"}},
	} {
		_, err := ParseQuery(v)
		assert.True(t, errors.Is(err, apperrors.ErrInvalidInput), "%v", v)
	}
}
