package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }
func strPtr(v string) *string     { return &v }

func TestCreateProductInput_NewProduct_FillsDefaults(t *testing.T) {
	p := CreateProductInput{Title: "Lamp", Price: floatPtr(12.5)}.NewProduct(42)

	assert.Equal(t, 42, p.ID)
	assert.Equal(t, "Lamp", p.Title)
	assert.Equal(t, 12.5, p.Price)
	assert.Equal(t, DefaultThumbnail, p.Thumbnail)
	assert.Equal(t, DefaultDescription, p.Description)
	assert.Equal(t, DefaultBrand, p.Brand)
	assert.Equal(t, DefaultCategory, p.Category)
}

func TestCreateProductInput_NewProduct_KeepsProvidedFields(t *testing.T) {
	p := CreateProductInput{
		Title:     "Mascara",
		Price:     floatPtr(9.99),
		Brand:     "Essence",
		Category:  "beauty",
		Thumbnail: "https://cdn.example.com/m.png",
		Stock:     5,
	}.NewProduct(1)

	assert.Equal(t, "Essence", p.Brand)
	assert.Equal(t, "beauty", p.Category)
	assert.Equal(t, "https://cdn.example.com/m.png", p.Thumbnail)
	assert.Equal(t, 5, p.Stock)
}

func TestUpdateProductInput_Apply_PatchesOnlySetFields(t *testing.T) {
	p := Product{ID: 3, Title: "Old", Price: 10, Brand: "Acme"}
	in := UpdateProductInput{Title: strPtr("New"), Price: floatPtr(0)}

	in.Apply(&p)

	assert.Equal(t, "New", p.Title)
	assert.Equal(t, 0.0, p.Price)
	assert.Equal(t, "Acme", p.Brand)
	assert.False(t, in.IsEmpty())
	assert.True(t, UpdateProductInput{}.IsEmpty())
}

func TestProduct_DecodesRemoteShape(t *testing.T) {
	raw := `{"id":1,"title":"Essence Mascara Lash Princess","price":9.99,"rating":4.94,
		"stock":5,"brand":"Essence","category":"beauty","thumbnail":"https://x/t.png",
		"discountPercentage":7.17,"tags":["beauty"],"reviews":[]}`

	var p Product
	require.NoError(t, json.Unmarshal([]byte(raw), &p))
	assert.Equal(t, 1, p.ID)
	assert.Equal(t, "beauty", p.Category)
	assert.Equal(t, Money(999), p.PriceCents())
}

func TestComputeStats(t *testing.T) {
	stats := ComputeStats([]Product{{Price: 10}, {Price: 20.5}, {Price: 0.01}})
	assert.Equal(t, 3, stats.ProductCount)
	assert.Equal(t, Money(3051), stats.TotalValue)
	assert.Equal(t, Money(1017), stats.AveragePrice)

	empty := ComputeStats(nil)
	assert.Zero(t, empty.ProductCount)
	assert.Zero(t, empty.AveragePrice)
}

func TestFindProductIndex(t *testing.T) {
	products := []Product{{ID: 1}, {ID: 2}}
	assert.Equal(t, 0, FindProductIndex(products, 1))
	assert.Equal(t, -1, FindProductIndex(products, 3))
}
