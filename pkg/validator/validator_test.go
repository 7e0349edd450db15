package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type productForm struct {
	Title     string   `json:"title" validate:"required,notblank,max=20"`
	Price     *float64 `json:"price" validate:"required,gte=0"`
	Thumbnail string   `json:"thumbnail" validate:"omitempty,http_url"`
	Rating    float64  `json:"rating" validate:"gte=0,lte=5"`
	Sort      string   `json:"sort" validate:"omitempty,oneof=price-asc price-desc"`
	Internal  string   `json:"-" validate:"max=3"`
}

type cartForm struct {
	ProductID int  `json:"productId" validate:"required,gt=0"`
	Quantity  *int `json:"quantity" validate:"omitempty,min=1,max=999"`
}

func price(v float64) *float64 { return &v }
func qty(v int) *int           { return &v }

func fieldsOf(t *testing.T, err error) map[string]string {
	t.Helper()
	require.Error(t, err)
	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	return valErr.Fields()
}

func TestValidate_ValidProduct(t *testing.T) {
	err := Validate(productForm{
		Title:     "Essence Mascara",
		Price:     price(9.99),
		Thumbnail: "https://cdn.dummyjson.com/p/1.png",
		Rating:    4.5,
		Sort:      "price-asc",
	})
	assert.NoError(t, err)
}

func TestValidate_ProductMessages(t *testing.T) {
	tests := []struct {
		name  string
		form  productForm
		field string
		want  string
	}{
		{"missing title", productForm{Price: price(1)}, "title", "is required"},
		{"blank title", productForm{Title: "   ", Price: price(1)}, "title", "must not be blank"},
		{"long title", productForm{Title: "a very long product title", Price: price(1)}, "title", "must be at most 20 characters"},
		{"missing price", productForm{Title: "Lamp"}, "price", "is required"},
		{"negative price", productForm{Title: "Lamp", Price: price(-1)}, "price", "must be greater than or equal to 0"},
		{"bad thumbnail", productForm{Title: "Lamp", Price: price(1), Thumbnail: "not a url"}, "thumbnail", "must be a valid URL"},
		{"rating too high", productForm{Title: "Lamp", Price: price(1), Rating: 6}, "rating", "must be less than or equal to 5"},
		{"unknown sort", productForm{Title: "Lamp", Price: price(1), Sort: "newest"}, "sort", "must be one of: price-asc price-desc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := fieldsOf(t, Validate(tt.form))
			assert.Equal(t, tt.want, fields[tt.field], "fields: %v", fields)
		})
	}
}

func TestValidate_DashFieldUsesStructName(t *testing.T) {
	fields := fieldsOf(t, Validate(productForm{Title: "Lamp", Price: price(1), Internal: "toolong"}))
	assert.Len(t, fields, 1)
	for _, msg := range fields {
		assert.Equal(t, "must be at most 3 characters", msg)
	}
}

func TestValidate_NumericMinMax(t *testing.T) {
	assert.NoError(t, Validate(cartForm{ProductID: 1}))
	assert.NoError(t, Validate(cartForm{ProductID: 1, Quantity: qty(999)}))

	fields := fieldsOf(t, Validate(cartForm{ProductID: 1, Quantity: qty(1000)}))
	assert.Equal(t, "must be at most 999", fields["quantity"])

	fields = fieldsOf(t, Validate(cartForm{ProductID: -4}))
	assert.Equal(t, "must be greater than 0", fields["productId"])
}

func TestValidate_MultipleErrors(t *testing.T) {
	err := Validate(productForm{Title: " ", Price: price(-2)})
	fields := fieldsOf(t, err)

	assert.Len(t, fields, 2)
	assert.Contains(t, err.Error(), "title must not be blank")
	assert.Contains(t, err.Error(), "price must be greater than or equal to 0")
}

func TestValidate_NotStruct(t *testing.T) {
	err := Validate("just a string")
	require.Error(t, err)
	var valErr *ValidationError
	assert.NotErrorAs(t, err, &valErr)
}
