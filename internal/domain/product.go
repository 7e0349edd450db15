package domain

// Defaults applied to dashboard-created products when a field is omitted.
const (
	DefaultThumbnail   = "https://via.placeholder.com/300"
	DefaultDescription = "No description available"
	DefaultBrand       = "Unbranded"
	DefaultCategory    = "general"
)

// Product is a catalog item. Field names follow the remote product API.
type Product struct {
	ID                 int      `json:"id"`
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	Price              float64  `json:"price"`
	DiscountPercentage float64  `json:"discountPercentage"`
	Rating             float64  `json:"rating"`
	Stock              int      `json:"stock"`
	Brand              string   `json:"brand"`
	Category           string   `json:"category"`
	Thumbnail          string   `json:"thumbnail"`
	Images             []string `json:"images,omitempty"`
}

// PriceCents returns the unit price in cents.
func (p Product) PriceCents() Money {
	return MoneyFromFloat(p.Price)
}

// CreateProductInput holds the fields accepted when adding a product from
// the dashboard. Omitted optional fields get the package defaults.
type CreateProductInput struct {
	Title              string   `json:"title" validate:"required,notblank,max=200"`
	Price              *float64 `json:"price" validate:"required,gte=0"`
	Description        string   `json:"description" validate:"max=2000"`
	Brand              string   `json:"brand" validate:"max=100"`
	Category           string   `json:"category" validate:"max=100"`
	Thumbnail          string   `json:"thumbnail" validate:"omitempty,http_url"`
	Stock              int      `json:"stock" validate:"gte=0"`
	DiscountPercentage float64  `json:"discountPercentage" validate:"gte=0,lte=100"`
	Rating             float64  `json:"rating" validate:"gte=0,lte=5"`
}

// NewProduct builds a product with the given id from the input, filling defaults.
func (in CreateProductInput) NewProduct(id int) Product {
	p := Product{
		ID:                 id,
		Title:              in.Title,
		Description:        in.Description,
		Brand:              in.Brand,
		Category:           in.Category,
		Thumbnail:          in.Thumbnail,
		Stock:              in.Stock,
		DiscountPercentage: in.DiscountPercentage,
		Rating:             in.Rating,
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if p.Thumbnail == "" {
		p.Thumbnail = DefaultThumbnail
	}
	if p.Description == "" {
		p.Description = DefaultDescription
	}
	if p.Brand == "" {
		p.Brand = DefaultBrand
	}
	if p.Category == "" {
		p.Category = DefaultCategory
	}
	return p
}

// UpdateProductInput holds optional fields for a partial product update.
type UpdateProductInput struct {
	Title              *string  `json:"title" validate:"omitempty,notblank,max=200"`
	Price              *float64 `json:"price" validate:"omitempty,gte=0"`
	Description        *string  `json:"description" validate:"omitempty,max=2000"`
	Brand              *string  `json:"brand" validate:"omitempty,max=100"`
	Category           *string  `json:"category" validate:"omitempty,max=100"`
	Thumbnail          *string  `json:"thumbnail" validate:"omitempty,http_url"`
	Stock              *int     `json:"stock" validate:"omitempty,gte=0"`
	DiscountPercentage *float64 `json:"discountPercentage" validate:"omitempty,gte=0,lte=100"`
	Rating             *float64 `json:"rating" validate:"omitempty,gte=0,lte=5"`
}

// Apply patches p with every field set in the input.
func (in UpdateProductInput) Apply(p *Product) {
	if in.Title != nil {
		p.Title = *in.Title
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Brand != nil {
		p.Brand = *in.Brand
	}
	if in.Category != nil {
		p.Category = *in.Category
	}
	if in.Thumbnail != nil {
		p.Thumbnail = *in.Thumbnail
	}
	if in.Stock != nil {
		p.Stock = *in.Stock
	}
	if in.DiscountPercentage != nil {
		p.DiscountPercentage = *in.DiscountPercentage
	}
	if in.Rating != nil {
		p.Rating = *in.Rating
	}
}

// IsEmpty reports whether the update carries no fields.
func (in UpdateProductInput) IsEmpty() bool {
	return in == UpdateProductInput{}
}

// FindProductIndex returns the index of the product with the given id, or -1.
func FindProductIndex(products []Product, id int) int {
	for i := range products {
		if products[i].ID == id {
			return i
		}
	}
	return -1
}

// CatalogStats summarises a product list for the dashboard.
type CatalogStats struct {
	ProductCount int   `json:"productCount"`
	TotalValue   Money `json:"totalValue"`
	AveragePrice Money `json:"averagePrice"`
}

// ComputeStats sums prices over the list. TotalValue ignores stock, matching
// the dashboard's "sum of listed prices" figure.
func ComputeStats(products []Product) CatalogStats {
	var total Money
	for _, p := range products {
		total += p.PriceCents()
	}
	stats := CatalogStats{ProductCount: len(products), TotalValue: total}
	if len(products) > 0 {
		n := Money(len(products))
		stats.AveragePrice = (total + n/2) / n
	}
	return stats
}
