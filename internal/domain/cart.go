package domain

const (
	// TaxRatePercent is the flat tax rate applied to the subtotal.
	TaxRatePercent = 10
	// FreeShippingThreshold is the subtotal above which shipping is free.
	FreeShippingThreshold Money = 5000
	// FlatShipping is charged when the subtotal does not exceed the threshold.
	FlatShipping Money = 1000
)

// CartLine is one product in the cart with its quantity (always >= 1).
type CartLine struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// LineTotal returns unit price times quantity.
func (l CartLine) LineTotal() Money {
	return l.Product.PriceCents() * Money(l.Quantity)
}

// FindLineIndex returns the index of the line for the given product id, or -1.
func FindLineIndex(lines []CartLine, productID int) int {
	for i := range lines {
		if lines[i].Product.ID == productID {
			return i
		}
	}
	return -1
}

// Subtotal sums price times quantity over all lines.
func Subtotal(lines []CartLine) Money {
	var total Money
	for _, l := range lines {
		total += l.LineTotal()
	}
	return total
}

// Tax returns TaxRatePercent of the subtotal, rounded half up to the cent.
func Tax(subtotal Money) Money {
	return (subtotal*TaxRatePercent + 50) / 100
}

// Shipping is free above FreeShippingThreshold and flat otherwise.
func Shipping(subtotal Money) Money {
	if subtotal > FreeShippingThreshold {
		return 0
	}
	return FlatShipping
}

// CartSummary is the priced view of a cart.
type CartSummary struct {
	Lines     []CartLine `json:"lines"`
	ItemCount int        `json:"itemCount"`
	Subtotal  Money      `json:"subtotal"`
	Tax       Money      `json:"tax"`
	Shipping  Money      `json:"shipping"`
	Total     Money      `json:"total"`
}

// Summarize prices the given lines.
func Summarize(lines []CartLine) CartSummary {
	sub := Subtotal(lines)
	tax := Tax(sub)
	ship := Shipping(sub)

	count := 0
	for _, l := range lines {
		count += l.Quantity
	}
	if lines == nil {
		lines = []CartLine{}
	}
	return CartSummary{
		Lines:     lines,
		ItemCount: count,
		Subtotal:  sub,
		Tax:       tax,
		Shipping:  ship,
		Total:     sub + tax + ship,
	}
}
