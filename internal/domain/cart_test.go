package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// Pricing scenarios
// ============================================================================

func TestSummarize_FreeShippingAboveThreshold(t *testing.T) {
	s := Summarize([]CartLine{{Product: Product{ID: 1, Price: 30.00}, Quantity: 2}})

	assert.Equal(t, Money(6000), s.Subtotal)
	assert.Equal(t, Money(600), s.Tax)
	assert.Equal(t, Money(0), s.Shipping)
	assert.Equal(t, Money(6600), s.Total)
	assert.Equal(t, 2, s.ItemCount)
}

func TestSummarize_FlatShippingBelowThreshold(t *testing.T) {
	s := Summarize([]CartLine{{Product: Product{ID: 1, Price: 20.00}, Quantity: 1}})

	assert.Equal(t, Money(2000), s.Subtotal)
	assert.Equal(t, Money(200), s.Tax)
	assert.Equal(t, Money(1000), s.Shipping)
	assert.Equal(t, Money(3200), s.Total)
}

func TestSummarize_EmptyCart(t *testing.T) {
	s := Summarize(nil)

	assert.Equal(t, Money(0), s.Subtotal)
	assert.Equal(t, Money(0), s.Tax)
	assert.Equal(t, FlatShipping, s.Shipping)
	assert.NotNil(t, s.Lines)
}

func TestShipping_ExactlyAtThresholdIsCharged(t *testing.T) {
	assert.Equal(t, FlatShipping, Shipping(5000))
	assert.Equal(t, Money(0), Shipping(5001))
}

func TestTax_RoundsHalfUp(t *testing.T) {
	assert.Equal(t, Money(100), Tax(995)) // 99.5 -> 100
	assert.Equal(t, Money(99), Tax(994))  // 99.4 -> 99
}

func TestSubtotal_UsesRoundedUnitPrice(t *testing.T) {
	lines := []CartLine{
		{Product: Product{ID: 1, Price: 19.99}, Quantity: 3},
		{Product: Product{ID: 2, Price: 0.125}, Quantity: 1},
	}
	// 1999*3 + 13 (0.125 rounds half up to 13 cents)
	assert.Equal(t, Money(5997+13), Subtotal(lines))
}

func TestFindLineIndex(t *testing.T) {
	lines := []CartLine{{Product: Product{ID: 4}}, {Product: Product{ID: 9}}}
	assert.Equal(t, 1, FindLineIndex(lines, 9))
	assert.Equal(t, -1, FindLineIndex(lines, 5))
	assert.Equal(t, -1, FindLineIndex(nil, 1))
}

// ============================================================================
// Money encoding
// ============================================================================

func TestMoney_String(t *testing.T) {
	assert.Equal(t, "66.00", Money(6600).String())
	assert.Equal(t, "0.05", Money(5).String())
	assert.Equal(t, "-1.50", Money(-150).String())
}

func TestMoney_JSON(t *testing.T) {
	data, err := json.Marshal(CartSummary{Subtotal: 6000, Tax: 600, Total: 6600, Lines: []CartLine{}})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"subtotal":60.00`)
	assert.Contains(t, string(data), `"total":66.00`)

	var m Money
	require.NoError(t, json.Unmarshal([]byte(`12.34`), &m))
	assert.Equal(t, Money(1234), m)
	assert.Error(t, json.Unmarshal([]byte(`"abc"`), &m))
}
