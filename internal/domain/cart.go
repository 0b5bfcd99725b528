package domain

import "github.com/shopspring/decimal"

// LineKey identifies a cart line. Adding a product with the same key merges
// into the existing line.
type LineKey struct {
	ProductID string `json:"productId"`
	Color     string `json:"color"`
	Size      string `json:"size"`
}

// LineItem is a product in the cart together with the buyer's selections.
// The product fields are inlined when serialized.
type LineItem struct {
	Product       `bson:",inline"`
	Quantity      int    `json:"quantity" bson:"quantity"`
	SelectedColor string `json:"selectedColor" bson:"selectedColor"`
	SelectedSize  string `json:"selectedSize" bson:"selectedSize"`
}

func (l LineItem) Key() LineKey {
	return LineKey{ProductID: l.ID, Color: l.SelectedColor, Size: l.SelectedSize}
}

// Subtotal is unit price times quantity; unparseable prices count as zero.
func (l LineItem) Subtotal() decimal.Decimal {
	return l.Price.Decimal().Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Complete reports whether the line carries every selection its product
// declares options for.
func (l LineItem) Complete() bool {
	if len(l.Colors) > 0 && !l.HasColor(l.SelectedColor) {
		return false
	}
	if len(l.Sizes) > 0 && !l.HasSize(l.SelectedSize) {
		return false
	}
	return true
}

// CartSnapshot is the cart captured when a checkout attempt starts.
type CartSnapshot struct {
	Items     []LineItem      `json:"items"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"itemCount"`
}
