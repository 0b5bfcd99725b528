package cart

import "errors"

var (
	ErrInvalidQuantity  = errors.New("quantity must be at least 1")
	ErrMissingProductID = errors.New("product id is required")
	ErrMissingOption    = errors.New("color and size must be selected")
	ErrUnknownOption    = errors.New("selected color or size is not offered for this product")
)
