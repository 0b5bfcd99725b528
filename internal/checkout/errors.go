package checkout

import "errors"

var (
	ErrInProgress         = errors.New("a payment is already in progress")
	ErrIllegalTransition  = errors.New("illegal transition of checkout status")
	ErrConfiguration      = errors.New("payment is not available: checkout is misconfigured")
	ErrIncompleteCustomer = errors.New("customer email and phone are required")
	ErrEmptyCart          = errors.New("cart is empty, nothing to checkout")
	ErrIncompleteLine     = errors.New("every cart line needs its color and size selected")
	ErrNegativeTotal      = errors.New("cart total cannot be negative")
)
