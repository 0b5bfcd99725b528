package payment

import "errors"

var (
	ErrNotConfigured      = errors.New("payment provider is not configured")
	ErrUnknownReference   = errors.New("no payment is waiting for this reference")
	ErrDuplicateReference = errors.New("a payment with this reference is already in flight")
)
