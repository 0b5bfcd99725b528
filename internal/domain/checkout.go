package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultCurrency is what the mobile-money widget charges in.
const DefaultCurrency = "UGX"

type Customer struct {
	Name  string `json:"name" bson:"name"`
	Email string `json:"email" bson:"email"`
	Phone string `json:"phone" bson:"phone"`
}

// CheckoutSession is one purchase attempt. It lives only as long as the
// browsing session and is never persisted.
type CheckoutSession struct {
	ID          string          `json:"id"`
	Reference   string          `json:"reference"`
	Status      CheckoutStatus  `json:"status"`
	Total       decimal.Decimal `json:"total"`
	Currency    string          `json:"currency"`
	Customer    Customer        `json:"customer"`
	Items       []LineItem      `json:"items"`
	PaymentLink string          `json:"paymentLink,omitempty"`
	Message     string          `json:"message,omitempty"`
	StartedAt   time.Time       `json:"startedAt"`
}
