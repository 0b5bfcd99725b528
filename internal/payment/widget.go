package payment

import (
	"context"

	"github.com/ivancliff029/engaato-online/internal/domain"
	"github.com/shopspring/decimal"
)

type Kind int

const (
	KindSuccess Kind = iota + 1
	KindFailure
	KindAbandoned
)

func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindFailure:
		return "failure"
	case KindAbandoned:
		return "abandoned"
	default:
		return "unknown"
	}
}

// Result is how a payment attempt ended. TransactionID is set for
// KindSuccess and Reason for KindFailure.
type Result struct {
	Kind          Kind
	TransactionID string
	Reason        string
}

func Success(transactionID string) Result {
	return Result{Kind: KindSuccess, TransactionID: transactionID}
}

func Failure(reason string) Result {
	return Result{Kind: KindFailure, Reason: reason}
}

func Abandoned() Result {
	return Result{Kind: KindAbandoned}
}

type Request struct {
	Reference string
	Amount    decimal.Decimal
	Currency  string
	Customer  domain.Customer
	// OnLaunch receives the hosted checkout link once the provider has issued it.
	OnLaunch func(link string)
}

// Widget charges a customer and waits for the outcome.
type Widget interface {
	// Ready fails when the widget cannot be used at all, e.g. missing keys.
	// It never touches the network.
	Ready() error
	// Pay blocks until the customer completes, fails or dismisses the
	// payment. An error means the payment could not be started.
	Pay(ctx context.Context, req Request) (Result, error)
}
