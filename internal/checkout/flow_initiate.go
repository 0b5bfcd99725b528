package checkout

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/ivancliff029/engaato-online/internal/domain"
	"github.com/ivancliff029/engaato-online/internal/payment"
	"go.uber.org/zap"
)

// Initiate snapshots the cart and starts a payment for it. It returns as
// soon as the attempt is in flight; the outcome is applied in the
// background and observed through View. Calling it again while processing
// changes nothing and returns ErrInProgress.
func (f *Flow) Initiate(ctx context.Context, customer domain.Customer) (domain.CheckoutSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.session.Status == domain.CheckoutStatusProcessing {
		return f.viewLocked(), ErrInProgress
	}
	if f.session.Status != domain.CheckoutStatusCollecting {
		return f.viewLocked(), fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, f.session.Status, domain.CheckoutStatusProcessing)
	}

	// misconfiguration must surface before anything reaches the provider
	if err := f.widget.Ready(); err != nil {
		f.log.Error("payment widget not ready", zap.Error(err))
		f.session.Message = "Payment is currently unavailable. Please contact support."
		return f.viewLocked(), fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	if customer.Email == "" || customer.Phone == "" {
		return f.viewLocked(), ErrIncompleteCustomer
	}

	snap := f.cart.Snapshot()
	if len(snap.Items) == 0 {
		return f.viewLocked(), ErrEmptyCart
	}
	for _, item := range snap.Items {
		if !item.Complete() {
			return f.viewLocked(), ErrIncompleteLine
		}
	}
	if snap.Total.IsNegative() {
		return f.viewLocked(), ErrNegativeTotal
	}

	// the caller may have given up while the cart was checked
	if err := ctx.Err(); err != nil {
		return f.viewLocked(), err
	}

	if err := f.transitionLocked(domain.CheckoutStatusProcessing); err != nil {
		return f.viewLocked(), err
	}

	att := &attempt{reference: uuid.NewString()}
	f.current = att
	f.session.Reference = att.reference
	f.session.Total = snap.Total
	f.session.Currency = domain.DefaultCurrency
	f.session.Customer = customer
	f.session.Items = snap.Items
	f.session.PaymentLink = ""
	f.session.Message = ""
	f.session.StartedAt = f.now()

	req := payment.Request{
		Reference: att.reference,
		Amount:    snap.Total,
		Currency:  domain.DefaultCurrency,
		Customer:  customer,
		OnLaunch:  func(link string) { f.setPaymentLink(att, link) },
	}

	f.log.Info("checkout payment initiated",
		zap.String("reference", att.reference),
		zap.String("total", snap.Total.String()),
		zap.Int("items", snap.ItemCount))

	go f.awaitPayment(att, req)

	return f.viewLocked(), nil
}

func (f *Flow) setPaymentLink(att *attempt, link string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.current == att {
		f.session.PaymentLink = link
	}
}
