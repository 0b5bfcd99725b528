package checkout

import (
	"context"
	"errors"
	"time"

	"github.com/ivancliff029/engaato-online/internal/domain"
	"github.com/ivancliff029/engaato-online/internal/payment"
	"go.uber.org/zap"
)

const recordTimeout = 5 * time.Second

func (f *Flow) awaitPayment(att *attempt, req payment.Request) {
	res, err := f.widget.Pay(f.ctx, req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			f.log.Info("payment abandoned on shutdown", zap.String("reference", att.reference))
			return
		}
		f.log.Error("payment could not be started",
			zap.String("reference", att.reference), zap.Error(err))
		res = payment.Failure("We could not reach the payment provider. Please try again.")
	}

	switch res.Kind {
	case payment.KindSuccess:
		f.applySuccess(att, res)
	case payment.KindFailure:
		f.applyFailure(att, res)
	default:
		f.applyAbandoned(att)
	}
}

// aliveLocked reports whether att is still the attempt this flow is waiting on.
func (f *Flow) aliveLocked(att *attempt) bool {
	if f.current != att {
		f.log.Info("dropping payment result for closed checkout",
			zap.String("reference", att.reference))
		return false
	}
	return true
}

func (f *Flow) applySuccess(att *attempt, res payment.Result) {
	f.mu.Lock()
	if !f.aliveLocked(att) {
		f.mu.Unlock()
		return
	}
	f.cart.Clear()

	txID := res.TransactionID
	if txID == "" {
		txID = att.reference
	}
	record := domain.TransactionRecord{
		ID:        txID,
		Reference: att.reference,
		Amount:    domain.PriceFromDecimal(f.session.Total),
		Currency:  f.session.Currency,
		Customer:  f.session.Customer,
		Items:     f.session.Items,
		Status:    domain.TransactionStatusSuccessful,
		CreatedAt: f.now(),
	}
	f.mu.Unlock()

	// the record is best effort; the customer has already paid
	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	f.recorder.Record(ctx, record)
	cancel()

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.current != att {
		f.log.Info("payment recorded after checkout was closed",
			zap.String("reference", att.reference),
			zap.String("transaction_id", txID))
		return
	}
	if err := f.transitionLocked(domain.CheckoutStatusSucceeded); err != nil {
		f.log.Error("failed to mark checkout succeeded", zap.Error(err))
		return
	}
	f.current = nil
	f.session.Message = "Payment successful! Thank you for your order."
	f.log.Info("checkout succeeded",
		zap.String("reference", att.reference),
		zap.String("transaction_id", txID))

	f.resetTimer = time.AfterFunc(f.resetDelay, func() { f.autoReset(att) })
}

func (f *Flow) applyFailure(att *attempt, res payment.Result) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.aliveLocked(att) {
		return
	}
	if err := f.transitionLocked(domain.CheckoutStatusFailed); err != nil {
		f.log.Error("failed to mark checkout failed", zap.Error(err))
		return
	}
	f.current = nil
	msg := res.Reason
	if msg == "" {
		msg = "unknown error"
	}
	f.session.Message = "Payment failed: " + msg
	f.log.Warn("checkout payment failed",
		zap.String("reference", att.reference),
		zap.String("reason", res.Reason))
}

// applyAbandoned returns to idle quietly: dismissing the widget is not an error.
func (f *Flow) applyAbandoned(att *attempt) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.aliveLocked(att) {
		return
	}
	f.log.Info("checkout payment dismissed", zap.String("reference", att.reference))
	f.resetLocked()
}

func (f *Flow) autoReset(att *attempt) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.session.Status == domain.CheckoutStatusSucceeded && f.session.Reference == att.reference {
		f.resetLocked()
	}
}
