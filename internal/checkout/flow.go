package checkout

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ivancliff029/engaato-online/internal/domain"
	"github.com/ivancliff029/engaato-online/internal/payment"
	"go.uber.org/zap"
)

// DefaultResetDelay is how long a successful checkout stays on screen.
const DefaultResetDelay = 2 * time.Second

// Cart is the part of the cart store checkout needs.
type Cart interface {
	Snapshot() domain.CartSnapshot
	Clear()
}

type TransactionRecorder interface {
	Record(ctx context.Context, tx domain.TransactionRecord)
}

// attempt identifies one Initiate call. A result is applied only while the
// attempt is still the flow's current one.
type attempt struct {
	reference string
}

// Flow drives one browsing session's checkout from collecting customer
// details to a payment outcome.
type Flow struct {
	cart       Cart
	widget     payment.Widget
	recorder   TransactionRecorder
	log        *zap.Logger
	resetDelay time.Duration

	// ctx outlives individual requests; it ends only on Shutdown.
	ctx    context.Context
	cancel context.CancelFunc

	mu         sync.Mutex
	session    domain.CheckoutSession
	current    *attempt
	resetTimer *time.Timer
	now        func() time.Time
}

func NewFlow(cart Cart, widget payment.Widget, recorder TransactionRecorder, log *zap.Logger, resetDelay time.Duration) *Flow {
	ctx, cancel := context.WithCancel(context.Background())
	return &Flow{
		cart:       cart,
		widget:     widget,
		recorder:   recorder,
		log:        log,
		resetDelay: resetDelay,
		ctx:        ctx,
		cancel:     cancel,
		session:    domain.CheckoutSession{Status: domain.CheckoutStatusIdle, Currency: domain.DefaultCurrency},
		now:        time.Now,
	}
}

// View returns a copy of the current checkout session.
func (f *Flow) View() domain.CheckoutSession {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.viewLocked()
}

// Open shows the checkout form. Opening an already open form is a no-op.
func (f *Flow) Open() (domain.CheckoutSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch f.session.Status {
	case domain.CheckoutStatusCollecting:
		return f.viewLocked(), nil
	case domain.CheckoutStatusProcessing:
		return f.viewLocked(), ErrInProgress
	case domain.CheckoutStatusSucceeded:
		f.resetLocked()
	}

	if err := f.transitionLocked(domain.CheckoutStatusCollecting); err != nil {
		return f.viewLocked(), err
	}
	f.session.ID = uuid.NewString()
	f.session.Message = ""
	return f.viewLocked(), nil
}

// Retry returns a failed checkout to the form.
func (f *Flow) Retry() (domain.CheckoutSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.session.Status != domain.CheckoutStatusFailed {
		return f.viewLocked(), fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, f.session.Status, domain.CheckoutStatusCollecting)
	}
	f.session.Status = domain.CheckoutStatusCollecting
	f.session.Message = ""
	f.session.PaymentLink = ""
	return f.viewLocked(), nil
}

// Close hides the checkout UI from any state. A payment still in flight is
// not cancelled, but its outcome will be ignored.
func (f *Flow) Close() domain.CheckoutSession {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.current != nil {
		f.log.Info("checkout closed while payment in flight",
			zap.String("reference", f.current.reference))
	}
	f.resetLocked()
	return f.viewLocked()
}

// Shutdown closes the flow and abandons any payment it is waiting on.
func (f *Flow) Shutdown() {
	f.Close()
	f.cancel()
}

func (f *Flow) resetLocked() {
	if f.resetTimer != nil {
		f.resetTimer.Stop()
		f.resetTimer = nil
	}
	f.current = nil
	f.session = domain.CheckoutSession{Status: domain.CheckoutStatusIdle, Currency: domain.DefaultCurrency}
}

func (f *Flow) transitionLocked(next domain.CheckoutStatus) error {
	if !f.session.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, f.session.Status, next)
	}
	f.session.Status = next
	return nil
}

func (f *Flow) viewLocked() domain.CheckoutSession {
	v := f.session
	v.Items = append([]domain.LineItem(nil), f.session.Items...)
	return v
}
