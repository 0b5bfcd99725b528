package payment

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

const StatusSuccessful = "successful"

// Launcher creates a hosted checkout page for a request and returns its link.
type Launcher interface {
	Ready() error
	Launch(ctx context.Context, req Request) (string, error)
}

// Callback is what the provider reports for a finished payment.
type Callback struct {
	Status        string
	TransactionID string
	Reason        string
}

func (c Callback) result() Result {
	if c.Status == StatusSuccessful {
		return Success(c.TransactionID)
	}
	reason := c.Reason
	if reason == "" {
		reason = fmt.Sprintf("payment %s", c.Status)
	}
	return Failure(reason)
}

// Hosted is a Widget backed by a provider-hosted checkout page. Pay parks
// until Resolve or Dismiss is called for the same reference.
type Hosted struct {
	launcher Launcher
	log      *zap.Logger

	mu      sync.Mutex
	pending map[string]chan Result
}

func NewHosted(launcher Launcher, log *zap.Logger) *Hosted {
	return &Hosted{
		launcher: launcher,
		log:      log,
		pending:  make(map[string]chan Result),
	}
}

func (h *Hosted) Ready() error {
	return h.launcher.Ready()
}

func (h *Hosted) Pay(ctx context.Context, req Request) (Result, error) {
	if err := h.launcher.Ready(); err != nil {
		return Result{}, err
	}

	// register before launching so a fast callback is never lost
	ch, err := h.register(req.Reference)
	if err != nil {
		return Result{}, err
	}
	defer h.unregister(req.Reference, ch)

	link, err := h.launcher.Launch(ctx, req)
	if err != nil {
		return Result{}, fmt.Errorf("failed to launch payment %s: %w", req.Reference, err)
	}
	h.log.Info("payment launched", zap.String("reference", req.Reference))
	if req.OnLaunch != nil {
		req.OnLaunch(link)
	}

	select {
	case res := <-ch:
		return res, nil
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

// Resolve delivers the provider's verdict to the waiting Pay call.
func (h *Hosted) Resolve(reference string, cb Callback) error {
	return h.deliver(reference, cb.result())
}

// Dismiss reports that the customer closed the checkout page without paying.
func (h *Hosted) Dismiss(reference string) error {
	return h.deliver(reference, Abandoned())
}

func (h *Hosted) register(reference string) (chan Result, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.pending[reference]; ok {
		return nil, ErrDuplicateReference
	}
	ch := make(chan Result, 1)
	h.pending[reference] = ch
	return ch, nil
}

func (h *Hosted) unregister(reference string, ch chan Result) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.pending[reference] == ch {
		delete(h.pending, reference)
	}
}

func (h *Hosted) deliver(reference string, res Result) error {
	h.mu.Lock()
	ch, ok := h.pending[reference]
	if ok {
		delete(h.pending, reference)
	}
	h.mu.Unlock()

	if !ok {
		return ErrUnknownReference
	}
	ch <- res // buffered, never blocks
	return nil
}
