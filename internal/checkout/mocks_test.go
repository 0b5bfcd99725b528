package checkout

import (
	"context"
	"sync"

	"github.com/ivancliff029/engaato-online/internal/domain"
	"github.com/ivancliff029/engaato-online/internal/payment"
)

// fakeWidget parks every Pay call until the test settles it.
type fakeWidget struct {
	mu       sync.Mutex
	readyErr error
	startErr error
	calls    int
	pending  map[string]chan payment.Result
	started  chan payment.Request
}

func newFakeWidget() *fakeWidget {
	return &fakeWidget{
		pending: make(map[string]chan payment.Result),
		started: make(chan payment.Request, 8),
	}
}

func (w *fakeWidget) Ready() error { return w.readyErr }

func (w *fakeWidget) Pay(ctx context.Context, req payment.Request) (payment.Result, error) {
	w.mu.Lock()
	w.calls++
	if w.startErr != nil {
		w.mu.Unlock()
		return payment.Result{}, w.startErr
	}
	ch := make(chan payment.Result, 1)
	w.pending[req.Reference] = ch
	w.mu.Unlock()

	if req.OnLaunch != nil {
		req.OnLaunch("https://checkout.example/" + req.Reference)
	}
	w.started <- req

	select {
	case res := <-ch:
		return res, nil
	case <-ctx.Done():
		return payment.Result{}, ctx.Err()
	}
}

func (w *fakeWidget) settle(reference string, res payment.Result) {
	w.mu.Lock()
	ch := w.pending[reference]
	delete(w.pending, reference)
	w.mu.Unlock()
	ch <- res
}

func (w *fakeWidget) callCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.calls
}

// fakeRecorder optionally holds Record open: it signals entered and waits
// for release.
type fakeRecorder struct {
	mu      sync.Mutex
	records []domain.TransactionRecord
	entered chan struct{}
	release chan struct{}
}

func (r *fakeRecorder) Record(_ context.Context, tx domain.TransactionRecord) {
	r.mu.Lock()
	r.records = append(r.records, tx)
	r.mu.Unlock()

	if r.entered != nil {
		close(r.entered)
		<-r.release
	}
}

func (r *fakeRecorder) all() []domain.TransactionRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.TransactionRecord(nil), r.records...)
}

type fakeDocumentStore struct {
	mu       sync.Mutex
	docs     map[string]any
	writeErr error
}

func (s *fakeDocumentStore) Write(_ context.Context, collection, id string, doc any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return s.writeErr
	}
	if s.docs == nil {
		s.docs = make(map[string]any)
	}
	s.docs[collection+"/"+id] = doc
	return nil
}

func (s *fakeDocumentStore) Read(context.Context, string, string, any) error { return nil }
func (s *fakeDocumentStore) List(context.Context, string, any) error         { return nil }
func (s *fakeDocumentStore) Close(context.Context) error                     { return nil }

type fakePublisher struct {
	mu        sync.Mutex
	published []domain.TransactionRecord
}

func (p *fakePublisher) PublishTransaction(_ context.Context, tx domain.TransactionRecord) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, tx)
	return nil
}

func (p *fakePublisher) Close() error { return nil }
