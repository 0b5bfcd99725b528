package session

import (
	"context"
	"testing"
	"time"

	"github.com/ivancliff029/engaato-online/internal/domain"
	"github.com/ivancliff029/engaato-online/internal/payment"
	"github.com/ivancliff029/engaato-online/internal/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type blockingWidget struct{}

func (blockingWidget) Ready() error { return nil }

func (blockingWidget) Pay(ctx context.Context, _ payment.Request) (payment.Result, error) {
	<-ctx.Done()
	return payment.Result{}, ctx.Err()
}

type nopRecorder struct{}

func (nopRecorder) Record(context.Context, domain.TransactionRecord) {}

var socks = domain.Product{ID: "p2", Title: "Socks", Price: domain.NewPrice(7500)}

func newTestManager(t *testing.T) (*Manager, *time.Time) {
	t.Helper()
	m := NewManager(Options{
		Storage:     persistence.NewMemoryProvider(),
		Widget:      blockingWidget{},
		Recorder:    nopRecorder{},
		ResetDelay:  time.Second,
		IdleTimeout: time.Hour,
	}, zap.NewNop())
	t.Cleanup(m.Close)

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }
	return m, &now
}

func TestGet_ReusesSession(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	a := m.Get(ctx, "s1")
	b := m.Get(ctx, "s1")
	c := m.Get(ctx, "s2")

	assert.Same(t, a, b)
	assert.NotSame(t, a, c)
	assert.Equal(t, 2, m.Len())
}

func TestEvictIdle_ReloadsStoredCart(t *testing.T) {
	m, now := newTestManager(t)
	ctx := context.Background()

	s := m.Get(ctx, "s1")
	require.NoError(t, s.Cart.AddItem(socks, 2, "", ""))

	*now = now.Add(2 * time.Hour)
	m.evictIdle()
	assert.Equal(t, 0, m.Len())

	reloaded := m.Get(ctx, "s1")
	assert.NotSame(t, s, reloaded)
	assert.Equal(t, 2, reloaded.Cart.ItemCount())
}

func TestEvictIdle_KeepsRecentAndProcessing(t *testing.T) {
	m, now := newTestManager(t)
	ctx := context.Background()

	paying := m.Get(ctx, "paying")
	require.NoError(t, paying.Cart.AddItem(socks, 1, "", ""))
	_, err := paying.Checkout.Open()
	require.NoError(t, err)
	_, err = paying.Checkout.Initiate(ctx, domain.Customer{Email: "a@b.c", Phone: "256700000000"})
	require.NoError(t, err)

	*now = now.Add(2 * time.Hour)
	m.Get(ctx, "recent")
	m.evictIdle()

	assert.Equal(t, 2, m.Len())
}

func TestClose_ShutsDownCheckouts(t *testing.T) {
	m, _ := newTestManager(t)
	s := m.Get(context.Background(), "s1")
	_, err := s.Checkout.Open()
	require.NoError(t, err)

	m.Close()

	assert.Equal(t, 0, m.Len())
	assert.Equal(t, domain.CheckoutStatusIdle, s.Checkout.View().Status)
}

func TestEvictIdle_ReleasesEmptyStorage(t *testing.T) {
	m, now := newTestManager(t)
	storage := m.opts.Storage.(*persistence.MemoryProvider)
	ctx := context.Background()

	m.Get(ctx, "visitor-1")
	m.Get(ctx, "visitor-2")
	shopper := m.Get(ctx, "shopper")
	require.NoError(t, shopper.Cart.AddItem(socks, 1, "", ""))
	require.Equal(t, 3, storage.Len())

	*now = now.Add(2 * time.Hour)
	m.evictIdle()

	assert.Equal(t, 0, m.Len())
	assert.Equal(t, 1, storage.Len())
	assert.Equal(t, 1, m.Get(ctx, "shopper").Cart.ItemCount())
}
