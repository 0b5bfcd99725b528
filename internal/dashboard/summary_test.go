package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/ivancliff029/engaato-online/internal/domain"
	"github.com/ivancliff029/engaato-online/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	txs     []domain.TransactionRecord
	listErr error
}

func (f *fakeStore) List(_ context.Context, collection string, out any) error {
	if f.listErr != nil {
		return f.listErr
	}
	if collection != repository.CollectionTransactions {
		return nil
	}
	data, _ := json.Marshal(f.txs)
	return json.Unmarshal(data, out)
}

func (f *fakeStore) Write(context.Context, string, string, any) error { return nil }
func (f *fakeStore) Read(context.Context, string, string, any) error  { return nil }
func (f *fakeStore) Close(context.Context) error                      { return nil }

type fakeProducts struct {
	products []domain.Product
	err      error
}

func (f fakeProducts) All(context.Context) ([]domain.Product, error) {
	return f.products, f.err
}

func tx(id string, amount int64, status domain.TransactionStatus, at time.Time) domain.TransactionRecord {
	return domain.TransactionRecord{
		ID:        id,
		Reference: "ref-" + id,
		Amount:    domain.NewPrice(amount),
		Currency:  domain.DefaultCurrency,
		Status:    status,
		CreatedAt: at,
	}
}

func TestSummary(t *testing.T) {
	kampala := time.FixedZone("EAT", 3*60*60)
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, kampala)

	store := &fakeStore{txs: []domain.TransactionRecord{
		tx("t1", 150000, domain.TransactionStatusSuccessful, now.Add(-time.Hour)),
		// 23:30 the previous evening in Kampala
		tx("t2", 40000, domain.TransactionStatusSuccessful, time.Date(2026, 3, 1, 20, 30, 0, 0, time.UTC)),
		tx("t3", 25000, domain.TransactionStatusPending, now.Add(-2*time.Hour)),
	}}
	products := fakeProducts{products: []domain.Product{
		{ID: "p1", Price: domain.NewPrice(50000)},
		{ID: "p2", Price: domain.ParsePrice("25000")},
		{ID: "p3", Price: domain.ParsePrice("ask")},
	}}

	s := NewService(store, products, kampala)
	s.now = func() time.Time { return now }

	got, err := s.Summary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "175000", got.TodayRevenue.String())
	assert.Equal(t, 3, got.TotalOrders)
	assert.Equal(t, 1, got.PendingOrders)
	assert.Equal(t, "75000", got.InventoryValue.String())
	assert.Equal(t, "UGX", got.Currency)
}

func TestSummary_EmptyShop(t *testing.T) {
	s := NewService(&fakeStore{}, fakeProducts{}, nil)

	got, err := s.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "0", got.TodayRevenue.String())
	assert.Zero(t, got.TotalOrders)
	assert.Equal(t, "0", got.InventoryValue.String())
}

func TestSummary_SourceErrors(t *testing.T) {
	boom := errors.New("db down")

	_, err := NewService(&fakeStore{listErr: boom}, fakeProducts{}, nil).Summary(context.Background())
	assert.ErrorIs(t, err, boom)

	_, err = NewService(&fakeStore{}, fakeProducts{err: boom}, nil).Summary(context.Background())
	assert.ErrorIs(t, err, boom)
}
