package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/ivancliff029/engaato-online/internal/domain"
	"github.com/ivancliff029/engaato-online/internal/repository"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Summary is the merchant's at-a-glance view of the shop.
type Summary struct {
	TodayRevenue   domain.Price `json:"todayRevenue"`
	TotalOrders    int          `json:"totalOrders"`
	PendingOrders  int          `json:"pendingOrders"`
	InventoryValue domain.Price `json:"inventoryValue"`
	Currency       string       `json:"currency"`
	GeneratedAt    time.Time    `json:"generatedAt"`
}

type ProductSource interface {
	All(ctx context.Context) ([]domain.Product, error)
}

type Service struct {
	store    repository.DocumentStore
	products ProductSource
	loc      *time.Location
	now      func() time.Time
}

// NewService reports over the transactions collection and the catalog.
// "Today" starts at midnight in loc.
func NewService(store repository.DocumentStore, products ProductSource, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{store: store, products: products, loc: loc, now: time.Now}
}

func (s *Service) Summary(ctx context.Context) (Summary, error) {
	var (
		txs      []domain.TransactionRecord
		products []domain.Product
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := s.store.List(gctx, repository.CollectionTransactions, &txs); err != nil {
			return fmt.Errorf("failed to load transactions: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if products, err = s.products.All(gctx); err != nil {
			return fmt.Errorf("failed to load products: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return Summary{}, err
	}

	now := s.now().In(s.loc)
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)

	revenue := decimal.Zero
	pending := 0
	for _, tx := range txs {
		if !tx.CreatedAt.Before(startOfDay) {
			revenue = revenue.Add(tx.Amount.Decimal())
		}
		if tx.Status == domain.TransactionStatusPending {
			pending++
		}
	}

	inventory := decimal.Zero
	for _, p := range products {
		inventory = inventory.Add(p.Price.Decimal())
	}

	return Summary{
		TodayRevenue:   domain.PriceFromDecimal(revenue),
		TotalOrders:    len(txs),
		PendingOrders:  pending,
		InventoryValue: domain.PriceFromDecimal(inventory),
		Currency:       domain.DefaultCurrency,
		GeneratedAt:    now,
	}, nil
}
