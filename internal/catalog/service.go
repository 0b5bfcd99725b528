package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/ivancliff029/engaato-online/internal/domain"
	"github.com/ivancliff029/engaato-online/internal/repository"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

var ErrProductNotFound = errors.New("product not found")

// Service is the read-only product catalog.
type Service struct {
	store repository.DocumentStore
	cache ProductCache
	sfg   singleflight.Group // Prevents cache stampede
	log   *zap.Logger
}

func NewService(store repository.DocumentStore, cache ProductCache, log *zap.Logger) *Service {
	return &Service{store: store, cache: cache, log: log}
}

// All returns every product, from cache when possible.
func (s *Service) All(ctx context.Context) ([]domain.Product, error) {
	v, err, _ := s.sfg.Do(cacheKey, func() (interface{}, error) {
		products, err := s.cache.Get(ctx)
		if err == nil {
			return products, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			s.log.Warn("catalog cache get failed", zap.Error(err))
		}

		if err := s.store.List(ctx, repository.CollectionProducts, &products); err != nil {
			return nil, fmt.Errorf("failed to list products: %w", err)
		}

		go func() {
			if err := s.cache.Set(context.Background(), products); err != nil {
				s.log.Warn("catalog cache set failed", zap.Error(err))
			}
		}()

		return products, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Product), nil
}

func (s *Service) Get(ctx context.Context, id string) (domain.Product, error) {
	products, err := s.All(ctx)
	if err != nil {
		return domain.Product{}, err
	}
	for _, p := range products {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Product{}, ErrProductNotFound
}

// List filters, sorts and paginates the catalog.
func (s *Service) List(ctx context.Context, f Filter) (Page, error) {
	products, err := s.All(ctx)
	if err != nil {
		return Page{}, err
	}
	page := Apply(products, f)
	page.Categories = Categories(products)
	return page, nil
}
