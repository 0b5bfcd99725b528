package persistence

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/ivancliff029/engaato-online/internal/domain"
	"go.uber.org/zap"
)

// CartKey is where the serialized cart lives.
const CartKey = "cart"

// Bridge mirrors the cart into a LocalStore. Failures are logged and never
// returned: a lost cart write is not worth failing a request over.
type Bridge struct {
	store LocalStore
	log   *zap.Logger
}

func NewBridge(store LocalStore, log *zap.Logger) *Bridge {
	return &Bridge{store: store, log: log}
}

// Load returns the stored cart, or nil when nothing usable is stored.
func (b *Bridge) Load(ctx context.Context) []domain.LineItem {
	raw, err := b.store.GetItem(ctx, CartKey)
	if errors.Is(err, ErrNoItem) {
		return nil
	}
	if err != nil {
		b.log.Error("failed to read cart from storage", zap.Error(err))
		return nil
	}

	var items []domain.LineItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		b.log.Error("failed to parse cart from storage", zap.Error(err))
		return nil
	}
	return items
}

// Save writes the full cart. An empty cart removes the stored entry.
func (b *Bridge) Save(ctx context.Context, items []domain.LineItem) {
	if len(items) == 0 {
		b.Clear(ctx)
		return
	}

	data, err := json.Marshal(items)
	if err != nil {
		b.log.Error("failed to serialize cart", zap.Error(err))
		return
	}
	if err := b.store.SetItem(ctx, CartKey, string(data)); err != nil {
		b.log.Error("failed to write cart to storage", zap.Error(err))
	}
}

func (b *Bridge) Clear(ctx context.Context) {
	if err := b.store.RemoveItem(ctx, CartKey); err != nil {
		b.log.Error("failed to remove cart from storage", zap.Error(err))
	}
}
