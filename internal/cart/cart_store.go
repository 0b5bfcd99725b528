package cart

import (
	"context"
	"sync"
	"time"

	"github.com/ivancliff029/engaato-online/internal/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// persistTimeout bounds a single storage write issued after a mutation.
const persistTimeout = time.Second

type Persister interface {
	Load(ctx context.Context) []domain.LineItem
	Save(ctx context.Context, items []domain.LineItem)
	Clear(ctx context.Context)
}

// Store is the authoritative cart of one browsing session. Every mutation
// goes through its methods; the storage write for a mutation is issued under
// the same lock, after the in-memory update, so writes land in call order.
type Store struct {
	mu    sync.Mutex
	lines []domain.LineItem
	pers  Persister
	log   *zap.Logger
}

func NewStore(ctx context.Context, pers Persister, log *zap.Logger) *Store {
	s := &Store{pers: pers, log: log}
	s.lines = normalize(pers.Load(ctx))
	return s
}

// normalize drops unusable lines and merges lines sharing a key, so carts
// written by older clients still satisfy the one-line-per-key rule.
func normalize(items []domain.LineItem) []domain.LineItem {
	out := make([]domain.LineItem, 0, len(items))
	index := make(map[domain.LineKey]int, len(items))
	for _, item := range items {
		if item.ID == "" || item.Quantity <= 0 {
			continue
		}
		if i, ok := index[item.Key()]; ok {
			out[i].Quantity += item.Quantity
			continue
		}
		index[item.Key()] = len(out)
		out = append(out, item)
	}
	return out
}

// AddItem merges quantity into the line for (product, color, size), creating
// the line when absent. Invalid input leaves the cart unchanged.
func (s *Store) AddItem(product domain.Product, quantity int, color, size string) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	if product.ID == "" {
		return ErrMissingProductID
	}
	if err := validateOptions(product, color, size); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := domain.LineKey{ProductID: product.ID, Color: color, Size: size}
	if i := s.find(key); i >= 0 {
		s.lines[i].Quantity += quantity
	} else {
		s.lines = append(s.lines, domain.LineItem{
			Product:       product,
			Quantity:      quantity,
			SelectedColor: color,
			SelectedSize:  size,
		})
	}

	s.persist()
	return nil
}

func validateOptions(product domain.Product, color, size string) error {
	if len(product.Colors) > 0 {
		if color == "" {
			return ErrMissingOption
		}
		if !product.HasColor(color) {
			return ErrUnknownOption
		}
	}
	if len(product.Sizes) > 0 {
		if size == "" {
			return ErrMissingOption
		}
		if !product.HasSize(size) {
			return ErrUnknownOption
		}
	}
	return nil
}

// RemoveItem deletes every line of the product. Absent products are a no-op.
func (s *Store) RemoveItem(productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.lines[:0]
	for _, line := range s.lines {
		if line.ID != productID {
			kept = append(kept, line)
		}
	}
	if len(kept) == len(s.lines) {
		return
	}
	s.lines = kept
	s.persist()
}

// RemoveLine deletes the single line identified by key. Absent lines are a no-op.
func (s *Store) RemoveLine(key domain.LineKey) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.find(key)
	if i < 0 {
		return
	}
	s.lines = append(s.lines[:i], s.lines[i+1:]...)
	s.persist()
}

// UpdateQuantity sets the line's quantity, removing it when quantity <= 0.
// It reports whether a line matched.
func (s *Store) UpdateQuantity(key domain.LineKey, quantity int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.find(key)
	if i < 0 {
		return false
	}
	if quantity <= 0 {
		s.lines = append(s.lines[:i], s.lines[i+1:]...)
	} else {
		s.lines[i].Quantity = quantity
	}
	s.persist()
	return true
}

func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lines = nil
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	s.pers.Clear(ctx)
}

// Items returns a copy of the lines in insertion order.
func (s *Store) Items() []domain.LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyLines()
}

// ItemCount is the total number of units, not the number of lines.
func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return itemCount(s.lines)
}

// TotalPrice sums unit price times quantity; unparseable prices count as zero.
func (s *Store) TotalPrice() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return totalPrice(s.lines)
}

// Eligible reports whether every line has the selections its product requires.
func (s *Store) Eligible() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, line := range s.lines {
		if !line.Complete() {
			return false
		}
	}
	return true
}

// Snapshot captures lines and aggregates atomically.
func (s *Store) Snapshot() domain.CartSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.CartSnapshot{
		Items:     s.copyLines(),
		Total:     totalPrice(s.lines),
		ItemCount: itemCount(s.lines),
	}
}

func (s *Store) find(key domain.LineKey) int {
	for i, line := range s.lines {
		if line.Key() == key {
			return i
		}
	}
	return -1
}

func (s *Store) copyLines() []domain.LineItem {
	out := make([]domain.LineItem, len(s.lines))
	copy(out, s.lines)
	return out
}

// persist must be called with s.mu held.
func (s *Store) persist() {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	s.pers.Save(ctx, s.copyLines())
}

func itemCount(lines []domain.LineItem) int {
	n := 0
	for _, line := range lines {
		n += line.Quantity
	}
	return n
}

func totalPrice(lines []domain.LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Subtotal())
	}
	return total
}
