package session

import (
	"context"
	"sync"
	"time"

	"github.com/ivancliff029/engaato-online/internal/cart"
	"github.com/ivancliff029/engaato-online/internal/checkout"
	"github.com/ivancliff029/engaato-online/internal/domain"
	"github.com/ivancliff029/engaato-online/internal/payment"
	"github.com/ivancliff029/engaato-online/internal/persistence"
	"go.uber.org/zap"
)

// CleanupInterval is how often idle sessions are looked for.
const CleanupInterval = time.Minute

// Session is one visitor's cart and checkout.
type Session struct {
	ID       string
	Cart     *cart.Store
	Checkout *checkout.Flow

	lastSeen time.Time
}

type Options struct {
	Storage     persistence.Provider
	Widget      payment.Widget
	Recorder    checkout.TransactionRecorder
	ResetDelay  time.Duration
	IdleTimeout time.Duration
}

// Manager owns the live sessions. Sessions idle for longer than
// IdleTimeout are dropped from memory; their stored carts are reloaded
// on the next visit.
type Manager struct {
	opts Options
	log  *zap.Logger

	mu       sync.Mutex
	sessions map[string]*Session
	now      func() time.Time

	stopCleanup chan struct{}
	stopOnce    sync.Once
	wg          sync.WaitGroup
}

func NewManager(opts Options, log *zap.Logger) *Manager {
	m := &Manager{
		opts:        opts,
		log:         log,
		sessions:    make(map[string]*Session),
		now:         time.Now,
		stopCleanup: make(chan struct{}),
	}

	m.wg.Add(1)
	go m.cleanupLoop()

	return m
}

// Get returns the session for id, loading it from storage on first use.
func (m *Manager) Get(ctx context.Context, id string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[id]; ok {
		s.lastSeen = m.now()
		return s
	}

	sessionLog := m.log.With(zap.String("session_id", id))
	bridge := persistence.NewBridge(m.opts.Storage.Open(id), sessionLog)
	store := cart.NewStore(ctx, bridge, sessionLog)
	s := &Session{
		ID:       id,
		Cart:     store,
		Checkout: checkout.NewFlow(store, m.opts.Widget, m.opts.Recorder, sessionLog, m.opts.ResetDelay),
		lastSeen: m.now(),
	}
	m.sessions[id] = s
	return s
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *Manager) cleanupLoop() {
	defer m.wg.Done()

	ticker := time.NewTicker(CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.evictIdle()
		case <-m.stopCleanup:
			return
		}
	}
}

// evictIdle drops sessions not seen within IdleTimeout. A session with a
// payment in flight is kept.
func (m *Manager) evictIdle() {
	m.mu.Lock()
	var evicted []*Session
	cutoff := m.now().Add(-m.opts.IdleTimeout)
	for id, s := range m.sessions {
		if s.lastSeen.After(cutoff) {
			continue
		}
		if s.Checkout.View().Status == domain.CheckoutStatusProcessing {
			continue
		}
		delete(m.sessions, id)
		evicted = append(evicted, s)
	}
	m.mu.Unlock()

	for _, s := range evicted {
		s.Checkout.Shutdown()
		m.opts.Storage.Release(s.ID)
	}
	if len(evicted) > 0 {
		m.log.Info("evicted idle sessions", zap.Int("count", len(evicted)))
	}
}

// Close stops the cleanup loop and shuts down every session's checkout.
func (m *Manager) Close() {
	m.stopOnce.Do(func() { close(m.stopCleanup) })
	m.wg.Wait()

	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, s := range sessions {
		s.Checkout.Shutdown()
	}
}
