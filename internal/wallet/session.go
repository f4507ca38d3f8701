package wallet

import (
	"context"
	"sync"

	"ms-storefront/internal/clock"
	"ms-storefront/internal/models"
	"ms-storefront/internal/sse"
)

// SessionStore persists the connected wallet address.
type SessionStore interface {
	PutSession(ctx context.Context, address string) error
	GetSession(ctx context.Context) (string, bool, error)
	ClearSession(ctx context.Context) error
}

// Session is the connected-wallet context shared by every view. Changes are persisted first and
// then broadcast to subscribers.
type Session struct {
	store   SessionStore
	emitter *sse.SessionEventEmitter
	clock   clock.Clock
	mu      sync.Mutex
}

func NewSession(store SessionStore, emitter *sse.SessionEventEmitter, clk clock.Clock) *Session {
	if emitter == nil {
		emitter = sse.NewSessionEventEmitter()
	}
	if clk == nil {
		clk = clock.NewSystem()
	}
	return &Session{store: store, emitter: emitter, clock: clk}
}

func (s *Session) Get(ctx context.Context) (string, bool, error) {
	return s.store.GetSession(ctx)
}

// Set records address as the connected wallet.
func (s *Session) Set(ctx context.Context, address string, kind Kind) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous, had, err := s.store.GetSession(ctx)
	if err != nil {
		had = false
	}
	if err := s.store.PutSession(ctx, address); err != nil {
		return err
	}

	changeType := models.SessionConnected
	if had {
		if previous == address {
			return nil
		}
		changeType = models.SessionAccountChanged
	}
	s.emitter.Emit(models.SessionChange{
		Type:       changeType,
		Address:    address,
		WalletKind: kind.String(),
		At:         s.clock.Now(),
	})
	return nil
}

func (s *Session) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.ClearSession(ctx); err != nil {
		return err
	}
	s.emitter.Emit(models.SessionChange{
		Type: models.SessionDisconnected,
		At:   s.clock.Now(),
	})
	return nil
}

// Subscribe streams session changes until ctx is done.
func (s *Session) Subscribe(ctx context.Context) <-chan models.SessionChange {
	return s.emitter.Subscribe(ctx)
}
