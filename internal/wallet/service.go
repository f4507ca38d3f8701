package wallet

import (
	"context"
	"fmt"
	"sync"
	"time"

	"ms-storefront/internal/logger"
	"ms-storefront/internal/monitoring"
)

// Service connects wallets and keeps the session in step with the active backend.
type Service struct {
	Connector *Connector
	Session   *Session
	Logger    *logger.Logger

	mu     sync.Mutex
	active Backend
	wired  map[Kind]bool
	// storeTimeout bounds session writes triggered by backend callbacks.
	storeTimeout time.Duration
}

func NewService(connector *Connector, session *Session, log *logger.Logger) *Service {
	return &Service{
		Connector:    connector,
		Session:      session,
		Logger:       log,
		wired:        make(map[Kind]bool),
		storeTimeout: 5 * time.Second,
	}
}

// Connect performs one connection attempt and persists the resulting address.
func (s *Service) Connect(ctx context.Context, kind Kind) (string, error) {
	s.Logger.LogWallet(kind.String(), "connection requested")

	address, err := s.Connector.Connect(ctx, kind)
	if err != nil {
		monitoring.RecordWalletConnection(kind.String(), "failed")
		s.Logger.Warn("WALLET", fmt.Sprintf("[%s] connection failed: %v", kind, err))
		return "", err
	}

	if err := s.Session.Set(ctx, address, kind); err != nil {
		monitoring.RecordWalletConnection(kind.String(), "failed")
		s.Logger.Error("WALLET", fmt.Sprintf("[%s] failed to persist session: %v", kind, err))
		return "", err
	}

	backend, _ := s.Connector.Backend(kind)
	s.activate(backend)

	monitoring.RecordWalletConnection(kind.String(), "connected")
	s.Logger.LogWallet(kind.String(), fmt.Sprintf("connected %s", ShortAddress(address)))
	return address, nil
}

// Disconnect ends the active backend session, if any, and clears the stored address.
func (s *Service) Disconnect(ctx context.Context) error {
	s.mu.Lock()
	active := s.active
	s.active = nil
	s.mu.Unlock()

	if active != nil {
		if err := active.Disconnect(ctx); err != nil {
			s.Logger.Warn("WALLET", fmt.Sprintf("[%s] backend disconnect failed: %v", active.Kind(), err))
		}
	}
	if err := s.Session.Clear(ctx); err != nil {
		return err
	}
	s.Logger.LogWallet("session", "disconnected")
	return nil
}

// Current returns the connected address and the kind of the backend that produced it. The kind is
// zero when the address was restored from the store rather than connected in this process.
func (s *Service) Current(ctx context.Context) (string, Kind, bool, error) {
	address, ok, err := s.Session.Get(ctx)
	if err != nil || !ok {
		return "", 0, false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var kind Kind
	if s.active != nil {
		kind = s.active.Kind()
	}
	return address, kind, true, nil
}

func (s *Service) activate(backend Backend) {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous := s.active
	s.active = backend
	if previous != nil && previous != backend {
		go previous.Disconnect(context.Background())
	}
	if s.wired[backend.Kind()] {
		return
	}
	s.wired[backend.Kind()] = true
	backend.OnAccountChanged(func(address string) {
		s.onAccountChanged(backend, address)
	})
}

func (s *Service) onAccountChanged(backend Backend, address string) {
	s.mu.Lock()
	isActive := s.active == backend
	if isActive && address == "" {
		s.active = nil
	}
	s.mu.Unlock()
	if !isActive {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.storeTimeout)
	defer cancel()

	if address == "" {
		if err := s.Session.Clear(ctx); err != nil {
			s.Logger.Error("WALLET", fmt.Sprintf("[%s] failed to clear session: %v", backend.Kind(), err))
			return
		}
		s.Logger.LogWallet(backend.Kind().String(), "wallet disconnected")
		return
	}
	if err := s.Session.Set(ctx, address, backend.Kind()); err != nil {
		s.Logger.Error("WALLET", fmt.Sprintf("[%s] failed to update session: %v", backend.Kind(), err))
		return
	}
	s.Logger.LogWallet(backend.Kind().String(), fmt.Sprintf("account changed to %s", ShortAddress(address)))
}

// ShortAddress abbreviates an address as 0x1234...abcd.
func ShortAddress(address string) string {
	if len(address) <= 10 {
		return address
	}
	return address[:6] + "..." + address[len(address)-4:]
}
