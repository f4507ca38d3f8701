package wallet

import (
	"context"
	"sync"
)

// Backend is one way of obtaining a wallet address. Every variant resolves Connect with an
// address or a descriptive error and never retries on its own.
type Backend interface {
	Kind() Kind
	Connect(ctx context.Context) (string, error)
	// Address returns the address from the last successful Connect, if still connected.
	Address() (string, bool)
	// OnAccountChanged registers fn to be called with the new address, or "" on disconnect.
	OnAccountChanged(fn func(address string))
	Disconnect(ctx context.Context) error
}

// accountState is the address bookkeeping shared by the backends.
type accountState struct {
	mu       sync.RWMutex
	address  string
	handlers []func(string)
}

func (s *accountState) Address() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.address, s.address != ""
}

func (s *accountState) OnAccountChanged(fn func(address string)) {
	s.mu.Lock()
	s.handlers = append(s.handlers, fn)
	s.mu.Unlock()
}

func (s *accountState) set(address string) {
	s.mu.Lock()
	s.address = address
	s.mu.Unlock()
}

// change updates the address and notifies handlers if it differs from the current one.
func (s *accountState) change(address string) {
	s.mu.Lock()
	if s.address == address {
		s.mu.Unlock()
		return
	}
	s.address = address
	handlers := make([]func(string), len(s.handlers))
	copy(handlers, s.handlers)
	s.mu.Unlock()

	for _, fn := range handlers {
		fn(address)
	}
}
