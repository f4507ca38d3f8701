package sse

import (
	"context"
	"sync"

	"ms-storefront/internal/models"
)

// SessionEventEmitter fans wallet session changes out to subscribers such as
// open event pages or the session stream endpoint.
type SessionEventEmitter struct {
	clients     []chan models.SessionChange
	clientMutex sync.RWMutex
	onCount     func(int)
}

func NewSessionEventEmitter() *SessionEventEmitter {
	return &SessionEventEmitter{}
}

// OnSubscriberCount registers a callback invoked with the subscriber count after every change.
func (e *SessionEventEmitter) OnSubscriberCount(fn func(int)) {
	e.clientMutex.Lock()
	e.onCount = fn
	e.clientMutex.Unlock()
}

// Subscribe returns a channel that receives session changes until ctx is done.
// The channel is closed after removal.
func (e *SessionEventEmitter) Subscribe(ctx context.Context) <-chan models.SessionChange {
	clientChan := make(chan models.SessionChange, 10)

	e.clientMutex.Lock()
	e.clients = append(e.clients, clientChan)
	count, onCount := len(e.clients), e.onCount
	e.clientMutex.Unlock()

	if onCount != nil {
		onCount(count)
	}

	go func() {
		<-ctx.Done()
		e.removeClient(clientChan)
	}()

	return clientChan
}

// Emit broadcasts change to every subscriber without blocking; a subscriber whose
// buffer is full misses the change.
func (e *SessionEventEmitter) Emit(change models.SessionChange) {
	e.clientMutex.RLock()
	defer e.clientMutex.RUnlock()

	for _, clientChan := range e.clients {
		select {
		case clientChan <- change:
		default:
		}
	}
}

func (e *SessionEventEmitter) removeClient(clientChan chan models.SessionChange) {
	e.clientMutex.Lock()
	for i, ch := range e.clients {
		if ch == clientChan {
			e.clients = append(e.clients[:i], e.clients[i+1:]...)
			close(clientChan)
			break
		}
	}
	count, onCount := len(e.clients), e.onCount
	e.clientMutex.Unlock()

	if onCount != nil {
		onCount(count)
	}
}

// ClientCount returns the number of current subscribers.
func (e *SessionEventEmitter) ClientCount() int {
	e.clientMutex.RLock()
	defer e.clientMutex.RUnlock()
	return len(e.clients)
}
