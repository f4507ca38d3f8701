package sse

import (
	"context"
	"testing"
	"time"

	"ms-storefront/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmit_ReachesAllSubscribers(t *testing.T) {
	e := NewSessionEventEmitter()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a := e.Subscribe(ctx)
	b := e.Subscribe(ctx)
	assert.Equal(t, 2, e.ClientCount())

	change := models.SessionChange{Type: models.SessionConnected, Address: "0xABC"}
	e.Emit(change)

	for _, ch := range []<-chan models.SessionChange{a, b} {
		select {
		case got := <-ch:
			assert.Equal(t, change, got)
		case <-time.After(time.Second):
			t.Fatal("subscriber did not receive change")
		}
	}
}

func TestSubscribe_RemovedOnContextDone(t *testing.T) {
	e := NewSessionEventEmitter()
	counts := make(chan int, 4)
	e.OnSubscriberCount(func(n int) { counts <- n })

	ctx, cancel := context.WithCancel(context.Background())
	ch := e.Subscribe(ctx)
	require.Equal(t, 1, <-counts)

	cancel()

	select {
	case _, ok := <-ch:
		assert.False(t, ok, "channel should be closed")
	case <-time.After(time.Second):
		t.Fatal("channel was not closed")
	}
	assert.Equal(t, 0, <-counts)
	assert.Equal(t, 0, e.ClientCount())
}

func TestEmit_DoesNotBlockOnSlowSubscriber(t *testing.T) {
	e := NewSessionEventEmitter()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	_ = e.Subscribe(ctx)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 50; i++ {
			e.Emit(models.SessionChange{Type: models.SessionAccountChanged})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Emit blocked on a full subscriber")
	}
}
