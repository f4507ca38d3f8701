package purchase

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRedis creates a Redis client using miniredis for testing
func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to create miniredis: %v", err)
	}
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	if err := client.Ping(context.Background()).Err(); err != nil {
		mr.Close()
		t.Fatalf("Failed to connect to miniredis: %v", err)
	}
	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})
	return client, mr
}

func TestLocalGuard(t *testing.T) {
	ctx := context.Background()
	g := NewLocalGuard()

	ok, err := g.Lock(ctx, "2:0xABC", "a")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, _ = g.Lock(ctx, "2:0xABC", "b")
	assert.False(t, ok)

	ok, _ = g.Lock(ctx, "3:0xABC", "b")
	assert.True(t, ok, "different event is independent")

	require.NoError(t, g.Unlock(ctx, "2:0xABC", "b"))
	ok, _ = g.Lock(ctx, "2:0xABC", "c")
	assert.False(t, ok, "unlock by non-owner must not release")

	require.NoError(t, g.Unlock(ctx, "2:0xABC", "a"))
	ok, _ = g.Lock(ctx, "2:0xABC", "c")
	assert.True(t, ok)
}

func TestRedisGuard_LockUnlock(t *testing.T) {
	client, mr := setupTestRedis(t)
	ctx := context.Background()
	g := NewRedisGuard(client, time.Minute)

	ok, err := g.Lock(ctx, "2:0xABC", "owner-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, mr.Exists("purchase_lock:2:0xABC"))

	ok, err = g.Lock(ctx, "2:0xABC", "owner-2")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, g.Unlock(ctx, "2:0xABC", "owner-2"))
	assert.True(t, mr.Exists("purchase_lock:2:0xABC"))

	require.NoError(t, g.Unlock(ctx, "2:0xABC", "owner-1"))
	assert.False(t, mr.Exists("purchase_lock:2:0xABC"))

	require.NoError(t, g.Unlock(ctx, "2:0xABC", "owner-1"), "releasing twice is a no-op")
}

func TestRedisGuard_Expires(t *testing.T) {
	client, mr := setupTestRedis(t)
	ctx := context.Background()
	g := NewRedisGuard(client, 10*time.Second)

	ok, err := g.Lock(ctx, "1:0xABC", "owner-1")
	require.NoError(t, err)
	require.True(t, ok)

	mr.FastForward(11 * time.Second)

	ok, err = g.Lock(ctx, "1:0xABC", "owner-2")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisGuard_Concurrent(t *testing.T) {
	client, _ := setupTestRedis(t)
	g := NewRedisGuard(client, time.Minute)

	var wins int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ok, err := g.Lock(context.Background(), "4:0xABC", string(rune('a'+i)))
			if err == nil && ok {
				atomic.AddInt32(&wins, 1)
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, int32(1), wins)
}
