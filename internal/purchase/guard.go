package purchase

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// Guard keeps a single purchase in flight per key.
type Guard interface {
	Lock(ctx context.Context, key, owner string) (bool, error)
	Unlock(ctx context.Context, key, owner string) error
}

// GuardKey scopes the in-flight guard to one event and one wallet.
func GuardKey(eventID, address string) string {
	return eventID + ":" + address
}

// LocalGuard is an in-process Guard.
type LocalGuard struct {
	mu   sync.Mutex
	held map[string]string
}

func NewLocalGuard() *LocalGuard {
	return &LocalGuard{held: make(map[string]string)}
}

func (g *LocalGuard) Lock(ctx context.Context, key, owner string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, taken := g.held[key]; taken {
		return false, nil
	}
	g.held[key] = owner
	return true, nil
}

func (g *LocalGuard) Unlock(ctx context.Context, key, owner string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.held[key] == owner {
		delete(g.held, key)
	}
	return nil
}

const (
	purchaseLockPrefix     = "purchase_lock:"
	DefaultPurchaseLockTTL = 30 * time.Second
)

// RedisGuard holds purchase locks in Redis so they survive across instances sharing a profile.
type RedisGuard struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisGuard(client *redis.Client, ttl time.Duration) *RedisGuard {
	if ttl <= 0 {
		ttl = DefaultPurchaseLockTTL
	}
	return &RedisGuard{Client: client, TTL: ttl}
}

func (g *RedisGuard) Lock(ctx context.Context, key, owner string) (bool, error) {
	return g.Client.SetNX(ctx, purchaseLockPrefix+key, owner, g.TTL).Result()
}

// Unlock releases the lock only if owner still holds it.
func (g *RedisGuard) Unlock(ctx context.Context, key, owner string) error {
	val, err := g.Client.Get(ctx, purchaseLockPrefix+key).Result()
	if err == redis.Nil {
		return nil // already released or expired
	}
	if err != nil {
		return err
	}
	if val == owner {
		return g.Client.Del(ctx, purchaseLockPrefix+key).Err()
	}
	return nil
}
