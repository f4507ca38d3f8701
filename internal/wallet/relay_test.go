package wallet

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRedis creates a Redis client backed by miniredis
func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()
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
	return client
}

// approveNext answers the next pairing request with reply and returns the request it saw.
func approveNext(t *testing.T, ctx context.Context, relay *RedisRelay, reply RelayMessage) <-chan PairingRequest {
	t.Helper()
	reqs, err := relay.ListenPairings(ctx)
	require.NoError(t, err)

	seen := make(chan PairingRequest, 1)
	go func() {
		select {
		case req, ok := <-reqs:
			if !ok {
				return
			}
			seen <- req
			relay.Respond(ctx, req.Topic, reply)
		case <-ctx.Done():
		}
	}()
	return seen
}

// chanTransport hands out one in-memory subscription per Open.
type chanTransport struct {
	sub *chanSubscription
}

func (c *chanTransport) Open(ctx context.Context, req PairingRequest) (RelaySubscription, error) {
	return c.sub, nil
}

type chanSubscription struct {
	msgs chan RelayMessage
	once sync.Once
}

func newChanSubscription() *chanSubscription {
	return &chanSubscription{msgs: make(chan RelayMessage, 4)}
}

func (c *chanSubscription) Messages() <-chan RelayMessage { return c.msgs }

func (c *chanSubscription) Close() error {
	c.once.Do(func() { close(c.msgs) })
	return nil
}

func TestRelaySession_Approve(t *testing.T) {
	client := setupTestRedis(t)
	relay := NewRedisRelay(client)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	seen := approveNext(t, ctx, relay, RelayMessage{Type: RelaySessionApprove, Accounts: []string{"0xRELAY1"}})

	session := NewRelaySession(relay, "", time.Second)
	addr, err := session.Connect(ctx)
	require.NoError(t, err)
	assert.Equal(t, "0xRELAY1", addr)

	req := <-seen
	assert.Equal(t, DefaultRelayRPCEndpoint, req.RPCEndpoint)
	assert.Equal(t, 1, req.ChainID)
	assert.Equal(t, req.Topic, session.Topic())

	got, ok := session.Address()
	assert.True(t, ok)
	assert.Equal(t, "0xRELAY1", got)
}

func TestRelaySession_ForwardsAccountChanges(t *testing.T) {
	client := setupTestRedis(t)
	relay := NewRedisRelay(client)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	approveNext(t, ctx, relay, RelayMessage{Type: RelaySessionApprove, Accounts: []string{"0xFIRST"}})

	session := NewRelaySession(relay, "", time.Second)
	changes := make(chan string, 4)
	session.OnAccountChanged(func(address string) { changes <- address })

	_, err := session.Connect(ctx)
	require.NoError(t, err)
	topic := session.Topic()

	require.NoError(t, relay.Respond(ctx, topic, RelayMessage{Type: RelayAccountsChanged, Accounts: []string{"0xSECOND"}}))
	select {
	case addr := <-changes:
		assert.Equal(t, "0xSECOND", addr)
	case <-time.After(2 * time.Second):
		t.Fatal("account change was not forwarded")
	}

	require.NoError(t, relay.Respond(ctx, topic, RelayMessage{Type: RelayDisconnect}))
	select {
	case addr := <-changes:
		assert.Equal(t, "", addr)
	case <-time.After(2 * time.Second):
		t.Fatal("disconnect was not forwarded")
	}

	assert.Eventually(t, func() bool { return session.Topic() == "" }, time.Second, 10*time.Millisecond)
	_, ok := session.Address()
	assert.False(t, ok)
}

func TestRelaySession_Reject(t *testing.T) {
	client := setupTestRedis(t)
	relay := NewRedisRelay(client)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	approveNext(t, ctx, relay, RelayMessage{Type: RelaySessionReject, Reason: "user declined"})

	_, err := NewRelaySession(relay, "", time.Second).Connect(ctx)
	assert.ErrorIs(t, err, ErrConnectionRejected)
}

func TestRelaySession_ApproveWithoutAccounts(t *testing.T) {
	client := setupTestRedis(t)
	relay := NewRedisRelay(client)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	approveNext(t, ctx, relay, RelayMessage{Type: RelaySessionApprove})

	_, err := NewRelaySession(relay, "", time.Second).Connect(ctx)
	assert.ErrorIs(t, err, ErrNoAccounts)
}

func TestRelaySession_Timeout(t *testing.T) {
	client := setupTestRedis(t)

	session := NewRelaySession(NewRedisRelay(client), "", 50*time.Millisecond)
	_, err := session.Connect(context.Background())
	assert.ErrorIs(t, err, ErrSessionError)
	_, ok := session.Address()
	assert.False(t, ok)
}

func TestRelaySession_NoTransport(t *testing.T) {
	_, err := NewRelaySession(nil, "", time.Second).Connect(context.Background())
	assert.ErrorIs(t, err, ErrSessionError)
}

func TestRelaySession_TransportDropClearsAddress(t *testing.T) {
	sub := newChanSubscription()
	sub.msgs <- RelayMessage{Type: RelaySessionApprove, Accounts: []string{"0xRELAY1"}}

	session := NewRelaySession(&chanTransport{sub: sub}, "", time.Second)
	changes := make(chan string, 2)
	session.OnAccountChanged(func(address string) { changes <- address })

	_, err := session.Connect(context.Background())
	require.NoError(t, err)

	// the relay goes away without sending a disconnect message
	sub.Close()

	select {
	case addr := <-changes:
		assert.Equal(t, "", addr)
	case <-time.After(2 * time.Second):
		t.Fatal("dropped transport was not reported")
	}
	_, ok := session.Address()
	assert.False(t, ok)
	assert.Equal(t, "", session.Topic())
}

func TestRelaySession_DisconnectDoesNotReportChange(t *testing.T) {
	sub := newChanSubscription()
	sub.msgs <- RelayMessage{Type: RelaySessionApprove, Accounts: []string{"0xRELAY1"}}

	session := NewRelaySession(&chanTransport{sub: sub}, "", time.Second)
	changes := make(chan string, 2)
	session.OnAccountChanged(func(address string) { changes <- address })

	_, err := session.Connect(context.Background())
	require.NoError(t, err)
	require.NoError(t, session.Disconnect(context.Background()))

	select {
	case addr := <-changes:
		t.Fatalf("unexpected account change %q after Disconnect", addr)
	case <-time.After(100 * time.Millisecond):
	}
	_, ok := session.Address()
	assert.False(t, ok)
}
