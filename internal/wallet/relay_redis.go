package wallet

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/go-redis/redis/v8"
)

const (
	DefaultPairingChannel = "relay:pairing"
	sessionChannelPrefix  = "relay:session:"
)

// SessionChannel is the pub/sub channel carrying messages for one session topic.
func SessionChannel(topic string) string {
	return sessionChannelPrefix + topic
}

// RedisRelay is a RelayTransport over Redis pub/sub.
type RedisRelay struct {
	Client         *redis.Client
	PairingChannel string
}

func NewRedisRelay(client *redis.Client) *RedisRelay {
	return &RedisRelay{Client: client, PairingChannel: DefaultPairingChannel}
}

// Open subscribes to the session topic before announcing the pairing request so no reply is lost.
func (r *RedisRelay) Open(ctx context.Context, req PairingRequest) (RelaySubscription, error) {
	pubsub := r.Client.Subscribe(ctx, SessionChannel(req.Topic))
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("subscribe %s: %w", SessionChannel(req.Topic), err)
	}

	payload, err := json.Marshal(req)
	if err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("encode pairing request: %w", err)
	}
	if err := r.Client.Publish(ctx, r.PairingChannel, payload).Err(); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("publish pairing request: %w", err)
	}

	sub := &redisSubscription{
		pubsub: pubsub,
		out:    make(chan RelayMessage, 10),
		done:   make(chan struct{}),
	}
	go sub.pump()
	return sub, nil
}

// Respond publishes msg on the session topic. Used by approvers.
func (r *RedisRelay) Respond(ctx context.Context, topic string, msg RelayMessage) error {
	msg.Topic = topic
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode relay message: %w", err)
	}
	return r.Client.Publish(ctx, SessionChannel(topic), payload).Err()
}

// ListenPairings streams pairing requests until ctx is done.
func (r *RedisRelay) ListenPairings(ctx context.Context) (<-chan PairingRequest, error) {
	pubsub := r.Client.Subscribe(ctx, r.PairingChannel)
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("subscribe %s: %w", r.PairingChannel, err)
	}

	out := make(chan PairingRequest, 10)
	go func() {
		defer close(out)
		defer pubsub.Close()
		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-ch:
				if !ok {
					return
				}
				var req PairingRequest
				if err := json.Unmarshal([]byte(m.Payload), &req); err != nil || req.Topic == "" {
					continue
				}
				select {
				case out <- req:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

type redisSubscription struct {
	pubsub    *redis.PubSub
	out       chan RelayMessage
	done      chan struct{}
	closeOnce sync.Once
}

func (s *redisSubscription) Messages() <-chan RelayMessage {
	return s.out
}

func (s *redisSubscription) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.done)
		err = s.pubsub.Close()
	})
	return err
}

func (s *redisSubscription) pump() {
	defer close(s.out)
	for m := range s.pubsub.Channel() {
		var msg RelayMessage
		if err := json.Unmarshal([]byte(m.Payload), &msg); err != nil {
			continue
		}
		select {
		case s.out <- msg:
		case <-s.done:
			return
		}
	}
}
