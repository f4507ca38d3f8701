package wallet

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultRelayRPCEndpoint is the chain-1 RPC endpoint announced in every pairing request.
const DefaultRelayRPCEndpoint = "https://cloudflare-eth.com"

const DefaultRelayApprovalTimeout = 2 * time.Minute

// Relay message types.
const (
	RelaySessionApprove  = "session_approve"
	RelaySessionReject   = "session_reject"
	RelayAccountsChanged = "accountsChanged"
	RelayDisconnect      = "disconnect"
)

// PairingRequest is published when a session is requested; an out-of-band approver answers on
// the session topic.
type PairingRequest struct {
	Topic       string    `json:"topic"`
	ChainID     int       `json:"chainId"`
	RPCEndpoint string    `json:"rpcEndpoint"`
	RequestedAt time.Time `json:"requestedAt"`
}

type RelayMessage struct {
	Type     string   `json:"type"`
	Topic    string   `json:"topic,omitempty"`
	Accounts []string `json:"accounts,omitempty"`
	Reason   string   `json:"reason,omitempty"`
}

// RelayTransport carries pairing requests out and session messages back.
type RelayTransport interface {
	Open(ctx context.Context, req PairingRequest) (RelaySubscription, error)
}

type RelaySubscription interface {
	Messages() <-chan RelayMessage
	Close() error
}

// RelaySession connects through a relay protocol: the approval happens on another device.
type RelaySession struct {
	accountState

	transport   RelayTransport
	rpcEndpoint string
	timeout     time.Duration

	subMu sync.Mutex
	sub   RelaySubscription
	topic string
}

func NewRelaySession(transport RelayTransport, rpcEndpoint string, timeout time.Duration) *RelaySession {
	if rpcEndpoint == "" {
		rpcEndpoint = DefaultRelayRPCEndpoint
	}
	if timeout <= 0 {
		timeout = DefaultRelayApprovalTimeout
	}
	return &RelaySession{
		transport:   transport,
		rpcEndpoint: rpcEndpoint,
		timeout:     timeout,
	}
}

func (s *RelaySession) Kind() Kind { return KindRelay }

// Topic returns the topic of the active session, if any.
func (s *RelaySession) Topic() string {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	return s.topic
}

func (s *RelaySession) Connect(ctx context.Context) (string, error) {
	if s.transport == nil {
		return "", fmt.Errorf("%w: no relay transport configured", ErrSessionError)
	}
	s.closeSubscription()

	req := PairingRequest{
		Topic:       uuid.NewString(),
		ChainID:     1,
		RPCEndpoint: s.rpcEndpoint,
		RequestedAt: time.Now().UTC(),
	}
	sub, err := s.transport.Open(ctx, req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSessionError, err)
	}

	timer := time.NewTimer(s.timeout)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			sub.Close()
			return "", fmt.Errorf("%w: %v", ErrSessionError, ctx.Err())
		case <-timer.C:
			sub.Close()
			return "", fmt.Errorf("%w: approval timed out after %s", ErrSessionError, s.timeout)
		case msg, ok := <-sub.Messages():
			if !ok {
				sub.Close()
				return "", fmt.Errorf("%w: relay closed before approval", ErrSessionError)
			}
			switch msg.Type {
			case RelaySessionApprove:
				if len(msg.Accounts) == 0 || msg.Accounts[0] == "" {
					sub.Close()
					return "", ErrNoAccounts
				}
				s.set(msg.Accounts[0])
				s.subMu.Lock()
				s.sub = sub
				s.topic = req.Topic
				s.subMu.Unlock()
				go s.watch(sub)
				return msg.Accounts[0], nil
			case RelaySessionReject:
				sub.Close()
				if msg.Reason != "" {
					return "", fmt.Errorf("%w: %s", ErrConnectionRejected, msg.Reason)
				}
				return "", ErrConnectionRejected
			}
		}
	}
}

// watch forwards post-approval session events until the subscription ends.
func (s *RelaySession) watch(sub RelaySubscription) {
	for msg := range sub.Messages() {
		switch msg.Type {
		case RelayAccountsChanged:
			if len(msg.Accounts) > 0 {
				s.change(msg.Accounts[0])
			} else {
				s.change("")
			}
		case RelayDisconnect:
			s.change("")
			s.release(sub)
			return
		}
	}
	// transport dropped without a disconnect message
	if s.release(sub) {
		s.change("")
	}
}

func (s *RelaySession) Disconnect(ctx context.Context) error {
	s.closeSubscription()
	s.set("")
	return nil
}

func (s *RelaySession) closeSubscription() {
	s.subMu.Lock()
	sub := s.sub
	s.sub = nil
	s.topic = ""
	s.subMu.Unlock()
	if sub != nil {
		sub.Close()
	}
}

// release drops sub and reports whether it was still the active subscription.
func (s *RelaySession) release(sub RelaySubscription) bool {
	s.subMu.Lock()
	active := s.sub == sub
	if active {
		s.sub = nil
		s.topic = ""
	}
	s.subMu.Unlock()
	sub.Close()
	return active
}
