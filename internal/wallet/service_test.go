package wallet

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"ms-storefront/internal/clock"
	"ms-storefront/internal/logger"
	"ms-storefront/internal/models"
	"ms-storefront/internal/sse"
	"ms-storefront/internal/store"
	"ms-storefront/internal/tickets/ledger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubBackend struct {
	accountState
	kind    Kind
	address string
	err     error
}

func (b *stubBackend) Kind() Kind { return b.kind }

func (b *stubBackend) Connect(ctx context.Context) (string, error) {
	if b.err != nil {
		return "", b.err
	}
	b.set(b.address)
	return b.address, nil
}

func (b *stubBackend) Disconnect(ctx context.Context) error {
	b.set("")
	return nil
}

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T, backends ...Backend) (*Service, *ledger.Ledger) {
	t.Helper()
	log := logger.NewWriterLogger(io.Discard)
	l := ledger.NewLedger(store.NewMemoryStore(), log)
	session := NewSession(l, sse.NewSessionEventEmitter(), clock.NewFixed(fixedNow))
	return NewService(NewConnector(backends...), session, log), l
}

func nextChange(t *testing.T, ch <-chan models.SessionChange) models.SessionChange {
	t.Helper()
	select {
	case c := <-ch:
		return c
	case <-time.After(2 * time.Second):
		t.Fatal("no session change received")
		return models.SessionChange{}
	}
}

func TestService_ConnectPersistsSession(t *testing.T) {
	backend := &stubBackend{kind: KindExtension, address: "0xABCD000000000000000000000000000000001234"}
	svc, l := newTestService(t, backend)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	changes := svc.Session.Subscribe(ctx)

	addr, err := svc.Connect(ctx, KindExtension)
	require.NoError(t, err)
	assert.Equal(t, backend.address, addr)

	stored, ok, err := l.GetSession(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, backend.address, stored)

	c := nextChange(t, changes)
	assert.Equal(t, models.SessionConnected, c.Type)
	assert.Equal(t, "extension-wallet", c.WalletKind)
	assert.Equal(t, fixedNow, c.At)

	current, kind, ok, err := svc.Current(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, backend.address, current)
	assert.Equal(t, KindExtension, kind)
}

func TestService_ConnectFailureWritesNothing(t *testing.T) {
	backend := &stubBackend{kind: KindAltChain, err: ErrWalletNotInstalled}
	svc, l := newTestService(t, backend)

	_, err := svc.Connect(context.Background(), KindAltChain)
	assert.ErrorIs(t, err, ErrWalletNotInstalled)

	_, ok, err := l.GetSession(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestService_AccountChangeUpdatesSession(t *testing.T) {
	backend := &stubBackend{kind: KindRelay, address: "0xOLD"}
	svc, l := newTestService(t, backend)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_, err := svc.Connect(ctx, KindRelay)
	require.NoError(t, err)
	changes := svc.Session.Subscribe(ctx)

	backend.change("0xNEW")
	c := nextChange(t, changes)
	assert.Equal(t, models.SessionAccountChanged, c.Type)
	assert.Equal(t, "0xNEW", c.Address)

	stored, _, _ := l.GetSession(ctx)
	assert.Equal(t, "0xNEW", stored)

	backend.change("")
	c = nextChange(t, changes)
	assert.Equal(t, models.SessionDisconnected, c.Type)

	_, ok, err := l.GetSession(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestService_InactiveBackendIgnored(t *testing.T) {
	first := &stubBackend{kind: KindExtension, address: "0xFIRST"}
	second := &stubBackend{kind: KindAltChain, address: "lskSECOND"}
	svc, l := newTestService(t, first, second)
	ctx := context.Background()

	_, err := svc.Connect(ctx, KindExtension)
	require.NoError(t, err)
	_, err = svc.Connect(ctx, KindAltChain)
	require.NoError(t, err)

	first.change("0xSTALE")
	stored, _, _ := l.GetSession(ctx)
	assert.Equal(t, "lskSECOND", stored)
}

func TestService_Disconnect(t *testing.T) {
	backend := &stubBackend{kind: KindExtension, address: "0xABC"}
	svc, l := newTestService(t, backend)
	ctx := context.Background()

	_, err := svc.Connect(ctx, KindExtension)
	require.NoError(t, err)
	require.NoError(t, svc.Disconnect(ctx))

	_, ok, err := l.GetSession(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok = backend.Address()
	assert.False(t, ok)

	_, _, ok, err = svc.Current(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

type failingSessionStore struct{}

func (failingSessionStore) PutSession(ctx context.Context, address string) error {
	return ledger.ErrStoreWrite
}

func (failingSessionStore) GetSession(ctx context.Context) (string, bool, error) {
	return "", false, nil
}

func (failingSessionStore) ClearSession(ctx context.Context) error {
	return ledger.ErrStoreWrite
}

func TestService_PersistFailure(t *testing.T) {
	log := logger.NewWriterLogger(io.Discard)
	svc := NewService(
		NewConnector(&stubBackend{kind: KindExtension, address: "0xABC"}),
		NewSession(failingSessionStore{}, nil, nil),
		log,
	)

	_, err := svc.Connect(context.Background(), KindExtension)
	assert.True(t, errors.Is(err, ledger.ErrStoreWrite))
}

func TestShortAddress(t *testing.T) {
	assert.Equal(t, "0xABCD...1234", ShortAddress("0xABCD000000000000000000000000000000001234"))
	assert.Equal(t, "0xAB", ShortAddress("0xAB"))
}
