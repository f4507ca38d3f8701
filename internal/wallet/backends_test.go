package wallet

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEthereum struct {
	requestErr error
	accounts   []string
	accountErr error
}

func (f *fakeEthereum) RequestAccounts(ctx context.Context) ([]string, error) {
	return f.accounts, f.requestErr
}

func (f *fakeEthereum) Accounts(ctx context.Context) ([]string, error) {
	return f.accounts, f.accountErr
}

type fakeLisk struct {
	enabled  bool
	enterr   error
	accounts []AltChainAccount
}

func (f *fakeLisk) Enable(ctx context.Context) (bool, error) {
	return f.enabled, f.enterr
}

func (f *fakeLisk) GetAccounts(ctx context.Context) ([]AltChainAccount, error) {
	return f.accounts, nil
}

func TestExtensionWallet_Connect(t *testing.T) {
	w := NewExtensionWallet(&fakeEthereum{accounts: []string{"0xABCDEF0123456789", "0xother"}})

	addr, err := w.Connect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "0xABCDEF0123456789", addr)

	got, ok := w.Address()
	assert.True(t, ok)
	assert.Equal(t, addr, got)
	assert.Equal(t, KindExtension, w.Kind())
}

func TestExtensionWallet_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := NewExtensionWallet(nil).Connect(ctx)
	assert.ErrorIs(t, err, ErrProviderNotFound)

	_, err = NewExtensionWallet(&fakeEthereum{}).Connect(ctx)
	assert.ErrorIs(t, err, ErrNoAccounts)

	rejected := &fakeEthereum{requestErr: &RPCError{Code: CodeUserRejected, Message: "User rejected the request."}}
	_, err = NewExtensionWallet(rejected).Connect(ctx)
	assert.ErrorIs(t, err, ErrConnectionRejected)

	broken := &fakeEthereum{requestErr: errors.New("boom")}
	_, err = NewExtensionWallet(broken).Connect(ctx)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrConnectionRejected)
}

func TestExtensionWallet_Disconnect(t *testing.T) {
	w := NewExtensionWallet(&fakeEthereum{accounts: []string{"0xABC"}})
	_, err := w.Connect(context.Background())
	require.NoError(t, err)

	require.NoError(t, w.Disconnect(context.Background()))
	_, ok := w.Address()
	assert.False(t, ok)
}

func TestAltChainWallet_Connect(t *testing.T) {
	w := NewAltChainWallet(&fakeLisk{
		enabled:  true,
		accounts: []AltChainAccount{{Address: "lskabc123", PublicKey: "aa"}},
	})

	addr, err := w.Connect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "lskabc123", addr)

	acct, ok := w.Account()
	assert.True(t, ok)
	assert.Equal(t, "aa", acct.PublicKey)
}

func TestAltChainWallet_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := NewAltChainWallet(nil).Connect(ctx)
	assert.ErrorIs(t, err, ErrWalletNotInstalled)

	_, err = NewAltChainWallet(&fakeLisk{enabled: false}).Connect(ctx)
	assert.ErrorIs(t, err, ErrConnectionRejected)

	_, err = NewAltChainWallet(&fakeLisk{enabled: true}).Connect(ctx)
	assert.ErrorIs(t, err, ErrNoAccountsFound)
}

func newRPCServer(t *testing.T, handle func(method string) (interface{}, *RPCError)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		assert.Equal(t, "2.0", req.JSONRPC)

		result, rpcErr := handle(req.Method)
		resp := map[string]interface{}{"jsonrpc": "2.0", "id": req.ID}
		if rpcErr != nil {
			resp["error"] = rpcErr
		} else {
			resp["result"] = result
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRPCClient_ExtensionFlow(t *testing.T) {
	var methods []string
	srv := newRPCServer(t, func(method string) (interface{}, *RPCError) {
		methods = append(methods, method)
		return []string{"0xABCDEF0123456789ABCDEF0123456789ABCD1234"}, nil
	})

	w := NewExtensionWallet(NewRPCClient(srv.URL, time.Second))
	addr, err := w.Connect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "0xABCDEF0123456789ABCDEF0123456789ABCD1234", addr)
	assert.Equal(t, []string{"eth_requestAccounts", "eth_accounts"}, methods)
}

func TestRPCClient_UserRejected(t *testing.T) {
	srv := newRPCServer(t, func(method string) (interface{}, *RPCError) {
		return nil, &RPCError{Code: CodeUserRejected, Message: "User rejected the request."}
	})

	_, err := NewExtensionWallet(NewRPCClient(srv.URL, time.Second)).Connect(context.Background())
	assert.ErrorIs(t, err, ErrConnectionRejected)
}

func TestRPCClient_AltChainFlow(t *testing.T) {
	srv := newRPCServer(t, func(method string) (interface{}, *RPCError) {
		switch method {
		case "lisk_enable":
			return true, nil
		case "lisk_getAccounts":
			return []AltChainAccount{{Address: "lsk24cd35u4jdq8szo3pnsqe5dsxwrnazyqqqg5eu", PublicKey: "0f"}}, nil
		case "auth_getAccount":
			return map[string]string{"nonce": "7"}, nil
		}
		return nil, &RPCError{Code: -32601, Message: "method not found"}
	})

	client := NewRPCClient(srv.URL, time.Second)
	addr, err := NewAltChainWallet(client).Connect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "lsk24cd35u4jdq8szo3pnsqe5dsxwrnazyqqqg5eu", addr)

	nonce, err := client.Nonce(context.Background(), addr)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), nonce)
}

func TestRPCClient_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewRPCClient(srv.URL, time.Second).Accounts(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestConnector_Dispatch(t *testing.T) {
	c := NewConnector(
		NewExtensionWallet(&fakeEthereum{accounts: []string{"0xEXT"}}),
		NewAltChainWallet(nil),
	)
	assert.Equal(t, []Kind{KindExtension, KindAltChain}, c.Kinds())

	addr, err := c.Connect(context.Background(), KindExtension)
	require.NoError(t, err)
	assert.Equal(t, "0xEXT", addr)

	_, err = c.Connect(context.Background(), KindAltChain)
	assert.ErrorIs(t, err, ErrWalletNotInstalled)

	_, err = c.Connect(context.Background(), KindRelay)
	assert.ErrorIs(t, err, ErrUnsupportedWallet)
}
