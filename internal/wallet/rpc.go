package wallet

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"
)

// CodeUserRejected is the EIP-1193 error code a provider returns when the user declines.
const CodeUserRejected = 4001

type rpcRequest struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      int64       `json:"id"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int64           `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *RPCError       `json:"error"`
}

// RPCError is a JSON-RPC 2.0 error object.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// RPCClient talks JSON-RPC 2.0 over HTTP to a wallet provider endpoint. It implements both
// EthereumProvider and AltChainProvider.
type RPCClient struct {
	URL        string
	HTTPClient *http.Client
	nextID     atomic.Int64
}

func NewRPCClient(url string, timeout time.Duration) *RPCClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &RPCClient{
		URL:        url,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// Call invokes method and decodes the result into result, which may be nil.
func (c *RPCClient) Call(ctx context.Context, method string, params interface{}, result interface{}) error {
	if params == nil {
		params = []interface{}{}
	}
	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      c.nextID.Add(1),
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return fmt.Errorf("encode %s request: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read %s response: %w", method, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: unexpected status %d", method, resp.StatusCode)
	}

	var decoded rpcResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return fmt.Errorf("decode %s response: %w", method, err)
	}
	if decoded.Error != nil {
		return decoded.Error
	}
	if result == nil {
		return nil
	}
	if err := json.Unmarshal(decoded.Result, result); err != nil {
		return fmt.Errorf("decode %s result: %w", method, err)
	}
	return nil
}

func (c *RPCClient) RequestAccounts(ctx context.Context) ([]string, error) {
	var accounts []string
	err := c.Call(ctx, "eth_requestAccounts", nil, &accounts)
	return accounts, err
}

func (c *RPCClient) Accounts(ctx context.Context) ([]string, error) {
	var accounts []string
	err := c.Call(ctx, "eth_accounts", nil, &accounts)
	return accounts, err
}

func (c *RPCClient) Enable(ctx context.Context) (bool, error) {
	var enabled bool
	err := c.Call(ctx, "lisk_enable", nil, &enabled)
	return enabled, err
}

func (c *RPCClient) GetAccounts(ctx context.Context) ([]AltChainAccount, error) {
	var accounts []AltChainAccount
	err := c.Call(ctx, "lisk_getAccounts", nil, &accounts)
	return accounts, err
}

// Nonce returns the account nonce reported for address.
func (c *RPCClient) Nonce(ctx context.Context, address string) (uint64, error) {
	var account struct {
		Nonce json.Number `json:"nonce"`
	}
	if err := c.Call(ctx, "auth_getAccount", map[string]string{"address": address}, &account); err != nil {
		return 0, err
	}
	n, err := account.Nonce.Int64()
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid nonce %q", account.Nonce)
	}
	return uint64(n), nil
}

func isUserRejection(err error) bool {
	var rpcErr *RPCError
	return errors.As(err, &rpcErr) && rpcErr.Code == CodeUserRejected
}
