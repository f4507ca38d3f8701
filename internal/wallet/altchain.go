package wallet

import (
	"context"
	"fmt"
)

type AltChainAccount struct {
	Address   string `json:"address"`
	PublicKey string `json:"publicKey,omitempty"`
}

// AltChainProvider is the injected alt-chain wallet.
type AltChainProvider interface {
	Enable(ctx context.Context) (bool, error)
	GetAccounts(ctx context.Context) ([]AltChainAccount, error)
}

type AltChainWallet struct {
	accountState
	provider AltChainProvider
	account  AltChainAccount
}

func NewAltChainWallet(provider AltChainProvider) *AltChainWallet {
	return &AltChainWallet{provider: provider}
}

func (w *AltChainWallet) Kind() Kind { return KindAltChain }

func (w *AltChainWallet) Connect(ctx context.Context) (string, error) {
	if w.provider == nil {
		return "", ErrWalletNotInstalled
	}

	enabled, err := w.provider.Enable(ctx)
	if err != nil {
		if isUserRejection(err) {
			return "", fmt.Errorf("%w: %v", ErrConnectionRejected, err)
		}
		return "", fmt.Errorf("enable: %w", err)
	}
	if !enabled {
		return "", ErrConnectionRejected
	}

	accounts, err := w.provider.GetAccounts(ctx)
	if err != nil {
		return "", fmt.Errorf("get accounts: %w", err)
	}
	if len(accounts) == 0 || accounts[0].Address == "" {
		return "", ErrNoAccountsFound
	}

	w.mu.Lock()
	w.account = accounts[0]
	w.mu.Unlock()
	w.set(accounts[0].Address)
	return accounts[0].Address, nil
}

// Account returns the full account of the last successful Connect.
func (w *AltChainWallet) Account() (AltChainAccount, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.account, w.account.Address != ""
}

func (w *AltChainWallet) Disconnect(ctx context.Context) error {
	w.mu.Lock()
	w.account = AltChainAccount{}
	w.mu.Unlock()
	w.set("")
	return nil
}
