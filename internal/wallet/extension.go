package wallet

import (
	"context"
	"fmt"
)

// EthereumProvider is the injected browser-extension provider.
type EthereumProvider interface {
	RequestAccounts(ctx context.Context) ([]string, error)
	Accounts(ctx context.Context) ([]string, error)
}

type ExtensionWallet struct {
	accountState
	provider EthereumProvider
}

// NewExtensionWallet wraps provider. A nil provider means no extension is installed.
func NewExtensionWallet(provider EthereumProvider) *ExtensionWallet {
	return &ExtensionWallet{provider: provider}
}

func (w *ExtensionWallet) Kind() Kind { return KindExtension }

func (w *ExtensionWallet) Connect(ctx context.Context) (string, error) {
	if w.provider == nil {
		return "", ErrProviderNotFound
	}

	if _, err := w.provider.RequestAccounts(ctx); err != nil {
		if isUserRejection(err) {
			return "", fmt.Errorf("%w: %v", ErrConnectionRejected, err)
		}
		return "", fmt.Errorf("request accounts: %w", err)
	}

	accounts, err := w.provider.Accounts(ctx)
	if err != nil {
		return "", fmt.Errorf("list accounts: %w", err)
	}
	if len(accounts) == 0 || accounts[0] == "" {
		return "", ErrNoAccounts
	}

	w.set(accounts[0])
	return accounts[0], nil
}

func (w *ExtensionWallet) Disconnect(ctx context.Context) error {
	w.set("")
	return nil
}
