package wallet

import (
	"context"
	"errors"
)

var (
	ErrProviderNotFound   = errors.New("extension wallet provider not found")
	ErrConnectionRejected = errors.New("wallet connection rejected")
	ErrNoAccounts         = errors.New("no accounts returned by wallet")
	ErrWalletNotInstalled = errors.New("alt-chain wallet not installed")
	ErrNoAccountsFound    = errors.New("no alt-chain accounts found")
	ErrSessionError       = errors.New("relay session setup failed")
	ErrUnsupportedWallet  = errors.New("unsupported wallet kind")
)

// UserMessage turns a connector error into the notice shown to the user.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrProviderNotFound):
		return "MetaMask extension not found. Please install MetaMask and try again."
	case errors.Is(err, ErrWalletNotInstalled):
		return "Lisk Wallet is not installed."
	case errors.Is(err, ErrConnectionRejected):
		return "The wallet connection request was declined."
	case errors.Is(err, ErrNoAccounts):
		return "No accounts found in the connected wallet."
	case errors.Is(err, ErrNoAccountsFound):
		return "No Lisk accounts found."
	case errors.Is(err, ErrSessionError):
		return "Could not establish a WalletConnect session. Please try again."
	case errors.Is(err, ErrUnsupportedWallet):
		return "This wallet is not supported."
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return "The wallet did not respond in time."
	default:
		return "Failed to connect wallet."
	}
}
