package wallet

import (
	"fmt"
	"strings"
)

// Kind selects a wallet backend.
type Kind int

const (
	KindExtension Kind = iota + 1
	KindRelay
	KindAltChain
)

// AllKinds lists the backends in the order they are offered to the user.
var AllKinds = []Kind{KindExtension, KindRelay, KindAltChain}

func (k Kind) String() string {
	switch k {
	case KindExtension:
		return "extension-wallet"
	case KindRelay:
		return "relay-protocol"
	case KindAltChain:
		return "alt-chain-wallet"
	default:
		return fmt.Sprintf("wallet-kind(%d)", int(k))
	}
}

// DisplayName is the product name shown on the wallet picker.
func (k Kind) DisplayName() string {
	switch k {
	case KindExtension:
		return "MetaMask"
	case KindRelay:
		return "WalletConnect"
	case KindAltChain:
		return "Lisk Wallet"
	default:
		return k.String()
	}
}

// ParseKind accepts the canonical names as well as the product names.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "extension-wallet", "extension", "metamask":
		return KindExtension, nil
	case "relay-protocol", "relay", "walletconnect":
		return KindRelay, nil
	case "alt-chain-wallet", "alt-chain", "lisk":
		return KindAltChain, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedWallet, s)
	}
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Option describes a backend on the wallet picker.
type Option struct {
	Kind Kind   `json:"kind"`
	Name string `json:"name"`
}

func Options(kinds []Kind) []Option {
	out := make([]Option, 0, len(kinds))
	for _, k := range kinds {
		out = append(out, Option{Kind: k, Name: k.DisplayName()})
	}
	return out
}
