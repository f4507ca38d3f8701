// Package lisk builds unsigned alt-chain token transfers. Transfers are encoded but never signed
// or broadcast; the connected wallet is expected to sign them.
package lisk

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"google.golang.org/protobuf/encoding/protowire"
)

const (
	TokenModule     = "token"
	TransferCommand = "transfer"

	DefaultFee     uint64 = 1000000
	DefaultTokenID        = "0000000000000000"
	DefaultData           = "Ticket Purchase"

	publicKeyLength = 32
	tokenIDLength   = 8
)

// beddowsPerLSK is the number of base units in one LSK.
var beddowsPerLSK = decimal.New(1, 8)

var (
	ErrInvalidAmount    = errors.New("invalid transfer amount")
	ErrInvalidPublicKey = errors.New("invalid sender public key")
	ErrInvalidTokenID   = errors.New("invalid token id")
)

type TransferInput struct {
	SenderPublicKey string
	Recipient       string
	// Amount in LSK, e.g. "0.1".
	Amount  string
	Nonce   uint64
	Fee     uint64
	TokenID string
	Data    string
}

// Transfer is an encoded, unsigned token transfer.
type Transfer struct {
	Module          string `json:"module"`
	Command         string `json:"command"`
	Nonce           uint64 `json:"nonce,string"`
	Fee             uint64 `json:"fee,string"`
	SenderPublicKey string `json:"senderPublicKey"`
	Recipient       string `json:"recipientAddress"`
	Amount          uint64 `json:"amount,string"`
	TokenID         string `json:"tokenId"`
	Data            string `json:"data"`
	Bytes           string `json:"bytes"`
	Signed          bool   `json:"signed"`
}

// ToBeddows converts an LSK amount to base units.
func ToBeddows(amount string) (uint64, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidAmount, err)
	}
	if !d.IsPositive() {
		return 0, fmt.Errorf("%w: must be positive", ErrInvalidAmount)
	}
	b := d.Mul(beddowsPerLSK)
	if !b.Equal(b.Truncate(0)) {
		return 0, fmt.Errorf("%w: more than 8 decimal places", ErrInvalidAmount)
	}
	if !b.BigInt().IsUint64() {
		return 0, fmt.Errorf("%w: out of range", ErrInvalidAmount)
	}
	return b.BigInt().Uint64(), nil
}

func BuildTransfer(in TransferInput) (*Transfer, error) {
	pub, err := hex.DecodeString(in.SenderPublicKey)
	if err != nil || len(pub) != publicKeyLength {
		return nil, ErrInvalidPublicKey
	}
	recipient, err := DecodeAddress(in.Recipient)
	if err != nil {
		return nil, err
	}
	amount, err := ToBeddows(in.Amount)
	if err != nil {
		return nil, err
	}

	tokenIDHex := in.TokenID
	if tokenIDHex == "" {
		tokenIDHex = DefaultTokenID
	}
	tokenID, err := hex.DecodeString(tokenIDHex)
	if err != nil || len(tokenID) != tokenIDLength {
		return nil, ErrInvalidTokenID
	}

	fee := in.Fee
	if fee == 0 {
		fee = DefaultFee
	}
	data := in.Data
	if data == "" {
		data = DefaultData
	}

	params := encodeTransferParams(tokenID, amount, recipient, data)
	raw := encodeTransaction(TokenModule, TransferCommand, params, in.Nonce, fee, pub)

	return &Transfer{
		Module:          TokenModule,
		Command:         TransferCommand,
		Nonce:           in.Nonce,
		Fee:             fee,
		SenderPublicKey: hex.EncodeToString(pub),
		Recipient:       in.Recipient,
		Amount:          amount,
		TokenID:         tokenIDHex,
		Data:            data,
		Bytes:           hex.EncodeToString(raw),
	}, nil
}

func encodeTransferParams(tokenID []byte, amount uint64, recipient []byte, data string) []byte {
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.BytesType)
	b = protowire.AppendBytes(b, tokenID)
	b = protowire.AppendTag(b, 2, protowire.VarintType)
	b = protowire.AppendVarint(b, amount)
	b = protowire.AppendTag(b, 3, protowire.BytesType)
	b = protowire.AppendBytes(b, recipient)
	b = protowire.AppendTag(b, 4, protowire.BytesType)
	b = protowire.AppendString(b, data)
	return b
}

func encodeTransaction(module, command string, params []byte, nonce, fee uint64, senderPublicKey []byte) []byte {
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.BytesType)
	b = protowire.AppendString(b, module)
	b = protowire.AppendTag(b, 2, protowire.BytesType)
	b = protowire.AppendString(b, command)
	b = protowire.AppendTag(b, 3, protowire.BytesType)
	b = protowire.AppendBytes(b, params)
	b = protowire.AppendTag(b, 4, protowire.VarintType)
	b = protowire.AppendVarint(b, nonce)
	b = protowire.AppendTag(b, 5, protowire.VarintType)
	b = protowire.AppendVarint(b, fee)
	b = protowire.AppendTag(b, 6, protowire.BytesType)
	b = protowire.AppendBytes(b, senderPublicKey)
	return b
}
