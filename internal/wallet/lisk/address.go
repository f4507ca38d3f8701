package lisk

import (
	"errors"
	"fmt"
	"strings"
)

const (
	addressPrefix   = "lsk"
	addressAlphabet = "zxvcpmbn3465o978uyrtkqew2adsjhfg"
	addressDataLen  = 32
	addressSumLen   = 6
	AddressLength   = 20
)

var ErrInvalidAddress = errors.New("invalid lisk32 address")

var checksumGenerator = [5]uint32{0x3b6a57b2, 0x26508e6d, 0x1ea119fa, 0x3d4233dd, 0x2a1462b3}

// polymod is the BCH checksum over 5-bit groups. A valid address body yields 1.
func polymod(values []uint32) uint32 {
	chk := uint32(1)
	for _, v := range values {
		top := chk >> 25
		chk = (chk&0x1ffffff)<<5 ^ v
		for i := 0; i < 5; i++ {
			if (top>>i)&1 == 1 {
				chk ^= checksumGenerator[i]
			}
		}
	}
	return chk
}

// DecodeAddress returns the 20-byte binary form of a lisk32 address after checking its checksum.
func DecodeAddress(address string) ([]byte, error) {
	if !strings.HasPrefix(address, addressPrefix) {
		return nil, fmt.Errorf("%w: missing %q prefix", ErrInvalidAddress, addressPrefix)
	}
	body := address[len(addressPrefix):]
	if len(body) != addressDataLen+addressSumLen {
		return nil, fmt.Errorf("%w: expected %d characters after prefix, got %d", ErrInvalidAddress, addressDataLen+addressSumLen, len(body))
	}

	values := make([]uint32, 0, len(body))
	for _, r := range body {
		v := strings.IndexRune(addressAlphabet, r)
		if v < 0 {
			return nil, fmt.Errorf("%w: invalid character %q", ErrInvalidAddress, r)
		}
		values = append(values, uint32(v))
	}
	if polymod(values) != 1 {
		return nil, fmt.Errorf("%w: checksum mismatch", ErrInvalidAddress)
	}

	out := make([]byte, 0, AddressLength)
	var acc uint32
	var bits uint
	for _, v := range values[:addressDataLen] {
		acc = acc<<5 | v
		bits += 5
		for bits >= 8 {
			bits -= 8
			out = append(out, byte(acc>>bits))
			acc &= 1<<bits - 1
		}
	}
	return out, nil
}

// EncodeAddress returns the lisk32 form of a 20-byte address.
func EncodeAddress(raw []byte) (string, error) {
	if len(raw) != AddressLength {
		return "", fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidAddress, AddressLength, len(raw))
	}
	data := encodeAddressData(raw)

	values := make([]uint32, 0, addressDataLen+addressSumLen)
	for i := 0; i < len(data); i++ {
		values = append(values, uint32(strings.IndexByte(addressAlphabet, data[i])))
	}
	values = append(values, make([]uint32, addressSumLen)...)
	mod := polymod(values) ^ 1

	var sb strings.Builder
	sb.WriteString(addressPrefix)
	sb.WriteString(data)
	for p := 0; p < addressSumLen; p++ {
		sb.WriteByte(addressAlphabet[mod>>(5*(addressSumLen-1-p))&31])
	}
	return sb.String(), nil
}

// encodeAddressData is the inverse of the data part of DecodeAddress.
func encodeAddressData(raw []byte) string {
	var sb strings.Builder
	var acc uint32
	var bits uint
	for _, b := range raw {
		acc = acc<<8 | uint32(b)
		bits += 8
		for bits >= 5 {
			bits -= 5
			sb.WriteByte(addressAlphabet[acc>>bits&31])
		}
		acc &= 1<<bits - 1
	}
	return sb.String()
}
