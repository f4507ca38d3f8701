package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
	"time"
)

const base36Alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// TicketSuffixLength is the number of random base-36 characters appended to ticket ids.
const TicketSuffixLength = 9

// GenerateTicketID builds "<eventID>-<unix millis>-<random base36>". It is not collision-proof;
// two purchases for the same event in the same millisecond only differ by the suffix.
func GenerateTicketID(eventID string, now time.Time) string {
	return fmt.Sprintf("%s-%d-%s", eventID, now.UnixMilli(), RandomBase36(TicketSuffixLength))
}

// RandomBase36 returns n characters drawn from [0-9a-z].
func RandomBase36(n int) string {
	out := make([]byte, n)
	max := big.NewInt(int64(len(base36Alphabet)))
	for i := range out {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			// Fallback keeps the id well-formed if the entropy source fails
			out[i] = base36Alphabet[time.Now().UnixNano()%int64(len(base36Alphabet))]
			continue
		}
		out[i] = base36Alphabet[idx.Int64()]
	}
	return string(out)
}

// GenerateTransactionHash returns a cosmetic "0x"-prefixed 64 hex character string.
// It does not identify any on-chain transaction.
func GenerateTransactionHash() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("0x%064x", time.Now().UnixNano())
	}
	return "0x" + hex.EncodeToString(buf)
}
