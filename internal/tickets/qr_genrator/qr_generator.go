package qr

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"

	"ms-storefront/internal/models"

	"github.com/skip2/go-qrcode"
)

// EntryPayload is what the entry QR code carries, encrypted.
type EntryPayload struct {
	TicketID        string `json:"ticketId"`
	EventID         string `json:"eventId"`
	WalletAddress   string `json:"walletAddress"`
	TransactionHash string `json:"transactionHash"`
}

type QRGenerator struct {
	secret []byte
	size   int
}

func NewQRGenerator(secret string) *QRGenerator {
	hashed := sha256.Sum256([]byte(secret)) // normalize to 32 bytes
	return &QRGenerator{secret: hashed[:], size: 256}
}

// GenerateEncryptedQR renders the ticket's entry payload as a PNG QR code.
func (q *QRGenerator) GenerateEncryptedQR(ticket models.TicketRecord) ([]byte, error) {
	encrypted, err := q.EncryptPayload(ticket)
	if err != nil {
		return nil, err
	}
	return qrcode.Encode(encrypted, qrcode.Medium, q.size)
}

func (q *QRGenerator) EncryptPayload(ticket models.TicketRecord) (string, error) {
	data, err := json.Marshal(EntryPayload{
		TicketID:        ticket.TicketID,
		EventID:         ticket.EventID,
		WalletAddress:   ticket.WalletAddress,
		TransactionHash: ticket.TransactionHash,
	})
	if err != nil {
		return "", err
	}
	return encryptAES(data, q.secret)
}

// DecryptQRData recovers the entry payload from a scanned QR string.
func (q *QRGenerator) DecryptQRData(encrypted string) (*EntryPayload, error) {
	data, err := decryptAES(encrypted, q.secret)
	if err != nil {
		return nil, err
	}
	var payload EntryPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func encryptAES(data []byte, key []byte) (string, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}

	ciphertext := make([]byte, aes.BlockSize+len(data))
	iv := ciphertext[:aes.BlockSize]

	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return "", err
	}

	stream := cipher.NewCFBEncrypter(block, iv)
	stream.XORKeyStream(ciphertext[aes.BlockSize:], data)

	return base64.URLEncoding.EncodeToString(ciphertext), nil
}

func decryptAES(encoded string, key []byte) ([]byte, error) {
	ciphertext, err := base64.URLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, err
	}
	if len(ciphertext) < aes.BlockSize {
		return nil, errors.New("ciphertext too short")
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	iv := ciphertext[:aes.BlockSize]
	plain := make([]byte, len(ciphertext)-aes.BlockSize)
	stream := cipher.NewCFBDecrypter(block, iv)
	stream.XORKeyStream(plain, ciphertext[aes.BlockSize:])
	return plain, nil
}
