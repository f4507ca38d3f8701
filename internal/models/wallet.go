package models

import "time"

type SessionChangeType string

const (
	SessionConnected      SessionChangeType = "connected"
	SessionAccountChanged SessionChangeType = "account_changed"
	SessionDisconnected   SessionChangeType = "disconnected"
)

// SessionChange is broadcast to every subscriber whenever the connected wallet changes.
type SessionChange struct {
	Type       SessionChangeType `json:"type"`
	Address    string            `json:"address,omitempty"`
	WalletKind string            `json:"walletKind,omitempty"`
	At         time.Time         `json:"at"`
}

// TicketPurchasedEvent is published after a ticket record has been written.
type TicketPurchasedEvent struct {
	TicketID      string    `json:"ticket_id"`
	EventID       string    `json:"event_id"`
	WalletAddress string    `json:"wallet_address"`
	PurchasePrice string    `json:"purchase_price"`
	PurchasedAt   time.Time `json:"purchased_at"`
}
