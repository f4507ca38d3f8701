package models

// TicketRecord is the receipt written to the profile store for every purchase.
// Field names are the stored JSON shape and must not change.
type TicketRecord struct {
	TicketID        string `json:"ticketId"`
	EventID         string `json:"eventId"`
	EventTitle      string `json:"eventTitle"`
	EventDate       string `json:"eventDate"`
	EventTime       string `json:"eventTime"`
	EventLocation   string `json:"eventLocation"`
	PurchasePrice   string `json:"purchasePrice"`
	WalletAddress   string `json:"walletAddress"`
	PurchaseDate    string `json:"purchaseDate"`
	TransactionHash string `json:"transactionHash"`
}

// TicketSummary backs the stats cards on the ticket listing.
type TicketSummary struct {
	TotalTickets   int               `json:"totalTickets"`
	TotalSpent     map[string]string `json:"totalSpent"`
	RecentPurchase string            `json:"recentPurchase,omitempty"`
}
