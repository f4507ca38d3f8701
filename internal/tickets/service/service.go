package tickets

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"ms-storefront/internal/logger"
	"ms-storefront/internal/models"
	qr_genrator "ms-storefront/internal/tickets/qr_genrator"
)

const EmptyNotice = "You haven't purchased any tickets yet."

type TicketLedger interface {
	GetTicket(ctx context.Context, ticketID string) (*models.TicketRecord, error)
	ListTickets(ctx context.Context) ([]models.TicketRecord, error)
}

type TicketService struct {
	Ledger      TicketLedger
	QRGenerator *qr_genrator.QRGenerator
	Logger      *logger.Logger
}

// TicketList backs the ticket listing view.
type TicketList struct {
	Tickets []models.TicketRecord `json:"tickets"`
	Empty   bool                  `json:"empty"`
	Notice  string                `json:"notice,omitempty"`
	Summary models.TicketSummary  `json:"summary"`
}

func NewTicketService(l TicketLedger, qrGen *qr_genrator.QRGenerator, log *logger.Logger) *TicketService {
	return &TicketService{Ledger: l, QRGenerator: qrGen, Logger: log}
}

// ListTickets returns every stored ticket, newest first, with summary stats.
func (s *TicketService) ListTickets(ctx context.Context) (*TicketList, error) {
	records, err := s.Ledger.ListTickets(ctx)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []models.TicketRecord{}
	}

	list := &TicketList{
		Tickets: records,
		Empty:   len(records) == 0,
		Summary: s.Summarize(records),
	}
	if list.Empty {
		list.Notice = EmptyNotice
	}
	return list, nil
}

func (s *TicketService) GetTicket(ctx context.Context, ticketID string) (*models.TicketRecord, error) {
	ticket, err := s.Ledger.GetTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	return ticket, nil
}

// ReceiptQR renders the entry QR code for a ticket.
func (s *TicketService) ReceiptQR(ctx context.Context, ticketID string) ([]byte, error) {
	ticket, err := s.Ledger.GetTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	png, err := s.QRGenerator.GenerateEncryptedQR(*ticket)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR: %w", err)
	}
	return png, nil
}

// Summarize totals tickets and spend. Records must be ordered newest first.
func (s *TicketService) Summarize(records []models.TicketRecord) models.TicketSummary {
	summary := models.TicketSummary{
		TotalTickets: len(records),
		TotalSpent:   map[string]string{},
	}
	if len(records) == 0 {
		return summary
	}
	summary.RecentPurchase = records[0].PurchaseDate

	totals := map[string]decimal.Decimal{}
	for _, r := range records {
		amount, unit, err := ParsePrice(r.PurchasePrice)
		if err != nil {
			if s.Logger != nil {
				s.Logger.Warn("TICKETS", fmt.Sprintf("Ignoring price of ticket %s: %v", r.TicketID, err))
			}
			continue
		}
		totals[unit] = totals[unit].Add(amount)
	}
	for unit, total := range totals {
		summary.TotalSpent[unit] = total.StringFixed(3)
	}
	return summary
}

// ParsePrice splits a display price like "0.1 ETH" into amount and currency unit.
func ParsePrice(price string) (decimal.Decimal, string, error) {
	fields := strings.Fields(price)
	if len(fields) == 0 || len(fields) > 2 {
		return decimal.Zero, "", fmt.Errorf("malformed price %q", price)
	}
	amount, err := decimal.NewFromString(fields[0])
	if err != nil {
		return decimal.Zero, "", fmt.Errorf("malformed price %q: %w", price, err)
	}
	unit := ""
	if len(fields) == 2 {
		unit = strings.ToUpper(fields[1])
	}
	return amount, unit, nil
}
