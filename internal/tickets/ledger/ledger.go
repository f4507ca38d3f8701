// Package ledger stores purchased ticket records and the connected wallet address in the
// profile store. Records are JSON under "ticket-<ticketId>"; the wallet address is the raw
// string under "connectedWallet".
package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"ms-storefront/internal/logger"
	"ms-storefront/internal/models"
	"ms-storefront/internal/monitoring"
	"ms-storefront/internal/store"
	"ms-storefront/internal/utils"
)

const (
	SessionKey      = "connectedWallet"
	TicketKeyPrefix = "ticket-"
)

var (
	ErrRecordNotFound = errors.New("ticket record not found")
	ErrStoreRead      = errors.New("failed to read from profile store")
	ErrStoreWrite     = errors.New("failed to write to profile store")
	ErrCorruptRecord  = errors.New("corrupt ticket record")
)

type Ledger struct {
	Store  store.Store
	Logger *logger.Logger
}

func NewLedger(s store.Store, log *logger.Logger) *Ledger {
	return &Ledger{Store: s, Logger: log}
}

// TicketKey is the store key for a ticket id.
func TicketKey(ticketID string) string {
	return TicketKeyPrefix + ticketID
}

func (l *Ledger) PutSession(ctx context.Context, address string) error {
	if address == "" {
		return fmt.Errorf("%w: empty wallet address", ErrStoreWrite)
	}
	if err := l.Store.Set(ctx, SessionKey, []byte(address)); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreWrite, err)
	}
	l.Logger.LogLedger("PUT", SessionKey, "wallet session saved")
	return nil
}

// GetSession reports the connected wallet address, if any.
func (l *Ledger) GetSession(ctx context.Context) (string, bool, error) {
	v, err := l.Store.Get(ctx, SessionKey)
	if errors.Is(err, store.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%w: %v", ErrStoreRead, err)
	}
	if len(v) == 0 {
		return "", false, nil
	}
	return string(v), true, nil
}

func (l *Ledger) ClearSession(ctx context.Context) error {
	if err := l.Store.Delete(ctx, SessionKey); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreWrite, err)
	}
	l.Logger.LogLedger("DELETE", SessionKey, "wallet session cleared")
	return nil
}

// PutTicket writes the record under its key, silently replacing any existing record.
func (l *Ledger) PutTicket(ctx context.Context, record models.TicketRecord) error {
	if record.TicketID == "" {
		return fmt.Errorf("%w: ticket id is empty", ErrStoreWrite)
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("%w: encode ticket %s: %v", ErrStoreWrite, record.TicketID, err)
	}

	key := TicketKey(record.TicketID)
	if err := l.Store.Set(ctx, key, data); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreWrite, err)
	}

	l.Logger.LogLedger("PUT", key, fmt.Sprintf("event=%s wallet=%s", record.EventID, record.WalletAddress))
	return nil
}

func (l *Ledger) GetTicket(ctx context.Context, ticketID string) (*models.TicketRecord, error) {
	key := TicketKey(ticketID)
	data, err := l.Store.Get(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("ticket %s: %w", ticketID, ErrRecordNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreRead, err)
	}

	var record models.TicketRecord
	if err := json.Unmarshal(data, &record); err != nil {
		l.Logger.Warn("LEDGER", fmt.Sprintf("Corrupt record under %s: %v", key, err))
		return nil, fmt.Errorf("%w: %w: %s: %v", ErrStoreRead, ErrCorruptRecord, key, err)
	}
	return &record, nil
}

// ListTickets returns every readable ticket, newest purchase first. Records that fail to
// parse are skipped so a single corrupt entry never hides the rest.
func (l *Ledger) ListTickets(ctx context.Context) ([]models.TicketRecord, error) {
	keys, err := l.Store.Keys(ctx, TicketKeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreRead, err)
	}

	type datedRecord struct {
		record      models.TicketRecord
		purchasedAt time.Time
	}
	dated := make([]datedRecord, 0, len(keys))

	for _, key := range keys {
		data, err := l.Store.Get(ctx, key)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			l.Logger.Warn("LEDGER", fmt.Sprintf("Skipping %s: %v", key, err))
			monitoring.RecordSkippedRecord()
			continue
		}

		var record models.TicketRecord
		if err := json.Unmarshal(data, &record); err != nil {
			l.Logger.Warn("LEDGER", fmt.Sprintf("Skipping corrupt record %s: %v", key, err))
			monitoring.RecordSkippedRecord()
			continue
		}
		if record.TicketID == "" {
			record.TicketID = strings.TrimPrefix(key, TicketKeyPrefix)
		}

		// unparsable dates sort after every dated record
		entry := datedRecord{record: record}
		if t, err := utils.ParseISO(record.PurchaseDate); err == nil {
			entry.purchasedAt = t
		}
		dated = append(dated, entry)
	}

	sort.SliceStable(dated, func(i, j int) bool {
		return dated[i].purchasedAt.After(dated[j].purchasedAt)
	})

	tickets := make([]models.TicketRecord, len(dated))
	for i, entry := range dated {
		tickets[i] = entry.record
	}
	return tickets, nil
}

// CountTicketsFor counts records matching both eventID and address by scanning every ticket.
// An empty address means no wallet is connected and always counts zero.
func (l *Ledger) CountTicketsFor(ctx context.Context, eventID, address string) (int, error) {
	if address == "" {
		return 0, nil
	}

	tickets, err := l.ListTickets(ctx)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, t := range tickets {
		if t.EventID == eventID && t.WalletAddress == address {
			count++
		}
	}
	return count, nil
}
