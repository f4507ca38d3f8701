// Package purchase runs the simulated ticket purchase flow: it checks the wallet session,
// synthesizes a ticket record and commits it to the ledger. No payment is settled.
package purchase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"ms-storefront/internal/catalog"
	"ms-storefront/internal/clock"
	"ms-storefront/internal/logger"
	"ms-storefront/internal/models"
	"ms-storefront/internal/monitoring"
	"ms-storefront/internal/utils"
	"ms-storefront/internal/wallet"
)

// DefaultProcessingDelay mimics a blockchain confirmation wait.
const DefaultProcessingDelay = 2 * time.Second

var (
	ErrEventNotFound      = errors.New("event not found")
	ErrPurchaseInProgress = errors.New("a purchase for this event is already in progress")
)

type TicketLedger interface {
	GetSession(ctx context.Context) (string, bool, error)
	PutTicket(ctx context.Context, record models.TicketRecord) error
	CountTicketsFor(ctx context.Context, eventID, address string) (int, error)
}

type Publisher interface {
	PublishTicketPurchased(ctx context.Context, event models.TicketPurchasedEvent) error
}

// Result is what the event view needs after a purchase attempt.
type Result struct {
	State         State                `json:"state"`
	EventID       string               `json:"eventId"`
	Ticket        *models.TicketRecord `json:"ticket,omitempty"`
	ReceiptRoute  string               `json:"receiptRoute,omitempty"`
	OwnedCount    int                  `json:"ownedCount"`
	WalletOptions []wallet.Option      `json:"walletOptions,omitempty"`
	Notice        string               `json:"notice,omitempty"`
}

type Service struct {
	Catalog       *catalog.Catalog
	Ledger        TicketLedger
	Guard         Guard
	Publisher     Publisher
	Logger        *logger.Logger
	Clock         clock.Clock
	Delay         time.Duration
	WalletOptions []wallet.Option

	mu       sync.Mutex
	attempts map[string]*Attempt
}

func NewService(cat *catalog.Catalog, l TicketLedger, guard Guard, pub Publisher, log *logger.Logger) *Service {
	if guard == nil {
		guard = NewLocalGuard()
	}
	return &Service{
		Catalog:       cat,
		Ledger:        l,
		Guard:         guard,
		Publisher:     pub,
		Logger:        log,
		Clock:         clock.NewSystem(),
		Delay:         DefaultProcessingDelay,
		WalletOptions: wallet.Options(wallet.AllKinds),
		attempts:      make(map[string]*Attempt),
	}
}

// ReceiptRoute is the view path of a ticket receipt.
func ReceiptRoute(ticketID string) string {
	return "/tickets/" + ticketID
}

// Status returns the state of the latest attempt for eventID by address. An empty address
// reads the attempt made without a wallet.
func (s *Service) Status(eventID, address string) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.attempts[GuardKey(eventID, address)]; ok {
		return a.State()
	}
	return StateIdle
}

// begin registers a new attempt under key. Connected callers hold the purchase guard for key,
// so the attempt it replaces is never in flight.
func (s *Service) begin(key, eventID string) *Attempt {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := NewAttempt(eventID)
	s.attempts[key] = a
	return a
}

// Purchase runs one purchase attempt for eventID with the connected wallet.
func (s *Service) Purchase(ctx context.Context, eventID string) (*Result, error) {
	started := time.Now()

	event, ok := s.Catalog.ByID(eventID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrEventNotFound, eventID)
	}

	address, connected, err := s.Ledger.GetSession(ctx)
	if err != nil {
		s.Logger.Error("PURCHASE", fmt.Sprintf("event=%s - failed to read wallet session: %v", eventID, err))
		return nil, err
	}

	if !connected {
		s.begin(GuardKey(eventID, ""), eventID).Transition(StateRequiresWallet)
		s.Logger.LogPurchase("REQUIRES_WALLET", eventID, "no wallet connected")
		monitoring.RecordPurchase(eventID, StateRequiresWallet.String(), time.Since(started))
		return &Result{
			State:         StateRequiresWallet,
			EventID:       eventID,
			WalletOptions: s.WalletOptions,
			Notice:        "Connect a wallet to purchase tickets.",
		}, nil
	}

	guardKey := GuardKey(eventID, address)
	owner := uuid.NewString()
	locked, err := s.Guard.Lock(ctx, guardKey, owner)
	if err != nil {
		return nil, fmt.Errorf("acquire purchase guard: %w", err)
	}
	if !locked {
		s.Logger.Warn("PURCHASE", fmt.Sprintf("event=%s - rejected concurrent submission", eventID))
		return nil, ErrPurchaseInProgress
	}
	defer func() {
		if err := s.Guard.Unlock(context.Background(), guardKey, owner); err != nil {
			s.Logger.Warn("PURCHASE", fmt.Sprintf("event=%s - failed to release guard: %v", eventID, err))
		}
	}()

	attempt := s.begin(guardKey, eventID)
	attempt.Transition(StateProcessing)
	s.Logger.LogPurchase("PROCESSING", eventID, fmt.Sprintf("wallet %s", wallet.ShortAddress(address)))

	fail := func(cause error) (*Result, error) {
		attempt.Transition(StateFailed)
		s.Logger.Error("PURCHASE", fmt.Sprintf("event=%s - purchase failed: %v", eventID, cause))
		monitoring.RecordPurchase(eventID, StateFailed.String(), time.Since(started))
		// failed returns to idle once reported
		attempt.Transition(StateIdle)
		return &Result{
			State:   StateFailed,
			EventID: eventID,
			Notice:  "Purchase failed. Please try again.",
		}, cause
	}

	if err := sleepContext(ctx, s.Delay); err != nil {
		return fail(err)
	}

	now := s.Clock.Now()
	record := models.TicketRecord{
		TicketID:        utils.GenerateTicketID(event.ID, now),
		EventID:         event.ID,
		EventTitle:      event.Title,
		EventDate:       event.Date,
		EventTime:       event.Time,
		EventLocation:   event.Location,
		PurchasePrice:   event.Price,
		WalletAddress:   address,
		PurchaseDate:    utils.FormatISO(now),
		TransactionHash: utils.GenerateTransactionHash(),
	}

	if err := s.Ledger.PutTicket(ctx, record); err != nil {
		return fail(err)
	}

	owned, err := s.Ledger.CountTicketsFor(ctx, event.ID, address)
	if err != nil {
		s.Logger.Warn("PURCHASE", fmt.Sprintf("event=%s - failed to recount owned tickets: %v", eventID, err))
	}

	s.publish(ctx, record, now)

	attempt.Transition(StateSuccess)
	s.Logger.LogPurchase("SUCCESS", eventID, fmt.Sprintf("ticket %s issued", record.TicketID))
	monitoring.RecordPurchase(eventID, StateSuccess.String(), time.Since(started))

	return &Result{
		State:        StateSuccess,
		EventID:      eventID,
		Ticket:       &record,
		ReceiptRoute: ReceiptRoute(record.TicketID),
		OwnedCount:   owned,
		Notice:       fmt.Sprintf("Ticket purchased for %s.", event.Title),
	}, nil
}

// OwnedCount counts the connected wallet's tickets for eventID. It is zero without a wallet.
func (s *Service) OwnedCount(ctx context.Context, eventID string) (string, int, error) {
	address, connected, err := s.Ledger.GetSession(ctx)
	if err != nil || !connected {
		return "", 0, err
	}
	n, err := s.Ledger.CountTicketsFor(ctx, eventID, address)
	return address, n, err
}

func (s *Service) publish(ctx context.Context, record models.TicketRecord, at time.Time) {
	if s.Publisher == nil {
		return
	}
	err := s.Publisher.PublishTicketPurchased(ctx, models.TicketPurchasedEvent{
		TicketID:      record.TicketID,
		EventID:       record.EventID,
		WalletAddress: record.WalletAddress,
		PurchasePrice: record.PurchasePrice,
		PurchasedAt:   at,
	})
	if err != nil {
		s.Logger.Warn("PURCHASE", fmt.Sprintf("event=%s - failed to publish purchase: %v", record.EventID, err))
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
