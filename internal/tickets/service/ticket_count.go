package tickets

import (
	"context"
	"sort"
)

// EventTicketCount is the number of stored tickets for one event.
type EventTicketCount struct {
	EventID    string `json:"eventId"`
	EventTitle string `json:"eventTitle"`
	Count      int    `json:"count"`
}

// GetTicketCountsByEvent groups stored tickets by event, ordered by event id.
func (s *TicketService) GetTicketCountsByEvent(ctx context.Context) ([]EventTicketCount, error) {
	records, err := s.Ledger.ListTickets(ctx)
	if err != nil {
		return nil, err
	}

	byEvent := map[string]*EventTicketCount{}
	for _, r := range records {
		c, ok := byEvent[r.EventID]
		if !ok {
			c = &EventTicketCount{EventID: r.EventID, EventTitle: r.EventTitle}
			byEvent[r.EventID] = c
		}
		c.Count++
	}

	counts := make([]EventTicketCount, 0, len(byEvent))
	for _, c := range byEvent {
		counts = append(counts, *c)
	}
	sort.Slice(counts, func(i, j int) bool { return counts[i].EventID < counts[j].EventID })
	return counts, nil
}
