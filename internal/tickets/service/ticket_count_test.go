package tickets_test

import (
	"context"
	"testing"

	"ms-storefront/internal/models"
	tickets "ms-storefront/internal/tickets/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestTicketCounts(t *testing.T) {
	l := new(MockTicketLedger)
	l.On("ListTickets", mock.Anything).Return([]models.TicketRecord{
		record("3-a", "3", "0.03 ETH", "2025-06-03T10:00:00.000Z"),
		record("2-b", "2", "0.1 ETH", "2025-06-02T10:00:00.000Z"),
		record("2-c", "2", "0.1 ETH", "2025-06-01T10:00:00.000Z"),
	}, nil)
	svc := newService(l)

	counts, err := svc.GetTicketCountsByEvent(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []tickets.EventTicketCount{
		{EventID: "2", EventTitle: "Event 2", Count: 2},
		{EventID: "3", EventTitle: "Event 3", Count: 1},
	}, counts)
}
