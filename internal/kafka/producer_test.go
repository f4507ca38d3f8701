package kafka

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"ms-storefront/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPurchasedMessage(t *testing.T) {
	event := models.TicketPurchasedEvent{
		TicketID:      "2-1717243200000-abc123xyz",
		EventID:       "2",
		WalletAddress: "0xABCD000000000000000000000000000000001234",
		PurchasePrice: "0.1 ETH",
		PurchasedAt:   time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	msg, err := purchasedMessage(event)
	require.NoError(t, err)
	assert.Equal(t, []byte("2"), msg.Key)
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "ticket_purchased", string(msg.Headers[0].Value))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, "2-1717243200000-abc123xyz", decoded["ticket_id"])
	assert.Equal(t, "0.1 ETH", decoded["purchase_price"])
}

func TestNoopPublisher(t *testing.T) {
	assert.NoError(t, NoopPublisher{}.PublishTicketPurchased(context.Background(), models.TicketPurchasedEvent{}))
}
