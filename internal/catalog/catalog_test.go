package catalog_test

import (
	"testing"

	"ms-storefront/internal/catalog"
	"ms-storefront/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_InventoryInvariant(t *testing.T) {
	c := catalog.Default()
	events := c.All()
	require.Len(t, events, 6)

	for _, e := range events {
		assert.GreaterOrEqual(t, e.Tickets.Sold, 0, "event %s", e.ID)
		assert.LessOrEqual(t, e.Tickets.Sold, e.Tickets.Total, "event %s", e.ID)

		a := catalog.Availability(e)
		assert.GreaterOrEqual(t, a.SoldPercentage, 0)
		assert.LessOrEqual(t, a.SoldPercentage, 100)
		assert.Equal(t, e.Tickets.Total-e.Tickets.Sold, a.Remaining)
	}
}

func TestByID(t *testing.T) {
	c := catalog.Default()

	e, ok := c.ByID("2")
	require.True(t, ok)
	assert.Equal(t, "Blockchain Developer Conference", e.Title)
	assert.Equal(t, "0.1 ETH", e.Price)
	assert.Equal(t, models.TicketInventory{Total: 500, Sold: 320}, e.Tickets)

	_, ok = c.ByID("404")
	assert.False(t, ok)
}

func TestFilterByCategory(t *testing.T) {
	c := catalog.Default()

	tests := []struct {
		tag  string
		want []string
	}{
		{tag: "music", want: []string{"1"}},
		{tag: "art", want: []string{"3"}},
		{tag: "tech", want: []string{"2", "4", "5", "6"}},
		{tag: "all", want: []string{"1", "2", "3", "4", "5", "6"}},
		{tag: "", want: []string{"1", "2", "3", "4", "5", "6"}},
		{tag: "sports", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			ids := []string{}
			for _, e := range c.FilterByCategory(tt.tag) {
				ids = append(ids, e.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestAll_ReturnsCopy(t *testing.T) {
	c := catalog.Default()
	events := c.All()
	events[0].Title = "mutated"

	e, _ := c.ByID(events[0].ID)
	assert.NotEqual(t, "mutated", e.Title)
}

func TestNew_RejectsInvalidInventory(t *testing.T) {
	_, err := catalog.New([]models.Event{{ID: "x", Tickets: models.TicketInventory{Total: 10, Sold: 11}}})
	assert.ErrorIs(t, err, catalog.ErrInvalidInventory)

	_, err = catalog.New([]models.Event{{ID: "x", Tickets: models.TicketInventory{Total: 10, Sold: -1}}})
	assert.ErrorIs(t, err, catalog.ErrInvalidInventory)
}

func TestNew_RejectsDuplicateIDs(t *testing.T) {
	_, err := catalog.New([]models.Event{{ID: "a"}, {ID: "a"}})
	assert.ErrorIs(t, err, catalog.ErrDuplicateEvent)
}

func TestAvailability(t *testing.T) {
	tests := []struct {
		name    string
		tickets models.TicketInventory
		want    models.Availability
	}{
		{"partly sold", models.TicketInventory{Total: 500, Sold: 320}, models.Availability{SoldPercentage: 64, Remaining: 180}},
		{"rounds", models.TicketInventory{Total: 3, Sold: 2}, models.Availability{SoldPercentage: 67, Remaining: 1}},
		{"sold out", models.TicketInventory{Total: 10, Sold: 10}, models.Availability{SoldPercentage: 100, Remaining: 0}},
		{"empty inventory", models.TicketInventory{Total: 0, Sold: 0}, models.Availability{SoldPercentage: 0, Remaining: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, catalog.Availability(models.Event{Tickets: tt.tickets}))
		})
	}
}

func TestCategories(t *testing.T) {
	cats := catalog.Default().Categories()
	require.Len(t, cats, 4)
	assert.Equal(t, "all", cats[0].ID)
}
