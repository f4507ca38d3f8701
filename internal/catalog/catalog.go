// Package catalog holds the read-only event listings the storefront sells tickets for.
package catalog

import (
	"errors"
	"fmt"
	"math"

	"ms-storefront/internal/models"
)

// AllCategories is the pseudo-category that matches every event.
const AllCategories = "all"

var (
	ErrInvalidInventory = errors.New("invalid ticket inventory")
	ErrDuplicateEvent   = errors.New("duplicate event id")
)

// Catalog is immutable after construction and safe for concurrent use.
type Catalog struct {
	events []models.Event
	byID   map[string]int
}

// New validates the events and builds a catalog over a private copy of them.
func New(events []models.Event) (*Catalog, error) {
	c := &Catalog{
		events: make([]models.Event, len(events)),
		byID:   make(map[string]int, len(events)),
	}
	copy(c.events, events)

	for i, e := range c.events {
		if e.Tickets.Sold < 0 || e.Tickets.Total < 0 || e.Tickets.Sold > e.Tickets.Total {
			return nil, fmt.Errorf("event %s: sold=%d total=%d: %w", e.ID, e.Tickets.Sold, e.Tickets.Total, ErrInvalidInventory)
		}
		if _, dup := c.byID[e.ID]; dup {
			return nil, fmt.Errorf("event %s: %w", e.ID, ErrDuplicateEvent)
		}
		c.byID[e.ID] = i
	}
	return c, nil
}

// Default returns the built-in listings.
func Default() *Catalog {
	c, err := New(defaultEvents)
	if err != nil {
		panic(fmt.Sprintf("catalog: built-in events are invalid: %v", err))
	}
	return c
}

func (c *Catalog) All() []models.Event {
	out := make([]models.Event, len(c.events))
	copy(out, c.events)
	return out
}

func (c *Catalog) ByID(id string) (models.Event, bool) {
	i, ok := c.byID[id]
	if !ok {
		return models.Event{}, false
	}
	return c.events[i], true
}

// FilterByCategory returns the events tagged with tag, in catalog order.
// An empty tag or "all" returns every event.
func (c *Catalog) FilterByCategory(tag string) []models.Event {
	if tag == "" || tag == AllCategories {
		return c.All()
	}
	out := []models.Event{}
	for _, e := range c.events {
		if e.Category == tag {
			out = append(out, e)
		}
	}
	return out
}

// Categories lists the tabs shown on the event listing.
func (c *Catalog) Categories() []models.Category {
	out := make([]models.Category, len(categories))
	copy(out, categories)
	return out
}

// Availability computes the sold percentage (rounded, within [0,100]) and the remaining count.
func Availability(e models.Event) models.Availability {
	remaining := e.Tickets.Total - e.Tickets.Sold
	if remaining < 0 {
		remaining = 0
	}
	if e.Tickets.Total <= 0 {
		return models.Availability{SoldPercentage: 0, Remaining: remaining}
	}

	pct := int(math.Round(float64(e.Tickets.Sold) / float64(e.Tickets.Total) * 100))
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	return models.Availability{SoldPercentage: pct, Remaining: remaining}
}
