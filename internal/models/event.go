package models

// Organizer is the person or group presenting an event.
type Organizer struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// TicketInventory holds the static inventory figures shown on an event page.
type TicketInventory struct {
	Total int `json:"total"`
	Sold  int `json:"sold"`
}

// Event is a catalog listing. Date, Time and Price are display strings and are never parsed
// for scheduling.
type Event struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Date        string          `json:"date"`
	Time        string          `json:"time"`
	Location    string          `json:"location"`
	Price       string          `json:"price"`
	Image       string          `json:"image"`
	Category    string          `json:"category"`
	Organizer   Organizer       `json:"organizer"`
	Tickets     TicketInventory `json:"tickets"`
}

type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Availability is derived from TicketInventory for display.
type Availability struct {
	SoldPercentage int `json:"soldPercentage"`
	Remaining      int `json:"remaining"`
}
