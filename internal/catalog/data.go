package catalog

import "ms-storefront/internal/models"

var categories = []models.Category{
	{ID: "all", Name: "All Events"},
	{ID: "music", Name: "Music"},
	{ID: "tech", Name: "Tech"},
	{ID: "art", Name: "Art"},
}

var defaultEvents = []models.Event{
	{
		ID:          "1",
		Title:       "Summer Music Festival 2025",
		Description: "Join us for a day of amazing music performances from top artists across multiple genres. Food, drinks, and good vibes included!",
		Date:        "July 15, 2025",
		Time:        "12:00 PM - 10:00 PM",
		Location:    "Central Park, New York",
		Price:       "0.05 ETH",
		Image:       "/images/event1.jpg",
		Category:    "music",
		Organizer:   models.Organizer{Name: "EventMasters", Avatar: "/images/organizer1.jpg"},
		Tickets:     models.TicketInventory{Total: 1000, Sold: 750},
	},
	{
		ID:          "2",
		Title:       "Blockchain Developer Conference",
		Description: "A two-day conference featuring workshops, talks, and networking opportunities for blockchain developers and enthusiasts.",
		Date:        "August 5-6, 2025",
		Time:        "9:00 AM - 5:00 PM",
		Location:    "Tech Hub, San Francisco",
		Price:       "0.1 ETH",
		Image:       "/images/event2.jpg",
		Category:    "tech",
		Organizer:   models.Organizer{Name: "BlockchainDevs", Avatar: "/images/organizer2.jpg"},
		Tickets:     models.TicketInventory{Total: 500, Sold: 320},
	},
	{
		ID:          "3",
		Title:       "NFT Art Exhibition",
		Description: "Explore the world of digital art with this exclusive NFT exhibition featuring works from renowned digital artists.",
		Date:        "September 10, 2025",
		Time:        "10:00 AM - 8:00 PM",
		Location:    "Digital Art Gallery, Miami",
		Price:       "0.03 ETH",
		Image:       "/images/event3.jpg",
		Category:    "art",
		Organizer:   models.Organizer{Name: "NFTCurators", Avatar: "/images/organizer3.jpg"},
		Tickets:     models.TicketInventory{Total: 300, Sold: 150},
	},
	{
		ID:          "4",
		Title:       "Web3 Hackathon",
		Description: "A weekend-long hackathon for developers to build innovative Web3 applications with mentorship from industry experts.",
		Date:        "October 15-17, 2025",
		Time:        "Starts at 9:00 AM",
		Location:    "Innovation Center, Berlin",
		Price:       "0.02 ETH",
		Image:       "/images/event4.jpg",
		Category:    "tech",
		Organizer:   models.Organizer{Name: "Web3Builders", Avatar: "/images/organizer4.jpg"},
		Tickets:     models.TicketInventory{Total: 200, Sold: 180},
	},
	{
		ID:          "5",
		Title:       "DeFi Summit",
		Description: "Learn about the latest trends and innovations in decentralized finance from industry leaders and pioneers.",
		Date:        "November 20, 2025",
		Time:        "10:00 AM - 6:00 PM",
		Location:    "Finance District, London",
		Price:       "0.08 ETH",
		Image:       "/images/event5.jpg",
		Category:    "tech",
		Organizer:   models.Organizer{Name: "DeFiAlliance", Avatar: "/images/organizer5.jpg"},
		Tickets:     models.TicketInventory{Total: 400, Sold: 250},
	},
	{
		ID:          "6",
		Title:       "Metaverse Expo",
		Description: "Experience the future of virtual worlds and digital interactions at this immersive metaverse exhibition.",
		Date:        "December 5, 2025",
		Time:        "11:00 AM - 7:00 PM",
		Location:    "Virtual Reality Center, Tokyo",
		Price:       "0.04 ETH",
		Image:       "/images/event6.jpg",
		Category:    "tech",
		Organizer:   models.Organizer{Name: "MetaCreators", Avatar: "/images/organizer6.jpg"},
		Tickets:     models.TicketInventory{Total: 600, Sold: 420},
	},
}
