package ticket_api

import (
	"net/http"

	tickets "ms-storefront/internal/tickets/service"
	"ms-storefront/internal/utils"
)

// TicketCountResponse is the response format for the GetTotalTicketsCount endpoint
type TicketCountResponse struct {
	TotalCount int                        `json:"total_count"`
	ByEvent    []tickets.EventTicketCount `json:"by_event"`
}

// GetTotalTicketsCount handles the request to get the total ticket count
func (h *Handler) GetTotalTicketsCount(w http.ResponseWriter, r *http.Request) {
	byEvent, err := h.TicketService.GetTicketCountsByEvent(r.Context())
	if err != nil {
		http.Error(w, "Error retrieving ticket count: "+err.Error(), http.StatusInternalServerError)
		return
	}

	total := 0
	for _, c := range byEvent {
		total += c.Count
	}

	utils.WriteJSON(w, http.StatusOK, TicketCountResponse{TotalCount: total, ByEvent: byEvent})
}
