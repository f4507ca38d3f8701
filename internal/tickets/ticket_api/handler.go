package ticket_api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ms-storefront/internal/logger"
	"ms-storefront/internal/tickets/ledger"
	tickets "ms-storefront/internal/tickets/service"
	"ms-storefront/internal/utils"
)

type Handler struct {
	TicketService *tickets.TicketService
	Logger        *logger.Logger
}

// NewHandler creates a new Handler instance
func NewHandler(ticketService *tickets.TicketService, log *logger.Logger) *Handler {
	return &Handler{TicketService: ticketService, Logger: log}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/tickets", func(r chi.Router) {
		r.Get("/", h.ListTickets)
		r.Get("/count", h.GetTotalTicketsCount)
		r.Get("/{ticketId}", h.ViewTicket)
		r.Get("/{ticketId}/qr", h.TicketQR)
	})
}

// ListTickets handles GET /api/tickets
func (h *Handler) ListTickets(w http.ResponseWriter, r *http.Request) {
	list, err := h.TicketService.ListTickets(r.Context())
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("Failed to list tickets: %v", err))
		utils.WriteJSON(w, http.StatusInternalServerError, utils.ErrorResponse("Failed to load tickets", err.Error()))
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Tickets retrieved", list))
}

// ViewTicket handles GET /api/tickets/{ticketId}
func (h *Handler) ViewTicket(w http.ResponseWriter, r *http.Request) {
	ticketID := chi.URLParam(r, "ticketId")
	ticket, err := h.TicketService.GetTicket(r.Context(), ticketID)
	if err != nil {
		h.writeLookupError(w, ticketID, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Ticket retrieved", ticket))
}

// TicketQR handles GET /api/tickets/{ticketId}/qr
func (h *Handler) TicketQR(w http.ResponseWriter, r *http.Request) {
	ticketID := chi.URLParam(r, "ticketId")
	png, err := h.TicketService.ReceiptQR(r.Context(), ticketID)
	if err != nil {
		h.writeLookupError(w, ticketID, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// writeLookupError maps ledger errors for a single ticket to a response. Missing and unreadable
// records both show the not-found notice.
func (h *Handler) writeLookupError(w http.ResponseWriter, ticketID string, err error) {
	switch {
	case errors.Is(err, ledger.ErrRecordNotFound):
		utils.WriteJSON(w, http.StatusNotFound, utils.ErrorResponse("Ticket not found", err.Error()))
	case errors.Is(err, ledger.ErrCorruptRecord):
		h.Logger.Warn("API", fmt.Sprintf("Ticket %s could not be read: %v", ticketID, err))
		utils.WriteJSON(w, http.StatusNotFound, utils.ErrorResponse("Ticket not found", "stored ticket record is unreadable"))
	default:
		h.Logger.Error("API", fmt.Sprintf("Failed to load ticket %s: %v", ticketID, err))
		utils.WriteJSON(w, http.StatusInternalServerError, utils.ErrorResponse("Failed to load ticket", err.Error()))
	}
}
