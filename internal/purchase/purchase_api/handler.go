package purchase_api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ms-storefront/internal/catalog"
	"ms-storefront/internal/logger"
	"ms-storefront/internal/models"
	"ms-storefront/internal/purchase"
	"ms-storefront/internal/utils"
)

type Handler struct {
	Catalog   *catalog.Catalog
	Purchases *purchase.Service
	Logger    *logger.Logger
}

func NewHandler(cat *catalog.Catalog, purchases *purchase.Service, log *logger.Logger) *Handler {
	return &Handler{Catalog: cat, Purchases: purchases, Logger: log}
}

// EventView is a catalog event with its derived availability.
type EventView struct {
	models.Event
	Availability models.Availability `json:"availability"`
}

type EventDetail struct {
	EventView
	WalletAddress string         `json:"walletAddress,omitempty"`
	OwnedTickets  int            `json:"ownedTickets"`
	PurchaseState purchase.State `json:"purchaseState"`
}

type EventListResponse struct {
	Category   string            `json:"category"`
	Categories []models.Category `json:"categories"`
	Events     []EventView       `json:"events"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/events", func(r chi.Router) {
		r.Get("/", h.ListEvents)
		r.Get("/{id}", h.GetEvent)
		r.Post("/{id}/purchase", h.PurchaseTicket)
	})
}

func newEventView(e models.Event) EventView {
	return EventView{Event: e, Availability: catalog.Availability(e)}
}

// ListEvents handles GET /api/events?category=
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	if category == "" {
		category = catalog.AllCategories
	}

	events := h.Catalog.FilterByCategory(category)
	views := make([]EventView, 0, len(events))
	for _, e := range events {
		views = append(views, newEventView(e))
	}

	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Events retrieved", EventListResponse{
		Category:   category,
		Categories: h.Catalog.Categories(),
		Events:     views,
	}))
}

// GetEvent handles GET /api/events/{id}
func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	event, ok := h.Catalog.ByID(id)
	if !ok {
		utils.WriteJSON(w, http.StatusNotFound, utils.ErrorResponse("Event not found", fmt.Sprintf("no event with id %q", id)))
		return
	}

	address, owned, err := h.Purchases.OwnedCount(r.Context(), id)
	if err != nil {
		h.Logger.Warn("API", fmt.Sprintf("Failed to count owned tickets for event %s: %v", id, err))
	}

	detail := EventDetail{
		EventView:     newEventView(event),
		WalletAddress: address,
		OwnedTickets:  owned,
		PurchaseState: h.Purchases.Status(id, address),
	}

	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Event retrieved", detail))
}

// PurchaseTicket handles POST /api/events/{id}/purchase
func (h *Handler) PurchaseTicket(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	res, err := h.Purchases.Purchase(r.Context(), id)
	switch {
	case errors.Is(err, purchase.ErrEventNotFound):
		utils.WriteJSON(w, http.StatusNotFound, utils.ErrorResponse("Event not found", err.Error()))
		return
	case errors.Is(err, purchase.ErrPurchaseInProgress):
		utils.WriteJSON(w, http.StatusConflict, utils.ErrorResponse("A purchase for this event is already processing", err.Error()))
		return
	case err != nil:
		message := "Purchase failed. Please try again."
		if res != nil && res.Notice != "" {
			message = res.Notice
		}
		resp := utils.ErrorResponse(message, err.Error())
		if res != nil {
			resp.Data = res
		}
		utils.WriteJSON(w, http.StatusInternalServerError, resp)
		return
	}

	if res.State == purchase.StateRequiresWallet {
		resp := utils.ErrorResponse(res.Notice, "wallet not connected")
		resp.Data = res
		utils.WriteJSON(w, http.StatusPreconditionRequired, resp)
		return
	}

	w.Header().Set("Location", res.ReceiptRoute)
	utils.WriteJSON(w, http.StatusCreated, utils.SuccessResponse(res.Notice, res))
}
