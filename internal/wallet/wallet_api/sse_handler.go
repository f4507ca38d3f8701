package wallet_api

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// StreamSessionEvents streams wallet session changes as Server-Sent Events
func (h *Handler) StreamSessionEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	ctx := r.Context()
	changes := h.Wallets.Session.Subscribe(ctx)

	snapshot, err := h.sessionResponse(r)
	if err != nil {
		h.Logger.Warn("SSE", fmt.Sprintf("Failed to read wallet session for snapshot: %v", err))
	}
	initial, _ := json.Marshal(snapshot)

	setupSSEHeaders(w)
	fmt.Fprintf(w, "event: connected\ndata: %s\n\n", initial)
	flusher.Flush()

	h.Logger.Info("SSE", "Client subscribed to wallet session events")

	for {
		select {
		case change, ok := <-changes:
			if !ok {
				return
			}
			data, err := json.Marshal(change)
			if err != nil {
				h.Logger.Error("SSE", fmt.Sprintf("Failed to serialize session change: %v", err))
				continue
			}
			fmt.Fprintf(w, "event: session\ndata: %s\n\n", data)
			flusher.Flush()

		case <-ctx.Done():
			h.Logger.Debug("SSE", "Client disconnected from wallet session events")
			return
		}
	}
}

func setupSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream;charset=UTF-8")
	w.Header().Set("Cache-Control", "no-cache, no-store, max-age=0, must-revalidate")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Content-Type-Options", "nosniff")
}
