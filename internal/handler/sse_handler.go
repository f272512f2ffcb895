package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/adeolu/ridebid/internal/events"
	"github.com/adeolu/ridebid/internal/repository"
	"github.com/go-chi/chi/v5"
)

// SSEHandler streams a ride request's live updates (bids, status changes,
// chat messages) to connected clients. Each connection holds its own
// subscription on the event bus and tears it down on disconnect.
type SSEHandler struct {
	requestRepo repository.RequestRepository
	bus         *events.Bus
}

func NewSSEHandler(requestRepo repository.RequestRepository, bus *events.Bus) *SSEHandler {
	return &SSEHandler{
		requestRepo: requestRepo,
		bus:         bus,
	}
}

func (h *SSEHandler) RegisterRoutes(r chi.Router) {
	r.Get("/requests/{id}/events", h.StreamEvents)
}

// GET /v1/requests/{id}/events
func (h *SSEHandler) StreamEvents(w http.ResponseWriter, r *http.Request) {
	requestID := chi.URLParam(r, "id")
	if requestID == "" {
		http.Error(w, "request id required", http.StatusBadRequest)
		return
	}

	request, err := h.requestRepo.GetByID(r.Context(), requestID)
	if err != nil || request == nil {
		http.Error(w, "ride request not found", http.StatusNotFound)
		return
	}

	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "SSE not supported", http.StatusInternalServerError)
		return
	}

	eventChan, unsubscribe := h.bus.Subscribe(requestID)
	defer unsubscribe()

	// Send the current state first so late subscribers start consistent
	snapshot, _ := json.Marshal(request.ToResponse())
	fmt.Fprintf(w, "event: snapshot\ndata: %s\n\n", snapshot)
	flusher.Flush()

	ctx := r.Context()
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case event, open := <-eventChan:
			if !open {
				return
			}
			data, err := json.Marshal(event)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, data)
			flusher.Flush()
		case <-ticker.C:
			// Send heartbeat
			fmt.Fprintf(w, "event: heartbeat\ndata: {\"time\": %q}\n\n", time.Now().Format(time.RFC3339))
			flusher.Flush()
		}
	}
}
