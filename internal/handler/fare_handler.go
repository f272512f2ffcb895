package handler

import (
	"net/http"

	"github.com/adeolu/ridebid/internal/service"
	"github.com/adeolu/ridebid/pkg/utils"
	"github.com/go-chi/chi/v5"
)

type FareHandler struct {
	fareService service.FareService
}

func NewFareHandler(fareService service.FareService) *FareHandler {
	return &FareHandler{fareService: fareService}
}

func (h *FareHandler) RegisterRoutes(r chi.Router) {
	r.Get("/fares/estimate", h.Estimate)
	r.Get("/fares/config", h.Config)
}

// GET /v1/fares/estimate?origin=&destination=
func (h *FareHandler) Estimate(w http.ResponseWriter, r *http.Request) {
	origin := r.URL.Query().Get("origin")
	destination := r.URL.Query().Get("destination")
	if origin == "" || destination == "" {
		utils.BadRequest(w, "origin and destination are required")
		return
	}

	estimate, err := h.fareService.Estimate(r.Context(), origin, destination)
	if err != nil {
		handleError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, estimate)
}

// GET /v1/fares/config
func (h *FareHandler) Config(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.fareService.GetConfig(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}
	if cfg == nil {
		utils.NotFound(w, "fare config")
		return
	}

	utils.Success(w, http.StatusOK, cfg)
}
