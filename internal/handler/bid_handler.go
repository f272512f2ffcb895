package handler

import (
	"encoding/json"
	"net/http"

	"github.com/adeolu/ridebid/internal/middleware"
	"github.com/adeolu/ridebid/internal/models"
	"github.com/adeolu/ridebid/internal/service"
	"github.com/adeolu/ridebid/pkg/utils"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type BidHandler struct {
	bidService service.BidService
	validate   *validator.Validate
}

func NewBidHandler(bidService service.BidService) *BidHandler {
	return &BidHandler{
		bidService: bidService,
		validate:   validator.New(),
	}
}

func (h *BidHandler) RegisterRoutes(r chi.Router) {
	r.Post("/requests/{id}/bids", h.PlaceBid)
	r.Get("/requests/{id}/bids", h.ListBids)
}

// POST /v1/requests/{id}/bids
func (h *BidHandler) PlaceBid(w http.ResponseWriter, r *http.Request) {
	requestID := chi.URLParam(r, "id")
	if requestID == "" {
		utils.BadRequest(w, "request id is required")
		return
	}

	var req models.PlaceBidRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		utils.BadRequest(w, err.Error())
		return
	}

	user := middleware.CurrentUser(r.Context())

	bid, err := h.bidService.PlaceBid(r.Context(), requestID, user, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	utils.Created(w, bid.ToResponse())
}

// GET /v1/requests/{id}/bids
func (h *BidHandler) ListBids(w http.ResponseWriter, r *http.Request) {
	requestID := chi.URLParam(r, "id")
	if requestID == "" {
		utils.BadRequest(w, "request id is required")
		return
	}

	bids, err := h.bidService.ListBids(r.Context(), requestID)
	if err != nil {
		handleError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, bids)
}
