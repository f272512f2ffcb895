package handler

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/adeolu/ridebid/internal/errors"
	"github.com/adeolu/ridebid/internal/middleware"
	"github.com/adeolu/ridebid/internal/models"
	"github.com/adeolu/ridebid/internal/service"
	"github.com/adeolu/ridebid/pkg/utils"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type RequestHandler struct {
	requestService service.RequestService
	validate       *validator.Validate
}

func NewRequestHandler(requestService service.RequestService) *RequestHandler {
	return &RequestHandler{
		requestService: requestService,
		validate:       validator.New(),
	}
}

func (h *RequestHandler) RegisterRoutes(r chi.Router) {
	r.Post("/requests", h.Create)
	r.Get("/requests/open", h.Open)
	r.Get("/requests/active", h.Active)
	r.Get("/requests/history", h.History)
	r.Get("/requests/{id}", h.Get)
	r.Delete("/requests/{id}", h.Cancel)
	r.Post("/requests/{id}/accept", h.AcceptBid)
	r.Post("/requests/{id}/complete", h.Complete)
}

// POST /v1/requests
func (h *RequestHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r.Context())

	var req models.CreateRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		utils.BadRequest(w, err.Error())
		return
	}

	request, err := h.requestService.Create(r.Context(), user, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	utils.Created(w, request.ToResponse())
}

// GET /v1/requests/open — the driver bidding feed: every pending
// request. Passengers are rejected; they only see their own requests.
func (h *RequestHandler) Open(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r.Context())

	requests, err := h.requestService.GetOpenForDrivers(r.Context(), user)
	if err != nil {
		handleError(w, err)
		return
	}

	responses := make([]*models.RideRequestResponse, 0, len(requests))
	for _, request := range requests {
		responses = append(responses, request.ToResponse())
	}
	utils.Success(w, http.StatusOK, responses)
}

// GET /v1/requests/active — the caller's own pending/accepted request.
func (h *RequestHandler) Active(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r.Context())

	request, err := h.requestService.GetActiveForPassenger(r.Context(), user.ID)
	if err != nil {
		handleError(w, err)
		return
	}
	if request == nil {
		utils.Success(w, http.StatusOK, nil)
		return
	}

	utils.Success(w, http.StatusOK, request.ToResponse())
}

// GET /v1/requests/history
func (h *RequestHandler) History(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r.Context())

	requests, err := h.requestService.GetHistoryForPassenger(r.Context(), user.ID)
	if err != nil {
		handleError(w, err)
		return
	}

	responses := make([]*models.RideRequestResponse, 0, len(requests))
	for _, request := range requests {
		responses = append(responses, request.ToResponse())
	}
	utils.Success(w, http.StatusOK, responses)
}

// GET /v1/requests/{id}
func (h *RequestHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		utils.BadRequest(w, "request id is required")
		return
	}

	user := middleware.CurrentUser(r.Context())

	request, err := h.requestService.Get(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	// Passengers only ever see their own requests; drivers and admins may
	// inspect any.
	if user.Role == models.RolePassenger && request.PassengerID != user.ID {
		utils.Error(w, apperrors.NotFound("ride request"))
		return
	}

	utils.Success(w, http.StatusOK, request.ToResponse())
}

// DELETE /v1/requests/{id}
func (h *RequestHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		utils.BadRequest(w, "request id is required")
		return
	}

	user := middleware.CurrentUser(r.Context())

	if err := h.requestService.Cancel(r.Context(), id, user); err != nil {
		handleError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, map[string]string{
		"status":  "cancelled",
		"message": "ride request cancelled",
	})
}

// POST /v1/requests/{id}/accept
func (h *RequestHandler) AcceptBid(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		utils.BadRequest(w, "request id is required")
		return
	}

	var req models.AcceptBidRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		utils.BadRequest(w, err.Error())
		return
	}

	user := middleware.CurrentUser(r.Context())

	request, err := h.requestService.AcceptBid(r.Context(), id, user, req.BidID)
	if err != nil {
		handleError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, request.ToResponse())
}

// POST /v1/requests/{id}/complete
func (h *RequestHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		utils.BadRequest(w, "request id is required")
		return
	}

	user := middleware.CurrentUser(r.Context())

	if err := h.requestService.Complete(r.Context(), id, user); err != nil {
		handleError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, map[string]string{
		"status": models.RequestStatusCompleted,
	})
}
