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

type RatingHandler struct {
	ratingService service.RatingService
	validate      *validator.Validate
}

func NewRatingHandler(ratingService service.RatingService) *RatingHandler {
	return &RatingHandler{
		ratingService: ratingService,
		validate:      validator.New(),
	}
}

func (h *RatingHandler) RegisterRoutes(r chi.Router) {
	r.Post("/ratings", h.Submit)
	r.Get("/ratings/pending", h.Pending)
}

// POST /v1/ratings
func (h *RatingHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitRatingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		utils.BadRequest(w, err.Error())
		return
	}

	user := middleware.CurrentUser(r.Context())

	rating, err := h.ratingService.Submit(r.Context(), user, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	utils.Created(w, rating)
}

// GET /v1/ratings/pending — at most one prompt: the caller's most recent
// completed, unrated ride.
func (h *RatingHandler) Pending(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r.Context())

	prompt, err := h.ratingService.PendingPrompt(r.Context(), user.ID)
	if err != nil {
		handleError(w, err)
		return
	}
	if prompt == nil {
		utils.Success(w, http.StatusOK, nil)
		return
	}

	utils.Success(w, http.StatusOK, prompt)
}
