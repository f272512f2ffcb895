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

type AuthHandler struct {
	authService service.AuthService
	validate    *validator.Validate
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    validator.New(),
	}
}

func (h *AuthHandler) RegisterPublicRoutes(r chi.Router) {
	r.Post("/auth/session", h.SignIn)
	r.Delete("/auth/session", h.SignOut)
}

func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Get("/users/me", h.Me)
	r.Patch("/users/me", h.UpdateProfile)
}

// POST /v1/auth/session
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req models.SignInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		utils.BadRequest(w, err.Error())
		return
	}

	user, err := h.authService.SignIn(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, user.ToResponse())
}

// DELETE /v1/auth/session
//
// Sign-out lives with the identity provider; the server holds no session
// state to tear down.
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	utils.NoContent(w)
}

// GET /v1/users/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r.Context())
	utils.Success(w, http.StatusOK, user.ToResponse())
}

// PATCH /v1/users/me
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r.Context())

	var req models.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		utils.BadRequest(w, err.Error())
		return
	}

	updated, err := h.authService.UpdateProfile(r.Context(), user, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, updated.ToResponse())
}
