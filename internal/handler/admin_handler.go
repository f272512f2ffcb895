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

type AdminHandler struct {
	adminService service.AdminService
	validate     *validator.Validate
}

func NewAdminHandler(adminService service.AdminService) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
		validate:     validator.New(),
	}
}

func (h *AdminHandler) RegisterRoutes(r chi.Router) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.RequireAdmin)
		r.Get("/users", h.ListUsers)
		r.Get("/requests", h.RecentRequests)
		r.Post("/drivers/{id}/verify", h.ToggleVerification)
		r.Patch("/fare-config", h.UpdateFareConfig)
	})
}

// GET /v1/admin/users
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.adminService.ListUsers(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, users)
}

// GET /v1/admin/requests — last 50 by recency.
func (h *AdminHandler) RecentRequests(w http.ResponseWriter, r *http.Request) {
	requests, err := h.adminService.RecentRequests(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, requests)
}

// POST /v1/admin/drivers/{id}/verify
func (h *AdminHandler) ToggleVerification(w http.ResponseWriter, r *http.Request) {
	driverID := chi.URLParam(r, "id")
	if driverID == "" {
		utils.BadRequest(w, "driver id is required")
		return
	}

	driver, err := h.adminService.ToggleDriverVerification(r.Context(), driverID)
	if err != nil {
		handleError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, driver.ToResponse())
}

// PATCH /v1/admin/fare-config — partial merge, never full replace.
func (h *AdminHandler) UpdateFareConfig(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateFareConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		utils.BadRequest(w, err.Error())
		return
	}

	cfg, err := h.adminService.UpdateFareConfig(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, cfg)
}
