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

type ChatHandler struct {
	chatService service.ChatService
	validate    *validator.Validate
}

func NewChatHandler(chatService service.ChatService) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		validate:    validator.New(),
	}
}

func (h *ChatHandler) RegisterRoutes(r chi.Router) {
	r.Post("/requests/{id}/messages", h.Send)
	r.Get("/requests/{id}/messages", h.List)
}

// POST /v1/requests/{id}/messages
func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	requestID := chi.URLParam(r, "id")
	if requestID == "" {
		utils.BadRequest(w, "request id is required")
		return
	}

	var req models.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		utils.BadRequest(w, err.Error())
		return
	}

	user := middleware.CurrentUser(r.Context())

	message, err := h.chatService.Send(r.Context(), requestID, user, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	utils.Created(w, message)
}

// GET /v1/requests/{id}/messages
func (h *ChatHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := chi.URLParam(r, "id")
	if requestID == "" {
		utils.BadRequest(w, "request id is required")
		return
	}

	messages, err := h.chatService.List(r.Context(), requestID)
	if err != nil {
		handleError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, messages)
}
