package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/lexa-ai/lexa-backend/internal/handlers/render"
	"github.com/lexa-ai/lexa-backend/internal/handlers/userctx"
	"github.com/lexa-ai/lexa-backend/internal/models"
)

// Chat service
type ChatService interface {
	// Ask the model and append the exchange to the user conversation
	SendPrompt(ctx context.Context, userID uuid.UUID, prompt string) (string, error)

	// List user messages oldest first
	ListMessages(ctx context.Context, userID uuid.UUID) ([]models.ChatMessage, error)

	// Drop the user conversation
	ClearMessages(ctx context.Context, userID uuid.UUID) error
}

type ChatHandler struct {
	chatService ChatService
}

func NewChat(chat ChatService) *ChatHandler {
	return &ChatHandler{chatService: chat}
}

func (h *ChatHandler) create(w http.ResponseWriter, r *http.Request) {
	type ChatRequest struct {
		Prompt string `json:"prompt" validate:"required"`
	}
	type ChatSuccessResponse struct {
		Success    bool   `json:"success"`
		BotMessage string `json:"botMessage"`
	}

	data, err := render.BindAndValidate[ChatRequest](w, r)
	if err != nil {
		return
	}

	// Conversations always belong to the authenticated caller
	user, ok := userctx.FromContext(r.Context())
	if !ok {
		render.ServiceError(w, "User not authorized", http.StatusUnauthorized)
		return
	}

	reply, err := h.chatService.SendPrompt(r.Context(), user.ID, data.Prompt)
	if err != nil {
		render.ServiceError(w, "Server error", http.StatusInternalServerError)
		return
	}

	render.JSON(w, ChatSuccessResponse{Success: true, BotMessage: reply})
}

func (h *ChatHandler) list(w http.ResponseWriter, r *http.Request) {
	type MessageResponse struct {
		Role      string    `json:"role"`
		Content   string    `json:"content"`
		CreatedAt time.Time `json:"createdAt"`
	}

	user, ok := userctx.FromContext(r.Context())
	if !ok {
		render.ServiceError(w, "User not authorized", http.StatusUnauthorized)
		return
	}

	messages, err := h.chatService.ListMessages(r.Context(), user.ID)
	if err != nil {
		render.ServiceError(w, "Server error", http.StatusInternalServerError)
		return
	}

	// Empty history renders as [], not null
	response := make([]MessageResponse, 0, len(messages))
	for _, m := range messages {
		response = append(response, MessageResponse{
			Role:      m.Role,
			Content:   m.Content,
			CreatedAt: m.CreatedAt,
		})
	}

	render.JSON(w, response)
}

func (h *ChatHandler) clear(w http.ResponseWriter, r *http.Request) {
	type ClearSuccessResponse struct {
		Success bool `json:"success"`
	}

	user, ok := userctx.FromContext(r.Context())
	if !ok {
		render.ServiceError(w, "User not authorized", http.StatusUnauthorized)
		return
	}

	if err := h.chatService.ClearMessages(r.Context(), user.ID); err != nil {
		render.ServiceError(w, "Server error", http.StatusInternalServerError)
		return
	}

	render.JSON(w, ClearSuccessResponse{Success: true})
}
