package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/capitalize-ai/travel-assistant/internal/middleware"
	"github.com/capitalize-ai/travel-assistant/internal/model"
	"github.com/capitalize-ai/travel-assistant/internal/service"
	"github.com/capitalize-ai/travel-assistant/pkg/logger"
)

// ChatHandler handles chat transcript endpoints.
type ChatHandler struct {
	service *service.ConversationService
	logger  *logger.Logger
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(svc *service.ConversationService, log *logger.Logger) *ChatHandler {
	return &ChatHandler{
		service: svc,
		logger:  log,
	}
}

// List handles GET /api/chat/{conversation_id}
func (h *ChatHandler) List(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "conversation_id")
	if err := middleware.ValidateConversationID(conversationID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	msgs, err := h.service.Messages(r.Context(), conversationID)
	if err != nil {
		h.logger.Error("failed to list messages", zap.String("conversation_id", conversationID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list messages")
		return
	}
	if msgs == nil {
		msgs = []model.ChatMessage{}
	}

	writeJSON(w, http.StatusOK, model.ListChatMessagesResponse{Messages: msgs})
}

// Send handles POST /api/chat/{conversation_id}. The assistant reply is
// produced in the background and shows up in the transcript.
func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	conversationID := chi.URLParam(r, "conversation_id")
	if err := middleware.ValidateConversationID(conversationID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req model.SendChatMessageRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	msg, err := h.service.PostUserMessage(ctx, conversationID, req.Text)
	if err != nil {
		h.logger.Error("failed to post message",
			zap.String("conversation_id", conversationID),
			zap.String("correlation_id", middleware.GetCorrelationID(ctx)),
			zap.Error(err),
		)
		writeError(w, http.StatusInternalServerError, "failed to post message")
		return
	}

	writeJSON(w, http.StatusOK, msg)
}
