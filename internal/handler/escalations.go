package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/capitalize-ai/travel-assistant/internal/middleware"
	"github.com/capitalize-ai/travel-assistant/internal/model"
	"github.com/capitalize-ai/travel-assistant/internal/service"
	"github.com/capitalize-ai/travel-assistant/pkg/logger"
)

// EscalationHandler receives supervisor replies.
type EscalationHandler struct {
	service *service.EscalationService
	logger  *logger.Logger
}

// NewEscalationHandler creates a new escalation handler.
func NewEscalationHandler(svc *service.EscalationService, log *logger.Logger) *EscalationHandler {
	return &EscalationHandler{
		service: svc,
		logger:  log,
	}
}

// SupervisorReply handles POST /api/escalations/{conversation_id}/supervisor-reply
func (h *EscalationHandler) SupervisorReply(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	conversationID := chi.URLParam(r, "conversation_id")
	if err := middleware.ValidateConversationID(conversationID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req model.SupervisorReplyRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	log := h.logger.WithConversation(middleware.GetCorrelationID(ctx), conversationID)

	resp, err := h.service.HandleSupervisorReply(ctx, conversationID, &req)
	if err != nil {
		log.Error("failed to handle supervisor reply", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to handle supervisor reply")
		return
	}
	log.Debug("supervisor reply handled",
		zap.String("status", resp.Status),
		zap.String("escalation_id", resp.EscalationID),
	)

	writeJSON(w, http.StatusOK, resp)
}
