package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/capitalize-ai/travel-assistant/internal/catalog"
	"github.com/capitalize-ai/travel-assistant/internal/middleware"
	"github.com/capitalize-ai/travel-assistant/internal/model"
	"github.com/capitalize-ai/travel-assistant/internal/service"
	"github.com/capitalize-ai/travel-assistant/internal/store"
	"github.com/capitalize-ai/travel-assistant/pkg/logger"
)

// BookingHandler handles direct booking and lookup endpoints.
type BookingHandler struct {
	service *service.BookingService
	logger  *logger.Logger
}

// NewBookingHandler creates a new booking handler.
func NewBookingHandler(svc *service.BookingService, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service: svc,
		logger:  log,
	}
}

// Create handles POST /api/bookings. Confirmed bookings return 201,
// escalated ones 202 with the pending outcome.
func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req model.BookingRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.ConversationID != "" {
		if err := middleware.ValidateConversationID(req.ConversationID); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	outcome, err := h.service.Book(ctx, &req)
	switch {
	case errors.Is(err, catalog.ErrActivityNotFound), errors.Is(err, catalog.ErrVariationNotFound):
		writeError(w, http.StatusNotFound, err.Error())
		return
	case err != nil:
		h.logger.Error("failed to book",
			zap.String("correlation_id", middleware.GetCorrelationID(ctx)),
			zap.Error(err),
		)
		writeError(w, http.StatusInternalServerError, "failed to book")
		return
	}

	status := http.StatusCreated
	if outcome.Status == model.BookingPendingSupervisor {
		status = http.StatusAccepted
	}
	writeJSON(w, status, outcome)
}

// Get handles GET /api/bookings/{id}
func (h *BookingHandler) Get(w http.ResponseWriter, r *http.Request) {
	booking, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrBookingNotFound) {
		writeError(w, http.StatusNotFound, "booking not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get booking")
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

// GetEscalation handles GET /api/escalations/by-id/{id}
func (h *BookingHandler) GetEscalation(w http.ResponseWriter, r *http.Request) {
	esc, err := h.service.GetEscalation(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrEscalationNotFound) {
		writeError(w, http.StatusNotFound, "escalation not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get escalation")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"escalation": esc,
		"state":      esc.State(),
	})
}
