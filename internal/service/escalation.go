package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/capitalize-ai/travel-assistant/internal/model"
	"github.com/capitalize-ai/travel-assistant/internal/store"
	"github.com/capitalize-ai/travel-assistant/pkg/logger"
	"github.com/capitalize-ai/travel-assistant/pkg/metrics"
)

// Directive is a machine-readable decision at the start of a supervisor reply.
type Directive string

const (
	DirectiveNone    Directive = ""
	DirectiveApprove Directive = "approve"
	DirectiveReject  Directive = "reject"
)

// ParseDirective reads the first word of a reply. "Approved, go ahead."
// approves; "REJECT - fully booked" rejects; anything else is informational.
func ParseDirective(message string) Directive {
	fields := strings.Fields(message)
	if len(fields) == 0 {
		return DirectiveNone
	}
	word := strings.ToUpper(strings.TrimRight(fields[0], ".,:;!-"))
	switch word {
	case "APPROVE", "APPROVED":
		return DirectiveApprove
	case "REJECT", "REJECTED", "DECLINE", "DECLINED":
		return DirectiveReject
	default:
		return DirectiveNone
	}
}

// AppendFunc appends a message to a conversation transcript.
type AppendFunc func(ctx context.Context, conversationID string, role model.Role, text string) (*model.ChatMessage, error)

// EscalationService resolves escalations from supervisor replies.
type EscalationService struct {
	bookings    store.BookingStore
	escalations store.EscalationStore
	appendMsg   AppendFunc
	events      EventPublisher
	logger      *logger.Logger
	now         func() time.Time
}

// NewEscalationService creates a new escalation service.
func NewEscalationService(
	bookings store.BookingStore,
	escalations store.EscalationStore,
	appendMsg AppendFunc,
	events EventPublisher,
	log *logger.Logger,
) *EscalationService {
	if events == nil {
		events = NopPublisher
	}
	return &EscalationService{
		bookings:    bookings,
		escalations: escalations,
		appendMsg:   appendMsg,
		events:      events,
		logger:      log.Named("escalation"),
		now:         time.Now,
	}
}

// HandleSupervisorReply appends a supervisor reply to the conversation and,
// when it correlates to an open escalation, resolves it. An empty message is
// ignored. The reply is always shown in chat even if no escalation matches.
func (s *EscalationService) HandleSupervisorReply(ctx context.Context, conversationID string, req *model.SupervisorReplyRequest) (*model.SupervisorReplyResponse, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return &model.SupervisorReplyResponse{Status: "ignored", Reason: "empty message"}, nil
	}

	esc, err := s.correlate(ctx, conversationID, req.EscalationID)
	if err != nil && !errors.Is(err, store.ErrEscalationNotFound) {
		return nil, err
	}

	// A reply naming an escalation belongs to that escalation's conversation.
	target := conversationID
	if esc != nil && esc.ConversationID != "" {
		target = esc.ConversationID
	}

	if _, err := s.appendMsg(ctx, target, model.RoleSupervisor, message); err != nil {
		return nil, fmt.Errorf("failed to append supervisor message: %w", err)
	}

	resp := &model.SupervisorReplyResponse{Status: "ok"}
	if esc == nil {
		s.logger.Info("supervisor reply has no open escalation",
			zap.String("conversation_id", conversationID),
			zap.String("escalation_id", req.EscalationID),
		)
		return resp, nil
	}
	resp.EscalationID = esc.ID
	resp.BookingID = esc.BookingID

	resolved, err := s.escalations.Resolve(ctx, esc.ID, message, s.now())
	if errors.Is(err, store.ErrAlreadyResolved) {
		s.logger.Info("escalation already resolved, reply kept as chat only",
			zap.String("escalation_id", esc.ID),
		)
		resp.Reason = "escalation already resolved"
		return resp, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve escalation: %w", err)
	}
	metrics.EscalationsTotal.WithLabelValues("resolved").Inc()

	publish(ctx, s.events, s.logger, &model.BookingEvent{
		Type:           model.EventEscalationResolved,
		BookingID:      resolved.BookingID,
		EscalationID:   resolved.ID,
		ConversationID: target,
		Reason:         message,
	})

	booking, err := s.applyDirective(ctx, resolved, ParseDirective(message))
	if err != nil {
		return nil, err
	}
	if booking != nil {
		resp.BookingStatus = booking.Status
	}

	return resp, nil
}

// correlate finds the escalation a reply belongs to: by explicit id first,
// then the conversation's newest open escalation.
func (s *EscalationService) correlate(ctx context.Context, conversationID, escalationID string) (*model.Escalation, error) {
	if escalationID != "" {
		esc, err := s.escalations.Get(ctx, escalationID)
		if err == nil {
			if esc.ConversationID != "" && esc.ConversationID != conversationID {
				s.logger.Info("reply routed to the escalation's conversation",
					zap.String("escalation_id", escalationID),
					zap.String("conversation_id", conversationID),
					zap.String("escalation_conversation_id", esc.ConversationID),
				)
			}
			return esc, nil
		}
		if !errors.Is(err, store.ErrEscalationNotFound) {
			return nil, err
		}
	}
	return s.escalations.LatestOpen(ctx, conversationID)
}

// applyDirective transitions the pending booking when the reply carries a
// directive. It returns the booking in its current state.
func (s *EscalationService) applyDirective(ctx context.Context, esc *model.Escalation, d Directive) (*model.Booking, error) {
	var to model.BookingStatus
	switch d {
	case DirectiveApprove:
		to = model.BookingConfirmed
	case DirectiveReject:
		to = model.BookingRejected
	default:
		return s.bookings.Get(ctx, esc.BookingID)
	}

	booking, err := s.bookings.Transition(ctx, esc.BookingID, model.BookingPendingSupervisor, to)
	if errors.Is(err, store.ErrBookingNotPending) {
		return s.bookings.Get(ctx, esc.BookingID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to transition booking: %w", err)
	}
	metrics.BookingTransitionsTotal.WithLabelValues(string(to)).Inc()

	s.logger.Info("booking status changed by supervisor",
		zap.String("booking_id", booking.ID),
		zap.String("escalation_id", esc.ID),
		zap.String("status", string(booking.Status)),
	)
	publish(ctx, s.events, s.logger, &model.BookingEvent{
		Type:           model.EventBookingStatusChanged,
		BookingID:      booking.ID,
		EscalationID:   esc.ID,
		ConversationID: booking.ConversationID,
		Status:         booking.Status,
	})

	return booking, nil
}
