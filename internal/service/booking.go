package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/capitalize-ai/travel-assistant/internal/catalog"
	"github.com/capitalize-ai/travel-assistant/internal/model"
	"github.com/capitalize-ai/travel-assistant/internal/notify"
	"github.com/capitalize-ai/travel-assistant/internal/store"
	"github.com/capitalize-ai/travel-assistant/pkg/logger"
	"github.com/capitalize-ai/travel-assistant/pkg/metrics"
)

// Notifier delivers supervisor notifications.
type Notifier interface {
	Notify(ctx context.Context, n notify.Notification) notify.Result
}

// BookingConfig holds booking policy settings.
type BookingConfig struct {
	// SupervisorEmail is the process-wide escalation destination.
	SupervisorEmail string
	// SubjectTag prefixes escalation subjects; replies are correlated by it.
	SubjectTag string
}

// BookingService turns booking requests into confirmations or escalations.
type BookingService struct {
	catalog     catalog.Lookup
	bookings    store.BookingStore
	escalations store.EscalationStore
	notifier    Notifier
	events      EventPublisher
	cfg         BookingConfig
	logger      *logger.Logger
}

// NewBookingService creates a new booking service.
func NewBookingService(
	lookup catalog.Lookup,
	bookings store.BookingStore,
	escalations store.EscalationStore,
	notifier Notifier,
	events EventPublisher,
	cfg BookingConfig,
	log *logger.Logger,
) *BookingService {
	if events == nil {
		events = NopPublisher
	}
	return &BookingService{
		catalog:     lookup,
		bookings:    bookings,
		escalations: escalations,
		notifier:    notifier,
		events:      events,
		cfg:         cfg,
		logger:      log.Named("booking"),
	}
}

// Book attempts a booking. Unknown activities or variations return
// catalog.ErrActivityNotFound / catalog.ErrVariationNotFound and create
// nothing. Policy violations are not errors: they yield a pending outcome.
func (s *BookingService) Book(ctx context.Context, req *model.BookingRequest) (*model.BookingOutcome, error) {
	ctx, span := otel.Tracer("BookingService").Start(ctx, "Book")
	defer span.End()
	span.SetAttributes(
		attribute.String("activity.id", req.ActivityID),
		attribute.String("variation.id", req.VariationID),
		attribute.Int("group.size", req.GroupSize),
	)

	activity, variation, err := s.catalog.FindVariation(req.ActivityID, req.VariationID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "catalog lookup failed")
		return nil, fmt.Errorf("book %s/%s: %w", req.ActivityID, req.VariationID, err)
	}

	decision := Decide(*variation, req.GroupSize)
	span.SetAttributes(attribute.String("booking.status", string(decision.Status)))

	booking := newBooking(req, decision.Status)
	if err := s.bookings.Create(ctx, booking); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to store booking")
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}
	metrics.BookingsTotal.WithLabelValues(string(booking.Status)).Inc()

	if !decision.NeedsSupervisor() {
		s.logger.Info("booking confirmed",
			zap.String("booking_id", booking.ID),
			zap.String("activity_id", booking.ActivityID),
			zap.String("variation_id", booking.VariationID),
			zap.Int("group_size", booking.GroupSize),
		)
		publish(ctx, s.events, s.logger, &model.BookingEvent{
			Type:           model.EventBookingConfirmed,
			BookingID:      booking.ID,
			ConversationID: booking.ConversationID,
			Status:         booking.Status,
		})
		return &model.BookingOutcome{
			Status:  model.BookingConfirmed,
			Booking: booking,
			Message: confirmedMessage,
		}, nil
	}

	return s.escalate(ctx, activity, variation, booking, decision.Reason(), req.SupervisorEmail)
}

func (s *BookingService) escalate(
	ctx context.Context,
	activity *model.Activity,
	variation *model.ActivityVariation,
	booking *model.Booking,
	reason, override string,
) (*model.BookingOutcome, error) {
	supervisor := s.supervisorFor(override)

	esc, err := s.escalations.Create(ctx, booking, reason, supervisor)
	if err != nil {
		s.abandon(ctx, booking, err)
		return nil, fmt.Errorf("failed to create escalation: %w", err)
	}
	metrics.EscalationsTotal.WithLabelValues("opened").Inc()

	s.logger.Info("booking escalated to supervisor",
		zap.String("booking_id", booking.ID),
		zap.String("escalation_id", esc.ID),
		zap.String("conversation_id", booking.ConversationID),
		zap.String("reason", reason),
	)

	result := s.notifier.Notify(ctx, notify.Notification{
		Subject: EscalationSubject(s.cfg.SubjectTag, booking, esc),
		Body:    escalationBody(activity, variation, booking, reason),
		To:      supervisor,
	})
	if !result.Delivered {
		s.logger.Warn("escalation notification not delivered",
			zap.String("escalation_id", esc.ID),
			zap.String("outcome", result.Outcome()),
			zap.Error(result.Err),
		)
	}

	publish(ctx, s.events, s.logger, &model.BookingEvent{
		Type:           model.EventBookingPending,
		BookingID:      booking.ID,
		EscalationID:   esc.ID,
		ConversationID: booking.ConversationID,
		Status:         booking.Status,
		Reason:         reason,
	})
	publish(ctx, s.events, s.logger, &model.BookingEvent{
		Type:           model.EventEscalationOpened,
		BookingID:      booking.ID,
		EscalationID:   esc.ID,
		ConversationID: booking.ConversationID,
		Reason:         reason,
		Metadata:       map[string]any{"notification": result.Outcome()},
	})

	return &model.BookingOutcome{
		Status:       model.BookingPendingSupervisor,
		Booking:      booking,
		EscalationID: esc.ID,
		Reason:       reason,
		Message:      pendingMessage,
	}, nil
}

// abandon rejects a pending booking whose escalation could not be opened.
func (s *BookingService) abandon(ctx context.Context, booking *model.Booking, cause error) {
	log := s.logger.With(
		zap.String("booking_id", booking.ID),
		zap.NamedError("cause", cause),
	)
	rejected, err := s.bookings.Transition(ctx, booking.ID, model.BookingPendingSupervisor, model.BookingRejected)
	if err != nil {
		log.Error("failed to reject booking without escalation", zap.Error(err))
		return
	}
	*booking = *rejected
	metrics.BookingTransitionsTotal.WithLabelValues(string(model.BookingRejected)).Inc()
	log.Warn("booking rejected, escalation could not be opened")
}

// supervisorFor resolves the escalation destination: request override,
// then configured supervisor, then a sentinel address.
func (s *BookingService) supervisorFor(override string) string {
	switch {
	case override != "":
		return override
	case s.cfg.SupervisorEmail != "":
		return s.cfg.SupervisorEmail
	default:
		return unknownSupervisor
	}
}

// Get returns a booking by id.
func (s *BookingService) Get(ctx context.Context, id string) (*model.Booking, error) {
	return s.bookings.Get(ctx, id)
}

// GetEscalation returns an escalation by id.
func (s *BookingService) GetEscalation(ctx context.Context, id string) (*model.Escalation, error) {
	return s.escalations.Get(ctx, id)
}

func newBooking(req *model.BookingRequest, status model.BookingStatus) *model.Booking {
	now := time.Now().UTC()
	return &model.Booking{
		ID:             uuid.Must(uuid.NewV7()).String(),
		ActivityID:     req.ActivityID,
		VariationID:    req.VariationID,
		CustomerName:   req.CustomerName,
		CustomerEmail:  req.CustomerEmail,
		GroupSize:      req.GroupSize,
		Date:           req.Date,
		Status:         status,
		ConversationID: req.ConversationID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}
