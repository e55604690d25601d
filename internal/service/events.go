// Package service provides business logic for the booking assistant.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/capitalize-ai/travel-assistant/internal/model"
	"github.com/capitalize-ai/travel-assistant/pkg/logger"
	"github.com/capitalize-ai/travel-assistant/pkg/metrics"
)

// EventPublisher receives booking domain events.
type EventPublisher interface {
	Publish(ctx context.Context, event *model.BookingEvent) error
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, *model.BookingEvent) error { return nil }

// NopPublisher discards events. Used when NATS is not configured.
var NopPublisher EventPublisher = nopPublisher{}

// publish sends an event and only logs failures; events never fail a request.
func publish(ctx context.Context, p EventPublisher, log *logger.Logger, event *model.BookingEvent) {
	event.ID = uuid.Must(uuid.NewV7()).String()
	event.CreatedAt = time.Now().UTC()

	if err := p.Publish(ctx, event); err != nil {
		metrics.NATSPublishFailures.WithLabelValues(string(event.Type)).Inc()
		log.Warn("failed to publish booking event",
			zap.String("type", string(event.Type)),
			zap.String("booking_id", event.BookingID),
			zap.Error(err),
		)
	}
}
