// Package store holds bookings, escalations and chat transcripts.
//
// The interfaces are owned by the application context and injected into
// services; the in-memory implementations are process-local.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/capitalize-ai/travel-assistant/internal/model"
)

var (
	ErrBookingNotFound    = errors.New("booking not found")
	ErrEscalationNotFound = errors.New("escalation not found")
	ErrAlreadyResolved    = errors.New("escalation already resolved")
	ErrBookingNotPending  = errors.New("booking is not pending supervisor review")
)

// BookingStore persists bookings.
type BookingStore interface {
	Create(ctx context.Context, b *model.Booking) error
	Get(ctx context.Context, id string) (*model.Booking, error)
	List(ctx context.Context) ([]model.Booking, error)
	// Transition moves a booking from one status to another. It fails with
	// ErrBookingNotPending when the booking is no longer in status from.
	Transition(ctx context.Context, id string, from, to model.BookingStatus) (*model.Booking, error)
}

// EscalationStore persists escalations.
type EscalationStore interface {
	// Create opens an escalation for a booking that is pending supervisor review.
	Create(ctx context.Context, booking *model.Booking, reason, supervisorEmail string) (*model.Escalation, error)
	Get(ctx context.Context, id string) (*model.Escalation, error)
	GetByBooking(ctx context.Context, bookingID string) (*model.Escalation, error)
	// LatestOpen returns the most recently created open escalation of a conversation.
	LatestOpen(ctx context.Context, conversationID string) (*model.Escalation, error)
	List(ctx context.Context) ([]model.Escalation, error)
	// Resolve records the supervisor message. Resolving twice returns ErrAlreadyResolved.
	Resolve(ctx context.Context, id, message string, at time.Time) (*model.Escalation, error)
}

// TranscriptStore is the append-only chat log. Implementations must keep
// insertion order per conversation and accept concurrent appends.
type TranscriptStore interface {
	Append(ctx context.Context, msg *model.ChatMessage) error
	List(ctx context.Context, conversationID string) ([]model.ChatMessage, error)
}
