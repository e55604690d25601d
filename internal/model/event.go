package model

import (
	"time"
)

// EventType represents the type of a booking domain event.
type EventType string

const (
	EventBookingConfirmed     EventType = "booking.confirmed"
	EventBookingPending       EventType = "booking.pending_supervisor"
	EventBookingStatusChanged EventType = "booking.status_changed"
	EventEscalationOpened     EventType = "escalation.opened"
	EventEscalationResolved   EventType = "escalation.resolved"
)

// BookingEvent is published whenever a booking or escalation changes.
type BookingEvent struct {
	ID             string         `json:"id"`
	Type           EventType      `json:"type"`
	BookingID      string         `json:"booking_id"`
	EscalationID   string         `json:"escalation_id,omitempty"`
	ConversationID string         `json:"conversation_id,omitempty"`
	Status         BookingStatus  `json:"status,omitempty"`
	Reason         string         `json:"reason,omitempty"`
	Metadata       map[string]any `json:"metadata,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
}
