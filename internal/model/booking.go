package model

import (
	"time"
)

// BookingStatus is the lifecycle status of a booking.
type BookingStatus string

const (
	BookingConfirmed         BookingStatus = "confirmed"
	BookingPendingSupervisor BookingStatus = "pending_supervisor"
	BookingRejected          BookingStatus = "rejected"
)

// Booking is a customer's reservation of an activity variation.
type Booking struct {
	ID             string        `json:"id"`
	ActivityID     string        `json:"activity_id"`
	VariationID    string        `json:"variation_id"`
	CustomerName   string        `json:"customer_name"`
	CustomerEmail  string        `json:"customer_email"`
	GroupSize      int           `json:"group_size"`
	Date           string        `json:"date"`
	Status         BookingStatus `json:"status"`
	ConversationID string        `json:"conversation_id,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// EscalationState is derived from ResolvedAt.
type EscalationState string

const (
	EscalationOpen     EscalationState = "open"
	EscalationResolved EscalationState = "resolved"
)

// Escalation requests supervisor review of exactly one pending booking.
type Escalation struct {
	ID                string     `json:"id"`
	BookingID         string     `json:"booking_id"`
	ConversationID    string     `json:"conversation_id,omitempty"`
	Reason            string     `json:"reason"`
	SupervisorEmail   string     `json:"supervisor_email"`
	CreatedAt         time.Time  `json:"created_at"`
	ResolvedAt        *time.Time `json:"resolved_at,omitempty"`
	SupervisorMessage *string    `json:"supervisor_message,omitempty"`
}

// State reports whether the escalation is still awaiting a supervisor.
func (e *Escalation) State() EscalationState {
	if e.ResolvedAt != nil {
		return EscalationResolved
	}
	return EscalationOpen
}

// BookingRequest is the input of a booking attempt.
type BookingRequest struct {
	ActivityID    string `json:"activity_id" validate:"required"`
	VariationID   string `json:"variation_id" validate:"required"`
	CustomerName  string `json:"customer_name" validate:"required,max=200"`
	CustomerEmail string `json:"customer_email" validate:"omitempty,email"`
	GroupSize     int    `json:"group_size"`
	Date          string `json:"date" validate:"max=100"`

	// SupervisorEmail overrides the configured supervisor destination.
	SupervisorEmail string `json:"supervisor_email,omitempty" validate:"omitempty,email"`
	// ConversationID ties an escalation back to the chat that raised it.
	ConversationID string `json:"conversation_id,omitempty"`
}

// BookingOutcome is the result of a booking attempt.
type BookingOutcome struct {
	Status       BookingStatus `json:"status"`
	Booking      *Booking      `json:"booking"`
	EscalationID string        `json:"escalation_id,omitempty"`
	Reason       string        `json:"reason,omitempty"`
	Message      string        `json:"message"`
}
