package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/capitalize-ai/travel-assistant/internal/model"
)

// MemoryEscalations is an in-memory EscalationStore indexed by id, booking
// and conversation.
type MemoryEscalations struct {
	mu             sync.RWMutex
	escalations    map[string]*model.Escalation
	byBooking      map[string]string
	byConversation map[string][]string
}

// NewMemoryEscalations creates an empty escalation store.
func NewMemoryEscalations() *MemoryEscalations {
	return &MemoryEscalations{
		escalations:    make(map[string]*model.Escalation),
		byBooking:      make(map[string]string),
		byConversation: make(map[string][]string),
	}
}

// Create opens an escalation. The booking must be pending supervisor review
// and must not already own an escalation.
func (s *MemoryEscalations) Create(ctx context.Context, booking *model.Booking, reason, supervisorEmail string) (*model.Escalation, error) {
	if booking == nil {
		return nil, ErrBookingNotFound
	}
	if booking.Status != model.BookingPendingSupervisor {
		return nil, fmt.Errorf("booking %s is %s: %w", booking.ID, booking.Status, ErrBookingNotPending)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.byBooking[booking.ID]; ok {
		return nil, fmt.Errorf("booking %s already has escalation %s", booking.ID, existing)
	}

	esc := &model.Escalation{
		ID:              uuid.Must(uuid.NewV7()).String(),
		BookingID:       booking.ID,
		ConversationID:  booking.ConversationID,
		Reason:          reason,
		SupervisorEmail: supervisorEmail,
		CreatedAt:       time.Now().UTC(),
	}

	s.escalations[esc.ID] = esc
	s.byBooking[booking.ID] = esc.ID
	if esc.ConversationID != "" {
		s.byConversation[esc.ConversationID] = append(s.byConversation[esc.ConversationID], esc.ID)
	}

	return copyEscalation(esc), nil
}

// Get returns an escalation by id.
func (s *MemoryEscalations) Get(ctx context.Context, id string) (*model.Escalation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	esc, ok := s.escalations[id]
	if !ok {
		return nil, ErrEscalationNotFound
	}
	return copyEscalation(esc), nil
}

// GetByBooking returns the escalation owned by a booking.
func (s *MemoryEscalations) GetByBooking(ctx context.Context, bookingID string) (*model.Escalation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byBooking[bookingID]
	if !ok {
		return nil, ErrEscalationNotFound
	}
	return copyEscalation(s.escalations[id]), nil
}

// LatestOpen returns the newest unresolved escalation of a conversation.
func (s *MemoryEscalations) LatestOpen(ctx context.Context, conversationID string) (*model.Escalation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.byConversation[conversationID]
	for i := len(ids) - 1; i >= 0; i-- {
		if esc := s.escalations[ids[i]]; esc.ResolvedAt == nil {
			return copyEscalation(esc), nil
		}
	}
	return nil, ErrEscalationNotFound
}

// List returns all escalations ordered by creation time.
func (s *MemoryEscalations) List(ctx context.Context) ([]model.Escalation, error) {
	s.mu.RLock()
	out := make([]model.Escalation, 0, len(s.escalations))
	for _, esc := range s.escalations {
		out = append(out, *copyEscalation(esc))
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// Resolve moves an escalation from open to resolved.
func (s *MemoryEscalations) Resolve(ctx context.Context, id, message string, at time.Time) (*model.Escalation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	esc, ok := s.escalations[id]
	if !ok {
		return nil, ErrEscalationNotFound
	}
	if esc.ResolvedAt != nil {
		return copyEscalation(esc), ErrAlreadyResolved
	}

	resolvedAt := at.UTC()
	msg := message
	esc.ResolvedAt = &resolvedAt
	esc.SupervisorMessage = &msg

	return copyEscalation(esc), nil
}

func copyEscalation(esc *model.Escalation) *model.Escalation {
	cp := *esc
	if esc.ResolvedAt != nil {
		t := *esc.ResolvedAt
		cp.ResolvedAt = &t
	}
	if esc.SupervisorMessage != nil {
		m := *esc.SupervisorMessage
		cp.SupervisorMessage = &m
	}
	return &cp
}
