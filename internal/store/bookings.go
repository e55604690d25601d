package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/capitalize-ai/travel-assistant/internal/model"
)

// MemoryBookings is an in-memory BookingStore.
type MemoryBookings struct {
	mu       sync.RWMutex
	bookings map[string]*model.Booking
}

// NewMemoryBookings creates an empty booking store.
func NewMemoryBookings() *MemoryBookings {
	return &MemoryBookings{bookings: make(map[string]*model.Booking)}
}

// Create stores a new booking.
func (s *MemoryBookings) Create(ctx context.Context, b *model.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.bookings[b.ID]; exists {
		return fmt.Errorf("booking %s already exists", b.ID)
	}
	cp := *b
	s.bookings[b.ID] = &cp
	return nil
}

// Get returns a copy of the booking.
func (s *MemoryBookings) Get(ctx context.Context, id string) (*model.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.bookings[id]
	if !ok {
		return nil, ErrBookingNotFound
	}
	cp := *b
	return &cp, nil
}

// List returns all bookings ordered by creation time.
func (s *MemoryBookings) List(ctx context.Context) ([]model.Booking, error) {
	s.mu.RLock()
	out := make([]model.Booking, 0, len(s.bookings))
	for _, b := range s.bookings {
		out = append(out, *b)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// Transition changes the status of a booking currently in status from.
func (s *MemoryBookings) Transition(ctx context.Context, id string, from, to model.BookingStatus) (*model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookings[id]
	if !ok {
		return nil, ErrBookingNotFound
	}
	if b.Status != from {
		return nil, fmt.Errorf("booking %s is %s: %w", id, b.Status, ErrBookingNotPending)
	}
	b.Status = to
	b.UpdatedAt = time.Now().UTC()
	cp := *b
	return &cp, nil
}
