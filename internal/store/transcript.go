package store

import (
	"context"
	"sync"

	"github.com/capitalize-ai/travel-assistant/internal/model"
)

// MemoryTranscripts is an in-memory TranscriptStore.
type MemoryTranscripts struct {
	mu            sync.RWMutex
	conversations map[string][]model.ChatMessage
}

// NewMemoryTranscripts creates an empty transcript store.
func NewMemoryTranscripts() *MemoryTranscripts {
	return &MemoryTranscripts{conversations: make(map[string][]model.ChatMessage)}
}

// Append adds a message at the end of its conversation.
func (s *MemoryTranscripts) Append(ctx context.Context, msg *model.ChatMessage) error {
	s.mu.Lock()
	s.conversations[msg.ConversationID] = append(s.conversations[msg.ConversationID], *msg)
	s.mu.Unlock()
	return nil
}

// List returns a snapshot of a conversation in insertion order. Unknown
// conversations are empty, not an error.
func (s *MemoryTranscripts) List(ctx context.Context, conversationID string) ([]model.ChatMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msgs := s.conversations[conversationID]
	out := make([]model.ChatMessage, len(msgs))
	copy(out, msgs)
	return out, nil
}
