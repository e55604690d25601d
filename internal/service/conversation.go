package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/capitalize-ai/travel-assistant/internal/model"
	"github.com/capitalize-ai/travel-assistant/internal/store"
	"github.com/capitalize-ai/travel-assistant/pkg/logger"
	"github.com/capitalize-ai/travel-assistant/pkg/metrics"
)

// Turner submits one coalesced user turn to the agent runtime and returns
// the response fragments.
type Turner interface {
	SubmitTurn(ctx context.Context, conversationID, text string) ([]string, error)
}

// ConversationConfig holds coalescing settings.
type ConversationConfig struct {
	// Debounce is how long a drain waits before snapshotting pending texts.
	Debounce time.Duration
	// TurnTimeout bounds a single agent turn.
	TurnTimeout time.Duration
}

// conversationState is the per-conversation queue. processing is true while
// a drain goroutine owns the conversation. Guarded by ConversationService.mu.
type conversationState struct {
	pending    []string
	processing bool
}

// ConversationService owns chat transcripts and serializes agent turns per
// conversation while letting different conversations run independently.
type ConversationService struct {
	transcripts store.TranscriptStore
	turner      Turner
	cfg         ConversationConfig
	logger      *logger.Logger

	mu     sync.Mutex
	states map[string]*conversationState
	closed bool

	// stop ends debounce waits; running turns are not cancelled by it.
	stop   context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewConversationService creates a new conversation service.
func NewConversationService(transcripts store.TranscriptStore, turner Turner, cfg ConversationConfig, log *logger.Logger) *ConversationService {
	if cfg.TurnTimeout <= 0 {
		cfg.TurnTimeout = 90 * time.Second
	}
	stop, cancel := context.WithCancel(context.Background())
	return &ConversationService{
		transcripts: transcripts,
		turner:      turner,
		cfg:         cfg,
		logger:      log.Named("conversation"),
		states:      make(map[string]*conversationState),
		stop:        stop,
		cancel:      cancel,
	}
}

// Append adds a message to a conversation transcript.
func (s *ConversationService) Append(ctx context.Context, conversationID string, role model.Role, text string) (*model.ChatMessage, error) {
	msg := &model.ChatMessage{
		ID:             uuid.Must(uuid.NewV7()).String(),
		ConversationID: conversationID,
		Role:           role,
		Text:           text,
		CreatedAt:      time.Now().UTC(),
	}

	if err := s.transcripts.Append(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to append message: %w", err)
	}
	metrics.MessagesTotal.WithLabelValues(string(role)).Inc()

	return msg, nil
}

// Messages returns the transcript of a conversation.
func (s *ConversationService) Messages(ctx context.Context, conversationID string) ([]model.ChatMessage, error) {
	return s.transcripts.List(ctx, conversationID)
}

// PostUserMessage stores a user message and queues its text for the next
// coalesced agent turn.
func (s *ConversationService) PostUserMessage(ctx context.Context, conversationID, text string) (*model.ChatMessage, error) {
	msg, err := s.Append(ctx, conversationID, model.RoleUser, text)
	if err != nil {
		return nil, err
	}
	s.enqueue(conversationID, text)
	return msg, nil
}

// enqueue appends text and starts a drain unless one is already running.
// The processing flag is checked and set under the same lock as the append,
// so at most one drain exists per conversation. After Shutdown texts are
// stored but no longer submitted.
func (s *ConversationService) enqueue(conversationID, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		s.logger.Warn("conversation service stopped, text not submitted",
			zap.String("conversation_id", conversationID),
		)
		return
	}

	st, ok := s.states[conversationID]
	if !ok {
		st = &conversationState{}
		s.states[conversationID] = st
	}
	st.pending = append(st.pending, text)
	if st.processing {
		return
	}
	st.processing = true

	s.wg.Add(1)
	go s.drain(conversationID, st)
}

// drain waits out the debounce window, takes every pending text as one turn
// and repeats until the queue is empty. Texts arriving during a turn are
// picked up by the next iteration. The conversation's state is removed when
// the drain exits.
func (s *ConversationService) drain(conversationID string, st *conversationState) {
	defer s.wg.Done()

	for {
		waited := s.wait(s.cfg.Debounce)

		s.mu.Lock()
		if !waited || len(st.pending) == 0 {
			delete(s.states, conversationID)
			s.mu.Unlock()
			return
		}
		texts := st.pending
		st.pending = nil
		s.mu.Unlock()

		s.submit(conversationID, texts)
	}
}

func (s *ConversationService) wait(d time.Duration) bool {
	if d <= 0 {
		return s.stop.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-s.stop.Done():
		return false
	}
}

func (s *ConversationService) submit(conversationID string, texts []string) {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.TurnTimeout)
	defer cancel()

	// Turns run detached from the requests that queued them.
	ctx, span := otel.Tracer("ConversationService").Start(ctx, "SubmitTurn",
		trace.WithNewRoot(),
		trace.WithAttributes(
			attribute.String("conversation.id", conversationID),
			attribute.Int("turn.texts", len(texts)),
		),
	)
	defer span.End()

	start := time.Now()
	fragments, err := s.turner.SubmitTurn(ctx, conversationID, strings.Join(texts, "\n"))
	if err != nil {
		metrics.RecordAgentTurn("error", time.Since(start).Seconds(), len(texts))
		span.RecordError(err)
		span.SetStatus(codes.Error, "agent turn failed")
		s.logger.Error("agent turn failed",
			zap.String("conversation_id", conversationID),
			zap.Int("texts", len(texts)),
			zap.Error(err),
		)
		return
	}
	metrics.RecordAgentTurn("success", time.Since(start).Seconds(), len(texts))

	reply := strings.TrimSpace(strings.Join(fragments, " "))
	if reply == "" {
		return
	}

	if _, err := s.Append(ctx, conversationID, model.RoleAssistant, reply); err != nil {
		s.logger.Error("failed to store assistant reply",
			zap.String("conversation_id", conversationID),
			zap.Error(err),
		)
	}
}

// Shutdown stops accepting turns, drops texts still inside their debounce
// window and waits for running turns to finish or for ctx to expire.
func (s *ConversationService) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Wait blocks until no drain is running. Used by tests.
func (s *ConversationService) Wait() {
	s.wg.Wait()
}
