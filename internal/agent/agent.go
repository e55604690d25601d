// Package agent runs assistant turns: it keeps a per-conversation history,
// exposes the catalog and booking operations as tools and loops over tool
// calls until the model answers in text.
package agent

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/capitalize-ai/travel-assistant/internal/catalog"
	"github.com/capitalize-ai/travel-assistant/internal/llm"
	"github.com/capitalize-ai/travel-assistant/internal/model"
	"github.com/capitalize-ai/travel-assistant/pkg/logger"
)

const systemPrompt = "You are a friendly WhatsApp-style travel assistant focused on Dubai activities. " +
	"You can do two main things:\n" +
	"1) Provide information (images, pricing, policies) about activities.\n" +
	"2) Help the user book activities, including handling different time slots and group sizes.\n\n" +
	"Guidelines:\n" +
	"- Use the search, details and pricing tools for questions and comparisons.\n" +
	"- Before booking, collect the activity, variation, date, group size, name and email, then call book_activity.\n" +
	"- The user may send several short messages in a row; treat them as a single request.\n" +
	"- Always confirm details back to the user in natural language.\n" +
	"- When a booking goes to supervisor review, explain that the supervisor's reply will appear in this chat."

const offlineReply = "The assistant is offline right now because no language model is configured. " +
	"You can still browse activities, and bookings made through the API are processed as usual."

// Booker attempts bookings on behalf of the model.
type Booker interface {
	Book(ctx context.Context, req *model.BookingRequest) (*model.BookingOutcome, error)
}

// Config holds agent settings.
type Config struct {
	Model       string
	Temperature float64
	// MaxToolRounds bounds model round trips that may request tools.
	MaxToolRounds int
	// MaxHistory is the number of history messages kept per conversation.
	MaxHistory int
}

// Agent implements the assistant turn for the conversation service.
type Agent struct {
	client  llm.Client
	catalog catalog.Lookup
	booker  Booker
	tools   []llm.Tool
	cfg     Config
	logger  *logger.Logger

	mu        sync.Mutex
	histories map[string][]llm.ChatMessage
}

// New creates an agent. A nil client makes every turn answer with a fixed
// offline message.
func New(client llm.Client, lookup catalog.Lookup, booker Booker, cfg Config, log *logger.Logger) *Agent {
	if cfg.MaxToolRounds <= 0 {
		cfg.MaxToolRounds = 5
	}
	if cfg.MaxHistory <= 0 {
		cfg.MaxHistory = 60
	}
	return &Agent{
		client:    client,
		catalog:   lookup,
		booker:    booker,
		tools:     toolDefinitions(),
		cfg:       cfg,
		logger:    log.Named("agent"),
		histories: make(map[string][]llm.ChatMessage),
	}
}

// SubmitTurn sends one user turn and returns the assistant's reply
// fragments. Turns of the same conversation must not overlap.
func (a *Agent) SubmitTurn(ctx context.Context, conversationID, text string) ([]string, error) {
	if a.client == nil {
		return []string{offlineReply}, nil
	}

	ctx, span := otel.Tracer("Agent").Start(ctx, "SubmitTurn")
	defer span.End()
	span.SetAttributes(
		attribute.String("conversation.id", conversationID),
		attribute.String("llm.provider", a.client.Name()),
	)

	msgs := append(a.history(conversationID), llm.ChatMessage{Role: llm.RoleUser, Content: text})

	for round := 0; ; round++ {
		req := &llm.CompletionRequest{
			Model:       a.cfg.Model,
			Messages:    append([]llm.ChatMessage{{Role: llm.RoleSystem, Content: systemPrompt}}, msgs...),
			Temperature: a.cfg.Temperature,
		}
		// The last round withholds tools so the model has to answer.
		if a.client.SupportsTools() && round < a.cfg.MaxToolRounds {
			req.Tools = a.tools
		}

		resp, err := a.client.Complete(ctx, req)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "completion failed")
			return nil, fmt.Errorf("completion failed: %w", err)
		}

		a.logger.Debug("completion",
			zap.String("conversation_id", conversationID),
			zap.Int("round", round),
			zap.Int("tool_calls", len(resp.ToolCalls)),
			zap.Int("tokens_in", resp.TokensIn),
			zap.Int("tokens_out", resp.TokensOut),
			zap.Int64("latency_ms", resp.LatencyMs),
		)

		if len(resp.ToolCalls) == 0 || req.Tools == nil {
			msgs = append(msgs, llm.ChatMessage{Role: llm.RoleAssistant, Content: resp.Content})
			a.store(conversationID, msgs)
			span.SetAttributes(attribute.Int("agent.rounds", round+1))

			if reply := strings.TrimSpace(resp.Content); reply != "" {
				return []string{reply}, nil
			}
			return nil, nil
		}

		msgs = append(msgs, llm.ChatMessage{
			Role:      llm.RoleAssistant,
			Content:   resp.Content,
			ToolCalls: resp.ToolCalls,
		})
		for _, call := range resp.ToolCalls {
			a.logger.Info("tool call",
				zap.String("conversation_id", conversationID),
				zap.String("tool", call.Name),
			)
			msgs = append(msgs, llm.ChatMessage{
				Role:       llm.RoleTool,
				ToolCallID: call.ID,
				Content:    a.runTool(ctx, conversationID, call),
			})
		}
	}
}

func (a *Agent) history(conversationID string) []llm.ChatMessage {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]llm.ChatMessage(nil), a.histories[conversationID]...)
}

func (a *Agent) store(conversationID string, msgs []llm.ChatMessage) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.histories[conversationID] = trimHistory(msgs, a.cfg.MaxHistory)
}

// trimHistory keeps at most limit messages, cutting at a user message so tool
// results never lose the assistant call they answer.
func trimHistory(msgs []llm.ChatMessage, limit int) []llm.ChatMessage {
	if len(msgs) <= limit {
		return msgs
	}
	for i := len(msgs) - limit; i < len(msgs); i++ {
		if msgs[i].Role == llm.RoleUser {
			return append([]llm.ChatMessage(nil), msgs[i:]...)
		}
	}
	return nil
}
