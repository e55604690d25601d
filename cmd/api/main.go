// Package main is the entry point for the API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/capitalize-ai/travel-assistant/internal/agent"
	"github.com/capitalize-ai/travel-assistant/internal/catalog"
	"github.com/capitalize-ai/travel-assistant/internal/config"
	"github.com/capitalize-ai/travel-assistant/internal/handler"
	"github.com/capitalize-ai/travel-assistant/internal/llm"
	natsclient "github.com/capitalize-ai/travel-assistant/internal/nats"
	"github.com/capitalize-ai/travel-assistant/internal/notify"
	"github.com/capitalize-ai/travel-assistant/internal/service"
	"github.com/capitalize-ai/travel-assistant/internal/store"
	"github.com/capitalize-ai/travel-assistant/pkg/logger"
	"github.com/capitalize-ai/travel-assistant/pkg/tracing"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewForEnv(cfg.Env, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("starting API server", zap.String("env", cfg.Env), zap.String("api_prefix", cfg.APIPrefix))

	// Initialize tracing if enabled
	ctx := context.Background()
	if cfg.TracingEnabled {
		tp, err := tracing.InitTracer(ctx, cfg.AppName, cfg.TracingEndpoint)
		if err != nil {
			log.Warn("failed to initialize tracing", zap.Error(err))
		} else {
			defer tracing.Shutdown(ctx, tp)
		}
	}

	// Connect to NATS when configured; events are dropped otherwise.
	var (
		events service.EventPublisher = service.NopPublisher
		ready  handler.Pinger
	)
	if cfg.NATSURL != "" {
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		natsClient, err := natsclient.Connect(connectCtx, natsclient.Config{
			URL:   cfg.NATSURL,
			Token: cfg.NATSToken,
			Name:  cfg.AppName,
		}, log)
		cancel()
		if err != nil {
			log.Error("failed to connect to NATS", zap.Error(err))
			os.Exit(1)
		}
		defer natsClient.Close()

		if err := natsclient.EnsureStream(ctx, natsClient.JetStream()); err != nil {
			log.Error("failed to ensure stream", zap.Error(err))
			os.Exit(1)
		}
		events = natsclient.NewEventPublisher(natsClient.JetStream())
		ready = natsClient
	} else {
		log.Info("NATS_URL not set, booking events disabled")
	}

	// Catalog and stores
	activities := catalog.NewSeeded()
	log.Info("catalog loaded", zap.Strings("activities", activities.IDs()))

	bookings := store.NewMemoryBookings()
	escalations := store.NewMemoryEscalations()
	transcripts := store.NewMemoryTranscripts()

	// Supervisor notifications
	smtp := notify.NewSMTPTransport(notify.SMTPConfig{
		Host:      cfg.SMTPHost,
		Port:      cfg.SMTPPort,
		Username:  cfg.SMTPUsername,
		Password:  cfg.SMTPPassword,
		FromEmail: cfg.SMTPFromEmail,
	})
	if !cfg.SMTPConfigured() {
		log.Warn("SMTP not configured, supervisor notifications will be logged only")
	}
	dispatcher := notify.NewDispatcher(smtp, cfg.SupervisorEmail, log)

	bookingSvc := service.NewBookingService(activities, bookings, escalations, dispatcher, events, service.BookingConfig{
		SupervisorEmail: cfg.SupervisorEmail,
		SubjectTag:      cfg.SubjectTag,
	}, log)

	// Initialize LLM client
	llmClient := newLLMClient(cfg, log)

	assistant := agent.New(llmClient, activities, bookingSvc, agent.Config{
		Model: cfg.LLMModel,
	}, log)

	conversationSvc := service.NewConversationService(transcripts, assistant, service.ConversationConfig{
		Debounce:    cfg.DebounceWindow,
		TurnTimeout: cfg.AgentTimeout,
	}, log)
	escalationSvc := service.NewEscalationService(bookings, escalations, conversationSvc.Append, events, log)

	// Initialize handlers
	router := handler.NewRouter(handler.RouterConfig{
		APIPrefix:         cfg.APIPrefix,
		FrontendOrigins:   cfg.FrontendOrigins,
		RateLimitRequests: cfg.RateLimitRequests,
		RateLimitWindow:   cfg.RateLimitWindow,
	}, handler.Handlers{
		Health:      handler.NewHealthHandler(ready),
		Chat:        handler.NewChatHandler(conversationSvc, log),
		Activities:  handler.NewActivityHandler(activities),
		Bookings:    handler.NewBookingHandler(bookingSvc, log),
		Escalations: handler.NewEscalationHandler(escalationSvc, log),
	}, log)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info("server listening", zap.String("port", cfg.ServerPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", zap.Error(err))
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}
	if err := conversationSvc.Shutdown(shutdownCtx); err != nil {
		log.Warn("agent turns still running at shutdown", zap.Error(err))
	}

	log.Info("server stopped")
}

// newLLMClient builds the configured provider's client, or nil when no key
// is set for it.
func newLLMClient(cfg *config.Config, log *logger.Logger) llm.Client {
	provider := llm.Provider(cfg.LLMProvider)
	var key string
	switch provider {
	case llm.ProviderAnthropic:
		key = cfg.AnthropicAPIKey
	case llm.ProviderOpenAI:
		key = cfg.OpenAIAPIKey
	}
	if key == "" {
		log.Warn("no API key for LLM provider, assistant runs offline", zap.String("provider", cfg.LLMProvider))
		return nil
	}

	client, err := llm.NewClient(provider, key)
	if err != nil {
		log.Warn("failed to create LLM client, assistant runs offline", zap.String("provider", cfg.LLMProvider), zap.Error(err))
		return nil
	}
	if !client.SupportsTools() {
		log.Warn("LLM provider has no tool support, bookings through chat are disabled", zap.String("provider", client.Name()))
	}
	return client
}
