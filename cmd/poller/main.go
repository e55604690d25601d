// Package main is the entry point for the supervisor reply poller.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/capitalize-ai/travel-assistant/internal/config"
	"github.com/capitalize-ai/travel-assistant/internal/mailbox"
	"github.com/capitalize-ai/travel-assistant/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewForEnv(cfg.Env, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	log = log.Named("poller")

	if !cfg.IMAPConfigured() {
		log.Error("SUPERVISOR_IMAP_EMAIL and SUPERVISOR_IMAP_APP_PASSWORD are required")
		os.Exit(1)
	}
	if cfg.SupervisorEmail == "" {
		// Replies are only accepted from this address.
		log.Error("SUPERVISOR_EMAIL is required")
		os.Exit(1)
	}

	dialer := mailbox.NewIMAPDialer(mailbox.IMAPConfig{
		Host:     cfg.IMAPHost,
		Port:     cfg.IMAPPort,
		Username: cfg.IMAPEmail,
		Password: cfg.IMAPAppPassword,
	})
	forwarder := mailbox.NewHTTPForwarder(cfg.BackendBaseURL, cfg.APIPrefix, 0)

	poller := mailbox.NewPoller(dialer, forwarder, mailbox.Config{
		SupervisorEmail:       cfg.SupervisorEmail,
		DefaultConversationID: cfg.DefaultConversationID,
		Interval:              cfg.PollInterval,
	}, log)

	log.Info("polling supervisor mailbox",
		zap.String("host", cfg.IMAPHost),
		zap.String("mailbox", cfg.IMAPEmail),
		zap.String("backend", cfg.BackendBaseURL),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := poller.Run(ctx); err != nil {
		log.Error("poller failed", zap.Error(err))
		os.Exit(1)
	}
}
