// Package notify delivers best-effort supervisor notifications.
package notify

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/capitalize-ai/travel-assistant/pkg/logger"
	"github.com/capitalize-ai/travel-assistant/pkg/metrics"
)

// Fallback names why a notification was logged instead of sent.
type Fallback string

const (
	FallbackNone                  Fallback = ""
	FallbackNoRecipient           Fallback = "no_recipient"
	FallbackTransportUnconfigured Fallback = "transport_unconfigured"
)

// Notification is one outbound message to a supervisor.
type Notification struct {
	Subject string
	Body    string
	To      string
}

// Result is the typed outcome of a dispatch. A Result never aborts the caller.
type Result struct {
	Delivered bool
	Fallback  Fallback
	Err       error
}

// Outcome is a short label for logs and metrics.
func (r Result) Outcome() string {
	switch {
	case r.Delivered:
		return "delivered"
	case r.Err != nil:
		return "failed"
	case r.Fallback != FallbackNone:
		return "fallback_" + string(r.Fallback)
	default:
		return "unknown"
	}
}

// Transport sends a notification over some channel.
type Transport interface {
	// Configured reports whether the transport has everything it needs to send.
	Configured() bool
	Send(ctx context.Context, n Notification) error
}

// Dispatcher applies the fallback policy in front of a Transport.
type Dispatcher struct {
	transport Transport
	defaultTo string
	logger    *logger.Logger
}

// NewDispatcher creates a dispatcher. transport may be nil; defaultTo is used
// when a notification carries no recipient.
func NewDispatcher(transport Transport, defaultTo string, log *logger.Logger) *Dispatcher {
	return &Dispatcher{
		transport: transport,
		defaultTo: defaultTo,
		logger:    log.Named("notify"),
	}
}

// Notify sends n or logs it. Transport failures are reported in the Result
// and never returned as an error.
func (d *Dispatcher) Notify(ctx context.Context, n Notification) (res Result) {
	defer func() {
		metrics.NotificationsTotal.WithLabelValues(res.Outcome()).Inc()
	}()

	if n.To == "" {
		n.To = d.defaultTo
	}

	if n.To == "" {
		d.logFallback(n, FallbackNoRecipient)
		return Result{Fallback: FallbackNoRecipient}
	}

	if d.transport == nil || !d.transport.Configured() {
		d.logFallback(n, FallbackTransportUnconfigured)
		return Result{Fallback: FallbackTransportUnconfigured}
	}

	if err := d.send(ctx, n); err != nil {
		d.logger.Error("failed to send supervisor notification",
			zap.String("to", n.To),
			zap.String("subject", n.Subject),
			zap.Error(err),
		)
		return Result{Err: err}
	}

	d.logger.Info("supervisor notification sent",
		zap.String("to", n.To),
		zap.String("subject", n.Subject),
	)
	return Result{Delivered: true}
}

// send shields the caller from panicking transports.
func (d *Dispatcher) send(ctx context.Context, n Notification) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.New("transport panicked")
			d.logger.Error("notification transport panic", zap.Any("panic", r))
		}
	}()
	return d.transport.Send(ctx, n)
}

func (d *Dispatcher) logFallback(n Notification, reason Fallback) {
	d.logger.Warn("supervisor notification not sent, logging instead",
		zap.String("reason", string(reason)),
		zap.String("to", n.To),
		zap.String("subject", n.Subject),
		zap.String("body", n.Body),
	)
}
