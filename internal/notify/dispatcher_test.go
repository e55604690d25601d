package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/capitalize-ai/travel-assistant/pkg/logger"
)

type spyTransport struct {
	configured bool
	err        error
	panics     bool
	sent       []Notification
}

func (s *spyTransport) Configured() bool { return s.configured }

func (s *spyTransport) Send(ctx context.Context, n Notification) error {
	if s.panics {
		panic("boom")
	}
	s.sent = append(s.sent, n)
	return s.err
}

func TestNotifyFallbacks(t *testing.T) {
	tests := []struct {
		name         string
		transport    *spyTransport
		defaultTo    string
		to           string
		wantFallback Fallback
		wantSends    int
		wantOutcome  string
	}{
		{
			name:         "no recipient and no transport config",
			transport:    &spyTransport{},
			wantFallback: FallbackNoRecipient,
			wantOutcome:  "fallback_no_recipient",
		},
		{
			name:         "no recipient even with transport",
			transport:    &spyTransport{configured: true},
			wantFallback: FallbackNoRecipient,
			wantOutcome:  "fallback_no_recipient",
		},
		{
			name:         "recipient but transport unconfigured",
			transport:    &spyTransport{},
			to:           "boss@example.com",
			wantFallback: FallbackTransportUnconfigured,
			wantOutcome:  "fallback_transport_unconfigured",
		},
		{
			name:        "default recipient used",
			transport:   &spyTransport{configured: true},
			defaultTo:   "boss@example.com",
			wantSends:   1,
			wantOutcome: "delivered",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDispatcher(tt.transport, tt.defaultTo, logger.NewNop())
			res := d.Notify(context.Background(), Notification{Subject: "s", Body: "b", To: tt.to})

			if res.Fallback != tt.wantFallback {
				t.Errorf("fallback = %q, want %q", res.Fallback, tt.wantFallback)
			}
			if len(tt.transport.sent) != tt.wantSends {
				t.Errorf("sends = %d, want %d", len(tt.transport.sent), tt.wantSends)
			}
			if res.Outcome() != tt.wantOutcome {
				t.Errorf("outcome = %q, want %q", res.Outcome(), tt.wantOutcome)
			}
		})
	}
}

func TestNotifyNilTransport(t *testing.T) {
	d := NewDispatcher(nil, "", logger.NewNop())
	res := d.Notify(context.Background(), Notification{Subject: "s", Body: "b", To: "boss@example.com"})
	if res.Fallback != FallbackTransportUnconfigured || res.Delivered {
		t.Fatalf("result = %+v", res)
	}
}

func TestNotifyAbsorbsTransportFailure(t *testing.T) {
	sendErr := errors.New("connection refused")
	spy := &spyTransport{configured: true, err: sendErr}
	d := NewDispatcher(spy, "", logger.NewNop())

	res := d.Notify(context.Background(), Notification{Subject: "s", Body: "b", To: "boss@example.com"})
	if res.Delivered {
		t.Fatal("Delivered = true for failed send")
	}
	if !errors.Is(res.Err, sendErr) {
		t.Fatalf("Err = %v, want %v", res.Err, sendErr)
	}
	if res.Outcome() != "failed" {
		t.Fatalf("outcome = %q", res.Outcome())
	}
}

func TestNotifyAbsorbsTransportPanic(t *testing.T) {
	d := NewDispatcher(&spyTransport{configured: true, panics: true}, "", logger.NewNop())
	res := d.Notify(context.Background(), Notification{To: "boss@example.com"})
	if res.Err == nil {
		t.Fatal("expected an error result for a panicking transport")
	}
}

func TestSMTPTransportConfigured(t *testing.T) {
	tests := []struct {
		cfg  SMTPConfig
		want bool
	}{
		{SMTPConfig{}, false},
		{SMTPConfig{Host: "smtp.example.com", Port: 587}, false},
		{SMTPConfig{Host: "smtp.example.com", FromEmail: "bot@example.com"}, false},
		{SMTPConfig{Host: "smtp.example.com", Port: 587, FromEmail: "bot@example.com"}, true},
	}
	for _, tt := range tests {
		if got := NewSMTPTransport(tt.cfg).Configured(); got != tt.want {
			t.Errorf("Configured(%+v) = %v, want %v", tt.cfg, got, tt.want)
		}
	}
}
