package nats

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/capitalize-ai/travel-assistant/internal/model"
)

type fakeJetStream struct {
	subject string
	data    []byte
	err     error
}

func (f *fakeJetStream) Publish(ctx context.Context, subject string, data []byte, opts ...jetstream.PublishOpt) (*jetstream.PubAck, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.subject = subject
	f.data = data
	return &jetstream.PubAck{Stream: StreamName, Sequence: 1}, nil
}

func TestPublishUsesTypedSubject(t *testing.T) {
	js := &fakeJetStream{}
	p := NewEventPublisher(js)

	err := p.Publish(context.Background(), &model.BookingEvent{
		ID:           "evt-1",
		Type:         model.EventEscalationOpened,
		BookingID:    "b1",
		EscalationID: "e1",
	})
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}

	if js.subject != "bookings.escalation.opened" {
		t.Fatalf("subject = %q", js.subject)
	}

	var got model.BookingEvent
	if err := json.Unmarshal(js.data, &got); err != nil {
		t.Fatalf("payload: %v", err)
	}
	if got.EscalationID != "e1" {
		t.Fatalf("escalation id = %q", got.EscalationID)
	}
}

func TestPublishWrapsError(t *testing.T) {
	cause := errors.New("no responders")
	p := NewEventPublisher(&fakeJetStream{err: cause})

	err := p.Publish(context.Background(), &model.BookingEvent{ID: "x", Type: model.EventBookingConfirmed})
	if !errors.Is(err, cause) {
		t.Fatalf("err = %v, want wrapped %v", err, cause)
	}
}
