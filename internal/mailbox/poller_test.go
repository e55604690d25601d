package mailbox

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/capitalize-ai/travel-assistant/internal/model"
	"github.com/capitalize-ai/travel-assistant/pkg/logger"
)

// fakeMailbox is an in-memory mailbox whose sessions honour the \Seen flag.
type fakeMailbox struct {
	mu       sync.Mutex
	messages map[uint32][]byte
	seen     map[uint32]bool
	marks    map[uint32]int
	fetchErr map[uint32]error
	dialErr  error
	closed   int
}

func newFakeMailbox() *fakeMailbox {
	return &fakeMailbox{
		messages: make(map[uint32][]byte),
		seen:     make(map[uint32]bool),
		marks:    make(map[uint32]int),
		fetchErr: make(map[uint32]error),
	}
}

func (m *fakeMailbox) add(uid uint32, raw []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages[uid] = raw
}

func (m *fakeMailbox) Dial(context.Context) (Session, error) {
	if m.dialErr != nil {
		return nil, m.dialErr
	}
	return m, nil
}

func (m *fakeMailbox) SearchUnread(context.Context) ([]uint32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var uids []uint32
	for uid := range m.messages {
		if !m.seen[uid] {
			uids = append(uids, uid)
		}
	}
	return uids, nil
}

func (m *fakeMailbox) Fetch(_ context.Context, uid uint32) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fetchErr[uid]; err != nil {
		return nil, err
	}
	return m.messages[uid], nil
}

func (m *fakeMailbox) MarkRead(_ context.Context, uid uint32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seen[uid] = true
	m.marks[uid]++
	return nil
}

func (m *fakeMailbox) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed++
	return nil
}

type forwarded struct {
	conversationID string
	reply          model.SupervisorReplyRequest
}

type spyForwarder struct {
	calls []forwarded
	err   error
}

func (f *spyForwarder) Forward(_ context.Context, conversationID string, reply *model.SupervisorReplyRequest) error {
	f.calls = append(f.calls, forwarded{conversationID, *reply})
	return f.err
}

func supervisorMail(id, from, subject, body string) []byte {
	return rawMessage(map[string]string{
		"Message-ID":   "<" + id + "@mail.example.com>",
		"From":         from,
		"Subject":      subject,
		"Content-Type": "text/plain; charset=utf-8",
	}, body)
}

func newTestPoller(mb *fakeMailbox, fw Forwarder) *Poller {
	return NewPoller(mb, fw, Config{
		SupervisorEmail:       "Boss@Example.com",
		DefaultConversationID: "demo-conversation",
	}, logger.NewNop())
}

func TestRunOnceForwardsSupervisorReply(t *testing.T) {
	mb := newFakeMailbox()
	mb.add(7, supervisorMail("m7", "The Boss <boss@example.com>",
		"Re: [Dubai Travel Assistant] Escalation for booking b1 conversation_id=conv-1 escalation_id=e-1",
		"Approved, go ahead.\nOn Mon, supervisor wrote:\n> original text\n"))
	fw := &spyForwarder{}

	report, err := newTestPoller(mb, fw).RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if report.Unread != 1 || report.Count(OutcomeForwarded) != 1 {
		t.Fatalf("report = %+v", report)
	}
	if len(fw.calls) != 1 {
		t.Fatalf("forwards = %d, want 1", len(fw.calls))
	}
	got := fw.calls[0]
	if got.conversationID != "conv-1" || got.reply.EscalationID != "e-1" || got.reply.Message != "Approved, go ahead." {
		t.Errorf("forwarded = %+v", got)
	}
	if mb.marks[7] != 1 {
		t.Errorf("mark read calls = %d, want 1", mb.marks[7])
	}
	if mb.closed != 1 {
		t.Errorf("session closed %d times, want 1", mb.closed)
	}
}

func TestRunOnceDefaultConversation(t *testing.T) {
	mb := newFakeMailbox()
	mb.add(1, supervisorMail("m1", "boss@example.com", "Re: quick question", "APPROVE"))
	fw := &spyForwarder{}

	if _, err := newTestPoller(mb, fw).RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if len(fw.calls) != 1 || fw.calls[0].conversationID != "demo-conversation" || fw.calls[0].reply.EscalationID != "" {
		t.Errorf("forwards = %+v", fw.calls)
	}
}

func TestRunOnceRejectsSpoofedSender(t *testing.T) {
	mb := newFakeMailbox()
	mb.add(1, supervisorMail("m1", `"boss@example.com" <attacker@evil.example>`, "Re: conversation_id=conv-1", "APPROVE"))
	mb.add(2, supervisorMail("m2", "Boss <boss@example.com.evil.example>", "Re: conversation_id=conv-1", "APPROVE"))
	fw := &spyForwarder{}

	report, err := newTestPoller(mb, fw).RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if len(fw.calls) != 0 {
		t.Fatalf("spoofed mail forwarded: %+v", fw.calls)
	}
	if report.Count(OutcomeNotSupervisor) != 2 {
		t.Errorf("report = %+v", report)
	}
	if mb.marks[1] != 1 || mb.marks[2] != 1 {
		t.Errorf("marks = %v, want each message marked once", mb.marks)
	}
}

func TestRunOnceSkipsEmptyBody(t *testing.T) {
	mb := newFakeMailbox()
	mb.add(1, supervisorMail("m1", "boss@example.com", "Re: x", "  \n\n"))
	fw := &spyForwarder{}

	report, _ := newTestPoller(mb, fw).RunOnce(context.Background())
	if len(fw.calls) != 0 || report.Count(OutcomeEmptyBody) != 1 || mb.marks[1] != 1 {
		t.Errorf("report = %+v forwards = %d marks = %v", report, len(fw.calls), mb.marks)
	}
}

func TestRunOnceMarksReadOncePerCycle(t *testing.T) {
	mb := newFakeMailbox()
	mb.add(1, supervisorMail("m1", "boss@example.com", "Re: a", "APPROVE"))
	mb.add(2, supervisorMail("m2", "stranger@example.com", "hello", "hi"))
	mb.add(3, supervisorMail("m3", "boss@example.com", "Re: c", "REJECT"))
	fw := &spyForwarder{err: errors.New("api down")}
	p := newTestPoller(mb, fw)

	report, err := p.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if report.Count(OutcomeForwardFailed) != 2 {
		t.Errorf("report = %+v", report)
	}
	for uid := uint32(1); uid <= 3; uid++ {
		if mb.marks[uid] != 1 {
			t.Errorf("uid %d marked %d times, want 1", uid, mb.marks[uid])
		}
	}

	// A second cycle over the same mailbox state reprocesses nothing.
	report, _ = p.RunOnce(context.Background())
	if report.Unread != 0 || len(fw.calls) != 2 {
		t.Errorf("second cycle report = %+v forwards = %d", report, len(fw.calls))
	}
}

func TestRunOnceProcessesOldestFirst(t *testing.T) {
	mb := newFakeMailbox()
	mb.add(30, supervisorMail("m30", "boss@example.com", "Re: conversation_id=c", "third"))
	mb.add(10, supervisorMail("m10", "boss@example.com", "Re: conversation_id=c", "first"))
	mb.add(20, supervisorMail("m20", "boss@example.com", "Re: conversation_id=c", "second"))
	fw := &spyForwarder{}

	if _, err := newTestPoller(mb, fw).RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	want := []string{"first", "second", "third"}
	if len(fw.calls) != len(want) {
		t.Fatalf("forwards = %+v", fw.calls)
	}
	for i := range want {
		if fw.calls[i].reply.Message != want[i] {
			t.Errorf("forward %d = %q, want %q", i, fw.calls[i].reply.Message, want[i])
		}
	}
}

func TestRunOnceDeduplicatesMessageID(t *testing.T) {
	mb := newFakeMailbox()
	mb.add(1, supervisorMail("same", "boss@example.com", "Re: a", "APPROVE"))
	fw := &spyForwarder{}
	p := newTestPoller(mb, fw)

	_, _ = p.RunOnce(context.Background())

	// The same message shows up unread again, e.g. after a failed mark.
	mb.mu.Lock()
	mb.seen[1] = false
	mb.mu.Unlock()

	report, _ := p.RunOnce(context.Background())
	if len(fw.calls) != 1 || report.Count(OutcomeDuplicate) != 1 {
		t.Errorf("forwards = %d report = %+v", len(fw.calls), report)
	}
}

func TestRunOnceFetchFailureLeavesUnread(t *testing.T) {
	mb := newFakeMailbox()
	mb.add(1, supervisorMail("m1", "boss@example.com", "Re: a", "APPROVE"))
	mb.add(2, supervisorMail("m2", "boss@example.com", "Re: b", "REJECT"))
	mb.fetchErr[1] = errors.New("connection reset")
	fw := &spyForwarder{}

	report, err := newTestPoller(mb, fw).RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if report.Count(OutcomeFetchFailed) != 1 || report.Count(OutcomeForwarded) != 1 {
		t.Errorf("report = %+v", report)
	}
	if mb.marks[1] != 0 || mb.marks[2] != 1 {
		t.Errorf("marks = %v", mb.marks)
	}
}

func TestRunOnceDialFailure(t *testing.T) {
	mb := newFakeMailbox()
	mb.dialErr = errors.New("authentication failed")
	p := newTestPoller(mb, &spyForwarder{})

	if _, err := p.RunOnce(context.Background()); err == nil {
		t.Fatal("expected dial error")
	}
	// cycle absorbs the failure.
	p.cycle(context.Background())
}
