package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/capitalize-ai/travel-assistant/internal/catalog"
	"github.com/capitalize-ai/travel-assistant/internal/model"
	"github.com/capitalize-ai/travel-assistant/internal/notify"
	"github.com/capitalize-ai/travel-assistant/internal/service"
	"github.com/capitalize-ai/travel-assistant/internal/store"
	"github.com/capitalize-ai/travel-assistant/pkg/logger"
)

type echoTurner struct {
	mu    sync.Mutex
	turns []string
}

func (e *echoTurner) SubmitTurn(_ context.Context, _ string, text string) ([]string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.turns = append(e.turns, text)
	return []string{"You said:", text}, nil
}

type nopTransport struct{}

func (nopTransport) Configured() bool { return false }

func (nopTransport) Send(context.Context, notify.Notification) error { return nil }

type fakePinger struct{ up bool }

func (p fakePinger) IsConnected() bool { return p.up }

type testAPI struct {
	srv  *httptest.Server
	conv *service.ConversationService
	turn *echoTurner
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	log := logger.NewNop()
	lookup := catalog.NewSeeded()
	bookings := store.NewMemoryBookings()
	escalations := store.NewMemoryEscalations()

	turner := &echoTurner{}
	conv := service.NewConversationService(store.NewMemoryTranscripts(), turner, service.ConversationConfig{
		Debounce:    200 * time.Millisecond,
		TurnTimeout: time.Second,
	}, log)
	dispatcher := notify.NewDispatcher(nopTransport{}, "boss@example.com", log)
	bookingSvc := service.NewBookingService(lookup, bookings, escalations, dispatcher, nil, service.BookingConfig{
		SupervisorEmail: "boss@example.com",
		SubjectTag:      "[Dubai Travel Assistant]",
	}, log)
	escalationSvc := service.NewEscalationService(bookings, escalations, conv.Append, nil, log)

	router := NewRouter(RouterConfig{APIPrefix: "/api"}, Handlers{
		Health:      NewHealthHandler(nil),
		Chat:        NewChatHandler(conv, log),
		Activities:  NewActivityHandler(lookup),
		Bookings:    NewBookingHandler(bookingSvc, log),
		Escalations: NewEscalationHandler(escalationSvc, log),
	}, log)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return &testAPI{srv: srv, conv: conv, turn: turner}
}

func (a *testAPI) do(t *testing.T, method, path, body string, out any) int {
	t.Helper()
	req, err := http.NewRequest(method, a.srv.URL+path, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s %s: %v", method, path, err)
		}
	}
	return resp.StatusCode
}

func TestHealthAndReady(t *testing.T) {
	api := newTestAPI(t)

	var body map[string]string
	if code := api.do(t, http.MethodGet, "/health", "", &body); code != http.StatusOK || body["status"] != "ok" {
		t.Errorf("health = %d %v", code, body)
	}
	if code := api.do(t, http.MethodGet, "/ready", "", nil); code != http.StatusOK {
		t.Errorf("ready without NATS = %d, want 200", code)
	}

	h := NewHealthHandler(fakePinger{up: false})
	rec := httptest.NewRecorder()
	h.Ready(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("ready with NATS down = %d, want 503", rec.Code)
	}
}

func TestActivities(t *testing.T) {
	api := newTestAPI(t)

	var all []model.Activity
	if code := api.do(t, http.MethodGet, "/api/activities", "", &all); code != http.StatusOK || len(all) != 10 {
		t.Fatalf("list = %d, %d activities", code, len(all))
	}

	var found []model.Activity
	api.do(t, http.MethodGet, "/api/activities?q=CRUISE", "", &found)
	if len(found) != 1 || found[0].ID != "dubai-marina-cruise" {
		t.Errorf("search = %+v", found)
	}

	var one model.Activity
	if code := api.do(t, http.MethodGet, "/api/activities/dubai-frame", "", &one); code != http.StatusOK || one.ID != "dubai-frame" {
		t.Errorf("get = %d %+v", code, one)
	}
	if code := api.do(t, http.MethodGet, "/api/activities/nope", "", nil); code != http.StatusNotFound {
		t.Errorf("get unknown = %d, want 404", code)
	}
}

func TestChatRoundTrip(t *testing.T) {
	api := newTestAPI(t)

	var posted model.ChatMessage
	if code := api.do(t, http.MethodPost, "/api/chat/conv-1", `{"text":"Hello"}`, &posted); code != http.StatusOK {
		t.Fatalf("post = %d", code)
	}
	if posted.Role != model.RoleUser || posted.Text != "Hello" || posted.ConversationID != "conv-1" {
		t.Errorf("posted = %+v", posted)
	}
	api.do(t, http.MethodPost, "/api/chat/conv-1", `{"text":"there"}`, nil)
	api.conv.Wait()

	var list model.ListChatMessagesResponse
	api.do(t, http.MethodGet, "/api/chat/conv-1", "", &list)
	if len(list.Messages) != 3 {
		t.Fatalf("messages = %+v", list.Messages)
	}
	if last := list.Messages[2]; last.Role != model.RoleAssistant || last.Text != "You said: Hello\nthere" {
		t.Errorf("assistant = %+v", last)
	}
}

func TestChatValidation(t *testing.T) {
	api := newTestAPI(t)

	if code := api.do(t, http.MethodPost, "/api/chat/conv-1", `{"text":""}`, nil); code != http.StatusBadRequest {
		t.Errorf("empty text = %d, want 400", code)
	}
	if code := api.do(t, http.MethodPost, "/api/chat/conv-1", `not json`, nil); code != http.StatusBadRequest {
		t.Errorf("bad json = %d, want 400", code)
	}
	if code := api.do(t, http.MethodGet, "/api/chat/bad%20id", "", nil); code != http.StatusBadRequest {
		t.Errorf("bad id = %d, want 400", code)
	}

	var list model.ListChatMessagesResponse
	api.do(t, http.MethodGet, "/api/chat/empty", "", &list)
	if list.Messages == nil || len(list.Messages) != 0 {
		t.Errorf("empty transcript = %+v", list)
	}
}

func TestBookingEscalationFlow(t *testing.T) {
	api := newTestAPI(t)

	var outcome model.BookingOutcome
	code := api.do(t, http.MethodPost, "/api/bookings", `{
		"activity_id": "desert-safari",
		"variation_id": "safari-private-4x4",
		"customer_name": "Omar",
		"customer_email": "omar@example.com",
		"group_size": 9,
		"date": "2026-11-02",
		"conversation_id": "conv-7"
	}`, &outcome)
	if code != http.StatusAccepted || outcome.Status != model.BookingPendingSupervisor || outcome.EscalationID == "" {
		t.Fatalf("book = %d %+v", code, outcome)
	}

	var esc struct {
		Escalation model.Escalation      `json:"escalation"`
		State      model.EscalationState `json:"state"`
	}
	api.do(t, http.MethodGet, "/api/escalations/by-id/"+outcome.EscalationID, "", &esc)
	if esc.State != model.EscalationOpen || esc.Escalation.BookingID != outcome.Booking.ID {
		t.Fatalf("escalation = %+v", esc)
	}

	var reply model.SupervisorReplyResponse
	code = api.do(t, http.MethodPost, "/api/escalations/conv-7/supervisor-reply", `{"message":"Approved, see you there."}`, &reply)
	if code != http.StatusOK || reply.Status != "ok" || reply.BookingStatus != model.BookingConfirmed {
		t.Fatalf("reply = %d %+v", code, reply)
	}

	var booking model.Booking
	api.do(t, http.MethodGet, "/api/bookings/"+outcome.Booking.ID, "", &booking)
	if booking.Status != model.BookingConfirmed {
		t.Errorf("booking status = %s", booking.Status)
	}

	var list model.ListChatMessagesResponse
	api.do(t, http.MethodGet, "/api/chat/conv-7", "", &list)
	if len(list.Messages) != 1 || list.Messages[0].Role != model.RoleSupervisor {
		t.Errorf("transcript = %+v", list.Messages)
	}
}

func TestBookingConfirmedAndNotFound(t *testing.T) {
	api := newTestAPI(t)

	var outcome model.BookingOutcome
	code := api.do(t, http.MethodPost, "/api/bookings", `{"activity_id":"dubai-frame","variation_id":"frame-standard","customer_name":"Amira","group_size":2}`, &outcome)
	if code != http.StatusCreated || outcome.Status != model.BookingConfirmed {
		t.Errorf("book = %d %+v", code, outcome)
	}

	code = api.do(t, http.MethodPost, "/api/bookings", `{"activity_id":"dubai-frame","variation_id":"vip","customer_name":"Amira","group_size":2}`, nil)
	if code != http.StatusNotFound {
		t.Errorf("unknown variation = %d, want 404", code)
	}
	if code := api.do(t, http.MethodPost, "/api/bookings", `{"activity_id":"dubai-frame"}`, nil); code != http.StatusBadRequest {
		t.Errorf("missing fields = %d, want 400", code)
	}
	if code := api.do(t, http.MethodGet, "/api/bookings/missing", "", nil); code != http.StatusNotFound {
		t.Errorf("missing booking = %d, want 404", code)
	}
	if code := api.do(t, http.MethodGet, "/api/escalations/by-id/missing", "", nil); code != http.StatusNotFound {
		t.Errorf("missing escalation = %d, want 404", code)
	}
}

func TestSupervisorReplyIgnoresEmpty(t *testing.T) {
	api := newTestAPI(t)

	var reply model.SupervisorReplyResponse
	api.do(t, http.MethodPost, "/api/escalations/demo-conversation/supervisor-reply", `{"message":"   "}`, &reply)
	if reply.Status != "ignored" || reply.Reason != "empty message" {
		t.Errorf("reply = %+v", reply)
	}
}
