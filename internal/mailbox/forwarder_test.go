package mailbox

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/capitalize-ai/travel-assistant/internal/model"
)

func TestHTTPForwarder(t *testing.T) {
	var gotPath string
	var gotBody model.SupervisorReplyRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer srv.Close()

	f := NewHTTPForwarder(srv.URL+"/", "api/", time.Second)
	err := f.Forward(context.Background(), "conv-1", &model.SupervisorReplyRequest{Message: "APPROVE", EscalationID: "e1"})
	if err != nil {
		t.Fatalf("Forward: %v", err)
	}
	if gotPath != "/api/escalations/conv-1/supervisor-reply" {
		t.Errorf("path = %q", gotPath)
	}
	if gotBody.Message != "APPROVE" || gotBody.EscalationID != "e1" {
		t.Errorf("body = %+v", gotBody)
	}
}

func TestHTTPForwarderNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	f := NewHTTPForwarder(srv.URL, "/api", time.Second)
	if err := f.Forward(context.Background(), "c", &model.SupervisorReplyRequest{Message: "x"}); err == nil {
		t.Fatal("expected error for 502")
	}
}
