package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.ServerPort != "8080" {
		t.Errorf("ServerPort = %q, want 8080", cfg.ServerPort)
	}
	if cfg.APIPrefix != "/api" {
		t.Errorf("APIPrefix = %q, want /api", cfg.APIPrefix)
	}
	if cfg.PollInterval != 15*time.Second {
		t.Errorf("PollInterval = %v, want 15s", cfg.PollInterval)
	}
	if cfg.DebounceWindow != 400*time.Millisecond {
		t.Errorf("DebounceWindow = %v, want 400ms", cfg.DebounceWindow)
	}
	if cfg.SubjectTag != "[Dubai Travel Assistant]" {
		t.Errorf("SubjectTag = %q", cfg.SubjectTag)
	}
	if cfg.DefaultConversationID != "demo-conversation" {
		t.Errorf("DefaultConversationID = %q", cfg.DefaultConversationID)
	}
	if cfg.SMTPConfigured() {
		t.Error("SMTPConfigured() = true with no SMTP settings")
	}
	if len(cfg.FrontendOrigins) != 0 {
		t.Errorf("FrontendOrigins = %v, want empty", cfg.FrontendOrigins)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("API_PREFIX", "v2/")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_PORT", "587")
	t.Setenv("SMTP_FROM_EMAIL", "bot@example.com")
	t.Setenv("SUPERVISOR_EMAIL", "boss@example.com")
	t.Setenv("IMAP_POLL_INTERVAL", "2m")
	t.Setenv("FRONTEND_ORIGINS", "http://localhost:5173, https://app.example.com")
	t.Setenv("TRACING_ENABLED", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.ServerPort != "9090" {
		t.Errorf("ServerPort = %q, want 9090", cfg.ServerPort)
	}
	if cfg.APIPrefix != "/v2" {
		t.Errorf("APIPrefix = %q, want /v2", cfg.APIPrefix)
	}
	if cfg.SMTPPort != 587 {
		t.Errorf("SMTPPort = %d, want 587", cfg.SMTPPort)
	}
	if !cfg.SMTPConfigured() {
		t.Error("SMTPConfigured() = false with host, port and sender set")
	}
	if cfg.SupervisorEmail != "boss@example.com" {
		t.Errorf("SupervisorEmail = %q", cfg.SupervisorEmail)
	}
	if cfg.PollInterval != 2*time.Minute {
		t.Errorf("PollInterval = %v, want 2m", cfg.PollInterval)
	}
	if !cfg.TracingEnabled {
		t.Error("TracingEnabled = false, want true")
	}

	want := []string{"http://localhost:5173", "https://app.example.com"}
	if len(cfg.FrontendOrigins) != len(want) {
		t.Fatalf("FrontendOrigins = %v, want %v", cfg.FrontendOrigins, want)
	}
	for i := range want {
		if cfg.FrontendOrigins[i] != want[i] {
			t.Errorf("FrontendOrigins[%d] = %q, want %q", i, cfg.FrontendOrigins[i], want[i])
		}
	}
}
