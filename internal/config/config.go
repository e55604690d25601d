// Package config provides environment configuration for the API server and the reply poller.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	AppName   string `mapstructure:"APP_NAME"`
	Env       string `mapstructure:"ENV"`
	APIPrefix string `mapstructure:"API_PREFIX"`

	// Server settings
	ServerPort         string        `mapstructure:"PORT"`
	ServerReadTimeout  time.Duration `mapstructure:"SERVER_READ_TIMEOUT"`
	ServerWriteTimeout time.Duration `mapstructure:"SERVER_WRITE_TIMEOUT"`

	// CORS
	FrontendOrigins []string `mapstructure:"FRONTEND_ORIGINS"`

	// Rate limiting
	RateLimitRequests int           `mapstructure:"RATE_LIMIT_REQUESTS"`
	RateLimitWindow   time.Duration `mapstructure:"RATE_LIMIT_WINDOW"`

	// LLM / agent settings
	LLMProvider     string        `mapstructure:"LLM_PROVIDER"`
	LLMModel        string        `mapstructure:"LLM_MODEL"`
	OpenAIAPIKey    string        `mapstructure:"OPENAI_API_KEY"`
	AnthropicAPIKey string        `mapstructure:"ANTHROPIC_API_KEY"`
	AgentTimeout    time.Duration `mapstructure:"AGENT_TIMEOUT"`
	DebounceWindow  time.Duration `mapstructure:"DEBOUNCE_WINDOW"`

	// Outbound mail
	SMTPHost      string `mapstructure:"SMTP_HOST"`
	SMTPPort      int    `mapstructure:"SMTP_PORT"`
	SMTPUsername  string `mapstructure:"SMTP_USERNAME"`
	SMTPPassword  string `mapstructure:"SMTP_PASSWORD"`
	SMTPFromEmail string `mapstructure:"SMTP_FROM_EMAIL"`

	SupervisorEmail string `mapstructure:"SUPERVISOR_EMAIL"`

	// Inbound mailbox
	IMAPHost        string        `mapstructure:"SUPERVISOR_IMAP_HOST"`
	IMAPPort        int           `mapstructure:"SUPERVISOR_IMAP_PORT"`
	IMAPEmail       string        `mapstructure:"SUPERVISOR_IMAP_EMAIL"`
	IMAPAppPassword string        `mapstructure:"SUPERVISOR_IMAP_APP_PASSWORD"`
	PollInterval    time.Duration `mapstructure:"IMAP_POLL_INTERVAL"`

	BackendBaseURL        string `mapstructure:"BACKEND_BASE_URL"`
	SubjectTag            string `mapstructure:"ESCALATION_SUBJECT_TAG"`
	DefaultConversationID string `mapstructure:"DEFAULT_CONVERSATION_ID"`

	// NATS settings (empty URL disables event publishing)
	NATSURL   string `mapstructure:"NATS_URL"`
	NATSToken string `mapstructure:"NATS_TOKEN"`

	// Logging
	LogLevel string `mapstructure:"LOG_LEVEL"`

	// Tracing
	TracingEndpoint string `mapstructure:"TRACING_ENDPOINT"`
	TracingEnabled  bool   `mapstructure:"TRACING_ENABLED"`
}

var defaults = map[string]any{
	"APP_NAME":   "dubai-travel-assistant",
	"ENV":        "production",
	"API_PREFIX": "/api",

	"PORT":                 "8080",
	"SERVER_READ_TIMEOUT":  30 * time.Second,
	"SERVER_WRITE_TIMEOUT": 120 * time.Second,

	"FRONTEND_ORIGINS": []string{},

	"RATE_LIMIT_REQUESTS": 120,
	"RATE_LIMIT_WINDOW":   time.Minute,

	"LLM_PROVIDER":      "openai",
	"LLM_MODEL":         "",
	"OPENAI_API_KEY":    "",
	"ANTHROPIC_API_KEY": "",
	"AGENT_TIMEOUT":     90 * time.Second,
	"DEBOUNCE_WINDOW":   400 * time.Millisecond,

	"SMTP_HOST":       "",
	"SMTP_PORT":       0,
	"SMTP_USERNAME":   "",
	"SMTP_PASSWORD":   "",
	"SMTP_FROM_EMAIL": "",

	"SUPERVISOR_EMAIL": "",

	"SUPERVISOR_IMAP_HOST":         "imap.gmail.com",
	"SUPERVISOR_IMAP_PORT":         993,
	"SUPERVISOR_IMAP_EMAIL":        "",
	"SUPERVISOR_IMAP_APP_PASSWORD": "",
	"IMAP_POLL_INTERVAL":           15 * time.Second,

	"BACKEND_BASE_URL":        "http://127.0.0.1:8080",
	"ESCALATION_SUBJECT_TAG":  "[Dubai Travel Assistant]",
	"DEFAULT_CONVERSATION_ID": "demo-conversation",

	"NATS_URL":   "",
	"NATS_TOKEN": "",

	"LOG_LEVEL": "info",

	"TRACING_ENDPOINT": "localhost:4318",
	"TRACING_ENABLED":  false,
}

// Load reads configuration from an optional .env file, an optional
// config.yaml and environment variables, in increasing precedence.
func Load() (*Config, error) {
	// .env is optional; real environment variables win over it.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AutomaticEnv()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	cfg.FrontendOrigins = splitList(cfg.FrontendOrigins)
	cfg.APIPrefix = "/" + strings.Trim(cfg.APIPrefix, "/")

	return cfg, nil
}

// SMTPConfigured reports whether outbound mail has host, port and sender.
func (c *Config) SMTPConfigured() bool {
	return c.SMTPHost != "" && c.SMTPPort != 0 && c.SMTPFromEmail != ""
}

// IMAPConfigured reports whether the supervisor mailbox credentials are set.
func (c *Config) IMAPConfigured() bool {
	return c.IMAPEmail != "" && c.IMAPAppPassword != ""
}

// splitList normalizes list values that arrive either already split or as
// a single comma separated string.
func splitList(values []string) []string {
	var out []string
	for _, value := range values {
		for _, item := range strings.Split(value, ",") {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
	}
	return out
}
