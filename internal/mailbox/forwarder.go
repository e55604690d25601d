package mailbox

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/capitalize-ai/travel-assistant/internal/model"
)

// Forwarder delivers a cleaned supervisor reply to a conversation.
type Forwarder interface {
	Forward(ctx context.Context, conversationID string, reply *model.SupervisorReplyRequest) error
}

// HTTPForwarder posts replies to the API's supervisor-reply endpoint.
type HTTPForwarder struct {
	baseURL   string
	apiPrefix string
	client    *http.Client
}

// NewHTTPForwarder creates a forwarder for the API at baseURL.
func NewHTTPForwarder(baseURL, apiPrefix string, timeout time.Duration) *HTTPForwarder {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &HTTPForwarder{
		baseURL:   strings.TrimRight(baseURL, "/"),
		apiPrefix: "/" + strings.Trim(apiPrefix, "/"),
		client:    &http.Client{Timeout: timeout},
	}
}

// Forward posts {"message", "escalation_id"} and fails on any non-2xx status.
func (f *HTTPForwarder) Forward(ctx context.Context, conversationID string, reply *model.SupervisorReplyRequest) error {
	endpoint := fmt.Sprintf("%s%s/escalations/%s/supervisor-reply",
		f.baseURL, f.apiPrefix, url.PathEscape(conversationID))

	payload, err := json.Marshal(reply)
	if err != nil {
		return fmt.Errorf("failed to encode reply: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to post reply: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("supervisor-reply returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
