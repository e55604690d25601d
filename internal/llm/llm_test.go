package llm

import (
	"testing"

	"github.com/sashabaranov/go-openai"
)

func TestToOpenAIMessagesCarriesToolTraffic(t *testing.T) {
	msgs := toOpenAIMessages([]ChatMessage{
		{Role: RoleSystem, Content: "be helpful"},
		{Role: RoleUser, Content: "any desert trips?"},
		{Role: RoleAssistant, ToolCalls: []ToolCall{{ID: "call_1", Name: "search_activities", Arguments: `{"query":"desert"}`}}},
		{Role: RoleTool, ToolCallID: "call_1", Content: `{"status":"success"}`},
	})

	if len(msgs) != 4 {
		t.Fatalf("len = %d, want 4", len(msgs))
	}
	call := msgs[2].ToolCalls
	if len(call) != 1 || call[0].Type != openai.ToolTypeFunction || call[0].Function.Name != "search_activities" {
		t.Errorf("tool calls = %+v", call)
	}
	if msgs[3].ToolCallID != "call_1" || msgs[3].Role != RoleTool {
		t.Errorf("tool message = %+v", msgs[3])
	}
}

func TestToOpenAIToolsEmpty(t *testing.T) {
	if tools := toOpenAITools(nil); tools != nil {
		t.Errorf("tools = %v, want nil", tools)
	}
}

func TestFoldForAnthropic(t *testing.T) {
	got := foldForAnthropic([]ChatMessage{
		{Role: RoleSystem, Content: "SYS"},
		{Role: RoleAssistant, Content: "orphan greeting"},
		{Role: RoleUser, Content: "hello"},
		{Role: RoleUser, Content: "anyone?"},
		{Role: RoleAssistant, ToolCalls: []ToolCall{{ID: "c"}}},
		{Role: RoleTool, Content: "{}"},
		{Role: RoleAssistant, Content: "Hi there"},
	})

	want := []ChatMessage{
		{Role: RoleUser, Content: "SYS\n\nhello\n\nanyone?"},
		{Role: RoleAssistant, Content: "Hi there"},
	}
	if len(got) != len(want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i].Role != want[i].Role || got[i].Content != want[i].Content {
			t.Errorf("turn %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestNewClientRequiresKey(t *testing.T) {
	if _, err := NewClient(ProviderOpenAI, ""); err == nil {
		t.Error("expected error for missing OpenAI key")
	}
	if _, err := NewClient(ProviderAnthropic, ""); err == nil {
		t.Error("expected error for missing Anthropic key")
	}
	if _, err := NewClient("mistral", "key"); err == nil {
		t.Error("expected error for unknown provider")
	}
}
