package anthropic

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/leofalp/structguard/internal/utils"
	"github.com/leofalp/structguard/providers/ai"
)

func TestSendMessage_Success(t *testing.T) {
	var captured anthropicRequest
	var apiKey, version, auth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != messagesEndpoint {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		apiKey = r.Header.Get("x-api-key")
		version = r.Header.Get("anthropic-version")
		auth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("invalid body: %v", err)
		}
		_, _ = w.Write([]byte(`{
			"id": "msg_1",
			"type": "message",
			"role": "assistant",
			"model": "claude-haiku",
			"content": [{"type": "text", "text": "{\"answer\":"}, {"type": "text", "text": "\"ok\"}"}],
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 12, "output_tokens": 4}
		}`))
	}))
	defer server.Close()

	provider := New().WithBaseURL(server.URL).WithAPIKey("test-key")

	request := ai.NewUserRequest("claude-haiku", "hi")
	request.SystemPrompt = "be terse"

	resp, err := provider.SendMessage(context.Background(), request)
	if err != nil {
		t.Fatalf("SendMessage() error = %v", err)
	}

	if resp.Content != "{\"answer\":\n\"ok\"}" {
		t.Errorf("Content = %q", resp.Content)
	}
	if resp.FinishReason != "stop" {
		t.Errorf("FinishReason = %q", resp.FinishReason)
	}
	if resp.Usage.TotalTokens != 16 {
		t.Errorf("TotalTokens = %d", resp.Usage.TotalTokens)
	}
	if apiKey != "test-key" || version != anthropicVersion {
		t.Errorf("headers x-api-key=%q anthropic-version=%q", apiKey, version)
	}
	if auth != "" {
		t.Errorf("no Bearer token expected, got %q", auth)
	}
	if captured.System != "be terse" || captured.MaxTokens != defaultMaxTokens {
		t.Errorf("unexpected request %+v", captured)
	}
}

func TestSendMessage_MissingAPIKey(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")

	_, err := New().SendMessage(context.Background(), ai.NewUserRequest("m", "hi"))
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
}

func TestSendMessage_Overloaded(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(529)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"overloaded_error"}}`))
	}))
	defer server.Close()

	_, err := New().WithBaseURL(server.URL).WithAPIKey("k").SendMessage(context.Background(), ai.NewUserRequest("m", "hi"))
	var httpErr *utils.HTTPError
	if !errors.As(err, &httpErr) || httpErr.StatusCode != 529 {
		t.Fatalf("expected 529 HTTPError, got %v", err)
	}
}

func TestRequestToAnthropic_FoldsSystemMessages(t *testing.T) {
	temperature := float32(0.1)
	req := requestToAnthropic(ai.ChatRequest{
		Model:        "m",
		SystemPrompt: "first",
		Messages: []ai.Message{
			{Role: ai.RoleSystem, Content: "second"},
			{Role: ai.RoleUser, Content: "question"},
		},
		GenerationConfig: &ai.GenerationConfig{Temperature: &temperature, MaxTokens: 100},
	})

	if req.System != "first\n\nsecond" {
		t.Errorf("System = %q", req.System)
	}
	if len(req.Messages) != 1 || req.Messages[0].Role != "user" {
		t.Errorf("Messages = %+v", req.Messages)
	}
	if req.MaxTokens != 100 || req.Temperature == nil || *req.Temperature != 0.1 {
		t.Errorf("generation config not applied: %+v", req)
	}
}

func TestMapStopReason(t *testing.T) {
	tests := map[string]string{
		"end_turn":      "stop",
		"stop_sequence": "stop",
		"max_tokens":    "length",
		"refusal":       "content_filter",
	}
	for input, want := range tests {
		if got := mapStopReason(input); got != want {
			t.Errorf("mapStopReason(%q) = %q, want %q", input, got, want)
		}
	}
}
