package anthropic

import (
	"strings"

	"github.com/leofalp/structguard/providers/ai"
)

// defaultMaxTokens is sent when the request sets no limit.
const defaultMaxTokens = 4096

// requestToAnthropic converts a generic request. System messages found in
// the message list are folded into the top-level system prompt.
func requestToAnthropic(request ai.ChatRequest) anthropicRequest {
	systemParts := []string{}
	if request.SystemPrompt != "" {
		systemParts = append(systemParts, request.SystemPrompt)
	}

	messages := make([]anthropicMessage, 0, len(request.Messages))
	for _, msg := range request.Messages {
		if msg.Role == ai.RoleSystem {
			systemParts = append(systemParts, msg.Content)
			continue
		}
		messages = append(messages, anthropicMessage{
			Role:    string(msg.Role),
			Content: []anthropicContentBlock{{Type: "text", Text: msg.Content}},
		})
	}

	req := anthropicRequest{
		Model:     request.Model,
		Messages:  messages,
		System:    strings.Join(systemParts, "\n\n"),
		MaxTokens: defaultMaxTokens,
	}

	if cfg := request.GenerationConfig; cfg != nil {
		req.Temperature = cfg.Temperature
		if cfg.MaxTokens > 0 {
			req.MaxTokens = cfg.MaxTokens
		}
	}

	return req
}

func anthropicToGeneric(response anthropicResponse) *ai.ChatResponse {
	var textParts []string
	for _, block := range response.Content {
		if block.Type == "text" {
			textParts = append(textParts, block.Text)
		}
	}

	return &ai.ChatResponse{
		Id:           response.ID,
		Model:        response.Model,
		Content:      strings.Join(textParts, "\n"),
		FinishReason: mapStopReason(response.StopReason),
		Usage: &ai.Usage{
			PromptTokens:     response.Usage.InputTokens,
			CompletionTokens: response.Usage.OutputTokens,
			TotalTokens:      response.Usage.InputTokens + response.Usage.OutputTokens,
		},
	}
}

// mapStopReason converts an Anthropic stop_reason value to the canonical
// finish_reason string used by ai.ChatResponse.
func mapStopReason(stopReason string) string {
	switch stopReason {
	case "max_tokens":
		return "length"
	case "refusal":
		return "content_filter"
	default:
		return "stop"
	}
}
