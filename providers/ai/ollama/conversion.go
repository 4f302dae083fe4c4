package ollama

import (
	"encoding/json"

	"github.com/leofalp/structguard/providers/ai"
)

// DefaultTemperature is the sampling temperature used when the request does
// not set one. Extraction benefits from near-deterministic output.
const DefaultTemperature float32 = 0.1

// requestFromGeneric converts a generic request into Ollama's chat format.
// The system prompt becomes a leading system message.
func requestFromGeneric(request ai.ChatRequest) chatRequest {
	messages := make([]chatMessage, 0, len(request.Messages)+1)
	if request.SystemPrompt != "" {
		messages = append(messages, chatMessage{Role: string(ai.RoleSystem), Content: request.SystemPrompt})
	}
	for _, msg := range request.Messages {
		messages = append(messages, chatMessage{Role: string(msg.Role), Content: msg.Content})
	}

	temperature := DefaultTemperature
	options := &chatOptions{Temperature: &temperature}
	if cfg := request.GenerationConfig; cfg != nil {
		if cfg.Temperature != nil {
			t := *cfg.Temperature
			options.Temperature = &t
		}
		options.NumPredict = cfg.MaxTokens
	}

	return chatRequest{
		Model:    request.Model,
		Messages: messages,
		Stream:   false,
		Format:   formatFromGeneric(request.ResponseFormat),
		Options:  options,
	}
}

// formatFromGeneric maps a response format onto Ollama's "format" field: a
// schema is passed through as an object, "json_object" becomes "json".
func formatFromGeneric(format *ai.ResponseFormat) json.RawMessage {
	if format == nil {
		return nil
	}

	if format.OutputSchema != nil {
		raw, err := json.Marshal(format.OutputSchema)
		if err == nil {
			return raw
		}
	}

	if format.Type == "json_object" || format.Type == "json" {
		return json.RawMessage(`"json"`)
	}

	return nil
}

// responseToGeneric converts Ollama's chat response into the generic format.
func responseToGeneric(resp chatResponse) *ai.ChatResponse {
	finishReason := resp.DoneReason
	if finishReason == "" && resp.Done {
		finishReason = "stop"
	}

	result := &ai.ChatResponse{
		Id:           resp.CreatedAt,
		Model:        resp.Model,
		Content:      resp.Message.Content,
		FinishReason: finishReason,
	}

	if resp.PromptEvalCount > 0 || resp.EvalCount > 0 {
		result.Usage = &ai.Usage{
			PromptTokens:     resp.PromptEvalCount,
			CompletionTokens: resp.EvalCount,
			TotalTokens:      resp.PromptEvalCount + resp.EvalCount,
		}
	}

	return result
}
