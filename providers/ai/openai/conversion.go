package openai

import (
	"github.com/leofalp/structguard/providers/ai"
)

// defaultSchemaName labels a json_schema response format that has no title.
const defaultSchemaName = "response"

func requestFromGeneric(request ai.ChatRequest) chatCompletionRequest {
	messages := make([]chatMessage, 0, len(request.Messages)+1)
	if request.SystemPrompt != "" {
		messages = append(messages, chatMessage{Role: string(ai.RoleSystem), Content: request.SystemPrompt})
	}
	for _, msg := range request.Messages {
		messages = append(messages, chatMessage{Role: string(msg.Role), Content: msg.Content})
	}

	out := chatCompletionRequest{
		Model:          request.Model,
		Messages:       messages,
		ResponseFormat: responseFormatFromGeneric(request.ResponseFormat),
	}

	if cfg := request.GenerationConfig; cfg != nil {
		out.Temperature = cfg.Temperature
		if cfg.MaxTokens > 0 {
			maxTokens := cfg.MaxTokens
			out.MaxTokens = &maxTokens
		}
	}

	return out
}

func responseFormatFromGeneric(format *ai.ResponseFormat) *chatResponseFormat {
	if format == nil {
		return nil
	}

	if format.OutputSchema != nil {
		return &chatResponseFormat{
			Type: "json_schema",
			JSONSchema: &chatJSONSchema{
				Name:   defaultSchemaName,
				Schema: format.OutputSchema,
				Strict: format.Strict,
			},
		}
	}

	if format.Type == "" {
		return nil
	}

	return &chatResponseFormat{Type: format.Type}
}

// responseToGeneric maps the first choice onto the generic response. A
// response without choices yields an empty Content.
func responseToGeneric(resp chatCompletionResponse) *ai.ChatResponse {
	result := &ai.ChatResponse{
		Id:    resp.ID,
		Model: resp.Model,
	}

	if len(resp.Choices) > 0 {
		choice := resp.Choices[0]
		if choice.Message.Content != nil {
			result.Content = *choice.Message.Content
		}
		if choice.Message.Refusal != nil {
			result.Refusal = *choice.Message.Refusal
		}
		result.FinishReason = choice.FinishReason
	}

	if resp.Usage != nil {
		result.Usage = &ai.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		}
	}

	return result
}
