package openai

import (
	"cartonex/gateway/pkg/providers"
	"cartonex/gateway/pkg/proxy/types"
)

const (
	// DefaultTemperature is sent upstream when the caller supplies none.
	DefaultTemperature = 0.7

	// MaxTokensCeiling caps the completion length sent upstream regardless
	// of the caller's request.
	MaxTokensCeiling = 4000
)

// BuildChatRequest flattens the public contents/parts body into a two-turn
// chat-completion request: the routed system instruction followed by a
// single user message with all text parts joined in order.
func BuildChatRequest(req *types.GenerateRequest, model, systemInstruction string) *providers.ChatCompletionRequest {
	temperature := DefaultTemperature
	maxTokens := MaxTokensCeiling

	if cfg := req.GenerationConfig; cfg != nil {
		if cfg.Temperature != nil {
			temperature = *cfg.Temperature
		}
		if cfg.MaxTokens != nil && *cfg.MaxTokens < MaxTokensCeiling {
			maxTokens = *cfg.MaxTokens
		}
	}

	messages := make([]providers.ChatMessage, 0, 2)
	if systemInstruction != "" {
		messages = append(messages, providers.ChatMessage{Role: "system", Content: systemInstruction})
	}
	messages = append(messages, providers.ChatMessage{Role: "user", Content: req.UserText()})

	return &providers.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}
}

// TranslateResponse repackages the upstream completion into the public
// response shape, remapping the usage field names.
func TranslateResponse(resp *providers.ChatCompletionResponse) *types.GenerateResponse {
	return types.NewTextResponse(resp.Content(), resp.Usage.PromptTokens, resp.Usage.CompletionTokens)
}
