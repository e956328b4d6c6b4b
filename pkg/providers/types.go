package providers

// ChatCompletionRequest is the OpenAI-style request sent to the upstream
// provider.
type ChatCompletionRequest struct {
	// Model is the upstream model identifier.
	Model string `json:"model"`

	// Messages is the conversation: a system turn followed by a user turn.
	Messages []ChatMessage `json:"messages"`

	// Temperature is the sampling temperature sent upstream.
	Temperature float64 `json:"temperature"`

	// MaxTokens caps the completion length.
	MaxTokens int `json:"max_tokens"`
}

// ChatMessage is one conversation turn.
type ChatMessage struct {
	// Role is "system" or "user".
	Role string `json:"role"`

	// Content is the message text.
	Content string `json:"content"`
}

// ChatCompletionResponse is the OpenAI-style response returned by the
// upstream provider.
type ChatCompletionResponse struct {
	// Choices holds the generated completions.
	Choices []Choice `json:"choices"`

	// Usage reports upstream token consumption.
	Usage ChatUsage `json:"usage"`
}

// Choice is one generated completion.
type Choice struct {
	Message ChatMessage `json:"message"`
}

// ChatUsage reports token counts in the upstream field names.
type ChatUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
}

// Content returns the first choice's message content, or "" when the
// response carries no choices.
func (r *ChatCompletionResponse) Content() string {
	if len(r.Choices) == 0 {
		return ""
	}
	return r.Choices[0].Message.Content
}
