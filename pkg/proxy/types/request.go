package types

// GenerateRequest is the public request body accepted by the gateway.
// The wire format follows the Gemini-style contents/parts structure the chat
// client already speaks, independent of the upstream provider's native shape.
type GenerateRequest struct {
	// Contents is the ordered list of content blocks. At least one block with
	// at least one non-empty text part is required.
	Contents []Content `json:"contents"`

	// GenerationConfig carries optional sampling parameters.
	GenerationConfig *GenerationConfig `json:"generationConfig,omitempty"`

	// SystemInstruction optionally supplements the routed system instruction.
	SystemInstruction string `json:"systemInstruction,omitempty"`
}

// Content is one block of request content.
type Content struct {
	// Parts is the ordered list of text parts in this block.
	Parts []Part `json:"parts"`
}

// Part is a single text fragment.
type Part struct {
	// Text is the fragment content.
	Text string `json:"text"`
}

// GenerationConfig carries caller-supplied sampling parameters.
// Pointer fields distinguish "absent" from zero values.
type GenerationConfig struct {
	// Temperature controls sampling randomness. Range [0, 2].
	Temperature *float64 `json:"temperature,omitempty"`

	// MaxTokens caps the completion length. Range [1, 100000].
	MaxTokens *int `json:"max_tokens,omitempty"`

	// ResponseMimeType requests an output format.
	// One of application/json, text/plain, text/html.
	ResponseMimeType string `json:"responseMimeType,omitempty"`
}

// UserText concatenates all text parts across all content blocks in order,
// separated by newlines. This is the flattened view used for task
// classification and the upstream user message.
func (r *GenerateRequest) UserText() string {
	var total int
	for _, c := range r.Contents {
		for _, p := range c.Parts {
			total += len(p.Text) + 1
		}
	}

	buf := make([]byte, 0, total)
	for _, c := range r.Contents {
		for _, p := range c.Parts {
			if p.Text == "" {
				continue
			}
			if len(buf) > 0 {
				buf = append(buf, '\n')
			}
			buf = append(buf, p.Text...)
		}
	}
	return string(buf)
}
