package types

// GenerateResponse is the public success response body.
type GenerateResponse struct {
	// Candidates holds the generated outputs. The gateway always returns
	// exactly one candidate.
	Candidates []Candidate `json:"candidates"`

	// Usage reports token consumption for the call.
	Usage Usage `json:"usage"`
}

// Candidate is one generated output.
type Candidate struct {
	// Content holds the candidate's text parts.
	Content CandidateContent `json:"content"`
}

// CandidateContent wraps the parts of a candidate.
type CandidateContent struct {
	Parts []Part `json:"parts"`
}

// Usage reports token counts in the public field names.
type Usage struct {
	// PromptTokenCount is the number of input tokens consumed.
	PromptTokenCount int `json:"promptTokenCount"`

	// CandidatesTokenCount is the number of output tokens generated.
	CandidatesTokenCount int `json:"candidatesTokenCount"`
}

// NewTextResponse builds a single-candidate response from the model output
// and reported token counts.
func NewTextResponse(text string, promptTokens, candidateTokens int) *GenerateResponse {
	return &GenerateResponse{
		Candidates: []Candidate{
			{Content: CandidateContent{Parts: []Part{{Text: text}}}},
		},
		Usage: Usage{
			PromptTokenCount:     promptTokens,
			CandidatesTokenCount: candidateTokens,
		},
	}
}

// Text returns the first candidate's first part, or "" when the response
// carries no output.
func (r *GenerateResponse) Text() string {
	if len(r.Candidates) == 0 || len(r.Candidates[0].Content.Parts) == 0 {
		return ""
	}
	return r.Candidates[0].Content.Parts[0].Text
}
