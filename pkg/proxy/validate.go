package proxy

import (
	"fmt"
	"net/url"
	"regexp"

	"cartonex/gateway/pkg/proxy/types"
)

// Validation bounds for the public request body.
const (
	// MaxContents is the maximum number of content blocks per request.
	MaxContents = 10

	// MaxPartsPerContent is the maximum number of parts per content block.
	MaxPartsPerContent = 50

	// MaxTextLength is the maximum length of a single text part.
	MaxTextLength = 100000

	// MaxSystemInstructionLength bounds the optional system instruction.
	MaxSystemInstructionLength = 10000

	// MinCredentialLength and MaxCredentialLength bound the API key format.
	MinCredentialLength = 10
	MaxCredentialLength = 100
)

// credentialPattern is the allowed API key alphabet.
var credentialPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// dangerousPatterns flags content that could smuggle active markup through
// to a renderer. Defense in depth, not a substitute for output encoding.
var dangerousPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)<\s*script`),
	regexp.MustCompile(`(?i)<\s*/\s*script`),
	regexp.MustCompile(`(?i)javascript\s*:`),
	regexp.MustCompile(`(?i)vbscript\s*:`),
	regexp.MustCompile(`(?i)data\s*:\s*text/html`),
	regexp.MustCompile(`(?i)\bon[a-z]+\s*=`),
}

// allowedMethods for ValidateMethod.
var allowedMethods = map[string]bool{
	"GET": true, "POST": true, "PUT": true,
	"DELETE": true, "PATCH": true, "OPTIONS": true,
}

// allowedResponseMimeTypes for the generation config.
var allowedResponseMimeTypes = map[string]bool{
	"application/json": true,
	"text/plain":       true,
	"text/html":        true,
}

// ValidationError reports a failed validation check with the offending field.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ToErrorResponse converts the validation error to the public error body.
func (e *ValidationError) ToErrorResponse() *types.ErrorResponse {
	return types.NewValidationErrorResponse(e.Message, e.Field)
}

// ValidateMethod checks that the HTTP method is one the gateway serves.
func ValidateMethod(method string) error {
	if !allowedMethods[method] {
		return &ValidationError{Field: "method", Message: fmt.Sprintf("method %q is not allowed", method)}
	}
	return nil
}

// ValidateURL checks that raw parses as an absolute http(s) URL.
func ValidateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return &ValidationError{Field: "url", Message: fmt.Sprintf("invalid URL: %v", err)}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return &ValidationError{Field: "url", Message: "URL scheme must be http or https"}
	}
	if u.Host == "" {
		return &ValidationError{Field: "url", Message: "URL must be absolute"}
	}
	return nil
}

// ValidateContentType checks that a present Content-Type is application/json.
// An absent Content-Type is accepted.
func ValidateContentType(contentType string) error {
	if contentType == "" {
		return nil
	}
	if contentType != "application/json" {
		return &ValidationError{Field: "Content-Type", Message: "Content-Type must be application/json"}
	}
	return nil
}

// ValidateCredentialFormat checks the API key shape only. Authentication
// against the configured secret happens in the auth package.
func ValidateCredentialFormat(key string) error {
	if len(key) < MinCredentialLength || len(key) > MaxCredentialLength {
		return &ValidationError{
			Field:   "api_key",
			Message: fmt.Sprintf("API key length must be between %d and %d characters", MinCredentialLength, MaxCredentialLength),
		}
	}
	if !credentialPattern.MatchString(key) {
		return &ValidationError{Field: "api_key", Message: "API key contains invalid characters"}
	}
	return nil
}

// ValidateRequest checks the parsed body structure: content bounds, text
// safety, generation config ranges, and the system instruction.
func ValidateRequest(req *types.GenerateRequest) error {
	if len(req.Contents) == 0 {
		return &ValidationError{Field: "contents", Message: "contents must be a non-empty array"}
	}
	if len(req.Contents) > MaxContents {
		return &ValidationError{
			Field:   "contents",
			Message: fmt.Sprintf("contents must contain at most %d elements", MaxContents),
		}
	}

	for i, content := range req.Contents {
		if err := validateContent(i, content); err != nil {
			return err
		}
	}

	if err := validateGenerationConfig(req.GenerationConfig); err != nil {
		return err
	}

	return validateSystemInstruction(req.SystemInstruction)
}

func validateContent(index int, content types.Content) error {
	field := fmt.Sprintf("contents[%d].parts", index)

	if len(content.Parts) == 0 {
		return &ValidationError{Field: field, Message: "parts must be a non-empty array"}
	}
	if len(content.Parts) > MaxPartsPerContent {
		return &ValidationError{
			Field:   field,
			Message: fmt.Sprintf("parts must contain at most %d elements", MaxPartsPerContent),
		}
	}

	for j, part := range content.Parts {
		if err := validateMessageText(fmt.Sprintf("%s[%d].text", field, j), part.Text); err != nil {
			return err
		}
	}
	return nil
}

func validateMessageText(field, text string) error {
	if text == "" {
		return &ValidationError{Field: field, Message: "text must be a non-empty string"}
	}
	if len(text) > MaxTextLength {
		return &ValidationError{
			Field:   field,
			Message: fmt.Sprintf("text must be at most %d characters", MaxTextLength),
		}
	}
	for _, pattern := range dangerousPatterns {
		if pattern.MatchString(text) {
			return &ValidationError{Field: field, Message: "text contains disallowed content"}
		}
	}
	return nil
}

func validateGenerationConfig(cfg *types.GenerationConfig) error {
	if cfg == nil {
		return nil
	}

	if cfg.Temperature != nil {
		if *cfg.Temperature < 0 || *cfg.Temperature > 2 {
			return &ValidationError{
				Field:   "generationConfig.temperature",
				Message: "temperature must be between 0 and 2",
			}
		}
	}
	if cfg.MaxTokens != nil {
		if *cfg.MaxTokens < 1 || *cfg.MaxTokens > 100000 {
			return &ValidationError{
				Field:   "generationConfig.max_tokens",
				Message: "max_tokens must be between 1 and 100000",
			}
		}
	}
	if cfg.ResponseMimeType != "" && !allowedResponseMimeTypes[cfg.ResponseMimeType] {
		return &ValidationError{
			Field:   "generationConfig.responseMimeType",
			Message: "responseMimeType must be application/json, text/plain, or text/html",
		}
	}
	return nil
}

func validateSystemInstruction(text string) error {
	if len(text) > MaxSystemInstructionLength {
		return &ValidationError{
			Field:   "systemInstruction",
			Message: fmt.Sprintf("systemInstruction must be at most %d characters", MaxSystemInstructionLength),
		}
	}
	return nil
}
