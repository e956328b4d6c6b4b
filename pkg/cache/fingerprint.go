package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"cartonex/gateway/pkg/proxy/types"
)

// fingerprintInput is the ordered tuple of fields that determine a cached
// response. Field order is fixed by the struct definition, so the JSON
// encoding is canonical.
type fingerprintInput struct {
	Contents          []types.Content         `json:"contents"`
	GenerationConfig  *types.GenerationConfig `json:"generationConfig,omitempty"`
	SystemInstruction string                  `json:"systemInstruction,omitempty"`
	Model             string                  `json:"model"`
}

// Fingerprint derives the cache key for a request routed to a model:
// the full sha256 hex digest over the canonical JSON of (contents,
// generation config, system instruction, model). Identical inputs always
// produce identical keys; any field difference changes the key.
func Fingerprint(req *types.GenerateRequest, model string) (string, error) {
	input := fingerprintInput{
		Contents:          req.Contents,
		GenerationConfig:  req.GenerationConfig,
		SystemInstruction: req.SystemInstruction,
		Model:             model,
	}

	payload, err := json.Marshal(input)
	if err != nil {
		return "", fmt.Errorf("failed to serialize fingerprint input: %w", err)
	}

	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}
