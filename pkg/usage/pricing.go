package usage

import "sync"

// ModelPricing holds per-1K-token rates in USD for one model.
type ModelPricing struct {
	// PromptCostPer1KTokens is the input token rate.
	PromptCostPer1KTokens float64 `yaml:"prompt_cost_per_1k_tokens"`

	// CompletionCostPer1KTokens is the output token rate.
	CompletionCostPer1KTokens float64 `yaml:"completion_cost_per_1k_tokens"`
}

// defaultPricing is used for models without a configured rate, so the
// ledger's cost column is never silently zero for unknown models.
var defaultPricing = ModelPricing{
	PromptCostPer1KTokens:     0.001,
	CompletionCostPer1KTokens: 0.002,
}

// Pricer maps models to pricing and computes cost estimates.
// It is thread-safe and supports hot-reload of the pricing table.
type Pricer struct {
	mu     sync.RWMutex
	models map[string]ModelPricing
}

// NewPricer creates a pricer from a model pricing table. A nil or empty
// table prices everything at the default rate.
func NewPricer(models map[string]ModelPricing) *Pricer {
	if models == nil {
		models = map[string]ModelPricing{}
	}
	return &Pricer{models: models}
}

// Cost estimates the USD cost of a call from its token counts.
// The estimate is advisory telemetry, not a billing source of truth.
func (p *Pricer) Cost(model string, promptTokens, completionTokens int) float64 {
	p.mu.RLock()
	pricing, ok := p.models[model]
	p.mu.RUnlock()
	if !ok {
		pricing = defaultPricing
	}

	return float64(promptTokens)/1000*pricing.PromptCostPer1KTokens +
		float64(completionTokens)/1000*pricing.CompletionCostPer1KTokens
}

// Update replaces the pricing table. Called by the config reloader.
func (p *Pricer) Update(models map[string]ModelPricing) {
	if models == nil {
		models = map[string]ModelPricing{}
	}
	p.mu.Lock()
	p.models = models
	p.mu.Unlock()
}
