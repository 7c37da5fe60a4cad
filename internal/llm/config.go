// Package llm centralizes model configuration and the client abstraction
// used for natural-language pattern understanding.
package llm

// ModelTier buckets tasks by how much reasoning they need.
type ModelTier string

const (
	// TierLite handles terminology review and other simple classification.
	TierLite ModelTier = "lite"
	// TierStandard handles structured pattern extraction.
	TierStandard ModelTier = "standard"
	// TierAdvanced handles full-pattern construction reasoning.
	TierAdvanced ModelTier = "advanced"
)

// Provider identifies an LLM provider.
type Provider string

// Supported providers.
const (
	ProviderGemini Provider = "gemini"
)

// Config selects the provider and the model per tier.
type Config struct {
	Provider Provider
	Models   map[ModelTier]string
}

// DefaultConfig returns the default Gemini configuration.
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
	}
}

// GetModel returns the model for a tier, falling back standard → lite when
// the tier is not configured.
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	if model, ok := c.Models[TierLite]; ok {
		return model
	}
	return ""
}

// WithModel returns a copy of the config with one tier overridden.
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	out := &Config{
		Provider: c.Provider,
		Models:   make(map[ModelTier]string, len(c.Models)+1),
	}
	for k, v := range c.Models {
		out.Models[k] = v
	}
	out.Models[tier] = model
	return out
}
