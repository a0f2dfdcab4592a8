// Package llm wraps the generative model used for scoring, guidance and résumé enhancement.
package llm

import (
	"fmt"
	"strings"
)

// ModelTier selects a model by capability rather than by name.
type ModelTier string

const (
	// TierLite is the cheapest model, used for quick keyword checks
	TierLite ModelTier = "lite"
	// TierStandard handles scoring and guidance
	TierStandard ModelTier = "standard"
	// TierAdvanced handles résumé rewriting
	TierAdvanced ModelTier = "advanced"
)

// ParseTier converts a config string into a ModelTier. Empty means standard.
func ParseTier(s string) (ModelTier, error) {
	switch ModelTier(strings.ToLower(strings.TrimSpace(s))) {
	case "", TierStandard:
		return TierStandard, nil
	case TierLite:
		return TierLite, nil
	case TierAdvanced:
		return TierAdvanced, nil
	default:
		return "", fmt.Errorf("unknown model tier %q (want lite, standard or advanced)", s)
	}
}

// Config maps tiers to Gemini model names.
type Config struct {
	Models      map[ModelTier]string
	Temperature float32
}

// DefaultConfig returns the Gemini 2.5 model family at a low temperature.
func DefaultConfig() *Config {
	return &Config{
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
		Temperature: 0.1,
	}
}

// GetModel returns the model name for tier, falling back to standard and then lite.
func (c *Config) GetModel(tier ModelTier) string {
	for _, t := range []ModelTier{tier, TierStandard, TierLite} {
		if model, ok := c.Models[t]; ok && model != "" {
			return model
		}
	}
	return ""
}

// WithModel returns a copy of c that uses model for tier.
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	out := &Config{
		Models:      make(map[ModelTier]string, len(c.Models)+1),
		Temperature: c.Temperature,
	}
	for k, v := range c.Models {
		out.Models[k] = v
	}
	out.Models[tier] = model
	return out
}
