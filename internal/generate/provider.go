// Package generate turns spring specifications and user requests into
// normalized test sequences by prompting an LLM provider and parsing
// whatever comes back.
package generate

import (
	"context"
	"fmt"

	"springnorm/internal/config"
)

// Provider is the minimal completion interface a backend must offer.
type Provider interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// NewProvider builds the configured provider.
func NewProvider(cfg *config.Config) (Provider, error) {
	switch cfg.LLM.Provider {
	case "together", "":
		return NewTogetherClient(cfg), nil
	case "ollama":
		return NewOllamaClient(cfg), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.LLM.Provider)
	}
}
