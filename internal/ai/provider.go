package ai

import (
	"context"

	"github.com/deusflow/cyberdigest/internal/config"
)

// NewCompleter builds the backend selected in cfg. It returns a nil
// Completer when the provider's credential is not set. The returned
// close function is never nil.
func NewCompleter(ctx context.Context, cfg *config.Config) (Completer, func(), error) {
	noop := func() {}
	if cfg.AIKey() == "" {
		return nil, noop, nil
	}

	switch cfg.AIProvider {
	case config.ProviderGemini:
		g, err := NewGemini(ctx, cfg.GeminiAPIKey)
		if err != nil {
			return nil, noop, err
		}
		return g, g.Close, nil
	default:
		return NewOpenAI(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL), noop, nil
	}
}
