package delegate

import (
	"context"

	"github.com/muhammadolammi/skillsync/internal/config"
	"github.com/pkg/errors"
)

// New builds the delegate selected by cfg.Provider.
func New(ctx context.Context, cfg config.Config) (Delegate, error) {
	switch cfg.Provider {
	case config.ProviderGroq:
		return NewOpenAI(cfg.APIKey, cfg.Model), nil
	case config.ProviderGemini:
		return NewGemini(ctx, cfg.APIKey, cfg.Model)
	default:
		return nil, errors.Wrapf(config.ErrUnknownProvider, "%q", cfg.Provider)
	}
}
