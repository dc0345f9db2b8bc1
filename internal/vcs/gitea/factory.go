package gitea

import (
	"context"
	"log/slog"

	"github.com/macmacal/jaypore-ci/internal/config"
	"github.com/macmacal/jaypore-ci/internal/models"
	"github.com/macmacal/jaypore-ci/internal/vcs"
)

// ProviderFactory builds Gitea publishers for the provider registry.
type ProviderFactory struct{}

func NewProviderFactory() *ProviderFactory {
	return &ProviderFactory{}
}

func (f *ProviderFactory) CreatePublisher(_ context.Context, rc models.RemoteContext, cfg *config.Config, log *slog.Logger) (vcs.Publisher, error) {
	opts := []PublisherOption{
		WithBaseBranch(cfg.BaseBranch),
		WithStatusContext(cfg.StatusContext),
		WithMaxResolveAttempts(cfg.MaxResolveAttempts),
	}
	if log != nil {
		opts = append(opts, WithLogger(log))
	}
	return NewPublisher(rc, NewClient(rc), opts...), nil
}

func (f *ProviderFactory) Name() string {
	return config.ProviderGitea
}
