package github

import (
	"context"
	"log/slog"

	"github.com/macmacal/jaypore-ci/internal/config"
	"github.com/macmacal/jaypore-ci/internal/models"
	"github.com/macmacal/jaypore-ci/internal/vcs"
)

// ProviderFactory builds GitHub publishers for the provider registry.
type ProviderFactory struct{}

func NewProviderFactory() *ProviderFactory {
	return &ProviderFactory{}
}

// CreatePublisher ignores max_resolve_attempts: GitHub returns the number of a
// created pull request, so no retry loop is needed.
func (f *ProviderFactory) CreatePublisher(_ context.Context, rc models.RemoteContext, cfg *config.Config, log *slog.Logger) (vcs.Publisher, error) {
	opts := []PublisherOption{
		WithBaseBranch(cfg.BaseBranch),
		WithStatusContext(cfg.StatusContext),
	}
	if log != nil {
		opts = append(opts, WithLogger(log))
	}
	publisher, err := NewPublisher(rc, opts...)
	if err != nil {
		return nil, err
	}
	return publisher, nil
}

func (f *ProviderFactory) Name() string {
	return config.ProviderGitHub
}
