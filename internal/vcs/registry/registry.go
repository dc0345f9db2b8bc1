package registry

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/macmacal/jaypore-ci/internal/config"
	"github.com/macmacal/jaypore-ci/internal/errors"
	"github.com/macmacal/jaypore-ci/internal/models"
	"github.com/macmacal/jaypore-ci/internal/vcs"
	"github.com/macmacal/jaypore-ci/internal/vcs/gitea"
	"github.com/macmacal/jaypore-ci/internal/vcs/github"
)

// ProviderFactory builds a publisher for one hosting service.
type ProviderFactory interface {
	CreatePublisher(ctx context.Context, rc models.RemoteContext, cfg *config.Config, log *slog.Logger) (vcs.Publisher, error)
	Name() string
}

// ProviderRegistry maps provider names to their factories.
type ProviderRegistry struct {
	mu        sync.RWMutex
	factories map[string]ProviderFactory
}

func NewProviderRegistry() *ProviderRegistry {
	return &ProviderRegistry{
		factories: make(map[string]ProviderFactory),
	}
}

// NewDefaultRegistry returns a registry with every built-in provider.
func NewDefaultRegistry() *ProviderRegistry {
	r := NewProviderRegistry()
	_ = r.Register(config.ProviderGitea, gitea.NewProviderFactory())
	_ = r.Register(config.ProviderGitHub, github.NewProviderFactory())
	return r
}

func (r *ProviderRegistry) Register(name string, factory ProviderFactory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return errors.ErrInvalidConfig.WithError(fmt.Errorf("provider '%s' is already registered", name))
	}

	r.factories[name] = factory
	return nil
}

func (r *ProviderRegistry) Get(name string) (ProviderFactory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, exists := r.factories[name]
	if !exists {
		return nil, errors.NewVCSProviderNotSupportedError(name)
	}
	return factory, nil
}

// List returns the registered provider names in order.
func (r *ProviderRegistry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *ProviderRegistry) IsRegistered(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.factories[name]
	return exists
}

// CreatePublisher captures the remote context of the run from repo and builds
// the publisher of the matching provider.
func (r *ProviderRegistry) CreatePublisher(ctx context.Context, repo vcs.RepoInfoProvider, cfg *config.Config, log *slog.Logger) (vcs.Publisher, models.RemoteContext, error) {
	provider, rc, err := vcs.NewRemoteContext(ctx, repo, cfg)
	if err != nil {
		return nil, models.RemoteContext{}, err
	}

	if !r.IsRegistered(provider) {
		return nil, models.RemoteContext{}, errors.NewVCSProviderNotSupportedError(provider).
			WithSuggestion("Registered providers: " + strings.Join(r.List(), ", "))
	}
	factory, err := r.Get(provider)
	if err != nil {
		return nil, models.RemoteContext{}, err
	}

	publisher, err := factory.CreatePublisher(ctx, rc, cfg, log)
	if err != nil {
		return nil, models.RemoteContext{}, err
	}
	return publisher, rc, nil
}
