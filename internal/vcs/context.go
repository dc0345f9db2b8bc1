package vcs

import (
	"context"

	"github.com/macmacal/jaypore-ci/internal/config"
	"github.com/macmacal/jaypore-ci/internal/git"
	"github.com/macmacal/jaypore-ci/internal/logger"
	"github.com/macmacal/jaypore-ci/internal/models"
)

// NewRemoteContext captures branch, commit and hosting coordinates once for a
// pipeline run and returns it together with the provider name to publish with.
// The SHA is read here so later branch movement cannot change the commit the
// status is posted for.
func NewRemoteContext(ctx context.Context, repo RepoInfoProvider, cfg *config.Config) (string, models.RemoteContext, error) {
	info, err := repo.GetRemoteInfo(ctx, cfg.Remote)
	if err != nil {
		return "", models.RemoteContext{}, err
	}

	provider := cfg.Provider
	if provider == "" {
		provider = git.DetectProvider(info.Host)
	}

	token, err := cfg.TokenFor(provider)
	if err != nil {
		return "", models.RemoteContext{}, err
	}

	timeout, err := cfg.RequestTimeout()
	if err != nil {
		return "", models.RemoteContext{}, err
	}

	branch, err := repo.GetCurrentBranch(ctx)
	if err != nil {
		return "", models.RemoteContext{}, err
	}

	sha, err := repo.GetHeadSHA(ctx)
	if err != nil {
		return "", models.RemoteContext{}, err
	}

	rc := models.RemoteContext{
		RootURL: info.RootURL(),
		APIURL:  APIBaseURL(provider, info),
		Owner:   info.Owner,
		Repo:    info.Repo,
		Branch:  branch,
		SHA:     sha,
		Token:   token,
		Timeout: timeout,
	}

	logger.Debug(ctx, "remote context captured",
		"provider", provider,
		"root", rc.RootURL,
		"repo", rc.FullName(),
		"branch", rc.Branch,
		"sha", rc.SHA)

	return provider, rc, nil
}

// APIBaseURL returns the REST root for provider on the given host.
func APIBaseURL(provider string, info models.RemoteInfo) string {
	if provider == config.ProviderGitHub {
		if info.Host == "github.com" {
			return "https://api.github.com"
		}
		return info.RootURL() + "/api/v3"
	}
	return info.RootURL() + "/api/v1"
}
