package vcs

import (
	"context"

	"github.com/macmacal/jaypore-ci/internal/models"
)

// Publisher writes a pipeline report and status to the hosting service.
type Publisher interface {
	// Publish makes sure the branch has a pull request, merges report into its
	// body and posts status for the captured commit. An invalid status fails
	// before any request is sent.
	Publish(ctx context.Context, report string, status models.PublishStatus) error
}

// RepoInfoProvider reads repository metadata, usually from git.
type RepoInfoProvider interface {
	GetCurrentBranch(ctx context.Context) (string, error)
	GetHeadSHA(ctx context.Context) (string, error)
	GetRemoteInfo(ctx context.Context, remote string) (models.RemoteInfo, error)
}
