package gitea

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/macmacal/jaypore-ci/internal/logger"
	"github.com/macmacal/jaypore-ci/internal/models"
	"github.com/macmacal/jaypore-ci/internal/vcs"
	"github.com/macmacal/jaypore-ci/internal/vcs/report"
)

var _ vcs.Publisher = (*Publisher)(nil)

// DefaultStatusContext labels the commit statuses posted by jci.
const DefaultStatusContext = "JayporeCi"

// Publisher publishes reports for one pipeline run. It keeps no state between
// calls; the pull request is resolved again on every Publish.
type Publisher struct {
	client        *Client
	rc            models.RemoteContext
	baseBranch    string
	statusContext string
	maxAttempts   int
	log           *slog.Logger
}

type PublisherOption func(*Publisher)

func WithBaseBranch(branch string) PublisherOption {
	return func(p *Publisher) {
		p.baseBranch = branch
	}
}

func WithStatusContext(label string) PublisherOption {
	return func(p *Publisher) {
		p.statusContext = label
	}
}

func WithMaxResolveAttempts(n int) PublisherOption {
	return func(p *Publisher) {
		p.maxAttempts = n
	}
}

// WithLogger sends the publisher's records to l, typically a logger.RunLog.
func WithLogger(l *slog.Logger) PublisherOption {
	return func(p *Publisher) {
		p.log = l
	}
}

func NewPublisher(rc models.RemoteContext, client *Client, opts ...PublisherOption) *Publisher {
	p := &Publisher{
		client:        client,
		rc:            rc,
		baseBranch:    "main",
		statusContext: DefaultStatusContext,
		maxAttempts:   DefaultMaxResolveAttempts,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Publisher) Publish(ctx context.Context, reportText string, status models.PublishStatus) error {
	if err := status.Validate(); err != nil {
		return err
	}

	if p.log != nil {
		ctx = logger.WithLogger(ctx, p.log)
	}
	ctx = logger.With(ctx, "root", p.rc.RootURL, "owner", p.rc.Owner, "repo", p.rc.Repo, "branch", p.rc.Branch)

	handle, err := p.client.ResolvePullRequest(ctx, p.baseBranch, p.maxAttempts)
	if err != nil {
		return err
	}
	ctx = logger.With(ctx, "pr", string(handle))

	pr, err := p.client.GetPullRequest(ctx, handle)
	if err != nil {
		return err
	}
	logger.Debug(ctx, "Get existing body", "length", len(pr.Body))

	body := report.MergeBody(pr.Body, reportText)
	if err := p.client.UpdatePullRequestBody(ctx, handle, body); err != nil {
		return err
	}
	logger.Debug(ctx, "Published new report")

	commitStatus := models.CommitStatus{
		Context:     p.statusContext,
		Description: fmt.Sprintf("Pipeline status is: %s", status),
		State:       status,
		TargetURL:   p.client.PullRequestURL(handle),
	}
	if err := p.client.CreateCommitStatus(ctx, p.rc.SHA, commitStatus); err != nil {
		return err
	}
	logger.Debug(ctx, "Published new status", "status", string(status), "sha", p.rc.SHA)

	return nil
}
