package github

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/go-github/v80/github"

	domainErrors "github.com/macmacal/jaypore-ci/internal/errors"
	"github.com/macmacal/jaypore-ci/internal/logger"
	"github.com/macmacal/jaypore-ci/internal/models"
	"github.com/macmacal/jaypore-ci/internal/vcs"
	"github.com/macmacal/jaypore-ci/internal/vcs/report"
)

var _ vcs.Publisher = (*Publisher)(nil)

const (
	DefaultStatusContext = "JayporeCi"
	AutoCreatedBody      = "Branch auto created by JayporeCI"
)

// Publisher publishes pipeline reports to a GitHub pull request.
type Publisher struct {
	prService     PullRequestsService
	statusService StatusesService
	rc            models.RemoteContext
	baseBranch    string
	statusContext string
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

func WithLogger(l *slog.Logger) PublisherOption {
	return func(p *Publisher) {
		p.log = l
	}
}

func NewPublisher(rc models.RemoteContext, opts ...PublisherOption) (*Publisher, error) {
	client, err := newGitHubClient(rc)
	if err != nil {
		return nil, err
	}
	return NewPublisherWithServices(client.PullRequests, &statusesService{client: client}, rc, opts...), nil
}

func NewPublisherWithServices(prService PullRequestsService, statusService StatusesService, rc models.RemoteContext, opts ...PublisherOption) *Publisher {
	p := &Publisher{
		prService:     prService,
		statusService: statusService,
		rc:            rc,
		baseBranch:    "main",
		statusContext: DefaultStatusContext,
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
	ctx = logger.With(ctx, "owner", p.rc.Owner, "repo", p.rc.Repo, "branch", p.rc.Branch)

	number, err := p.resolvePullRequest(ctx)
	if err != nil {
		return err
	}
	ctx = logger.With(ctx, "pr", number)

	pr, err := p.getPullRequest(ctx, number)
	if err != nil {
		return err
	}
	logger.Debug(ctx, "Get existing body", "length", len(pr.GetBody()))

	body := report.MergeBody(pr.GetBody(), reportText)
	if err := p.updateBody(ctx, number, body); err != nil {
		return err
	}
	logger.Debug(ctx, "Published new report")

	targetURL := pr.GetHTMLURL()
	if targetURL == "" {
		targetURL = PullRequestURL(p.rc, number)
	}
	if err := p.createStatus(ctx, status, targetURL); err != nil {
		return err
	}
	logger.Debug(ctx, "Published new status", "status", string(status), "sha", p.rc.SHA)

	return nil
}

// resolvePullRequest opens a pull request for the branch, or finds the open one
// when GitHub reports that it already exists. A created pull request without a
// number is looked up the same way.
func (p *Publisher) resolvePullRequest(ctx context.Context) (int, error) {
	const operation = "create pull request"

	callCtx, cancel := p.requestContext(ctx)
	created, resp, err := p.prService.Create(callCtx, p.rc.Owner, p.rc.Repo, &github.NewPullRequest{
		Title: github.Ptr(p.rc.Branch),
		Head:  github.Ptr(p.rc.Branch),
		Base:  github.Ptr(p.baseBranch),
		Body:  github.Ptr(AutoCreatedBody),
	})
	cancel()
	switch {
	case err == nil && created.GetNumber() != 0:
		logger.Debug(ctx, "Get PR Id", "status_code", http.StatusCreated)
		return created.GetNumber(), nil
	case err == nil:
		logger.Debug(ctx, "Get PR Id", "status_code", http.StatusCreated, "number", 0)
	case resp == nil || resp.StatusCode != http.StatusUnprocessableEntity:
		return 0, apiError(operation, resp, err)
	default:
		logger.Debug(ctx, "Get PR Id", "status_code", resp.StatusCode)
	}

	number, listErr := p.findOpenPullRequest(ctx)
	if listErr != nil {
		return 0, listErr
	}
	if number != 0 {
		return number, nil
	}
	if err == nil {
		return 0, domainErrors.ErrPRResolveExhausted.
			WithContext("reason", "created pull request has no number")
	}
	return 0, domainErrors.NewHostingAPIError(operation, resp.StatusCode, err.Error()).
		WithContext("reason", "no open pull request for branch")
}

// findOpenPullRequest returns the number of the open pull request from the
// branch into the base branch, or 0 when there is none.
func (p *Publisher) findOpenPullRequest(ctx context.Context) (int, error) {
	callCtx, cancel := p.requestContext(ctx)
	defer cancel()

	open, resp, err := p.prService.List(callCtx, p.rc.Owner, p.rc.Repo, &github.PullRequestListOptions{
		State: "open",
		Head:  p.rc.Owner + ":" + p.rc.Branch,
		Base:  p.baseBranch,
	})
	if err != nil {
		return 0, apiError("list pull requests", resp, err)
	}
	for _, pr := range open {
		if pr.GetNumber() != 0 {
			return pr.GetNumber(), nil
		}
	}
	return 0, nil
}

func (p *Publisher) getPullRequest(ctx context.Context, number int) (*github.PullRequest, error) {
	callCtx, cancel := p.requestContext(ctx)
	defer cancel()

	pr, resp, err := p.prService.Get(callCtx, p.rc.Owner, p.rc.Repo, number)
	if err != nil {
		return nil, apiError("get pull request", resp, err)
	}
	return pr, nil
}

func (p *Publisher) updateBody(ctx context.Context, number int, body string) error {
	callCtx, cancel := p.requestContext(ctx)
	defer cancel()

	_, resp, err := p.prService.Edit(callCtx, p.rc.Owner, p.rc.Repo, number, &github.PullRequest{
		Body: github.Ptr(body),
	})
	if err != nil {
		return apiError("update pull request", resp, err)
	}
	return nil
}

func (p *Publisher) createStatus(ctx context.Context, status models.PublishStatus, targetURL string) error {
	callCtx, cancel := p.requestContext(ctx)
	defer cancel()

	_, resp, err := p.statusService.CreateStatus(callCtx, p.rc.Owner, p.rc.Repo, p.rc.SHA, &github.RepoStatus{
		State:       github.Ptr(commitState(status)),
		Context:     github.Ptr(p.statusContext),
		Description: github.Ptr(fmt.Sprintf("Pipeline status is: %s", status)),
		TargetURL:   github.Ptr(targetURL),
	})
	if err != nil {
		return apiError("create commit status", resp, err)
	}
	return nil
}

func (p *Publisher) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.rc.Timeout > 0 {
		return context.WithTimeout(ctx, p.rc.Timeout)
	}
	return context.WithCancel(ctx)
}

// commitState maps a publish status onto the states GitHub accepts. GitHub has
// no warning state, so warnings are posted as success and the description
// keeps the requested status.
func commitState(status models.PublishStatus) string {
	if status == models.StatusWarning {
		return string(models.StatusSuccess)
	}
	return string(status)
}

// PullRequestURL is the web page of pull request number on rc.
func PullRequestURL(rc models.RemoteContext, number int) string {
	return rc.RootURL + "/" + rc.Owner + "/" + rc.Repo + "/pull/" + strconv.Itoa(number)
}
