package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"

	domainErrors "github.com/macmacal/jaypore-ci/internal/errors"
	"github.com/macmacal/jaypore-ci/internal/models"
)

type PullRequestsService interface {
	Create(ctx context.Context, owner, repo string, pull *github.NewPullRequest) (*github.PullRequest, *github.Response, error)
	Get(ctx context.Context, owner, repo string, number int) (*github.PullRequest, *github.Response, error)
	Edit(ctx context.Context, owner, repo string, number int, pr *github.PullRequest) (*github.PullRequest, *github.Response, error)
	List(ctx context.Context, owner, repo string, opts *github.PullRequestListOptions) ([]*github.PullRequest, *github.Response, error)
}

type StatusesService interface {
	CreateStatus(ctx context.Context, owner, repo, ref string, status *github.RepoStatus) (*github.RepoStatus, *github.Response, error)
}

// statusesService posts commit statuses through the client's request plumbing.
type statusesService struct {
	client *github.Client
}

func (s *statusesService) CreateStatus(ctx context.Context, owner, repo, ref string, status *github.RepoStatus) (*github.RepoStatus, *github.Response, error) {
	u := fmt.Sprintf("repos/%v/%v/statuses/%v", url.PathEscape(owner), url.PathEscape(repo), url.PathEscape(ref))
	req, err := s.client.NewRequest(http.MethodPost, u, status)
	if err != nil {
		return nil, nil, err
	}

	created := new(github.RepoStatus)
	resp, err := s.client.Do(ctx, req, created)
	if err != nil {
		return nil, resp, err
	}
	return created, resp, nil
}

// newGitHubClient builds an authenticated go-github client for rc. Hosts other
// than github.com are treated as GitHub Enterprise.
func newGitHubClient(rc models.RemoteContext) (*github.Client, error) {
	var httpClient *http.Client
	if rc.Token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: rc.Token})
		httpClient = oauth2.NewClient(context.Background(), ts)
	} else {
		httpClient = &http.Client{}
	}
	httpClient.Timeout = rc.Timeout

	client := github.NewClient(httpClient)
	if rc.APIURL == "" || rc.APIURL == "https://api.github.com" {
		return client, nil
	}

	enterprise, err := client.WithEnterpriseURLs(rc.APIURL, rc.APIURL)
	if err != nil {
		return nil, domainErrors.ErrInvalidConfig.
			WithError(err).
			WithContext("api_url", rc.APIURL)
	}
	return enterprise, nil
}

// apiError converts a go-github failure into a domain error, keeping the HTTP
// status when the server answered.
func apiError(operation string, resp *github.Response, err error) error {
	if resp != nil && resp.Response != nil {
		return domainErrors.NewHostingAPIError(operation, resp.StatusCode, err.Error())
	}
	return domainErrors.ErrHostingRequest.
		WithError(err).
		WithContext("operation", operation)
}
