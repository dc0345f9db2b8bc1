package github

import (
	"context"

	"github.com/google/go-github/v80/github"
	"github.com/stretchr/testify/mock"
)

type MockPRService struct {
	mock.Mock
}

func (m *MockPRService) Create(ctx context.Context, owner, repo string, pull *github.NewPullRequest) (*github.PullRequest, *github.Response, error) {
	args := m.Called(ctx, owner, repo, pull)
	return prResult(args)
}

func (m *MockPRService) Get(ctx context.Context, owner, repo string, number int) (*github.PullRequest, *github.Response, error) {
	args := m.Called(ctx, owner, repo, number)
	return prResult(args)
}

func (m *MockPRService) Edit(ctx context.Context, owner, repo string, number int, pr *github.PullRequest) (*github.PullRequest, *github.Response, error) {
	args := m.Called(ctx, owner, repo, number, pr)
	return prResult(args)
}

func (m *MockPRService) List(ctx context.Context, owner, repo string, opts *github.PullRequestListOptions) ([]*github.PullRequest, *github.Response, error) {
	args := m.Called(ctx, owner, repo, opts)
	var prs []*github.PullRequest
	if v := args.Get(0); v != nil {
		prs = v.([]*github.PullRequest)
	}
	return prs, response(args.Get(1)), args.Error(2)
}

type MockStatusesService struct {
	mock.Mock
}

func (m *MockStatusesService) CreateStatus(ctx context.Context, owner, repo, ref string, status *github.RepoStatus) (*github.RepoStatus, *github.Response, error) {
	args := m.Called(ctx, owner, repo, ref, status)
	var created *github.RepoStatus
	if v := args.Get(0); v != nil {
		created = v.(*github.RepoStatus)
	}
	return created, response(args.Get(1)), args.Error(2)
}

func prResult(args mock.Arguments) (*github.PullRequest, *github.Response, error) {
	var pr *github.PullRequest
	if v := args.Get(0); v != nil {
		pr = v.(*github.PullRequest)
	}
	return pr, response(args.Get(1)), args.Error(2)
}

func response(v interface{}) *github.Response {
	if v == nil {
		return nil
	}
	return v.(*github.Response)
}
