package vcs

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/macmacal/jaypore-ci/internal/models"
)

type MockRepoInfoProvider struct {
	mock.Mock
}

func (m *MockRepoInfoProvider) GetCurrentBranch(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockRepoInfoProvider) GetHeadSHA(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockRepoInfoProvider) GetRemoteInfo(ctx context.Context, remote string) (models.RemoteInfo, error) {
	args := m.Called(ctx, remote)
	return args.Get(0).(models.RemoteInfo), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, report string, status models.PublishStatus) error {
	args := m.Called(ctx, report, status)
	return args.Error(0)
}
