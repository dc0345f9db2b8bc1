package gitea

import (
	"context"
	"net/http"
	"strings"

	"github.com/macmacal/jaypore-ci/internal/errors"
	"github.com/macmacal/jaypore-ci/internal/logger"
	"github.com/macmacal/jaypore-ci/internal/models"
)

// AutoCreatedBody is the body of pull requests opened by the resolver.
const AutoCreatedBody = "Branch auto created by JayporeCI"

// DefaultMaxResolveAttempts bounds ResolvePullRequest when no limit is given.
const DefaultMaxResolveAttempts = 3

// ResolvePullRequest returns the pull request of the configured branch against
// base, opening one when needed.
//
// The resolver always asks Gitea to create the pull request. A 409 means it
// already exists and carries its id in the message, which is the steady state
// and also how concurrent runs converge on the same PR. A 201 does not reliably
// carry the id, so creation is attempted again until the conflict shows up, at
// most maxAttempts times.
func (c *Client) ResolvePullRequest(ctx context.Context, base string, maxAttempts int) (models.PullRequestHandle, error) {
	const operation = "create pull request"
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxResolveAttempts
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		resp, err := c.createPullRequest(ctx, base, c.rc.Branch, c.rc.Branch, AutoCreatedBody)
		if err != nil {
			return "", err
		}
		logger.Debug(ctx, "Get PR Id", "status_code", resp.StatusCode, "attempt", attempt)

		switch resp.StatusCode {
		case http.StatusConflict:
			handle, ok := ParseConflictHandle(string(resp.Body))
			if !ok {
				return "", errors.NewHostingAPIError(operation, resp.StatusCode, string(resp.Body)).
					WithContext("reason", "conflict without issue_id")
			}
			return handle, nil
		case http.StatusCreated:
			continue
		default:
			return "", errors.NewHostingAPIError(operation, resp.StatusCode, string(resp.Body))
		}
	}

	return "", errors.ErrPRResolveExhausted.
		WithContext("attempts", maxAttempts).
		WithContext("branch", c.rc.Branch)
}

// ParseConflictHandle extracts the id from a conflict message such as
// "pull request already exists for these targets [id: 7, issue_id: 7, ...]".
func ParseConflictHandle(message string) (models.PullRequestHandle, bool) {
	_, rest, found := strings.Cut(message, "issue_id:")
	if !found {
		return "", false
	}
	id, _, _ := strings.Cut(rest, ",")
	id = strings.TrimSpace(id)
	if id == "" {
		return "", false
	}
	return models.PullRequestHandle(id), true
}
