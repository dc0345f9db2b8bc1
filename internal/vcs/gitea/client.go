package gitea

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/macmacal/jaypore-ci/internal/errors"
	"github.com/macmacal/jaypore-ci/internal/httpclient"
	"github.com/macmacal/jaypore-ci/internal/logger"
	"github.com/macmacal/jaypore-ci/internal/models"
)

// Client talks to the Gitea REST API (v1) of a single repository.
type Client struct {
	rc         models.RemoteContext
	httpClient httpclient.HTTPClient
}

type ClientOption func(*Client)

// WithHTTPClient replaces the default authenticated client.
func WithHTTPClient(c httpclient.HTTPClient) ClientOption {
	return func(client *Client) {
		client.httpClient = c
	}
}

func NewClient(rc models.RemoteContext, opts ...ClientOption) *Client {
	c := &Client{rc: rc}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = httpclient.New(
			httpclient.WithTimeout(rc.Timeout),
			httpclient.WithToken(apiHost(rc.APIURL), rc.Token),
		)
	}
	return c
}

type (
	createPullRequestOption struct {
		Base  string `json:"base"`
		Head  string `json:"head"`
		Title string `json:"title"`
		Body  string `json:"body"`
	}

	editPullRequestOption struct {
		Body string `json:"body"`
	}

	createStatusOption struct {
		Context     string `json:"context"`
		Description string `json:"description"`
		State       string `json:"state"`
		TargetURL   string `json:"target_url"`
	}

	pullRequest struct {
		Number  int64  `json:"number"`
		Title   string `json:"title"`
		Body    string `json:"body"`
		HTMLURL string `json:"html_url"`
	}
)

// response is a fully read API response.
type response struct {
	StatusCode int
	Body       []byte
}

func (r response) ok() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

func (c *Client) repoPath(parts ...string) string {
	escaped := make([]string, 0, len(parts)+3)
	escaped = append(escaped, "repos", url.PathEscape(c.rc.Owner), url.PathEscape(c.rc.Repo))
	for _, p := range parts {
		escaped = append(escaped, url.PathEscape(p))
	}
	return "/" + strings.Join(escaped, "/")
}

// do sends one request bounded by the context timeout. Only transport and
// encoding failures are returned as errors; HTTP statuses are left to callers.
func (c *Client) do(ctx context.Context, operation, method, path string, payload interface{}) (response, error) {
	if c.rc.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.rc.Timeout)
		defer cancel()
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return response{}, errors.ErrHostingRequest.WithError(err).WithContext("operation", operation)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.rc.APIURL+path, body)
	if err != nil {
		return response{}, errors.ErrHostingRequest.WithError(err).WithContext("operation", operation)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return response{}, errors.ErrHostingRequest.WithError(err).WithContext("operation", operation)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return response{}, errors.ErrHostingRequest.WithError(fmt.Errorf("reading response: %w", err)).
			WithContext("operation", operation).
			WithContext("status_code", resp.StatusCode)
	}

	logger.Debug(ctx, operation, "method", method, "path", path, "status_code", resp.StatusCode)
	return response{StatusCode: resp.StatusCode, Body: data}, nil
}

// createPullRequest sends a single creation attempt and returns the raw answer.
func (c *Client) createPullRequest(ctx context.Context, base, head, title, body string) (response, error) {
	return c.do(ctx, "create pull request", http.MethodPost, c.repoPath("pulls"), createPullRequestOption{
		Base:  base,
		Head:  head,
		Title: title,
		Body:  body,
	})
}

// GetPullRequest reads a pull request. Anything but 200 is an error.
func (c *Client) GetPullRequest(ctx context.Context, handle models.PullRequestHandle) (models.PullRequest, error) {
	const operation = "get pull request"
	resp, err := c.do(ctx, operation, http.MethodGet, c.repoPath("pulls", string(handle)), nil)
	if err != nil {
		return models.PullRequest{}, err
	}
	if resp.StatusCode != http.StatusOK {
		return models.PullRequest{}, errors.NewHostingAPIError(operation, resp.StatusCode, string(resp.Body)).
			WithContext("pr", string(handle))
	}

	var pr pullRequest
	if err := json.Unmarshal(resp.Body, &pr); err != nil {
		return models.PullRequest{}, errors.NewHostingAPIError(operation, resp.StatusCode, string(resp.Body)).
			WithError(fmt.Errorf("decoding pull request: %w", err))
	}

	return models.PullRequest{
		Handle: handle,
		Title:  pr.Title,
		Body:   pr.Body,
		URL:    pr.HTMLURL,
	}, nil
}

// UpdatePullRequestBody replaces the body of a pull request.
func (c *Client) UpdatePullRequestBody(ctx context.Context, handle models.PullRequestHandle, body string) error {
	const operation = "update pull request"
	resp, err := c.do(ctx, operation, http.MethodPatch, c.repoPath("pulls", string(handle)), editPullRequestOption{Body: body})
	if err != nil {
		return err
	}
	if !resp.ok() {
		return errors.NewHostingAPIError(operation, resp.StatusCode, string(resp.Body)).
			WithContext("pr", string(handle))
	}
	return nil
}

// CreateCommitStatus posts status for sha.
func (c *Client) CreateCommitStatus(ctx context.Context, sha string, status models.CommitStatus) error {
	const operation = "create commit status"
	resp, err := c.do(ctx, operation, http.MethodPost, c.repoPath("statuses", sha), createStatusOption{
		Context:     status.Context,
		Description: status.Description,
		State:       string(status.State),
		TargetURL:   status.TargetURL,
	})
	if err != nil {
		return err
	}
	if !resp.ok() {
		return errors.NewHostingAPIError(operation, resp.StatusCode, string(resp.Body)).
			WithContext("sha", sha)
	}
	return nil
}

// PullRequestURL is the web page of a pull request, used as status target.
func (c *Client) PullRequestURL(handle models.PullRequestHandle) string {
	return fmt.Sprintf("%s/%s/%s/pulls/%s", c.rc.RootURL, c.rc.Owner, c.rc.Repo, handle)
}

func apiHost(apiURL string) string {
	u, err := url.Parse(apiURL)
	if err != nil {
		return ""
	}
	return u.Host
}
