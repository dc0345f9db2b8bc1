package git

import (
	"bytes"
	"context"
	"os/exec"
	"regexp"
	"strings"

	"github.com/macmacal/jaypore-ci/internal/config"
	"github.com/macmacal/jaypore-ci/internal/errors"
	"github.com/macmacal/jaypore-ci/internal/models"
)

// GitService reads the repository metadata a publish run needs.
type GitService struct {
	dir string
}

func NewGitService() *GitService {
	return &GitService{}
}

// NewGitServiceAt runs git inside dir instead of the working directory.
func NewGitServiceAt(dir string) *GitService {
	return &GitService{dir: dir}
}

func (s *GitService) run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = s.dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	output, err := cmd.Output()
	if err != nil {
		return strings.TrimSpace(stderr.String()), err
	}
	return strings.TrimSpace(string(output)), nil
}

func (s *GitService) GetCurrentBranch(ctx context.Context) (string, error) {
	branch, err := s.run(ctx, "branch", "--show-current")
	if err != nil {
		return "", errors.ErrGetBranch.WithError(err).WithContext("stderr", branch)
	}
	if branch == "" {
		return "", errors.ErrNoBranch
	}
	return branch, nil
}

// GetHeadSHA returns the full SHA of HEAD.
func (s *GitService) GetHeadSHA(ctx context.Context) (string, error) {
	sha, err := s.run(ctx, "rev-parse", "HEAD")
	if err != nil {
		return "", errors.ErrGetCommit.WithError(err).WithContext("stderr", sha)
	}
	return sha, nil
}

func (s *GitService) GetRemoteURL(ctx context.Context, remote string) (string, error) {
	url, err := s.run(ctx, "remote", "get-url", remote)
	if err != nil {
		return "", errors.ErrGetRepoURL.WithError(err).
			WithContext("remote", remote).
			WithContext("stderr", url)
	}
	return url, nil
}

// GetRemoteInfo resolves the hosting coordinates of remote.
func (s *GitService) GetRemoteInfo(ctx context.Context, remote string) (models.RemoteInfo, error) {
	url, err := s.GetRemoteURL(ctx, remote)
	if err != nil {
		return models.RemoteInfo{}, err
	}
	return ParseRemoteURL(url)
}

var (
	httpsRemoteRe = regexp.MustCompile(`^(https?)://(?:[^@/]+@)?([^/]+)/([^/]+)/([^/]+?)(?:\.git)?/?$`)
	sshURLRe      = regexp.MustCompile(`^ssh://(?:[^@/]+@)?([^/:]+)(?::\d+)?/([^/]+)/([^/]+?)(?:\.git)?/?$`)
	scpRemoteRe   = regexp.MustCompile(`^(?:[^@/]+@)?([^:/]+):([^/]+)/([^/]+?)(?:\.git)?/?$`)
)

// ParseRemoteURL extracts scheme, host, owner and repo from a git remote URL.
// SSH remotes are mapped to https on the same host since the hosting API is
// only reachable over http(s).
func ParseRemoteURL(url string) (models.RemoteInfo, error) {
	url = strings.TrimSpace(url)

	if m := httpsRemoteRe.FindStringSubmatch(url); m != nil {
		return models.RemoteInfo{Scheme: m[1], Host: m[2], Owner: m[3], Repo: m[4]}, nil
	}
	if m := sshURLRe.FindStringSubmatch(url); m != nil {
		return models.RemoteInfo{Scheme: "https", Host: m[1], Owner: m[2], Repo: m[3]}, nil
	}
	if m := scpRemoteRe.FindStringSubmatch(url); m != nil {
		return models.RemoteInfo{Scheme: "https", Host: m[1], Owner: m[2], Repo: m[3]}, nil
	}

	return models.RemoteInfo{}, errors.ErrUnsupportedRemote.WithContext("url", url)
}

// DetectProvider guesses the hosting API from the remote host. github.com and
// hosts named github.* are GitHub; anything else is treated as a Gitea instance.
func DetectProvider(host string) string {
	name, _, _ := strings.Cut(strings.ToLower(host), ":")
	if name == "github.com" || strings.HasSuffix(name, ".github.com") || strings.HasPrefix(name, "github.") {
		return config.ProviderGitHub
	}
	return config.ProviderGitea
}
