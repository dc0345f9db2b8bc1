package publish

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/macmacal/jaypore-ci/internal/config"
	domainErrors "github.com/macmacal/jaypore-ci/internal/errors"
	"github.com/macmacal/jaypore-ci/internal/i18n"
	"github.com/macmacal/jaypore-ci/internal/models"
	"github.com/macmacal/jaypore-ci/internal/vcs"
	"github.com/macmacal/jaypore-ci/internal/vcs/report"
)

func init() {
	color.NoColor = true
}

var testRemote = models.RemoteContext{
	Owner:  "fake_owner",
	Repo:   "fake_repo",
	Branch: "feature/x",
	SHA:    "0123456789abcdef0123456789abcdef01234567",
}

type harness struct {
	publisher *vcs.MockPublisher
	calls     int
	stdout    bytes.Buffer
	stderr    bytes.Buffer
	root      *cli.Command
}

func newHarness(t *testing.T, stdin string) *harness {
	t.Helper()
	trans, err := i18n.NewTranslations("en", "")
	require.NoError(t, err)

	h := &harness{publisher: &vcs.MockPublisher{}}
	provider := func(_ context.Context, _ *config.Config, log *slog.Logger) (vcs.Publisher, models.RemoteContext, error) {
		h.calls++
		require.NotNil(t, log)
		return h.publisher, testRemote, nil
	}

	cmd := NewCommand(provider, WithIO(strings.NewReader(stdin), &h.stdout, &h.stderr)).
		CreateCommand(trans, config.Default())
	h.root = &cli.Command{Name: "jci", Commands: []*cli.Command{cmd}}
	return h
}

func (h *harness) run(args ...string) error {
	return h.root.Run(context.Background(), append([]string{"jci", "publish"}, args...))
}

func TestPublishCommand(t *testing.T) {
	t.Run("should reject an invalid status before building a publisher", func(t *testing.T) {
		h := newHarness(t, "report")

		err := h.run("--status", "passed")

		require.Error(t, err)
		assert.True(t, errors.Is(err, domainErrors.ErrInvalidStatus))
		assert.Equal(t, 0, h.calls)
		assert.Contains(t, h.stderr.String(), "invalid publish status")
		h.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("should wrap the report read from stdin", func(t *testing.T) {
		h := newHarness(t, "lint ok\ntests ok\n")
		expected := report.Render(models.StatusSuccess, "lint ok\ntests ok")
		h.publisher.On("Publish", mock.Anything, expected, models.StatusSuccess).Return(nil)

		err := h.run("--status", "success")

		require.NoError(t, err)
		h.publisher.AssertExpectations(t)
		assert.Contains(t, h.stdout.String(), "Published success for 0123456789ab on fake_owner/fake_repo")
		assert.Contains(t, h.stdout.String(), "Branch: feature/x")
	})

	t.Run("should report where the run log was written", func(t *testing.T) {
		h := newHarness(t, "report")
		logPath := filepath.Join(t.TempDir(), "run.log")
		h.publisher.On("Publish", mock.Anything, mock.Anything, models.StatusSuccess).Return(nil)

		err := h.run("--status", "success", "--log-file", logPath)

		require.NoError(t, err)
		assert.Contains(t, h.stdout.String(), "Wrote 1 log line to "+logPath)
	})

	t.Run("should publish a report file verbatim with --raw", func(t *testing.T) {
		h := newHarness(t, "")
		path := filepath.Join(t.TempDir(), "report.txt")
		require.NoError(t, os.WriteFile(path, []byte("STATUS: failure\n"), 0644))
		h.publisher.On("Publish", mock.Anything, "STATUS: failure", models.StatusFailure).Return(nil)

		err := h.run("--status", "failure", "--report-file", path, "--raw")

		require.NoError(t, err)
		h.publisher.AssertExpectations(t)
	})

	t.Run("should fail on a missing report file", func(t *testing.T) {
		h := newHarness(t, "")

		err := h.run("--status", "success", "--report-file", filepath.Join(t.TempDir(), "missing.txt"))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "could not read the report")
		assert.Equal(t, 0, h.calls)
	})

	t.Run("should write the run log even when publishing fails", func(t *testing.T) {
		h := newHarness(t, "report")
		logPath := filepath.Join(t.TempDir(), "run.log")
		publishErr := domainErrors.NewHostingAPIError("get pull request", 404, "not found")
		h.publisher.On("Publish", mock.Anything, mock.Anything, models.StatusError).Return(publishErr)

		err := h.run("--status", "error", "--log-file", logPath)

		require.Error(t, err)
		assert.True(t, errors.Is(err, domainErrors.ErrHostingAPI))

		data, readErr := os.ReadFile(logPath)
		require.NoError(t, readErr)
		lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
		require.Len(t, lines, 2)
		assert.Contains(t, lines[0], "[INFO ] publishing report")
		assert.Contains(t, lines[0], "repo=fake_owner/fake_repo")
		assert.Contains(t, lines[1], "[ERROR] publishing failed")
		assert.NotContains(t, string(data), "run_id=")
		assert.Contains(t, h.stderr.String(), "HTTP 404")
	})

	t.Run("should load an explicit config file", func(t *testing.T) {
		h := newHarness(t, "report")
		path := filepath.Join(t.TempDir(), "broken.toml")
		require.NoError(t, os.WriteFile(path, []byte("timeout = ["), 0644))

		err := h.run("--status", "pending", "--config", path)

		assert.True(t, errors.Is(err, domainErrors.ErrConfigRead))
		assert.Equal(t, 0, h.calls)
	})

	t.Run("should warn about an unknown language in an explicit config file", func(t *testing.T) {
		h := newHarness(t, "report")
		path := filepath.Join(t.TempDir(), "ci.toml")
		require.NoError(t, os.WriteFile(path, []byte(`language = "de"`), 0644))
		h.publisher.On("Publish", mock.Anything, mock.Anything, models.StatusPending).Return(nil)

		err := h.run("--status", "pending", "--config", path)

		require.NoError(t, err)
		assert.Contains(t, h.stderr.String(), "language 'de' not supported")
		assert.Contains(t, h.stdout.String(), "Published pending")
	})

	t.Run("should fail on a missing explicit config file", func(t *testing.T) {
		h := newHarness(t, "report")

		err := h.run("--status", "success", "--config", filepath.Join(t.TempDir(), "custom.toml"))

		require.Error(t, err)
		assert.True(t, errors.Is(err, domainErrors.ErrConfigRead))
		assert.Equal(t, 0, h.calls)
		h.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("should require a status", func(t *testing.T) {
		h := newHarness(t, "report")

		err := h.run()

		assert.Error(t, err)
		assert.Equal(t, 0, h.calls)
	})
}
