package publish

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/macmacal/jaypore-ci/internal/config"
	"github.com/macmacal/jaypore-ci/internal/errors"
	"github.com/macmacal/jaypore-ci/internal/i18n"
	"github.com/macmacal/jaypore-ci/internal/logger"
	"github.com/macmacal/jaypore-ci/internal/models"
	"github.com/macmacal/jaypore-ci/internal/ui"
	"github.com/macmacal/jaypore-ci/internal/vcs"
	"github.com/macmacal/jaypore-ci/internal/vcs/report"
)

// PublisherProvider builds the publisher of one run together with the remote
// context it publishes to. log carries the run log.
type PublisherProvider func(ctx context.Context, cfg *config.Config, log *slog.Logger) (vcs.Publisher, models.RemoteContext, error)

type Command struct {
	providePublisher PublisherProvider
	stdin            io.Reader
	stdout           io.Writer
	stderr           io.Writer
}

type Option func(*Command)

func WithIO(stdin io.Reader, stdout, stderr io.Writer) Option {
	return func(c *Command) {
		c.stdin = stdin
		c.stdout = stdout
		c.stderr = stderr
	}
}

func NewCommand(provider PublisherProvider, opts ...Option) *Command {
	c := &Command{
		providePublisher: provider,
		stdin:            os.Stdin,
		stdout:           os.Stdout,
		stderr:           os.Stderr,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Command) CreateCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "publish",
		Usage: t.GetMessage("publish_usage", 0, nil),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "status",
				Aliases:  []string{"s"},
				Usage:    t.GetMessage("flag_status_usage", 0, nil),
				Required: true,
			},
			&cli.StringFlag{
				Name:    "report-file",
				Aliases: []string{"f"},
				Usage:   t.GetMessage("flag_report_file_usage", 0, nil),
			},
			&cli.BoolFlag{
				Name:  "raw",
				Usage: t.GetMessage("flag_raw_usage", 0, nil),
			},
			&cli.StringFlag{
				Name:  "log-file",
				Usage: t.GetMessage("flag_log_file_usage", 0, nil),
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   t.GetMessage("flag_config_usage", 0, nil),
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: t.GetMessage("flag_debug_usage", 0, nil),
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: t.GetMessage("flag_verbose_usage", 0, nil),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			err := c.run(ctx, cmd, t, cfg)
			if err != nil {
				ui.HandleAppError(c.stderr, err, t)
			}
			return err
		},
	}
}

func (c *Command) run(ctx context.Context, cmd *cli.Command, t *i18n.Translations, cfg *config.Config) error {
	// An invalid status must fail before git or the network are touched.
	status, err := models.ParsePublishStatus(cmd.String("status"))
	if err != nil {
		return err
	}

	if path := cmd.String("config"); path != "" {
		cfg, err = config.LoadConfig(path)
		if err != nil {
			return err
		}
		if err := t.SetLanguage(cfg.Language); err != nil {
			ui.PrintWarning(c.stderr, err.Error())
		}
	}

	text, err := c.readReport(cmd.String("report-file"))
	if err != nil {
		return errors.NewAppError(errors.TypeInternal, t.GetMessage("error_read_report", 0, nil), err)
	}
	if !cmd.Bool("raw") {
		text = report.Render(status, text)
	}

	runLog := logger.NewRunLog()
	console := logger.New(c.stderr, cmd.Bool("debug"), cmd.Bool("verbose")).Handler()
	log := runLog.Logger(console, slog.LevelDebug)
	ctx = logger.WithLogger(ctx, log)

	rc, publishErr := c.publish(ctx, cfg, log, text, status)
	if publishErr != nil {
		logger.Error(ctx, t.GetMessage("error_publish", 0, nil), publishErr)
	}

	if path := cmd.String("log-file"); path != "" {
		if err := writeRunLog(path, runLog); err != nil {
			if publishErr != nil {
				ui.PrintWarning(c.stderr, t.GetMessage("error_write_log", 0, nil)+": "+err.Error())
				return publishErr
			}
			return errors.NewAppError(errors.TypeInternal, t.GetMessage("error_write_log", 0, nil), err).
				WithContext("path", path)
		}
		ui.PrintInfo(c.stdout, t.GetMessage("log_lines_written", len(runLog.Lines()), map[string]interface{}{
			"Count": len(runLog.Lines()),
			"Path":  path,
		}))
	}

	if publishErr != nil {
		return publishErr
	}

	ui.PrintSuccess(c.stdout, t.GetMessage("publish_success", 0, map[string]interface{}{
		"Status": string(status),
		"SHA":    shortSHA(rc.SHA),
		"Remote": rc.FullName(),
	}))
	if rc.Branch != "" {
		ui.PrintKeyValue(c.stdout, t.GetMessage("label_branch", 0, nil), rc.Branch)
	}
	return nil
}

func (c *Command) publish(ctx context.Context, cfg *config.Config, log *slog.Logger, text string, status models.PublishStatus) (models.RemoteContext, error) {
	publisher, rc, err := c.providePublisher(ctx, cfg, log)
	if err != nil {
		return models.RemoteContext{}, err
	}
	logger.Info(ctx, "publishing report", "repo", rc.FullName(), "sha", rc.SHA, "status", string(status))
	return rc, publisher.Publish(ctx, text, status)
}

func shortSHA(sha string) string {
	if len(sha) > 12 {
		return sha[:12]
	}
	return sha
}

func (c *Command) readReport(path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "" || path == "-" {
		data, err = io.ReadAll(c.stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(data), "\n"), nil
}

func writeRunLog(path string, runLog *logger.RunLog) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := runLog.WriteTo(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
