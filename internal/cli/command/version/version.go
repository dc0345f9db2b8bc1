package version

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/macmacal/jaypore-ci/internal/config"
	"github.com/macmacal/jaypore-ci/internal/i18n"
	appVersion "github.com/macmacal/jaypore-ci/internal/version"
)

type Command struct {
	out io.Writer
}

func NewCommand(out io.Writer) *Command {
	if out == nil {
		out = os.Stdout
	}
	return &Command{out: out}
}

func (c *Command) CreateCommand(t *i18n.Translations, _ *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: t.GetMessage("version_usage", 0, nil),
		Action: func(_ context.Context, _ *cli.Command) error {
			_, err := fmt.Fprintf(c.out, "jci %s\n", appVersion.FullVersion())
			return err
		},
	}
}
