package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/macmacal/jaypore-ci/internal/cli/command/publish"
	versioncmd "github.com/macmacal/jaypore-ci/internal/cli/command/version"
	"github.com/macmacal/jaypore-ci/internal/cli/registry"
	"github.com/macmacal/jaypore-ci/internal/config"
	"github.com/macmacal/jaypore-ci/internal/git"
	"github.com/macmacal/jaypore-ci/internal/i18n"
	"github.com/macmacal/jaypore-ci/internal/models"
	"github.com/macmacal/jaypore-ci/internal/vcs"
	vcsRegistry "github.com/macmacal/jaypore-ci/internal/vcs/registry"
	"github.com/macmacal/jaypore-ci/internal/version"
)

func main() {
	app, err := initializeApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "jci: %v\n", err)
		os.Exit(2)
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		os.Exit(1)
	}
}

func initializeApp() (*cli.Command, error) {
	cfgApp, err := config.LoadConfig(".")
	if err != nil {
		return nil, err
	}

	translations, err := i18n.NewTranslations(cfgApp.Language, os.Getenv("JCI_LOCALES_DIR"))
	if err != nil {
		return nil, err
	}

	gitService := git.NewGitService()
	providers := vcsRegistry.NewDefaultRegistry()
	publisherProvider := func(ctx context.Context, cfg *config.Config, log *slog.Logger) (vcs.Publisher, models.RemoteContext, error) {
		return providers.CreatePublisher(ctx, gitService, cfg, log)
	}

	commands := registry.NewRegistry(cfgApp, translations)
	if err := commands.Register("publish", publish.NewCommand(publisherProvider)); err != nil {
		return nil, err
	}
	if err := commands.Register("version", versioncmd.NewCommand(os.Stdout)); err != nil {
		return nil, err
	}

	return &cli.Command{
		Name:     "jci",
		Usage:    translations.GetMessage("app_usage", 0, nil),
		Version:  version.Version,
		Commands: commands.CreateCommands(),
	}, nil
}
