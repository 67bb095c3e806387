package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"notebook/app/internal/app/bootstrap"
	"notebook/app/internal/config"
	applog "notebook/app/internal/log"
	"notebook/app/internal/migrations"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "notebook",
		Short:         "Operator tooling for the notebook storage layer",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newInitDBCommand())

	return root
}

func newInitDBCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "initdb",
		Short: "Drop and recreate the entries and wiki_pages tables",
		Long: "Initialises the notebook database by dropping and recreating both tables.\n" +
			"All existing data is discarded, so a populated database is refused unless --force is given.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInitDB(cmd.Context(), force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "reset the database even when it already holds data")

	return cmd
}

func runInitDB(ctx context.Context, force bool) error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return eris.Wrap(err, "failure loading configuration")
	}

	logger, err := applog.NewLogger(cfg.LogLevel)
	if err != nil {
		return eris.Wrap(err, "failure initialising logger")
	}

	sentryHub, flush, err := applog.InitSentry(logger, applog.SentrySettings{
		DSN:         cfg.SentryDSN,
		Environment: cfg.Environment,
	})
	if err != nil {
		return eris.Wrap(err, "failure initialising sentry")
	}
	defer flush()

	result, err := bootstrap.Build(ctx, bootstrap.Dependencies{
		Config:    *cfg,
		Logger:    logger,
		SentryHub: sentryHub,
	})
	if err != nil {
		return eris.Wrap(err, "composing storage layer")
	}
	defer func() {
		if closeErr := result.Cleanup(); closeErr != nil {
			logger.WithError(closeErr).Error("closing database")
		}
	}()

	populated, err := migrations.HasData(ctx, result.Database)
	if err != nil {
		return eris.Wrap(err, "inspecting existing data")
	}

	if populated && !force {
		return eris.New("database already holds data; rerun with --force to discard it")
	}

	if err := migrations.Reset(ctx, result.Database, logger); err != nil {
		return eris.Wrap(err, "resetting database")
	}

	logger.WithField("db_path", cfg.DBPath).Info("initialized the database")
	return nil
}
