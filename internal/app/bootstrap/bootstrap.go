package bootstrap

import (
	"context"

	"github.com/getsentry/sentry-go"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"notebook/app/internal/blog"
	"notebook/app/internal/config"
	appdb "notebook/app/internal/db"
	"notebook/app/internal/migrations"
	"notebook/app/internal/wiki"
)

// Dependencies carries the externally constructed pieces Build composes around.
type Dependencies struct {
	Config    config.Config
	Logger    *logrus.Logger
	SentryHub *sentry.Hub
}

// Result exposes the composed storage layer and a cleanup for its resources.
type Result struct {
	Blog     blog.Service
	Wiki     wiki.Service
	Database *gorm.DB
	Cleanup  func() error
}

// Build opens the database, applies the schema and wires the notebook services.
func Build(ctx context.Context, deps Dependencies) (Result, error) {
	conn, err := appdb.Open(appdb.Options{
		Path:        deps.Config.DBPath,
		BusyTimeout: deps.Config.BusyTimeout,
	})
	if err != nil {
		return Result{}, eris.Wrap(err, "opening database")
	}

	closeOnError := func(wrapper error) (Result, error) {
		if closeErr := appdb.Close(conn); closeErr != nil && deps.Logger != nil {
			deps.Logger.WithError(closeErr).Error("closing database after bootstrap failure")
		}
		return Result{}, wrapper
	}

	if err := migrations.Migrate(ctx, conn, deps.Logger); err != nil {
		return closeOnError(eris.Wrap(err, "applying notebook schema"))
	}

	blogRepo, err := blog.NewRepository(conn, deps.Logger)
	if err != nil {
		return closeOnError(eris.Wrap(err, "creating blog repository"))
	}

	blogService, err := blog.NewService(blogRepo, deps.Logger, deps.SentryHub)
	if err != nil {
		return closeOnError(eris.Wrap(err, "creating blog service"))
	}

	wikiRepo, err := wiki.NewRepository(conn, deps.Logger)
	if err != nil {
		return closeOnError(eris.Wrap(err, "creating wiki repository"))
	}

	wikiService, err := wiki.NewService(wikiRepo, deps.Logger, deps.SentryHub)
	if err != nil {
		return closeOnError(eris.Wrap(err, "creating wiki service"))
	}

	return Result{
		Blog:     blogService,
		Wiki:     wikiService,
		Database: conn,
		Cleanup: func() error {
			return appdb.Close(conn)
		},
	}, nil
}
