package migrations

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"notebook/app/internal/blog"
	"notebook/app/internal/wiki"
)

// Migrate applies the full notebook schema, creating the entries and
// wiki_pages tables when they are missing. Existing data is preserved.
func Migrate(ctx context.Context, conn *gorm.DB, logger *logrus.Logger) error {
	if conn == nil {
		return eris.New("gorm DB is required")
	}

	if err := blog.Migrate(ctx, conn, logger); err != nil {
		return eris.Wrap(err, "migrating entries")
	}

	if err := wiki.Migrate(ctx, conn, logger); err != nil {
		return eris.Wrap(err, "migrating wiki pages")
	}

	return nil
}

// Reset drops both tables unconditionally and recreates them empty. Any
// existing data is discarded; callers guard for operator intent.
func Reset(ctx context.Context, conn *gorm.DB, logger *logrus.Logger) error {
	if conn == nil {
		return eris.New("gorm DB is required")
	}

	if logger != nil {
		logger.WithField("component", "migrations.reset").Warn("dropping notebook tables")
	}

	migrator := conn.WithContext(ctx).Migrator()
	if err := migrator.DropTable(&blog.Entry{}, &wiki.Page{}); err != nil {
		return eris.Wrap(err, "dropping notebook tables")
	}

	return Migrate(ctx, conn, logger)
}

// HasData reports whether either table exists and holds at least one row.
func HasData(ctx context.Context, conn *gorm.DB) (bool, error) {
	if conn == nil {
		return false, eris.New("gorm DB is required")
	}

	migrator := conn.WithContext(ctx).Migrator()

	if migrator.HasTable(&blog.Entry{}) {
		var count int64
		if err := conn.WithContext(ctx).Model(&blog.Entry{}).Count(&count).Error; err != nil {
			return false, eris.Wrap(err, "counting entries")
		}
		if count > 0 {
			return true, nil
		}
	}

	if migrator.HasTable(&wiki.Page{}) {
		var count int64
		if err := conn.WithContext(ctx).Model(&wiki.Page{}).Count(&count).Error; err != nil {
			return false, eris.Wrap(err, "counting wiki pages")
		}
		if count > 0 {
			return true, nil
		}
	}

	return false, nil
}
