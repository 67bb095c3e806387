package wiki

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	appdb "notebook/app/internal/db"
)

// ErrPageNotFound indicates the requested wiki page does not exist.
var ErrPageNotFound = eris.New("wiki page not found")

// Repository defines persistence operations for wiki pages.
type Repository interface {
	Create(ctx context.Context, page *Page) error
	GetByID(ctx context.Context, id uint) (*Page, error)
	List(ctx context.Context) ([]Page, error)
	Update(ctx context.Context, page *Page) error
	Delete(ctx context.Context, id uint) error
}

// GormRepository persists pages using a Gorm database connection.
type GormRepository struct {
	conn   *gorm.DB
	logger *logrus.Logger
}

// NewRepository constructs a Gorm-backed repository implementation.
func NewRepository(conn *gorm.DB, logger *logrus.Logger) (*GormRepository, error) {
	if conn == nil {
		return nil, eris.New("gorm DB is required")
	}

	return &GormRepository{conn: conn, logger: logger}, nil
}

var _ Repository = (*GormRepository)(nil)

// Create inserts the page and populates its generated id. Zero-valued
// Created/Updated fields receive the current time, matching the schema
// defaults; caller-supplied timestamps are stored as given.
func (r *GormRepository) Create(ctx context.Context, page *Page) error {
	if page == nil {
		return eris.New("page is nil")
	}

	now := time.Now()
	if page.Created.IsZero() {
		page.Created = now
	}
	if page.Updated.IsZero() {
		page.Updated = now
	}

	if err := r.conn.WithContext(ctx).Create(page).Error; err != nil {
		r.logError(logrus.Fields{"title": page.Title}, err, "inserting wiki page")
		if appdb.IsConstraintViolation(err) {
			return eris.Wrap(appdb.ErrConstraintViolation, "inserting wiki page")
		}
		return eris.Wrap(err, "inserting wiki page")
	}

	return nil
}

// GetByID returns the page for the provided id or nil when not found.
func (r *GormRepository) GetByID(ctx context.Context, id uint) (*Page, error) {
	var page Page
	err := r.conn.WithContext(ctx).First(&page, id).Error
	if err != nil {
		if eris.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logError(logrus.Fields{"page_id": id}, err, "fetching wiki page by id")
		return nil, eris.Wrapf(err, "fetching wiki page by id: %d", id)
	}

	return &page, nil
}

// List returns every page ordered by title.
func (r *GormRepository) List(ctx context.Context) ([]Page, error) {
	var pages []Page

	if err := r.conn.WithContext(ctx).Order("title ASC").Find(&pages).Error; err != nil {
		r.logError(nil, err, "listing wiki pages")
		return nil, eris.Wrap(err, "listing wiki pages")
	}

	return pages, nil
}

// Update rewrites title, content and updated for the page's id, storing the
// Updated value exactly as given. Created and the id itself are never
// rewritten. Reports ErrPageNotFound when no row matched.
func (r *GormRepository) Update(ctx context.Context, page *Page) error {
	if page == nil {
		return eris.New("page is nil")
	}

	if page.ID == 0 {
		return eris.New("page id is required")
	}

	result := r.conn.WithContext(ctx).
		Model(&Page{}).
		Where("id = ?", page.ID).
		Updates(map[string]any{
			"title":   page.Title,
			"content": page.Content,
			"updated": page.Updated,
		})
	if result.Error != nil {
		r.logError(logrus.Fields{"page_id": page.ID}, result.Error, "updating wiki page")
		if appdb.IsConstraintViolation(result.Error) {
			return eris.Wrap(appdb.ErrConstraintViolation, "updating wiki page")
		}
		return eris.Wrapf(result.Error, "updating wiki page: %d", page.ID)
	}

	if result.RowsAffected == 0 {
		return eris.Wrapf(ErrPageNotFound, "updating wiki page: %d", page.ID)
	}

	return nil
}

// Delete removes the page with the provided id, reporting ErrPageNotFound
// when no row matched.
func (r *GormRepository) Delete(ctx context.Context, id uint) error {
	result := r.conn.WithContext(ctx).Delete(&Page{}, id)
	if result.Error != nil {
		r.logError(logrus.Fields{"page_id": id}, result.Error, "deleting wiki page")
		return eris.Wrapf(result.Error, "deleting wiki page: %d", id)
	}

	if result.RowsAffected == 0 {
		return eris.Wrapf(ErrPageNotFound, "deleting wiki page: %d", id)
	}

	return nil
}

func (r *GormRepository) logError(fields logrus.Fields, err error, message string) {
	if r.logger == nil {
		return
	}

	entry := r.logger.WithField("error", err.Error())
	if len(fields) > 0 {
		entry = entry.WithFields(fields)
	}
	entry.Error(message)
}
