package blog

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	appdb "notebook/app/internal/db"
)

// ErrEntryNotFound indicates the requested entry does not exist.
var ErrEntryNotFound = eris.New("entry not found")

// Repository defines persistence operations for journal entries.
type Repository interface {
	Create(ctx context.Context, entry *Entry) error
	GetByID(ctx context.Context, id uint) (*Entry, error)
	List(ctx context.Context) ([]Entry, error)
	Delete(ctx context.Context, id uint) error
}

// GormRepository persists entries using a Gorm database connection.
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

// Create inserts the entry and populates its generated id. Writes rejected by
// a schema rule surface as ErrConstraintViolation.
func (r *GormRepository) Create(ctx context.Context, entry *Entry) error {
	if entry == nil {
		return eris.New("entry is nil")
	}

	if err := r.conn.WithContext(ctx).Create(entry).Error; err != nil {
		r.logError(logrus.Fields{"title": entry.Title}, err, "inserting entry")
		if appdb.IsConstraintViolation(err) {
			return eris.Wrap(appdb.ErrConstraintViolation, "inserting entry")
		}
		return eris.Wrap(err, "inserting entry")
	}

	return nil
}

// GetByID returns the entry for the provided id or nil when not found.
func (r *GormRepository) GetByID(ctx context.Context, id uint) (*Entry, error) {
	var entry Entry
	err := r.conn.WithContext(ctx).First(&entry, id).Error
	if err != nil {
		if eris.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logError(logrus.Fields{"entry_id": id}, err, "fetching entry by id")
		return nil, eris.Wrapf(err, "fetching entry by id: %d", id)
	}

	return &entry, nil
}

// List returns every entry, newest first.
func (r *GormRepository) List(ctx context.Context) ([]Entry, error) {
	var entries []Entry

	if err := r.conn.WithContext(ctx).Order("id DESC").Find(&entries).Error; err != nil {
		r.logError(nil, err, "listing entries")
		return nil, eris.Wrap(err, "listing entries")
	}

	return entries, nil
}

// Delete removes the entry with the provided id, reporting ErrEntryNotFound
// when no row matched.
func (r *GormRepository) Delete(ctx context.Context, id uint) error {
	result := r.conn.WithContext(ctx).Delete(&Entry{}, id)
	if result.Error != nil {
		r.logError(logrus.Fields{"entry_id": id}, result.Error, "deleting entry")
		return eris.Wrapf(result.Error, "deleting entry: %d", id)
	}

	if result.RowsAffected == 0 {
		return eris.Wrapf(ErrEntryNotFound, "deleting entry: %d", id)
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
