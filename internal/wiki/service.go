package wiki

import (
	"context"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
)

// Service defines higher-level wiki operations built on top of the repository.
// Unlike the repository it owns the updated-timestamp invariant: every
// mutation refreshes Updated, and Updated never precedes Created.
type Service interface {
	CreatePage(ctx context.Context, title, content string) (*Page, error)
	GetPage(ctx context.Context, id uint) (*Page, error)
	ListPages(ctx context.Context) ([]Page, error)
	UpdatePage(ctx context.Context, id uint, title, content string) (*Page, error)
	DeletePage(ctx context.Context, id uint) error
}

type service struct {
	repo      Repository
	logger    *logrus.Logger
	sentryHub *sentry.Hub
}

var _ Service = (*service)(nil)

// NewService wires the wiki service with its dependencies.
func NewService(repo Repository, logger *logrus.Logger, hub *sentry.Hub) (Service, error) {
	if repo == nil {
		return nil, eris.New("wiki repository is required")
	}

	return &service{repo: repo, logger: logger, sentryHub: hub}, nil
}

// CreatePage persists a new wiki page stamped with the current time.
func (s *service) CreatePage(ctx context.Context, title, content string) (*Page, error) {
	page := &Page{Title: title, Content: content}

	if err := s.repo.Create(ctx, page); err != nil {
		s.recordError(logrus.Fields{"title": title}, err, "persisting new wiki page")
		return nil, eris.Wrap(err, "creating wiki page")
	}

	return page, nil
}

func (s *service) GetPage(ctx context.Context, id uint) (*Page, error) {
	page, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.recordError(logrus.Fields{"page_id": id}, err, "retrieving wiki page from repository")
		return nil, eris.Wrapf(err, "retrieving wiki page: %d", id)
	}

	if page == nil {
		return nil, eris.Wrapf(ErrPageNotFound, "retrieving wiki page: %d", id)
	}

	return page, nil
}

func (s *service) ListPages(ctx context.Context) ([]Page, error) {
	pages, err := s.repo.List(ctx)
	if err != nil {
		s.recordError(nil, err, "listing wiki pages")
		return nil, eris.Wrap(err, "listing wiki pages")
	}

	return pages, nil
}

// UpdatePage replaces the page's title and content and refreshes Updated.
// Updated is clamped to Created so it never moves backwards on a skewed clock.
func (s *service) UpdatePage(ctx context.Context, id uint, title, content string) (*Page, error) {
	page, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.recordError(logrus.Fields{"page_id": id}, err, "retrieving wiki page for update")
		return nil, eris.Wrapf(err, "updating wiki page: %d", id)
	}

	if page == nil {
		return nil, eris.Wrapf(ErrPageNotFound, "updating wiki page: %d", id)
	}

	now := time.Now()
	if now.Before(page.Created) {
		now = page.Created
	}

	page.Title = title
	page.Content = content
	page.Updated = now

	if err := s.repo.Update(ctx, page); err != nil {
		s.recordError(logrus.Fields{"page_id": id}, err, "persisting wiki page update")
		return nil, eris.Wrapf(err, "updating wiki page: %d", id)
	}

	return page, nil
}

func (s *service) DeletePage(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if !eris.Is(err, ErrPageNotFound) {
			s.recordError(logrus.Fields{"page_id": id}, err, "deleting wiki page")
		}
		return eris.Wrapf(err, "deleting wiki page: %d", id)
	}

	return nil
}

func (s *service) recordError(fields logrus.Fields, err error, message string) {
	if err == nil {
		return
	}

	if s.logger != nil {
		entry := s.logger.WithField("error", err.Error())
		if len(fields) > 0 {
			entry = entry.WithFields(fields)
		}
		entry.Error(message)
	}

	if s.sentryHub != nil {
		s.sentryHub.CaptureException(err)
	}
}
