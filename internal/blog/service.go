package blog

import (
	"context"

	"github.com/getsentry/sentry-go"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
)

// Service defines higher-level journal operations built on top of the repository.
type Service interface {
	AddEntry(ctx context.Context, title, text string) (*Entry, error)
	GetEntry(ctx context.Context, id uint) (*Entry, error)
	ListEntries(ctx context.Context) ([]Entry, error)
	DeleteEntry(ctx context.Context, id uint) error
}

type service struct {
	repo      Repository
	logger    *logrus.Logger
	sentryHub *sentry.Hub
}

var _ Service = (*service)(nil)

// NewService wires the blog service with its dependencies.
func NewService(repo Repository, logger *logrus.Logger, hub *sentry.Hub) (Service, error) {
	if repo == nil {
		return nil, eris.New("blog repository is required")
	}

	return &service{repo: repo, logger: logger, sentryHub: hub}, nil
}

// AddEntry persists a new journal entry. Empty strings are stored as given;
// the schema only forbids null.
func (s *service) AddEntry(ctx context.Context, title, text string) (*Entry, error) {
	entry := &Entry{Title: title, Text: text}

	if err := s.repo.Create(ctx, entry); err != nil {
		s.recordError(logrus.Fields{"title": title}, err, "persisting new entry")
		return nil, eris.Wrap(err, "adding entry")
	}

	return entry, nil
}

func (s *service) GetEntry(ctx context.Context, id uint) (*Entry, error) {
	entry, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.recordError(logrus.Fields{"entry_id": id}, err, "retrieving entry from repository")
		return nil, eris.Wrapf(err, "retrieving entry: %d", id)
	}

	if entry == nil {
		return nil, eris.Wrapf(ErrEntryNotFound, "retrieving entry: %d", id)
	}

	return entry, nil
}

func (s *service) ListEntries(ctx context.Context) ([]Entry, error) {
	entries, err := s.repo.List(ctx)
	if err != nil {
		s.recordError(nil, err, "listing entries")
		return nil, eris.Wrap(err, "listing entries")
	}

	return entries, nil
}

func (s *service) DeleteEntry(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if !eris.Is(err, ErrEntryNotFound) {
			s.recordError(logrus.Fields{"entry_id": id}, err, "deleting entry")
		}
		return eris.Wrapf(err, "deleting entry: %d", id)
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
