package wiki

import (
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"

	appdb "notebook/app/internal/db"
)

func TestNewRepositoryRequiresDatabase(t *testing.T) {
	t.Parallel()

	if _, err := NewRepository(nil, nil); err == nil {
		t.Fatalf("expected error when database is nil")
	}
}

func TestCreateDefaultsTimestamps(t *testing.T) {
	t.Parallel()

	repo := setupRepository(t)
	ctx := context.Background()

	before := time.Now()
	page := &Page{Title: "Home", Content: "Welcome"}
	if err := repo.Create(ctx, page); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	after := time.Now()

	if page.ID == 0 {
		t.Fatalf("expected generated id, got 0")
	}
	if page.Created.Before(before) || page.Created.After(after) {
		t.Fatalf("expected created between %s and %s, got %s", before, after, page.Created)
	}
	if !page.Updated.Equal(page.Created) {
		t.Fatalf("expected updated to match created at insert, got created=%s updated=%s", page.Created, page.Updated)
	}

	stored, err := repo.GetByID(ctx, page.ID)
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if stored == nil {
		t.Fatalf("expected stored page to be present")
	}
	if diff := stored.Created.Sub(page.Created); diff > time.Second || diff < -time.Second {
		t.Fatalf("expected stored created near %s, got %s", page.Created, stored.Created)
	}
}

func TestCreateHonoursCallerTimestamps(t *testing.T) {
	t.Parallel()

	repo := setupRepository(t)
	ctx := context.Background()

	created := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	updated := time.Date(2024, time.March, 2, 12, 0, 0, 0, time.UTC)

	page := &Page{Title: "History", Content: "Old news", Created: created, Updated: updated}
	if err := repo.Create(ctx, page); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	stored, err := repo.GetByID(ctx, page.ID)
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if stored == nil {
		t.Fatalf("expected stored page to be present")
	}
	if stored.Created.Unix() != created.Unix() {
		t.Fatalf("expected created %s preserved, got %s", created, stored.Created)
	}
	if stored.Updated.Unix() != updated.Unix() {
		t.Fatalf("expected updated %s preserved, got %s", updated, stored.Updated)
	}
}

func TestCreateAssignsIncreasingIDs(t *testing.T) {
	t.Parallel()

	repo := setupRepository(t)
	ctx := context.Background()

	first := &Page{Title: "A", Content: "a"}
	if err := repo.Create(ctx, first); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	second := &Page{Title: "B", Content: "b"}
	if err := repo.Create(ctx, second); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if second.ID <= first.ID {
		t.Fatalf("expected id %d to exceed %d", second.ID, first.ID)
	}
}

func TestCreateDuplicateIDIsConstraintViolation(t *testing.T) {
	t.Parallel()

	repo := setupRepository(t)
	ctx := context.Background()

	page := &Page{Title: "Original", Content: "body"}
	if err := repo.Create(ctx, page); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	duplicate := &Page{ID: page.ID, Title: "Clone", Content: "body"}
	err := repo.Create(ctx, duplicate)
	if err == nil {
		t.Fatalf("expected duplicate id insert to fail")
	}
	if !eris.Is(err, appdb.ErrConstraintViolation) {
		t.Fatalf("expected constraint violation, got %v", err)
	}
}

func TestSchemaRejectsNullFields(t *testing.T) {
	t.Parallel()

	repo := setupRepository(t)

	err := repo.conn.Exec("INSERT INTO wiki_pages (title, content) VALUES (NULL, 'body')").Error
	if err == nil {
		t.Fatalf("expected NULL title insert to fail")
	}
	if !appdb.IsConstraintViolation(err) {
		t.Fatalf("expected constraint violation for NULL title, got %v", err)
	}

	err = repo.conn.Exec("INSERT INTO wiki_pages (title, content) VALUES ('Title', NULL)").Error
	if err == nil {
		t.Fatalf("expected NULL content insert to fail")
	}
	if !appdb.IsConstraintViolation(err) {
		t.Fatalf("expected constraint violation for NULL content, got %v", err)
	}
}

func TestUpdateStoresUpdatedExactlyAsGiven(t *testing.T) {
	t.Parallel()

	repo := setupRepository(t)
	ctx := context.Background()

	page := &Page{Title: "Draft", Content: "v1"}
	if err := repo.Create(ctx, page); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	// The storage layer does not refresh the updated column; a caller that
	// forgets to bump it keeps the stale value.
	stale := page.Updated
	page.Title = "Draft revised"
	page.Content = "v2"
	if err := repo.Update(ctx, page); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	stored, err := repo.GetByID(ctx, page.ID)
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if stored.Title != "Draft revised" || stored.Content != "v2" {
		t.Fatalf("expected updated fields persisted, got %#v", stored)
	}
	if stored.Updated.Unix() != stale.Unix() {
		t.Fatalf("expected updated to remain %s, got %s", stale, stored.Updated)
	}
}

func TestUpdateMissingPageReturnsNotFound(t *testing.T) {
	t.Parallel()

	repo := setupRepository(t)

	err := repo.Update(context.Background(), &Page{ID: 42, Title: "Ghost", Content: "boo"})
	if err == nil {
		t.Fatalf("expected error when updating missing page")
	}
	if !eris.Is(err, ErrPageNotFound) {
		t.Fatalf("expected ErrPageNotFound, got %v", err)
	}
}

func TestListReturnsPagesOrderedByTitle(t *testing.T) {
	t.Parallel()

	repo := setupRepository(t)
	ctx := context.Background()

	titles := []string{"zulu", "alpha", "beta"}
	for _, title := range titles {
		page := &Page{Title: title, Content: "body"}
		if err := repo.Create(ctx, page); err != nil {
			t.Fatalf("Create returned error: %v", err)
		}
	}

	listed, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}

	expectedOrder := []string{"alpha", "beta", "zulu"}
	if len(listed) != len(expectedOrder) {
		t.Fatalf("expected %d pages, got %d", len(expectedOrder), len(listed))
	}

	for idx, title := range expectedOrder {
		if listed[idx].Title != title {
			t.Fatalf("expected title %q at index %d, got %q", title, idx, listed[idx].Title)
		}
	}
}

func TestDeleteRemovesPage(t *testing.T) {
	t.Parallel()

	repo := setupRepository(t)
	ctx := context.Background()

	page := &Page{Title: "Doomed", Content: "body"}
	if err := repo.Create(ctx, page); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if err := repo.Delete(ctx, page.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}

	stored, err := repo.GetByID(ctx, page.ID)
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if stored != nil {
		t.Fatalf("expected page to be gone, got %#v", stored)
	}
}

func TestDeleteMissingPageReturnsNotFound(t *testing.T) {
	t.Parallel()

	repo := setupRepository(t)

	err := repo.Delete(context.Background(), 42)
	if err == nil {
		t.Fatalf("expected error when deleting missing page")
	}
	if !eris.Is(err, ErrPageNotFound) {
		t.Fatalf("expected ErrPageNotFound, got %v", err)
	}
}

func setupRepository(t *testing.T) *GormRepository {
	t.Helper()

	path := filepath.Join(t.TempDir(), "wiki.db")
	conn, err := appdb.Open(appdb.Options{Path: path})
	if err != nil {
		t.Fatalf("db.Open returned error: %v", err)
	}

	t.Cleanup(func() {
		if closeErr := appdb.Close(conn); closeErr != nil {
			t.Fatalf("closing database failed: %v", closeErr)
		}
	})

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	if err := Migrate(context.Background(), conn, logger); err != nil {
		t.Fatalf("Migrate returned error: %v", err)
	}

	repo, err := NewRepository(conn, logger)
	if err != nil {
		t.Fatalf("NewRepository returned error: %v", err)
	}

	return repo
}
