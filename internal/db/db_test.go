package db

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gorm.io/gorm"
)

func TestOpenRequiresPath(t *testing.T) {
	t.Parallel()

	_, err := Open(Options{})
	if err == nil {
		t.Fatalf("expected error when no path supplied")
	}
}

func TestOpenAppliesPragmasWithDefaultTimeout(t *testing.T) {
	t.Parallel()

	conn := openTestDB(t, Options{Path: filepath.Join(t.TempDir(), "notebook.db")})

	var journalMode string
	if queryErr := conn.Raw("PRAGMA journal_mode;").Scan(&journalMode).Error; queryErr != nil {
		t.Fatalf("querying journal_mode pragma failed: %v", queryErr)
	}
	if !strings.EqualFold(strings.TrimSpace(journalMode), "wal") {
		t.Fatalf("expected journal mode WAL, got %q", journalMode)
	}

	var busyTimeout int
	if queryErr := conn.Raw("PRAGMA busy_timeout;").Scan(&busyTimeout).Error; queryErr != nil {
		t.Fatalf("querying busy_timeout pragma failed: %v", queryErr)
	}
	if busyTimeout != 5000 {
		t.Fatalf("expected default busy timeout 5000ms, got %d", busyTimeout)
	}
}

func TestOpenHonoursCustomBusyTimeout(t *testing.T) {
	t.Parallel()

	conn := openTestDB(t, Options{
		Path:        filepath.Join(t.TempDir(), "notebook.db"),
		BusyTimeout: 250 * time.Millisecond,
	})

	var busyTimeout int
	if queryErr := conn.Raw("PRAGMA busy_timeout;").Scan(&busyTimeout).Error; queryErr != nil {
		t.Fatalf("querying busy_timeout pragma failed: %v", queryErr)
	}
	if busyTimeout != 250 {
		t.Fatalf("expected busy timeout 250ms, got %d", busyTimeout)
	}
}

func TestSQLDBExposesConnection(t *testing.T) {
	t.Parallel()

	conn := openTestDB(t, Options{Path: filepath.Join(t.TempDir(), "notebook.db")})

	sqlDB, err := SQLDB(conn)
	if err != nil {
		t.Fatalf("SQLDB returned error: %v", err)
	}
	if pingErr := sqlDB.Ping(); pingErr != nil {
		t.Fatalf("pinging database failed: %v", pingErr)
	}
}

func TestCloseNilIsNoop(t *testing.T) {
	t.Parallel()

	if err := Close(nil); err != nil {
		t.Fatalf("closing nil database returned error: %v", err)
	}
}

func openTestDB(t *testing.T, opts Options) *gorm.DB {
	t.Helper()

	conn, err := Open(opts)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}

	t.Cleanup(func() {
		if closeErr := Close(conn); closeErr != nil {
			t.Errorf("closing database failed: %v", closeErr)
		}
	})

	return conn
}
