package service_test

import (
	"database/sql"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/saadjs/kcal-ledger/internal/db"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ledger.db")
	sqldb, err := db.Open(path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = sqldb.Close() })
	if err := db.ApplyMigrations(sqldb); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	return sqldb
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
