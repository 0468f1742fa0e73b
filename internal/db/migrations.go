package db

import (
	"database/sql"
	"fmt"
)

type migration struct {
	version int
	name    string
	sql     string
}

var migrations = []migration{
	{
		version: 1,
		name:    "initial_schema",
		sql: `
CREATE TABLE IF NOT EXISTS schema_migrations (
  version INTEGER PRIMARY KEY,
  name TEXT NOT NULL,
  applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS library_items (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL,
  name_norm TEXT NOT NULL UNIQUE,
  type TEXT NOT NULL CHECK(type IN ('FOOD', 'EXERCISE')),
  calories INTEGER NOT NULL DEFAULT 0,
  minutes INTEGER NOT NULL DEFAULT 30 CHECK(minutes >= 0),
  description TEXT NOT NULL DEFAULT '',
  created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS entries (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  date TEXT NOT NULL,
  type TEXT NOT NULL CHECK(type IN ('FOOD', 'EXERCISE')),
  name TEXT NOT NULL,
  calories INTEGER NOT NULL,
  minutes INTEGER NOT NULL DEFAULT 0 CHECK(minutes >= 0),
  count INTEGER NOT NULL DEFAULT 1 CHECK(count >= 1),
  description TEXT NOT NULL DEFAULT '',
  deleted INTEGER NOT NULL DEFAULT 0,
  library_id INTEGER,
  created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  FOREIGN KEY(library_id) REFERENCES library_items(id) ON DELETE SET NULL,
  CHECK((type = 'FOOD' AND calories >= 0) OR (type = 'EXERCISE' AND calories <= 0))
);

CREATE INDEX IF NOT EXISTS idx_entries_date ON entries(date);

CREATE TABLE IF NOT EXISTS day_settings (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  date TEXT NOT NULL UNIQUE,
  weight_kg REAL NOT NULL DEFAULT 0 CHECK(weight_kg >= 0),
  deficit INTEGER NOT NULL DEFAULT 0,
  rmr INTEGER NOT NULL DEFAULT 0 CHECK(rmr >= 0),
  created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS days (
  date TEXT PRIMARY KEY,
  is_complete INTEGER NOT NULL DEFAULT 0
);
`,
	},
	{
		version: 2,
		name:    "library_usage",
		sql: `
ALTER TABLE library_items ADD COLUMN last_used INTEGER NOT NULL DEFAULT 0;
ALTER TABLE library_items ADD COLUMN usage_count INTEGER NOT NULL DEFAULT 0 CHECK(usage_count >= 0);
`,
	},
	{
		version: 3,
		name:    "body_profile",
		sql: `
ALTER TABLE day_settings ADD COLUMN height_cm REAL NOT NULL DEFAULT 0 CHECK(height_cm >= 0);
ALTER TABLE day_settings ADD COLUMN gender TEXT NOT NULL DEFAULT '' CHECK(gender IN ('', 'male', 'female'));
ALTER TABLE day_settings ADD COLUMN dob TEXT NOT NULL DEFAULT '';
ALTER TABLE day_settings ADD COLUMN activity_level TEXT NOT NULL DEFAULT '';
`,
	},
	{
		version: 4,
		name:    "entry_link_state",
		sql: `
ALTER TABLE entries ADD COLUMN unlinked INTEGER NOT NULL DEFAULT 0;
ALTER TABLE entries ADD COLUMN link_ratio REAL;
`,
	},
}

func ApplyMigrations(db *sql.DB) error {
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS schema_migrations (
  version INTEGER PRIMARY KEY,
  name TEXT NOT NULL,
  applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`); err != nil {
		return fmt.Errorf("ensure schema_migrations table: %w", err)
	}

	for _, m := range migrations {
		var exists int
		err := db.QueryRow(`SELECT 1 FROM schema_migrations WHERE version = ?`, m.version).Scan(&exists)
		if err == nil {
			continue
		}
		if err != sql.ErrNoRows {
			return fmt.Errorf("check migration version %d: %w", m.version, err)
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration tx: %w", err)
		}
		if _, err := tx.Exec(m.sql); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply migration version %d (%s): %w", m.version, m.name, err)
		}
		if _, err := tx.Exec(`INSERT INTO schema_migrations(version, name) VALUES(?, ?)`, m.version, m.name); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record migration version %d: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration version %d: %w", m.version, err)
		}
	}
	return nil
}

// AppliedVersions lists migration versions recorded in schema_migrations.
func AppliedVersions(db *sql.DB) ([]int, error) {
	rows, err := db.Query(`SELECT version FROM schema_migrations ORDER BY version ASC`)
	if err != nil {
		return nil, fmt.Errorf("list applied migrations: %w", err)
	}
	defer rows.Close()
	out := make([]int, 0, len(migrations))
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan migration version: %w", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate migrations: %w", err)
	}
	return out, nil
}
