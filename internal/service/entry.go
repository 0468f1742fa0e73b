package service

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/saadjs/kcal-ledger/internal/engine"
	"github.com/saadjs/kcal-ledger/internal/model"
)

type EntryInput struct {
	Date        string
	Type        model.EntryType
	Name        string
	Calories    int
	Minutes     int
	Count       int
	Description string
	LibraryID   *int64
}

const entryColumns = `id, date, type, name, calories, minutes, count, description, deleted, library_id, unlinked, link_ratio, created_at, updated_at`

// normalizeEntry validates in and applies the stored sign and minutes rules.
func normalizeEntry(in EntryInput) (EntryInput, error) {
	date, err := validateDate(in.Date)
	if err != nil {
		return in, err
	}
	in.Date = date
	t, err := validateEntryType(in.Type)
	if err != nil {
		return in, err
	}
	in.Type = t
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return in, fmt.Errorf("entry name is required")
	}
	if in.Count == 0 {
		in.Count = 1
	}
	if in.Count < 1 {
		return in, fmt.Errorf("count must be >= 1")
	}
	if err := validateNonNegativeInt("minutes", in.Minutes); err != nil {
		return in, err
	}
	if in.Type != model.TypeExercise {
		in.Minutes = 0
	}
	in.Calories = engine.NormalizeCalories(in.Type, in.Calories)
	in.Description = strings.TrimSpace(in.Description)
	return in, nil
}

func CreateEntry(db *sql.DB, in EntryInput) (int64, error) {
	return insertEntry(db, in)
}

func insertEntry(q dbtx, in EntryInput) (int64, error) {
	in, err := normalizeEntry(in)
	if err != nil {
		return 0, err
	}
	res, err := q.Exec(`
INSERT INTO entries(date, type, name, calories, minutes, count, description, library_id)
VALUES(?, ?, ?, ?, ?, ?, ?, ?)
`, in.Date, in.Type, in.Name, in.Calories, in.Minutes, in.Count, in.Description, in.LibraryID)
	if err != nil {
		return 0, fmt.Errorf("insert entry: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("resolve inserted entry id: %w", err)
	}
	return id, nil
}

// EntryByID loads an entry whether or not it is deleted.
func EntryByID(db *sql.DB, id int64) (*model.LedgerEntry, error) {
	if id <= 0 {
		return nil, fmt.Errorf("entry id must be > 0")
	}
	e, err := scanEntry(db.QueryRow(`SELECT `+entryColumns+` FROM entries WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("entry %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load entry %d: %w", id, err)
	}
	return e, nil
}

// ListEntries returns the live entries for one day in insertion order.
func ListEntries(db *sql.DB, date string) ([]model.LedgerEntry, error) {
	date, err := validateDate(date)
	if err != nil {
		return nil, err
	}
	return queryEntries(db, `SELECT `+entryColumns+` FROM entries WHERE date = ? AND deleted = 0 ORDER BY id ASC`, date)
}

// ListEntriesRange returns live entries with from <= date <= to.
func ListEntriesRange(db *sql.DB, from, to string) ([]model.LedgerEntry, error) {
	from, err := validateDate(from)
	if err != nil {
		return nil, err
	}
	to, err = validateDate(to)
	if err != nil {
		return nil, err
	}
	return queryEntries(db, `SELECT `+entryColumns+` FROM entries WHERE date >= ? AND date <= ? AND deleted = 0 ORDER BY date ASC, id ASC`, from, to)
}

// ListHistoryRows returns up to limit live entries dated strictly before
// before, newest first.
func ListHistoryRows(db *sql.DB, before string, limit int) ([]model.LedgerEntry, error) {
	before, err := validateDate(before)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = engine.HistoryScanLimit
	}
	return queryEntries(db, `
SELECT `+entryColumns+`
FROM entries
WHERE date < ? AND deleted = 0
ORDER BY date DESC, id DESC
LIMIT ?
`, before, limit)
}

// UpdateEntry writes the editable fields of e back to its row, including the
// link state an edit session committed. Only EXERCISE entries keep a link.
func UpdateEntry(db *sql.DB, e model.LedgerEntry) error {
	if e.ID <= 0 {
		return fmt.Errorf("entry id must be > 0")
	}
	in, err := normalizeEntry(EntryInput{
		Date:        e.Date,
		Type:        e.Type,
		Name:        e.Name,
		Calories:    e.Calories,
		Minutes:     e.Minutes,
		Count:       e.Count,
		Description: e.Description,
	})
	if err != nil {
		return err
	}
	unlinked, ratio := e.Unlinked, e.LinkRatio
	if in.Type != model.TypeExercise {
		unlinked, ratio = false, nil
	}
	res, err := db.Exec(`
UPDATE entries
SET date = ?, type = ?, name = ?, calories = ?, minutes = ?, count = ?, description = ?,
    unlinked = ?, link_ratio = ?, updated_at = CURRENT_TIMESTAMP
WHERE id = ?
`, in.Date, in.Type, in.Name, in.Calories, in.Minutes, in.Count, in.Description, boolToInt(unlinked), ratio, e.ID)
	if err != nil {
		return fmt.Errorf("update entry %d: %w", e.ID, err)
	}
	return checkAffected(res, fmt.Sprintf("entry %d", e.ID))
}

func SetEntryCount(db *sql.DB, id int64, count int) error {
	if count < 1 {
		return fmt.Errorf("count must be >= 1")
	}
	res, err := db.Exec(`UPDATE entries SET count = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted = 0`, count, id)
	if err != nil {
		return fmt.Errorf("set count for entry %d: %w", id, err)
	}
	return checkAffected(res, fmt.Sprintf("entry %d", id))
}

func SoftDeleteEntry(db *sql.DB, id int64) error {
	return setEntryDeleted(db, id, true)
}

// RestoreEntry undoes a soft delete.
func RestoreEntry(db *sql.DB, id int64) error {
	return setEntryDeleted(db, id, false)
}

func setEntryDeleted(db *sql.DB, id int64, deleted bool) error {
	if id <= 0 {
		return fmt.Errorf("entry id must be > 0")
	}
	res, err := db.Exec(`UPDATE entries SET deleted = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, boolToInt(deleted), id)
	if err != nil {
		return fmt.Errorf("mark entry %d deleted=%v: %w", id, deleted, err)
	}
	return checkAffected(res, fmt.Sprintf("entry %d", id))
}

func queryEntries(q dbtx, query string, args ...any) ([]model.LedgerEntry, error) {
	rows, err := q.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	entries := make([]model.LedgerEntry, 0)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	return entries, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*model.LedgerEntry, error) {
	var e model.LedgerEntry
	var deleted, unlinked int
	var libraryID sql.NullInt64
	var ratio sql.NullFloat64
	if err := row.Scan(&e.ID, &e.Date, &e.Type, &e.Name, &e.Calories, &e.Minutes, &e.Count, &e.Description, &deleted, &libraryID, &unlinked, &ratio, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	e.Deleted = deleted != 0
	e.Unlinked = unlinked != 0
	if libraryID.Valid {
		v := libraryID.Int64
		e.LibraryID = &v
	}
	if ratio.Valid {
		v := ratio.Float64
		e.LinkRatio = &v
	}
	return &e, nil
}
