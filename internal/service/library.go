package service

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/saadjs/kcal-ledger/internal/engine"
	"github.com/saadjs/kcal-ledger/internal/model"
)

type LibraryInput struct {
	Name        string
	Type        model.EntryType
	Calories    int
	Minutes     int
	Description string
}

type LibraryFilter struct {
	Query string
	Type  model.EntryType
}

const libraryColumns = `id, name, name_norm, type, calories, minutes, description, last_used, usage_count, created_at, updated_at`

func normalizeLibraryInput(in LibraryInput) (LibraryInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return in, fmt.Errorf("library item name is required")
	}
	t, err := validateEntryType(in.Type)
	if err != nil {
		return in, err
	}
	in.Type = t
	if err := validateNonNegativeInt("minutes", in.Minutes); err != nil {
		return in, err
	}
	if in.Type == model.TypeExercise {
		if in.Minutes == 0 {
			in.Minutes = engine.DefaultExerciseMinutes
		}
	} else {
		in.Minutes = 0
	}
	in.Calories = engine.NormalizeCalories(in.Type, in.Calories)
	in.Description = strings.TrimSpace(in.Description)
	return in, nil
}

func (in LibraryInput) candidate() model.LibraryItem {
	return model.LibraryItem{
		Name:        in.Name,
		NameNorm:    engine.NormalizeName(in.Name),
		Type:        in.Type,
		Calories:    in.Calories,
		Minutes:     in.Minutes,
		Description: in.Description,
	}
}

// CreateLibraryItem stores a new unused item. A name that normalises to an
// existing item's name fails with a *LibraryConflictError.
func CreateLibraryItem(db *sql.DB, in LibraryInput) (int64, error) {
	return insertLibraryItem(db, in, 0, 0)
}

func insertLibraryItem(db *sql.DB, in LibraryInput, usageCount int, lastUsed int64) (int64, error) {
	in, err := normalizeLibraryInput(in)
	if err != nil {
		return 0, err
	}
	if err := ensureNameFree(db, in, 0); err != nil {
		return 0, err
	}
	res, err := db.Exec(`
INSERT INTO library_items(name, name_norm, type, calories, minutes, description, usage_count, last_used)
VALUES(?, ?, ?, ?, ?, ?, ?, ?)
`, in.Name, engine.NormalizeName(in.Name), in.Type, in.Calories, in.Minutes, in.Description, usageCount, lastUsed)
	if err != nil {
		return 0, fmt.Errorf("create library item: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("resolve library item id: %w", err)
	}
	return id, nil
}

// ensureNameFree fails when another item (other than selfID) owns the name.
func ensureNameFree(db *sql.DB, in LibraryInput, selfID int64) error {
	existing, err := libraryItemByNorm(db, engine.NormalizeName(in.Name))
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != selfID {
		return &LibraryConflictError{Existing: *existing, Candidate: in.candidate()}
	}
	return nil
}

func libraryItemByNorm(db *sql.DB, norm string) (*model.LibraryItem, error) {
	item, err := scanLibraryItem(db.QueryRow(`SELECT `+libraryColumns+` FROM library_items WHERE name_norm = ?`, norm))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup library item %q: %w", norm, err)
	}
	return item, nil
}

// ResolveLibraryItem finds an item by numeric id or by name.
func ResolveLibraryItem(db *sql.DB, idOrName string) (*model.LibraryItem, error) {
	idOrName = strings.TrimSpace(idOrName)
	if idOrName == "" {
		return nil, fmt.Errorf("library item identifier is required")
	}
	var (
		item *model.LibraryItem
		err  = sql.ErrNoRows
	)
	if id, perr := parseIDLoose(idOrName); perr == nil {
		item, err = scanLibraryItem(db.QueryRow(`SELECT `+libraryColumns+` FROM library_items WHERE id = ?`, id))
	}
	// Numeric names such as "7" still resolve when no item has that id.
	if errors.Is(err, sql.ErrNoRows) {
		item, err = scanLibraryItem(db.QueryRow(`SELECT `+libraryColumns+` FROM library_items WHERE name_norm = ?`, engine.NormalizeName(idOrName)))
	}
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("library item %q: %w", idOrName, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("resolve library item %q: %w", idOrName, err)
	}
	return item, nil
}

// ListLibrary returns the filtered library in ranking order.
func ListLibrary(db *sql.DB, f LibraryFilter) ([]model.LibraryItem, error) {
	if f.Type != "" {
		t, err := validateEntryType(f.Type)
		if err != nil {
			return nil, err
		}
		f.Type = t
	}
	rows, err := db.Query(`SELECT ` + libraryColumns + ` FROM library_items`)
	if err != nil {
		return nil, fmt.Errorf("list library items: %w", err)
	}
	defer rows.Close()

	items := make([]model.LibraryItem, 0)
	for rows.Next() {
		item, err := scanLibraryItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan library item: %w", err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate library items: %w", err)
	}
	items = engine.FilterLibrary(items, f.Query, f.Type)
	engine.SortLibrary(items)
	return items, nil
}

// UpdateLibraryItem edits an item in place. Renaming onto another item's name
// is a conflict.
func UpdateLibraryItem(db *sql.DB, idOrName string, in LibraryInput) error {
	item, err := ResolveLibraryItem(db, idOrName)
	if err != nil {
		return err
	}
	in, err = normalizeLibraryInput(in)
	if err != nil {
		return err
	}
	if err := ensureNameFree(db, in, item.ID); err != nil {
		return err
	}
	return writeLibraryItem(db, item.ID, in)
}

func writeLibraryItem(db *sql.DB, id int64, in LibraryInput) error {
	res, err := db.Exec(`
UPDATE library_items
SET name = ?, name_norm = ?, type = ?, calories = ?, minutes = ?, description = ?, updated_at = CURRENT_TIMESTAMP
WHERE id = ?
`, in.Name, engine.NormalizeName(in.Name), in.Type, in.Calories, in.Minutes, in.Description, id)
	if err != nil {
		return fmt.Errorf("update library item %d: %w", id, err)
	}
	return checkAffected(res, fmt.Sprintf("library item %d", id))
}

// DeleteLibraryItem removes an item. Entries adopted from it keep their
// values and lose the link.
func DeleteLibraryItem(db *sql.DB, idOrName string) error {
	item, err := ResolveLibraryItem(db, idOrName)
	if err != nil {
		return err
	}
	res, err := db.Exec(`DELETE FROM library_items WHERE id = ?`, item.ID)
	if err != nil {
		return fmt.Errorf("delete library item %q: %w", idOrName, err)
	}
	return checkAffected(res, fmt.Sprintf("library item %d", item.ID))
}

// ReplaceLibraryItem overwrites an existing item with in after the caller has
// confirmed a name conflict. Usage statistics are kept. It returns the field
// changes that were applied.
func ReplaceLibraryItem(db *sql.DB, existingID int64, in LibraryInput) ([]engine.FieldChange, error) {
	existing, err := ResolveLibraryItem(db, fmt.Sprint(existingID))
	if err != nil {
		return nil, err
	}
	in, err = normalizeLibraryInput(in)
	if err != nil {
		return nil, err
	}
	if err := ensureNameFree(db, in, existing.ID); err != nil {
		return nil, err
	}
	changes := engine.LibraryDiff(*existing, in.candidate())
	if len(changes) == 0 {
		return changes, nil
	}
	if err := writeLibraryItem(db, existing.ID, in); err != nil {
		return nil, err
	}
	return changes, nil
}

// SaveEntryToLibrary snapshots a ledger entry as a library item. Saving is
// not an adoption, so the item starts unused with no lastUsed.
func SaveEntryToLibrary(db *sql.DB, entryID int64) (int64, error) {
	e, err := EntryByID(db, entryID)
	if err != nil {
		return 0, err
	}
	if e.Deleted {
		return 0, fmt.Errorf("entry %d is deleted", entryID)
	}
	return insertLibraryItem(db, EntryLibraryInput(*e), 0, 0)
}

// EntryLibraryInput builds the library write a SaveEntryToLibrary conflict
// would be resolved with.
func EntryLibraryInput(e model.LedgerEntry) LibraryInput {
	return LibraryInput{
		Name:        e.Name,
		Type:        e.Type,
		Calories:    e.Calories,
		Minutes:     e.Minutes,
		Description: e.Description,
	}
}

func scanLibraryItem(row rowScanner) (*model.LibraryItem, error) {
	var item model.LibraryItem
	if err := row.Scan(
		&item.ID,
		&item.Name,
		&item.NameNorm,
		&item.Type,
		&item.Calories,
		&item.Minutes,
		&item.Description,
		&item.LastUsed,
		&item.UsageCount,
		&item.CreatedAt,
		&item.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &item, nil
}
