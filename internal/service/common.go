package service

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/saadjs/kcal-ledger/internal/model"
)

const dateLayout = "2006-01-02"

var (
	ErrNotFound         = errors.New("not found")
	ErrLibraryNameTaken = errors.New("library name already taken")
)

// LibraryConflictError reports a library write whose normalised name belongs
// to another item. Existing is the stored item, Candidate the rejected write.
type LibraryConflictError struct {
	Existing  model.LibraryItem
	Candidate model.LibraryItem
}

func (e *LibraryConflictError) Error() string {
	return fmt.Sprintf("library item %q already exists (id %d)", e.Existing.Name, e.Existing.ID)
}

func (e *LibraryConflictError) Is(target error) bool {
	return target == ErrLibraryNameTaken
}

// dbtx is satisfied by both *sql.DB and *sql.Tx.
type dbtx interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

func validateNonNegativeInt(name string, value int) error {
	if value < 0 {
		return fmt.Errorf("%s must be >= 0", name)
	}
	return nil
}

func validateNonNegativeFloat(name string, value float64) error {
	if value < 0 {
		return fmt.Errorf("%s must be >= 0", name)
	}
	return nil
}

func validateDate(value string) (string, error) {
	value = strings.TrimSpace(value)
	if _, err := time.Parse(dateLayout, value); err != nil {
		return "", fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", value)
	}
	return value, nil
}

// DateOrToday validates a YYYY-MM-DD date, defaulting to the local date when
// value is blank.
func DateOrToday(value string) (string, error) {
	if strings.TrimSpace(value) == "" {
		return time.Now().Format(dateLayout), nil
	}
	return validateDate(value)
}

func validateEntryType(t model.EntryType) (model.EntryType, error) {
	switch model.EntryType(strings.ToUpper(strings.TrimSpace(string(t)))) {
	case model.TypeFood:
		return model.TypeFood, nil
	case model.TypeExercise:
		return model.TypeExercise, nil
	default:
		return "", fmt.Errorf("invalid type %q (expected FOOD or EXERCISE)", t)
	}
}

func parseIDLoose(value string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("not numeric")
	}
	return id, nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func checkAffected(res sql.Result, what string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("read rows affected for %s: %w", what, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return nil
}
