package service

import (
	"database/sql"
	"fmt"

	"github.com/saadjs/kcal-ledger/internal/model"
)

func SetDayComplete(db *sql.DB, date string, complete bool) error {
	date, err := validateDate(date)
	if err != nil {
		return err
	}
	_, err = db.Exec(`
INSERT INTO days(date, is_complete) VALUES(?, ?)
ON CONFLICT(date) DO UPDATE SET is_complete=excluded.is_complete
`, date, boolToInt(complete))
	if err != nil {
		return fmt.Errorf("set day %s complete=%v: %w", date, complete, err)
	}
	return nil
}

// DayStatusFor reports completeness for exactly date. Days without a row are
// incomplete; status never carries forward.
func DayStatusFor(db *sql.DB, date string) (model.DayStatus, error) {
	date, err := validateDate(date)
	if err != nil {
		return model.DayStatus{}, err
	}
	statuses, err := dayStatuses(db, date, date)
	if err != nil {
		return model.DayStatus{}, err
	}
	return model.DayStatus{Date: date, IsComplete: statuses[date]}, nil
}

func dayStatuses(db *sql.DB, from, to string) (map[string]bool, error) {
	rows, err := db.Query(`SELECT date, is_complete FROM days WHERE date >= ? AND date <= ?`, from, to)
	if err != nil {
		return nil, fmt.Errorf("list day statuses: %w", err)
	}
	defer rows.Close()

	out := make(map[string]bool)
	for rows.Next() {
		var date string
		var complete int
		if err := rows.Scan(&date, &complete); err != nil {
			return nil, fmt.Errorf("scan day status: %w", err)
		}
		out[date] = complete != 0
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate day statuses: %w", err)
	}
	return out, nil
}
