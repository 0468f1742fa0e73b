package service

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/saadjs/kcal-ledger/internal/engine"
	"github.com/saadjs/kcal-ledger/internal/model"
)

const settingsColumns = `id, date, weight_kg, height_cm, gender, dob, activity_level, rmr, deficit`

// ResolveSettings returns the record in force on date: the latest one dated
// on or before it. It returns nil when no record applies.
func ResolveSettings(db *sql.DB, date string) (*model.DaySettings, error) {
	date, err := validateDate(date)
	if err != nil {
		return nil, err
	}
	s, err := scanSettings(db.QueryRow(`
SELECT `+settingsColumns+`
FROM day_settings
WHERE date <= ?
ORDER BY date DESC
LIMIT 1
`, date))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("resolve settings for %s: %w", date, err)
	}
	return s, nil
}

// EffectiveSettings resolves date and applies engine defaults.
func EffectiveSettings(db *sql.DB, date string) (engine.Effective, error) {
	s, err := ResolveSettings(db, date)
	if err != nil {
		return engine.Effective{}, err
	}
	return engine.EffectiveFrom(s), nil
}

// SettingsHistory lists every stored record, oldest first.
func SettingsHistory(db *sql.DB) ([]model.DaySettings, error) {
	rows, err := db.Query(`SELECT ` + settingsColumns + ` FROM day_settings ORDER BY date ASC`)
	if err != nil {
		return nil, fmt.Errorf("list settings history: %w", err)
	}
	defer rows.Close()

	out := make([]model.DaySettings, 0)
	for rows.Next() {
		s, err := scanSettings(rows)
		if err != nil {
			return nil, fmt.Errorf("scan settings: %w", err)
		}
		out = append(out, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate settings history: %w", err)
	}
	return out, nil
}

// SaveSettings stores a full settings form for date, replacing any record
// already on that date. RMR is derived whenever the profile is complete.
func SaveSettings(db *sql.DB, date string, in model.DaySettings, now time.Time) (*model.DaySettings, error) {
	date, err := validateDate(date)
	if err != nil {
		return nil, err
	}
	in.Date = date
	return upsertSettings(db, in, now)
}

// UpdateSettingsField changes only the patched fields for date. When date has
// no record of its own, one is synthesised from the record in force on date.
func UpdateSettingsField(db *sql.DB, date string, patch engine.SettingsPatch, now time.Time) (*model.DaySettings, error) {
	date, err := validateDate(date)
	if err != nil {
		return nil, err
	}
	prior, err := ResolveSettings(db, date)
	if err != nil {
		return nil, err
	}
	next := engine.ApplySettingsChange(prior, date, patch, now)
	return upsertSettings(db, next, now)
}

func DeleteSettings(db *sql.DB, date string) error {
	date, err := validateDate(date)
	if err != nil {
		return err
	}
	res, err := db.Exec(`DELETE FROM day_settings WHERE date = ?`, date)
	if err != nil {
		return fmt.Errorf("delete settings for %s: %w", date, err)
	}
	return checkAffected(res, fmt.Sprintf("settings for %s", date))
}

func validateSettings(s model.DaySettings) (model.DaySettings, error) {
	if err := validateNonNegativeFloat("weight", s.WeightKg); err != nil {
		return s, err
	}
	if err := validateNonNegativeFloat("height", s.HeightCm); err != nil {
		return s, err
	}
	if err := validateNonNegativeInt("rmr", s.RMR); err != nil {
		return s, err
	}
	s.Gender = model.Gender(strings.ToLower(strings.TrimSpace(string(s.Gender))))
	if s.Gender != "" && !engine.ValidGender(s.Gender) {
		return s, fmt.Errorf("invalid gender %q (expected male or female)", s.Gender)
	}
	s.ActivityLevel = model.ActivityLevel(strings.ToLower(strings.TrimSpace(string(s.ActivityLevel))))
	if s.ActivityLevel != "" && !engine.ValidActivityLevel(s.ActivityLevel) {
		return s, fmt.Errorf("invalid activity level %q (expected sedentary, light, moderate, active or extra)", s.ActivityLevel)
	}
	s.DOB = strings.TrimSpace(s.DOB)
	if s.DOB != "" {
		if _, err := validateDate(s.DOB); err != nil {
			return s, fmt.Errorf("invalid date of birth %q (expected YYYY-MM-DD)", s.DOB)
		}
	}
	return s, nil
}

func upsertSettings(db *sql.DB, s model.DaySettings, now time.Time) (*model.DaySettings, error) {
	s, err := validateSettings(s)
	if err != nil {
		return nil, err
	}
	if rmr, ok := engine.DerivedRMR(s, now); ok {
		s.RMR = rmr
	}
	_, err = db.Exec(`
INSERT INTO day_settings(date, weight_kg, height_cm, gender, dob, activity_level, rmr, deficit)
VALUES(?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(date) DO UPDATE SET
  weight_kg=excluded.weight_kg,
  height_cm=excluded.height_cm,
  gender=excluded.gender,
  dob=excluded.dob,
  activity_level=excluded.activity_level,
  rmr=excluded.rmr,
  deficit=excluded.deficit,
  updated_at=CURRENT_TIMESTAMP
`, s.Date, s.WeightKg, s.HeightCm, s.Gender, s.DOB, s.ActivityLevel, s.RMR, s.Deficit)
	if err != nil {
		return nil, fmt.Errorf("save settings for %s: %w", s.Date, err)
	}
	saved, err := scanSettings(db.QueryRow(`SELECT `+settingsColumns+` FROM day_settings WHERE date = ?`, s.Date))
	if err != nil {
		return nil, fmt.Errorf("reload settings for %s: %w", s.Date, err)
	}
	return saved, nil
}

func scanSettings(row rowScanner) (*model.DaySettings, error) {
	var s model.DaySettings
	if err := row.Scan(&s.ID, &s.Date, &s.WeightKg, &s.HeightCm, &s.Gender, &s.DOB, &s.ActivityLevel, &s.RMR, &s.Deficit); err != nil {
		return nil, err
	}
	return &s, nil
}
