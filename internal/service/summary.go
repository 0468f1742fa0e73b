package service

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/saadjs/kcal-ledger/internal/engine"
	"github.com/saadjs/kcal-ledger/internal/model"
)

const maxRangeDays = 366

// Summary is everything shown for one day.
type Summary struct {
	Date     string              `json:"date"`
	Entries  []model.LedgerEntry `json:"-"`
	RMR      int                 `json:"rmr"`
	Deficit  int                 `json:"deficit"`
	Defaults bool                `json:"defaults"`
	Totals   engine.Totals       `json:"totals"`
	Status   engine.Status       `json:"status"`
	Bar      engine.Bar          `json:"bar"`
	Complete bool                `json:"complete"`
}

func summarize(date string, entries []model.LedgerEntry, eff engine.Effective, complete bool) Summary {
	totals := engine.Aggregate(entries, eff.RMR)
	status := engine.Classify(totals.NetCalories, eff.RMR, eff.Deficit)
	return Summary{
		Date:     date,
		Entries:  entries,
		RMR:      eff.RMR,
		Deficit:  eff.Deficit,
		Defaults: !eff.Found,
		Totals:   totals,
		Status:   status,
		Bar:      engine.Progress(totals.NetCalories, status.Goal, eff.RMR),
		Complete: complete,
	}
}

// DaySummary totals one day against the settings in force on it.
func DaySummary(db *sql.DB, date string) (*Summary, error) {
	date, err := DateOrToday(date)
	if err != nil {
		return nil, err
	}
	entries, err := ListEntries(db, date)
	if err != nil {
		return nil, err
	}
	eff, err := EffectiveSettings(db, date)
	if err != nil {
		return nil, err
	}
	status, err := DayStatusFor(db, date)
	if err != nil {
		return nil, err
	}
	s := summarize(date, entries, eff, status.IsComplete)
	return &s, nil
}

// RangeSummary summarises every day from..to inclusive. Settings are loaded
// once and resolved in memory per day.
func RangeSummary(db *sql.DB, from, to string) ([]Summary, error) {
	from, err := validateDate(from)
	if err != nil {
		return nil, err
	}
	to, err = validateDate(to)
	if err != nil {
		return nil, err
	}
	start, _ := time.Parse(dateLayout, from)
	end, _ := time.Parse(dateLayout, to)
	if end.Before(start) {
		return nil, fmt.Errorf("--from must be on or before --to")
	}
	if days := int(end.Sub(start).Hours()/24) + 1; days > maxRangeDays {
		return nil, fmt.Errorf("range spans %d days (max %d)", days, maxRangeDays)
	}

	records, err := SettingsHistory(db)
	if err != nil {
		return nil, err
	}
	history := engine.NewHistory(records)
	entries, err := ListEntriesRange(db, from, to)
	if err != nil {
		return nil, err
	}
	byDate := make(map[string][]model.LedgerEntry)
	for _, e := range entries {
		byDate[e.Date] = append(byDate[e.Date], e)
	}
	statuses, err := dayStatuses(db, from, to)
	if err != nil {
		return nil, err
	}

	out := make([]Summary, 0)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		date := d.Format(dateLayout)
		out = append(out, summarize(date, byDate[date], history.Effective(date), statuses[date]))
	}
	return out, nil
}

// RangeTotals adds up per-day figures across a range.
type RangeTotals struct {
	Days         int `json:"days"`
	LoggedDays   int `json:"logged_days"`
	CompleteDays int `json:"complete_days"`
	FoodTotal    int `json:"food_total"`
	BurnedTotal  int `json:"burned_total"`
	NetTotal     int `json:"net_total"`
	GoalTotal    int `json:"goal_total"`
	DaysOverGoal int `json:"days_over_goal"`
	DaysOverRMR  int `json:"days_over_rmr"`
	AverageNet   int `json:"average_net"`
}

func TotalRange(days []Summary) RangeTotals {
	var t RangeTotals
	t.Days = len(days)
	for _, d := range days {
		if len(d.Entries) > 0 {
			t.LoggedDays++
		}
		if d.Complete {
			t.CompleteDays++
		}
		t.FoodTotal += d.Totals.FoodTotal
		t.BurnedTotal += d.Totals.BurnedTotal
		t.NetTotal += d.Totals.NetCalories
		t.GoalTotal += d.Status.Goal
		switch d.Status.Zone {
		case engine.ZoneOverGoal:
			t.DaysOverGoal++
		case engine.ZoneOverRMR:
			t.DaysOverRMR++
		}
	}
	if t.LoggedDays > 0 {
		t.AverageNet = t.NetTotal / t.LoggedDays
	}
	return t
}
