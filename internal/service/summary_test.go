package service_test

import (
	"strings"
	"testing"
	"time"

	"github.com/saadjs/kcal-ledger/internal/engine"
	"github.com/saadjs/kcal-ledger/internal/model"
	"github.com/saadjs/kcal-ledger/internal/service"
)

func TestDaySummaryUsesResolvedSettings(t *testing.T) {
	t.Parallel()
	sqldb := newTestDB(t)
	if _, err := service.SaveSettings(sqldb, "2026-07-01", model.DaySettings{RMR: 2500, Deficit: 500}, settingsNow); err != nil {
		t.Fatalf("save settings: %v", err)
	}
	for _, in := range []service.EntryInput{
		{Date: "2026-07-04", Type: model.TypeFood, Name: "Lunch", Calories: 1100, Count: 2},
		{Date: "2026-07-04", Type: model.TypeFood, Name: "Dropped", Calories: 900},
	} {
		id, err := service.CreateEntry(sqldb, in)
		if err != nil {
			t.Fatalf("create entry: %v", err)
		}
		if in.Name == "Dropped" {
			if err := service.SoftDeleteEntry(sqldb, id); err != nil {
				t.Fatalf("delete entry: %v", err)
			}
		}
	}

	s, err := service.DaySummary(sqldb, "2026-07-04")
	if err != nil {
		t.Fatalf("day summary: %v", err)
	}
	if s.Defaults || s.RMR != 2500 || s.Deficit != 500 {
		t.Fatalf("unexpected settings in summary: %+v", s)
	}
	if s.Totals.NetCalories != 2200 || s.Status.Zone != engine.ZoneOverGoal || s.Status.CaloriesLeft != -200 {
		t.Fatalf("unexpected totals/status: %+v %+v", s.Totals, s.Status)
	}
	if s.Bar.Scale != 2500 || s.Bar.GreenPct != 80 || s.Bar.YellowPct != 8 || s.Bar.RedPct != 0 {
		t.Fatalf("unexpected bar: %+v", s.Bar)
	}
	if s.Complete {
		t.Fatalf("expected day incomplete by default")
	}
}

func TestDaySummaryExerciseCredit(t *testing.T) {
	t.Parallel()
	sqldb := newTestDB(t)
	if _, err := service.CreateEntry(sqldb, service.EntryInput{Date: "2026-07-05", Type: model.TypeExercise, Name: "Walk", Calories: -100, Minutes: 30, Count: 2}); err != nil {
		t.Fatalf("create entry: %v", err)
	}
	s, err := service.DaySummary(sqldb, "2026-07-05")
	if err != nil {
		t.Fatalf("day summary: %v", err)
	}
	if !s.Defaults || s.RMR != 2000 {
		t.Fatalf("expected default rmr, got %+v", s)
	}
	if s.Totals.ExerciseMinutes != 60 || s.Totals.RMRCredit != 83 || s.Totals.BurnedTotal != -117 {
		t.Fatalf("unexpected totals: %+v", s.Totals)
	}
}

func TestDayCompletionDoesNotCarryForward(t *testing.T) {
	t.Parallel()
	sqldb := newTestDB(t)
	if err := service.SetDayComplete(sqldb, "2026-07-06", true); err != nil {
		t.Fatalf("set complete: %v", err)
	}
	st, err := service.DayStatusFor(sqldb, "2026-07-06")
	if err != nil || !st.IsComplete {
		t.Fatalf("expected complete, got %+v err=%v", st, err)
	}
	next, err := service.DayStatusFor(sqldb, "2026-07-07")
	if err != nil || next.IsComplete {
		t.Fatalf("expected following day incomplete, got %+v err=%v", next, err)
	}
	if err := service.SetDayComplete(sqldb, "2026-07-06", false); err != nil {
		t.Fatalf("clear complete: %v", err)
	}
	st, err = service.DayStatusFor(sqldb, "2026-07-06")
	if err != nil || st.IsComplete {
		t.Fatalf("expected cleared, got %+v err=%v", st, err)
	}
}

func TestRangeSummaryResolvesSettingsPerDay(t *testing.T) {
	t.Parallel()
	sqldb := newTestDB(t)
	if _, err := service.SaveSettings(sqldb, "2026-08-02", model.DaySettings{RMR: 1800, Deficit: 300}, settingsNow); err != nil {
		t.Fatalf("save settings: %v", err)
	}
	if _, err := service.CreateEntry(sqldb, service.EntryInput{Date: "2026-08-03", Type: model.TypeFood, Name: "Pasta", Calories: 1700}); err != nil {
		t.Fatalf("create entry: %v", err)
	}
	if err := service.SetDayComplete(sqldb, "2026-08-03", true); err != nil {
		t.Fatalf("set complete: %v", err)
	}

	days, err := service.RangeSummary(sqldb, "2026-08-01", "2026-08-03")
	if err != nil {
		t.Fatalf("range summary: %v", err)
	}
	if len(days) != 3 {
		t.Fatalf("expected 3 days, got %d", len(days))
	}
	if !days[0].Defaults || days[0].RMR != 2000 {
		t.Fatalf("expected defaults before first record, got %+v", days[0])
	}
	if days[1].RMR != 1800 || days[2].Status.Goal != 1500 || days[2].Status.Zone != engine.ZoneOverGoal || !days[2].Complete {
		t.Fatalf("unexpected resolved days: %+v %+v", days[1], days[2])
	}

	totals := service.TotalRange(days)
	if totals.Days != 3 || totals.LoggedDays != 1 || totals.CompleteDays != 1 || totals.FoodTotal != 1700 || totals.DaysOverGoal != 1 {
		t.Fatalf("unexpected range totals: %+v", totals)
	}

	if _, err := service.RangeSummary(sqldb, "2026-08-03", "2026-08-01"); err == nil {
		t.Fatalf("expected reversed range to fail")
	}
}

func TestDateOrTodayDefaultsAndValidates(t *testing.T) {
	t.Parallel()
	got, err := service.DateOrToday("  ")
	if err != nil {
		t.Fatalf("blank date: %v", err)
	}
	if want := time.Now().Format("2006-01-02"); got != want {
		t.Fatalf("expected today %s, got %s", want, got)
	}
	got, err = service.DateOrToday(" 2026-02-28 ")
	if err != nil || got != "2026-02-28" {
		t.Fatalf("expected trimmed date, got %q, %v", got, err)
	}
	for _, bad := range []string{"2026-13-01", "2026-02-30", "03/01/2026"} {
		if _, err := service.DateOrToday(bad); err == nil || !strings.Contains(err.Error(), "expected YYYY-MM-DD") {
			t.Fatalf("expected %q rejected, got %v", bad, err)
		}
	}
}
