package engine_test

import (
	"testing"
	"time"

	"github.com/saadjs/kcal-ledger/internal/engine"
	"github.com/saadjs/kcal-ledger/internal/model"
)

func TestHistoryResolveFloor(t *testing.T) {
	t.Parallel()
	h := engine.NewHistory([]model.DaySettings{
		{ID: 3, Date: "2026-03-01", RMR: 1900},
		{ID: 1, Date: "2026-01-01", RMR: 2100},
		{ID: 2, Date: "2026-02-01", RMR: 2000},
	})

	cases := []struct {
		date   string
		wantID int64
		found  bool
	}{
		{"2025-12-31", 0, false},
		{"2026-01-01", 1, true},
		{"2026-01-20", 1, true},
		{"2026-02-01", 2, true},
		{"2026-02-28", 2, true},
		{"2026-03-01", 3, true},
		{"2027-01-01", 3, true},
	}
	for _, tc := range cases {
		got, ok := h.Resolve(tc.date)
		if ok != tc.found || got.ID != tc.wantID {
			t.Fatalf("Resolve(%s) = id %d found=%v, want id %d found=%v", tc.date, got.ID, ok, tc.wantID, tc.found)
		}
	}
}

func TestHistoryResolveMonotonic(t *testing.T) {
	t.Parallel()
	h := engine.NewHistory([]model.DaySettings{
		{Date: "2026-01-05"},
		{Date: "2026-01-10"},
		{Date: "2026-01-20"},
	})
	prev := ""
	for d := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC); d.Before(time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)); d = d.AddDate(0, 0, 1) {
		date := d.Format("2006-01-02")
		got, ok := h.Resolve(date)
		if !ok {
			continue
		}
		if got.Date > date {
			t.Fatalf("Resolve(%s) looked forward to %s", date, got.Date)
		}
		if got.Date < prev {
			t.Fatalf("Resolve(%s) = %s went backwards from %s", date, got.Date, prev)
		}
		prev = got.Date
	}
}

func TestEffectiveDefaults(t *testing.T) {
	t.Parallel()
	h := engine.NewHistory(nil)
	e := h.Effective("2026-01-01")
	if e.Found || e.RMR != 2000 || e.Deficit != 0 || e.Goal() != 2000 {
		t.Fatalf("unexpected defaults: %+v", e)
	}

	h.Put(model.DaySettings{Date: "2026-01-01", RMR: 0, Deficit: 300})
	e = h.Effective("2026-01-02")
	if !e.Found || e.RMR != 2000 || e.Goal() != 1700 {
		t.Fatalf("expected zero rmr to fall back to default, got %+v", e)
	}
}

func TestHistoryPutBetweenDatesOnlyAffectsLaterDays(t *testing.T) {
	t.Parallel()
	h := engine.NewHistory([]model.DaySettings{
		{Date: "2026-01-01", WeightKg: 80},
		{Date: "2026-01-31", WeightKg: 78},
	})
	h.Put(model.DaySettings{Date: "2026-01-15", WeightKg: 79})

	if got, _ := h.Resolve("2026-01-14"); got.WeightKg != 80 {
		t.Fatalf("expected 80 before inserted record, got %v", got.WeightKg)
	}
	if got, _ := h.Resolve("2026-01-20"); got.WeightKg != 79 {
		t.Fatalf("expected 79 after inserted record, got %v", got.WeightKg)
	}
	if got, _ := h.Resolve("2026-02-01"); got.WeightKg != 78 {
		t.Fatalf("expected 78 after later record, got %v", got.WeightKg)
	}

	h.Put(model.DaySettings{Date: "2026-01-15", WeightKg: 77})
	if h.Len() != 3 {
		t.Fatalf("expected same-date put to replace, got %d records", h.Len())
	}
}

func TestApplySettingsChangeCarriesForward(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	prior := model.DaySettings{
		ID:            7,
		Date:          "2026-06-01",
		WeightKg:      82,
		HeightCm:      180,
		Gender:        model.GenderMale,
		DOB:           "1990-01-01",
		ActivityLevel: model.ActivitySedentary,
		RMR:           2124,
		Deficit:       400,
	}
	weight := 80.0
	next := engine.ApplySettingsChange(&prior, "2026-06-10", engine.SettingsPatch{WeightKg: &weight}, now)

	if next.ID != 0 {
		t.Fatalf("expected a new record for a different date, got id %d", next.ID)
	}
	if next.Date != "2026-06-10" || next.HeightCm != 180 || next.Gender != model.GenderMale || next.DOB != "1990-01-01" || next.Deficit != 400 || next.ActivityLevel != model.ActivitySedentary {
		t.Fatalf("profile not carried forward: %+v", next)
	}
	if next.RMR != 2100 {
		t.Fatalf("expected recomputed rmr 2100, got %d", next.RMR)
	}

	sameDay := engine.ApplySettingsChange(&prior, "2026-06-01", engine.SettingsPatch{WeightKg: &weight}, now)
	if sameDay.ID != 7 {
		t.Fatalf("expected in-place update to keep id 7, got %d", sameDay.ID)
	}
}

func TestApplySettingsChangeKeepsRMRForIncompleteProfile(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	prior := model.DaySettings{Date: "2026-06-01", WeightKg: 82, RMR: 1850, Deficit: 250}
	weight := 80.0
	next := engine.ApplySettingsChange(&prior, "2026-06-10", engine.SettingsPatch{WeightKg: &weight}, now)
	if next.RMR != 1850 || next.Deficit != 250 || next.WeightKg != 80 {
		t.Fatalf("expected carried rmr and deficit, got %+v", next)
	}

	rmr := 2200
	override := engine.ApplySettingsChange(nil, "2026-06-10", engine.SettingsPatch{RMR: &rmr}, now)
	if override.RMR != 2200 {
		t.Fatalf("expected manual rmr to stick on incomplete profile, got %d", override.RMR)
	}
}

func TestApplySettingsChangeDerivedRMRWinsOverManual(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	weight, height := 80.0, 180.0
	gender := model.GenderMale
	dob := "1990-01-01"
	level := model.ActivitySedentary
	rmr := 2500
	next := engine.ApplySettingsChange(nil, "2026-06-15", engine.SettingsPatch{
		WeightKg:      &weight,
		HeightCm:      &height,
		Gender:        &gender,
		DOB:           &dob,
		ActivityLevel: &level,
		RMR:           &rmr,
	}, now)
	if next.RMR != 2100 {
		t.Fatalf("expected derived rmr 2100 to override manual value, got %d", next.RMR)
	}
}
