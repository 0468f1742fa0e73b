package engine_test

import (
	"testing"
	"time"

	"github.com/saadjs/kcal-ledger/internal/engine"
	"github.com/saadjs/kcal-ledger/internal/model"
)

func TestBMR(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name   string
		weight float64
		height float64
		age    int
		gender model.Gender
		want   int
	}{
		{"male reference", 80, 180, 36, model.GenderMale, 1750},
		{"male thirty", 75, 180, 30, model.GenderMale, 1730},
		{"female", 60, 165, 28, model.GenderFemale, 1330},
		{"gender case-insensitive", 80, 180, 36, model.Gender("Male"), 1750},
		{"missing weight", 0, 180, 36, model.GenderMale, 0},
		{"missing height", 80, 0, 36, model.GenderMale, 0},
		{"missing age", 80, 180, 0, model.GenderMale, 0},
		{"missing gender", 80, 180, 36, "", 0},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := engine.BMR(tc.weight, tc.height, tc.age, tc.gender); got != tc.want {
				t.Fatalf("BMR(%v, %v, %d, %q) = %d, want %d", tc.weight, tc.height, tc.age, tc.gender, got, tc.want)
			}
		})
	}
}

func TestTDEEFactors(t *testing.T) {
	t.Parallel()
	cases := map[model.ActivityLevel]int{
		model.ActivitySedentary: 2100,
		model.ActivityLight:     2406,
		model.ActivityModerate:  2713,
		model.ActivityActive:    3019,
		model.ActivityExtra:     3325,
		"":                      2100,
		"couch":                 2100,
	}
	for level, want := range cases {
		if got := engine.TDEE(1750, level); got != want {
			t.Fatalf("TDEE(1750, %q) = %d, want %d", level, got, want)
		}
	}
}

func TestAgeCountsBirthday(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		dob  string
		want int
	}{
		{"1990-06-15", 36},
		{"1990-06-16", 35},
		{"1990-01-01", 36},
		{"1990-12-31", 35},
		{"2030-01-01", 0},
		{"", 0},
		{"not-a-date", 0},
	}
	for _, tc := range cases {
		if got := engine.Age(tc.dob, now); got != tc.want {
			t.Fatalf("Age(%q) = %d, want %d", tc.dob, got, tc.want)
		}
	}
}

func TestDerivedRMRRequiresCompleteProfile(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	s := model.DaySettings{
		WeightKg:      80,
		HeightCm:      180,
		Gender:        model.GenderMale,
		DOB:           "1990-01-01",
		ActivityLevel: model.ActivitySedentary,
	}
	rmr, ok := engine.DerivedRMR(s, now)
	if !ok || rmr != 2100 {
		t.Fatalf("expected derived rmr 2100, got %d ok=%v", rmr, ok)
	}

	s.ActivityLevel = ""
	if _, ok := engine.DerivedRMR(s, now); ok {
		t.Fatalf("expected incomplete profile without activity level")
	}
}
