package engine_test

import (
	"testing"

	"github.com/saadjs/kcal-ledger/internal/engine"
	"github.com/saadjs/kcal-ledger/internal/model"
)

func TestAggregateAppliesCountAndRMRCredit(t *testing.T) {
	t.Parallel()
	entries := []model.LedgerEntry{
		{Type: model.TypeExercise, Calories: -100, Minutes: 30, Count: 2},
	}
	got := engine.Aggregate(entries, 2000)
	want := engine.Totals{
		FoodTotal:          0,
		ExerciseDirectBurn: -200,
		ExerciseMinutes:    60,
		RMRCredit:          83,
		BurnedTotal:        -117,
		NetCalories:        -117,
	}
	if got != want {
		t.Fatalf("Aggregate() = %+v, want %+v", got, want)
	}
}

func TestAggregateMixedDay(t *testing.T) {
	t.Parallel()
	entries := []model.LedgerEntry{
		{Type: model.TypeFood, Calories: 500, Count: 1},
		{Type: model.TypeFood, Calories: 100, Count: 2},
		{Type: model.TypeFood, Calories: 300, Count: 0},
		{Type: model.TypeFood, Calories: 999, Count: 1, Deleted: true},
		{Type: model.TypeExercise, Calories: -500, Minutes: 60, Count: 1},
		{Type: model.TypeExercise, Calories: -50, Minutes: 0, Count: 1},
	}
	got := engine.Aggregate(entries, 2000)
	if got.FoodTotal != 1000 {
		t.Fatalf("expected food total 1000, got %d", got.FoodTotal)
	}
	if got.ExerciseDirectBurn != -550 || got.ExerciseMinutes != 60 {
		t.Fatalf("unexpected exercise totals: %+v", got)
	}
	if got.RMRCredit != 83 || got.BurnedTotal != -467 || got.NetCalories != 533 {
		t.Fatalf("unexpected net figures: %+v", got)
	}
}

func TestAggregateRoundsOnceOverCombinedMinutes(t *testing.T) {
	t.Parallel()
	// 7 minutes credits 9.72 -> 10 on its own; 21 combined minutes credit 29.17 -> 29.
	a := model.LedgerEntry{Type: model.TypeExercise, Calories: -70, Minutes: 7, Count: 1}
	entries := []model.LedgerEntry{a, a, a}
	got := engine.Aggregate(entries, 2000)
	if got.ExerciseMinutes != 21 || got.RMRCredit != 29 {
		t.Fatalf("expected single rounding over 21 minutes (29), got %+v", got)
	}

	single := engine.Aggregate([]model.LedgerEntry{a}, 2000)
	if single.RMRCredit*3 == got.RMRCredit {
		t.Fatalf("per-entry rounding should differ from combined rounding in this fixture")
	}
}

func TestAggregateLinearSums(t *testing.T) {
	t.Parallel()
	a := []model.LedgerEntry{
		{Type: model.TypeFood, Calories: 420, Count: 1},
		{Type: model.TypeExercise, Calories: -150, Minutes: 25, Count: 1},
	}
	b := []model.LedgerEntry{
		{Type: model.TypeFood, Calories: 80, Count: 3},
		{Type: model.TypeExercise, Calories: -60, Minutes: 10, Count: 2},
	}
	ta := engine.Aggregate(a, 1800)
	tb := engine.Aggregate(b, 1800)
	tab := engine.Aggregate(append(append([]model.LedgerEntry{}, a...), b...), 1800)
	if tab.FoodTotal != ta.FoodTotal+tb.FoodTotal ||
		tab.ExerciseDirectBurn != ta.ExerciseDirectBurn+tb.ExerciseDirectBurn ||
		tab.ExerciseMinutes != ta.ExerciseMinutes+tb.ExerciseMinutes {
		t.Fatalf("linear totals mismatch: a=%+v b=%+v ab=%+v", ta, tb, tab)
	}
}

func TestAggregateEmpty(t *testing.T) {
	t.Parallel()
	if got := engine.Aggregate(nil, 2000); got != (engine.Totals{}) {
		t.Fatalf("expected zero totals, got %+v", got)
	}
}
