// Package engine holds the calorie accounting rules: settings resolution,
// energy estimates, daily totals, goal zones, linked editing and library
// ranking. Everything here is pure and works on records already loaded from
// the store.
package engine

import "github.com/saadjs/kcal-ledger/internal/model"

const minutesPerDay = 1440

type Totals struct {
	FoodTotal          int `json:"food_total"`
	ExerciseDirectBurn int `json:"exercise_direct_burn"`
	ExerciseMinutes    int `json:"exercise_minutes"`
	RMRCredit          int `json:"rmr_credit"`
	BurnedTotal        int `json:"burned_total"`
	NetCalories        int `json:"net_calories"`
}

// Aggregate totals a day's entries. The resting burn that would have happened
// anyway during exercised minutes is credited back once, after summing, so
// exercise is not double counted against RMR.
func Aggregate(entries []model.LedgerEntry, rmr int) Totals {
	var t Totals
	for _, e := range entries {
		if e.Deleted {
			continue
		}
		count := e.Count
		if count < 1 {
			count = 1
		}
		switch e.Type {
		case model.TypeFood:
			t.FoodTotal += e.Calories * count
		case model.TypeExercise:
			t.ExerciseDirectBurn += e.Calories * count
			if e.Minutes > 0 {
				t.ExerciseMinutes += e.Minutes * count
			}
		}
	}
	t.RMRCredit = roundHalfUp(float64(t.ExerciseMinutes) * float64(rmr) / minutesPerDay)
	t.BurnedTotal = t.ExerciseDirectBurn + t.RMRCredit
	t.NetCalories = t.FoodTotal + t.BurnedTotal
	return t
}
