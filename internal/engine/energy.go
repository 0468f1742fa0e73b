package engine

import (
	"math"
	"strings"
	"time"

	"github.com/saadjs/kcal-ledger/internal/model"
)

const dateLayout = "2006-01-02"

// activityFactors is the TDEE multiplier table. Lookups that miss fall back
// to the sedentary factor.
var activityFactors = map[model.ActivityLevel]float64{
	model.ActivitySedentary: 1.2,
	model.ActivityLight:     1.375,
	model.ActivityModerate:  1.55,
	model.ActivityActive:    1.725,
	model.ActivityExtra:     1.9,
}

// ActivityFactor returns the multiplier for level, or the sedentary factor
// when level is unknown.
func ActivityFactor(level model.ActivityLevel) float64 {
	if f, ok := activityFactors[level]; ok {
		return f
	}
	return activityFactors[model.ActivitySedentary]
}

// ValidActivityLevel reports whether level is one of the five known levels.
func ValidActivityLevel(level model.ActivityLevel) bool {
	_, ok := activityFactors[level]
	return ok
}

// ValidGender reports whether g is male or female.
func ValidGender(g model.Gender) bool {
	return g == model.GenderMale || g == model.GenderFemale
}

// BMR computes resting energy with the Mifflin-St Jeor equation. Any missing
// input yields 0.
func BMR(weightKg, heightCm float64, ageYears int, gender model.Gender) int {
	if weightKg <= 0 || heightCm <= 0 || ageYears <= 0 || strings.TrimSpace(string(gender)) == "" {
		return 0
	}
	v := 10*weightKg + 6.25*heightCm - 5*float64(ageYears)
	if strings.EqualFold(string(gender), string(model.GenderMale)) {
		v += 5
	} else {
		v -= 161
	}
	return roundHalfUp(v)
}

func TDEE(bmr int, level model.ActivityLevel) int {
	return roundHalfUp(float64(bmr) * ActivityFactor(level))
}

// Age returns whole calendar years between dob (YYYY-MM-DD) and now. The
// current year only counts once the birthday has been reached.
func Age(dob string, now time.Time) int {
	dob = strings.TrimSpace(dob)
	if dob == "" {
		return 0
	}
	born, err := time.Parse(dateLayout, dob)
	if err != nil {
		return 0
	}
	years := now.Year() - born.Year()
	if now.Month() < born.Month() || (now.Month() == born.Month() && now.Day() < born.Day()) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}

// ProfileComplete reports whether s has every field needed to derive RMR.
func ProfileComplete(s model.DaySettings) bool {
	return s.WeightKg > 0 &&
		s.HeightCm > 0 &&
		ValidGender(s.Gender) &&
		strings.TrimSpace(s.DOB) != "" &&
		ValidActivityLevel(s.ActivityLevel)
}

// DerivedRMR recomputes RMR as TDEE(BMR) from the body profile. ok is false
// when the profile is incomplete or the equation yields nothing usable.
func DerivedRMR(s model.DaySettings, now time.Time) (int, bool) {
	if !ProfileComplete(s) {
		return 0, false
	}
	bmr := BMR(s.WeightKg, s.HeightCm, Age(s.DOB, now), s.Gender)
	if bmr <= 0 {
		return 0, false
	}
	return TDEE(bmr, s.ActivityLevel), true
}

// roundHalfUp rounds to the nearest integer with halves going toward +Inf.
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
