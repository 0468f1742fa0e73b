package model

import "time"

type EntryType string

const (
	TypeFood     EntryType = "FOOD"
	TypeExercise EntryType = "EXERCISE"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

type ActivityLevel string

const (
	ActivitySedentary ActivityLevel = "sedentary"
	ActivityLight     ActivityLevel = "light"
	ActivityModerate  ActivityLevel = "moderate"
	ActivityActive    ActivityLevel = "active"
	ActivityExtra     ActivityLevel = "extra"
)

// LedgerEntry is one logged food or exercise line for a day. Calories is the
// per-occurrence value; Count multiplies it in every total.
type LedgerEntry struct {
	ID          int64
	Date        string
	Type        EntryType
	Name        string
	Calories    int
	Minutes     int
	Count       int
	Description string
	Deleted     bool
	LibraryID   *int64
	// Unlinked is set when minutes and calories were explicitly unlinked.
	// LinkRatio is the calories-per-minute captured when the link was last
	// switched on; nil until a ratio has been captured.
	Unlinked  bool
	LinkRatio *float64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// LibraryItem is a reusable template. LastUsed is unix milliseconds, 0 when
// the item has never been adopted.
type LibraryItem struct {
	ID          int64
	Name        string
	NameNorm    string
	Type        EntryType
	Calories    int
	Minutes     int
	Description string
	LastUsed    int64
	UsageCount  int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DaySettings is one version of the body profile and calorie configuration.
// Zero values mean "not set".
type DaySettings struct {
	ID            int64
	Date          string
	WeightKg      float64
	HeightCm      float64
	Gender        Gender
	DOB           string
	ActivityLevel ActivityLevel
	RMR           int
	Deficit       int
}

type DayStatus struct {
	Date       string
	IsComplete bool
}
