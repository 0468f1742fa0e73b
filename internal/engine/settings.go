package engine

import (
	"sort"
	"time"

	"github.com/saadjs/kcal-ledger/internal/model"
)

const (
	DefaultRMR     = 2000
	DefaultDeficit = 0
)

// Effective is the configuration in force on a day once defaults apply.
type Effective struct {
	Settings model.DaySettings
	Found    bool
	RMR      int
	Deficit  int
}

func (e Effective) Goal() int {
	return e.RMR - e.Deficit
}

// EffectiveFrom applies engine defaults to a resolved record. A nil record or
// a stored RMR <= 0 falls back to DefaultRMR.
func EffectiveFrom(s *model.DaySettings) Effective {
	if s == nil {
		return Effective{RMR: DefaultRMR, Deficit: DefaultDeficit}
	}
	e := Effective{Settings: *s, Found: true, RMR: s.RMR, Deficit: s.Deficit}
	if e.RMR <= 0 {
		e.RMR = DefaultRMR
	}
	return e
}

// History is a date-ordered settings log with floor lookups.
type History struct {
	records []model.DaySettings
}

func NewHistory(records []model.DaySettings) *History {
	h := &History{records: make([]model.DaySettings, len(records))}
	copy(h.records, records)
	sort.SliceStable(h.records, func(i, j int) bool {
		return h.records[i].Date < h.records[j].Date
	})
	return h
}

// Resolve returns the record with the greatest date <= date.
func (h *History) Resolve(date string) (model.DaySettings, bool) {
	idx := sort.Search(len(h.records), func(i int) bool {
		return h.records[i].Date > date
	})
	if idx == 0 {
		return model.DaySettings{}, false
	}
	return h.records[idx-1], true
}

func (h *History) Effective(date string) Effective {
	s, ok := h.Resolve(date)
	if !ok {
		return EffectiveFrom(nil)
	}
	return EffectiveFrom(&s)
}

// Put inserts s, replacing any record with the same date.
func (h *History) Put(s model.DaySettings) {
	idx := sort.Search(len(h.records), func(i int) bool {
		return h.records[i].Date >= s.Date
	})
	if idx < len(h.records) && h.records[idx].Date == s.Date {
		h.records[idx] = s
		return
	}
	h.records = append(h.records, model.DaySettings{})
	copy(h.records[idx+1:], h.records[idx:])
	h.records[idx] = s
}

func (h *History) Records() []model.DaySettings {
	out := make([]model.DaySettings, len(h.records))
	copy(out, h.records)
	return out
}

func (h *History) Len() int {
	return len(h.records)
}

// SettingsPatch holds the fields a caller wants to change. Nil fields are
// carried forward from the prior record.
type SettingsPatch struct {
	WeightKg      *float64
	HeightCm      *float64
	Gender        *model.Gender
	DOB           *string
	ActivityLevel *model.ActivityLevel
	RMR           *int
	Deficit       *int
}

// ApplySettingsChange builds the record stored for date. prior is the record
// resolved for date (nil when none); when it sits on the same date its ID is
// kept so the caller updates in place. A complete profile always overrides
// RMR with the derived value.
func ApplySettingsChange(prior *model.DaySettings, date string, patch SettingsPatch, now time.Time) model.DaySettings {
	var next model.DaySettings
	if prior != nil {
		next = *prior
		if prior.Date != date {
			next.ID = 0
		}
	}
	next.Date = date

	if patch.WeightKg != nil {
		next.WeightKg = *patch.WeightKg
	}
	if patch.HeightCm != nil {
		next.HeightCm = *patch.HeightCm
	}
	if patch.Gender != nil {
		next.Gender = *patch.Gender
	}
	if patch.DOB != nil {
		next.DOB = *patch.DOB
	}
	if patch.ActivityLevel != nil {
		next.ActivityLevel = *patch.ActivityLevel
	}
	if patch.RMR != nil {
		next.RMR = *patch.RMR
	}
	if patch.Deficit != nil {
		next.Deficit = *patch.Deficit
	}

	if rmr, ok := DerivedRMR(next, now); ok {
		next.RMR = rmr
	}
	return next
}
