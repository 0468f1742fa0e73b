package engine

import (
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/saadjs/kcal-ledger/internal/model"
)

const (
	DefaultExerciseMinutes = 30
	HistoryScanLimit       = 500
	HistoryFeedLimit       = 100
)

func NormalizeName(name string) string {
	return strings.TrimSpace(strings.ToLower(name))
}

// NormalizeCalories applies the stored sign convention: FOOD is positive,
// EXERCISE is zero or negative.
func NormalizeCalories(t model.EntryType, calories int) int {
	if t == model.TypeExercise {
		return -absInt(calories)
	}
	return absInt(calories)
}

// SortLibrary orders items by usage count, then most recent use, then name
// (locale-aware, case-insensitive). It sorts in place.
func SortLibrary(items []model.LibraryItem) {
	col := collate.New(language.Und, collate.IgnoreCase)
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.UsageCount != b.UsageCount {
			return a.UsageCount > b.UsageCount
		}
		if a.LastUsed != b.LastUsed {
			return a.LastUsed > b.LastUsed
		}
		return col.CompareString(a.Name, b.Name) < 0
	})
}

// FilterLibrary keeps items whose name contains query (case-insensitive) and
// whose type matches t. An empty t matches both types.
func FilterLibrary(items []model.LibraryItem, query string, t model.EntryType) []model.LibraryItem {
	q := NormalizeName(query)
	out := make([]model.LibraryItem, 0, len(items))
	for _, item := range items {
		if t != "" && item.Type != t {
			continue
		}
		if q != "" && !strings.Contains(NormalizeName(item.Name), q) {
			continue
		}
		out = append(out, item)
	}
	return out
}

// HistoryItem is a past ledger entry surfaced as an adoptable template. It is
// never persisted as a library record.
type HistoryItem struct {
	model.LibraryItem
	LastDate string
	EntryID  int64
}

// HistoryFeed walks raw entries newest first and keeps the most recent entry
// per distinct normalised name. Entries on or after currentDate and deleted
// entries are skipped; at most limit items are returned.
func HistoryFeed(rows []model.LedgerEntry, currentDate string, limit int) []HistoryItem {
	if limit <= 0 {
		limit = HistoryFeedLimit
	}
	ordered := make([]model.LedgerEntry, len(rows))
	copy(ordered, rows)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Date != ordered[j].Date {
			return ordered[i].Date > ordered[j].Date
		}
		return ordered[i].ID > ordered[j].ID
	})

	seen := make(map[string]struct{}, limit)
	out := make([]HistoryItem, 0, min(limit, len(ordered)))
	for _, e := range ordered {
		if len(out) >= limit {
			break
		}
		if e.Deleted || e.Date >= currentDate {
			continue
		}
		norm := NormalizeName(e.Name)
		if norm == "" {
			continue
		}
		if _, ok := seen[norm]; ok {
			continue
		}
		seen[norm] = struct{}{}
		out = append(out, HistoryItem{
			LibraryItem: model.LibraryItem{
				Name:        strings.TrimSpace(e.Name),
				NameNorm:    norm,
				Type:        e.Type,
				Calories:    e.Calories,
				Minutes:     e.Minutes,
				Description: e.Description,
			},
			LastDate: e.Date,
			EntryID:  e.ID,
		})
	}
	return out
}

// Selection is the caller's adjustment when adopting a template: Count for
// FOOD, Minutes for EXERCISE. Zero values fall back to 1 and the base duration.
type Selection struct {
	Count   int
	Minutes int
}

// Adopt turns a template into a ledger entry for date. FOOD keeps its unit
// calories and carries the multiplier in Count. EXERCISE rescales calories
// when the requested duration differs from the base duration.
func Adopt(item model.LibraryItem, sel Selection, date string) model.LedgerEntry {
	entry := model.LedgerEntry{
		Date:        date,
		Type:        item.Type,
		Name:        strings.TrimSpace(item.Name),
		Description: item.Description,
		Count:       1,
	}
	if item.ID > 0 {
		id := item.ID
		entry.LibraryID = &id
	}
	if item.Type == model.TypeExercise {
		base := item.Minutes
		if base <= 0 {
			base = DefaultExerciseMinutes
		}
		req := sel.Minutes
		if req <= 0 {
			req = base
		}
		calories := absInt(item.Calories)
		if req != base {
			calories = roundHalfUp(float64(calories) * float64(req) / float64(base))
		}
		entry.Minutes = req
		entry.Calories = NormalizeCalories(model.TypeExercise, calories)
		return entry
	}
	entry.Count = max(1, sel.Count)
	entry.Calories = NormalizeCalories(item.Type, item.Calories)
	return entry
}

type FieldChange struct {
	Field string
	Old   string
	New   string
}

// LibraryDiff lists what replacing existing with candidate would change.
func LibraryDiff(existing, candidate model.LibraryItem) []FieldChange {
	changes := make([]FieldChange, 0, 5)
	if existing.Name != candidate.Name {
		changes = append(changes, FieldChange{Field: "Name", Old: existing.Name, New: candidate.Name})
	}
	if existing.Type != candidate.Type {
		changes = append(changes, FieldChange{Field: "Type", Old: string(existing.Type), New: string(candidate.Type)})
	}
	if existing.Calories != candidate.Calories {
		changes = append(changes, FieldChange{Field: "Calories", Old: strconv.Itoa(existing.Calories), New: strconv.Itoa(candidate.Calories)})
	}
	if existing.Type == model.TypeExercise && existing.Minutes != candidate.Minutes {
		changes = append(changes, FieldChange{Field: "Minutes", Old: strconv.Itoa(existing.Minutes) + "m", New: strconv.Itoa(candidate.Minutes) + "m"})
	}
	if existing.Description != candidate.Description {
		changes = append(changes, FieldChange{Field: "Description", Old: orNone(existing.Description), New: orNone(candidate.Description)})
	}
	return changes
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
