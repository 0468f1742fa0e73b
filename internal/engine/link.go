package engine

import "github.com/saadjs/kcal-ledger/internal/model"

// LinkState ties an exercise's minutes and calories together. Ratio is
// calories per minute captured when the link was switched on; it stays fixed
// until the next unlink/link cycle so repeated edits do not drift.
type LinkState struct {
	Linked bool
	Ratio  *float64
}

// Link switches the link on and captures the ratio from the current values.
// Without a positive duration and nonzero calories the ratio stays nil and
// nothing propagates.
func (l LinkState) Link(minutes, calories int) LinkState {
	l.Linked = true
	l.Ratio = nil
	if minutes > 0 && calories != 0 {
		r := float64(calories) / float64(minutes)
		l.Ratio = &r
	}
	return l
}

func (l LinkState) Unlink() LinkState {
	return LinkState{}
}

// MinutesChanged returns the calories implied by a new duration, if the link
// propagates.
func (l LinkState) MinutesChanged(minutes int) (int, bool) {
	if !l.Linked || l.Ratio == nil || minutes <= 0 {
		return 0, false
	}
	return roundHalfUp(float64(minutes) * *l.Ratio), true
}

// CaloriesChanged returns the duration implied by a new calorie value, if the
// link propagates. Minutes are never negative.
func (l LinkState) CaloriesChanged(calories int) (int, bool) {
	if !l.Linked || l.Ratio == nil || *l.Ratio == 0 || calories == 0 {
		return 0, false
	}
	return absInt(roundHalfUp(float64(calories) / *l.Ratio)), true
}

type Mode int

const (
	Viewing Mode = iota
	Editing
)

// Session is the edit state of a single ledger entry. Each entry owns its own
// session value, so editing one entry never affects another. All methods
// return a new Session; setters are no-ops while viewing.
type Session struct {
	mode     Mode
	original model.LedgerEntry
	draft    model.LedgerEntry
	link     LinkState
	start    LinkState
	off      bool
}

func View(entry model.LedgerEntry) Session {
	return Session{mode: Viewing, original: entry, draft: entry}
}

func (s Session) Mode() Mode {
	return s.mode
}

func (s Session) Draft() model.LedgerEntry {
	return s.draft
}

func (s Session) Link() LinkState {
	return s.link
}

// StoredLink rebuilds the link an entry was saved with. An exercise entry
// with no captured ratio and usable values links now from those values.
func StoredLink(e model.LedgerEntry) LinkState {
	if e.Type != model.TypeExercise || e.Unlinked {
		return LinkState{}
	}
	if e.LinkRatio != nil {
		r := *e.LinkRatio
		return LinkState{Linked: true, Ratio: &r}
	}
	if e.Minutes > 0 && e.Calories != 0 {
		return LinkState{}.Link(e.Minutes, e.Calories)
	}
	return LinkState{}
}

// BeginEdit enters editing with a fresh draft. The link resumes from the
// entry's stored state, so a captured ratio survives across sessions.
func (s Session) BeginEdit() Session {
	s.mode = Editing
	s.draft = s.original
	s.link = StoredLink(s.original)
	s.start = s.link
	s.off = s.original.Type == model.TypeExercise && s.original.Unlinked
	return s
}

func (s Session) SetName(name string) Session {
	if s.mode != Editing {
		return s
	}
	s.draft.Name = name
	return s
}

func (s Session) SetDescription(desc string) Session {
	if s.mode != Editing {
		return s
	}
	s.draft.Description = desc
	return s
}

func (s Session) SetCount(count int) Session {
	if s.mode != Editing {
		return s
	}
	s.draft.Count = max(1, count)
	return s
}

// SetType changes the draft type and flips the calorie sign to match. Leaving
// EXERCISE drops the link; arriving at EXERCISE with usable values links and
// captures a ratio.
func (s Session) SetType(t model.EntryType) Session {
	if s.mode != Editing {
		return s
	}
	s.draft.Type = t
	s.draft.Calories = NormalizeCalories(t, s.draft.Calories)
	if t != model.TypeExercise {
		s.link = LinkState{}
		s.off = false
		return s
	}
	if !s.link.Linked && !s.off && s.draft.Minutes > 0 && s.draft.Calories != 0 {
		s.link = s.link.Link(s.draft.Minutes, s.draft.Calories)
	}
	return s
}

func (s Session) ToggleLink() Session {
	if s.mode != Editing {
		return s
	}
	if s.link.Linked {
		s.link = s.link.Unlink()
		s.off = s.draft.Type == model.TypeExercise
		return s
	}
	if s.draft.Type != model.TypeExercise {
		return s
	}
	s.link = s.link.Link(s.draft.Minutes, s.draft.Calories)
	s.off = false
	return s
}

func (s Session) SetMinutes(minutes int) Session {
	if s.mode != Editing {
		return s
	}
	s.draft.Minutes = max(0, minutes)
	if cal, ok := s.link.MinutesChanged(minutes); ok {
		s.draft.Calories = cal
	}
	return s
}

func (s Session) SetCalories(calories int) Session {
	if s.mode != Editing {
		return s
	}
	s.draft.Calories = NormalizeCalories(s.draft.Type, calories)
	if m, ok := s.link.CaloriesChanged(s.draft.Calories); ok {
		s.draft.Minutes = m
	}
	return s
}

// Commit leaves editing and returns the normalised draft together with
// whether anything differs from the entry the session started from. The
// draft carries the link state to store with the entry.
func (s Session) Commit() (Session, model.LedgerEntry, bool) {
	if s.mode != Editing {
		return s, s.original, false
	}
	d := s.draft
	d.Calories = NormalizeCalories(d.Type, d.Calories)
	if d.Type != model.TypeExercise {
		d.Minutes = 0
	}
	if d.Count < 1 {
		d.Count = 1
	}
	d.Unlinked, d.LinkRatio = linkRecord(d.Type, s.link, s.off)
	o := s.original
	startUnlinked, startRatio := linkRecord(o.Type, s.start, o.Type == model.TypeExercise && o.Unlinked)
	changed := d.Name != o.Name ||
		d.Type != o.Type ||
		d.Calories != o.Calories ||
		d.Minutes != o.Minutes ||
		d.Count != o.Count ||
		d.Description != o.Description ||
		d.Unlinked != startUnlinked ||
		!sameRatio(d.LinkRatio, startRatio)
	return View(d), d, changed
}

// linkRecord is the stored form of a link: only EXERCISE entries carry one.
func linkRecord(t model.EntryType, l LinkState, off bool) (bool, *float64) {
	if t != model.TypeExercise {
		return false, nil
	}
	if !l.Linked || l.Ratio == nil {
		return off, nil
	}
	r := *l.Ratio
	return false, &r
}

func sameRatio(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func (s Session) Cancel() Session {
	return View(s.original)
}
