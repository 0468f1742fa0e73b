package engine_test

import (
	"testing"

	"github.com/saadjs/kcal-ledger/internal/engine"
	"github.com/saadjs/kcal-ledger/internal/model"
)

func exerciseEntry(minutes, calories int) model.LedgerEntry {
	return model.LedgerEntry{ID: 1, Date: "2026-01-10", Type: model.TypeExercise, Name: "Run", Minutes: minutes, Calories: calories, Count: 1}
}

func TestLinkedRatioStaysFixedAcrossEdits(t *testing.T) {
	t.Parallel()
	s := engine.View(exerciseEntry(10, 34)).BeginEdit()
	if !s.Link().Linked || s.Link().Ratio == nil || !approx(*s.Link().Ratio, 3.4) {
		t.Fatalf("expected auto-link with ratio 3.4, got %+v", s.Link())
	}

	s = s.SetMinutes(11)
	if got := s.Draft().Calories; got != 37 {
		t.Fatalf("expected 37 calories at 11 minutes, got %d", got)
	}
	s = s.SetMinutes(20)
	if got := s.Draft().Calories; got != 68 {
		t.Fatalf("expected 68 calories at 20 minutes, got %d", got)
	}
}

func TestLinkedCaloriesUpdateMinutes(t *testing.T) {
	t.Parallel()
	s := engine.View(exerciseEntry(10, -34)).BeginEdit()
	s = s.SetCalories(-51)
	if got := s.Draft().Minutes; got != 15 {
		t.Fatalf("expected 15 minutes, got %d", got)
	}
	s = s.SetCalories(0)
	if got := s.Draft().Minutes; got != 15 {
		t.Fatalf("expected zero calories not to propagate, got %d minutes", got)
	}
}

func TestUnlinkStopsPropagationAndRelinkRecapturesRatio(t *testing.T) {
	t.Parallel()
	s := engine.View(exerciseEntry(10, 34)).BeginEdit().ToggleLink()
	if s.Link().Linked || s.Link().Ratio != nil {
		t.Fatalf("expected unlinked state with cleared ratio, got %+v", s.Link())
	}
	s = s.SetMinutes(40)
	if s.Draft().Calories != 34 {
		t.Fatalf("expected calories untouched while unlinked, got %d", s.Draft().Calories)
	}

	s = s.ToggleLink()
	if s.Link().Ratio == nil || !approx(*s.Link().Ratio, 0.85) {
		t.Fatalf("expected new ratio 34/40, got %+v", s.Link())
	}
	s = s.SetMinutes(80)
	if s.Draft().Calories != 68 {
		t.Fatalf("expected 68 calories at 80 minutes, got %d", s.Draft().Calories)
	}
}

func TestLinkWithoutUsableValuesHasNoRatio(t *testing.T) {
	t.Parallel()
	l := engine.LinkState{}.Link(0, 120)
	if !l.Linked || l.Ratio != nil {
		t.Fatalf("expected linked without ratio, got %+v", l)
	}
	if _, ok := l.MinutesChanged(30); ok {
		t.Fatalf("expected no propagation without a ratio")
	}
	if _, ok := l.CaloriesChanged(-100); ok {
		t.Fatalf("expected no propagation without a ratio")
	}
}

func TestTypeSwitchUnlinksAndRelinks(t *testing.T) {
	t.Parallel()
	s := engine.View(exerciseEntry(10, 34)).BeginEdit()
	s = s.SetType(model.TypeFood)
	if s.Link().Linked {
		t.Fatalf("expected switching to FOOD to unlink")
	}
	s = s.SetMinutes(20)
	if s.Draft().Calories != 34 {
		t.Fatalf("expected no propagation for FOOD, got %d", s.Draft().Calories)
	}

	s = s.SetType(model.TypeExercise)
	if !s.Link().Linked || s.Link().Ratio == nil || !approx(*s.Link().Ratio, -1.7) {
		t.Fatalf("expected relink with ratio -34/20, got %+v", s.Link())
	}
}

func TestToggleLinkIgnoredForFood(t *testing.T) {
	t.Parallel()
	food := model.LedgerEntry{Type: model.TypeFood, Name: "Toast", Calories: 120, Count: 1}
	s := engine.View(food).BeginEdit().ToggleLink()
	if s.Link().Linked {
		t.Fatalf("expected FOOD entries never to link")
	}
}

func TestSettersIgnoredWhileViewing(t *testing.T) {
	t.Parallel()
	s := engine.View(exerciseEntry(10, 34)).SetName("Swim").SetMinutes(99)
	if s.Mode() != engine.Viewing || s.Draft().Name != "Run" || s.Draft().Minutes != 10 {
		t.Fatalf("expected viewing session to ignore edits, got %+v", s.Draft())
	}
}

func TestSessionsAreIndependent(t *testing.T) {
	t.Parallel()
	a := engine.View(exerciseEntry(10, 34)).BeginEdit()
	b := engine.View(exerciseEntry(30, -300))

	a = a.SetMinutes(20)
	if b.Mode() != engine.Viewing || b.Link().Linked || b.Draft().Calories != -300 {
		t.Fatalf("editing one session changed another: %+v", b.Draft())
	}
	b = b.BeginEdit().SetMinutes(60)
	if a.Draft().Calories != 68 || b.Draft().Calories != -600 {
		t.Fatalf("unexpected drafts: a=%d b=%d", a.Draft().Calories, b.Draft().Calories)
	}
}

func TestCommitNormalisesAndReportsChange(t *testing.T) {
	t.Parallel()
	orig := exerciseEntry(30, -300)
	s := engine.View(orig).BeginEdit()
	s, _, changed := s.Commit()
	if changed || s.Mode() != engine.Viewing {
		t.Fatalf("expected untouched commit to report no change")
	}

	s = s.BeginEdit().SetCalories(250).SetCount(0)
	s, got, changed := s.Commit()
	if !changed {
		t.Fatalf("expected change to be reported")
	}
	if got.Calories != -250 || got.Count != 1 || got.Minutes != 25 {
		t.Fatalf("unexpected committed entry: %+v", got)
	}

	s = s.BeginEdit().SetType(model.TypeFood).SetName("Bagel")
	_, got, _ = s.Commit()
	if got.Minutes != 0 || got.Calories != 250 || got.Type != model.TypeFood {
		t.Fatalf("expected FOOD commit to drop minutes and flip sign, got %+v", got)
	}
}

func TestCancelRestoresOriginal(t *testing.T) {
	t.Parallel()
	s := engine.View(exerciseEntry(10, 34)).BeginEdit().SetMinutes(50).Cancel()
	if s.Mode() != engine.Viewing || s.Draft().Minutes != 10 || s.Draft().Calories != 34 {
		t.Fatalf("expected cancel to restore original, got %+v", s.Draft())
	}
}

func TestCommittedRatioCarriesIntoNextSession(t *testing.T) {
	t.Parallel()
	_, saved, changed := engine.View(exerciseEntry(10, 34)).BeginEdit().SetMinutes(11).Commit()
	if !changed || saved.Calories != -37 {
		t.Fatalf("expected -37 calories at 11 minutes, got %+v", saved)
	}
	if saved.Unlinked || saved.LinkRatio == nil || !approx(*saved.LinkRatio, 3.4) {
		t.Fatalf("expected committed ratio 3.4, got unlinked=%v ratio=%v", saved.Unlinked, saved.LinkRatio)
	}

	s := engine.View(saved).BeginEdit().SetMinutes(20)
	if got := s.Draft().Calories; got != 68 {
		t.Fatalf("expected original ratio to give 68 at 20 minutes, got %d", got)
	}
}

func TestCommittedUnlinkCarriesIntoNextSession(t *testing.T) {
	t.Parallel()
	_, saved, changed := engine.View(exerciseEntry(10, -34)).BeginEdit().ToggleLink().Commit()
	if !changed || !saved.Unlinked || saved.LinkRatio != nil {
		t.Fatalf("expected unlink to be committed, got changed=%v %+v", changed, saved)
	}

	s := engine.View(saved).BeginEdit()
	if s.Link().Linked {
		t.Fatalf("expected stored unlink to hold in the next session")
	}
	s = s.SetMinutes(40)
	if s.Draft().Calories != -34 {
		t.Fatalf("expected calories untouched, got %d", s.Draft().Calories)
	}
	s = s.ToggleLink().SetMinutes(80)
	if s.Draft().Calories != -68 {
		t.Fatalf("expected relink to capture 34/40, got %d", s.Draft().Calories)
	}
	_, relinked, _ := s.Commit()
	if relinked.Unlinked || relinked.LinkRatio == nil || !approx(*relinked.LinkRatio, -0.85) {
		t.Fatalf("expected relinked ratio -0.85, got %+v", relinked)
	}
}

func TestLeavingExerciseClearsStoredLink(t *testing.T) {
	t.Parallel()
	r := 3.4
	e := exerciseEntry(10, -34)
	e.LinkRatio = &r
	_, saved, _ := engine.View(e).BeginEdit().SetType(model.TypeFood).Commit()
	if saved.Unlinked || saved.LinkRatio != nil {
		t.Fatalf("expected FOOD to carry no link, got %+v", saved)
	}
}

func TestStoredLinkResumesCapturedRatio(t *testing.T) {
	t.Parallel()
	r := -3.4
	e := exerciseEntry(11, -37)
	e.LinkRatio = &r
	l := engine.StoredLink(e)
	if !l.Linked || l.Ratio == nil || *l.Ratio != r {
		t.Fatalf("expected stored ratio, got %+v", l)
	}
	_, unchanged, changed := engine.View(e).BeginEdit().Commit()
	if changed || unchanged.LinkRatio == nil || *unchanged.LinkRatio != r {
		t.Fatalf("expected untouched session to keep ratio without change, got %+v", unchanged)
	}
}

func TestRelinkAfterPositiveCaloriesUsesExerciseSign(t *testing.T) {
	t.Parallel()
	s := engine.View(exerciseEntry(30, -210)).BeginEdit().ToggleLink()
	s = s.SetMinutes(10).SetCalories(45).ToggleLink()
	if s.Draft().Calories != -45 || s.Link().Ratio == nil || !approx(*s.Link().Ratio, -4.5) {
		t.Fatalf("expected ratio -4.5 from normalised calories, got %+v draft %+v", s.Link(), s.Draft())
	}
	// -49.5 rounds half-up to -49; a positive ratio would have given -50.
	s = s.SetMinutes(11)
	if s.Draft().Calories != -49 {
		t.Fatalf("expected -49 at 11 minutes, got %d", s.Draft().Calories)
	}
}
