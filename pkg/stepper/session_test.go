package stepper_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-stepform/pkg/stepper"
)

func TestReduceAuthenticatedAdvancesFromLogin(t *testing.T) {
	t.Parallel()

	state := stepper.EngineState{Form: stepper.NewFormState(4)}
	before := state.Clone()

	next := stepper.Reduce(state, stepper.SessionEvent{
		Status:      stepper.SessionAuthenticated,
		DisplayName: "Asha Rao",
	})

	if diff := cmp.Diff(before, state); diff != "" {
		t.Fatalf("Reduce mutated its input (-want +got):\n%s", diff)
	}
	if next.CurrentTab != 1 || next.HighestReached != 1 {
		t.Fatalf("expected tab 1, got current=%d highest=%d", next.CurrentTab, next.HighestReached)
	}
	if next.Form[0].Fields["loginStatus"] != true {
		t.Fatalf("expected loginStatus=true, got %v", next.Form[0].Fields["loginStatus"])
	}
	if next.Form[1].Fields["fullName"] != "Asha Rao" {
		t.Fatalf("expected prefilled name, got %v", next.Form[1].Fields["fullName"])
	}
	if !next.Locked[0] {
		t.Fatalf("expected login tab to be locked")
	}
	if next.Session != stepper.SessionAuthenticated {
		t.Fatalf("expected authenticated session, got %q", next.Session)
	}
}

func TestReduceAuthenticatedElsewhereDoesNotMove(t *testing.T) {
	t.Parallel()

	state := stepper.EngineState{Form: stepper.NewFormState(4), CurrentTab: 2, HighestReached: 2}
	next := stepper.Reduce(state, stepper.SessionEvent{Status: stepper.SessionAuthenticated, DisplayName: "A"})
	if next.CurrentTab != 2 {
		t.Fatalf("expected to stay on tab 2, got %d", next.CurrentTab)
	}
	if next.Form[0].Fields["loginStatus"] != true {
		t.Fatalf("expected login flag to be written regardless of position")
	}
}

func TestReduceRepeatedAuthenticatedIsNoop(t *testing.T) {
	t.Parallel()

	state := stepper.EngineState{Form: stepper.NewFormState(4)}
	first := stepper.Reduce(state, stepper.SessionEvent{Status: stepper.SessionAuthenticated, DisplayName: "A"})
	first.Form[1].Fields["fullName"] = "Edited"

	second := stepper.Reduce(first, stepper.SessionEvent{Status: stepper.SessionAuthenticated, DisplayName: "A"})
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("second authenticated event changed state (-want +got):\n%s", diff)
	}
}

func TestReduceUnauthenticatedResets(t *testing.T) {
	t.Parallel()

	state := stepper.EngineState{
		Form:           stepper.NewFormState(4),
		CurrentTab:     3,
		HighestReached: 3,
		Locked:         []bool{true, false, false, false},
		Submitted:      true,
		Session:        stepper.SessionAuthenticated,
	}
	state.Form[3].Fields["password"] = "abcdef12"

	next := stepper.Reduce(state, stepper.SessionEvent{Status: stepper.SessionUnauthenticated})
	want := stepper.EngineState{
		Form:    stepper.NewFormState(4),
		Locked:  make([]bool, 4),
		Session: stepper.SessionUnauthenticated,
	}
	if diff := cmp.Diff(want, next); diff != "" {
		t.Fatalf("reset mismatch (-want +got):\n%s", diff)
	}
}

func TestReduceLoadingIsIgnored(t *testing.T) {
	t.Parallel()

	state := stepper.EngineState{Form: stepper.NewFormState(2), CurrentTab: 1, HighestReached: 1}
	next := stepper.Reduce(state, stepper.SessionEvent{Status: stepper.SessionLoading})
	if diff := cmp.Diff(state, next); diff != "" {
		t.Fatalf("loading changed state (-want +got):\n%s", diff)
	}
}

func TestEngineSignInScenario(t *testing.T) {
	t.Parallel()

	var tabs []int
	e := newOnboarding(t).engine(t, stepper.OnTabChange(func(tab int) { tabs = append(tabs, tab) }))

	e.HandleSession(stepper.SessionEvent{Status: stepper.SessionLoading})
	if e.CurrentTab() != 0 {
		t.Fatalf("loading must not move the form")
	}

	state := e.HandleSession(stepper.SessionEvent{Status: stepper.SessionAuthenticated, DisplayName: "Asha Rao"})
	if state.CurrentTab != 1 || e.CurrentTab() != 1 {
		t.Fatalf("expected tab 1 after sign in, got %d", e.CurrentTab())
	}
	if e.Field(0, "loginStatus") != true || e.Field(1, "fullName") != "Asha Rao" {
		t.Fatalf("unexpected session fields: %v", e.Snapshot().Merged())
	}
	if !e.Snapshot()[0].IsValid {
		t.Fatalf("expected login tab to be valid after sign in")
	}
	if err := e.JumpTo(0); err == nil {
		t.Fatalf("expected login tab to be locked after sign in")
	}

	mustSet(t, e, 1, "fullName", "Asha R.")
	e.HandleSession(stepper.SessionEvent{Status: stepper.SessionAuthenticated, DisplayName: "Asha Rao"})
	if e.CurrentTab() != 1 || e.Field(1, "fullName") != "Asha R." {
		t.Fatalf("repeated sign in must not move or overwrite, tab=%d name=%v", e.CurrentTab(), e.Field(1, "fullName"))
	}
	if diff := cmp.Diff([]int{1}, tabs); diff != "" {
		t.Fatalf("tab changes mismatch (-want +got):\n%s", diff)
	}
}

func TestEngineSignOutScenario(t *testing.T) {
	t.Parallel()

	e := newOnboarding(t).engine(t)
	e.HandleSession(stepper.SessionEvent{Status: stepper.SessionAuthenticated, DisplayName: "Asha"})
	mustSet(t, e, 1, "agreeTerms", true)
	if _, err := e.Next(); err != nil {
		t.Fatalf("Next: %v", err)
	}

	e.HandleSession(stepper.SessionEvent{Status: stepper.SessionUnauthenticated})
	if e.CurrentTab() != 0 || e.HighestReached() != 0 {
		t.Fatalf("expected reset to tab 0, got current=%d highest=%d", e.CurrentTab(), e.HighestReached())
	}
	for idx, tab := range e.Snapshot() {
		if len(tab.Fields) != 0 {
			t.Fatalf("tab %d not cleared: %v", idx, tab.Fields)
		}
	}
	if e.Locked(0) {
		t.Fatalf("expected login tab unlocked after sign out")
	}
	if e.Session() != stepper.SessionUnauthenticated {
		t.Fatalf("unexpected session %q", e.Session())
	}
}

func TestParseSessionStatus(t *testing.T) {
	t.Parallel()

	cases := map[string]stepper.SessionStatus{
		"authenticated":     stepper.SessionAuthenticated,
		" Unauthenticated ": stepper.SessionUnauthenticated,
		"LOADING":           stepper.SessionLoading,
	}
	for raw, want := range cases {
		got, ok := stepper.ParseSessionStatus(raw)
		if !ok || got != want {
			t.Fatalf("ParseSessionStatus(%q) = %q, %v", raw, got, ok)
		}
	}
	if _, ok := stepper.ParseSessionStatus("expired"); ok {
		t.Fatalf("expected unknown status to be rejected")
	}
}

func TestEngineResetAllowsSigningInAgain(t *testing.T) {
	t.Parallel()

	var tabs []int
	e := newOnboarding(t).engine(t, stepper.OnTabChange(func(tab int) { tabs = append(tabs, tab) }))
	e.HandleSession(stepper.SessionEvent{Status: stepper.SessionAuthenticated, DisplayName: "Asha Rao"})
	mustSet(t, e, 1, "agreeTerms", true)
	if _, err := e.Next(); err != nil {
		t.Fatalf("Next: %v", err)
	}

	e.Reset()
	if e.CurrentTab() != 0 || e.HighestReached() != 0 || !e.Snapshot().Empty() {
		t.Fatalf("expected empty form on tab 0, got tab=%d state=%+v", e.CurrentTab(), e.Snapshot())
	}
	if e.Locked(0) || e.Submitted() {
		t.Fatalf("expected reset to unlock the login tab and clear submission")
	}
	if e.Session() != stepper.SessionUnknown {
		t.Fatalf("expected session to be cleared with the login flag, got %q", e.Session())
	}

	e.HandleSession(stepper.SessionEvent{Status: stepper.SessionAuthenticated, DisplayName: "Asha Rao"})
	if e.CurrentTab() != 1 || e.Field(0, "loginStatus") != true || !e.Locked(0) {
		t.Fatalf("sign in after reset not applied: tab=%d login=%v locked=%v", e.CurrentTab(), e.Field(0, "loginStatus"), e.Locked(0))
	}
	if err := e.Previous(); err != nil {
		t.Fatalf("Previous: %v", err)
	}
	if _, err := e.Next(); err != nil {
		t.Fatalf("signed-in user must be able to leave the login tab: %v", err)
	}
	if diff := cmp.Diff([]int{1, 2, 0, 1, 0, 1}, tabs); diff != "" {
		t.Fatalf("tab changes mismatch (-want +got):\n%s", diff)
	}
}

func TestEngineRecordsLoadingWithoutTransition(t *testing.T) {
	t.Parallel()

	e := newOnboarding(t).engine(t)
	e.HandleSession(stepper.SessionEvent{Status: stepper.SessionAuthenticated, DisplayName: "Asha"})
	mustSet(t, e, 1, "fullName", "Asha R.")

	e.HandleSession(stepper.SessionEvent{Status: stepper.SessionLoading})
	if e.Session() != stepper.SessionLoading {
		t.Fatalf("expected loading to be reported, got %q", e.Session())
	}
	if e.CurrentTab() != 1 || e.Field(1, "fullName") != "Asha R." {
		t.Fatalf("loading must not touch the form")
	}

	e.HandleSession(stepper.SessionEvent{Status: stepper.SessionAuthenticated, DisplayName: "Asha"})
	if e.Session() != stepper.SessionAuthenticated {
		t.Fatalf("expected authenticated after loading, got %q", e.Session())
	}
	if e.Field(1, "fullName") != "Asha R." {
		t.Fatalf("re-authenticating after loading must not overwrite edits, got %v", e.Field(1, "fullName"))
	}
}
