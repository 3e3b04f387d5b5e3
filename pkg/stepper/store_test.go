package stepper

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestStoreSetGetRoundTripWithoutLeakage(t *testing.T) {
	t.Parallel()

	var notified []FormState
	store := NewStore(NewFormState(3), func(state FormState) {
		notified = append(notified, state)
	})

	if _, err := store.Set(0, "loginStatus", true); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, err := store.Set(1, "fullName", "Asha"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	next, err := store.Set(2, "fullName", "Other tab")
	if err != nil {
		t.Fatalf("Set: %v", err)
	}

	if got := store.Get(1, "fullName"); got != "Asha" {
		t.Fatalf("expected round trip value, got %v", got)
	}
	if got := store.Get(0, "loginStatus"); got != true {
		t.Fatalf("expected tab 0 to be unchanged, got %v", got)
	}
	if got := store.Get(2, "missing"); got != "" {
		t.Fatalf("expected empty default, got %v", got)
	}

	next[1].Fields["fullName"] = "mutated by host"
	if got := store.Get(1, "fullName"); got != "Asha" {
		t.Fatalf("returned snapshot aliased the store: %v", got)
	}

	if len(notified) != 3 {
		t.Fatalf("expected one notification per mutation, got %d", len(notified))
	}
	want := map[string]any{"loginStatus": true}
	if diff := cmp.Diff(want, notified[0][0].Fields); diff != "" {
		t.Fatalf("first snapshot mismatch (-want +got):\n%s", diff)
	}
	if len(notified[0][1].Fields) != 0 {
		t.Fatalf("first snapshot should not see later writes: %v", notified[0][1].Fields)
	}
}

func TestStoreRejectsBadCoordinates(t *testing.T) {
	t.Parallel()

	store := NewStore(NewFormState(2), nil)
	if _, err := store.Set(2, "x", "y"); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
	if _, err := store.Set(0, "  ", "y"); !errors.Is(err, ErrEmptyField) {
		t.Fatalf("expected ErrEmptyField, got %v", err)
	}
	if _, ok := store.Lookup(-1, "x"); ok {
		t.Fatalf("expected lookup on negative tab to miss")
	}
}

func TestStoreResetKeepsTabCount(t *testing.T) {
	t.Parallel()

	store := NewStore(NewFormState(4), nil)
	_, _ = store.Set(3, "password", "secret123")
	state := store.Reset()
	if len(state) != 4 || !state.Empty() {
		t.Fatalf("expected 4 empty tabs, got %+v", state)
	}
}

func TestFormStateMergedUsesAscendingOrder(t *testing.T) {
	t.Parallel()

	state := NewFormState(3)
	state[0].Fields["shared"] = "first"
	state[0].Fields["a"] = 1.0
	state[2].Fields["shared"] = "last"
	state[1].Fields["b"] = false

	want := map[string]any{"shared": "last", "a": 1.0, "b": false}
	if diff := cmp.Diff(want, state.Merged()); diff != "" {
		t.Fatalf("merged mismatch (-want +got):\n%s", diff)
	}
}
