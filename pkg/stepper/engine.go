package stepper

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel/metric"

	"github.com/goliatone/go-stepform/pkg/schema"
)

// Engine coordinates the tab store, validation and navigation of one form.
// Each exported method is one atomic transition; callbacks run after the
// transition completed, outside the engine lock.
type Engine struct {
	mu sync.Mutex

	store     *Store
	validator *Validator
	tabs      int

	current   int
	highest   int
	locked    []bool
	submitted bool
	session   SessionStatus
	errors    []map[string]string

	// applied is the last session status that went through Reduce; loading
	// reports update session only.
	applied SessionStatus

	tabSchemas    []schema.Schema
	combined      schema.Schema
	initial       FormState
	lockedInit    []int
	binding       SessionBinding
	onSubmit      SubmitHandler
	onFormState   FormStateHandler
	onTabChange   TabChangeHandler
	logger        *slog.Logger
	meterProvider metric.MeterProvider
	metrics       instruments
}

// New builds an engine for a form with the given number of tabs.
func New(tabs int, options ...Option) (*Engine, error) {
	if tabs <= 0 {
		return nil, fmt.Errorf("stepper: tab count must be positive, got %d", tabs)
	}
	e := &Engine{
		tabs:          tabs,
		binding:       DefaultSessionBinding,
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		meterProvider: defaultMeterProvider(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(e)
	}

	if len(e.tabSchemas) > tabs {
		return nil, fmt.Errorf("stepper: %d tab schemas for %d tabs", len(e.tabSchemas), tabs)
	}
	initial := e.initial
	if initial == nil {
		initial = NewFormState(tabs)
	}
	if len(initial) != tabs {
		return nil, fmt.Errorf("stepper: initial state has %d tabs, want %d", len(initial), tabs)
	}
	for idx := range initial {
		if initial[idx].Fields == nil {
			initial[idx].Fields = make(map[string]any)
		}
	}
	if e.current < 0 || e.current >= tabs {
		return nil, fmt.Errorf("%w: current tab %d", ErrOutOfRange, e.current)
	}
	if e.highest < e.current {
		e.highest = e.current
	}
	if e.highest >= tabs {
		e.highest = tabs - 1
	}

	e.locked = make([]bool, tabs)
	for _, tab := range e.lockedInit {
		if tab < 0 || tab >= tabs {
			return nil, fmt.Errorf("%w: locked tab %d", ErrOutOfRange, tab)
		}
		e.locked[tab] = true
	}

	e.errors = make([]map[string]string, tabs)
	e.validator = NewValidator(e.tabSchemas, e.combined)
	e.metrics = newInstruments(e.meterProvider)
	e.store = NewStore(initial, nil)
	e.store.mutate(func(state FormState) FormState {
		return state.withStatus(e.current, state[e.current].IsValid, true)
	})
	return e, nil
}

// Tabs reports the number of tabs.
func (e *Engine) Tabs() int { return e.tabs }

// CurrentTab returns the current tab index.
func (e *Engine) CurrentTab() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current
}

// HighestReached returns the furthest tab the user has reached.
func (e *Engine) HighestReached() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.highest
}

// Submitted reports whether the form was submitted.
func (e *Engine) Submitted() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.submitted
}

// Session returns the last session status reported, loading included.
func (e *Engine) Session() SessionStatus {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session
}

// Snapshot returns an immutable copy of the form state.
func (e *Engine) Snapshot() FormState {
	return e.store.Snapshot()
}

// State returns a copy of the navigation-relevant state.
func (e *Engine) State() EngineState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stateLocked()
}

// Field returns the stored value, or "" when never written.
func (e *Engine) Field(tab int, name string) any {
	return e.store.Get(tab, name)
}

// Lookup returns the stored value and whether it was ever written.
func (e *Engine) Lookup(tab int, name string) (any, bool) {
	return e.store.Lookup(tab, name)
}

// Errors returns the messages surfaced by the last validation of tab. Edits
// refresh them once a tab has been validated.
func (e *Engine) Errors(tab int) map[string]string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if tab < 0 || tab >= e.tabs || e.errors[tab] == nil {
		return nil
	}
	out := make(map[string]string, len(e.errors[tab]))
	for field, message := range e.errors[tab] {
		out[field] = message
	}
	return out
}

// Locked reports whether tab is click-disabled.
func (e *Engine) Locked(tab int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return tab >= 0 && tab < e.tabs && e.locked[tab]
}

// SetClickDisabled locks or unlocks a tab for direct jumps.
func (e *Engine) SetClickDisabled(tab int, disabled bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if tab < 0 || tab >= e.tabs {
		return fmt.Errorf("%w: %d", ErrOutOfRange, tab)
	}
	e.locked[tab] = disabled
	return nil
}

// SetField writes a value, re-validates the tab and emits the new snapshot.
func (e *Engine) SetField(tab int, name string, value any) (FormState, error) {
	e.mu.Lock()
	if tab < 0 || tab >= e.tabs {
		e.mu.Unlock()
		return nil, fmt.Errorf("%w: %d", ErrOutOfRange, tab)
	}
	if _, err := e.store.Set(tab, name, value); err != nil {
		e.mu.Unlock()
		return nil, err
	}
	e.refreshLocked(tab)
	snapshot := e.store.Snapshot()
	e.mu.Unlock()

	e.emitFormState(snapshot)
	return snapshot, nil
}

// ValidateTab validates one tab, records its errors and refreshes its flag.
func (e *Engine) ValidateTab(tab int) TabResult {
	e.mu.Lock()
	result := e.validateTabLocked(tab)
	snapshot := e.store.Snapshot()
	e.mu.Unlock()

	e.emitFormState(snapshot)
	return result
}

// ValidateAll validates every tab, records every tab's errors and reports
// whether the form may be submitted.
func (e *Engine) ValidateAll() ValidationResult {
	e.mu.Lock()
	result := e.validateAllLocked()
	snapshot := e.store.Snapshot()
	e.mu.Unlock()

	e.emitFormState(snapshot)
	return result
}

// CanNext reports whether Next would succeed without recording errors.
func (e *Engine) CanNext() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.current >= e.tabs-1 {
		return false
	}
	return e.validator.ValidateTab(e.store.Snapshot(), e.current).Valid
}

// CanJumpTo reports whether JumpTo(tab) would succeed.
func (e *Engine) CanJumpTo(tab int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.jumpCheckLocked(tab) == nil
}

// Reset empties every tab, unlocks tabs and returns to the first tab. The
// session status is cleared with the login flag, so the next authenticated
// event signs in again.
func (e *Engine) Reset() {
	e.mu.Lock()
	prev := e.current
	e.store.Reset()
	e.current, e.highest, e.submitted = 0, 0, false
	e.session, e.applied = SessionUnknown, SessionUnknown
	e.locked = make([]bool, e.tabs)
	e.errors = make([]map[string]string, e.tabs)
	snapshot := e.store.Snapshot()
	e.mu.Unlock()

	e.logger.Debug("stepper: form reset")
	e.metrics.transition("reset", outcomeOK)
	e.emitFormState(snapshot)
	if prev != 0 {
		e.emitTab(0)
	}
}

// HandleSession applies an identity provider event through Reduce. Loading
// is recorded as the current status without touching the form; an event that
// repeats the last applied status is a no-op.
func (e *Engine) HandleSession(event SessionEvent) EngineState {
	e.mu.Lock()
	if event.Status == SessionLoading {
		e.session = SessionLoading
		state := e.stateLocked()
		e.mu.Unlock()
		return state
	}

	before := e.stateLocked()
	before.Session = e.applied
	after := e.binding.Reduce(before, event)
	if after.Session == e.applied {
		e.session = e.applied
		state := e.stateLocked()
		e.mu.Unlock()
		return state
	}
	e.session, e.applied = after.Session, after.Session

	e.store.Replace(after.Form)
	e.current = after.CurrentTab
	e.highest = after.HighestReached
	e.submitted = after.Submitted
	e.locked = make([]bool, e.tabs)
	copy(e.locked, after.Locked)
	if event.Status == SessionUnauthenticated {
		e.errors = make([]map[string]string, e.tabs)
		e.store.mutate(func(state FormState) FormState {
			return state.withStatus(0, false, true)
		})
	} else {
		e.refreshLocked(e.binding.LoginTab)
		e.refreshLocked(e.binding.NameTab)
	}
	snapshot := e.store.Snapshot()
	result := e.stateLocked()
	e.mu.Unlock()

	e.logger.Debug("stepper: session transition",
		slog.String("from", string(before.Session)),
		slog.String("to", string(after.Session)),
		slog.Int("tab", after.CurrentTab),
	)
	e.metrics.transition("session."+string(event.Status), outcomeOK)
	e.emitFormState(snapshot)
	if before.CurrentTab != after.CurrentTab {
		e.emitTab(after.CurrentTab)
	}
	return result
}

func (e *Engine) stateLocked() EngineState {
	return EngineState{
		Form:           e.store.Snapshot(),
		CurrentTab:     e.current,
		HighestReached: e.highest,
		Locked:         append([]bool(nil), e.locked...),
		Submitted:      e.submitted,
		Session:        e.session,
	}
}

// refreshLocked re-validates tab after an edit. Errors already surfaced for
// the tab are replaced so fixed fields clear.
func (e *Engine) refreshLocked(tab int) {
	if tab < 0 || tab >= e.tabs {
		return
	}
	result := e.validator.ValidateTab(e.store.Snapshot(), tab)
	if e.errors[tab] != nil {
		e.errors[tab] = nonNil(result.Errors)
	}
	e.setValidLocked(tab, result.Valid)
}

func (e *Engine) validateTabLocked(tab int) TabResult {
	result := e.validator.ValidateTab(e.store.Snapshot(), tab)
	if tab < 0 || tab >= e.tabs {
		return result
	}
	e.errors[tab] = nonNil(result.Errors)
	e.setValidLocked(tab, result.Valid)
	if !result.Valid {
		e.metrics.validationFailure(tab)
	}
	return result
}

func (e *Engine) validateAllLocked() ValidationResult {
	result := e.validator.ValidateAll(e.store.Snapshot())
	for _, tab := range result.Tabs {
		e.errors[tab.Tab] = nonNil(tab.Errors)
		e.setValidLocked(tab.Tab, tab.Valid)
		if !tab.Valid {
			e.metrics.validationFailure(tab.Tab)
		}
	}
	return result
}

func (e *Engine) setValidLocked(tab int, valid bool) {
	e.store.mutate(func(state FormState) FormState {
		return state.withStatus(tab, valid, state[tab].IsVisited)
	})
}

func (e *Engine) emitFormState(snapshot FormState) {
	if e.onFormState != nil {
		e.onFormState(snapshot)
	}
}

func (e *Engine) emitTab(tab int) {
	if e.onTabChange != nil {
		e.onTabChange(tab)
	}
}

func nonNil(errs map[string]string) map[string]string {
	if errs == nil {
		return map[string]string{}
	}
	return errs
}
