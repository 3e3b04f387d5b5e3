package stepper

import (
	"fmt"
	"log/slog"
)

// SubmitResult is the outcome of a submission attempt. Payload is set only
// when the submission handler was called.
type SubmitResult struct {
	Validation ValidationResult `json:"validation"`
	Payload    map[string]any   `json:"payload,omitempty"`
}

// Next validates the current tab and advances by one when it passes. A
// failing tab leaves the current index untouched and records its errors.
func (e *Engine) Next() (TabResult, error) {
	e.mu.Lock()
	from := e.current
	if from >= e.tabs-1 {
		e.mu.Unlock()
		e.metrics.transition("next", outcomeBlocked)
		return TabResult{Tab: from, Valid: true}, ErrAtLastTab
	}

	result := e.validateTabLocked(from)
	if !result.Valid {
		snapshot := e.store.Snapshot()
		e.mu.Unlock()

		e.logger.Debug("stepper: next blocked",
			slog.Int("tab", from),
			slog.Any("fields", fieldNames(result)),
		)
		e.metrics.transition("next", outcomeBlocked)
		e.emitFormState(snapshot)
		return result, fmt.Errorf("%w: tab %d", ErrTabInvalid, from)
	}

	to := e.moveLocked(from + 1)
	snapshot := e.store.Snapshot()
	e.mu.Unlock()

	e.logger.Debug("stepper: next", slog.Int("from", from), slog.Int("to", to))
	e.metrics.transition("next", outcomeOK)
	e.emitFormState(snapshot)
	e.emitTab(to)
	return result, nil
}

// Previous moves back one tab. The tab being left does not need to be valid.
func (e *Engine) Previous() error {
	e.mu.Lock()
	from := e.current
	if from == 0 {
		e.mu.Unlock()
		e.metrics.transition("previous", outcomeBlocked)
		return ErrAtFirstTab
	}
	to := e.moveLocked(from - 1)
	snapshot := e.store.Snapshot()
	e.mu.Unlock()

	e.logger.Debug("stepper: previous", slog.Int("from", from), slog.Int("to", to))
	e.metrics.transition("previous", outcomeOK)
	e.emitFormState(snapshot)
	e.emitTab(to)
	return nil
}

// JumpTo moves directly to tab. Only tabs that were already reached and are
// not click-disabled can be targeted.
func (e *Engine) JumpTo(tab int) error {
	e.mu.Lock()
	if err := e.jumpCheckLocked(tab); err != nil {
		e.mu.Unlock()
		e.logger.Debug("stepper: jump refused", slog.Int("tab", tab), slog.String("reason", err.Error()))
		e.metrics.transition("jump", outcomeBlocked)
		return err
	}
	from := e.current
	if from == tab {
		e.mu.Unlock()
		return nil
	}
	e.moveLocked(tab)
	snapshot := e.store.Snapshot()
	e.mu.Unlock()

	e.logger.Debug("stepper: jump", slog.Int("from", from), slog.Int("to", tab))
	e.metrics.transition("jump", outcomeOK)
	e.emitFormState(snapshot)
	e.emitTab(tab)
	return nil
}

// Submit validates every tab and, when all pass, calls the submission handler
// once with the merged fields of all tabs (ascending tab order, later tabs win
// on collisions). It is only allowed from the last tab.
func (e *Engine) Submit() (SubmitResult, error) {
	e.mu.Lock()
	if e.current != e.tabs-1 {
		e.mu.Unlock()
		e.metrics.transition("submit", outcomeBlocked)
		return SubmitResult{}, ErrNotLastTab
	}
	if e.submitted {
		e.mu.Unlock()
		e.metrics.transition("submit", outcomeBlocked)
		return SubmitResult{}, ErrAlreadySubmitted
	}

	validation := e.validateAllLocked()
	if !validation.Valid {
		snapshot := e.store.Snapshot()
		e.mu.Unlock()

		e.logger.Debug("stepper: submit blocked", slog.Any("tabs", validation.InvalidTabs()))
		e.metrics.transition("submit", outcomeBlocked)
		e.emitFormState(snapshot)
		return SubmitResult{Validation: validation}, ErrFormInvalid
	}

	e.submitted = true
	snapshot := e.store.Snapshot()
	payload := snapshot.Merged()
	handler := e.onSubmit
	e.mu.Unlock()

	e.logger.Debug("stepper: submit", slog.Int("fields", len(payload)))
	e.metrics.transition("submit", outcomeOK)
	e.emitFormState(snapshot)
	if handler != nil {
		handler(snapshot.Merged())
	}
	return SubmitResult{Validation: validation, Payload: payload}, nil
}

func (e *Engine) jumpCheckLocked(tab int) error {
	if tab < 0 || tab >= e.tabs {
		return fmt.Errorf("%w: %d", ErrOutOfRange, tab)
	}
	if e.locked[tab] {
		return fmt.Errorf("%w: %d", ErrTabLocked, tab)
	}
	if tab > e.highest {
		return fmt.Errorf("%w: %d", ErrNotReached, tab)
	}
	return nil
}

func (e *Engine) moveLocked(tab int) int {
	e.current = tab
	if tab > e.highest {
		e.highest = tab
	}
	e.store.mutate(func(state FormState) FormState {
		return state.withStatus(tab, state[tab].IsValid, true)
	})
	return tab
}

func fieldNames(result TabResult) []string {
	names := make([]string, 0, len(result.Errors))
	for _, issue := range result.Issues {
		names = append(names, issue.Field)
	}
	return names
}
