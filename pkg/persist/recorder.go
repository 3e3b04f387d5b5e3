package persist

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/goliatone/go-stepform/pkg/stepper"
)

const defaultSaveTimeout = 2 * time.Second

// Recorder saves a snapshot of an engine after every transition.
type Recorder struct {
	store   Store
	key     string
	logger  *slog.Logger
	timeout time.Duration
	now     func() time.Time

	mu     sync.Mutex
	engine *stepper.Engine
	saves  int
}

// RecorderOption configures a Recorder.
type RecorderOption func(*Recorder)

// WithRecorderLogger sets the logger used to report failed saves.
func WithRecorderLogger(logger *slog.Logger) RecorderOption {
	return func(r *Recorder) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithSaveTimeout bounds every background save.
func WithSaveTimeout(timeout time.Duration) RecorderOption {
	return func(r *Recorder) {
		if timeout > 0 {
			r.timeout = timeout
		}
	}
}

// WithClock overrides the time source used for UpdatedAt.
func WithClock(now func() time.Time) RecorderOption {
	return func(r *Recorder) {
		if now != nil {
			r.now = now
		}
	}
}

// NewRecorder returns a recorder that writes to store under key.
func NewRecorder(store Store, key string, options ...RecorderOption) *Recorder {
	r := &Recorder{
		store:   store,
		key:     key,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		timeout: defaultSaveTimeout,
		now:     time.Now,
	}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Key returns the draft key.
func (r *Recorder) Key() string { return r.key }

// Restore loads the saved draft and returns the options that resume it. A
// missing draft yields no options and no error.
func (r *Recorder) Restore(ctx context.Context) ([]stepper.Option, bool, error) {
	snap, err := r.store.Load(ctx, r.key)
	if errors.Is(err, ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return snap.Options(), true, nil
}

// Options returns the engine options that feed the recorder. Attach must be
// called with the resulting engine before transitions are recorded.
func (r *Recorder) Options() []stepper.Option {
	return []stepper.Option{stepper.OnFormStateChange(r.HandleFormState)}
}

// Attach binds the engine whose state is recorded.
func (r *Recorder) Attach(engine *stepper.Engine) {
	r.mu.Lock()
	r.engine = engine
	r.mu.Unlock()
}

// HandleFormState records the attached engine. Hosts that install their own
// FormStateHandler call it from there.
func (r *Recorder) HandleFormState(stepper.FormState) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	if err := r.Save(ctx); err != nil {
		r.logger.Warn("persist: save draft failed", slog.String("key", r.key), slog.Any("error", err))
	}
}

// Save writes the current engine state.
func (r *Recorder) Save(ctx context.Context) error {
	r.mu.Lock()
	engine := r.engine
	r.mu.Unlock()
	if engine == nil {
		return nil
	}

	state := engine.State()
	snap := Snapshot{
		Tabs:           state.Form,
		CurrentTab:     state.CurrentTab,
		HighestReached: state.HighestReached,
		Locked:         state.Locked,
		Submitted:      state.Submitted,
		UpdatedAt:      r.now().UTC(),
	}
	if err := r.store.Save(ctx, r.key, snap); err != nil {
		return err
	}
	r.mu.Lock()
	r.saves++
	r.mu.Unlock()
	return nil
}

// Saves reports how many snapshots were written.
func (r *Recorder) Saves() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saves
}

// Clear deletes the saved draft.
func (r *Recorder) Clear(ctx context.Context) error {
	return r.store.Delete(ctx, r.key)
}
