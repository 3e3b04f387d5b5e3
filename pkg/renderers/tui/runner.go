package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/fatih/color"

	"github.com/goliatone/go-stepform/pkg/binding"
	"github.com/goliatone/go-stepform/pkg/definition"
	"github.com/goliatone/go-stepform/pkg/model"
	"github.com/goliatone/go-stepform/pkg/render"
	"github.com/goliatone/go-stepform/pkg/stepper"
)

const (
	actionNext     = "Next"
	actionPrevious = "Previous"
	actionSubmit   = "Submit"
	actionJump     = "Jump to tab"
	actionSignIn   = "Sign in"
	actionSignOut  = "Sign out"
	actionRestart  = "Start over"
	actionQuit     = "Quit"
	actionCancel   = "Cancel"
)

// Runner drives an engine from the terminal: it prompts the active fields of
// the current tab, then asks what to do next until the form is submitted.
type Runner struct {
	engine   *stepper.Engine
	compiled *definition.Compiled

	driver         PromptDriver
	outputFormat   OutputFormat
	theme          Theme
	out            io.Writer
	summary        *render.Summary
	session        stepper.SessionBinding
	sessionEnabled bool
	bindingOptions []binding.Option
	displayName    string
	logger         *slog.Logger
}

// New constructs a runner with defaults (survey driver, JSON output).
func New(engine *stepper.Engine, compiled *definition.Compiled, options ...Option) (*Runner, error) {
	if engine == nil {
		return nil, ErrMissingEngine
	}
	if compiled == nil {
		return nil, ErrMissingDefinition
	}
	if len(compiled.Definition.Tabs) != engine.Tabs() {
		return nil, fmt.Errorf("tui: definition has %d tabs, engine has %d", len(compiled.Definition.Tabs), engine.Tabs())
	}

	r := &Runner{
		engine:       engine,
		compiled:     compiled,
		outputFormat: OutputFormatJSON,
		theme:        DefaultTheme(),
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	r.session, r.sessionEnabled = compiled.SessionBinding()
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}

	if r.driver == nil {
		r.driver = newSurveyDriver(r.out)
	}
	if r.summary == nil {
		summary, err := render.NewSummary()
		if err != nil {
			return nil, fmt.Errorf("tui: %w", err)
		}
		r.summary = summary
	}
	return r, nil
}

// ContentType reports the serialization format returned by Run.
func (r *Runner) ContentType() string {
	if r.outputFormat == OutputFormatPrettyText {
		return "text/plain"
	}
	return "application/json"
}

// Run loops over prompts and actions until the form is submitted, the user
// quits or ctx is cancelled. It returns the serialized submission payload.
func (r *Runner) Run(ctx context.Context) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		tab := r.engine.CurrentTab()
		if err := r.info(ctx, r.theme.Title, r.heading(tab)); err != nil {
			return nil, err
		}
		if err := r.promptTab(ctx, tab); err != nil {
			return nil, err
		}

		action, err := r.chooseAction(ctx, tab)
		if err != nil {
			return nil, err
		}
		r.logger.Debug("tui: action", slog.String("action", action), slog.Int("tab", tab))

		switch action {
		case actionNext:
			result, err := r.engine.Next()
			if errors.Is(err, stepper.ErrTabInvalid) {
				if err := r.showErrors(ctx, stepper.ValidationResult{Tabs: []stepper.TabResult{result}}); err != nil {
					return nil, err
				}
				continue
			}
			if err != nil {
				return nil, err
			}
		case actionPrevious:
			if err := r.engine.Previous(); err != nil {
				return nil, err
			}
		case actionJump:
			if err := r.jump(ctx, tab); err != nil {
				return nil, err
			}
		case actionSignIn:
			if err := r.signIn(ctx); err != nil {
				return nil, err
			}
		case actionSignOut:
			r.engine.HandleSession(stepper.SessionEvent{Status: stepper.SessionUnauthenticated})
		case actionSubmit:
			result, err := r.engine.Submit()
			if errors.Is(err, stepper.ErrFormInvalid) {
				if err := r.showErrors(ctx, result.Validation); err != nil {
					return nil, err
				}
				if invalid := result.Validation.InvalidTabs(); len(invalid) > 0 && r.engine.CanJumpTo(invalid[0]) {
					if err := r.engine.JumpTo(invalid[0]); err != nil {
						return nil, err
					}
				}
				continue
			}
			if err != nil {
				return nil, err
			}
			if err := r.info(ctx, r.theme.Success, "Submitted."); err != nil {
				return nil, err
			}
			return r.serialize(result.Payload)
		default:
			return nil, ErrAborted
		}
	}
}

func (r *Runner) heading(tab int) string {
	def := r.compiled.Definition.Tabs[tab]
	label := def.Label
	if label == "" {
		label = def.Name
	}
	return fmt.Sprintf("Step %d of %d: %s", tab+1, r.engine.Tabs(), label)
}

func (r *Runner) promptTab(ctx context.Context, tab int) error {
	bindings, err := binding.Bind(r.engine, r.compiled.TabBindings(tab), r.bindingOptions...)
	if err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	def := r.compiled.Definition.Tabs[tab]
	for _, b := range bindings {
		spec := b.Spec()
		if r.sessionControlled(spec) {
			continue
		}
		// Visibility depends on earlier answers on the same tab.
		if !r.compiled.Visible(spec.Field, r.engine.Snapshot()[tab].Fields) {
			continue
		}
		field, ok := def.Field(spec.Field)
		if !ok {
			continue
		}
		if err := r.promptField(ctx, b, field); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) sessionControlled(spec binding.Spec) bool {
	return r.sessionEnabled && spec.Tab == r.session.LoginTab && spec.Field == r.session.LoginField
}

func (r *Runner) promptField(ctx context.Context, b *binding.Binding, field model.Field) error {
	label := displayLabel(field)
	help := displayHelp(field)

	var raw binding.RawInput
	switch field.Input {
	case model.InputCheckbox:
		value, err := r.driver.Confirm(ctx, ConfirmConfig{Message: label, Default: b.Checked(), Help: help})
		if err != nil {
			return err
		}
		raw = binding.Checkbox(value)
	case model.InputPassword:
		value, err := r.driver.Password(ctx, InputConfig{Message: label, Default: b.Display(), Help: help})
		if err != nil {
			return err
		}
		raw = binding.Text(value)
	case model.InputTextArea:
		value, err := r.driver.TextArea(ctx, TextAreaConfig{Message: label, Default: b.Display(), Help: help})
		if err != nil {
			return err
		}
		raw = binding.Text(value)
	default:
		value, err := r.driver.Input(ctx, InputConfig{Message: label, Default: b.Display(), Help: help})
		if err != nil {
			return err
		}
		// Blank optional numbers stay absent; coercion would store NaN.
		if field.Input == model.InputNumber && field.Optional && strings.TrimSpace(value) == "" {
			if _, ok := r.engine.Lookup(b.Spec().Tab, field.Name); !ok {
				return nil
			}
		}
		raw = binding.Text(value)
	}

	if _, err := b.Set(raw); err != nil {
		return fmt.Errorf("tui: set %s: %w", field.Name, err)
	}
	return nil
}

func (r *Runner) chooseAction(ctx context.Context, tab int) (string, error) {
	last := r.engine.Tabs() - 1
	var options []string
	if tab < last {
		options = append(options, actionNext)
	}
	if tab > 0 {
		options = append(options, actionPrevious)
	}
	if tab == last {
		options = append(options, actionSubmit)
	}
	if len(r.jumpTargets(tab)) > 0 {
		options = append(options, actionJump)
	}
	if r.sessionEnabled {
		if r.engine.Session() == stepper.SessionAuthenticated {
			options = append(options, actionSignOut)
		} else {
			options = append(options, actionSignIn)
		}
	}
	if !r.engine.Snapshot().Empty() {
		options = append(options, actionRestart)
	}
	options = append(options, actionQuit)

	idx, err := r.driver.Select(ctx, SelectConfig{Message: "What next?", Options: options, DefaultIndex: 0})
	if err != nil {
		return "", err
	}
	if idx < 0 || idx >= len(options) {
		return actionQuit, nil
	}
	return options[idx], nil
}

func (r *Runner) jumpTargets(current int) []int {
	var out []int
	for tab := 0; tab < r.engine.Tabs(); tab++ {
		if tab != current && r.engine.CanJumpTo(tab) {
			out = append(out, tab)
		}
	}
	return out
}

func (r *Runner) jump(ctx context.Context, current int) error {
	targets := r.jumpTargets(current)
	options := make([]string, 0, len(targets)+1)
	for _, tab := range targets {
		options = append(options, r.heading(tab))
	}
	options = append(options, actionCancel)

	idx, err := r.driver.Select(ctx, SelectConfig{Message: "Jump to", Options: options, DefaultIndex: -1})
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(targets) {
		return nil
	}
	return r.engine.JumpTo(targets[idx])
}

func (r *Runner) signIn(ctx context.Context) error {
	name := binding.Display(r.engine.Field(r.session.NameTab, r.session.NameField))
	if name == "" {
		name = r.displayName
	}
	name, err := r.driver.Input(ctx, InputConfig{Message: "Display name", Default: name})
	if err != nil {
		return err
	}
	r.engine.HandleSession(stepper.SessionEvent{
		Status:      stepper.SessionAuthenticated,
		DisplayName: strings.TrimSpace(name),
	})
	return nil
}

func (r *Runner) showErrors(ctx context.Context, result stepper.ValidationResult) error {
	mapping := render.MapValidation(r.compiled, result)
	if mapping.Empty() {
		return nil
	}
	text, err := r.summary.Errors(mapping)
	if err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return r.info(ctx, r.theme.Error, strings.TrimRight(text, "\n"))
}

func (r *Runner) info(ctx context.Context, c *color.Color, msg string) error {
	return r.driver.Info(ctx, paint(c, msg))
}

func (r *Runner) serialize(payload map[string]any) ([]byte, error) {
	if r.outputFormat == OutputFormatPrettyText {
		text, err := r.summary.Review(r.compiled, payload)
		if err != nil {
			return nil, fmt.Errorf("tui: %w", err)
		}
		return []byte(text), nil
	}
	out, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("tui: encode payload: %w", err)
	}
	return out, nil
}

func displayLabel(field model.Field) string {
	label := field.Label
	if label == "" {
		label = field.Name
	}
	if field.Optional {
		label += " (optional)"
	}
	return label
}

func displayHelp(field model.Field) string {
	if h := field.Metadata["cli.help"]; h != "" {
		return h
	}
	if field.Help != "" {
		return field.Help
	}
	return field.Placeholder
}
