package tui

import (
	"io"
	"log/slog"

	"github.com/fatih/color"

	"github.com/goliatone/go-stepform/pkg/binding"
	"github.com/goliatone/go-stepform/pkg/render"
	"github.com/goliatone/go-stepform/pkg/stepper"
)

// OutputFormat controls how the submitted payload is serialized.
type OutputFormat string

const (
	// OutputFormatJSON emits application/json payloads.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatPrettyText emits the review summary as plain text.
	OutputFormatPrettyText OutputFormat = "pretty"
)

// ParseOutputFormat accepts "json" and "pretty".
func ParseOutputFormat(raw string) (OutputFormat, bool) {
	switch OutputFormat(raw) {
	case OutputFormatJSON, OutputFormatPrettyText:
		return OutputFormat(raw), true
	default:
		return "", false
	}
}

// Theme colours the messages the runner prints. Nil entries print plain text.
type Theme struct {
	Title   *color.Color
	Info    *color.Color
	Error   *color.Color
	Success *color.Color
}

// DefaultTheme returns the colours used when no theme is configured.
func DefaultTheme() Theme {
	return Theme{
		Title:   color.New(color.FgCyan, color.Bold),
		Info:    color.New(color.Faint),
		Error:   color.New(color.FgRed),
		Success: color.New(color.FgGreen),
	}
}

// PlainTheme disables colours.
func PlainTheme() Theme { return Theme{} }

func paint(c *color.Color, msg string) string {
	if c == nil {
		return msg
	}
	return c.Sprint(msg)
}

// Option configures the runner.
type Option func(*Runner)

// WithPromptDriver overrides the prompt driver used by the runner.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Runner) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithOutputFormat selects the output serialization format.
func WithOutputFormat(format OutputFormat) Option {
	return func(r *Runner) {
		if format != "" {
			r.outputFormat = format
		}
	}
}

// WithTheme applies message colours.
func WithTheme(theme Theme) Option {
	return func(r *Runner) {
		r.theme = theme
	}
}

// WithOutput sets where the default driver prints messages.
func WithOutput(out io.Writer) Option {
	return func(r *Runner) {
		r.out = out
	}
}

// WithSummary overrides the templates used for error and review output.
func WithSummary(summary *render.Summary) Option {
	return func(r *Runner) {
		if summary != nil {
			r.summary = summary
		}
	}
}

// WithSessionBinding names the session-controlled fields and enables the sign
// in and sign out actions, which drive those fields instead of prompts. By
// default the binding comes from the definition's session block.
func WithSessionBinding(b stepper.SessionBinding) Option {
	return func(r *Runner) {
		r.session, r.sessionEnabled = b, true
	}
}

// WithBindingOptions forwards options to every field binding.
func WithBindingOptions(options ...binding.Option) Option {
	return func(r *Runner) {
		r.bindingOptions = append(r.bindingOptions, options...)
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithDisplayName sets the name offered when signing in.
func WithDisplayName(name string) Option {
	return func(r *Runner) {
		r.displayName = name
	}
}
