package binding

import (
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-stepform/pkg/model"
	"github.com/goliatone/go-stepform/pkg/stepper"
)

// ErrInvalidSpec is returned when a binding names no field or a negative tab.
var ErrInvalidSpec = errors.New("binding: invalid spec")

// Target is the engine surface a binding proxies to. *stepper.Engine
// satisfies it.
type Target interface {
	Lookup(tab int, name string) (any, bool)
	SetField(tab int, name string, value any) (stepper.FormState, error)
}

var _ Target = (*stepper.Engine)(nil)

// Spec names the coordinate and input type of one bound field.
type Spec struct {
	Tab   int             `json:"tab"`
	Field string          `json:"field"`
	Input model.InputType `json:"input"`
}

// Option configures a Binding.
type Option func(*Binding)

// WithSanitizer strips markup from free-text values with policy before they
// are stored. Entities are decoded again so values stay plain text. Password
// and numeric inputs are never sanitised.
func WithSanitizer(policy *bluemonday.Policy) Option {
	return func(b *Binding) {
		b.policy = policy
	}
}

// WithStrictSanitizer strips every HTML element from free-text values.
func WithStrictSanitizer() Option {
	return WithSanitizer(bluemonday.StrictPolicy())
}

// Binding is the two-way link between one input and its coordinate.
type Binding struct {
	spec   Spec
	target Target
	policy *bluemonday.Policy
}

// New binds spec to target.
func New(target Target, spec Spec, options ...Option) (*Binding, error) {
	if target == nil {
		return nil, fmt.Errorf("%w: target is nil", ErrInvalidSpec)
	}
	spec.Field = strings.TrimSpace(spec.Field)
	if spec.Field == "" || spec.Tab < 0 {
		return nil, fmt.Errorf("%w: tab %d field %q", ErrInvalidSpec, spec.Tab, spec.Field)
	}
	if spec.Input == "" {
		spec.Input = model.InputText
	}
	b := &Binding{spec: spec, target: target}
	for _, opt := range options {
		if opt != nil {
			opt(b)
		}
	}
	return b, nil
}

// Bind creates one binding per spec, in order.
func Bind(target Target, specs []Spec, options ...Option) ([]*Binding, error) {
	out := make([]*Binding, 0, len(specs))
	for _, spec := range specs {
		b, err := New(target, spec, options...)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

// Spec returns the bound coordinate.
func (b *Binding) Spec() Spec { return b.spec }

// Value returns the stored value. Fields never written read as false for
// checkboxes and "" otherwise.
func (b *Binding) Value() any {
	value, ok := b.target.Lookup(b.spec.Tab, b.spec.Field)
	if !ok {
		return zeroValue(b.spec.Input)
	}
	return value
}

func zeroValue(input model.InputType) any {
	if input == model.InputCheckbox {
		return false
	}
	return ""
}

// Display returns the stored value formatted for the input.
func (b *Binding) Display() string {
	return Display(b.Value())
}

// Checked reports the stored checkbox state. Anything but true is unchecked.
func (b *Binding) Checked() bool {
	checked, _ := b.Value().(bool)
	return checked
}

// Set coerces raw and writes it back. Every call is one state transition; the
// last write wins.
func (b *Binding) Set(raw RawInput) (stepper.FormState, error) {
	value := Coerce(raw, b.spec.Input)
	if text, ok := value.(string); ok && b.sanitises() {
		value = html.UnescapeString(b.policy.Sanitize(text))
	}
	return b.target.SetField(b.spec.Tab, b.spec.Field, value)
}

func (b *Binding) sanitises() bool {
	if b.policy == nil {
		return false
	}
	switch b.spec.Input {
	case model.InputPassword, model.InputNumber, model.InputCheckbox:
		return false
	default:
		return true
	}
}
