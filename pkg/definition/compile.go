package definition

import (
	"fmt"
	"regexp"
	"strconv"

	internalmodel "github.com/goliatone/go-stepform/internal/model"
	"github.com/goliatone/go-stepform/pkg/binding"
	"github.com/goliatone/go-stepform/pkg/model"
	"github.com/goliatone/go-stepform/pkg/schema"
	"github.com/goliatone/go-stepform/pkg/stepper"
	"github.com/goliatone/go-stepform/pkg/visibility"
	visexpr "github.com/goliatone/go-stepform/pkg/visibility/expr"
)

// Compiled is a definition ready to drive an engine.
type Compiled struct {
	Definition model.FormDefinition
	// TabSchemas holds one schema per tab, including refinements.
	TabSchemas []schema.Schema
	// Schema is the union of the field rules of every non-standalone tab,
	// checked at submission.
	Schema schema.Schema
	// Bindings lists every field coordinate in tab then declaration order.
	Bindings []binding.Spec
	// Labels maps field names to their display labels.
	Labels map[string]string

	visibility map[string]visexpr.Rule
}

// Option configures Compile.
type Option func(*compileOptions)

type compileOptions struct {
	labeler    func(string) string
	acronyms   []string
	decorators []model.Decorator
}

// WithLabeler overrides the default label generation function.
func WithLabeler(labeler func(string) string) Option {
	return func(opts *compileOptions) {
		opts.labeler = labeler
	}
}

// WithAcronyms upper-cases the given words in generated labels.
func WithAcronyms(words ...string) Option {
	return func(opts *compileOptions) {
		opts.acronyms = append(opts.acronyms, words...)
	}
}

// WithDecorators runs decorators on the normalised copy of the definition;
// the result is normalised again before schemas are built.
func WithDecorators(decorators ...model.Decorator) Option {
	return func(opts *compileOptions) {
		opts.decorators = append(opts.decorators, decorators...)
	}
}

// Compile normalises def and builds its schemas.
func Compile(def model.FormDefinition, options ...Option) (*Compiled, error) {
	cfg := compileOptions{}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}

	builder := internalmodel.New(internalmodel.Options{
		Labeler:  cfg.labeler,
		Acronyms: cfg.acronyms,
	})
	form, err := builder.Build(def)
	if err != nil {
		return nil, fmt.Errorf("definition: %w", err)
	}
	if len(cfg.decorators) > 0 {
		for _, decorator := range cfg.decorators {
			if decorator == nil {
				continue
			}
			if err := decorator.Decorate(&form); err != nil {
				return nil, fmt.Errorf("definition: decorate: %w", err)
			}
		}
		if form, err = builder.Build(form); err != nil {
			return nil, fmt.Errorf("definition: %w", err)
		}
	}

	out := &Compiled{
		Definition: form,
		TabSchemas: make([]schema.Schema, 0, len(form.Tabs)),
		Labels:     make(map[string]string),
		visibility: make(map[string]visexpr.Rule),
	}
	var combined []*schema.ObjectSchema
	for idx, tab := range form.Tabs {
		base, err := out.compileFields(idx, tab)
		if err != nil {
			return nil, fmt.Errorf("definition: tab %q: %w", tab.Name, err)
		}
		if !tab.Standalone {
			combined = append(combined, base)
		}

		refined := base
		for _, ref := range tab.Refinements {
			refined, err = refined.RefineExpr(ref.Expr, ref.Message, ref.Path)
			if err != nil {
				return nil, fmt.Errorf("definition: tab %q: refinement: %w", tab.Name, err)
			}
		}
		out.TabSchemas = append(out.TabSchemas, refined)
	}
	out.Schema = schema.Merge(combined...)
	return out, nil
}

func (c *Compiled) compileFields(tab int, def model.Tab) (*schema.ObjectSchema, error) {
	obj := schema.Object()
	for _, field := range def.Fields {
		rule, err := fieldRule(field)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", field.Name, err)
		}
		obj = obj.Extend(schema.Field(field.Name, rule))

		if field.VisibleWhen != "" {
			compiled, err := visexpr.Compile(field.VisibleWhen)
			if err != nil {
				return nil, fmt.Errorf("field %q: visibleWhen: %w", field.Name, err)
			}
			c.visibility[field.Name] = compiled
			obj = obj.When(field.Name, visibleWhen(compiled))
		}

		c.Bindings = append(c.Bindings, binding.Spec{Tab: tab, Field: field.Name, Input: field.Input})
		c.Labels[field.Name] = field.Label
	}
	return obj, nil
}

func visibleWhen(rule visexpr.Rule) schema.Predicate {
	return func(values map[string]any) bool {
		active, err := rule.Eval(visibility.Context{Values: values})
		return err == nil && active
	}
}

func fieldRule(field model.Field) (schema.Rule, error) {
	var rule schema.Rule
	switch field.Input {
	case model.InputCheckbox:
		rule = schema.Bool()
	case model.InputNumber:
		rule = schema.Number()
	default:
		rule = schema.String()
	}
	if field.Optional {
		rule = rule.Optional()
	}

	for _, v := range field.Validations {
		switch v.Kind {
		case model.ValidationRuleMinLength:
			n, _ := strconv.Atoi(v.Params["value"])
			rule = rule.MinLength(n, v.Message)
		case model.ValidationRuleMaxLength:
			n, _ := strconv.Atoi(v.Params["value"])
			rule = rule.MaxLength(n, v.Message)
		case model.ValidationRuleMin:
			n, _ := strconv.ParseFloat(v.Params["value"], 64)
			rule = rule.Min(n, v.Message)
		case model.ValidationRuleMax:
			n, _ := strconv.ParseFloat(v.Params["value"], 64)
			rule = rule.Max(n, v.Message)
		case model.ValidationRuleEmail:
			rule = rule.Email(v.Message)
		case model.ValidationRulePattern:
			re, err := regexp.Compile(v.Params["pattern"])
			if err != nil {
				return schema.Rule{}, fmt.Errorf("pattern: %w", err)
			}
			rule = rule.Pattern(re, v.Message)
		case model.ValidationRuleAccepted:
			rule = rule.Accepted(v.Message)
		case model.ValidationRuleNumber:
			rule = rule.Finite(v.Message)
		}
	}
	return rule, nil
}

// EngineOptions returns the stepper options that register the compiled
// schemas and, when the form declares one, its session binding.
func (c *Compiled) EngineOptions() []stepper.Option {
	opts := []stepper.Option{
		stepper.WithTabSchemas(c.TabSchemas...),
		stepper.WithSchema(c.Schema),
	}
	if session, ok := c.SessionBinding(); ok {
		opts = append(opts, stepper.WithSessionBinding(session))
	}
	return opts
}

// SessionBinding resolves the declared session fields to tab coordinates.
// It reports false for forms without a session block.
func (c *Compiled) SessionBinding() (stepper.SessionBinding, bool) {
	session := c.Definition.Session
	if session == nil {
		return stepper.SessionBinding{}, false
	}
	loginTab, _, ok := c.Field(session.LoginField)
	if !ok {
		return stepper.SessionBinding{}, false
	}
	out := stepper.SessionBinding{LoginTab: loginTab, LoginField: session.LoginField, NameTab: -1}
	if nameTab, _, ok := c.Field(session.NameField); ok {
		out.NameTab, out.NameField = nameTab, session.NameField
	}
	return out, true
}

// NewEngine builds an engine for the compiled definition. Extra options are
// applied after the schema options.
func (c *Compiled) NewEngine(options ...stepper.Option) (*stepper.Engine, error) {
	all := append(c.EngineOptions(), options...)
	return stepper.New(len(c.Definition.Tabs), all...)
}

// TabBindings returns the bindings that belong to tab.
func (c *Compiled) TabBindings(tab int) []binding.Spec {
	var out []binding.Spec
	for _, spec := range c.Bindings {
		if spec.Tab == tab {
			out = append(out, spec)
		}
	}
	return out
}

// Field returns the definition of a field together with its tab index.
func (c *Compiled) Field(name string) (int, model.Field, bool) {
	for idx, tab := range c.Definition.Tabs {
		if field, ok := tab.Field(name); ok {
			return idx, field, true
		}
	}
	return -1, model.Field{}, false
}

// Visible reports whether a field is active for the given tab values. Fields
// without a visibility rule are always visible.
func (c *Compiled) Visible(name string, values map[string]any) bool {
	rule, ok := c.visibility[name]
	if !ok {
		return true
	}
	return visibleWhen(rule)(values)
}

// Secrets returns the names of fields whose values must be masked.
func (c *Compiled) Secrets() map[string]bool {
	out := make(map[string]bool)
	for _, tab := range c.Definition.Tabs {
		for _, field := range tab.Fields {
			if field.Input.Secret() {
				out[field.Name] = true
			}
		}
	}
	return out
}
