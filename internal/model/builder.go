package model

import (
	"strings"

	pkgmodel "github.com/goliatone/go-stepform/pkg/model"
)

// Builder normalises form definitions: names are trimmed, inputs default to
// text and missing labels are generated.
type Builder struct {
	opts Options
}

// New creates a Builder with the supplied options.
func New(options Options) *Builder {
	opts := defaultOptions()
	if options.Labeler != nil {
		opts.Labeler = options.Labeler
	} else if len(options.Acronyms) > 0 {
		opts.Labeler = AcronymLabeler(options.Acronyms...)
	}
	return &Builder{opts: opts}
}

// Build returns a normalised copy of def after checking it is well formed.
// The input is never modified.
func (b *Builder) Build(def pkgmodel.FormDefinition) (pkgmodel.FormDefinition, error) {
	form := pkgmodel.FormDefinition{
		ID:       strings.TrimSpace(def.ID),
		Title:    strings.TrimSpace(def.Title),
		Metadata: cloneStrings(def.Metadata),
		Tabs:     make([]pkgmodel.Tab, 0, len(def.Tabs)),
	}
	if form.Title == "" && form.ID != "" {
		form.Title = b.opts.Labeler(form.ID)
	}
	for _, tab := range def.Tabs {
		form.Tabs = append(form.Tabs, b.buildTab(tab))
	}
	if def.Session != nil {
		form.Session = &pkgmodel.Session{
			LoginField: strings.TrimSpace(def.Session.LoginField),
			NameField:  strings.TrimSpace(def.Session.NameField),
		}
	}

	if err := validateDefinition(form); err != nil {
		return pkgmodel.FormDefinition{}, err
	}
	return form, nil
}

func (b *Builder) buildTab(tab pkgmodel.Tab) pkgmodel.Tab {
	out := pkgmodel.Tab{
		Name:        strings.TrimSpace(tab.Name),
		Label:       strings.TrimSpace(tab.Label),
		Standalone:  tab.Standalone,
		Fields:      make([]pkgmodel.Field, 0, len(tab.Fields)),
		Refinements: make([]pkgmodel.Refinement, 0, len(tab.Refinements)),
	}
	if out.Label == "" {
		out.Label = b.opts.Labeler(out.Name)
	}
	for _, field := range tab.Fields {
		out.Fields = append(out.Fields, b.buildField(field))
	}
	for _, ref := range tab.Refinements {
		out.Refinements = append(out.Refinements, pkgmodel.Refinement{
			Expr:    strings.TrimSpace(ref.Expr),
			Path:    strings.TrimSpace(ref.Path),
			Message: ref.Message,
		})
	}
	return out
}

func (b *Builder) buildField(field pkgmodel.Field) pkgmodel.Field {
	out := field
	out.Name = strings.TrimSpace(field.Name)
	out.Label = strings.TrimSpace(field.Label)
	out.VisibleWhen = strings.TrimSpace(field.VisibleWhen)
	out.Input = pkgmodel.InputType(strings.ToLower(strings.TrimSpace(string(field.Input))))
	if out.Input == "" {
		out.Input = pkgmodel.InputText
	}
	if out.Label == "" {
		out.Label = b.opts.Labeler(out.Name)
	}
	out.Metadata = cloneStrings(field.Metadata)
	out.Validations = make([]pkgmodel.ValidationRule, 0, len(field.Validations))
	for _, rule := range field.Validations {
		out.Validations = append(out.Validations, pkgmodel.ValidationRule{
			Kind:    strings.TrimSpace(rule.Kind),
			Params:  cloneStrings(rule.Params),
			Message: rule.Message,
		})
	}
	return out
}

func cloneStrings(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]string, len(src))
	for key, value := range src {
		out[key] = value
	}
	return out
}
