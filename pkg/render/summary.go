package render

import (
	"embed"
	"fmt"
	"io"
	"io/fs"

	"github.com/goliatone/go-stepform/pkg/definition"
	"github.com/goliatone/go-stepform/pkg/render/template"
	"github.com/goliatone/go-stepform/pkg/render/template/gotemplate"
)

//go:embed templates/*.tpl
var embeddedTemplates embed.FS

// TemplatesFS returns the bundled review and error templates.
func TemplatesFS() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		// The embed directive guarantees the subpath exists.
		panic(err)
	}
	return sub
}

const (
	reviewTemplate = "review"
	errorsTemplate = "errors"
)

// SummaryOption configures a Summary.
type SummaryOption func(*summaryConfig)

type summaryConfig struct {
	templates fs.FS
	renderer  template.TemplateRenderer
}

// WithTemplates replaces the bundled templates. The filesystem must provide
// review.tpl and errors.tpl.
func WithTemplates(fsys fs.FS) SummaryOption {
	return func(cfg *summaryConfig) {
		cfg.templates = fsys
	}
}

// WithTemplateRenderer uses an existing renderer instead of building one.
func WithTemplateRenderer(renderer template.TemplateRenderer) SummaryOption {
	return func(cfg *summaryConfig) {
		cfg.renderer = renderer
	}
}

// Summary renders review and error views through the template engine.
type Summary struct {
	renderer template.TemplateRenderer
}

// NewSummary builds a Summary backed by the pongo2 adapter.
func NewSummary(options ...SummaryOption) (*Summary, error) {
	cfg := summaryConfig{templates: TemplatesFS()}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.renderer != nil {
		return &Summary{renderer: cfg.renderer}, nil
	}
	engine, err := gotemplate.New(gotemplate.WithFS(cfg.templates))
	if err != nil {
		return nil, fmt.Errorf("render: summary engine: %w", err)
	}
	return &Summary{renderer: engine}, nil
}

// Review renders the merged payload grouped by tab.
func (s *Summary) Review(compiled *definition.Compiled, payload map[string]any, out ...io.Writer) (string, error) {
	title := ""
	if compiled != nil {
		title = compiled.Definition.Title
	}

	var tabs []any
	var current map[string]any
	lastTab := -2
	for _, field := range SummaryFields(compiled, payload) {
		if field.Tab != lastTab || current == nil {
			label := field.TabLabel
			if label == "" {
				label = "Other"
			}
			current = map[string]any{"label": label, "fields": []any{}}
			tabs = append(tabs, current)
			lastTab = field.Tab
		}
		current["fields"] = append(current["fields"].([]any), map[string]any{
			"name":   field.Name,
			"label":  field.Label,
			"value":  field.Value,
			"secret": field.Secret,
		})
	}

	return s.renderer.RenderTemplate(reviewTemplate, map[string]any{
		"title": title,
		"tabs":  tabs,
	}, out...)
}

// Errors renders an error mapping.
func (s *Summary) Errors(mapping ErrorMapping, out ...io.Writer) (string, error) {
	var tabs []any
	for _, tab := range mapping.Tabs {
		var fields []any
		for _, field := range tab.Fields {
			messages := make([]any, 0, len(field.Messages))
			for _, message := range field.Messages {
				messages = append(messages, message)
			}
			fields = append(fields, map[string]any{
				"name":     field.Field,
				"label":    field.Label,
				"messages": messages,
			})
		}
		tabs = append(tabs, map[string]any{"label": tab.Label, "fields": fields})
	}
	form := make([]any, 0, len(mapping.Form))
	for _, message := range mapping.Form {
		form = append(form, message)
	}

	return s.renderer.RenderTemplate(errorsTemplate, map[string]any{
		"form": form,
		"tabs": tabs,
	}, out...)
}
