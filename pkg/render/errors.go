package render

import (
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-stepform/pkg/definition"
	"github.com/goliatone/go-stepform/pkg/schema"
	"github.com/goliatone/go-stepform/pkg/stepper"
)

// FieldError holds the messages reported for one field.
type FieldError struct {
	Field    string   `json:"field"`
	Label    string   `json:"label"`
	Messages []string `json:"messages"`
}

// TabErrors groups the field errors of one tab.
type TabErrors struct {
	Tab    int          `json:"tab"`
	Name   string       `json:"name"`
	Label  string       `json:"label"`
	Fields []FieldError `json:"fields"`
}

// ErrorMapping splits validation feedback into per-tab field errors and
// form-level messages that could not be attached to a field.
type ErrorMapping struct {
	Tabs []TabErrors `json:"tabs,omitempty"`
	Form []string    `json:"form,omitempty"`
}

// Empty reports whether the mapping carries no message at all.
func (m ErrorMapping) Empty() bool {
	return len(m.Tabs) == 0 && len(m.Form) == 0
}

// MergeFormErrors concatenates and normalises multiple form-level error
// slices, trimming whitespace and removing duplicates while preserving order.
func MergeFormErrors(existing []string, extras ...string) []string {
	combined := make([]string, 0, len(existing)+len(extras))
	combined = append(combined, existing...)
	combined = append(combined, extras...)
	return normalizeMessages(combined)
}

// MapValidation groups a validation result by tab. Fields follow their
// declaration order; tabs without errors are omitted.
func MapValidation(compiled *definition.Compiled, result stepper.ValidationResult) ErrorMapping {
	mapping := ErrorMapping{}
	for _, tab := range result.Tabs {
		issues := make(map[string][]string)
		for _, issue := range tab.Issues {
			if issue.Field == "" {
				mapping.Form = append(mapping.Form, issue.Message)
				continue
			}
			issues[issue.Field] = append(issues[issue.Field], issue.Message)
		}
		if group, ok := groupTab(compiled, tab.Tab, issues); ok {
			mapping.Tabs = append(mapping.Tabs, group)
		}
	}
	mapping.Form = MergeFormErrors(mapping.Form, issueMessages(result.Form)...)
	return mapping
}

func groupTab(compiled *definition.Compiled, tab int, issues map[string][]string) (TabErrors, bool) {
	if len(issues) == 0 {
		return TabErrors{}, false
	}
	group := TabErrors{Tab: tab, Name: strconv.Itoa(tab), Label: "Tab " + strconv.Itoa(tab+1)}

	var order []string
	if compiled != nil && tab >= 0 && tab < len(compiled.Definition.Tabs) {
		def := compiled.Definition.Tabs[tab]
		group.Name, group.Label = def.Name, def.Label
		for _, field := range def.Fields {
			if _, ok := issues[field.Name]; ok {
				order = append(order, field.Name)
			}
		}
	}
	var extra []string
	for name := range issues {
		if !contains(order, name) {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	order = append(order, extra...)

	for _, name := range order {
		messages := normalizeMessages(issues[name])
		if len(messages) == 0 {
			continue
		}
		group.Fields = append(group.Fields, FieldError{Field: name, Label: fieldLabel(compiled, name), Messages: messages})
	}
	return group, len(group.Fields) > 0
}

func fieldLabel(compiled *definition.Compiled, name string) string {
	if compiled != nil {
		if label := compiled.Labels[name]; label != "" {
			return label
		}
	}
	return name
}

func issueMessages(issues []schema.Issue) []string {
	out := make([]string, 0, len(issues))
	for _, issue := range issues {
		out = append(out, issue.Message)
	}
	return out
}

func contains(values []string, target string) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}

	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))

	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}

	if len(out) == 0 {
		return nil
	}
	return out
}
