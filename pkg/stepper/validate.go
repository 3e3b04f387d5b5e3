package stepper

import (
	"github.com/goliatone/go-stepform/pkg/schema"
)

// TabResult is the outcome of validating one tab.
type TabResult struct {
	Tab    int               `json:"tab"`
	Valid  bool              `json:"valid"`
	Errors map[string]string `json:"errors,omitempty"`
	Issues []schema.Issue    `json:"issues,omitempty"`
}

// ValidationResult is the outcome of validating every tab plus the combined
// schema. Issues from the combined schema are attributed to the tab that
// holds the field; the ones that cannot be placed stay in Form.
type ValidationResult struct {
	Valid bool           `json:"valid"`
	Tabs  []TabResult    `json:"tabs"`
	Form  []schema.Issue `json:"form,omitempty"`
}

// InvalidTabs lists the indexes of the tabs that failed.
func (r ValidationResult) InvalidTabs() []int {
	var out []int
	for _, tab := range r.Tabs {
		if !tab.Valid {
			out = append(out, tab.Tab)
		}
	}
	return out
}

// Validator runs tab schemas against a FormState. A tab without a schema is
// trivially valid.
type Validator struct {
	tabs     []schema.Schema
	combined schema.Schema
}

// NewValidator builds a validator from per-tab schemas and an optional
// combined schema used at submission.
func NewValidator(tabs []schema.Schema, combined schema.Schema) *Validator {
	return &Validator{tabs: append([]schema.Schema(nil), tabs...), combined: combined}
}

// Schema returns the schema registered for tab, or nil.
func (v *Validator) Schema(tab int) schema.Schema {
	if v == nil || tab < 0 || tab >= len(v.tabs) {
		return nil
	}
	return v.tabs[tab]
}

// ValidateTab runs the schema of one tab against its current fields.
func (v *Validator) ValidateTab(state FormState, tab int) TabResult {
	result := TabResult{Tab: tab, Valid: true}
	if tab < 0 || tab >= len(state) {
		return result
	}
	sch := v.Schema(tab)
	if sch == nil {
		return result
	}
	res := sch.Validate(state[tab].Fields)
	result.Valid = res.Valid
	result.Issues = res.Issues
	result.Errors = res.Errors()
	return result
}

// ValidateAll validates every tab and the combined schema. It never stops at
// the first failure so every problem is reported at once.
func (v *Validator) ValidateAll(state FormState) ValidationResult {
	out := ValidationResult{Valid: true, Tabs: make([]TabResult, len(state))}
	for idx := range state {
		out.Tabs[idx] = v.ValidateTab(state, idx)
		if !out.Tabs[idx].Valid {
			out.Valid = false
		}
	}

	if v == nil || v.combined == nil {
		return out
	}
	res := v.combined.Validate(state.Merged())
	if res.Valid {
		return out
	}
	out.Valid = false
	for _, issue := range res.Issues {
		owner := v.owner(state, issue.Field)
		if owner < 0 {
			out.Form = append(out.Form, issue)
			continue
		}
		tab := &out.Tabs[owner]
		if _, seen := tab.Errors[issue.Field]; seen {
			continue
		}
		if tab.Errors == nil {
			tab.Errors = make(map[string]string)
		}
		tab.Valid = false
		tab.Issues = append(tab.Issues, issue)
		tab.Errors[issue.Field] = issue.Message
	}
	return out
}

// owner finds the tab responsible for a field: the last tab that holds a
// value for it, else the first tab whose schema declares it.
func (v *Validator) owner(state FormState, field string) int {
	if field == "" {
		return -1
	}
	for idx := len(state) - 1; idx >= 0; idx-- {
		if _, ok := state[idx].Fields[field]; ok {
			return idx
		}
	}
	for idx, sch := range v.tabs {
		if idx >= len(state) {
			break
		}
		if declared, ok := sch.(interface{ Fields() []string }); ok {
			for _, name := range declared.Fields() {
				if name == field {
					return idx
				}
			}
		}
	}
	return -1
}
