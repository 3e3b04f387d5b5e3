package model

// InputType is the declared kind of input bound to a field. It decides how raw
// input is coerced before it reaches the tab state.
type InputType string

const (
	InputText     InputType = "text"
	InputEmail    InputType = "email"
	InputPassword InputType = "password"
	InputTextArea InputType = "textarea"
	InputNumber   InputType = "number"
	InputCheckbox InputType = "checkbox"
)

// Known reports whether the input type is one of the built-in kinds.
func (t InputType) Known() bool {
	switch t {
	case InputText, InputEmail, InputPassword, InputTextArea, InputNumber, InputCheckbox:
		return true
	default:
		return false
	}
}

// Secret reports whether values of this input should be masked in summaries.
func (t InputType) Secret() bool {
	return t == InputPassword
}

const (
	ValidationRuleMin       = "min"
	ValidationRuleMax       = "max"
	ValidationRuleMinLength = "minLength"
	ValidationRuleMaxLength = "maxLength"
	ValidationRulePattern   = "pattern"
	ValidationRuleEmail     = "email"
	ValidationRuleAccepted  = "accepted"
	ValidationRuleNumber    = "number"
)

// ValidationRule represents a single validation constraint applied to a field.
// Numeric bounds and length limits encode their threshold in Params["value"]
// while pattern rules keep the expression in Params["pattern"]. Message
// overrides the default error text.
type ValidationRule struct {
	Kind    string            `json:"kind" yaml:"kind"`
	Params  map[string]string `json:"params,omitempty" yaml:"params,omitempty"`
	Message string            `json:"message,omitempty" yaml:"message,omitempty"`
}

// Field models an individual input inside a tab.
type Field struct {
	Name        string            `json:"name" yaml:"name"`
	Label       string            `json:"label,omitempty" yaml:"label,omitempty"`
	Placeholder string            `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Help        string            `json:"help,omitempty" yaml:"help,omitempty"`
	Input       InputType         `json:"input,omitempty" yaml:"input,omitempty"`
	Optional    bool              `json:"optional,omitempty" yaml:"optional,omitempty"`
	VisibleWhen string            `json:"visibleWhen,omitempty" yaml:"visibleWhen,omitempty"`
	Validations []ValidationRule  `json:"validations,omitempty" yaml:"validations,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Refinement is a cross-field rule evaluated against all values of a tab. The
// error is attached to Path, which names the dependent field.
type Refinement struct {
	Expr    string `json:"expr" yaml:"expr"`
	Path    string `json:"path" yaml:"path"`
	Message string `json:"message" yaml:"message"`
}

// Tab is one stage of a multi-step form. Tabs marked Standalone are
// validated on their own but left out of the combined submission schema.
type Tab struct {
	Name        string       `json:"name" yaml:"name"`
	Label       string       `json:"label,omitempty" yaml:"label,omitempty"`
	Standalone  bool         `json:"standalone,omitempty" yaml:"standalone,omitempty"`
	Fields      []Field      `json:"fields,omitempty" yaml:"fields,omitempty"`
	Refinements []Refinement `json:"refinements,omitempty" yaml:"refinements,omitempty"`
}

// Session names the fields written by the identity provider: a checkbox
// flag set on sign in and an optional field prefilled with the display name.
type Session struct {
	LoginField string `json:"loginField" yaml:"loginField"`
	NameField  string `json:"nameField,omitempty" yaml:"nameField,omitempty"`
}

// FormDefinition is the declarative description of a stepper form. Tab order
// is significant: it defines navigation order. Forms without a Session have
// no sign-in step.
type FormDefinition struct {
	ID       string            `json:"id" yaml:"id"`
	Title    string            `json:"title,omitempty" yaml:"title,omitempty"`
	Tabs     []Tab             `json:"tabs" yaml:"tabs"`
	Session  *Session          `json:"session,omitempty" yaml:"session,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// TabIndex returns the position of the named tab or -1.
func (f FormDefinition) TabIndex(name string) int {
	for idx, tab := range f.Tabs {
		if tab.Name == name {
			return idx
		}
	}
	return -1
}

// Field looks up a field declared on the tab.
func (t Tab) Field(name string) (Field, bool) {
	for _, field := range t.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}
