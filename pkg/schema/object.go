package schema

// FieldRule binds a rule to a field name.
type FieldRule struct {
	Name string
	Rule Rule
}

// Field pairs a field name with its rule.
func Field(name string, rule Rule) FieldRule {
	return FieldRule{Name: name, Rule: rule}
}

// Predicate inspects the values of a whole tab.
type Predicate func(values map[string]any) bool

type refinement struct {
	check   Predicate
	message string
	path    string
}

// ObjectSchema validates a set of named fields plus cross-field refinements.
// Builder methods return a new schema and never modify the receiver.
type ObjectSchema struct {
	fields      []FieldRule
	refinements []refinement
	conditions  map[string]Predicate
}

var _ Schema = (*ObjectSchema)(nil)

// Object builds a schema from field rules. A later rule for the same name
// replaces the earlier one while keeping its position.
func Object(fields ...FieldRule) *ObjectSchema {
	out := &ObjectSchema{}
	for _, field := range fields {
		out.setField(field)
	}
	return out
}

// Merge combines the field rules of several objects into one. Refinements are
// not carried over; conditions are. Later objects win on name collisions.
func Merge(objects ...*ObjectSchema) *ObjectSchema {
	out := &ObjectSchema{}
	for _, obj := range objects {
		if obj == nil {
			continue
		}
		for _, field := range obj.fields {
			out.setField(field)
		}
		for name, cond := range obj.conditions {
			if out.conditions == nil {
				out.conditions = make(map[string]Predicate)
			}
			out.conditions[name] = cond
		}
	}
	return out
}

// Extend returns a copy with extra field rules appended.
func (o *ObjectSchema) Extend(fields ...FieldRule) *ObjectSchema {
	out := o.clone()
	for _, field := range fields {
		out.setField(field)
	}
	return out
}

// Refine adds a cross-field check. The message is attached to path, which
// should name the dependent field. Refinements only run when every field rule
// passed.
func (o *ObjectSchema) Refine(check Predicate, message, path string) *ObjectSchema {
	out := o.clone()
	if check == nil {
		return out
	}
	if message == "" {
		message = "Invalid input"
	}
	out.refinements = append(out.refinements, refinement{check: check, message: message, path: path})
	return out
}

// RefineExpr compiles expression and adds it as a refinement.
func (o *ObjectSchema) RefineExpr(expression, message, path string) (*ObjectSchema, error) {
	check, err := CompileExpr(expression)
	if err != nil {
		return nil, err
	}
	return o.Refine(check, message, path), nil
}

// When makes the rule for field conditional. While active returns false the
// field is skipped.
func (o *ObjectSchema) When(field string, active Predicate) *ObjectSchema {
	out := o.clone()
	if active == nil {
		delete(out.conditions, field)
		return out
	}
	if out.conditions == nil {
		out.conditions = make(map[string]Predicate)
	}
	out.conditions[field] = active
	return out
}

// Fields lists the declared field names in order.
func (o *ObjectSchema) Fields() []string {
	if o == nil {
		return nil
	}
	names := make([]string, 0, len(o.fields))
	for _, field := range o.fields {
		names = append(names, field.Name)
	}
	return names
}

// Rule returns the rule declared for name.
func (o *ObjectSchema) Rule(name string) (Rule, bool) {
	if o == nil {
		return Rule{}, false
	}
	for _, field := range o.fields {
		if field.Name == name {
			return field.Rule, true
		}
	}
	return Rule{}, false
}

// Defaults returns values with every declared string or boolean field that is
// missing filled with its zero default.
func (o *ObjectSchema) Defaults(values map[string]any) map[string]any {
	if o == nil {
		o = &ObjectSchema{}
	}
	out := make(map[string]any, len(values)+len(o.fields))
	for key, value := range values {
		out[key] = value
	}
	for _, field := range o.fields {
		if _, ok := out[field.Name]; ok {
			continue
		}
		switch field.Rule.kind {
		case KindString:
			out[field.Name] = ""
		case KindBool:
			out[field.Name] = false
		}
	}
	return out
}

// Validate runs every field rule, then the refinements.
func (o *ObjectSchema) Validate(values map[string]any) Result {
	if o == nil {
		return Result{Valid: true}
	}
	filled := o.Defaults(values)

	var issues []Issue
	for _, field := range o.fields {
		if active, ok := o.conditions[field.Name]; ok && !active(filled) {
			continue
		}
		value, present := values[field.Name]
		for _, message := range field.Rule.Check(value, present) {
			issues = append(issues, Issue{Field: field.Name, Message: message})
		}
	}
	if len(issues) > 0 {
		return resultFrom(issues)
	}

	for _, ref := range o.refinements {
		if !ref.check(filled) {
			issues = append(issues, Issue{Field: ref.path, Message: ref.message})
		}
	}
	return resultFrom(issues)
}

func (o *ObjectSchema) setField(field FieldRule) {
	if field.Name == "" {
		return
	}
	for idx, existing := range o.fields {
		if existing.Name == field.Name {
			o.fields[idx] = field
			return
		}
	}
	o.fields = append(o.fields, field)
}

func (o *ObjectSchema) clone() *ObjectSchema {
	if o == nil {
		return &ObjectSchema{}
	}
	out := &ObjectSchema{
		fields:      append([]FieldRule(nil), o.fields...),
		refinements: append([]refinement(nil), o.refinements...),
	}
	if len(o.conditions) > 0 {
		out.conditions = make(map[string]Predicate, len(o.conditions))
		for name, cond := range o.conditions {
			out.conditions[name] = cond
		}
	}
	return out
}
