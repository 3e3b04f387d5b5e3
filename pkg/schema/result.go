package schema

// Issue is a single validation failure attached to a field. Field is empty for
// object-level failures that declare no path.
type Issue struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// Result captures the outcome of a schema run.
type Result struct {
	Valid  bool    `json:"valid"`
	Issues []Issue `json:"issues,omitempty"`
}

// Schema validates a flat mapping of field values.
type Schema interface {
	Validate(fields map[string]any) Result
}

// SchemaFunc adapts a function into a Schema.
type SchemaFunc func(fields map[string]any) Result

// Validate calls the underlying function.
func (fn SchemaFunc) Validate(fields map[string]any) Result {
	return fn(fields)
}

// Errors returns the first message reported for each field.
func (r Result) Errors() map[string]string {
	if len(r.Issues) == 0 {
		return nil
	}
	out := make(map[string]string, len(r.Issues))
	for _, issue := range r.Issues {
		if _, exists := out[issue.Field]; exists {
			continue
		}
		out[issue.Field] = issue.Message
	}
	return out
}

// FieldErrors returns every message reported for each field, in order.
func (r Result) FieldErrors() map[string][]string {
	if len(r.Issues) == 0 {
		return nil
	}
	out := make(map[string][]string, len(r.Issues))
	for _, issue := range r.Issues {
		out[issue.Field] = append(out[issue.Field], issue.Message)
	}
	return out
}

// Fields lists the fields with issues in the order they were reported.
func (r Result) Fields() []string {
	if len(r.Issues) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(r.Issues))
	out := make([]string, 0, len(r.Issues))
	for _, issue := range r.Issues {
		if _, ok := seen[issue.Field]; ok {
			continue
		}
		seen[issue.Field] = struct{}{}
		out = append(out, issue.Field)
	}
	return out
}

func resultFrom(issues []Issue) Result {
	if len(issues) == 0 {
		return Result{Valid: true}
	}
	return Result{Valid: false, Issues: issues}
}
