package stepper

// TabState holds the field values of one tab plus its status flags. Field
// values are string, bool or float64 depending on the bound input.
type TabState struct {
	Fields    map[string]any `json:"fields"`
	IsValid   bool           `json:"isValid"`
	IsVisited bool           `json:"isVisited"`
}

// FormState is the ordered collection of tabs. Index order is navigation
// order.
type FormState []TabState

// NewFormState returns n empty tabs.
func NewFormState(n int) FormState {
	if n <= 0 {
		return FormState{}
	}
	state := make(FormState, n)
	for idx := range state {
		state[idx] = TabState{Fields: make(map[string]any)}
	}
	return state
}

// Clone returns a deep copy that shares nothing with the receiver.
func (s FormState) Clone() FormState {
	if s == nil {
		return nil
	}
	out := make(FormState, len(s))
	for idx, tab := range s {
		out[idx] = tab.clone()
	}
	return out
}

// Lookup returns the value stored for a field and whether it exists.
func (s FormState) Lookup(tab int, name string) (any, bool) {
	if tab < 0 || tab >= len(s) {
		return nil, false
	}
	value, ok := s[tab].Fields[name]
	return value, ok
}

// Merged flattens every tab's fields into one mapping in ascending tab order;
// later tabs win on name collisions.
func (s FormState) Merged() map[string]any {
	out := make(map[string]any)
	for _, tab := range s {
		for name, value := range tab.Fields {
			out[name] = value
		}
	}
	return out
}

// Empty reports whether no tab holds any field value.
func (s FormState) Empty() bool {
	for _, tab := range s {
		if len(tab.Fields) > 0 {
			return false
		}
	}
	return true
}

// with returns a new FormState where only the target tab's map is copied.
func (s FormState) with(tab int, name string, value any) FormState {
	out := make(FormState, len(s))
	copy(out, s)
	updated := s[tab].clone()
	updated.Fields[name] = value
	out[tab] = updated
	return out
}

func (t TabState) clone() TabState {
	fields := make(map[string]any, len(t.Fields))
	for name, value := range t.Fields {
		fields[name] = value
	}
	return TabState{Fields: fields, IsValid: t.IsValid, IsVisited: t.IsVisited}
}

// withStatus returns a new FormState with the flags of one tab replaced.
func (s FormState) withStatus(tab int, valid, visited bool) FormState {
	if tab < 0 || tab >= len(s) {
		return s
	}
	if s[tab].IsValid == valid && s[tab].IsVisited == visited {
		return s
	}
	out := make(FormState, len(s))
	copy(out, s)
	updated := s[tab].clone()
	updated.IsValid = valid
	updated.IsVisited = visited
	out[tab] = updated
	return out
}
