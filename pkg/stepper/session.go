package stepper

import "strings"

// SessionStatus is the tri-state reported by the identity provider.
type SessionStatus string

const (
	SessionUnknown         SessionStatus = ""
	SessionLoading         SessionStatus = "loading"
	SessionAuthenticated   SessionStatus = "authenticated"
	SessionUnauthenticated SessionStatus = "unauthenticated"
)

// ParseSessionStatus maps provider strings onto a SessionStatus.
func ParseSessionStatus(raw string) (SessionStatus, bool) {
	switch SessionStatus(strings.ToLower(strings.TrimSpace(raw))) {
	case SessionLoading:
		return SessionLoading, true
	case SessionAuthenticated:
		return SessionAuthenticated, true
	case SessionUnauthenticated:
		return SessionUnauthenticated, true
	default:
		return SessionUnknown, false
	}
}

// SessionEvent is one status report from the identity provider.
type SessionEvent struct {
	Status      SessionStatus `json:"status"`
	DisplayName string        `json:"displayName,omitempty"`
}

// EngineState is the part of the engine a session event can change.
type EngineState struct {
	Form           FormState     `json:"form"`
	CurrentTab     int           `json:"currentTab"`
	HighestReached int           `json:"highestReached"`
	Locked         []bool        `json:"locked,omitempty"`
	Submitted      bool          `json:"submitted"`
	Session        SessionStatus `json:"session,omitempty"`
}

// Clone returns a deep copy.
func (s EngineState) Clone() EngineState {
	out := s
	out.Form = s.Form.Clone()
	out.Locked = append([]bool(nil), s.Locked...)
	return out
}

// SessionBinding names the coordinates written when a session becomes
// authenticated.
type SessionBinding struct {
	LoginTab   int
	LoginField string
	NameTab    int
	NameField  string
}

// DefaultSessionBinding matches the onboarding layout: the login flag on the
// first tab and the display name on the second.
var DefaultSessionBinding = SessionBinding{
	LoginTab:   0,
	LoginField: "loginStatus",
	NameTab:    1,
	NameField:  "fullName",
}

// Reduce applies event to state using DefaultSessionBinding.
func Reduce(state EngineState, event SessionEvent) EngineState {
	return DefaultSessionBinding.Reduce(state, event)
}

// Reduce returns the state that results from one session event. It never
// modifies its input.
//
// Authenticated (when not already authenticated) writes the login flag and the
// display name, locks the login tab and advances to the tab after it only if
// the login tab is current. Unauthenticated resets every tab and returns to
// the first one. Loading changes nothing.
func (b SessionBinding) Reduce(state EngineState, event SessionEvent) EngineState {
	switch event.Status {
	case SessionAuthenticated:
		if state.Session == SessionAuthenticated {
			return state
		}
		next := state.Clone()
		next.Session = SessionAuthenticated
		if b.valid(b.LoginTab, b.LoginField, len(next.Form)) {
			next.Form = next.Form.with(b.LoginTab, b.LoginField, true)
			next.Locked = lock(next.Locked, len(next.Form), b.LoginTab, true)
		}
		if b.valid(b.NameTab, b.NameField, len(next.Form)) {
			next.Form = next.Form.with(b.NameTab, b.NameField, event.DisplayName)
		}
		if next.CurrentTab == b.LoginTab && b.LoginTab+1 < len(next.Form) {
			next.CurrentTab = b.LoginTab + 1
			next.Form = next.Form.withStatus(next.CurrentTab, next.Form[next.CurrentTab].IsValid, true)
		}
		if next.CurrentTab > next.HighestReached {
			next.HighestReached = next.CurrentTab
		}
		return next

	case SessionUnauthenticated:
		form := NewFormState(len(state.Form))
		return EngineState{
			Form:    form,
			Locked:  make([]bool, len(form)),
			Session: SessionUnauthenticated,
		}

	default:
		return state
	}
}

func (b SessionBinding) valid(tab int, field string, tabs int) bool {
	return tab >= 0 && tab < tabs && strings.TrimSpace(field) != ""
}

func lock(locked []bool, n, tab int, value bool) []bool {
	out := make([]bool, n)
	copy(out, locked)
	if tab >= 0 && tab < n {
		out[tab] = value
	}
	return out
}
