// Package stepper implements the multi-step form engine: an ordered set of
// tabs, each holding its own field values and rule set, plus guarded
// navigation between them.
//
// The Engine owns a single FormState. Hosts mutate it only through
// SetField, the navigation methods (Next, Previous, JumpTo, Submit) and
// HandleSession, and receive an immutable snapshot after every transition
// through the OnFormStateChange and OnTabChange callbacks. Validation failures
// are reported as values (TabResult, SubmitResult) and never leave the state
// partially mutated.
//
// Session status changes from an identity provider are applied with Reduce,
// a pure transition function: "authenticated" marks the login tab as done,
// pre-fills the display name and advances past the login tab exactly once;
// "unauthenticated" resets the whole form.
package stepper
