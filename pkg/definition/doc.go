// Package definition loads declarative stepper form definitions from JSON or
// YAML and compiles them into the per-tab and combined schemas, field bindings
// and labels consumed by the stepper engine and its hosts.
package definition
