// Package model defines the declarative form definition consumed by the
// definition compiler and the terminal host. A FormDefinition is an ordered
// list of tabs; each tab lists its fields with a declared input type and the
// validation rules that apply to it. Rules use canonical identifiers
// (minLength/maxLength, min/max, pattern, email, accepted, number) with string
// parameters so definitions stay stable when serialised to YAML or JSON.
// Cross-field checks live on the tab as refinements whose error is attached
// to the dependent field named by Path.
package model
