// Package template defines the renderer-agnostic template contract used by
// summaries. Adapters live in subpackages.
package template
