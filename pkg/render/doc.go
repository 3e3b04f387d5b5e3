// Package render turns engine results into host-facing views: per-tab error
// groups, deterministic payload summaries and the pongo2 review and error
// templates used by terminal hosts.
package render
