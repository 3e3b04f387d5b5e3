// Package binding links individual inputs to a (tab, field) coordinate of a
// stepper engine. It reads the stored value for display and writes every
// change back, coercing the raw input to the field's semantic type. It has no
// validation authority.
package binding
