// Package persist saves and restores stepper drafts so a host can resume a
// half-filled form. Stores keep one JSON snapshot per draft key; field values
// keep their kind across a round trip, including NaN numbers.
package persist
