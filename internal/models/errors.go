package models

import "errors"

// Sentinel errors for the invariants the schema cannot enforce
// declaratively. Stores return these wrapped (%w), so callers check with
// errors.Is and the API layer maps them to 409s; everything the database
// CAN enforce (foreign keys, uniqueness, check constraints) surfaces as
// the driver's own error, unchanged.
var (
	// ErrHierarchyCycle: the write would make an account (or user) its own
	// ancestor. Naive recursive traversal over a cyclic chain never
	// terminates, so this is rejected before it ever reaches the table.
	ErrHierarchyCycle = errors.New("hierarchy cycle")

	// ErrIllegalTransition: a lead status move outside
	// New→Qualified→{Converted,Lost}.
	ErrIllegalTransition = errors.New("illegal lead status transition")

	// ErrDanglingReference: an activity's (related_to_type, related_to_id)
	// names a row that does not exist.
	ErrDanglingReference = errors.New("dangling polymorphic reference")
)
