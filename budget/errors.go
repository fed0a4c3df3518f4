/*
errors.go - Centralized error types for the budget engine

ERROR POLICY:
  No operation in this package is fatal. Failure paths degrade to one of:
  - a silent no-op (update/status-change on a missing id)
  - a default value (non-numeric input coerces to zero, corrupt storage
    restores the default dataset)
  - a user-visible rejection (adding a transaction against an unresolvable
    category)
  Only the last group is surfaced as an error value.
*/
package budget

import "errors"

var (
	// ErrCategoryNotFound is returned when a user token resolves to no
	// category. Surfaced as a rejection message, never a fault.
	ErrCategoryNotFound = errors.New("category not found")

	// ErrNoPendingDelete is returned when a delete confirmation arrives
	// without a matching pending request.
	ErrNoPendingDelete = errors.New("no pending delete request")

	// ErrInvalidCycle is returned when a command names an unknown cycle.
	ErrInvalidCycle = errors.New("invalid cycle")
)
