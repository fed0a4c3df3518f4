/*
lifecycle.go - Category lifecycle state machine

STATES:
  active, archived, deleted (soft-delete intent), then terminal removal:
  absent from the categories collection, id recorded in DeletedCategoryIDs.

TRANSITIONS:
  active  -> archived   (archive: excluded from planned totals, still editable)
  archived -> active    (activate)
  active|archived -> removed   ONLY via the two-step confirmation flow
                               (see Tracker.RequestDelete / ConfirmDelete)

  Nothing returns from removed. Transitions outside the table are ignored
  rather than applied, so ad hoc status strings can never enter the state.
*/
package budget

var statusTransitions = map[Status]map[Status]bool{
	StatusActive:   {StatusArchived: true},
	StatusArchived: {StatusActive: true},
}

// CanTransition reports whether a status change is allowed. Same-status
// writes are permitted so bulk operations stay idempotent.
func CanTransition(from, to Status) bool {
	if from == to {
		return true
	}
	return statusTransitions[from][to]
}
