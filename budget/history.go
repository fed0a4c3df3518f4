/*
history.go - Bounded undo stack of whole-state snapshots

CONTRACT:
  - Capacity 30, drop-oldest
  - Push happens BEFORE a mutation is applied, with a deep-independent copy
  - Pop restores the most recent snapshot and discards it permanently
  - No redo: undo is one-directional
*/
package budget

// HistoryCapacity bounds the undo stack. Pushing past it drops the oldest
// snapshot, which is then no longer recoverable.
const HistoryCapacity = 30

// History is a bounded stack of prior states. Not safe for concurrent use;
// the Tracker serializes access.
type History struct {
	snapshots []State
}

func NewHistory() *History {
	return &History{}
}

// RestoreHistory rebuilds a stack from persisted snapshots, keeping only the
// newest HistoryCapacity entries.
func RestoreHistory(snapshots []State) *History {
	if len(snapshots) > HistoryCapacity {
		snapshots = snapshots[len(snapshots)-HistoryCapacity:]
	}
	h := &History{}
	for _, s := range snapshots {
		h.snapshots = append(h.snapshots, s.Clone())
	}
	return h
}

// Push records a deep copy of the pre-mutation state.
func (h *History) Push(s State) {
	h.snapshots = append(h.snapshots, s.Clone())
	if len(h.snapshots) > HistoryCapacity {
		h.snapshots = h.snapshots[1:]
	}
}

// Pop removes and returns the most recent snapshot. The second return is
// false when the stack is empty (undo is then a no-op).
func (h *History) Pop() (State, bool) {
	if len(h.snapshots) == 0 {
		return State{}, false
	}
	last := h.snapshots[len(h.snapshots)-1]
	h.snapshots = h.snapshots[:len(h.snapshots)-1]
	return last, true
}

func (h *History) Len() int {
	return len(h.snapshots)
}

// Snapshots returns the stack oldest-first for persistence.
func (h *History) Snapshots() []State {
	out := make([]State, 0, len(h.snapshots))
	for _, s := range h.snapshots {
		out = append(out, s.Clone())
	}
	return out
}
