/*
store.go - Persistence boundary

PURPOSE:
  The engine needs only a key-value string store with two logical keys: the
  main state and the undo stack. Writes are fire-and-forget after every
  accepted state change; a write failure is logged by the caller and never
  fails the mutation.

LOAD CONTRACT:
  An absent or unparsable value falls back to the default dataset (or an
  empty undo stack). Corrupt storage never propagates a fault.

IMPLEMENTATIONS:
  - budget/store: in-memory, for tests and dev
  - store/sqlite: SQLite-backed, for production
*/
package budget

import (
	"context"
	"encoding/json"
)

// Storage keys.
const (
	StateKey = "budget_tracker_v1"
	UndoKey  = "budget_tracker_undo"
)

// KeyValue is the minimal store contract the engine depends on.
type KeyValue interface {
	// Get returns the value and whether the key was present.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores the value, replacing any previous one.
	Set(ctx context.Context, key, value string) error
}

// LoadState reads the main state, falling back to the default dataset when
// the key is absent, unreadable, or unparsable.
func LoadState(ctx context.Context, kv KeyValue) State {
	raw, ok, err := kv.Get(ctx, StateKey)
	if err != nil || !ok {
		return DefaultState()
	}
	// Decode over the defaults so fields missing from an older persisted
	// shape keep their default values.
	st := DefaultState()
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		return DefaultState()
	}
	return st
}

// SaveState writes the main state.
func SaveState(ctx context.Context, kv KeyValue, s State) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return kv.Set(ctx, StateKey, string(raw))
}

// LoadUndo reads the persisted undo stack, oldest-first. Absent or corrupt
// data yields an empty stack.
func LoadUndo(ctx context.Context, kv KeyValue) []State {
	raw, ok, err := kv.Get(ctx, UndoKey)
	if err != nil || !ok {
		return nil
	}
	var snapshots []State
	if err := json.Unmarshal([]byte(raw), &snapshots); err != nil {
		return nil
	}
	return snapshots
}

// SaveUndo writes the undo stack, oldest-first.
func SaveUndo(ctx context.Context, kv KeyValue, snapshots []State) error {
	raw, err := json.Marshal(snapshots)
	if err != nil {
		return err
	}
	return kv.Set(ctx, UndoKey, string(raw))
}
