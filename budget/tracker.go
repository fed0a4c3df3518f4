/*
tracker.go - Command orchestration over the pure mutation functions

PURPOSE:
  Tracker owns the current state, the undo stack, the pending two-step
  delete requests, and the persistence writes. Every command:
    1. pushes the pre-mutation snapshot onto the undo stack
    2. applies the pure mutation from mutate.go
    3. persists state and undo stack (fire-and-forget: failures are logged,
       the mutation stands)
  The push-before-apply ordering guarantees the undo stack never lags a
  partially applied mutation.

TWO-STEP DELETE:
  RequestDelete never changes state; it opens a pending request naming the
  category. The first ConfirmDelete advances the request to the permanent
  step; only the second performs the removal. Cancel at either step leaves
  state unchanged. Archive/activate never require confirmation.
*/
package budget

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Tracker serializes access to the budget state. Mutations produce whole new
// snapshots; previously returned states are never modified in place.
type Tracker struct {
	mu      sync.Mutex
	kv      KeyValue
	state   State
	history *History
	pending map[string]*DeleteRequest
	clock   func() time.Time
	log     zerolog.Logger
}

// NewTracker loads the persisted state and undo stack (falling back to the
// default dataset) and returns a ready tracker.
func NewTracker(ctx context.Context, kv KeyValue, log zerolog.Logger) *Tracker {
	return &Tracker{
		kv:      kv,
		state:   LoadState(ctx, kv),
		history: RestoreHistory(LoadUndo(ctx, kv)),
		pending: make(map[string]*DeleteRequest),
		clock:   time.Now,
		log:     log,
	}
}

// WithClock overrides the time source (tests exercise the February override).
func (t *Tracker) WithClock(clock func() time.Time) *Tracker {
	t.clock = clock
	return t
}

// State returns an independent copy of the current snapshot.
func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state.Clone()
}

// Now exposes the tracker's clock for derived queries.
func (t *Tracker) Now() time.Time {
	return t.clock()
}

// UndoDepth reports how many snapshots are currently recoverable.
func (t *Tracker) UndoDepth() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.history.Len()
}

// apply pushes the pre-mutation snapshot, installs the result of fn, and
// persists. fn runs under the lock.
func (t *Tracker) apply(ctx context.Context, fn func(State) (State, error)) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.history.Push(t.state)
	next, err := fn(t.state)
	if err != nil {
		// Rejected commands leave no history entry behind.
		t.history.Pop()
		return err
	}
	t.state = next
	t.persistLocked(ctx)
	return nil
}

// persistLocked writes state and undo stack. Failures are logged and
// swallowed: persistence is fire-and-forget by contract.
func (t *Tracker) persistLocked(ctx context.Context) {
	if err := SaveState(ctx, t.kv, t.state); err != nil {
		t.log.Warn().Err(err).Msg("state write failed")
	}
	if err := SaveUndo(ctx, t.kv, t.history.Snapshots()); err != nil {
		t.log.Warn().Err(err).Msg("undo stack write failed")
	}
}

// =============================================================================
// COMMANDS
// =============================================================================

func (t *Tracker) AddCategory(ctx context.Context, in AddCategoryInput) (Category, error) {
	var created Category
	err := t.apply(ctx, func(s State) (State, error) {
		next, cat, err := AddCategory(s, in)
		created = cat
		return next, err
	})
	return created, err
}

// UpdateCategory pushes history unconditionally, then patches safely: a
// missing id still costs an undo slot.
func (t *Tracker) UpdateCategory(ctx context.Context, id string, patch CategoryPatch) error {
	return t.apply(ctx, func(s State) (State, error) {
		return UpdateCategory(s, id, patch), nil
	})
}

func (t *Tracker) ArchiveCategory(ctx context.Context, id string) error {
	return t.apply(ctx, func(s State) (State, error) {
		return ArchiveCategory(s, id), nil
	})
}

func (t *Tracker) ActivateCategory(ctx context.Context, id string) error {
	return t.apply(ctx, func(s State) (State, error) {
		return ActivateCategory(s, id), nil
	})
}

func (t *Tracker) ReorderCategory(ctx context.Context, cycle Cycle, movedID, targetID string) error {
	return t.apply(ctx, func(s State) (State, error) {
		return ReorderCategory(s, cycle, movedID, targetID), nil
	})
}

func (t *Tracker) AddTransaction(ctx context.Context, in AddTransactionInput) error {
	return t.apply(ctx, func(s State) (State, error) {
		return AddTransaction(s, in)
	})
}

func (t *Tracker) BulkArchive(ctx context.Context, tokens []string) error {
	return t.apply(ctx, func(s State) (State, error) {
		return BulkArchive(s, tokens), nil
	})
}

func (t *Tracker) BulkActivate(ctx context.Context, tokens []string) error {
	return t.apply(ctx, func(s State) (State, error) {
		return BulkActivate(s, tokens), nil
	})
}

func (t *Tracker) BulkDelete(ctx context.Context, tokens []string) error {
	return t.apply(ctx, func(s State) (State, error) {
		return BulkDelete(s, tokens), nil
	})
}

func (t *Tracker) SaveIncomeSettings(ctx context.Context, in IncomeSettingsInput) error {
	return t.apply(ctx, func(s State) (State, error) {
		return SaveIncomeSettings(s, in), nil
	})
}

func (t *Tracker) SaveBonusAllocations(ctx context.Context, in BonusAllocationsInput) error {
	return t.apply(ctx, func(s State) (State, error) {
		return SaveBonusAllocations(s, in), nil
	})
}

// ToggleTheme bypasses the undo stack by design: the original never recorded
// theme flips as undoable actions.
func (t *Tracker) ToggleTheme(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = ToggleTheme(t.state)
	t.persistLocked(ctx)
}

// ImportCSV merges CSV text as one undoable mutation.
func (t *Tracker) ImportCSV(ctx context.Context, text string) error {
	return t.apply(ctx, func(s State) (State, error) {
		return ImportCSV(s, text), nil
	})
}

// ExportCSV serializes the current state. Read-only.
func (t *Tracker) ExportCSV() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return ExportCSV(t.state)
}

// Undo restores the most recent snapshot. With an empty stack it reports
// false and changes nothing.
func (t *Tracker) Undo(ctx context.Context) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	prev, ok := t.history.Pop()
	if !ok {
		return false
	}
	t.state = prev
	t.persistLocked(ctx)
	return true
}

// =============================================================================
// TWO-STEP DELETE
// =============================================================================

type DeleteStep int

const (
	// StepConfirmIntent is the first prompt, naming the category.
	StepConfirmIntent DeleteStep = iota + 1
	// StepConfirmPermanent is the second, explicit permanent-delete prompt.
	StepConfirmPermanent
)

// DeleteRequest is a pending removal awaiting confirmation.
type DeleteRequest struct {
	CategoryID string     `json:"categoryId"`
	Name       string     `json:"name"`
	Step       DeleteStep `json:"step"`
}

// RequestDelete opens (or reopens) a pending delete for the category. State
// is not modified. Unknown ids are rejected so the prompt can name the
// category.
func (t *Tracker) RequestDelete(id string) (DeleteRequest, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	cat := t.state.CategoryByID(id)
	if cat == nil {
		return DeleteRequest{}, ErrCategoryNotFound
	}
	req := DeleteRequest{CategoryID: id, Name: cat.Name, Step: StepConfirmIntent}
	t.pending[id] = &req
	return req, nil
}

// ConfirmDelete advances a pending request. The first confirmation moves it
// to the permanent step without touching state; the second performs the
// removal and reports deleted=true.
func (t *Tracker) ConfirmDelete(ctx context.Context, id string) (DeleteRequest, bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	req, ok := t.pending[id]
	if !ok {
		return DeleteRequest{}, false, ErrNoPendingDelete
	}
	if req.Step == StepConfirmIntent {
		req.Step = StepConfirmPermanent
		return *req, false, nil
	}
	t.history.Push(t.state)
	t.state = PermanentlyDeleteCategory(t.state, id)
	delete(t.pending, id)
	t.persistLocked(ctx)
	return DeleteRequest{CategoryID: id, Name: req.Name, Step: StepConfirmPermanent}, true, nil
}

// CancelDelete drops a pending request at either step; state is unchanged.
func (t *Tracker) CancelDelete(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.pending, id)
}
