/*
mutate.go - State-transition functions

PURPOSE:
  Every user-facing command is a pure function (State, input) -> State.
  Inputs carry raw user text; numeric fields are parsed leniently (failure
  coerces to zero). The caller (Tracker) pushes the pre-mutation snapshot
  onto the undo stack BEFORE applying any function here.

CONTRACT:
  - Never mutate the input state: clone first, then patch the clone
  - Missing lookup targets are silent no-ops, except AddTransaction which
    rejects with ErrCategoryNotFound
  - Status writes go through the lifecycle transition table
*/
package budget

import (
	"regexp"

	"github.com/shopspring/decimal"
)

// =============================================================================
// CATEGORY COMMANDS
// =============================================================================

type AddCategoryInput struct {
	Cycle   Cycle
	Name    string
	Planned string // raw user text, lenient
}

// AddCategory appends a new category with a generated id and color, default
// type "variable" and status "active", and appends the id to the cycle's
// order sequence.
func AddCategory(s State, in AddCategoryInput) (State, Category, error) {
	if !in.Cycle.Valid() {
		return s, Category{}, ErrInvalidCycle
	}
	next := s.Clone()
	cat := Category{
		ID:      NewCategoryID(),
		Name:    in.Name,
		Cycle:   in.Cycle,
		Planned: ParseAmount(in.Planned),
		Color:   RandomColor(),
		Status:  StatusActive,
		Type:    TypeVariable,
	}
	next.Categories = append(next.Categories, cat)
	next.Order[in.Cycle] = append(next.Order[in.Cycle], cat.ID)
	return next, cat, nil
}

// CategoryPatch is a partial update. Nil fields are left untouched.
// Cycle is deliberately absent: a category never moves between cycles.
type CategoryPatch struct {
	Name    *string
	Planned *string // raw user text, lenient
	Status  *Status
	Type    *CategoryType
}

// UpdateCategory merges the patch into the matching category. A missing id
// is a silent no-op. A status change outside the transition table is dropped
// while the rest of the patch still applies.
func UpdateCategory(s State, id string, patch CategoryPatch) State {
	next := s.Clone()
	for i := range next.Categories {
		if next.Categories[i].ID != id {
			continue
		}
		c := &next.Categories[i]
		if patch.Name != nil {
			c.Name = *patch.Name
		}
		if patch.Planned != nil {
			c.Planned = ParseAmount(*patch.Planned)
		}
		if patch.Status != nil && CanTransition(c.Status, *patch.Status) {
			c.Status = *patch.Status
		}
		if patch.Type != nil {
			c.Type = *patch.Type
		}
		break
	}
	return next
}

func ArchiveCategory(s State, id string) State {
	status := StatusArchived
	return UpdateCategory(s, id, CategoryPatch{Status: &status})
}

func ActivateCategory(s State, id string) State {
	status := StatusActive
	return UpdateCategory(s, id, CategoryPatch{Status: &status})
}

// PermanentlyDeleteCategory removes the category from the collection, records
// its id in DeletedCategoryIDs, and prunes the id from every cycle's order
// sequence. Transactions referencing the id are kept for historical reporting.
func PermanentlyDeleteCategory(s State, id string) State {
	if s.CategoryByID(id) == nil {
		return s
	}
	next := s.Clone()
	next.Categories = removeCategoryByID(next.Categories, id)
	next.DeletedCategoryIDs = append(next.DeletedCategoryIDs, id)
	for cycle, ids := range next.Order {
		next.Order[cycle] = removeString(ids, id)
	}
	return next
}

// ReorderCategory moves movedID to targetID's position within one cycle's
// order sequence. No-op when either id is absent from the sequence or the
// two ids are equal. Other cycles and the category collection are untouched.
func ReorderCategory(s State, cycle Cycle, movedID, targetID string) State {
	if movedID == targetID {
		return s
	}
	ids := s.Order[cycle]
	from := indexOf(ids, movedID)
	to := indexOf(ids, targetID)
	if from < 0 || to < 0 {
		return s
	}
	next := s.Clone()
	reordered := next.Order[cycle]
	moved := reordered[from]
	reordered = append(reordered[:from], reordered[from+1:]...)
	reordered = append(reordered, "")
	copy(reordered[to+1:], reordered[to:])
	reordered[to] = moved
	next.Order[cycle] = reordered
	return next
}

// =============================================================================
// TRANSACTION COMMANDS
// =============================================================================

type AddTransactionInput struct {
	Date     string
	Category string // id or name token
	Amount   string // raw user text, lenient; negative = refund
	Note     string
}

// AddTransaction resolves the category token and prepends a new transaction
// (the sequence is newest-first). An unresolvable token rejects the command
// with ErrCategoryNotFound; nothing is created.
func AddTransaction(s State, in AddTransactionInput) (State, error) {
	cat := s.ResolveCategory(in.Category)
	if cat == nil {
		return s, ErrCategoryNotFound
	}
	next := s.Clone()
	tx := Transaction{
		ID:         NewTransactionID(),
		Date:       in.Date,
		CategoryID: cat.ID,
		Amount:     ParseAmount(in.Amount),
		Note:       in.Note,
	}
	next.Transactions = append([]Transaction{tx}, next.Transactions...)
	return next, nil
}

// =============================================================================
// BULK COMMANDS
// =============================================================================

var bulkTokenSplit = regexp.MustCompile(`[,.\s]+`)

// SplitTokens splits bulk input on commas, dots, and whitespace.
func SplitTokens(text string) []string {
	var out []string
	for _, t := range bulkTokenSplit.Split(text, -1) {
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// resolveTokens maps tokens to the set of matching category ids.
func resolveTokens(s State, tokens []string) map[string]bool {
	ids := make(map[string]bool)
	for _, token := range tokens {
		if c := s.ResolveCategory(token); c != nil {
			ids[c.ID] = true
		}
	}
	return ids
}

// BulkArchive archives every category whose id or name appears in tokens.
func BulkArchive(s State, tokens []string) State {
	return bulkStatus(s, tokens, StatusArchived)
}

// BulkActivate activates every category whose id or name appears in tokens.
func BulkActivate(s State, tokens []string) State {
	return bulkStatus(s, tokens, StatusActive)
}

func bulkStatus(s State, tokens []string, status Status) State {
	ids := resolveTokens(s, tokens)
	next := s.Clone()
	for i := range next.Categories {
		c := &next.Categories[i]
		if ids[c.ID] && CanTransition(c.Status, status) {
			c.Status = status
		}
	}
	return next
}

// BulkDelete removes every matched category immediately (no two-step
// confirmation), pruning order sequences and recording the ids exactly like
// a permanent delete.
func BulkDelete(s State, tokens []string) State {
	ids := resolveTokens(s, tokens)
	if len(ids) == 0 {
		return s
	}
	next := s.Clone()
	kept := next.Categories[:0]
	for _, c := range next.Categories {
		if ids[c.ID] {
			next.DeletedCategoryIDs = append(next.DeletedCategoryIDs, c.ID)
			continue
		}
		kept = append(kept, c)
	}
	next.Categories = kept
	for cycle, order := range next.Order {
		filtered := order[:0]
		for _, id := range order {
			if !ids[id] {
				filtered = append(filtered, id)
			}
		}
		next.Order[cycle] = filtered
	}
	return next
}

// =============================================================================
// SETTINGS COMMANDS
// =============================================================================

var monthSplit = regexp.MustCompile(`[,\s]+`)

// ParseBonusMonths splits on commas/whitespace and keeps integers in [1,12].
func ParseBonusMonths(text string) []int {
	var months []int
	for _, t := range monthSplit.Split(text, -1) {
		if t == "" {
			continue
		}
		if n := ParseDay(t); n >= 1 && n <= 12 {
			months = append(months, n)
		}
	}
	return months
}

type IncomeSettingsInput struct {
	FirstDay       string
	SecondDay      string
	FirstAmount    string
	FebFirstAmount string
	SecondAmount   string
	BonusMonths    string // free text, e.g. "4, 9"
	Reserve        string
}

var reserveFloor = decimal.NewFromInt(100)

// SaveIncomeSettings replaces the schedule, payment, and reserve settings
// wholesale. All numbers parse leniently; the emergency reserve is clamped
// to a floor of 100 on every save.
func SaveIncomeSettings(s State, in IncomeSettingsInput) State {
	next := s.Clone()
	next.Income.Schedule = Schedule{
		FirstPaymentDay:  ParseDay(in.FirstDay),
		SecondPaymentDay: ParseDay(in.SecondDay),
		BonusMonths:      ParseBonusMonths(in.BonusMonths),
	}
	next.Income.Payments = Payments{
		First:    ParseAmount(in.FirstAmount),
		FebFirst: ParseAmount(in.FebFirstAmount),
		Second:   ParseAmount(in.SecondAmount),
	}
	reserve := ParseAmount(in.Reserve)
	if reserve.LessThan(reserveFloor) {
		reserve = reserveFloor
	}
	next.EmergencyReserve = reserve
	return next
}

type BonusAllocationsInput struct {
	April       string
	September   string
	Allocations map[string]string // bonus category id -> raw amount
}

// SaveBonusAllocations replaces the bonus amounts and sets planned on every
// bonus-cycle category from the allocation map. A bonus category absent from
// the map is set to zero.
func SaveBonusAllocations(s State, in BonusAllocationsInput) State {
	next := s.Clone()
	next.Income.Bonus = Bonus{
		April:     ParseAmount(in.April),
		September: ParseAmount(in.September),
	}
	for i := range next.Categories {
		c := &next.Categories[i]
		if c.Cycle != CycleBonus {
			continue
		}
		c.Planned = ParseAmount(in.Allocations[c.ID])
	}
	return next
}

// ToggleTheme flips light/dark. This is the one mutation that does not go
// through the undo stack.
func ToggleTheme(s State) State {
	next := s.Clone()
	if next.Theme == "dark" {
		next.Theme = "light"
	} else {
		next.Theme = "dark"
	}
	return next
}

// =============================================================================
// SLICE HELPERS
// =============================================================================

func indexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}

func removeString(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func removeCategoryByID(cats []Category, id string) []Category {
	out := cats[:0]
	for _, c := range cats {
		if c.ID != id {
			out = append(out, c)
		}
	}
	return out
}
