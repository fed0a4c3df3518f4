/*
dto.go - Data Transfer Objects for API requests and responses

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

Money travels as decimal strings (the domain's decimal type marshals that
way), so clients never see float rounding.

SEE ALSO:
  - handlers.go: Uses these types
  - budget/derive.go: Source of every derived field
*/
package api

import (
	"github.com/shopspring/decimal"

	"github.com/warp/budget-engine/budget"
)

// =============================================================================
// REQUEST TYPES
// =============================================================================

// CreateCategoryRequest adds a budget line to a cycle. Planned is raw user
// text; non-numeric input coerces to zero.
type CreateCategoryRequest struct {
	Cycle   string `json:"cycle"`
	Name    string `json:"name"`
	Planned string `json:"planned"`
}

// UpdateCategoryRequest is a partial update; absent fields are untouched.
type UpdateCategoryRequest struct {
	Name    *string `json:"name,omitempty"`
	Planned *string `json:"planned,omitempty"`
	Status  *string `json:"status,omitempty"`
	Type    *string `json:"type,omitempty"`
}

// ReorderRequest moves a category to another category's position within one
// cycle's drag order.
type ReorderRequest struct {
	Cycle    string `json:"cycle"`
	MovedID  string `json:"movedId"`
	TargetID string `json:"targetId"`
}

// CreateTransactionRequest posts actual spend. Category accepts an id or a
// name token.
type CreateTransactionRequest struct {
	Date     string `json:"date"`
	Category string `json:"category"`
	Amount   string `json:"amount"`
	Note     string `json:"note"`
}

// BulkRequest applies archive/activate/delete to every category whose id or
// name appears in the token text.
type BulkRequest struct {
	Action string `json:"action"` // archive | activate | delete
	Tokens string `json:"tokens"` // comma/dot/whitespace separated
}

// IncomeSettingsRequest replaces the schedule, payments, and reserve.
type IncomeSettingsRequest struct {
	FirstPaymentDay  string `json:"firstPaymentDay"`
	SecondPaymentDay string `json:"secondPaymentDay"`
	FirstAmount      string `json:"firstAmount"`
	FebFirstAmount   string `json:"febFirstAmount"`
	SecondAmount     string `json:"secondAmount"`
	BonusMonths      string `json:"bonusMonths"`
	EmergencyReserve string `json:"emergencyReserve"`
}

// BonusAllocationsRequest replaces the bonus amounts and bucket allocations.
type BonusAllocationsRequest struct {
	April       string            `json:"april"`
	September   string            `json:"september"`
	Allocations map[string]string `json:"allocations"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// CycleOverviewDTO summarizes one payment cycle for the overview cards.
type CycleOverviewDTO struct {
	Income       decimal.Decimal     `json:"income"`
	Planned      decimal.Decimal     `json:"planned"`
	Remaining    decimal.Decimal     `json:"remaining"`
	ReserveLevel budget.ReserveLevel `json:"reserveLevel"`
	Progress     float64             `json:"progress"`
	Categories   []budget.Category   `json:"categories"` // drag order
}

// BonusOverviewDTO summarizes the bonus buckets.
type BonusOverviewDTO struct {
	Summary    budget.BonusSummary `json:"summary"`
	Categories []budget.Category   `json:"categories"` // drag order
}

// OverviewDTO is the full derived overview, recomputed per request.
type OverviewDTO struct {
	Theme            string           `json:"theme"`
	Currency         string           `json:"currency"`
	EmergencyReserve decimal.Decimal  `json:"emergencyReserve"`
	First            CycleOverviewDTO `json:"first"`
	Second           CycleOverviewDTO `json:"second"`
	Bonus            BonusOverviewDTO `json:"bonus"`
	UndoDepth        int              `json:"undoDepth"`
}

// DeleteRequestDTO reports the state of a two-step delete flow.
type DeleteRequestDTO struct {
	CategoryID string `json:"categoryId"`
	Name       string `json:"name"`
	Step       int    `json:"step"`
	Deleted    bool   `json:"deleted"`
}

// UndoResponse reports whether an undo restored a snapshot.
type UndoResponse struct {
	Restored  bool `json:"restored"`
	UndoDepth int  `json:"undoDepth"`
}
