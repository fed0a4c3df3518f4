/*
handlers.go - HTTP API handlers for the budget engine

PURPOSE:
  Exposes the budget engine via REST. Handles HTTP request/response and JSON
  serialization, delegating every state change to the Tracker and every
  derived value to budget's pure functions.

REQUEST FLOW:
  1. Parse HTTP request
  2. Call domain logic (tracker command or derivation)
  3. Serialize response

ERROR HANDLING:
  - 400: Malformed body, unknown cycle, unknown bulk action
  - 404: Unknown category id on lifecycle routes
  - 409: Delete confirmation without a pending request
  - 422: Transaction category token resolved to nothing (user-visible
         rejection; the transaction is not created)
  Input-parse leniency is NOT an error: non-numeric amounts coerce to zero
  inside the domain and the command succeeds.

SEE ALSO:
  - dto.go: Request/response shapes
  - server.go: Router setup and middleware
  - budget/tracker.go: Command orchestration
*/
package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/warp/budget-engine/budget"
)

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Tracker *budget.Tracker
}

// NewHandler creates a handler around a loaded tracker.
func NewHandler(tracker *budget.Tracker) *Handler {
	return &Handler{Tracker: tracker}
}

// =============================================================================
// STATE & DERIVED VIEWS
// =============================================================================

// GetState returns the full current snapshot.
// GET /api/state
func (h *Handler) GetState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Tracker.State())
}

// GetOverview returns the derived overview: per-cycle income, planned,
// remaining, reserve classification, progress, and ordered category lists.
// GET /api/overview
func (h *Handler) GetOverview(w http.ResponseWriter, r *http.Request) {
	s := h.Tracker.State()
	month := h.Tracker.Now().Month()
	income := budget.IncomeForMonth(s, month)

	first := cycleOverview(s, budget.CycleFirst, income.First, month)
	second := cycleOverview(s, budget.CycleSecond, income.Second, month)

	writeJSON(w, http.StatusOK, OverviewDTO{
		Theme:            s.Theme,
		Currency:         s.Currency,
		EmergencyReserve: s.EmergencyReserve,
		First:            first,
		Second:           second,
		Bonus: BonusOverviewDTO{
			Summary:    budget.BonusAllocation(s),
			Categories: budget.OrderedCategories(s, budget.CycleBonus),
		},
		UndoDepth: h.Tracker.UndoDepth(),
	})
}

func cycleOverview(s budget.State, cycle budget.Cycle, income decimal.Decimal, month time.Month) CycleOverviewDTO {
	planned := budget.PlannedTotal(s, cycle)
	remaining := budget.Remaining(s, cycle, month)
	return CycleOverviewDTO{
		Income:       income,
		Planned:      planned,
		Remaining:    remaining,
		ReserveLevel: budget.ClassifyReserve(remaining, s.EmergencyReserve),
		Progress:     budget.ProgressPercent(planned, income),
		Categories:   budget.OrderedCategories(s, cycle),
	}
}

// GetSpending returns the top-ten actual-spending summary.
// GET /api/charts/spending
func (h *Handler) GetSpending(w http.ResponseWriter, r *http.Request) {
	spending := budget.SpendingByCategory(h.Tracker.State())
	if spending == nil {
		spending = []budget.CategorySpend{}
	}
	writeJSON(w, http.StatusOK, spending)
}

// GetPlannedVsActual returns the first-eight planned/actual series.
// GET /api/charts/planned-vs-actual
func (h *Handler) GetPlannedVsActual(w http.ResponseWriter, r *http.Request) {
	series := budget.PlannedVsActual(h.Tracker.State())
	if series == nil {
		series = []budget.PlannedActual{}
	}
	writeJSON(w, http.StatusOK, series)
}

// GetCalendar returns the 42-day payment calendar grid for a month.
// GET /api/calendar?year=2026&month=8
func (h *Handler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	now := h.Tracker.Now()
	year, month := now.Year(), int(now.Month())
	if v := r.URL.Query().Get("year"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			year = n
		}
	}
	if v := r.URL.Query().Get("month"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 && n <= 12 {
			month = n
		}
	}
	s := h.Tracker.State()
	writeJSON(w, http.StatusOK, budget.MonthCalendar(s.Income.Schedule, year, time.Month(month)))
}

// =============================================================================
// CATEGORY COMMANDS
// =============================================================================

// ListCategories returns categories, optionally filtered by a
// case-insensitive name substring.
// GET /api/categories?q=food
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	s := h.Tracker.State()
	matches := s.SearchCategories(r.URL.Query().Get("q"))
	if matches == nil {
		matches = []budget.Category{}
	}
	writeJSON(w, http.StatusOK, matches)
}

// CreateCategory adds a category to a cycle.
// POST /api/categories
func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req CreateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	cat, err := h.Tracker.AddCategory(r.Context(), budget.AddCategoryInput{
		Cycle:   budget.Cycle(req.Cycle),
		Name:    req.Name,
		Planned: req.Planned,
	})
	if errors.Is(err, budget.ErrInvalidCycle) {
		writeError(w, http.StatusBadRequest, "Cycle must be first, second, or bonus", err)
		return
	}
	writeJSON(w, http.StatusCreated, cat)
}

// UpdateCategory merges a partial update into a category. A missing id is a
// silent no-op (still answered 200, matching the domain's leniency).
// PATCH /api/categories/{id}
func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req UpdateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	patch := budget.CategoryPatch{Name: req.Name, Planned: req.Planned}
	if req.Status != nil {
		status := budget.Status(*req.Status)
		patch.Status = &status
	}
	if req.Type != nil {
		ctype := budget.CategoryType(*req.Type)
		patch.Type = &ctype
	}
	if err := h.Tracker.UpdateCategory(r.Context(), id, patch); err != nil {
		writeError(w, http.StatusInternalServerError, "Update failed", err)
		return
	}
	writeJSON(w, http.StatusOK, h.Tracker.State())
}

// ArchiveCategory excludes a category from planned totals without the
// confirmation flow.
// POST /api/categories/{id}/archive
func (h *Handler) ArchiveCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.Tracker.ArchiveCategory(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, http.StatusInternalServerError, "Archive failed", err)
		return
	}
	writeJSON(w, http.StatusOK, h.Tracker.State())
}

// ActivateCategory reverses an archive.
// POST /api/categories/{id}/activate
func (h *Handler) ActivateCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.Tracker.ActivateCategory(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, http.StatusInternalServerError, "Activate failed", err)
		return
	}
	writeJSON(w, http.StatusOK, h.Tracker.State())
}

// RequestDeleteCategory opens the two-step confirmation. State is unchanged.
// POST /api/categories/{id}/delete
func (h *Handler) RequestDeleteCategory(w http.ResponseWriter, r *http.Request) {
	req, err := h.Tracker.RequestDelete(chi.URLParam(r, "id"))
	if errors.Is(err, budget.ErrCategoryNotFound) {
		writeError(w, http.StatusNotFound, "Category not found", err)
		return
	}
	writeJSON(w, http.StatusOK, DeleteRequestDTO{
		CategoryID: req.CategoryID, Name: req.Name, Step: int(req.Step),
	})
}

// ConfirmDeleteCategory advances the pending request; the second confirm
// performs the removal.
// POST /api/categories/{id}/delete/confirm
func (h *Handler) ConfirmDeleteCategory(w http.ResponseWriter, r *http.Request) {
	req, deleted, err := h.Tracker.ConfirmDelete(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, budget.ErrNoPendingDelete) {
		writeError(w, http.StatusConflict, "No pending delete for category", err)
		return
	}
	writeJSON(w, http.StatusOK, DeleteRequestDTO{
		CategoryID: req.CategoryID, Name: req.Name, Step: int(req.Step), Deleted: deleted,
	})
}

// CancelDeleteCategory drops a pending request at either step.
// POST /api/categories/{id}/delete/cancel
func (h *Handler) CancelDeleteCategory(w http.ResponseWriter, r *http.Request) {
	h.Tracker.CancelDelete(chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

// ReorderCategory moves a category within its cycle's drag order.
// POST /api/categories/reorder
func (h *Handler) ReorderCategory(w http.ResponseWriter, r *http.Request) {
	var req ReorderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	cycle := budget.Cycle(req.Cycle)
	if !cycle.Valid() {
		writeError(w, http.StatusBadRequest, "Cycle must be first, second, or bonus", nil)
		return
	}
	if err := h.Tracker.ReorderCategory(r.Context(), cycle, req.MovedID, req.TargetID); err != nil {
		writeError(w, http.StatusInternalServerError, "Reorder failed", err)
		return
	}
	writeJSON(w, http.StatusOK, h.Tracker.State().Order)
}

// BulkCategories applies archive/activate/delete to every token match.
// POST /api/categories/bulk
func (h *Handler) BulkCategories(w http.ResponseWriter, r *http.Request) {
	var req BulkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	tokens := budget.SplitTokens(req.Tokens)
	var err error
	switch req.Action {
	case "archive":
		err = h.Tracker.BulkArchive(r.Context(), tokens)
	case "activate":
		err = h.Tracker.BulkActivate(r.Context(), tokens)
	case "delete":
		err = h.Tracker.BulkDelete(r.Context(), tokens)
	default:
		writeError(w, http.StatusBadRequest, "Action must be archive, activate, or delete", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Bulk operation failed", err)
		return
	}
	writeJSON(w, http.StatusOK, h.Tracker.State())
}

// =============================================================================
// TRANSACTIONS
// =============================================================================

// ListTransactions returns the ledger, newest first.
// GET /api/transactions
func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Tracker.State().Transactions)
}

// CreateTransaction posts actual spend against a category. An unresolvable
// category token rejects the command; nothing is created.
// POST /api/transactions
func (h *Handler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	err := h.Tracker.AddTransaction(r.Context(), budget.AddTransactionInput{
		Date:     req.Date,
		Category: req.Category,
		Amount:   req.Amount,
		Note:     req.Note,
	})
	if errors.Is(err, budget.ErrCategoryNotFound) {
		writeError(w, http.StatusUnprocessableEntity, "Category not found", err)
		return
	}
	writeJSON(w, http.StatusCreated, h.Tracker.State().Transactions)
}

// =============================================================================
// SETTINGS
// =============================================================================

// SaveIncomeSettings replaces schedule, payments, and reserve wholesale.
// PUT /api/settings/income
func (h *Handler) SaveIncomeSettings(w http.ResponseWriter, r *http.Request) {
	var req IncomeSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	err := h.Tracker.SaveIncomeSettings(r.Context(), budget.IncomeSettingsInput{
		FirstDay:       req.FirstPaymentDay,
		SecondDay:      req.SecondPaymentDay,
		FirstAmount:    req.FirstAmount,
		FebFirstAmount: req.FebFirstAmount,
		SecondAmount:   req.SecondAmount,
		BonusMonths:    req.BonusMonths,
		Reserve:        req.EmergencyReserve,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Save failed", err)
		return
	}
	writeJSON(w, http.StatusOK, h.Tracker.State().Income)
}

// SaveBonusAllocations replaces bonus amounts and bucket allocations.
// PUT /api/settings/bonus
func (h *Handler) SaveBonusAllocations(w http.ResponseWriter, r *http.Request) {
	var req BonusAllocationsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	err := h.Tracker.SaveBonusAllocations(r.Context(), budget.BonusAllocationsInput{
		April:       req.April,
		September:   req.September,
		Allocations: req.Allocations,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Save failed", err)
		return
	}
	writeJSON(w, http.StatusOK, budget.BonusAllocation(h.Tracker.State()))
}

// ToggleTheme flips light/dark without recording undo history.
// POST /api/theme/toggle
func (h *Handler) ToggleTheme(w http.ResponseWriter, r *http.Request) {
	h.Tracker.ToggleTheme(r.Context())
	writeJSON(w, http.StatusOK, map[string]string{"theme": h.Tracker.State().Theme})
}

// =============================================================================
// UNDO & CSV INTERCHANGE
// =============================================================================

// Undo restores the most recent snapshot; a no-op with an empty stack.
// POST /api/undo
func (h *Handler) Undo(w http.ResponseWriter, r *http.Request) {
	restored := h.Tracker.Undo(r.Context())
	writeJSON(w, http.StatusOK, UndoResponse{Restored: restored, UndoDepth: h.Tracker.UndoDepth()})
}

// ExportCSV serializes the state in the 9-column interchange format.
// GET /api/export
func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="budget_export.csv"`)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(h.Tracker.ExportCSV()))
}

// ImportCSV merges CSV text from the request body as one undoable mutation.
// POST /api/import
func (h *Handler) ImportCSV(w http.ResponseWriter, r *http.Request) {
	text, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read body", err)
		return
	}
	if err := h.Tracker.ImportCSV(r.Context(), string(text)); err != nil {
		writeError(w, http.StatusInternalServerError, "Import failed", err)
		return
	}
	writeJSON(w, http.StatusOK, h.Tracker.State())
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
