/*
handlers_test.go - HTTP surface tests against the in-memory store

Each test spins up the full chi router around a fresh tracker so route
wiring, status codes, and JSON shapes are exercised together.
*/
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/budget-engine/budget"
	"github.com/warp/budget-engine/budget/store"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	tracker := budget.NewTracker(context.Background(), store.NewMemory(), zerolog.Nop())
	srv := httptest.NewServer(NewRouter(NewHandler(tracker), zerolog.Nop()))
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// =============================================================================
// STATE & OVERVIEW
// =============================================================================

func TestGetState_ReturnsDefaultDataset(t *testing.T) {
	srv := newTestServer(t)
	resp := doJSON(t, http.MethodGet, srv.URL+"/api/state", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	state := decode[budget.State](t, resp)
	assert.Equal(t, "light", state.Theme)
	assert.Len(t, state.Categories, 24)
}

func TestGetOverview_ShapeAndReserveLevel(t *testing.T) {
	srv := newTestServer(t)
	resp := doJSON(t, http.MethodGet, srv.URL+"/api/overview", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	overview := decode[OverviewDTO](t, resp)
	assert.Equal(t, "USD", overview.Currency)
	assert.Equal(t, 0, overview.UndoDepth)
	assert.NotEmpty(t, overview.First.Categories)
	assert.NotEmpty(t, overview.Second.Categories)
	assert.Contains(t, []budget.ReserveLevel{
		budget.ReserveOK, budget.ReserveWarning, budget.ReserveAlert,
	}, overview.First.ReserveLevel)
}

// =============================================================================
// CATEGORIES
// =============================================================================

func TestCreateCategory_InvalidCycleRejected(t *testing.T) {
	srv := newTestServer(t)
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/categories", CreateCategoryRequest{
		Cycle: "weekly", Name: "Nope",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCreateCategory_ThenListAndSearch(t *testing.T) {
	srv := newTestServer(t)
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/categories", CreateCategoryRequest{
		Cycle: "first", Name: "Water Utility", Planned: "85",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[budget.Category](t, resp)
	assert.Equal(t, budget.StatusActive, created.Status)

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/categories?q=water", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	matches := decode[[]budget.Category](t, resp)
	require.Len(t, matches, 1)
	assert.Equal(t, created.ID, matches[0].ID)
}

func TestUpdateCategory_PartialPatch(t *testing.T) {
	srv := newTestServer(t)
	planned := "900"
	resp := doJSON(t, http.MethodPatch, srv.URL+"/api/categories/food", UpdateCategoryRequest{
		Planned: &planned,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	state := decode[budget.State](t, resp)
	assert.Equal(t, "900", state.CategoryByID("food").Planned.String())
	assert.Equal(t, "Food", state.CategoryByID("food").Name)
}

func TestDeleteCategory_FullConfirmationFlow(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/categories/food/delete", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	req := decode[DeleteRequestDTO](t, resp)
	assert.Equal(t, "Food", req.Name)
	assert.Equal(t, 1, req.Step)
	assert.False(t, req.Deleted)

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/categories/food/delete/confirm", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	req = decode[DeleteRequestDTO](t, resp)
	assert.Equal(t, 2, req.Step)
	assert.False(t, req.Deleted)

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/categories/food/delete/confirm", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	req = decode[DeleteRequestDTO](t, resp)
	assert.True(t, req.Deleted)

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/state", nil)
	state := decode[budget.State](t, resp)
	assert.Nil(t, state.CategoryByID("food"))
	assert.Contains(t, state.DeletedCategoryIDs, "food")
}

func TestDeleteCategory_ConfirmWithoutRequestConflicts(t *testing.T) {
	srv := newTestServer(t)
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/categories/food/delete/confirm", nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestDeleteCategory_UnknownIDNotFound(t *testing.T) {
	srv := newTestServer(t)
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/categories/ghost/delete", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDeleteCategory_CancelReturnsNoContent(t *testing.T) {
	srv := newTestServer(t)
	doJSON(t, http.MethodPost, srv.URL+"/api/categories/food/delete", nil)
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/categories/food/delete/cancel", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestReorderCategory_MovesWithinCycle(t *testing.T) {
	srv := newTestServer(t)
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/categories/reorder", ReorderRequest{
		Cycle: "second", MovedID: "food", TargetID: "mass_mutual",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	order := decode[budget.Order](t, resp)
	assert.Equal(t, "food", order[budget.CycleSecond][0])
	assert.Equal(t, "mass_mutual", order[budget.CycleSecond][1])
}

func TestBulkCategories_ArchiveByNames(t *testing.T) {
	srv := newTestServer(t)
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/categories/bulk", BulkRequest{
		Action: "archive", Tokens: "food, geico",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	state := decode[budget.State](t, resp)
	assert.Equal(t, budget.StatusArchived, state.CategoryByID("food").Status)
	assert.Equal(t, budget.StatusArchived, state.CategoryByID("geico").Status)
}

func TestBulkCategories_UnknownActionRejected(t *testing.T) {
	srv := newTestServer(t)
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/categories/bulk", BulkRequest{
		Action: "explode", Tokens: "food",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// =============================================================================
// TRANSACTIONS
// =============================================================================

func TestCreateTransaction_UnknownCategoryUnprocessable(t *testing.T) {
	srv := newTestServer(t)
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/transactions", CreateTransactionRequest{
		Date: "2026-08-20", Category: "no such category", Amount: "10",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestCreateTransaction_ResolvesByName(t *testing.T) {
	srv := newTestServer(t)
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/transactions", CreateTransactionRequest{
		Date: "2026-08-20", Category: "food", Amount: "42.10", Note: "groceries",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	txs := decode[[]budget.Transaction](t, resp)
	require.Len(t, txs, 1)
	assert.Equal(t, "food", txs[0].CategoryID)
}

// =============================================================================
// SETTINGS & THEME
// =============================================================================

func TestSaveIncomeSettings_ClampsReserve(t *testing.T) {
	srv := newTestServer(t)
	resp := doJSON(t, http.MethodPut, srv.URL+"/api/settings/income", IncomeSettingsRequest{
		FirstPaymentDay:  "30",
		SecondPaymentDay: "15",
		FirstAmount:      "9000",
		FebFirstAmount:   "8500",
		SecondAmount:     "9100",
		BonusMonths:      "4, 9",
		EmergencyReserve: "10",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/state", nil)
	state := decode[budget.State](t, resp)
	assert.Equal(t, "100", state.EmergencyReserve.String())
}

func TestSaveBonusAllocations_ReturnsSummary(t *testing.T) {
	srv := newTestServer(t)
	resp := doJSON(t, http.MethodPut, srv.URL+"/api/settings/bonus", BonusAllocationsRequest{
		April:       "8000",
		September:   "45000",
		Allocations: map[string]string{"bonus_home": "60000"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	summary := decode[budget.BonusSummary](t, resp)
	assert.Equal(t, "53000", summary.Pool.String())
	assert.True(t, summary.OverAllocated)
}

func TestToggleTheme_NoUndoEntry(t *testing.T) {
	srv := newTestServer(t)
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/theme/toggle", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[map[string]string](t, resp)
	assert.Equal(t, "dark", body["theme"])

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/undo", nil)
	undo := decode[UndoResponse](t, resp)
	assert.False(t, undo.Restored)
	assert.Equal(t, 0, undo.UndoDepth)
}

// =============================================================================
// UNDO & CSV
// =============================================================================

func TestUndo_RestoresPriorState(t *testing.T) {
	srv := newTestServer(t)
	doJSON(t, http.MethodPost, srv.URL+"/api/categories/food/archive", nil)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/undo", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	undo := decode[UndoResponse](t, resp)
	assert.True(t, undo.Restored)
	assert.Equal(t, 0, undo.UndoDepth)

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/state", nil)
	state := decode[budget.State](t, resp)
	assert.Equal(t, budget.StatusActive, state.CategoryByID("food").Status)
}

func TestExportCSV_HeadersAndContent(t *testing.T) {
	srv := newTestServer(t)
	resp := doJSON(t, http.MethodGet, srv.URL+"/api/export", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "budget_export.csv")

	var body bytes.Buffer
	_, err := body.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(body.String(), "TYPE,ID,DATE,NAME,CYCLE,PLANNED,STATUS,AMOUNT,NOTE"))
}

func TestImportCSV_RoundTripThroughAPI(t *testing.T) {
	srv := newTestServer(t)
	csv := "TYPE,ID,DATE,NAME,CYCLE,PLANNED,STATUS,AMOUNT,NOTE\n" +
		`CATEGORY,hoa,,"HOA Dues",first,320,active,,`

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/import", strings.NewReader(csv))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "text/csv")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	state := decode[budget.State](t, resp)
	require.NotNil(t, state.CategoryByID("hoa"))
	assert.Equal(t, "HOA Dues", state.CategoryByID("hoa").Name)
}
