/*
derive.go - Pure derived-state computation

PURPOSE:
  Everything the display layer reads is recomputed from the current state on
  every call; no derived value is cached or persisted. Archived categories
  stay visible but contribute zero to planned totals; removed categories
  contribute nothing anywhere.

KEY RULES:
  - Planned totals sum only status == active
  - February overrides the first payment amount (never the second)
  - Reserve slack <= 0 is an Alert, 0 < slack <= 500 a Warning
  - Actual spend aggregates absolute values of signed amounts
*/
package budget

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// CYCLE PARTITIONS & PLANNED TOTALS
// =============================================================================

// CategoriesByCycle partitions non-removed categories by cycle, in collection
// order. Soft-deleted categories are excluded from display.
func CategoriesByCycle(s State) map[Cycle][]Category {
	out := make(map[Cycle][]Category, len(Cycles))
	for _, c := range s.Categories {
		if c.Status == StatusDeleted {
			continue
		}
		out[c.Cycle] = append(out[c.Cycle], c)
	}
	return out
}

// OrderedCategories returns a cycle's non-removed categories in drag order.
// Categories missing from the order sequence are appended at the end so a
// transiently inconsistent order never hides a category.
func OrderedCategories(s State, cycle Cycle) []Category {
	seen := make(map[string]bool)
	var out []Category
	for _, id := range s.Order[cycle] {
		if c := s.CategoryByID(id); c != nil && c.Status != StatusDeleted {
			out = append(out, *c)
			seen[id] = true
		}
	}
	for _, c := range s.Categories {
		if c.Cycle == cycle && c.Status != StatusDeleted && !seen[c.ID] {
			out = append(out, c)
		}
	}
	return out
}

// PlannedTotal sums planned over exactly the active categories in the cycle.
func PlannedTotal(s State, cycle Cycle) decimal.Decimal {
	total := decimal.Zero
	for _, c := range s.Categories {
		if c.Cycle == cycle && c.Status == StatusActive {
			total = total.Add(c.Planned)
		}
	}
	return total
}

// =============================================================================
// INCOME, REMAINING, RESERVE CLASSIFICATION
// =============================================================================

// PeriodIncome holds the income amounts for the current calendar month.
type PeriodIncome struct {
	First  decimal.Decimal
	Second decimal.Decimal
}

// IncomeForMonth applies the February override: in February the first payment
// is payments.febFirst; the second payment never varies by month.
func IncomeForMonth(s State, month time.Month) PeriodIncome {
	first := s.Income.Payments.First
	if month == time.February {
		first = s.Income.Payments.FebFirst
	}
	return PeriodIncome{First: first, Second: s.Income.Payments.Second}
}

// Remaining is income minus planned for one cycle. May be negative.
func Remaining(s State, cycle Cycle, month time.Month) decimal.Decimal {
	income := IncomeForMonth(s, month)
	switch cycle {
	case CycleFirst:
		return income.First.Sub(PlannedTotal(s, CycleFirst))
	case CycleSecond:
		return income.Second.Sub(PlannedTotal(s, CycleSecond))
	default:
		return decimal.Zero
	}
}

// ReserveLevel classifies how close remaining cash is to the emergency
// reserve.
type ReserveLevel string

const (
	ReserveOK      ReserveLevel = "ok"
	ReserveWarning ReserveLevel = "warning" // within $500 of the reserve
	ReserveAlert   ReserveLevel = "alert"   // reserve reached
)

// reserveWarningBand is fixed policy, not configurable.
var reserveWarningBand = decimal.NewFromInt(500)

// ClassifyReserve is a pure function of (remaining, reserve):
// slack <= 0 is an Alert, 0 < slack <= 500 a Warning, otherwise OK.
func ClassifyReserve(remaining, reserve decimal.Decimal) ReserveLevel {
	slack := remaining.Sub(reserve)
	switch {
	case slack.LessThanOrEqual(decimal.Zero):
		return ReserveAlert
	case slack.LessThanOrEqual(reserveWarningBand):
		return ReserveWarning
	default:
		return ReserveOK
	}
}

var one = decimal.NewFromInt(1)

// ProgressPercent is planned/max(1,income)*100 clamped to [0,100]. The
// max(1, income) guards division when income is zero.
func ProgressPercent(planned, income decimal.Decimal) float64 {
	divisor := income
	if divisor.LessThan(one) {
		divisor = one
	}
	pct, _ := planned.Div(divisor).Mul(decimal.NewFromInt(100)).Float64()
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// =============================================================================
// ACTUAL SPENDING SERIES
// =============================================================================

// spendingTopN and plannedVsActualN cap the chart series.
const (
	spendingTopN     = 10
	plannedVsActualN = 8
)

// CategorySpend is one slice of the actual-spending summary.
type CategorySpend struct {
	CategoryID string          `json:"categoryId"`
	Name       string          `json:"name"`
	Color      string          `json:"color"`
	Amount     decimal.Decimal `json:"amount"`
}

// SpendingByCategory sums transaction amounts per category (absolute value of
// the signed sum), restricted to non-removed categories, sorted descending by
// magnitude, capped to the top ten. Spend against a removed category drops
// out of this summary while the transactions themselves remain.
func SpendingByCategory(s State) []CategorySpend {
	sums := make(map[string]decimal.Decimal)
	for _, t := range s.Transactions {
		sums[t.CategoryID] = sums[t.CategoryID].Add(t.Amount)
	}
	var out []CategorySpend
	for _, c := range s.Categories {
		if c.Status == StatusDeleted {
			continue
		}
		amount := sums[c.ID].Abs()
		if amount.IsZero() {
			continue
		}
		out = append(out, CategorySpend{CategoryID: c.ID, Name: c.Name, Color: c.Color, Amount: amount})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Amount.GreaterThan(out[j].Amount)
	})
	if len(out) > spendingTopN {
		out = out[:spendingTopN]
	}
	return out
}

// PlannedActual pairs a category's planned amount with its summed actual
// spend.
type PlannedActual struct {
	Name    string          `json:"name"`
	Planned decimal.Decimal `json:"planned"`
	Actual  decimal.Decimal `json:"actual"`
}

// PlannedVsActual builds the comparison series for the first eight
// non-removed categories in collection order (not cycle order).
func PlannedVsActual(s State) []PlannedActual {
	sums := make(map[string]decimal.Decimal)
	for _, t := range s.Transactions {
		sums[t.CategoryID] = sums[t.CategoryID].Add(t.Amount)
	}
	var out []PlannedActual
	for _, c := range s.Categories {
		if c.Status == StatusDeleted {
			continue
		}
		out = append(out, PlannedActual{Name: c.Name, Planned: c.Planned, Actual: sums[c.ID].Abs()})
		if len(out) == plannedVsActualN {
			break
		}
	}
	return out
}

// =============================================================================
// BONUS SUMMARY
// =============================================================================

// BonusSummary reports the bonus pool against what the buckets have claimed.
type BonusSummary struct {
	Pool          decimal.Decimal `json:"pool"` // april + september
	Allocated     decimal.Decimal `json:"allocated"`
	OverAllocated bool            `json:"overAllocated"`
}

// BonusAllocation sums planned over non-removed bonus categories and flags
// over-allocation against the combined pool.
func BonusAllocation(s State) BonusSummary {
	pool := s.Income.Bonus.April.Add(s.Income.Bonus.September)
	allocated := decimal.Zero
	for _, c := range s.Categories {
		if c.Cycle == CycleBonus && c.Status != StatusDeleted {
			allocated = allocated.Add(c.Planned)
		}
	}
	return BonusSummary{Pool: pool, Allocated: allocated, OverAllocated: allocated.GreaterThan(pool)}
}
