/*
state.go - The BudgetState aggregate root

PURPOSE:
  Defines the whole-state value that every mutation consumes and produces.
  State is treated as immutable: mutations clone it, and prior snapshots may
  still be referenced by the undo stack.

KEY CONCEPTS:
  - Order: per-cycle display sequence of category ids (drag order)
  - Audit trails: ArchivedCategoryIDs/DeletedCategoryIDs are informational;
    the Category's own Status field is the single source of truth
  - DefaultState: the documented seed dataset, used when storage is absent
    or unparsable

SEE ALSO:
  - mutate.go: All state transitions
  - store.go: Persistence boundary and default fallback
*/
package budget

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Order maps a cycle to its display/drag sequence of category ids.
// Invariant: no duplicate ids, and hard-deleted ids are pruned at delete time.
type Order map[Cycle][]string

// State is the aggregate root. Categories keep collection (insertion) order:
// the planned-vs-actual series takes the first eight in that order.
type State struct {
	Theme               string          `json:"theme"`
	Currency            string          `json:"currency"`
	Income              Income          `json:"income"`
	EmergencyReserve    decimal.Decimal `json:"emergencyReserve"`
	Categories          []Category      `json:"categories"`
	Transactions        []Transaction   `json:"transactions"` // newest first
	ArchivedCategoryIDs []string        `json:"archivedCategoryIds"`
	DeletedCategoryIDs  []string        `json:"deletedCategoryIds"`
	Order               Order           `json:"order"`
}

// Clone returns a deep-independent copy. decimal.Decimal values are immutable
// and safe to share.
func (s State) Clone() State {
	next := s
	next.Income.Schedule.BonusMonths = append([]int(nil), s.Income.Schedule.BonusMonths...)
	next.Categories = append([]Category(nil), s.Categories...)
	next.Transactions = append([]Transaction(nil), s.Transactions...)
	next.ArchivedCategoryIDs = append([]string(nil), s.ArchivedCategoryIDs...)
	next.DeletedCategoryIDs = append([]string(nil), s.DeletedCategoryIDs...)
	next.Order = make(Order, len(s.Order))
	for cycle, ids := range s.Order {
		next.Order[cycle] = append([]string(nil), ids...)
	}
	return next
}

// CategoryByID finds a category by exact id. Returns nil when absent; callers
// must degrade gracefully (transactions may reference removed categories).
func (s State) CategoryByID(id string) *Category {
	for i := range s.Categories {
		if s.Categories[i].ID == id {
			return &s.Categories[i]
		}
	}
	return nil
}

// ResolveCategory maps a user token to a category: exact id first, then exact
// name, then case-insensitive name. Shared by single and bulk operations so
// matching rules never diverge.
func (s State) ResolveCategory(token string) *Category {
	if c := s.CategoryByID(token); c != nil {
		return c
	}
	for i := range s.Categories {
		if s.Categories[i].Name == token {
			return &s.Categories[i]
		}
	}
	lower := strings.ToLower(token)
	for i := range s.Categories {
		if strings.ToLower(s.Categories[i].Name) == lower {
			return &s.Categories[i]
		}
	}
	return nil
}

// SearchCategories returns categories whose name contains the query,
// case-insensitively. An empty query matches everything.
func (s State) SearchCategories(query string) []Category {
	q := strings.ToLower(query)
	var out []Category
	for _, c := range s.Categories {
		if strings.Contains(strings.ToLower(c.Name), q) {
			out = append(out, c)
		}
	}
	return out
}

// =============================================================================
// DEFAULT DATASET
// =============================================================================

func money(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// DefaultState returns the seed dataset used on first run and whenever the
// persisted state cannot be parsed.
func DefaultState() State {
	return State{
		Theme:    "light",
		Currency: "USD",
		Income: Income{
			Schedule: Schedule{
				FirstPaymentDay:  30,
				SecondPaymentDay: 15,
				BonusMonths:      []int{4, 9}, // April, September
			},
			Payments: Payments{
				First:    money("8125.04"),
				FebFirst: money("7580.04"),
				Second:   money("7580.03"),
			},
			Bonus: Bonus{
				April:     money("8000"),
				September: money("45000"),
			},
		},
		EmergencyReserve: money("100"),
		Categories: []Category{
			// 1st payment
			{ID: "cat_tesla", Name: "Tesla", Cycle: CycleFirst, Planned: money("562.72"), Color: "#4F46E5", Status: StatusActive, Type: TypeFixed},
			{ID: "cat_supercharger", Name: "Tesla SuperCharger", Cycle: CycleFirst, Planned: money("0"), Color: "#0EA5E9", Status: StatusActive, Type: TypeVariable},
			{ID: "cat_att", Name: "AT&T", Cycle: CycleFirst, Planned: money("136"), Color: "#10B981", Status: StatusActive, Type: TypeVariable},
			{ID: "cat_xfinity", Name: "XFinity", Cycle: CycleFirst, Planned: money("136"), Color: "#F59E0B", Status: StatusActive, Type: TypeFixed},
			{ID: "cat_gardener", Name: "Ramiro Jardinero", Cycle: CycleFirst, Planned: money("150"), Color: "#EF4444", Status: StatusActive, Type: TypeVariable},
			{ID: "cat_pool", Name: "Piscinero Wendell", Cycle: CycleFirst, Planned: money("170"), Color: "#A855F7", Status: StatusActive, Type: TypeFixed},
			{ID: "cc_capone_qs", Name: "Capital One QuickSilver", Cycle: CycleFirst, Planned: money("0"), Color: "#14B8A6", Status: StatusActive, Type: TypeDebt},
			{ID: "cc_citi_simp", Name: "Citi Simplicity Personal", Cycle: CycleFirst, Planned: money("0"), Color: "#22C55E", Status: StatusActive, Type: TypeDebt},
			{ID: "cc_citi_plat", Name: "Citi Platinum Preferred", Cycle: CycleFirst, Planned: money("0"), Color: "#8B5CF6", Status: StatusActive, Type: TypeDebt},
			{ID: "cc_chase", Name: "Chase Credit Card", Cycle: CycleFirst, Planned: money("0"), Color: "#6366F1", Status: StatusActive, Type: TypeDebt},
			{ID: "debit_olgana", Name: "Debit to Olgana", Cycle: CycleFirst, Planned: money("300"), Color: "#F97316", Status: StatusActive, Type: TypeFixed},
			// 2nd payment
			{ID: "mass_mutual", Name: "Mass Mutual", Cycle: CycleSecond, Planned: money("264"), Color: "#60A5FA", Status: StatusActive, Type: TypeFixed},
			{ID: "food", Name: "Food", Cycle: CycleSecond, Planned: money("800"), Color: "#34D399", Status: StatusActive, Type: TypeVariable},
			{ID: "geico", Name: "Geico", Cycle: CycleSecond, Planned: money("550"), Color: "#FBBF24", Status: StatusActive, Type: TypeVariable},
			{ID: "mortgage", Name: "Mortgage", Cycle: CycleSecond, Planned: money("3241"), Color: "#F472B6", Status: StatusActive, Type: TypeFixed},
			{ID: "citi_wizeline", Name: "Citi Simplicity (Wizeline)", Cycle: CycleSecond, Planned: money("0"), Color: "#93C5FD", Status: StatusActive, Type: TypeDebt},
			{ID: "claude", Name: "Claude (Anthropic)", Cycle: CycleSecond, Planned: money("20"), Color: "#FDE68A", Status: StatusActive, Type: TypeFixed},
			{ID: "extra_cc", Name: "Additional Credit Card Payments", Cycle: CycleSecond, Planned: money("0"), Color: "#A7F3D0", Status: StatusActive, Type: TypeDebt},
			// Bonus buckets
			{ID: "bonus_home", Name: "Home Improvements", Cycle: CycleBonus, Planned: money("0"), Color: "#7C3AED", Status: StatusActive, Type: TypeBucket},
			{ID: "bonus_family", Name: "Family Support", Cycle: CycleBonus, Planned: money("0"), Color: "#DB2777", Status: StatusActive, Type: TypeBucket},
			{ID: "bonus_business", Name: "Business Investments (Hummus Haven)", Cycle: CycleBonus, Planned: money("0"), Color: "#2563EB", Status: StatusActive, Type: TypeBucket},
			{ID: "bonus_vehicle", Name: "Vehicle Purchases", Cycle: CycleBonus, Planned: money("0"), Color: "#059669", Status: StatusActive, Type: TypeBucket},
			{ID: "bonus_cc", Name: "Credit Card Payoffs", Cycle: CycleBonus, Planned: money("0"), Color: "#DC2626", Status: StatusActive, Type: TypeBucket},
			{ID: "bonus_emergency", Name: "Emergency Fund Transfer", Cycle: CycleBonus, Planned: money("0"), Color: "#1F2937", Status: StatusActive, Type: TypeBucket},
		},
		Transactions:        []Transaction{},
		ArchivedCategoryIDs: []string{},
		DeletedCategoryIDs:  []string{},
		Order: Order{
			CycleFirst:  {"cat_tesla", "cat_supercharger", "cat_att", "cat_xfinity", "cat_gardener", "cat_pool", "cc_capone_qs", "cc_citi_simp", "cc_citi_plat", "cc_chase", "debit_olgana"},
			CycleSecond: {"mass_mutual", "food", "geico", "mortgage", "citi_wizeline", "claude", "extra_cc"},
			CycleBonus:  {"bonus_home", "bonus_family", "bonus_business", "bonus_vehicle", "bonus_cc", "bonus_emergency"},
		},
	}
}
