/*
Package budget provides the core household budget engine.

PURPOSE:
  This package contains the domain model and algorithms for a single-user
  budget tracker: per-category planned amounts grouped by payment cycle,
  an append-only transaction ledger, derived planned-vs-actual totals,
  reserve-threshold warnings, and a bounded undo history built on
  whole-state snapshots.

KEY CONCEPTS IN THIS FILE (types.go):
  - Cycle: Which recurring income event a budget line belongs to
  - Category: A budget line with a planned amount and a lifecycle status
  - Transaction: An immutable ledger entry posted against a category
  - Income: Payment schedule, payment amounts, and bonus configuration

DESIGN PRINCIPLES:
  1. Immutability: Mutations never modify a state in place; they return a
     new snapshot (prior snapshots live on the undo stack)
  2. Precision: Uses decimal.Decimal to avoid floating-point errors
  3. Leniency: Non-numeric user input fails closed to zero, never to an error
  4. Weak references: Transactions outlive their category; lookups degrade
     to blank fields instead of failing

SEE ALSO:
  - state.go: The State aggregate and the default dataset
  - mutate.go: State-transition functions
  - derive.go: Pure derived-state computation
  - history.go: Bounded undo stack
*/
package budget

import (
	"math/rand"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// CYCLE - Recurring income grouping
// =============================================================================

type Cycle string

const (
	CycleFirst  Cycle = "first"
	CycleSecond Cycle = "second"
	CycleBonus  Cycle = "bonus"
)

// Cycles lists every cycle in display order.
var Cycles = []Cycle{CycleFirst, CycleSecond, CycleBonus}

func (c Cycle) Valid() bool {
	return c == CycleFirst || c == CycleSecond || c == CycleBonus
}

// =============================================================================
// CATEGORY - A budget line within a cycle
// =============================================================================

type Status string

const (
	StatusActive   Status = "active"
	StatusArchived Status = "archived"
	StatusDeleted  Status = "deleted"
)

type CategoryType string

const (
	TypeFixed    CategoryType = "fixed"
	TypeVariable CategoryType = "variable"
	TypeDebt     CategoryType = "debt"
	TypeBucket   CategoryType = "bucket"
)

// Category is a budget line. Cycle never changes after creation; only active
// categories count toward planned totals. Type and Color are informational.
type Category struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Cycle   Cycle           `json:"cycle"`
	Planned decimal.Decimal `json:"planned"`
	Color   string          `json:"color"`
	Status  Status          `json:"status"`
	Type    CategoryType    `json:"type"`
}

// =============================================================================
// TRANSACTION - Immutable ledger entry
// =============================================================================

// Transaction records actual spend against a category. CategoryID is a weak
// reference: the category may be removed later and the transaction persists.
// Negative amounts represent refunds/credits; aggregation uses absolute value.
type Transaction struct {
	ID         string          `json:"id"`
	Date       string          `json:"date"` // ISO date string, user-entered, not validated
	CategoryID string          `json:"categoryId"`
	Amount     decimal.Decimal `json:"amount"`
	Note       string          `json:"note"`
}

// =============================================================================
// INCOME - Schedule, payment amounts, bonus configuration
// =============================================================================

type Income struct {
	Schedule Schedule `json:"schedule"`
	Payments Payments `json:"payments"`
	Bonus    Bonus    `json:"bonus"`
}

// Schedule holds day-of-month settings. These are display configuration only:
// the first payment lands on the last day of the month and the second on the
// 15th regardless of the stored values (see schedule.go).
type Schedule struct {
	FirstPaymentDay  int   `json:"firstPaymentDay"`
	SecondPaymentDay int   `json:"secondPaymentDay"`
	BonusMonths      []int `json:"bonusMonths"` // 1-based month numbers
}

// Payments holds per-cycle income amounts. FebFirst overrides First when the
// current month is February; the second payment has no override.
type Payments struct {
	First    decimal.Decimal `json:"first"`
	FebFirst decimal.Decimal `json:"febFirst"`
	Second   decimal.Decimal `json:"second"`
}

type Bonus struct {
	April     decimal.Decimal `json:"april"`
	September decimal.Decimal `json:"september"`
}

// =============================================================================
// LENIENT PARSING
// =============================================================================

// ParseAmount converts user input to a decimal. Parse failure yields zero,
// never an error: non-numeric input silently coerces rather than blocking
// the mutation.
func ParseAmount(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ParseDay converts a day-of-month input to an int, failing closed to zero.
func ParseDay(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

// =============================================================================
// IDENTIFIERS & COLORS
// =============================================================================

func NewCategoryID() string    { return "cat_" + shortID() }
func NewTransactionID() string { return "tx_" + shortID() }

func shortID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// palette of hues used for generated category colors.
var colorHues = []int{220, 200, 180, 160, 140, 280, 260, 20, 40, 0, 320}

// RandomColor picks a display color token for a new category. Cosmetic only.
func RandomColor() string {
	h := colorHues[rand.Intn(len(colorHues))]
	return "hsl(" + strconv.Itoa(h) + " 70% 55%)"
}
