/*
schedule.go - Payment calendar computation

PAYMENT TIMING:
  The first payment lands on the LAST calendar day of the month; the stored
  firstPaymentDay setting is display configuration and is never consulted
  here. The second payment is always on the 15th. Bonus months flag both
  payment days as a bonus window.
*/
package budget

import "time"

const secondPaymentDayOfMonth = 15

// FirstPaymentDate is the last day of the given month.
func FirstPaymentDate(year int, month time.Month) time.Time {
	return time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
}

// SecondPaymentDate is always the 15th.
func SecondPaymentDate(year int, month time.Month) time.Time {
	return time.Date(year, month, secondPaymentDayOfMonth, 0, 0, 0, 0, time.UTC)
}

// IsBonusMonth reports whether the month appears in the configured bonus
// months (1-based).
func (sc Schedule) IsBonusMonth(month time.Month) bool {
	for _, m := range sc.BonusMonths {
		if m == int(month) {
			return true
		}
	}
	return false
}

// CalendarDay is one cell of the six-week month grid.
type CalendarDay struct {
	Date          time.Time `json:"date"`
	InMonth       bool      `json:"inMonth"`
	FirstPayment  bool      `json:"firstPayment"`
	SecondPayment bool      `json:"secondPayment"`
	BonusWindow   bool      `json:"bonusWindow"`
}

// MonthCalendar builds a 42-day grid starting the Sunday on or before the
// first of the month. Payment markers apply only to in-month cells.
func MonthCalendar(sc Schedule, year int, month time.Month) []CalendarDay {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	start := first.AddDate(0, 0, -int(first.Weekday()))
	payFirst := FirstPaymentDate(year, month).Day()
	bonus := sc.IsBonusMonth(month)

	days := make([]CalendarDay, 0, 42)
	for i := 0; i < 42; i++ {
		d := start.AddDate(0, 0, i)
		inMonth := d.Month() == month
		isFirst := inMonth && d.Day() == payFirst
		isSecond := inMonth && d.Day() == secondPaymentDayOfMonth
		days = append(days, CalendarDay{
			Date:          d,
			InMonth:       inMonth,
			FirstPayment:  isFirst,
			SecondPayment: isSecond,
			BonusWindow:   bonus && (isFirst || isSecond),
		})
	}
	return days
}
