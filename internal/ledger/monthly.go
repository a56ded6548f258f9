package ledger

import (
	"time"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/shopspring/decimal"
)

// MonthTotal is one calendar month of a user's personal spending.
type MonthTotal struct {
	// Month is the start of the month in epoch milliseconds.
	Month int64           `json:"month"`
	Total decimal.Decimal `json:"total"`
}

// YearBounds returns [start, end) of year in epoch milliseconds.
func YearBounds(year int, loc *time.Location) (start, end int64) {
	return time.Date(year, time.January, 1, 0, 0, 0, 0, loc).UnixMilli(),
		time.Date(year+1, time.January, 1, 0, 0, 0, 0, loc).UnixMilli()
}

// MonthlySpending buckets vp's own share of every expense dated within year
// into calendar months. Only the split owed by vp counts: money vp advanced
// for others is not spending. The result always has twelve entries,
// January first.
func MonthlySpending(vp Viewpoint, year int, loc *time.Location, expenses []models.Expense) []MonthTotal {
	if loc == nil {
		loc = time.UTC
	}
	months := make([]MonthTotal, 12)
	for i := range months {
		months[i] = MonthTotal{
			Month: time.Date(year, time.Month(i+1), 1, 0, 0, 0, 0, loc).UnixMilli(),
			Total: decimal.Zero,
		}
	}
	forEachShare(vp, year, loc, expenses, func(at time.Time, share decimal.Decimal) {
		m := int(at.Month()) - 1
		months[m].Total = months[m].Total.Add(share)
	})
	return months
}

// TotalSpent is the sum of vp's own shares across year.
// It always equals the sum of MonthlySpending for the same year.
func TotalSpent(vp Viewpoint, year int, loc *time.Location, expenses []models.Expense) decimal.Decimal {
	if loc == nil {
		loc = time.UTC
	}
	total := decimal.Zero
	forEachShare(vp, year, loc, expenses, func(_ time.Time, share decimal.Decimal) {
		total = total.Add(share)
	})
	return total
}

func forEachShare(vp Viewpoint, year int, loc *time.Location, expenses []models.Expense, fn func(time.Time, decimal.Decimal)) {
	start, end := YearBounds(year, loc)
	for i := range expenses {
		e := &expenses[i]
		if e.Date < start || e.Date >= end {
			continue
		}
		share, ok := e.SplitFor(vp.UserID)
		if !ok {
			continue
		}
		fn(time.UnixMilli(e.Date).In(loc), share.Amount)
	}
}
