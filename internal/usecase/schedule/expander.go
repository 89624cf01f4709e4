package schedule

import (
	"fmt"
	"time"

	"github.com/moneyseed/moneyseed-backend/internal/domain"
)

// ExpandMonth turns an investment's day-of-month rule into the concrete
// payment events for one calendar month.
//
// Logic:
//   - Each configured day produces exactly one event in the target month
//   - Days beyond the month's day-count are dropped, NOT rolled to month-end
//     (day 31 in a 30-day month produces nothing)
//   - An empty day set produces zero events ("unscheduled" investment)
//
// Events come back ordered by day because InvestmentDays is kept sorted.
func ExpandMonth(inv *domain.Investment, year, month int) ([]domain.PaymentEvent, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("month %d out of range 1-12", month)
	}

	daysInMonth := daysIn(year, month)

	events := make([]domain.PaymentEvent, 0, len(inv.InvestmentDays))
	for _, day := range inv.InvestmentDays {
		if day > daysInMonth {
			continue
		}
		events = append(events, domain.PaymentEvent{
			InvestmentID: inv.ID,
			Year:         year,
			Month:        month,
			Day:          day,
		})
	}

	return events, nil
}

// ExpandMonthAll expands every investment for the target month and groups
// the resulting events by day of month.
func ExpandMonthAll(investments []*domain.Investment, year, month int) (map[int][]domain.PaymentEvent, error) {
	byDay := make(map[int][]domain.PaymentEvent)
	for _, inv := range investments {
		events, err := ExpandMonth(inv, year, month)
		if err != nil {
			return nil, err
		}
		for _, e := range events {
			byDay[e.Day] = append(byDay[e.Day], e)
		}
	}
	return byDay, nil
}

// daysIn returns the day-count of (year, month).
// Day 0 of the next month normalizes to the last day of this one.
func daysIn(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
