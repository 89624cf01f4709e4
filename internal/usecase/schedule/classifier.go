package schedule

import (
	"time"

	"github.com/google/uuid"
	"github.com/moneyseed/moneyseed-backend/internal/domain"
)

// CompletionChecker answers whether one scheduled payment has been fulfilled.
// The ledger usecase satisfies this interface.
type CompletionChecker interface {
	IsCompleted(investmentID uuid.UUID, isoDate string) bool
}

// ClassifyDay labels one calendar day from its scheduled events and the
// completion state.
//
// Rules:
//   - no events               -> NONE
//   - all events completed    -> COMPLETED (unanimity across investments;
//     a day with a mix of completed and incomplete events is never completed)
//   - otherwise, day < today  -> MISSED
//   - otherwise               -> SCHEDULED (today counts as scheduled)
//
// Comparison is by calendar date, independent of time-of-day.
func ClassifyDay(day time.Time, events []domain.PaymentEvent, checker CompletionChecker, today time.Time) domain.DayStatus {
	if len(events) == 0 {
		return domain.DayStatusNone
	}

	allCompleted := true
	for _, e := range events {
		if !checker.IsCompleted(e.InvestmentID, e.ISODate()) {
			allCompleted = false
			break
		}
	}
	if allCompleted {
		return domain.DayStatusCompleted
	}

	if truncateToDate(day).Before(truncateToDate(today)) {
		return domain.DayStatusMissed
	}

	return domain.DayStatusScheduled
}

// ClassifyMonth expands all investments for the month and labels every day.
// Days without events are omitted from the result map.
func ClassifyMonth(investments []*domain.Investment, year, month int, checker CompletionChecker, today time.Time) (map[int]domain.DayStatus, error) {
	byDay, err := ExpandMonthAll(investments, year, month)
	if err != nil {
		return nil, err
	}

	statuses := make(map[int]domain.DayStatus, len(byDay))
	for day, events := range byDay {
		date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
		statuses[day] = ClassifyDay(date, events, checker, today)
	}

	return statuses, nil
}

// truncateToDate drops the time-of-day so two instants compare by calendar
// date only.
func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
