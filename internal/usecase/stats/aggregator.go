package stats

import (
	"errors"
	"math"
	"time"

	"github.com/moneyseed/moneyseed-backend/internal/domain"
	"github.com/moneyseed/moneyseed-backend/internal/usecase/schedule"
)

// MonthlyRate is one calendar month of completion statistics.
type MonthlyRate struct {
	MonthLabel string // "YYYY-MM"
	Rate       int    // 0-100, rounded to nearest percent
	Completed  int
	Total      int
}

// Summary is the completion-rate rollup for a window of months.
type Summary struct {
	Months      []MonthlyRate
	OverallRate int // 0 when no events exist in the window, never NaN
	Completed   int
	Total       int
}

// TrailingWindow aggregates completion rates for the last `months` calendar
// months, ending with the month containing `today`.
func TrailingWindow(investments []*domain.Investment, checker schedule.CompletionChecker, months int, today time.Time) (*Summary, error) {
	if months < 1 {
		return nil, errors.New("window must cover at least 1 month")
	}

	end := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	start := end.AddDate(0, -(months - 1), 0)

	return aggregate(investments, checker, start, end)
}

// DateRange aggregates completion rates for every calendar month touched by
// the [from, to] range.
func DateRange(investments []*domain.Investment, checker schedule.CompletionChecker, from, to time.Time) (*Summary, error) {
	if to.Before(from) {
		return nil, errors.New("range end must not precede range start")
	}

	start := time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(to.Year(), to.Month(), 1, 0, 0, 0, 0, time.UTC)

	return aggregate(investments, checker, start, end)
}

// aggregate walks the months from start to end inclusive and counts, per
// month, how many scheduled events exist and how many are marked complete.
// Past months are NOT re-evaluated as "missed" here — the aggregator only
// distinguishes done from not-done; the missed/past distinction belongs to
// the calendar classifier.
func aggregate(investments []*domain.Investment, checker schedule.CompletionChecker, start, end time.Time) (*Summary, error) {
	summary := &Summary{Months: make([]MonthlyRate, 0, 12)}

	for cursor := start; !cursor.After(end); cursor = cursor.AddDate(0, 1, 0) {
		year, month := cursor.Year(), int(cursor.Month())

		total := 0
		completed := 0
		for _, inv := range investments {
			events, err := schedule.ExpandMonth(inv, year, month)
			if err != nil {
				return nil, err
			}
			total += len(events)
			for _, e := range events {
				if checker.IsCompleted(e.InvestmentID, e.ISODate()) {
					completed++
				}
			}
		}

		summary.Months = append(summary.Months, MonthlyRate{
			MonthLabel: cursor.Format("2006-01"),
			Rate:       roundedRate(completed, total),
			Completed:  completed,
			Total:      total,
		})
		summary.Completed += completed
		summary.Total += total
	}

	summary.OverallRate = roundedRate(summary.Completed, summary.Total)

	return summary, nil
}

// roundedRate returns completed/total as a whole percentage.
// A zero total yields 0 by contract, never NaN or an error.
func roundedRate(completed, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}
