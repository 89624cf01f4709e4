package domain

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultAnnualRatePercent is applied when an investment is created without
// an explicit rate.
var DefaultAnnualRatePercent = decimal.NewFromInt(10)

// Investment represents a recurring contribution plan in the domain layer.
// The authoritative copy lives in the external store; the core only holds
// transient projections of it.
type Investment struct {
	ID                uuid.UUID
	UserID            string
	Name              string
	MonthlyAmount     decimal.Decimal // smallest currency unit
	PeriodYears       int             // contribution + growth horizon
	AnnualRatePercent decimal.Decimal
	StartDate         time.Time
	InvestmentDays    []int // days of month 1-31, empty means "unscheduled"
}

// NewInvestment constructs a validated investment.
// Defaults: rate 10%/year when zero-valued, start date = creation date.
// InvestmentDays are deduplicated and sorted.
func NewInvestment(userID, name string, monthlyAmount decimal.Decimal, periodYears int, annualRatePercent decimal.Decimal, startDate time.Time, investmentDays []int, now time.Time) (*Investment, error) {
	inv := &Investment{
		ID:                uuid.New(),
		UserID:            userID,
		Name:              name,
		MonthlyAmount:     monthlyAmount,
		PeriodYears:       periodYears,
		AnnualRatePercent: annualRatePercent,
		StartDate:         startDate,
		InvestmentDays:    investmentDays,
	}

	if inv.AnnualRatePercent.IsZero() {
		inv.AnnualRatePercent = DefaultAnnualRatePercent
	}
	if inv.StartDate.IsZero() {
		inv.StartDate = now
	}

	if err := inv.Validate(); err != nil {
		return nil, err
	}

	inv.Normalize()

	return inv, nil
}

// Normalize deduplicates and sorts the day-of-month set. Every write path
// must normalize before handing the investment to the expander or the
// store: duplicate days would produce duplicate payment events and inflate
// completion totals, and expansion order relies on the days staying sorted.
func (inv *Investment) Normalize() {
	inv.InvestmentDays = dedupeDays(inv.InvestmentDays)
}

// Validate ensures the investment adheres to domain rules.
// Returns an error if validation fails.
func (inv *Investment) Validate() error {
	if inv.MonthlyAmount.LessThanOrEqual(decimal.Zero) {
		return errors.New("monthly amount must be positive")
	}

	if inv.PeriodYears < 1 {
		return errors.New("period years must be at least 1")
	}

	if inv.AnnualRatePercent.LessThan(decimal.Zero) {
		return errors.New("annual rate percent must not be negative")
	}

	for _, day := range inv.InvestmentDays {
		if day < 1 || day > 31 {
			return fmt.Errorf("investment day %d out of range 1-31", day)
		}
	}

	return nil
}

// MaturityMonths is the month index at which the contribution period ends.
func (inv *Investment) MaturityMonths() int {
	return inv.PeriodYears * 12
}

// MonthlyRate converts the annual percentage rate to a monthly growth rate.
func (inv *Investment) MonthlyRate() decimal.Decimal {
	return inv.AnnualRatePercent.Div(decimal.NewFromInt(100)).Div(decimal.NewFromInt(12))
}

// dedupeDays removes duplicate day values and returns them sorted ascending.
func dedupeDays(days []int) []int {
	seen := make(map[int]bool, len(days))
	out := make([]int, 0, len(days))
	for _, day := range days {
		if !seen[day] {
			seen[day] = true
			out = append(out, day)
		}
	}
	sort.Ints(out)
	return out
}
