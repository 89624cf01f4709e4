package projection

import (
	"github.com/shopspring/decimal"

	"github.com/moneyseed/moneyseed-backend/internal/domain"
)

// Simulate projects the portfolio month by month for selectedYears years.
//
// Per investment, while month <= maturityMonths (periodYears * 12):
//
//	balance   = balance * (1 + monthlyRate) + monthlyAmount
//	principal = monthlyAmount * month
//
// Interest is applied before the new contribution lands (ordinary annuity,
// not annuity-due). After maturity the plan converts to idle cash: principal
// freezes at monthlyAmount * maturityMonths and the balance is held flat,
// earning no further interest.
//
// Portfolio principal/totalAsset sum the per-investment values; profit is
// their difference. The first month (after month 1) where totalAsset exceeds
// principal carries the break-even flag; the flag is set at most once even
// if the series later dips back below principal and recrosses.
//
// An empty investment set or a zero total contribution yields an empty
// series, not a series of zeros — callers must treat empty specially.
//
// Inputs are assumed pre-validated (positive amounts, periodYears >= 1);
// cost is O(months * investments), so callers cap selectedYears.
func Simulate(investments []*domain.Investment, selectedYears int) []domain.GrowthPoint {
	if len(investments) == 0 {
		return []domain.GrowthPoint{}
	}

	totalContribution := decimal.Zero
	for _, inv := range investments {
		totalContribution = totalContribution.Add(inv.MonthlyAmount)
	}
	if totalContribution.IsZero() {
		return []domain.GrowthPoint{}
	}

	one := decimal.NewFromInt(1)
	growthFactors := make([]decimal.Decimal, len(investments))
	balances := make([]decimal.Decimal, len(investments))
	for i, inv := range investments {
		growthFactors[i] = one.Add(inv.MonthlyRate())
		balances[i] = decimal.Zero
	}

	totalMonths := selectedYears * 12
	series := make([]domain.GrowthPoint, 0, totalMonths)
	breakEvenFound := false

	for month := 1; month <= totalMonths; month++ {
		principal := decimal.Zero
		totalAsset := decimal.Zero

		for i, inv := range investments {
			maturity := inv.MaturityMonths()
			if month <= maturity {
				balances[i] = balances[i].Mul(growthFactors[i]).Add(inv.MonthlyAmount)
				principal = principal.Add(inv.MonthlyAmount.Mul(decimal.NewFromInt(int64(month))))
			} else {
				principal = principal.Add(inv.MonthlyAmount.Mul(decimal.NewFromInt(int64(maturity))))
			}
			totalAsset = totalAsset.Add(balances[i])
		}

		point := domain.GrowthPoint{
			Month:      month,
			Principal:  principal,
			TotalAsset: totalAsset,
			Profit:     totalAsset.Sub(principal),
		}

		if !breakEvenFound && month > 1 && totalAsset.GreaterThan(principal) {
			point.BreakEven = true
			breakEvenFound = true
		}

		series = append(series, point)
	}

	return series
}

// BreakEvenMonth returns the flagged month of the series, 0 when the
// portfolio never breaks even within the simulated horizon.
func BreakEvenMonth(series []domain.GrowthPoint) int {
	for _, p := range series {
		if p.BreakEven {
			return p.Month
		}
	}
	return 0
}
