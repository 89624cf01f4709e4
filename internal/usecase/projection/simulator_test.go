package projection

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moneyseed/moneyseed-backend/internal/domain"
)

func plan(monthlyAmount int64, periodYears int, annualRatePercent int64) *domain.Investment {
	return &domain.Investment{
		ID:                uuid.New(),
		MonthlyAmount:     decimal.NewFromInt(monthlyAmount),
		PeriodYears:       periodYears,
		AnnualRatePercent: decimal.NewFromInt(annualRatePercent),
	}
}

func TestSimulate_OrdinaryAnnuityMatchesClosedForm(t *testing.T) {
	// 100,000/month for 1 year at 12%/year (1%/month).
	// Closed-form ordinary annuity FV after 12 months:
	//   100000 * ((1.01^12 - 1) / 0.01) = 1,268,250.30...
	inv := plan(100000, 1, 12)

	series := Simulate([]*domain.Investment{inv}, 1)

	require.Len(t, series, 12)

	last := series[11]
	assert.Equal(t, 12, last.Month)
	assert.True(t, last.Principal.Equal(decimal.NewFromInt(1200000)),
		"principal(12) = 1,200,000, got %s", last.Principal)

	asset, _ := last.TotalAsset.Float64()
	assert.InDelta(t, 1268250.30, asset, 0.01)

	profit, _ := last.Profit.Float64()
	assert.InDelta(t, 68250.30, profit, 0.01)
}

func TestSimulate_PrincipalAndBalanceFreezeAtMaturity(t *testing.T) {
	// 1-year plan simulated over 3 years: after month 12 the plan is parked
	// as cash -- principal and balance both hold flat, no further interest.
	inv := plan(100000, 1, 12)

	series := Simulate([]*domain.Investment{inv}, 3)

	require.Len(t, series, 36)

	atMaturity := series[11]
	assert.True(t, atMaturity.Principal.Equal(decimal.NewFromInt(1200000)))

	for month := 13; month <= 36; month++ {
		p := series[month-1]
		assert.True(t, p.Principal.Equal(atMaturity.Principal),
			"principal must stay frozen at month %d", month)
		assert.True(t, p.TotalAsset.Equal(atMaturity.TotalAsset),
			"cash-hold balance must stay flat at month %d", month)
	}
}

func TestSimulate_BreakEvenFlaggedExactlyOnce(t *testing.T) {
	inv := plan(100000, 2, 12)

	series := Simulate([]*domain.Investment{inv}, 2)

	flagged := 0
	for _, p := range series {
		if p.BreakEven {
			flagged++
		}
	}
	assert.Equal(t, 1, flagged)

	// With a positive rate, interest first shows at month 2:
	// balance(2) = 100000*1.01 + 100000 = 201,000 > 200,000
	assert.Equal(t, 2, BreakEvenMonth(series))
	assert.False(t, series[0].BreakEven, "month 1 is never flagged")
}

func TestSimulate_ZeroRateNeverBreaksEven(t *testing.T) {
	inv := &domain.Investment{
		ID:                uuid.New(),
		MonthlyAmount:     decimal.NewFromInt(50000),
		PeriodYears:       2,
		AnnualRatePercent: decimal.Zero,
	}

	series := Simulate([]*domain.Investment{inv}, 2)

	require.Len(t, series, 24)
	for _, p := range series {
		assert.True(t, p.TotalAsset.Equal(p.Principal),
			"at 0%% the balance tracks principal exactly at month %d", p.Month)
		assert.True(t, p.Profit.IsZero())
		assert.False(t, p.BreakEven)
	}
	assert.Equal(t, 0, BreakEvenMonth(series))
}

func TestSimulate_HeterogeneousPortfolioSums(t *testing.T) {
	// A 1-year plan and a 3-year plan: after the first matures, portfolio
	// principal keeps growing only by the second plan's contributions.
	short := plan(100000, 1, 12)
	long := plan(200000, 3, 6)

	series := Simulate([]*domain.Investment{short, long}, 3)

	require.Len(t, series, 36)

	// Month 12: both contributing
	p12 := series[11]
	assert.True(t, p12.Principal.Equal(decimal.NewFromInt(100000*12+200000*12)))

	// Month 13: short is frozen at 1.2M, long keeps going
	p13 := series[12]
	assert.True(t, p13.Principal.Equal(decimal.NewFromInt(1200000+200000*13)))

	for _, p := range series {
		assert.True(t, p.TotalAsset.GreaterThanOrEqual(decimal.Zero))
	}
}

func TestSimulate_EmptyInputsYieldEmptySeries(t *testing.T) {
	assert.Empty(t, Simulate(nil, 10))
	assert.Empty(t, Simulate([]*domain.Investment{}, 10))

	zero := &domain.Investment{
		ID:            uuid.New(),
		MonthlyAmount: decimal.Zero,
		PeriodYears:   1,
	}
	assert.Empty(t, Simulate([]*domain.Investment{zero}, 10),
		"zero total contribution yields an empty series, not zeros")
}

func TestSampleMilestones_OnePointPerWholeYear(t *testing.T) {
	inv := plan(100000, 3, 10)

	series := Simulate([]*domain.Investment{inv}, 3)
	milestones := SampleMilestones(series, 3)

	require.Len(t, milestones, 3)
	for i, m := range milestones {
		assert.Equal(t, i+1, m.Year)
		assert.Equal(t, (i+1)*12, m.Month)
		assert.True(t, m.Principal.Equal(series[m.Month-1].Principal))
		assert.True(t, m.TotalAsset.Equal(series[m.Month-1].TotalAsset))
	}
}

func TestSampleMilestones_HorizonCapsOutput(t *testing.T) {
	inv := plan(100000, 3, 10)

	series := Simulate([]*domain.Investment{inv}, 3)
	milestones := SampleMilestones(series, 2)

	require.Len(t, milestones, 2)
	assert.Equal(t, 24, milestones[1].Month)
}
