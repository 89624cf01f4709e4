package domain

import "github.com/shopspring/decimal"

// GrowthPoint is one month of the portfolio-level projection series.
// The whole series is recomputed on demand; points are never mutated.
type GrowthPoint struct {
	Month      int             // 1-based elapsed month from portfolio start
	Principal  decimal.Decimal // cumulative contributions across all plans
	TotalAsset decimal.Decimal // compounded balance across all plans
	Profit     decimal.Decimal // TotalAsset - Principal
	BreakEven  bool            // true only on the first month where TotalAsset > Principal
}

// Milestone is a yearly checkpoint sampled from the full projection series.
// It is a lossy, display-oriented reduction: break-even and aggregate math
// always use the full series.
type Milestone struct {
	Year       int
	Month      int
	Principal  decimal.Decimal
	TotalAsset decimal.Decimal
	Profit     decimal.Decimal
}
