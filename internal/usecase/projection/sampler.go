package projection

import "github.com/moneyseed/moneyseed-backend/internal/domain"

// SampleMilestones reduces a full monthly series to one checkpoint per whole
// year, up to horizonYears. Chart display only — break-even detection and
// aggregate math always read the full series.
func SampleMilestones(series []domain.GrowthPoint, horizonYears int) []domain.Milestone {
	milestones := make([]domain.Milestone, 0, horizonYears)
	for _, p := range series {
		if p.Month%12 != 0 {
			continue
		}
		year := p.Month / 12
		if year > horizonYears {
			break
		}
		milestones = append(milestones, domain.Milestone{
			Year:       year,
			Month:      p.Month,
			Principal:  p.Principal,
			TotalAsset: p.TotalAsset,
			Profit:     p.Profit,
		})
	}
	return milestones
}
