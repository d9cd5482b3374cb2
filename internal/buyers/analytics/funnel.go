// Package analytics computes derived funnel and dashboard metrics over
// buyer pipeline data. Both entry points are pure functions of their
// input; they perform no I/O and never fail at runtime given well-typed
// input.
package analytics

import (
	"time"

	"dealdesk_backend/internal/buyers/domain"

	"github.com/shopspring/decimal"
)

// StageChange is one entry in a buyer's append-only stage history: the
// destination stage and when it was reached, ordered ascending by time.
type StageChange struct {
	Stage     domain.Stage `json:"stage"`
	ChangedAt time.Time    `json:"changedAt"`
}

// BuyerFunnelInput carries the slice of a buyer record the funnel
// engine needs, including its full ordered stage history.
type BuyerFunnelInput struct {
	CurrentStage  domain.Stage
	BuyerType     domain.BuyerType
	Tier          domain.Tier
	CreatedAt     time.Time
	NDAExecutedAt *time.Time
	IOIReceivedAt *time.Time
	LOIReceivedAt *time.Time
	ClosedAt      *time.Time
	IOIAmount     *decimal.Decimal
	LOIAmount     *decimal.Decimal
	History       []StageChange
}

// MilestoneCounts holds the number of buyers that ever reached each
// funnel milestone, current stage or history.
type MilestoneCounts struct {
	TeaserSent  int `json:"teaserSent"`
	Interested  int `json:"interested"`
	NDAExecuted int `json:"ndaExecuted"`
	IOI         int `json:"ioi"`
	LOI         int `json:"loi"`
}

// ConversionRates holds step-to-step funnel conversion percentages. A
// zero-denominator step is 0, never NaN, so the report is always fully
// populated.
type ConversionRates struct {
	TeaserToInterested float64 `json:"teaserToInterested"`
	InterestedToNDA    float64 `json:"interestedToNda"`
	NDAToIOI           float64 `json:"ndaToIoi"`
	IOIToLOI           float64 `json:"ioiToLoi"`
	LOIToClose         float64 `json:"loiToClose"`
	OverallCloseRate   float64 `json:"overallCloseRate"`
}

// TimelineAverages holds the mean whole days from buyer creation to
// each milestone timestamp, over buyers where the timestamp is set. A
// nil average means no buyer reached the milestone, as opposed to a
// zero average meaning it was reached the same day.
type TimelineAverages struct {
	AvgDaysToNDA   *float64 `json:"avgDaysToNda"`
	AvgDaysToIOI   *float64 `json:"avgDaysToIoi"`
	AvgDaysToLOI   *float64 `json:"avgDaysToLoi"`
	AvgDaysToClose *float64 `json:"avgDaysToClose"`
}

// OfferStats aggregates monetary offers across buyers that submitted
// one. Buyers without an amount are excluded from the count, total, and
// the average's denominator.
type OfferStats struct {
	Count   int             `json:"count"`
	Total   decimal.Decimal `json:"total"`
	Average decimal.Decimal `json:"average"`
	Max     decimal.Decimal `json:"max"`
}

// FunnelReport is the full analytics output for one company's buyer list.
type FunnelReport struct {
	TotalBuyers      int                       `json:"totalBuyers"`
	ActiveBuyers     int                       `json:"activeBuyers"`
	TerminatedBuyers int                       `json:"terminatedBuyers"`
	CompletedBuyers  int                       `json:"completedBuyers"`
	ByStage          map[domain.Stage]int      `json:"byStage"`
	ByType           map[domain.BuyerType]int  `json:"byType"`
	ByTier           map[domain.Tier]int       `json:"byTier"`
	ByGroup          map[domain.StageGroup]int `json:"byGroup"`
	Milestones       MilestoneCounts           `json:"milestones"`
	Conversion       ConversionRates           `json:"conversion"`
	Timeline         TimelineAverages          `json:"timeline"`
	IOIStats         OfferStats                `json:"ioiStats"`
	LOIStats         OfferStats                `json:"loiStats"`
}

// ComputeFunnelMetrics builds a FunnelReport from a company's buyers.
// Breakdown maps always enumerate every possible value, including
// zero-count entries.
func ComputeFunnelMetrics(buyers []BuyerFunnelInput) FunnelReport {
	report := FunnelReport{
		TotalBuyers: len(buyers),
		ByStage:     make(map[domain.Stage]int, len(domain.AllStages)),
		ByType:      make(map[domain.BuyerType]int, len(domain.AllBuyerTypes)),
		ByTier:      make(map[domain.Tier]int, len(domain.AllTiers)),
		ByGroup:     make(map[domain.StageGroup]int, len(domain.AllGroups)),
	}
	for _, s := range domain.AllStages {
		report.ByStage[s] = 0
	}
	for _, t := range domain.AllBuyerTypes {
		report.ByType[t] = 0
	}
	for _, t := range domain.AllTiers {
		report.ByTier[t] = 0
	}
	for _, g := range domain.AllGroups {
		report.ByGroup[g] = 0
	}

	var ioiAmounts, loiAmounts []decimal.Decimal
	var ndaDays, ioiDays, loiDays, closeDays []int

	for _, b := range buyers {
		switch {
		case domain.IsCompleted(b.CurrentStage):
			report.CompletedBuyers++
		case domain.IsTerminated(b.CurrentStage):
			report.TerminatedBuyers++
		case domain.IsActive(b.CurrentStage):
			report.ActiveBuyers++
		}

		report.ByStage[b.CurrentStage]++
		report.ByType[b.BuyerType]++
		report.ByTier[b.Tier]++
		report.ByGroup[domain.GroupOf(b.CurrentStage)]++

		visited := stagesEverVisited(b)
		if reached(visited, domain.MilestoneTeaserSent) {
			report.Milestones.TeaserSent++
		}
		if reached(visited, domain.MilestoneInterested) {
			report.Milestones.Interested++
		}
		if reached(visited, domain.MilestoneNDAExecuted) {
			report.Milestones.NDAExecuted++
		}
		if reached(visited, domain.MilestoneIOI) {
			report.Milestones.IOI++
		}
		if reached(visited, domain.MilestoneLOI) {
			report.Milestones.LOI++
		}

		if b.NDAExecutedAt != nil {
			ndaDays = append(ndaDays, wholeDays(b.CreatedAt, *b.NDAExecutedAt))
		}
		if b.IOIReceivedAt != nil {
			ioiDays = append(ioiDays, wholeDays(b.CreatedAt, *b.IOIReceivedAt))
		}
		if b.LOIReceivedAt != nil {
			loiDays = append(loiDays, wholeDays(b.CreatedAt, *b.LOIReceivedAt))
		}
		if b.ClosedAt != nil {
			closeDays = append(closeDays, wholeDays(b.CreatedAt, *b.ClosedAt))
		}

		if b.IOIAmount != nil {
			ioiAmounts = append(ioiAmounts, *b.IOIAmount)
		}
		if b.LOIAmount != nil {
			loiAmounts = append(loiAmounts, *b.LOIAmount)
		}
	}

	m := report.Milestones
	report.Conversion = ConversionRates{
		TeaserToInterested: ratePercent(m.Interested, m.TeaserSent),
		InterestedToNDA:    ratePercent(m.NDAExecuted, m.Interested),
		NDAToIOI:           ratePercent(m.IOI, m.NDAExecuted),
		IOIToLOI:           ratePercent(m.LOI, m.IOI),
		LOIToClose:         ratePercent(report.CompletedBuyers, m.LOI),
		OverallCloseRate:   ratePercent(report.CompletedBuyers, report.TotalBuyers),
	}

	report.Timeline = TimelineAverages{
		AvgDaysToNDA:   meanDays(ndaDays),
		AvgDaysToIOI:   meanDays(ioiDays),
		AvgDaysToLOI:   meanDays(loiDays),
		AvgDaysToClose: meanDays(closeDays),
	}

	report.IOIStats = offerStats(ioiAmounts)
	report.LOIStats = offerStats(loiAmounts)

	return report
}

// stagesEverVisited collects the buyer's current stage plus every
// destination stage in its history. History lists are bounded by the
// stage count, so a linear scan per buyer is fine.
func stagesEverVisited(b BuyerFunnelInput) map[domain.Stage]bool {
	visited := make(map[domain.Stage]bool, len(b.History)+1)
	visited[b.CurrentStage] = true
	for _, change := range b.History {
		visited[change.Stage] = true
	}
	return visited
}

func reached(visited map[domain.Stage]bool, milestone domain.Milestone) bool {
	for stage := range visited {
		if domain.InMilestone(milestone, stage) {
			return true
		}
	}
	return false
}

func ratePercent(numerator, denominator int) float64 {
	if denominator == 0 {
		return 0
	}
	return float64(numerator) / float64(denominator) * 100
}

func wholeDays(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}

func meanDays(days []int) *float64 {
	if len(days) == 0 {
		return nil
	}
	sum := 0
	for _, d := range days {
		sum += d
	}
	avg := float64(sum) / float64(len(days))
	return &avg
}

func offerStats(amounts []decimal.Decimal) OfferStats {
	stats := OfferStats{Count: len(amounts)}
	if len(amounts) == 0 {
		return stats
	}
	stats.Max = amounts[0]
	for _, amount := range amounts {
		stats.Total = stats.Total.Add(amount)
		if amount.GreaterThan(stats.Max) {
			stats.Max = amount
		}
	}
	stats.Average = stats.Total.Div(decimal.NewFromInt(int64(len(amounts))))
	return stats
}
