package analytics

import (
	"time"

	"dealdesk_backend/internal/buyers/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	// deadlineWindow is how far ahead the dashboard looks for offer
	// deadlines, inclusive on both ends.
	deadlineWindow = 7 * 24 * time.Hour
	// staleAfterDays marks a buyer stale once its stage has not moved
	// for this many whole days, boundary inclusive.
	staleAfterDays = 14
)

// BuyerSummaryInput is the reduced buyer projection the dashboard
// summary is computed from.
type BuyerSummaryInput struct {
	ID             uuid.UUID
	Name           string
	CurrentStage   domain.Stage
	BuyerType      domain.BuyerType
	Tier           domain.Tier
	IOIAmount      *decimal.Decimal
	LOIAmount      *decimal.Decimal
	IOIDeadline    *time.Time
	LOIDeadline    *time.Time
	StageUpdatedAt time.Time
}

// DeadlineType identifies which offer deadline triggered an alert.
type DeadlineType string

const (
	DeadlineIOI DeadlineType = "ioi"
	DeadlineLOI DeadlineType = "loi"
)

// DeadlineAlert flags a buyer whose IOI or LOI response deadline falls
// within the upcoming window.
type DeadlineAlert struct {
	BuyerID      uuid.UUID    `json:"buyerId"`
	Name         string       `json:"name"`
	Stage        domain.Stage `json:"stage"`
	DeadlineType DeadlineType `json:"deadlineType"`
	Deadline     time.Time    `json:"deadline"`
}

// StaleBuyer flags an active buyer whose stage has not changed recently.
type StaleBuyer struct {
	BuyerID         uuid.UUID    `json:"buyerId"`
	Name            string       `json:"name"`
	Stage           domain.Stage `json:"stage"`
	DaysSinceUpdate int          `json:"daysSinceUpdate"`
	StageUpdatedAt  time.Time    `json:"stageUpdatedAt"`
}

// PipelineSummary is the dashboard-oriented view of the pipeline.
type PipelineSummary struct {
	GroupCounts       map[domain.StageGroup]int `json:"groupCounts"`
	TotalActive       int                       `json:"totalActive"`
	UpcomingDeadlines []DeadlineAlert           `json:"upcomingDeadlines"`
	StaleBuyers       []StaleBuyer              `json:"staleBuyers"`
}

// ComputeStageSummary builds the dashboard summary for a company's
// buyers as of the supplied instant. Pure; callers pass time.Now().
func ComputeStageSummary(buyers []BuyerSummaryInput, now time.Time) PipelineSummary {
	summary := PipelineSummary{
		GroupCounts:       make(map[domain.StageGroup]int, len(domain.AllGroups)),
		UpcomingDeadlines: make([]DeadlineAlert, 0),
		StaleBuyers:       make([]StaleBuyer, 0),
	}
	for _, g := range domain.AllGroups {
		summary.GroupCounts[g] = 0
	}

	horizon := now.Add(deadlineWindow)

	for _, b := range buyers {
		summary.GroupCounts[domain.GroupOf(b.CurrentStage)]++

		if domain.IsActive(b.CurrentStage) {
			summary.TotalActive++

			days := wholeDays(b.StageUpdatedAt, now)
			if days >= staleAfterDays {
				summary.StaleBuyers = append(summary.StaleBuyers, StaleBuyer{
					BuyerID:         b.ID,
					Name:            b.Name,
					Stage:           b.CurrentStage,
					DaysSinceUpdate: days,
					StageUpdatedAt:  b.StageUpdatedAt,
				})
			}
		}

		// IOI takes precedence when both deadlines are in range.
		if alert, ok := upcomingDeadline(b, now, horizon); ok {
			summary.UpcomingDeadlines = append(summary.UpcomingDeadlines, alert)
		}
	}

	return summary
}

func upcomingDeadline(b BuyerSummaryInput, now, horizon time.Time) (DeadlineAlert, bool) {
	if inWindow(b.IOIDeadline, now, horizon) {
		return DeadlineAlert{
			BuyerID:      b.ID,
			Name:         b.Name,
			Stage:        b.CurrentStage,
			DeadlineType: DeadlineIOI,
			Deadline:     *b.IOIDeadline,
		}, true
	}
	if inWindow(b.LOIDeadline, now, horizon) {
		return DeadlineAlert{
			BuyerID:      b.ID,
			Name:         b.Name,
			Stage:        b.CurrentStage,
			DeadlineType: DeadlineLOI,
			Deadline:     *b.LOIDeadline,
		}, true
	}
	return DeadlineAlert{}, false
}

func inWindow(deadline *time.Time, now, horizon time.Time) bool {
	if deadline == nil {
		return false
	}
	return !deadline.Before(now) && !deadline.After(horizon)
}
