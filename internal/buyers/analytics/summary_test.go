package analytics

import (
	"testing"
	"time"

	"dealdesk_backend/internal/buyers/domain"

	"github.com/google/uuid"
)

func summaryBuyer(stage domain.Stage, now time.Time) BuyerSummaryInput {
	return BuyerSummaryInput{
		ID:             uuid.New(),
		Name:           "Acme Holdings",
		CurrentStage:   stage,
		BuyerType:      domain.BuyerTypeFinancial,
		Tier:           domain.TierB,
		StageUpdatedAt: now,
	}
}

func TestComputeStageSummaryGroupCounts(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	buyers := []BuyerSummaryInput{
		summaryBuyer(domain.StageIdentified, now),
		summaryBuyer(domain.StageApproved, now),
		summaryBuyer(domain.StageNDAExecuted, now),
		summaryBuyer(domain.StageWithdrawn, now),
	}

	summary := ComputeStageSummary(buyers, now)

	if summary.GroupCounts[domain.GroupIdentification] != 2 {
		t.Errorf("GroupCounts[Identification] = %d, want 2", summary.GroupCounts[domain.GroupIdentification])
	}
	if summary.GroupCounts[domain.GroupNDA] != 1 {
		t.Errorf("GroupCounts[NDA] = %d, want 1", summary.GroupCounts[domain.GroupNDA])
	}
	if summary.GroupCounts[domain.GroupExit] != 1 {
		t.Errorf("GroupCounts[Exit] = %d, want 1", summary.GroupCounts[domain.GroupExit])
	}
	if len(summary.GroupCounts) != len(domain.AllGroups) {
		t.Errorf("GroupCounts has %d groups, want %d (zero-count groups included)", len(summary.GroupCounts), len(domain.AllGroups))
	}
	if summary.TotalActive != 3 {
		t.Errorf("TotalActive = %d, want 3", summary.TotalActive)
	}
}

func TestUpcomingDeadlineWindow(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		deadline time.Time
		want     bool
	}{
		{"exactly now", now, true},
		{"in three days", now.AddDate(0, 0, 3), true},
		{"exactly seven days", now.Add(7 * 24 * time.Hour), true},
		{"eight days out", now.AddDate(0, 0, 8), false},
		{"one day past", now.AddDate(0, 0, -1), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := summaryBuyer(domain.StageIOIRequested, now)
			deadline := tc.deadline
			b.IOIDeadline = &deadline

			summary := ComputeStageSummary([]BuyerSummaryInput{b}, now)

			got := len(summary.UpcomingDeadlines) == 1
			if got != tc.want {
				t.Errorf("deadline %s flagged=%v, want %v", tc.deadline, got, tc.want)
			}
		})
	}
}

func TestUpcomingDeadlineIOIPrecedence(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	b := summaryBuyer(domain.StageLOIRequested, now)
	ioi := now.AddDate(0, 0, 5)
	loi := now.AddDate(0, 0, 2)
	b.IOIDeadline = &ioi
	b.LOIDeadline = &loi

	summary := ComputeStageSummary([]BuyerSummaryInput{b}, now)

	if len(summary.UpcomingDeadlines) != 1 {
		t.Fatalf("expected one alert, got %d", len(summary.UpcomingDeadlines))
	}
	alert := summary.UpcomingDeadlines[0]
	if alert.DeadlineType != DeadlineIOI {
		t.Errorf("DeadlineType = %s, want %s when both deadlines are in range", alert.DeadlineType, DeadlineIOI)
	}
	if !alert.Deadline.Equal(ioi) {
		t.Errorf("Deadline = %s, want the IOI deadline %s", alert.Deadline, ioi)
	}
}

func TestUpcomingDeadlineFallsBackToLOI(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	b := summaryBuyer(domain.StageLOIRequested, now)
	ioi := now.AddDate(0, 0, -3) // already past
	loi := now.AddDate(0, 0, 4)
	b.IOIDeadline = &ioi
	b.LOIDeadline = &loi

	summary := ComputeStageSummary([]BuyerSummaryInput{b}, now)

	if len(summary.UpcomingDeadlines) != 1 {
		t.Fatalf("expected one alert, got %d", len(summary.UpcomingDeadlines))
	}
	if summary.UpcomingDeadlines[0].DeadlineType != DeadlineLOI {
		t.Errorf("DeadlineType = %s, want %s", summary.UpcomingDeadlines[0].DeadlineType, DeadlineLOI)
	}
}

func TestStaleBuyerBoundaries(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		updated  time.Time
		want     bool
		wantDays int
	}{
		{"exactly fourteen days", now.Add(-14 * 24 * time.Hour), true, 14},
		{"thirteen days", now.Add(-13 * 24 * time.Hour), false, 0},
		{"thirteen point nine days", now.Add(-13*24*time.Hour - 22*time.Hour), false, 0},
		{"twenty days", now.Add(-20 * 24 * time.Hour), true, 20},
		{"fourteen point five days floors to fourteen", now.Add(-14*24*time.Hour - 12*time.Hour), true, 14},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := summaryBuyer(domain.StageCIMSent, now)
			b.StageUpdatedAt = tc.updated

			summary := ComputeStageSummary([]BuyerSummaryInput{b}, now)

			if got := len(summary.StaleBuyers) == 1; got != tc.want {
				t.Fatalf("stale=%v, want %v", got, tc.want)
			}
			if tc.want && summary.StaleBuyers[0].DaysSinceUpdate != tc.wantDays {
				t.Errorf("DaysSinceUpdate = %d, want %d", summary.StaleBuyers[0].DaysSinceUpdate, tc.wantDays)
			}
		})
	}
}

func TestTerminalBuyersAreNeverStale(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	b := summaryBuyer(domain.StageWithdrawn, now)
	b.StageUpdatedAt = now.AddDate(0, 0, -60)

	summary := ComputeStageSummary([]BuyerSummaryInput{b}, now)

	if len(summary.StaleBuyers) != 0 {
		t.Errorf("withdrawn buyer flagged stale, want only active stages flagged")
	}
	if summary.TotalActive != 0 {
		t.Errorf("TotalActive = %d, want 0", summary.TotalActive)
	}
}
