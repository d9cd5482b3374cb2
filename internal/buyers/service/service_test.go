package service

import (
	"testing"
	"time"

	"dealdesk_backend/internal/buyers/domain"
	"dealdesk_backend/internal/buyers/repository"
)

func TestMilestoneStamps(t *testing.T) {
	now := time.Date(2026, 4, 2, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		stage domain.Stage
		check func(repository.MilestoneStamps) *time.Time
		name  string
	}{
		{domain.StageNDAExecuted, func(s repository.MilestoneStamps) *time.Time { return s.NDAExecutedAt }, "nda"},
		{domain.StageIOIReceived, func(s repository.MilestoneStamps) *time.Time { return s.IOIReceivedAt }, "ioi"},
		{domain.StageLOIReceived, func(s repository.MilestoneStamps) *time.Time { return s.LOIReceivedAt }, "loi"},
		{domain.StageClosed, func(s repository.MilestoneStamps) *time.Time { return s.ClosedAt }, "closed"},
	}

	for _, tc := range tests {
		stamps := milestoneStamps(tc.stage, now)
		got := tc.check(stamps)
		if got == nil || !got.Equal(now) {
			t.Errorf("milestoneStamps(%s) did not stamp %s timestamp", tc.stage, tc.name)
		}
	}
}

func TestMilestoneStampsNonMilestoneStage(t *testing.T) {
	now := time.Now()
	stamps := milestoneStamps(domain.StageInterested, now)
	if stamps.NDAExecutedAt != nil || stamps.IOIReceivedAt != nil || stamps.LOIReceivedAt != nil || stamps.ClosedAt != nil {
		t.Errorf("non-milestone stage must stamp nothing, got %+v", stamps)
	}
}

func TestCheckBuyerEnums(t *testing.T) {
	badType := domain.BuyerType("conglomerate")
	badTier := domain.Tier("Z")
	goodType := domain.BuyerTypeStrategic
	goodTier := domain.TierB

	tests := []struct {
		name      string
		buyerType *domain.BuyerType
		tier      *domain.Tier
		wantErr   bool
	}{
		{"known values", &goodType, &goodTier, false},
		{"nil fields skipped", nil, nil, false},
		{"unknown buyer type", &badType, &goodTier, true},
		{"unknown tier", &goodType, &badTier, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := checkBuyerEnums(tc.buyerType, tc.tier)
			if (err != nil) != tc.wantErr {
				t.Errorf("checkBuyerEnums() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestToBuyerResponseIncludesGraphMetadata(t *testing.T) {
	buyer := repository.Buyer{
		Name:         "Summit Capital",
		BuyerType:    domain.BuyerTypeFinancial,
		Tier:         domain.TierA,
		CurrentStage: domain.StageIOIReceived,
	}

	resp := toBuyerResponse(buyer)

	if resp.StageGroup != domain.GroupIOI {
		t.Errorf("StageGroup = %s, want %s", resp.StageGroup, domain.GroupIOI)
	}
	if len(resp.NextStages) == 0 {
		t.Error("NextStages must list the legal destinations for a transient stage")
	}
	for _, next := range resp.NextStages {
		if !domain.IsLegalTransition(buyer.CurrentStage, next) {
			t.Errorf("NextStages contains illegal destination %s", next)
		}
	}
}
