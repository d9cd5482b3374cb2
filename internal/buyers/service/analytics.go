package service

import (
	"context"
	"time"

	"dealdesk_backend/internal/buyers/analytics"
	"dealdesk_backend/internal/buyers/repository"

	"github.com/google/uuid"
)

const summaryCacheTTL = 30 * time.Second

// FunnelMetrics loads the buyer snapshot with full histories and runs
// the funnel engine over it.
func (s *Service) FunnelMetrics(ctx context.Context, companyID *uuid.UUID) (analytics.FunnelReport, error) {
	records, err := s.repo.ListWithHistory(ctx, companyID)
	if err != nil {
		return analytics.FunnelReport{}, err
	}

	inputs := make([]analytics.BuyerFunnelInput, 0, len(records))
	for _, record := range records {
		inputs = append(inputs, toFunnelInput(record))
	}
	return analytics.ComputeFunnelMetrics(inputs), nil
}

// StageSummary computes the dashboard summary, serving from the redis
// cache when a fresh copy exists. The summary is cheap but hit on every
// dashboard refresh.
func (s *Service) StageSummary(ctx context.Context, companyID *uuid.UUID) (analytics.PipelineSummary, error) {
	key := summaryCacheKey(companyID)
	if s.summaryCache != nil {
		var cached analytics.PipelineSummary
		if ok, err := s.summaryCache.Get(ctx, key, &cached); err != nil {
			s.log.Warn("summary cache read failed", "error", err)
		} else if ok {
			return cached, nil
		}
	}

	buyers, err := s.repo.List(ctx, companyID)
	if err != nil {
		return analytics.PipelineSummary{}, err
	}

	inputs := make([]analytics.BuyerSummaryInput, 0, len(buyers))
	for _, b := range buyers {
		inputs = append(inputs, toSummaryInput(b))
	}
	summary := analytics.ComputeStageSummary(inputs, time.Now().UTC())

	if s.summaryCache != nil {
		if err := s.summaryCache.Set(ctx, key, summary, summaryCacheTTL); err != nil {
			s.log.Warn("summary cache write failed", "error", err)
		}
	}
	return summary, nil
}

// invalidateSummary drops cached summaries after a mutation so the
// dashboard never serves a stale phase count for longer than one read.
func (s *Service) invalidateSummary(ctx context.Context, companyID uuid.UUID) {
	if s.summaryCache == nil {
		return
	}
	keys := []string{summaryCacheKey(nil), summaryCacheKey(&companyID)}
	for _, key := range keys {
		if err := s.summaryCache.Delete(ctx, key); err != nil {
			s.log.Warn("summary cache invalidation failed", "key", key, "error", err)
		}
	}
}

func summaryCacheKey(companyID *uuid.UUID) string {
	if companyID == nil {
		return "pipeline_summary:all"
	}
	return "pipeline_summary:" + companyID.String()
}

func toFunnelInput(record repository.BuyerWithHistory) analytics.BuyerFunnelInput {
	history := make([]analytics.StageChange, 0, len(record.History))
	for _, e := range record.History {
		history = append(history, analytics.StageChange{Stage: e.Stage, ChangedAt: e.ChangedAt})
	}
	b := record.Buyer
	return analytics.BuyerFunnelInput{
		CurrentStage:  b.CurrentStage,
		BuyerType:     b.BuyerType,
		Tier:          b.Tier,
		CreatedAt:     b.CreatedAt,
		NDAExecutedAt: b.NDAExecutedAt,
		IOIReceivedAt: b.IOIReceivedAt,
		LOIReceivedAt: b.LOIReceivedAt,
		ClosedAt:      b.ClosedAt,
		IOIAmount:     b.IOIAmount,
		LOIAmount:     b.LOIAmount,
		History:       history,
	}
}

func toSummaryInput(b repository.Buyer) analytics.BuyerSummaryInput {
	return analytics.BuyerSummaryInput{
		ID:             b.ID,
		Name:           b.Name,
		CurrentStage:   b.CurrentStage,
		BuyerType:      b.BuyerType,
		Tier:           b.Tier,
		IOIAmount:      b.IOIAmount,
		LOIAmount:      b.LOIAmount,
		IOIDeadline:    b.IOIDeadline,
		LOIDeadline:    b.LOIDeadline,
		StageUpdatedAt: b.StageUpdatedAt,
	}
}
