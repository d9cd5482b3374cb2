package service

import (
	"context"
	"errors"
	"time"

	"dealdesk_backend/internal/buyers/domain"
	"dealdesk_backend/internal/buyers/repository"
	"dealdesk_backend/internal/buyers/transport"
	"dealdesk_backend/internal/cache"
	"dealdesk_backend/platform/apperr"
	"dealdesk_backend/platform/logger"
	"dealdesk_backend/platform/phone"

	"github.com/google/uuid"
)

type Service struct {
	repo         *repository.Repository
	summaryCache *cache.Cache
	log          *logger.Logger
}

func New(repo *repository.Repository, summaryCache *cache.Cache, log *logger.Logger) *Service {
	return &Service{repo: repo, summaryCache: summaryCache, log: log}
}

func (s *Service) Create(ctx context.Context, req transport.CreateBuyerRequest) (transport.BuyerResponse, error) {
	if err := checkBuyerEnums(&req.BuyerType, &req.Tier); err != nil {
		return transport.BuyerResponse{}, err
	}

	params := repository.CreateBuyerParams{
		CompanyID: req.CompanyID,
		Name:      req.Name,
		BuyerType: string(req.BuyerType),
		Tier:      string(req.Tier),
	}
	if req.ContactName != "" {
		params.ContactName = &req.ContactName
	}
	if req.ContactEmail != "" {
		params.ContactEmail = &req.ContactEmail
	}
	if req.ContactPhone != "" {
		normalized := phone.NormalizeE164(req.ContactPhone)
		params.ContactPhone = &normalized
	}

	buyer, err := s.repo.Create(ctx, params)
	if err != nil {
		return transport.BuyerResponse{}, err
	}
	s.invalidateSummary(ctx, buyer.CompanyID)
	return toBuyerResponse(buyer), nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (transport.BuyerResponse, error) {
	buyer, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.BuyerResponse{}, mapRepoErr(err)
	}
	return toBuyerResponse(buyer), nil
}

func (s *Service) List(ctx context.Context, companyID *uuid.UUID) ([]transport.BuyerResponse, error) {
	buyers, err := s.repo.List(ctx, companyID)
	if err != nil {
		return nil, err
	}
	responses := make([]transport.BuyerResponse, 0, len(buyers))
	for _, b := range buyers {
		responses = append(responses, toBuyerResponse(b))
	}
	return responses, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateBuyerRequest) (transport.BuyerResponse, error) {
	if err := checkBuyerEnums(req.BuyerType, req.Tier); err != nil {
		return transport.BuyerResponse{}, err
	}

	params := repository.UpdateBuyerParams{
		Name:        req.Name,
		ContactName: req.ContactName,
		IOIAmount:   req.IOIAmount,
		LOIAmount:   req.LOIAmount,
		IOIDeadline: req.IOIDeadline,
		LOIDeadline: req.LOIDeadline,
	}
	if req.BuyerType != nil {
		value := string(*req.BuyerType)
		params.BuyerType = &value
	}
	if req.Tier != nil {
		value := string(*req.Tier)
		params.Tier = &value
	}
	if req.ContactEmail != nil {
		params.ContactEmail = req.ContactEmail
	}
	if req.ContactPhone != nil {
		normalized := phone.NormalizeE164(*req.ContactPhone)
		params.ContactPhone = &normalized
	}

	buyer, err := s.repo.Update(ctx, id, params)
	if err != nil {
		return transport.BuyerResponse{}, mapRepoErr(err)
	}
	s.invalidateSummary(ctx, buyer.CompanyID)
	return toBuyerResponse(buyer), nil
}

// UpdateStage moves a buyer to a new stage. The transition is validated
// against the legality graph before any mutation; an illegal request
// leaves both the buyer and its history untouched.
func (s *Service) UpdateStage(ctx context.Context, id uuid.UUID, req transport.UpdateStageRequest) (transport.BuyerResponse, error) {
	if !domain.IsKnownStage(req.Stage) {
		return transport.BuyerResponse{}, apperr.Validation("unknown stage: " + string(req.Stage))
	}

	buyer, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.BuyerResponse{}, mapRepoErr(err)
	}

	if !domain.IsLegalTransition(buyer.CurrentStage, req.Stage) {
		return transport.BuyerResponse{}, apperr.Validation(
			"illegal transition from " + string(buyer.CurrentStage) + " to " + string(req.Stage))
	}

	now := time.Now().UTC()
	updated, err := s.repo.AdvanceStage(ctx, repository.AdvanceStageParams{
		BuyerID:   id,
		Stage:     req.Stage,
		ChangedAt: now,
		Stamps:    milestoneStamps(req.Stage, now),
	})
	if err != nil {
		return transport.BuyerResponse{}, mapRepoErr(err)
	}

	s.log.Info("buyer stage advanced",
		"buyer_id", id.String(),
		"from", string(buyer.CurrentStage),
		"to", string(req.Stage),
	)
	s.invalidateSummary(ctx, updated.CompanyID)
	return toBuyerResponse(updated), nil
}

func (s *Service) ListHistory(ctx context.Context, id uuid.UUID) ([]transport.StageHistoryResponse, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, mapRepoErr(err)
	}
	entries, err := s.repo.ListHistory(ctx, id)
	if err != nil {
		return nil, err
	}
	responses := make([]transport.StageHistoryResponse, 0, len(entries))
	for _, e := range entries {
		responses = append(responses, transport.StageHistoryResponse{Stage: e.Stage, ChangedAt: e.ChangedAt})
	}
	return responses, nil
}

// StageGraph describes the full pipeline graph for UI rendering.
func (s *Service) StageGraph() []transport.StageInfo {
	infos := make([]transport.StageInfo, 0, len(domain.AllStages))
	for _, stage := range domain.AllStages {
		infos = append(infos, transport.StageInfo{
			Stage:      stage,
			Group:      domain.GroupOf(stage),
			Terminal:   domain.IsTerminal(stage),
			NextStages: domain.LegalDestinations(stage),
		})
	}
	return infos
}

// checkBuyerEnums rejects unknown buyer types and tiers at the service
// boundary. Nil fields are skipped so patch requests pass untouched.
func checkBuyerEnums(buyerType *domain.BuyerType, tier *domain.Tier) error {
	if buyerType != nil && !domain.IsKnownBuyerType(*buyerType) {
		return apperr.Validation("unknown buyer type: " + string(*buyerType))
	}
	if tier != nil && !domain.IsKnownTier(*tier) {
		return apperr.Validation("unknown tier: " + string(*tier))
	}
	return nil
}

// milestoneStamps returns the milestone timestamp to record when
// entering a stage. Stamps are first-write-wins at the repository.
func milestoneStamps(stage domain.Stage, now time.Time) repository.MilestoneStamps {
	var stamps repository.MilestoneStamps
	switch stage {
	case domain.StageNDAExecuted:
		stamps.NDAExecutedAt = &now
	case domain.StageIOIReceived:
		stamps.IOIReceivedAt = &now
	case domain.StageLOIReceived:
		stamps.LOIReceivedAt = &now
	case domain.StageClosed:
		stamps.ClosedAt = &now
	}
	return stamps
}

func toBuyerResponse(b repository.Buyer) transport.BuyerResponse {
	return transport.BuyerResponse{
		ID:             b.ID,
		CompanyID:      b.CompanyID,
		Name:           b.Name,
		BuyerType:      b.BuyerType,
		Tier:           b.Tier,
		CurrentStage:   b.CurrentStage,
		StageGroup:     domain.GroupOf(b.CurrentStage),
		ContactName:    b.ContactName,
		ContactEmail:   b.ContactEmail,
		ContactPhone:   b.ContactPhone,
		IOIAmount:      b.IOIAmount,
		LOIAmount:      b.LOIAmount,
		IOIDeadline:    b.IOIDeadline,
		LOIDeadline:    b.LOIDeadline,
		NDAExecutedAt:  b.NDAExecutedAt,
		IOIReceivedAt:  b.IOIReceivedAt,
		LOIReceivedAt:  b.LOIReceivedAt,
		ClosedAt:       b.ClosedAt,
		StageUpdatedAt: b.StageUpdatedAt,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
		NextStages:     domain.LegalDestinations(b.CurrentStage),
	}
}

func mapRepoErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound("buyer not found")
	}
	return err
}
