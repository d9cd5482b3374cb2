package transport

import (
	"time"

	"dealdesk_backend/internal/buyers/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type CreateBuyerRequest struct {
	CompanyID    uuid.UUID        `json:"companyId" validate:"required"`
	Name         string           `json:"name" validate:"required,min=1,max=200"`
	BuyerType    domain.BuyerType `json:"buyerType" validate:"required,oneof=strategic financial individual management esop other"`
	Tier         domain.Tier      `json:"tier" validate:"required,oneof=A B C D"`
	ContactName  string           `json:"contactName,omitempty" validate:"omitempty,min=1,max=200"`
	ContactEmail string           `json:"contactEmail,omitempty" validate:"omitempty,email"`
	ContactPhone string           `json:"contactPhone,omitempty" validate:"omitempty,min=5,max=20"`
}

type UpdateBuyerRequest struct {
	Name         *string           `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	BuyerType    *domain.BuyerType `json:"buyerType,omitempty" validate:"omitempty,oneof=strategic financial individual management esop other"`
	Tier         *domain.Tier      `json:"tier,omitempty" validate:"omitempty,oneof=A B C D"`
	ContactName  *string           `json:"contactName,omitempty" validate:"omitempty,min=1,max=200"`
	ContactEmail *string           `json:"contactEmail,omitempty" validate:"omitempty,email"`
	ContactPhone *string           `json:"contactPhone,omitempty" validate:"omitempty,min=5,max=20"`
	IOIAmount    *decimal.Decimal  `json:"ioiAmount,omitempty"`
	LOIAmount    *decimal.Decimal  `json:"loiAmount,omitempty"`
	IOIDeadline  *time.Time        `json:"ioiDeadline,omitempty"`
	LOIDeadline  *time.Time        `json:"loiDeadline,omitempty"`
}

type UpdateStageRequest struct {
	Stage domain.Stage `json:"stage" validate:"required"`
}

// Response DTOs

type BuyerResponse struct {
	ID             uuid.UUID         `json:"id"`
	CompanyID      uuid.UUID         `json:"companyId"`
	Name           string            `json:"name"`
	BuyerType      domain.BuyerType  `json:"buyerType"`
	Tier           domain.Tier       `json:"tier"`
	CurrentStage   domain.Stage      `json:"currentStage"`
	StageGroup     domain.StageGroup `json:"stageGroup"`
	ContactName    *string           `json:"contactName,omitempty"`
	ContactEmail   *string           `json:"contactEmail,omitempty"`
	ContactPhone   *string           `json:"contactPhone,omitempty"`
	IOIAmount      *decimal.Decimal  `json:"ioiAmount,omitempty"`
	LOIAmount      *decimal.Decimal  `json:"loiAmount,omitempty"`
	IOIDeadline    *time.Time        `json:"ioiDeadline,omitempty"`
	LOIDeadline    *time.Time        `json:"loiDeadline,omitempty"`
	NDAExecutedAt  *time.Time        `json:"ndaExecutedAt,omitempty"`
	IOIReceivedAt  *time.Time        `json:"ioiReceivedAt,omitempty"`
	LOIReceivedAt  *time.Time        `json:"loiReceivedAt,omitempty"`
	ClosedAt       *time.Time        `json:"closedAt,omitempty"`
	StageUpdatedAt time.Time         `json:"stageUpdatedAt"`
	CreatedAt      time.Time         `json:"createdAt"`
	UpdatedAt      time.Time         `json:"updatedAt"`
	// NextStages lists the legal destinations from the current stage so
	// the UI can render transition controls without a second call.
	NextStages []domain.Stage `json:"nextStages"`
}

type StageHistoryResponse struct {
	Stage     domain.Stage `json:"stage"`
	ChangedAt time.Time    `json:"changedAt"`
}

// StageInfo describes one stage of the pipeline graph for UI rendering.
type StageInfo struct {
	Stage      domain.Stage      `json:"stage"`
	Group      domain.StageGroup `json:"group"`
	Terminal   bool              `json:"terminal"`
	NextStages []domain.Stage    `json:"nextStages"`
}
