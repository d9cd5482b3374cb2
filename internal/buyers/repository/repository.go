package repository

import (
	"context"
	"errors"
	"time"

	"dealdesk_backend/internal/buyers/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("buyer not found")

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Buyer is one prospective acquirer in a company's sale process. Rows
// are never physically deleted; terminal stages are retained for
// historical analytics.
type Buyer struct {
	ID             uuid.UUID
	CompanyID      uuid.UUID
	Name           string
	BuyerType      domain.BuyerType
	Tier           domain.Tier
	CurrentStage   domain.Stage
	ContactName    *string
	ContactEmail   *string
	ContactPhone   *string
	IOIAmount      *decimal.Decimal
	LOIAmount      *decimal.Decimal
	IOIDeadline    *time.Time
	LOIDeadline    *time.Time
	NDAExecutedAt  *time.Time
	IOIReceivedAt  *time.Time
	LOIReceivedAt  *time.Time
	ClosedAt       *time.Time
	StageUpdatedAt time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

const buyerColumns = `
	id, company_id, name, buyer_type, tier, current_stage,
	contact_name, contact_email, contact_phone,
	ioi_amount, loi_amount, ioi_deadline, loi_deadline,
	nda_executed_at, ioi_received_at, loi_received_at, closed_at,
	stage_updated_at, created_at, updated_at`

func scanBuyer(row pgx.Row) (Buyer, error) {
	var b Buyer
	var ioiAmount, loiAmount decimal.NullDecimal
	err := row.Scan(
		&b.ID, &b.CompanyID, &b.Name, &b.BuyerType, &b.Tier, &b.CurrentStage,
		&b.ContactName, &b.ContactEmail, &b.ContactPhone,
		&ioiAmount, &loiAmount, &b.IOIDeadline, &b.LOIDeadline,
		&b.NDAExecutedAt, &b.IOIReceivedAt, &b.LOIReceivedAt, &b.ClosedAt,
		&b.StageUpdatedAt, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return Buyer{}, err
	}
	if ioiAmount.Valid {
		b.IOIAmount = &ioiAmount.Decimal
	}
	if loiAmount.Valid {
		b.LOIAmount = &loiAmount.Decimal
	}
	return b, nil
}

type CreateBuyerParams struct {
	CompanyID    uuid.UUID
	Name         string
	BuyerType    string
	Tier         string
	ContactName  *string
	ContactEmail *string
	ContactPhone *string
}

func (r *Repository) Create(ctx context.Context, params CreateBuyerParams) (Buyer, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO buyers (company_id, name, buyer_type, tier, contact_name, contact_email, contact_phone)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING`+buyerColumns,
		params.CompanyID, params.Name, params.BuyerType, params.Tier,
		params.ContactName, params.ContactEmail, params.ContactPhone,
	)
	return scanBuyer(row)
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Buyer, error) {
	row := r.pool.QueryRow(ctx, `SELECT`+buyerColumns+` FROM buyers WHERE id = $1`, id)
	buyer, err := scanBuyer(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Buyer{}, ErrNotFound
	}
	return buyer, err
}

// List returns buyers, optionally filtered to one company, ordered by
// creation time.
func (r *Repository) List(ctx context.Context, companyID *uuid.UUID) ([]Buyer, error) {
	query := `SELECT` + buyerColumns + ` FROM buyers`
	args := []any{}
	if companyID != nil {
		query += ` WHERE company_id = $1`
		args = append(args, *companyID)
	}
	query += ` ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	buyers := make([]Buyer, 0)
	for rows.Next() {
		buyer, err := scanBuyer(rows)
		if err != nil {
			return nil, err
		}
		buyers = append(buyers, buyer)
	}
	return buyers, rows.Err()
}

type UpdateBuyerParams struct {
	Name         *string
	BuyerType    *string
	Tier         *string
	ContactName  *string
	ContactEmail *string
	ContactPhone *string
	IOIAmount    *decimal.Decimal
	LOIAmount    *decimal.Decimal
	IOIDeadline  *time.Time
	LOIDeadline  *time.Time
}

// Update patches the provided fields and bumps updated_at. Stage moves
// go through AdvanceStage, never here.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, params UpdateBuyerParams) (Buyer, error) {
	var ioiAmount, loiAmount decimal.NullDecimal
	if params.IOIAmount != nil {
		ioiAmount = decimal.NullDecimal{Decimal: *params.IOIAmount, Valid: true}
	}
	if params.LOIAmount != nil {
		loiAmount = decimal.NullDecimal{Decimal: *params.LOIAmount, Valid: true}
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE buyers SET
			name = COALESCE($2, name),
			buyer_type = COALESCE($3, buyer_type),
			tier = COALESCE($4, tier),
			contact_name = COALESCE($5, contact_name),
			contact_email = COALESCE($6, contact_email),
			contact_phone = COALESCE($7, contact_phone),
			ioi_amount = CASE WHEN $8::numeric IS NULL THEN ioi_amount ELSE $8 END,
			loi_amount = CASE WHEN $9::numeric IS NULL THEN loi_amount ELSE $9 END,
			ioi_deadline = CASE WHEN $10::timestamptz IS NULL THEN ioi_deadline ELSE $10 END,
			loi_deadline = CASE WHEN $11::timestamptz IS NULL THEN loi_deadline ELSE $11 END,
			updated_at = now()
		WHERE id = $1
		RETURNING`+buyerColumns,
		id, params.Name, params.BuyerType, params.Tier,
		params.ContactName, params.ContactEmail, params.ContactPhone,
		ioiAmount, loiAmount, params.IOIDeadline, params.LOIDeadline,
	)
	buyer, err := scanBuyer(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Buyer{}, ErrNotFound
	}
	return buyer, err
}

// MilestoneStamps are milestone timestamps to set while advancing a
// stage. Nil fields leave the column untouched; a stamp never
// overwrites an earlier value.
type MilestoneStamps struct {
	NDAExecutedAt *time.Time
	IOIReceivedAt *time.Time
	LOIReceivedAt *time.Time
	ClosedAt      *time.Time
}

type AdvanceStageParams struct {
	BuyerID   uuid.UUID
	Stage     domain.Stage
	ChangedAt time.Time
	Stamps    MilestoneStamps
}

// AdvanceStage moves the buyer to a new stage and appends the history
// entry in one transaction. Legality is the service's responsibility;
// by the time this runs the transition has been validated.
func (r *Repository) AdvanceStage(ctx context.Context, params AdvanceStageParams) (Buyer, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Buyer{}, err
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `
		UPDATE buyers SET
			current_stage = $2,
			stage_updated_at = $3,
			nda_executed_at = COALESCE(nda_executed_at, $4),
			ioi_received_at = COALESCE(ioi_received_at, $5),
			loi_received_at = COALESCE(loi_received_at, $6),
			closed_at = COALESCE(closed_at, $7),
			updated_at = now()
		WHERE id = $1
		RETURNING`+buyerColumns,
		params.BuyerID, params.Stage, params.ChangedAt,
		params.Stamps.NDAExecutedAt, params.Stamps.IOIReceivedAt,
		params.Stamps.LOIReceivedAt, params.Stamps.ClosedAt,
	)
	buyer, err := scanBuyer(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Buyer{}, ErrNotFound
	}
	if err != nil {
		return Buyer{}, err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO buyer_stage_history (buyer_id, stage, changed_at)
		VALUES ($1, $2, $3)`,
		params.BuyerID, params.Stage, params.ChangedAt,
	)
	if err != nil {
		return Buyer{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Buyer{}, err
	}
	return buyer, nil
}
