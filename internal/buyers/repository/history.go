package repository

import (
	"context"
	"time"

	"dealdesk_backend/internal/buyers/domain"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// StageHistoryEntry is one immutable stage transition for a buyer.
type StageHistoryEntry struct {
	ID        int64
	BuyerID   uuid.UUID
	Stage     domain.Stage
	ChangedAt time.Time
}

// ListHistory returns a buyer's stage history ordered by time ascending.
func (r *Repository) ListHistory(ctx context.Context, buyerID uuid.UUID) ([]StageHistoryEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, buyer_id, stage, changed_at
		FROM buyer_stage_history
		WHERE buyer_id = $1
		ORDER BY changed_at ASC, id ASC`,
		buyerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]StageHistoryEntry, 0)
	for rows.Next() {
		var e StageHistoryEntry
		if err := rows.Scan(&e.ID, &e.BuyerID, &e.Stage, &e.ChangedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// BuyerWithHistory pairs a buyer with its full ordered stage history.
type BuyerWithHistory struct {
	Buyer   Buyer
	History []StageHistoryEntry
}

// ListWithHistory loads buyers and their stage histories concurrently
// and merges them in memory. This is the snapshot the funnel engine
// consumes.
func (r *Repository) ListWithHistory(ctx context.Context, companyID *uuid.UUID) ([]BuyerWithHistory, error) {
	var buyers []Buyer
	var histories map[uuid.UUID][]StageHistoryEntry

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		buyers, err = r.List(gctx, companyID)
		return err
	})
	g.Go(func() error {
		var err error
		histories, err = r.listAllHistories(gctx, companyID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := make([]BuyerWithHistory, 0, len(buyers))
	for _, b := range buyers {
		history := histories[b.ID]
		if history == nil {
			history = []StageHistoryEntry{}
		}
		result = append(result, BuyerWithHistory{Buyer: b, History: history})
	}
	return result, nil
}

func (r *Repository) listAllHistories(ctx context.Context, companyID *uuid.UUID) (map[uuid.UUID][]StageHistoryEntry, error) {
	query := `
		SELECT h.id, h.buyer_id, h.stage, h.changed_at
		FROM buyer_stage_history h`
	args := []any{}
	if companyID != nil {
		query += `
		JOIN buyers b ON b.id = h.buyer_id
		WHERE b.company_id = $1`
		args = append(args, *companyID)
	}
	query += `
		ORDER BY h.changed_at ASC, h.id ASC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	histories := make(map[uuid.UUID][]StageHistoryEntry)
	for rows.Next() {
		var e StageHistoryEntry
		if err := rows.Scan(&e.ID, &e.BuyerID, &e.Stage, &e.ChangedAt); err != nil {
			return nil, err
		}
		histories[e.BuyerID] = append(histories[e.BuyerID], e)
	}
	return histories, rows.Err()
}
