package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/aarogyacheck/clearance-api/internal/model"
	"github.com/aarogyacheck/clearance-api/internal/repository"
)

type penaltyRepository struct {
	BaseRepository
}

func NewPenaltyRepository(db *sqlx.DB) repository.PenaltyRepository {
	return &penaltyRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *penaltyRepository) Create(ctx context.Context, record *model.PenaltyRecord) error {
	query := `
		INSERT INTO penalties (id, national_id, amount, reason, authority_id, levied_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query,
		record.ID,
		record.NationalID,
		record.Amount,
		record.Reason,
		record.AuthorityID,
		record.LeviedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create penalty record: %w", err)
	}
	return nil
}

func (r *penaltyRepository) ExistsRecent(ctx context.Context, nationalID, reason string, window time.Duration) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM penalties
			WHERE national_id = $1 AND reason = $2 AND levied_at > $3
		)
	`
	var exists bool
	err := r.db.GetContext(ctx, &exists, query, nationalID, reason, time.Now().UTC().Add(-window))
	if err != nil {
		return false, fmt.Errorf("failed to check recent penalties: %w", err)
	}
	return exists, nil
}
