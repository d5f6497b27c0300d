package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/aarogyacheck/clearance-api/internal/model"
	"github.com/aarogyacheck/clearance-api/internal/repository"
)

type approvedMigrantRepository struct {
	BaseRepository
}

func NewApprovedMigrantRepository(db *sqlx.DB) repository.ApprovedMigrantRepository {
	return &approvedMigrantRepository{BaseRepository: NewBaseRepository(db)}
}

// insertApprovedMigrant runs inside the official-decision transaction. The
// unique index on application_id enforces exactly-once creation.
func insertApprovedMigrant(ctx context.Context, tx *sqlx.Tx, m *model.ApprovedMigrant) error {
	query := `
		INSERT INTO approved_migrants (
			id, application_id, name, national_id, source, destination,
			travel_medium, official_id, approval_letter_path, approved_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := tx.ExecContext(ctx, query,
		m.ID,
		m.ApplicationID,
		m.Name,
		m.NationalID,
		m.Source,
		m.Destination,
		m.TravelMedium,
		m.OfficialID,
		m.ApprovalLetterPath,
		m.ApprovedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create approved migrant record: %w", err)
	}
	return nil
}

func (r *approvedMigrantRepository) GetByApplicationID(ctx context.Context, applicationID uuid.UUID) (*model.ApprovedMigrant, error) {
	query := `SELECT * FROM approved_migrants WHERE application_id = $1`
	var m model.ApprovedMigrant
	if err := r.db.GetContext(ctx, &m, query, applicationID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get approved migrant record: %w", err)
	}
	return &m, nil
}
