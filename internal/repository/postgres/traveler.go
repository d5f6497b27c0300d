package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/aarogyacheck/clearance-api/internal/model"
	"github.com/aarogyacheck/clearance-api/internal/repository"
)

type travelerRepository struct {
	BaseRepository
}

func NewTravelerRepository(db *sqlx.DB) repository.TravelerRepository {
	return &travelerRepository{BaseRepository: NewBaseRepository(db)}
}

// insertTraveler runs inside the doctor-decision transaction.
func insertTraveler(ctx context.Context, tx *sqlx.Tx, t *model.DisapprovedTraveler) error {
	query := `
		INSERT INTO disapproved_travelers (
			id, application_id, name, national_id, email, phone, age,
			current_address, disease_name, tier, expected_recovery_date,
			doctor_id, qr_generated, qr_payload, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, FALSE, '', $13, $13)
	`
	_, err := tx.ExecContext(ctx, query,
		t.ID,
		t.ApplicationID,
		t.Name,
		t.NationalID,
		t.Email,
		t.Phone,
		t.Age,
		t.CurrentAddress,
		t.DiseaseName,
		t.Tier,
		t.ExpectedRecoveryDate,
		t.DoctorID,
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to create disapproved traveler: %w", err)
	}
	return nil
}

func (r *travelerRepository) Get(ctx context.Context, id uuid.UUID) (*model.DisapprovedTraveler, error) {
	query := `SELECT * FROM disapproved_travelers WHERE id = $1`
	var t model.DisapprovedTraveler
	if err := r.db.GetContext(ctx, &t, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get traveler: %w", err)
	}
	return &t, nil
}

func (r *travelerRepository) GetByNationalID(ctx context.Context, nationalID string) (*model.DisapprovedTraveler, error) {
	query := `SELECT * FROM disapproved_travelers WHERE national_id = $1 ORDER BY created_at DESC LIMIT 1`
	var t model.DisapprovedTraveler
	if err := r.db.GetContext(ctx, &t, query, nationalID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get traveler by national id: %w", err)
	}
	return &t, nil
}

func (r *travelerRepository) List(ctx context.Context) ([]*model.DisapprovedTraveler, error) {
	query := `SELECT * FROM disapproved_travelers ORDER BY created_at`
	var travelers []*model.DisapprovedTraveler
	if err := r.db.SelectContext(ctx, &travelers, query); err != nil {
		return nil, fmt.Errorf("failed to list travelers: %w", err)
	}
	return travelers, nil
}

// MarkQRGenerated records that a warning document with the given canonical
// payload has been issued. Reissue overwrites the payload in place.
func (r *travelerRepository) MarkQRGenerated(ctx context.Context, id uuid.UUID, payload string) error {
	query := `
		UPDATE disapproved_travelers
		SET qr_generated = TRUE, qr_payload = $1, updated_at = $2
		WHERE id = $3
	`
	_, err := r.db.ExecContext(ctx, query, payload, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to mark qr generated: %w", err)
	}
	return nil
}
