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

type applicationRepository struct {
	BaseRepository
}

func NewApplicationRepository(db *sqlx.DB) repository.ApplicationRepository {
	return &applicationRepository{BaseRepository: NewBaseRepository(db)}
}

// Upsert creates the application or overwrites the existing row for the
// same (email, national_id), resetting both approval gates to PENDING.
func (r *applicationRepository) Upsert(ctx context.Context, app *model.Application) (uuid.UUID, error) {
	query := `
		INSERT INTO applications (
			id, name, national_id, email, source, destination, travel_medium,
			medical_report_path, doctor_approval, official_approval, doctor_id,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'PENDING', 'PENDING', '', $9, $9)
		ON CONFLICT (email, national_id) DO UPDATE SET
			name = EXCLUDED.name,
			source = EXCLUDED.source,
			destination = EXCLUDED.destination,
			travel_medium = EXCLUDED.travel_medium,
			medical_report_path = EXCLUDED.medical_report_path,
			doctor_approval = 'PENDING',
			official_approval = 'PENDING',
			doctor_id = '',
			updated_at = EXCLUDED.updated_at
		RETURNING id
	`
	now := time.Now().UTC()
	var id uuid.UUID
	err := r.db.QueryRowContext(ctx, query,
		app.ID,
		app.Name,
		app.NationalID,
		app.Email,
		app.Source,
		app.Destination,
		app.TravelMedium,
		app.MedicalReportPath,
		now,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to upsert application: %w", err)
	}
	return id, nil
}

func (r *applicationRepository) Get(ctx context.Context, id uuid.UUID) (*model.Application, error) {
	query := `SELECT * FROM applications WHERE id = $1`
	var app model.Application
	if err := r.db.GetContext(ctx, &app, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	return &app, nil
}

func (r *applicationRepository) GetByEmailAndNationalID(ctx context.Context, email, nationalID string) (*model.Application, error) {
	query := `SELECT * FROM applications WHERE email = $1 AND national_id = $2`
	var app model.Application
	if err := r.db.GetContext(ctx, &app, query, email, nationalID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	return &app, nil
}

func (r *applicationRepository) GetByNationalID(ctx context.Context, nationalID string) (*model.Application, error) {
	query := `SELECT * FROM applications WHERE national_id = $1 ORDER BY updated_at DESC LIMIT 1`
	var app model.Application
	if err := r.db.GetContext(ctx, &app, query, nationalID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get application by national id: %w", err)
	}
	return &app, nil
}

func (r *applicationRepository) ListByDoctorStatus(ctx context.Context, status model.ApprovalStatus, nationalIDFilter string) ([]*model.Application, error) {
	query := `SELECT * FROM applications WHERE doctor_approval = $1`
	args := []interface{}{status}
	if nationalIDFilter != "" {
		query += ` AND national_id ILIKE $2`
		args = append(args, "%"+nationalIDFilter+"%")
	}
	query += ` ORDER BY created_at`

	var apps []*model.Application
	if err := r.db.SelectContext(ctx, &apps, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return apps, nil
}

// DecideDoctor applies the medical gate decision with an atomic conditional
// update. When the rejection carries a registry record, both writes commit
// in one transaction so no partial state is visible.
func (r *applicationRepository) DecideDoctor(ctx context.Context, id uuid.UUID, decision model.ApprovalStatus, doctorID string, traveler *model.DisapprovedTraveler) (bool, error) {
	query := `
		UPDATE applications
		SET doctor_approval = $1, doctor_id = $2, updated_at = $3
		WHERE id = $4 AND doctor_approval = 'PENDING'
	`

	var won bool
	err := r.WithTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, query, decision, doctorID, time.Now().UTC(), id)
		if err != nil {
			return fmt.Errorf("failed to update doctor approval: %w", err)
		}
		rows, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if rows == 0 {
			return nil
		}
		won = true

		if traveler != nil {
			if err := insertTraveler(ctx, tx, traveler); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return won, nil
}

// DecideOfficial applies the clearance gate decision, gated on the doctor
// gate having approved. The audit record insert shares the transaction.
func (r *applicationRepository) DecideOfficial(ctx context.Context, id uuid.UUID, decision model.ApprovalStatus, audit *model.ApprovedMigrant) (bool, error) {
	query := `
		UPDATE applications
		SET official_approval = $1, updated_at = $2
		WHERE id = $3 AND doctor_approval = 'APPROVED' AND official_approval = 'PENDING'
	`

	var won bool
	err := r.WithTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, query, decision, time.Now().UTC(), id)
		if err != nil {
			return fmt.Errorf("failed to update official approval: %w", err)
		}
		rows, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if rows == 0 {
			return nil
		}
		won = true

		if audit != nil {
			if err := insertApprovedMigrant(ctx, tx, audit); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return won, nil
}
