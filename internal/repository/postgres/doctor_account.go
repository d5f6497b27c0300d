package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/aarogyacheck/clearance-api/internal/model"
	"github.com/aarogyacheck/clearance-api/internal/repository"
)

type doctorAccountRepository struct {
	BaseRepository
}

func NewDoctorAccountRepository(db *sqlx.DB) repository.DoctorAccountRepository {
	return &doctorAccountRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *doctorAccountRepository) Create(ctx context.Context, account *model.DoctorAccount) error {
	query := `
		INSERT INTO doctor_accounts (doctor_id, password_hash, created_by, created_at)
		VALUES ($1, $2, $3, $4)
	`
	if account.CreatedAt.IsZero() {
		account.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, query,
		account.DoctorID,
		account.PasswordHash,
		account.CreatedBy,
		account.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create doctor account: %w", err)
	}
	return nil
}

func (r *doctorAccountRepository) Get(ctx context.Context, doctorID string) (*model.DoctorAccount, error) {
	query := `SELECT * FROM doctor_accounts WHERE doctor_id = $1`
	var account model.DoctorAccount
	if err := r.db.GetContext(ctx, &account, query, doctorID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get doctor account: %w", err)
	}
	return &account, nil
}
