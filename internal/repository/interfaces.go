package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/aarogyacheck/clearance-api/internal/model"
)

// ApplicationRepository persists travel applications and runs the guarded
// state transitions. Both decision methods are atomic conditional updates:
// they report false when the state precondition did not hold, so concurrent
// decisions resolve to at most one winner.
type ApplicationRepository interface {
	Upsert(ctx context.Context, app *model.Application) (uuid.UUID, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Application, error)
	GetByEmailAndNationalID(ctx context.Context, email, nationalID string) (*model.Application, error)
	GetByNationalID(ctx context.Context, nationalID string) (*model.Application, error)
	ListByDoctorStatus(ctx context.Context, status model.ApprovalStatus, nationalIDFilter string) ([]*model.Application, error)
	DecideDoctor(ctx context.Context, id uuid.UUID, decision model.ApprovalStatus, doctorID string, traveler *model.DisapprovedTraveler) (bool, error)
	DecideOfficial(ctx context.Context, id uuid.UUID, decision model.ApprovalStatus, audit *model.ApprovedMigrant) (bool, error)
}

// TravelerRepository is the disapproved-traveler registry.
type TravelerRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*model.DisapprovedTraveler, error)
	GetByNationalID(ctx context.Context, nationalID string) (*model.DisapprovedTraveler, error)
	List(ctx context.Context) ([]*model.DisapprovedTraveler, error)
	MarkQRGenerated(ctx context.Context, id uuid.UUID, payload string) error
}

// ApprovedMigrantRepository reads the immutable approval audit records.
// Writes happen only inside DecideOfficial.
type ApprovedMigrantRepository interface {
	GetByApplicationID(ctx context.Context, applicationID uuid.UUID) (*model.ApprovedMigrant, error)
}

// PenaltyRepository is the append-only penalty ledger.
type PenaltyRepository interface {
	Create(ctx context.Context, record *model.PenaltyRecord) error
	ExistsRecent(ctx context.Context, nationalID, reason string, window time.Duration) (bool, error)
}

// DoctorAccountRepository is the DB-backed doctor credential store.
type DoctorAccountRepository interface {
	Create(ctx context.Context, account *model.DoctorAccount) error
	Get(ctx context.Context, doctorID string) (*model.DoctorAccount, error)
}
