package account

import (
	"context"
	"fmt"
	"mime/multipart"

	"github.com/aarogyacheck/clearance-api/internal/model"
	"github.com/aarogyacheck/clearance-api/internal/repository"
	"github.com/aarogyacheck/clearance-api/internal/storage"
	"github.com/aarogyacheck/clearance-api/pkg/auth"
	apperrors "github.com/aarogyacheck/clearance-api/pkg/errors"
	"github.com/aarogyacheck/clearance-api/pkg/logger"
	"github.com/aarogyacheck/clearance-api/pkg/security"
)

// Verification card size bounds, the placeholder for a real identity check.
const (
	verificationCardMinSize = 1024
	verificationCardMaxSize = 5 * 1024 * 1024
)

// Service handles credential verification and doctor provisioning for the
// four credentialed roles. Each role's verifier is injected so real
// identity providers can replace the placeholder tables.
type Service struct {
	doctors        repository.DoctorAccountRepository
	hasher         security.PasswordHasher
	doctorFallback auth.CredentialVerifier
	officials      auth.CredentialVerifier
	healthAdmin    auth.CredentialVerifier
	authority      auth.CredentialVerifier
	files          *storage.FileStore
	log            *logger.Logger
}

func NewService(
	doctors repository.DoctorAccountRepository,
	hasher security.PasswordHasher,
	doctorFallback auth.CredentialVerifier,
	officials auth.CredentialVerifier,
	healthAdmin auth.CredentialVerifier,
	authority auth.CredentialVerifier,
	files *storage.FileStore,
	log *logger.Logger,
) *Service {
	return &Service{
		doctors:        doctors,
		hasher:         hasher,
		doctorFallback: doctorFallback,
		officials:      officials,
		healthAdmin:    healthAdmin,
		authority:      authority,
		files:          files,
		log:            log,
	}
}

// VerifyDoctor checks the DB-backed account store first and falls back to
// the static config table for ids never provisioned through the API.
func (s *Service) VerifyDoctor(ctx context.Context, doctorID, password string) error {
	account, err := s.doctors.Get(ctx, doctorID)
	if err != nil {
		return apperrors.Internal(err)
	}
	if account != nil {
		if s.hasher.Compare(account.PasswordHash, password) != nil {
			return apperrors.Unauthorized("invalid credentials")
		}
		return nil
	}
	if !s.doctorFallback.Verify(ctx, doctorID, password) {
		return apperrors.Unauthorized("invalid credentials")
	}
	return nil
}

// VerifyOfficial checks the verification card upload (the "AI
// verification" stand-in: allowed format, size between 1KB and 5MB) before
// the shared-secret credential table.
func (s *Service) VerifyOfficial(ctx context.Context, officialID, password string, card *multipart.FileHeader) error {
	if card == nil || card.Filename == "" {
		return apperrors.Validation("verification card is required")
	}
	if !s.files.Allowed(card.Filename) {
		return apperrors.Validation("invalid verification card format")
	}

	path, err := s.files.Save(card, storage.CategoryVerificationCards)
	if err != nil {
		return apperrors.Internal(fmt.Errorf("failed to store verification card: %w", err))
	}
	size, err := s.files.Size(path)
	if err != nil {
		return apperrors.Internal(err)
	}
	if size < verificationCardMinSize {
		return apperrors.Unauthorized("verification failed: verification card too small")
	}
	if size > verificationCardMaxSize {
		return apperrors.Unauthorized("verification failed: verification card too large")
	}

	if !s.officials.Verify(ctx, officialID, password) {
		return apperrors.Unauthorized("invalid credentials")
	}
	return nil
}

func (s *Service) VerifyHealthAdmin(ctx context.Context, adminID, password string) error {
	if !s.healthAdmin.Verify(ctx, adminID, password) {
		return apperrors.Unauthorized("invalid credentials")
	}
	return nil
}

func (s *Service) VerifyAuthority(ctx context.Context, authorityID, password string) error {
	if !s.authority.Verify(ctx, authorityID, password) {
		return apperrors.Unauthorized("invalid credentials")
	}
	return nil
}

// CreateDoctor provisions a DB-backed doctor credential. Duplicate ids are
// a validation failure, not an overwrite.
func (s *Service) CreateDoctor(ctx context.Context, req *model.CreateDoctorRequest, createdBy string) error {
	existing, err := s.doctors.Get(ctx, req.DoctorID)
	if err != nil {
		return apperrors.Internal(err)
	}
	if existing != nil {
		return apperrors.Validation("doctor id already exists")
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return apperrors.Validation(err.Error())
	}

	if err := s.doctors.Create(ctx, &model.DoctorAccount{
		DoctorID:     req.DoctorID,
		PasswordHash: hash,
		CreatedBy:    createdBy,
	}); err != nil {
		return apperrors.Internal(err)
	}

	s.log.Info("doctor account created", "doctor_id", req.DoctorID, "created_by", createdBy)
	return nil
}

// SeedDoctors ensures the default config-table doctors exist in the
// DB-backed store, mirroring startup seeding in the original deployment.
func (s *Service) SeedDoctors(ctx context.Context, defaults map[string]string) error {
	for id, password := range defaults {
		existing, err := s.doctors.Get(ctx, id)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}
		hash, err := s.hasher.Hash(password)
		if err != nil {
			s.log.Warn("skipping doctor seed with unusable password", "doctor_id", id)
			continue
		}
		if err := s.doctors.Create(ctx, &model.DoctorAccount{
			DoctorID:     id,
			PasswordHash: hash,
			CreatedBy:    "system",
		}); err != nil {
			return err
		}
	}
	return nil
}
