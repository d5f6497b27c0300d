package application

import (
	"context"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/google/uuid"

	"github.com/aarogyacheck/clearance-api/internal/document"
	"github.com/aarogyacheck/clearance-api/internal/email"
	"github.com/aarogyacheck/clearance-api/internal/model"
	"github.com/aarogyacheck/clearance-api/internal/repository"
	"github.com/aarogyacheck/clearance-api/internal/storage"
	apperrors "github.com/aarogyacheck/clearance-api/pkg/errors"
	"github.com/aarogyacheck/clearance-api/pkg/logger"
	"github.com/aarogyacheck/clearance-api/pkg/metrics"
)

// Service runs the two-gate approval state machine: submission, the doctor
// (medical) gate, and the official (clearance) gate, with their side
// effects on the registries and notifications.
type Service struct {
	apps     repository.ApplicationRepository
	approved repository.ApprovedMigrantRepository
	files    *storage.FileStore
	mailer   email.Service
	docs     *document.Generator
	log      *logger.Logger
	metrics  *metrics.Metrics
}

func NewService(
	apps repository.ApplicationRepository,
	approved repository.ApprovedMigrantRepository,
	files *storage.FileStore,
	mailer email.Service,
	docs *document.Generator,
	log *logger.Logger,
	m *metrics.Metrics,
) *Service {
	return &Service{
		apps:     apps,
		approved: approved,
		files:    files,
		mailer:   mailer,
		docs:     docs,
		log:      log,
		metrics:  m,
	}
}

// Submit creates or overwrites the application for (email, national_id).
// Both gates reset to PENDING. The medical report is optional.
func (s *Service) Submit(ctx context.Context, req *model.SubmitRequest, report *multipart.FileHeader) (*model.Application, error) {
	if !model.ValidNationalID(req.NationalID) {
		return nil, apperrors.Validation("national id must be exactly 12 digits")
	}

	reportPath := ""
	if report != nil && report.Filename != "" {
		if !s.files.Allowed(report.Filename) {
			return nil, apperrors.Validation("invalid medical report format")
		}
		path, err := s.files.Save(report, storage.CategoryMedicalReports)
		if err != nil {
			return nil, apperrors.Internal(fmt.Errorf("failed to store medical report: %w", err))
		}
		reportPath = path
	}

	app := &model.Application{
		ID:                uuid.New(),
		Name:              req.Name,
		NationalID:        req.NationalID,
		Email:             req.Email,
		Source:            req.Source,
		Destination:       req.Destination,
		TravelMedium:      req.TravelMedium,
		MedicalReportPath: reportPath,
		DoctorApproval:    model.ApprovalPending,
		OfficialApproval:  model.ApprovalPending,
	}

	id, err := s.apps.Upsert(ctx, app)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	app.ID = id

	s.log.Info("application submitted", "application_id", id.String(), "national_id", req.NationalID)
	return app, nil
}

// Login resolves a returning applicant by (email, national_id).
func (s *Service) Login(ctx context.Context, email, nationalID string) (*model.Application, error) {
	app, err := s.apps.GetByEmailAndNationalID(ctx, email, nationalID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if app == nil {
		return nil, apperrors.NotFound("application")
	}
	return app, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Application, error) {
	app, err := s.apps.Get(ctx, id)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if app == nil {
		return nil, apperrors.NotFound("application")
	}
	return app, nil
}

// ListDoctorPending lists applications awaiting the medical gate, with an
// optional case-insensitive national-id substring filter.
func (s *Service) ListDoctorPending(ctx context.Context, nationalIDFilter string) ([]*model.Application, error) {
	apps, err := s.apps.ListByDoctorStatus(ctx, model.ApprovalPending, nationalIDFilter)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return apps, nil
}

// ListDoctorApproved lists applications that cleared the medical gate and
// await the official gate.
func (s *Service) ListDoctorApproved(ctx context.Context) ([]*model.Application, error) {
	apps, err := s.apps.ListByDoctorStatus(ctx, model.ApprovalApproved, "")
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return apps, nil
}

// DoctorDecide applies the medical gate decision. On rejection with a
// health profile the disapproved-traveler record is created in the same
// transaction; without one no registry record is written at all. The
// rejection notification is dispatched only after the commit.
func (s *Service) DoctorDecide(ctx context.Context, id uuid.UUID, doctorID string, req *model.DoctorDecisionRequest) error {
	if !req.Decision.Valid() {
		return apperrors.Validation("decision must be APPROVED or REJECTED")
	}

	app, err := s.apps.Get(ctx, id)
	if err != nil {
		return apperrors.Internal(err)
	}
	if app == nil {
		return apperrors.NotFound("application")
	}
	if app.DoctorApproval != model.ApprovalPending {
		return apperrors.InvalidTransition("application already decided by a doctor")
	}

	var traveler *model.DisapprovedTraveler
	if req.Decision == model.ApprovalRejected && req.HealthData != nil {
		traveler = travelerFromProfile(app, doctorID, req.HealthData)
	}

	won, err := s.apps.DecideDoctor(ctx, id, req.Decision, doctorID, traveler)
	if err != nil {
		return apperrors.Internal(err)
	}
	if !won {
		// A concurrent session decided first.
		return apperrors.InvalidTransition("application already decided by a doctor")
	}

	s.metrics.DecisionTotal.WithLabelValues("doctor", string(req.Decision)).Inc()

	if req.Decision == model.ApprovalRejected {
		s.notify(ctx, app.Email, "Aarogya Check - Doctor Rejection", doctorRejectionBody(app.Name))
	}
	return nil
}

// OfficialDecide applies the clearance gate decision. InvalidTransition
// unless the doctor gate has approved and the official gate is still
// pending. Approval requires a letter artifact and creates the immutable
// audit record in the same transaction.
func (s *Service) OfficialDecide(ctx context.Context, id uuid.UUID, officialID string, decision model.ApprovalStatus, letter *multipart.FileHeader) error {
	if !decision.Valid() {
		return apperrors.Validation("decision must be APPROVED or REJECTED")
	}

	app, err := s.apps.Get(ctx, id)
	if err != nil {
		return apperrors.Internal(err)
	}
	if app == nil {
		return apperrors.NotFound("application")
	}
	if app.DoctorApproval != model.ApprovalApproved {
		return apperrors.InvalidTransition("doctor approval pending")
	}
	if app.OfficialApproval != model.ApprovalPending {
		return apperrors.InvalidTransition("application already decided by an official")
	}

	var audit *model.ApprovedMigrant
	letterPath := ""
	if decision == model.ApprovalApproved {
		if letter == nil || letter.Filename == "" {
			return apperrors.Validation("approval letter file required for approval")
		}
		if !s.files.Allowed(letter.Filename) {
			return apperrors.Validation("invalid approval letter format")
		}
		letterPath, err = s.files.Save(letter, storage.CategoryApprovalLetters)
		if err != nil {
			return apperrors.Internal(fmt.Errorf("failed to store approval letter: %w", err))
		}

		audit = &model.ApprovedMigrant{
			ID:                 uuid.New(),
			ApplicationID:      app.ID,
			Name:               app.Name,
			NationalID:         app.NationalID,
			Source:             app.Source,
			Destination:        app.Destination,
			TravelMedium:       app.TravelMedium,
			OfficialID:         officialID,
			ApprovalLetterPath: letterPath,
			ApprovedAt:         time.Now().UTC(),
		}
	}

	won, err := s.apps.DecideOfficial(ctx, id, decision, audit)
	if err != nil {
		return apperrors.Internal(err)
	}
	if !won {
		return apperrors.InvalidTransition("application already decided by an official")
	}

	s.metrics.DecisionTotal.WithLabelValues("official", string(decision)).Inc()

	if decision == model.ApprovalApproved {
		s.notifyWithFile(ctx, app.Email, "Aarogya Check Approval Letter",
			officialApprovalBody(app.Name, officialID), letterPath)
	} else {
		s.notify(ctx, app.Email, "Aarogya Check - Official Rejection", officialRejectionBody(app.Name))
	}
	return nil
}

// Clearance renders the travel clearance PDF. Only available in the
// fully-approved terminal state.
func (s *Service) Clearance(ctx context.Context, id uuid.UUID) ([]byte, error) {
	app, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !app.FullyApproved() {
		return nil, apperrors.InvalidTransition("clearance available only after all approvals")
	}

	doc, err := s.docs.Clearance(app)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return doc, nil
}

// ApprovalLetterPath resolves the stored approval letter for an approved
// application.
func (s *Service) ApprovalLetterPath(ctx context.Context, applicationID uuid.UUID) (string, error) {
	record, err := s.approved.GetByApplicationID(ctx, applicationID)
	if err != nil {
		return "", apperrors.Internal(err)
	}
	if record == nil || record.ApprovalLetterPath == "" {
		return "", apperrors.NotFound("approval letter")
	}
	return record.ApprovalLetterPath, nil
}

// MedicalReportPath resolves the uploaded medical report for review.
func (s *Service) MedicalReportPath(ctx context.Context, applicationID uuid.UUID) (string, error) {
	app, err := s.Get(ctx, applicationID)
	if err != nil {
		return "", err
	}
	if app.MedicalReportPath == "" {
		return "", apperrors.NotFound("medical report")
	}
	return app.MedicalReportPath, nil
}

func travelerFromProfile(app *model.Application, doctorID string, p *model.HealthProfile) *model.DisapprovedTraveler {
	name := p.Name
	if name == "" {
		name = app.Name
	}
	mail := p.Email
	if mail == "" {
		mail = app.Email
	}
	return &model.DisapprovedTraveler{
		ID:                   uuid.New(),
		ApplicationID:        app.ID,
		Name:                 name,
		NationalID:           app.NationalID,
		Email:                mail,
		Phone:                p.PhoneNumber,
		Age:                  p.Age,
		CurrentAddress:       p.CurrentAddress,
		DiseaseName:          p.DiseaseName,
		Tier:                 p.NormalizedTier(),
		ExpectedRecoveryDate: p.ExpectedRecoveryDate,
		DoctorID:             doctorID,
	}
}

// notify dispatches best-effort: the state change has already committed, so
// a failed send is logged and swallowed.
func (s *Service) notify(ctx context.Context, to, subject, body string) {
	if err := s.mailer.Send(ctx, to, subject, body); err != nil {
		s.metrics.NotificationTotal.WithLabelValues("failed").Inc()
		s.log.Error(err, "notification dispatch failed", "to", to, "subject", subject)
		return
	}
	s.metrics.NotificationTotal.WithLabelValues("sent").Inc()
}

func (s *Service) notifyWithFile(ctx context.Context, to, subject, body, path string) {
	if err := s.mailer.SendWithFile(ctx, to, subject, body, path); err != nil {
		s.metrics.NotificationTotal.WithLabelValues("failed").Inc()
		s.log.Error(err, "notification dispatch failed", "to", to, "subject", subject)
		return
	}
	s.metrics.NotificationTotal.WithLabelValues("sent").Inc()
}

func doctorRejectionBody(name string) string {
	return fmt.Sprintf("Dear %s,\n\n"+
		"Your application has been rejected by the medical reviewer.\n"+
		"Reason: medical fitness not approved.\n\n"+
		"Regards,\nAarogya Check", name)
}

func officialApprovalBody(name, officialID string) string {
	return fmt.Sprintf("Dear %s,\n\n"+
		"Your travel clearance has been approved by a Government Official.\n"+
		"Issued by Official ID: %s\n\n"+
		"You can download your clearance PDF from the migrant dashboard.\n"+
		"Your official approval letter is attached with this email.\n\n"+
		"Regards,\nAarogya Check (Government Mailbox)", name, officialID)
}

func officialRejectionBody(name string) string {
	return fmt.Sprintf("Dear %s,\n\n"+
		"Your application has been rejected by the Government Official.\n"+
		"You may contact support for further details.\n\n"+
		"Regards,\nAarogya Check (Government Mailbox)", name)
}
