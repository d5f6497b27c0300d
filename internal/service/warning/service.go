package warning

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/aarogyacheck/clearance-api/internal/document"
	"github.com/aarogyacheck/clearance-api/internal/email"
	"github.com/aarogyacheck/clearance-api/internal/model"
	"github.com/aarogyacheck/clearance-api/internal/repository"
	apperrors "github.com/aarogyacheck/clearance-api/pkg/errors"
	"github.com/aarogyacheck/clearance-api/pkg/logger"
	"github.com/aarogyacheck/clearance-api/pkg/metrics"
)

// Service owns the disapproved-traveler registry on behalf of the health
// administration: listings, warning document issuance, and reissue.
type Service struct {
	travelers repository.TravelerRepository
	mailer    email.Service
	docs      *document.Generator
	log       *logger.Logger
	metrics   *metrics.Metrics
}

func NewService(
	travelers repository.TravelerRepository,
	mailer email.Service,
	docs *document.Generator,
	log *logger.Logger,
	m *metrics.Metrics,
) *Service {
	return &Service{
		travelers: travelers,
		mailer:    mailer,
		docs:      docs,
		log:       log,
		metrics:   m,
	}
}

func (s *Service) List(ctx context.Context) ([]*model.TravelerSummary, error) {
	travelers, err := s.travelers.List(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	summaries := make([]*model.TravelerSummary, 0, len(travelers))
	for _, t := range travelers {
		summaries = append(summaries, t.Summary())
	}
	return summaries, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.DisapprovedTraveler, error) {
	traveler, err := s.travelers.Get(ctx, id)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if traveler == nil {
		return nil, apperrors.NotFound("traveler")
	}
	return traveler, nil
}

// Issue re-derives the canonical QR payload from current registry state,
// renders the warning notice, marks the record issued, and dispatches the
// document. Reissue overwrites payload state in place; the notification is
// sent every time.
func (s *Service) Issue(ctx context.Context, id uuid.UUID) error {
	traveler, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	payload, err := document.WarningQRPayload(traveler)
	if err != nil {
		return apperrors.Internal(err)
	}
	doc, err := s.docs.WarningWithPayload(traveler, payload)
	if err != nil {
		return apperrors.Internal(err)
	}

	if err := s.travelers.MarkQRGenerated(ctx, id, string(payload)); err != nil {
		return apperrors.Internal(err)
	}

	s.metrics.WarningIssuedTotal.Inc()
	s.log.Info("health warning issued", "traveler_id", id.String(), "national_id", traveler.NationalID)

	// Best-effort after the registry update has committed.
	attachment := email.Attachment{
		Name: fmt.Sprintf("health_warning_%s.pdf", traveler.NationalID),
		Data: doc,
	}
	if err := s.mailer.SendWithAttachment(ctx, traveler.Email,
		"Health Warning Notice - Government Health Administration",
		warningBody(traveler.Name), attachment); err != nil {
		s.metrics.NotificationTotal.WithLabelValues("failed").Inc()
		s.log.Error(err, "warning notification dispatch failed", "to", traveler.Email)
	} else {
		s.metrics.NotificationTotal.WithLabelValues("sent").Inc()
	}
	return nil
}

// Letter regenerates the warning notice on demand without touching
// issuance state.
func (s *Service) Letter(ctx context.Context, id uuid.UUID) ([]byte, string, error) {
	traveler, err := s.Get(ctx, id)
	if err != nil {
		return nil, "", err
	}

	doc, err := s.docs.Warning(traveler)
	if err != nil {
		return nil, "", apperrors.Internal(err)
	}
	filename := fmt.Sprintf("health_warning_%s.pdf", traveler.NationalID)
	return doc, filename, nil
}

// LetterForNationalID serves the migrant-facing download: available only
// once a warning has actually been issued.
func (s *Service) LetterForNationalID(ctx context.Context, nationalID string) ([]byte, string, error) {
	traveler, err := s.travelers.GetByNationalID(ctx, nationalID)
	if err != nil {
		return nil, "", apperrors.Internal(err)
	}
	if traveler == nil || !traveler.QRGenerated {
		return nil, "", apperrors.NotFound("health warning")
	}

	doc, err := s.docs.Warning(traveler)
	if err != nil {
		return nil, "", apperrors.Internal(err)
	}
	filename := fmt.Sprintf("health_warning_%s.pdf", traveler.NationalID)
	return doc, filename, nil
}

func warningBody(name string) string {
	return fmt.Sprintf("Dear %s,\n\n"+
		"You have been issued a Health Warning Notice due to medical disapproval.\n"+
		"Please find attached your health warning letter with QR code.\n\n"+
		"IMPORTANT: You are required to stay at home and follow all health guidelines.\n"+
		"A fine of Rs. %d will be levied if you are found violating the safety protocols.\n\n"+
		"Please scan the QR code to view your health status details.\n\n"+
		"Regards,\nGovernment Health Administration", name, model.FlatPenaltyAmount)
}
