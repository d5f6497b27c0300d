package scan

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aarogyacheck/clearance-api/internal/model"
	"github.com/aarogyacheck/clearance-api/internal/repository"
	apperrors "github.com/aarogyacheck/clearance-api/pkg/errors"
	"github.com/aarogyacheck/clearance-api/pkg/logger"
	"github.com/aarogyacheck/clearance-api/pkg/metrics"
)

// scannedPayload is the untrusted structure decoded from a QR code. Only
// status and national_id are required; everything else is client-claimed
// and used solely where the backing store cannot answer.
type scannedPayload struct {
	Status      string          `json:"status"`
	NationalID  string          `json:"national_id"`
	Name        string          `json:"name"`
	Tier        json.RawMessage `json:"tier"`
	Phone       string          `json:"phone"`
	Email       string          `json:"email"`
	Source      string          `json:"source"`
	Destination string          `json:"destination"`
}

func (p *scannedPayload) claimedTier() int {
	if len(p.Tier) == 0 {
		return 0
	}
	var tier int
	if err := json.Unmarshal(p.Tier, &tier); err != nil {
		return 0
	}
	return tier
}

// Service implements the checkpoint-side verification protocol: take an
// untrusted scanned payload, re-derive ground truth from the backing
// stores, and compute a verdict plus any penalty.
type Service struct {
	apps        repository.ApplicationRepository
	travelers   repository.TravelerRepository
	penalties   repository.PenaltyRepository
	dedupWindow time.Duration
	log         *logger.Logger
	metrics     *metrics.Metrics
}

func NewService(
	apps repository.ApplicationRepository,
	travelers repository.TravelerRepository,
	penalties repository.PenaltyRepository,
	dedupWindow time.Duration,
	log *logger.Logger,
	m *metrics.Metrics,
) *Service {
	return &Service{
		apps:        apps,
		travelers:   travelers,
		penalties:   penalties,
		dedupWindow: dedupWindow,
		log:         log,
		metrics:     m,
	}
}

// Verify classifies a scanned payload as RED, YELLOW, or GREEN. Malformed
// input is a ValidationError; a well-formed payload for an unknown traveler
// is never an error, only a verdict.
func (s *Service) Verify(ctx context.Context, qrData string) (*model.ScanVerdict, error) {
	var payload scannedPayload
	if err := json.Unmarshal([]byte(qrData), &payload); err != nil {
		return nil, apperrors.Validation("invalid QR code format")
	}
	if payload.Status == "" {
		return nil, apperrors.Validation("invalid QR code: status not found")
	}
	if payload.NationalID == "" {
		return nil, apperrors.Validation("invalid QR code: national id not found")
	}

	switch payload.Status {
	case model.ScanStatusDisapproved:
		return s.verifyDisapproved(ctx, &payload)
	case model.ScanStatusApproved:
		return s.verifyApproved(ctx, &payload)
	default:
		return nil, apperrors.Validation("unknown status in QR code")
	}
}

func (s *Service) verifyDisapproved(ctx context.Context, payload *scannedPayload) (*model.ScanVerdict, error) {
	traveler, err := s.travelers.GetByNationalID(ctx, payload.NationalID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	if traveler == nil {
		// No registry record: the verdict rests on client-claimed fields.
		// Verified=false lets the operator see the gap.
		s.metrics.ScanTotal.WithLabelValues(string(model.FlagRed)).Inc()
		return &model.ScanVerdict{
			Status:     model.ScanStatusDisapproved,
			Flag:       model.FlagRed,
			Name:       payload.Name,
			NationalID: payload.NationalID,
			Tier:       payload.claimedTier(),
			Verified:   false,
			Message:    "Traveler not in registry; details are as claimed by the scanned code",
		}, nil
	}

	penalty := model.PenaltyForTier(traveler.Tier)
	s.metrics.ScanTotal.WithLabelValues(string(model.FlagRed)).Inc()
	return &model.ScanVerdict{
		Status:        model.ScanStatusDisapproved,
		Flag:          model.FlagRed,
		Name:          traveler.Name,
		NationalID:    traveler.NationalID,
		Tier:          traveler.Tier,
		PenaltyAmount: penalty,
		DiseaseName:   traveler.DiseaseName,
		Verified:      true,
		Message:       fmt.Sprintf("DISAPPROVED TRAVELER DETECTED - Tier %d", traveler.Tier),
	}, nil
}

func (s *Service) verifyApproved(ctx context.Context, payload *scannedPayload) (*model.ScanVerdict, error) {
	app, err := s.apps.GetByNationalID(ctx, payload.NationalID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	if app != nil && app.FullyApproved() {
		// Contact fields are not security-sensitive: prefer the scanned
		// values, fall back to the stored record.
		s.metrics.ScanTotal.WithLabelValues(string(model.FlagGreen)).Inc()
		return &model.ScanVerdict{
			Status:      model.ScanStatusApproved,
			Flag:        model.FlagGreen,
			Name:        fallback(payload.Name, app.Name),
			NationalID:  payload.NationalID,
			PhoneNumber: payload.Phone,
			Email:       fallback(payload.Email, app.Email),
			Source:      fallback(payload.Source, app.Source),
			Destination: fallback(payload.Destination, app.Destination),
			Verified:    true,
			Message:     "APPROVED TRAVELER - Clear to travel",
		}, nil
	}

	s.metrics.ScanTotal.WithLabelValues(string(model.FlagYellow)).Inc()
	return &model.ScanVerdict{
		Status:     model.ScanStatusPending,
		Flag:       model.FlagYellow,
		Name:       payload.Name,
		NationalID: payload.NationalID,
		Verified:   app != nil,
		Message:    "Traveler status is pending approval",
	}, nil
}

// Levy appends one penalty record to the ledger. When a dedup window is
// configured, a repeat levy for the same national id and reason inside the
// window is rejected instead of double-counted.
func (s *Service) Levy(ctx context.Context, req *model.LevyPenaltyRequest, authorityID string) (*model.PenaltyRecord, error) {
	if req.NationalID == "" || req.Amount <= 0 {
		return nil, apperrors.Validation("national id and penalty amount are required")
	}

	reason := req.Reason
	if reason == "" {
		reason = "Violation of health protocols"
	}

	if s.dedupWindow > 0 {
		exists, err := s.penalties.ExistsRecent(ctx, req.NationalID, reason, s.dedupWindow)
		if err != nil {
			return nil, apperrors.Internal(err)
		}
		if exists {
			return nil, apperrors.Validation("an identical penalty was already levied recently")
		}
	}

	record := &model.PenaltyRecord{
		ID:          uuid.New(),
		NationalID:  req.NationalID,
		Amount:      req.Amount,
		Reason:      reason,
		AuthorityID: authorityID,
		LeviedAt:    time.Now().UTC(),
	}
	if err := s.penalties.Create(ctx, record); err != nil {
		return nil, apperrors.Internal(err)
	}

	s.metrics.PenaltyLeviedTotal.Inc()
	s.log.Info("penalty levied", "national_id", req.NationalID, "amount", req.Amount, "authority_id", authorityID)
	return record, nil
}

// ListTravelers returns the narrow authority view of the registry.
func (s *Service) ListTravelers(ctx context.Context) ([]*model.AuthorityTravelerView, error) {
	travelers, err := s.travelers.List(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	views := make([]*model.AuthorityTravelerView, 0, len(travelers))
	for _, t := range travelers {
		views = append(views, t.AuthorityView())
	}
	return views, nil
}

func fallback(claimed, stored string) string {
	if claimed != "" {
		return claimed
	}
	return stored
}
