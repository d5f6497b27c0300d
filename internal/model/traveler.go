package model

import (
	"time"

	"github.com/google/uuid"
)

// Tier bounds for the severity classification driving penalty scale.
const (
	TierMin     = 1
	TierMax     = 3
	TierDefault = 1
)

// HealthProfile is the structured health block a doctor may attach to a
// rejection. Without it no registry record is written at all.
type HealthProfile struct {
	Name                 string `json:"name"`
	Age                  int    `json:"age"`
	CurrentAddress       string `json:"current_address"`
	Email                string `json:"email"`
	PhoneNumber          string `json:"phone_number"`
	DiseaseName          string `json:"disease_name" binding:"required"`
	Tier                 int    `json:"tier"`
	ExpectedRecoveryDate string `json:"expected_recovery_date"`
}

// NormalizedTier clamps an out-of-range tier to the default.
func (p *HealthProfile) NormalizedTier() int {
	if p.Tier < TierMin || p.Tier > TierMax {
		return TierDefault
	}
	return p.Tier
}

// DisapprovedTraveler is the health-compliance registry entry for a
// medically rejected applicant. Created exactly once per rejection that
// carries a health profile; owned by the health administration after that.
type DisapprovedTraveler struct {
	ID                   uuid.UUID `db:"id" json:"id"`
	ApplicationID        uuid.UUID `db:"application_id" json:"application_id"`
	Name                 string    `db:"name" json:"name"`
	NationalID           string    `db:"national_id" json:"national_id"`
	Email                string    `db:"email" json:"email"`
	Phone                string    `db:"phone" json:"phone_number"`
	Age                  int       `db:"age" json:"age,omitempty"`
	CurrentAddress       string    `db:"current_address" json:"current_address"`
	DiseaseName          string    `db:"disease_name" json:"disease_name"`
	Tier                 int       `db:"tier" json:"tier"`
	ExpectedRecoveryDate string    `db:"expected_recovery_date" json:"expected_recovery_date"`
	DoctorID             string    `db:"doctor_id" json:"doctor_id"`
	QRGenerated          bool      `db:"qr_generated" json:"qr_generated"`
	QRPayload            string    `db:"qr_payload" json:"-"`
	CreatedAt            time.Time `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time `db:"updated_at" json:"-"`
}

// TravelerSummary is the health-admin listing row.
type TravelerSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	NationalID  string `json:"national_id"`
	Tier        int    `json:"tier"`
	DiseaseName string `json:"disease_name"`
	QRGenerated bool   `json:"qr_generated"`
}

// AuthorityTravelerView is the deliberately narrower field set shown to the
// authority role.
type AuthorityTravelerView struct {
	Name       string `json:"name"`
	NationalID string `json:"national_id"`
	Tier       int    `json:"tier"`
}

func (t *DisapprovedTraveler) Summary() *TravelerSummary {
	return &TravelerSummary{
		ID:          t.ID.String(),
		Name:        t.Name,
		NationalID:  t.NationalID,
		Tier:        t.Tier,
		DiseaseName: t.DiseaseName,
		QRGenerated: t.QRGenerated,
	}
}

func (t *DisapprovedTraveler) AuthorityView() *AuthorityTravelerView {
	return &AuthorityTravelerView{
		Name:       t.Name,
		NationalID: t.NationalID,
		Tier:       t.Tier,
	}
}
