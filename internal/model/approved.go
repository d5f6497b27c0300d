package model

import (
	"time"

	"github.com/google/uuid"
)

// ApprovedMigrant is the immutable audit record created exactly once when
// the official gate approves. Never updated after insert.
type ApprovedMigrant struct {
	ID                 uuid.UUID `db:"id" json:"id"`
	ApplicationID      uuid.UUID `db:"application_id" json:"application_id"`
	Name               string    `db:"name" json:"name"`
	NationalID         string    `db:"national_id" json:"national_id"`
	Source             string    `db:"source" json:"source"`
	Destination        string    `db:"destination" json:"destination"`
	TravelMedium       string    `db:"travel_medium" json:"travel_medium"`
	OfficialID         string    `db:"official_id" json:"official_id"`
	ApprovalLetterPath string    `db:"approval_letter_path" json:"-"`
	ApprovedAt         time.Time `db:"approved_at" json:"approved_at"`
}
