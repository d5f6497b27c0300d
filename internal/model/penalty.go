package model

import (
	"time"

	"github.com/google/uuid"
)

// tierPenalties is the scan-time penalty scale. Issuance-time warning
// letters quote a flat amount instead; only scanning is tier-scaled.
var tierPenalties = map[int]float64{
	1: 5000,
	2: 10000,
	3: 20000,
}

// FlatPenaltyAmount is the amount printed on warning letters.
const FlatPenaltyAmount = 5000

// PenaltyForTier returns the penalty for a tier, defaulting to the tier-1
// amount for anything outside the known set.
func PenaltyForTier(tier int) float64 {
	if amount, ok := tierPenalties[tier]; ok {
		return amount
	}
	return tierPenalties[1]
}

// PenaltyRecord is one append-only ledger entry. Rows are never mutated or
// deleted.
type PenaltyRecord struct {
	ID          uuid.UUID `db:"id" json:"id"`
	NationalID  string    `db:"national_id" json:"national_id"`
	Amount      float64   `db:"amount" json:"amount"`
	Reason      string    `db:"reason" json:"reason"`
	AuthorityID string    `db:"authority_id" json:"authority_id"`
	LeviedAt    time.Time `db:"levied_at" json:"levied_at"`
}

// LevyPenaltyRequest is the authority's levy form. The amount is
// caller-supplied at levy time, not re-derived from the tier table.
type LevyPenaltyRequest struct {
	NationalID string  `json:"national_id" binding:"required,national_id"`
	Amount     float64 `json:"amount" binding:"required,gt=0"`
	Reason     string  `json:"reason"`
}
