package model

// VerdictFlag is the scanning actor's three-way outcome classification.
type VerdictFlag string

const (
	FlagRed    VerdictFlag = "RED"
	FlagYellow VerdictFlag = "YELLOW"
	FlagGreen  VerdictFlag = "GREEN"
)

// Scan payload status discriminators.
const (
	ScanStatusApproved    = "APPROVED"
	ScanStatusDisapproved = "DISAPPROVED"
	ScanStatusPending     = "PENDING"
)

// ScanVerdict is the structured result of verifying a scanned QR payload
// against the backing stores.
type ScanVerdict struct {
	Status        string      `json:"status"`
	Flag          VerdictFlag `json:"flag"`
	Name          string      `json:"name,omitempty"`
	NationalID    string      `json:"national_id"`
	Tier          int         `json:"tier,omitempty"`
	PenaltyAmount float64     `json:"penalty_amount,omitempty"`
	DiseaseName   string      `json:"disease_name,omitempty"`
	PhoneNumber   string      `json:"phone_number,omitempty"`
	Email         string      `json:"email,omitempty"`
	Source        string      `json:"source,omitempty"`
	Destination   string      `json:"destination,omitempty"`
	// Verified is false when the verdict rests on client-claimed fields
	// because the backing store had no matching record.
	Verified bool   `json:"verified"`
	Message  string `json:"message"`
}

// ScanRequest carries the opaque payload string read from a QR code.
type ScanRequest struct {
	QRData string `json:"qr_data" binding:"required"`
}
