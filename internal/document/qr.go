package document

import (
	"encoding/json"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/aarogyacheck/clearance-api/internal/model"
)

// Canonical payloads are JSON with sorted keys and no extraneous
// whitespace, so reissuing a document over unchanged state produces a
// byte-identical QR. encoding/json sorts map keys, which gives us the
// canonical form for free.
func canonicalJSON(fields map[string]interface{}) ([]byte, error) {
	payload, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize qr payload: %w", err)
	}
	return payload, nil
}

// ClearanceQRPayload derives the canonical payload embedded in a travel
// clearance. Medical report fields are deliberately absent.
func ClearanceQRPayload(app *model.Application) ([]byte, error) {
	return canonicalJSON(map[string]interface{}{
		"application_id":    app.ID.String(),
		"name":              app.Name,
		"national_id":       app.NationalID,
		"status":            model.ScanStatusApproved,
		"doctor_approval":   string(app.DoctorApproval),
		"official_approval": string(app.OfficialApproval),
		"source":            app.Source,
		"destination":       app.Destination,
		"created_at":        app.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	})
}

// WarningQRPayload derives the canonical payload embedded in a health
// warning notice, from current registry state.
func WarningQRPayload(t *model.DisapprovedTraveler) ([]byte, error) {
	return canonicalJSON(map[string]interface{}{
		"migrant_id":    t.ApplicationID.String(),
		"name":          t.Name,
		"national_id":   t.NationalID,
		"phone":         t.Phone,
		"email":         t.Email,
		"address":       t.CurrentAddress,
		"recovery_date": t.ExpectedRecoveryDate,
		"status":        model.ScanStatusDisapproved,
		"tier":          t.Tier,
		"disease_name":  t.DiseaseName,
	})
}

// EncodeQRPNG renders a payload as a QR code PNG.
func EncodeQRPNG(payload []byte) ([]byte, error) {
	png, err := qrcode.Encode(string(payload), qrcode.Low, 512)
	if err != nil {
		return nil, fmt.Errorf("failed to encode qr code: %w", err)
	}
	return png, nil
}
