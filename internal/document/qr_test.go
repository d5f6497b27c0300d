package document

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aarogyacheck/clearance-api/internal/model"
)

func testApplication() *model.Application {
	return &model.Application{
		ID:                uuid.MustParse("11111111-2222-3333-4444-555555555555"),
		Name:              "Ravi Kumar",
		NationalID:        "123456789012",
		Email:             "ravi@example.com",
		Source:            "Mumbai",
		Destination:       "Delhi",
		TravelMedium:      "Flight",
		MedicalReportPath: "uploads/medical_reports/abc_report.pdf",
		DoctorApproval:    model.ApprovalApproved,
		OfficialApproval:  model.ApprovalApproved,
		CreatedAt:         time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC),
	}
}

func testTraveler() *model.DisapprovedTraveler {
	return &model.DisapprovedTraveler{
		ID:                   uuid.MustParse("aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee"),
		ApplicationID:        uuid.MustParse("11111111-2222-3333-4444-555555555555"),
		Name:                 "Sita Devi",
		NationalID:           "987654321098",
		Email:                "sita@example.com",
		Phone:                "9876543210",
		CurrentAddress:       "12 MG Road, Pune",
		DiseaseName:          "Tuberculosis",
		Tier:                 2,
		ExpectedRecoveryDate: "2024-06-01",
		DoctorID:             "doctor1",
	}
}

func TestClearanceQRPayloadDeterministic(t *testing.T) {
	app := testApplication()

	first, err := ClearanceQRPayload(app)
	require.NoError(t, err)
	second, err := ClearanceQRPayload(app)
	require.NoError(t, err)

	assert.True(t, bytes.Equal(first, second), "payload must be byte-identical across reissues")
}

func TestClearanceQRPayloadFields(t *testing.T) {
	payload, err := ClearanceQRPayload(testApplication())
	require.NoError(t, err)

	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(payload, &fields))

	assert.Equal(t, "APPROVED", fields["status"])
	assert.Equal(t, "123456789012", fields["national_id"])
	assert.Equal(t, "APPROVED", fields["doctor_approval"])
	assert.Equal(t, "APPROVED", fields["official_approval"])
	assert.Equal(t, "2024-03-15T10:30:00Z", fields["created_at"])

	// Medical details never leak into the clearance payload.
	assert.NotContains(t, fields, "medical_report_path")
	assert.NotContains(t, fields, "disease_name")
	assert.NotContains(t, fields, "tier")
}

func TestWarningQRPayloadFields(t *testing.T) {
	payload, err := WarningQRPayload(testTraveler())
	require.NoError(t, err)

	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(payload, &fields))

	assert.Equal(t, "DISAPPROVED", fields["status"])
	assert.Equal(t, "987654321098", fields["national_id"])
	assert.Equal(t, float64(2), fields["tier"])
	assert.Equal(t, "Tuberculosis", fields["disease_name"])
	assert.Equal(t, "2024-06-01", fields["recovery_date"])

	// The deciding doctor's identity stays out of the scannable payload.
	assert.NotContains(t, fields, "doctor_id")
}

func TestWarningQRPayloadReflectsCurrentState(t *testing.T) {
	traveler := testTraveler()
	before, err := WarningQRPayload(traveler)
	require.NoError(t, err)

	traveler.Tier = 3
	after, err := WarningQRPayload(traveler)
	require.NoError(t, err)

	assert.NotEqual(t, before, after, "payload must re-derive from current registry state")
}

func TestEncodeQRPNG(t *testing.T) {
	payload, err := WarningQRPayload(testTraveler())
	require.NoError(t, err)

	png, err := EncodeQRPNG(payload)
	require.NoError(t, err)
	require.NotEmpty(t, png)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, png[:4])
}

func TestGeneratorClearance(t *testing.T) {
	doc, err := NewGenerator().Clearance(testApplication())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF")))
}

func TestGeneratorWarningUsesGivenPayload(t *testing.T) {
	traveler := testTraveler()
	payload, err := WarningQRPayload(traveler)
	require.NoError(t, err)

	doc, err := NewGenerator().WarningWithPayload(traveler, payload)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF")))
}
