package document

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/aarogyacheck/clearance-api/internal/model"
)

// Generator renders the clearance and warning PDFs with embedded QR codes.
type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

var warningGuidelines = []string{
	"1. You are advised to stay at home and follow strict isolation protocols.",
	"2. Do not travel or visit public places until you have fully recovered.",
	"3. Follow all medical prescriptions and take medications as prescribed.",
	"4. Monitor your health condition regularly and report any deterioration immediately.",
	"5. Maintain proper hygiene and sanitization at all times.",
	"6. Avoid contact with family members and others to prevent spread of infection.",
	"7. Follow up with your healthcare provider as scheduled.",
}

// Clearance renders the travel clearance for a fully approved application.
// The caller enforces the terminal-state precondition.
func (g *Generator) Clearance(app *model.Application) ([]byte, error) {
	payload, err := ClearanceQRPayload(app)
	if err != nil {
		return nil, err
	}
	qrPNG, err := EncodeQRPNG(payload)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Aarogya Check - Travel Clearance")
	pdf.Ln(14)

	embedQR(pdf, qrPNG, "clearance_qr", "Clearance QR Code")

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Name: %s", app.Name),
		fmt.Sprintf("National ID: %s", app.NationalID),
		fmt.Sprintf("Source: %s", app.Source),
		fmt.Sprintf("Destination: %s", app.Destination),
		fmt.Sprintf("Mode of Travel: %s", app.TravelMedium),
		fmt.Sprintf("Doctor Approval: %s", app.DoctorApproval),
		fmt.Sprintf("Official Approval: %s", app.OfficialApproval),
		fmt.Sprintf("Issued On: %s", time.Now().UTC().Format("2006-01-02 15:04:05 UTC")),
	}
	for _, line := range lines {
		pdf.Cell(0, 8, line)
		pdf.Ln(8)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.Cell(0, 6, "Note: Medical details are intentionally omitted.")

	return render(pdf)
}

// Warning renders the health warning notice for a disapproved traveler.
// The printed fine amount is flat; only scan-time penalties scale by tier.
func (g *Generator) Warning(t *model.DisapprovedTraveler) ([]byte, error) {
	payload, err := WarningQRPayload(t)
	if err != nil {
		return nil, err
	}
	return g.WarningWithPayload(t, payload)
}

// WarningWithPayload renders the notice around an already-derived canonical
// payload, keeping issuance and persistence over the exact same bytes.
func (g *Generator) WarningWithPayload(t *model.DisapprovedTraveler, payload []byte) ([]byte, error) {
	qrPNG, err := EncodeQRPNG(payload)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.SetTextColor(204, 0, 0)
	pdf.Cell(0, 12, "HEALTH WARNING NOTICE")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(16)

	embedQR(pdf, qrPNG, "warning_qr", "Health Status QR Code")

	pdf.SetFont("Helvetica", "B", 12)
	fields := []string{
		fmt.Sprintf("Name: %s", t.Name),
		fmt.Sprintf("National ID: %s", t.NationalID),
		fmt.Sprintf("Phone Number: %s", t.Phone),
		fmt.Sprintf("Email: %s", t.Email),
		fmt.Sprintf("Address: %s", t.CurrentAddress),
		fmt.Sprintf("Disease: %s", t.DiseaseName),
		fmt.Sprintf("Tier: %d", t.Tier),
		fmt.Sprintf("Expected Recovery Date: %s", t.ExpectedRecoveryDate),
	}
	for _, line := range fields {
		pdf.Cell(0, 7, line)
		pdf.Ln(7)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 8, "HEALTH GUIDELINES TO BE FOLLOWED:")
	pdf.Ln(9)
	pdf.SetFont("Helvetica", "", 11)
	for _, guideline := range warningGuidelines {
		pdf.Cell(0, 6, guideline)
		pdf.Ln(6)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(204, 0, 0)
	pdf.Cell(0, 8, "PENALTY WARNING")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 6, fmt.Sprintf("A FINE AMOUNT OF Rs. %d will be levied if you are caught", model.FlatPenaltyAmount))
	pdf.Ln(6)
	pdf.Cell(0, 6, "roaming in public places while you have been advised to")
	pdf.Ln(6)
	pdf.Cell(0, 6, "stay at home and follow safety protocols.")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "I", 10)
	pdf.Cell(0, 5, "This is an official health warning notice from the Government Health Administration.")
	pdf.Ln(5)
	pdf.Cell(0, 5, "Scan the QR code to verify health status and details.")

	return render(pdf)
}

func embedQR(pdf *gofpdf.Fpdf, qrPNG []byte, name, label string) {
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(qrPNG))
	// Top-right corner, clear of the running text column.
	pdf.ImageOptions(name, 155, 12, 42, 42, false, opts, 0, "")
	pdf.SetFont("Helvetica", "B", 8)
	pdf.Text(155, 57, label)
}

func render(pdf *gofpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
