package model

import (
	"regexp"
	"time"

	"github.com/google/uuid"
)

// ApprovalStatus is one dimension of the two-gate approval state machine.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "PENDING"
	ApprovalApproved ApprovalStatus = "APPROVED"
	ApprovalRejected ApprovalStatus = "REJECTED"
)

func (s ApprovalStatus) Valid() bool {
	return s == ApprovalApproved || s == ApprovalRejected
}

var nationalIDPattern = regexp.MustCompile(`^[0-9]{12}$`)

// ValidNationalID reports whether id is exactly 12 numeric digits.
func ValidNationalID(id string) bool {
	return nationalIDPattern.MatchString(id)
}

// Application is one travel request. One row per (email, national_id);
// resubmission overwrites in place and resets both gates.
type Application struct {
	ID                uuid.UUID      `db:"id" json:"id"`
	Name              string         `db:"name" json:"name"`
	NationalID        string         `db:"national_id" json:"national_id"`
	Email             string         `db:"email" json:"email"`
	Source            string         `db:"source" json:"source"`
	Destination       string         `db:"destination" json:"destination"`
	TravelMedium      string         `db:"travel_medium" json:"travel_medium"`
	MedicalReportPath string         `db:"medical_report_path" json:"medical_report_path,omitempty"`
	DoctorApproval    ApprovalStatus `db:"doctor_approval" json:"doctor_approval"`
	OfficialApproval  ApprovalStatus `db:"official_approval" json:"official_approval"`
	DoctorID          string         `db:"doctor_id" json:"doctor_id,omitempty"`
	CreatedAt         time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time      `db:"updated_at" json:"-"`
}

// FullyApproved reports whether both gates have passed.
func (a *Application) FullyApproved() bool {
	return a.DoctorApproval == ApprovalApproved && a.OfficialApproval == ApprovalApproved
}

// ApplicationView is the response shape for an application. The medical
// report path is only exposed to the doctor role.
type ApplicationView struct {
	ID                string         `json:"id"`
	Name              string         `json:"name"`
	NationalID        string         `json:"national_id"`
	Email             string         `json:"email"`
	Source            string         `json:"source"`
	Destination       string         `json:"destination"`
	TravelMedium      string         `json:"travel_medium"`
	DoctorApproval    ApprovalStatus `json:"doctor_approval"`
	OfficialApproval  ApprovalStatus `json:"official_approval"`
	DoctorID          string         `json:"doctor_id,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
	HasMedicalReport  bool           `json:"has_medical_report"`
	MedicalReportPath string         `json:"medical_report_path,omitempty"`
}

// View shapes an application for responses with privacy controls.
func (a *Application) View(includeSensitive bool) *ApplicationView {
	v := &ApplicationView{
		ID:               a.ID.String(),
		Name:             a.Name,
		NationalID:       a.NationalID,
		Email:            a.Email,
		Source:           a.Source,
		Destination:      a.Destination,
		TravelMedium:     a.TravelMedium,
		DoctorApproval:   a.DoctorApproval,
		OfficialApproval: a.OfficialApproval,
		DoctorID:         a.DoctorID,
		CreatedAt:        a.CreatedAt,
		HasMedicalReport: a.MedicalReportPath != "",
	}
	if includeSensitive {
		v.MedicalReportPath = a.MedicalReportPath
	}
	return v
}

// SubmitRequest is the multipart application form. The medical report file
// is handled separately and is optional.
type SubmitRequest struct {
	Name         string `form:"name" binding:"required"`
	NationalID   string `form:"national_id" binding:"required,national_id"`
	Source       string `form:"source" binding:"required"`
	Destination  string `form:"destination" binding:"required"`
	TravelMedium string `form:"travel_medium" binding:"required"`
	Email        string `form:"email" binding:"required,email"`
}

// MigrantLoginRequest identifies a returning applicant.
type MigrantLoginRequest struct {
	Email      string `json:"email" binding:"required,email"`
	NationalID string `json:"national_id" binding:"required"`
}

// DoctorDecisionRequest carries the medical gate decision and, on
// rejection, the optional structured health profile.
type DoctorDecisionRequest struct {
	Decision   ApprovalStatus `json:"decision" binding:"required"`
	HealthData *HealthProfile `json:"health_data,omitempty"`
}
