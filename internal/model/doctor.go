package model

import "time"

// DoctorAccount is a DB-backed doctor credential. Login checks this store
// first and falls back to the static config table.
type DoctorAccount struct {
	DoctorID     string    `db:"doctor_id" json:"doctor_id"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedBy    string    `db:"created_by" json:"created_by"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// CreateDoctorRequest provisions a new doctor credential (official role).
type CreateDoctorRequest struct {
	DoctorID string `json:"doctor_id" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
}

// CredentialLoginRequest is the shared id/password login form used by the
// doctor, health-admin, and authority roles.
type CredentialLoginRequest struct {
	ID       string `json:"id" binding:"required"`
	Password string `json:"password" binding:"required"`
}
