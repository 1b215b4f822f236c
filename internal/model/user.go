package model

import "github.com/google/uuid"

type UserRole string

const (
	RoleAdmin     UserRole = "ADMIN"
	RoleSecretary UserRole = "SECRETARY"
)

// StaffUser is a clinic staff member able to manage the agenda.
type StaffUser struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	Role     UserRole  `json:"role"`
	DoctorID uuid.UUID `json:"doctor_id"`
	Name     string    `json:"name"`
}
