package model

import "github.com/google/uuid"

// Doctor is the single practitioner this deployment serves. Seeded once,
// immutable afterwards.
type Doctor struct {
	ID                        uuid.UUID `json:"id"`
	Name                      string    `json:"name"`
	Email                     string    `json:"email"`
	Specialty                 string    `json:"specialty"`
	ConfirmationDeadlineHours int       `json:"confirmation_deadline_hours"`
}
