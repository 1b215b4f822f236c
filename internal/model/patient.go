package model

import "github.com/google/uuid"

// Patient is created on first booking and reused on subsequent bookings with
// the same email. Email is the de-duplication key; no merging happens if the
// same person later books under a different address.
type Patient struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Phone    string    `json:"phone"`
	Document *string   `json:"document,omitempty"`
}
