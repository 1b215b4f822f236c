package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusPending      AppointmentStatus = "PENDING"
	AppointmentStatusConfirmed    AppointmentStatus = "CONFIRMED"
	AppointmentStatusNotConfirmed AppointmentStatus = "NOT_CONFIRMED"
	AppointmentStatusCanceled     AppointmentStatus = "CANCELED"
	AppointmentStatusCompleted    AppointmentStatus = "COMPLETED"
	AppointmentStatusMissed       AppointmentStatus = "MISSED"
)

// Terminal reports whether no further transitions are allowed from s.
func (s AppointmentStatus) Terminal() bool {
	switch s {
	case AppointmentStatusNotConfirmed, AppointmentStatusCanceled,
		AppointmentStatusCompleted, AppointmentStatusMissed:
		return true
	}
	return false
}

// Active reports whether an appointment in this status still holds its slot.
// CANCELED and NOT_CONFIRMED release the slot back to the generator.
func (s AppointmentStatus) Active() bool {
	return s != AppointmentStatusCanceled && s != AppointmentStatusNotConfirmed
}

type Appointment struct {
	ID        uuid.UUID         `json:"id"`
	DoctorID  uuid.UUID         `json:"doctor_id"`
	PatientID uuid.UUID         `json:"patient_id"`
	SlotID    string            `json:"slot_id"`
	Start     time.Time         `json:"start"`
	End       time.Time         `json:"end"`
	Status    AppointmentStatus `json:"status"`
	// ConfirmationDeadline is fixed at creation: Start minus the doctor's
	// deadline policy. Never recomputed.
	ConfirmationDeadline time.Time `json:"confirmation_deadline"`
	ConfirmationToken    string    `json:"confirmation_token"`
	ManagementToken      string    `json:"management_token"`
	Notes                string    `json:"notes,omitempty"`
	CreatedAt            time.Time `json:"created_at"`
}

type CreateAppointmentRequest struct {
	SlotID   string    `json:"slot_id"`
	Start    time.Time `json:"start" binding:"required"`
	End      time.Time `json:"end" binding:"required,gtfield=Start"`
	Name     string    `json:"name" binding:"required"`
	Email    string    `json:"email" binding:"required,email"`
	Phone    string    `json:"phone" binding:"required"`
	Document *string   `json:"document,omitempty"`
	Notes    string    `json:"notes" binding:"max=1000"`
}

type UpdateStatusRequest struct {
	Status AppointmentStatus `json:"status" binding:"required"`
}
