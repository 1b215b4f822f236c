package repository

import (
	"context"

	"github.com/medagenda/booking-api/internal/model"
)

// Store is the persistence contract the slot generator, lifecycle engine and
// sweeper depend on. Implementations hold five collections in a single
// key-value namespace; every mutation is a full read-modify-write of one
// collection, so the last writer wins.
type Store interface {
	// Doctor returns the practitioner profile, falling back to the seeded
	// default if the namespace is missing or unreadable.
	Doctor(ctx context.Context) (*model.Doctor, error)

	// Users returns the staff users.
	Users(ctx context.Context) ([]*model.StaffUser, error)

	// Rules returns the weekly availability rules in stored order.
	Rules(ctx context.Context) ([]*model.AvailabilityRule, error)
	// SaveRules replaces the whole rule set.
	SaveRules(ctx context.Context, rules []*model.AvailabilityRule) error

	Patients(ctx context.Context) ([]*model.Patient, error)
	// FindPatientByEmail returns ErrNotFound when no patient matches.
	FindPatientByEmail(ctx context.Context, email string) (*model.Patient, error)
	CreatePatient(ctx context.Context, patient *model.Patient) error

	Appointments(ctx context.Context) ([]*model.Appointment, error)
	// SaveAppointment appends a new appointment.
	SaveAppointment(ctx context.Context, appt *model.Appointment) error
	// UpdateAppointment replaces the stored appointment with the same ID,
	// returning ErrNotFound when it does not exist.
	UpdateAppointment(ctx context.Context, appt *model.Appointment) error
}
