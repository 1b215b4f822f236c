package localstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/medagenda/booking-api/internal/model"
	"github.com/medagenda/booking-api/internal/repository"
	apperrors "github.com/medagenda/booking-api/pkg/errors"
)

// Store implements repository.Store over a Namespace. Collections are decoded
// on every read and written back whole on every mutation.
type Store struct {
	ns Namespace
}

// New wraps the namespace and seeds it when the root marker (the doctor
// record) is absent.
func New(ctx context.Context, ns Namespace) (*Store, error) {
	s := &Store{ns: ns}
	if err := s.seedIfEmpty(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) seedIfEmpty(ctx context.Context) error {
	_, ok, err := s.ns.Load(ctx, KeyDoctor)
	if err != nil {
		return fmt.Errorf("failed to probe namespace: %w", err)
	}
	if ok {
		return nil
	}

	doctor := defaultDoctor()
	if err := s.write(ctx, KeyDoctor, doctor); err != nil {
		return err
	}
	if err := s.write(ctx, KeyUsers, defaultUsers(doctor)); err != nil {
		return err
	}
	if err := s.write(ctx, KeyConfig, defaultRules(doctor.ID)); err != nil {
		return err
	}
	if err := s.write(ctx, KeyPatients, []*model.Patient{}); err != nil {
		return err
	}
	return s.write(ctx, KeyAppointments, []*model.Appointment{})
}

func (s *Store) write(ctx context.Context, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := s.ns.Store(ctx, key, data); err != nil {
		return fmt.Errorf("failed to persist %s: %w", key, err)
	}
	return nil
}

// read decodes a collection into out. A missing key or an undecodable payload
// leaves out at its zero value: corruption is recoverable, never fatal.
func (s *Store) read(ctx context.Context, key string, out interface{}) error {
	data, ok, err := s.ns.Load(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", key, err)
	}
	if !ok {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return nil
	}
	return nil
}

func (s *Store) Doctor(ctx context.Context) (*model.Doctor, error) {
	var doctor model.Doctor
	if err := s.read(ctx, KeyDoctor, &doctor); err != nil {
		return nil, err
	}
	if doctor.ID == uuid.Nil {
		// Namespace lost or corrupt: fall back to the seeded profile.
		return defaultDoctor(), nil
	}
	return &doctor, nil
}

func (s *Store) Users(ctx context.Context) ([]*model.StaffUser, error) {
	users := []*model.StaffUser{}
	if err := s.read(ctx, KeyUsers, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *Store) Rules(ctx context.Context) ([]*model.AvailabilityRule, error) {
	rules := []*model.AvailabilityRule{}
	if err := s.read(ctx, KeyConfig, &rules); err != nil {
		return nil, err
	}
	return rules, nil
}

func (s *Store) SaveRules(ctx context.Context, rules []*model.AvailabilityRule) error {
	return s.write(ctx, KeyConfig, rules)
}

func (s *Store) Patients(ctx context.Context) ([]*model.Patient, error) {
	patients := []*model.Patient{}
	if err := s.read(ctx, KeyPatients, &patients); err != nil {
		return nil, err
	}
	return patients, nil
}

func (s *Store) FindPatientByEmail(ctx context.Context, email string) (*model.Patient, error) {
	patients, err := s.Patients(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range patients {
		if p.Email == email {
			return p, nil
		}
	}
	return nil, apperrors.NewNotFound("patient", nil)
}

func (s *Store) CreatePatient(ctx context.Context, patient *model.Patient) error {
	patients, err := s.Patients(ctx)
	if err != nil {
		return err
	}
	patients = append(patients, patient)
	return s.write(ctx, KeyPatients, patients)
}

func (s *Store) Appointments(ctx context.Context) ([]*model.Appointment, error) {
	appts := []*model.Appointment{}
	if err := s.read(ctx, KeyAppointments, &appts); err != nil {
		return nil, err
	}
	return appts, nil
}

func (s *Store) SaveAppointment(ctx context.Context, appt *model.Appointment) error {
	appts, err := s.Appointments(ctx)
	if err != nil {
		return err
	}
	appts = append(appts, appt)
	return s.write(ctx, KeyAppointments, appts)
}

func (s *Store) UpdateAppointment(ctx context.Context, appt *model.Appointment) error {
	appts, err := s.Appointments(ctx)
	if err != nil {
		return err
	}
	for i, existing := range appts {
		if existing.ID == appt.ID {
			appts[i] = appt
			return s.write(ctx, KeyAppointments, appts)
		}
	}
	return apperrors.NewNotFound("appointment", nil)
}

var _ repository.Store = (*Store)(nil)
