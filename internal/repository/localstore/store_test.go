package localstore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medagenda/booking-api/internal/model"
	apperrors "github.com/medagenda/booking-api/pkg/errors"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(context.Background(), NewMemoryNamespace())
	require.NoError(t, err)
	return s
}

func TestSeedOnEmptyNamespace(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	doctor, err := s.Doctor(ctx)
	require.NoError(t, err)
	assert.Equal(t, 48, doctor.ConfirmationDeadlineHours)

	users, err := s.Users(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)

	rules, err := s.Rules(ctx)
	require.NoError(t, err)
	assert.Len(t, rules, 5)
	for _, r := range rules {
		assert.True(t, r.Active)
		assert.Equal(t, 30, r.DurationMinutes)
		assert.Equal(t, doctor.ID, r.DoctorID)
	}

	patients, err := s.Patients(ctx)
	require.NoError(t, err)
	assert.Empty(t, patients)

	appts, err := s.Appointments(ctx)
	require.NoError(t, err)
	assert.Empty(t, appts)
}

func TestSeedDoesNotOverwriteExistingNamespace(t *testing.T) {
	ctx := context.Background()
	ns := NewMemoryNamespace()

	s, err := New(ctx, ns)
	require.NoError(t, err)

	patient := &model.Patient{ID: uuid.New(), Name: "Joana Prado", Email: "joana@example.com"}
	require.NoError(t, s.CreatePatient(ctx, patient))

	// A second session over the same namespace must see the existing data.
	reopened, err := New(ctx, ns)
	require.NoError(t, err)

	patients, err := reopened.Patients(ctx)
	require.NoError(t, err)
	require.Len(t, patients, 1)
	assert.Equal(t, patient.ID, patients[0].ID)
}

func TestCorruptCollectionReadsAsEmpty(t *testing.T) {
	ctx := context.Background()
	ns := NewMemoryNamespace()
	s, err := New(ctx, ns)
	require.NoError(t, err)

	require.NoError(t, ns.Store(ctx, KeyAppointments, []byte("{not json")))

	appts, err := s.Appointments(ctx)
	require.NoError(t, err)
	assert.Empty(t, appts)

	require.NoError(t, ns.Store(ctx, KeyDoctor, []byte("oops")))
	doctor, err := s.Doctor(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Dra. Ana Silva", doctor.Name)
}

func TestFindPatientByEmail(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.FindPatientByEmail(ctx, "missing@example.com")
	assert.True(t, apperrors.IsCode(err, apperrors.ErrNotFound))

	patient := &model.Patient{ID: uuid.New(), Name: "Carlos Dias", Email: "carlos@example.com", Phone: "11 99999-0000"}
	require.NoError(t, s.CreatePatient(ctx, patient))

	found, err := s.FindPatientByEmail(ctx, "carlos@example.com")
	require.NoError(t, err)
	assert.Equal(t, patient.ID, found.ID)
}

func TestAppointmentAppendAndReplace(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	appt := &model.Appointment{
		ID:     uuid.New(),
		Start:  time.Now().Add(72 * time.Hour),
		Status: model.AppointmentStatusPending,
	}
	require.NoError(t, s.SaveAppointment(ctx, appt))

	appt.Status = model.AppointmentStatusConfirmed
	require.NoError(t, s.UpdateAppointment(ctx, appt))

	appts, err := s.Appointments(ctx)
	require.NoError(t, err)
	require.Len(t, appts, 1)
	assert.Equal(t, model.AppointmentStatusConfirmed, appts[0].Status)

	unknown := &model.Appointment{ID: uuid.New()}
	err = s.UpdateAppointment(ctx, unknown)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrNotFound))
}

func TestFileNamespaceRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "clinic.json")

	ns, err := NewFileNamespace(path)
	require.NoError(t, err)

	s, err := New(ctx, ns)
	require.NoError(t, err)

	patient := &model.Patient{ID: uuid.New(), Name: "Ana Paula", Email: "ana.paula@example.com"}
	require.NoError(t, s.CreatePatient(ctx, patient))

	// Reopen from disk.
	ns2, err := NewFileNamespace(path)
	require.NoError(t, err)
	s2, err := New(ctx, ns2)
	require.NoError(t, err)

	patients, err := s2.Patients(ctx)
	require.NoError(t, err)
	require.Len(t, patients, 1)
	assert.Equal(t, "ana.paula@example.com", patients[0].Email)
}
