package worker

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medagenda/booking-api/internal/model"
	"github.com/medagenda/booking-api/internal/repository/localstore"
	"github.com/medagenda/booking-api/pkg/logger"
	"github.com/medagenda/booking-api/pkg/metrics"
)

var sweepNow = time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)

func newWorker(t *testing.T) (*ExpiryWorker, *localstore.Store) {
	t.Helper()
	store, err := localstore.New(context.Background(), localstore.NewMemoryNamespace())
	require.NoError(t, err)

	l := logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Output: io.Discard})
	m := metrics.NewWith("booking_test", prometheus.NewRegistry())

	w := NewExpiryWorker(store, time.Minute, l, m).
		WithClock(func() time.Time { return sweepNow })
	return w, store
}

func pendingAppointment(deadline time.Time) *model.Appointment {
	return &model.Appointment{
		ID:                   uuid.New(),
		Start:                deadline.Add(48 * time.Hour),
		End:                  deadline.Add(48*time.Hour + 30*time.Minute),
		Status:               model.AppointmentStatusPending,
		ConfirmationDeadline: deadline,
		ConfirmationToken:    uuid.NewString(),
		ManagementToken:      uuid.NewString(),
	}
}

func TestSweep_ExpiresOnlyPastDeadlinePending(t *testing.T) {
	ctx := context.Background()
	w, store := newWorker(t)

	overdue := pendingAppointment(sweepNow.Add(-time.Hour))
	fresh := pendingAppointment(sweepNow.Add(time.Hour))
	confirmed := pendingAppointment(sweepNow.Add(-2 * time.Hour))
	confirmed.Status = model.AppointmentStatusConfirmed
	canceled := pendingAppointment(sweepNow.Add(-3 * time.Hour))
	canceled.Status = model.AppointmentStatusCanceled

	for _, appt := range []*model.Appointment{overdue, fresh, confirmed, canceled} {
		require.NoError(t, store.SaveAppointment(ctx, appt))
	}

	count, err := w.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	byID := loadByID(t, store)
	assert.Equal(t, model.AppointmentStatusNotConfirmed, byID[overdue.ID].Status)
	assert.Equal(t, model.AppointmentStatusPending, byID[fresh.ID].Status)
	assert.Equal(t, model.AppointmentStatusConfirmed, byID[confirmed.ID].Status)
	assert.Equal(t, model.AppointmentStatusCanceled, byID[canceled.ID].Status)
}

func TestSweep_DeadlineExactlyNowIsNotExpired(t *testing.T) {
	ctx := context.Background()
	w, store := newWorker(t)

	require.NoError(t, store.SaveAppointment(ctx, pendingAppointment(sweepNow)))

	count, err := w.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestSweep_Idempotent(t *testing.T) {
	ctx := context.Background()
	w, store := newWorker(t)

	require.NoError(t, store.SaveAppointment(ctx, pendingAppointment(sweepNow.Add(-time.Hour))))
	require.NoError(t, store.SaveAppointment(ctx, pendingAppointment(sweepNow.Add(-2*time.Hour))))

	count, err := w.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	before := loadByID(t, store)

	count, err = w.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	after := loadByID(t, store)
	assert.Equal(t, before, after)
}

func TestStart_StopsOnContextCancel(t *testing.T) {
	w, _ := newWorker(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after context cancellation")
	}
}

func loadByID(t *testing.T, store *localstore.Store) map[uuid.UUID]*model.Appointment {
	t.Helper()
	appts, err := store.Appointments(context.Background())
	require.NoError(t, err)
	byID := make(map[uuid.UUID]*model.Appointment, len(appts))
	for _, a := range appts {
		byID[a.ID] = a
	}
	return byID
}
