// Package worker hosts the recurring expiration sweep that enforces
// confirmation deadlines in the background.
package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/medagenda/booking-api/internal/model"
	"github.com/medagenda/booking-api/internal/repository"
	"github.com/medagenda/booking-api/pkg/logger"
	"github.com/medagenda/booking-api/pkg/metrics"
)

// DefaultInterval between sweeps.
const DefaultInterval = time.Minute

// ExpiryWorker scans pending appointments and expires those whose
// confirmation deadline has passed. Expiring to NOT_CONFIRMED is what
// releases a slot back to the generator.
type ExpiryWorker struct {
	store    repository.Store
	interval time.Duration
	logger   *logger.Logger
	metrics  *metrics.Metrics
	now      func() time.Time
}

func NewExpiryWorker(store repository.Store, interval time.Duration, l *logger.Logger, m *metrics.Metrics) *ExpiryWorker {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &ExpiryWorker{
		store:    store,
		interval: interval,
		logger:   l,
		metrics:  m,
		now:      time.Now,
	}
}

// WithClock replaces the wall clock, for deterministic tests.
func (w *ExpiryWorker) WithClock(now func() time.Time) *ExpiryWorker {
	w.now = now
	return w
}

// Start sweeps once immediately, then on every tick until ctx is done.
func (w *ExpiryWorker) Start(ctx context.Context) {
	w.logger.ZL.Info().Dur("interval", w.interval).Msg("expiry worker started")

	w.runOnce(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.ZL.Info().Msg("expiry worker shutting down")
			return
		case <-ticker.C:
			w.runOnce(ctx)
		}
	}
}

func (w *ExpiryWorker) runOnce(ctx context.Context) {
	start := time.Now()
	count, err := w.Sweep(ctx)
	if err != nil {
		w.metrics.SweepErrors.Inc()
		w.logger.ZL.Error().Err(err).Msg("expiry sweep failed")
		return
	}
	w.metrics.SweepRuns.Inc()
	w.metrics.SweepDuration.Observe(time.Since(start).Seconds())
	if count > 0 {
		w.metrics.AppointmentsExpired.Add(float64(count))
		w.logger.ZL.Info().Int("expired", count).Msg("expired pending appointments")
	}
}

// Sweep runs one scan-and-transition pass and returns how many appointments
// it expired. A PENDING appointment expires when its deadline is strictly
// before now. The pass is a complete read-modify-write, so re-running it with
// no new expirations changes nothing and returns 0.
func (w *ExpiryWorker) Sweep(ctx context.Context) (int, error) {
	appts, err := w.store.Appointments(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load appointments: %w", err)
	}

	now := w.now()
	count := 0
	for _, appt := range appts {
		if appt.Status != model.AppointmentStatusPending {
			continue
		}
		if !appt.ConfirmationDeadline.Before(now) {
			continue
		}
		appt.Status = model.AppointmentStatusNotConfirmed
		if err := w.store.UpdateAppointment(ctx, appt); err != nil {
			return count, fmt.Errorf("failed to expire appointment %s: %w", appt.ID, err)
		}
		count++
	}
	return count, nil
}
