package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/medagenda/booking-api/internal/model"
	"github.com/medagenda/booking-api/internal/repository"
)

// Tolerance is the start-time proximity within which an active appointment
// occupies a candidate slot. Occupancy is matched by start-time distance, not
// interval overlap; see Occupied.
const Tolerance = time.Minute

// DefaultHorizonDays bounds how far ahead slots are offered when the caller
// does not say.
const DefaultHorizonDays = 21

type Service struct {
	store repository.Store
	now   func() time.Time
}

func NewService(store repository.Store) *Service {
	return &Service{store: store, now: time.Now}
}

// WithClock replaces the wall clock, for deterministic tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// GenerateSlots derives the bookable slots for the next horizonDays days from
// the active availability rules, suppressing any candidate whose start lies
// within Tolerance of an active appointment. Slots are recomputed on every
// call and never persisted. Ordering is by day, then by stored rule order,
// then chronological within a rule.
func (s *Service) GenerateSlots(ctx context.Context, horizonDays int) ([]*model.Slot, error) {
	if horizonDays <= 0 {
		horizonDays = DefaultHorizonDays
	}

	rules, err := s.store.Rules(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load availability rules: %w", err)
	}

	appts, err := s.store.Appointments(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load appointments: %w", err)
	}
	active := activeAppointments(appts)

	slots := []*model.Slot{}
	today := s.now()

	for offset := 0; offset < horizonDays; offset++ {
		day := today.AddDate(0, 0, offset)
		weekday := int(day.Weekday())

		for _, rule := range rules {
			if !rule.Active || rule.DayOfWeek != weekday {
				continue
			}
			run, err := s.slotsForRule(rule, day, active)
			if err != nil {
				return nil, err
			}
			slots = append(slots, run...)
		}
	}
	return slots, nil
}

// slotsForRule emits successive slots of the rule's duration from its start
// time, stopping before any slot whose end would pass the rule's end. A rule
// whose window is shorter than one duration yields nothing.
func (s *Service) slotsForRule(rule *model.AvailabilityRule, day time.Time, active []*model.Appointment) ([]*model.Slot, error) {
	start, end, err := rule.Window(day)
	if err != nil {
		return nil, err
	}
	if rule.DurationMinutes <= 0 {
		return nil, nil
	}
	duration := time.Duration(rule.DurationMinutes) * time.Minute

	var run []*model.Slot
	for cur := start; cur.Before(end); cur = cur.Add(duration) {
		slotEnd := cur.Add(duration)
		if end.Before(slotEnd) {
			break
		}
		if Occupied(cur, active) {
			continue
		}
		run = append(run, &model.Slot{
			ID:       SlotID(cur),
			DoctorID: rule.DoctorID,
			Start:    cur,
			End:      slotEnd,
			Status:   model.SlotFree,
		})
	}
	return run, nil
}

// Occupied reports whether any of the given appointments starts within
// Tolerance of the candidate start.
func Occupied(candidate time.Time, appts []*model.Appointment) bool {
	for _, appt := range appts {
		delta := appt.Start.Sub(candidate)
		if delta < 0 {
			delta = -delta
		}
		if delta < Tolerance {
			return true
		}
	}
	return false
}

// SlotID derives the stable identifier for a slot at the given start time.
func SlotID(start time.Time) string {
	return fmt.Sprintf("slot_%d", start.UnixMilli())
}

func activeAppointments(appts []*model.Appointment) []*model.Appointment {
	var active []*model.Appointment
	for _, appt := range appts {
		if appt.Status.Active() {
			active = append(active, appt)
		}
	}
	return active
}
