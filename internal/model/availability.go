package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AvailabilityRule is a recurring weekly window from which bookable slots are
// derived. Several rules may target the same weekday (a morning and an
// afternoon block). Rules are toggled or edited by staff, never deleted.
type AvailabilityRule struct {
	ID              uuid.UUID `json:"id"`
	DoctorID        uuid.UUID `json:"doctor_id"`
	DayOfWeek       int       `json:"day_of_week"` // 0 (Sunday) - 6 (Saturday)
	StartTime       string    `json:"start_time"`  // "09:00"
	EndTime         string    `json:"end_time"`    // "17:00"
	DurationMinutes int       `json:"duration_minutes"`
	Active          bool      `json:"active"`
}

// Window resolves the rule's wall-clock times onto the given calendar day.
func (r *AvailabilityRule) Window(day time.Time) (start, end time.Time, err error) {
	start, err = atWallClock(day, r.StartTime)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid start time %q: %w", r.StartTime, err)
	}
	end, err = atWallClock(day, r.EndTime)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid end time %q: %w", r.EndTime, err)
	}
	return start, end, nil
}

func atWallClock(day time.Time, hhmm string) (time.Time, error) {
	parsed, err := time.Parse("15:04", hhmm)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(),
		parsed.Hour(), parsed.Minute(), 0, 0, day.Location()), nil
}

type UpdateRuleRequest struct {
	ID              uuid.UUID `json:"id" binding:"required"`
	DayOfWeek       int       `json:"day_of_week" binding:"min=0,max=6"`
	StartTime       string    `json:"start_time" binding:"required,hhmm"`
	EndTime         string    `json:"end_time" binding:"required,hhmm"`
	DurationMinutes int       `json:"duration_minutes" binding:"required,min=5,max=240"`
	Active          bool      `json:"active"`
}
