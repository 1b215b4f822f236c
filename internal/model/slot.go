package model

import (
	"time"

	"github.com/google/uuid"
)

type SlotStatus string

const (
	SlotFree SlotStatus = "FREE"
)

// Slot is a derived candidate appointment time. Slots are never persisted;
// the generator recomputes them on every read.
type Slot struct {
	ID       string     `json:"id"`
	DoctorID uuid.UUID  `json:"doctor_id"`
	Start    time.Time  `json:"start"`
	End      time.Time  `json:"end"`
	Status   SlotStatus `json:"status"`
}
