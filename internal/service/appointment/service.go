package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/medagenda/booking-api/internal/model"
	"github.com/medagenda/booking-api/internal/repository"
	"github.com/medagenda/booking-api/internal/service/schedule"
	apperrors "github.com/medagenda/booking-api/pkg/errors"
	"github.com/medagenda/booking-api/pkg/token"
)

// tokenAttempts bounds the retry-on-collision loop when minting tokens.
const tokenAttempts = 5

// ConfirmOutcome is the user-visible result of a confirmation attempt.
type ConfirmOutcome string

const (
	ConfirmOutcomeConfirmed        ConfirmOutcome = "CONFIRMED"
	ConfirmOutcomeAlreadyConfirmed ConfirmOutcome = "ALREADY_CONFIRMED"
	ConfirmOutcomeExpired          ConfirmOutcome = "EXPIRED"
)

// CancelOutcome is the user-visible result of a cancellation attempt.
type CancelOutcome string

const (
	CancelOutcomeCanceled        CancelOutcome = "CANCELED"
	CancelOutcomeAlreadyCanceled CancelOutcome = "ALREADY_CANCELED"
	CancelOutcomeNotCancelable   CancelOutcome = "NOT_CANCELABLE"
)

type ConfirmResult struct {
	Outcome     ConfirmOutcome     `json:"outcome"`
	Appointment *model.Appointment `json:"appointment"`
}

type CancelResult struct {
	Outcome     CancelOutcome      `json:"outcome"`
	Appointment *model.Appointment `json:"appointment"`
}

// staffEdges are the transitions staff may request directly, bypassing
// tokens. Anything else is rejected without mutation.
var staffEdges = map[model.AppointmentStatus][]model.AppointmentStatus{
	model.AppointmentStatusPending:   {model.AppointmentStatusConfirmed, model.AppointmentStatusCanceled},
	model.AppointmentStatusConfirmed: {model.AppointmentStatusCompleted, model.AppointmentStatusMissed, model.AppointmentStatusCanceled},
}

type Service struct {
	store  repository.Store
	tokens *token.Generator
	now    func() time.Time
}

func NewService(store repository.Store, tokens *token.Generator) *Service {
	return &Service{store: store, tokens: tokens, now: time.Now}
}

// WithClock replaces the wall clock, for deterministic tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Book creates a PENDING appointment for the selected slot. The patient is
// resolved by email or created; the confirmation deadline is fixed here and
// never recomputed. The slot itself is not reserved anywhere: the generator
// stops offering it because this appointment now exists.
func (s *Service) Book(ctx context.Context, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	doctor, err := s.store.Doctor(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load doctor profile: %w", err)
	}

	patient, err := s.resolvePatient(ctx, req)
	if err != nil {
		return nil, err
	}

	confirmationToken, err := s.mintToken(ctx)
	if err != nil {
		return nil, err
	}
	managementToken, err := s.mintToken(ctx, confirmationToken)
	if err != nil {
		return nil, err
	}

	slotID := req.SlotID
	if slotID == "" {
		slotID = schedule.SlotID(req.Start)
	}

	appt := &model.Appointment{
		ID:                   uuid.New(),
		DoctorID:             doctor.ID,
		PatientID:            patient.ID,
		SlotID:               slotID,
		Start:                req.Start,
		End:                  req.End,
		Status:               model.AppointmentStatusPending,
		ConfirmationDeadline: req.Start.Add(-time.Duration(doctor.ConfirmationDeadlineHours) * time.Hour),
		ConfirmationToken:    confirmationToken,
		ManagementToken:      managementToken,
		Notes:                req.Notes,
		CreatedAt:            s.now(),
	}

	if err := s.store.SaveAppointment(ctx, appt); err != nil {
		return nil, fmt.Errorf("failed to save appointment: %w", err)
	}
	return appt, nil
}

// ConfirmByToken resolves a confirmation token and advances the appointment.
// The whole check-then-act sequence runs once per invocation; repeating it
// after a transition reports "already confirmed" without mutating again.
func (s *Service) ConfirmByToken(ctx context.Context, tok string) (*ConfirmResult, error) {
	appt, err := s.findByToken(ctx, func(a *model.Appointment) bool {
		return a.ConfirmationToken == tok
	})
	if err != nil {
		return nil, err
	}

	if appt.Status == model.AppointmentStatusConfirmed {
		return &ConfirmResult{Outcome: ConfirmOutcomeAlreadyConfirmed, Appointment: appt}, nil
	}

	// At or past the deadline the appointment can no longer be confirmed.
	if !s.now().Before(appt.ConfirmationDeadline) {
		if appt.Status == model.AppointmentStatusPending {
			appt.Status = model.AppointmentStatusNotConfirmed
			if err := s.store.UpdateAppointment(ctx, appt); err != nil {
				return nil, fmt.Errorf("failed to expire appointment: %w", err)
			}
		}
		return &ConfirmResult{Outcome: ConfirmOutcomeExpired, Appointment: appt}, nil
	}

	if appt.Status == model.AppointmentStatusPending {
		appt.Status = model.AppointmentStatusConfirmed
		if err := s.store.UpdateAppointment(ctx, appt); err != nil {
			return nil, fmt.Errorf("failed to confirm appointment: %w", err)
		}
		return &ConfirmResult{Outcome: ConfirmOutcomeConfirmed, Appointment: appt}, nil
	}

	// Canceled or otherwise not actionable: report without mutating.
	return &ConfirmResult{Outcome: ConfirmOutcomeAlreadyConfirmed, Appointment: appt}, nil
}

// CancelByToken resolves a management token and cancels the appointment.
// Completed and missed appointments cannot be canceled; an already canceled
// one acknowledges idempotently.
func (s *Service) CancelByToken(ctx context.Context, tok string) (*CancelResult, error) {
	appt, err := s.findByToken(ctx, func(a *model.Appointment) bool {
		return a.ManagementToken == tok
	})
	if err != nil {
		return nil, err
	}

	switch appt.Status {
	case model.AppointmentStatusCanceled:
		return &CancelResult{Outcome: CancelOutcomeAlreadyCanceled, Appointment: appt}, nil
	case model.AppointmentStatusCompleted, model.AppointmentStatusMissed:
		return &CancelResult{Outcome: CancelOutcomeNotCancelable, Appointment: appt}, nil
	}

	appt.Status = model.AppointmentStatusCanceled
	if err := s.store.UpdateAppointment(ctx, appt); err != nil {
		return nil, fmt.Errorf("failed to cancel appointment: %w", err)
	}
	return &CancelResult{Outcome: CancelOutcomeCanceled, Appointment: appt}, nil
}

// FindByManagementToken returns the appointment a management token refers to,
// without mutating it.
func (s *Service) FindByManagementToken(ctx context.Context, tok string) (*model.Appointment, error) {
	return s.findByToken(ctx, func(a *model.Appointment) bool {
		return a.ManagementToken == tok
	})
}

// UpdateStatus applies a staff transition. Only the edges in staffEdges are
// allowed; anything else returns an invalid-transition error and leaves the
// record untouched.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, next model.AppointmentStatus) (*model.Appointment, error) {
	appts, err := s.store.Appointments(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load appointments: %w", err)
	}

	var appt *model.Appointment
	for _, a := range appts {
		if a.ID == id {
			appt = a
			break
		}
	}
	if appt == nil {
		return nil, apperrors.NewNotFound("appointment", nil)
	}

	allowed := false
	for _, to := range staffEdges[appt.Status] {
		if to == next {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, apperrors.NewInvalidTransition(string(appt.Status), string(next))
	}

	appt.Status = next
	if err := s.store.UpdateAppointment(ctx, appt); err != nil {
		return nil, fmt.Errorf("failed to update appointment: %w", err)
	}
	return appt, nil
}

func (s *Service) List(ctx context.Context) ([]*model.Appointment, error) {
	return s.store.Appointments(ctx)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	appts, err := s.store.Appointments(ctx)
	if err != nil {
		return nil, err
	}
	for _, a := range appts {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, apperrors.NewNotFound("appointment", nil)
}

func (s *Service) Patients(ctx context.Context) ([]*model.Patient, error) {
	return s.store.Patients(ctx)
}

func (s *Service) resolvePatient(ctx context.Context, req *model.CreateAppointmentRequest) (*model.Patient, error) {
	patient, err := s.store.FindPatientByEmail(ctx, req.Email)
	if err == nil {
		return patient, nil
	}
	if !apperrors.IsCode(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up patient: %w", err)
	}

	patient = &model.Patient{
		ID:       uuid.New(),
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Document: req.Document,
	}
	if err := s.store.CreatePatient(ctx, patient); err != nil {
		return nil, fmt.Errorf("failed to create patient: %w", err)
	}
	return patient, nil
}

// mintToken generates a token unused by either token field of any stored
// appointment, retrying on collision.
func (s *Service) mintToken(ctx context.Context, reserved ...string) (string, error) {
	appts, err := s.store.Appointments(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to load appointments: %w", err)
	}
	taken := make(map[string]struct{}, len(appts)*2+len(reserved))
	for _, a := range appts {
		taken[a.ConfirmationToken] = struct{}{}
		taken[a.ManagementToken] = struct{}{}
	}
	for _, tok := range reserved {
		taken[tok] = struct{}{}
	}
	return s.tokens.GenerateUnique(func(candidate string) bool {
		_, exists := taken[candidate]
		return exists
	}, tokenAttempts)
}

func (s *Service) findByToken(ctx context.Context, match func(*model.Appointment) bool) (*model.Appointment, error) {
	appts, err := s.store.Appointments(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load appointments: %w", err)
	}
	for _, a := range appts {
		if match(a) {
			return a, nil
		}
	}
	return nil, apperrors.NewNotFound("appointment", nil)
}
