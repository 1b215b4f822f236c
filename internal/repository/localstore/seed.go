package localstore

import (
	"github.com/google/uuid"

	"github.com/medagenda/booking-api/internal/model"
)

// Default agenda: Mon and Wed split into morning and afternoon blocks, Fri
// morning only, all 30-minute slots.
func defaultRules(doctorID uuid.UUID) []*model.AvailabilityRule {
	block := func(day int, start, end string) *model.AvailabilityRule {
		return &model.AvailabilityRule{
			ID:              uuid.New(),
			DoctorID:        doctorID,
			DayOfWeek:       day,
			StartTime:       start,
			EndTime:         end,
			DurationMinutes: 30,
			Active:          true,
		}
	}
	return []*model.AvailabilityRule{
		block(1, "09:00", "12:00"),
		block(1, "13:00", "18:00"),
		block(3, "09:00", "12:00"),
		block(3, "13:00", "18:00"),
		block(5, "09:00", "13:00"),
	}
}

func defaultDoctor() *model.Doctor {
	return &model.Doctor{
		ID:                        uuid.MustParse("6f1a0b8e-0000-4000-8000-000000000001"),
		Name:                      "Dra. Ana Silva",
		Email:                     "ana@med.com",
		Specialty:                 "Dermatologia",
		ConfirmationDeadlineHours: 48,
	}
}

func defaultUsers(doctor *model.Doctor) []*model.StaffUser {
	return []*model.StaffUser{
		{
			ID:       uuid.New(),
			Email:    "admin@med.com",
			Role:     model.RoleAdmin,
			DoctorID: doctor.ID,
			Name:     doctor.Name,
		},
		{
			ID:       uuid.New(),
			Email:    "sec@med.com",
			Role:     model.RoleSecretary,
			DoctorID: doctor.ID,
			Name:     "Maria Secretária",
		},
	}
}
