// Seeds the store with demo bookings: fake patients spread over the upcoming
// free slots, some confirmed, the near-term ones left pending so the expiry
// sweep has work to do.
package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/rs/zerolog/log"

	"github.com/medagenda/booking-api/config"
	"github.com/medagenda/booking-api/internal/model"
	"github.com/medagenda/booking-api/internal/repository/localstore"
	appointmentService "github.com/medagenda/booking-api/internal/service/appointment"
	"github.com/medagenda/booking-api/internal/service/schedule"
	"github.com/medagenda/booking-api/pkg/token"
)

func main() {
	count := flag.Int("count", 12, "number of demo appointments to create")
	flag.Parse()
	if *count <= 0 {
		log.Fatal().Msg("count must be positive")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	ctx := context.Background()
	store, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open store")
	}

	gofakeit.Seed(time.Now().UnixNano())

	slotSvc := schedule.NewService(store)
	apptSvc := appointmentService.NewService(store, token.NewGenerator(token.DefaultBytes))

	slots, err := slotSvc.GenerateSlots(ctx, cfg.Booking.HorizonDays)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to generate slots")
	}
	if len(slots) == 0 {
		log.Fatal().Msg("no free slots in the horizon; nothing to seed")
	}

	booked := 0
	// Spread the bookings across the horizon instead of filling the first day.
	step := len(slots) / *count
	if step == 0 {
		step = 1
	}
	for i := 0; i < len(slots) && booked < *count; i += step {
		slot := slots[i]
		appt, err := apptSvc.Book(ctx, &model.CreateAppointmentRequest{
			SlotID: slot.ID,
			Start:  slot.Start,
			End:    slot.End,
			Name:   gofakeit.Name(),
			Email:  gofakeit.Email(),
			Phone:  gofakeit.Phone(),
			Notes:  gofakeit.Sentence(6),
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to book demo appointment")
		}
		booked++

		// Confirm every other booking; the rest stay pending, and those
		// starting inside the deadline window are already expirable.
		if booked%2 == 0 {
			if _, err := apptSvc.UpdateStatus(ctx, appt.ID, model.AppointmentStatusConfirmed); err != nil {
				log.Fatal().Err(err).Msg("failed to confirm demo appointment")
			}
		}
	}

	log.Info().Int("appointments", booked).Msg("seed complete")
}

func openStore(ctx context.Context, cfg *config.Config) (*localstore.Store, error) {
	switch cfg.Store.Backend {
	case "memory", "":
		// Seeding a memory namespace would vanish with the process.
		return nil, fmt.Errorf("seeding requires a persistent backend, got %q", cfg.Store.Backend)
	case "file":
		ns, err := localstore.NewFileNamespace(cfg.Store.FilePath)
		if err != nil {
			return nil, err
		}
		return localstore.New(ctx, ns)
	case "redis":
		ns, err := localstore.NewRedisNamespace(cfg.Store.Redis.ToRedisConfig())
		if err != nil {
			return nil, err
		}
		return localstore.New(ctx, ns)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}
