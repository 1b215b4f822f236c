package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/medagenda/booking-api/config"
	appointmentHandler "github.com/medagenda/booking-api/internal/handler/appointment"
	availabilityHandler "github.com/medagenda/booking-api/internal/handler/availability"
	bookingHandler "github.com/medagenda/booking-api/internal/handler/booking"
	patientHandler "github.com/medagenda/booking-api/internal/handler/patient"
	"github.com/medagenda/booking-api/internal/repository/localstore"
	"github.com/medagenda/booking-api/internal/router"
	appointmentService "github.com/medagenda/booking-api/internal/service/appointment"
	"github.com/medagenda/booking-api/internal/service/schedule"
	"github.com/medagenda/booking-api/internal/worker"
	"github.com/medagenda/booking-api/pkg/logger"
	"github.com/medagenda/booking-api/pkg/metrics"
	"github.com/medagenda/booking-api/pkg/token"
	"github.com/medagenda/booking-api/pkg/validator"
	"golang.org/x/time/rate"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	l := logger.NewLogger(&logger.Config{Level: level})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg, l)
	if err != nil {
		l.Fatal(err, "failed to open store")
	}
	defer closeStore()

	if err := validator.RegisterCustomRules(); err != nil {
		l.Fatal(err, "failed to register validation rules")
	}

	m := metrics.New("booking")

	slotSvc := schedule.NewService(store)
	apptSvc := appointmentService.NewService(store, token.NewGenerator(token.DefaultBytes))
	sweeper := worker.NewExpiryWorker(store, cfg.Sweep.Interval, l, m)

	r := router.NewRouter(
		router.Config{
			RateLimit: rate.Limit(cfg.RateLimit.RequestsPerSecond),
			RateBurst: cfg.RateLimit.Burst,
		},
		l.ZL,
		m,
		bookingHandler.NewHandler(slotSvc, apptSvc, cfg.Booking.HorizonDays, m),
		appointmentHandler.NewHandler(apptSvc, sweeper),
		availabilityHandler.NewHandler(store),
		patientHandler.NewHandler(store),
	)

	// The sweeper shares the session's lifetime: it starts with the server
	// and stops when the signal context is canceled.
	go sweeper.Start(ctx)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		l.ZL.Info().Int("port", cfg.Server.Port).Str("store", cfg.Store.Backend).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Fatal(err, "server failed")
		}
	}()

	<-ctx.Done()
	l.ZL.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		l.Error(err, "graceful shutdown failed")
	}
}

func openStore(ctx context.Context, cfg *config.Config, l *logger.Logger) (*localstore.Store, func(), error) {
	noop := func() {}

	switch cfg.Store.Backend {
	case "memory", "":
		store, err := localstore.New(ctx, localstore.NewMemoryNamespace())
		return store, noop, err
	case "file":
		ns, err := localstore.NewFileNamespace(cfg.Store.FilePath)
		if err != nil {
			return nil, noop, err
		}
		store, err := localstore.New(ctx, ns)
		return store, noop, err
	case "redis":
		ns, err := localstore.NewRedisNamespace(cfg.Store.Redis.ToRedisConfig())
		if err != nil {
			return nil, noop, err
		}
		store, err := localstore.New(ctx, ns)
		return store, func() {
			if err := ns.Close(); err != nil {
				l.Error(err, "failed to close redis")
			}
		}, err
	default:
		return nil, noop, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}
