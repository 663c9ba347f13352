package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/eshaafi/appointment-service/internal/api/http"
	"github.com/eshaafi/appointment-service/internal/api/http/handlers"
	"github.com/eshaafi/appointment-service/internal/auth"
	"github.com/eshaafi/appointment-service/internal/config"
	"github.com/eshaafi/appointment-service/internal/events"
	"github.com/eshaafi/appointment-service/internal/observability"
	"github.com/eshaafi/appointment-service/internal/persistence"
	"github.com/eshaafi/appointment-service/internal/repository"
	"github.com/eshaafi/appointment-service/internal/service"
	"github.com/eshaafi/appointment-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	clinicRepo := repository.NewClinicRepository(pool)
	doctorRepo := repository.NewDoctorRepository(pool)
	applicationRepo := repository.NewApplicationRepository(pool)
	affiliationRepo := repository.NewAffiliationRepository(pool)
	availabilityRepo := repository.NewAvailabilityRepository(pool)
	appointmentRepo := repository.NewAppointmentRepository(pool)
	reviewRepo := repository.NewReviewRepository(pool)
	statsRepo := repository.NewStatsRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	denylist := auth.NewRedisDenylist(redis.Client)

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo: userRepo,
		Denylist: denylist,
	})
	applicationService := service.NewApplicationService(*cfg, service.ApplicationDependencies{
		ApplicationRepo: applicationRepo,
		ClinicRepo:      clinicRepo,
		AffiliationRepo: affiliationRepo,
		DoctorRepo:      doctorRepo,
		UserRepo:        userRepo,
		Dispatcher:      dispatcher,
	})
	doctorService := service.NewDoctorService(service.DoctorDependencies{
		DoctorRepo:       doctorRepo,
		AvailabilityRepo: availabilityRepo,
		ReviewRepo:       reviewRepo,
		Cache:            redis.Client,
	})
	bookingService := service.NewBookingService(service.BookingDependencies{
		AppointmentRepo: appointmentRepo,
		DoctorRepo:      doctorRepo,
		Dispatcher:      dispatcher,
	})
	clinicService := service.NewClinicService(clinicRepo, doctorRepo)
	adminService := service.NewAdminService(statsRepo, applicationRepo)

	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notify)
	worker.StartNotificationWorker(notificationService)

	gate := auth.NewMiddleware(authService.TokenManager(), denylist, cfg.Auth.CookieName)

	app := fiber.New()
	metrics := observability.NewMetrics()
	httptransport.RegisterMiddlewares(app, cfg, logger, metrics)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:   handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Users:    handlers.NewUsersHandler(authService, cfg.Auth),
		Doctors:  handlers.NewDoctorsHandler(doctorService, bookingService, applicationService),
		Clinics:  handlers.NewClinicsHandler(clinicService, applicationService),
		Bookings: handlers.NewBookingsHandler(bookingService),
		Admin:    handlers.NewAdminHandler(adminService, metrics),
		Gate:     gate,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
