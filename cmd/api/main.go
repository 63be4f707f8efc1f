package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/crypto/bcrypt"

	"github.com/jwalitptl/clinic-api/internal/config"
	"github.com/jwalitptl/clinic-api/internal/email"
	"github.com/jwalitptl/clinic-api/internal/handler"
	appointmentHandler "github.com/jwalitptl/clinic-api/internal/handler/appointment"
	doctorHandler "github.com/jwalitptl/clinic-api/internal/handler/doctor"
	patientHandler "github.com/jwalitptl/clinic-api/internal/handler/patient"
	userHandler "github.com/jwalitptl/clinic-api/internal/handler/user"
	"github.com/jwalitptl/clinic-api/internal/middleware"
	"github.com/jwalitptl/clinic-api/internal/repository/jsonfile"
	"github.com/jwalitptl/clinic-api/internal/router"
	appointmentService "github.com/jwalitptl/clinic-api/internal/service/appointment"
	doctorService "github.com/jwalitptl/clinic-api/internal/service/doctor"
	patientService "github.com/jwalitptl/clinic-api/internal/service/patient"
	userService "github.com/jwalitptl/clinic-api/internal/service/user"
	"github.com/jwalitptl/clinic-api/internal/validation"
	"github.com/jwalitptl/clinic-api/pkg/logger"
	"github.com/jwalitptl/clinic-api/pkg/messaging"
	redisBroker "github.com/jwalitptl/clinic-api/pkg/messaging/redis"
	"github.com/jwalitptl/clinic-api/pkg/metrics"
	"github.com/jwalitptl/clinic-api/pkg/security"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(&logger.Config{
		Level:      logger.ParseLevel(cfg.Log.Level),
		TimeFormat: time.RFC3339,
		Output:     os.Stdout,
		Pretty:     cfg.Log.Pretty,
	})

	registry := prometheus.NewRegistry()
	m := metrics.New("clinic_api", registry)

	// Record store
	store, err := jsonfile.Open(cfg.Store.Path,
		jsonfile.WithLogger(log),
		jsonfile.WithMetrics(m),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open record store")
	}

	// Repositories
	patientRepo := jsonfile.NewPatientRepository(store)
	doctorRepo := jsonfile.NewDoctorRepository(store)
	appointmentRepo := jsonfile.NewAppointmentRepository(store)
	userRepo := jsonfile.NewUserRepository(store)

	// Event broker
	var broker messaging.Broker = messaging.NewNoopBroker()
	if cfg.Redis.URL != "" {
		broker, err = redisBroker.NewBroker(redisBroker.Config{
			URL:          cfg.Redis.URL,
			MaxRetries:   3,
			RetryBackoff: 100 * time.Millisecond,
		}, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to event broker")
		}
	}
	defer broker.Close()

	// Notification mail
	var notifier email.Service = email.NewNoopService()
	if cfg.SMTP.Host != "" {
		notifier = email.NewSMTPService(email.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		})
	}

	// Services
	validator := validation.New()
	hasher := security.NewBcryptHasher(bcrypt.DefaultCost)
	patientSvc := patientService.NewService(patientRepo, validator, broker, log)
	doctorSvc := doctorService.NewService(doctorRepo, validator, broker, log)
	appointmentSvc := appointmentService.NewService(appointmentRepo, patientRepo, doctorRepo, validator, broker, notifier, log)
	userSvc := userService.NewService(userRepo, validator, hasher, broker, log)

	// Router
	routerCfg := router.DefaultConfig()
	routerCfg.RequestTimeout = time.Duration(cfg.Server.TimeoutSeconds) * time.Second
	routerCfg.RateLimit.RPS = cfg.RateLimit.RPS
	routerCfg.RateLimit.Burst = cfg.RateLimit.Burst
	if len(cfg.CORS.AllowOrigins) > 0 {
		routerCfg.CORS = middleware.DefaultCORSConfig()
		routerCfg.CORS.AllowOrigins = cfg.CORS.AllowOrigins
	}

	r := router.New(
		routerCfg,
		log,
		m,
		registry,
		handler.NewHandler(store),
		patientHandler.NewHandler(patientSvc),
		doctorHandler.NewHandler(doctorSvc),
		appointmentHandler.NewHandler(appointmentSvc),
		userHandler.NewHandler(userSvc),
	)
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Str("store", cfg.Store.Path).Msg("clinic API listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
}
