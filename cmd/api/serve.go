package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/dentalcare-api/internal/email"
	amounthandler "github.com/jwalitptl/dentalcare-api/internal/handler/amount"
	appointmenthandler "github.com/jwalitptl/dentalcare-api/internal/handler/appointment"
	authhandler "github.com/jwalitptl/dentalcare-api/internal/handler/auth"
	customerhandler "github.com/jwalitptl/dentalcare-api/internal/handler/customer"
	healthhandler "github.com/jwalitptl/dentalcare-api/internal/handler/health"
	patienthandler "github.com/jwalitptl/dentalcare-api/internal/handler/patient"
	pharmacyhandler "github.com/jwalitptl/dentalcare-api/internal/handler/pharmacy"
	prescriptionhandler "github.com/jwalitptl/dentalcare-api/internal/handler/prescription"
	reporthandler "github.com/jwalitptl/dentalcare-api/internal/handler/report"
	treatmenthandler "github.com/jwalitptl/dentalcare-api/internal/handler/treatment"
	"github.com/jwalitptl/dentalcare-api/internal/middleware"
	"github.com/jwalitptl/dentalcare-api/internal/router"
	"github.com/jwalitptl/dentalcare-api/internal/service/amount"
	"github.com/jwalitptl/dentalcare-api/internal/service/appointment"
	"github.com/jwalitptl/dentalcare-api/internal/service/auth"
	"github.com/jwalitptl/dentalcare-api/internal/service/customer"
	"github.com/jwalitptl/dentalcare-api/internal/service/patient"
	"github.com/jwalitptl/dentalcare-api/internal/service/pharmacy"
	"github.com/jwalitptl/dentalcare-api/internal/service/prescription"
	"github.com/jwalitptl/dentalcare-api/internal/service/treatment"
	jwtauth "github.com/jwalitptl/dentalcare-api/pkg/auth"
	"github.com/jwalitptl/dentalcare-api/pkg/security"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(parent context.Context) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.connectBroker(ctx); err != nil {
		return err
	}
	if err := middleware.RegisterValidation(nil); err != nil {
		return fmt.Errorf("failed to register validators: %w", err)
	}

	gin.SetMode(gin.ReleaseMode)
	publisher := a.publisher()

	// Initialize services
	authSvc := auth.NewService(
		a.repos.users,
		jwtauth.NewJWTService(a.cfg.JWT.Secret, a.cfg.JWT.Expiry(), a.cfg.JWT.Issuer),
		security.NewBcryptHasher(bcrypt.DefaultCost),
	)
	patientSvc := patient.NewService(a.repos.patients, a.repos.appointments)
	appointmentSvc := appointment.NewService(a.repos.appointments, a.repos.patients, email.NewService(a.cfg.SMTP), publisher)
	amountSvc := amount.NewService(a.repos.amounts, a.repos.appointments)
	pharmacySvc := pharmacy.NewService(a.repos.medicines, a.repos.sales, publisher, a.metrics)
	customerSvc := customer.NewService(a.repos.customers)
	prescriptionSvc := prescription.NewService(a.repos.prescriptions, a.repos.patients, a.repos.appointments, a.repos.medicines)
	treatmentSvc := treatment.NewService(a.repos.treatments, a.repos.patients, a.repos.appointments)

	var pinger healthhandler.Pinger
	if a.db != nil {
		pinger = a.db
		go a.watchConnections(ctx)
	}

	// Setup router
	r := router.NewRouter(middleware.NewAuthMiddleware(authSvc), router.Handlers{
		Health:       healthhandler.NewHandler(pinger, a.registry),
		Auth:         authhandler.NewHandler(authSvc),
		Patient:      patienthandler.NewHandler(patientSvc),
		Appointment:  appointmenthandler.NewHandler(appointmentSvc),
		Amount:       amounthandler.NewHandler(amountSvc),
		Pharmacy:     pharmacyhandler.NewHandler(pharmacySvc),
		Customer:     customerhandler.NewHandler(customerSvc),
		Prescription: prescriptionhandler.NewHandler(prescriptionSvc),
		Treatment:    treatmenthandler.NewHandler(treatmentSvc),
		Report:       reporthandler.NewHandler(a.reportService()),
	}, router.RouterConfig{
		RateLimitEnabled: a.cfg.RateLimit.Enabled,
		RateLimit:        rate.Limit(a.cfg.RateLimit.RequestsPerSecond),
		RateBurst:        a.cfg.RateLimit.Burst,
		RateTTL:          a.cfg.RateLimit.TTL,
		RequestTimeout:   a.cfg.Server.RequestTimeout,
		CORSConfig:       middleware.DefaultCORSConfig(),
		MetricsPrefix:    a.cfg.Server.MetricsPrefix,
		Registerer:       a.registry,
		Logger:           a.log,
	})
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", a.cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  a.cfg.Server.ReadTimeout,
		WriteTimeout: a.cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info().Str("addr", srv.Addr).Str("driver", a.cfg.Database.Driver).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.log.Info().Msg("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	a.log.Info().Msg("server exited properly")
	return nil
}

// watchConnections samples the pool size into the database gauge until ctx ends.
func (a *app) watchConnections(ctx context.Context) {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	for {
		a.metrics.DatabaseConnections.Set(float64(a.db.Stats().OpenConnections))
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
