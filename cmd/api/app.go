package main

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/dentalcare-api/internal/config"
	"github.com/jwalitptl/dentalcare-api/internal/repository"
	"github.com/jwalitptl/dentalcare-api/internal/repository/memory"
	"github.com/jwalitptl/dentalcare-api/internal/repository/postgres"
	"github.com/jwalitptl/dentalcare-api/internal/service/report"
	"github.com/jwalitptl/dentalcare-api/pkg/logger"
	"github.com/jwalitptl/dentalcare-api/pkg/messaging"
	"github.com/jwalitptl/dentalcare-api/pkg/messaging/redis"
	"github.com/jwalitptl/dentalcare-api/pkg/metrics"
)

type repositories struct {
	patients      repository.PatientRepository
	appointments  repository.AppointmentRepository
	amounts       repository.AmountRepository
	medicines     repository.MedicineRepository
	sales         repository.PharmacySaleRepository
	customers     repository.PharmacyCustomerRepository
	prescriptions repository.PrescriptionRepository
	treatments    repository.TreatmentRepository
	users         repository.UserRepository
}

// app holds what every subcommand shares: config, logger, storage and metrics.
type app struct {
	cfg      *config.Config
	log      zerolog.Logger
	db       *sqlx.DB
	repos    repositories
	registry *prometheus.Registry
	metrics  *metrics.Metrics
	broker   messaging.Broker
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	l := logger.NewLogger(&logger.Config{
		Level: logger.ParseLevel(cfg.Log.Level),
		JSON:  cfg.Log.JSON,
	})
	l.Install()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	a := &app{
		cfg:      cfg,
		log:      *l.Zerolog(),
		registry: registry,
		metrics:  metrics.NewMetrics(cfg.Server.MetricsPrefix, registry),
	}

	switch cfg.Database.Driver {
	case config.DriverMemory:
		store := memory.NewStore()
		a.repos = repositories{
			patients:      store.Patients(),
			appointments:  store.Appointments(),
			amounts:       store.Amounts(),
			medicines:     store.Medicines(),
			sales:         store.Sales(),
			customers:     store.Customers(),
			prescriptions: store.Prescriptions(),
			treatments:    store.Treatments(),
			users:         store.Users(),
		}
		a.log.Warn().Msg("using in-memory store; data is lost on exit")
	default:
		db, err := postgres.NewDB(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		a.db = db
		a.repos = repositories{
			patients:      postgres.NewPatientRepository(db),
			appointments:  postgres.NewAppointmentRepository(db),
			amounts:       postgres.NewAmountRepository(db),
			medicines:     postgres.NewMedicineRepository(db),
			sales:         postgres.NewPharmacySaleRepository(db),
			customers:     postgres.NewPharmacyCustomerRepository(db),
			prescriptions: postgres.NewPrescriptionRepository(db),
			treatments:    postgres.NewTreatmentRepository(db),
			users:         postgres.NewUserRepository(db),
		}
	}

	return a, nil
}

// connectBroker dials Redis when enabled. A nil broker means events are dropped.
func (a *app) connectBroker(ctx context.Context) error {
	if !a.cfg.Redis.Enabled {
		return nil
	}
	broker, err := redis.NewRedisBroker(ctx, redis.Config{
		URL:          a.cfg.Redis.URL,
		MaxRetries:   a.cfg.Redis.MaxRetries,
		RetryBackoff: a.cfg.Redis.RetryBackoff,
		PoolSize:     a.cfg.Redis.PoolSize,
		MinIdleConns: a.cfg.Redis.MinIdleConns,
	}, a.log)
	if err != nil {
		return err
	}
	a.broker = broker
	return nil
}

func (a *app) publisher() messaging.Publisher {
	if a.broker == nil {
		return messaging.NoopPublisher{}
	}
	return messaging.NewEventPublisher(a.broker, a.cfg.Redis.Channel, a.metrics)
}

func (a *app) reportService() *report.Service {
	return report.NewService(report.Repositories{
		Patients:     a.repos.patients,
		Appointments: a.repos.appointments,
		Amounts:      a.repos.amounts,
		Sales:        a.repos.sales,
		Medicines:    a.repos.medicines,
	}, a.metrics)
}

func (a *app) Close() {
	if a.broker != nil {
		if err := a.broker.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close broker")
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close database")
		}
	}
}
