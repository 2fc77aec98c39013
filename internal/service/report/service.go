// Package report builds the clinic's statistics reports: patients,
// appointments, finances and pharmacy, each with a month-by-month trend.
package report

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/dentalcare-api/internal/model"
	"github.com/jwalitptl/dentalcare-api/internal/repository"
)

var ErrInvalidRange = errors.New("start date is after end date")

const (
	// ReorderPoint is the stock level at or below which a medicine raises an alert.
	ReorderPoint = 20
	// ExpiryHorizonMonths is how far ahead expiry alerts look.
	ExpiryHorizonMonths = 3
)

// Observer receives the outcome of every report build.
type Observer interface {
	ObserveReport(kind string, elapsed time.Duration, err error)
}

type Repositories struct {
	Patients     repository.PatientReader
	Appointments repository.AppointmentReader
	Amounts      repository.AmountReader
	Sales        repository.PharmacySaleReader
	Medicines    repository.MedicineReader
}

// Service is stateless between calls; every report re-reads the store.
type Service struct {
	patients     repository.PatientReader
	appointments repository.AppointmentReader
	amounts      repository.AmountReader
	sales        repository.PharmacySaleReader
	medicines    repository.MedicineReader
	observer     Observer
	now          func() time.Time
}

func NewService(repos Repositories, observer Observer) *Service {
	return &Service{
		patients:     repos.Patients,
		appointments: repos.Appointments,
		amounts:      repos.Amounts,
		sales:        repos.Sales,
		medicines:    repos.Medicines,
		observer:     observer,
		now:          time.Now,
	}
}

// WithClock replaces the source of "today" used for ages and expiry alerts.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Build dispatches to the aggregator named by kind.
func (s *Service) Build(ctx context.Context, kind model.ReportKind, req model.ReportRequest) (interface{}, error) {
	switch kind {
	case model.ReportPatients:
		return s.PatientStatistics(ctx, req)
	case model.ReportAppointments:
		return s.AppointmentStatistics(ctx, req)
	case model.ReportFinancial:
		return s.FinancialStatistics(ctx, req)
	case model.ReportPharmacy:
		return s.PharmacyStatistics(ctx, req)
	default:
		return nil, ErrUnknownReport
	}
}

var ErrUnknownReport = errors.New("unknown report kind")

// begin validates the range and returns the inclusive window plus a
// completion hook that logs and records the build.
func (s *Service) begin(ctx context.Context, kind model.ReportKind, req model.ReportRequest) (time.Time, time.Time, func(error), error) {
	logger := loggerFrom(ctx)
	start, end := model.StartOfDay(req.StartDate), model.EndOfDay(req.EndDate)
	if start.After(end) {
		return start, end, nil, ErrInvalidRange
	}

	started := time.Now()
	done := func(err error) {
		elapsed := time.Since(started)
		if s.observer != nil {
			s.observer.ObserveReport(string(kind), elapsed, err)
		}
		evt := logger.Debug()
		if err != nil {
			evt = logger.Error().Err(err)
		}
		evt.Str("report", string(kind)).
			Str("period", req.Period).
			Str("start", start.Format(model.DateLayout)).
			Str("end", end.Format(model.DateLayout)).
			Dur("elapsed", elapsed).
			Msg("report built")
	}
	return start, end, done, nil
}

// returningPatients counts patients with more than one appointment in the
// window. A failed count degrades to zero and is logged rather than failing
// the whole report.
func (s *Service) returningPatients(ctx context.Context, start, end time.Time) int64 {
	n, err := s.patients.CountWithMultipleAppointments(ctx, start, end)
	if err != nil {
		loggerFrom(ctx).Warn().Err(err).
			Time("start", start).
			Time("end", end).
			Msg("returning patient count unavailable, using 0")
		return 0
	}
	return n
}

func loggerFrom(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &log.Logger
}
