package report

import (
	"context"
	"fmt"

	"github.com/jwalitptl/dentalcare-api/internal/model"
)

func (s *Service) AppointmentStatistics(ctx context.Context, req model.ReportRequest) (stats *model.AppointmentStatistics, err error) {
	start, end, done, err := s.begin(ctx, model.ReportAppointments, req)
	if err != nil {
		return nil, err
	}
	defer func() { done(err) }()

	appointments, err := s.appointments.FindByDateBetween(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to find appointments: %w", err)
	}

	counts := countStatuses(appointments)
	stats = &model.AppointmentStatistics{
		TotalAppointments:         len(appointments),
		CompletedAppointments:     counts.completed,
		CancelledAppointments:     counts.cancelled,
		NoShowAppointments:        counts.noShow,
		TypeDistribution:          make(map[string]int64),
		TreatmentTypeDistribution: make(map[string]int64),
	}
	for _, a := range appointments {
		stats.TypeDistribution[a.Type]++
		if a.TreatmentType != nil {
			stats.TreatmentTypeDistribution[*a.TreatmentType]++
		}
	}

	stats.MonthlyTrends, err = buildMonthlyTrend(start, end, func(w MonthWindow) (model.AppointmentTrendPoint, error) {
		monthly, err := s.appointments.FindByDateBetween(ctx, w.Start, w.End)
		if err != nil {
			return model.AppointmentTrendPoint{}, fmt.Errorf("failed to find appointments for %s: %w", w.Label, err)
		}
		c := countStatuses(monthly)
		return model.AppointmentTrendPoint{
			Date:      w.Label,
			Total:     len(monthly),
			Completed: c.completed,
			Cancelled: c.cancelled,
			NoShow:    c.noShow,
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}

type statusCounts struct {
	completed, cancelled, noShow int64
}

func countStatuses(appointments []*model.Appointment) statusCounts {
	var c statusCounts
	for _, a := range appointments {
		switch a.Status {
		case model.AppointmentStatusCompleted:
			c.completed++
		case model.AppointmentStatusCancelled:
			c.cancelled++
		case model.AppointmentStatusNoShow:
			c.noShow++
		}
	}
	return c
}
