package report

import (
	"context"
	"fmt"

	"github.com/jwalitptl/dentalcare-api/internal/model"
)

func (s *Service) PatientStatistics(ctx context.Context, req model.ReportRequest) (stats *model.PatientStatistics, err error) {
	start, end, done, err := s.begin(ctx, model.ReportPatients, req)
	if err != nil {
		return nil, err
	}
	defer func() { done(err) }()

	patients, err := s.patients.FindCreatedBetween(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to find patients: %w", err)
	}
	total, err := s.patients.CountAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count patients: %w", err)
	}

	stats = &model.PatientStatistics{
		TotalPatients:      total,
		NewPatients:        len(patients),
		ReturningPatients:  s.returningPatients(ctx, start, end),
		AverageAge:         s.averageAge(patients),
		GenderDistribution: genderDistribution(patients),
	}

	stats.MonthlyTrends, err = buildMonthlyTrend(start, end, func(w MonthWindow) (model.PatientTrendPoint, error) {
		created, err := s.patients.FindCreatedBetween(ctx, w.Start, w.End)
		if err != nil {
			return model.PatientTrendPoint{}, fmt.Errorf("failed to find patients for %s: %w", w.Label, err)
		}
		return model.PatientTrendPoint{
			Date:              w.Label,
			NewPatients:       len(created),
			ReturningPatients: s.returningPatients(ctx, w.Start, w.End),
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// averageAge is the mean of whole years since birth over patients that have a
// date of birth.
func (s *Service) averageAge(patients []*model.Patient) float64 {
	today := s.now()
	var sum, n int
	for _, p := range patients {
		if p.DateOfBirth == nil {
			continue
		}
		sum += fullYearsBetween(*p.DateOfBirth, today)
		n++
	}
	if n == 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

// genderDistribution always carries male, female and other. Any other
// literal gets its own key rather than being folded into "other".
func genderDistribution(patients []*model.Patient) map[string]int64 {
	dist := map[string]int64{
		model.GenderMale:   0,
		model.GenderFemale: 0,
		model.GenderOther:  0,
	}
	for _, p := range patients {
		if p.Gender == nil {
			continue
		}
		dist[*p.Gender]++
	}
	return dist
}
