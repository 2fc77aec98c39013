package report

import (
	"context"
	"fmt"
	"time"

	"github.com/jwalitptl/dentalcare-api/internal/model"
)

func (s *Service) PharmacyStatistics(ctx context.Context, req model.ReportRequest) (stats *model.PharmacyStatistics, err error) {
	start, end, done, err := s.begin(ctx, model.ReportPharmacy, req)
	if err != nil {
		return nil, err
	}
	defer func() { done(err) }()

	sales, err := s.sales.FindCreatedBetween(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to find pharmacy sales: %w", err)
	}
	revenue := sumSales(sales)

	stats = &model.PharmacyStatistics{
		TotalSales:       len(sales),
		TotalRevenue:     revenue,
		AverageSaleValue: average(revenue, len(sales)),
	}

	top, err := s.sales.GetTopSellingMedicines(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to get top selling medicines: %w", err)
	}
	stats.TopSellingMedicines = append(make([]model.TopSellingMedicine, 0, len(top)), top...)

	// Trend points are carved out of the sales already loaded.
	stats.MonthlyTrends, err = buildMonthlyTrend(start, end, func(w MonthWindow) (model.PharmacyTrendPoint, error) {
		var monthly []*model.PharmacySale
		for _, sale := range sales {
			if !sale.CreatedAt.Before(w.Start) && !sale.CreatedAt.After(w.End) {
				monthly = append(monthly, sale)
			}
		}
		return model.PharmacyTrendPoint{
			Date:    w.Label,
			Sales:   len(monthly),
			Revenue: sumSales(monthly),
		}, nil
	})
	if err != nil {
		return nil, err
	}

	medicines, err := s.medicines.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to find medicines: %w", err)
	}
	stats.StockAlerts = stockAlerts(medicines)
	stats.ExpiryAlerts = expiryAlerts(medicines, addMonths(s.now(), ExpiryHorizonMonths))

	return stats, nil
}

func stockAlerts(medicines []*model.Medicine) []model.StockAlert {
	alerts := make([]model.StockAlert, 0)
	for _, m := range medicines {
		if m.Stock > ReorderPoint {
			continue
		}
		alerts = append(alerts, model.StockAlert{
			MedicineID:   m.ID,
			MedicineName: m.Name,
			CurrentStock: m.Stock,
			ReorderPoint: ReorderPoint,
		})
	}
	return alerts
}

// expiryAlerts lists medicines expiring on or before threshold, compared as
// calendar dates. Already expired stock is included.
func expiryAlerts(medicines []*model.Medicine, threshold time.Time) []model.ExpiryAlert {
	limit := calendarDate(threshold)
	alerts := make([]model.ExpiryAlert, 0)
	for _, m := range medicines {
		if m.DateOfExpiry == nil || calendarDate(*m.DateOfExpiry).After(limit) {
			continue
		}
		alerts = append(alerts, model.ExpiryAlert{
			MedicineID:   m.ID,
			MedicineName: m.Name,
			ExpiryDate:   m.DateOfExpiry.Format(model.DateLayout),
		})
	}
	return alerts
}

func calendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
