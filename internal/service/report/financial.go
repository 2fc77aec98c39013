package report

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jwalitptl/dentalcare-api/internal/model"
)

// FinancialStatistics sums payments by payment date and pharmacy sales by sale
// date. Top procedures and the monthly trend instead join payments through
// appointments dated inside the window.
func (s *Service) FinancialStatistics(ctx context.Context, req model.ReportRequest) (stats *model.FinancialStatistics, err error) {
	start, end, done, err := s.begin(ctx, model.ReportFinancial, req)
	if err != nil {
		return nil, err
	}
	defer func() { done(err) }()

	amounts, err := s.amounts.FindCreatedBetween(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to find amounts: %w", err)
	}
	sales, err := s.sales.FindCreatedBetween(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to find pharmacy sales: %w", err)
	}

	appointmentRevenue := sumAmounts(amounts)
	pharmacyRevenue := sumSales(sales)

	stats = &model.FinancialStatistics{
		TotalRevenue:            appointmentRevenue.Add(pharmacyRevenue),
		AppointmentRevenue:      appointmentRevenue,
		PharmacyRevenue:         pharmacyRevenue,
		AverageAppointmentValue: average(appointmentRevenue, len(amounts)),
		AveragePharmacySale:     average(pharmacyRevenue, len(sales)),
		OnlineAmount:            sumPaymentType(amounts, model.PaymentTypeOnline),
		CashAmount:              sumPaymentType(amounts, model.PaymentTypeCash),
	}

	stats.MonthlyTrends, err = buildMonthlyTrend(start, end, func(w MonthWindow) (model.FinancialTrendPoint, error) {
		return s.financialTrendPoint(ctx, w)
	})
	if err != nil {
		return nil, err
	}

	appointments, err := s.appointments.FindByDateBetween(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to find appointments: %w", err)
	}
	stats.TopProcedures = topProcedures(appointments, amounts)

	return stats, nil
}

func (s *Service) financialTrendPoint(ctx context.Context, w MonthWindow) (model.FinancialTrendPoint, error) {
	appointments, err := s.appointments.FindByDateBetween(ctx, w.Start, w.End)
	if err != nil {
		return model.FinancialTrendPoint{}, fmt.Errorf("failed to find appointments for %s: %w", w.Label, err)
	}

	appointmentRevenue := decimal.Zero
	if len(appointments) > 0 {
		ids := make([]int64, len(appointments))
		for i, a := range appointments {
			ids[i] = a.ID
		}
		amounts, err := s.amounts.FindByAppointmentIDs(ctx, ids)
		if err != nil {
			return model.FinancialTrendPoint{}, fmt.Errorf("failed to find amounts for %s: %w", w.Label, err)
		}
		appointmentRevenue = sumAmounts(amounts)
	}

	sales, err := s.sales.FindCreatedBetween(ctx, w.Start, w.End)
	if err != nil {
		return model.FinancialTrendPoint{}, fmt.Errorf("failed to find pharmacy sales for %s: %w", w.Label, err)
	}
	pharmacyRevenue := sumSales(sales)

	return model.FinancialTrendPoint{
		Date:               w.Label,
		TotalRevenue:       appointmentRevenue.Add(pharmacyRevenue),
		AppointmentRevenue: appointmentRevenue,
		PharmacyRevenue:    pharmacyRevenue,
	}, nil
}

// topProcedures groups appointments by type in first-seen order and ranks the
// groups by revenue, highest first. Equal revenues keep their first-seen order.
func topProcedures(appointments []*model.Appointment, amounts []*model.Amount) []model.ProcedureStat {
	paid := make(map[int64]decimal.Decimal)
	for _, a := range amounts {
		paid[a.AppointmentID] = paid[a.AppointmentID].Add(a.Amount)
	}

	index := make(map[string]int)
	procedures := make([]model.ProcedureStat, 0)
	for _, a := range appointments {
		i, ok := index[a.Type]
		if !ok {
			i = len(procedures)
			index[a.Type] = i
			procedures = append(procedures, model.ProcedureStat{Type: a.Type, Revenue: decimal.Zero})
		}
		procedures[i].Count++
		procedures[i].Revenue = procedures[i].Revenue.Add(paid[a.ID])
	}

	sort.SliceStable(procedures, func(i, j int) bool {
		return procedures[i].Revenue.GreaterThan(procedures[j].Revenue)
	})
	return procedures
}

func sumAmounts(amounts []*model.Amount) decimal.Decimal {
	sum := decimal.Zero
	for _, a := range amounts {
		sum = sum.Add(a.Amount)
	}
	return sum
}

// sumPaymentType matches paymentType case-insensitively. Payments of any other
// type are counted in neither bucket.
func sumPaymentType(amounts []*model.Amount, paymentType string) decimal.Decimal {
	sum := decimal.Zero
	for _, a := range amounts {
		if strings.EqualFold(a.PaymentType, paymentType) {
			sum = sum.Add(a.Amount)
		}
	}
	return sum
}

func sumSales(sales []*model.PharmacySale) decimal.Decimal {
	sum := decimal.Zero
	for _, s := range sales {
		sum = sum.Add(s.Total)
	}
	return sum
}

func average(total decimal.Decimal, n int) decimal.Decimal {
	if n == 0 {
		return decimal.Zero
	}
	return total.Div(decimal.NewFromInt(int64(n)))
}
