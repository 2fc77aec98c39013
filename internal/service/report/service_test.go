package report

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/dentalcare-api/internal/model"
	"github.com/jwalitptl/dentalcare-api/internal/repository/memory"
)

var today = time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC)

type fixture struct {
	ctx   context.Context
	store *memory.Store
	svc   *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	store.SetClock(func() time.Time { return today })
	svc := NewService(Repositories{
		Patients:     store.Patients(),
		Appointments: store.Appointments(),
		Amounts:      store.Amounts(),
		Sales:        store.Sales(),
		Medicines:    store.Medicines(),
	}, nil).WithClock(func() time.Time { return today })
	return &fixture{ctx: context.Background(), store: store, svc: svc}
}

func (f *fixture) patient(t *testing.T, p model.Patient) *model.Patient {
	t.Helper()
	require.NoError(t, f.store.Patients().Create(f.ctx, &p))
	return &p
}

func (f *fixture) appointment(t *testing.T, a model.Appointment) *model.Appointment {
	t.Helper()
	require.NoError(t, f.store.Appointments().Create(f.ctx, &a))
	return &a
}

func (f *fixture) amount(t *testing.T, appointmentID int64, value int64, paymentType string, at time.Time) {
	t.Helper()
	require.NoError(t, f.store.Amounts().Create(f.ctx, &model.Amount{
		AppointmentID: appointmentID,
		Amount:        decimal.NewFromInt(value),
		PaymentType:   paymentType,
		CreatedAt:     at,
	}))
}

func (f *fixture) medicine(t *testing.T, m model.Medicine) *model.Medicine {
	t.Helper()
	require.NoError(t, f.store.Medicines().Create(f.ctx, &m))
	return &m
}

func (f *fixture) sale(t *testing.T, total string, at time.Time, items ...model.PharmacySaleItem) {
	t.Helper()
	require.NoError(t, f.store.Sales().CreateWithStockUpdate(f.ctx, &model.PharmacySale{
		Items:     items,
		Total:     decimal.RequireFromString(total),
		CreatedAt: at,
	}))
}

func rng(start, end time.Time) model.ReportRequest {
	return model.ReportRequest{Period: "monthly", StartDate: start, EndDate: end}
}

func ptr[T any](v T) *T { return &v }

func TestService_InvalidRangeIssuesNoQueries(t *testing.T) {
	// nil repositories panic if touched
	svc := NewService(Repositories{}, nil)
	ctx := context.Background()
	req := rng(day(2024, 5, 2), day(2024, 5, 1))

	_, err := svc.PatientStatistics(ctx, req)
	assert.ErrorIs(t, err, ErrInvalidRange)
	_, err = svc.AppointmentStatistics(ctx, req)
	assert.ErrorIs(t, err, ErrInvalidRange)
	_, err = svc.FinancialStatistics(ctx, req)
	assert.ErrorIs(t, err, ErrInvalidRange)
	_, err = svc.PharmacyStatistics(ctx, req)
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestService_Build(t *testing.T) {
	f := newFixture(t)

	for _, kind := range []model.ReportKind{model.ReportPatients, model.ReportAppointments, model.ReportFinancial, model.ReportPharmacy} {
		out, err := f.svc.Build(f.ctx, kind, rng(day(2024, 1, 1), day(2024, 1, 31)))
		require.NoError(t, err, kind)
		assert.NotNil(t, out, kind)
	}

	_, err := f.svc.Build(f.ctx, "inventory", rng(day(2024, 1, 1), day(2024, 1, 31)))
	assert.ErrorIs(t, err, ErrUnknownReport)
}

func TestPatientStatistics(t *testing.T) {
	f := newFixture(t)

	a := f.patient(t, model.Patient{FirstName: "A", Gender: ptr("male"), DateOfBirth: ptr(day(1990, 6, 16)), CreatedAt: day(2024, 1, 10)})
	f.patient(t, model.Patient{FirstName: "B", Gender: ptr("female"), DateOfBirth: ptr(day(2000, 6, 15)), CreatedAt: day(2024, 2, 5)})
	f.patient(t, model.Patient{FirstName: "C", Gender: ptr("unspecified"), CreatedAt: day(2024, 2, 20)})
	f.patient(t, model.Patient{FirstName: "D", CreatedAt: day(2023, 12, 31)})

	f.appointment(t, model.Appointment{PatientID: a.ID, Date: day(2024, 1, 11)})
	f.appointment(t, model.Appointment{PatientID: a.ID, Date: day(2024, 1, 25)})

	stats, err := f.svc.PatientStatistics(f.ctx, rng(day(2024, 1, 1), day(2024, 3, 31)))
	require.NoError(t, err)

	assert.Equal(t, int64(4), stats.TotalPatients)
	assert.Equal(t, 3, stats.NewPatients)
	assert.Equal(t, int64(1), stats.ReturningPatients)
	assert.InDelta(t, 28.5, stats.AverageAge, 1e-9)
	assert.Equal(t, map[string]int64{"male": 1, "female": 1, "other": 0, "unspecified": 1}, stats.GenderDistribution)

	assert.Equal(t, []model.PatientTrendPoint{
		{Date: "2024-01", NewPatients: 1, ReturningPatients: 1},
		{Date: "2024-02", NewPatients: 2, ReturningPatients: 0},
		{Date: "2024-03", NewPatients: 0, ReturningPatients: 0},
	}, stats.MonthlyTrends)
}

func TestPatientStatistics_Empty(t *testing.T) {
	f := newFixture(t)

	stats, err := f.svc.PatientStatistics(f.ctx, rng(day(2024, 1, 1), day(2024, 1, 31)))
	require.NoError(t, err)

	assert.Equal(t, map[string]int64{"male": 0, "female": 0, "other": 0}, stats.GenderDistribution)
	assert.Zero(t, stats.AverageAge)
	assert.Zero(t, stats.NewPatients)
	assert.Len(t, stats.MonthlyTrends, 1)
}

type failingCounter struct {
	*memory.Patients
}

func (failingCounter) CountWithMultipleAppointments(context.Context, time.Time, time.Time) (int64, error) {
	return 0, errors.New("connection reset")
}

func TestPatientStatistics_ReturningCountFallsBackToZero(t *testing.T) {
	f := newFixture(t)
	a := f.patient(t, model.Patient{FirstName: "A", CreatedAt: day(2024, 1, 10)})
	f.appointment(t, model.Appointment{PatientID: a.ID, Date: day(2024, 1, 11)})
	f.appointment(t, model.Appointment{PatientID: a.ID, Date: day(2024, 1, 12)})

	svc := NewService(Repositories{
		Patients:     failingCounter{f.store.Patients()},
		Appointments: f.store.Appointments(),
	}, nil)

	stats, err := svc.PatientStatistics(f.ctx, rng(day(2024, 1, 1), day(2024, 2, 28)))
	require.NoError(t, err)
	assert.Zero(t, stats.ReturningPatients)
	assert.Equal(t, 1, stats.NewPatients)
	for _, p := range stats.MonthlyTrends {
		assert.Zero(t, p.ReturningPatients)
	}
}

var errStoreDown = errors.New("connection refused")

type failingAmounts struct{}

func (failingAmounts) FindCreatedBetween(context.Context, time.Time, time.Time) ([]*model.Amount, error) {
	return nil, errStoreDown
}

func (failingAmounts) FindByAppointmentIDs(context.Context, []int64) ([]*model.Amount, error) {
	return nil, errStoreDown
}

type failingMedicines struct{}

func (failingMedicines) FindAll(context.Context) ([]*model.Medicine, error) {
	return nil, errStoreDown
}

func TestFinancialStatistics_PropagatesStoreErrors(t *testing.T) {
	f := newFixture(t)
	svc := NewService(Repositories{
		Patients:     f.store.Patients(),
		Appointments: f.store.Appointments(),
		Amounts:      failingAmounts{},
		Sales:        f.store.Sales(),
		Medicines:    f.store.Medicines(),
	}, nil)

	stats, err := svc.FinancialStatistics(f.ctx, rng(day(2024, 1, 1), day(2024, 1, 31)))
	assert.Nil(t, stats)
	assert.ErrorIs(t, err, errStoreDown)
	assert.ErrorContains(t, err, "failed to find amounts")
}

func TestPharmacyStatistics_PropagatesStoreErrors(t *testing.T) {
	f := newFixture(t)
	svc := NewService(Repositories{
		Patients:     f.store.Patients(),
		Appointments: f.store.Appointments(),
		Amounts:      f.store.Amounts(),
		Sales:        f.store.Sales(),
		Medicines:    failingMedicines{},
	}, nil)

	stats, err := svc.PharmacyStatistics(f.ctx, rng(day(2024, 1, 1), day(2024, 1, 31)))
	assert.Nil(t, stats)
	assert.ErrorIs(t, err, errStoreDown)
}

func TestAppointmentStatistics(t *testing.T) {
	f := newFixture(t)
	f.appointment(t, model.Appointment{PatientID: 1, Date: day(2024, 1, 3), Type: "checkup", Status: model.AppointmentStatusCompleted, TreatmentType: ptr("cleaning")})
	f.appointment(t, model.Appointment{PatientID: 1, Date: day(2024, 1, 31), Type: "checkup", Status: model.AppointmentStatusCancelled})
	f.appointment(t, model.Appointment{PatientID: 2, Date: day(2024, 2, 1), Type: "surgery", Status: model.AppointmentStatusNoShow, TreatmentType: ptr("extraction")})
	f.appointment(t, model.Appointment{PatientID: 2, Date: day(2024, 2, 14), Type: "surgery", Status: model.AppointmentStatusScheduled, TreatmentType: ptr("extraction")})
	f.appointment(t, model.Appointment{PatientID: 3, Date: day(2024, 4, 1), Type: "checkup", Status: model.AppointmentStatusCompleted})

	stats, err := f.svc.AppointmentStatistics(f.ctx, rng(day(2024, 1, 1), day(2024, 2, 29)))
	require.NoError(t, err)

	assert.Equal(t, 4, stats.TotalAppointments)
	assert.Equal(t, int64(1), stats.CompletedAppointments)
	assert.Equal(t, int64(1), stats.CancelledAppointments)
	assert.Equal(t, int64(1), stats.NoShowAppointments)
	assert.Equal(t, map[string]int64{"checkup": 2, "surgery": 2}, stats.TypeDistribution)
	assert.Equal(t, map[string]int64{"cleaning": 1, "extraction": 2}, stats.TreatmentTypeDistribution)
	assert.Equal(t, []model.AppointmentTrendPoint{
		{Date: "2024-01", Total: 2, Completed: 1, Cancelled: 1},
		{Date: "2024-02", Total: 2, NoShow: 1},
	}, stats.MonthlyTrends)
}

func TestFinancialStatistics(t *testing.T) {
	f := newFixture(t)

	a1 := f.appointment(t, model.Appointment{PatientID: 1, Date: day(2024, 3, 2), Type: "A"})
	b1 := f.appointment(t, model.Appointment{PatientID: 1, Date: day(2024, 3, 3), Type: "B"})
	c1 := f.appointment(t, model.Appointment{PatientID: 2, Date: day(2024, 3, 4), Type: "C"})
	a2 := f.appointment(t, model.Appointment{PatientID: 2, Date: day(2024, 3, 5), Type: "A"})
	unpaid := f.appointment(t, model.Appointment{PatientID: 3, Date: day(2024, 3, 6), Type: "D"})

	f.amount(t, a1.ID, 200, "Cash", day(2024, 3, 2))
	f.amount(t, a2.ID, 100, "online", day(2024, 3, 5))
	f.amount(t, b1.ID, 300, "ONLINE", day(2024, 3, 3))
	f.amount(t, b1.ID, 200, "card", day(2024, 3, 10))
	f.amount(t, c1.ID, 100, "cash", day(2024, 3, 4))
	_ = unpaid

	f.sale(t, "50.25", day(2024, 3, 8))
	f.sale(t, "49.75", day(2024, 3, 20))
	f.sale(t, "10.00", day(2024, 4, 1))

	stats, err := f.svc.FinancialStatistics(f.ctx, rng(day(2024, 3, 1), day(2024, 3, 31)))
	require.NoError(t, err)

	assert.Equal(t, "900", stats.AppointmentRevenue.String())
	assert.Equal(t, "100", stats.PharmacyRevenue.String())
	assert.Equal(t, "1000", stats.TotalRevenue.String())
	assert.Equal(t, "180", stats.AverageAppointmentValue.String())
	assert.Equal(t, "50", stats.AveragePharmacySale.String())
	assert.Equal(t, "400", stats.OnlineAmount.String())
	assert.Equal(t, "300", stats.CashAmount.String())

	// card payments fall in neither bucket
	other := stats.AppointmentRevenue.Sub(stats.OnlineAmount).Sub(stats.CashAmount)
	assert.Equal(t, "200", other.String())

	require.Len(t, stats.TopProcedures, 4)
	assert.Equal(t, "B", stats.TopProcedures[0].Type)
	assert.Equal(t, "500", stats.TopProcedures[0].Revenue.String())
	assert.Equal(t, "A", stats.TopProcedures[1].Type)
	assert.Equal(t, 2, stats.TopProcedures[1].Count)
	assert.Equal(t, "300", stats.TopProcedures[1].Revenue.String())
	assert.Equal(t, "C", stats.TopProcedures[2].Type)
	assert.Equal(t, "D", stats.TopProcedures[3].Type)
	assert.True(t, stats.TopProcedures[3].Revenue.IsZero())

	require.Len(t, stats.MonthlyTrends, 1)
	assert.Equal(t, "2024-03", stats.MonthlyTrends[0].Date)
	assert.Equal(t, "900", stats.MonthlyTrends[0].AppointmentRevenue.String())
	assert.Equal(t, "100", stats.MonthlyTrends[0].PharmacyRevenue.String())
	assert.Equal(t, "1000", stats.MonthlyTrends[0].TotalRevenue.String())
}

func TestFinancialStatistics_TrendJoinsThroughAppointmentDate(t *testing.T) {
	f := newFixture(t)

	// booked in January, paid in February
	appt := f.appointment(t, model.Appointment{PatientID: 1, Date: day(2024, 1, 30), Type: "crown"})
	f.amount(t, appt.ID, 400, "cash", day(2024, 2, 2))

	stats, err := f.svc.FinancialStatistics(f.ctx, rng(day(2024, 1, 1), day(2024, 2, 29)))
	require.NoError(t, err)

	require.Len(t, stats.MonthlyTrends, 2)
	assert.Equal(t, "400", stats.MonthlyTrends[0].AppointmentRevenue.String())
	assert.True(t, stats.MonthlyTrends[1].AppointmentRevenue.IsZero())
	assert.Equal(t, "400", stats.AppointmentRevenue.String())
}

func TestFinancialStatistics_TopProceduresTieKeepsFirstSeenOrder(t *testing.T) {
	procedures := topProcedures([]*model.Appointment{
		{ID: 1, Type: "X"},
		{ID: 2, Type: "Y"},
		{ID: 3, Type: "Z"},
	}, []*model.Amount{
		{AppointmentID: 1, Amount: decimal.NewFromInt(10)},
		{AppointmentID: 2, Amount: decimal.NewFromInt(10)},
		{AppointmentID: 3, Amount: decimal.NewFromInt(20)},
	})
	require.Len(t, procedures, 3)
	assert.Equal(t, []string{"Z", "X", "Y"}, []string{procedures[0].Type, procedures[1].Type, procedures[2].Type})
}

func TestFinancialStatistics_Empty(t *testing.T) {
	f := newFixture(t)

	stats, err := f.svc.FinancialStatistics(f.ctx, rng(day(2024, 1, 1), day(2024, 1, 31)))
	require.NoError(t, err)
	assert.True(t, stats.AverageAppointmentValue.IsZero())
	assert.True(t, stats.AveragePharmacySale.IsZero())
	assert.True(t, stats.TotalRevenue.IsZero())
	assert.NotNil(t, stats.TopProcedures)
	assert.Empty(t, stats.TopProcedures)
}

func TestPharmacyStatistics(t *testing.T) {
	f := newFixture(t)

	low := f.medicine(t, model.Medicine{Name: "Ibuprofen", Stock: 40, DateOfExpiry: ptr(addMonths(today, 2))})
	f.medicine(t, model.Medicine{Name: "Lidocaine", Stock: 25, DateOfExpiry: ptr(addMonths(today, 4))})
	expired := f.medicine(t, model.Medicine{Name: "Chlorhexidine", Stock: 100, DateOfExpiry: ptr(today.AddDate(0, 0, -1))})
	f.medicine(t, model.Medicine{Name: "Gauze", Stock: 100})
	edge := f.medicine(t, model.Medicine{Name: "Fluoride", Stock: 30, DateOfExpiry: ptr(day(2024, 9, 15))})

	f.sale(t, "30.00", day(2024, 4, 3), model.PharmacySaleItem{MedicineID: low.ID, MedicineName: low.Name, Quantity: 20, TotalPrice: decimal.NewFromInt(30)})
	f.sale(t, "15.50", day(2024, 5, 9), model.PharmacySaleItem{MedicineID: low.ID, MedicineName: low.Name, Quantity: 5, TotalPrice: decimal.RequireFromString("15.50")})
	f.sale(t, "12.00", day(2024, 5, 20), model.PharmacySaleItem{MedicineID: expired.ID, MedicineName: expired.Name, Quantity: 10, TotalPrice: decimal.NewFromInt(12)})

	stats, err := f.svc.PharmacyStatistics(f.ctx, rng(day(2024, 4, 1), day(2024, 5, 31)))
	require.NoError(t, err)

	assert.Equal(t, 3, stats.TotalSales)
	assert.Equal(t, "57.5", stats.TotalRevenue.String())
	assert.True(t, stats.AverageSaleValue.Mul(decimal.NewFromInt(3)).Sub(stats.TotalRevenue).Abs().LessThan(decimal.RequireFromString("0.0001")))

	require.Len(t, stats.TopSellingMedicines, 2)
	assert.Equal(t, "Ibuprofen", stats.TopSellingMedicines[0].MedicineName)
	assert.Equal(t, int64(25), stats.TopSellingMedicines[0].Quantity)
	assert.Equal(t, "45.5", stats.TopSellingMedicines[0].Revenue.String())

	require.Len(t, stats.MonthlyTrends, 2)
	assert.Equal(t, "2024-04", stats.MonthlyTrends[0].Date)
	assert.Equal(t, 1, stats.MonthlyTrends[0].Sales)
	assert.Equal(t, "30", stats.MonthlyTrends[0].Revenue.String())
	assert.Equal(t, 2, stats.MonthlyTrends[1].Sales)
	assert.Equal(t, "27.5", stats.MonthlyTrends[1].Revenue.String())

	// Ibuprofen was sold down from 40 to 15
	assert.Equal(t, []model.StockAlert{
		{MedicineID: low.ID, MedicineName: "Ibuprofen", CurrentStock: 15, ReorderPoint: 20},
	}, stats.StockAlerts)

	var expiring []string
	for _, a := range stats.ExpiryAlerts {
		expiring = append(expiring, a.MedicineName)
	}
	assert.Equal(t, []string{"Ibuprofen", "Chlorhexidine", "Fluoride"}, expiring)
	assert.Equal(t, "2024-09-15", stats.ExpiryAlerts[2].ExpiryDate)
	assert.Equal(t, edge.ID, stats.ExpiryAlerts[2].MedicineID)
}

func TestPharmacyStatistics_NoSales(t *testing.T) {
	f := newFixture(t)

	stats, err := f.svc.PharmacyStatistics(f.ctx, rng(day(2024, 1, 1), day(2024, 1, 31)))
	require.NoError(t, err)
	assert.Zero(t, stats.TotalSales)
	assert.True(t, stats.AverageSaleValue.IsZero())
	assert.NotNil(t, stats.TopSellingMedicines)
	assert.NotNil(t, stats.StockAlerts)
	assert.NotNil(t, stats.ExpiryAlerts)
}

func TestReports_Idempotent(t *testing.T) {
	f := newFixture(t)
	p := f.patient(t, model.Patient{FirstName: "A", Gender: ptr("female"), CreatedAt: day(2024, 2, 1)})
	appt := f.appointment(t, model.Appointment{PatientID: p.ID, Date: day(2024, 2, 2), Type: "checkup", Status: model.AppointmentStatusCompleted})
	f.amount(t, appt.ID, 75, "cash", day(2024, 2, 2))
	m := f.medicine(t, model.Medicine{Name: "Paracetamol", Stock: 50})
	f.sale(t, "9.99", day(2024, 2, 3), model.PharmacySaleItem{MedicineID: m.ID, MedicineName: m.Name, Quantity: 3, TotalPrice: decimal.RequireFromString("9.99")})

	req := rng(day(2024, 1, 1), day(2024, 3, 31))
	for _, kind := range []model.ReportKind{model.ReportPatients, model.ReportAppointments, model.ReportFinancial, model.ReportPharmacy} {
		first, err := f.svc.Build(f.ctx, kind, req)
		require.NoError(t, err)
		second, err := f.svc.Build(f.ctx, kind, req)
		require.NoError(t, err)

		a, err := json.Marshal(first)
		require.NoError(t, err)
		b, err := json.Marshal(second)
		require.NoError(t, err)
		assert.Equal(t, string(a), string(b), kind)
	}
}

type recordingObserver struct {
	mu    sync.Mutex
	kinds []string
	errs  []error
}

func (r *recordingObserver) ObserveReport(kind string, _ time.Duration, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.kinds = append(r.kinds, kind)
	r.errs = append(r.errs, err)
}

func TestService_ObserverSeesEveryBuild(t *testing.T) {
	f := newFixture(t)
	obs := &recordingObserver{}
	f.svc.observer = obs

	_, err := f.svc.PharmacyStatistics(f.ctx, rng(day(2024, 1, 1), day(2024, 1, 31)))
	require.NoError(t, err)
	_, err = f.svc.FinancialStatistics(f.ctx, rng(day(2024, 1, 1), day(2024, 1, 31)))
	require.NoError(t, err)

	assert.Equal(t, []string{"pharmacy", "financial"}, obs.kinds)
	assert.Equal(t, []error{nil, nil}, obs.errs)
}
