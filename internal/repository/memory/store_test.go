package memory

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/dentalcare-api/internal/model"
	"github.com/jwalitptl/dentalcare-api/internal/repository"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestPatients_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Patients()

	p := &model.Patient{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"}
	require.NoError(t, repo.Create(ctx, p))
	assert.NotZero(t, p.ID)
	assert.False(t, p.CreatedAt.IsZero())

	got, err := repo.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", got.FirstName)

	got.Phone = "555"
	require.NoError(t, repo.Update(ctx, got))

	list, err := repo.List(ctx, &model.PatientFilters{SearchTerm: "love"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "555", list[0].Phone)

	require.NoError(t, repo.Delete(ctx, p.ID))
	_, err = repo.Get(ctx, p.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, p.ID), repository.ErrNotFound)
}

func TestPatients_CountWithMultipleAppointments(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	a, b := &model.Patient{FirstName: "A"}, &model.Patient{FirstName: "B"}
	require.NoError(t, store.Patients().Create(ctx, a))
	require.NoError(t, store.Patients().Create(ctx, b))

	for _, appt := range []*model.Appointment{
		{PatientID: a.ID, Date: date(2024, 1, 3)},
		{PatientID: a.ID, Date: date(2024, 1, 20)},
		{PatientID: b.ID, Date: date(2024, 1, 5)},
		{PatientID: b.ID, Date: date(2024, 2, 5)},
	} {
		require.NoError(t, store.Appointments().Create(ctx, appt))
	}

	n, err := store.Patients().CountWithMultipleAppointments(ctx, date(2024, 1, 1), date(2024, 1, 31))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = store.Patients().CountWithMultipleAppointments(ctx, date(2024, 1, 1), date(2024, 2, 29))
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestAmounts_RequireExistingAppointment(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	err := store.Amounts().Create(ctx, &model.Amount{AppointmentID: 99, Amount: decimal.NewFromInt(10)})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	appt := &model.Appointment{PatientID: 1, Date: date(2024, 3, 1)}
	require.NoError(t, store.Appointments().Create(ctx, appt))
	amt := &model.Amount{AppointmentID: appt.ID, Amount: decimal.NewFromInt(10)}
	require.NoError(t, store.Amounts().Create(ctx, amt))

	byIDs, err := store.Amounts().FindByAppointmentIDs(ctx, []int64{appt.ID, 1234})
	require.NoError(t, err)
	require.Len(t, byIDs, 1)
	assert.Equal(t, amt.ID, byIDs[0].ID)

	none, err := store.Amounts().FindByAppointmentIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSales_CreateWithStockUpdate(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	med := &model.Medicine{Name: "Amoxicillin", Price: decimal.NewFromInt(5), Stock: 10}
	require.NoError(t, store.Medicines().Create(ctx, med))

	sale := &model.PharmacySale{Items: []model.PharmacySaleItem{
		{MedicineID: med.ID, MedicineName: med.Name, Quantity: 4, TotalPrice: decimal.NewFromInt(20)},
	}}
	require.NoError(t, store.Sales().CreateWithStockUpdate(ctx, sale))
	assert.NotZero(t, sale.ID)
	assert.Equal(t, sale.ID, sale.Items[0].SaleID)

	got, err := store.Medicines().Get(ctx, med.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, got.Stock)

	t.Run("insufficient stock leaves store untouched", func(t *testing.T) {
		err := store.Sales().CreateWithStockUpdate(ctx, &model.PharmacySale{Items: []model.PharmacySaleItem{
			{MedicineID: med.ID, Quantity: 4},
			{MedicineID: med.ID, Quantity: 4},
		}})
		assert.ErrorIs(t, err, repository.ErrInsufficientStock)

		got, err := store.Medicines().Get(ctx, med.ID)
		require.NoError(t, err)
		assert.Equal(t, 6, got.Stock)

		sales, err := store.Sales().List(ctx, nil)
		require.NoError(t, err)
		assert.Len(t, sales, 1)
	})

	t.Run("unknown medicine", func(t *testing.T) {
		err := store.Sales().CreateWithStockUpdate(ctx, &model.PharmacySale{Items: []model.PharmacySaleItem{
			{MedicineID: 404, Quantity: 1},
		}})
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestSales_GetTopSellingMedicines(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	store.SetClock(func() time.Time { return time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC) })
	a := &model.Medicine{Name: "A", Stock: 100}
	b := &model.Medicine{Name: "B", Stock: 100}
	require.NoError(t, store.Medicines().Create(ctx, a))
	require.NoError(t, store.Medicines().Create(ctx, b))

	sales := []*model.PharmacySale{
		{Items: []model.PharmacySaleItem{
			{MedicineID: a.ID, MedicineName: "A", Quantity: 2, TotalPrice: decimal.NewFromInt(4)},
			{MedicineID: b.ID, MedicineName: "B", Quantity: 3, TotalPrice: decimal.NewFromInt(9)},
		}},
		{Items: []model.PharmacySaleItem{
			{MedicineID: a.ID, MedicineName: "A", Quantity: 5, TotalPrice: decimal.NewFromInt(10)},
		}},
	}
	for _, s := range sales {
		require.NoError(t, store.Sales().CreateWithStockUpdate(ctx, s))
	}

	top, err := store.Sales().GetTopSellingMedicines(ctx, date(2024, 5, 1), date(2024, 5, 31))
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "A", top[0].MedicineName)
	assert.Equal(t, int64(7), top[0].Quantity)
	assert.True(t, top[0].Revenue.Equal(decimal.NewFromInt(14)))
	assert.Equal(t, int64(3), top[1].Quantity)

	top, err = store.Sales().GetTopSellingMedicines(ctx, date(2024, 6, 1), date(2024, 6, 30))
	require.NoError(t, err)
	assert.Empty(t, top)
}

func TestSales_GetTopSellingMedicinesTiesKeepFirstSold(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	store.SetClock(func() time.Time { return time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC) })
	for _, name := range []string{"Gauze", "Floss", "Mouthwash"} {
		m := &model.Medicine{Name: name, Stock: 10}
		require.NoError(t, store.Medicines().Create(ctx, m))
		require.NoError(t, store.Sales().CreateWithStockUpdate(ctx, &model.PharmacySale{
			Items: []model.PharmacySaleItem{{MedicineID: m.ID, MedicineName: name, Quantity: 2, TotalPrice: decimal.NewFromInt(2)}},
		}))
	}

	for i := 0; i < 3; i++ {
		top, err := store.Sales().GetTopSellingMedicines(ctx, date(2024, 5, 1), date(2024, 5, 31))
		require.NoError(t, err)
		require.Len(t, top, 3)
		assert.Equal(t, "Gauze", top[0].MedicineName)
		assert.Equal(t, "Floss", top[1].MedicineName)
		assert.Equal(t, "Mouthwash", top[2].MedicineName)
	}
}

func TestSales_GetTopSellingMedicinesReturnsLookupError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	top, err := NewStore().Sales().GetTopSellingMedicines(ctx, date(2024, 5, 1), date(2024, 5, 31))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, top)
}

func TestStore_StampsInUTC(t *testing.T) {
	local := time.Local
	time.Local = time.FixedZone("UTC+9", 9*60*60)
	t.Cleanup(func() { time.Local = local })

	store := NewStore()
	p := &model.Patient{FirstName: "Ada"}
	require.NoError(t, store.Patients().Create(context.Background(), p))

	got, err := store.Patients().Get(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, time.UTC, got.CreatedAt.Location())
}

func TestPrescriptions_UpdateReplacesItems(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Prescriptions()

	p := &model.Prescription{
		PatientID: 1,
		Items:     []model.PrescriptionItem{{MedicineID: 5, Dosage: "500mg"}},
	}
	require.NoError(t, repo.Create(ctx, p))
	require.Len(t, p.Items, 1)
	assert.Equal(t, p.ID, p.Items[0].PrescriptionID)

	p.Items[0].Dosage = "mutated"
	got, err := repo.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "500mg", got.Items[0].Dosage)

	got.Items = []model.PrescriptionItem{{MedicineID: 6, Dosage: "1g"}, {MedicineID: 7, Dosage: "2g"}}
	require.NoError(t, repo.Update(ctx, got))

	list, err := repo.FindByPatientID(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Len(t, list[0].Items, 2)
	assert.Equal(t, int64(6), list[0].Items[0].MedicineID)
	assert.Equal(t, p.CreatedAt, list[0].CreatedAt)

	assert.ErrorIs(t, repo.Update(ctx, &model.Prescription{ID: 99}), repository.ErrNotFound)
	require.NoError(t, repo.Delete(ctx, p.ID))
	assert.ErrorIs(t, repo.Delete(ctx, p.ID), repository.ErrNotFound)
}

func TestTreatments_RequireExistingAppointment(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	err := store.Treatments().Create(ctx, &model.Treatment{AppointmentID: 42, Description: "Scaling"})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	apt := &model.Appointment{PatientID: 1, Date: date(2024, 3, 2)}
	require.NoError(t, store.Appointments().Create(ctx, apt))
	require.NoError(t, store.Treatments().Create(ctx, &model.Treatment{AppointmentID: apt.ID, Description: "Scaling"}))

	found, err := store.Treatments().FindByAppointmentIDs(ctx, []int64{apt.ID, 999})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Scaling", found[0].Description)
}

func TestCustomers_DuplicatePhone(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Customers()

	require.NoError(t, repo.Create(ctx, &model.PharmacyCustomer{Name: "Walk-in", Phone: "555-0100"}))
	err := repo.Create(ctx, &model.PharmacyCustomer{Name: "Other", Phone: "555-0100"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	got, err := repo.GetByPhone(ctx, "555-0100")
	require.NoError(t, err)
	assert.Equal(t, "Walk-in", got.Name)

	_, err = repo.GetByPhone(ctx, "000")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUsers_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Users()
	require.NoError(t, repo.Create(ctx, &model.User{Email: "a@example.com"}))
	assert.ErrorIs(t, repo.Create(ctx, &model.User{Email: "A@example.com"}), repository.ErrDuplicate)

	u, err := repo.GetByEmail(ctx, "a@EXAMPLE.com")
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.ID)
}
