package prescription

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/dentalcare-api/internal/model"
	"github.com/jwalitptl/dentalcare-api/internal/repository"
	"github.com/jwalitptl/dentalcare-api/internal/repository/memory"
	apperrors "github.com/jwalitptl/dentalcare-api/pkg/errors"
)

type fixture struct {
	svc      *Service
	store    *memory.Store
	patient  *model.Patient
	apt      *model.Appointment
	medicine *model.Medicine
}

func setup(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	ctx := context.Background()

	p := &model.Patient{FirstName: "Ada", LastName: "Lovelace"}
	require.NoError(t, store.Patients().Create(ctx, p))
	apt := &model.Appointment{
		PatientID: p.ID,
		Date:      time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC),
		Type:      "Extraction",
		Status:    model.AppointmentStatusCompleted,
	}
	require.NoError(t, store.Appointments().Create(ctx, apt))
	m := &model.Medicine{Name: "Amoxicillin", Type: "Capsule", Price: decimal.NewFromInt(12), Stock: 20}
	require.NoError(t, store.Medicines().Create(ctx, m))

	return &fixture{
		svc:      NewService(store.Prescriptions(), store.Patients(), store.Appointments(), store.Medicines()),
		store:    store,
		patient:  p,
		apt:      apt,
		medicine: m,
	}
}

func (f *fixture) request(dosage string) *model.PrescriptionRequest {
	return &model.PrescriptionRequest{
		PatientID:     f.patient.ID,
		AppointmentID: f.apt.ID,
		DentistName:   "Dr. Hopper",
		Items: []model.PrescriptionItemRequest{
			{MedicineID: f.medicine.ID, Dosage: dosage, Frequency: "3x daily", Duration: "5 days"},
		},
	}
}

func assertStatus(t *testing.T, err error, status int) {
	t.Helper()
	appErr, ok := apperrors.As(err)
	require.True(t, ok, "expected app error, got %v", err)
	assert.Equal(t, status, appErr.Status())
}

func TestService_CreatePrescriptionResolvesNames(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	p, err := f.svc.CreatePrescription(ctx, f.request("500mg"))
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", p.PatientName)
	require.Len(t, p.Items, 1)
	assert.Equal(t, "Amoxicillin", p.Items[0].MedicineName)
	assert.Equal(t, "Capsule", p.Items[0].MedicineType)
	assert.NotZero(t, p.Items[0].ID)

	got, err := f.svc.GetPrescription(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Items, got.Items)
}

func TestService_CreatePrescriptionValidation(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	other := &model.Patient{FirstName: "Grace", LastName: "Hopper"}
	require.NoError(t, f.store.Patients().Create(ctx, other))

	tests := []struct {
		name   string
		mutate func(*model.PrescriptionRequest)
		status int
	}{
		{"unknown patient", func(r *model.PrescriptionRequest) { r.PatientID = 999 }, 404},
		{"unknown appointment", func(r *model.PrescriptionRequest) { r.AppointmentID = 999 }, 404},
		{"appointment of another patient", func(r *model.PrescriptionRequest) { r.PatientID = other.ID }, 400},
		{"unknown medicine", func(r *model.PrescriptionRequest) { r.Items[0].MedicineID = 999 }, 404},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := f.request("500mg")
			tt.mutate(req)
			_, err := f.svc.CreatePrescription(ctx, req)
			assertStatus(t, err, tt.status)
		})
	}

	all, err := f.svc.ListPrescriptions(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestService_UpdatePrescriptionReplacesItems(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	p, err := f.svc.CreatePrescription(ctx, f.request("500mg"))
	require.NoError(t, err)

	req := f.request("250mg")
	req.Items = append(req.Items, model.PrescriptionItemRequest{
		MedicineID: f.medicine.ID, Dosage: "1g", Frequency: "once", Duration: "1 day",
	})
	updated, err := f.svc.UpdatePrescription(ctx, p.ID, req)
	require.NoError(t, err)
	assert.Equal(t, p.ID, updated.ID)

	got, err := f.svc.GetPrescription(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "250mg", got.Items[0].Dosage)
	assert.Equal(t, "1g", got.Items[1].Dosage)

	_, err = f.svc.UpdatePrescription(ctx, 999, req)
	assertStatus(t, err, 404)
}

func TestService_ListByPatientAndDelete(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	p, err := f.svc.CreatePrescription(ctx, f.request("500mg"))
	require.NoError(t, err)

	list, err := f.svc.ListByPatient(ctx, f.patient.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, p.ID, list[0].ID)

	_, err = f.svc.ListByPatient(ctx, 999)
	assertStatus(t, err, 404)

	require.NoError(t, f.svc.DeletePrescription(ctx, p.ID))
	assertStatus(t, f.svc.DeletePrescription(ctx, p.ID), 404)

	list, err = f.svc.ListByPatient(ctx, f.patient.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

var errStoreDown = errors.New("connection refused")

type failingPrescriptions struct {
	repository.PrescriptionRepository
}

func (failingPrescriptions) Create(context.Context, *model.Prescription) error { return errStoreDown }

func (failingPrescriptions) FindAll(context.Context) ([]*model.Prescription, error) {
	return nil, errStoreDown
}

func TestService_PropagatesStoreErrors(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	svc := NewService(failingPrescriptions{}, f.store.Patients(), f.store.Appointments(), f.store.Medicines())

	p, err := svc.CreatePrescription(ctx, f.request("500mg"))
	assert.Nil(t, p)
	assert.ErrorIs(t, err, errStoreDown)
	assertStatus(t, err, 500)

	list, err := svc.ListPrescriptions(ctx)
	assert.Nil(t, list)
	assert.ErrorIs(t, err, errStoreDown)
	assertStatus(t, err, 500)
}
