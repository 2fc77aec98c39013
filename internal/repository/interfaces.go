package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jwalitptl/dentalcare-api/internal/model"
)

var (
	ErrNotFound          = errors.New("record not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrDuplicate         = errors.New("record already exists")
)

// Read-side interfaces consumed by reporting. All date bounds are inclusive.
type (
	PatientReader interface {
		FindCreatedBetween(ctx context.Context, start, end time.Time) ([]*model.Patient, error)
		CountAll(ctx context.Context) (int64, error)
		// CountWithMultipleAppointments counts patients with more than one
		// appointment dated inside [start, end].
		CountWithMultipleAppointments(ctx context.Context, start, end time.Time) (int64, error)
	}

	AppointmentReader interface {
		FindByDateBetween(ctx context.Context, start, end time.Time) ([]*model.Appointment, error)
		FindByPatientID(ctx context.Context, patientID int64) ([]*model.Appointment, error)
	}

	AmountReader interface {
		FindCreatedBetween(ctx context.Context, start, end time.Time) ([]*model.Amount, error)
		FindByAppointmentIDs(ctx context.Context, appointmentIDs []int64) ([]*model.Amount, error)
	}

	PharmacySaleReader interface {
		FindCreatedBetween(ctx context.Context, start, end time.Time) ([]*model.PharmacySale, error)
		GetTopSellingMedicines(ctx context.Context, start, end time.Time) ([]model.TopSellingMedicine, error)
	}

	MedicineReader interface {
		FindAll(ctx context.Context) ([]*model.Medicine, error)
	}
)

// All repository interfaces in one file
type (
	PatientRepository interface {
		PatientReader
		Create(ctx context.Context, patient *model.Patient) error
		Get(ctx context.Context, id int64) (*model.Patient, error)
		Update(ctx context.Context, patient *model.Patient) error
		Delete(ctx context.Context, id int64) error
		List(ctx context.Context, filters *model.PatientFilters) ([]*model.Patient, error)
	}

	AppointmentRepository interface {
		AppointmentReader
		Create(ctx context.Context, appointment *model.Appointment) error
		Get(ctx context.Context, id int64) (*model.Appointment, error)
		Update(ctx context.Context, appointment *model.Appointment) error
		Delete(ctx context.Context, id int64) error
		List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error)
	}

	AmountRepository interface {
		AmountReader
		Create(ctx context.Context, amount *model.Amount) error
		Get(ctx context.Context, id int64) (*model.Amount, error)
		Delete(ctx context.Context, id int64) error
		ListByAppointment(ctx context.Context, appointmentID int64) ([]*model.Amount, error)
	}

	MedicineRepository interface {
		MedicineReader
		Create(ctx context.Context, medicine *model.Medicine) error
		Get(ctx context.Context, id int64) (*model.Medicine, error)
		Update(ctx context.Context, medicine *model.Medicine) error
		Delete(ctx context.Context, id int64) error
	}

	PharmacySaleRepository interface {
		PharmacySaleReader
		// CreateWithStockUpdate persists the sale and its items and decrements
		// each medicine's stock atomically. It returns ErrInsufficientStock
		// without persisting anything when any item exceeds available stock.
		CreateWithStockUpdate(ctx context.Context, sale *model.PharmacySale) error
		Get(ctx context.Context, id int64) (*model.PharmacySale, error)
		List(ctx context.Context, filters *model.SaleFilters) ([]*model.PharmacySale, error)
	}

	PrescriptionRepository interface {
		Create(ctx context.Context, prescription *model.Prescription) error
		Get(ctx context.Context, id int64) (*model.Prescription, error)
		// Update replaces the prescription row and all of its items.
		Update(ctx context.Context, prescription *model.Prescription) error
		Delete(ctx context.Context, id int64) error
		FindAll(ctx context.Context) ([]*model.Prescription, error)
		FindByPatientID(ctx context.Context, patientID int64) ([]*model.Prescription, error)
	}

	TreatmentRepository interface {
		// Create returns ErrNotFound when the appointment does not exist.
		Create(ctx context.Context, treatment *model.Treatment) error
		Get(ctx context.Context, id int64) (*model.Treatment, error)
		FindAll(ctx context.Context) ([]*model.Treatment, error)
		FindByAppointmentIDs(ctx context.Context, appointmentIDs []int64) ([]*model.Treatment, error)
	}

	PharmacyCustomerRepository interface {
		// Create returns ErrDuplicate when the phone number is taken.
		Create(ctx context.Context, customer *model.PharmacyCustomer) error
		GetByPhone(ctx context.Context, phone string) (*model.PharmacyCustomer, error)
	}

	UserRepository interface {
		Create(ctx context.Context, user *model.User) error
		GetByEmail(ctx context.Context, email string) (*model.User, error)
	}
)
