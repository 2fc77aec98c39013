package prescription

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jwalitptl/dentalcare-api/internal/model"
	"github.com/jwalitptl/dentalcare-api/internal/repository"
	apperrors "github.com/jwalitptl/dentalcare-api/pkg/errors"
)

type Service struct {
	repo            repository.PrescriptionRepository
	patientRepo     repository.PatientRepository
	appointmentRepo repository.AppointmentRepository
	medicineRepo    repository.MedicineRepository
}

func NewService(repo repository.PrescriptionRepository, patientRepo repository.PatientRepository,
	appointmentRepo repository.AppointmentRepository, medicineRepo repository.MedicineRepository) *Service {
	return &Service{
		repo:            repo,
		patientRepo:     patientRepo,
		appointmentRepo: appointmentRepo,
		medicineRepo:    medicineRepo,
	}
}

func (s *Service) CreatePrescription(ctx context.Context, req *model.PrescriptionRequest) (*model.Prescription, error) {
	p, err := s.build(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, apperrors.Internal(err)
	}
	return p, nil
}

func (s *Service) GetPrescription(ctx context.Context, id int64) (*model.Prescription, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, lookupError("prescription", err)
	}
	return p, nil
}

// UpdatePrescription replaces the prescription and all of its items.
func (s *Service) UpdatePrescription(ctx context.Context, id int64, req *model.PrescriptionRequest) (*model.Prescription, error) {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return nil, lookupError("prescription", err)
	}
	p, err := s.build(ctx, req)
	if err != nil {
		return nil, err
	}
	p.ID = id
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, lookupError("prescription", err)
	}
	return p, nil
}

func (s *Service) DeletePrescription(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return lookupError("prescription", err)
	}
	return nil
}

func (s *Service) ListPrescriptions(ctx context.Context) ([]*model.Prescription, error) {
	prescriptions, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to list prescriptions: %w", err))
	}
	return prescriptions, nil
}

func (s *Service) ListByPatient(ctx context.Context, patientID int64) ([]*model.Prescription, error) {
	if _, err := s.patientRepo.Get(ctx, patientID); err != nil {
		return nil, lookupError("patient", err)
	}
	prescriptions, err := s.repo.FindByPatientID(ctx, patientID)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to list prescriptions: %w", err))
	}
	return prescriptions, nil
}

// build resolves the patient, appointment and medicines named by req and
// denormalizes their names onto the prescription.
func (s *Service) build(ctx context.Context, req *model.PrescriptionRequest) (*model.Prescription, error) {
	patient, err := s.patientRepo.Get(ctx, req.PatientID)
	if err != nil {
		return nil, lookupError("patient", err)
	}
	apt, err := s.appointmentRepo.Get(ctx, req.AppointmentID)
	if err != nil {
		return nil, lookupError("appointment", err)
	}
	if apt.PatientID != patient.ID {
		return nil, apperrors.BadRequest("appointment does not belong to patient", nil)
	}

	items := make([]model.PrescriptionItem, 0, len(req.Items))
	for _, it := range req.Items {
		m, err := s.medicineRepo.Get(ctx, it.MedicineID)
		if err != nil {
			return nil, lookupError("medicine", err)
		}
		items = append(items, model.PrescriptionItem{
			MedicineID:   m.ID,
			MedicineName: m.Name,
			MedicineType: m.Type,
			Dosage:       it.Dosage,
			Frequency:    it.Frequency,
			Duration:     it.Duration,
			Instructions: it.Instructions,
		})
	}

	return &model.Prescription{
		PatientID:     patient.ID,
		PatientName:   strings.TrimSpace(patient.FirstName + " " + patient.LastName),
		AppointmentID: apt.ID,
		DentistID:     req.DentistID,
		DentistName:   req.DentistName,
		Notes:         req.Notes,
		Items:         items,
	}, nil
}

func lookupError(resource string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NotFound(resource, err)
	}
	return apperrors.Internal(err)
}
