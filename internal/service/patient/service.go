package patient

import (
	"context"
	"errors"
	"fmt"

	"github.com/jwalitptl/dentalcare-api/internal/model"
	"github.com/jwalitptl/dentalcare-api/internal/repository"
	apperrors "github.com/jwalitptl/dentalcare-api/pkg/errors"
)

type Service struct {
	repo            repository.PatientRepository
	appointmentRepo repository.AppointmentReader
}

func NewService(repo repository.PatientRepository, appointmentRepo repository.AppointmentReader) *Service {
	return &Service{
		repo:            repo,
		appointmentRepo: appointmentRepo,
	}
}

func (s *Service) CreatePatient(ctx context.Context, req *model.CreatePatientRequest) (*model.Patient, error) {
	dob, err := model.ParseDate(req.DateOfBirth)
	if err != nil {
		return nil, apperrors.BadRequest("invalid dateOfBirth", err)
	}

	patient := &model.Patient{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		Phone:          req.Phone,
		DateOfBirth:    dob,
		Gender:         req.Gender,
		Address:        req.Address,
		MedicalHistory: req.MedicalHistory,
	}
	if err := s.repo.Create(ctx, patient); err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to create patient: %w", err))
	}
	return patient, nil
}

func (s *Service) GetPatient(ctx context.Context, id int64) (*model.Patient, error) {
	patient, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, lookupError(err)
	}
	return patient, nil
}

func (s *Service) UpdatePatient(ctx context.Context, id int64, req *model.UpdatePatientRequest) (*model.Patient, error) {
	patient, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, lookupError(err)
	}

	if req.FirstName != nil {
		patient.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		patient.LastName = *req.LastName
	}
	if req.Email != nil {
		patient.Email = *req.Email
	}
	if req.Phone != nil {
		patient.Phone = *req.Phone
	}
	if req.DateOfBirth != nil {
		dob, err := model.ParseDate(*req.DateOfBirth)
		if err != nil {
			return nil, apperrors.BadRequest("invalid dateOfBirth", err)
		}
		patient.DateOfBirth = dob
	}
	if req.Gender != nil {
		patient.Gender = req.Gender
	}
	if req.Address != nil {
		patient.Address = *req.Address
	}
	if req.MedicalHistory != nil {
		patient.MedicalHistory = *req.MedicalHistory
	}

	if err := s.repo.Update(ctx, patient); err != nil {
		return nil, lookupError(err)
	}
	return patient, nil
}

func (s *Service) DeletePatient(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return lookupError(err)
	}
	return nil
}

func (s *Service) ListPatients(ctx context.Context, filters *model.PatientFilters) ([]*model.Patient, error) {
	patients, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to list patients: %w", err))
	}
	return patients, nil
}

// ListAppointments returns every appointment booked for the patient.
func (s *Service) ListAppointments(ctx context.Context, patientID int64) ([]*model.Appointment, error) {
	if _, err := s.repo.Get(ctx, patientID); err != nil {
		return nil, lookupError(err)
	}
	appointments, err := s.appointmentRepo.FindByPatientID(ctx, patientID)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to list appointments: %w", err))
	}
	return appointments, nil
}

func lookupError(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NotFound("patient", err)
	}
	return apperrors.Internal(err)
}
