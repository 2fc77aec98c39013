package treatment

import (
	"context"
	"errors"
	"fmt"

	"github.com/jwalitptl/dentalcare-api/internal/model"
	"github.com/jwalitptl/dentalcare-api/internal/repository"
	apperrors "github.com/jwalitptl/dentalcare-api/pkg/errors"
)

type Service struct {
	repo            repository.TreatmentRepository
	patientRepo     repository.PatientRepository
	appointmentRepo repository.AppointmentRepository
}

func NewService(repo repository.TreatmentRepository, patientRepo repository.PatientRepository,
	appointmentRepo repository.AppointmentRepository) *Service {
	return &Service{
		repo:            repo,
		patientRepo:     patientRepo,
		appointmentRepo: appointmentRepo,
	}
}

func (s *Service) CreateTreatment(ctx context.Context, req *model.CreateTreatmentRequest) (*model.Treatment, error) {
	t := &model.Treatment{
		AppointmentID: req.AppointmentID,
		Description:   req.Description,
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, lookupError("appointment", err)
	}
	return t, nil
}

func (s *Service) GetTreatment(ctx context.Context, id int64) (*model.Treatment, error) {
	t, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, lookupError("treatment", err)
	}
	return t, nil
}

func (s *Service) ListTreatments(ctx context.Context) ([]*model.Treatment, error) {
	treatments, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to list treatments: %w", err))
	}
	return treatments, nil
}

// ListByPatient collects treatments across all of the patient's appointments.
func (s *Service) ListByPatient(ctx context.Context, patientID int64) ([]*model.Treatment, error) {
	if _, err := s.patientRepo.Get(ctx, patientID); err != nil {
		return nil, lookupError("patient", err)
	}

	appointments, err := s.appointmentRepo.FindByPatientID(ctx, patientID)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to find appointments: %w", err))
	}
	if len(appointments) == 0 {
		return []*model.Treatment{}, nil
	}

	ids := make([]int64, len(appointments))
	for i, a := range appointments {
		ids[i] = a.ID
	}
	treatments, err := s.repo.FindByAppointmentIDs(ctx, ids)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to find treatments: %w", err))
	}
	return treatments, nil
}

func lookupError(resource string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NotFound(resource, err)
	}
	return apperrors.Internal(err)
}
