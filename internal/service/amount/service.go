package amount

import (
	"context"
	"errors"
	"fmt"

	"github.com/jwalitptl/dentalcare-api/internal/model"
	"github.com/jwalitptl/dentalcare-api/internal/repository"
	apperrors "github.com/jwalitptl/dentalcare-api/pkg/errors"
)

type Service struct {
	repo            repository.AmountRepository
	appointmentRepo repository.AppointmentRepository
}

func NewService(repo repository.AmountRepository, appointmentRepo repository.AppointmentRepository) *Service {
	return &Service{
		repo:            repo,
		appointmentRepo: appointmentRepo,
	}
}

// CreateAmount records a payment against an existing appointment. When the
// request omits patientId it is taken from the appointment.
func (s *Service) CreateAmount(ctx context.Context, req *model.CreateAmountRequest) (*model.Amount, error) {
	if !req.Amount.IsPositive() {
		return nil, apperrors.BadRequest("amount must be greater than 0", nil)
	}

	apt, err := s.appointmentRepo.Get(ctx, req.AppointmentID)
	if err != nil {
		return nil, lookupError("appointment", err)
	}

	patientID := req.PatientID
	if patientID == 0 {
		patientID = apt.PatientID
	}

	amount := &model.Amount{
		AppointmentID: apt.ID,
		PatientID:     patientID,
		Amount:        req.Amount.Round(2),
		PaymentType:   req.PaymentType,
	}
	if err := s.repo.Create(ctx, amount); err != nil {
		return nil, lookupError("appointment", err)
	}
	return amount, nil
}

func (s *Service) GetAmount(ctx context.Context, id int64) (*model.Amount, error) {
	amount, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, lookupError("amount", err)
	}
	return amount, nil
}

func (s *Service) DeleteAmount(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return lookupError("amount", err)
	}
	return nil
}

func (s *Service) ListByAppointment(ctx context.Context, appointmentID int64) ([]*model.Amount, error) {
	if _, err := s.appointmentRepo.Get(ctx, appointmentID); err != nil {
		return nil, lookupError("appointment", err)
	}
	amounts, err := s.repo.ListByAppointment(ctx, appointmentID)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to list amounts: %w", err))
	}
	return amounts, nil
}

func lookupError(resource string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NotFound(resource, err)
	}
	return apperrors.Internal(err)
}
