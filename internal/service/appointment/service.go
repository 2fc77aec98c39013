package appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/dentalcare-api/internal/email"
	"github.com/jwalitptl/dentalcare-api/internal/model"
	"github.com/jwalitptl/dentalcare-api/internal/repository"
	apperrors "github.com/jwalitptl/dentalcare-api/pkg/errors"
	"github.com/jwalitptl/dentalcare-api/pkg/messaging"
)

const EventAppointmentCreated = "appointment.created"

type Service struct {
	repo        repository.AppointmentRepository
	patientRepo repository.PatientRepository
	emailSvc    email.Service
	publisher   messaging.Publisher
}

func NewService(repo repository.AppointmentRepository, patientRepo repository.PatientRepository,
	emailSvc email.Service, publisher messaging.Publisher) *Service {
	if emailSvc == nil {
		emailSvc = email.NoopService{}
	}
	if publisher == nil {
		publisher = messaging.NoopPublisher{}
	}
	return &Service{
		repo:        repo,
		patientRepo: patientRepo,
		emailSvc:    emailSvc,
		publisher:   publisher,
	}
}

// CreateAppointment books an appointment for an existing patient. The
// confirmation email and the appointment.created event are best effort.
func (s *Service) CreateAppointment(ctx context.Context, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	patient, err := s.patientRepo.Get(ctx, req.PatientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("patient", err)
		}
		return nil, apperrors.Internal(err)
	}

	date, err := model.ParseDate(req.Date)
	if err != nil || date == nil {
		return nil, apperrors.BadRequest("invalid date", err)
	}

	status := model.AppointmentStatus(req.Status)
	if status == "" {
		status = model.AppointmentStatusScheduled
	}

	apt := &model.Appointment{
		PatientID:     req.PatientID,
		Date:          *date,
		Time:          req.Time,
		Type:          req.Type,
		Status:        status,
		TreatmentType: req.TreatmentType,
		Notes:         req.Notes,
	}
	if err := s.repo.Create(ctx, apt); err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to create appointment: %w", err))
	}

	logger := log.Ctx(ctx)
	if err := s.emailSvc.SendAppointmentConfirmation(ctx, patient, apt); err != nil {
		logger.Warn().Err(err).Int64("appointment_id", apt.ID).Msg("failed to send appointment confirmation")
	}
	if err := s.publisher.Publish(ctx, EventAppointmentCreated, apt); err != nil {
		logger.Warn().Err(err).Int64("appointment_id", apt.ID).Msg("failed to publish appointment event")
	}

	return apt, nil
}

func (s *Service) GetAppointment(ctx context.Context, id int64) (*model.Appointment, error) {
	apt, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, lookupError(err)
	}
	return apt, nil
}

func (s *Service) UpdateAppointment(ctx context.Context, id int64, req *model.UpdateAppointmentRequest) (*model.Appointment, error) {
	apt, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, lookupError(err)
	}

	if req.Date != nil {
		date, err := model.ParseDate(*req.Date)
		if err != nil || date == nil {
			return nil, apperrors.BadRequest("invalid date", err)
		}
		apt.Date = *date
	}
	if req.Time != nil {
		apt.Time = *req.Time
	}
	if req.Type != nil {
		apt.Type = *req.Type
	}
	if req.Status != nil {
		apt.Status = model.AppointmentStatus(*req.Status)
	}
	if req.TreatmentType != nil {
		apt.TreatmentType = req.TreatmentType
	}
	if req.Notes != nil {
		apt.Notes = *req.Notes
	}

	if err := s.repo.Update(ctx, apt); err != nil {
		return nil, lookupError(err)
	}
	return apt, nil
}

func (s *Service) DeleteAppointment(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return lookupError(err)
	}
	return nil
}

func (s *Service) ListAppointments(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	appointments, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to list appointments: %w", err))
	}
	return appointments, nil
}

func lookupError(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NotFound("appointment", err)
	}
	return apperrors.Internal(err)
}
