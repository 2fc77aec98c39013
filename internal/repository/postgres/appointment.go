package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/dentalcare-api/internal/model"
	"github.com/jwalitptl/dentalcare-api/internal/repository"
)

const appointmentColumns = `id, patient_id, appointment_date, appointment_time, type, status, treatment_type, notes, created_at, updated_at`

type appointmentRepository struct {
	db *sqlx.DB
}

func NewAppointmentRepository(db *sqlx.DB) repository.AppointmentRepository {
	return &appointmentRepository{db: db}
}

func (r *appointmentRepository) Create(ctx context.Context, apt *model.Appointment) error {
	query := `
		INSERT INTO appointments (patient_id, appointment_date, appointment_time, type, status, treatment_type, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		apt.PatientID,
		apt.Date,
		apt.Time,
		apt.Type,
		apt.Status,
		apt.TreatmentType,
		apt.Notes,
	).Scan(&apt.ID, &apt.CreatedAt, &apt.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, id int64) (*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1`
	var apt model.Appointment
	if err := r.db.GetContext(ctx, &apt, query, id); err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", notFound(err))
	}
	return &apt, nil
}

func (r *appointmentRepository) Update(ctx context.Context, apt *model.Appointment) error {
	query := `
		UPDATE appointments
		SET appointment_date = $1, appointment_time = $2, type = $3, status = $4,
			treatment_type = $5, notes = $6, updated_at = NOW()
		WHERE id = $7
	`
	res, err := r.db.ExecContext(ctx, query,
		apt.Date,
		apt.Time,
		apt.Type,
		apt.Status,
		apt.TreatmentType,
		apt.Notes,
		apt.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update appointment: %w", err)
	}
	if err := mustAffect(res); err != nil {
		return fmt.Errorf("failed to update appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete appointment: %w", err)
	}
	if err := mustAffect(res); err != nil {
		return fmt.Errorf("failed to delete appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepository) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	if filters == nil {
		filters = &model.AppointmentFilters{}
	}

	var (
		conds []string
		args  []interface{}
	)
	if filters.PatientID != 0 {
		args = append(args, filters.PatientID)
		conds = append(conds, fmt.Sprintf("patient_id = $%d", len(args)))
	}
	if filters.Status != "" {
		args = append(args, filters.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if filters.StartDate != nil {
		args = append(args, *filters.StartDate)
		conds = append(conds, fmt.Sprintf("appointment_date >= $%d", len(args)))
	}
	if filters.EndDate != nil {
		args = append(args, *filters.EndDate)
		conds = append(conds, fmt.Sprintf("appointment_date <= $%d", len(args)))
	}

	query := `SELECT ` + appointmentColumns + ` FROM appointments`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY appointment_date, id`

	appointments := make([]*model.Appointment, 0)
	if err := r.db.SelectContext(ctx, &appointments, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) FindByDateBetween(ctx context.Context, start, end time.Time) ([]*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE appointment_date BETWEEN $1 AND $2 ORDER BY id`
	appointments := make([]*model.Appointment, 0)
	if err := r.db.SelectContext(ctx, &appointments, query, start, end); err != nil {
		return nil, fmt.Errorf("failed to find appointments by date: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) FindByPatientID(ctx context.Context, patientID int64) ([]*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE patient_id = $1 ORDER BY appointment_date, id`
	appointments := make([]*model.Appointment, 0)
	if err := r.db.SelectContext(ctx, &appointments, query, patientID); err != nil {
		return nil, fmt.Errorf("failed to find appointments by patient: %w", err)
	}
	return appointments, nil
}
