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

const patientColumns = `id, first_name, last_name, email, phone, date_of_birth, gender, address, medical_history, created_at, updated_at`

type patientRepository struct {
	db *sqlx.DB
}

func NewPatientRepository(db *sqlx.DB) repository.PatientRepository {
	return &patientRepository{db: db}
}

func (r *patientRepository) Create(ctx context.Context, patient *model.Patient) error {
	query := `
		INSERT INTO patients (first_name, last_name, email, phone, date_of_birth, gender, address, medical_history)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		patient.FirstName,
		patient.LastName,
		patient.Email,
		patient.Phone,
		patient.DateOfBirth,
		patient.Gender,
		patient.Address,
		patient.MedicalHistory,
	).Scan(&patient.ID, &patient.CreatedAt, &patient.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create patient: %w", err)
	}
	return nil
}

func (r *patientRepository) Get(ctx context.Context, id int64) (*model.Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients WHERE id = $1`
	var patient model.Patient
	if err := r.db.GetContext(ctx, &patient, query, id); err != nil {
		return nil, fmt.Errorf("failed to get patient: %w", notFound(err))
	}
	return &patient, nil
}

func (r *patientRepository) Update(ctx context.Context, patient *model.Patient) error {
	query := `
		UPDATE patients
		SET first_name = $1, last_name = $2, email = $3, phone = $4, date_of_birth = $5,
			gender = $6, address = $7, medical_history = $8, updated_at = NOW()
		WHERE id = $9
	`
	res, err := r.db.ExecContext(ctx, query,
		patient.FirstName,
		patient.LastName,
		patient.Email,
		patient.Phone,
		patient.DateOfBirth,
		patient.Gender,
		patient.Address,
		patient.MedicalHistory,
		patient.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update patient: %w", err)
	}
	if err := mustAffect(res); err != nil {
		return fmt.Errorf("failed to update patient: %w", err)
	}
	return nil
}

func (r *patientRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM patients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete patient: %w", err)
	}
	if err := mustAffect(res); err != nil {
		return fmt.Errorf("failed to delete patient: %w", err)
	}
	return nil
}

func (r *patientRepository) List(ctx context.Context, filters *model.PatientFilters) ([]*model.Patient, error) {
	if filters == nil {
		filters = &model.PatientFilters{}
	}

	var (
		b    strings.Builder
		args []interface{}
	)
	b.WriteString(`SELECT ` + patientColumns + ` FROM patients`)
	if filters.SearchTerm != "" {
		args = append(args, "%"+filters.SearchTerm+"%")
		b.WriteString(` WHERE first_name ILIKE $1 OR last_name ILIKE $1 OR email ILIKE $1`)
	}
	b.WriteString(` ORDER BY id`)
	if filters.Limit > 0 {
		args = append(args, filters.Limit)
		fmt.Fprintf(&b, ` LIMIT $%d`, len(args))
	}
	if filters.Offset > 0 {
		args = append(args, filters.Offset)
		fmt.Fprintf(&b, ` OFFSET $%d`, len(args))
	}

	patients := make([]*model.Patient, 0)
	if err := r.db.SelectContext(ctx, &patients, b.String(), args...); err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	return patients, nil
}

func (r *patientRepository) FindCreatedBetween(ctx context.Context, start, end time.Time) ([]*model.Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients WHERE created_at BETWEEN $1 AND $2 ORDER BY id`
	patients := make([]*model.Patient, 0)
	if err := r.db.SelectContext(ctx, &patients, query, start, end); err != nil {
		return nil, fmt.Errorf("failed to find patients created between: %w", err)
	}
	return patients, nil
}

func (r *patientRepository) CountAll(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM patients`); err != nil {
		return 0, fmt.Errorf("failed to count patients: %w", err)
	}
	return n, nil
}

func (r *patientRepository) CountWithMultipleAppointments(ctx context.Context, start, end time.Time) (int64, error) {
	query := `
		SELECT COUNT(*) FROM (
			SELECT patient_id FROM appointments
			WHERE appointment_date BETWEEN $1 AND $2
			GROUP BY patient_id
			HAVING COUNT(*) > 1
		) returning_patients
	`
	var n int64
	if err := r.db.GetContext(ctx, &n, query, start, end); err != nil {
		return 0, fmt.Errorf("failed to count returning patients: %w", err)
	}
	return n, nil
}
