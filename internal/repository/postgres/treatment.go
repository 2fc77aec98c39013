package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/jwalitptl/dentalcare-api/internal/model"
	"github.com/jwalitptl/dentalcare-api/internal/repository"
)

const treatmentColumns = `id, appointment_id, description, created_at`

type treatmentRepository struct {
	db *sqlx.DB
}

func NewTreatmentRepository(db *sqlx.DB) repository.TreatmentRepository {
	return &treatmentRepository{db: db}
}

// Create inserts the treatment only if its appointment exists.
func (r *treatmentRepository) Create(ctx context.Context, t *model.Treatment) error {
	query := `
		INSERT INTO treatments (appointment_id, description)
		SELECT $1::bigint, $2::text
		WHERE EXISTS (SELECT 1 FROM appointments WHERE id = $1)
		RETURNING id, created_at
	`
	err := r.db.QueryRowxContext(ctx, query, t.AppointmentID, t.Description).
		Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create treatment: %w", notFound(err))
	}
	return nil
}

func (r *treatmentRepository) Get(ctx context.Context, id int64) (*model.Treatment, error) {
	query := `SELECT ` + treatmentColumns + ` FROM treatments WHERE id = $1`
	var t model.Treatment
	if err := r.db.GetContext(ctx, &t, query, id); err != nil {
		return nil, fmt.Errorf("failed to get treatment: %w", notFound(err))
	}
	return &t, nil
}

func (r *treatmentRepository) FindAll(ctx context.Context) ([]*model.Treatment, error) {
	treatments := make([]*model.Treatment, 0)
	query := `SELECT ` + treatmentColumns + ` FROM treatments ORDER BY id`
	if err := r.db.SelectContext(ctx, &treatments, query); err != nil {
		return nil, fmt.Errorf("failed to list treatments: %w", err)
	}
	return treatments, nil
}

func (r *treatmentRepository) FindByAppointmentIDs(ctx context.Context, appointmentIDs []int64) ([]*model.Treatment, error) {
	treatments := make([]*model.Treatment, 0)
	if len(appointmentIDs) == 0 {
		return treatments, nil
	}
	query := `SELECT ` + treatmentColumns + ` FROM treatments WHERE appointment_id = ANY($1) ORDER BY id`
	if err := r.db.SelectContext(ctx, &treatments, query, pq.Array(appointmentIDs)); err != nil {
		return nil, fmt.Errorf("failed to find treatments by appointment ids: %w", err)
	}
	return treatments, nil
}
