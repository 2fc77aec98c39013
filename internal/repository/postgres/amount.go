package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/jwalitptl/dentalcare-api/internal/model"
	"github.com/jwalitptl/dentalcare-api/internal/repository"
)

const amountColumns = `id, appointment_id, patient_id, amount, payment_type, created_at`

type amountRepository struct {
	db *sqlx.DB
}

func NewAmountRepository(db *sqlx.DB) repository.AmountRepository {
	return &amountRepository{db: db}
}

// Create inserts the payment only if its appointment exists.
func (r *amountRepository) Create(ctx context.Context, amount *model.Amount) error {
	query := `
		INSERT INTO amounts (appointment_id, patient_id, amount, payment_type)
		SELECT $1::bigint, $2::bigint, $3::numeric, $4::text
		WHERE EXISTS (SELECT 1 FROM appointments WHERE id = $1)
		RETURNING id, created_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		amount.AppointmentID,
		amount.PatientID,
		amount.Amount,
		amount.PaymentType,
	).Scan(&amount.ID, &amount.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create amount: %w", notFound(err))
	}
	return nil
}

func (r *amountRepository) Get(ctx context.Context, id int64) (*model.Amount, error) {
	query := `SELECT ` + amountColumns + ` FROM amounts WHERE id = $1`
	var amount model.Amount
	if err := r.db.GetContext(ctx, &amount, query, id); err != nil {
		return nil, fmt.Errorf("failed to get amount: %w", notFound(err))
	}
	return &amount, nil
}

func (r *amountRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM amounts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete amount: %w", err)
	}
	if err := mustAffect(res); err != nil {
		return fmt.Errorf("failed to delete amount: %w", err)
	}
	return nil
}

func (r *amountRepository) ListByAppointment(ctx context.Context, appointmentID int64) ([]*model.Amount, error) {
	query := `SELECT ` + amountColumns + ` FROM amounts WHERE appointment_id = $1 ORDER BY id`
	amounts := make([]*model.Amount, 0)
	if err := r.db.SelectContext(ctx, &amounts, query, appointmentID); err != nil {
		return nil, fmt.Errorf("failed to list amounts: %w", err)
	}
	return amounts, nil
}

func (r *amountRepository) FindCreatedBetween(ctx context.Context, start, end time.Time) ([]*model.Amount, error) {
	query := `SELECT ` + amountColumns + ` FROM amounts WHERE created_at BETWEEN $1 AND $2 ORDER BY id`
	amounts := make([]*model.Amount, 0)
	if err := r.db.SelectContext(ctx, &amounts, query, start, end); err != nil {
		return nil, fmt.Errorf("failed to find amounts created between: %w", err)
	}
	return amounts, nil
}

func (r *amountRepository) FindByAppointmentIDs(ctx context.Context, appointmentIDs []int64) ([]*model.Amount, error) {
	amounts := make([]*model.Amount, 0)
	if len(appointmentIDs) == 0 {
		return amounts, nil
	}
	query := `SELECT ` + amountColumns + ` FROM amounts WHERE appointment_id = ANY($1) ORDER BY id`
	if err := r.db.SelectContext(ctx, &amounts, query, pq.Array(appointmentIDs)); err != nil {
		return nil, fmt.Errorf("failed to find amounts by appointment ids: %w", err)
	}
	return amounts, nil
}
