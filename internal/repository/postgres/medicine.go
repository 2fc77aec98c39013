package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/dentalcare-api/internal/model"
	"github.com/jwalitptl/dentalcare-api/internal/repository"
)

const medicineColumns = `id, name, type, manufacturer, unit, price, stock, date_of_expiry, created_at, updated_at`

type medicineRepository struct {
	db *sqlx.DB
}

func NewMedicineRepository(db *sqlx.DB) repository.MedicineRepository {
	return &medicineRepository{db: db}
}

func (r *medicineRepository) Create(ctx context.Context, m *model.Medicine) error {
	query := `
		INSERT INTO medicines (name, type, manufacturer, unit, price, stock, date_of_expiry)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		m.Name,
		m.Type,
		m.Manufacturer,
		m.Unit,
		m.Price,
		m.Stock,
		m.DateOfExpiry,
	).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create medicine: %w", err)
	}
	return nil
}

func (r *medicineRepository) Get(ctx context.Context, id int64) (*model.Medicine, error) {
	query := `SELECT ` + medicineColumns + ` FROM medicines WHERE id = $1`
	var m model.Medicine
	if err := r.db.GetContext(ctx, &m, query, id); err != nil {
		return nil, fmt.Errorf("failed to get medicine: %w", notFound(err))
	}
	return &m, nil
}

func (r *medicineRepository) Update(ctx context.Context, m *model.Medicine) error {
	query := `
		UPDATE medicines
		SET name = $1, type = $2, manufacturer = $3, unit = $4, price = $5, stock = $6,
			date_of_expiry = $7, updated_at = NOW()
		WHERE id = $8
	`
	res, err := r.db.ExecContext(ctx, query,
		m.Name,
		m.Type,
		m.Manufacturer,
		m.Unit,
		m.Price,
		m.Stock,
		m.DateOfExpiry,
		m.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update medicine: %w", err)
	}
	if err := mustAffect(res); err != nil {
		return fmt.Errorf("failed to update medicine: %w", err)
	}
	return nil
}

func (r *medicineRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM medicines WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete medicine: %w", err)
	}
	if err := mustAffect(res); err != nil {
		return fmt.Errorf("failed to delete medicine: %w", err)
	}
	return nil
}

func (r *medicineRepository) FindAll(ctx context.Context) ([]*model.Medicine, error) {
	query := `SELECT ` + medicineColumns + ` FROM medicines ORDER BY id`
	medicines := make([]*model.Medicine, 0)
	if err := r.db.SelectContext(ctx, &medicines, query); err != nil {
		return nil, fmt.Errorf("failed to list medicines: %w", err)
	}
	return medicines, nil
}
