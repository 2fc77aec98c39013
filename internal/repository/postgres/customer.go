package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/jwalitptl/dentalcare-api/internal/model"
	"github.com/jwalitptl/dentalcare-api/internal/repository"
)

type customerRepository struct {
	db *sqlx.DB
}

func NewPharmacyCustomerRepository(db *sqlx.DB) repository.PharmacyCustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) Create(ctx context.Context, c *model.PharmacyCustomer) error {
	query := `
		INSERT INTO pharmacy_customers (name, phone, email, address)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	err := r.db.QueryRowxContext(ctx, query, c.Name, c.Phone, c.Email, c.Address).
		Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return fmt.Errorf("failed to create customer: %w", repository.ErrDuplicate)
		}
		return fmt.Errorf("failed to create customer: %w", err)
	}
	return nil
}

func (r *customerRepository) GetByPhone(ctx context.Context, phone string) (*model.PharmacyCustomer, error) {
	query := `SELECT id, name, phone, email, address, created_at FROM pharmacy_customers WHERE phone = $1`
	var c model.PharmacyCustomer
	if err := r.db.GetContext(ctx, &c, query, phone); err != nil {
		return nil, fmt.Errorf("failed to get customer by phone: %w", notFound(err))
	}
	return &c, nil
}
