package memory

import (
	"context"

	"github.com/jwalitptl/dentalcare-api/internal/model"
	"github.com/jwalitptl/dentalcare-api/internal/repository"
)

var _ repository.PharmacyCustomerRepository = (*Customers)(nil)

type Customers struct {
	s *Store
}

func (r *Customers) Create(ctx context.Context, c *model.PharmacyCustomer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.customers {
		if existing.Phone == c.Phone {
			return repository.ErrDuplicate
		}
	}
	c.ID = r.s.id("customer")
	c.CreatedAt = r.s.stamp(c.CreatedAt)
	r.s.customers[c.ID] = *c
	return nil
}

func (r *Customers) GetByPhone(ctx context.Context, phone string) (*model.PharmacyCustomer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, c := range r.s.customers {
		if c.Phone == phone {
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}
