package memory

import (
	"context"
	"time"

	"github.com/jwalitptl/dentalcare-api/internal/model"
	"github.com/jwalitptl/dentalcare-api/internal/repository"
)

var _ repository.AmountRepository = (*Amounts)(nil)

type Amounts struct {
	s *Store
}

func (r *Amounts) Create(ctx context.Context, a *model.Amount) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.appointments[a.AppointmentID]; !ok {
		return repository.ErrNotFound
	}
	a.ID = r.s.id("amount")
	a.CreatedAt = r.s.stamp(a.CreatedAt)
	r.s.amounts[a.ID] = *a
	return nil
}

func (r *Amounts) Get(ctx context.Context, id int64) (*model.Amount, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	a, ok := r.s.amounts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &a, nil
}

func (r *Amounts) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.amounts[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.amounts, id)
	return nil
}

func (r *Amounts) ListByAppointment(ctx context.Context, appointmentID int64) ([]*model.Amount, error) {
	return r.filter(func(a model.Amount) bool { return a.AppointmentID == appointmentID }), nil
}

func (r *Amounts) FindCreatedBetween(ctx context.Context, start, end time.Time) ([]*model.Amount, error) {
	return r.filter(func(a model.Amount) bool { return between(a.CreatedAt, start, end) }), nil
}

func (r *Amounts) FindByAppointmentIDs(ctx context.Context, appointmentIDs []int64) ([]*model.Amount, error) {
	wanted := make(map[int64]struct{}, len(appointmentIDs))
	for _, id := range appointmentIDs {
		wanted[id] = struct{}{}
	}
	return r.filter(func(a model.Amount) bool {
		_, ok := wanted[a.AppointmentID]
		return ok
	}), nil
}

func (r *Amounts) filter(keep func(model.Amount) bool) []*model.Amount {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*model.Amount, 0)
	for _, id := range sortedIDs(r.s.amounts) {
		a := r.s.amounts[id]
		if keep(a) {
			out = append(out, &a)
		}
	}
	return out
}
