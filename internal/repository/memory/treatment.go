package memory

import (
	"context"

	"github.com/jwalitptl/dentalcare-api/internal/model"
	"github.com/jwalitptl/dentalcare-api/internal/repository"
)

var _ repository.TreatmentRepository = (*Treatments)(nil)

type Treatments struct {
	s *Store
}

func (r *Treatments) Create(ctx context.Context, t *model.Treatment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.appointments[t.AppointmentID]; !ok {
		return repository.ErrNotFound
	}
	t.ID = r.s.id("treatment")
	t.CreatedAt = r.s.stamp(t.CreatedAt)
	r.s.treatments[t.ID] = *t
	return nil
}

func (r *Treatments) Get(ctx context.Context, id int64) (*model.Treatment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	t, ok := r.s.treatments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &t, nil
}

func (r *Treatments) FindAll(ctx context.Context) ([]*model.Treatment, error) {
	return r.filter(func(model.Treatment) bool { return true }), nil
}

func (r *Treatments) FindByAppointmentIDs(ctx context.Context, appointmentIDs []int64) ([]*model.Treatment, error) {
	wanted := make(map[int64]struct{}, len(appointmentIDs))
	for _, id := range appointmentIDs {
		wanted[id] = struct{}{}
	}
	return r.filter(func(t model.Treatment) bool {
		_, ok := wanted[t.AppointmentID]
		return ok
	}), nil
}

func (r *Treatments) filter(keep func(model.Treatment) bool) []*model.Treatment {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*model.Treatment, 0)
	for _, id := range sortedIDs(r.s.treatments) {
		t := r.s.treatments[id]
		if keep(t) {
			out = append(out, &t)
		}
	}
	return out
}
