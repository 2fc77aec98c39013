package memory

import (
	"context"

	"github.com/jwalitptl/dentalcare-api/internal/model"
	"github.com/jwalitptl/dentalcare-api/internal/repository"
)

var _ repository.MedicineRepository = (*Medicines)(nil)

type Medicines struct {
	s *Store
}

func (r *Medicines) Create(ctx context.Context, m *model.Medicine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m.ID = r.s.id("medicine")
	m.CreatedAt = r.s.stamp(m.CreatedAt)
	m.UpdatedAt = m.CreatedAt
	r.s.medicines[m.ID] = *m
	return nil
}

func (r *Medicines) Get(ctx context.Context, id int64) (*model.Medicine, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	m, ok := r.s.medicines[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &m, nil
}

func (r *Medicines) Update(ctx context.Context, m *model.Medicine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.medicines[m.ID]; !ok {
		return repository.ErrNotFound
	}
	m.UpdatedAt = r.s.now()
	r.s.medicines[m.ID] = *m
	return nil
}

func (r *Medicines) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.medicines[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.medicines, id)
	return nil
}

func (r *Medicines) FindAll(ctx context.Context) ([]*model.Medicine, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*model.Medicine, 0, len(r.s.medicines))
	for _, id := range sortedIDs(r.s.medicines) {
		m := r.s.medicines[id]
		out = append(out, &m)
	}
	return out, nil
}
