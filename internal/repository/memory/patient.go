package memory

import (
	"context"
	"time"

	"github.com/jwalitptl/dentalcare-api/internal/model"
	"github.com/jwalitptl/dentalcare-api/internal/repository"
)

var _ repository.PatientRepository = (*Patients)(nil)

type Patients struct {
	s *Store
}

func (r *Patients) Create(ctx context.Context, p *model.Patient) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p.ID = r.s.id("patient")
	p.CreatedAt = r.s.stamp(p.CreatedAt)
	p.UpdatedAt = p.CreatedAt
	r.s.patients[p.ID] = *p
	return nil
}

func (r *Patients) Get(ctx context.Context, id int64) (*model.Patient, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.patients[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (r *Patients) Update(ctx context.Context, p *model.Patient) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.patients[p.ID]; !ok {
		return repository.ErrNotFound
	}
	p.UpdatedAt = r.s.now()
	r.s.patients[p.ID] = *p
	return nil
}

func (r *Patients) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.patients[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.patients, id)
	return nil
}

func (r *Patients) List(ctx context.Context, filters *model.PatientFilters) ([]*model.Patient, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if filters == nil {
		filters = &model.PatientFilters{}
	}
	out := make([]*model.Patient, 0)
	for _, id := range sortedIDs(r.s.patients) {
		p := r.s.patients[id]
		term := filters.SearchTerm
		if !containsIgnoreCase(p.FirstName, term) && !containsIgnoreCase(p.LastName, term) && !containsIgnoreCase(p.Email, term) {
			continue
		}
		out = append(out, &p)
	}
	return paginate(out, filters.Pagination), nil
}

func (r *Patients) FindCreatedBetween(ctx context.Context, start, end time.Time) ([]*model.Patient, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*model.Patient, 0)
	for _, id := range sortedIDs(r.s.patients) {
		p := r.s.patients[id]
		if between(p.CreatedAt, start, end) {
			out = append(out, &p)
		}
	}
	return out, nil
}

func (r *Patients) CountAll(ctx context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.s.patients)), nil
}

func (r *Patients) CountWithMultipleAppointments(ctx context.Context, start, end time.Time) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	perPatient := make(map[int64]int)
	for _, a := range r.s.appointments {
		if between(a.Date, start, end) {
			perPatient[a.PatientID]++
		}
	}
	var n int64
	for _, c := range perPatient {
		if c > 1 {
			n++
		}
	}
	return n, nil
}
