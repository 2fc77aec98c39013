package memory

import (
	"context"
	"time"

	"github.com/jwalitptl/dentalcare-api/internal/model"
	"github.com/jwalitptl/dentalcare-api/internal/repository"
)

var _ repository.AppointmentRepository = (*Appointments)(nil)

type Appointments struct {
	s *Store
}

func (r *Appointments) Create(ctx context.Context, a *model.Appointment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a.ID = r.s.id("appointment")
	a.CreatedAt = r.s.stamp(a.CreatedAt)
	a.UpdatedAt = a.CreatedAt
	r.s.appointments[a.ID] = *a
	return nil
}

func (r *Appointments) Get(ctx context.Context, id int64) (*model.Appointment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	a, ok := r.s.appointments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &a, nil
}

func (r *Appointments) Update(ctx context.Context, a *model.Appointment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.appointments[a.ID]; !ok {
		return repository.ErrNotFound
	}
	a.UpdatedAt = r.s.now()
	r.s.appointments[a.ID] = *a
	return nil
}

func (r *Appointments) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.appointments[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.appointments, id)
	return nil
}

func (r *Appointments) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if filters == nil {
		filters = &model.AppointmentFilters{}
	}
	out := make([]*model.Appointment, 0)
	for _, id := range sortedIDs(r.s.appointments) {
		a := r.s.appointments[id]
		if filters.PatientID != 0 && a.PatientID != filters.PatientID {
			continue
		}
		if filters.Status != "" && a.Status != filters.Status {
			continue
		}
		if filters.StartDate != nil && a.Date.Before(*filters.StartDate) {
			continue
		}
		if filters.EndDate != nil && a.Date.After(*filters.EndDate) {
			continue
		}
		out = append(out, &a)
	}
	return out, nil
}

func (r *Appointments) FindByDateBetween(ctx context.Context, start, end time.Time) ([]*model.Appointment, error) {
	return r.List(ctx, &model.AppointmentFilters{StartDate: &start, EndDate: &end})
}

func (r *Appointments) FindByPatientID(ctx context.Context, patientID int64) ([]*model.Appointment, error) {
	return r.List(ctx, &model.AppointmentFilters{PatientID: patientID})
}
