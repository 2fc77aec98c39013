package memory

import (
	"context"

	"github.com/jwalitptl/dentalcare-api/internal/model"
	"github.com/jwalitptl/dentalcare-api/internal/repository"
)

var _ repository.PrescriptionRepository = (*Prescriptions)(nil)

type Prescriptions struct {
	s *Store
}

func (r *Prescriptions) Create(ctx context.Context, p *model.Prescription) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p.ID = r.s.id("prescription")
	p.CreatedAt = r.s.stamp(p.CreatedAt)
	p.UpdatedAt = p.CreatedAt
	r.assignItems(p)
	r.s.prescriptions[p.ID] = copyPrescription(*p)
	return nil
}

func (r *Prescriptions) Get(ctx context.Context, id int64) (*model.Prescription, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.prescriptions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	p = copyPrescription(p)
	return &p, nil
}

func (r *Prescriptions) Update(ctx context.Context, p *model.Prescription) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.prescriptions[p.ID]
	if !ok {
		return repository.ErrNotFound
	}
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = r.s.now()
	r.assignItems(p)
	r.s.prescriptions[p.ID] = copyPrescription(*p)
	return nil
}

func (r *Prescriptions) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.prescriptions[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.prescriptions, id)
	return nil
}

func (r *Prescriptions) FindAll(ctx context.Context) ([]*model.Prescription, error) {
	return r.filter(func(model.Prescription) bool { return true }), nil
}

func (r *Prescriptions) FindByPatientID(ctx context.Context, patientID int64) ([]*model.Prescription, error) {
	return r.filter(func(p model.Prescription) bool { return p.PatientID == patientID }), nil
}

// assignItems must be called with the write lock held.
func (r *Prescriptions) assignItems(p *model.Prescription) {
	items := make([]model.PrescriptionItem, len(p.Items))
	for i, item := range p.Items {
		item.ID = r.s.id("prescription_item")
		item.PrescriptionID = p.ID
		items[i] = item
	}
	p.Items = items
}

func (r *Prescriptions) filter(keep func(model.Prescription) bool) []*model.Prescription {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*model.Prescription, 0)
	for _, id := range sortedIDs(r.s.prescriptions) {
		p := r.s.prescriptions[id]
		if keep(p) {
			p = copyPrescription(p)
			out = append(out, &p)
		}
	}
	return out
}

func copyPrescription(p model.Prescription) model.Prescription {
	p.Items = append([]model.PrescriptionItem{}, p.Items...)
	return p
}
