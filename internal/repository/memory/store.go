// Package memory is an in-process implementation of the repository
// interfaces. It backs the "memory" database driver and service tests.
package memory

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jwalitptl/dentalcare-api/internal/model"
)

// Store holds every entity behind a single lock and hands out ids sequentially.
type Store struct {
	mu  sync.RWMutex
	now func() time.Time

	nextID map[string]int64

	patients     map[int64]model.Patient
	appointments map[int64]model.Appointment
	amounts      map[int64]model.Amount
	medicines    map[int64]model.Medicine
	sales        map[int64]model.PharmacySale
	users        map[int64]model.User

	prescriptions map[int64]model.Prescription
	treatments    map[int64]model.Treatment
	customers     map[int64]model.PharmacyCustomer
}

func NewStore() *Store {
	return &Store{
		now:          func() time.Time { return time.Now().UTC() },
		nextID:       make(map[string]int64),
		patients:     make(map[int64]model.Patient),
		appointments: make(map[int64]model.Appointment),
		amounts:      make(map[int64]model.Amount),
		medicines:    make(map[int64]model.Medicine),
		sales:        make(map[int64]model.PharmacySale),
		users:        make(map[int64]model.User),

		prescriptions: make(map[int64]model.Prescription),
		treatments:    make(map[int64]model.Treatment),
		customers:     make(map[int64]model.PharmacyCustomer),
	}
}

// SetClock overrides the timestamp source used for createdAt/updatedAt.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *Store) Patients() *Patients         { return &Patients{s: s} }
func (s *Store) Appointments() *Appointments { return &Appointments{s: s} }
func (s *Store) Amounts() *Amounts           { return &Amounts{s: s} }
func (s *Store) Medicines() *Medicines       { return &Medicines{s: s} }
func (s *Store) Sales() *Sales               { return &Sales{s: s} }
func (s *Store) Users() *Users               { return &Users{s: s} }

func (s *Store) Prescriptions() *Prescriptions { return &Prescriptions{s: s} }
func (s *Store) Treatments() *Treatments       { return &Treatments{s: s} }
func (s *Store) Customers() *Customers         { return &Customers{s: s} }

// id must be called with the write lock held.
func (s *Store) id(kind string) int64 {
	s.nextID[kind]++
	return s.nextID[kind]
}

// stamp keeps an explicitly provided timestamp so seeded history is preserved.
func (s *Store) stamp(t time.Time) time.Time {
	if t.IsZero() {
		return s.now()
	}
	return t
}

func between(t, start, end time.Time) bool {
	return !t.Before(start) && !t.After(end)
}

func sortedIDs[V any](m map[int64]V) []int64 {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func containsIgnoreCase(s, sub string) bool {
	if sub == "" {
		return true
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func paginate[T any](items []T, p model.Pagination) []T {
	if p.Offset > 0 {
		if p.Offset >= len(items) {
			return items[:0]
		}
		items = items[p.Offset:]
	}
	if p.Limit > 0 && p.Limit < len(items) {
		items = items[:p.Limit]
	}
	return items
}
