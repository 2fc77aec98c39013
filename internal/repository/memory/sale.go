package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jwalitptl/dentalcare-api/internal/model"
	"github.com/jwalitptl/dentalcare-api/internal/repository"
)

var _ repository.PharmacySaleRepository = (*Sales)(nil)

type Sales struct {
	s *Store
}

// CreateWithStockUpdate validates every item before touching stock, so a
// rejected sale leaves the store unchanged.
func (r *Sales) CreateWithStockUpdate(ctx context.Context, sale *model.PharmacySale) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	need := make(map[int64]int)
	for _, item := range sale.Items {
		need[item.MedicineID] += item.Quantity
	}
	for id, qty := range need {
		m, ok := r.s.medicines[id]
		if !ok {
			return repository.ErrNotFound
		}
		if m.Stock < qty {
			return repository.ErrInsufficientStock
		}
	}
	for id, qty := range need {
		m := r.s.medicines[id]
		m.Stock -= qty
		m.UpdatedAt = r.s.now()
		r.s.medicines[id] = m
	}

	sale.ID = r.s.id("sale")
	sale.CreatedAt = r.s.stamp(sale.CreatedAt)
	items := make([]model.PharmacySaleItem, len(sale.Items))
	for i, item := range sale.Items {
		item.ID = r.s.id("sale_item")
		item.SaleID = sale.ID
		items[i] = item
	}
	sale.Items = items
	r.s.sales[sale.ID] = copySale(*sale)
	return nil
}

func (r *Sales) Get(ctx context.Context, id int64) (*model.PharmacySale, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	sale, ok := r.s.sales[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	sale = copySale(sale)
	return &sale, nil
}

func (r *Sales) List(ctx context.Context, filters *model.SaleFilters) ([]*model.PharmacySale, error) {
	if filters == nil {
		filters = &model.SaleFilters{}
	}
	out := r.filter(func(s model.PharmacySale) bool {
		if filters.StartDate != nil && s.CreatedAt.Before(*filters.StartDate) {
			return false
		}
		if filters.EndDate != nil && s.CreatedAt.After(*filters.EndDate) {
			return false
		}
		return true
	})
	return paginate(out, filters.Pagination), nil
}

func (r *Sales) FindCreatedBetween(ctx context.Context, start, end time.Time) ([]*model.PharmacySale, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.filter(func(s model.PharmacySale) bool { return between(s.CreatedAt, start, end) }), nil
}

func (r *Sales) GetTopSellingMedicines(ctx context.Context, start, end time.Time) ([]model.TopSellingMedicine, error) {
	sales, err := r.FindCreatedBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}

	type key struct {
		id   int64
		name string
	}
	index := make(map[key]int)
	out := make([]model.TopSellingMedicine, 0)
	for _, sale := range sales {
		for _, item := range sale.Items {
			k := key{item.MedicineID, item.MedicineName}
			i, ok := index[k]
			if !ok {
				i = len(out)
				index[k] = i
				out = append(out, model.TopSellingMedicine{
					MedicineID:   item.MedicineID,
					MedicineName: item.MedicineName,
					Revenue:      decimal.Zero,
				})
			}
			out[i].Quantity += int64(item.Quantity)
			out[i].Revenue = out[i].Revenue.Add(item.TotalPrice)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Quantity > out[j].Quantity })
	return out, nil
}

func (r *Sales) filter(keep func(model.PharmacySale) bool) []*model.PharmacySale {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*model.PharmacySale, 0)
	for _, id := range sortedIDs(r.s.sales) {
		sale := r.s.sales[id]
		if keep(sale) {
			sale = copySale(sale)
			out = append(out, &sale)
		}
	}
	return out
}

func copySale(s model.PharmacySale) model.PharmacySale {
	s.Items = append([]model.PharmacySaleItem(nil), s.Items...)
	return s
}
