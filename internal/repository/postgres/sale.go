package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/jwalitptl/dentalcare-api/internal/model"
	"github.com/jwalitptl/dentalcare-api/internal/repository"
)

const saleColumns = `id, customer_name, customer_phone, subtotal, sgst, cgst, discount, total, created_at`

type saleRepository struct {
	BaseRepository
}

func NewPharmacySaleRepository(db *sqlx.DB) repository.PharmacySaleRepository {
	return &saleRepository{BaseRepository: NewBaseRepository(db)}
}

// CreateWithStockUpdate decrements stock with a guarded update per item and
// writes the sale and its items in one transaction.
func (r *saleRepository) CreateWithStockUpdate(ctx context.Context, sale *model.PharmacySale) error {
	err := r.WithTx(ctx, func(tx *sqlx.Tx) error {
		for _, item := range sale.Items {
			if err := decrementStock(ctx, tx, item.MedicineID, item.Quantity); err != nil {
				return err
			}
		}

		query := `
			INSERT INTO pharmacy_sales (customer_name, customer_phone, subtotal, sgst, cgst, discount, total)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id, created_at
		`
		err := tx.QueryRowxContext(ctx, query,
			sale.CustomerName,
			sale.CustomerPhone,
			sale.Subtotal,
			sale.SGST,
			sale.CGST,
			sale.Discount,
			sale.Total,
		).Scan(&sale.ID, &sale.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert sale: %w", err)
		}

		itemQuery := `
			INSERT INTO pharmacy_sale_items (sale_id, medicine_id, medicine_name, quantity, unit_price, total_price)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id
		`
		for i := range sale.Items {
			item := &sale.Items[i]
			item.SaleID = sale.ID
			err := tx.QueryRowxContext(ctx, itemQuery,
				item.SaleID,
				item.MedicineID,
				item.MedicineName,
				item.Quantity,
				item.UnitPrice,
				item.TotalPrice,
			).Scan(&item.ID)
			if err != nil {
				return fmt.Errorf("failed to insert sale item: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to create pharmacy sale: %w", err)
	}
	return nil
}

func decrementStock(ctx context.Context, tx *sqlx.Tx, medicineID int64, quantity int) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE medicines SET stock = stock - $1, updated_at = NOW() WHERE id = $2 AND stock >= $1`,
		quantity, medicineID)
	if err != nil {
		return fmt.Errorf("failed to update stock: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update stock: %w", err)
	}
	if n > 0 {
		return nil
	}

	var exists bool
	if err := tx.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM medicines WHERE id = $1)`, medicineID); err != nil {
		return fmt.Errorf("failed to check medicine: %w", err)
	}
	if !exists {
		return repository.ErrNotFound
	}
	return repository.ErrInsufficientStock
}

func (r *saleRepository) Get(ctx context.Context, id int64) (*model.PharmacySale, error) {
	query := `SELECT ` + saleColumns + ` FROM pharmacy_sales WHERE id = $1`
	var sale model.PharmacySale
	if err := r.db.GetContext(ctx, &sale, query, id); err != nil {
		return nil, fmt.Errorf("failed to get pharmacy sale: %w", notFound(err))
	}
	sales := []*model.PharmacySale{&sale}
	if err := r.attachItems(ctx, sales); err != nil {
		return nil, err
	}
	return &sale, nil
}

func (r *saleRepository) List(ctx context.Context, filters *model.SaleFilters) ([]*model.PharmacySale, error) {
	if filters == nil {
		filters = &model.SaleFilters{}
	}

	query := `SELECT ` + saleColumns + ` FROM pharmacy_sales
		WHERE ($1::timestamptz IS NULL OR created_at >= $1)
		AND ($2::timestamptz IS NULL OR created_at <= $2)
		ORDER BY id`
	args := []interface{}{filters.StartDate, filters.EndDate}
	if filters.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filters.Limit)
	}
	if filters.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", filters.Offset)
	}
	return r.selectSales(ctx, query, args...)
}

func (r *saleRepository) FindCreatedBetween(ctx context.Context, start, end time.Time) ([]*model.PharmacySale, error) {
	query := `SELECT ` + saleColumns + ` FROM pharmacy_sales WHERE created_at BETWEEN $1 AND $2 ORDER BY id`
	return r.selectSales(ctx, query, start, end)
}

func (r *saleRepository) GetTopSellingMedicines(ctx context.Context, start, end time.Time) ([]model.TopSellingMedicine, error) {
	query := `
		SELECT i.medicine_id, i.medicine_name,
			SUM(i.quantity) AS quantity,
			SUM(i.total_price) AS revenue
		FROM pharmacy_sale_items i
		JOIN pharmacy_sales s ON s.id = i.sale_id
		WHERE s.created_at BETWEEN $1 AND $2
		GROUP BY i.medicine_id, i.medicine_name
		ORDER BY quantity DESC, MIN(i.id)
	`
	top := make([]model.TopSellingMedicine, 0)
	if err := r.db.SelectContext(ctx, &top, query, start, end); err != nil {
		return nil, fmt.Errorf("failed to get top selling medicines: %w", err)
	}
	return top, nil
}

func (r *saleRepository) selectSales(ctx context.Context, query string, args ...interface{}) ([]*model.PharmacySale, error) {
	sales := make([]*model.PharmacySale, 0)
	if err := r.db.SelectContext(ctx, &sales, query, args...); err != nil {
		return nil, fmt.Errorf("failed to select pharmacy sales: %w", err)
	}
	if err := r.attachItems(ctx, sales); err != nil {
		return nil, err
	}
	return sales, nil
}

// attachItems loads the line items for all sales in one query.
func (r *saleRepository) attachItems(ctx context.Context, sales []*model.PharmacySale) error {
	if len(sales) == 0 {
		return nil
	}
	ids := make([]int64, len(sales))
	byID := make(map[int64]*model.PharmacySale, len(sales))
	for i, s := range sales {
		ids[i] = s.ID
		byID[s.ID] = s
		s.Items = make([]model.PharmacySaleItem, 0)
	}

	var items []model.PharmacySaleItem
	query := `
		SELECT id, sale_id, medicine_id, medicine_name, quantity, unit_price, total_price
		FROM pharmacy_sale_items WHERE sale_id = ANY($1) ORDER BY id
	`
	if err := r.db.SelectContext(ctx, &items, query, pq.Array(ids)); err != nil {
		return fmt.Errorf("failed to load sale items: %w", err)
	}
	for _, item := range items {
		if s, ok := byID[item.SaleID]; ok {
			s.Items = append(s.Items, item)
		}
	}
	return nil
}
