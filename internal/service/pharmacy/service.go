package pharmacy

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/jwalitptl/dentalcare-api/internal/model"
	"github.com/jwalitptl/dentalcare-api/internal/repository"
	apperrors "github.com/jwalitptl/dentalcare-api/pkg/errors"
	"github.com/jwalitptl/dentalcare-api/pkg/messaging"
)

const EventSaleCreated = "pharmacy_sale.created"

// Rejection reasons reported to the Recorder.
const (
	RejectUnknownMedicine   = "unknown_medicine"
	RejectInsufficientStock = "insufficient_stock"
	RejectInvalid           = "invalid"
)

var ErrInsufficientStock = repository.ErrInsufficientStock

// Recorder receives sale outcomes. *metrics.Metrics satisfies it.
type Recorder interface {
	ObserveSale(units int)
	ObserveSaleRejected(reason string)
}

type noopRecorder struct{}

func (noopRecorder) ObserveSale(int)            {}
func (noopRecorder) ObserveSaleRejected(string) {}

type Service struct {
	medicineRepo repository.MedicineRepository
	saleRepo     repository.PharmacySaleRepository
	publisher    messaging.Publisher
	recorder     Recorder
}

func NewService(medicineRepo repository.MedicineRepository, saleRepo repository.PharmacySaleRepository,
	publisher messaging.Publisher, recorder Recorder) *Service {
	if publisher == nil {
		publisher = messaging.NoopPublisher{}
	}
	if recorder == nil {
		recorder = noopRecorder{}
	}
	return &Service{
		medicineRepo: medicineRepo,
		saleRepo:     saleRepo,
		publisher:    publisher,
		recorder:     recorder,
	}
}

func (s *Service) CreateMedicine(ctx context.Context, req *model.CreateMedicineRequest) (*model.Medicine, error) {
	if req.Price.IsNegative() {
		return nil, apperrors.BadRequest("price must not be negative", nil)
	}
	expiry, err := model.ParseDate(req.DateOfExpiry)
	if err != nil {
		return nil, apperrors.BadRequest("invalid dateOfExpiry", err)
	}

	medicine := &model.Medicine{
		Name:         req.Name,
		Type:         req.Type,
		Manufacturer: req.Manufacturer,
		Unit:         req.Unit,
		Price:        req.Price.Round(2),
		Stock:        req.Stock,
		DateOfExpiry: expiry,
	}
	if err := s.medicineRepo.Create(ctx, medicine); err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to create medicine: %w", err))
	}
	return medicine, nil
}

func (s *Service) GetMedicine(ctx context.Context, id int64) (*model.Medicine, error) {
	medicine, err := s.medicineRepo.Get(ctx, id)
	if err != nil {
		return nil, lookupError("medicine", err)
	}
	return medicine, nil
}

func (s *Service) UpdateMedicine(ctx context.Context, id int64, req *model.UpdateMedicineRequest) (*model.Medicine, error) {
	medicine, err := s.medicineRepo.Get(ctx, id)
	if err != nil {
		return nil, lookupError("medicine", err)
	}

	if req.Name != nil {
		medicine.Name = *req.Name
	}
	if req.Type != nil {
		medicine.Type = *req.Type
	}
	if req.Manufacturer != nil {
		medicine.Manufacturer = *req.Manufacturer
	}
	if req.Unit != nil {
		medicine.Unit = *req.Unit
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			return nil, apperrors.BadRequest("price must not be negative", nil)
		}
		medicine.Price = req.Price.Round(2)
	}
	if req.Stock != nil {
		medicine.Stock = *req.Stock
	}
	if req.DateOfExpiry != nil {
		expiry, err := model.ParseDate(*req.DateOfExpiry)
		if err != nil {
			return nil, apperrors.BadRequest("invalid dateOfExpiry", err)
		}
		medicine.DateOfExpiry = expiry
	}

	if err := s.medicineRepo.Update(ctx, medicine); err != nil {
		return nil, lookupError("medicine", err)
	}
	return medicine, nil
}

func (s *Service) DeleteMedicine(ctx context.Context, id int64) error {
	if err := s.medicineRepo.Delete(ctx, id); err != nil {
		return lookupError("medicine", err)
	}
	return nil
}

func (s *Service) ListMedicines(ctx context.Context) ([]*model.Medicine, error) {
	medicines, err := s.medicineRepo.FindAll(ctx)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to list medicines: %w", err))
	}
	return medicines, nil
}

// CreateSale prices every line from the request or the medicine's list
// price, totals the sale and persists it while decrementing stock.
func (s *Service) CreateSale(ctx context.Context, req *model.CreateSaleRequest) (*model.PharmacySale, error) {
	if req.SGST.IsNegative() || req.CGST.IsNegative() || req.Discount.IsNegative() {
		s.recorder.ObserveSaleRejected(RejectInvalid)
		return nil, apperrors.BadRequest("taxes and discount must not be negative", nil)
	}

	sale := &model.PharmacySale{
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		Items:         make([]model.PharmacySaleItem, 0, len(req.Items)),
		SGST:          req.SGST.Round(2),
		CGST:          req.CGST.Round(2),
		Discount:      req.Discount.Round(2),
	}

	requested := make(map[int64]int, len(req.Items))
	units := 0
	subtotal := decimal.Zero
	for _, line := range req.Items {
		medicine, err := s.medicineRepo.Get(ctx, line.MedicineID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				s.recorder.ObserveSaleRejected(RejectUnknownMedicine)
			}
			return nil, lookupError("medicine", err)
		}

		requested[medicine.ID] += line.Quantity
		if medicine.Stock < requested[medicine.ID] {
			s.recorder.ObserveSaleRejected(RejectInsufficientStock)
			return nil, insufficientStock(medicine.Name)
		}

		unitPrice := medicine.Price
		if line.UnitPrice != nil {
			if line.UnitPrice.IsNegative() {
				s.recorder.ObserveSaleRejected(RejectInvalid)
				return nil, apperrors.BadRequest("unitPrice must not be negative", nil)
			}
			unitPrice = *line.UnitPrice
		}
		unitPrice = unitPrice.Round(2)
		lineTotal := unitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))).Round(2)

		sale.Items = append(sale.Items, model.PharmacySaleItem{
			MedicineID:   medicine.ID,
			MedicineName: medicine.Name,
			Quantity:     line.Quantity,
			UnitPrice:    unitPrice,
			TotalPrice:   lineTotal,
		})
		subtotal = subtotal.Add(lineTotal)
		units += line.Quantity
	}

	sale.Subtotal = subtotal.Round(2)
	sale.Total = sale.Subtotal.Add(sale.SGST).Add(sale.CGST).Sub(sale.Discount).Round(2)
	if sale.Total.IsNegative() {
		s.recorder.ObserveSaleRejected(RejectInvalid)
		return nil, apperrors.BadRequest("discount exceeds sale amount", nil)
	}

	if err := s.saleRepo.CreateWithStockUpdate(ctx, sale); err != nil {
		switch {
		case errors.Is(err, repository.ErrInsufficientStock):
			s.recorder.ObserveSaleRejected(RejectInsufficientStock)
			return nil, insufficientStock("")
		case errors.Is(err, repository.ErrNotFound):
			s.recorder.ObserveSaleRejected(RejectUnknownMedicine)
			return nil, apperrors.NotFound("medicine", err)
		}
		return nil, apperrors.Internal(fmt.Errorf("failed to create sale: %w", err))
	}
	s.recorder.ObserveSale(units)

	if err := s.publisher.Publish(ctx, EventSaleCreated, sale); err != nil {
		log.Ctx(ctx).Warn().Err(err).Int64("sale_id", sale.ID).Msg("failed to publish sale event")
	}
	return sale, nil
}

func (s *Service) GetSale(ctx context.Context, id int64) (*model.PharmacySale, error) {
	sale, err := s.saleRepo.Get(ctx, id)
	if err != nil {
		return nil, lookupError("sale", err)
	}
	return sale, nil
}

func (s *Service) ListSales(ctx context.Context, filters *model.SaleFilters) ([]*model.PharmacySale, error) {
	sales, err := s.saleRepo.List(ctx, filters)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to list sales: %w", err))
	}
	return sales, nil
}

func insufficientStock(medicine string) error {
	msg := "insufficient stock"
	if medicine != "" {
		msg = fmt.Sprintf("insufficient stock for %s", medicine)
	}
	return apperrors.Conflict(msg, ErrInsufficientStock)
}

func lookupError(resource string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NotFound(resource, err)
	}
	return apperrors.Internal(err)
}
