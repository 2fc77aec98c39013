package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Medicine struct {
	ID           int64           `db:"id" json:"id"`
	Name         string          `db:"name" json:"name"`
	Type         string          `db:"type" json:"type"`
	Manufacturer string          `db:"manufacturer" json:"manufacturer"`
	Unit         string          `db:"unit" json:"unit"`
	Price        decimal.Decimal `db:"price" json:"price"`
	Stock        int             `db:"stock" json:"stock"`
	DateOfExpiry *time.Time      `db:"date_of_expiry" json:"dateOfExpiry,omitempty"`
	CreatedAt    time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time       `db:"updated_at" json:"updatedAt"`
}

type CreateMedicineRequest struct {
	Name         string          `json:"name" binding:"required,max=200"`
	Type         string          `json:"type" binding:"max=100"`
	Manufacturer string          `json:"manufacturer" binding:"max=200"`
	Unit         string          `json:"unit" binding:"max=50"`
	Price        decimal.Decimal `json:"price"`
	Stock        int             `json:"stock" binding:"gte=0"`
	DateOfExpiry string          `json:"dateOfExpiry" binding:"omitempty,datetime=2006-01-02"`
}

type UpdateMedicineRequest struct {
	Name         *string          `json:"name" binding:"omitempty,max=200"`
	Type         *string          `json:"type" binding:"omitempty,max=100"`
	Manufacturer *string          `json:"manufacturer" binding:"omitempty,max=200"`
	Unit         *string          `json:"unit" binding:"omitempty,max=50"`
	Price        *decimal.Decimal `json:"price"`
	Stock        *int             `json:"stock" binding:"omitempty,gte=0"`
	DateOfExpiry *string          `json:"dateOfExpiry" binding:"omitempty,datetime=2006-01-02"`
}

// PharmacySaleItem has no lifecycle outside its sale.
type PharmacySaleItem struct {
	ID           int64           `db:"id" json:"id"`
	SaleID       int64           `db:"sale_id" json:"-"`
	MedicineID   int64           `db:"medicine_id" json:"medicineId"`
	MedicineName string          `db:"medicine_name" json:"medicineName"`
	Quantity     int             `db:"quantity" json:"quantity"`
	UnitPrice    decimal.Decimal `db:"unit_price" json:"unitPrice"`
	TotalPrice   decimal.Decimal `db:"total_price" json:"totalPrice"`
}

type PharmacySale struct {
	ID            int64              `db:"id" json:"id"`
	CustomerName  string             `db:"customer_name" json:"customerName"`
	CustomerPhone string             `db:"customer_phone" json:"customerPhone"`
	Items         []PharmacySaleItem `db:"-" json:"items"`
	Subtotal      decimal.Decimal    `db:"subtotal" json:"subtotal"`
	SGST          decimal.Decimal    `db:"sgst" json:"sgst"`
	CGST          decimal.Decimal    `db:"cgst" json:"cgst"`
	Discount      decimal.Decimal    `db:"discount" json:"discount"`
	Total         decimal.Decimal    `db:"total" json:"total"`
	CreatedAt     time.Time          `db:"created_at" json:"createdAt"`
}

type CreateSaleItemRequest struct {
	MedicineID int64            `json:"medicineId" binding:"required,gt=0"`
	Quantity   int              `json:"quantity" binding:"required,gt=0"`
	UnitPrice  *decimal.Decimal `json:"unitPrice"`
}

type CreateSaleRequest struct {
	CustomerName  string                  `json:"customerName" binding:"max=200"`
	CustomerPhone string                  `json:"customerPhone" binding:"max=20"`
	Items         []CreateSaleItemRequest `json:"items" binding:"required,min=1,dive"`
	SGST          decimal.Decimal         `json:"sgst"`
	CGST          decimal.Decimal         `json:"cgst"`
	Discount      decimal.Decimal         `json:"discount"`
}

type SaleFilters struct {
	StartDate *time.Time
	EndDate   *time.Time
	Pagination
}

// TopSellingMedicine is one row of the line-item ranking.
type TopSellingMedicine struct {
	MedicineID   int64           `db:"medicine_id" json:"medicineId"`
	MedicineName string          `db:"medicine_name" json:"medicineName"`
	Quantity     int64           `db:"quantity" json:"quantity"`
	Revenue      decimal.Decimal `db:"revenue" json:"revenue"`
}
