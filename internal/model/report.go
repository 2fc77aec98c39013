package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReportKind names one of the four statistics reports.
type ReportKind string

const (
	ReportPatients     ReportKind = "patients"
	ReportAppointments ReportKind = "appointments"
	ReportFinancial    ReportKind = "financial"
	ReportPharmacy     ReportKind = "pharmacy"
)

// ReportRequest carries the inputs shared by every report. Period is accepted
// as an opaque label; aggregation is always month-granular.
type ReportRequest struct {
	Period    string
	StartDate time.Time
	EndDate   time.Time
}

type PatientStatistics struct {
	TotalPatients      int64               `json:"totalPatients"`
	NewPatients        int                 `json:"newPatients"`
	ReturningPatients  int64               `json:"returningPatients"`
	AverageAge         float64             `json:"averageAge"`
	GenderDistribution map[string]int64    `json:"genderDistribution"`
	MonthlyTrends      []PatientTrendPoint `json:"monthlyTrends"`
}

type PatientTrendPoint struct {
	Date              string `json:"date"`
	NewPatients       int    `json:"newPatients"`
	ReturningPatients int64  `json:"returningPatients"`
}

type AppointmentStatistics struct {
	TotalAppointments         int                     `json:"totalAppointments"`
	CompletedAppointments     int64                   `json:"completedAppointments"`
	CancelledAppointments     int64                   `json:"cancelledAppointments"`
	NoShowAppointments        int64                   `json:"noShowAppointments"`
	TypeDistribution          map[string]int64        `json:"typeDistribution"`
	TreatmentTypeDistribution map[string]int64        `json:"treatmentTypeDistribution"`
	MonthlyTrends             []AppointmentTrendPoint `json:"monthlyTrends"`
}

type AppointmentTrendPoint struct {
	Date      string `json:"date"`
	Total     int    `json:"total"`
	Completed int64  `json:"completed"`
	Cancelled int64  `json:"cancelled"`
	NoShow    int64  `json:"noShow"`
}

// FinancialStatistics reconciles payment revenue (keyed on payment date) with
// pharmacy revenue (keyed on sale date). OnlineAmount+CashAmount only equals
// AppointmentRevenue when every payment type is one of the two known values.
type FinancialStatistics struct {
	TotalRevenue            decimal.Decimal       `json:"totalRevenue"`
	AppointmentRevenue      decimal.Decimal       `json:"appointmentRevenue"`
	PharmacyRevenue         decimal.Decimal       `json:"pharmacyRevenue"`
	AverageAppointmentValue decimal.Decimal       `json:"averageAppointmentValue"`
	AveragePharmacySale     decimal.Decimal       `json:"averagePharmacySale"`
	OnlineAmount            decimal.Decimal       `json:"onlineAmount"`
	CashAmount              decimal.Decimal       `json:"cashAmount"`
	TopProcedures           []ProcedureStat       `json:"topProcedures"`
	MonthlyTrends           []FinancialTrendPoint `json:"monthlyTrends"`
}

type ProcedureStat struct {
	Type    string          `json:"type"`
	Count   int             `json:"count"`
	Revenue decimal.Decimal `json:"revenue"`
}

type FinancialTrendPoint struct {
	Date               string          `json:"date"`
	TotalRevenue       decimal.Decimal `json:"totalRevenue"`
	AppointmentRevenue decimal.Decimal `json:"appointmentRevenue"`
	PharmacyRevenue    decimal.Decimal `json:"pharmacyRevenue"`
}

type PharmacyStatistics struct {
	TotalSales          int                  `json:"totalSales"`
	TotalRevenue        decimal.Decimal      `json:"totalRevenue"`
	AverageSaleValue    decimal.Decimal      `json:"averageSaleValue"`
	TopSellingMedicines []TopSellingMedicine `json:"topSellingMedicines"`
	MonthlyTrends       []PharmacyTrendPoint `json:"monthlyTrends"`
	StockAlerts         []StockAlert         `json:"stockAlerts"`
	ExpiryAlerts        []ExpiryAlert        `json:"expiryAlerts"`
}

type PharmacyTrendPoint struct {
	Date    string          `json:"date"`
	Sales   int             `json:"sales"`
	Revenue decimal.Decimal `json:"revenue"`
}

type StockAlert struct {
	MedicineID   int64  `json:"medicineId"`
	MedicineName string `json:"medicineName"`
	CurrentStock int    `json:"currentStock"`
	ReorderPoint int    `json:"reorderPoint"`
}

type ExpiryAlert struct {
	MedicineID   int64  `json:"medicineId"`
	MedicineName string `json:"medicineName"`
	ExpiryDate   string `json:"expiryDate"`
}
