package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	PaymentTypeCash   = "cash"
	PaymentTypeOnline = "online"
)

// Amount is a single payment against an appointment. An appointment may
// carry several.
type Amount struct {
	ID            int64           `db:"id" json:"id"`
	AppointmentID int64           `db:"appointment_id" json:"appointmentId"`
	PatientID     int64           `db:"patient_id" json:"patientId"`
	Amount        decimal.Decimal `db:"amount" json:"amount"`
	PaymentType   string          `db:"payment_type" json:"paymentType"`
	CreatedAt     time.Time       `db:"created_at" json:"createdAt"`
}

type CreateAmountRequest struct {
	AppointmentID int64           `json:"appointmentId" binding:"required,gt=0"`
	PatientID     int64           `json:"patientId" binding:"omitempty,gt=0"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentType   string          `json:"paymentType" binding:"required,max=20"`
}
