package model

import (
	"time"
)

type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
	AppointmentStatusNoShow    AppointmentStatus = "no-show"
)

// Appointment.Date is a calendar date; the time of day lives in Time.
type Appointment struct {
	ID            int64             `db:"id" json:"id"`
	PatientID     int64             `db:"patient_id" json:"patientId"`
	Date          time.Time         `db:"appointment_date" json:"date"`
	Time          string            `db:"appointment_time" json:"time"`
	Type          string            `db:"type" json:"type"`
	Status        AppointmentStatus `db:"status" json:"status"`
	TreatmentType *string           `db:"treatment_type" json:"treatmentType,omitempty"`
	Notes         string            `db:"notes" json:"notes,omitempty"`
	CreatedAt     time.Time         `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time         `db:"updated_at" json:"updatedAt"`
}

type CreateAppointmentRequest struct {
	PatientID     int64   `json:"patientId" binding:"required,gt=0"`
	Date          string  `json:"date" binding:"required,datetime=2006-01-02"`
	Time          string  `json:"time" binding:"omitempty,datetime=15:04"`
	Type          string  `json:"type" binding:"required,max=100"`
	Status        string  `json:"status" binding:"omitempty,max=30"`
	TreatmentType *string `json:"treatmentType" binding:"omitempty,max=100"`
	Notes         string  `json:"notes" binding:"max=1000"`
}

type UpdateAppointmentRequest struct {
	Date          *string `json:"date" binding:"omitempty,datetime=2006-01-02"`
	Time          *string `json:"time" binding:"omitempty,datetime=15:04"`
	Type          *string `json:"type" binding:"omitempty,max=100"`
	Status        *string `json:"status" binding:"omitempty,max=30"`
	TreatmentType *string `json:"treatmentType" binding:"omitempty,max=100"`
	Notes         *string `json:"notes" binding:"omitempty,max=1000"`
}

type AppointmentFilters struct {
	PatientID int64
	Status    AppointmentStatus
	StartDate *time.Time
	EndDate   *time.Time
}
