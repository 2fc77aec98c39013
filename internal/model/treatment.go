package model

import "time"

// Treatment records work done during an appointment. It reaches a patient
// only through the appointment.
type Treatment struct {
	ID            int64     `db:"id" json:"id"`
	AppointmentID int64     `db:"appointment_id" json:"appointmentId"`
	Description   string    `db:"description" json:"description"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
}

type CreateTreatmentRequest struct {
	AppointmentID int64  `json:"appointmentId" binding:"required,gt=0"`
	Description   string `json:"description" binding:"required"`
}
