package model

import "time"

// Prescription is written by a dentist during an appointment. Items are
// replaced wholesale on update.
type Prescription struct {
	ID            int64              `db:"id" json:"id"`
	PatientID     int64              `db:"patient_id" json:"patientId"`
	PatientName   string             `db:"patient_name" json:"patientName"`
	AppointmentID int64              `db:"appointment_id" json:"appointmentId"`
	DentistID     int64              `db:"dentist_id" json:"dentistId"`
	DentistName   string             `db:"dentist_name" json:"dentistName"`
	Items         []PrescriptionItem `db:"-" json:"items"`
	Notes         string             `db:"notes" json:"notes"`
	CreatedAt     time.Time          `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time          `db:"updated_at" json:"updatedAt"`
}

type PrescriptionItem struct {
	ID             int64  `db:"id" json:"id"`
	PrescriptionID int64  `db:"prescription_id" json:"-"`
	MedicineID     int64  `db:"medicine_id" json:"medicineId"`
	MedicineName   string `db:"medicine_name" json:"medicineName"`
	MedicineType   string `db:"medicine_type" json:"medicineType"`
	Dosage         string `db:"dosage" json:"dosage"`
	Frequency      string `db:"frequency" json:"frequency"`
	Duration       string `db:"duration" json:"duration"`
	Instructions   string `db:"instructions" json:"instructions"`
}

type PrescriptionItemRequest struct {
	MedicineID   int64  `json:"medicineId" binding:"required,gt=0"`
	Dosage       string `json:"dosage" binding:"required,max=100"`
	Frequency    string `json:"frequency" binding:"required,max=100"`
	Duration     string `json:"duration" binding:"required,max=100"`
	Instructions string `json:"instructions" binding:"max=500"`
}

// PrescriptionRequest is used for both create and full update.
type PrescriptionRequest struct {
	PatientID     int64                     `json:"patientId" binding:"required,gt=0"`
	AppointmentID int64                     `json:"appointmentId" binding:"required,gt=0"`
	DentistID     int64                     `json:"dentistId" binding:"omitempty,gt=0"`
	DentistName   string                    `json:"dentistName" binding:"required,max=200"`
	Notes         string                    `json:"notes"`
	Items         []PrescriptionItemRequest `json:"items" binding:"required,min=1,dive"`
}
