package model

import (
	"time"
)

type Gender string

const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderOther  = "other"
)

type Patient struct {
	ID             int64      `db:"id" json:"id"`
	FirstName      string     `db:"first_name" json:"firstName"`
	LastName       string     `db:"last_name" json:"lastName"`
	Email          string     `db:"email" json:"email"`
	Phone          string     `db:"phone" json:"phone"`
	DateOfBirth    *time.Time `db:"date_of_birth" json:"dateOfBirth,omitempty"`
	Gender         *string    `db:"gender" json:"gender,omitempty"`
	Address        string     `db:"address" json:"address"`
	MedicalHistory string     `db:"medical_history" json:"medicalHistory"`
	CreatedAt      time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updatedAt"`
}

type CreatePatientRequest struct {
	FirstName      string  `json:"firstName" binding:"required,max=100"`
	LastName       string  `json:"lastName" binding:"required,max=100"`
	Email          string  `json:"email" binding:"omitempty,email"`
	Phone          string  `json:"phone" binding:"omitempty,max=20"`
	DateOfBirth    string  `json:"dateOfBirth" binding:"omitempty,datetime=2006-01-02"`
	Gender         *string `json:"gender" binding:"omitempty,max=20"`
	Address        string  `json:"address" binding:"max=500"`
	MedicalHistory string  `json:"medicalHistory"`
}

type UpdatePatientRequest struct {
	FirstName      *string `json:"firstName" binding:"omitempty,max=100"`
	LastName       *string `json:"lastName" binding:"omitempty,max=100"`
	Email          *string `json:"email" binding:"omitempty,email"`
	Phone          *string `json:"phone" binding:"omitempty,max=20"`
	DateOfBirth    *string `json:"dateOfBirth" binding:"omitempty,datetime=2006-01-02"`
	Gender         *string `json:"gender" binding:"omitempty,max=20"`
	Address        *string `json:"address" binding:"omitempty,max=500"`
	MedicalHistory *string `json:"medicalHistory"`
}

type PatientFilters struct {
	SearchTerm string
	Pagination
}
