package model

import "time"

// PharmacyCustomer is a walk-in buyer, looked up by phone at the counter.
type PharmacyCustomer struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Phone     string    `db:"phone" json:"phone"`
	Email     string    `db:"email" json:"email"`
	Address   string    `db:"address" json:"address"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

type CreateCustomerRequest struct {
	Name    string `json:"name" binding:"required,max=200"`
	Phone   string `json:"phone" binding:"required,max=20"`
	Email   string `json:"email" binding:"omitempty,email"`
	Address string `json:"address"`
}
