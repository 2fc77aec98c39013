package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'receptionist',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS patients (
		id BIGSERIAL PRIMARY KEY,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		email TEXT NOT NULL DEFAULT '',
		phone TEXT NOT NULL DEFAULT '',
		date_of_birth DATE,
		gender TEXT,
		address TEXT NOT NULL DEFAULT '',
		medical_history TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_patients_created_at ON patients (created_at);`,
	`CREATE TABLE IF NOT EXISTS appointments (
		id BIGSERIAL PRIMARY KEY,
		patient_id BIGINT NOT NULL REFERENCES patients(id) ON DELETE CASCADE,
		appointment_date DATE NOT NULL,
		appointment_time TEXT NOT NULL DEFAULT '',
		type TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'scheduled',
		treatment_type TEXT,
		notes TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_appointments_date ON appointments (appointment_date);`,
	`CREATE INDEX IF NOT EXISTS idx_appointments_patient ON appointments (patient_id);`,
	`CREATE TABLE IF NOT EXISTS amounts (
		id BIGSERIAL PRIMARY KEY,
		appointment_id BIGINT NOT NULL REFERENCES appointments(id) ON DELETE CASCADE,
		patient_id BIGINT NOT NULL,
		amount NUMERIC(12,2) NOT NULL,
		payment_type TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_amounts_created_at ON amounts (created_at);`,
	`CREATE INDEX IF NOT EXISTS idx_amounts_appointment ON amounts (appointment_id);`,
	`CREATE TABLE IF NOT EXISTS medicines (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		type TEXT NOT NULL DEFAULT '',
		manufacturer TEXT NOT NULL DEFAULT '',
		unit TEXT NOT NULL DEFAULT '',
		price NUMERIC(12,2) NOT NULL DEFAULT 0,
		stock INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
		date_of_expiry DATE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS pharmacy_sales (
		id BIGSERIAL PRIMARY KEY,
		customer_name TEXT NOT NULL DEFAULT '',
		customer_phone TEXT NOT NULL DEFAULT '',
		subtotal NUMERIC(12,2) NOT NULL,
		sgst NUMERIC(12,2) NOT NULL DEFAULT 0,
		cgst NUMERIC(12,2) NOT NULL DEFAULT 0,
		discount NUMERIC(12,2) NOT NULL DEFAULT 0,
		total NUMERIC(12,2) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_pharmacy_sales_created_at ON pharmacy_sales (created_at);`,
	`CREATE TABLE IF NOT EXISTS pharmacy_sale_items (
		id BIGSERIAL PRIMARY KEY,
		sale_id BIGINT NOT NULL REFERENCES pharmacy_sales(id) ON DELETE CASCADE,
		medicine_id BIGINT NOT NULL REFERENCES medicines(id),
		medicine_name TEXT NOT NULL,
		quantity INTEGER NOT NULL CHECK (quantity > 0),
		unit_price NUMERIC(12,2) NOT NULL,
		total_price NUMERIC(12,2) NOT NULL
	);`,
	`CREATE INDEX IF NOT EXISTS idx_pharmacy_sale_items_sale ON pharmacy_sale_items (sale_id);`,
	`CREATE TABLE IF NOT EXISTS prescriptions (
		id BIGSERIAL PRIMARY KEY,
		patient_id BIGINT NOT NULL REFERENCES patients(id) ON DELETE CASCADE,
		patient_name TEXT NOT NULL,
		appointment_id BIGINT NOT NULL REFERENCES appointments(id) ON DELETE CASCADE,
		dentist_id BIGINT NOT NULL DEFAULT 0,
		dentist_name TEXT NOT NULL,
		notes TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_prescriptions_patient ON prescriptions (patient_id);`,
	`CREATE TABLE IF NOT EXISTS prescription_items (
		id BIGSERIAL PRIMARY KEY,
		prescription_id BIGINT NOT NULL REFERENCES prescriptions(id) ON DELETE CASCADE,
		medicine_id BIGINT NOT NULL REFERENCES medicines(id),
		medicine_name TEXT NOT NULL,
		medicine_type TEXT NOT NULL DEFAULT '',
		dosage TEXT NOT NULL,
		frequency TEXT NOT NULL,
		duration TEXT NOT NULL,
		instructions TEXT NOT NULL DEFAULT ''
	);`,
	`CREATE INDEX IF NOT EXISTS idx_prescription_items_prescription ON prescription_items (prescription_id);`,
	`CREATE TABLE IF NOT EXISTS treatments (
		id BIGSERIAL PRIMARY KEY,
		appointment_id BIGINT NOT NULL REFERENCES appointments(id) ON DELETE CASCADE,
		description TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_treatments_appointment ON treatments (appointment_id);`,
	`CREATE TABLE IF NOT EXISTS pharmacy_customers (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		phone TEXT NOT NULL UNIQUE,
		email TEXT NOT NULL DEFAULT '',
		address TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
}

// Migrate applies the schema. Every statement is idempotent.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d failed: %w", i, err)
		}
	}
	log.Info().Int("statements", len(schema)).Msg("database schema up to date")
	return nil
}
