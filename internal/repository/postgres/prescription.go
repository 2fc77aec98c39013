package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/jwalitptl/dentalcare-api/internal/model"
	"github.com/jwalitptl/dentalcare-api/internal/repository"
)

const prescriptionColumns = `id, patient_id, patient_name, appointment_id, dentist_id, dentist_name, notes, created_at, updated_at`

type prescriptionRepository struct {
	BaseRepository
}

func NewPrescriptionRepository(db *sqlx.DB) repository.PrescriptionRepository {
	return &prescriptionRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *prescriptionRepository) Create(ctx context.Context, p *model.Prescription) error {
	err := r.WithTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO prescriptions (patient_id, patient_name, appointment_id, dentist_id, dentist_name, notes)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, created_at, updated_at
		`
		err := tx.QueryRowxContext(ctx, query,
			p.PatientID,
			p.PatientName,
			p.AppointmentID,
			p.DentistID,
			p.DentistName,
			p.Notes,
		).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert prescription: %w", err)
		}
		return insertPrescriptionItems(ctx, tx, p)
	})
	if err != nil {
		return fmt.Errorf("failed to create prescription: %w", err)
	}
	return nil
}

func (r *prescriptionRepository) Get(ctx context.Context, id int64) (*model.Prescription, error) {
	query := `SELECT ` + prescriptionColumns + ` FROM prescriptions WHERE id = $1`
	var p model.Prescription
	if err := r.db.GetContext(ctx, &p, query, id); err != nil {
		return nil, fmt.Errorf("failed to get prescription: %w", notFound(err))
	}
	if err := r.attachItems(ctx, []*model.Prescription{&p}); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *prescriptionRepository) Update(ctx context.Context, p *model.Prescription) error {
	err := r.WithTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			UPDATE prescriptions
			SET patient_id = $1, patient_name = $2, appointment_id = $3,
				dentist_id = $4, dentist_name = $5, notes = $6, updated_at = NOW()
			WHERE id = $7
			RETURNING created_at, updated_at
		`
		err := tx.QueryRowxContext(ctx, query,
			p.PatientID,
			p.PatientName,
			p.AppointmentID,
			p.DentistID,
			p.DentistName,
			p.Notes,
			p.ID,
		).Scan(&p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			return notFound(err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM prescription_items WHERE prescription_id = $1`, p.ID); err != nil {
			return fmt.Errorf("failed to clear prescription items: %w", err)
		}
		return insertPrescriptionItems(ctx, tx, p)
	})
	if err != nil {
		return fmt.Errorf("failed to update prescription: %w", err)
	}
	return nil
}

func (r *prescriptionRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM prescriptions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete prescription: %w", err)
	}
	if err := mustAffect(res); err != nil {
		return fmt.Errorf("failed to delete prescription: %w", err)
	}
	return nil
}

func (r *prescriptionRepository) FindAll(ctx context.Context) ([]*model.Prescription, error) {
	return r.selectPrescriptions(ctx, `SELECT `+prescriptionColumns+` FROM prescriptions ORDER BY id`)
}

func (r *prescriptionRepository) FindByPatientID(ctx context.Context, patientID int64) ([]*model.Prescription, error) {
	return r.selectPrescriptions(ctx,
		`SELECT `+prescriptionColumns+` FROM prescriptions WHERE patient_id = $1 ORDER BY id`, patientID)
}

func (r *prescriptionRepository) selectPrescriptions(ctx context.Context, query string, args ...interface{}) ([]*model.Prescription, error) {
	prescriptions := make([]*model.Prescription, 0)
	if err := r.db.SelectContext(ctx, &prescriptions, query, args...); err != nil {
		return nil, fmt.Errorf("failed to select prescriptions: %w", err)
	}
	if err := r.attachItems(ctx, prescriptions); err != nil {
		return nil, err
	}
	return prescriptions, nil
}

func (r *prescriptionRepository) attachItems(ctx context.Context, prescriptions []*model.Prescription) error {
	if len(prescriptions) == 0 {
		return nil
	}
	ids := make([]int64, len(prescriptions))
	byID := make(map[int64]*model.Prescription, len(prescriptions))
	for i, p := range prescriptions {
		ids[i] = p.ID
		byID[p.ID] = p
		p.Items = make([]model.PrescriptionItem, 0)
	}

	var items []model.PrescriptionItem
	query := `
		SELECT id, prescription_id, medicine_id, medicine_name, medicine_type, dosage, frequency, duration, instructions
		FROM prescription_items WHERE prescription_id = ANY($1) ORDER BY id
	`
	if err := r.db.SelectContext(ctx, &items, query, pq.Array(ids)); err != nil {
		return fmt.Errorf("failed to load prescription items: %w", err)
	}
	for _, item := range items {
		if p, ok := byID[item.PrescriptionID]; ok {
			p.Items = append(p.Items, item)
		}
	}
	return nil
}

func insertPrescriptionItems(ctx context.Context, tx *sqlx.Tx, p *model.Prescription) error {
	query := `
		INSERT INTO prescription_items
			(prescription_id, medicine_id, medicine_name, medicine_type, dosage, frequency, duration, instructions)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	for i := range p.Items {
		item := &p.Items[i]
		item.PrescriptionID = p.ID
		err := tx.QueryRowxContext(ctx, query,
			p.ID,
			item.MedicineID,
			item.MedicineName,
			item.MedicineType,
			item.Dosage,
			item.Frequency,
			item.Duration,
			item.Instructions,
		).Scan(&item.ID)
		if err != nil {
			return fmt.Errorf("failed to insert prescription item: %w", err)
		}
	}
	return nil
}
