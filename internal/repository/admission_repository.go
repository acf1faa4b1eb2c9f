package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/kilbil-1980/kilbil-school-api/internal/models"
)

// AdmissionRepository handles admission record persistence.
type AdmissionRepository struct {
	db *sqlx.DB
}

// NewAdmissionRepository constructs the repository.
func NewAdmissionRepository(db *sqlx.DB) *AdmissionRepository {
	return &AdmissionRepository{db: db}
}

const admissionColumns = `id, name, email, phone, class_name, last_school,
       birth_certificate, report_card, transfer_certificate, photograph, address_proof, parent_id_proof,
       created_at`

// Create stores a complete admission record in a single insert. The id and
// submission instant are assigned here when unset.
func (r *AdmissionRepository) Create(ctx context.Context, record *models.Admission) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO admissions
	(id, name, email, phone, class_name, last_school,
	 birth_certificate, report_card, transfer_certificate, photograph, address_proof, parent_id_proof,
	 created_at)
	VALUES (:id, :name, :email, :phone, :class_name, :last_school,
	 :birth_certificate, :report_card, :transfer_certificate, :photograph, :address_proof, :parent_id_proof,
	 :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("create admission: %w", err)
	}
	return nil
}

// GetByID retrieves one admission row.
func (r *AdmissionRepository) GetByID(ctx context.Context, id string) (*models.Admission, error) {
	query := fmt.Sprintf(`SELECT %s FROM admissions WHERE id = $1`, admissionColumns)
	var record models.Admission
	if err := r.db.GetContext(ctx, &record, query, id); err != nil {
		return nil, err
	}
	return &record, nil
}

// List returns all admission records, most recent submission first.
func (r *AdmissionRepository) List(ctx context.Context) ([]models.Admission, error) {
	query := fmt.Sprintf(`SELECT %s FROM admissions ORDER BY created_at DESC`, admissionColumns)
	var records []models.Admission
	if err := r.db.SelectContext(ctx, &records, query); err != nil {
		return nil, fmt.Errorf("list admissions: %w", err)
	}
	return records, nil
}

// Delete removes exactly one record. Returns sql.ErrNoRows when the id does
// not exist.
func (r *AdmissionRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM admissions WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete admission: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("check admission delete rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteAll removes every admission record and returns the removed ids so the
// caller can audit each deletion individually.
func (r *AdmissionRepository) DeleteAll(ctx context.Context) ([]string, error) {
	const query = `DELETE FROM admissions RETURNING id`
	var ids []string
	if err := r.db.SelectContext(ctx, &ids, query); err != nil {
		return nil, fmt.Errorf("delete all admissions: %w", err)
	}
	return ids, nil
}
