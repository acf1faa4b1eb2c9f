package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/kilbil-1980/kilbil-school-api/internal/models"
)

// FacultyRepository provides persistence for faculty profiles.
type FacultyRepository struct {
	db *sqlx.DB
}

func NewFacultyRepository(db *sqlx.DB) *FacultyRepository {
	return &FacultyRepository{db: db}
}

const facultyColumns = `id, name, designation, department, qualification, photo_url, display_order, created_at, updated_at`

func (r *FacultyRepository) Create(ctx context.Context, m *models.FacultyMember) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	m.UpdatedAt = now
	const query = `INSERT INTO faculty (id, name, designation, department, qualification, photo_url, display_order, created_at, updated_at)
	VALUES (:id, :name, :designation, :department, :qualification, :photo_url, :display_order, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, m); err != nil {
		return fmt.Errorf("create faculty member: %w", err)
	}
	return nil
}

func (r *FacultyRepository) List(ctx context.Context) ([]models.FacultyMember, error) {
	query := fmt.Sprintf(`SELECT %s FROM faculty ORDER BY display_order ASC, name ASC`, facultyColumns)
	var records []models.FacultyMember
	if err := r.db.SelectContext(ctx, &records, query); err != nil {
		return nil, fmt.Errorf("list faculty: %w", err)
	}
	return records, nil
}

func (r *FacultyRepository) GetByID(ctx context.Context, id string) (*models.FacultyMember, error) {
	query := fmt.Sprintf(`SELECT %s FROM faculty WHERE id = $1`, facultyColumns)
	var record models.FacultyMember
	if err := r.db.GetContext(ctx, &record, query, id); err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *FacultyRepository) Update(ctx context.Context, m *models.FacultyMember) error {
	m.UpdatedAt = time.Now().UTC()
	const query = `UPDATE faculty SET name = :name, designation = :designation, department = :department,
	qualification = :qualification, photo_url = :photo_url, display_order = :display_order, updated_at = :updated_at
	WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, m)
	if err != nil {
		return fmt.Errorf("update faculty member: %w", err)
	}
	return requireAffected(res)
}

func (r *FacultyRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM faculty WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete faculty member: %w", err)
	}
	return requireAffected(res)
}
