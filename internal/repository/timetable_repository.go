package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/kilbil-1980/kilbil-school-api/internal/models"
)

// TimetableRepository provides persistence for class timetables.
type TimetableRepository struct {
	db *sqlx.DB
}

func NewTimetableRepository(db *sqlx.DB) *TimetableRepository {
	return &TimetableRepository{db: db}
}

const timetableColumns = `id, class_name, title, file_url, academic_year, created_at, updated_at`

func (r *TimetableRepository) Create(ctx context.Context, t *models.TimetableEntry) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now
	const query = `INSERT INTO timetables (id, class_name, title, file_url, academic_year, created_at, updated_at)
	VALUES (:id, :class_name, :title, :file_url, :academic_year, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, t); err != nil {
		return fmt.Errorf("create timetable entry: %w", err)
	}
	return nil
}

func (r *TimetableRepository) List(ctx context.Context) ([]models.TimetableEntry, error) {
	query := fmt.Sprintf(`SELECT %s FROM timetables ORDER BY academic_year DESC, class_name ASC`, timetableColumns)
	var records []models.TimetableEntry
	if err := r.db.SelectContext(ctx, &records, query); err != nil {
		return nil, fmt.Errorf("list timetables: %w", err)
	}
	return records, nil
}

func (r *TimetableRepository) GetByID(ctx context.Context, id string) (*models.TimetableEntry, error) {
	query := fmt.Sprintf(`SELECT %s FROM timetables WHERE id = $1`, timetableColumns)
	var record models.TimetableEntry
	if err := r.db.GetContext(ctx, &record, query, id); err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *TimetableRepository) Update(ctx context.Context, t *models.TimetableEntry) error {
	t.UpdatedAt = time.Now().UTC()
	const query = `UPDATE timetables SET class_name = :class_name, title = :title, file_url = :file_url,
	academic_year = :academic_year, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, t)
	if err != nil {
		return fmt.Errorf("update timetable entry: %w", err)
	}
	return requireAffected(res)
}

func (r *TimetableRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM timetables WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete timetable entry: %w", err)
	}
	return requireAffected(res)
}
