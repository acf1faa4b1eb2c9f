package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/kilbil-1980/kilbil-school-api/internal/models"
)

// FacilityRepository provides persistence for campus facilities.
type FacilityRepository struct {
	db *sqlx.DB
}

func NewFacilityRepository(db *sqlx.DB) *FacilityRepository {
	return &FacilityRepository{db: db}
}

const facilityColumns = `id, name, description, image_url, created_at, updated_at`

func (r *FacilityRepository) Create(ctx context.Context, f *models.Facility) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if f.CreatedAt.IsZero() {
		f.CreatedAt = now
	}
	f.UpdatedAt = now
	const query = `INSERT INTO facilities (id, name, description, image_url, created_at, updated_at)
	VALUES (:id, :name, :description, :image_url, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, f); err != nil {
		return fmt.Errorf("create facility: %w", err)
	}
	return nil
}

func (r *FacilityRepository) List(ctx context.Context) ([]models.Facility, error) {
	query := fmt.Sprintf(`SELECT %s FROM facilities ORDER BY name ASC`, facilityColumns)
	var records []models.Facility
	if err := r.db.SelectContext(ctx, &records, query); err != nil {
		return nil, fmt.Errorf("list facilities: %w", err)
	}
	return records, nil
}

func (r *FacilityRepository) GetByID(ctx context.Context, id string) (*models.Facility, error) {
	query := fmt.Sprintf(`SELECT %s FROM facilities WHERE id = $1`, facilityColumns)
	var record models.Facility
	if err := r.db.GetContext(ctx, &record, query, id); err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *FacilityRepository) Update(ctx context.Context, f *models.Facility) error {
	f.UpdatedAt = time.Now().UTC()
	const query = `UPDATE facilities SET name = :name, description = :description, image_url = :image_url,
	updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, f)
	if err != nil {
		return fmt.Errorf("update facility: %w", err)
	}
	return requireAffected(res)
}

func (r *FacilityRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM facilities WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete facility: %w", err)
	}
	return requireAffected(res)
}
