package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/kilbil-1980/kilbil-school-api/internal/models"
)

// CareerRepository provides persistence for job openings.
type CareerRepository struct {
	db *sqlx.DB
}

func NewCareerRepository(db *sqlx.DB) *CareerRepository {
	return &CareerRepository{db: db}
}

const careerColumns = `id, title, description, qualifications, open, posted_at, created_at, updated_at`

func (r *CareerRepository) Create(ctx context.Context, c *models.Career) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
	if c.PostedAt.IsZero() {
		c.PostedAt = now
	}
	const query = `INSERT INTO careers (id, title, description, qualifications, open, posted_at, created_at, updated_at)
	VALUES (:id, :title, :description, :qualifications, :open, :posted_at, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, c); err != nil {
		return fmt.Errorf("create career: %w", err)
	}
	return nil
}

// List returns job openings; openOnly restricts to active listings.
func (r *CareerRepository) List(ctx context.Context, openOnly bool) ([]models.Career, error) {
	query := fmt.Sprintf(`SELECT %s FROM careers`, careerColumns)
	if openOnly {
		query += ` WHERE open = TRUE`
	}
	query += ` ORDER BY posted_at DESC`
	var records []models.Career
	if err := r.db.SelectContext(ctx, &records, query); err != nil {
		return nil, fmt.Errorf("list careers: %w", err)
	}
	return records, nil
}

func (r *CareerRepository) GetByID(ctx context.Context, id string) (*models.Career, error) {
	query := fmt.Sprintf(`SELECT %s FROM careers WHERE id = $1`, careerColumns)
	var record models.Career
	if err := r.db.GetContext(ctx, &record, query, id); err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *CareerRepository) Update(ctx context.Context, c *models.Career) error {
	c.UpdatedAt = time.Now().UTC()
	const query = `UPDATE careers SET title = :title, description = :description, qualifications = :qualifications,
	open = :open, posted_at = :posted_at, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, c)
	if err != nil {
		return fmt.Errorf("update career: %w", err)
	}
	return requireAffected(res)
}

func (r *CareerRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM careers WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete career: %w", err)
	}
	return requireAffected(res)
}
