package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/kilbil-1980/kilbil-school-api/internal/models"
)

// TestimonialRepository provides persistence for testimonials.
type TestimonialRepository struct {
	db *sqlx.DB
}

func NewTestimonialRepository(db *sqlx.DB) *TestimonialRepository {
	return &TestimonialRepository{db: db}
}

const testimonialColumns = `id, author, relation, quote, approved, created_at, updated_at`

func (r *TestimonialRepository) Create(ctx context.Context, t *models.Testimonial) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now
	const query = `INSERT INTO testimonials (id, author, relation, quote, approved, created_at, updated_at)
	VALUES (:id, :author, :relation, :quote, :approved, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, t); err != nil {
		return fmt.Errorf("create testimonial: %w", err)
	}
	return nil
}

// List returns testimonials; approvedOnly restricts to publicly visible rows.
func (r *TestimonialRepository) List(ctx context.Context, approvedOnly bool) ([]models.Testimonial, error) {
	query := fmt.Sprintf(`SELECT %s FROM testimonials`, testimonialColumns)
	if approvedOnly {
		query += ` WHERE approved = TRUE`
	}
	query += ` ORDER BY created_at DESC`
	var records []models.Testimonial
	if err := r.db.SelectContext(ctx, &records, query); err != nil {
		return nil, fmt.Errorf("list testimonials: %w", err)
	}
	return records, nil
}

func (r *TestimonialRepository) GetByID(ctx context.Context, id string) (*models.Testimonial, error) {
	query := fmt.Sprintf(`SELECT %s FROM testimonials WHERE id = $1`, testimonialColumns)
	var record models.Testimonial
	if err := r.db.GetContext(ctx, &record, query, id); err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *TestimonialRepository) Update(ctx context.Context, t *models.Testimonial) error {
	t.UpdatedAt = time.Now().UTC()
	const query = `UPDATE testimonials SET author = :author, relation = :relation, quote = :quote,
	approved = :approved, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, t)
	if err != nil {
		return fmt.Errorf("update testimonial: %w", err)
	}
	return requireAffected(res)
}

func (r *TestimonialRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM testimonials WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete testimonial: %w", err)
	}
	return requireAffected(res)
}
