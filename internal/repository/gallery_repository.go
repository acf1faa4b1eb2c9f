package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/kilbil-1980/kilbil-school-api/internal/models"
)

// GalleryRepository provides persistence for gallery images.
type GalleryRepository struct {
	db *sqlx.DB
}

func NewGalleryRepository(db *sqlx.DB) *GalleryRepository {
	return &GalleryRepository{db: db}
}

const galleryColumns = `id, title, category, image_url, created_at, updated_at`

func (r *GalleryRepository) Create(ctx context.Context, g *models.GalleryImage) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if g.CreatedAt.IsZero() {
		g.CreatedAt = now
	}
	g.UpdatedAt = now
	const query = `INSERT INTO gallery_images (id, title, category, image_url, created_at, updated_at)
	VALUES (:id, :title, :category, :image_url, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, g); err != nil {
		return fmt.Errorf("create gallery image: %w", err)
	}
	return nil
}

// List returns gallery images, optionally filtered by category.
func (r *GalleryRepository) List(ctx context.Context, category string) ([]models.GalleryImage, error) {
	query := fmt.Sprintf(`SELECT %s FROM gallery_images`, galleryColumns)
	args := []interface{}{}
	if category != "" {
		query += ` WHERE category = $1`
		args = append(args, category)
	}
	query += ` ORDER BY created_at DESC`
	var records []models.GalleryImage
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, fmt.Errorf("list gallery images: %w", err)
	}
	return records, nil
}

func (r *GalleryRepository) GetByID(ctx context.Context, id string) (*models.GalleryImage, error) {
	query := fmt.Sprintf(`SELECT %s FROM gallery_images WHERE id = $1`, galleryColumns)
	var record models.GalleryImage
	if err := r.db.GetContext(ctx, &record, query, id); err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *GalleryRepository) Update(ctx context.Context, g *models.GalleryImage) error {
	g.UpdatedAt = time.Now().UTC()
	const query = `UPDATE gallery_images SET title = :title, category = :category, image_url = :image_url,
	updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, g)
	if err != nil {
		return fmt.Errorf("update gallery image: %w", err)
	}
	return requireAffected(res)
}

func (r *GalleryRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM gallery_images WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete gallery image: %w", err)
	}
	return requireAffected(res)
}
