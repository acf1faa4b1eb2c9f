package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/kilbil-1980/kilbil-school-api/internal/dto"
	"github.com/kilbil-1980/kilbil-school-api/internal/models"
	appErrors "github.com/kilbil-1980/kilbil-school-api/pkg/errors"
)

type galleryStore interface {
	Create(ctx context.Context, g *models.GalleryImage) error
	List(ctx context.Context, category string) ([]models.GalleryImage, error)
	GetByID(ctx context.Context, id string) (*models.GalleryImage, error)
	Update(ctx context.Context, g *models.GalleryImage) error
	Delete(ctx context.Context, id string) error
}

// GalleryService manages the public photo gallery. Listings are cached per
// category since they change rarely and are the heaviest public read.
type GalleryService struct {
	repo      galleryStore
	audit     auditLogger
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

func NewGalleryService(repo galleryStore, audit auditLogger, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *GalleryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &GalleryService{repo: repo, audit: audit, cache: cache, validator: validate, logger: logger}
}

// List returns gallery images, optionally filtered by category.
func (s *GalleryService) List(ctx context.Context, category string) ([]models.GalleryImage, error) {
	key := "gallery:list:" + category
	var cached []models.GalleryImage
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return cached, nil
	}
	records, err := s.repo.List(ctx, category)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to list gallery images")
	}
	_ = s.cache.Set(ctx, key, records, 0)
	return records, nil
}

func (s *GalleryService) Get(ctx context.Context, id string) (*models.GalleryImage, error) {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to load gallery image")
	}
	return record, nil
}

func (s *GalleryService) Create(ctx context.Context, req dto.GalleryRequest, actor *models.JWTClaims) (*models.GalleryImage, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, validationMessage(err))
	}
	record := &models.GalleryImage{
		Title:    req.Title,
		Category: req.Category,
		ImageURL: req.ImageURL,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to create gallery image")
	}
	s.invalidate(ctx)
	s.emitAudit(ctx, actor, models.AuditActionContentCreate, record.ID, fmt.Sprintf(`{"title":%q}`, record.Title))
	return record, nil
}

func (s *GalleryService) Update(ctx context.Context, id string, req dto.GalleryRequest, actor *models.JWTClaims) (*models.GalleryImage, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, validationMessage(err))
	}
	record, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	record.Title = req.Title
	record.Category = req.Category
	record.ImageURL = req.ImageURL
	if err := s.repo.Update(ctx, record); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to update gallery image")
	}
	s.invalidate(ctx)
	s.emitAudit(ctx, actor, models.AuditActionContentUpdate, record.ID, fmt.Sprintf(`{"title":%q}`, record.Title))
	return record, nil
}

func (s *GalleryService) Delete(ctx context.Context, id string, actor *models.JWTClaims) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.ErrNotFound
		}
		return appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to delete gallery image")
	}
	s.invalidate(ctx)
	s.emitAudit(ctx, actor, models.AuditActionContentDelete, id, "")
	return nil
}

func (s *GalleryService) invalidate(ctx context.Context) {
	s.cache.Invalidate(ctx, "gallery:*")
}

func (s *GalleryService) emitAudit(ctx context.Context, actor *models.JWTClaims, action, id, newValues string) {
	if s.audit == nil {
		return
	}
	log := &models.AuditLog{
		UserID:     actorID(actor),
		Action:     action,
		Resource:   "gallery",
		ResourceID: &id,
		IPAddress:  "system",
		UserAgent:  "gallery-service",
	}
	if newValues != "" {
		log.NewValues = []byte(newValues)
	}
	if err := s.audit.CreateAuditLog(ctx, log); err != nil {
		s.logger.Warn("failed to create gallery audit", zap.Error(err))
	}
}
