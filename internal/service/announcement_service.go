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

const announcementCacheKey = "announcements:list"

type announcementStore interface {
	Create(ctx context.Context, a *models.Announcement) error
	List(ctx context.Context) ([]models.Announcement, error)
	GetByID(ctx context.Context, id string) (*models.Announcement, error)
	Update(ctx context.Context, a *models.Announcement) error
	Delete(ctx context.Context, id string) error
}

// AnnouncementService manages announcements shown on the public site.
type AnnouncementService struct {
	repo      announcementStore
	audit     auditLogger
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAnnouncementService constructs the service.
func NewAnnouncementService(repo announcementStore, audit auditLogger, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *AnnouncementService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AnnouncementService{repo: repo, audit: audit, cache: cache, validator: validate, logger: logger}
}

// List returns all announcements, serving from cache when possible.
func (s *AnnouncementService) List(ctx context.Context) ([]models.Announcement, error) {
	var cached []models.Announcement
	if hit, _ := s.cache.Get(ctx, announcementCacheKey, &cached); hit {
		return cached, nil
	}
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to list announcements")
	}
	_ = s.cache.Set(ctx, announcementCacheKey, records, 0)
	return records, nil
}

// Get returns one announcement.
func (s *AnnouncementService) Get(ctx context.Context, id string) (*models.Announcement, error) {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to load announcement")
	}
	return record, nil
}

// Create validates and persists a new announcement.
func (s *AnnouncementService) Create(ctx context.Context, req dto.AnnouncementRequest, actor *models.JWTClaims) (*models.Announcement, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, validationMessage(err))
	}
	record := &models.Announcement{
		Title:    req.Title,
		Content:  req.Content,
		IsPinned: req.IsPinned,
	}
	if req.PublishedAt != nil {
		record.PublishedAt = *req.PublishedAt
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to create announcement")
	}
	s.invalidate(ctx)
	s.emitAudit(ctx, actor, models.AuditActionContentCreate, record.ID, fmt.Sprintf(`{"title":%q}`, record.Title))
	return record, nil
}

// Update replaces an announcement's mutable fields.
func (s *AnnouncementService) Update(ctx context.Context, id string, req dto.AnnouncementRequest, actor *models.JWTClaims) (*models.Announcement, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, validationMessage(err))
	}
	record, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	record.Title = req.Title
	record.Content = req.Content
	record.IsPinned = req.IsPinned
	if req.PublishedAt != nil {
		record.PublishedAt = *req.PublishedAt
	}
	if err := s.repo.Update(ctx, record); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to update announcement")
	}
	s.invalidate(ctx)
	s.emitAudit(ctx, actor, models.AuditActionContentUpdate, record.ID, fmt.Sprintf(`{"title":%q}`, record.Title))
	return record, nil
}

// Delete removes one announcement; unknown ids are not-found.
func (s *AnnouncementService) Delete(ctx context.Context, id string, actor *models.JWTClaims) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.ErrNotFound
		}
		return appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to delete announcement")
	}
	s.invalidate(ctx)
	s.emitAudit(ctx, actor, models.AuditActionContentDelete, id, "")
	return nil
}

func (s *AnnouncementService) invalidate(ctx context.Context) {
	s.cache.Invalidate(ctx, "announcements:*")
}

func (s *AnnouncementService) emitAudit(ctx context.Context, actor *models.JWTClaims, action, id, newValues string) {
	if s.audit == nil {
		return
	}
	log := &models.AuditLog{
		UserID:     actorID(actor),
		Action:     action,
		Resource:   "announcement",
		ResourceID: &id,
		IPAddress:  "system",
		UserAgent:  "announcement-service",
	}
	if newValues != "" {
		log.NewValues = []byte(newValues)
	}
	if err := s.audit.CreateAuditLog(ctx, log); err != nil {
		s.logger.Warn("failed to create announcement audit", zap.Error(err))
	}
}
