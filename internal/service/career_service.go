package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/kilbil-1980/kilbil-school-api/internal/dto"
	"github.com/kilbil-1980/kilbil-school-api/internal/models"
	appErrors "github.com/kilbil-1980/kilbil-school-api/pkg/errors"
)

type careerStore interface {
	Create(ctx context.Context, c *models.Career) error
	List(ctx context.Context, openOnly bool) ([]models.Career, error)
	GetByID(ctx context.Context, id string) (*models.Career, error)
	Update(ctx context.Context, c *models.Career) error
	Delete(ctx context.Context, id string) error
}

// CareerService manages job openings. The public listing only serves open
// positions.
type CareerService struct {
	repo      careerStore
	audit     auditLogger
	validator *validator.Validate
	logger    *zap.Logger
}

func NewCareerService(repo careerStore, audit auditLogger, validate *validator.Validate, logger *zap.Logger) *CareerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &CareerService{repo: repo, audit: audit, validator: validate, logger: logger}
}

func (s *CareerService) List(ctx context.Context, openOnly bool) ([]models.Career, error) {
	records, err := s.repo.List(ctx, openOnly)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to list job openings")
	}
	return records, nil
}

func (s *CareerService) Get(ctx context.Context, id string) (*models.Career, error) {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to load job opening")
	}
	return record, nil
}

func (s *CareerService) Create(ctx context.Context, req dto.CareerRequest, actor *models.JWTClaims) (*models.Career, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, validationMessage(err))
	}
	record := &models.Career{
		Title:          req.Title,
		Description:    req.Description,
		Qualifications: req.Qualifications,
		Open:           req.Open,
		PostedAt:       time.Now().UTC(),
	}
	if req.PostedAt != nil {
		record.PostedAt = req.PostedAt.UTC()
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to create job opening")
	}
	s.emitAudit(ctx, actor, models.AuditActionContentCreate, record.ID, fmt.Sprintf(`{"title":%q}`, record.Title))
	return record, nil
}

func (s *CareerService) Update(ctx context.Context, id string, req dto.CareerRequest, actor *models.JWTClaims) (*models.Career, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, validationMessage(err))
	}
	record, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	record.Title = req.Title
	record.Description = req.Description
	record.Qualifications = req.Qualifications
	record.Open = req.Open
	if req.PostedAt != nil {
		record.PostedAt = req.PostedAt.UTC()
	}
	if err := s.repo.Update(ctx, record); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to update job opening")
	}
	s.emitAudit(ctx, actor, models.AuditActionContentUpdate, record.ID, fmt.Sprintf(`{"title":%q}`, record.Title))
	return record, nil
}

func (s *CareerService) Delete(ctx context.Context, id string, actor *models.JWTClaims) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.ErrNotFound
		}
		return appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to delete job opening")
	}
	s.emitAudit(ctx, actor, models.AuditActionContentDelete, id, "")
	return nil
}

func (s *CareerService) emitAudit(ctx context.Context, actor *models.JWTClaims, action, id, newValues string) {
	if s.audit == nil {
		return
	}
	log := &models.AuditLog{
		UserID:     actorID(actor),
		Action:     action,
		Resource:   "career",
		ResourceID: &id,
		IPAddress:  "system",
		UserAgent:  "career-service",
	}
	if newValues != "" {
		log.NewValues = []byte(newValues)
	}
	if err := s.audit.CreateAuditLog(ctx, log); err != nil {
		s.logger.Warn("failed to create career audit", zap.Error(err))
	}
}
