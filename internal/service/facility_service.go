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

type facilityStore interface {
	Create(ctx context.Context, f *models.Facility) error
	List(ctx context.Context) ([]models.Facility, error)
	GetByID(ctx context.Context, id string) (*models.Facility, error)
	Update(ctx context.Context, f *models.Facility) error
	Delete(ctx context.Context, id string) error
}

// FacilityService manages campus facility listings.
type FacilityService struct {
	repo      facilityStore
	audit     auditLogger
	validator *validator.Validate
	logger    *zap.Logger
}

func NewFacilityService(repo facilityStore, audit auditLogger, validate *validator.Validate, logger *zap.Logger) *FacilityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &FacilityService{repo: repo, audit: audit, validator: validate, logger: logger}
}

func (s *FacilityService) List(ctx context.Context) ([]models.Facility, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to list facilities")
	}
	return records, nil
}

func (s *FacilityService) Get(ctx context.Context, id string) (*models.Facility, error) {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to load facility")
	}
	return record, nil
}

func (s *FacilityService) Create(ctx context.Context, req dto.FacilityRequest, actor *models.JWTClaims) (*models.Facility, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, validationMessage(err))
	}
	record := &models.Facility{
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to create facility")
	}
	s.emitAudit(ctx, actor, models.AuditActionContentCreate, record.ID, fmt.Sprintf(`{"name":%q}`, record.Name))
	return record, nil
}

func (s *FacilityService) Update(ctx context.Context, id string, req dto.FacilityRequest, actor *models.JWTClaims) (*models.Facility, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, validationMessage(err))
	}
	record, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	record.Name = req.Name
	record.Description = req.Description
	record.ImageURL = req.ImageURL
	if err := s.repo.Update(ctx, record); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to update facility")
	}
	s.emitAudit(ctx, actor, models.AuditActionContentUpdate, record.ID, fmt.Sprintf(`{"name":%q}`, record.Name))
	return record, nil
}

func (s *FacilityService) Delete(ctx context.Context, id string, actor *models.JWTClaims) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.ErrNotFound
		}
		return appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to delete facility")
	}
	s.emitAudit(ctx, actor, models.AuditActionContentDelete, id, "")
	return nil
}

func (s *FacilityService) emitAudit(ctx context.Context, actor *models.JWTClaims, action, id, newValues string) {
	if s.audit == nil {
		return
	}
	log := &models.AuditLog{
		UserID:     actorID(actor),
		Action:     action,
		Resource:   "facility",
		ResourceID: &id,
		IPAddress:  "system",
		UserAgent:  "facility-service",
	}
	if newValues != "" {
		log.NewValues = []byte(newValues)
	}
	if err := s.audit.CreateAuditLog(ctx, log); err != nil {
		s.logger.Warn("failed to create facility audit", zap.Error(err))
	}
}
