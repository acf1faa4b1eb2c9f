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

type facultyStore interface {
	Create(ctx context.Context, m *models.FacultyMember) error
	List(ctx context.Context) ([]models.FacultyMember, error)
	GetByID(ctx context.Context, id string) (*models.FacultyMember, error)
	Update(ctx context.Context, m *models.FacultyMember) error
	Delete(ctx context.Context, id string) error
}

// FacultyService manages faculty profiles.
type FacultyService struct {
	repo      facultyStore
	audit     auditLogger
	validator *validator.Validate
	logger    *zap.Logger
}

func NewFacultyService(repo facultyStore, audit auditLogger, validate *validator.Validate, logger *zap.Logger) *FacultyService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &FacultyService{repo: repo, audit: audit, validator: validate, logger: logger}
}

func (s *FacultyService) List(ctx context.Context) ([]models.FacultyMember, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to list faculty")
	}
	return records, nil
}

func (s *FacultyService) Get(ctx context.Context, id string) (*models.FacultyMember, error) {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to load faculty member")
	}
	return record, nil
}

func (s *FacultyService) Create(ctx context.Context, req dto.FacultyRequest, actor *models.JWTClaims) (*models.FacultyMember, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, validationMessage(err))
	}
	record := &models.FacultyMember{
		Name:          req.Name,
		Designation:   req.Designation,
		Department:    req.Department,
		Qualification: req.Qualification,
		PhotoURL:      req.PhotoURL,
		DisplayOrder:  req.DisplayOrder,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to create faculty member")
	}
	s.emitAudit(ctx, actor, models.AuditActionContentCreate, record.ID, fmt.Sprintf(`{"name":%q}`, record.Name))
	return record, nil
}

func (s *FacultyService) Update(ctx context.Context, id string, req dto.FacultyRequest, actor *models.JWTClaims) (*models.FacultyMember, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, validationMessage(err))
	}
	record, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	record.Name = req.Name
	record.Designation = req.Designation
	record.Department = req.Department
	record.Qualification = req.Qualification
	record.PhotoURL = req.PhotoURL
	record.DisplayOrder = req.DisplayOrder
	if err := s.repo.Update(ctx, record); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to update faculty member")
	}
	s.emitAudit(ctx, actor, models.AuditActionContentUpdate, record.ID, fmt.Sprintf(`{"name":%q}`, record.Name))
	return record, nil
}

func (s *FacultyService) Delete(ctx context.Context, id string, actor *models.JWTClaims) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.ErrNotFound
		}
		return appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to delete faculty member")
	}
	s.emitAudit(ctx, actor, models.AuditActionContentDelete, id, "")
	return nil
}

func (s *FacultyService) emitAudit(ctx context.Context, actor *models.JWTClaims, action, id, newValues string) {
	if s.audit == nil {
		return
	}
	log := &models.AuditLog{
		UserID:     actorID(actor),
		Action:     action,
		Resource:   "faculty",
		ResourceID: &id,
		IPAddress:  "system",
		UserAgent:  "faculty-service",
	}
	if newValues != "" {
		log.NewValues = []byte(newValues)
	}
	if err := s.audit.CreateAuditLog(ctx, log); err != nil {
		s.logger.Warn("failed to create faculty audit", zap.Error(err))
	}
}
