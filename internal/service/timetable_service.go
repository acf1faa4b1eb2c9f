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

type timetableStore interface {
	Create(ctx context.Context, t *models.TimetableEntry) error
	List(ctx context.Context) ([]models.TimetableEntry, error)
	GetByID(ctx context.Context, id string) (*models.TimetableEntry, error)
	Update(ctx context.Context, t *models.TimetableEntry) error
	Delete(ctx context.Context, id string) error
}

// TimetableService manages published class timetables.
type TimetableService struct {
	repo      timetableStore
	audit     auditLogger
	validator *validator.Validate
	logger    *zap.Logger
}

func NewTimetableService(repo timetableStore, audit auditLogger, validate *validator.Validate, logger *zap.Logger) *TimetableService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &TimetableService{repo: repo, audit: audit, validator: validate, logger: logger}
}

func (s *TimetableService) List(ctx context.Context) ([]models.TimetableEntry, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to list timetables")
	}
	return records, nil
}

func (s *TimetableService) Get(ctx context.Context, id string) (*models.TimetableEntry, error) {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to load timetable")
	}
	return record, nil
}

func (s *TimetableService) Create(ctx context.Context, req dto.TimetableRequest, actor *models.JWTClaims) (*models.TimetableEntry, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, validationMessage(err))
	}
	record := &models.TimetableEntry{
		ClassName:    req.ClassName,
		Title:        req.Title,
		FileURL:      req.FileURL,
		AcademicYear: req.AcademicYear,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to create timetable")
	}
	s.emitAudit(ctx, actor, models.AuditActionContentCreate, record.ID, fmt.Sprintf(`{"class_name":%q}`, record.ClassName))
	return record, nil
}

func (s *TimetableService) Update(ctx context.Context, id string, req dto.TimetableRequest, actor *models.JWTClaims) (*models.TimetableEntry, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, validationMessage(err))
	}
	record, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	record.ClassName = req.ClassName
	record.Title = req.Title
	record.FileURL = req.FileURL
	record.AcademicYear = req.AcademicYear
	if err := s.repo.Update(ctx, record); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to update timetable")
	}
	s.emitAudit(ctx, actor, models.AuditActionContentUpdate, record.ID, fmt.Sprintf(`{"class_name":%q}`, record.ClassName))
	return record, nil
}

func (s *TimetableService) Delete(ctx context.Context, id string, actor *models.JWTClaims) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.ErrNotFound
		}
		return appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to delete timetable")
	}
	s.emitAudit(ctx, actor, models.AuditActionContentDelete, id, "")
	return nil
}

func (s *TimetableService) emitAudit(ctx context.Context, actor *models.JWTClaims, action, id, newValues string) {
	if s.audit == nil {
		return
	}
	log := &models.AuditLog{
		UserID:     actorID(actor),
		Action:     action,
		Resource:   "timetable",
		ResourceID: &id,
		IPAddress:  "system",
		UserAgent:  "timetable-service",
	}
	if newValues != "" {
		log.NewValues = []byte(newValues)
	}
	if err := s.audit.CreateAuditLog(ctx, log); err != nil {
		s.logger.Warn("failed to create timetable audit", zap.Error(err))
	}
}
