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

type testimonialStore interface {
	Create(ctx context.Context, t *models.Testimonial) error
	List(ctx context.Context, approvedOnly bool) ([]models.Testimonial, error)
	GetByID(ctx context.Context, id string) (*models.Testimonial, error)
	Update(ctx context.Context, t *models.Testimonial) error
	Delete(ctx context.Context, id string) error
}

// TestimonialService manages testimonials. The public listing only serves
// approved entries; administrators see everything.
type TestimonialService struct {
	repo      testimonialStore
	audit     auditLogger
	validator *validator.Validate
	logger    *zap.Logger
}

func NewTestimonialService(repo testimonialStore, audit auditLogger, validate *validator.Validate, logger *zap.Logger) *TestimonialService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &TestimonialService{repo: repo, audit: audit, validator: validate, logger: logger}
}

func (s *TestimonialService) List(ctx context.Context, approvedOnly bool) ([]models.Testimonial, error) {
	records, err := s.repo.List(ctx, approvedOnly)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to list testimonials")
	}
	return records, nil
}

func (s *TestimonialService) Get(ctx context.Context, id string) (*models.Testimonial, error) {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to load testimonial")
	}
	return record, nil
}

func (s *TestimonialService) Create(ctx context.Context, req dto.TestimonialRequest, actor *models.JWTClaims) (*models.Testimonial, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, validationMessage(err))
	}
	record := &models.Testimonial{
		Author:   req.Author,
		Relation: req.Relation,
		Quote:    req.Quote,
		Approved: req.Approved,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to create testimonial")
	}
	s.emitAudit(ctx, actor, models.AuditActionContentCreate, record.ID, fmt.Sprintf(`{"author":%q}`, record.Author))
	return record, nil
}

func (s *TestimonialService) Update(ctx context.Context, id string, req dto.TestimonialRequest, actor *models.JWTClaims) (*models.Testimonial, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, validationMessage(err))
	}
	record, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	record.Author = req.Author
	record.Relation = req.Relation
	record.Quote = req.Quote
	record.Approved = req.Approved
	if err := s.repo.Update(ctx, record); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to update testimonial")
	}
	s.emitAudit(ctx, actor, models.AuditActionContentUpdate, record.ID, fmt.Sprintf(`{"author":%q}`, record.Author))
	return record, nil
}

func (s *TestimonialService) Delete(ctx context.Context, id string, actor *models.JWTClaims) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.ErrNotFound
		}
		return appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to delete testimonial")
	}
	s.emitAudit(ctx, actor, models.AuditActionContentDelete, id, "")
	return nil
}

func (s *TestimonialService) emitAudit(ctx context.Context, actor *models.JWTClaims, action, id, newValues string) {
	if s.audit == nil {
		return
	}
	log := &models.AuditLog{
		UserID:     actorID(actor),
		Action:     action,
		Resource:   "testimonial",
		ResourceID: &id,
		IPAddress:  "system",
		UserAgent:  "testimonial-service",
	}
	if newValues != "" {
		log.NewValues = []byte(newValues)
	}
	if err := s.audit.CreateAuditLog(ctx, log); err != nil {
		s.logger.Warn("failed to create testimonial audit", zap.Error(err))
	}
}
