package service

import (
	"context"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime/multipart"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/kilbil-1980/kilbil-school-api/internal/dto"
	"github.com/kilbil-1980/kilbil-school-api/internal/models"
	appErrors "github.com/kilbil-1980/kilbil-school-api/pkg/errors"
)

type admissionStore interface {
	Create(ctx context.Context, record *models.Admission) error
	GetByID(ctx context.Context, id string) (*models.Admission, error)
	List(ctx context.Context) ([]models.Admission, error)
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) ([]string, error)
}

type auditLogger interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// AdmissionUpload carries one uploaded document and its multipart field name.
type AdmissionUpload struct {
	FormField string
	Content   io.Reader
	Size      int64
}

// AdmissionServiceConfig bounds ingestion.
type AdmissionServiceConfig struct {
	MaxFileSize int64
}

// AdmissionService implements the admission document pipeline's ingestion and
// deletion operations.
type AdmissionService struct {
	repo      admissionStore
	audit     auditLogger
	validator *validator.Validate
	logger    *zap.Logger
	cfg       AdmissionServiceConfig
}

// NewAdmissionService constructs the service with defaults.
func NewAdmissionService(repo admissionStore, audit auditLogger, validate *validator.Validate, logger *zap.Logger, cfg AdmissionServiceConfig) *AdmissionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = 10 * 1024 * 1024
	}
	return &AdmissionService{repo: repo, audit: audit, validator: validate, logger: logger, cfg: cfg}
}

// Ingest validates the applicant fields, encodes any uploaded documents and
// persists the complete record in one write. Validation happens before any
// file is read, so a rejected submission leaves no side effects.
func (s *AdmissionService) Ingest(ctx context.Context, req dto.CreateAdmissionRequest, uploads []AdmissionUpload) (*models.Admission, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, validationMessage(err))
	}

	record := &models.Admission{
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		ClassName: req.ClassName,
	}
	if req.LastSchool != "" {
		lastSchool := req.LastSchool
		record.LastSchool = &lastSchool
	}

	for _, upload := range uploads {
		field, ok := documentField(upload.FormField)
		if !ok {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown document field %q", upload.FormField))
		}
		if upload.Size > s.cfg.MaxFileSize {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("%s exceeds %d bytes limit", upload.FormField, s.cfg.MaxFileSize))
		}
		raw, err := io.ReadAll(io.LimitReader(upload.Content, s.cfg.MaxFileSize+1))
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, fmt.Sprintf("failed to read %s", upload.FormField))
		}
		if int64(len(raw)) > s.cfg.MaxFileSize {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("%s exceeds %d bytes limit", upload.FormField, s.cfg.MaxFileSize))
		}
		if len(raw) == 0 {
			continue
		}
		encoded := base64.StdEncoding.EncodeToString(raw)
		field.Set(record, &encoded)
	}

	if err := s.repo.Create(ctx, record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to persist admission")
	}

	s.emitAudit(ctx, &models.AuditLog{
		Action:     models.AuditActionAdmissionCreate,
		Resource:   "admission",
		ResourceID: &record.ID,
		NewValues:  []byte(fmt.Sprintf(`{"name":%q,"class":%q,"documents":%d}`, record.Name, record.ClassName, record.DocumentCount())),
	})
	return record, nil
}

// Get returns one admission record.
func (s *AdmissionService) Get(ctx context.Context, id string) (*models.Admission, error) {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to load admission")
	}
	return record, nil
}

// List returns all admission records, most recent first.
func (s *AdmissionService) List(ctx context.Context) ([]models.Admission, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to list admissions")
	}
	return records, nil
}

// Delete removes one record, failing with not-found for an unknown id.
func (s *AdmissionService) Delete(ctx context.Context, id string, actor *models.JWTClaims) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.ErrNotFound
		}
		return appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to delete admission")
	}
	s.emitAudit(ctx, &models.AuditLog{
		UserID:     actorID(actor),
		Action:     models.AuditActionAdmissionDelete,
		Resource:   "admission",
		ResourceID: &id,
	})
	return nil
}

// DeleteAll removes every record. Each removed record gets its own audit
// entry; an already-empty store is a success.
func (s *AdmissionService) DeleteAll(ctx context.Context, actor *models.JWTClaims) error {
	ids, err := s.repo.DeleteAll(ctx)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to clear admissions")
	}
	for _, id := range ids {
		deleted := id
		s.emitAudit(ctx, &models.AuditLog{
			UserID:     actorID(actor),
			Action:     models.AuditActionAdmissionDelete,
			Resource:   "admission",
			ResourceID: &deleted,
		})
	}
	return nil
}

// ToResponse converts a record to its JSON representation, exposing document
// presence flags instead of payloads.
func ToResponse(record *models.Admission) dto.AdmissionResponse {
	documents := make(map[string]bool, len(models.AdmissionDocumentFields))
	for _, field := range models.AdmissionDocumentFields {
		documents[field.FormField] = field.Get(record) != nil
	}
	return dto.AdmissionResponse{
		ID:         record.ID,
		Name:       record.Name,
		Email:      record.Email,
		Phone:      record.Phone,
		ClassName:  record.ClassName,
		LastSchool: record.LastSchool,
		Documents:  documents,
		CreatedAt:  record.CreatedAt,
	}
}

// OpenUpload adapts a multipart file header into an AdmissionUpload.
func OpenUpload(formField string, header *multipart.FileHeader) (*AdmissionUpload, io.Closer, error) {
	file, err := header.Open()
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", formField, err)
	}
	return &AdmissionUpload{FormField: formField, Content: file, Size: header.Size}, file, nil
}

func documentField(formField string) (models.AdmissionDocumentField, bool) {
	for _, field := range models.AdmissionDocumentFields {
		if field.FormField == formField {
			return field, true
		}
	}
	return models.AdmissionDocumentField{}, false
}

func validationMessage(err error) string {
	var fieldErrors validator.ValidationErrors
	if errors.As(err, &fieldErrors) && len(fieldErrors) > 0 {
		first := fieldErrors[0]
		return fmt.Sprintf("field %s failed on %s", first.Field(), first.Tag())
	}
	return "validation failed"
}

func actorID(actor *models.JWTClaims) *string {
	if actor == nil {
		return nil
	}
	id := actor.UserID
	return &id
}

func (s *AdmissionService) emitAudit(ctx context.Context, log *models.AuditLog) {
	if s.audit == nil || log == nil {
		return
	}
	log.IPAddress = "system"
	log.UserAgent = "admission-service"
	if err := s.audit.CreateAuditLog(ctx, log); err != nil {
		s.logger.Warn("failed to create admission audit", zap.Error(err))
	}
}
