package service

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilbil-1980/kilbil-school-api/internal/dto"
	"github.com/kilbil-1980/kilbil-school-api/internal/models"
	appErrors "github.com/kilbil-1980/kilbil-school-api/pkg/errors"
)

type stubAdmissionStore struct {
	created   []*models.Admission
	records   []models.Admission
	deleteErr error
	deleted   []string
	allIDs    []string
}

func (s *stubAdmissionStore) Create(_ context.Context, record *models.Admission) error {
	record.ID = "adm-stub"
	s.created = append(s.created, record)
	return nil
}

func (s *stubAdmissionStore) GetByID(_ context.Context, id string) (*models.Admission, error) {
	for i := range s.records {
		if s.records[i].ID == id {
			return &s.records[i], nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *stubAdmissionStore) List(_ context.Context) ([]models.Admission, error) {
	return s.records, nil
}

func (s *stubAdmissionStore) Delete(_ context.Context, id string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *stubAdmissionStore) DeleteAll(_ context.Context) ([]string, error) {
	return s.allIDs, nil
}

type recordingAudit struct {
	logs []*models.AuditLog
}

func (r *recordingAudit) CreateAuditLog(_ context.Context, log *models.AuditLog) error {
	r.logs = append(r.logs, log)
	return nil
}

func validRequest() dto.CreateAdmissionRequest {
	return dto.CreateAdmissionRequest{
		Name:      "Asha Rao",
		Email:     "asha@example.com",
		Phone:     "9000000000",
		ClassName: "Grade 3",
	}
}

func TestIngestRoundTripsDocumentBytes(t *testing.T) {
	store := &stubAdmissionStore{}
	audit := &recordingAudit{}
	svc := NewAdmissionService(store, audit, nil, nil, AdmissionServiceConfig{})

	original := []byte{0x25, 0x50, 0x44, 0x46, 0x00, 0xff, 0x80, 0x01}
	uploads := []AdmissionUpload{{
		FormField: "birthCertificate",
		Content:   bytes.NewReader(original),
		Size:      int64(len(original)),
	}}

	record, err := svc.Ingest(context.Background(), validRequest(), uploads)
	require.NoError(t, err)
	require.NotNil(t, record.BirthCertificate)

	decoded, err := base64.StdEncoding.DecodeString(*record.BirthCertificate)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
	assert.Nil(t, record.ReportCard)
	assert.Equal(t, 1, record.DocumentCount())
	require.Len(t, audit.logs, 1)
	assert.Equal(t, models.AuditActionAdmissionCreate, audit.logs[0].Action)
}

func TestIngestValidationFailureHasNoSideEffects(t *testing.T) {
	store := &stubAdmissionStore{}
	audit := &recordingAudit{}
	svc := NewAdmissionService(store, audit, nil, nil, AdmissionServiceConfig{})

	req := validRequest()
	req.Email = "not-an-email"
	uploads := []AdmissionUpload{{
		FormField: "photograph",
		Content:   bytes.NewReader([]byte("image-bytes")),
		Size:      11,
	}}

	_, err := svc.Ingest(context.Background(), req, uploads)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Contains(t, appErr.Message, "Email")
	assert.Empty(t, store.created)
	assert.Empty(t, audit.logs)
}

func TestIngestSkipsEmptyUpload(t *testing.T) {
	store := &stubAdmissionStore{}
	svc := NewAdmissionService(store, nil, nil, nil, AdmissionServiceConfig{})

	uploads := []AdmissionUpload{{
		FormField: "reportCard",
		Content:   bytes.NewReader(nil),
		Size:      0,
	}}

	record, err := svc.Ingest(context.Background(), validRequest(), uploads)
	require.NoError(t, err)
	assert.Nil(t, record.ReportCard)
	assert.Equal(t, 0, record.DocumentCount())
}

func TestIngestRejectsOversizedUpload(t *testing.T) {
	store := &stubAdmissionStore{}
	svc := NewAdmissionService(store, nil, nil, nil, AdmissionServiceConfig{MaxFileSize: 4})

	uploads := []AdmissionUpload{{
		FormField: "photograph",
		Content:   bytes.NewReader([]byte("too large")),
		Size:      9,
	}}

	_, err := svc.Ingest(context.Background(), validRequest(), uploads)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Empty(t, store.created)
}

func TestIngestRejectsUnknownDocumentField(t *testing.T) {
	store := &stubAdmissionStore{}
	svc := NewAdmissionService(store, nil, nil, nil, AdmissionServiceConfig{})

	uploads := []AdmissionUpload{{
		FormField: "resume",
		Content:   bytes.NewReader([]byte("x")),
		Size:      1,
	}}

	_, err := svc.Ingest(context.Background(), validRequest(), uploads)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Empty(t, store.created)
}

func TestIngestOmitsBlankLastSchool(t *testing.T) {
	store := &stubAdmissionStore{}
	svc := NewAdmissionService(store, nil, nil, nil, AdmissionServiceConfig{})

	record, err := svc.Ingest(context.Background(), validRequest(), nil)
	require.NoError(t, err)
	assert.Nil(t, record.LastSchool)

	req := validRequest()
	req.LastSchool = "Sunrise Primary"
	record, err = svc.Ingest(context.Background(), req, nil)
	require.NoError(t, err)
	require.NotNil(t, record.LastSchool)
	assert.Equal(t, "Sunrise Primary", *record.LastSchool)
}

func TestDeleteUnknownIDIsNotFound(t *testing.T) {
	store := &stubAdmissionStore{deleteErr: sql.ErrNoRows}
	audit := &recordingAudit{}
	svc := NewAdmissionService(store, audit, nil, nil, AdmissionServiceConfig{})

	err := svc.Delete(context.Background(), "missing", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrNotFound) || appErrors.FromError(err).Code == appErrors.ErrNotFound.Code)
	assert.Empty(t, audit.logs)
}

func TestDeleteAllAuditsEachRemovedRecord(t *testing.T) {
	store := &stubAdmissionStore{allIDs: []string{"adm-1", "adm-2", "adm-3"}}
	audit := &recordingAudit{}
	svc := NewAdmissionService(store, audit, nil, nil, AdmissionServiceConfig{})

	actor := &models.JWTClaims{UserID: "u1"}
	require.NoError(t, svc.DeleteAll(context.Background(), actor))
	require.Len(t, audit.logs, 3)
	for i, log := range audit.logs {
		assert.Equal(t, models.AuditActionAdmissionDelete, log.Action)
		require.NotNil(t, log.ResourceID)
		assert.Equal(t, store.allIDs[i], *log.ResourceID)
		require.NotNil(t, log.UserID)
		assert.Equal(t, "u1", *log.UserID)
	}
}

func TestDeleteAllOnEmptyStoreSucceeds(t *testing.T) {
	store := &stubAdmissionStore{}
	audit := &recordingAudit{}
	svc := NewAdmissionService(store, audit, nil, nil, AdmissionServiceConfig{})

	require.NoError(t, svc.DeleteAll(context.Background(), nil))
	require.NoError(t, svc.DeleteAll(context.Background(), nil))
	assert.Empty(t, audit.logs)
}

func TestToResponseExposesPresenceNotPayloads(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("doc"))
	record := &models.Admission{
		ID:               "adm-1",
		Name:             "Asha Rao",
		Email:            "asha@example.com",
		Phone:            "9000000000",
		ClassName:        "Grade 3",
		BirthCertificate: &payload,
	}

	resp := ToResponse(record)
	assert.True(t, resp.Documents["birthCertificate"])
	assert.False(t, resp.Documents["photograph"])
	assert.Len(t, resp.Documents, len(models.AdmissionDocumentFields))
}
