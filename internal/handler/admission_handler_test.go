package handler

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilbil-1980/kilbil-school-api/internal/dto"
	"github.com/kilbil-1980/kilbil-school-api/internal/models"
	"github.com/kilbil-1980/kilbil-school-api/internal/service"
	appErrors "github.com/kilbil-1980/kilbil-school-api/pkg/errors"
)

type stubAdmissionService struct {
	record    *models.Admission
	ingestErr error
	deleteErr error
	deleted   []string
	cleared   bool
}

func (s *stubAdmissionService) Ingest(_ context.Context, req dto.CreateAdmissionRequest, uploads []service.AdmissionUpload) (*models.Admission, error) {
	if s.ingestErr != nil {
		return nil, s.ingestErr
	}
	record := &models.Admission{
		ID:        "adm-1",
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		ClassName: req.ClassName,
	}
	for _, upload := range uploads {
		for _, field := range models.AdmissionDocumentFields {
			if field.FormField == upload.FormField {
				encoded := "stored"
				field.Set(record, &encoded)
			}
		}
	}
	s.record = record
	return record, nil
}

func (s *stubAdmissionService) Get(_ context.Context, id string) (*models.Admission, error) {
	if s.record == nil || s.record.ID != id {
		return nil, appErrors.ErrNotFound
	}
	return s.record, nil
}

func (s *stubAdmissionService) List(_ context.Context) ([]models.Admission, error) {
	if s.record == nil {
		return nil, nil
	}
	return []models.Admission{*s.record}, nil
}

func (s *stubAdmissionService) Delete(_ context.Context, id string, _ *models.JWTClaims) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *stubAdmissionService) DeleteAll(_ context.Context, _ *models.JWTClaims) error {
	s.cleared = true
	return nil
}

type stubExporter struct {
	record  *models.Admission
	records []models.Admission
}

func (s *stubExporter) FetchRecord(_ context.Context, id string) (*models.Admission, error) {
	if s.record == nil || s.record.ID != id {
		return nil, appErrors.ErrNotFound
	}
	return s.record, nil
}

func (s *stubExporter) FetchAll(_ context.Context) ([]models.Admission, error) {
	if len(s.records) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no admission records to export")
	}
	return s.records, nil
}

func (s *stubExporter) WriteRecordArchive(_ context.Context, record *models.Admission, w io.Writer) error {
	zw := zip.NewWriter(w)
	entry, err := zw.Create(service.SummaryFileName)
	if err != nil {
		return err
	}
	if _, err := entry.Write([]byte("%PDF-stub")); err != nil {
		return err
	}
	return zw.Close()
}

func (s *stubExporter) WriteBulkArchive(ctx context.Context, records []models.Admission, w io.Writer) error {
	return s.WriteRecordArchive(ctx, nil, w)
}

func (s *stubExporter) ExportCSV(_ context.Context) ([]byte, error) {
	return []byte("ID,Name\nadm-1,Asha Rao\n"), nil
}

func newAdmissionRouter(svc *stubAdmissionService, exp *stubExporter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewAdmissionHandler(svc, exp, nil, nil)
	r := gin.New()
	r.POST("/admissions", h.Create)
	r.GET("/admissions", h.List)
	r.GET("/admissions/download-all", h.DownloadAll)
	r.GET("/admissions/export-csv", h.ExportCSV)
	r.GET("/admissions/:id", h.Get)
	r.GET("/admissions/:id/download", h.Download)
	r.DELETE("/admissions/clear-all", h.DeleteAll)
	r.DELETE("/admissions/:id", h.Delete)
	return r
}

func multipartBody(t *testing.T, fields map[string]string, files map[string][]byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	for key, content := range files {
		part, err := writer.CreateFormFile(key, key+".bin")
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestSubmitAdmissionReturnsCreatedRecord(t *testing.T) {
	svc := &stubAdmissionService{}
	router := newAdmissionRouter(svc, &stubExporter{})

	body, contentType := multipartBody(t, map[string]string{
		"name":      "Asha Rao",
		"email":     "asha@example.com",
		"phone":     "9000000000",
		"className": "Grade 3",
	}, map[string][]byte{
		"birthCertificate": []byte("doc-bytes"),
	})

	req := httptest.NewRequest(http.MethodPost, "/admissions", body)
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusCreated, resp.Code)
	var out dto.AdmissionResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
	assert.Equal(t, "adm-1", out.ID)
	assert.True(t, out.Documents["birthCertificate"])
	assert.False(t, out.Documents["photograph"])
	assert.NotContains(t, resp.Body.String(), "stored")
}

func TestSubmitAdmissionValidationFailure(t *testing.T) {
	svc := &stubAdmissionService{ingestErr: appErrors.Clone(appErrors.ErrValidation, "field Email failed on email")}
	router := newAdmissionRouter(svc, &stubExporter{})

	body, contentType := multipartBody(t, map[string]string{"name": "Asha Rao"}, nil)
	req := httptest.NewRequest(http.MethodPost, "/admissions", body)
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusBadRequest, resp.Code)
	var out map[string]string
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
	assert.Equal(t, "field Email failed on email", out["message"])
}

func TestDownloadUnknownIDReturnsNotFoundBeforeBody(t *testing.T) {
	router := newAdmissionRouter(&stubAdmissionService{}, &stubExporter{})

	req := httptest.NewRequest(http.MethodGet, "/admissions/missing/download", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusNotFound, resp.Code)
	assert.Empty(t, resp.Header().Get("Content-Disposition"))
	var out map[string]string
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
	assert.NotEmpty(t, out["message"])
}

func TestDownloadStreamsZipWithAttachmentHeaders(t *testing.T) {
	record := &models.Admission{ID: "adm-1", Name: "Asha Rao"}
	router := newAdmissionRouter(&stubAdmissionService{}, &stubExporter{record: record})

	req := httptest.NewRequest(http.MethodGet, "/admissions/adm-1/download", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "application/zip", resp.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="admission-adm-1.zip"`, resp.Header().Get("Content-Disposition"))

	zr, err := zip.NewReader(bytes.NewReader(resp.Body.Bytes()), int64(resp.Body.Len()))
	require.NoError(t, err)
	require.Len(t, zr.File, 1)
	assert.Equal(t, service.SummaryFileName, zr.File[0].Name)
}

func TestDownloadAllEmptySetReturnsNotFound(t *testing.T) {
	router := newAdmissionRouter(&stubAdmissionService{}, &stubExporter{})

	req := httptest.NewRequest(http.MethodGet, "/admissions/download-all", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusNotFound, resp.Code)
	var out map[string]string
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
	assert.Equal(t, "no admission records to export", out["message"])
}

func TestDeleteAdmission(t *testing.T) {
	svc := &stubAdmissionService{}
	router := newAdmissionRouter(svc, &stubExporter{})

	req := httptest.NewRequest(http.MethodDelete, "/admissions/adm-1", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusNoContent, resp.Code)
	assert.Empty(t, resp.Body.Bytes())
	assert.Equal(t, []string{"adm-1"}, svc.deleted)
}

func TestDeleteAdmissionUnknownID(t *testing.T) {
	svc := &stubAdmissionService{deleteErr: appErrors.ErrNotFound}
	router := newAdmissionRouter(svc, &stubExporter{})

	req := httptest.NewRequest(http.MethodDelete, "/admissions/missing", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusNotFound, resp.Code)
}

func TestClearAllAdmissions(t *testing.T) {
	svc := &stubAdmissionService{}
	router := newAdmissionRouter(svc, &stubExporter{})

	req := httptest.NewRequest(http.MethodDelete, "/admissions/clear-all", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusNoContent, resp.Code)
	assert.True(t, svc.cleared)
}

func TestExportCSVEndpoint(t *testing.T) {
	router := newAdmissionRouter(&stubAdmissionService{}, &stubExporter{records: []models.Admission{{ID: "adm-1"}}})

	req := httptest.NewRequest(http.MethodGet, "/admissions/export-csv", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, resp.Body.String(), "Asha Rao")
}
