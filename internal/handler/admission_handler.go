package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kilbil-1980/kilbil-school-api/internal/dto"
	"github.com/kilbil-1980/kilbil-school-api/internal/models"
	"github.com/kilbil-1980/kilbil-school-api/internal/service"
	appErrors "github.com/kilbil-1980/kilbil-school-api/pkg/errors"
	"github.com/kilbil-1980/kilbil-school-api/pkg/response"
)

type admissionService interface {
	Ingest(ctx context.Context, req dto.CreateAdmissionRequest, uploads []service.AdmissionUpload) (*models.Admission, error)
	Get(ctx context.Context, id string) (*models.Admission, error)
	List(ctx context.Context) ([]models.Admission, error)
	Delete(ctx context.Context, id string, actor *models.JWTClaims) error
	DeleteAll(ctx context.Context, actor *models.JWTClaims) error
}

type admissionExporter interface {
	FetchRecord(ctx context.Context, id string) (*models.Admission, error)
	FetchAll(ctx context.Context) ([]models.Admission, error)
	WriteRecordArchive(ctx context.Context, record *models.Admission, w io.Writer) error
	WriteBulkArchive(ctx context.Context, records []models.Admission, w io.Writer) error
	ExportCSV(ctx context.Context) ([]byte, error)
}

// AdmissionHandler exposes admission submission, export and deletion endpoints.
type AdmissionHandler struct {
	admissions admissionService
	exports    admissionExporter
	metrics    *service.MetricsService
	logger     *zap.Logger
}

// NewAdmissionHandler constructs the handler.
func NewAdmissionHandler(admissions admissionService, exports admissionExporter, metrics *service.MetricsService, logger *zap.Logger) *AdmissionHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdmissionHandler{admissions: admissions, exports: exports, metrics: metrics, logger: logger}
}

// Create godoc
// @Summary Submit an admission application
// @Tags Admissions
// @Accept multipart/form-data
// @Produce json
// @Param name formData string true "Applicant name"
// @Param email formData string true "Email"
// @Param phone formData string true "Phone"
// @Param className formData string true "Class applied for"
// @Param lastSchool formData string false "Previous school"
// @Param birthCertificate formData file false "Birth certificate"
// @Param reportCard formData file false "Report card"
// @Param transferCertificate formData file false "Transfer certificate"
// @Param photograph formData file false "Photograph"
// @Param addressProof formData file false "Address proof"
// @Param parentIdProof formData file false "Parent ID proof"
// @Success 201 {object} dto.AdmissionResponse
// @Router /admissions [post]
func (h *AdmissionHandler) Create(c *gin.Context) {
	var req dto.CreateAdmissionRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid admission payload"))
		return
	}

	var uploads []service.AdmissionUpload
	var closers []io.Closer
	defer func() {
		for _, closer := range closers {
			_ = closer.Close()
		}
	}()

	for _, field := range models.AdmissionDocumentFields {
		header, err := c.FormFile(field.FormField)
		if err != nil {
			if errors.Is(err, http.ErrMissingFile) {
				continue
			}
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid file for %s", field.FormField)))
			return
		}
		upload, closer, err := service.OpenUpload(field.FormField, header)
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open uploaded file"))
			return
		}
		closers = append(closers, closer)
		uploads = append(uploads, *upload)
	}

	record, err := h.admissions.Ingest(c.Request.Context(), req, uploads)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, service.ToResponse(record))
}

// List godoc
// @Summary List admission records
// @Tags Admissions
// @Produce json
// @Success 200 {array} dto.AdmissionResponse
// @Router /admissions [get]
func (h *AdmissionHandler) List(c *gin.Context) {
	records, err := h.admissions.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	out := make([]dto.AdmissionResponse, 0, len(records))
	for i := range records {
		out = append(out, service.ToResponse(&records[i]))
	}
	response.JSON(c, http.StatusOK, out)
}

// Get godoc
// @Summary Get one admission record
// @Tags Admissions
// @Produce json
// @Param id path string true "Admission ID"
// @Success 200 {object} dto.AdmissionResponse
// @Router /admissions/{id} [get]
func (h *AdmissionHandler) Get(c *gin.Context) {
	record, err := h.admissions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, service.ToResponse(record))
}

// Download godoc
// @Summary Download one applicant's documents as a ZIP
// @Tags Admissions
// @Produce application/zip
// @Param id path string true "Admission ID"
// @Success 200 {file} binary
// @Router /admissions/{id}/download [get]
func (h *AdmissionHandler) Download(c *gin.Context) {
	record, err := h.exports.FetchRecord(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	start := time.Now()
	c.Header("Content-Type", "application/zip")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "admission-"+record.ID+".zip"))
	c.Status(http.StatusOK)

	if err := h.exports.WriteRecordArchive(c.Request.Context(), record, c.Writer); err != nil {
		// Headers are already on the wire. Dropping the connection leaves the
		// client with a truncated archive instead of a valid partial one.
		h.logger.Error("single-record export failed mid-stream",
			zap.String("admission_id", record.ID), zap.Error(err))
		c.Abort()
		return
	}
	if h.metrics != nil {
		h.metrics.ObserveExport("single", time.Since(start))
	}
}

// DownloadAll godoc
// @Summary Download every applicant's documents as one ZIP
// @Tags Admissions
// @Produce application/zip
// @Success 200 {file} binary
// @Router /admissions/download-all [get]
func (h *AdmissionHandler) DownloadAll(c *gin.Context) {
	records, err := h.exports.FetchAll(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	start := time.Now()
	c.Header("Content-Type", "application/zip")
	c.Header("Content-Disposition", `attachment; filename="admissions.zip"`)
	c.Status(http.StatusOK)

	if err := h.exports.WriteBulkArchive(c.Request.Context(), records, c.Writer); err != nil {
		h.logger.Error("bulk export failed mid-stream",
			zap.Int("records", len(records)), zap.Error(err))
		c.Abort()
		return
	}
	if h.metrics != nil {
		h.metrics.ObserveExport("bulk", time.Since(start))
	}
}

// ExportCSV godoc
// @Summary Export the admission roster as CSV
// @Tags Admissions
// @Produce text/csv
// @Success 200 {file} binary
// @Router /admissions/export-csv [get]
func (h *AdmissionHandler) ExportCSV(c *gin.Context) {
	data, err := h.exports.ExportCSV(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="admissions.csv"`)
	c.Data(http.StatusOK, "text/csv", data)
}

// Delete godoc
// @Summary Delete one admission record
// @Tags Admissions
// @Param id path string true "Admission ID"
// @Success 204
// @Router /admissions/{id} [delete]
func (h *AdmissionHandler) Delete(c *gin.Context) {
	if err := h.admissions.Delete(c.Request.Context(), c.Param("id"), claimsFromContext(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// DeleteAll godoc
// @Summary Delete every admission record
// @Tags Admissions
// @Success 204
// @Router /admissions/clear-all [delete]
func (h *AdmissionHandler) DeleteAll(c *gin.Context) {
	if err := h.admissions.DeleteAll(c.Request.Context(), claimsFromContext(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
