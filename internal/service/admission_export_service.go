package service

import (
	"archive/zip"
	"bytes"
	"context"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"runtime"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kilbil-1980/kilbil-school-api/internal/models"
	appErrors "github.com/kilbil-1980/kilbil-school-api/pkg/errors"
	"github.com/kilbil-1980/kilbil-school-api/pkg/export"
)

// SummaryFileName is the fixed archive entry name of the rendered summary.
const SummaryFileName = "applicant-details.pdf"

type admissionReader interface {
	GetByID(ctx context.Context, id string) (*models.Admission, error)
	List(ctx context.Context) ([]models.Admission, error)
}

type summaryRenderer interface {
	Render(w io.Writer, title string, fields []export.Field) error
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

// AdmissionExportService reconstructs stored admission records into
// downloadable archives: a rendered PDF summary plus the decoded documents.
type AdmissionExportService struct {
	repo   admissionReader
	pdf    summaryRenderer
	csv    csvRenderer
	logger *zap.Logger
}

// NewAdmissionExportService constructs the export service.
func NewAdmissionExportService(repo admissionReader, pdf summaryRenderer, csv csvRenderer, logger *zap.Logger) *AdmissionExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if pdf == nil {
		pdf = export.NewSummaryPDF()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	return &AdmissionExportService{repo: repo, pdf: pdf, csv: csv, logger: logger}
}

// FetchRecord loads the record for a single export, mapping a missing id to
// not-found before any response bytes are produced.
func (s *AdmissionExportService) FetchRecord(ctx context.Context, id string) (*models.Admission, error) {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to load admission")
	}
	return record, nil
}

// FetchAll loads the full record set for a bulk export. An empty set is
// not-found: the caller must never receive a valid empty archive.
func (s *AdmissionExportService) FetchAll(ctx context.Context) ([]models.Admission, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, "failed to list admissions")
	}
	if len(records) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no admission records to export")
	}
	return records, nil
}

// WriteRecordArchive streams a ZIP for one applicant into w. The archive is
// finalized only after the summary render has fully flushed and every present
// document entry has been appended.
func (s *AdmissionExportService) WriteRecordArchive(ctx context.Context, record *models.Admission, w io.Writer) error {
	zw := zip.NewWriter(w)
	if err := s.writeApplicant(ctx, zw, "", record); err != nil {
		// Leave the archive unfinalized: a truncated stream must not read
		// as a valid partial export.
		return err
	}
	if err := zw.Close(); err != nil {
		return appErrors.Wrap(err, appErrors.ErrArchive.Code, appErrors.ErrArchive.Status, "failed to finalize archive")
	}
	return nil
}

type applicantBundle struct {
	folder  string
	summary []byte
}

// WriteBulkArchive streams one ZIP covering every record, each applicant under
// its own folder. Summary PDFs are rendered concurrently; entries are appended
// once rendering completes and the archive is finalized only after every
// applicant has been appended.
func (s *AdmissionExportService) WriteBulkArchive(ctx context.Context, records []models.Admission, w io.Writer) error {
	bundles := make([]applicantBundle, len(records))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i := range records {
		i := i
		record := &records[i]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			buf := &bytes.Buffer{}
			if err := s.renderSummary(buf, record); err != nil {
				return fmt.Errorf("render summary for %s: %w", record.ID, err)
			}
			bundles[i] = applicantBundle{folder: applicantFolder(record), summary: buf.Bytes()}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return appErrors.Wrap(err, appErrors.ErrArchive.Code, appErrors.ErrArchive.Status, "failed to render applicant summaries")
	}

	zw := zip.NewWriter(w)
	for i := range records {
		if err := ctx.Err(); err != nil {
			// Client went away; stop generating entries.
			return appErrors.Wrap(err, appErrors.ErrArchive.Code, appErrors.ErrArchive.Status, "export cancelled")
		}
		record := &records[i]
		prefix := bundles[i].folder + "/"
		entry, err := zw.Create(prefix + SummaryFileName)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrArchive.Code, appErrors.ErrArchive.Status, "failed to create summary entry")
		}
		if _, err := entry.Write(bundles[i].summary); err != nil {
			return appErrors.Wrap(err, appErrors.ErrArchive.Code, appErrors.ErrArchive.Status, "failed to write summary entry")
		}
		if err := s.writeDocuments(zw, prefix, record); err != nil {
			return err
		}
	}
	if err := zw.Close(); err != nil {
		return appErrors.Wrap(err, appErrors.ErrArchive.Code, appErrors.ErrArchive.Status, "failed to finalize archive")
	}
	return nil
}

// ExportCSV renders the admission roster (metadata only, no payloads).
func (s *AdmissionExportService) ExportCSV(ctx context.Context) ([]byte, error) {
	records, err := s.FetchAll(ctx)
	if err != nil {
		return nil, err
	}
	headers := []string{"ID", "Name", "Email", "Phone", "Class", "Last School", "Documents", "Submitted At"}
	rows := make([]map[string]string, 0, len(records))
	for i := range records {
		record := &records[i]
		lastSchool := ""
		if record.LastSchool != nil {
			lastSchool = *record.LastSchool
		}
		rows = append(rows, map[string]string{
			"ID":           record.ID,
			"Name":         record.Name,
			"Email":        record.Email,
			"Phone":        record.Phone,
			"Class":        record.ClassName,
			"Last School":  lastSchool,
			"Documents":    fmt.Sprintf("%d", record.DocumentCount()),
			"Submitted At": record.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
		})
	}
	payload, err := s.csv.Render(export.Dataset{Headers: headers, Rows: rows})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render roster")
	}
	return payload, nil
}

func (s *AdmissionExportService) writeApplicant(ctx context.Context, zw *zip.Writer, prefix string, record *models.Admission) error {
	entry, err := zw.Create(prefix + SummaryFileName)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrArchive.Code, appErrors.ErrArchive.Status, "failed to create summary entry")
	}
	if err := s.renderSummary(entry, record); err != nil {
		s.logger.Error("summary render failed", zap.String("admission_id", record.ID), zap.Error(err))
		return appErrors.Wrap(err, appErrors.ErrArchive.Code, appErrors.ErrArchive.Status, "failed to render summary")
	}
	if err := ctx.Err(); err != nil {
		return appErrors.Wrap(err, appErrors.ErrArchive.Code, appErrors.ErrArchive.Status, "export cancelled")
	}
	return s.writeDocuments(zw, prefix, record)
}

func (s *AdmissionExportService) writeDocuments(zw *zip.Writer, prefix string, record *models.Admission) error {
	for _, field := range models.AdmissionDocumentFields {
		payload := field.Get(record)
		if payload == nil {
			continue
		}
		raw, err := base64.StdEncoding.DecodeString(*payload)
		if err != nil {
			s.logger.Error("document decode failed",
				zap.String("admission_id", record.ID),
				zap.String("field", field.FormField),
				zap.Error(err))
			return appErrors.Wrap(err, appErrors.ErrArchive.Code, appErrors.ErrArchive.Status, "failed to decode stored document")
		}
		entry, err := zw.Create(prefix + field.ArchiveLabel + documentExtension(raw))
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrArchive.Code, appErrors.ErrArchive.Status, "failed to create document entry")
		}
		if _, err := entry.Write(raw); err != nil {
			return appErrors.Wrap(err, appErrors.ErrArchive.Code, appErrors.ErrArchive.Status, "failed to write document entry")
		}
	}
	return nil
}

func (s *AdmissionExportService) renderSummary(w io.Writer, record *models.Admission) error {
	lastSchool := ""
	if record.LastSchool != nil {
		lastSchool = *record.LastSchool
	}
	fields := []export.Field{
		{Label: "Applicant Name", Value: record.Name},
		{Label: "Email", Value: record.Email},
		{Label: "Phone", Value: record.Phone},
		{Label: "Class Applied For", Value: record.ClassName},
		{Label: "Previous School", Value: lastSchool},
		{Label: "Submitted At", Value: record.CreatedAt.UTC().Format("02 Jan 2006 15:04 UTC")},
	}
	return s.pdf.Render(w, "Admission Application", fields)
}

// applicantFolder names a bulk-export subfolder. The id suffix keeps
// same-named applicants in distinct folders.
func applicantFolder(record *models.Admission) string {
	name := sanitizeName(record.Name)
	suffix := record.ID
	if len(suffix) > 8 {
		suffix = suffix[:8]
	}
	if name == "" {
		return suffix
	}
	return name + "-" + suffix
}

func sanitizeName(raw string) string {
	raw = strings.ToLower(strings.TrimSpace(raw))
	var b strings.Builder
	for _, r := range raw {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteRune('-')
		}
	}
	return strings.Trim(b.String(), "-")
}

func documentExtension(raw []byte) string {
	switch http.DetectContentType(raw) {
	case "application/pdf":
		return ".pdf"
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	default:
		return ".bin"
	}
}
