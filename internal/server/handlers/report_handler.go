package handlers

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/linetrack/internal/domain/models"
	"github.com/mamadbah2/linetrack/internal/i18n"
	"github.com/mamadbah2/linetrack/internal/repository/sheets"
	"github.com/mamadbah2/linetrack/internal/service/export"
)

// ReportService builds reports from the live snapshot.
type ReportService interface {
	Report(req models.ReportRequest) (models.Report, error)
	ReportWithSnapshot(req models.ReportRequest) (models.Report, models.Snapshot, error)
}

// SpreadsheetExporter creates spreadsheets from reports.
type SpreadsheetExporter interface {
	Spreadsheet(ctx context.Context, r models.Report, snap models.Snapshot, l *i18n.Localizer, generatedAt time.Time) (sheets.Created, error)
}

// ReportHandler serves report summaries and exports.
type ReportHandler struct {
	svc      ReportService
	exporter SpreadsheetExporter
	bundle   *i18n.Bundle
	loc      *time.Location
	logger   *zap.Logger
	now      func() time.Time
}

// NewReportHandler constructs the HTTP handler adapter.
func NewReportHandler(svc ReportService, exporter SpreadsheetExporter, bundle *i18n.Bundle, loc *time.Location, logger *zap.Logger) *ReportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.Local
	}
	return &ReportHandler{svc: svc, exporter: exporter, bundle: bundle, loc: loc, logger: logger, now: time.Now}
}

// Summary returns the report for the query filters.
func (h *ReportHandler) Summary(c *gin.Context) {
	report, err := h.svc.Report(reportRequest(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Document downloads the report as a paginated PDF.
func (h *ReportHandler) Document(c *gin.Context) {
	report, snap, err := h.svc.ReportWithSnapshot(reportRequest(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	now := h.now().In(h.loc)
	var buf bytes.Buffer
	if err := export.WriteDocument(&buf, report, snap, localizer(c, h.bundle), now); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.DocumentName(now)))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

// SpreadsheetFile downloads the report records as an .xlsx workbook. It needs
// no Sheets backend.
func (h *ReportHandler) SpreadsheetFile(c *gin.Context) {
	report, snap, err := h.svc.ReportWithSnapshot(reportRequest(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	now := h.now().In(h.loc)
	var buf bytes.Buffer
	if err := export.WriteSpreadsheet(&buf, export.Workbook(report, snap, localizer(c, h.bundle), now)); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.SpreadsheetName(now)))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// Spreadsheet exports the report records to a new Google spreadsheet.
func (h *ReportHandler) Spreadsheet(c *gin.Context) {
	report, snap, err := h.svc.ReportWithSnapshot(reportRequest(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	created, err := h.exporter.Spreadsheet(c.Request.Context(), report, snap, localizer(c, h.bundle), h.now().In(h.loc))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}
