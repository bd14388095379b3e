package export

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/linetrack/internal/domain/models"
	"github.com/mamadbah2/linetrack/internal/i18n"
	"github.com/mamadbah2/linetrack/internal/repository/sheets"
)

// Exporter turns reports into downloadable documents and spreadsheets.
type Exporter struct {
	sheets sheets.Repository
	logger *zap.Logger
}

// NewExporter wires the exporter. A nil sheets repository disables the
// spreadsheet target.
func NewExporter(repo sheets.Repository, logger *zap.Logger) *Exporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Exporter{sheets: repo, logger: logger}
}

// SpreadsheetEnabled reports whether a Sheets backend is configured.
func (e *Exporter) SpreadsheetEnabled() bool {
	return e.sheets != nil
}

// Spreadsheet writes the report records into a new spreadsheet with one
// sheet per record type.
func (e *Exporter) Spreadsheet(ctx context.Context, r models.Report, snap models.Snapshot, l *i18n.Localizer, generatedAt time.Time) (sheets.Created, error) {
	if e.sheets == nil {
		return sheets.Created{}, models.ErrExportDisabled
	}

	book := Workbook(r, snap, l, generatedAt)
	created, err := e.sheets.CreateWorkbook(ctx, book)
	if err != nil {
		e.logger.Error("spreadsheet export failed", zap.String("title", book.Title), zap.Error(err))
		return sheets.Created{}, fmt.Errorf("export spreadsheet: %w", err)
	}
	return created, nil
}

// Workbook lays the report records out as sheets with localized headers.
func Workbook(r models.Report, snap models.Snapshot, l *i18n.Localizer, generatedAt time.Time) sheets.Workbook {
	title := l.T("report.spreadsheet_title", map[string]any{
		"Start": models.DisplayDate(r.Range.Start),
		"End":   models.DisplayDate(r.Range.End),
	})
	book := sheets.Workbook{Title: fmt.Sprintf("%s (%s)", title, filePrefix+models.FormatDate(generatedAt))}

	for _, t := range recordTables(r, snap, l) {
		rows := make([][]interface{}, 0, len(t.rows)+1)
		rows = append(rows, cells(t.header))
		rows = append(rows, t.rows...)
		book.Sheets = append(book.Sheets, sheets.Sheet{Title: t.title, Rows: rows})
	}
	return book
}

func cells(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
