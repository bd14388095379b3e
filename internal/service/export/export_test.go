package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/mamadbah2/linetrack/internal/domain/models"
	"github.com/mamadbah2/linetrack/internal/i18n"
	"github.com/mamadbah2/linetrack/internal/repository/sheets"
)

type fakeSheets struct {
	got sheets.Workbook
	err error
}

func (f *fakeSheets) CreateWorkbook(_ context.Context, book sheets.Workbook) (sheets.Created, error) {
	f.got = book
	if f.err != nil {
		return sheets.Created{}, f.err
	}
	return sheets.Created{SpreadsheetID: "sheet-1", URL: "https://docs.google.com/spreadsheets/d/sheet-1"}, nil
}

var generatedAt = time.Date(2024, 3, 10, 18, 5, 0, 0, time.UTC)

func fixture() (models.Report, models.Snapshot) {
	d := 30
	snap := models.Snapshot{
		Products:    []models.Product{{ID: "p1", Name: "Proteinado", WeightPerBag: 25}},
		TeamMembers: []models.TeamMember{{ID: "m1", Name: "Ana Costa", Role: models.RolePackaging}},
	}
	report := models.Report{
		Range:     models.DateRange{Start: "2024-03-04", End: "2024-03-10"},
		Sector:    models.FilterAll,
		ProductID: models.FilterAll,
		Production: models.ProductionSummary{
			Box1Total: 10, Box2Total: 5, TotalBags: 15,
		},
		Packaging: models.PackagingSummary{
			Collaborators: []models.CollaboratorTotal{{MemberID: "m1", Name: "Ana Costa", Total: 6}},
			Total:         8,
		},
		Stops: models.StopSummary{TotalStops: 2, TotalTime: 30, ActiveStops: 1, AverageMinutes: 30},
		Records: models.ReportRecords{
			Production: []models.ProductionRecord{
				{ID: "r1", Date: "2024-03-10", Time: "09:15", BoxNumber: models.Box1, ProductID: "p1", Quantity: 10},
				{ID: "r2", Date: "2024-03-09", Time: "10:00", BoxNumber: models.Box2, ProductID: "gone", Quantity: 5, Observations: "sacaria nova"},
			},
			Packaging: []models.PackagingRecord{
				{ID: "k1", Date: "2024-03-10", CollaboratorID: "m1", Quantity: 6, ProductID: "p1"},
				{ID: "k2", Date: "2024-03-08", CollaboratorID: "gone", Quantity: 2},
			},
			Stops: []models.StopRecord{
				{ID: "s1", Sector: models.SectorBox1, Date: "2024-03-10", StartTime: "08:00", Reason: "falta de sacos", IsActive: true},
				{ID: "s2", Sector: models.SectorPackaging, Date: "2024-03-05", StartTime: "23:45", EndDate: "2024-03-06", EndTime: "00:15", Duration: &d, Reason: "limpeza"},
			},
		},
	}
	return report, snap
}

func TestWorkbook(t *testing.T) {
	t.Parallel()

	report, snap := fixture()
	book := Workbook(report, snap, i18n.MustNew("").Localizer(), generatedAt)

	assert.Equal(t, "Relatório de Produção 04/03/2024 a 10/03/2024 (relatorio-producao-2024-03-10)", book.Title)
	require.Len(t, book.Sheets, 3)

	production := book.Sheets[0]
	assert.Equal(t, "Produção", production.Title)
	assert.Equal(t, []interface{}{"Data", "Hora", "Caixa", "Produto", "Quantidade", "Observações"}, production.Rows[0])
	assert.Equal(t, []interface{}{"2024-03-10", "09:15", "Caixa 01", "Proteinado", 10, ""}, production.Rows[1])
	assert.Equal(t, []interface{}{"2024-03-09", "10:00", "Caixa 02", "N/A", 5, "sacaria nova"}, production.Rows[2])

	packaging := book.Sheets[1]
	assert.Equal(t, "Embalagem", packaging.Title)
	assert.Equal(t, []interface{}{"2024-03-10", "Ana Costa", 6, "Proteinado"}, packaging.Rows[1])
	assert.Equal(t, []interface{}{"2024-03-08", "N/A", 2, "Não especificado"}, packaging.Rows[2])

	stops := book.Sheets[2]
	assert.Equal(t, "Paradas", stops.Title)
	assert.Equal(t, []interface{}{"2024-03-10", "Caixa 01", "08:00", "Em andamento", 0, "falta de sacos", "Ativo"}, stops.Rows[1])
	assert.Equal(t, []interface{}{"2024-03-05", "Embalagem", "23:45", "06/03/2024 00:15", 30, "limpeza", "Encerrado"}, stops.Rows[2])
}

func TestSpreadsheet(t *testing.T) {
	t.Parallel()

	report, snap := fixture()
	l := i18n.MustNew("").Localizer("en")

	t.Run("disabled without a sheets backend", func(t *testing.T) {
		t.Parallel()
		_, err := NewExporter(nil, nil).Spreadsheet(context.Background(), report, snap, l, generatedAt)
		require.ErrorIs(t, err, models.ErrExportDisabled)
	})

	t.Run("creates the workbook", func(t *testing.T) {
		t.Parallel()
		fake := &fakeSheets{}
		exp := NewExporter(fake, nil)
		require.True(t, exp.SpreadsheetEnabled())

		created, err := exp.Spreadsheet(context.Background(), report, snap, l, generatedAt)
		require.NoError(t, err)
		assert.Equal(t, "sheet-1", created.SpreadsheetID)
		assert.Equal(t, "Stops", fake.got.Sheets[2].Title)
	})

	t.Run("wraps backend failures", func(t *testing.T) {
		t.Parallel()
		boom := errors.New("quota exceeded")
		_, err := NewExporter(&fakeSheets{err: boom}, nil).Spreadsheet(context.Background(), report, snap, l, generatedAt)
		require.ErrorIs(t, err, boom)
	})
}

// pdfText renders the report uncompressed so page content can be searched.
func pdfText(t *testing.T, r models.Report, snap models.Snapshot, l *i18n.Localizer) (string, int) {
	t.Helper()

	pdf := renderDocument(r, snap, l, generatedAt)
	pdf.SetCompression(false)
	var buf bytes.Buffer
	require.NoError(t, pdf.Output(&buf))
	return buf.String(), pdf.PageCount()
}

func TestWriteDocument(t *testing.T) {
	t.Parallel()

	report, snap := fixture()
	var buf bytes.Buffer
	require.NoError(t, WriteDocument(&buf, report, snap, i18n.MustNew("").Localizer(), generatedAt))
	assert.True(t, strings.HasPrefix(buf.String(), "%PDF-"))

	doc, pages := pdfText(t, report, snap, i18n.MustNew("").Localizer("en"))
	assert.Equal(t, 1, pages)
	for _, want := range []string{
		"Production Report",
		"Period: 04/03/2024 to 10/03/2024",
		"Sector: All | Product: All",
		"Generated at 10/03/2024 18:05",
		"Total bags",
		"Ana Costa",
		"Average per stop",
		"In progress",
		"Unspecified",
		"Page 1 of 1",
	} {
		assert.Contains(t, doc, want)
	}
	assert.NotContains(t, doc, pageAlias, "page total is substituted")
}

func TestWriteDocumentPaginates(t *testing.T) {
	t.Parallel()

	report, snap := fixture()
	report.Records.Production = nil
	for i := range 120 {
		report.Records.Production = append(report.Records.Production, models.ProductionRecord{
			ID: fmt.Sprint(i), Date: "2024-03-10", Time: "09:00", BoxNumber: models.Box1, ProductID: "p1", Quantity: i + 1,
		})
	}

	doc, pages := pdfText(t, report, snap, i18n.MustNew("en").Localizer())
	require.Greater(t, pages, 2)
	for page := 1; page <= pages; page++ {
		assert.Contains(t, doc, fmt.Sprintf("Page %d of %d", page, pages))
	}
	assert.Greater(t, strings.Count(doc, "(Observations)"), 1, "header repeated after a page break")
}

func TestDocumentName(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "relatorio-producao-2024-03-10.pdf", DocumentName(generatedAt))
	assert.Equal(t, "relatorio-producao-2024-03-10.xlsx", SpreadsheetName(generatedAt))
}

func TestWriteSpreadsheet(t *testing.T) {
	t.Parallel()

	report, snap := fixture()
	tests := []struct {
		name   string
		l      *i18n.Localizer
		sheets []string
		header []string
	}{
		{
			name:   "portuguese",
			l:      i18n.MustNew("").Localizer(),
			sheets: []string{"Produção", "Embalagem", "Paradas"},
			header: []string{"Data", "Hora", "Caixa", "Produto", "Quantidade", "Observações"},
		},
		{
			name:   "english",
			l:      i18n.MustNew("").Localizer("en"),
			sheets: []string{"Production", "Packaging", "Stops"},
			header: []string{"Date", "Time", "Box", "Product", "Quantity", "Observations"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			require.NoError(t, WriteSpreadsheet(&buf, Workbook(report, snap, tt.l, generatedAt)))

			book, err := excelize.OpenReader(&buf)
			require.NoError(t, err)
			defer func() { _ = book.Close() }()

			assert.Equal(t, tt.sheets, book.GetSheetList())

			rows, err := book.GetRows(tt.sheets[0])
			require.NoError(t, err)
			require.Len(t, rows, 3)
			assert.Equal(t, tt.header, rows[0])
			require.GreaterOrEqual(t, len(rows[1]), 5)
			assert.Equal(t, []string{"2024-03-10", "09:15", tt.l.Box(models.Box1), "Proteinado", "10"}, rows[1][:5])

			stops, err := book.GetRows(tt.sheets[2])
			require.NoError(t, err)
			assert.Len(t, stops, 3)
		})
	}
}
