package export

import (
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/mamadbah2/linetrack/internal/domain/models"
	"github.com/mamadbah2/linetrack/internal/i18n"
)

const (
	filePrefix = "relatorio-producao-"
	pageAlias  = "{nb}"

	marginMM   = 12.0
	lineHeight = 6.0
	cellPad    = 3.0
)

// DocumentName is the download name of a document generated on day.
func DocumentName(day time.Time) string {
	return filePrefix + models.FormatDate(day) + ".pdf"
}

// WriteDocument renders the report as a paginated A4 PDF.
func WriteDocument(w io.Writer, r models.Report, snap models.Snapshot, l *i18n.Localizer, generatedAt time.Time) error {
	pdf := renderDocument(r, snap, l, generatedAt)
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	return nil
}

// document wraps the PDF with the cp1252 translation the core fonts need.
type document struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func renderDocument(r models.Report, snap models.Snapshot, l *i18n.Localizer, generatedAt time.Time) *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(marginMM, marginMM, marginMM)
	pdf.SetAutoPageBreak(true, marginMM+4)
	pdf.AliasNbPages(pageAlias)
	pdf.SetCreationDate(generatedAt)
	pdf.SetTitle(l.T("report.title"), true)

	d := &document{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
	pdf.SetFooterFunc(func() {
		pdf.SetY(-marginMM)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, lineHeight, d.tr(l.T("report.page", map[string]any{"Page": pdf.PageNo(), "Pages": pageAlias})), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	d.header(r, snap, l, generatedAt)

	d.section(l.T("report.production_summary"), [][]any{
		{l.T("report.box1_total"), r.Production.Box1Total},
		{l.T("report.box2_total"), r.Production.Box2Total},
		{l.T("report.total_bags"), r.Production.TotalBags},
	})
	d.section(l.T("report.packaging_summary"), packagingSummaryRows(r.Packaging, l))
	d.section(l.T("report.stops_summary"), [][]any{
		{l.T("report.total_stops"), r.Stops.TotalStops},
		{l.T("report.total_time"), r.Stops.TotalTime},
		{l.T("report.average_time"), r.Stops.AverageMinutes},
		{l.T("report.active_stops"), r.Stops.ActiveStops},
	})

	for _, t := range recordTables(r, snap, l) {
		d.table(t, l)
	}
	return pdf
}

func (d *document) header(r models.Report, snap models.Snapshot, l *i18n.Localizer, generatedAt time.Time) {
	product := l.Filter(r.ProductID)
	if name, ok := snap.ProductName(r.ProductID); ok {
		product = name
	}

	d.pdf.SetFont("Helvetica", "B", 16)
	d.pdf.CellFormat(0, 10, d.tr(l.T("report.title")), "", 1, "L", false, 0, "")

	d.pdf.SetFont("Helvetica", "", 10)
	for _, line := range []string{
		l.T("report.period", map[string]any{
			"Start": models.DisplayDate(r.Range.Start),
			"End":   models.DisplayDate(r.Range.End),
		}),
		l.T("report.filters", map[string]any{"Sector": l.Filter(r.Sector), "Product": product}),
		l.T("report.generated", map[string]any{"At": generatedAt.Format(models.DisplayDateLayout + " " + models.ClockLayout)}),
	} {
		d.pdf.CellFormat(0, lineHeight, d.tr(line), "", 1, "L", false, 0, "")
	}
	d.pdf.Ln(lineHeight)
}

func (d *document) title(text string) {
	d.pdf.SetFont("Helvetica", "B", 12)
	d.pdf.CellFormat(0, lineHeight+2, d.tr(text), "", 1, "L", false, 0, "")
}

// section prints label/value pairs.
func (d *document) section(title string, rows [][]any) {
	d.title(title)
	d.pdf.SetFont("Helvetica", "", 10)
	for _, row := range rows {
		d.pdf.CellFormat(70, lineHeight, d.tr(fmt.Sprint(row[0])), "", 0, "L", false, 0, "")
		d.pdf.CellFormat(30, lineHeight, fmt.Sprint(row[1]), "", 1, "R", false, 0, "")
	}
	d.pdf.Ln(lineHeight / 2)
}

// table prints a bordered record table and repeats its header on every page
// it spans.
func (d *document) table(t table, l *i18n.Localizer) {
	d.title(t.title)
	d.pdf.SetFont("Helvetica", "", 9)
	if len(t.rows) == 0 {
		d.pdf.CellFormat(0, lineHeight, d.tr(l.T("report.no_records")), "", 1, "L", false, 0, "")
		d.pdf.Ln(lineHeight / 2)
		return
	}

	widths := d.columnWidths(t)
	d.tableHeader(t.header, widths)

	_, pageHeight := d.pdf.GetPageSize()
	_, bottom := d.pdf.GetAutoPageBreak()
	for _, row := range t.rows {
		if d.pdf.GetY()+lineHeight > pageHeight-bottom {
			d.pdf.AddPage()
			d.tableHeader(t.header, widths)
		}
		for i, v := range row {
			align := "L"
			if _, numeric := v.(int); numeric {
				align = "R"
			}
			d.pdf.CellFormat(widths[i], lineHeight, d.tr(fmt.Sprint(v)), "1", 0, align, false, 0, "")
		}
		d.pdf.Ln(-1)
	}
	d.pdf.Ln(lineHeight / 2)
}

func (d *document) tableHeader(header []string, widths []float64) {
	d.pdf.SetFont("Helvetica", "B", 9)
	d.pdf.SetFillColor(230, 230, 230)
	for i, h := range header {
		d.pdf.CellFormat(widths[i], lineHeight, d.tr(h), "1", 0, "C", true, 0, "")
	}
	d.pdf.Ln(-1)
	d.pdf.SetFont("Helvetica", "", 9)
}

// columnWidths sizes each column to its widest cell and scales the table
// down to the printable width when it does not fit.
func (d *document) columnWidths(t table) []float64 {
	d.pdf.SetFont("Helvetica", "B", 9)
	widths := make([]float64, len(t.header))
	for i, h := range t.header {
		widths[i] = d.pdf.GetStringWidth(d.tr(h)) + 2*cellPad
	}
	d.pdf.SetFont("Helvetica", "", 9)
	for _, row := range t.rows {
		for i, v := range row {
			widths[i] = max(widths[i], d.pdf.GetStringWidth(d.tr(fmt.Sprint(v)))+2*cellPad)
		}
	}

	pageWidth, _ := d.pdf.GetPageSize()
	left, _, right, _ := d.pdf.GetMargins()
	available := pageWidth - left - right

	var total float64
	for _, w := range widths {
		total += w
	}
	if total > available {
		for i := range widths {
			widths[i] *= available / total
		}
	}
	return widths
}

func packagingSummaryRows(p models.PackagingSummary, l *i18n.Localizer) [][]any {
	rows := make([][]any, 0, len(p.Collaborators)+1)
	for _, c := range p.Collaborators {
		rows = append(rows, []any{c.Name, c.Total})
	}
	return append(rows, []any{l.T("report.total"), p.Total})
}
