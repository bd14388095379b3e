package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/mamadbah2/linetrack/internal/domain/models"
	"github.com/mamadbah2/linetrack/internal/repository/sheets"
)

// SpreadsheetName is the download name of a workbook generated on day.
func SpreadsheetName(day time.Time) string {
	return filePrefix + models.FormatDate(day) + ".xlsx"
}

// WriteSpreadsheet encodes the workbook as an .xlsx file, one worksheet per
// sheet with a bold header row.
func WriteSpreadsheet(w io.Writer, book sheets.Workbook) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close workbook: %w", cerr)
		}
	}()

	if err := f.SetDocProps(&excelize.DocProperties{Title: book.Title}); err != nil {
		return fmt.Errorf("set workbook properties: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	first := f.GetSheetName(0)
	for i, sheet := range book.Sheets {
		if i == 0 {
			if err := f.SetSheetName(first, sheet.Title); err != nil {
				return fmt.Errorf("rename sheet %q: %w", sheet.Title, err)
			}
		} else if _, err := f.NewSheet(sheet.Title); err != nil {
			return fmt.Errorf("add sheet %q: %w", sheet.Title, err)
		}

		for r, row := range sheet.Rows {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			if err != nil {
				return err
			}
			if err := f.SetSheetRow(sheet.Title, cell, &row); err != nil {
				return fmt.Errorf("write %s row %d: %w", sheet.Title, r+1, err)
			}
		}
		if len(sheet.Rows) > 0 {
			if err := f.SetRowStyle(sheet.Title, 1, 1, bold); err != nil {
				return fmt.Errorf("style %s header: %w", sheet.Title, err)
			}
		}
	}
	f.SetActiveSheet(0)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
