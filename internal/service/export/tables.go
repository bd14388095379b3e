// Package export renders reports as a paginated PDF document or as a
// multi-sheet spreadsheet.
package export

import (
	"github.com/mamadbah2/linetrack/internal/domain/models"
	"github.com/mamadbah2/linetrack/internal/i18n"
)

// table is one record type rendered with localized headers.
type table struct {
	title  string
	header []string
	rows   [][]any
}

func recordTables(r models.Report, snap models.Snapshot, l *i18n.Localizer) []table {
	return []table{
		productionTable(r.Records.Production, snap, l),
		packagingTable(r.Records.Packaging, snap, l),
		stopTable(r.Records.Stops, l),
	}
}

func productionTable(records []models.ProductionRecord, snap models.Snapshot, l *i18n.Localizer) table {
	t := table{
		title: l.T("sheet.production"),
		header: []string{
			l.T("header.date"), l.T("header.time"), l.T("header.box"),
			l.T("header.product"), l.T("header.quantity"), l.T("header.observations"),
		},
	}
	for _, r := range records {
		product, ok := snap.ProductName(r.ProductID)
		if !ok {
			product = l.T(i18n.MsgNotAvailable)
		}
		t.rows = append(t.rows, []any{
			r.Date, r.Time, l.Box(r.BoxNumber), product, r.Quantity, r.Observations,
		})
	}
	return t
}

func packagingTable(records []models.PackagingRecord, snap models.Snapshot, l *i18n.Localizer) table {
	t := table{
		title: l.T("sheet.packaging"),
		header: []string{
			l.T("header.date"), l.T("header.collaborator"), l.T("header.quantity"), l.T("header.product"),
		},
	}
	for _, r := range records {
		member, ok := snap.MemberName(r.CollaboratorID)
		if !ok {
			member = l.T(i18n.MsgNotAvailable)
		}
		product, ok := snap.ProductName(r.ProductID)
		if r.ProductID == "" || !ok {
			product = l.T(i18n.MsgUnspecified)
		}
		t.rows = append(t.rows, []any{r.Date, member, r.Quantity, product})
	}
	return t
}

func stopTable(stops []models.StopRecord, l *i18n.Localizer) table {
	t := table{
		title: l.T("sheet.stops"),
		header: []string{
			l.T("header.date"), l.T("header.sector"), l.T("header.start"), l.T("header.end"),
			l.T("header.duration"), l.T("header.reason"), l.T("header.status"),
		},
	}
	for _, s := range stops {
		end := l.T(i18n.MsgInProgress)
		if !s.IsActive {
			end = s.EndTime
			if s.EndDate != "" && s.EndDate != s.Date {
				end = models.DisplayDate(s.EndDate) + " " + s.EndTime
			}
		}
		t.rows = append(t.rows, []any{
			s.Date, l.Sector(s.Sector), s.StartTime, end,
			s.Minutes(), s.Reason, l.Status(s),
		})
	}
	return t
}
