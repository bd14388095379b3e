package aggregation

import (
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/mamadbah2/linetrack/internal/domain/models"
)

// filter is the normalized sector/product selection of a report.
type filter struct {
	sector    string
	productID string
}

func newFilter(req models.ReportRequest) (filter, error) {
	f := filter{
		sector:    strings.TrimSpace(req.Sector),
		productID: strings.TrimSpace(req.ProductID),
	}
	if f.sector == "" {
		f.sector = models.FilterAll
	}
	if f.productID == "" {
		f.productID = models.FilterAll
	}
	if f.sector != models.FilterAll && !models.Sector(f.sector).Valid() {
		return filter{}, &models.ValidationError{Field: "sector", Reason: "sector must be all, box1, box2 or packaging"}
	}
	return f, nil
}

func (f filter) allSectors() bool  { return f.sector == models.FilterAll }
func (f filter) allProducts() bool { return f.productID == models.FilterAll }

func (f filter) keepProduction(r models.ProductionRecord) bool {
	if !f.allSectors() {
		box, ok := models.Sector(f.sector).Box()
		if !ok || r.BoxNumber != box {
			return false
		}
	}
	return f.allProducts() || r.ProductID == f.productID
}

func (f filter) keepPackaging(r models.PackagingRecord) bool {
	if !f.allSectors() && models.Sector(f.sector) != models.SectorPackaging {
		return false
	}
	return f.allProducts() || r.ProductID == f.productID
}

func (f filter) keepStop(s models.StopRecord) bool {
	return f.allSectors() || s.Sector == models.Sector(f.sector)
}

// GenerateReport resolves the date range of req against today, narrows the
// snapshot by range, sector and product, and summarizes what remains.
func GenerateReport(req models.ReportRequest, today time.Time, snap models.Snapshot) (models.Report, error) {
	dateRange, err := ResolveRange(req, today)
	if err != nil {
		return models.Report{}, err
	}
	f, err := newFilter(req)
	if err != nil {
		return models.Report{}, err
	}

	production := lo.Filter(snap.Production, func(r models.ProductionRecord, _ int) bool {
		return dateRange.Contains(r.Date) && f.keepProduction(r)
	})
	packaging := lo.Filter(snap.Packaging, func(r models.PackagingRecord, _ int) bool {
		return dateRange.Contains(r.Date) && f.keepPackaging(r)
	})
	stops := lo.Filter(snap.Stops, func(s models.StopRecord, _ int) bool {
		return dateRange.Contains(s.Date) && f.keepStop(s)
	})

	box1 := lo.SumBy(production, func(r models.ProductionRecord) int {
		return lo.Ternary(r.BoxNumber == models.Box1, r.Quantity, 0)
	})
	box2 := lo.SumBy(production, func(r models.ProductionRecord) int {
		return lo.Ternary(r.BoxNumber == models.Box2, r.Quantity, 0)
	})

	return models.Report{
		Range:     dateRange,
		Sector:    f.sector,
		ProductID: f.productID,
		Production: models.ProductionSummary{
			Box1Total: box1,
			Box2Total: box2,
			TotalBags: box1 + box2,
		},
		Packaging: models.PackagingSummary{
			Collaborators: PackagingByCollaborator(snap.TeamMembers, packaging),
			Total:         lo.SumBy(packaging, func(r models.PackagingRecord) int { return r.Quantity }),
		},
		Stops: SummarizeStops(stops),
		Records: models.ReportRecords{
			Production: production,
			Packaging:  packaging,
			Stops:      stops,
		},
	}, nil
}
