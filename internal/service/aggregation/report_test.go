package aggregation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/linetrack/internal/domain/models"
)

func reportSnapshot() models.Snapshot {
	d20, d10 := 20, 10
	return models.Snapshot{
		Products: []models.Product{
			{ID: "p1", Name: "Proteinado", WeightPerBag: 25},
			{ID: "p2", Name: "Ração Bovina", WeightPerBag: 30},
		},
		TeamMembers: []models.TeamMember{
			{ID: "m1", Name: "Ana Costa", Role: models.RolePackaging},
			{ID: "m2", Name: "Maria Silva", Role: models.RolePackaging},
		},
		Production: []models.ProductionRecord{
			{ID: "r1", Date: "2024-03-10", Time: "08:00", BoxNumber: models.Box1, ProductID: "p1", Quantity: 10},
			{ID: "r2", Date: "2024-03-04", Time: "09:00", BoxNumber: models.Box2, ProductID: "p2", Quantity: 20},
			{ID: "r3", Date: "2024-03-03", Time: "10:00", BoxNumber: models.Box1, ProductID: "p1", Quantity: 40},
			{ID: "r4", Date: "2024-03-07", Time: "11:00", BoxNumber: models.Box2, ProductID: "p1", Quantity: 5},
		},
		Packaging: []models.PackagingRecord{
			{ID: "k1", Date: "2024-03-10", CollaboratorID: "m1", Quantity: 6, ProductID: "p1"},
			{ID: "k2", Date: "2024-03-05", CollaboratorID: "m2", Quantity: 8},
			{ID: "k3", Date: "2024-03-06", CollaboratorID: "deleted", Quantity: 2, ProductID: "p2"},
			{ID: "k4", Date: "2024-02-01", CollaboratorID: "m1", Quantity: 100},
		},
		Stops: []models.StopRecord{
			{ID: "s1", Sector: models.SectorBox1, Date: "2024-03-10", StartTime: "08:00", IsActive: true},
			{ID: "s2", Sector: models.SectorBox2, Date: "2024-03-08", StartTime: "08:00", EndTime: "08:20", Duration: &d20},
			{ID: "s3", Sector: models.SectorPackaging, Date: "2024-03-04", StartTime: "13:00", EndTime: "13:10", Duration: &d10},
			{ID: "s4", Sector: models.SectorBox1, Date: "2024-03-03", StartTime: "07:00", IsActive: true},
		},
	}
}

func TestGenerateReport(t *testing.T) {
	t.Parallel()

	today := time.Date(2024, 3, 10, 18, 0, 0, 0, time.UTC)
	snap := reportSnapshot()

	tests := []struct {
		name   string
		req    models.ReportRequest
		assert func(t *testing.T, r models.Report)
	}{
		{
			name: "weekly report covers the last seven days",
			req:  models.ReportRequest{Mode: models.ReportWeekly},
			assert: func(t *testing.T, r models.Report) {
				assert.Equal(t, models.DateRange{Start: "2024-03-04", End: "2024-03-10"}, r.Range)
				assert.Equal(t, models.ProductionSummary{Box1Total: 10, Box2Total: 25, TotalBags: 35}, r.Production)
				assert.Equal(t, []models.CollaboratorTotal{
					{MemberID: "m1", Name: "Ana Costa", Total: 6},
					{MemberID: "m2", Name: "Maria Silva", Total: 8},
				}, r.Packaging.Collaborators)
				assert.Equal(t, 16, r.Packaging.Total)
				assert.Equal(t, models.StopSummary{TotalStops: 3, TotalTime: 30, ActiveStops: 1, AverageMinutes: 15}, r.Stops)
				assert.Len(t, r.Records.Production, 3)
				assert.Equal(t, models.FilterAll, r.Sector)
				assert.Equal(t, models.FilterAll, r.ProductID)
			},
		},
		{
			name: "daily report",
			req:  models.ReportRequest{Mode: models.ReportDaily},
			assert: func(t *testing.T, r models.Report) {
				assert.Equal(t, models.ProductionSummary{Box1Total: 10, TotalBags: 10}, r.Production)
				assert.Equal(t, 6, r.Packaging.Total)
				assert.Equal(t, models.StopSummary{TotalStops: 1, ActiveStops: 1}, r.Stops)
			},
		},
		{
			name: "box sector keeps that box and its stops, drops packaging",
			req:  models.ReportRequest{Mode: models.ReportWeekly, Sector: "box2"},
			assert: func(t *testing.T, r models.Report) {
				assert.Equal(t, models.ProductionSummary{Box2Total: 25, TotalBags: 25}, r.Production)
				assert.Zero(t, r.Packaging.Total)
				assert.Empty(t, r.Records.Packaging)
				assert.Equal(t, models.StopSummary{TotalStops: 1, TotalTime: 20, AverageMinutes: 20}, r.Stops)
			},
		},
		{
			name: "packaging sector drops production",
			req:  models.ReportRequest{Mode: models.ReportWeekly, Sector: "packaging"},
			assert: func(t *testing.T, r models.Report) {
				assert.Zero(t, r.Production.TotalBags)
				assert.Equal(t, 16, r.Packaging.Total)
				assert.Equal(t, models.StopSummary{TotalStops: 1, TotalTime: 10, AverageMinutes: 10}, r.Stops)
			},
		},
		{
			name: "product filter narrows production and packaging only",
			req:  models.ReportRequest{Mode: models.ReportCustom, Start: "2024-03-01", End: "2024-03-10", ProductID: "p1"},
			assert: func(t *testing.T, r models.Report) {
				assert.Equal(t, models.ProductionSummary{Box1Total: 50, Box2Total: 5, TotalBags: 55}, r.Production)
				assert.Equal(t, 6, r.Packaging.Total)
				assert.Equal(t, 4, r.Stops.TotalStops)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r, err := GenerateReport(tt.req, today, snap)
			require.NoError(t, err)
			tt.assert(t, r)
		})
	}
}

func TestGenerateReportRejectsUnknownSector(t *testing.T) {
	t.Parallel()

	_, err := GenerateReport(models.ReportRequest{Sector: "box3"}, time.Now(), models.Snapshot{})
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestGenerateReportTrimsCustomBounds(t *testing.T) {
	t.Parallel()

	snap := models.Snapshot{
		Production: []models.ProductionRecord{
			{ID: "r1", Date: "2024-03-05", Time: "08:00", BoxNumber: models.Box1, ProductID: "p1", Quantity: 7},
		},
	}

	r, err := GenerateReport(models.ReportRequest{Mode: models.ReportCustom, Start: "2024-03-05 ", End: "2024-03-10"}, time.Now(), snap)
	require.NoError(t, err)
	assert.Equal(t, models.DateRange{Start: "2024-03-05", End: "2024-03-10"}, r.Range)
	assert.Equal(t, 7, r.Production.TotalBags)
}
