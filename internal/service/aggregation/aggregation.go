// Package aggregation turns raw production, packaging and stop records into
// daily totals, hourly buckets and report summaries. Every function is pure:
// it reads its arguments and never mutates them.
package aggregation

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/mamadbah2/linetrack/internal/domain/models"
)

const hoursPerDay = 24

// DailyProduction sums the bags of each box for records dated exactly date.
func DailyProduction(date string, records []models.ProductionRecord) models.DailyProduction {
	var out models.DailyProduction
	for _, r := range records {
		if r.Date != date {
			continue
		}
		switch r.BoxNumber {
		case models.Box1:
			out.Box1 += r.Quantity
		case models.Box2:
			out.Box2 += r.Quantity
		}
	}
	out.Total = out.Box1 + out.Box2
	return out
}

// HourlyProduction returns the 24 clock-hour buckets of date in ascending
// order, zero buckets included.
func HourlyProduction(date string, records []models.ProductionRecord) []models.HourlyProduction {
	buckets := make([]models.HourlyProduction, hoursPerDay)
	index := make(map[string]int, hoursPerDay)
	for h := range hoursPerDay {
		key := fmt.Sprintf("%02d:00", h)
		buckets[h].Hour = key
		index[key] = h
	}

	for _, r := range records {
		if r.Date != date {
			continue
		}
		h, ok := index[models.HourKey(r.Time)]
		if !ok {
			continue
		}
		switch r.BoxNumber {
		case models.Box1:
			buckets[h].Box1 += r.Quantity
		case models.Box2:
			buckets[h].Box2 += r.Quantity
		}
	}
	return buckets
}

// ActiveStops keeps the stops that are still active, in input order.
func ActiveStops(stops []models.StopRecord) []models.StopRecord {
	return lo.Filter(stops, func(s models.StopRecord, _ int) bool { return s.IsActive })
}

// SummarizeStops counts stops, their ended minutes and how many are still
// active. The average is taken over ended stops only, rounded to the minute.
func SummarizeStops(stops []models.StopRecord) models.StopSummary {
	total := lo.SumBy(stops, func(s models.StopRecord) int { return s.Minutes() })
	active := lo.CountBy(stops, func(s models.StopRecord) bool { return s.IsActive })

	var average int
	if ended := len(stops) - active; ended > 0 {
		average = int(math.Round(float64(total) / float64(ended)))
	}

	return models.StopSummary{
		TotalStops:     len(stops),
		TotalTime:      total,
		ActiveStops:    active,
		AverageMinutes: average,
	}
}

// PackagingByCollaborator totals packaging per packaging-role member, in
// member order, members without records included.
func PackagingByCollaborator(members []models.TeamMember, records []models.PackagingRecord) []models.CollaboratorTotal {
	totals := lo.Reduce(records, func(acc map[string]int, r models.PackagingRecord, _ int) map[string]int {
		acc[r.CollaboratorID] += r.Quantity
		return acc
	}, map[string]int{})

	packers := lo.Filter(members, func(m models.TeamMember, _ int) bool { return m.Role == models.RolePackaging })
	return lo.Map(packers, func(m models.TeamMember, _ int) models.CollaboratorTotal {
		return models.CollaboratorTotal{MemberID: m.ID, Name: m.Name, Total: totals[m.ID]}
	})
}

// Dashboard gathers the KPIs of a single day.
func Dashboard(date string, snap models.Snapshot) models.Dashboard {
	dayPackaging := lo.Filter(snap.Packaging, func(r models.PackagingRecord, _ int) bool { return r.Date == date })
	dayStops := lo.Filter(snap.Stops, func(s models.StopRecord, _ int) bool { return s.Date == date })

	active := ActiveStops(snap.Stops)
	slices.SortStableFunc(active, func(a, b models.StopRecord) int {
		switch {
		case a.Timestamp < b.Timestamp:
			return -1
		case a.Timestamp > b.Timestamp:
			return 1
		default:
			return 0
		}
	})

	stops := SummarizeStops(dayStops)
	return models.Dashboard{
		Date:            date,
		Production:      DailyProduction(date, snap.Production),
		Hourly:          HourlyProduction(date, snap.Production),
		ActiveStops:     active,
		PackagingTotal:  lo.SumBy(dayPackaging, func(r models.PackagingRecord) int { return r.Quantity }),
		PackagingByTeam: PackagingByCollaborator(snap.TeamMembers, dayPackaging),
		StopCount:       stops.TotalStops,
		StopMinutes:     stops.TotalTime,
		StopAverage:     stops.AverageMinutes,
	}
}

// ResolveRange turns a report mode into an inclusive canonical date range.
// today is taken in the plant's timezone.
func ResolveRange(req models.ReportRequest, today time.Time) (models.DateRange, error) {
	todayStr := models.FormatDate(today)

	switch req.Mode {
	case models.ReportDaily, "":
		return models.DateRange{Start: todayStr, End: todayStr}, nil
	case models.ReportWeekly:
		return models.DateRange{Start: models.FormatDate(today.AddDate(0, 0, -6)), End: todayStr}, nil
	case models.ReportCustom:
		start, end := strings.TrimSpace(req.Start), strings.TrimSpace(req.End)
		if !canonicalDate(start) {
			return models.DateRange{}, &models.ValidationError{Field: "start", Reason: "start must be YYYY-MM-DD"}
		}
		if !canonicalDate(end) {
			return models.DateRange{}, &models.ValidationError{Field: "end", Reason: "end must be YYYY-MM-DD"}
		}
		if start > end {
			return models.DateRange{}, &models.ValidationError{Field: "end", Reason: "end must not precede start"}
		}
		return models.DateRange{Start: start, End: end}, nil
	default:
		return models.DateRange{}, &models.ValidationError{Field: "mode", Reason: "mode must be daily, weekly or custom"}
	}
}

// canonicalDate accepts only the fixed-width YYYY-MM-DD form, so that range
// bounds compare lexicographically with stored dates.
func canonicalDate(value string) bool {
	if len(value) != len(models.DateLayout) {
		return false
	}
	_, err := time.Parse(models.DateLayout, value)
	return err == nil
}
