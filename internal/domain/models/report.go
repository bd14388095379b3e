package models

import "time"

// DailyProduction holds the bag totals of both boxes for one day.
type DailyProduction struct {
	Box1  int `json:"box1"`
	Box2  int `json:"box2"`
	Total int `json:"total"`
}

// HourlyProduction is one clock-hour bucket ("00:00".."23:00").
type HourlyProduction struct {
	Hour string `json:"hour"`
	Box1 int    `json:"box1"`
	Box2 int    `json:"box2"`
}

// ReportMode selects how a report date range is resolved.
type ReportMode string

const (
	ReportDaily  ReportMode = "daily"
	ReportWeekly ReportMode = "weekly"
	ReportCustom ReportMode = "custom"
)

// FilterAll is the identity value for sector and product filters.
const FilterAll = "all"

// ReportRequest describes the report the caller wants.
type ReportRequest struct {
	Mode      ReportMode `json:"mode"`
	Start     string     `json:"start,omitempty"`
	End       string     `json:"end,omitempty"`
	Sector    string     `json:"sector,omitempty"`
	ProductID string     `json:"productId,omitempty"`
}

// DateRange is an inclusive range of canonical dates.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Contains reports whether date falls within the range. YYYY-MM-DD strings
// are fixed width, so lexicographic order is calendar order.
func (r DateRange) Contains(date string) bool {
	return r.Start <= date && date <= r.End
}

// ProductionSummary totals production over a report range.
type ProductionSummary struct {
	Box1Total int `json:"box1Total"`
	Box2Total int `json:"box2Total"`
	TotalBags int `json:"totalBags"`
}

// CollaboratorTotal is the packaging total of one packaging-role member.
type CollaboratorTotal struct {
	MemberID string `json:"memberId"`
	Name     string `json:"name"`
	Total    int    `json:"total"`
}

// PackagingSummary totals packaging over a report range.
type PackagingSummary struct {
	Collaborators []CollaboratorTotal `json:"collaborators"`
	Total         int                 `json:"total"`
}

// StopSummary totals stops over a report range.
type StopSummary struct {
	TotalStops     int `json:"totalStops"`
	TotalTime      int `json:"totalTime"` // minutes
	ActiveStops    int `json:"activeStops"`
	AverageMinutes int `json:"averageMinutes"` // per ended stop
}

// ReportRecords are the filtered raw records handed to exporters.
type ReportRecords struct {
	Production []ProductionRecord `json:"production"`
	Packaging  []PackagingRecord  `json:"packaging"`
	Stops      []StopRecord       `json:"stops"`
}

// Report is the summary produced for a date range and filters.
type Report struct {
	Range      DateRange         `json:"dateRange"`
	Sector     string            `json:"sector"`
	ProductID  string            `json:"productId"`
	Production ProductionSummary `json:"production"`
	Packaging  PackagingSummary  `json:"packaging"`
	Stops      StopSummary       `json:"stops"`
	Records    ReportRecords     `json:"records"`
}

// Dashboard groups the KPIs shown for a single day.
type Dashboard struct {
	Date            string              `json:"date"`
	Production      DailyProduction     `json:"production"`
	Hourly          []HourlyProduction  `json:"hourly"`
	ActiveStops     []StopRecord        `json:"activeStops"`
	PackagingTotal  int                 `json:"packagingTotal"`
	PackagingByTeam []CollaboratorTotal `json:"packagingByTeam"`
	StopCount       int                 `json:"stopCount"`
	StopMinutes     int                 `json:"stopMinutes"`
	StopAverage     int                 `json:"stopAverageMinutes"`
}

// DailyReport is the nightly report snapshot persisted in MongoDB.
type DailyReport struct {
	Date           string              `bson:"_id" json:"date"`
	Box1Bags       int                 `bson:"box1_bags" json:"box1_bags"`
	Box2Bags       int                 `bson:"box2_bags" json:"box2_bags"`
	TotalBags      int                 `bson:"total_bags" json:"total_bags"`
	PackagingTotal int                 `bson:"packaging_total" json:"packaging_total"`
	Packaging      []CollaboratorTotal `bson:"packaging" json:"packaging"`
	StopCount      int                 `bson:"stop_count" json:"stop_count"`
	StopMinutes    int                 `bson:"stop_minutes" json:"stop_minutes"`
	ActiveStops    int                 `bson:"active_stops" json:"active_stops"`
	StopAverage    int                 `bson:"stop_average_minutes" json:"stop_average_minutes"`
	CreatedAt      time.Time           `bson:"created_at" json:"created_at"`
}

// NewDailyReport flattens a single-day report into its stored snapshot.
func NewDailyReport(r Report, createdAt time.Time) DailyReport {
	return DailyReport{
		Date:           r.Range.Start,
		Box1Bags:       r.Production.Box1Total,
		Box2Bags:       r.Production.Box2Total,
		TotalBags:      r.Production.TotalBags,
		PackagingTotal: r.Packaging.Total,
		Packaging:      r.Packaging.Collaborators,
		StopCount:      r.Stops.TotalStops,
		StopMinutes:    r.Stops.TotalTime,
		ActiveStops:    r.Stops.ActiveStops,
		StopAverage:    r.Stops.AverageMinutes,
		CreatedAt:      createdAt,
	}
}
