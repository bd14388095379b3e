package models

import "strings"

// Sector is the part of the floor a stop applies to.
type Sector string

const (
	SectorBox1      Sector = "box1"
	SectorBox2      Sector = "box2"
	SectorPackaging Sector = "packaging"
)

// Sectors lists every sector in display order.
var Sectors = []Sector{SectorBox1, SectorBox2, SectorPackaging}

// Valid reports whether s is a known sector.
func (s Sector) Valid() bool {
	return s == SectorBox1 || s == SectorBox2 || s == SectorPackaging
}

// Box returns the production line matching the sector, if any.
func (s Sector) Box() (BoxNumber, bool) {
	switch s {
	case SectorBox1:
		return Box1, true
	case SectorBox2:
		return Box2, true
	default:
		return 0, false
	}
}

// StopRecord is a line stop. It starts Active and moves once to Ended.
type StopRecord struct {
	ID        string `bson:"_id" json:"id"`
	Sector    Sector `bson:"sector" json:"sector"`
	Date      string `bson:"date" json:"date"`           // start date, YYYY-MM-DD
	StartTime string `bson:"startTime" json:"startTime"` // HH:MM
	EndDate   string `bson:"endDate,omitempty" json:"endDate,omitempty"`
	EndTime   string `bson:"endTime,omitempty" json:"endTime,omitempty"`
	Reason    string `bson:"reason" json:"reason"`
	Duration  *int   `bson:"duration,omitempty" json:"duration,omitempty"` // minutes
	IsActive  bool   `bson:"isActive" json:"isActive"`
	Timestamp int64  `bson:"timestamp" json:"timestamp"`
}

// DisplayStart renders the start as DD/MM/YYYY HH:MM for people and exports.
func (s StopRecord) DisplayStart() string {
	return DisplayDate(s.Date) + " " + s.StartTime
}

// Minutes returns the recorded duration, zero while the stop is active.
func (s StopRecord) Minutes() int {
	if s.Duration == nil {
		return 0
	}
	return *s.Duration
}

// StopStart is the caller input for opening a stop.
type StopStart struct {
	Sector Sector
	Reason string
}

// Validate checks the stop start input.
func (in StopStart) Validate() error {
	if !in.Sector.Valid() {
		return invalid("sector", "sector must be box1, box2 or packaging")
	}
	if strings.TrimSpace(in.Reason) == "" {
		return invalid("reason", "reason is required")
	}
	return nil
}

// StopEnd carries the values written when a stop is ended.
type StopEnd struct {
	EndDate  string
	EndTime  string
	Duration int
}

// Fields converts the end transition into a store patch.
func (e StopEnd) Fields() Patch {
	return Patch{
		"endDate":  e.EndDate,
		"endTime":  e.EndTime,
		"duration": e.Duration,
		"isActive": false,
	}
}

// Apply returns s moved to the Ended state.
func (e StopEnd) Apply(s StopRecord) StopRecord {
	d := e.Duration
	s.EndDate = e.EndDate
	s.EndTime = e.EndTime
	s.Duration = &d
	s.IsActive = false
	return s
}
