package models

// Patch is a partial update keyed by stored field names.
type Patch map[string]any

// Collection names one of the five record collections.
type Collection string

const (
	CollectionProducts    Collection = "products"
	CollectionTeamMembers Collection = "team_members"
	CollectionProduction  Collection = "production_records"
	CollectionPackaging   Collection = "packaging_records"
	CollectionStops       Collection = "stop_records"
)

// Snapshot is the latest delivered state of the five collections.
// Products and members are ordered by name, records by timestamp descending.
type Snapshot struct {
	Products    []Product          `json:"products"`
	TeamMembers []TeamMember       `json:"teamMembers"`
	Production  []ProductionRecord `json:"productionRecords"`
	Packaging   []PackagingRecord  `json:"packagingRecords"`
	Stops       []StopRecord       `json:"stopRecords"`
}

// Clone returns a copy whose slices can be handed out without sharing backing
// arrays. Empty collections come back as empty, non-nil slices.
func (s Snapshot) Clone() Snapshot {
	return Snapshot{
		Products:    cloneList(s.Products),
		TeamMembers: cloneList(s.TeamMembers),
		Production:  cloneList(s.Production),
		Packaging:   cloneList(s.Packaging),
		Stops:       cloneList(s.Stops),
	}
}

func cloneList[T any](in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	return out
}

// ProductName resolves a product id, reporting false for dangling references.
func (s Snapshot) ProductName(id string) (string, bool) {
	for _, p := range s.Products {
		if p.ID == id {
			return p.Name, true
		}
	}
	return "", false
}

// MemberName resolves a team member id, reporting false for dangling references.
func (s Snapshot) MemberName(id string) (string, bool) {
	for _, m := range s.TeamMembers {
		if m.ID == id {
			return m.Name, true
		}
	}
	return "", false
}
