package memory

import (
	"context"

	"github.com/mamadbah2/linetrack/internal/domain/models"
	"github.com/mamadbah2/linetrack/internal/repository"
)

type stopCollection struct {
	*collection[models.StopRecord]
}

// End moves an active stop to Ended under the collection lock.
func (s *stopCollection) End(_ context.Context, id string, end models.StopEnd) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stop, ok := s.items[id]
	if !ok {
		return models.ErrNotFound
	}
	if !stop.IsActive {
		return models.ErrStopNotActive
	}
	s.items[id] = end.Apply(stop)
	s.publishLocked()
	return nil
}

// NewStore builds an empty in-memory store, optionally seeded with the
// default catalog and team.
func NewStore(seed bool) *repository.Store {
	products := newCollection(models.CollectionProducts,
		func(p models.Product) string { return p.ID },
		func(a, b models.Product) bool { return models.CompareNames(a.Name, b.Name) < 0 })
	members := newCollection(models.CollectionTeamMembers,
		func(m models.TeamMember) string { return m.ID },
		func(a, b models.TeamMember) bool { return models.CompareNames(a.Name, b.Name) < 0 })
	production := newCollection(models.CollectionProduction,
		func(r models.ProductionRecord) string { return r.ID },
		func(a, b models.ProductionRecord) bool { return a.Timestamp > b.Timestamp })
	packaging := newCollection(models.CollectionPackaging,
		func(r models.PackagingRecord) string { return r.ID },
		func(a, b models.PackagingRecord) bool { return a.Timestamp > b.Timestamp })
	stops := newCollection(models.CollectionStops,
		func(r models.StopRecord) string { return r.ID },
		func(a, b models.StopRecord) bool { return a.Timestamp > b.Timestamp })
	stops.check = uniqueActiveSector

	if seed {
		for _, p := range models.DefaultProducts() {
			products.items[p.ID] = p
		}
		for _, m := range models.DefaultTeam() {
			members.items[m.ID] = m
		}
	}

	return &repository.Store{
		Products:    products,
		TeamMembers: members,
		Production:  production,
		Packaging:   packaging,
		Stops:       &stopCollection{collection: stops},
	}
}

func uniqueActiveSector(items map[string]models.StopRecord, doc models.StopRecord) error {
	if !doc.IsActive {
		return nil
	}
	for _, existing := range items {
		if existing.IsActive && existing.Sector == doc.Sector {
			return models.ErrActiveStopExists
		}
	}
	return nil
}
