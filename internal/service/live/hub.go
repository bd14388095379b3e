// Package live keeps the most recent snapshot of the five record collections,
// fed by the store subscriptions, and fans changes out to listeners.
package live

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/mamadbah2/linetrack/internal/domain/models"
	"github.com/mamadbah2/linetrack/internal/repository"
)

// Hub holds the latest delivered snapshot.
type Hub struct {
	store  *repository.Store
	logger *zap.Logger

	mu        sync.RWMutex
	snap      models.Snapshot
	listeners map[int]chan models.Snapshot
	nextID    int
}

// NewHub wires a hub over the given store. Call Start before reading.
func NewHub(store *repository.Store, logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		store:     store,
		logger:    logger,
		listeners: make(map[int]chan models.Snapshot),
	}
}

// Start subscribes to every collection and blocks until the first list of
// each has arrived. Updates keep flowing until ctx is done.
func (h *Hub) Start(ctx context.Context) error {
	if err := follow[models.Product](ctx, h, h.store.Products, models.CollectionProducts, func(s *models.Snapshot, v []models.Product) { s.Products = v }); err != nil {
		return err
	}
	if err := follow[models.TeamMember](ctx, h, h.store.TeamMembers, models.CollectionTeamMembers, func(s *models.Snapshot, v []models.TeamMember) { s.TeamMembers = v }); err != nil {
		return err
	}
	if err := follow[models.ProductionRecord](ctx, h, h.store.Production, models.CollectionProduction, func(s *models.Snapshot, v []models.ProductionRecord) { s.Production = v }); err != nil {
		return err
	}
	if err := follow[models.PackagingRecord](ctx, h, h.store.Packaging, models.CollectionPackaging, func(s *models.Snapshot, v []models.PackagingRecord) { s.Packaging = v }); err != nil {
		return err
	}
	if err := follow[models.StopRecord](ctx, h, h.store.Stops, models.CollectionStops, func(s *models.Snapshot, v []models.StopRecord) { s.Stops = v }); err != nil {
		return err
	}

	h.logger.Info("live snapshot ready")
	return nil
}

// Snapshot returns a copy of the latest snapshot.
func (h *Hub) Snapshot() models.Snapshot {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.snap.Clone()
}

// Listen delivers the current snapshot and then every new one until ctx is
// done. Slow listeners only see the newest snapshot.
func (h *Hub) Listen(ctx context.Context) <-chan models.Snapshot {
	ch := make(chan models.Snapshot, 1)

	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.listeners[id] = ch
	ch <- h.snap.Clone()
	h.mu.Unlock()

	go func() {
		<-ctx.Done()
		h.mu.Lock()
		delete(h.listeners, id)
		close(ch)
		h.mu.Unlock()
	}()
	return ch
}

func (h *Hub) apply(update func(*models.Snapshot)) {
	h.mu.Lock()
	defer h.mu.Unlock()

	update(&h.snap)
	for _, ch := range h.listeners {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- h.snap.Clone():
		default:
		}
	}
}

type subscriber[T any] interface {
	Subscribe(ctx context.Context) (<-chan []T, error)
}

func follow[T any](ctx context.Context, h *Hub, src subscriber[T], name models.Collection, set func(*models.Snapshot, []T)) error {
	updates, err := src.Subscribe(ctx)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", name, err)
	}

	select {
	case first, ok := <-updates:
		if !ok {
			return fmt.Errorf("subscribe %s: stream closed", name)
		}
		h.apply(func(s *models.Snapshot) { set(s, first) })
	case <-ctx.Done():
		return ctx.Err()
	}

	go func() {
		for list := range updates {
			h.apply(func(s *models.Snapshot) { set(s, list) })
			h.logger.Debug("collection updated", zap.String("collection", string(name)), zap.Int("size", len(list)))
		}
	}()
	return nil
}
