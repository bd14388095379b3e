// Package stops implements the line stop lifecycle: open a stop for a sector,
// end it with its duration, or delete it.
package stops

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/mamadbah2/linetrack/internal/domain/models"
	"github.com/mamadbah2/linetrack/internal/repository"
)

// Snapshots exposes the latest delivered snapshot.
type Snapshots interface {
	Snapshot() models.Snapshot
}

// Service drives stop records through Active -> Ended.
type Service struct {
	snapshots Snapshots
	store     repository.StopCollection
	loc       *time.Location
	logger    *zap.Logger
	now       func() time.Time
	newID     func() string
}

// NewService wires the stop lifecycle over the stop collection. Dates and
// clock values are taken in loc.
func NewService(snapshots Snapshots, store repository.StopCollection, loc *time.Location, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.Local
	}
	return &Service{
		snapshots: snapshots,
		store:     store,
		loc:       loc,
		logger:    logger,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// StartStop opens a stop for the sector at the current local time.
func (s *Service) StartStop(ctx context.Context, in models.StopStart) (models.StopRecord, error) {
	in.Reason = strings.TrimSpace(in.Reason)
	if err := in.Validate(); err != nil {
		return models.StopRecord{}, err
	}

	if _, busy := lo.Find(s.snapshots.Snapshot().Stops, func(r models.StopRecord) bool {
		return r.IsActive && r.Sector == in.Sector
	}); busy {
		return models.StopRecord{}, models.ErrActiveStopExists
	}

	now := s.now().In(s.loc)
	stop := models.StopRecord{
		ID:        s.newID(),
		Sector:    in.Sector,
		Date:      models.FormatDate(now),
		StartTime: models.FormatClock(now),
		Reason:    in.Reason,
		IsActive:  true,
		Timestamp: models.Millis(now),
	}

	if err := s.store.Create(ctx, stop); err != nil {
		if errors.Is(err, models.ErrActiveStopExists) {
			return models.StopRecord{}, err
		}
		s.logger.Error("failed to start stop", zap.String("sector", string(in.Sector)), zap.Error(err))
		return models.StopRecord{}, fmt.Errorf("start stop: %w", err)
	}

	s.logger.Info("stop started", zap.String("id", stop.ID), zap.String("sector", string(stop.Sector)))
	return stop, nil
}

// EndStop closes an active stop and records its duration in minutes. A stop
// that began on an earlier day is measured across midnight.
func (s *Service) EndStop(ctx context.Context, id string) (models.StopRecord, error) {
	stop, err := s.find(ctx, id)
	if err != nil {
		return models.StopRecord{}, err
	}
	if !stop.IsActive {
		return models.StopRecord{}, models.ErrStopNotActive
	}

	start, err := models.At(stop.Date, stop.StartTime, s.loc)
	if err != nil {
		return models.StopRecord{}, fmt.Errorf("stop %s start: %w", id, err)
	}
	end := s.now().In(s.loc).Truncate(time.Minute)
	if end.Before(start) {
		return models.StopRecord{}, models.ErrInvalidStopWindow
	}

	transition := models.StopEnd{
		EndDate:  models.FormatDate(end),
		EndTime:  models.FormatClock(end),
		Duration: int(math.Round(end.Sub(start).Minutes())),
	}
	if err := s.store.End(ctx, id, transition); err != nil {
		if errors.Is(err, models.ErrNotFound) || errors.Is(err, models.ErrStopNotActive) {
			return models.StopRecord{}, err
		}
		s.logger.Error("failed to end stop", zap.String("id", id), zap.Error(err))
		return models.StopRecord{}, fmt.Errorf("end stop: %w", err)
	}

	s.logger.Info("stop ended", zap.String("id", id), zap.Int("minutes", transition.Duration))
	return transition.Apply(stop), nil
}

// DeleteStop removes a stop in either state.
func (s *Service) DeleteStop(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return err
		}
		s.logger.Error("failed to delete stop", zap.String("id", id), zap.Error(err))
		return fmt.Errorf("delete stop: %w", err)
	}
	return nil
}

// find looks the stop up in the snapshot first and falls back to the store
// for writes the subscription has not delivered yet.
func (s *Service) find(ctx context.Context, id string) (models.StopRecord, error) {
	byID := func(r models.StopRecord) bool { return r.ID == id }

	if stop, ok := lo.Find(s.snapshots.Snapshot().Stops, byID); ok {
		return stop, nil
	}

	all, err := s.store.List(ctx)
	if err != nil {
		return models.StopRecord{}, fmt.Errorf("list stops: %w", err)
	}
	stop, ok := lo.Find(all, byID)
	if !ok {
		return models.StopRecord{}, models.ErrNotFound
	}
	return stop, nil
}
