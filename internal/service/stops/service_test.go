package stops

import (
	"context"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/linetrack/internal/domain/models"
	"github.com/mamadbah2/linetrack/internal/repository"
	"github.com/mamadbah2/linetrack/internal/repository/memory"
)

// storeSnapshots reads stops straight from the store so tests see writes immediately.
type storeSnapshots struct {
	stops repository.StopCollection
}

func (s storeSnapshots) Snapshot() models.Snapshot {
	list, _ := s.stops.List(context.Background())
	return models.Snapshot{Stops: list}
}

// staleSnapshots never sees any stop, like a subscription that lags behind.
type staleSnapshots struct{}

func (staleSnapshots) Snapshot() models.Snapshot { return models.Snapshot{} }

type clock struct{ now time.Time }

func (c *clock) set(layout string) {
	t, err := time.ParseInLocation("2006-01-02 15:04", layout, time.UTC)
	if err != nil {
		panic(err)
	}
	c.now = t
}

func newTestService(t *testing.T, snaps func(repository.StopCollection) Snapshots) (*Service, *clock, repository.StopCollection) {
	t.Helper()

	store := memory.NewStore(false)
	c := &clock{}
	c.set("2024-03-01 08:00")

	svc := NewService(snaps(store.Stops), store.Stops, time.UTC, nil)
	svc.now = func() time.Time { return c.now }
	return svc, c, store.Stops
}

func liveSnapshots(stops repository.StopCollection) Snapshots { return storeSnapshots{stops: stops} }

func TestStartStop(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, _, store := newTestService(t, liveSnapshots)

	reason := gofakeit.Sentence(4)
	stop, err := svc.StartStop(ctx, models.StopStart{Sector: models.SectorBox1, Reason: "  " + reason + " "})
	require.NoError(t, err)

	assert.NotEmpty(t, stop.ID)
	assert.Equal(t, "2024-03-01", stop.Date)
	assert.Equal(t, "08:00", stop.StartTime)
	assert.Equal(t, reason, stop.Reason)
	assert.True(t, stop.IsActive)
	assert.Nil(t, stop.Duration)

	stored, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, stop, stored[0])
}

func TestStartStopValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		in    models.StopStart
		field string
	}{
		{name: "unknown sector", in: models.StopStart{Sector: "box3", Reason: "jam"}, field: "sector"},
		{name: "blank reason", in: models.StopStart{Sector: models.SectorBox2, Reason: "   "}, field: "reason"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc, _, _ := newTestService(t, liveSnapshots)
			_, err := svc.StartStop(context.Background(), tt.in)

			var verr *models.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestStartStopRejectsSecondActiveStopInSector(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		snaps func(repository.StopCollection) Snapshots
	}{
		{name: "seen in the snapshot", snaps: liveSnapshots},
		{name: "snapshot lagging, store rejects", snaps: func(repository.StopCollection) Snapshots { return staleSnapshots{} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx := context.Background()
			svc, _, store := newTestService(t, tt.snaps)

			_, err := svc.StartStop(ctx, models.StopStart{Sector: models.SectorPackaging, Reason: "no film"})
			require.NoError(t, err)

			_, err = svc.StartStop(ctx, models.StopStart{Sector: models.SectorPackaging, Reason: "again"})
			require.ErrorIs(t, err, models.ErrActiveStopExists)

			_, err = svc.StartStop(ctx, models.StopStart{Sector: models.SectorBox1, Reason: "other sector"})
			require.NoError(t, err)

			stored, err := store.List(ctx)
			require.NoError(t, err)
			assert.Len(t, stored, 2)
		})
	}
}

func TestEndStop(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		start       string
		end         string
		wantEndDate string
		wantEndTime string
		wantMinutes int
	}{
		{name: "same day", start: "2024-03-01 08:00", end: "2024-03-01 08:45", wantEndDate: "2024-03-01", wantEndTime: "08:45", wantMinutes: 45},
		{name: "zero length", start: "2024-03-01 08:00", end: "2024-03-01 08:00", wantEndDate: "2024-03-01", wantEndTime: "08:00", wantMinutes: 0},
		{name: "across midnight", start: "2024-03-01 23:50", end: "2024-03-02 00:20", wantEndDate: "2024-03-02", wantEndTime: "00:20", wantMinutes: 30},
		{name: "spans a whole day", start: "2024-03-01 10:00", end: "2024-03-02 10:30", wantEndDate: "2024-03-02", wantEndTime: "10:30", wantMinutes: 24*60 + 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx := context.Background()
			svc, c, store := newTestService(t, liveSnapshots)

			c.set(tt.start)
			started, err := svc.StartStop(ctx, models.StopStart{Sector: models.SectorBox2, Reason: "belt"})
			require.NoError(t, err)

			c.set(tt.end)
			ended, err := svc.EndStop(ctx, started.ID)
			require.NoError(t, err)

			assert.False(t, ended.IsActive)
			assert.Equal(t, tt.wantEndDate, ended.EndDate)
			assert.Equal(t, tt.wantEndTime, ended.EndTime)
			require.NotNil(t, ended.Duration)
			assert.Equal(t, tt.wantMinutes, *ended.Duration)

			stored, err := store.List(ctx)
			require.NoError(t, err)
			require.Len(t, stored, 1)
			assert.Equal(t, ended, stored[0])
		})
	}
}

func TestEndStopWithLaggingSnapshotUsesStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, c, _ := newTestService(t, func(repository.StopCollection) Snapshots { return staleSnapshots{} })

	started, err := svc.StartStop(ctx, models.StopStart{Sector: models.SectorBox1, Reason: "jam"})
	require.NoError(t, err)

	c.set("2024-03-01 08:10")
	ended, err := svc.EndStop(ctx, started.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, ended.Minutes())
}

func TestEndStopErrors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("unknown id", func(t *testing.T) {
		t.Parallel()
		svc, _, _ := newTestService(t, liveSnapshots)
		_, err := svc.EndStop(ctx, "missing")
		require.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("already ended keeps first values", func(t *testing.T) {
		t.Parallel()
		svc, c, store := newTestService(t, liveSnapshots)

		started, err := svc.StartStop(ctx, models.StopStart{Sector: models.SectorBox1, Reason: "jam"})
		require.NoError(t, err)
		c.set("2024-03-01 08:20")
		_, err = svc.EndStop(ctx, started.ID)
		require.NoError(t, err)

		c.set("2024-03-01 09:00")
		_, err = svc.EndStop(ctx, started.ID)
		require.ErrorIs(t, err, models.ErrStopNotActive)

		stored, err := store.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, 20, stored[0].Minutes())
		assert.Equal(t, "08:20", stored[0].EndTime)
	})

	t.Run("clock behind the start", func(t *testing.T) {
		t.Parallel()
		svc, c, store := newTestService(t, liveSnapshots)

		started, err := svc.StartStop(ctx, models.StopStart{Sector: models.SectorBox1, Reason: "jam"})
		require.NoError(t, err)
		c.set("2024-03-01 07:30")

		_, err = svc.EndStop(ctx, started.ID)
		require.ErrorIs(t, err, models.ErrInvalidStopWindow)

		stored, err := store.List(ctx)
		require.NoError(t, err)
		assert.True(t, stored[0].IsActive)
	})
}

func TestDeleteStop(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, c, store := newTestService(t, liveSnapshots)

	active, err := svc.StartStop(ctx, models.StopStart{Sector: models.SectorBox1, Reason: "jam"})
	require.NoError(t, err)
	ended, err := svc.StartStop(ctx, models.StopStart{Sector: models.SectorBox2, Reason: "belt"})
	require.NoError(t, err)
	c.set("2024-03-01 08:05")
	_, err = svc.EndStop(ctx, ended.ID)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteStop(ctx, active.ID))
	require.NoError(t, svc.DeleteStop(ctx, ended.ID))
	require.ErrorIs(t, svc.DeleteStop(ctx, active.ID), models.ErrNotFound)

	stored, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, stored)

	// the sector is free again once its active stop is gone
	_, err = svc.StartStop(ctx, models.StopStart{Sector: models.SectorBox1, Reason: "jam again"})
	require.NoError(t, err)
}
