package memory

import (
	"context"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/linetrack/internal/domain/models"
)

func TestNewStoreSeed(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	seeded := NewStore(true)
	products, err := seeded.Products.List(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 2)
	assert.Equal(t, "Proteinado", products[0].Name)

	members, err := seeded.TeamMembers.List(ctx)
	require.NoError(t, err)
	require.Len(t, members, 4)
	assert.Equal(t, "Ana Costa", members[0].Name)

	empty := NewStore(false)
	products, err = empty.Products.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestNameOrdering(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{name: "case is ignored", input: []string{"carla", "Bruno", "ana"}, want: []string{"ana", "Bruno", "carla"}},
		{name: "accents sort with their base letter", input: []string{"Zeca", "Álvaro", "ana", "Érica", "eduardo"}, want: []string{"Álvaro", "ana", "eduardo", "Érica", "Zeca"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx := context.Background()
			store := NewStore(false)
			for _, name := range tt.input {
				require.NoError(t, store.TeamMembers.Create(ctx, models.TeamMember{ID: gofakeit.UUID(), Name: name, Role: models.RolePackaging}))
				require.NoError(t, store.Products.Create(ctx, models.Product{ID: gofakeit.UUID(), Name: name, WeightPerBag: gofakeit.IntRange(1, 50)}))
			}

			members, err := store.TeamMembers.List(ctx)
			require.NoError(t, err)
			products, err := store.Products.List(ctx)
			require.NoError(t, err)

			var memberNames, productNames []string
			for i := range members {
				memberNames = append(memberNames, members[i].Name)
				productNames = append(productNames, products[i].Name)
			}
			assert.Equal(t, tt.want, memberNames)
			assert.Equal(t, tt.want, productNames)
		})
	}
}

func TestCollectionCRUD(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewStore(false)

	older := models.ProductionRecord{ID: "a", Date: "2024-03-10", Time: "08:00", BoxNumber: models.Box1, ProductID: "1", Quantity: 3, Timestamp: 100}
	newer := models.ProductionRecord{ID: "b", Date: "2024-03-10", Time: "09:00", BoxNumber: models.Box2, ProductID: "1", Quantity: 4, Timestamp: 200}

	require.NoError(t, store.Production.Create(ctx, older))
	require.NoError(t, store.Production.Create(ctx, newer))
	require.Error(t, store.Production.Create(ctx, older), "duplicate id")
	require.Error(t, store.Production.Create(ctx, models.ProductionRecord{}), "empty id")

	list, err := store.Production.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "b", list[0].ID, "newest first")

	require.NoError(t, store.Production.Delete(ctx, "a"))
	require.ErrorIs(t, store.Production.Delete(ctx, "a"), models.ErrNotFound)

	list, err = store.Production.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.ProductionRecord{newer}, list)
}

func TestCollectionUpdate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewStore(true)

	name := gofakeit.ProductName()
	weight := 40
	patch := models.ProductPatch{Name: &name, WeightPerBag: &weight}
	require.NoError(t, store.Products.Update(ctx, "1", patch.Fields()))

	list, err := store.Products.List(ctx)
	require.NoError(t, err)
	var updated models.Product
	for _, p := range list {
		if p.ID == "1" {
			updated = p
		}
	}
	assert.Equal(t, models.Product{ID: "1", Name: name, WeightPerBag: 40}, updated)

	require.ErrorIs(t, store.Products.Update(ctx, "missing", patch.Fields()), models.ErrNotFound)
}

func TestSubscribe(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	store := NewStore(false)

	updates, err := store.Packaging.Subscribe(ctx)
	require.NoError(t, err)

	first := <-updates
	assert.Empty(t, first)

	rec := models.PackagingRecord{ID: "p1", Date: "2024-03-10", CollaboratorID: "1", Quantity: 9, Timestamp: 1}
	require.NoError(t, store.Packaging.Create(ctx, rec))

	select {
	case list := <-updates:
		assert.Equal(t, []models.PackagingRecord{rec}, list)
	case <-time.After(time.Second):
		t.Fatal("no update delivered")
	}

	cancel()
	require.Eventually(t, func() bool {
		_, ok := <-updates
		return !ok
	}, time.Second, 10*time.Millisecond)
}

func TestStopCollection(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewStore(false)

	active := models.StopRecord{ID: "s1", Sector: models.SectorBox1, Date: "2024-03-10", StartTime: "08:00", Reason: gofakeit.Sentence(4), IsActive: true, Timestamp: 1}
	require.NoError(t, store.Stops.Create(ctx, active))

	second := active
	second.ID = "s2"
	require.ErrorIs(t, store.Stops.Create(ctx, second), models.ErrActiveStopExists)

	other := second
	other.Sector = models.SectorPackaging
	require.NoError(t, store.Stops.Create(ctx, other), "other sectors are independent")

	end := models.StopEnd{EndDate: "2024-03-10", EndTime: "08:45", Duration: 45}
	require.NoError(t, store.Stops.End(ctx, "s1", end))
	require.ErrorIs(t, store.Stops.End(ctx, "s1", models.StopEnd{EndDate: "2024-03-10", EndTime: "09:30", Duration: 90}), models.ErrStopNotActive)
	require.ErrorIs(t, store.Stops.End(ctx, "missing", end), models.ErrNotFound)

	list, err := store.Stops.List(ctx)
	require.NoError(t, err)
	var ended models.StopRecord
	for _, s := range list {
		if s.ID == "s1" {
			ended = s
		}
	}
	assert.False(t, ended.IsActive)
	assert.Equal(t, "08:45", ended.EndTime)
	assert.Equal(t, 45, ended.Minutes(), "second end must not overwrite")

	require.NoError(t, store.Stops.Create(ctx, second), "sector is free again once ended")
}
