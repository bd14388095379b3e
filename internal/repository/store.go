// Package repository declares the Record Store contract shared by the MongoDB
// and in-memory backends.
package repository

import (
	"context"

	"github.com/mamadbah2/linetrack/internal/domain/models"
)

// Collection is the per-entity contract of the Record Store.
type Collection[T any] interface {
	Create(ctx context.Context, doc T) error
	Update(ctx context.Context, id string, patch models.Patch) error
	Delete(ctx context.Context, id string) error
	// List returns the full collection in its subscription order.
	List(ctx context.Context) ([]T, error)
	// Subscribe delivers the full ordered collection now and after every change,
	// until ctx is done. The channel is closed on return.
	Subscribe(ctx context.Context) (<-chan []T, error)
}

// StopCollection adds the conditional end transition to the stop collection.
type StopCollection interface {
	Collection[models.StopRecord]
	// End applies the end transition only when the stop is still active.
	// It returns models.ErrNotFound or models.ErrStopNotActive otherwise.
	End(ctx context.Context, id string, end models.StopEnd) error
}

// Store groups the five collections.
type Store struct {
	Products    Collection[models.Product]
	TeamMembers Collection[models.TeamMember]
	Production  Collection[models.ProductionRecord]
	Packaging   Collection[models.PackagingRecord]
	Stops       StopCollection
}

// ReportArchive persists nightly report snapshots.
type ReportArchive interface {
	SaveDailyReport(ctx context.Context, report models.DailyReport) error
}
