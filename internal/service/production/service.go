// Package production records catalog entries and floor records, and answers
// dashboard and report queries from the live snapshot.
package production

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/mamadbah2/linetrack/internal/domain/models"
	"github.com/mamadbah2/linetrack/internal/repository"
	"github.com/mamadbah2/linetrack/internal/service/aggregation"
)

// Snapshots exposes the latest delivered snapshot.
type Snapshots interface {
	Snapshot() models.Snapshot
}

// Service validates and persists records and serves read models.
type Service struct {
	store     *repository.Store
	snapshots Snapshots
	loc       *time.Location
	logger    *zap.Logger
	now       func() time.Time
	newID     func() string
}

// NewService constructs the production service.
func NewService(store *repository.Store, snapshots Snapshots, loc *time.Location, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.Local
	}
	return &Service{
		store:     store,
		snapshots: snapshots,
		loc:       loc,
		logger:    logger,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// Today returns the current calendar date in the configured timezone.
func (s *Service) Today() string {
	return models.FormatDate(s.now().In(s.loc))
}

// AddProduct validates and stores a new product.
func (s *Service) AddProduct(ctx context.Context, p models.Product) (models.Product, error) {
	p.ID = s.newID()
	p.Name = strings.TrimSpace(p.Name)
	if err := p.Validate(); err != nil {
		return models.Product{}, err
	}
	if err := s.store.Products.Create(ctx, p); err != nil {
		return models.Product{}, s.storeErr("create product", err)
	}
	s.logger.Info("product added", zap.String("id", p.ID), zap.String("name", p.Name))
	return p, nil
}

// UpdateProduct applies the editable fields to an existing product.
func (s *Service) UpdateProduct(ctx context.Context, id string, patch models.ProductPatch) (models.Product, error) {
	current, ok := lo.Find(s.snapshots.Snapshot().Products, func(p models.Product) bool { return p.ID == id })
	if !ok {
		all, err := s.store.Products.List(ctx)
		if err != nil {
			return models.Product{}, s.storeErr("list products", err)
		}
		if current, ok = lo.Find(all, func(p models.Product) bool { return p.ID == id }); !ok {
			return models.Product{}, models.ErrNotFound
		}
	}

	updated := patch.Apply(current)
	if err := updated.Validate(); err != nil {
		return models.Product{}, err
	}
	fields := patch.Fields()
	if len(fields) == 0 {
		return current, nil
	}
	if err := s.store.Products.Update(ctx, id, fields); err != nil {
		return models.Product{}, s.storeErr("update product", err)
	}
	return updated, nil
}

// AddTeamMember validates and stores a collaborator.
func (s *Service) AddTeamMember(ctx context.Context, m models.TeamMember) (models.TeamMember, error) {
	m.ID = s.newID()
	m.Name = strings.TrimSpace(m.Name)
	if err := m.Validate(); err != nil {
		return models.TeamMember{}, err
	}
	if err := s.store.TeamMembers.Create(ctx, m); err != nil {
		return models.TeamMember{}, s.storeErr("create team member", err)
	}
	s.logger.Info("team member added", zap.String("id", m.ID), zap.String("role", string(m.Role)))
	return m, nil
}

// AddProductionRecord validates and stores a bagging batch.
func (s *Service) AddProductionRecord(ctx context.Context, r models.ProductionRecord) (models.ProductionRecord, error) {
	r.ID = s.newID()
	r.Observations = strings.TrimSpace(r.Observations)
	if err := r.Validate(); err != nil {
		return models.ProductionRecord{}, err
	}
	r.Timestamp = models.Millis(s.now())
	if err := s.store.Production.Create(ctx, r); err != nil {
		return models.ProductionRecord{}, s.storeErr("create production record", err)
	}
	s.logger.Debug("production recorded", zap.String("id", r.ID), zap.Int("box", int(r.BoxNumber)), zap.Int("quantity", r.Quantity))
	return r, nil
}

// AddPackagingRecord validates and stores a packaging entry.
func (s *Service) AddPackagingRecord(ctx context.Context, r models.PackagingRecord) (models.PackagingRecord, error) {
	r.ID = s.newID()
	r.ProductID = strings.TrimSpace(r.ProductID)
	if err := r.Validate(); err != nil {
		return models.PackagingRecord{}, err
	}
	r.Timestamp = models.Millis(s.now())
	if err := s.store.Packaging.Create(ctx, r); err != nil {
		return models.PackagingRecord{}, s.storeErr("create packaging record", err)
	}
	s.logger.Debug("packaging recorded", zap.String("id", r.ID), zap.String("collaborator", r.CollaboratorID), zap.Int("quantity", r.Quantity))
	return r, nil
}

// DeleteProductionRecord removes a production record by id.
func (s *Service) DeleteProductionRecord(ctx context.Context, id string) error {
	if err := s.store.Production.Delete(ctx, id); err != nil {
		return s.storeErr("delete production record", err)
	}
	return nil
}

// DeletePackagingRecord removes a packaging record by id.
func (s *Service) DeletePackagingRecord(ctx context.Context, id string) error {
	if err := s.store.Packaging.Delete(ctx, id); err != nil {
		return s.storeErr("delete packaging record", err)
	}
	return nil
}

// Products lists the catalog ordered by name.
func (s *Service) Products() []models.Product {
	return s.snapshots.Snapshot().Products
}

// TeamMembers lists collaborators ordered by name, optionally only one role.
func (s *Service) TeamMembers(role models.Role) ([]models.TeamMember, error) {
	members := s.snapshots.Snapshot().TeamMembers
	if role == "" {
		return members, nil
	}
	if !role.Valid() {
		return nil, &models.ValidationError{Field: "role", Reason: "role must be packaging or bagging"}
	}
	return lo.Filter(members, func(m models.TeamMember, _ int) bool { return m.Role == role }), nil
}

// ProductionRecords lists production records, newest first.
func (s *Service) ProductionRecords() []models.ProductionRecord {
	return s.snapshots.Snapshot().Production
}

// PackagingRecords lists packaging records, newest first.
func (s *Service) PackagingRecords() []models.PackagingRecord {
	return s.snapshots.Snapshot().Packaging
}

// StopRecords lists stops, newest first.
func (s *Service) StopRecords() []models.StopRecord {
	return s.snapshots.Snapshot().Stops
}

// ActiveStops lists the stops still in progress.
func (s *Service) ActiveStops() []models.StopRecord {
	return aggregation.ActiveStops(s.snapshots.Snapshot().Stops)
}

// Daily returns per-box totals for date, today when empty.
func (s *Service) Daily(date string) (models.DailyProduction, error) {
	date, err := s.dateOrToday(date)
	if err != nil {
		return models.DailyProduction{}, err
	}
	return aggregation.DailyProduction(date, s.snapshots.Snapshot().Production), nil
}

// Hourly returns the 24 hourly buckets for date, today when empty.
func (s *Service) Hourly(date string) ([]models.HourlyProduction, error) {
	date, err := s.dateOrToday(date)
	if err != nil {
		return nil, err
	}
	return aggregation.HourlyProduction(date, s.snapshots.Snapshot().Production), nil
}

// Dashboard returns the KPIs of date, today when empty.
func (s *Service) Dashboard(date string) (models.Dashboard, error) {
	date, err := s.dateOrToday(date)
	if err != nil {
		return models.Dashboard{}, err
	}
	return aggregation.Dashboard(date, s.snapshots.Snapshot()), nil
}

// Report builds the filtered period report against the current date.
func (s *Service) Report(req models.ReportRequest) (models.Report, error) {
	return aggregation.GenerateReport(req, s.now().In(s.loc), s.snapshots.Snapshot())
}

// ReportWithSnapshot also returns the snapshot the report was built from, so
// exporters can resolve names consistently with the totals.
func (s *Service) ReportWithSnapshot(req models.ReportRequest) (models.Report, models.Snapshot, error) {
	snap := s.snapshots.Snapshot()
	report, err := aggregation.GenerateReport(req, s.now().In(s.loc), snap)
	return report, snap, err
}

func (s *Service) dateOrToday(date string) (string, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		return s.Today(), nil
	}
	if _, err := models.ParseDate(date, s.loc); err != nil || len(date) != len(models.DateLayout) {
		return "", &models.ValidationError{Field: "date", Reason: "date must be YYYY-MM-DD"}
	}
	return date, nil
}

func (s *Service) storeErr(op string, err error) error {
	if errors.Is(err, models.ErrNotFound) {
		return err
	}
	s.logger.Error("store operation failed", zap.String("op", op), zap.Error(err))
	return fmt.Errorf("%s: %w", op, err)
}
