package mongodb

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/mamadbah2/linetrack/internal/domain/models"
	"github.com/mamadbah2/linetrack/internal/repository"
)

const (
	dailyReportsCollection = "daily_reports"
	activeStopIndex        = "one_active_stop_per_sector"
	duplicateKeyCode       = 11000
)

// nameCollation ignores case and keeps accented letters next to their base
// letter, matching the in-memory store ordering.
var nameCollation = &options.Collation{Locale: "pt", Strength: 2}

// MongoDBRepository is the MongoDB-backed Record Store and report archive.
type MongoDBRepository struct {
	client       *mongo.Client
	db           *mongo.Database
	pollInterval time.Duration
	logger       *zap.Logger
}

// NewMongoDBRepository connects, pings and prepares the indexes.
func NewMongoDBRepository(ctx context.Context, uri, dbName string, pollInterval time.Duration, logger *zap.Logger) (*MongoDBRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	disconnect := func() {
		if derr := client.Disconnect(context.Background()); derr != nil {
			logger.Warn("failed to disconnect after init error", zap.Error(derr))
		}
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		disconnect()
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	r := &MongoDBRepository{
		client:       client,
		db:           client.Database(dbName),
		pollInterval: pollInterval,
		logger:       logger,
	}
	if err := r.ensureIndexes(ctx); err != nil {
		disconnect()
		return nil, err
	}

	logger.Info("connected to mongodb", zap.String("database", dbName))
	return r, nil
}

// Store returns the five collections as a repository.Store.
func (r *MongoDBRepository) Store() *repository.Store {
	byName := bson.D{{Key: "name", Value: 1}}
	newest := bson.D{{Key: "timestamp", Value: -1}, {Key: "_id", Value: 1}}

	return &repository.Store{
		Products:    newCollection[models.Product](r.coll(models.CollectionProducts), byName, nameCollation, r.pollInterval, r.logger),
		TeamMembers: newCollection[models.TeamMember](r.coll(models.CollectionTeamMembers), byName, nameCollation, r.pollInterval, r.logger),
		Production:  newCollection[models.ProductionRecord](r.coll(models.CollectionProduction), newest, nil, r.pollInterval, r.logger),
		Packaging:   newCollection[models.PackagingRecord](r.coll(models.CollectionPackaging), newest, nil, r.pollInterval, r.logger),
		Stops: &stopCollection{
			collection: newCollection[models.StopRecord](r.coll(models.CollectionStops), newest, nil, r.pollInterval, r.logger),
		},
	}
}

// Seed installs the default catalog and team when both collections are empty.
func (r *MongoDBRepository) Seed(ctx context.Context) error {
	products := r.coll(models.CollectionProducts)
	members := r.coll(models.CollectionTeamMembers)

	count, err := products.CountDocuments(ctx, bson.D{})
	if err != nil {
		return fmt.Errorf("count products: %w", err)
	}
	memberCount, err := members.CountDocuments(ctx, bson.D{})
	if err != nil {
		return fmt.Errorf("count team members: %w", err)
	}
	if count > 0 || memberCount > 0 {
		return nil
	}

	docs := make([]any, 0)
	for _, p := range models.DefaultProducts() {
		docs = append(docs, p)
	}
	if _, err := products.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("seed products: %w", err)
	}

	docs = docs[:0]
	for _, m := range models.DefaultTeam() {
		docs = append(docs, m)
	}
	if _, err := members.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("seed team members: %w", err)
	}

	r.logger.Info("seeded default products and team")
	return nil
}

// SaveDailyReport upserts the daily report snapshot keyed by its date.
func (r *MongoDBRepository) SaveDailyReport(ctx context.Context, report models.DailyReport) error {
	collection := r.db.Collection(dailyReportsCollection)
	_, err := collection.ReplaceOne(ctx, bson.M{"_id": report.Date}, report, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert daily report: %w", err)
	}
	return nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

func (r *MongoDBRepository) coll(name models.Collection) *mongo.Collection {
	return r.db.Collection(string(name))
}

func (r *MongoDBRepository) ensureIndexes(ctx context.Context) error {
	indexes := map[models.Collection][]mongo.IndexModel{
		models.CollectionProducts:    {nameIndex()},
		models.CollectionTeamMembers: {nameIndex(), {Keys: bson.D{{Key: "role", Value: 1}}}},
		models.CollectionProduction: {
			{Keys: bson.D{{Key: "timestamp", Value: -1}}},
			{Keys: bson.D{{Key: "date", Value: 1}, {Key: "boxNumber", Value: 1}}},
		},
		models.CollectionPackaging: {
			{Keys: bson.D{{Key: "timestamp", Value: -1}}},
			{Keys: bson.D{{Key: "date", Value: 1}, {Key: "collaboratorId", Value: 1}}},
		},
		models.CollectionStops: {
			{Keys: bson.D{{Key: "timestamp", Value: -1}}},
			{Keys: bson.D{{Key: "date", Value: 1}}},
			{
				// At most one active stop per sector, enforced by the server.
				Keys: bson.D{{Key: "sector", Value: 1}},
				Options: options.Index().
					SetName(activeStopIndex).
					SetUnique(true).
					SetPartialFilterExpression(bson.M{"isActive": true}),
			},
		},
	}

	for name, specs := range indexes {
		if _, err := r.coll(name).Indexes().CreateMany(ctx, specs); err != nil {
			return fmt.Errorf("create %s indexes: %w", name, err)
		}
	}
	return nil
}

func nameIndex() mongo.IndexModel {
	return mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetName("name_pt").SetCollation(nameCollation),
	}
}

type stopCollection struct {
	*collection[models.StopRecord]
}

// Create maps a violation of the active-sector index to ErrActiveStopExists.
// Other duplicate keys, such as a reused _id, are returned as they are.
func (s *stopCollection) Create(ctx context.Context, doc models.StopRecord) error {
	err := s.collection.Create(ctx, doc)
	if isActiveSectorConflict(err) {
		return models.ErrActiveStopExists
	}
	return err
}

func isActiveSectorConflict(err error) bool {
	var we mongo.WriteException
	if !errors.As(err, &we) {
		return false
	}
	for _, e := range we.WriteErrors {
		if e.Code == duplicateKeyCode && strings.Contains(e.Message, activeStopIndex) {
			return true
		}
	}
	return false
}

// End applies the transition only if the stop is still active.
func (s *stopCollection) End(ctx context.Context, id string, end models.StopEnd) error {
	res, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": id, "isActive": true},
		bson.M{"$set": bson.M(end.Fields())},
	)
	if err != nil {
		return fmt.Errorf("end stop %s: %w", id, err)
	}
	if res.MatchedCount > 0 {
		return nil
	}

	err = s.coll.FindOne(ctx, bson.M{"_id": id}).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("lookup stop %s: %w", id, err)
	}
	return models.ErrStopNotActive
}
