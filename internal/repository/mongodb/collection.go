package mongodb

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/mamadbah2/linetrack/internal/domain/models"
)

// collection implements repository.Collection on a single MongoDB collection.
type collection[T any] struct {
	coll         *mongo.Collection
	sort         bson.D
	collation    *options.Collation
	pollInterval time.Duration
	logger       *zap.Logger
}

// newCollection lists documents in sort order. A non-nil collation applies to
// string keys of the sort.
func newCollection[T any](coll *mongo.Collection, sort bson.D, collation *options.Collation, pollInterval time.Duration, logger *zap.Logger) *collection[T] {
	return &collection[T]{
		coll:         coll,
		sort:         sort,
		collation:    collation,
		pollInterval: pollInterval,
		logger:       logger.With(zap.String("collection", coll.Name())),
	}
}

func (c *collection[T]) Create(ctx context.Context, doc T) error {
	if _, err := c.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert into %s: %w", c.coll.Name(), err)
	}
	return nil
}

func (c *collection[T]) Update(ctx context.Context, id string, patch models.Patch) error {
	set := bson.M{}
	for key, value := range patch {
		if key == "_id" {
			continue
		}
		set[key] = value
	}
	if len(set) == 0 {
		return nil
	}

	res, err := c.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update %s %s: %w", c.coll.Name(), id, err)
	}
	if res.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (c *collection[T]) Delete(ctx context.Context, id string) error {
	res, err := c.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete %s %s: %w", c.coll.Name(), id, err)
	}
	if res.DeletedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (c *collection[T]) List(ctx context.Context) ([]T, error) {
	opts := options.Find().SetSort(c.sort)
	if c.collation != nil {
		opts.SetCollation(c.collation)
	}
	cursor, err := c.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", c.coll.Name(), err)
	}

	out := make([]T, 0)
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", c.coll.Name(), err)
	}
	return out, nil
}

// Subscribe sends the current collection, then a fresh list after every
// change-stream event. Standalone servers have no change streams, in which
// case the collection is polled.
func (c *collection[T]) Subscribe(ctx context.Context) (<-chan []T, error) {
	// The stream is opened before the first read so a write landing between
	// the two still produces an event.
	stream, err := c.coll.Watch(ctx, mongo.Pipeline{})
	if err != nil {
		c.logger.Warn("change stream unavailable, falling back to polling", zap.Error(err), zap.Duration("interval", c.pollInterval))
		stream = nil
	}

	first, err := c.List(ctx)
	if err != nil {
		c.closeStream(stream)
		return nil, err
	}

	out := make(chan []T, 1)
	out <- first

	go c.watch(ctx, stream, out, first)
	return out, nil
}

func (c *collection[T]) watch(ctx context.Context, stream *mongo.ChangeStream, out chan []T, last []T) {
	defer close(out)

	if stream == nil {
		c.poll(ctx, out, last)
		return
	}
	defer c.closeStream(stream)

	for stream.Next(ctx) {
		list, err := c.List(ctx)
		if err != nil {
			c.logger.Error("reload after change failed", zap.Error(err))
			continue
		}
		c.push(ctx, out, list)
	}

	if err := stream.Err(); err != nil && ctx.Err() == nil {
		c.logger.Error("change stream stopped, falling back to polling", zap.Error(err))
		c.poll(ctx, out, last)
	}
}

func (c *collection[T]) poll(ctx context.Context, out chan []T, last []T) {
	interval := c.pollInterval
	if interval <= 0 {
		interval = 2 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			list, err := c.List(ctx)
			if err != nil {
				c.logger.Debug("poll failed", zap.Error(err))
				continue
			}
			if reflect.DeepEqual(list, last) {
				continue
			}
			last = list
			c.push(ctx, out, list)
		}
	}
}

func (c *collection[T]) closeStream(stream *mongo.ChangeStream) {
	if stream == nil {
		return
	}
	if err := stream.Close(context.Background()); err != nil {
		c.logger.Debug("failed to close change stream", zap.Error(err))
	}
}

// push replaces an unread list with the newest one.
func (c *collection[T]) push(ctx context.Context, out chan []T, list []T) {
	select {
	case <-out:
	default:
	}
	select {
	case out <- list:
	case <-ctx.Done():
	}
}
