// Package memory provides an in-process Record Store used by tests and by
// STORE_BACKEND=memory deployments.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/mamadbah2/linetrack/internal/domain/models"
)

type collection[T any] struct {
	name  models.Collection
	idOf  func(T) string
	less  func(a, b T) bool
	check func(items map[string]T, doc T) error

	mu     sync.RWMutex
	items  map[string]T
	subs   map[int]chan []T
	nextID int
}

func newCollection[T any](name models.Collection, idOf func(T) string, less func(a, b T) bool) *collection[T] {
	return &collection[T]{
		name:  name,
		idOf:  idOf,
		less:  less,
		items: make(map[string]T),
		subs:  make(map[int]chan []T),
	}
}

func (c *collection[T]) Create(_ context.Context, doc T) error {
	id := c.idOf(doc)
	if id == "" {
		return fmt.Errorf("%s create: empty id", c.name)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.items[id]; exists {
		return fmt.Errorf("%s create: duplicate id %s", c.name, id)
	}
	if c.check != nil {
		if err := c.check(c.items, doc); err != nil {
			return err
		}
	}
	c.items[id] = doc
	c.publishLocked()
	return nil
}

func (c *collection[T]) Update(_ context.Context, id string, patch models.Patch) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	current, ok := c.items[id]
	if !ok {
		return models.ErrNotFound
	}
	updated, err := applyPatch(current, patch)
	if err != nil {
		return fmt.Errorf("%s update: %w", c.name, err)
	}
	c.items[id] = updated
	c.publishLocked()
	return nil
}

func (c *collection[T]) Delete(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.items[id]; !ok {
		return models.ErrNotFound
	}
	delete(c.items, id)
	c.publishLocked()
	return nil
}

func (c *collection[T]) List(_ context.Context) ([]T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.orderedLocked(), nil
}

func (c *collection[T]) Subscribe(ctx context.Context) (<-chan []T, error) {
	ch := make(chan []T, 1)

	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.subs[id] = ch
	ch <- c.orderedLocked()
	c.mu.Unlock()

	go func() {
		<-ctx.Done()
		c.mu.Lock()
		delete(c.subs, id)
		close(ch)
		c.mu.Unlock()
	}()

	return ch, nil
}

// publishLocked hands every subscriber the newest list. A subscriber that has
// not consumed the previous list gets it replaced.
func (c *collection[T]) publishLocked() {
	if len(c.subs) == 0 {
		return
	}
	list := c.orderedLocked()
	for _, ch := range c.subs {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- list:
		default:
		}
	}
}

func (c *collection[T]) orderedLocked() []T {
	out := make([]T, 0, len(c.items))
	for _, item := range c.items {
		out = append(out, item)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if c.less(out[i], out[j]) {
			return true
		}
		if c.less(out[j], out[i]) {
			return false
		}
		return c.idOf(out[i]) < c.idOf(out[j])
	})
	return out
}

// applyPatch round-trips doc through BSON so patch keys match the stored field names.
func applyPatch[T any](doc T, patch models.Patch) (T, error) {
	var zero T

	raw, err := bson.Marshal(doc)
	if err != nil {
		return zero, fmt.Errorf("encode document: %w", err)
	}
	fields := bson.M{}
	if err := bson.Unmarshal(raw, &fields); err != nil {
		return zero, fmt.Errorf("decode document: %w", err)
	}
	for key, value := range patch {
		if key == "_id" {
			continue
		}
		fields[key] = value
	}

	raw, err = bson.Marshal(fields)
	if err != nil {
		return zero, fmt.Errorf("encode patched document: %w", err)
	}
	var out T
	if err := bson.Unmarshal(raw, &out); err != nil {
		return zero, fmt.Errorf("decode patched document: %w", err)
	}
	return out, nil
}
