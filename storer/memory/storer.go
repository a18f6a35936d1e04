package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/w-h-a/demo/storer"
)

type collection struct {
	records []storer.Record
	ids     map[string]struct{}
}

type memoryStorer struct {
	options     storer.Options
	collections map[string]*collection
	mtx         sync.RWMutex
}

func (s *memoryStorer) CreateCollection(ctx context.Context, name string) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.collections[name]; ok {
		return nil
	}

	s.collections[name] = &collection{
		ids: map[string]struct{}{},
	}

	return nil
}

func (s *memoryStorer) DeleteCollection(ctx context.Context, name string) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.collections[name]; !ok {
		return fmt.Errorf("%w: %s", storer.ErrCollectionNotFound, name)
	}

	delete(s.collections, name)

	return nil
}

func (s *memoryStorer) Add(ctx context.Context, name string, records []storer.Record) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	c, ok := s.collections[name]
	if !ok {
		return fmt.Errorf("%w: %s", storer.ErrCollectionNotFound, name)
	}

	if err := storer.CheckUnique(records, func(id string) bool {
		_, exists := c.ids[id]
		return exists
	}); err != nil {
		return err
	}

	for _, rec := range records {
		cpy := make([]float32, len(rec.Embedding))
		copy(cpy, rec.Embedding)

		c.records = append(c.records, storer.Record{
			Id:        rec.Id,
			Document:  rec.Document,
			Metadata:  storer.CopyMetadata(rec.Metadata),
			Embedding: cpy,
		})
		c.ids[rec.Id] = struct{}{}
	}

	return nil
}

func (s *memoryStorer) Search(ctx context.Context, name string, vector []float32, limit int) ([]storer.Record, error) {
	if limit < 1 {
		return nil, nil
	}

	s.mtx.RLock()
	defer s.mtx.RUnlock()

	c, ok := s.collections[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", storer.ErrCollectionNotFound, name)
	}

	ranked := storer.Rank(c.records, vector, limit)

	for i := range ranked {
		ranked[i].Metadata = storer.CopyMetadata(ranked[i].Metadata)

		embedding := make([]float32, len(ranked[i].Embedding))
		copy(embedding, ranked[i].Embedding)
		ranked[i].Embedding = embedding
	}

	return ranked, nil
}

func (s *memoryStorer) Count(ctx context.Context, name string) (int, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	c, ok := s.collections[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s", storer.ErrCollectionNotFound, name)
	}

	return len(c.records), nil
}

func (s *memoryStorer) Close() error {
	return nil
}

func NewStorer(opts ...storer.Option) storer.Storer {
	options := storer.NewOptions(opts...)

	s := &memoryStorer{
		options:     options,
		collections: map[string]*collection{},
		mtx:         sync.RWMutex{},
	}

	return s
}
