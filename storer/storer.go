package storer

import (
	"context"
	"errors"
)

var (
	ErrCollectionNotFound = errors.New("collection not found")
	ErrDuplicateId        = errors.New("duplicate record id")
)

type Storer interface {
	CreateCollection(ctx context.Context, name string) error
	DeleteCollection(ctx context.Context, name string) error
	Add(ctx context.Context, collection string, records []Record) error
	Search(ctx context.Context, collection string, vector []float32, limit int) ([]Record, error)
	Count(ctx context.Context, collection string) (int, error)
	Close() error
}
