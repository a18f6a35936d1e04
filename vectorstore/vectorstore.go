// Package vectorstore exposes named collections of text records that are
// embedded on insert and searched by nearest neighbour. Records live in a
// storer.Storer; vectors come from an embedder.Embedder.
package vectorstore

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/w-h-a/demo/embedder"
	"github.com/w-h-a/demo/storer"
)

var (
	ErrInvalidName    = errors.New("invalid collection name")
	ErrInvalidBatch   = errors.New("invalid record batch")
	ErrInvalidResults = errors.New("number of requested results must be at least 1")
)

var nameRe = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]*[a-zA-Z0-9]$`)

type collectionName struct {
	Name string `validate:"required,min=3,max=63,collection_name"`
}

type Client struct {
	embedder embedder.Embedder
	storer   storer.Storer
	validate *validator.Validate
}

// GetOrCreateCollection returns a handle to the named collection, creating it
// when it does not exist yet.
func (c *Client) GetOrCreateCollection(ctx context.Context, name string) (*Collection, error) {
	if err := c.validate.Struct(collectionName{Name: name}); err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidName, name, err)
	}

	if err := c.storer.CreateCollection(ctx, name); err != nil {
		return nil, fmt.Errorf("create collection %q: %w", name, err)
	}

	return &Collection{
		name:     name,
		embedder: c.embedder,
		storer:   c.storer,
	}, nil
}

func (c *Client) DeleteCollection(ctx context.Context, name string) error {
	if err := c.storer.DeleteCollection(ctx, name); err != nil {
		return fmt.Errorf("delete collection %q: %w", name, err)
	}
	return nil
}

func (c *Client) Close() error {
	return c.storer.Close()
}

func NewClient(e embedder.Embedder, s storer.Storer) *Client {
	if e == nil {
		panic("embedder is required")
	}

	if s == nil {
		panic("storer is required")
	}

	v := validator.New()
	if err := v.RegisterValidation("collection_name", func(fl validator.FieldLevel) bool {
		return nameRe.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}

	return &Client{
		embedder: e,
		storer:   s,
		validate: v,
	}
}
