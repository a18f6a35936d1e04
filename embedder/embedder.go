package embedder

import (
	"context"
	"errors"
)

var ErrEmptyResponse = errors.New("embedder returned no vector")

type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}
