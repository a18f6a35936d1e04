package vectorstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/samber/lo"
	"github.com/w-h-a/demo/embedder"
	"github.com/w-h-a/demo/storer"
)

type Collection struct {
	name     string
	embedder embedder.Embedder
	storer   storer.Storer
}

func (c *Collection) Name() string {
	return c.name
}

// Add embeds every document and inserts the batch in one call. metadatas may be
// nil; otherwise all three slices must have the same length.
func (c *Collection) Add(ctx context.Context, ids []string, documents []string, metadatas []map[string]string) error {
	if err := validateBatch(ids, documents, metadatas); err != nil {
		return err
	}

	records := make([]storer.Record, 0, len(ids))

	for i, id := range ids {
		vec, err := c.embedder.Embed(ctx, documents[i])
		if err != nil {
			return fmt.Errorf("embed document %q: %w", id, err)
		}

		var meta map[string]string
		if metadatas != nil {
			meta = metadatas[i]
		}

		records = append(records, storer.Record{
			Id:        id,
			Document:  documents[i],
			Metadata:  storer.CopyMetadata(meta),
			Embedding: vec,
		})
	}

	if err := c.storer.Add(ctx, c.name, records); err != nil {
		return fmt.Errorf("add to collection %q: %w", c.name, err)
	}

	return nil
}

// Query runs one nearest neighbour search per query text. Result slices are
// indexed by query position.
func (c *Collection) Query(ctx context.Context, queryTexts []string, nResults int) (QueryResult, error) {
	if nResults < 1 {
		return QueryResult{}, ErrInvalidResults
	}

	result := QueryResult{
		Ids:       make([][]string, 0, len(queryTexts)),
		Documents: make([][]string, 0, len(queryTexts)),
		Metadatas: make([][]map[string]string, 0, len(queryTexts)),
		Distances: make([][]float32, 0, len(queryTexts)),
	}

	for _, text := range queryTexts {
		vec, err := c.embedder.Embed(ctx, text)
		if err != nil {
			return QueryResult{}, fmt.Errorf("embed query %q: %w", text, err)
		}

		records, err := c.storer.Search(ctx, c.name, vec, nResults)
		if err != nil {
			return QueryResult{}, fmt.Errorf("search collection %q: %w", c.name, err)
		}

		result.Ids = append(result.Ids, lo.Map(records, func(r storer.Record, _ int) string { return r.Id }))
		result.Documents = append(result.Documents, lo.Map(records, func(r storer.Record, _ int) string { return r.Document }))
		result.Metadatas = append(result.Metadatas, lo.Map(records, func(r storer.Record, _ int) map[string]string { return r.Metadata }))
		result.Distances = append(result.Distances, lo.Map(records, func(r storer.Record, _ int) float32 { return r.Distance }))
	}

	return result, nil
}

func (c *Collection) Count(ctx context.Context) (int, error) {
	n, err := c.storer.Count(ctx, c.name)
	if err != nil {
		return 0, fmt.Errorf("count collection %q: %w", c.name, err)
	}
	return n, nil
}

func validateBatch(ids []string, documents []string, metadatas []map[string]string) error {
	var errs *multierror.Error

	if len(ids) != len(documents) {
		errs = multierror.Append(errs, fmt.Errorf("got %d ids and %d documents", len(ids), len(documents)))
	}

	if metadatas != nil && len(metadatas) != len(ids) {
		errs = multierror.Append(errs, fmt.Errorf("got %d ids and %d metadatas", len(ids), len(metadatas)))
	}

	for i, id := range ids {
		if len(strings.TrimSpace(id)) == 0 {
			errs = multierror.Append(errs, fmt.Errorf("id at position %d is empty", i))
		}
	}

	for _, dup := range lo.FindDuplicates(ids) {
		errs = multierror.Append(errs, fmt.Errorf("id %q appears more than once", dup))
	}

	if err := errs.ErrorOrNil(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBatch, err)
	}

	return nil
}
