package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/w-h-a/demo/config"
	"github.com/w-h-a/demo/embedder"
	googleembedder "github.com/w-h-a/demo/embedder/google"
	"github.com/w-h-a/demo/embedder/hash"
	openaiembedder "github.com/w-h-a/demo/embedder/openai"
	"github.com/w-h-a/demo/storer"
	"github.com/w-h-a/demo/storer/memory"
	"github.com/w-h-a/demo/storer/postgres"
	"github.com/w-h-a/demo/storer/qdrant"
	"github.com/w-h-a/demo/storer/sqlite"
	"github.com/w-h-a/demo/vectorstore"
)

var cfg config.Index

var (
	ids = []string{"id1", "id2", "id3", "id4"}

	documents = []string{
		"The weather today is sunny and warm.",
		"The cat is sleeping soundly on the couch.",
		"This is a document about machine learning models.",
		"The sky is clear, and the birds are singing.",
	}

	metadatas = []map[string]string{
		{"source": "weather_report"},
		{"source": "home_life"},
		{"source": "technology"},
		{"source": "weather_report"},
	}
)

func main() {
	// Parse inputs
	_ = kong.Parse(&cfg)
	ctx := context.Background()

	if err := run(ctx, cfg, os.Stdout); err != nil {
		slog.ErrorContext(ctx, "index demo failed", "error", err)
		log.Fatalf("❌ %v", err)
	}
}

func run(ctx context.Context, cfg config.Index, out io.Writer) error {
	// Create embedder and store
	client := vectorstore.NewClient(newEmbedder(cfg), newStorer(cfg))
	defer client.Close()

	// Get or create the collection
	collection, err := client.GetOrCreateCollection(ctx, cfg.Collection)
	if err != nil {
		return err
	}

	// Add the records
	if err := collection.Add(ctx, ids, documents, metadatas); err != nil {
		return err
	}

	fmt.Fprintln(out, "Documents have been added to the collection.")
	fmt.Fprintln(out, "---")

	// Query
	queries := []string{cfg.Query}

	result, err := collection.Query(ctx, queries, cfg.Results)
	if err != nil {
		return err
	}

	vectorstore.Format(out, queries, result)

	if cfg.Cleanup {
		return client.DeleteCollection(ctx, cfg.Collection)
	}

	return nil
}

func newEmbedder(cfg config.Index) embedder.Embedder {
	opts := []embedder.Option{
		embedder.WithApiKey(cfg.EmbedderKey),
		embedder.WithModel(cfg.EmbedderModel),
		embedder.WithDimensions(cfg.Dimensions),
	}

	switch cfg.Embedder {
	case "openai":
		return openaiembedder.NewEmbedder(opts...)
	case "google":
		return googleembedder.NewEmbedder(opts...)
	default:
		return hash.NewEmbedder(opts...)
	}
}

func newStorer(cfg config.Index) storer.Storer {
	opts := []storer.Option{
		storer.WithLocation(cfg.Location),
		storer.WithApiKey(cfg.StoreKey),
		storer.WithVectorSize(cfg.Dimensions),
	}

	switch cfg.Store {
	case "sqlite":
		return sqlite.NewStorer(opts...)
	case "postgres":
		return postgres.NewStorer(opts...)
	case "qdrant":
		return qdrant.NewStorer(opts...)
	default:
		return memory.NewStorer(opts...)
	}
}
