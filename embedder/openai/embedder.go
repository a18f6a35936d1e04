package openai

import (
	"context"
	"net/http"

	"github.com/sashabaranov/go-openai"
	"github.com/w-h-a/demo/embedder"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type openAIEmbedder struct {
	options embedder.Options
	client  *openai.Client
}

func (e *openAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	req := openai.EmbeddingRequest{
		Input: []string{text},
		Model: openai.EmbeddingModel(e.options.Model),
	}

	if e.options.Dimensions > 0 {
		req.Dimensions = e.options.Dimensions
	}

	rsp, err := e.client.CreateEmbeddings(ctx, req)
	if err != nil {
		return nil, err
	}

	if len(rsp.Data) == 0 || len(rsp.Data[0].Embedding) == 0 {
		return nil, embedder.ErrEmptyResponse
	}

	return rsp.Data[0].Embedding, nil
}

func NewEmbedder(opts ...embedder.Option) embedder.Embedder {
	options := embedder.NewOptions(opts...)

	if len(options.Model) == 0 {
		options.Model = string(openai.SmallEmbedding3)
	}

	e := &openAIEmbedder{
		options: options,
	}

	cfg := openai.DefaultConfig(options.ApiKey)
	if len(options.BaseURL) > 0 {
		cfg.BaseURL = options.BaseURL
	}
	cfg.HTTPClient = &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}

	e.client = openai.NewClientWithConfig(cfg)

	return e
}
