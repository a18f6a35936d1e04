package openai

import (
	"context"
	"errors"
	"net/http"

	"github.com/sashabaranov/go-openai"
	"github.com/w-h-a/demo/generator"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const provider = "openai"

type openAIGenerator struct {
	options generator.Options
	client  *openai.Client
}

func (g *openAIGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	fullPrompt := prompt
	if len(g.options.PromptPrefix) > 0 {
		fullPrompt = g.options.PromptPrefix + "\n" + prompt
	}

	req := openai.ChatCompletionRequest{
		Model: g.options.Model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fullPrompt,
			},
		},
	}

	rsp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", classify(err)
	}

	if len(rsp.Choices) == 0 || len(rsp.Choices[0].Message.Content) == 0 {
		return "", generator.ErrEmptyResponse
	}

	return rsp.Choices[0].Message.Content, nil
}

func classify(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &generator.ServiceError{Provider: provider, StatusCode: apiErr.HTTPStatusCode, Err: err}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &generator.ServiceError{Provider: provider, StatusCode: reqErr.HTTPStatusCode, Err: err}
	}

	if generator.IsTransportError(err) {
		return &generator.ServiceError{Provider: provider, Err: err}
	}

	return err
}

func NewGenerator(opts ...generator.Option) generator.Generator {
	options := generator.NewOptions(opts...)

	if len(options.Model) == 0 {
		options.Model = openai.GPT3Dot5Turbo
	}

	g := &openAIGenerator{
		options: options,
	}

	cfg := openai.DefaultConfig(options.ApiKey)
	if len(options.BaseURL) > 0 {
		cfg.BaseURL = options.BaseURL
	}
	cfg.HTTPClient = &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}

	g.client = openai.NewClientWithConfig(cfg)

	return g
}
