package google

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/googleapis/gax-go/v2/apierror"
	"github.com/w-h-a/demo/generator"
	"google.golang.org/api/googleapi"
	genaiopt "google.golang.org/api/option"
)

const provider = "google"

type googleGenerator struct {
	options generator.Options
	client  *genai.Client
}

func (g *googleGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	fullPrompt := prompt
	if len(g.options.PromptPrefix) > 0 {
		fullPrompt = g.options.PromptPrefix + "\n" + prompt
	}

	model := g.client.GenerativeModel(g.options.Model)
	rsp, err := model.GenerateContent(ctx, genai.Text(fullPrompt))
	if err != nil {
		return "", classify(err)
	}

	if len(rsp.Candidates) == 0 || rsp.Candidates[0].Content == nil || len(rsp.Candidates[0].Content.Parts) == 0 {
		return "", generator.ErrEmptyResponse
	}

	var b strings.Builder
	for _, part := range rsp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}

	if b.Len() == 0 {
		return "", generator.ErrEmptyResponse
	}

	return b.String(), nil
}

func classify(err error) error {
	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) {
		code := apiErr.HTTPCode()
		if code < 0 {
			code = 0
		}
		return &generator.ServiceError{Provider: provider, StatusCode: code, Err: err}
	}

	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		return &generator.ServiceError{Provider: provider, StatusCode: gErr.Code, Err: err}
	}

	if generator.IsTransportError(err) {
		return &generator.ServiceError{Provider: provider, Err: err}
	}

	return err
}

func NewGenerator(opts ...generator.Option) generator.Generator {
	options := generator.NewOptions(opts...)

	if len(options.Model) == 0 {
		options.Model = "gemini-1.5-flash"
	}

	g := &googleGenerator{
		options: options,
	}

	clientOpts := []genaiopt.ClientOption{
		genaiopt.WithAPIKey(options.ApiKey),
	}

	if len(options.BaseURL) > 0 {
		clientOpts = append(clientOpts, genaiopt.WithEndpoint(options.BaseURL))
	}

	client, err := genai.NewClient(options.Context, clientOpts...)
	if err != nil {
		detail := "failed to initialize google generator"
		slog.ErrorContext(options.Context, detail, "error", err)
		panic(detail)
	}

	g.client = client

	return g
}
