package embedder

import "context"

type Option func(*Options)

type Options struct {
	ApiKey     string
	Model      string
	BaseURL    string
	Dimensions int
	Context    context.Context
}

func WithApiKey(apiKey string) Option {
	return func(o *Options) {
		o.ApiKey = apiKey
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

func WithBaseURL(url string) Option {
	return func(o *Options) {
		o.BaseURL = url
	}
}

// WithDimensions sets the output size for providers that let the caller pick it.
func WithDimensions(n int) Option {
	return func(o *Options) {
		o.Dimensions = n
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		Context: context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
