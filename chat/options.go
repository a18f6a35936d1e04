package chat

import (
	"io"
	"os"
)

type Option func(*Options)

type Options struct {
	Input          io.Reader
	Output         io.Writer
	Banner         string
	Prompt         string
	AssistantLabel string
	ExitCommand    string
	Farewell       string
}

func WithInput(r io.Reader) Option {
	return func(o *Options) {
		o.Input = r
	}
}

func WithOutput(w io.Writer) Option {
	return func(o *Options) {
		o.Output = w
	}
}

func WithBanner(banner string) Option {
	return func(o *Options) {
		o.Banner = banner
	}
}

func WithPrompt(prompt string) Option {
	return func(o *Options) {
		o.Prompt = prompt
	}
}

func WithAssistantLabel(label string) Option {
	return func(o *Options) {
		o.AssistantLabel = label
	}
}

// WithExitCommand sets the sentinel that ends the session. It is matched
// case-insensitively after trimming whitespace.
func WithExitCommand(cmd string) Option {
	return func(o *Options) {
		o.ExitCommand = cmd
	}
}

func WithFarewell(farewell string) Option {
	return func(o *Options) {
		o.Farewell = farewell
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		Input:          os.Stdin,
		Output:         os.Stdout,
		Prompt:         "You: ",
		AssistantLabel: "Assistant: ",
		ExitCommand:    "exit",
		Farewell:       "Goodbye!",
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
