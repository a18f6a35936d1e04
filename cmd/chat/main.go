package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/alecthomas/kong"
	"github.com/w-h-a/demo/chat"
	"github.com/w-h-a/demo/config"
	"github.com/w-h-a/demo/generator"
	anthropicgenerator "github.com/w-h-a/demo/generator/anthropic"
	googlegenerator "github.com/w-h-a/demo/generator/google"
	openaigenerator "github.com/w-h-a/demo/generator/openai"
)

const banner = "Simple Chat with GPT-3.5-Turbo. Type 'exit' to quit."

var cfg config.Chat

type newGenerator func(opts ...generator.Option) generator.Generator

var providers = map[string]newGenerator{
	"openai":    openaigenerator.NewGenerator,
	"anthropic": anthropicgenerator.NewGenerator,
	"google":    googlegenerator.NewGenerator,
}

func main() {
	// Parse inputs
	parser, err := newParser(&cfg)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	_, err = parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	os.Exit(run(context.Background(), cfg, os.Stdin, os.Stdout, providers[cfg.Provider]))
}

func newParser(cfg *config.Chat) (*kong.Kong, error) {
	return kong.New(
		cfg,
		kong.Name("chat"),
		kong.Description("Single-turn console chat with a hosted completion model."),
	)
}

func run(ctx context.Context, cfg config.Chat, in io.Reader, out io.Writer, build newGenerator) int {
	if err := cfg.CheckCredential(); err != nil {
		if errors.Is(err, config.ErrMissingCredential) {
			fmt.Fprintln(out, "Error: OPENAI_API_KEY environment variable not set.")
		} else {
			fmt.Fprintf(out, "Error: %v\n", err)
		}
		return 1
	}

	// Create the completion model
	g := build(
		generator.WithApiKey(cfg.ApiKey),
		generator.WithModel(cfg.Model),
		generator.WithBaseURL(cfg.BaseURL),
	)

	loop := chat.New(
		g,
		chat.WithInput(in),
		chat.WithOutput(out),
		chat.WithBanner(banner),
	)

	if err := loop.Run(ctx); err != nil {
		fmt.Fprintf(out, "Error reading input: %v\n", err)
		return 1
	}

	return 0
}
