// Package chat runs a console session that sends each line to a generator as
// an independent, context-free prompt.
package chat

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/w-h-a/demo/generator"
)

type Loop struct {
	options   Options
	generator generator.Generator
}

// Run reads lines until the exit command or end of input. Every other line,
// blank ones included, is sent as a prompt. Generator failures are reported
// and the session carries on; only read errors end it early.
func (l *Loop) Run(ctx context.Context) error {
	if len(l.options.Banner) > 0 {
		fmt.Fprintln(l.options.Output, l.options.Banner)
	}

	reader := bufio.NewReader(l.options.Input)

	for {
		fmt.Fprint(l.options.Output, l.options.Prompt)

		line, err := reader.ReadString('\n')
		eof := errors.Is(err, io.EOF)
		if err != nil && !eof {
			return fmt.Errorf("read input: %w", err)
		}

		if eof {
			// input ended without a newline; finish the prompt line
			fmt.Fprintln(l.options.Output)
		}

		input := strings.TrimSpace(line)

		if strings.EqualFold(input, l.options.ExitCommand) {
			fmt.Fprintln(l.options.Output, l.options.Farewell)
			return nil
		}

		// end of input with nothing typed is not a prompt
		if !eof || len(line) > 0 {
			l.turn(ctx, input)
		}

		if eof {
			fmt.Fprintln(l.options.Output, l.options.Farewell)
			return nil
		}
	}
}

func (l *Loop) turn(ctx context.Context, input string) {
	rsp, err := l.generator.Generate(ctx, input)

	switch {
	case err == nil:
		fmt.Fprintf(l.options.Output, "%s%s\n", l.options.AssistantLabel, rsp)
	case generator.IsServiceError(err):
		slog.DebugContext(ctx, "service error during turn", "error", err)
		fmt.Fprintf(l.options.Output, "An API error occurred: %v\n", err)
	default:
		slog.DebugContext(ctx, "unexpected error during turn", "error", err)
		fmt.Fprintf(l.options.Output, "An unexpected error occurred: %v\n", err)
	}
}

func New(g generator.Generator, opts ...Option) *Loop {
	if g == nil {
		panic("generator is required")
	}

	return &Loop{
		options:   NewOptions(opts...),
		generator: g,
	}
}
