package generator

import "context"

//go:generate mockgen -source=generator.go -destination=mocks/generator.go -package=mocks
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
