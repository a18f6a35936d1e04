package config

import (
	"errors"
	"strings"
)

var ErrMissingCredential = errors.New("OPENAI_API_KEY environment variable not set")

type Index struct {
	// Store config
	Store      string `help:"Vector store backend" enum:"memory,sqlite,postgres,qdrant" default:"memory"`
	Location   string `help:"Address or path of the vector store (unused for memory)" default:""`
	StoreKey   string `help:"API key for the vector store" env:"QDRANT_API_KEY" default:""`
	Collection string `help:"Collection to create or reuse" default:"my_documents"`

	// Embedder config
	Embedder      string `help:"Embedding provider" enum:"hash,openai,google" default:"hash"`
	EmbedderKey   string `help:"API key for the embedder" env:"EMBEDDER_API_KEY" default:""`
	EmbedderModel string `help:"Model identifier for the embedder" default:""`
	Dimensions    int    `help:"Vector size; required by qdrant and the hash embedder" default:"256"`

	// Query config
	Query   string `help:"Text to search for" default:"What is the weather like?"`
	Results int    `help:"Number of nearest records to print" default:"2"`
	Cleanup bool   `help:"Delete the collection before exiting" default:"false"`
}

type Chat struct {
	Provider string `help:"Completion provider" enum:"openai,anthropic,google" default:"openai"`
	ApiKey   string `help:"API key for the completion provider" env:"OPENAI_API_KEY" default:""`
	Model    string `help:"Model identifier; empty picks the provider's default (gpt-3.5-turbo for openai)" default:""`
	BaseURL  string `help:"Override the provider endpoint" default:""`
}

// CheckCredential reports ErrMissingCredential when no key was supplied. It is
// not named Validate so that kong leaves the check to the caller.
func (c Chat) CheckCredential() error {
	if len(strings.TrimSpace(c.ApiKey)) == 0 {
		return ErrMissingCredential
	}
	return nil
}
