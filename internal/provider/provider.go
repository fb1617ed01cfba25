// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Profilium Contributors

// Package provider defines the model-provider interfaces the retrieval
// pipeline depends on: embedding text into vectors and generating answer
// text from an assembled prompt. Concrete clients live in subpackages.
package provider

import (
	"context"
)

// Embedder converts text into fixed-dimension embedding vectors.
type Embedder interface {
	Name() string
	// Embed returns one vector per input text, in input order. Every
	// vector has Dimensions() elements.
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
}

// Generator produces answer text from a fully assembled prompt.
type Generator interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// Status is a point-in-time report of a provider's availability.
type Status struct {
	Name      string `json:"name"`
	Model     string `json:"model"`
	Available bool   `json:"available"`
}
