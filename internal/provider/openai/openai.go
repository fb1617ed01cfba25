// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Profilium Contributors

package openai

import (
	"context"

	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/RevanthYalamanch/Project-3-SMR/internal/provider"
	perr "github.com/RevanthYalamanch/Project-3-SMR/pkg/errors"
)

// DefaultModel is the embedding model used when none is configured.
const DefaultModel = "text-embedding-3-small"

// DefaultDimensions is the vector width of DefaultModel.
const DefaultDimensions = 1536

// Config holds OpenAI embedder configuration.
type Config struct {
	APIKey     string
	BaseURL    string // optional, useful for testing against a mock server
	Model      string
	Dimensions int
}

// Embedder implements provider.Embedder using the OpenAI Embeddings API.
type Embedder struct {
	client openaisdk.Client
	config Config
	health *provider.HealthTracker
}

var _ provider.Embedder = (*Embedder)(nil)

// New creates a new OpenAI embedder. Returns an error if the API key is missing.
func New(cfg Config) (*Embedder, error) {
	if cfg.APIKey == "" {
		return nil, perr.New(perr.CodeProviderRequestInvalid,
			"openai: missing api_key in config", perr.FieldProvider("openai"))
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Dimensions <= 0 {
		cfg.Dimensions = DefaultDimensions
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	health, err := provider.NewHealthTracker(provider.DefaultHealthCooldown)
	if err != nil {
		return nil, perr.Wrapf(err, perr.CodeProviderRequestInvalid, "openai: creating health tracker")
	}

	return &Embedder{
		client: openaisdk.NewClient(opts...),
		config: cfg,
		health: health,
	}, nil
}

func (e *Embedder) Name() string { return "openai" }

func (e *Embedder) Dimensions() int { return e.config.Dimensions }

// Health exposes the embedder's health tracker for status reporting.
func (e *Embedder) Health() *provider.HealthTracker { return e.health }

// Embed returns one vector per input text, in input order.
func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, perr.New(perr.CodeProviderRequestInvalid,
			"openai: embed input is empty", perr.FieldProvider("openai"))
	}
	for i, t := range texts {
		if t == "" {
			return nil, perr.Errorf(perr.CodeProviderRequestInvalid,
				"openai: embed input %d is empty", i)
		}
	}

	return provider.Call(ctx, provider.DefaultRetryConfig, e.health, e.Name(),
		func(ctx context.Context) ([][]float32, error) {
			resp, err := e.client.Embeddings.New(ctx, openaisdk.EmbeddingNewParams{
				Input: openaisdk.EmbeddingNewParamsInputUnion{
					OfArrayOfStrings: texts,
				},
				Model: openaisdk.EmbeddingModel(e.config.Model),
			})
			if err != nil {
				return nil, err
			}
			if len(resp.Data) != len(texts) {
				return nil, perr.Errorf(perr.CodeProviderUpstreamFailure,
					"openai: expected %d embeddings, got %d", len(texts), len(resp.Data))
			}

			out := make([][]float32, len(texts))
			for _, d := range resp.Data {
				if d.Index < 0 || int(d.Index) >= len(out) {
					return nil, perr.Errorf(perr.CodeProviderUpstreamFailure,
						"openai: embedding index %d out of range", d.Index)
				}
				vec := make([]float32, len(d.Embedding))
				for j, v := range d.Embedding {
					vec[j] = float32(v)
				}
				out[d.Index] = vec
			}
			return out, nil
		})
}
