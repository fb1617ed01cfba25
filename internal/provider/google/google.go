// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Profilium Contributors

package google

import (
	"context"
	"strings"

	"google.golang.org/genai"

	"github.com/RevanthYalamanch/Project-3-SMR/internal/provider"
	perr "github.com/RevanthYalamanch/Project-3-SMR/pkg/errors"
)

// DefaultModel is the generation model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

// Config holds Google generator configuration.
type Config struct {
	APIKey string
	Model  string
}

// Generator implements provider.Generator using the Google Gemini API.
type Generator struct {
	client *genai.Client
	config Config
	health *provider.HealthTracker
}

var _ provider.Generator = (*Generator)(nil)

// New creates a new Google generator. Returns an error if the API key is missing.
func New(cfg Config) (*Generator, error) {
	if cfg.APIKey == "" {
		return nil, perr.New(perr.CodeProviderRequestInvalid,
			"google: missing api_key in config", perr.FieldProvider("google"))
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, perr.Wrapf(err, perr.CodeProviderUpstreamFailure, "google: creating client")
	}

	health, err := provider.NewHealthTracker(provider.DefaultHealthCooldown)
	if err != nil {
		return nil, perr.Wrapf(err, perr.CodeProviderRequestInvalid, "google: creating health tracker")
	}

	return &Generator{
		client: client,
		config: cfg,
		health: health,
	}, nil
}

func (g *Generator) Name() string { return "google" }

// Health exposes the generator's health tracker for status reporting.
func (g *Generator) Health() *provider.HealthTracker { return g.health }

// Generate produces answer text for the given prompt.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", perr.New(perr.CodeProviderRequestInvalid,
			"google: prompt is empty", perr.FieldProvider("google"))
	}

	return provider.Call(ctx, provider.DefaultRetryConfig, g.health, g.Name(),
		func(ctx context.Context) (string, error) {
			resp, err := g.client.Models.GenerateContent(ctx, g.config.Model,
				genai.Text(prompt), nil)
			if err != nil {
				return "", err
			}

			text := resp.Text()
			if strings.TrimSpace(text) == "" {
				return "", perr.New(perr.CodeProviderUpstreamFailure,
					"google: model returned empty response", perr.FieldProvider("google"))
			}
			return text, nil
		})
}
