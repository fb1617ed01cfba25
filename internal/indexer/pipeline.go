// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Profilium Contributors

// Package indexer rebuilds the vector index from current profile store
// contents. The rebuild is wholesale: the previous on-disk snapshot is
// discarded, never merged. Callers are expected to avoid concurrent
// store writers during a run; the store's per-operation atomicity does
// not extend across the multiple reads a run performs.
package indexer

import (
	"context"
	"log/slog"

	"github.com/RevanthYalamanch/Project-3-SMR/internal/provider"
	"github.com/RevanthYalamanch/Project-3-SMR/internal/store"
	"github.com/RevanthYalamanch/Project-3-SMR/internal/vecindex"
	perr "github.com/RevanthYalamanch/Project-3-SMR/pkg/errors"
)

// DefaultBatchSize bounds how many profile texts go into one embedding call.
const DefaultBatchSize = 64

// Pipeline snapshots the profile store, embeds each profile's text, and
// rebuilds the vector index atomically.
type Pipeline struct {
	store     store.ProfileStore
	embedder  provider.Embedder
	index     *vecindex.Index
	path      string
	batchSize int
}

// Stats summarizes one pipeline run.
type Stats struct {
	Profiles   int `json:"profiles"`
	Dimensions int `json:"dimensions"`
}

// New creates a pipeline that publishes snapshots to path.
func New(st store.ProfileStore, emb provider.Embedder, ix *vecindex.Index, path string, batchSize int) (*Pipeline, error) {
	if st == nil || emb == nil || ix == nil {
		return nil, perr.New(perr.CodePipelineRunFailure, "pipeline requires a store, embedder, and index")
	}
	if path == "" {
		return nil, perr.New(perr.CodePipelineRunFailure, "pipeline requires a snapshot path")
	}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Pipeline{
		store:     st,
		embedder:  emb,
		index:     ix,
		path:      path,
		batchSize: batchSize,
	}, nil
}

// Run rebuilds and publishes the vector index. Running it twice is
// idempotent: the second run fully replaces the first snapshot.
func (p *Pipeline) Run(ctx context.Context) (Stats, error) {
	profiles, err := p.store.GetAll(ctx)
	if err != nil {
		return Stats{}, perr.Wrapf(err, perr.CodePipelineRunFailure, "snapshotting profile store")
	}
	if len(profiles) == 0 {
		return Stats{}, perr.New(perr.CodePipelineRunFailure, "no profiles to index")
	}

	slog.InfoContext(ctx, "indexing pipeline started",
		"profiles", len(profiles), "embedder", p.embedder.Name())

	entries := make([]vecindex.Entry, 0, len(profiles))
	for start := 0; start < len(profiles); start += p.batchSize {
		end := min(start+p.batchSize, len(profiles))
		batch := profiles[start:end]

		texts := make([]string, len(batch))
		for i, pr := range batch {
			texts[i] = pr.IndexText()
		}

		vectors, err := p.embedder.Embed(ctx, texts)
		if err != nil {
			return Stats{}, perr.Wrapf(err, perr.CodePipelineRunFailure, "embedding profile batch")
		}
		if len(vectors) != len(batch) {
			return Stats{}, perr.Errorf(perr.CodePipelineRunFailure,
				"embedder returned %d vectors for %d texts", len(vectors), len(batch))
		}

		for i, pr := range batch {
			entries = append(entries, vecindex.Entry{ProfileID: pr.ID, Embedding: vectors[i]})
		}
	}

	if err := p.index.Build(ctx, entries); err != nil {
		return Stats{}, perr.Wrapf(err, perr.CodePipelineRunFailure, "building vector index")
	}
	if err := p.index.Save(p.path); err != nil {
		return Stats{}, perr.Wrapf(err, perr.CodePipelineRunFailure, "publishing vector index snapshot")
	}

	stats := Stats{Profiles: len(entries), Dimensions: p.index.Dimensions()}
	slog.InfoContext(ctx, "indexing pipeline finished",
		"profiles", stats.Profiles, "dimensions", stats.Dimensions, "path", p.path)
	return stats, nil
}
