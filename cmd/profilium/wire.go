// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Profilium Contributors

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/RevanthYalamanch/Project-3-SMR/internal/config"
	"github.com/RevanthYalamanch/Project-3-SMR/internal/indexer"
	"github.com/RevanthYalamanch/Project-3-SMR/internal/provider"
	"github.com/RevanthYalamanch/Project-3-SMR/internal/provider/google"
	"github.com/RevanthYalamanch/Project-3-SMR/internal/provider/openai"
	"github.com/RevanthYalamanch/Project-3-SMR/internal/rag"
	"github.com/RevanthYalamanch/Project-3-SMR/internal/store"
	"github.com/RevanthYalamanch/Project-3-SMR/internal/store/sqlite"
	"github.com/RevanthYalamanch/Project-3-SMR/internal/vecindex"
	perr "github.com/RevanthYalamanch/Project-3-SMR/pkg/errors"
)

// loadConfig resolves the --config flag and loads configuration.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.Load(path)
}

func openStore(cfg *config.Config) (store.ProfileStore, error) {
	st, err := sqlite.NewProfileStore(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, perr.Wrapf(err, perr.CodeCLISetupFailure, "opening profile store")
	}
	return st, nil
}

// openIndex loads the vector index snapshot when one has been published.
// A missing snapshot is not an error; searches fail until one exists.
func openIndex(cfg *config.Config) (*vecindex.Index, error) {
	ix := vecindex.New()
	if _, err := os.Stat(cfg.Storage.IndexPath); err == nil {
		if err := ix.Load(cfg.Storage.IndexPath); err != nil {
			return nil, perr.Wrapf(err, perr.CodeCLISetupFailure, "loading vector index snapshot")
		}
	}
	return ix, nil
}

func newEmbedder(cfg *config.Config) (provider.Embedder, error) {
	return openai.New(openai.Config{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
	})
}

func newGenerator(cfg *config.Config) (provider.Generator, error) {
	return google.New(google.Config{
		APIKey: cfg.Generate.APIKey,
		Model:  cfg.Generate.Model,
	})
}

func newPipeline(cfg *config.Config, st store.ProfileStore, emb provider.Embedder, ix *vecindex.Index) (*indexer.Pipeline, error) {
	return indexer.New(st, emb, ix, cfg.Storage.IndexPath, cfg.Embedding.BatchSize)
}

func newOrchestrator(cfg *config.Config, st store.ProfileStore, ix *vecindex.Index, emb provider.Embedder, gen provider.Generator) (*rag.Orchestrator, error) {
	return rag.New(st, ix, emb, gen, rag.Options{
		ScopeTerms: cfg.Retrieval.ScopeTerms,
		TopK:       cfg.Retrieval.TopK,
	})
}
